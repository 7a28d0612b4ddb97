package config

import (
	"bytes"
	"flag"
	"os"
	"time"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/luno/netsim/api"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config", j.C("ERR_5c2e91a7f4d03b68"))

var configFile = flag.String("config", "", "path to a config yaml")

type Config struct {
	Canvas     Canvas     `yaml:"canvas"`
	Simulation Simulation `yaml:"simulation"`
	Sessions   Sessions   `yaml:"sessions"`
	Scenarios  []Scenario `yaml:"scenarios"`
}

// Sessions controls how long an untouched session is kept. A zero
// IdleTimeout keeps sessions until they are closed.
type Sessions struct {
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	SweepPeriod time.Duration `yaml:"sweep_period"`
}

type Canvas struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	DeviceSize float64 `yaml:"device_size"`
}

// Simulation holds the tunable constants of the traffic loop.
type Simulation struct {
	TickPeriod       time.Duration `yaml:"tick_period"`
	SpawnProbability float64       `yaml:"spawn_probability"`
	LoadDampening    float64       `yaml:"load_dampening"`
	LoadDecay        float64       `yaml:"load_decay"`
	WarningThreshold float64       `yaml:"warning_threshold"`
	ErrorThreshold   float64       `yaml:"error_threshold"`
	AlertWindow      int64         `yaml:"alert_window"`
	AlertCap         int           `yaml:"alert_cap"`
	// Seed selects a deterministic random source when non-zero.
	Seed int64 `yaml:"seed"`
}

type Scenario struct {
	ID            string           `yaml:"id"`
	Name          string           `yaml:"name"`
	Description   string           `yaml:"description"`
	ExpectedIssue string           `yaml:"expected_issue"`
	Hint          string           `yaml:"hint"`
	Devices       []api.Device     `yaml:"devices"`
	Connections   []api.Connection `yaml:"connections"`
}

func Default() Config {
	return Config{
		Canvas: Canvas{Width: 800, Height: 500, DeviceSize: 80},
		Simulation: Simulation{
			TickPeriod:       time.Second,
			SpawnProbability: 0.5,
			LoadDampening:    10,
			LoadDecay:        0.95,
			WarningThreshold: 70,
			ErrorThreshold:   90,
			AlertWindow:      10,
			AlertCap:         5,
		},
		Sessions: Sessions{
			IdleTimeout: time.Hour,
			SweepPeriod: time.Minute,
		},
	}
}

// Validate rejects values the simulator cannot run with.
func (c Config) Validate() error {
	s := c.Simulation
	checks := []struct {
		field string
		ok    bool
	}{
		{"canvas.width", c.Canvas.Width > 0},
		{"canvas.height", c.Canvas.Height > 0},
		{"canvas.device_size", c.Canvas.DeviceSize > 0},
		{"simulation.tick_period", s.TickPeriod > 0},
		{"simulation.spawn_probability", s.SpawnProbability >= 0 && s.SpawnProbability <= 1},
		{"simulation.load_dampening", s.LoadDampening > 0},
		{"simulation.load_decay", s.LoadDecay > 0 && s.LoadDecay <= 1},
		{"simulation.warning_threshold", s.WarningThreshold >= 0},
		{"simulation.error_threshold", s.ErrorThreshold >= s.WarningThreshold},
		{"simulation.alert_window", s.AlertWindow > 0},
		{"simulation.alert_cap", s.AlertCap >= 0},
		{"sessions.idle_timeout", c.Sessions.IdleTimeout >= 0},
		{"sessions.sweep_period", c.Sessions.SweepPeriod > 0},
	}
	for _, ch := range checks {
		if !ch.ok {
			return errors.Wrap(ErrInvalidConfig, "", j.KV("field", ch.field))
		}
	}
	return nil
}

var config = Default()

func MustLoadConfig() {
	if *configFile == "" {
		return
	}
	c, err := os.ReadFile(*configFile)
	if err != nil {
		panic(err)
	}
	config, err = decodeConfig(c)
	if err != nil {
		panic(err)
	}
}

func GetConfig() Config {
	return config
}

// decodeConfig overlays content on the defaults, so an explicit zero is
// kept as zero.
func decodeConfig(content []byte) (Config, error) {
	c := Default()
	if len(bytes.TrimSpace(content)) == 0 {
		return c, nil
	}
	d := yaml.NewDecoder(bytes.NewReader(content))
	d.KnownFields(true)
	err := d.Decode(&c)
	if err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
