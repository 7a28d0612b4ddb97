package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/luno/jettison/log"
	"github.com/luno/netsim"
	"github.com/luno/netsim/api"
)

var (
	baseURL  = flag.String("url", "http://localhost/netsim", "netsim server base url")
	devices  = flag.Int("devices", 8, "number of devices to place")
	links    = flag.Int("links", 10, "number of connection attempts")
	seed     = flag.Int64("seed", time.Now().UnixNano(), "random seed for the design")
	pollFreq = flag.Duration("poll", time.Second, "snapshot poll period")
)

var deviceMix = map[api.DeviceType]int{
	api.DeviceRouter:       3,
	api.DeviceSwitch:       5,
	api.DeviceFirewall:     2,
	api.DeviceLoadBalancer: 1,
	api.DeviceProxy:        1,
}

var linkMix = map[api.ConnectionType]int{
	api.ConnEthernet: 6,
	api.ConnFiber:    3,
	api.ConnWireless: 1,
}

// buildNetwork places random devices and links them at random, the way a
// user would by clicking around the canvas.
func buildNetwork(ctx context.Context, c *netsim.Client, session string, r *rand.Rand) error {
	var snap api.Snapshot
	for i := 0; i < *devices; i++ {
		var err error
		snap, err = c.AddDevice(ctx, session, ChooseWeighted(r, deviceMix))
		if err != nil {
			return err
		}
	}
	if len(snap.Devices) < 2 {
		return nil
	}
	for i := 0; i < *links; i++ {
		a := snap.Devices[r.Intn(len(snap.Devices))]
		b := snap.Devices[r.Intn(len(snap.Devices))]
		if _, err := c.StartConnection(ctx, session, a.ID); err != nil {
			return err
		}
		// Self and duplicate links are dropped by the server.
		if _, err := c.ClickDevice(ctx, session, b.ID, ChooseWeighted(r, linkMix)); err != nil {
			return err
		}
	}
	return nil
}

func watch(ctx context.Context, c *netsim.Client, session string) error {
	ti := time.NewTicker(*pollFreq)
	defer ti.Stop()

	seen := make(map[string]bool)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ti.C:
		}
		snap, err := c.GetSession(ctx, session)
		if err != nil {
			return err
		}
		for _, a := range snap.Simulation.Alerts {
			if seen[a.ID] {
				continue
			}
			seen[a.ID] = true
			log.Info(ctx, "alert", j.MKV{"device": a.DeviceID, "message": a.Message})
		}
		log.Info(ctx, "tick", j.MKV{
			"time":   snap.Simulation.Time,
			"flows":  len(snap.Simulation.TrafficFlows),
			"alerts": len(snap.Simulation.Alerts),
		})
	}
}

func main() {
	flag.Parse()
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	c := netsim.NewClient(netsim.WithBaseURL(*baseURL))

	snap, err := c.CreateSession(ctx, nil)
	if err != nil {
		log.Error(ctx, err)
		os.Exit(1)
	}
	session := snap.SessionID
	defer func() {
		if err := c.CloseSession(context.Background(), session); err != nil {
			log.Error(ctx, err)
		}
	}()

	r := rand.New(rand.NewSource(*seed))
	if err := buildNetwork(ctx, c, session, r); err != nil {
		log.Error(ctx, err)
		return
	}
	an, err := c.Analysis(ctx, session)
	if err != nil {
		log.Error(ctx, err)
		return
	}
	log.Info(ctx, "network built", j.MKV{
		"session":  session,
		"segments": len(an.Segments),
		"spof":     len(an.SinglePointsOfFailure),
	})

	if _, err := c.StartSimulation(ctx, session); err != nil {
		log.Error(ctx, err)
		return
	}
	err = watch(ctx, c, session)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error(ctx, err)
	}
}
