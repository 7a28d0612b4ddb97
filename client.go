package netsim

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/luno/jettison/log"
	"github.com/luno/netsim/api"
	"github.com/luno/netsim/api/vizceral"
)

type Counter interface {
	Inc()
}

type Measure interface {
	Observe(secs float64)
}

type noopMetric struct{}

func (noopMetric) Inc()            {}
func (noopMetric) Observe(float64) {}

var (
	ErrNotFound   = errors.New("not found", j.C("ERR_9e14c7b2d03a58f6"))
	ErrBadRequest = errors.New("bad request", j.C("ERR_62a0f3d8c9b71e45"))

	errRetryable = errors.New("", j.C("ERR_43d3926acd268ae8"))
	errNotSent   = errors.New("request not handled", j.C("ERR_b81f06c4e297d3a5"))
)

// Client talks to a netsim server over HTTP.
type Client struct {
	baseURL    string
	cli        *http.Client
	metrics    Metrics
	reqTimeout time.Duration
	retryWait  time.Duration
}

type ClientOption func(*Client)

func WithBaseURL(url string) ClientOption {
	return func(client *Client) {
		client.baseURL = strings.TrimSuffix(url, "/")
	}
}

func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.cli = c
	}
}

func WithRequestTimeout(d time.Duration) ClientOption {
	return func(client *Client) {
		client.reqTimeout = d
	}
}

type Metrics struct {
	Requests       Counter
	RequestErrors  Counter
	RequestLatency Measure
}

func (m *Metrics) defaultUnused() {
	if m.Requests == nil {
		m.Requests = noopMetric{}
	}
	if m.RequestErrors == nil {
		m.RequestErrors = noopMetric{}
	}
	if m.RequestLatency == nil {
		m.RequestLatency = noopMetric{}
	}
}

func WithMetrics(m Metrics) ClientOption {
	return func(client *Client) {
		client.metrics = m
	}
}

func NewClient(opts ...ClientOption) *Client {
	ret := &Client{
		baseURL:    "http://localhost/netsim",
		cli:        http.DefaultClient,
		reqTimeout: 30 * time.Second,
		retryWait:  time.Second,
	}
	for _, opt := range opts {
		opt(ret)
	}
	ret.metrics.defaultUnused()
	if ret.cli == nil {
		panic("no http client specified")
	}
	return ret
}

func wrapHTTPError(err error) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*url.Error); ok {
		if op, ok := e.Err.(*net.OpError); ok && op.Op == "dial" {
			return errors.Wrap(errNotSent, err.Error())
		}
		if e.Timeout() || e.Temporary() {
			return errors.Wrap(errRetryable, err.Error())
		}
	}
	return err
}

// doRetry retries transient failures. Requests that are not idempotent are
// only retried when the server cannot have acted on them.
func (c *Client) doRetry(ctx context.Context, method, path string, body []byte, idempotent bool) ([]byte, error) {
	retryable := []error{errNotSent}
	if idempotent {
		retryable = append(retryable, context.DeadlineExceeded, errRetryable)
	}
	retries := 4
	wait := c.retryWait
	for {
		t0 := time.Now()
		c.metrics.Requests.Inc()
		resp, err := c.do(ctx, method, path, body)
		if err == nil {
			c.metrics.RequestLatency.Observe(time.Since(t0).Seconds())
			return resp, nil
		}
		c.metrics.RequestErrors.Inc()
		if !errors.IsAny(err, retryable...) || retries <= 0 {
			return nil, err
		}
		select {
		case <-time.After(wait):
			wait *= 2
			retries--
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		log.Info(ctx, "retrying request", j.MKV{"path": path})
	}
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.reqTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.cli.Do(req)
	if err != nil {
		return nil, wrapHTTPError(err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return b, nil
	case http.StatusNotFound:
		return nil, errors.Wrap(ErrNotFound, "", j.KV("path", path))
	case http.StatusBadRequest:
		return nil, errors.Wrap(ErrBadRequest, "", j.KV("path", path))
	case http.StatusServiceUnavailable:
		return nil, errors.Wrap(errNotSent, resp.Status)
	case http.StatusBadGateway, http.StatusGatewayTimeout:
		return nil, errors.Wrap(errRetryable, resp.Status)
	}
	s := strings.TrimSpace(string(b))
	return nil, errors.New("request failed", j.MKV{"status": resp.StatusCode, "response": s})
}

// call sends an idempotent request, retrying any transient failure.
func call[T any](ctx context.Context, c *Client, method, path string, req any) (T, error) {
	return send[T](ctx, c, method, path, req, true)
}

// callOnce sends a request that changes state on every delivery, such as a
// toggle or an append.
func callOnce[T any](ctx context.Context, c *Client, method, path string, req any) (T, error) {
	return send[T](ctx, c, method, path, req, false)
}

func send[T any](ctx context.Context, c *Client, method, path string, req any, idempotent bool) (T, error) {
	var ret T
	var body []byte
	if req != nil {
		b, err := json.Marshal(req)
		if err != nil {
			return ret, errors.Wrap(err, "json marshal")
		}
		body = b
	}
	b, err := c.doRetry(ctx, method, path, body, idempotent)
	if err != nil {
		return ret, err
	}
	err = json.Unmarshal(b, &ret)
	if err != nil {
		return ret, errors.Wrap(err, "json unmarshal")
	}
	return ret, nil
}

func sessionPath(session string, parts ...string) string {
	p := "/api/sessions/" + url.PathEscape(session)
	for _, s := range parts {
		p += "/" + url.PathEscape(s)
	}
	return p
}

// CreateSession opens a session seeded with devices, which may be nil.
func (c *Client) CreateSession(ctx context.Context, devices []api.Device) (api.Snapshot, error) {
	return callOnce[api.Snapshot](ctx, c, http.MethodPost, "/api/sessions",
		api.CreateSessionRequest{Devices: devices})
}

func (c *Client) GetSession(ctx context.Context, session string) (api.Snapshot, error) {
	return call[api.Snapshot](ctx, c, http.MethodGet, sessionPath(session), nil)
}

func (c *Client) CloseSession(ctx context.Context, session string) error {
	_, err := c.doRetry(ctx, http.MethodDelete, sessionPath(session), nil, true)
	return err
}

func (c *Client) AddDevice(ctx context.Context, session string, typ api.DeviceType) (api.Snapshot, error) {
	return callOnce[api.Snapshot](ctx, c, http.MethodPost, sessionPath(session, "devices"),
		api.AddDeviceRequest{Type: typ})
}

func (c *Client) RemoveDevice(ctx context.Context, session, device string) (api.Snapshot, error) {
	return call[api.Snapshot](ctx, c, http.MethodDelete, sessionPath(session, "devices", device), nil)
}

func (c *Client) ConfigureDevice(ctx context.Context, session, device string, cfg api.DeviceConfig) (api.Snapshot, error) {
	return call[api.Snapshot](ctx, c, http.MethodPost, sessionPath(session, "devices", device, "config"), cfg)
}

// OpenDeviceConfig opens the configuration panel of a device without
// changing it.
func (c *Client) OpenDeviceConfig(ctx context.Context, session, device string) (api.Snapshot, error) {
	return call[api.Snapshot](ctx, c, http.MethodPost, sessionPath(session, "devices", device, "config"), nil)
}

func (c *Client) MoveDevice(ctx context.Context, session, device string, x, y float64) (api.Snapshot, error) {
	return call[api.Snapshot](ctx, c, http.MethodPost, sessionPath(session, "devices", device, "move"),
		api.MoveRequest{X: x, Y: y})
}

func (c *Client) StartConnection(ctx context.Context, session, device string) (api.Snapshot, error) {
	return callOnce[api.Snapshot](ctx, c, http.MethodPost, sessionPath(session, "devices", device, "connect"), nil)
}

// ClickDevice clicks a device, completing a pending connection with the
// given link type. An empty type means ethernet.
func (c *Client) ClickDevice(ctx context.Context, session, device string, typ api.ConnectionType) (api.Snapshot, error) {
	p := sessionPath(session, "devices", device, "click")
	if typ != "" {
		p += "?type=" + url.QueryEscape(string(typ))
	}
	return callOnce[api.Snapshot](ctx, c, http.MethodPost, p, nil)
}

func (c *Client) PointerDown(ctx context.Context, session, device string, x, y float64) (api.Snapshot, error) {
	return callOnce[api.Snapshot](ctx, c, http.MethodPost, sessionPath(session, "pointer", "down"),
		api.PointerRequest{DeviceID: device, X: x, Y: y})
}

func (c *Client) PointerMove(ctx context.Context, session string, x, y float64) (api.Snapshot, error) {
	return call[api.Snapshot](ctx, c, http.MethodPost, sessionPath(session, "pointer", "move"),
		api.PointerRequest{X: x, Y: y})
}

func (c *Client) PointerUp(ctx context.Context, session string) (api.Snapshot, error) {
	return call[api.Snapshot](ctx, c, http.MethodPost, sessionPath(session, "pointer", "up"), nil)
}

func (c *Client) KeyPress(ctx context.Context, session, key string, shift bool) (api.Snapshot, error) {
	return callOnce[api.Snapshot](ctx, c, http.MethodPost, sessionPath(session, "keys"),
		api.KeyRequest{Key: key, Shift: shift})
}

func (c *Client) simulation(ctx context.Context, session, action string) (api.Snapshot, error) {
	p := sessionPath(session, "simulation", action)
	switch action {
	case "toggle", "step":
		return callOnce[api.Snapshot](ctx, c, http.MethodPost, p, nil)
	}
	return call[api.Snapshot](ctx, c, http.MethodPost, p, nil)
}

func (c *Client) StartSimulation(ctx context.Context, session string) (api.Snapshot, error) {
	return c.simulation(ctx, session, "start")
}

func (c *Client) StopSimulation(ctx context.Context, session string) (api.Snapshot, error) {
	return c.simulation(ctx, session, "stop")
}

func (c *Client) ToggleSimulation(ctx context.Context, session string) (api.Snapshot, error) {
	return c.simulation(ctx, session, "toggle")
}

func (c *Client) ResetSimulation(ctx context.Context, session string) (api.Snapshot, error) {
	return c.simulation(ctx, session, "reset")
}

// StepSimulation runs a single tick. It does nothing while the simulation
// is running.
func (c *Client) StepSimulation(ctx context.Context, session string) (api.Snapshot, error) {
	return c.simulation(ctx, session, "step")
}

func (c *Client) ListNetworks(ctx context.Context, session string) ([]api.SavedNetwork, error) {
	resp, err := call[api.ListNetworksResponse](ctx, c, http.MethodGet, sessionPath(session, "networks"), nil)
	if err != nil {
		return nil, err
	}
	return resp.Networks, nil
}

// SaveNetwork saves the current design and returns every saved network.
func (c *Client) SaveNetwork(ctx context.Context, session, name string) ([]api.SavedNetwork, error) {
	resp, err := callOnce[api.ListNetworksResponse](ctx, c, http.MethodPost, sessionPath(session, "networks"),
		api.SaveNetworkRequest{Name: name})
	if err != nil {
		return nil, err
	}
	return resp.Networks, nil
}

func (c *Client) LoadNetwork(ctx context.Context, session, id string) (api.Snapshot, error) {
	return call[api.Snapshot](ctx, c, http.MethodPost, sessionPath(session, "networks", id, "load"), nil)
}

func (c *Client) DeleteNetwork(ctx context.Context, session, id string) ([]api.SavedNetwork, error) {
	resp, err := call[api.ListNetworksResponse](ctx, c, http.MethodDelete, sessionPath(session, "networks", id), nil)
	if err != nil {
		return nil, err
	}
	return resp.Networks, nil
}

func (c *Client) Export(ctx context.Context, session string) (api.ExportFile, error) {
	return call[api.ExportFile](ctx, c, http.MethodGet, sessionPath(session, "export"), nil)
}

func (c *Client) Graph(ctx context.Context, session string) (vizceral.Node, error) {
	return call[vizceral.Node](ctx, c, http.MethodGet, sessionPath(session, "graph"), nil)
}

func (c *Client) Analysis(ctx context.Context, session string) (api.Analysis, error) {
	return call[api.Analysis](ctx, c, http.MethodGet, sessionPath(session, "analysis"), nil)
}

func (c *Client) ListScenarios(ctx context.Context) ([]api.Scenario, error) {
	resp, err := call[api.ListScenariosResponse](ctx, c, http.MethodGet, "/api/scenarios", nil)
	if err != nil {
		return nil, err
	}
	return resp.Scenarios, nil
}

func (c *Client) LoadScenario(ctx context.Context, session, id string) (api.Snapshot, error) {
	return call[api.Snapshot](ctx, c, http.MethodPost, sessionPath(session, "scenarios", id), nil)
}

// NudgeDevice is a convenience that selects a device by clicking it and
// moves it with arrow keys, n steps of 1 (or 10 with shift).
func (c *Client) NudgeDevice(ctx context.Context, session, device, key string, n int, shift bool) (api.Snapshot, error) {
	snap, err := c.ClickDevice(ctx, session, device, "")
	if err != nil {
		return api.Snapshot{}, err
	}
	for i := 0; i < n; i++ {
		snap, err = c.KeyPress(ctx, session, key, shift)
		if err != nil {
			return api.Snapshot{}, errors.Wrap(err, "nudge", j.KV("step", strconv.Itoa(i)))
		}
	}
	return snap, nil
}
