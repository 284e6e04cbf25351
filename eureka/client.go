package eureka

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/eurekakit/discovery"
	"github.com/kbukum/eurekakit/discovery/static"
	"github.com/kbukum/eurekakit/httpclient"
	"github.com/kbukum/eurekakit/logger"
	"github.com/kbukum/eurekakit/observability"
)

// responseLogLimit caps the response body copied into log events.
const responseLogLimit = 512

// Stats is a point-in-time view of the client's lifecycle and heartbeat
// counters.
type Stats struct {
	State               State     `json:"state"`
	RegisteredAt        time.Time `json:"registered_at,omitempty"`
	HeartbeatsSent      uint64    `json:"heartbeats_sent"`
	HeartbeatFailures   uint64    `json:"heartbeat_failures"`
	ConsecutiveFailures uint64    `json:"consecutive_failures"`
	LastHeartbeat       time.Time `json:"last_heartbeat,omitempty"`
	LastHeartbeatStatus int       `json:"last_heartbeat_status,omitempty"`
	LastHeartbeatError  string    `json:"last_heartbeat_error,omitempty"`
}

// Client registers one instance with a Eureka registry, keeps its lease
// alive and resolves other services through the registry.
//
// Lifecycle operations (Register, StartHeartbeat, Start, Stop) are
// serialized. Lookups may run concurrently with each other and with the
// lifecycle.
type Client struct {
	cfg       Config
	origin    string
	transport Transport
	strategy  discovery.Strategy
	fallback  discovery.FallbackProvider
	recorder  discovery.Recorder
	cache     *discovery.Cache
	log       *logger.Logger
	metrics   *observability.RegistryMetrics

	opMu     sync.Mutex // lifecycle operations
	hbCallMu sync.Mutex // one heartbeat or deregistration on the wire at a time

	mu    sync.RWMutex
	state State
	stats Stats
	loop  *heartbeatLoop
}

type heartbeatLoop struct {
	stop chan struct{}
	done chan struct{}
}

// New validates cfg and builds a Client. No network I/O happens until
// Register or Start.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	origin, err := cfg.Origin()
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:    cfg.clone(),
		origin: origin,
		cache:  discovery.NewCache(),
		state:  StateUnregistered,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.transport == nil {
		t, err := NewHTTPTransport(c.cfg)
		if err != nil {
			return nil, fmt.Errorf("eureka: build transport: %w", err)
		}
		c.transport = t
	}
	if c.strategy == nil {
		s, err := discovery.NewStrategy(cfg.Strategy)
		if err != nil {
			return nil, err
		}
		c.strategy = s
	}
	if c.fallback == nil && len(c.cfg.Static) > 0 {
		c.fallback = static.New(c.cfg.Static)
	}
	if c.log == nil {
		c.log = logger.NewNop()
	}
	c.log = c.log.WithComponent(ComponentName)

	return c, nil
}

// Config returns a copy of the effective configuration, defaults included.
func (c *Client) Config() Config {
	return c.cfg.clone()
}

// InstanceID returns the ID this client registers under.
func (c *Client) InstanceID() string {
	return c.cfg.Instance.InstanceID
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Stats returns a snapshot of the lifecycle counters.
func (c *Client) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.State = c.state
	return s
}

func (c *Client) setState(ctx context.Context, to State) {
	c.mu.Lock()
	from := c.state
	c.state = to
	c.mu.Unlock()

	if from == to {
		return
	}
	if !canTransition(from, to) {
		c.log.Warn("unexpected state transition", logger.Fields("from", from.String(), "to", to.String()))
	} else {
		c.log.Debug("state changed", logger.Fields("from", from.String(), "to", to.String()))
	}
	c.metrics.RecordTransition(ctx, c.cfg.Instance.AppName, to.String())
}

func (c *Client) baseFields(op string) map[string]interface{} {
	return logger.Fields(
		logger.FieldApp, c.cfg.Instance.AppName,
		logger.FieldInstanceID, c.cfg.Instance.InstanceID,
		logger.FieldOperation, op,
	)
}

// callFields adds the request URL and method, and the response status and
// body summary when a response arrived.
func (c *Client) callFields(fields map[string]interface{}, method, path string, resp *httpclient.Response) map[string]interface{} {
	fields[logger.FieldMethod] = method
	fields[logger.FieldURL] = c.origin + path
	if resp != nil {
		fields[logger.FieldStatusCode] = resp.StatusCode
		if body := resp.Summary(responseLogLimit); body != "" {
			fields[logger.FieldResponse] = body
		}
	}
	return fields
}

// Register announces the instance to the registry. It is allowed from
// Unregistered and Failed. A 204 moves the client to Registered; anything
// else moves it to Failed and returns a *RegistrationError.
func (c *Client) Register(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	return c.register(ctx)
}

func (c *Client) register(ctx context.Context) error {
	if state := c.State(); state != StateUnregistered && state != StateFailed {
		return &StateError{Op: "register", State: state}
	}
	c.setState(ctx, StateRegistering)

	app := c.cfg.Instance.AppName
	ctx, op := observability.StartOperation(ctx, c.metrics, app, "register",
		attribute.String(observability.AttrInstanceID, c.cfg.Instance.InstanceID))

	path := appPath(app)
	resp, err := c.transport.Send(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   newRegistration(c.cfg),
	})

	var regErr *RegistrationError
	status := 0
	switch {
	case err != nil:
		regErr = &RegistrationError{App: app, Err: err}
	case resp.StatusCode != http.StatusNoContent:
		status = resp.StatusCode
		regErr = &RegistrationError{App: app, StatusCode: status, Body: resp.Summary(responseLogLimit)}
	default:
		status = resp.StatusCode
	}
	if regErr != nil {
		op.End(ctx, status, regErr)
	} else {
		op.End(ctx, status, nil)
	}

	fields := c.callFields(logger.MergeWithDuration(c.baseFields("register"), op.Duration()), http.MethodPost, path, resp)

	if regErr != nil {
		c.setState(ctx, StateFailed)
		fields[logger.FieldError] = regErr.Error()
		c.log.Error("registration failed", fields)
		return regErr
	}

	c.mu.Lock()
	c.stats.RegisteredAt = time.Now()
	c.mu.Unlock()
	c.setState(ctx, StateRegistered)
	c.log.Info("registered with eureka", fields)
	return nil
}

// StartHeartbeat starts the background heartbeat loop. The client must be
// Registered; calling it while the loop already runs is a no-op.
func (c *Client) StartHeartbeat() error {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	return c.startHeartbeat(context.Background())
}

func (c *Client) startHeartbeat(ctx context.Context) error {
	switch state := c.State(); state {
	case StateHeartbeatActive:
		return nil
	case StateRegistered:
	default:
		return &StateError{Op: "start heartbeat", State: state}
	}

	loop := &heartbeatLoop{stop: make(chan struct{}), done: make(chan struct{})}
	c.mu.Lock()
	c.loop = loop
	c.mu.Unlock()
	c.setState(ctx, StateHeartbeatActive)

	fields := c.baseFields("heartbeat")
	fields["interval"] = c.cfg.HeartbeatInterval.String()
	c.log.Info("heartbeat loop started", fields)

	go c.runHeartbeat(ctx, loop)
	return nil
}

// runHeartbeat sends one heartbeat per interval. The timer is re-armed only
// after the previous heartbeat returns, so calls never overlap.
func (c *Client) runHeartbeat(ctx context.Context, loop *heartbeatLoop) {
	defer close(loop.done)

	timer := time.NewTimer(c.cfg.HeartbeatInterval)
	defer timer.Stop()

	for {
		select {
		case <-loop.stop:
			return
		case <-timer.C:
		}
		select {
		case <-loop.stop:
			return
		default:
		}
		if c.State() != StateHeartbeatActive {
			return
		}
		c.Heartbeat(ctx)
		timer.Reset(c.cfg.HeartbeatInterval)
	}
}

// Heartbeat renews the lease once. It is skipped unless the client is
// Registered or HeartbeatActive. Failures are counted and logged but never
// change the lifecycle state.
func (c *Client) Heartbeat(ctx context.Context) {
	if state := c.State(); !state.IsRegistered() {
		fields := c.baseFields("heartbeat")
		fields[logger.FieldState] = state.String()
		c.log.Debug("heartbeat skipped", fields)
		return
	}

	c.hbCallMu.Lock()
	defer c.hbCallMu.Unlock()

	// Stop may have won the race for hbCallMu.
	if state := c.State(); !state.IsRegistered() {
		return
	}

	app, id := c.cfg.Instance.AppName, c.cfg.Instance.InstanceID
	ctx, op := observability.StartOperation(ctx, c.metrics, app, "heartbeat",
		attribute.String(observability.AttrInstanceID, id))

	path := instancePath(app, id)
	resp, err := c.transport.Send(ctx, httpclient.Request{
		Method: http.MethodPut,
		Path:   path,
	})

	var hbErr *heartbeatError
	status := 0
	if err != nil {
		hbErr = &heartbeatError{Err: err}
	} else {
		status = resp.StatusCode
		if status != http.StatusOK {
			hbErr = &heartbeatError{StatusCode: status}
		}
	}
	if hbErr != nil {
		op.End(ctx, status, hbErr)
	} else {
		op.End(ctx, status, nil)
	}

	fields := c.callFields(logger.MergeWithDuration(c.baseFields("heartbeat"), op.Duration()), http.MethodPut, path, resp)

	c.mu.Lock()
	c.stats.HeartbeatsSent++
	c.stats.LastHeartbeat = time.Now()
	c.stats.LastHeartbeatStatus = status
	recovered := c.stats.ConsecutiveFailures
	if hbErr != nil {
		c.stats.HeartbeatFailures++
		c.stats.ConsecutiveFailures++
		c.stats.LastHeartbeatError = hbErr.Error()
		fields["consecutive_failures"] = c.stats.ConsecutiveFailures
	} else {
		c.stats.ConsecutiveFailures = 0
		c.stats.LastHeartbeatError = ""
	}
	c.mu.Unlock()

	if hbErr != nil {
		c.metrics.AdjustHeartbeatFailures(ctx, app, 1)
		fields[logger.FieldError] = hbErr.Error()
		c.log.Error("heartbeat failed", fields)
		return
	}
	if recovered > 0 {
		c.metrics.AdjustHeartbeatFailures(ctx, app, -int64(recovered))
		fields["recovered_after"] = recovered
	}
	c.log.Info("heartbeat sent", fields)
}

// Start registers the instance and starts the heartbeat loop. It returns
// once registration has completed. The loop keeps running after ctx is
// cancelled; it ends with Stop.
func (c *Client) Start(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	if err := c.register(ctx); err != nil {
		return err
	}
	return c.startHeartbeat(context.WithoutCancel(ctx))
}

// Stop halts the heartbeat loop, waits for any heartbeat in flight and
// deregisters the instance. The client ends Deregistered even when the
// registry call fails; the failure is returned as a *DeregistrationError.
// Stop is idempotent. From Unregistered or Failed it moves straight to
// Deregistered without contacting the registry.
func (c *Client) Stop(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	state := c.state
	loop := c.loop
	c.loop = nil
	c.mu.Unlock()

	switch state {
	case StateDeregistered:
		return nil
	case StateUnregistered, StateFailed:
		c.setState(ctx, StateDeregistered)
		c.log.Info("stopped without deregistration", c.baseFields("deregister"))
		return nil
	}

	if loop != nil {
		close(loop.stop)
		<-loop.done
	}
	c.setState(ctx, StateDeregistering)

	c.hbCallMu.Lock()
	defer c.hbCallMu.Unlock()

	err := c.deregister(ctx)
	c.setState(ctx, StateDeregistered)
	return err
}

// Deregister is Stop.
func (c *Client) Deregister(ctx context.Context) error {
	return c.Stop(ctx)
}

func (c *Client) deregister(ctx context.Context) error {
	app, id := c.cfg.Instance.AppName, c.cfg.Instance.InstanceID
	ctx, op := observability.StartOperation(ctx, c.metrics, app, "deregister",
		attribute.String(observability.AttrInstanceID, id))

	path := instancePath(app, id)
	resp, err := c.transport.Send(ctx, httpclient.Request{
		Method: http.MethodDelete,
		Path:   path,
	})

	var deregErr *DeregistrationError
	status := 0
	switch {
	case err != nil:
		deregErr = &DeregistrationError{App: app, InstanceID: id, Err: err}
	case resp.StatusCode != http.StatusOK:
		status = resp.StatusCode
		deregErr = &DeregistrationError{App: app, InstanceID: id, StatusCode: status, Body: resp.Summary(responseLogLimit)}
	default:
		status = resp.StatusCode
	}
	if deregErr != nil {
		op.End(ctx, status, deregErr)
	} else {
		op.End(ctx, status, nil)
	}

	c.mu.Lock()
	pending := c.stats.ConsecutiveFailures
	c.stats.ConsecutiveFailures = 0
	c.mu.Unlock()
	if pending > 0 {
		c.metrics.AdjustHeartbeatFailures(ctx, app, -int64(pending))
	}

	fields := c.callFields(logger.MergeWithDuration(c.baseFields("deregister"), op.Duration()), http.MethodDelete, path, resp)
	if deregErr != nil {
		fields[logger.FieldError] = deregErr.Error()
		c.log.Error("deregistration failed", fields)
		return deregErr
	}
	c.log.Info("deregistered from eureka", fields)
	return nil
}

// FetchInstances returns the instances of serviceName. A cached list is
// returned without contacting the registry. On a miss the registry is
// queried; a non-empty answer is cached and passed to the recorder. When the
// registry has no answer the fallback provider is consulted, and its result
// is returned but never cached. A *InstanceLookupError is returned when
// neither produced instances.
func (c *Client) FetchInstances(ctx context.Context, serviceName string) ([]discovery.Instance, error) {
	if instances, ok := c.cache.Get(serviceName); ok {
		c.metrics.RecordLookup(ctx, serviceName, observability.SourceCache)
		return instances, nil
	}
	return c.lookup(ctx, serviceName)
}

// Refresh queries the registry for serviceName even when a list is cached.
// A successful answer replaces the cached entry; on failure the cached entry
// is kept and the fallback result, if any, is returned.
func (c *Client) Refresh(ctx context.Context, serviceName string) ([]discovery.Instance, error) {
	return c.lookup(ctx, serviceName)
}

// Invalidate drops the cached entry for serviceName.
func (c *Client) Invalidate(serviceName string) {
	c.cache.Invalidate(serviceName)
}

// CachedServices lists the service names with a cached instance list.
func (c *Client) CachedServices() []string {
	return c.cache.Names()
}

func (c *Client) lookup(ctx context.Context, serviceName string) ([]discovery.Instance, error) {
	ctx, op := observability.StartOperation(ctx, c.metrics, serviceName, "fetch")

	path := appPath(serviceName)
	resp, err := c.transport.Send(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   path,
	})

	var instances []discovery.Instance
	var fetchErr error
	status := 0
	switch {
	case err != nil:
		fetchErr = err
	case resp.StatusCode != http.StatusOK:
		status = resp.StatusCode
		fetchErr = fmt.Errorf("unexpected status %d", status)
	default:
		status = resp.StatusCode
		instances, fetchErr = decodeApplication(resp.Body)
		if fetchErr == nil && len(instances) == 0 {
			fetchErr = errNoInstanceData
		}
	}
	op.End(ctx, status, fetchErr)

	fields := c.callFields(logger.MergeWithDuration(logger.Fields(
		logger.FieldApp, serviceName,
		logger.FieldOperation, "fetch",
	), op.Duration()), http.MethodGet, path, resp)

	if fetchErr == nil {
		c.cache.Set(serviceName, instances)
		if c.recorder != nil {
			if err := c.recorder.Record(ctx, serviceName, instances); err != nil {
				fields["snapshot_error"] = err.Error()
			}
		}
		fields["instances"] = len(instances)
		c.metrics.RecordLookup(ctx, serviceName, observability.SourceRegistry)
		c.log.Info("instances fetched", fields)
		return instances, nil
	}

	fields[logger.FieldError] = fetchErr.Error()

	var fbErr error
	if c.fallback != nil {
		var fb []discovery.Instance
		fb, fbErr = c.fallback.Instances(ctx, serviceName)
		if len(fb) > 0 {
			fields["fallback"] = true
			fields["instances"] = len(fb)
			c.metrics.RecordLookup(ctx, serviceName, observability.SourceFallback)
			c.log.Warn("registry lookup failed, serving fallback instances", fields)
			return fb, nil
		}
		if fbErr != nil {
			fields["fallback_error"] = fbErr.Error()
		}
	}

	lookupErr := &InstanceLookupError{Service: serviceName, StatusCode: status, Err: errors.Join(fetchErr, fbErr)}
	c.metrics.RecordLookup(ctx, serviceName, observability.SourceNone)
	c.log.Error("no instances found", fields)
	return nil, lookupErr
}

// FetchInstance returns one instance of serviceName chosen by the selection
// strategy. Instances reporting UP are preferred when there are any.
func (c *Client) FetchInstance(ctx context.Context, serviceName string) (discovery.Instance, error) {
	instances, err := c.FetchInstances(ctx, serviceName)
	if err != nil {
		return discovery.Instance{}, err
	}

	candidates := upInstances(instances)
	if len(candidates) == 0 {
		candidates = instances
	}
	if len(candidates) == 0 {
		return discovery.Instance{}, &InstanceLookupError{Service: serviceName, Err: discovery.ErrNoInstances}
	}

	selected := c.strategy.Select(serviceName, candidates)
	c.log.Debug("instance selected", logger.Fields(
		logger.FieldApp, serviceName,
		logger.FieldInstanceID, selected.ID,
		logger.FieldOperation, "select",
		logger.FieldURL, selected.BaseURL(),
	))
	return selected, nil
}

func upInstances(instances []discovery.Instance) []discovery.Instance {
	var up []discovery.Instance
	for _, inst := range instances {
		if inst.IsUp() {
			up = append(up, inst)
		}
	}
	return up
}
