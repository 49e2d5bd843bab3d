package detect

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jasonkneen/emdash/internal/core/broadcast"
	"github.com/jasonkneen/emdash/internal/core/logging"
	"github.com/jasonkneen/emdash/internal/core/provider"
	"github.com/jasonkneen/emdash/pkg/executil"
)

// Reason identifies what triggered a provider check.
type Reason string

// Check reasons. Any reason other than ReasonTimeoutRetry preempts a
// scheduled retry for the same provider.
const (
	ReasonBootstrap    Reason = "bootstrap"
	ReasonManual       Reason = "manual"
	ReasonTimeoutRetry Reason = "timeout-retry"
)

const (
	// retryDelay is how long a timed-out provider waits before its single
	// deferred re-probe.
	retryDelay = 2 * time.Second

	// retryTimeoutFloor is the minimum timeout applied to a deferred
	// re-probe; the original timeout is doubled but never below this.
	retryTimeoutFloor = 12 * time.Second
)

// CheckOptions tunes a single provider check.
type CheckOptions struct {
	Timeout time.Duration // zero means DefaultTimeout
	NoRetry bool          // disable the deferred timeout retry for this check
}

// prober abstracts the probe cascade so tests can script results.
type prober interface {
	Cascade(ctx context.Context, def provider.Definition, timeout time.Duration) provider.ProbeResult
}

// Detector coordinates probing, classification, persistence, and broadcast
// for every provider in the registry. Construct one per process with New;
// all mutable detection state lives behind its mutex.
type Detector struct {
	registry *provider.Registry
	store    provider.Store
	bus      *broadcast.Bus
	probe    prober
	log      zerolog.Logger

	mu          sync.Mutex
	initialized bool
	closed      bool
	statuses    map[string]provider.Status
	retries     map[string]*time.Timer // at most one pending retry per provider

	// Seams for tests.
	afterFunc func(time.Duration, func()) *time.Timer
	now       func() time.Time
}

// New creates a detector. The executor is the process-spawning seam; pass
// executil.RealExecutor outside of tests.
func New(registry *provider.Registry, store provider.Store, bus *broadcast.Bus, exec executil.Executor) *Detector {
	return &Detector{
		registry:  registry,
		store:     store,
		bus:       bus,
		probe:     NewProber(exec),
		log:       logging.Component("detect"),
		statuses:  make(map[string]provider.Status),
		retries:   make(map[string]*time.Timer),
		afterFunc: time.AfterFunc,
		now:       time.Now,
	}
}

// Initialize seeds the in-memory map from the store, then checks every
// provider concurrently and logs a one-line summary. Calling it a second
// time is a no-op.
func (d *Detector) Initialize(ctx context.Context) error {
	d.mu.Lock()
	if d.initialized {
		d.mu.Unlock()
		return nil
	}
	d.initialized = true
	d.mu.Unlock()

	if stored, err := d.store.GetAll(ctx); err != nil {
		d.log.Warn().Err(err).Msg("load persisted provider statuses")
	} else {
		d.mu.Lock()
		maps.Copy(d.statuses, stored)
		d.mu.Unlock()
	}

	if err := d.checkAll(ctx, ReasonBootstrap); err != nil {
		return err
	}

	var connected, notInstalled []string
	for id, st := range d.Cached() {
		if st.Code == provider.StatusConnected {
			connected = append(connected, id)
		} else {
			notInstalled = append(notInstalled, id)
		}
	}
	sort.Strings(connected)
	sort.Strings(notInstalled)
	d.log.Info().
		Strs("connected", connected).
		Strs("not_installed", notInstalled).
		Msg("provider detection complete")
	return nil
}

// Check probes a single provider, persists the resulting status, and
// broadcasts the update. Unknown ids are a silent no-op. The returned
// error is non-nil only when ctx was cancelled before the check settled.
func (d *Detector) Check(ctx context.Context, id string, reason Reason, opts CheckOptions) (provider.Status, error) {
	def, ok := d.registry.Get(id)
	if !ok {
		d.log.Debug().Str("provider", id).Msg("check requested for unknown provider")
		return provider.Status{}, nil
	}

	// A fresh check always preempts a scheduled retry for this provider.
	if reason != ReasonTimeoutRetry {
		d.cancelRetry(id)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var res provider.ProbeResult
	if len(def.Commands) > 0 {
		res = d.probe.Cascade(ctx, def, timeout)
	} else {
		res = provider.ProbeResult{Timeout: timeout}
	}
	if err := ctx.Err(); err != nil {
		return provider.Status{}, err
	}

	code := Classify(def, res)
	st := provider.Status{
		Code:      code,
		Installed: code == provider.StatusConnected || code == provider.StatusNeedsKey,
		Path:      res.Path,
		Version:   res.Version,
		Message:   Message(def, res, code),
		CheckedAt: d.now(),
	}

	d.mu.Lock()
	d.statuses[id] = st
	if reason == ReasonTimeoutRetry {
		// Completing the retried check clears the pending flag.
		delete(d.retries, id)
	}
	d.mu.Unlock()

	if err := d.store.Set(ctx, id, st); err != nil {
		d.log.Error().Err(err).Str("provider", id).Msg("persist provider status")
	}
	d.bus.Publish(provider.Event{ProviderID: id, Status: st})

	// Warn only for true errors: a path was found, yet the tool failed.
	// Routine "not installed" results stay at debug.
	if (code == provider.StatusError || code == provider.StatusNeedsKey) && res.Path != "" {
		d.log.Warn().
			Str("provider", id).
			Str("status", string(code)).
			Str("path", res.Path).
			Str("reason", string(reason)).
			Str("output", executil.Excerpt(res.Output())).
			Msg("provider check failed")
	} else {
		d.log.Debug().
			Str("provider", id).
			Str("status", string(code)).
			Str("reason", string(reason)).
			Bool("timed_out", res.TimedOut).
			Msg("provider check complete")
	}

	d.maybeScheduleRetry(id, res, opts, timeout)
	return st, nil
}

// RefreshAll re-checks every provider concurrently and returns the full
// status map once all checks have settled.
func (d *Detector) RefreshAll(ctx context.Context) (map[string]provider.Status, error) {
	if err := d.checkAll(ctx, ReasonManual); err != nil {
		return nil, err
	}
	return d.Cached(), nil
}

// Cached returns a copy of the in-memory status map. It never blocks on a
// probe and never triggers one.
func (d *Detector) Cached() map[string]provider.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]provider.Status, len(d.statuses))
	maps.Copy(out, d.statuses)
	return out
}

// Shutdown cancels every pending retry timer and stops new ones from being
// armed. In-flight checks still run to completion.
func (d *Detector) Shutdown() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	for id, t := range d.retries {
		t.Stop()
		delete(d.retries, id)
	}
}

func (d *Detector) checkAll(ctx context.Context, reason Reason) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, def := range d.registry.All() {
		g.Go(func() error {
			_, err := d.Check(gctx, def.ID, reason, CheckOptions{})
			return err
		})
	}
	return g.Wait()
}

// maybeScheduleRetry arms the single deferred re-probe for a provider whose
// probe timed out while showing partial evidence of being present (a
// resolved path or some stdout). The re-probe runs once, with a longer
// timeout and retries disabled, unless a fresh check preempts it first.
func (d *Detector) maybeScheduleRetry(id string, res provider.ProbeResult, opts CheckOptions, timeout time.Duration) {
	if opts.NoRetry || !res.TimedOut {
		return
	}
	if res.Path == "" && res.Stdout == "" {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if _, pending := d.retries[id]; pending {
		return
	}

	retryTimeout := 2 * timeout
	if retryTimeout < retryTimeoutFloor {
		retryTimeout = retryTimeoutFloor
	}

	d.log.Debug().
		Str("provider", id).
		Dur("retry_timeout", retryTimeout).
		Msg("probe timed out with partial evidence; scheduling retry")

	d.retries[id] = d.afterFunc(retryDelay, func() {
		_, _ = d.Check(context.Background(), id, ReasonTimeoutRetry, CheckOptions{
			Timeout: retryTimeout,
			NoRetry: true,
		})
	})
}

func (d *Detector) cancelRetry(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.retries[id]; ok {
		t.Stop()
		delete(d.retries, id)
	}
}

// retryPending reports whether a retry is armed for id. Test helper.
func (d *Detector) retryPending(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.retries[id]
	return ok
}
