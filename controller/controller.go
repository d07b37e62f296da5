// Package controller drives reconciliation: it reads desired state from the
// store, observes actual state through the runtime, and issues corrective
// create/stop operations to close the gap.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/helmsman-run/helmsman/models"
	"github.com/helmsman-run/helmsman/runtime"
	"github.com/helmsman-run/helmsman/store"
)

const (
	// DefaultInterval is the delay between reconciliation cycles.
	DefaultInterval = 10 * time.Second
	// DefaultCallTimeout bounds each individual runtime call; expiry is a
	// recoverable failure for that one corrective action.
	DefaultCallTimeout = 30 * time.Second
)

// CycleResult summarizes one reconciliation cycle.
type CycleResult struct {
	App      string `json:"app"`
	Desired  int    `json:"desired"`
	Observed int    `json:"observed"`
	Created  int    `json:"created"`
	Removed  int    `json:"removed"`
}

// Reconciler owns the reconciliation loop for one control point. It is
// Stopped until Start and Stopped again after Stop; Stop does not interrupt
// a cycle already in flight.
type Reconciler struct {
	store       *store.AppStore
	rt          runtime.ContainerRuntime
	logger      *zap.Logger
	interval    time.Duration
	callTimeout time.Duration

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	inFlight map[string]bool
}

type Option func(*Reconciler)

func WithInterval(d time.Duration) Option {
	return func(r *Reconciler) { r.interval = d }
}

func WithCallTimeout(d time.Duration) Option {
	return func(r *Reconciler) { r.callTimeout = d }
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Reconciler) { r.logger = logger }
}

func New(s *store.AppStore, rt runtime.ContainerRuntime, opts ...Option) *Reconciler {
	r := &Reconciler{
		store:       s,
		rt:          rt,
		logger:      zap.NewNop(),
		interval:    DefaultInterval,
		callTimeout: DefaultCallTimeout,
		inFlight:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Running reports whether the periodic loop is active.
func (r *Reconciler) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Start launches the periodic loop for target. The next cycle is scheduled
// only after the current one settles, so slow runtime calls can never stack
// overlapping cycles.
func (r *Reconciler) Start(target string) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("reconciliation loop already running")
	}
	r.running = true
	r.stopCh = make(chan struct{})
	stopCh := r.stopCh
	r.mu.Unlock()

	r.logger.Info("reconciliation loop started",
		zap.String("app", target), zap.Duration("interval", r.interval))

	go func() {
		for {
			// The tick path swallows failures: one bad cycle must not
			// kill the loop.
			if _, err := r.Reconcile(context.Background(), target); err != nil {
				r.logger.Warn("reconciliation cycle failed",
					zap.String("app", target), zap.Error(err))
			}
			select {
			case <-stopCh:
				return
			case <-time.After(r.interval):
			}
		}
	}()
	return nil
}

// Stop halts the periodic loop. An in-flight cycle runs to completion.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return
	}
	r.running = false
	close(r.stopCh)
	r.logger.Info("reconciliation loop stopped")
}

// Reconcile runs a single cycle for target and propagates top-level failures
// to the caller. The actual-state snapshot is taken once at the start of the
// cycle; concurrent mutations become visible only to the next cycle.
func (r *Reconciler) Reconcile(ctx context.Context, target string) (CycleResult, error) {
	if !r.acquire(target) {
		return CycleResult{}, fmt.Errorf("reconciliation for '%s' already in flight", target)
	}
	defer r.release(target)

	app, ok := r.store.GetApplication(target)
	if !ok {
		return CycleResult{}, fmt.Errorf("%w: '%s'", models.ErrApplicationNotFound, target)
	}

	containers, err := r.rt.List(ctx, models.ManagedLabels(target))
	if err != nil {
		return CycleResult{}, fmt.Errorf("%w: list containers: %v", models.ErrRuntimeUnavailable, err)
	}

	result := CycleResult{
		App:      target,
		Desired:  app.Replicas,
		Observed: len(containers),
	}

	diff := app.Replicas - len(containers)
	switch {
	case diff > 0:
		result.Created = r.scaleUp(ctx, app, diff)
	case diff < 0:
		result.Removed = r.scaleDown(ctx, containers, -diff)
	}

	if diff != 0 {
		r.logger.Info("reconciled drift",
			zap.String("app", target),
			zap.Int("desired", result.Desired),
			zap.Int("observed", result.Observed),
			zap.Int("created", result.Created),
			zap.Int("removed", result.Removed))
	}
	return result, nil
}

// scaleUp issues count create requests concurrently. Each failure is logged
// on its own and does not abort the remaining creates.
func (r *Reconciler) scaleUp(ctx context.Context, app models.Application, count int) int {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := instanceName(app.Name)

			callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
			defer cancel()
			id, err := r.rt.Create(callCtx, app.Image, name, models.ManagedLabels(app.Name))
			if err != nil {
				r.logger.Warn("create failed",
					zap.String("app", app.Name), zap.String("name", name), zap.Error(err))
				return
			}

			mu.Lock()
			created++
			mu.Unlock()
			r.logger.Debug("created container",
				zap.String("app", app.Name), zap.String("id", id))
		}()
	}
	wg.Wait()
	return created
}

// scaleDown removes exactly count containers, oldest first, sequentially so
// the selection stays deterministic and auditable.
func (r *Reconciler) scaleDown(ctx context.Context, containers []models.ManagedContainer, count int) int {
	victims := oldestFirst(containers)
	if count > len(victims) {
		count = len(victims)
	}

	removed := 0
	for _, victim := range victims[:count] {
		callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
		err := r.rt.Stop(callCtx, victim.ID)
		cancel()
		if err != nil {
			r.logger.Warn("stop failed",
				zap.String("id", victim.ID), zap.Error(err))
			continue
		}
		removed++
		r.logger.Debug("removed container", zap.String("id", victim.ID))
	}
	return removed
}

// oldestFirst orders containers by creation time, ties broken by id so the
// order is stable.
func oldestFirst(containers []models.ManagedContainer) []models.ManagedContainer {
	sorted := append([]models.ManagedContainer(nil), containers...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}

// DeployFromSpec creates app.Replicas containers unconditionally: a one-time
// bulk deploy independent of reconciliation.
func (r *Reconciler) DeployFromSpec(ctx context.Context, app models.Application) error {
	var errs []error
	for i := 0; i < app.Replicas; i++ {
		name := instanceName(app.Name)
		callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
		_, err := r.rt.Create(callCtx, app.Image, name, models.ManagedLabels(app.Name))
		cancel()
		if err != nil {
			errs = append(errs, fmt.Errorf("create %s: %w", name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", models.ErrRuntimeUnavailable, errors.Join(errs...))
	}
	return nil
}

// Status enumerates all managed containers grouped by owning application.
// Desired counts live in the store; callers cross-reference if they need
// them.
func (r *Reconciler) Status(ctx context.Context) ([]models.ApplicationStatus, error) {
	containers, err := r.rt.List(ctx, map[string]string{models.LabelManaged: models.LabelManagedValue})
	if err != nil {
		return nil, fmt.Errorf("%w: list containers: %v", models.ErrRuntimeUnavailable, err)
	}

	groups := make(map[string]*models.ApplicationStatus)
	for _, c := range containers {
		name := c.AppName()
		g, ok := groups[name]
		if !ok {
			g = &models.ApplicationStatus{Name: name, Image: c.Image}
			groups[name] = g
		}
		g.Replicas++
		g.Containers = append(g.Containers, c)
	}

	result := make([]models.ApplicationStatus, 0, len(groups))
	for _, g := range groups {
		result = append(result, *g)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// DeleteApplication stops every managed container owned by name.
func (r *Reconciler) DeleteApplication(ctx context.Context, name string) error {
	containers, err := r.rt.List(ctx, models.ManagedLabels(name))
	if err != nil {
		return fmt.Errorf("%w: list containers: %v", models.ErrRuntimeUnavailable, err)
	}

	var errs []error
	for _, c := range containers {
		callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
		err := r.rt.Stop(callCtx, c.ID)
		cancel()
		if err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", c.ID, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", models.ErrRuntimeUnavailable, errors.Join(errs...))
	}
	return nil
}

// Heal remediates one classified failure by stopping the container; the next
// reconciliation cycle recreates it. Root-cause-specific advice stays in the
// analysis text.
func (r *Reconciler) Heal(ctx context.Context, analysis models.FailureAnalysis) error {
	callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()
	if err := r.rt.Stop(callCtx, analysis.ContainerID); err != nil {
		return fmt.Errorf("%w: stop %s: %v", models.ErrRuntimeUnavailable, analysis.ContainerID, err)
	}
	r.logger.Info("healed container by removal",
		zap.String("app", analysis.AppName),
		zap.String("id", analysis.ContainerID),
		zap.String("rootCause", analysis.RootCause))
	return nil
}

func (r *Reconciler) acquire(target string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inFlight[target] {
		return false
	}
	r.inFlight[target] = true
	return true
}

func (r *Reconciler) release(target string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inFlight, target)
}

func instanceName(app string) string {
	return fmt.Sprintf("%s-%s", app, uuid.New().String()[:8])
}
