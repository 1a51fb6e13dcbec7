// Package engine is the in-process core: the multi-plan registry, the
// per-plan tree/cursor/history state machine, the lease mechanism, the
// distilled-context assembly, and the change bus. Frontends (HTTP, MCP,
// CLI) are thin translators over this package.
package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/scatterbrainlabs/scatterbrain/models"
	"github.com/scatterbrainlabs/scatterbrain/types"
)

// planEntry pairs a plan with its own lock. Operations against different
// plans run in parallel; operations against the same plan serialize.
type planEntry struct {
	mu   sync.Mutex
	plan *models.Plan
}

// Registry owns all plans, allocates IDs, and provides scoped exclusive
// access to a single plan. Lock order is always registry then plan.
type Registry struct {
	mu     sync.Mutex
	plans  map[models.PlanID]*planEntry
	bus    *Bus
	logger *slog.Logger
}

// NewRegistry returns an empty registry publishing changes on a fresh bus.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		plans:  map[models.PlanID]*planEntry{},
		bus:    NewBus(),
		logger: logger,
	}
}

// Subscribe attaches a change-bus subscriber.
func (r *Registry) Subscribe() (<-chan Event, func()) {
	return r.bus.Subscribe()
}

// CreatePlan allocates the lowest unused ID in 0..=255 and installs a new
// plan with the default level catalog.
func (r *Registry) CreatePlan(prompt string, notes *string) (models.PlanID, error) {
	if strings.TrimSpace(prompt) == "" {
		return 0, types.NewInvalidInput("prompt must not be empty")
	}
	r.mu.Lock()
	id, ok := r.lowestFreeID()
	if !ok {
		r.mu.Unlock()
		return 0, types.NewCapacityExhausted()
	}
	r.plans[id] = &planEntry{plan: models.NewPlan(prompt, notes)}
	r.mu.Unlock()

	r.bus.Publish(id)
	return id, nil
}

func (r *Registry) lowestFreeID() (models.PlanID, bool) {
	for n := 0; n <= 255; n++ {
		if _, used := r.plans[models.PlanID(n)]; !used {
			return models.PlanID(n), true
		}
	}
	return 0, false
}

// DeletePlan removes the plan and invalidates any outstanding leases.
func (r *Registry) DeletePlan(id models.PlanID) error {
	r.mu.Lock()
	entry, ok := r.plans[id]
	if !ok {
		r.mu.Unlock()
		return types.NewPlanNotFound(id.String())
	}
	// Registry lock first, then the plan lock: waits out any in-flight
	// operation before the entry disappears.
	entry.mu.Lock()
	entry.plan.Leases = map[string]models.LeaseToken{}
	entry.mu.Unlock()
	delete(r.plans, id)
	r.mu.Unlock()

	r.bus.Publish(id)
	return nil
}

// ListPlans returns the live plan IDs in ascending order.
func (r *Registry) ListPlans() []models.PlanID {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]models.PlanID, 0, len(r.plans))
	for id := range r.plans {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// withPlan runs fn with exclusive access to the plan's state. A panic
// inside fn is recovered: the state as of the panic is kept, the panic is
// logged, and the caller sees an internal error.
func (r *Registry) withPlan(id models.PlanID, fn func(p *models.Plan) error) (err error) {
	r.mu.Lock()
	entry, ok := r.plans[id]
	r.mu.Unlock()
	if !ok {
		return types.NewPlanNotFound(id.String())
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("recovered panic in plan critical section",
				"plan", id.String(), "panic", rec)
			err = types.NewInternal(fmt.Sprintf("recovered panic: %v", rec))
		}
	}()
	return fn(entry.plan)
}

// mutate runs fn under the plan lock and publishes the plan ID on the bus
// after the lock is released, but only when fn reports a state change.
func (r *Registry) mutate(id models.PlanID, fn func(p *models.Plan) (bool, error)) error {
	changed := false
	err := r.withPlan(id, func(p *models.Plan) error {
		c, ferr := fn(p)
		changed = c
		return ferr
	})
	if err != nil {
		return err
	}
	if changed {
		r.bus.Publish(id)
	}
	return nil
}
