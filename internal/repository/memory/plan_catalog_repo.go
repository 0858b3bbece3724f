// internal/repository/memory/plan_catalog_repo.go
package memory

import (
	"context"
	"sort"
	"sync"

	"esim-pricing-service/internal/domain/plan"
	xerrors "esim-pricing-service/internal/pkg/errors"
)

// PlanCatalogRepository is an in-memory plan catalog for tests and
// development mode.
type PlanCatalogRepository struct {
	mu    sync.RWMutex
	plans map[string]plan.Plan
}

func NewPlanCatalogRepository(plans ...plan.Plan) *PlanCatalogRepository {
	m := make(map[string]plan.Plan, len(plans))
	for _, p := range plans {
		m[p.PackageCode] = p
	}
	return &PlanCatalogRepository{plans: m}
}

func (r *PlanCatalogRepository) GetPlan(_ context.Context, packageCode string) (*plan.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plans[packageCode]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (r *PlanCatalogRepository) ListPlans(_ context.Context) ([]*plan.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*plan.Plan, 0, len(r.plans))
	for _, p := range r.plans {
		cp := p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PackageCode < out[j].PackageCode })
	return out, nil
}
