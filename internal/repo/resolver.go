package repo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"Mudcheck/internal/calc/treatment"
)

// Resolver answers calibration lookups for the calculators. The empty name
// and "default" select the built-in profile unless a stored profile named
// "default" overrides it.
type Resolver struct {
	Repo Repository
}

func (r *Resolver) Resolve(ctx context.Context, name string) (treatment.Calibration, error) {
	if name == "" {
		name = "default"
	}
	if r.Repo != nil {
		cal, err := r.Repo.Get(ctx, name)
		if err == nil {
			return cal, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return treatment.Calibration{}, err
		}
	}
	if name == "default" {
		return treatment.DefaultCalibration(), nil
	}
	return treatment.Calibration{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// MemoryRepository is a process-local Repository used when no database is
// configured.
type MemoryRepository struct {
	mu   sync.RWMutex
	cals map[string]treatment.Calibration
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{cals: make(map[string]treatment.Calibration)}
}

func (m *MemoryRepository) List(context.Context) ([]treatment.Calibration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]treatment.Calibration, 0, len(m.cals))
	for _, c := range m.cals {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryRepository) Get(_ context.Context, name string) (treatment.Calibration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cals[name]
	if !ok {
		return treatment.Calibration{}, ErrNotFound
	}
	return c, nil
}

func (m *MemoryRepository) Save(_ context.Context, cal treatment.Calibration) error {
	if err := cal.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cals[cal.Name] = cal
	return nil
}

// Seed saves every calibration in cals into r.
func Seed(ctx context.Context, r Repository, cals []treatment.Calibration) error {
	for _, c := range cals {
		if err := r.Save(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
