package memory

import (
	"context"

	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

var (
	_ repository.MaterialRepository = (*MaterialRepo)(nil)
	_ repository.LocationRepository = (*LocationRepo)(nil)
)

// AddMaterial registra (o reemplaza) un material del catálogo.
func (s *Store) AddMaterial(m entity.Material) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.materials[m.ID] = m
}

// AddLocation registra (o reemplaza) una ubicación del catálogo.
func (s *Store) AddLocation(l entity.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[l.ID] = l
}

// MaterialRepo catálogo de materiales en memoria.
type MaterialRepo struct{ s *Store }

func (r *MaterialRepo) GetByID(_ context.Context, id string) (*entity.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.materials[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

func (r *MaterialRepo) GetByCode(_ context.Context, code string) (*entity.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.materials {
		if m.Code == code {
			m := m
			return &m, nil
		}
	}
	return nil, domain.ErrNotFound
}

// LocationRepo catálogo de ubicaciones en memoria.
type LocationRepo struct{ s *Store }

func (r *LocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.locations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &l, nil
}
