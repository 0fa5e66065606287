// Package memory implementación en memoria de los puertos del ledger: stock, asientos,
// catálogos y tablas de documentos para trazabilidad. Se usa en desarrollo
// (LEDGER_STORE=memory) y en los tests del motor.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/erp-ledger/internal/application/inventory"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store estado confirmado + bloqueos por clave de stock.
type Store struct {
	mu        sync.RWMutex
	stock     map[entity.StockKey]entity.StockRecord
	entries   []*entity.LedgerEntry
	sequences map[string]int
	nextID    int64

	materials    map[string]entity.Material
	locations    map[string]entity.Location
	tasks        []entity.ProductionTask
	consumptions []entity.ConsumptionRow
	inspections  []entity.InspectionRow
	parties      map[string]string

	locks *keyLocks[entity.StockKey]
}

// NewStore crea un store vacío. lockTimeout acota la espera de GetForUpdate.
func NewStore(lockTimeout time.Duration) *Store {
	return &Store{
		stock:     make(map[entity.StockKey]entity.StockRecord),
		sequences: make(map[string]int),
		materials: make(map[string]entity.Material),
		locations: make(map[string]entity.Location),
		parties:   make(map[string]string),
		locks:     newKeyLocks[entity.StockKey](lockTimeout),
	}
}

// tx cambios pendientes de una unidad de trabajo y claves que tiene bloqueadas.
type tx struct {
	held    map[entity.StockKey]struct{}
	order   []entity.StockKey
	stock   map[entity.StockKey]entity.StockRecord
	entries []*entity.LedgerEntry
}

// Run ejecuta fn con repositorios atados a una unidad de trabajo. Si fn devuelve error
// nada de lo escrito se publica; los bloqueos se liberan siempre.
func (s *Store) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	t := &tx{
		held:  make(map[entity.StockKey]struct{}),
		stock: make(map[entity.StockKey]entity.StockRecord),
	}
	defer func() {
		for i := len(t.order) - 1; i >= 0; i-- {
			s.locks.release(t.order[i])
		}
	}()

	if err := fn(&StockRepo{s: s, tx: t}, &LedgerRepo{s: s, tx: t}); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for k, rec := range t.stock {
		s.stock[k] = rec
	}
	s.entries = append(s.entries, t.entries...)
	return nil
}

func (s *Store) lock(ctx context.Context, t *tx, k entity.StockKey) error {
	if _, ok := t.held[k]; ok {
		return nil
	}
	if err := s.locks.acquire(ctx, k); err != nil {
		return err
	}
	t.held[k] = struct{}{}
	t.order = append(t.order, k)
	return nil
}

// Stock repositorio fuera de unidad de trabajo (lecturas y carga inicial).
func (s *Store) Stock() *StockRepo { return &StockRepo{s: s} }

// Ledger repositorio de asientos fuera de unidad de trabajo.
func (s *Store) Ledger() *LedgerRepo { return &LedgerRepo{s: s} }

// Materials catálogo de materiales.
func (s *Store) Materials() *MaterialRepo { return &MaterialRepo{s: s} }

// Locations catálogo de ubicaciones.
func (s *Store) Locations() *LocationRepo { return &LocationRepo{s: s} }

// Lineage consultas de trazabilidad.
func (s *Store) Lineage() *LineageRepo { return &LineageRepo{s: s} }
