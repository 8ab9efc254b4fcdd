// Package memory implementa los puertos de persistencia en memoria para tests.
// No se usa en cmd/: sólo lo importan los tests de casos de uso y de HTTP. Respeta las mismas reglas que PostgreSQL
// (unicidad, FK, CHECK, bloqueo de fila y rollback) pero no aísla lecturas de transacciones abiertas.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/warehouse-ledger/internal/application/inventory"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu          sync.Mutex
	categories  map[int64]*entity.Category
	products    map[int64]*entity.Product
	history     []*entity.InventoryHistory
	seqCategory int64
	seqProduct  int64
	seqHistory  int64
	rowLocks    map[int64]*sync.Mutex
	now         func() time.Time
	failHistory error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		categories: map[int64]*entity.Category{},
		products:   map[int64]*entity.Product{},
		rowLocks:   map[int64]*sync.Mutex{},
		now:        time.Now,
	}
}

// SetClock reemplaza el reloj usado para created_at/updated_at.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// FailNextHistoryInsert hace fallar la próxima inserción de historial con err.
func (s *Store) FailNextHistoryInsert(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failHistory = err
}

// Categories repositorio de categorías fuera de transacción.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s: s} }

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// History repositorio del libro fuera de transacción.
func (s *Store) History() *HistoryRepo { return &HistoryRepo{s: s} }

// Reports repositorio de reportes.
func (s *Store) Reports() *ReportRepo { return &ReportRepo{s: s} }

// TxRunner unidad de trabajo sobre este almacén.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

func (s *Store) rowLock(id int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.rowLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.rowLocks[id] = l
	}
	return l
}

// tx registra bloqueos tomados y lo necesario para deshacer escrituras.
type tx struct {
	s            *Store
	locked       map[int64]*sync.Mutex
	oldQuantity  map[int64]int
	insertedHist map[int64]bool
}

func (t *tx) lock(id int64) {
	if _, ok := t.locked[id]; ok {
		return
	}
	l := t.s.rowLock(id)
	l.Lock()
	t.locked[id] = l
}

func (t *tx) release() {
	for id, l := range t.locked {
		l.Unlock()
		delete(t.locked, id)
	}
}

func (t *tx) rollback() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for id, q := range t.oldQuantity {
		if p, ok := t.s.products[id]; ok {
			p.Quantity = q
		}
	}
	if len(t.insertedHist) == 0 {
		return
	}
	kept := t.s.history[:0]
	for _, h := range t.s.history {
		if !t.insertedHist[h.ID] {
			kept = append(kept, h)
		}
	}
	t.s.history = kept
}

// TxRunner emula la transacción de PostgreSQL: bloqueos por fila hasta el final y rollback ante error o panic.
type TxRunner struct {
	s *Store
}

// Run ejecuta fn con repositorios atados a la transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	historyRepo repository.InventoryHistoryRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := &tx{s: r.s, locked: map[int64]*sync.Mutex{}, oldQuantity: map[int64]int{}, insertedHist: map[int64]bool{}}
	committed := false
	defer func() {
		if !committed {
			t.rollback()
		}
		t.release()
	}()

	if err := fn(&ProductRepo{s: r.s, tx: t}, &HistoryRepo{s: r.s, tx: t}); err != nil {
		return err
	}
	committed = true
	return nil
}
