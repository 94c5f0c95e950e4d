// Package cart holds the per-session shopping cart.
//
// A Store keeps the ordered cart lines in memory and writes the whole cart to
// a CartStorage after every mutation. Storage is a reload-recovery aid only:
// read failures start an empty cart and write failures are logged and
// ignored.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/salad-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/ports"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/pricing"
)

// StorageKey is the fixed key the cart record is stored under.
const StorageKey = "salad-cart"

var ErrLineNotFound = errors.New("cart line not found")

type Store struct {
	mu      sync.RWMutex
	lines   []entity.CartLine
	key     string
	storage ports.CartStorage
	logger  *slog.Logger

	// unsaved is set while storage lags behind lines.
	unsaved    bool
	submitting atomic.Bool
}

// NewStore builds a store for key and restores whatever storage holds for
// it. A missing or unreadable record yields an empty cart.
func NewStore(ctx context.Context, key string, storage ports.CartStorage, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		key:     key,
		storage: storage,
		logger:  logger.With("cart_key", key),
	}
	s.lines = s.restore(ctx)
	return s
}

// AddItem adds one unit of product with the given customization and returns
// the index of the affected line. A line with the same product, the same set
// of extras and the same removal note is incremented instead of duplicated.
func (s *Store) AddItem(ctx context.Context, product entity.Salad, extras, removed []entity.Ingredient) int {
	description := pricing.RemovedDescription(product, removed)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].SameConfiguration(product.ID, extras, description) {
			s.lines[i].Quantity++
			s.persist(ctx)
			return i
		}
	}

	s.lines = append(s.lines, entity.CartLine{
		Product:            product.Clone(),
		Quantity:           1,
		SelectedExtras:     append([]entity.Ingredient(nil), extras...),
		RemovedIngredients: append([]entity.Ingredient(nil), removed...),
		RemovedDescription: description,
	})
	s.persist(ctx)
	return len(s.lines) - 1
}

// RemoveItem deletes the line at index. Later lines shift down by one.
func (s *Store) RemoveItem(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(ctx, index)
}

// SetQuantity replaces the quantity of the line at index. A quantity of zero
// or less removes the line.
func (s *Store) SetQuantity(ctx context.Context, index, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		return s.removeLocked(ctx, index)
	}
	if index < 0 || index >= len(s.lines) {
		return ErrLineNotFound
	}

	s.lines[index].Quantity = quantity
	s.persist(ctx)
	return nil
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.persist(ctx)
}

// Subtract removes the ordered quantity of each of lines from the cart and
// returns what was actually removed. Lines added or grown after lines were
// read stay in the cart.
func (s *Store) Subtract(ctx context.Context, lines []entity.CartLine) []entity.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	var taken []entity.CartLine
	for _, ordered := range lines {
		for i := range s.lines {
			cur := &s.lines[i]
			if !cur.SameConfiguration(ordered.Product.ID, ordered.SelectedExtras, ordered.RemovedDescription) {
				continue
			}
			n := min(ordered.Quantity, cur.Quantity)
			cur.Quantity -= n
			removed := ordered
			removed.Quantity = n
			taken = append(taken, removed)
			break
		}
	}

	kept := s.lines[:0]
	for _, line := range s.lines {
		if line.Quantity > 0 {
			kept = append(kept, line)
		}
	}
	s.lines = kept
	s.persist(ctx)
	return taken
}

// Merge adds lines back to the cart, following the same merge rule as
// AddItem.
func (s *Store) Merge(ctx context.Context, lines []entity.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range lines {
		merged := false
		for i := range s.lines {
			if s.lines[i].SameConfiguration(line.Product.ID, line.SelectedExtras, line.RemovedDescription) {
				s.lines[i].Quantity += line.Quantity
				merged = true
				break
			}
		}
		if !merged {
			s.lines = append(s.lines, line)
		}
	}
	s.persist(ctx)
}

// Refresh reloads the cart from storage so a store shared by several
// replicas sees their writes. It keeps the in-memory lines when nothing is
// stored, when the record is unreadable or when the last write of this
// store failed.
func (s *Store) Refresh(ctx context.Context) {
	if s.storage == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unsaved {
		return
	}
	data, err := s.storage.Load(ctx, s.key)
	if err != nil || len(data) == 0 {
		return
	}
	lines, ok := s.decode(ctx, data)
	if !ok {
		return
	}
	s.lines = lines
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []entity.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.CartLine(nil), s.lines...)
}

// ItemCount returns the number of units across all lines.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

// Total returns the cart total.
func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pricing.CartTotal(s.lines)
}

// BeginSubmit marks an order submission as in flight. It returns false when
// one already is.
func (s *Store) BeginSubmit() bool {
	return s.submitting.CompareAndSwap(false, true)
}

// EndSubmit clears the in-flight mark set by BeginSubmit.
func (s *Store) EndSubmit() {
	s.submitting.Store(false)
}

func (s *Store) removeLocked(ctx context.Context, index int) error {
	if index < 0 || index >= len(s.lines) {
		return ErrLineNotFound
	}

	s.lines = append(s.lines[:index], s.lines[index+1:]...)
	s.persist(ctx)
	return nil
}

// persist must be called with mu held.
func (s *Store) persist(ctx context.Context) {
	if s.storage == nil {
		return
	}

	lines := s.lines
	if lines == nil {
		lines = []entity.CartLine{}
	}

	data, err := json.Marshal(lines)
	if err != nil {
		s.unsaved = true
		s.logger.DebugContext(ctx, "cart not persisted", "error", err)
		return
	}
	if err := s.storage.Save(ctx, s.key, data); err != nil {
		s.unsaved = true
		s.logger.DebugContext(ctx, "cart not persisted", "error", err)
		return
	}
	s.unsaved = false
}

func (s *Store) restore(ctx context.Context) []entity.CartLine {
	if s.storage == nil {
		return nil
	}

	data, err := s.storage.Load(ctx, s.key)
	if err != nil {
		s.logger.DebugContext(ctx, "cart not restored", "error", err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	lines, _ := s.decode(ctx, data)
	return lines
}

func (s *Store) decode(ctx context.Context, data []byte) ([]entity.CartLine, bool) {
	var lines []entity.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		s.logger.DebugContext(ctx, "discarding unreadable cart record", "error", err)
		return nil, false
	}

	valid := lines[:0]
	for _, line := range lines {
		if line.Quantity > 0 {
			valid = append(valid, line)
		}
	}
	return valid, true
}
