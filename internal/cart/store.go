package cart

import (
	"context"
	"sync"
	"time"

	"github.com/medikart/storefront/internal/domain"
	"github.com/medikart/storefront/internal/port"
	"go.uber.org/zap"
)

// StorageKey is the fixed KV key holding the serialized cart.
const StorageKey = "cart"

const persistTimeout = 5 * time.Second

// Store holds the authoritative in-process cart. All mutations go
// through its methods; the in-memory state is the source of truth for
// the running session while the KV store is a best-effort mirror for
// the next launch.
//
// Mutations return their result based on in-memory state alone and
// enqueue a persistence write that a background goroutine completes.
// A crash between the two can lose the last mutation; this is the
// accepted durability policy, not a bug.
type Store struct {
	kv     port.KV
	logger *zap.Logger

	mu   sync.Mutex
	cart domain.Cart

	// latest-wins queue between mutators and the persister
	pending chan string
	quit    chan struct{}
	done    chan struct{}
}

// NewStore hydrates the cart from kv and starts the persister. A
// missing or unreadable persisted cart is logged and the store starts
// empty; hydration never fails the construction.
func NewStore(ctx context.Context, kv port.KV, logger *zap.Logger) *Store {
	s := &Store{
		kv:      kv,
		logger:  logger,
		pending: make(chan string, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	s.hydrate(ctx)
	go s.persistLoop()

	return s
}

// Close flushes any pending persistence write and stops the persister.
func (s *Store) Close() {
	close(s.quit)
	<-s.done
}

func (s *Store) hydrate(ctx context.Context) {
	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		s.logger.Warn("cart hydration failed, starting empty", zap.Error(err))
		return
	}
	if !ok {
		return
	}

	lines, err := unmarshalLines(raw)
	if err != nil {
		s.logger.Warn("persisted cart is unreadable, starting empty", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.cart = domain.Cart{Lines: lines}
	s.mu.Unlock()
}

// AddItem puts quantity units of product into the cart, merging into
// an existing line for the same product ID. It fails and leaves the
// cart unchanged when the resulting quantity would exceed the stock
// recorded on the passed snapshot.
func (s *Store) AddItem(product domain.Product, quantity int) bool {
	if quantity <= 0 {
		s.logger.Error("AddItem called with non-positive quantity",
			zap.Int64("product_id", product.ID), zap.Int("quantity", quantity))
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.cart.LineIndex(product.ID); idx >= 0 {
		candidate := s.cart.Lines[idx].Quantity + quantity
		if candidate > product.Stock {
			return false
		}

		// refresh the snapshot so quantity, stock and subtotal all
		// come from the same catalog fetch
		s.cart.Lines[idx] = domain.CartLine{
			Product:  product,
			Quantity: candidate,
			Subtotal: product.UnitPrice.MulInt(candidate),
		}
		s.enqueuePersistLocked()
		return true
	}

	if quantity > product.Stock {
		return false
	}

	s.cart.Lines = append(s.cart.Lines, domain.CartLine{
		Product:  product,
		Quantity: quantity,
		Subtotal: product.UnitPrice.MulInt(quantity),
	})
	s.enqueuePersistLocked()
	return true
}

// RemoveItem drops the line at index. Indices refer to the current
// sequence order as returned by Lines. An out-of-range index is a
// caller bug; it is logged and ignored.
func (s *Store) RemoveItem(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.cart.Lines) {
		s.logger.Error("RemoveItem index out of range",
			zap.Int("index", index), zap.Int("lines", len(s.cart.Lines)))
		return
	}

	s.cart.Lines = append(s.cart.Lines[:index], s.cart.Lines[index+1:]...)
	s.enqueuePersistLocked()
}

// UpdateQuantity sets the quantity of the line at index. A quantity
// of zero or less removes the line and succeeds. A quantity above the
// line's snapshot stock fails with no state change.
func (s *Store) UpdateQuantity(index int, quantity int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.cart.Lines) {
		s.logger.Error("UpdateQuantity index out of range",
			zap.Int("index", index), zap.Int("lines", len(s.cart.Lines)))
		return false
	}

	if quantity <= 0 {
		s.cart.Lines = append(s.cart.Lines[:index], s.cart.Lines[index+1:]...)
		s.enqueuePersistLocked()
		return true
	}

	line := s.cart.Lines[index]
	if quantity > line.Product.Stock {
		return false
	}

	line.Quantity = quantity
	line.Subtotal = line.Product.UnitPrice.MulInt(quantity)
	s.cart.Lines[index] = line
	s.enqueuePersistLocked()
	return true
}

// Clear empties the cart and persists the empty state.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Lines = nil
	s.enqueuePersistLocked()
}

func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.TotalItems()
}

func (s *Store) TotalPrice() domain.Money {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.TotalPrice()
}

// Lines returns a copy of the current lines in sequence order.
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]domain.CartLine, len(s.cart.Lines))
	copy(lines, s.cart.Lines)
	return lines
}

// Cart returns a snapshot copy of the whole cart.
func (s *Store) Cart() domain.Cart {
	return domain.Cart{Lines: s.Lines()}
}

// enqueuePersistLocked serializes the current lines and hands the
// snapshot to the persister, replacing any not-yet-written one.
// Serialization errors are logged and the write skipped; the
// in-memory mutation stands either way.
func (s *Store) enqueuePersistLocked() {
	raw, err := marshalLines(s.cart.Lines)
	if err != nil {
		s.logger.Warn("cart serialization failed, skipping persist", zap.Error(err))
		return
	}

	for {
		select {
		case s.pending <- raw:
			return
		default:
			// drop the stale snapshot, the new one supersedes it
			select {
			case <-s.pending:
			default:
			}
		}
	}
}

func (s *Store) persistLoop() {
	defer close(s.done)

	for {
		select {
		case raw := <-s.pending:
			s.persist(raw)
		case <-s.quit:
			// flush the last snapshot, if any
			select {
			case raw := <-s.pending:
				s.persist(raw)
			default:
			}
			return
		}
	}
}

func (s *Store) persist(raw string) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := s.kv.Set(ctx, StorageKey, raw); err != nil {
		s.logger.Warn("cart persist failed", zap.Error(err))
	}
}
