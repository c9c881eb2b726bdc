// Package cart owns the shopping cart and the order history produced by
// checkout. Cart items copy product data by value; catalog changes never
// reach a cart line or an order retroactively. Every mutation is mirrored to
// the persistent store before the lock is released, so rapid successive
// operations cannot lose each other's writes.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/storefront-client/pkg/config"
	"github.com/angelmondragon/storefront-client/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-client/pkg/errors"
	"github.com/angelmondragon/storefront-client/pkg/kvstore"
	"github.com/angelmondragon/storefront-client/pkg/logger"
	"github.com/angelmondragon/storefront-client/pkg/types"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

const orderDateLayout = "2006-01-02T15:04:05.000Z07:00"

// NameSource provides the display name placed on orders; the session store
// satisfies it.
type NameSource interface {
	UserName() string
}

// Store holds cart line items and historical orders.
type Store struct {
	mu    sync.Mutex
	kv    kvstore.Store
	logg  *logger.Logger
	names NameSource

	taxRate        decimal.Decimal
	couponCode     string
	couponDiscount decimal.Decimal
	guestName      string

	items  []types.CartItem
	orders []types.Order
	code   string

	now     func() time.Time
	lastErr string
}

// New builds the store and restores the persisted cart and order history.
func New(ctx context.Context, kv kvstore.Store, cfg config.CartConfig, names NameSource, logg *logger.Logger) *Store {
	s := &Store{
		kv:             kv,
		logg:           logg,
		names:          names,
		taxRate:        cfg.TaxRateAmount(),
		couponCode:     cfg.CouponCode,
		couponDiscount: cfg.CouponDiscountAmount(),
		guestName:      cfg.GuestName,
		now:            time.Now,
	}
	s.items = s.restoreItems(ctx)
	s.orders = s.restoreOrders(ctx)
	return s
}

func (s *Store) restoreItems(ctx context.Context) []types.CartItem {
	raw, err := s.kv.Get(ctx, kvstore.CartKey)
	if err != nil {
		return nil
	}
	var items []types.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logg.Warn(ctx, "discarding unreadable persisted cart")
		return nil
	}
	return items
}

func (s *Store) restoreOrders(ctx context.Context) []types.Order {
	raw, err := s.kv.Get(ctx, kvstore.OrdersKey)
	if err != nil {
		return nil
	}
	var orders []types.Order
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		s.logg.Warn(ctx, "discarding unreadable persisted orders")
		return nil
	}
	return orders
}

// AddToCart merges the product into the cart: an existing line gains one
// unit, otherwise a new line with quantity 1 is appended. The cart is
// persisted either way.
func (s *Store) AddToCart(ctx context.Context, product types.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := false
	for i := range s.items {
		if s.items[i].ID == product.ID {
			s.items[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, types.CartItem{Product: product, Quantity: 1})
	}

	s.persistCart(ctx)
}

// RemoveFromCart drops the matching line. Persists only when something was
// actually removed.
func (s *Store) RemoveFromCart(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(ctx, productID)
}

func (s *Store) removeLocked(ctx context.Context, productID string) {
	for i := range s.items {
		if s.items[i].ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persistCart(ctx)
			return
		}
	}
}

// UpdateQuantity sets the quantity on the matching line; zero or negative
// quantities remove the line instead. An unknown id still persists the
// unchanged cart.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == productID {
			if quantity <= 0 {
				s.removeLocked(ctx, productID)
				return
			}
			s.items[i].Quantity = quantity
			s.persistCart(ctx)
			return
		}
	}

	s.persistCart(ctx)
}

// CartTotal is the sum of price x quantity over all lines, rounded to two
// decimals.
func (s *Store) CartTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartTotalLocked()
}

func (s *Store) cartTotalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(lineAmount(item.Price, item.Quantity))
	}
	return roundFixed(total)
}

// CartTotalIndividual is price x quantity for one line, zero when absent.
// Unlike CartTotal it is not rounded.
func (s *Store) CartTotalIndividual(productID string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == productID {
			return lineAmount(item.Price, item.Quantity)
		}
	}
	return decimal.Zero
}

// SalesTax applies the flat rate to the cart total, rounded at the cent.
func (s *Store) SalesTax() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.salesTaxLocked()
}

func (s *Store) salesTaxLocked() decimal.Decimal {
	return roundCent(s.cartTotalLocked().Mul(s.taxRate))
}

// SetCouponCode records the code applied to the grand total.
func (s *Store) SetCouponCode(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.code = code
}

// CouponCodeDiscount returns the multiplier for a code: the configured
// discount for an exact (case-sensitive) match, 1 otherwise. No expiry, no
// stacking, no server validation.
func (s *Store) CouponCodeDiscount(code string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.couponDiscountLocked(code)
}

func (s *Store) couponDiscountLocked(code string) decimal.Decimal {
	if code == s.couponCode {
		return s.couponDiscount
	}
	return decimal.NewFromInt(1)
}

// GrandTotal is (cart total + sales tax) x coupon multiplier, rounded to two
// decimals. Display value only; the persisted order total stays
// tax-exclusive.
func (s *Store) GrandTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	taxed := s.cartTotalLocked().Add(s.salesTaxLocked())
	return roundFixed(taxed.Mul(s.couponDiscountLocked(s.code)))
}

// CheckOutBy converts the current cart into an immutable order, appends it
// to the history, empties the cart and persists both collections. The order
// id and number both derive from the pre-checkout order count, so they move
// in lockstep.
func (s *Store) CheckOutBy(ctx context.Context) types.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	sequence := len(s.orders) + 1
	lines := make([]types.OrderLine, 0, len(s.items))
	for _, item := range s.items {
		lines = append(lines, types.OrderLine{
			Product:  item.Snapshot(),
			Quantity: item.Quantity,
		})
	}

	order := types.Order{
		ID:          fmt.Sprintf("order%d", sequence),
		OrderDate:   s.now().UTC().Format(orderDateLayout),
		Total:       s.cartTotalLocked().InexactFloat64(),
		OrderStatus: enums.OrderStatusPending.String(),
		OrderNumber: sequence,
		UserName:    s.userNameLocked(),
		OrderLine:   lines,
	}

	s.items = []types.CartItem{}
	err := multierr.Combine(
		s.appendOrderLocked(ctx, order),
		s.persistCartErr(ctx),
	)
	if err != nil {
		s.lastErr = pkgerrors.UserMessage(pkgerrors.Wrap(pkgerrors.CodePersistence, err, "checkout persistence failed"))
		s.logg.Error(ctx, "checkout persistence failed", err)
	} else {
		s.lastErr = ""
	}

	s.logg.Info(s.logg.WithOrderID(ctx, order.ID), "order placed")
	return order
}

// appendOrderLocked is the single mutator of the order collection; appending
// and persisting are inseparable here, which is what keeps the history and
// the persistent store in step no matter who triggers the append.
func (s *Store) appendOrderLocked(ctx context.Context, order types.Order) error {
	s.orders = append(s.orders, order)
	raw, err := json.Marshal(s.orders)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, kvstore.OrdersKey, string(raw))
}

func (s *Store) persistCart(ctx context.Context) {
	if err := s.persistCartErr(ctx); err != nil {
		s.lastErr = pkgerrors.UserMessage(pkgerrors.Wrap(pkgerrors.CodePersistence, err, "cart persistence failed"))
		s.logg.Error(ctx, "cart persistence failed", err)
	}
}

func (s *Store) persistCartErr(ctx context.Context) error {
	items := s.items
	if items == nil {
		items = []types.CartItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, kvstore.CartKey, string(raw))
}

func (s *Store) userNameLocked() string {
	if s.names != nil {
		if name := s.names.UserName(); name != "" {
			return name
		}
	}
	return s.guestName
}

// Items returns a copy of the cart lines.
func (s *Store) Items() []types.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Orders returns a copy of the order history.
func (s *Store) Orders() []types.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Err returns the last recorded persistence error message.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
