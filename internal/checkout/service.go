// Package checkout submits the local cart as an order.
package checkout

import (
	"context"
	"errors"

	"github.com/ariefcatur/storefront-client/internal/activity"
	"github.com/ariefcatur/storefront-client/internal/shop"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNotAuthenticated = errors.New("sign in to check out")
)

// Submitter places the order remotely.
type Submitter interface {
	Checkout(ctx context.Context, items []shop.ItemQty) (shop.CheckoutResult, error)
}

type Cart interface {
	CheckoutItems() []shop.ItemQty
	Total() decimal.Decimal
	Clear(ctx context.Context) error
}

type Session interface {
	CurrentUser() (shop.User, bool)
}

type Service struct {
	API     Submitter
	Cart    Cart
	Session Session
	Events  *activity.Emitter
}

// Submit sends the cart and clears it once the server accepted the order.
// On any remote failure the cart is left as it was and the error is returned
// unchanged. A failure to clear after success is returned together with the
// result, since the order exists either way.
func (s *Service) Submit(ctx context.Context) (shop.CheckoutResult, error) {
	u, ok := s.Session.CurrentUser()
	if !ok {
		return shop.CheckoutResult{}, ErrNotAuthenticated
	}
	items := s.Cart.CheckoutItems()
	if len(items) == 0 {
		return shop.CheckoutResult{}, ErrEmptyCart
	}
	total := s.Cart.Total()

	res, err := s.API.Checkout(ctx, items)
	if err != nil {
		s.Events.Emit(ctx, shop.EventCheckoutFailed, u.ID, shop.CheckoutFailedPayload{
			UserID: u.ID,
			Items:  items,
			Reason: err.Error(),
		})
		return shop.CheckoutResult{}, err
	}

	var orderID int64
	if res.Order != nil {
		orderID = res.Order.ID
	}
	s.Events.Emit(ctx, shop.EventCheckoutSubmitted, u.ID, shop.CheckoutSubmittedPayload{
		UserID:  u.ID,
		OrderID: orderID,
		Items:   items,
		Total:   total,
	})

	if err := s.Cart.Clear(ctx); err != nil {
		return res, &ClearError{Err: err}
	}
	return res, nil
}

// ClearError means the order was placed but the local cart could not be
// emptied.
type ClearError struct{ Err error }

func (e *ClearError) Error() string { return "order placed but cart not cleared: " + e.Err.Error() }
func (e *ClearError) Unwrap() error { return e.Err }
