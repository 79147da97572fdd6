package shop

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Featured    bool            `json:"featured"`
	Image       string          `json:"image,omitempty"`
	CreatedAt   *time.Time      `json:"created_at,omitempty"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

// ProductInput is the body of admin create/update calls.
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Featured    bool            `json:"featured"`
	Image       string          `json:"image,omitempty"`
}

// LineItem is one product entry in the cart. Price is captured when the
// product is first added and never refreshed afterwards.
type LineItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// ItemQty is what checkout sends for each line.
type ItemQty struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
	Country string `json:"country,omitempty"`
}

type OrderCustomer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type OrderItem struct {
	ID        int64           `json:"id,omitempty"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Product   *Product        `json:"product,omitempty"`
}

// DisplayName prefers the embedded product name when the item has none.
func (it OrderItem) DisplayName() string {
	if it.Name != "" {
		return it.Name
	}
	if it.Product != nil {
		return it.Product.Name
	}
	return ""
}

func (it OrderItem) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

type Order struct {
	ID              int64               `json:"id"`
	UserID          int64               `json:"user_id,omitempty"`
	User            *OrderCustomer      `json:"user,omitempty"`
	Items           []OrderItem         `json:"items"`
	Total           decimal.Decimal     `json:"total"`
	Subtotal        decimal.NullDecimal `json:"subtotal"`
	ShippingFee     decimal.NullDecimal `json:"shipping_fee"`
	Tax             decimal.NullDecimal `json:"tax"`
	Status          Status              `json:"status"`
	PaymentStatus   string              `json:"payment_status,omitempty"`
	ShippingAddress *Address            `json:"shipping_address,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

// CheckoutResult is whatever the remote API returns for a submitted checkout.
type CheckoutResult struct {
	Message string `json:"message,omitempty"`
	Order   *Order `json:"order,omitempty"`
}
