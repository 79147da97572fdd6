package validate

import (
	"strconv"
	"strings"

	"github.com/ariefcatur/storefront-client/internal/shop"
	"github.com/shopspring/decimal"
)

type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

var loginMessages = map[string]string{
	"email.required":    "Email is required",
	"email.email":       "Invalid email address",
	"password.required": "Password is required",
}

func (f LoginForm) Validate() error { return Struct(f, loginMessages) }

type RegisterForm struct {
	Name            string `form:"name" validate:"required,min=2"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=8"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
}

var registerMessages = map[string]string{
	"name.required":             "Name is required",
	"name.min":                  "Name must be at least 2 characters",
	"email.required":            "Email is required",
	"email.email":               "Invalid email address",
	"password.required":         "Password is required",
	"password.min":              "Password must be at least 8 characters",
	"confirm_password.required": "Confirm password is required",
	"confirm_password.eqfield":  "Passwords must match",
}

func (f RegisterForm) Validate() error { return Struct(f, registerMessages) }

type ProfileForm struct {
	Name    string `form:"name" validate:"required"`
	Email   string `form:"email" validate:"required,email"`
	Address string `form:"address"`
	City    string `form:"city"`
	State   string `form:"state"`
	ZipCode string `form:"zip_code"`
	Phone   string `form:"phone"`
}

var profileMessages = map[string]string{
	"name.required":  "Name is required",
	"email.required": "Email is required",
	"email.email":    "Invalid email address",
}

func (f ProfileForm) Validate() error { return Struct(f, profileMessages) }

func (f ProfileForm) Profile() shop.Profile {
	return shop.Profile{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Address: f.Address,
		City:    f.City,
		State:   f.State,
		ZipCode: f.ZipCode,
		Phone:   f.Phone,
	}
}

// ProductForm holds the raw admin product fields; Price and Stock stay
// strings until they pass validation.
type ProductForm struct {
	Name        string `form:"name" validate:"required"`
	Description string `form:"description" validate:"required"`
	Price       string `form:"price" validate:"required,money"`
	Stock       string `form:"stock" validate:"required,count"`
	Featured    bool   `form:"featured"`
	Image       string `form:"image" validate:"omitempty,max=2048"`
}

var productMessages = map[string]string{
	"name.required":        "Name is required",
	"description.required": "Description is required",
	"price.required":       "Price is required",
	"price.money":          "Price must be a positive number",
	"stock.required":       "Stock is required",
	"stock.count":          "Stock must be a whole number of zero or more",
}

func (f ProductForm) Validate() error { return Struct(f, productMessages) }

// Input converts a validated form. Call Validate first.
func (f ProductForm) Input() shop.ProductInput {
	price, _ := decimal.NewFromString(strings.TrimSpace(f.Price))
	stock, _ := strconv.Atoi(strings.TrimSpace(f.Stock))
	return shop.ProductInput{
		Name:        strings.TrimSpace(f.Name),
		Description: f.Description,
		Price:       price,
		Stock:       stock,
		Featured:    f.Featured,
		Image:       strings.TrimSpace(f.Image),
	}
}

// ProductFormOf pre-fills the edit form.
func ProductFormOf(p shop.Product) ProductForm {
	return ProductForm{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.String(),
		Stock:       strconv.Itoa(p.Stock),
		Featured:    p.Featured,
		Image:       p.Image,
	}
}
