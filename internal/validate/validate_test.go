package validate

import (
	"errors"
	"testing"

	"github.com/ariefcatur/storefront-client/internal/shop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterForm(t *testing.T) {
	ok := RegisterForm{Name: "Bo", Email: "bo@x.io", Password: "password1", ConfirmPassword: "password1"}
	require.NoError(t, ok.Validate())

	cases := []struct {
		name  string
		form  RegisterForm
		field string
		msg   string
	}{
		{"short name", RegisterForm{Name: "B", Email: "bo@x.io", Password: "password1", ConfirmPassword: "password1"}, "name", "Name must be at least 2 characters"},
		{"missing name", RegisterForm{Email: "bo@x.io", Password: "password1", ConfirmPassword: "password1"}, "name", "Name is required"},
		{"bad email", RegisterForm{Name: "Bo", Email: "bo", Password: "password1", ConfirmPassword: "password1"}, "email", "Invalid email address"},
		{"short password", RegisterForm{Name: "Bo", Email: "bo@x.io", Password: "short", ConfirmPassword: "short"}, "password", "Password must be at least 8 characters"},
		{"mismatch", RegisterForm{Name: "Bo", Email: "bo@x.io", Password: "password1", ConfirmPassword: "password2"}, "confirm_password", "Passwords must match"},
		{"no confirm", RegisterForm{Name: "Bo", Email: "bo@x.io", Password: "password1"}, "confirm_password", "Confirm password is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := From(tc.form.Validate())
			require.NotNil(t, errs)
			assert.Equal(t, tc.msg, errs[tc.field])
		})
	}
}

func TestLoginForm(t *testing.T) {
	require.NoError(t, LoginForm{Email: "a@x.io", Password: "x"}.Validate())
	errs := From(LoginForm{}.Validate())
	assert.Equal(t, Errors{"email": "Email is required", "password": "Password is required"}, errs)
}

func TestProfileForm(t *testing.T) {
	require.NoError(t, ProfileForm{Name: "Ann", Email: "a@x.io"}.Validate())
	errs := From(ProfileForm{Email: "nope"}.Validate())
	assert.Equal(t, "Name is required", errs["name"])
	assert.Equal(t, "Invalid email address", errs["email"])

	p := ProfileForm{Name: " Ann ", Email: "a@x.io", ZipCode: "40115"}.Profile()
	assert.Equal(t, "Ann", p.Name)
	assert.Equal(t, "40115", p.ZipCode)
}

func TestProductForm(t *testing.T) {
	good := ProductForm{Name: "Lamp", Description: "Warm light", Price: "19.99", Stock: "0"}
	require.NoError(t, good.Validate())
	in := good.Input()
	assert.True(t, decimal.RequireFromString("19.99").Equal(in.Price))
	assert.Equal(t, 0, in.Stock)

	for _, price := range []string{"0", "-1", "abc"} {
		errs := From(ProductForm{Name: "L", Description: "d", Price: price, Stock: "1"}.Validate())
		assert.Equal(t, "Price must be a positive number", errs["price"], price)
	}
	for _, stock := range []string{"-1", "1.5", "many"} {
		errs := From(ProductForm{Name: "L", Description: "d", Price: "1", Stock: stock}.Validate())
		assert.Equal(t, "Stock must be a whole number of zero or more", errs["stock"], stock)
	}
	errs := From(ProductForm{}.Validate())
	assert.Len(t, errs, 4)
}

func TestProductFormOfRoundTrips(t *testing.T) {
	p := shop.Product{Name: "Mug", Description: "Blue", Price: decimal.RequireFromString("12.5"), Stock: 3, Featured: true}
	f := ProductFormOf(p)
	require.NoError(t, f.Validate())
	in := f.Input()
	assert.Equal(t, "12.5", in.Price.String())
	assert.Equal(t, 3, in.Stock)
	assert.True(t, in.Featured)
}

func TestErrorsIsAnError(t *testing.T) {
	err := LoginForm{}.Validate()
	var e Errors
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, "invalid input: email: Email is required; password: Password is required", err.Error())
	assert.Nil(t, From(errors.New("other")))
}
