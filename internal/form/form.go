// Package form decodes HTML form posts into typed structs and validates them
// with struct tags.
//
// Every form keeps its fields as the strings the browser sent, so a form that
// fails validation can be rendered straight back with the user's input.
// Typed values (prices, quantities) are read through methods once Validate
// has passed.
package form

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	formv4 "github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/payment"
)

// Errors maps a form field name to the message shown next to it.
type Errors map[string]string

// Get returns the message for field, or "".
func (e Errors) Get(field string) string {
	return e[field]
}

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return "form: " + strings.Join(parts, "; ")
}

var validate = newValidator()

// maxPrice is the highest price the payment provider accepts for one unit.
var maxPrice = decimal.New(payment.MaxUnitAmount, -2)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their form name, not the Go field name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil && d.IsPositive() && d.LessThanOrEqual(maxPrice)
	})

	v.RegisterValidation("positiveint", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil && n >= 1
	})

	return v
}

var decoder = formv4.NewDecoder()

// untrimmed lists the fields kept exactly as typed.
var untrimmed = map[string]bool{"password": true}

// Decode fills the fields of dst that carry a `form` tag from r's posted
// values. Surrounding whitespace is trimmed from every value except
// passwords.
func Decode(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("form: parsing request body: %w", err)
	}

	values := make(url.Values, len(r.PostForm))
	for key, vals := range r.PostForm {
		for _, v := range vals {
			if !untrimmed[key] {
				v = strings.TrimSpace(v)
			}
			values[key] = append(values[key], v)
		}
	}

	if err := decoder.Decode(dst, values); err != nil {
		return fmt.Errorf("form: decoding into %T: %w", dst, err)
	}
	return nil
}

// Validate checks dst against its `validate` tags. It returns nil or Errors.
func Validate(dst any) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("form: validating: %w", err)
	}

	errs := Errors{}
	for _, fe := range verrs {
		if _, seen := errs[fe.Field()]; seen {
			continue
		}
		errs[fe.Field()] = message(fe)
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email format, please enter a valid email address."
	case "price":
		return "Price must be a number greater than 0 and at most 999999.99."
	case "positiveint":
		return "Number must be at least 1."
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	case "url":
		return "Please enter a valid URL."
	}
	return "Invalid value."
}
