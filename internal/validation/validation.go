// Package validation checks request bodies against per-entity field schemas.
//
// A body must carry exactly the schema's fields. Values are trimmed, optionally
// normalized, and then checked against go-playground/validator tags. The
// format tags price, fullname, emailaddr and mobile are registered here.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	priceRegex  = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
	nameRegex   = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,4}$`)
	mobileRegex = regexp.MustCompile(`^\+\d{1,3}\d{3}\d{3}\d{4}$`)
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the catalog format tags registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		mustRegister(v, "price", func(fl validator.FieldLevel) bool {
			return ValidPrice(fl.Field().String())
		})
		mustRegister(v, "fullname", func(fl validator.FieldLevel) bool {
			return ValidName(fl.Field().String())
		})
		mustRegister(v, "emailaddr", func(fl validator.FieldLevel) bool {
			return ValidEmail(fl.Field().String())
		})
		mustRegister(v, "mobile", func(fl validator.FieldLevel) bool {
			return ValidMobileNumber(fl.Field().String())
		})
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// NormalizePrice trims p and pads it to two fractional digits where it can:
// "5" becomes "5.00" and "5.5" becomes "5.50". Anything else is returned trimmed
// and left for ValidPrice to judge.
func NormalizePrice(p string) string {
	p = strings.TrimSpace(p)
	_, frac, found := strings.Cut(p, ".")
	if !found {
		return p + ".00"
	}
	if len(frac) == 1 {
		return p + "0"
	}
	return p
}

// ValidPrice reports whether p is a non-negative decimal with at most two fractional digits.
func ValidPrice(p string) bool {
	return priceRegex.MatchString(p)
}

// ValidName reports whether name is exactly two alphabetic words separated by one space.
func ValidName(name string) bool {
	if !nameRegex.MatchString(name) {
		return false
	}
	first, last, ok := strings.Cut(name, " ")
	return ok && first != "" && last != "" && !strings.Contains(last, " ")
}

// ValidEmail reports whether email matches the accepted address pattern.
func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidMobileNumber reports whether n is a '+' country code followed by ten digits.
func ValidMobileNumber(n string) bool {
	return mobileRegex.MatchString(n)
}
