package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Kind classifies a validation failure.
type Kind string

const (
	MissingField    Kind = "MissingField"
	InvalidFieldSet Kind = "InvalidFieldSet"
	InvalidFormat   Kind = "InvalidFormat"
)

// Error describes why a body was rejected.
type Error struct {
	Kind  Kind
	Field string
}

func (e *Error) Error() string {
	if e.Kind == InvalidFormat {
		return fmt.Sprintf("%s:%s", e.Kind, e.Field)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s (%s)", e.Kind, e.Field)
	}
	return string(e.Kind)
}

// Message is the client-facing explanation of the failure.
func (e *Error) Message() string {
	if e.Kind != InvalidFormat {
		return "Invalid request body provided"
	}
	switch e.Field {
	case "price":
		return "Please enter a valid price"
	case "name":
		return "Please enter a valid name"
	case "email":
		return "Please enter a valid email address"
	case "mobileNumber":
		return "Please enter a valid mobile number"
	default:
		return fmt.Sprintf("Please enter a valid %s", e.Field)
	}
}

// Field describes one expected body field.
type Field struct {
	Name string
	// Tag is a go-playground/validator tag applied after normalization.
	Tag string
	// Raw keeps the value untrimmed, for secrets such as passwords.
	Raw bool
	// Normalize rewrites the trimmed value before validation.
	Normalize func(string) string
}

// Schema is the exact field set a request body must carry.
type Schema struct {
	Name   string
	Fields []Field
}

// Values holds a validated body keyed by field name.
type Values map[string]string

var (
	ProductSchema = Schema{Name: "product", Fields: []Field{
		{Name: "name"},
		{Name: "price", Tag: "price", Normalize: NormalizePrice},
		{Name: "category"},
		{Name: "company"},
	}}
	SignupSchema = Schema{Name: "signup", Fields: []Field{
		{Name: "name", Tag: "fullname"},
		{Name: "email", Tag: "emailaddr"},
		{Name: "mobileNumber", Tag: "mobile"},
		{Name: "password", Raw: true},
	}}
	LoginSchema = Schema{Name: "login", Fields: []Field{
		{Name: "email"},
		{Name: "password", Raw: true},
	}}
	ProfileSchema = Schema{Name: "profile", Fields: []Field{
		{Name: "name", Tag: "fullname"},
		{Name: "email", Tag: "emailaddr"},
		{Name: "mobileNumber", Tag: "mobile"},
	}}
)

// Validate checks body against the schema and returns the cleaned values.
// Presence is checked first, then the field set, then formats in schema order.
func (s Schema) Validate(body map[string]any) (Values, error) {
	values := make(Values, len(s.Fields))
	for _, f := range s.Fields {
		raw, ok := body[f.Name]
		if !ok || raw == nil {
			return nil, &Error{Kind: MissingField, Field: f.Name}
		}
		str, ok := raw.(string)
		if !ok {
			return nil, &Error{Kind: InvalidFormat, Field: f.Name}
		}
		if !f.Raw {
			str = strings.TrimSpace(str)
		}
		if str == "" {
			return nil, &Error{Kind: MissingField, Field: f.Name}
		}
		values[f.Name] = str
	}

	if len(body) != len(s.Fields) {
		return nil, &Error{Kind: InvalidFieldSet, Field: strings.Join(s.extraFields(body), ",")}
	}

	v := Validator()
	for _, f := range s.Fields {
		val := values[f.Name]
		if f.Normalize != nil {
			val = f.Normalize(val)
			values[f.Name] = val
		}
		if f.Tag == "" {
			continue
		}
		if err := v.Var(val, f.Tag); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				return nil, &Error{Kind: InvalidFormat, Field: f.Name}
			}
			return nil, fmt.Errorf("validate %s.%s: %w", s.Name, f.Name, err)
		}
	}
	return values, nil
}

func (s Schema) extraFields(body map[string]any) []string {
	known := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		known[f.Name] = struct{}{}
	}
	var extra []string
	for k := range body {
		if _, ok := known[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return extra
}
