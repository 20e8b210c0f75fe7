package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var countryCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// maxBodyBytes caps request bodies read by the middleware.
const maxBodyBytes = 1 << 20

// Validator runs Rules against requests.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the custom rules registered. It panics if a
// rule cannot be registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		return field.Interface().(validationValuer).validationValue()
	}, fieldTypes...)

	rules := map[string]validator.Func{
		"countrycode": func(fl validator.FieldLevel) bool {
			return countryCodePattern.MatchString(fl.Field().String())
		},
		"maxbytes": func(fl validator.FieldLevel) bool {
			limit, err := strconv.Atoi(fl.Param())
			if err != nil {
				panic(fmt.Sprintf("maxbytes: bad parameter %q", fl.Param()))
			}
			return len(fl.Field().String()) <= limit
		},
		"notnull": func(fl validator.FieldLevel) bool {
			return fl.Field().Type() != nullMarkerType
		},
	}
	for tag, fn := range rules {
		mustRegister(v, tag, fn)
	}
	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("failed to register %q validation: %v", tag, err))
	}
}

// Struct validates a decoded value directly.
func (v *Validator) Struct(target any) error {
	trimStrings(reflect.ValueOf(target))
	if err := v.validate.Struct(target); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return Errors(violations(fieldErrs))
		}
		return err
	}
	return nil
}

// Check applies rules to r. It returns Errors for syntactic violations, a
// *NotFoundError when an addressed record is missing, and any other error
// when an existence lookup fails.
func (v *Validator) Check(r *http.Request, rules Rules) (*Result, error) {
	res := &Result{
		params: map[string]string{},
		ids:    map[string]uint{},
		query:  map[string]string{},
	}
	var errs Errors

	for _, rule := range rules.Path {
		raw := chi.URLParam(r, rule.Name)
		if violation, ok := checkPath(rule, raw, res); !ok {
			errs = append(errs, violation)
		}
	}

	for _, rule := range rules.Query {
		value := strings.TrimSpace(r.URL.Query().Get(rule.Name))
		if utf8.RuneCountInString(value) < rule.MinLength {
			errs = append(errs, Violation{
				Location: LocationQuery,
				Field:    rule.Name,
				Message:  fmt.Sprintf("must be at least %d characters", rule.MinLength),
				Value:    value,
			})
			continue
		}
		res.query[rule.Name] = value
	}

	if rules.Body != nil {
		body, bodyErrs := v.decodeBody(r, rules.Body())
		errs = append(errs, bodyErrs...)
		res.body = body
	}

	if len(errs) > 0 {
		return nil, errs
	}

	for _, rule := range rules.Path {
		if rule.Exists == nil {
			continue
		}
		ok, err := rule.Exists(r.Context(), res.params[rule.Name])
		if err != nil {
			return nil, fmt.Errorf("failed to look up %s: %w", rule.Label, err)
		}
		if !ok {
			return nil, &NotFoundError{Label: rule.Label}
		}
	}
	return res, nil
}

func checkPath(rule PathRule, raw string, res *Result) (Violation, bool) {
	violation := Violation{Location: LocationPath, Field: rule.Name, Value: raw}
	switch rule.Format {
	case FormatCountryCode:
		if !countryCodePattern.MatchString(raw) {
			violation.Message = "must be a 3-letter uppercase country code"
			return violation, false
		}
	default:
		id, err := strconv.ParseUint(raw, 10, 0)
		if err != nil || id == 0 {
			violation.Message = "must be a positive integer"
			return violation, false
		}
		res.ids[rule.Name] = uint(id)
	}
	res.params[rule.Name] = raw
	return violation, true
}

func (v *Validator) decodeBody(r *http.Request, target any) (any, Errors) {
	if r.Body != nil {
		dec := json.NewDecoder(r.Body)
		err := dec.Decode(target)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, Errors{decodeViolation(err)}
		}
		if err == nil {
			if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
				return nil, Errors{{Location: LocationBody, Message: "unexpected data after JSON body"}}
			}
		}
	}
	err := v.Struct(target)
	if err == nil {
		return target, nil
	}
	var errs Errors
	if errors.As(err, &errs) {
		return nil, errs
	}
	return nil, Errors{{Location: LocationBody, Message: err.Error()}}
}

func decodeViolation(err error) Violation {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return Violation{
			Location: LocationBody,
			Field:    typeErr.Field,
			Message:  "must be of type " + typeName(typeErr.Type),
			Value:    typeErr.Value,
		}
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return Violation{Location: LocationBody, Message: "malformed JSON"}
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return Violation{Location: LocationBody, Message: fmt.Sprintf("must not exceed %d bytes", tooLarge.Limit)}
	}
	return Violation{Location: LocationBody, Message: err.Error()}
}

func violations(fieldErrs validator.ValidationErrors) []Violation {
	out := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		value := fe.Value()
		if _, isNull := value.(nullMarker); isNull {
			value = nil
		}
		out = append(out, Violation{
			Location: LocationBody,
			Field:    fe.Field(),
			Message:  message(fe),
			Value:    value,
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		if isString {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max", "lte":
		if isString {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "gt":
		if isString {
			return "must be longer than " + fe.Param() + " characters"
		}
		return "must be greater than " + fe.Param()
	case "lt":
		if isString {
			return "must be shorter than " + fe.Param() + " characters"
		}
		return "must be less than " + fe.Param()
	case "maxbytes":
		return "must be at most " + fe.Param() + " bytes"
	case "notnull":
		return "must not be null"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "url", "http_url":
		return "must be a valid URL"
	case "email":
		return "must be a valid email address"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "countrycode":
		return "must be a 3-letter uppercase country code"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

func jsonName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	default:
		return t.String()
	}
}

// trimStrings trims surrounding whitespace from every string, *string and
// string update field of the struct v points to.
func trimStrings(v reflect.Value) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}
		switch {
		case field.Kind() == reflect.String:
			field.SetString(strings.TrimSpace(field.String()))
		case field.Kind() == reflect.Pointer && !field.IsNil() && field.Elem().Kind() == reflect.String:
			field.Elem().SetString(strings.TrimSpace(field.Elem().String()))
		case field.Kind() == reflect.Struct && v.Type().Field(i).Anonymous:
			trimStrings(field.Addr())
		case field.CanAddr():
			if t, ok := field.Addr().Interface().(spaceTrimmer); ok {
				t.trimSpace()
			}
		}
	}
}
