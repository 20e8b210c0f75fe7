package docs

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/gartstein/observatorio/internal/observatorio/models"
	"github.com/gartstein/observatorio/internal/observatorio/validation"
	"github.com/getkin/kin-openapi/openapi3"
)

const countryCodePattern = "^[A-Z]{3}$"

var (
	timeType  = reflect.TypeOf((*time.Time)(nil)).Elem()
	dateType  = reflect.TypeOf((*models.Date)(nil)).Elem()
	fieldType = reflect.TypeOf((*validation.Field)(nil)).Elem()
)

// customize is the openapi3gen schema hook. It renders models.Date as a date
// string, describes update fields by the value they wrap, marks pointer
// properties nullable, and copies validate tag constraints onto the schema.
func customize(_ string, t reflect.Type, tag reflect.StructTag, schema *openapi3.Schema) error {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch {
	case t == dateType:
		*schema = *openapi3.NewStringSchema().WithFormat("date")
	case t.Implements(fieldType):
		field := reflect.Zero(t).Interface().(validation.Field)
		t = field.ValueType()
		*schema = *valueSchema(t.Kind())
		schema.Nullable = field.AcceptsNull()
	case t.Kind() == reflect.Struct && t != timeType:
		schema.Required = nil
		eachField(t, func(f reflect.StructField, name string) {
			if hasRule(f.Tag.Get("validate"), "required") {
				schema.Required = append(schema.Required, name)
			}
			if prop := schema.Properties[name]; f.Type.Kind() == reflect.Pointer && prop != nil && prop.Value != nil {
				prop.Value.Nullable = true
			}
		})
	}
	applyRules(schema, t.Kind(), tag.Get("validate"))
	return nil
}

// eachField visits the JSON-visible fields of t, flattening embedded structs.
func eachField(t reflect.Type, fn func(f reflect.StructField, name string)) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			eachField(f.Type, fn)
			continue
		}
		if !f.IsExported() {
			continue
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fn(f, name)
	}
}

func valueSchema(kind reflect.Kind) *openapi3.Schema {
	switch {
	case kind == reflect.String:
		return openapi3.NewStringSchema()
	case kind == reflect.Bool:
		return openapi3.NewBoolSchema()
	case kind == reflect.Float32 || kind == reflect.Float64:
		return openapi3.NewFloat64Schema()
	case isInteger(kind):
		return openapi3.NewIntegerSchema()
	default:
		return &openapi3.Schema{}
	}
}

func hasRule(tag, rule string) bool {
	for _, r := range strings.Split(tag, ",") {
		if r == rule {
			return true
		}
	}
	return false
}

func applyRules(s *openapi3.Schema, kind reflect.Kind, tag string) {
	if tag == "" {
		return
	}
	for _, rule := range strings.Split(tag, ",") {
		key, param, _ := strings.Cut(rule, "=")
		switch key {
		case "min", "gte":
			setLower(s, kind, param, false)
		case "gt":
			setLower(s, kind, param, true)
		case "max", "lte", "maxbytes":
			setUpper(s, kind, param, false)
		case "lt":
			setUpper(s, kind, param, true)
		case "oneof":
			for _, v := range strings.Fields(param) {
				s.Enum = append(s.Enum, v)
			}
		case "url", "http_url":
			s.Format = "uri"
		case "email":
			s.Format = "email"
		case "datetime":
			s.Format = "date"
		case "countrycode":
			s.Pattern = countryCodePattern
		}
	}
}

// setLower applies a lower bound. Exclusive bounds are tightened by one for
// lengths and integers; on floats they are not expressed.
func setLower(s *openapi3.Schema, kind reflect.Kind, param string, exclusive bool) {
	n, err := strconv.ParseFloat(param, 64)
	if err != nil {
		return
	}
	if exclusive {
		if kind != reflect.String && !isInteger(kind) {
			return
		}
		n++
	}
	if kind == reflect.String {
		s.MinLength = uint64(n)
		return
	}
	s.Min = &n
}

func setUpper(s *openapi3.Schema, kind reflect.Kind, param string, exclusive bool) {
	n, err := strconv.ParseFloat(param, 64)
	if err != nil {
		return
	}
	if exclusive {
		if kind != reflect.String && !isInteger(kind) {
			return
		}
		n--
	}
	if kind == reflect.String {
		if s.MaxLength == nil || uint64(n) < *s.MaxLength {
			length := uint64(n)
			s.MaxLength = &length
		}
		return
	}
	s.Max = &n
}

func isInteger(kind reflect.Kind) bool {
	return kind >= reflect.Int && kind <= reflect.Uint64
}
