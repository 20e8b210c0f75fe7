package docs

import (
	"fmt"
	"net/http"
	"reflect"
	"slices"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
)

const (
	openAPIVersion = "3.0.3"
	jsonContent    = "application/json"
	bearerSchemeID = "bearerAuth"
	componentRef   = "#/components/schemas/"
)

type (
	Info      = openapi3.Info
	Parameter = openapi3.Parameter
)

// Endpoint documents one route. Body and Result are sample values whose
// types describe the request and success payloads.
type Endpoint struct {
	Method    string
	Path      string
	Tag       string
	Summary   string
	Protected bool
	Params    []*Parameter
	Body      any
	Status    int
	Result    any
	Errors    []int
}

// Builder accumulates endpoints into an OpenAPI document. Named struct
// payloads become component schemas.
type Builder struct {
	doc *openapi3.T
	err error
}

func NewBuilder(info Info, serverURL string) *Builder {
	b := &Builder{doc: &openapi3.T{
		OpenAPI: openAPIVersion,
		Info:    &info,
		Servers: openapi3.Servers{{URL: serverURL}},
		Paths:   openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{},
			SecuritySchemes: openapi3.SecuritySchemes{
				bearerSchemeID: &openapi3.SecuritySchemeRef{Value: openapi3.NewJWTSecurityScheme()},
			},
		},
	}}
	b.registerErrorSchemas()
	return b
}

// PathParam documents a required path parameter: a positive integer id, or
// a country code.
func PathParam(name, description string, integer bool) *Parameter {
	schema := openapi3.NewStringSchema().WithPattern(countryCodePattern)
	if integer {
		schema = openapi3.NewIntegerSchema().WithMin(1)
	}
	return openapi3.NewPathParameter(name).WithDescription(description).WithSchema(schema)
}

// QueryParam documents a required query parameter with a minimum length.
func QueryParam(name, description string, minLength int) *Parameter {
	return openapi3.NewQueryParameter(name).
		WithDescription(description).
		WithRequired(true).
		WithSchema(openapi3.NewStringSchema().WithMinLength(int64(minLength)))
}

func (b *Builder) Add(ep Endpoint) {
	op := &openapi3.Operation{Summary: ep.Summary}
	if ep.Tag != "" {
		op.Tags = []string{ep.Tag}
	}
	for _, param := range ep.Params {
		op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: param})
	}
	if ep.Protected {
		op.Security = &openapi3.SecurityRequirements{{bearerSchemeID: []string{}}}
	}
	if ep.Body != nil {
		op.RequestBody = &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(b.schemaRef(reflect.TypeOf(ep.Body))),
		}
	}

	status := ep.Status
	if status == 0 {
		status = http.StatusOK
	}
	success := openapi3.NewResponse().WithDescription(http.StatusText(status))
	if ep.Result != nil {
		success = success.WithJSONSchemaRef(b.schemaRef(reflect.TypeOf(ep.Result)))
	}
	responses := []openapi3.NewResponsesOption{openapi3.WithStatus(status, &openapi3.ResponseRef{Value: success})}

	errorCodes := ep.Errors
	if ep.Protected && !slices.Contains(errorCodes, http.StatusUnauthorized) {
		errorCodes = append(slices.Clip(errorCodes), http.StatusUnauthorized)
	}
	for _, code := range errorCodes {
		name := "Error"
		if code == http.StatusBadRequest {
			name = "ValidationErrors"
		}
		response := openapi3.NewResponse().
			WithDescription(http.StatusText(code)).
			WithJSONSchemaRef(b.componentRef(name))
		responses = append(responses, openapi3.WithStatus(code, &openapi3.ResponseRef{Value: response}))
	}
	op.Responses = openapi3.NewResponses(responses...)

	item := b.doc.Paths.Value(ep.Path)
	if item == nil {
		item = &openapi3.PathItem{}
		b.doc.Paths.Set(ep.Path, item)
	}
	item.SetOperation(ep.Method, op)
}

// Document returns the compiled document, or the first schema generation
// failure.
func (b *Builder) Document() (*openapi3.T, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.doc, nil
}

// schemaRef describes t. Slices become arrays and named structs are
// registered once as components and referenced.
func (b *Builder) schemaRef(t reflect.Type) *openapi3.SchemaRef {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch {
	case t.Kind() == reflect.Slice || t.Kind() == reflect.Array:
		array := openapi3.NewArraySchema()
		array.Items = b.schemaRef(t.Elem())
		return array.NewRef()
	case t.Kind() == reflect.Struct && t.Name() != "" && t != timeType && t != dateType:
		if _, ok := b.doc.Components.Schemas[t.Name()]; !ok {
			b.doc.Components.Schemas[t.Name()] = b.generate(t)
		}
		return b.componentRef(t.Name())
	}
	return b.generate(t)
}

func (b *Builder) generate(t reflect.Type) *openapi3.SchemaRef {
	ref, err := openapi3gen.NewSchemaRefForValue(reflect.New(t).Elem().Interface(), openapi3.Schemas{},
		openapi3gen.UseAllExportedFields(),
		openapi3gen.SchemaCustomizer(customize),
	)
	if err != nil {
		if b.err == nil {
			b.err = fmt.Errorf("failed to generate schema for %s: %w", t, err)
		}
		return openapi3.NewObjectSchema().NewRef()
	}
	return ref
}

// componentRef references a registered component. The value is kept so the
// document validates without a loader.
func (b *Builder) componentRef(name string) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef(componentRef+name, b.doc.Components.Schemas[name].Value)
}

func (b *Builder) registerErrorSchemas() {
	errorSchema := openapi3.NewObjectSchema().
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("error", openapi3.NewStringSchema())
	errorSchema.Required = []string{"message"}

	violation := openapi3.NewObjectSchema().
		WithProperty("location", openapi3.NewStringSchema().WithEnum("path", "query", "body")).
		WithProperty("field", openapi3.NewStringSchema()).
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("value", &openapi3.Schema{})
	violation.Required = []string{"location", "field", "message"}

	violations := openapi3.NewArraySchema()
	violations.Items = openapi3.NewSchemaRef(componentRef+"Violation", violation)
	validationErrors := openapi3.NewObjectSchema().WithProperty("errors", violations)
	validationErrors.Required = []string{"errors"}

	b.doc.Components.Schemas["Error"] = errorSchema.NewRef()
	b.doc.Components.Schemas["Violation"] = violation.NewRef()
	b.doc.Components.Schemas["ValidationErrors"] = validationErrors.NewRef()
}
