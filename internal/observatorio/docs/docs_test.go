package docs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gartstein/observatorio/internal/observatorio/models"
	"github.com/gartstein/observatorio/internal/observatorio/validation"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type widgetInput struct {
	Name       string  `json:"nombre" validate:"required,min=2,max=255"`
	Kind       string  `json:"tipo" validate:"required,oneof=a b c"`
	Share      float64 `json:"porcentaje" validate:"gte=0,lte=100"`
	Website    *string `json:"sitio_web" validate:"omitempty,url"`
	Country    string  `json:"pais" validate:"required,countrycode"`
	LaunchDate *string `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
	internal   string
	Skipped    string `json:"-"`
}

type widgetUpdate struct {
	Name      validation.Optional[string] `json:"nombre" validate:"omitempty,notnull,min=2,max=255"`
	Website   validation.Nullable[string] `json:"sitio_web" validate:"omitempty,url"`
	CompanyID validation.Nullable[uint]   `json:"empresa" validate:"omitempty,gt=0"`
}

type widget struct {
	ID        uint          `json:"id"`
	Date      models.Date   `json:"fecha"`
	CreatedAt time.Time     `json:"created_at"`
	Owner     *widgetOwner  `json:"owner,omitempty"`
	Children  []widgetOwner `json:"children"`
}

type widgetOwner struct {
	Name string `json:"nombre"`
}

func newTestBuilder() *Builder {
	b := NewBuilder(Info{Title: "API Observatorio", Version: "1.0.0"}, "/api")
	b.Add(Endpoint{
		Method:  http.MethodGet,
		Path:    "/widgets",
		Tag:     "Widgets",
		Summary: "List widgets",
		Result:  []widget{},
	})
	b.Add(Endpoint{
		Method:    http.MethodPost,
		Path:      "/widgets",
		Tag:       "Widgets",
		Summary:   "Create a widget",
		Protected: true,
		Body:      widgetInput{},
		Status:    http.StatusCreated,
		Result:    widget{},
		Errors:    []int{http.StatusBadRequest},
	})
	b.Add(Endpoint{
		Method:    http.MethodPut,
		Path:      "/widgets/{id}",
		Protected: true,
		Params:    []*Parameter{PathParam("id", "widget id", true)},
		Body:      widgetUpdate{},
		Result:    widget{},
	})
	b.Add(Endpoint{
		Method:    http.MethodDelete,
		Path:      "/widgets/{id}",
		Protected: true,
		Params:    []*Parameter{PathParam("id", "widget id", true)},
		Status:    http.StatusNoContent,
		Errors:    []int{http.StatusNotFound},
	})
	return b
}

func testDocument(t *testing.T) *openapi3.T {
	t.Helper()
	doc, err := newTestBuilder().Document()
	require.NoError(t, err)
	return doc
}

// rendered returns the document as the JSON endpoint serves it.
func rendered(t *testing.T, doc *openapi3.T) map[string]any {
	t.Helper()
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func object(t *testing.T, v any, path ...string) map[string]any {
	t.Helper()
	for _, key := range path {
		m, ok := v.(map[string]any)
		require.True(t, ok, "expected an object before %q", key)
		v = m[key]
	}
	m, ok := v.(map[string]any)
	require.True(t, ok, "expected an object at %v", path)
	return m
}

func TestBuilderDocumentValidates(t *testing.T) {
	doc := testDocument(t)
	require.NoError(t, doc.Validate(context.Background(), openapi3.DisableSchemaFormatValidation()))
}

func TestBuilderDocument(t *testing.T) {
	doc := testDocument(t)

	assert.Equal(t, "3.0.3", doc.OpenAPI)
	assert.Equal(t, "/api", doc.Servers[0].URL)
	require.Contains(t, doc.Components.SecuritySchemes, "bearerAuth")
	assert.Equal(t, "bearer", doc.Components.SecuritySchemes["bearerAuth"].Value.Scheme)

	item := doc.Paths.Value("/widgets")
	require.NotNil(t, item)
	require.NotNil(t, item.Get)
	assert.Nil(t, item.Get.Security)
	assert.Equal(t, []string{"Widgets"}, item.Get.Tags)

	create := item.Post
	require.NotNil(t, create)
	require.NotNil(t, create.Security)
	assert.Equal(t, openapi3.SecurityRequirements{{"bearerAuth": []string{}}}, *create.Security)
	assert.NotNil(t, create.Responses.Value("201"))
	assert.NotNil(t, create.Responses.Value("400"))
	assert.NotNil(t, create.Responses.Value("401"), "protected operations document 401")
	assert.Nil(t, create.Responses.Value("default"))
	assert.Equal(t, "#/components/schemas/widgetInput", create.RequestBody.Value.Content.Get(jsonContent).Schema.Ref)

	del := doc.Paths.Value("/widgets/{id}").Delete
	require.NotNil(t, del)
	noContent := del.Responses.Value("204")
	require.NotNil(t, noContent)
	assert.Empty(t, noContent.Value.Content)
	require.Len(t, del.Parameters, 1)
	assert.Equal(t, "path", del.Parameters[0].Value.In)
	assert.True(t, del.Parameters[0].Value.Required)

	paths := object(t, rendered(t, doc), "paths")
	list := object(t, paths, "/widgets", "get", "responses", "200", "content", jsonContent, "schema")
	assert.Equal(t, "array", list["type"])
	assert.Equal(t, "#/components/schemas/widget", object(t, list, "items")["$ref"])

	badRequest := object(t, paths, "/widgets", "post", "responses", "400", "content", jsonContent, "schema")
	assert.Equal(t, "#/components/schemas/ValidationErrors", badRequest["$ref"])

	idParam := object(t, paths["/widgets/{id}"].(map[string]any)["delete"].(map[string]any)["parameters"].([]any)[0])
	assert.Equal(t, "integer", object(t, idParam, "schema")["type"])
	assert.Equal(t, 1.0, object(t, idParam, "schema")["minimum"])
}

func TestSchemaReflection(t *testing.T) {
	schemas := object(t, rendered(t, testDocument(t)), "components", "schemas")

	input := object(t, schemas, "widgetInput")
	assert.Equal(t, []any{"nombre", "tipo", "pais"}, input["required"])
	props := object(t, input, "properties")
	assert.NotContains(t, props, "internal")
	assert.NotContains(t, props, "Skipped")

	name := object(t, props, "nombre")
	assert.Equal(t, 2.0, name["minLength"])
	assert.Equal(t, 255.0, name["maxLength"])
	assert.Equal(t, []any{"a", "b", "c"}, object(t, props, "tipo")["enum"])
	assert.Equal(t, 100.0, object(t, props, "porcentaje")["maximum"])
	assert.Equal(t, "uri", object(t, props, "sitio_web")["format"])
	assert.Equal(t, true, object(t, props, "sitio_web")["nullable"])
	assert.Equal(t, "^[A-Z]{3}$", object(t, props, "pais")["pattern"])
	assert.Equal(t, "date", object(t, props, "fecha")["format"])

	out := object(t, schemas, "widget", "properties")
	assert.Equal(t, "integer", object(t, out, "id")["type"])
	assert.Equal(t, "string", object(t, out, "fecha")["type"])
	assert.Equal(t, "date", object(t, out, "fecha")["format"])
	assert.Equal(t, "date-time", object(t, out, "created_at")["format"])
	assert.Equal(t, true, object(t, out, "owner")["nullable"])
	assert.Contains(t, object(t, out, "owner", "properties"), "nombre")
	assert.Contains(t, object(t, out, "children", "items", "properties"), "nombre")

	assert.Contains(t, schemas, "ValidationErrors")
	assert.Contains(t, schemas, "Violation")
}

func TestUpdateFieldSchemas(t *testing.T) {
	props := object(t, rendered(t, testDocument(t)), "components", "schemas", "widgetUpdate", "properties")
	assert.Len(t, props, 3)

	name := object(t, props, "nombre")
	assert.Equal(t, "string", name["type"])
	assert.Equal(t, 2.0, name["minLength"])
	assert.NotContains(t, name, "nullable")
	assert.NotContains(t, name, "properties")

	website := object(t, props, "sitio_web")
	assert.Equal(t, "string", website["type"])
	assert.Equal(t, "uri", website["format"])
	assert.Equal(t, true, website["nullable"])

	company := object(t, props, "empresa")
	assert.Equal(t, "integer", company["type"])
	assert.Equal(t, 1.0, company["minimum"])
	assert.Equal(t, true, company["nullable"])
}

func TestHandlers(t *testing.T) {
	h, err := NewHandlers(testDocument(t))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.JSON(rec, httptest.NewRequest(http.MethodGet, "/api/docs/openapi.json", nil))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var fromJSON map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fromJSON))
	assert.Equal(t, "3.0.3", fromJSON["openapi"])

	rec = httptest.NewRecorder()
	h.YAML(rec, httptest.NewRequest(http.MethodGet, "/api/docs/openapi.yaml", nil))
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	var fromYAML map[string]any
	require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &fromYAML))
	assert.Equal(t, "3.0.3", fromYAML["openapi"])
	assert.Contains(t, fromYAML["paths"], "/widgets/{id}")
}

func TestUI(t *testing.T) {
	ui := UI("/api/docs/openapi.json")

	rec := httptest.NewRecorder()
	ui(rec, httptest.NewRequest(http.MethodGet, "/api/docs/index.html", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "swagger-ui")
	assert.Contains(t, rec.Body.String(), "openapi.json")
}
