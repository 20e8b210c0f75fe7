package handlers

import (
	"math"

	"github.com/gartstein/observatorio/internal/observatorio/models"
	"github.com/gartstein/observatorio/internal/observatorio/validation"
)

// CompanyInput is the body of POST /empresas.
type CompanyInput struct {
	Name        string  `json:"nombre" validate:"required,min=2,max=255"`
	CountryCode string  `json:"pais" validate:"required,countrycode"`
	Sector      string  `json:"sector" validate:"required,min=2,max=100"`
	FoundedYear *int    `json:"anio_fundacion" validate:"omitempty,gte=1800,lte=2100"`
	Employees   *int    `json:"empleados" validate:"omitempty,gte=0"`
	Website     *string `json:"sitio_web" validate:"omitempty,url,max=255"`
	LinkedIn    *string `json:"linkedin" validate:"omitempty,url,max=255"`
	Description *string `json:"descripcion"`
	Image       *string `json:"imagen_empresa" validate:"omitempty,max=255"`
}

func (in CompanyInput) Model() *models.Company {
	return &models.Company{
		Name:        in.Name,
		CountryCode: in.CountryCode,
		Sector:      in.Sector,
		FoundedYear: in.FoundedYear,
		Employees:   in.Employees,
		Website:     in.Website,
		LinkedIn:    in.LinkedIn,
		Description: in.Description,
		Image:       in.Image,
	}
}

// CompanyUpdate is the body of PUT /empresas/{id}. Omitted fields are left
// unchanged and null clears a nullable column.
type CompanyUpdate struct {
	Name        validation.Optional[string] `json:"nombre" validate:"omitempty,notnull,min=2,max=255"`
	CountryCode validation.Optional[string] `json:"pais" validate:"omitempty,notnull,countrycode"`
	Sector      validation.Optional[string] `json:"sector" validate:"omitempty,notnull,min=2,max=100"`
	FoundedYear validation.Nullable[int]    `json:"anio_fundacion" validate:"omitempty,gte=1800,lte=2100"`
	Employees   validation.Nullable[int]    `json:"empleados" validate:"omitempty,gte=0"`
	Website     validation.Nullable[string] `json:"sitio_web" validate:"omitempty,url,max=255"`
	LinkedIn    validation.Nullable[string] `json:"linkedin" validate:"omitempty,url,max=255"`
	Description validation.Nullable[string] `json:"descripcion"`
	Image       validation.Nullable[string] `json:"imagen_empresa" validate:"omitempty,max=255"`
}

func (in CompanyUpdate) Fields() map[string]any {
	fields := map[string]any{}
	set(fields, "nombre", in.Name)
	set(fields, "pais", in.CountryCode)
	set(fields, "sector", in.Sector)
	setNullable(fields, "anio_fundacion", in.FoundedYear)
	setNullable(fields, "empleados", in.Employees)
	setNullable(fields, "sitio_web", in.Website)
	setNullable(fields, "linkedin", in.LinkedIn)
	setNullable(fields, "descripcion", in.Description)
	setNullable(fields, "imagen_empresa", in.Image)
	return fields
}

// ProductInput is the body of POST /productos-servicios.
type ProductInput struct {
	CompanyID   uint    `json:"id_empresa" validate:"required"`
	Name        string  `json:"nombre" validate:"required,min=2,max=255"`
	Type        string  `json:"tipo" validate:"required,min=2,max=100"`
	Description *string `json:"descripcion"`
	LaunchDate  *string `json:"fecha_lanzamiento" validate:"omitempty,datetime=2006-01-02"`
	Image       *string `json:"imagen_producto" validate:"omitempty,max=255"`
}

func (in ProductInput) Model() *models.ProductOrService {
	return &models.ProductOrService{
		CompanyID:   in.CompanyID,
		Name:        in.Name,
		Type:        in.Type,
		Description: in.Description,
		LaunchDate:  datePtr(in.LaunchDate),
		Image:       in.Image,
	}
}

type ProductUpdate struct {
	CompanyID   validation.Optional[uint]   `json:"id_empresa" validate:"omitempty,notnull,gt=0"`
	Name        validation.Optional[string] `json:"nombre" validate:"omitempty,notnull,min=2,max=255"`
	Type        validation.Optional[string] `json:"tipo" validate:"omitempty,notnull,min=2,max=100"`
	Description validation.Nullable[string] `json:"descripcion"`
	LaunchDate  validation.Nullable[string] `json:"fecha_lanzamiento" validate:"omitempty,datetime=2006-01-02"`
	Image       validation.Nullable[string] `json:"imagen_producto" validate:"omitempty,max=255"`
}

func (in ProductUpdate) Fields() map[string]any {
	fields := map[string]any{}
	set(fields, "id_empresa", in.CompanyID)
	set(fields, "nombre", in.Name)
	set(fields, "tipo", in.Type)
	setNullable(fields, "descripcion", in.Description)
	setNullableDate(fields, "fecha_lanzamiento", in.LaunchDate)
	setNullable(fields, "imagen_producto", in.Image)
	return fields
}

// SurveyInput is the body of POST /encuestas-demanda.
type SurveyInput struct {
	ProductID   uint     `json:"id_producto" validate:"required"`
	CountryCode *string  `json:"id_pais" validate:"omitempty,countrycode"`
	Percentage  *float64 `json:"porcentaje_demanda" validate:"required,gte=0,lte=100"`
	Year        int      `json:"anio" validate:"required,gte=1900,lte=2100"`
}

func (in SurveyInput) Model() *models.DemandSurvey {
	return &models.DemandSurvey{
		ProductID:   in.ProductID,
		CountryCode: in.CountryCode,
		Percentage:  roundPercentage(*in.Percentage),
		Year:        in.Year,
	}
}

type SurveyUpdate struct {
	ProductID   validation.Optional[uint]    `json:"id_producto" validate:"omitempty,notnull,gt=0"`
	CountryCode validation.Nullable[string]  `json:"id_pais" validate:"omitempty,countrycode"`
	Percentage  validation.Optional[float64] `json:"porcentaje_demanda" validate:"omitempty,notnull,gte=0,lte=100"`
	Year        validation.Optional[int]     `json:"anio" validate:"omitempty,notnull,gte=1900,lte=2100"`
}

func (in SurveyUpdate) Fields() map[string]any {
	fields := map[string]any{}
	set(fields, "id_producto", in.ProductID)
	setNullable(fields, "id_pais", in.CountryCode)
	if p, ok := in.Percentage.Get(); ok {
		fields["porcentaje_demanda"] = roundPercentage(p)
	}
	set(fields, "anio", in.Year)
	return fields
}

// EventInput is the body of POST /eventos-sectores.
type EventInput struct {
	Title           string  `json:"titulo" validate:"required,min=2,max=255"`
	Description     *string `json:"descripcion"`
	Kind            string  `json:"tipo_evento" validate:"required,oneof=Inversión Hackeo Adquisición Cierre Otro"`
	Date            string  `json:"fecha" validate:"required,datetime=2006-01-02"`
	AffectedCountry string  `json:"pais_afectado" validate:"required,countrycode"`
	CompanyID       *uint   `json:"empresa_relacionada" validate:"omitempty,gt=0"`
	Image           *string `json:"imagen_evento" validate:"omitempty,max=255"`
}

func (in EventInput) Model() *models.SectorEvent {
	return &models.SectorEvent{
		Title:           in.Title,
		Description:     in.Description,
		Kind:            models.EventKind(in.Kind),
		Date:            date(in.Date),
		AffectedCountry: in.AffectedCountry,
		CompanyID:       in.CompanyID,
		Image:           in.Image,
	}
}

type EventUpdate struct {
	Title           validation.Optional[string] `json:"titulo" validate:"omitempty,notnull,min=2,max=255"`
	Description     validation.Nullable[string] `json:"descripcion"`
	Kind            validation.Optional[string] `json:"tipo_evento" validate:"omitempty,notnull,oneof=Inversión Hackeo Adquisición Cierre Otro"`
	Date            validation.Optional[string] `json:"fecha" validate:"omitempty,notnull,datetime=2006-01-02"`
	AffectedCountry validation.Optional[string] `json:"pais_afectado" validate:"omitempty,notnull,countrycode"`
	CompanyID       validation.Nullable[uint]   `json:"empresa_relacionada" validate:"omitempty,gt=0"`
	Image           validation.Nullable[string] `json:"imagen_evento" validate:"omitempty,max=255"`
}

func (in EventUpdate) Fields() map[string]any {
	fields := map[string]any{}
	set(fields, "titulo", in.Title)
	setNullable(fields, "descripcion", in.Description)
	set(fields, "tipo_evento", in.Kind)
	if d, ok := in.Date.Get(); ok {
		fields["fecha"] = date(d)
	}
	set(fields, "pais_afectado", in.AffectedCountry)
	setNullable(fields, "empresa_relacionada", in.CompanyID)
	setNullable(fields, "imagen_evento", in.Image)
	return fields
}

// TrendInput is the body of POST /tendencias-tecnologicas.
type TrendInput struct {
	Name        string  `json:"nombre" validate:"required,min=2,max=255"`
	Description *string `json:"descripcion"`
}

func (in TrendInput) Model() *models.TechnologyTrend {
	return &models.TechnologyTrend{Name: in.Name, Description: in.Description}
}

type TrendUpdate struct {
	Name        validation.Optional[string] `json:"nombre" validate:"omitempty,notnull,min=2,max=255"`
	Description validation.Nullable[string] `json:"descripcion"`
}

func (in TrendUpdate) Fields() map[string]any {
	fields := map[string]any{}
	set(fields, "nombre", in.Name)
	setNullable(fields, "descripcion", in.Description)
	return fields
}

type (
	CompanyResource = Resource[models.Company, CompanyInput, CompanyUpdate]
	ProductResource = Resource[models.ProductOrService, ProductInput, ProductUpdate]
	SurveyResource  = Resource[models.DemandSurvey, SurveyInput, SurveyUpdate]
	EventResource   = Resource[models.SectorEvent, EventInput, EventUpdate]
	TrendResource   = Resource[models.TechnologyTrend, TrendInput, TrendUpdate]
)

func NewCompanyResource(svc Service[models.Company], respond *Responder) *CompanyResource {
	return NewResource[models.Company, CompanyInput, CompanyUpdate](ResourceConfig{
		Path: "/empresas", Tag: "Empresas", Label: "empresa",
		SearchField: "nombre", SearchMinLength: 3,
	}, svc, respond)
}

func NewProductResource(svc Service[models.ProductOrService], respond *Responder) *ProductResource {
	return NewResource[models.ProductOrService, ProductInput, ProductUpdate](ResourceConfig{
		Path: "/productos-servicios", Tag: "ProductosServicios", Label: "producto",
		SearchField: "nombre", SearchMinLength: 3,
	}, svc, respond)
}

func NewSurveyResource(svc Service[models.DemandSurvey], respond *Responder) *SurveyResource {
	return NewResource[models.DemandSurvey, SurveyInput, SurveyUpdate](ResourceConfig{
		Path: "/encuestas-demanda", Tag: "EncuestasDemanda", Label: "encuesta",
		SearchField: "producto", SearchMinLength: 1,
	}, svc, respond)
}

func NewEventResource(svc Service[models.SectorEvent], respond *Responder) *EventResource {
	return NewResource[models.SectorEvent, EventInput, EventUpdate](ResourceConfig{
		Path: "/eventos-sectores", Tag: "EventosSectores", Label: "evento",
		SearchField: "titulo", SearchMinLength: 3,
	}, svc, respond)
}

func NewTrendResource(svc Service[models.TechnologyTrend], respond *Responder) *TrendResource {
	return NewResource[models.TechnologyTrend, TrendInput, TrendUpdate](ResourceConfig{
		Path: "/tendencias-tecnologicas", Tag: "TendenciasTecnologicas", Label: "tendencia",
		SearchField: "nombre", SearchMinLength: 2,
	}, svc, respond)
}

// set records column when f carries a value.
func set[T any](fields map[string]any, column string, f validation.Optional[T]) {
	if v, ok := f.Get(); ok {
		fields[column] = v
	}
}

// setNullable records column when f was sent; null becomes NULL.
func setNullable[T any](fields map[string]any, column string, f validation.Nullable[T]) {
	if f.Clears() {
		fields[column] = nil
		return
	}
	if v, ok := f.Get(); ok {
		fields[column] = v
	}
}

func setNullableDate(fields map[string]any, column string, f validation.Nullable[string]) {
	if f.Clears() {
		fields[column] = nil
		return
	}
	if s, ok := f.Get(); ok {
		fields[column] = date(s)
	}
}

// date converts a string already validated as YYYY-MM-DD.
func date(s string) models.Date {
	d, _ := models.ParseDate(s)
	return d
}

func datePtr(s *string) *models.Date {
	if s == nil {
		return nil
	}
	d := date(*s)
	return &d
}

func roundPercentage(p float64) float64 {
	return math.Round(p*100) / 100
}
