package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gartstein/observatorio/internal/observatorio/docs"
	e "github.com/gartstein/observatorio/internal/observatorio/errors"
	"github.com/gartstein/observatorio/internal/observatorio/models"
	"github.com/gartstein/observatorio/internal/observatorio/validation"
)

type CountryService interface {
	List(ctx context.Context) ([]models.Country, error)
	Get(ctx context.Context, code string) (*models.Country, error)
	Exists(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, country *models.Country) (*models.Country, error)
}

// CountryInput is the body of POST /paises.
type CountryInput struct {
	Code string `json:"id_pais" validate:"required,countrycode"`
	Name string `json:"nombre_pais" validate:"required,min=2,max=100"`
}

type CountryHandler struct {
	svc     CountryService
	respond *Responder
}

func NewCountryHandler(svc CountryService, respond *Responder) *CountryHandler {
	return &CountryHandler{svc: svc, respond: respond}
}

func (h *CountryHandler) List(w http.ResponseWriter, r *http.Request) {
	countries, err := h.svc.List(r.Context())
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, countries)
}

func (h *CountryHandler) Get(w http.ResponseWriter, r *http.Request) {
	country, err := h.svc.Get(r.Context(), validation.Param(r, "codigo"))
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			err = &validation.NotFoundError{Label: "pais"}
		}
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, country)
}

func (h *CountryHandler) Create(w http.ResponseWriter, r *http.Request) {
	input := validation.Body[CountryInput](r)
	country, err := h.svc.Create(r.Context(), &models.Country{Code: input.Code, Name: input.Name})
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusCreated, country)
}

func (h *CountryHandler) Routes() []Route {
	byCode := validation.PathRule{
		Name:   "codigo",
		Label:  "pais",
		Format: validation.FormatCountryCode,
		Exists: h.svc.Exists,
	}
	return []Route{
		{
			Method:  http.MethodGet,
			Pattern: "/paises",
			Handler: h.List,
			Doc:     docs.Endpoint{Tag: "Paises", Summary: "List countries", Result: []models.Country{}},
		},
		{
			Method:  http.MethodGet,
			Pattern: "/paises/{codigo}",
			Rules:   validation.Rules{Path: []validation.PathRule{byCode}},
			Handler: h.Get,
			Doc: docs.Endpoint{
				Tag: "Paises", Summary: "Get country by code",
				Params: []*docs.Parameter{docs.PathParam("codigo", "ISO 3166-1 alpha-3 code", false)},
				Result: models.Country{}, Errors: []int{http.StatusBadRequest, http.StatusNotFound},
			},
		},
		{
			Method:    http.MethodPost,
			Pattern:   "/paises",
			Protected: true,
			Rules:     validation.Rules{Body: func() any { return new(CountryInput) }},
			Handler:   h.Create,
			Doc: docs.Endpoint{
				Tag: "Paises", Summary: "Create country", Body: CountryInput{},
				Status: http.StatusCreated, Result: models.Country{},
				Errors: []int{http.StatusBadRequest, http.StatusConflict},
			},
		},
	}
}
