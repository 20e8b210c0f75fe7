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

type CompanyTrendService interface {
	Trends(ctx context.Context, companyID uint) ([]models.TechnologyTrend, error)
	Link(ctx context.Context, companyID, trendID uint) (*models.CompanyTrend, error)
	Unlink(ctx context.Context, companyID, trendID uint) error
}

// LinkInput is the body of POST /empresas/{id}/tendencias.
type LinkInput struct {
	TrendID uint `json:"id_tendencia" validate:"required"`
}

// CompanyTrendHandler serves the trends linked to a company. Company ids are
// checked with the company resource's rule.
type CompanyTrendHandler struct {
	svc       CompanyTrendService
	companyID validation.PathRule
	respond   *Responder
}

func NewCompanyTrendHandler(svc CompanyTrendService, companyID validation.PathRule, respond *Responder) *CompanyTrendHandler {
	return &CompanyTrendHandler{svc: svc, companyID: companyID, respond: respond}
}

func (h *CompanyTrendHandler) List(w http.ResponseWriter, r *http.Request) {
	trends, err := h.svc.Trends(r.Context(), validation.ID(r, "id"))
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, trends)
}

func (h *CompanyTrendHandler) Link(w http.ResponseWriter, r *http.Request) {
	input := validation.Body[LinkInput](r)
	link, err := h.svc.Link(r.Context(), validation.ID(r, "id"), input.TrendID)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusCreated, link)
}

func (h *CompanyTrendHandler) Unlink(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Unlink(r.Context(), validation.ID(r, "id"), validation.ID(r, "id_tendencia"))
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			err = &validation.NotFoundError{Label: "tendencia de la empresa"}
		}
		h.respond.Error(w, r, err)
		return
	}
	h.respond.NoContent(w)
}

func (h *CompanyTrendHandler) Routes() []Route {
	company := []validation.PathRule{h.companyID}
	companyParam := docs.PathParam("id", "empresa id", true)
	return []Route{
		{
			Method:  http.MethodGet,
			Pattern: "/empresas/{id}/tendencias",
			Rules:   validation.Rules{Path: company},
			Handler: h.List,
			Doc: docs.Endpoint{
				Tag: "Empresas", Summary: "List trends linked to a company",
				Params: []*docs.Parameter{companyParam}, Result: []models.TechnologyTrend{},
				Errors: []int{http.StatusBadRequest, http.StatusNotFound},
			},
		},
		{
			Method:    http.MethodPost,
			Pattern:   "/empresas/{id}/tendencias",
			Protected: true,
			Rules:     validation.Rules{Path: company, Body: func() any { return new(LinkInput) }},
			Handler:   h.Link,
			Doc: docs.Endpoint{
				Tag: "Empresas", Summary: "Link a trend to a company",
				Params: []*docs.Parameter{companyParam}, Body: LinkInput{},
				Status: http.StatusCreated, Result: models.CompanyTrend{},
				Errors: []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict},
			},
		},
		{
			Method:    http.MethodDelete,
			Pattern:   "/empresas/{id}/tendencias/{id_tendencia}",
			Protected: true,
			Rules: validation.Rules{Path: []validation.PathRule{
				h.companyID,
				{Name: "id_tendencia", Label: "tendencia", Format: validation.FormatID},
			}},
			Handler: h.Unlink,
			Doc: docs.Endpoint{
				Tag: "Empresas", Summary: "Unlink a trend from a company",
				Params: []*docs.Parameter{companyParam, docs.PathParam("id_tendencia", "tendencia id", true)},
				Status: http.StatusNoContent,
				Errors: []int{http.StatusBadRequest, http.StatusNotFound},
			},
		},
	}
}
