package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gartstein/observatorio/internal/observatorio/docs"
	e "github.com/gartstein/observatorio/internal/observatorio/errors"
	"github.com/gartstein/observatorio/internal/observatorio/models"
	"github.com/gartstein/observatorio/internal/observatorio/validation"
)

// Service is the business interface a Resource invokes.
type Service[M models.Entity] interface {
	List(ctx context.Context) ([]M, error)
	Get(ctx context.Context, id uint) (*M, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Search(ctx context.Context, term string) ([]M, error)
	Create(ctx context.Context, row *M) (*M, error)
	Update(ctx context.Context, id uint, fields map[string]any) (*M, error)
	Delete(ctx context.Context, id uint) error
}

// CreateInput is a validated create body that builds a new row.
type CreateInput[M any] interface {
	Model() *M
}

// UpdateInput is a validated update body listing the columns to write.
type UpdateInput interface {
	Fields() map[string]any
}

// ResourceConfig names a resource on the wire and in messages.
type ResourceConfig struct {
	// Path is the collection path, e.g. "/empresas".
	Path string
	// Tag groups the resource's operations in the docs.
	Tag string
	// Label names one row in not-found messages.
	Label string
	// SearchField is the path suffix of the search route, /buscar/<field>.
	SearchField string
	// SearchMinLength is the minimum trimmed length of the search term.
	SearchMinLength int
}

// Resource implements list, get, search, create, update and delete for one
// entity, parameterized by its create and update bodies.
type Resource[M models.Entity, C CreateInput[M], U UpdateInput] struct {
	cfg     ResourceConfig
	svc     Service[M]
	respond *Responder
}

func NewResource[M models.Entity, C CreateInput[M], U UpdateInput](cfg ResourceConfig, svc Service[M], respond *Responder) *Resource[M, C, U] {
	return &Resource[M, C, U]{cfg: cfg, svc: svc, respond: respond}
}

func (h *Resource[M, C, U]) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.List(r.Context())
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, rows)
}

func (h *Resource[M, C, U]) Get(w http.ResponseWriter, r *http.Request) {
	row, err := h.svc.Get(r.Context(), validation.ID(r, "id"))
	if err != nil {
		h.respond.Error(w, r, h.notFound(err))
		return
	}
	h.respond.JSON(w, http.StatusOK, row)
}

func (h *Resource[M, C, U]) Search(w http.ResponseWriter, r *http.Request) {
	term := validation.Query(r, "q")
	rows, err := h.svc.Search(r.Context(), term)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			h.respond.Message(w, http.StatusNotFound, fmt.Sprintf("no %s matches %q", h.cfg.Label, term))
			return
		}
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, rows)
}

func (h *Resource[M, C, U]) Create(w http.ResponseWriter, r *http.Request) {
	input := validation.Body[C](r)
	row, err := h.svc.Create(r.Context(), (*input).Model())
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusCreated, row)
}

func (h *Resource[M, C, U]) Update(w http.ResponseWriter, r *http.Request) {
	input := validation.Body[U](r)
	row, err := h.svc.Update(r.Context(), validation.ID(r, "id"), (*input).Fields())
	if err != nil {
		h.respond.Error(w, r, h.notFound(err))
		return
	}
	h.respond.JSON(w, http.StatusOK, row)
}

func (h *Resource[M, C, U]) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), validation.ID(r, "id")); err != nil {
		h.respond.Error(w, r, h.notFound(err))
		return
	}
	h.respond.NoContent(w)
}

func (h *Resource[M, C, U]) notFound(err error) error {
	if errors.Is(err, e.ErrNotFound) {
		return &validation.NotFoundError{Label: h.cfg.Label}
	}
	return err
}

// IDRule is the path rule for the resource's {id} parameter.
func (h *Resource[M, C, U]) IDRule() validation.PathRule {
	return validation.PathRule{
		Name:   "id",
		Label:  h.cfg.Label,
		Format: validation.FormatID,
		Exists: func(ctx context.Context, value string) (bool, error) {
			id, err := strconv.ParseUint(value, 10, 0)
			if err != nil {
				return false, nil
			}
			return h.svc.Exists(ctx, uint(id))
		},
	}
}

func (h *Resource[M, C, U]) Routes() []Route {
	var (
		zero   M
		create C
		update U
	)
	byID := []validation.PathRule{h.IDRule()}
	idParam := []*docs.Parameter{docs.PathParam("id", h.cfg.Label+" id", true)}
	item := h.cfg.Path + "/{id}"

	routes := []Route{
		{
			Method:  http.MethodGet,
			Pattern: h.cfg.Path,
			Handler: h.List,
			Doc:     docs.Endpoint{Tag: h.cfg.Tag, Summary: "List " + h.cfg.Tag, Result: []M{}, Errors: []int{http.StatusInternalServerError}},
		},
		{
			Method:  http.MethodGet,
			Pattern: item,
			Rules:   validation.Rules{Path: byID},
			Handler: h.Get,
			Doc: docs.Endpoint{
				Tag: h.cfg.Tag, Summary: "Get " + h.cfg.Label + " by id", Params: idParam, Result: zero,
				Errors: []int{http.StatusBadRequest, http.StatusNotFound},
			},
		},
		{
			Method:    http.MethodPost,
			Pattern:   h.cfg.Path,
			Protected: true,
			Rules:     validation.Rules{Body: func() any { return new(C) }},
			Handler:   h.Create,
			Doc: docs.Endpoint{
				Tag: h.cfg.Tag, Summary: "Create " + h.cfg.Label, Body: create, Status: http.StatusCreated, Result: zero,
				Errors: []int{http.StatusBadRequest, http.StatusConflict},
			},
		},
		{
			Method:    http.MethodPut,
			Pattern:   item,
			Protected: true,
			Rules:     validation.Rules{Path: byID, Body: func() any { return new(U) }},
			Handler:   h.Update,
			Doc: docs.Endpoint{
				Tag: h.cfg.Tag, Summary: "Update " + h.cfg.Label, Params: idParam, Body: update, Result: zero,
				Errors: []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict},
			},
		},
		{
			Method:    http.MethodDelete,
			Pattern:   item,
			Protected: true,
			Rules:     validation.Rules{Path: byID},
			Handler:   h.Delete,
			Doc: docs.Endpoint{
				Tag: h.cfg.Tag, Summary: "Delete " + h.cfg.Label, Params: idParam, Status: http.StatusNoContent,
				Errors: []int{http.StatusBadRequest, http.StatusNotFound},
			},
		},
	}

	if h.cfg.SearchField != "" {
		routes = append(routes, Route{
			Method:  http.MethodGet,
			Pattern: h.cfg.Path + "/buscar/" + h.cfg.SearchField,
			Rules:   validation.Rules{Query: []validation.QueryRule{{Name: "q", MinLength: h.cfg.SearchMinLength}}},
			Handler: h.Search,
			Doc: docs.Endpoint{
				Tag:     h.cfg.Tag,
				Summary: "Search " + h.cfg.Tag + " by " + h.cfg.SearchField,
				Params:  []*docs.Parameter{docs.QueryParam("q", "prefix of the "+h.cfg.SearchField, h.cfg.SearchMinLength)},
				Result:  []M{},
				Errors:  []int{http.StatusBadRequest, http.StatusNotFound},
			},
		})
	}
	return routes
}
