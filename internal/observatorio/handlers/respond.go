package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	e "github.com/gartstein/observatorio/internal/observatorio/errors"
	"github.com/gartstein/observatorio/internal/observatorio/validation"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Responder writes JSON payloads and maps errors onto status codes.
type Responder struct {
	logger       *zap.Logger
	exposeErrors bool
}

// NewResponder returns a Responder. With exposeErrors set, error bodies carry
// the underlying cause.
func NewResponder(logger *zap.Logger, exposeErrors bool) *Responder {
	return &Responder{logger: logger.Named("responder"), exposeErrors: exposeErrors}
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type validationBody struct {
	Errors validation.Errors `json:"errors"`
}

func (rs *Responder) JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		rs.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (rs *Responder) NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Message writes {"message": message}.
func (rs *Responder) Message(w http.ResponseWriter, status int, message string) {
	rs.JSON(w, status, errorBody{Message: message})
}

// Error maps domain and validation errors to HTTP responses.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	var violations validation.Errors
	var notFound *validation.NotFoundError

	switch {
	case errors.As(err, &violations):
		rs.JSON(w, http.StatusBadRequest, validationBody{Errors: violations})
	case errors.As(err, &notFound):
		rs.Message(w, http.StatusNotFound, notFound.Error())
	case errors.Is(err, e.ErrNotFound):
		rs.fail(w, http.StatusNotFound, "not found", err)
	case errors.Is(err, e.ErrUnauthorized):
		rs.fail(w, http.StatusUnauthorized, "invalid credentials", err)
	case errors.Is(err, e.ErrDuplicate):
		rs.fail(w, http.StatusConflict, "resource already exists", err)
	case errors.Is(err, e.ErrInvalidReference):
		rs.fail(w, http.StatusConflict, "referenced resource does not exist", err)
	case errors.Is(err, e.ErrInvalidInput):
		rs.fail(w, http.StatusBadRequest, "invalid input", err)
	default:
		rs.logger.Error("Internal server error",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
		rs.fail(w, http.StatusInternalServerError, "internal server error", err)
	}
}

func (rs *Responder) fail(w http.ResponseWriter, status int, message string, err error) {
	body := errorBody{Message: message}
	if rs.exposeErrors {
		body.Error = err.Error()
	}
	rs.JSON(w, status, body)
}
