// internal/api/handler/respond.go
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"auction-listings/internal/api/types"
	"auction-listings/internal/domain"
	"auction-listings/internal/util" // For custom errors
)

// DefaultTimeout bounds every request handled by the router.
const DefaultTimeout = 15 * time.Second

// responder holds the JSON reply helpers shared by all handlers.
type responder struct {
	logger *slog.Logger
}

// Helper function to send JSON responses.
func (h responder) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// Helper function to send error responses.
func (h responder) respondWithError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	body := types.ErrorResponse{Error: "Internal server error"}

	var rejection *domain.BidRejection
	switch {
	case errors.As(err, &rejection):
		statusCode = http.StatusConflict
		body = types.ErrorResponse{
			Error:   rejection.Error(),
			Rule:    string(rejection.Rule),
			Minimum: types.Money(rejection.Minimum),
		}
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		body.Error = err.Error() // The wrapped detail tells the client what to fix
	case util.IsError(err, util.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		body.Error = err.Error()
	case util.IsError(err, util.ErrForbidden):
		statusCode = http.StatusForbidden
		body.Error = "Only the owner may do this"
	case util.IsError(err, util.ErrNotFound):
		statusCode = http.StatusNotFound
		body.Error = "Resource not found"
	case util.IsError(err, util.ErrListingClosed):
		statusCode = http.StatusConflict
		body.Error = "Listing is closed"
	case util.IsError(err, util.ErrDuplicateEntry):
		statusCode = http.StatusConflict
		body.Error = "Resource already exists"
	default:
		h.logger.Error("Unhandled service error", "error", err)
	}

	h.respondWithJSON(w, statusCode, body)
}

// decodeJSON reads the request body into dst. An empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: malformed JSON body", util.ErrInvalidInput)
	}
	return nil
}

func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, util.ErrInvalidInput
	}
	return id, nil
}
