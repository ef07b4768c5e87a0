package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/accountability/ledger/internal/adapter/http/dto"
	"github.com/accountability/ledger/internal/domain"
)

// UserIDHeader identifies the acting user. Authentication happens upstream.
const UserIDHeader = "X-User-ID"

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// decodeJSON decodes the body into v and runs the struct validator.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	return dto.Validate(v)
}

// writeRequestError responds 400 to a decode or struct validation failure.
func writeRequestError(w http.ResponseWriter, err error) {
	var reqErr *dto.RequestError
	if errors.As(err, &reqErr) {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:  "invalid request",
			Fields: reqErr.Fields,
		})
		return
	}

	writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
}

// handleError maps err to a response. Form validation failures carry the
// full FormErrors report.
func handleError(w http.ResponseWriter, r *http.Request, message string, err error) {
	var formErr *domain.FormValidationError
	if errors.As(err, &formErr) {
		writeJSON(w, http.StatusUnprocessableEntity, dto.FormErrorResponse{
			Error:  "journal entry is invalid",
			Errors: formErr.Errors,
		})
		return
	}

	status := mapDomainError(err)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg(message)
		writeError(w, status, message, "internal error")
		return
	}

	writeError(w, status, message, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrCompanyNotFound),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrJournalEntryNotFound),
		errors.Is(err, domain.ErrLineNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidStatusTransition),
		errors.Is(err, domain.ErrEntryNotEditable),
		errors.Is(err, domain.ErrDuplicateAccount),
		errors.Is(err, domain.ErrAccountHierarchyCycle):
		return http.StatusConflict
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAccountInactive),
		errors.Is(err, domain.ErrAccountCompany):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidAccountType),
		errors.Is(err, domain.ErrInvalidAccountNumber),
		errors.Is(err, domain.ErrInvalidAccountName),
		errors.Is(err, domain.ErrInvalidCompanyName),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrRejectionReasonRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// requireUserID reads the acting user or writes a 400.
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(UserIDHeader)
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing user", UserIDHeader+" header is required")
		return "", false
	}
	return id, true
}
