package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"aozu-ops-hub/internal/domain"
	"aozu-ops-hub/internal/service"
	"aozu-ops-hub/internal/syncer"
	"aozu-ops-hub/pkg/response"
)

var validate = validator.New()

// decode reads a JSON body into dst and validates its struct tags.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var invalid *validator.InvalidValidationError
		if !errors.As(err, &invalid) {
			response.BadRequest(w, err.Error())
			return false
		}
	}
	return true
}

// writeError maps service and sync errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		response.BadRequest(w, verr.Error())
	case errors.Is(err, service.ErrInvalidDays):
		response.BadRequest(w, err.Error())
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrPolicyNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, service.ErrTemplateImmutable):
		response.Forbidden(w, err.Error())
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, syncer.ErrNotSignedIn):
		response.Unauthorized(w, err.Error())
	case errors.Is(err, service.ErrSyncDisabled):
		response.ServiceUnavailable(w, err.Error())
	case errors.Is(err, domain.ErrPermissionDenied):
		response.Forbidden(w, "Cloud storage refused access")
	case errors.Is(err, domain.ErrRemoteUnavailable):
		response.BadGateway(w, "Cloud storage unavailable")
	case errors.Is(err, syncer.ErrMalformedSlice):
		response.BadGateway(w, "Cloud data could not be applied")
	default:
		response.InternalError(w, "Internal error")
	}
}
