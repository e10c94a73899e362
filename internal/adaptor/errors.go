package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"hostel-booking/internal/usecase"
	"hostel-booking/internal/wizard"
	"hostel-booking/pkg/hostelapi"
	"hostel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// decodeJSON reads the request body into dst, writing a 400 when it is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		utils.ResponseBadRequest(w, "Invalid "+name, nil)
		return 0, false
	}
	return id, true
}

// writeServiceError maps a service error onto a status code and envelope.
func writeServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	var (
		verr    *usecase.ValidationError
		missing *wizard.MissingFieldsError
		apiErr  *hostelapi.APIError
		netErr  *url.Error
	)

	switch {
	case errors.As(err, &verr):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseUnprocessable(w, "Validation failed", verr.Fields)

	case errors.As(err, &missing):
		fields := make(map[string]string, len(missing.Fields))
		for _, f := range missing.Fields {
			fields[f] = "This field is required"
		}
		log.Warn(operation+" blocked - guest incomplete", zap.Strings("fields", missing.Fields))
		utils.ResponseUnprocessable(w, "Please fill in all required guest fields", fields)

	case wizard.IsValidation(err):
		log.Warn(operation+" blocked", zap.Error(err))
		utils.ResponseUnprocessable(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrUnauthenticated):
		log.Warn(operation+" failed - unauthenticated", zap.Error(err))
		utils.ResponseUnauthorized(w, "Authentication required")

	case errors.Is(err, wizard.ErrTransitionInFlight),
		errors.Is(err, wizard.ErrLoading),
		errors.Is(err, wizard.ErrSubmitting),
		errors.Is(err, wizard.ErrCompleted),
		errors.Is(err, wizard.ErrWrongStep),
		errors.Is(err, wizard.ErrFirstStep),
		errors.Is(err, wizard.ErrLastStep):
		log.Info(operation+" dropped", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, wizard.ErrNotFound),
		errors.Is(err, wizard.ErrClosed):
		utils.ResponseNotFound(w, "Booking wizard not found or expired")

	case errors.Is(err, usecase.ErrRoomNotFound),
		errors.Is(err, wizard.ErrRoomNotFound):
		utils.ResponseNotFound(w, "Room not found")

	case errors.Is(err, usecase.ErrBookingNotFound):
		utils.ResponseNotFound(w, "Booking not found")

	case errors.As(err, &apiErr) && apiErr.StatusCode < 500:
		log.Warn(operation+" rejected by hostel API", zap.Error(err))
		msg := hostelapi.Message(err, "Request rejected")
		if apiErr.StatusCode == http.StatusUnprocessableEntity {
			utils.ResponseUnprocessable(w, msg, apiErr.Fields)
			return
		}
		utils.ResponseJSON(w, apiErr.StatusCode, false, msg, nil, nil)

	case errors.As(err, &apiErr), errors.As(err, &netErr):
		log.Error(operation+" failed - hostel API unavailable", zap.Error(err))
		utils.ResponseBadGateway(w, "Hostel service is unavailable, please try again later")

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
