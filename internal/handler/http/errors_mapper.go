package http

import (
	"errors"
	"net/http"

	"github.com/eriktmidtun/secfit-auth/internal/logger"
	"github.com/eriktmidtun/secfit-auth/internal/service"
	"github.com/eriktmidtun/secfit-auth/internal/store"
	"github.com/eriktmidtun/secfit-auth/internal/utils"
	"github.com/eriktmidtun/secfit-auth/models"
)

// tokenRejectedMessage is the single body returned for every failed token
// check. Whether the token was forged, expired, or already used goes only to
// the log; the caller must not be able to tell the cases apart.
const tokenRejectedMessage = "token is invalid or has expired"

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided: http.StatusBadRequest,
	service.ErrWrongCredentials:    http.StatusUnauthorized,
	service.ErrAccountNotVerified:  http.StatusUnauthorized,

	service.ErrTOTPAlreadyEnabled: http.StatusBadRequest,
	service.ErrTOTPNotEnrolled:    http.StatusBadRequest,
	service.ErrWrongTOTPCode:      http.StatusBadRequest,

	service.ErrRememberMeInvalid: http.StatusUnauthorized,

	store.ErrUserAlreadyExists: http.StatusBadRequest,
	store.ErrUserNotFound:      http.StatusNotFound,

	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrScanningRow:        http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

func isTokenError(err error) bool {
	return errors.Is(err, service.ErrTokenInvalid) ||
		errors.Is(err, service.ErrTokenExpired) ||
		errors.Is(err, service.ErrTokenReplayed)
}

// respondError translates a service or store error into an HTTP response.
//
// Validation errors are itemized as a JSON body so the frontend can render
// them per rule; token failures collapse to one generic 401; everything else
// is a plain-text status line resolved through errorStatusMap.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	respondErrorTokenStatus(w, r, err, http.StatusUnauthorized)
}

// respondFlowError is respondError for the single-use-token flows (email
// verification, two-factor login, password-reset confirmation), where a
// rejected token is a bad request rather than a failed session: 400, not 401.
func respondFlowError(w http.ResponseWriter, r *http.Request, err error) {
	respondErrorTokenStatus(w, r, err, http.StatusBadRequest)
}

func respondErrorTokenStatus(w http.ResponseWriter, r *http.Request, err error, tokenStatus int) {
	log := logger.FromRequest(r)

	if ve, ok := service.AsValidationError(err); ok {
		log.Info().Strs("violations", ve.Violations).Msg("request rejected by validation")
		utils.WriteJSON(w, models.ValidationErrorResponse{Violations: ve.Violations}, http.StatusBadRequest)
		return
	}

	if isTokenError(err) {
		log.Info().Err(err).Int("status", tokenStatus).Msg("token rejected")
		http.Error(w, tokenRejectedMessage, tokenStatus)
		return
	}

	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		log.Err(err).Msg("request failed")
		http.Error(w, http.StatusText(status), status)
		return
	}

	log.Info().Err(err).Int("status", status).Msg("request rejected")
	http.Error(w, err.Error(), status)
}
