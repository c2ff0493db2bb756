package http

import (
	"encoding/json"
	"net/http"

	"github.com/eriktmidtun/secfit-auth/internal/logger"
	"github.com/eriktmidtun/secfit-auth/internal/utils"
	"github.com/eriktmidtun/secfit-auth/models"
)

func (h *Handler) totpProvisionURI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user id in authenticated request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	uri, err := h.services.TwoFactorService.ProvisionURI(ctx, userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.TOTPURIResponse{URI: uri}, http.StatusOK)
}

func (h *Handler) totpEnable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user id in authenticated request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req models.TOTPEnableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.TwoFactorService.Enable(ctx, userID, req.TOTPCode); err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: "two-factor authentication enabled"}, http.StatusOK)
}

func (h *Handler) totpLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.TOTPLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	pair, err := h.services.TwoFactorService.LoginWithTOTP(ctx, req.TOTPToken, req.TOTPCode)
	if err != nil {
		respondFlowError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.LoginResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
	}, http.StatusOK)
}
