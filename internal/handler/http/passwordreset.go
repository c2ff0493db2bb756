package http

import (
	"encoding/json"
	"net/http"

	"github.com/eriktmidtun/secfit-auth/internal/logger"
	"github.com/eriktmidtun/secfit-auth/internal/utils"
	"github.com/eriktmidtun/secfit-auth/models"
)

// passwordResetRequest accepts an email address and dispatches a reset mail.
// The response is identical for known and unknown addresses.
func (h *Handler) passwordResetRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.PasswordResetService.Request(ctx, req.Email); err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: "if the address is registered, a reset mail has been sent"}, http.StatusOK)
}

func (h *Handler) passwordResetConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.PasswordResetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.PasswordResetService.Confirm(ctx, req); err != nil {
		respondFlowError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: "password has been reset"}, http.StatusOK)
}
