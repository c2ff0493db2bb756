package http

import (
	"encoding/json"
	"net/http"

	"github.com/eriktmidtun/secfit-auth/internal/logger"
	"github.com/eriktmidtun/secfit-auth/internal/utils"
	"github.com/eriktmidtun/secfit-auth/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	registered, err := h.services.AuthService.Register(ctx, req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	log.Info().Int64("user_id", registered.UserID).Msg("user registered")
	utils.WriteJSON(w, registered, http.StatusCreated)
}

// verifyEmail consumes the single-use token from the mailed link. The token
// arrives as a query parameter because the user gets here by clicking a URL.
func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		http.Error(w, "missing `token` query parameter", http.StatusBadRequest)
		return
	}

	if err := h.services.AuthService.VerifyEmail(ctx, tokenString); err != nil {
		respondFlowError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: "email verified"}, http.StatusOK)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	result, err := h.services.AuthService.Login(ctx, req.Username, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if result.TOTPPending {
		utils.WriteJSON(w, models.LoginResponse{TOTPToken: result.TOTPToken}, http.StatusOK)
		return
	}

	utils.WriteJSON(w, models.LoginResponse{
		Access:  result.Pair.Access,
		Refresh: result.Pair.Refresh,
	}, http.StatusOK)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	pair, err := h.services.AuthService.Refresh(ctx, req.Refresh)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.LoginResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
	}, http.StatusOK)
}
