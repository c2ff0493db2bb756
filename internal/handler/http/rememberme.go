package http

import (
	"encoding/json"
	"net/http"

	"github.com/eriktmidtun/secfit-auth/internal/logger"
	"github.com/eriktmidtun/secfit-auth/internal/utils"
	"github.com/eriktmidtun/secfit-auth/models"
)

const (
	rememberMeCookieName = "remember_me"

	// rememberMeCookieMaxAge is 30 days in seconds. The blob itself never
	// expires; the cookie lifetime is what bounds it on a given browser.
	rememberMeCookieMaxAge = 30 * 24 * 60 * 60
)

// rememberMeIssue hands the authenticated user a signed remember-me blob,
// both as a cookie and in the response body.
func (h *Handler) rememberMeIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user id in authenticated request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	blob, err := h.services.RememberMeService.Issue(ctx, userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     rememberMeCookieName,
		Value:    blob,
		Path:     "/",
		MaxAge:   rememberMeCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	utils.WriteJSON(w, models.RememberMeResponse{RememberMe: blob}, http.StatusOK)
}

// rememberMeRedeem exchanges a remember-me credential for a session pair,
// bypassing the password and second-factor steps. The blob is read from the
// cookie when present, otherwise from the JSON body.
func (h *Handler) rememberMeRedeem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var blob string
	if cookie, err := r.Cookie(rememberMeCookieName); err == nil {
		blob = cookie.Value
	} else {
		var req models.RememberMeResponse
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Err(err).Msg("Invalid JSON was passed")
			http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
			return
		}
		blob = req.RememberMe
	}

	pair, err := h.services.RememberMeService.Redeem(ctx, blob)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.LoginResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
	}, http.StatusOK)
}
