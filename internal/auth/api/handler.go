package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/auth"
	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/logger"
	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/utils"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Handler struct {
	Auth       *auth.Service
	Logger     *logger.Logger
	Production bool
}

func NewHandler(authService *auth.Service, log *logger.Logger, production bool) *Handler {
	return &Handler{Auth: authService, Logger: log, Production: production}
}

// Login validates the credential pair and sets the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Login: failed to decode request body: %v", err))
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.Auth.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUnauthorized):
			utils.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, auth.ErrMisconfigured):
			h.Logger.Error("API", "Login: admin credentials are not configured")
			utils.WriteError(w, http.StatusInternalServerError, "server misconfigured")
		default:
			h.Logger.Error("API", fmt.Sprintf("Login: %v", err))
			utils.WriteError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.Production,
		SameSite: http.SameSiteStrictMode,
	})

	if err := utils.WriteJSON(w, http.StatusOK, map[string]bool{"success": true}); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Login: failed to encode response: %v", err))
	}
}
