package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/veldtlabs/hexrift/internal/auth"
	"github.com/veldtlabs/hexrift/internal/model"
)

// AuthHandler issues guest sessions. There are no accounts: a guest mints an
// identity, gets a token, and plays until it expires.
type AuthHandler struct {
	jwtMgr *auth.JWTManager
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(jwtMgr *auth.JWTManager) *AuthHandler {
	return &AuthHandler{jwtMgr: jwtMgr}
}

// GuestLogin handles POST /auth/guest — mints a fresh guest identity.
func (h *AuthHandler) GuestLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DisplayName string `json:"display_name"`
	}
	// An empty body is fine; the name is optional.
	_ = decodeJSON(r, &req)

	guest := model.Guest{
		PlayerID:    "guest-" + uuid.NewString(),
		DisplayName: sanitizeName(req.DisplayName),
		CreatedAt:   time.Now().UTC(),
	}
	if guest.DisplayName == "" {
		guest.DisplayName = fmt.Sprintf("Guest-%s", guest.PlayerID[len(guest.PlayerID)-6:])
	}

	token, err := h.jwtMgr.GenerateToken(guest.PlayerID, guest.DisplayName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to sign guest token")
		writeError(w, http.StatusInternalServerError, "could not create session")
		return
	}

	log.Info().Str("playerId", guest.PlayerID).Str("displayName", guest.DisplayName).Msg("Guest session created")
	writeJSON(w, http.StatusCreated, map[string]any{
		"token":        token,
		"expires_in":   h.jwtMgr.Expiry(),
		"player_id":    guest.PlayerID,
		"display_name": guest.DisplayName,
	})
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if len(name) > 32 {
		name = name[:32]
	}
	return name
}
