package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OAuthRedirect handles GET /auth/:provider, sending the caller to the
// provider's consent screen with a state nonce bound to a cookie.
func (h *Handler) OAuthRedirect(c *fiber.Ctx) error {
	provider, ok := h.providers[c.Params("provider")]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown provider"})
	}

	state := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(provider.AuthCodeURL(state), fiber.StatusFound)
}

// OAuthCallback handles GET /auth/:provider/callback: state check, code
// exchange, find-or-create principal, token issuance.
func (h *Handler) OAuthCallback(c *fiber.Ctx) error {
	providerName := c.Params("provider")
	provider, ok := h.providers[providerName]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown provider"})
	}

	state := c.Query("state")
	if state == "" || state != c.Cookies(oauthStateCookie) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "fail",
			"message": "OAuth state mismatch",
		})
	}
	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "fail",
			"message": "Authentication failed",
		})
	}

	tok, err := provider.Exchange(c.Context(), code)
	if err != nil {
		h.logger.Error("OAuth code exchange failed", zap.String("provider", providerName), zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "fail",
			"message": "Authentication failed",
		})
	}
	identity, err := provider.FetchIdentity(c.Context(), tok)
	if err != nil {
		h.logger.Error("OAuth identity fetch failed", zap.String("provider", providerName), zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "fail",
			"message": "Authentication failed",
		})
	}

	tokenStr, user, err := h.svc.FederatedLogin(c.Context(), identity)
	if err != nil {
		return h.fail(c, err)
	}

	sessionID := c.Cookies(sessionCookie)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if err := h.svc.RecordFederatedSession(c.Context(), sessionID, user.ID.Hex()); err != nil {
		h.logger.Warn("failed to record federated session", zap.Error(err))
	}
	h.setSessionCookie(c, sessionID, h.sessionTTL)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Authentication successful",
		"token":   tokenStr,
		"user": fiber.Map{
			"id":       user.ID.Hex(),
			"name":     user.Name,
			"provider": user.Provider,
		},
	})
}

// OAuthSuccess handles GET /auth/:provider/success, returning the federated
// user bound to the caller's session.
func (h *Handler) OAuthSuccess(c *fiber.Ctx) error {
	sessionID := c.Cookies(sessionCookie)
	if sessionID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "fail",
			"message": "User not logged in",
		})
	}
	user, err := h.svc.FederatedUserBySession(c.Context(), sessionID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "fail",
			"message": "User not logged in",
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Login success",
		"user": fiber.Map{
			"id":          user.ID.Hex(),
			"displayName": user.Name,
			"provider":    user.Provider,
		},
	})
}

// OAuthError handles GET /auth/:provider/error.
func (h *Handler) OAuthError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status":  "fail",
		"message": "Error logging in via " + c.Params("provider"),
	})
}
