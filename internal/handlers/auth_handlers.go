package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/middlewares"
	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/models"
	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/oauth"
	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/services"
	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/utils"
)

const (
	sessionCookie    = "shuttle_session"
	oauthStateCookie = "oauth_state"
)

type Handler struct {
	svc        *services.AuthService
	providers  map[string]*oauth.Provider
	logger     *zap.Logger
	sessionTTL time.Duration
}

func NewHandler(svc *services.AuthService, providers map[string]*oauth.Provider, logger *zap.Logger, sessionTTLMinutes int) *Handler {
	return &Handler{
		svc:        svc,
		providers:  providers,
		logger:     logger,
		sessionTTL: time.Duration(sessionTTLMinutes) * time.Minute,
	}
}

// statusFor maps service errors onto the HTTP contract: 409 for duplicate
// signup, 401 for authentication failure, 400 for validation and session
// problems, 500 for upstream failures.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrDuplicateCredential):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrInternal):
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		// internal detail stays on the server side of the boundary
		h.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		msg = services.ErrInternal.Error()
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// SignupDriver handles POST /auth/signup/drivers.
func (h *Handler) SignupDriver(c *fiber.Ctx) error {
	var req models.SignupDriverRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	tokenStr, _, err := h.svc.SignupDriver(c.Context(), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Signup successfully",
		"token":   tokenStr,
	})
}

// LoginDriver handles POST /auth/login/drivers, login step one. On success a
// pending login is bound to the caller's session and the OTP goes out by
// mail; the response never carries the code.
func (h *Handler) LoginDriver(c *fiber.Ctx) error {
	var req models.LoginDriverRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	sessionID := c.Cookies(sessionCookie)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	if err := h.svc.LoginDriver(c.Context(), sessionID, &req); err != nil {
		return h.fail(c, err)
	}

	h.setSessionCookie(c, sessionID, h.sessionTTL)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "OTP sent to your email",
	})
}

// VerifyOTP handles POST /auth/verify-otp/drivers, login step two.
func (h *Handler) VerifyOTP(c *fiber.Ctx) error {
	var req models.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	sessionID := c.Cookies(sessionCookie)
	if sessionID == "" {
		return h.fail(c, services.ErrSessionExpired)
	}

	tokenStr, _, err := h.svc.VerifyOTP(c.Context(), sessionID, req.Code)
	if err != nil {
		return h.fail(c, err)
	}

	// the authenticated session is deliberately short-lived; the bearer
	// token carries authentication from here on
	h.setSessionCookie(c, sessionID, h.sessionTTL)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Login successful",
		"token":   tokenStr,
	})
}

// SignoutDriver handles GET /auth/signout/drivers. The presented bearer token
// is revoked for good; the session and its cookie are destroyed.
func (h *Handler) SignoutDriver(c *fiber.Ctx) error {
	bearer := ""
	if t, ok := middlewares.BearerToken(c.Get(fiber.HeaderAuthorization)); ok {
		bearer = t
	}
	sessionID := c.Cookies(sessionCookie)

	if err := h.svc.Signout(c.Context(), sessionID, bearer); err != nil {
		return h.fail(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Signed out successfully",
	})
}

// Me handles GET /auth/me, a guarded route returning the resolved driver.
func (h *Handler) Me(c *fiber.Ctx) error {
	driver, ok := c.Locals(middlewares.DriverKey).(*models.Driver)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"driver": driver})
}

func (h *Handler) setSessionCookie(c *fiber.Ctx, sessionID string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    sessionID,
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
