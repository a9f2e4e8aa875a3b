package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/handlers"
	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/middlewares"
)

func Setup(app *fiber.App, h *handlers.Handler, auth middlewares.Authenticator) {
	root := app.Group("/auth")

	// driver auth state machine
	root.Post("/signup/drivers", h.SignupDriver)
	root.Post("/login/drivers", h.LoginDriver)
	root.Post("/verify-otp/drivers", h.VerifyOTP)
	root.Get("/signout/drivers", h.SignoutDriver)

	// protected
	root.Get("/me", middlewares.RequireAuth(auth), h.Me)

	// federated login, provider-agnostic
	root.Get("/:provider", h.OAuthRedirect)
	root.Get("/:provider/callback", h.OAuthCallback)
	root.Get("/:provider/success", h.OAuthSuccess)
	root.Get("/:provider/error", h.OAuthError)
}
