package middlewares

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/models"
	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/services"
)

type fakeAuthenticator struct {
	valid  string
	driver *models.Driver
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, tokenStr string) (*models.Driver, error) {
	if tokenStr == f.valid {
		return f.driver, nil
	}
	return nil, services.ErrUnauthorized
}

func newGuardedApp(auth Authenticator) *fiber.App {
	app := fiber.New()
	app.Get("/protected", RequireAuth(auth), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(DriverIDKey).(string))
	})
	return app
}

func TestRequireAuth(t *testing.T) {
	driver := &models.Driver{ID: primitive.NewObjectID(), Email: "a@b.com"}
	auth := &fakeAuthenticator{valid: "good-token", driver: driver}
	app := newGuardedApp(auth)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"not bearer", "Basic abc", fiber.StatusUnauthorized},
		{"empty token", "Bearer ", fiber.StatusUnauthorized},
		{"rejected token", "Bearer bad-token", fiber.StatusUnauthorized},
		{"valid token", "Bearer good-token", fiber.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)

			if tc.status == fiber.StatusOK {
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Equal(t, driver.ID.Hex(), string(body))
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"Bearer  abc", "abc", true},
		{"Bearer ", "", false},
		{"bearer abc", "", false},
		{"abc", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		token, ok := BearerToken(tc.header)
		assert.Equal(t, tc.ok, ok, "header %q", tc.header)
		assert.Equal(t, tc.token, token, "header %q", tc.header)
	}
}
