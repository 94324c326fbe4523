package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/WMASewwandi/clovesis-sub003/internal/interfaces/http"
	pkgjwt "github.com/WMASewwandi/clovesis-sub003/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "17"
	testIssuer    = "clovesis-crm-test"
	testExpMin    = 60
)

// buildAuthApp aplicación Fiber mínima con AuthMiddleware y un handler que devuelve los locals.
func buildAuthApp(cfg apphttp.AuthConfig) *fiber.App {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(cfg), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"token":   apphttp.GetToken(c),
			"user_id": apphttp.GetUserID(c),
		})
	})
	return app
}

func signedToken(t *testing.T) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "ana@example.com", testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return tok
}

func doGet(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinSecretoReenviaToken(t *testing.T) {
	app := buildAuthApp(apphttp.AuthConfig{})
	resp := doGet(t, app, "Bearer opaque-crm-token")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "opaque-crm-token", body["token"])
	assert.Empty(t, body["user_id"])
}

func TestAuthMiddleware_ConSecretoExtraeUsuario(t *testing.T) {
	app := buildAuthApp(apphttp.AuthConfig{Secret: testJWTSecret, Issuer: testIssuer})
	tok := signedToken(t)
	resp := doGet(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, tok, body["token"])
	assert.Equal(t, testUserID, body["user_id"])
}

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildAuthApp(apphttp.AuthConfig{})
	resp := doGet(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_FormatoInvalido_Retorna401(t *testing.T) {
	app := buildAuthApp(apphttp.AuthConfig{})
	resp := doGet(t, app, "Basic abc")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildAuthApp(apphttp.AuthConfig{Secret: testJWTSecret})
	resp := doGet(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenExpirado_Retorna401(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "", testIssuer, -1)
	require.NoError(t, err)

	app := buildAuthApp(apphttp.AuthConfig{Secret: testJWTSecret})
	resp := doGet(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
