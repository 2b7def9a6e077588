package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"weekreport_backend/internals/configs"
	authService "weekreport_backend/internals/features/users/auth/service"
	helper "weekreport_backend/internals/helpers"
	"weekreport_backend/internals/testutil"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	configs.JWTSecret = "test-secret"
	db := testutil.NewDB(t)

	hash, err := authService.HashPassword("123456")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	testutil.CreateUser(t, db, "admin@example.com", hash)

	app := fiber.New(fiber.Config{ErrorHandler: helper.FiberErrorHandler})
	SetupRoutes(app, db, nil, nil)
	return app, db
}

func do(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func login(t *testing.T, app *fiber.App, password string) (int, string) {
	t.Helper()
	status, body := do(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    " Admin@Example.com ",
		"password": password,
	})
	data, _ := body["data"].(map[string]any)
	tok, _ := data["access_token"].(string)
	return status, tok
}

func TestHealthIsPublic(t *testing.T) {
	app, _ := newTestApp(t)
	status, body := do(t, app, http.MethodGet, "/health", "", nil)
	if status != http.StatusOK || body["database"] != "Connected" {
		t.Fatalf("health = %d %v", status, body)
	}
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	app, _ := newTestApp(t)
	status, body := do(t, app, http.MethodGet, "/api/departments", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 (%v)", status, body)
	}
	status, _ = do(t, app, http.MethodGet, "/api/departments", "not-a-jwt", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("garbage token status = %d, want 401", status)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	app, _ := newTestApp(t)
	status, tok := login(t, app, "wrong")
	if status != http.StatusUnauthorized || tok != "" {
		t.Fatalf("status = %d token=%q, want 401 and no token", status, tok)
	}
}

func TestLoginValidatesBody(t *testing.T) {
	app, _ := newTestApp(t)
	status, body := do(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nope"})
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 (%v)", status, body)
	}
	errs, _ := body["errors"].(map[string]any)
	if _, ok := errs["email"]; !ok {
		t.Fatalf("missing email error: %v", body)
	}
	if _, ok := errs["password"]; !ok {
		t.Fatalf("missing password error: %v", body)
	}
}

func TestLoginMeLogout(t *testing.T) {
	app, _ := newTestApp(t)

	status, tok := login(t, app, "123456")
	if status != http.StatusOK || tok == "" {
		t.Fatalf("login status = %d token=%q", status, tok)
	}

	status, body := do(t, app, http.MethodGet, "/api/auth/me", tok, nil)
	if status != http.StatusOK {
		t.Fatalf("me status = %d (%v)", status, body)
	}
	data, _ := body["data"].(map[string]any)
	if data["email"] != "admin@example.com" {
		t.Fatalf("me = %v", data)
	}

	status, _ = do(t, app, http.MethodGet, "/api/departments", tok, nil)
	if status != http.StatusOK {
		t.Fatalf("departments status = %d, want 200", status)
	}

	status, _ = do(t, app, http.MethodPost, "/api/auth/logout", tok, nil)
	if status != http.StatusOK {
		t.Fatalf("logout status = %d", status)
	}
	status, _ = do(t, app, http.MethodGet, "/api/auth/me", tok, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("revoked token status = %d, want 401", status)
	}

	status, again := login(t, app, "123456")
	if status != http.StatusOK || again == tok {
		t.Fatalf("re-login status = %d, same token = %v", status, again == tok)
	}
	status, _ = do(t, app, http.MethodGet, "/api/auth/me", again, nil)
	if status != http.StatusOK {
		t.Fatalf("fresh token status = %d, want 200", status)
	}
}

func TestChangePassword(t *testing.T) {
	app, _ := newTestApp(t)
	_, tok := login(t, app, "123456")

	status, _ := do(t, app, http.MethodPost, "/api/auth/change-password", tok, map[string]string{
		"current_password": "bad",
		"new_password":     "abcdef",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("wrong current password status = %d, want 400", status)
	}

	status, _ = do(t, app, http.MethodPost, "/api/auth/change-password", tok, map[string]string{
		"current_password": "123456",
		"new_password":     "abc",
	})
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("short password status = %d, want 422", status)
	}

	status, _ = do(t, app, http.MethodPost, "/api/auth/change-password", tok, map[string]string{
		"current_password": "123456",
		"new_password":     "abcdef",
	})
	if status != http.StatusOK {
		t.Fatalf("change status = %d, want 200", status)
	}

	if status, _ := login(t, app, "123456"); status != http.StatusUnauthorized {
		t.Fatalf("old password status = %d, want 401", status)
	}
	if status, _ := login(t, app, "abcdef"); status != http.StatusOK {
		t.Fatalf("new password status = %d, want 200", status)
	}
}
