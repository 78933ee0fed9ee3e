package server

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/encryptcookie"
	"github.com/gofiber/fiber/v3/middleware/session"

	"github.com/pvestal/vacavibes/internal/config"
)

func TestDeriveEncryptionKey(t *testing.T) {
	key := deriveEncryptionKey("some-session-secret")
	if key == "" {
		t.Fatal("empty key")
	}
	if key != deriveEncryptionKey("some-session-secret") {
		t.Error("key derivation is not deterministic")
	}
	if key == deriveEncryptionKey("another-secret") {
		t.Error("different secrets must derive different keys")
	}
}

// TestSessionSurvivesCookieReplay verifies that the encryptcookie + session
// middleware stack, ordered as in production, round-trips a session value
// when the client replays the encrypted cookies.
func TestSessionSurvivesCookieReplay(t *testing.T) {
	encryptionKey := deriveEncryptionKey("test-secret-that-is-long-enough")

	app := fiber.New()
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: encryptionKey,
	}))
	sessionMiddleware, _ := session.NewWithStore(session.Config{
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
	app.Use(sessionMiddleware)

	app.Post("/login", func(c fiber.Ctx) error {
		sess := session.FromContext(c)
		if sess == nil {
			return c.Status(500).SendString("no session")
		}
		sess.Set("account_sub", "dev-alice")
		return c.SendString("ok")
	})
	app.Get("/whoami", func(c fiber.Ctx) error {
		sess := session.FromContext(c)
		if sess == nil {
			return c.Status(500).SendString("no session")
		}
		sub, _ := sess.Get("account_sub").(string)
		return c.SendString(sub)
	})

	req, _ := http.NewRequest("POST", "/login", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("login returned no cookies")
	}

	req2, _ := http.NewRequest("GET", "/whoami", nil)
	for _, c := range cookies {
		req2.AddCookie(c)
	}
	resp2, err := app.Test(req2)
	if err != nil {
		t.Fatalf("whoami request failed: %v", err)
	}
	body, _ := io.ReadAll(resp2.Body)
	if string(body) != "dev-alice" {
		t.Errorf("whoami = %q, want dev-alice", body)
	}
}

func TestErrorHandlerReturnsJSONEnvelope(t *testing.T) {
	srv := New(&config.Config{
		Env:           "development",
		ServerAddr:    ":0",
		BaseURL:       "http://localhost:3000",
		SessionSecret: "test-secret",
		SiteTitle:     "VacaVibes",
	})

	srv.App.Get("/boom", func(c fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	req, _ := http.NewRequest("GET", "/boom", nil)
	resp, err := srv.App.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusTeapot {
		t.Fatalf("expected 418, got %d", resp.StatusCode)
	}

	var envelope struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if envelope.Status != "error" || envelope.Error != "short and stout" {
		t.Errorf("unexpected envelope: %+v", envelope)
	}
}
