package authController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lms/config"
	"lms/database"
	authRoutes "lms/routers/authRoutes"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	config.LoadConfig()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	return app
}

func post(t *testing.T, app *fiber.App, path string, body interface{}) (*http.Response, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("encode body: %v", err)
	}
	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() = %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("decode envelope %q: %v", raw, err)
		}
	}
	return resp, env
}

func TestSignupAndLogin(t *testing.T) {
	app := setupApp(t)

	resp, env := post(t, app, "/auth/signup", fiber.Map{
		"name": "Test Instructor", "email": "t@test.test", "password": "secret123",
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("signup status = %d (%s)", resp.StatusCode, env.Message)
	}
	// The stored hash must never leak.
	if bytes.Contains(env.Data, []byte("secret123")) || bytes.Contains(env.Data, []byte("password")) {
		t.Errorf("signup response leaks credentials: %s", env.Data)
	}

	resp, env = post(t, app, "/auth/login", fiber.Map{
		"email": "t@test.test", "password": "secret123",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login status = %d (%s)", resp.StatusCode, env.Message)
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode login data: %v", err)
	}
	if data.Token == "" {
		t.Error("login returned no token")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	app := setupApp(t)

	body := fiber.Map{"name": "Test Instructor", "email": "dup@test.test", "password": "secret123"}
	if resp, env := post(t, app, "/auth/signup", body); resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("first signup status = %d (%s)", resp.StatusCode, env.Message)
	}
	resp, _ := post(t, app, "/auth/signup", body)
	if resp.StatusCode != fiber.StatusConflict {
		t.Errorf("duplicate signup status = %d, want 409", resp.StatusCode)
	}
}

func TestSignupValidation(t *testing.T) {
	app := setupApp(t)

	resp, env := post(t, app, "/auth/signup", fiber.Map{
		"name": "ab", "email": "not-an-email", "password": "short",
	})
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	var fields map[string]string
	if err := json.Unmarshal(env.Data, &fields); err != nil {
		t.Fatal(err)
	}
	for _, f := range []string{"name", "email", "password"} {
		if fields[f] == "" {
			t.Errorf("missing validation message for %s: %v", f, fields)
		}
	}
}

func TestLoginWrongPassword(t *testing.T) {
	app := setupApp(t)

	post(t, app, "/auth/signup", fiber.Map{
		"name": "Test Instructor", "email": "w@test.test", "password": "secret123",
	})

	resp, _ := post(t, app, "/auth/login", fiber.Map{"email": "w@test.test", "password": "wrong-pass"})
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", resp.StatusCode)
	}

	resp, _ = post(t, app, "/auth/login", fiber.Map{"email": "nobody@test.test", "password": "whatever1"})
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("unknown user status = %d, want 401", resp.StatusCode)
	}
}
