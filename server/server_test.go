package server

import (
	"bytes"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zynerotech/apiserver/helpers"
	"github.com/zynerotech/apiserver/response"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(Config{}, nil)
	require.NoError(t, err)

	app := s.App()
	app.Get("/ok", func(c *fiber.Ctx) error {
		return response.Write(c, response.Success(0, response.MessageSuccess, nil))
	})
	app.Post("/echo", func(c *fiber.Ctx) error {
		var body map[string]any
		if err := c.BodyParser(&body); err != nil {
			return fiber.ErrBadRequest
		}
		return response.Write(c, response.Success(0, response.MessageSuccess, body))
	})
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("handler exploded")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("db write failed")
	})
	app.Get("/duplicate", func(c *fiber.Ctx) error {
		return &helpers.StructuredError{Status: response.StatusDuplicateRecord, Message: "email taken"}
	})
	return s
}

func decode(t *testing.T, body io.Reader) response.Envelope {
	t.Helper()
	raw, err := io.ReadAll(body)
	require.NoError(t, err)

	var env response.Envelope
	require.NoError(t, sonic.Unmarshal(raw, &env))
	return env
}

func TestDefaults(t *testing.T) {
	s, err := New(Config{Address: "0.0.0.0:5000"}, nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultBodyLimit, s.config.BodyLimit)
	assert.Equal(t, DefaultShutdownTimeout, s.config.ShutdownTimeout)
	assert.Equal(t, "0.0.0.0:5000", s.Address())
}

func TestCORSReflectsOrigin(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("GET", "/ok", nil)
	req.Header.Set("Origin", "https://client.example")
	resp, err := s.App().Test(req)
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "https://client.example", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("OPTIONS", "/echo", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := s.App().Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestBodyLimit(t *testing.T) {
	s := newTestServer(t)

	t.Run("within limit", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/echo", strings.NewReader(`{"name":"ada"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := s.App().Test(req)
		require.NoError(t, err)

		assert.Equal(t, 200, resp.StatusCode)
		env := decode(t, resp.Body)
		assert.Equal(t, map[string]any{"name": "ada"}, env.Data)
	})

	t.Run("too large", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		go s.Listener(ln) //nolint:errcheck
		t.Cleanup(func() { s.Stop() }) //nolint:errcheck

		payload := `{"blob":"` + strings.Repeat("x", DefaultBodyLimit) + `"}`
		resp, err := http.Post("http://"+ln.Addr().String()+"/echo", fiber.MIMEApplicationJSON, bytes.NewBufferString(payload))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)
		env := decode(t, resp.Body)
		assert.Equal(t, response.Code(fiber.StatusRequestEntityTooLarge), env.Code)
		assert.Equal(t, response.MessagePayloadTooLarge, env.Message)
		assert.True(t, env.Error)
		assert.False(t, env.Success)
	})
}

func TestErrorHandler(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		path    string
		status  int
		message string
	}{
		{"unknown route", "/missing", 404, response.MessageNotFound},
		{"panic", "/panic", 500, response.MessageServerError},
		{"plain error", "/boom", 500, response.MessageServerError},
		{"structured error", "/duplicate", 409, "email taken"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := s.App().Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)

			assert.Equal(t, tt.status, resp.StatusCode)
			env := decode(t, resp.Body)
			assert.Equal(t, response.Code(tt.status), env.Code)
			assert.Equal(t, tt.message, env.Message)
			assert.Equal(t, map[string]any{}, env.Data)
			assert.True(t, env.Error)
		})
	}
}
