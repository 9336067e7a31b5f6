package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestVersionMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(VersionMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("apiVersion").(string))
	})

	cases := []struct {
		header string
		want   string
	}{
		{"", "1.0.0"},
		{"1", "1.0.0"},
		{"1.0", "1.0.0"},
		{"1.0.0", "1.0.0"},
		{"2.5.1", "2.5.1"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/", nil)
		if tc.header != "" {
			req.Header.Set("X-Api-Version", tc.header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if got := resp.Header.Get("X-Api-Version"); got != tc.want {
			t.Errorf("header %q: response version = %q, want %q", tc.header, got, tc.want)
		}
	}
}
