package middlewares

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaders(t *testing.T) {
	r := fiber.New()
	r.Use(CORS(), NoCache())
	r.Get("/users", func(c *fiber.Ctx) error { return c.JSON([]string{}) })

	req := httptest.NewRequest(fiber.MethodGet, "/users", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://localhost:8080")
	resp, err := r.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "no-cache", resp.Header.Get(fiber.HeaderCacheControl))
	assert.Equal(t, "-1", resp.Header.Get(fiber.HeaderExpires))
}
