package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFromRequest(t *testing.T) {
	tests := []struct {
		query string
		want  Pagination
	}{
		{query: "", want: Pagination{Page: 1, Limit: 10, Offset: 0}},
		{query: "?page=3&limit=20", want: Pagination{Page: 3, Limit: 20, Offset: 40}},
		{query: "?page=0&limit=-1", want: Pagination{Page: 1, Limit: 10, Offset: 0}},
		{query: "?page=abc&limit=1000", want: Pagination{Page: 1, Limit: 100, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			app := fiber.New()
			var got Pagination
			app.Get("/", func(c *fiber.Ctx) error {
				got = ParseFromRequest(c)
				return c.SendStatus(fiber.StatusNoContent)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/"+tt.query, nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResponse(t *testing.T) {
	body := Response(Pagination{Page: 2, Limit: 10, Total: 21}, []int{1})

	meta := body["meta"].(fiber.Map)
	assert.Equal(t, int64(3), meta["total_pages"])
	assert.Equal(t, int64(21), meta["total_items"])
}
