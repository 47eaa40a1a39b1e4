package flash

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogsHaveTheSameKeys(t *testing.T) {
	for key := range catalog["es"] {
		assert.Contains(t, catalog["en"], key)
	}
	assert.Len(t, catalog["en"], len(catalog["es"]))
}

func TestTranslate(t *testing.T) {
	assert.Equal(t, "Tu carrito está vacío.", New(nil, "").T(CartEmpty))
	assert.Equal(t, "Your cart is empty.", New(nil, "EN").T(CartEmpty))
	assert.Equal(t, "no.such.key", New(nil, "fr").T(Key("no.such.key")))
}

func TestFlashSurvivesOneRedirect(t *testing.T) {
	f := New(session.New(), "en")
	app := fiber.New()
	app.Post("/act", func(c *fiber.Ctx) error {
		require.NoError(t, f.Add(c, Success, CartAdded))
		require.NoError(t, f.AddText(c, Error, "provider: rate limited"))
		return c.Redirect("/page", fiber.StatusSeeOther)
	})
	app.Get("/page", func(c *fiber.Ctx) error {
		return c.JSON(f.Pop(c))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/act", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)

	get := func() []Message {
		req := httptest.NewRequest(http.MethodGet, "/page", nil)
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		var msgs []Message
		require.NoError(t, json.Unmarshal(body, &msgs))
		return msgs
	}

	msgs := get()
	require.Len(t, msgs, 2)
	assert.Equal(t, Message{Kind: Success, Text: "Product added to your cart."}, msgs[0])
	assert.Equal(t, Message{Kind: Error, Text: "provider: rate limited"}, msgs[1])

	assert.Empty(t, get())
}
