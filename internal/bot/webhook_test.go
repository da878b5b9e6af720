package bot

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"gatekeeper-bot/internal/config"
)

func newWebhookBot() *Bot {
	return &Bot{cfg: &config.Config{
		Telegram: config.TelegramConfig{Token: "123:abc", AdminID: 1},
	}}
}

func TestRouter(t *testing.T) {
	srv := httptest.NewServer(newWebhookBot().Router())
	defer srv.Close()

	t.Run("Healthz", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/healthz")
		assert.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("WrongToken", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/telegram/webhook/wrong", "application/json", strings.NewReader("{}"))
		assert.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("BadPayload", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/telegram/webhook/123:abc", "application/json", strings.NewReader("not json"))
		assert.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("EmptyUpdateAccepted", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/telegram/webhook/123:abc", "application/json", strings.NewReader("{}"))
		assert.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
