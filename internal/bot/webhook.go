package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gorilla/mux"

	"gatekeeper-bot/internal/logger"
)

// Router builds the HTTP surface used in webhook mode. Telegram posts
// updates to /telegram/webhook/{token}; the token path segment is the
// shared secret.
func (b *Bot) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/telegram/webhook/{token}", b.receiveUpdate).Methods(http.MethodPost)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	}).Methods(http.MethodGet)
	return r
}

func (b *Bot) receiveUpdate(w http.ResponseWriter, r *http.Request) {
	if mux.Vars(r)["token"] != b.cfg.Telegram.Token {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	var upd tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		logger.Warn("Unparseable webhook payload", "error", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	b.HandleUpdate(r.Context(), upd)
	w.WriteHeader(http.StatusOK)
}

// RunWebhook registers the webhook with Telegram and serves updates until
// the context is cancelled.
func (b *Bot) RunWebhook(ctx context.Context) error {
	hookURL := fmt.Sprintf("%s/telegram/webhook/%s", b.cfg.Telegram.Webhook.URL, b.cfg.Telegram.Token)
	wh, err := tgbotapi.NewWebhook(hookURL)
	if err != nil {
		return fmt.Errorf("failed to build webhook config: %w", err)
	}
	if _, err := b.api.Request(wh); err != nil {
		return fmt.Errorf("failed to register webhook: %w", err)
	}

	srv := &http.Server{
		Addr:    b.cfg.Telegram.Webhook.ListenAddr,
		Handler: b.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Webhook server started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("webhook server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down webhook server: %w", err)
	}
	logger.Info("Webhook server stopped")
	return nil
}
