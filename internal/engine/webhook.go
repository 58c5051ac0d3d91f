package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"webexbot/internal/domain"
	"webexbot/internal/metrics"
	"webexbot/internal/webex"
)

// MessageFetcher retrieves the full message a push event references.
// *webex.Client satisfies this.
type MessageFetcher interface {
	GetMessage(ctx context.Context, id string) (*webex.Message, error)
}

// WebhookConfig configures the push-mode ingestion adapter.
type WebhookConfig struct {
	Host     string
	Port     int
	Path     string // event URL path (default: /webex)
	BotEmail string
	Fetcher  MessageFetcher
	Engine   *Engine
	Sender   domain.Sender // best-effort apology on ingestion failure
	Logger   *slog.Logger
}

// Webhook is the push-mode ingestion adapter: the platform POSTs an event
// per created message, the handler fetches the body and feeds the engine.
// The host's HTTP server may run handlers concurrently; all shared state
// sits behind the Deduper and the metrics registry.
type Webhook struct {
	host     string
	port     int
	path     string
	botEmail string
	fetcher  MessageFetcher
	engine   *Engine
	sender   domain.Sender
	logger   *slog.Logger
	server   *http.Server
}

// event is the push notification envelope. It carries a message reference,
// not the message body.
type event struct {
	Resource string `json:"resource"`
	Event    string `json:"event"`
	Data     struct {
		ID          string `json:"id"`
		RoomID      string `json:"roomId"`
		PersonEmail string `json:"personEmail"`
	} `json:"data"`
}

func NewWebhook(cfg WebhookConfig) *Webhook {
	if cfg.Path == "" {
		cfg.Path = "/webex"
	}
	if cfg.Port == 0 {
		cfg.Port = 5000
	}
	return &Webhook{
		host:     cfg.Host,
		port:     cfg.Port,
		path:     cfg.Path,
		botEmail: cfg.BotEmail,
		fetcher:  cfg.Fetcher,
		engine:   cfg.Engine,
		sender:   cfg.Sender,
		logger:   cfg.Logger,
	}
}

// Run serves events until ctx is cancelled.
func (w *Webhook) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc(w.path, w.handleEvent)
	mux.HandleFunc("/health", w.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	w.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", w.host, w.port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	w.logger.Info("webhook server starting", "addr", w.server.Addr, "path", w.path)

	errCh := make(chan error, 1)
	go func() {
		if err := w.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		w.logger.Info("webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return w.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("webhook server: %w", err)
	}
}

func (w *Webhook) handleHealth(rw http.ResponseWriter, r *http.Request) {
	metrics.Requests.WithLabelValues("/health").Inc()
	rw.Header().Set("Content-Type", "application/json")
	json.NewEncoder(rw).Encode(map[string]bool{"ok": true})
}

// handleEvent accepts one pushed event. Downstream failures never surface
// as HTTP errors: the room gets a best-effort apology and the platform gets
// its 2xx so it does not retry forever.
func (w *Webhook) handleEvent(rw http.ResponseWriter, r *http.Request) {
	metrics.Requests.WithLabelValues(w.path).Inc()

	if r.Method != http.MethodPost {
		http.Error(rw, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1MB max
	if err != nil {
		http.Error(rw, "Bad Request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var ev event
	if err := json.Unmarshal(body, &ev); err != nil {
		http.Error(rw, "Invalid JSON", http.StatusBadRequest)
		return
	}

	// Only message-created notifications carry work for the router.
	if ev.Resource != "messages" || ev.Event != "created" {
		rw.WriteHeader(http.StatusNoContent)
		return
	}
	if isSelf(w.botEmail, ev.Data.PersonEmail) {
		rw.WriteHeader(http.StatusNoContent)
		return
	}

	corr := uuid.NewString()
	logger := w.logger.With("event_id", corr, "room", ev.Data.RoomID)
	logger.Info("message event received", "sender", ev.Data.PersonEmail)

	msg, err := w.fetcher.GetMessage(r.Context(), ev.Data.ID)
	if err != nil {
		metrics.Errors.WithLabelValues("ingest").Inc()
		logger.Warn("message fetch failed, skipping event", "error", err)
		w.apologize(r.Context(), ev.Data.RoomID)
		rw.WriteHeader(http.StatusOK)
		return
	}

	w.engine.Handle(r.Context(), domain.InboundMessage{
		ID:          ev.Data.ID,
		RoomID:      ev.Data.RoomID,
		PersonEmail: ev.Data.PersonEmail,
		Text:        msg.Text,
		ReceivedAt:  time.Now(),
	})

	rw.Header().Set("Content-Type", "application/json")
	json.NewEncoder(rw).Encode(map[string]string{"status": "ok"})
}

// apologize posts a generic failure reply. Best effort: a failed apology is
// only logged.
func (w *Webhook) apologize(ctx context.Context, roomID string) {
	if w.sender == nil || roomID == "" {
		return
	}
	err := w.sender.Send(ctx, domain.OutboundMessage{
		RoomID: roomID,
		Text:   "⚠️ Sorry! Something went wrong handling that message. Please try again later.",
		Format: domain.FormatText,
	})
	if err != nil {
		w.logger.Warn("apology send failed", "room", roomID, "error", err)
	}
}
