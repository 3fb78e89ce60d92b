package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/DigitalMasterpieces/wishkit-go/pkg/middleware"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/repository"
)

const (
	streamBuffer     = 16
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = streamPongWait * 9 / 10
)

// StreamHandler pushes repository change notifications over a websocket so
// a UI knows when to re-read the list.
type StreamHandler struct {
	repo     repository.WishRepository
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewStreamHandler creates a new change stream handler. Upgrades follow the
// same origin rules as CORS.
func NewStreamHandler(repo repository.WishRepository, cors middleware.CORSConfig, logger *slog.Logger) *StreamHandler {
	return &StreamHandler{
		repo: repo,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return cors.AllowsOrigin(r.Header.Get("Origin"))
			},
		},
		logger: logger,
	}
}

// Stream handles GET /api/v1/stream. The first message carries the current
// revision; every later one is a repository.Change.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "failed to upgrade stream", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	changes, cancel := h.repo.Subscribe(streamBuffer)
	defer cancel()

	// Reader: handles pongs and notices when the client goes away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(streamPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	write := func(v any) error {
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
		return conn.WriteJSON(v)
	}

	if err := write(repository.Change{Revision: h.repo.Revision(), Kind: "hello"}); err != nil {
		return
	}

	ping := time.NewTicker(streamPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-closed:
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			if err := write(change); err != nil {
				h.logger.DebugContext(r.Context(), "stream write failed", slog.String("error", err.Error()))
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
