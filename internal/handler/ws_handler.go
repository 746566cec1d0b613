package handler

import (
	"net/http"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"go.uber.org/zap"

	"aozu-ops-hub/internal/config"
	"aozu-ops-hub/internal/middleware"
	"aozu-ops-hub/internal/service"
	"aozu-ops-hub/internal/websocket"
)

type WebSocketHandler struct {
	manager  *websocket.Manager
	upgrader ws.Upgrader
	logger   *zap.Logger
}

func NewWebSocketHandler(manager *websocket.Manager, cfg config.WebSocketConfig, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		manager: manager,
		logger:  logger.Named("ws"),
		upgrader: ws.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleConnection upgrades a UI connection. Signing in is not required; the
// indicator is shown either way.
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade connection", zap.Error(err))
		return
	}

	client := websocket.NewClient(uuid.New().String(), middleware.GetUserID(r), conn, h.manager)

	select {
	case h.manager.Register <- client:
	case <-h.manager.Done():
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

type WebSocketMessageHandler struct {
	syncService *service.SyncService
}

func NewWebSocketMessageHandler(syncService *service.SyncService) *WebSocketMessageHandler {
	return &WebSocketMessageHandler{syncService: syncService}
}

func (h *WebSocketMessageHandler) HandleWebSocketMessage(client *websocket.Client, msg *websocket.Message) error {
	switch msg.Type {
	case websocket.TypePing:
		return reply(client, websocket.TypePong, nil)

	case websocket.TypeStatusRequest:
		status := h.syncService.Status()
		return reply(client, websocket.TypeSyncStatus, websocket.NewSyncStatusPayload(status.Status))

	default:
		return reply(client, websocket.TypeError, websocket.ErrorPayload{Error: "unknown message type: " + string(msg.Type)})
	}
}

func reply(client *websocket.Client, t websocket.MessageType, payload interface{}) error {
	msg, err := websocket.NewMessage(t, payload)
	if err != nil {
		return err
	}
	return client.Manager.SendToClient(client.ID, msg)
}

