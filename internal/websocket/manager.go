package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"aozu-ops-hub/internal/domain"
)

type ClientMessage struct {
	Client  *Client
	Message []byte
}

// Manager fans device-wide events (sync status, re-render requests) out to
// every open UI connection.
type Manager struct {
	clients        map[string]*Client
	clientsMutex   sync.RWMutex
	Register       chan *Client
	Unregister     chan *Client
	HandleMessage  chan *ClientMessage
	maxConnections int
	maxMessageSize int64
	writeWait      time.Duration
	pongWait       time.Duration
	pingPeriod     time.Duration
	messageHandler MessageHandler
	logger         *zap.Logger
	done           chan struct{}
}

type MessageHandler interface {
	HandleWebSocketMessage(client *Client, msg *Message) error
}

type Options struct {
	MaxConnections int
	MaxMessageSize int64
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
}

func NewManager(opts Options, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		clients:        make(map[string]*Client),
		Register:       make(chan *Client),
		Unregister:     make(chan *Client),
		HandleMessage:  make(chan *ClientMessage),
		maxConnections: opts.MaxConnections,
		maxMessageSize: opts.MaxMessageSize,
		writeWait:      opts.WriteWait,
		pongWait:       opts.PongWait,
		pingPeriod:     opts.PingPeriod,
		logger:         logger.Named("websocket"),
		done:           make(chan struct{}),
	}
}

func (m *Manager) SetMessageHandler(handler MessageHandler) {
	m.messageHandler = handler
}

// Run owns registration until ctx is done, then closes every client.
func (m *Manager) Run(ctx context.Context) {
	defer close(m.done)
	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return

		case client := <-m.Register:
			m.registerClient(client)

		case client := <-m.Unregister:
			m.unregisterClient(client)

		case clientMsg := <-m.HandleMessage:
			m.processMessage(clientMsg)
		}
	}
}

// Done is closed once Run has returned.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

func (m *Manager) registerClient(client *Client) {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	if len(m.clients) >= m.maxConnections {
		m.logger.Warn("max connections reached", zap.Int("max", m.maxConnections))
		close(client.Send)
		return
	}

	m.clients[client.ID] = client
	m.logger.Debug("client registered", zap.String("client_id", client.ID), zap.String("user_id", client.UserID))
}

func (m *Manager) unregisterClient(client *Client) {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	if _, ok := m.clients[client.ID]; ok {
		delete(m.clients, client.ID)
		close(client.Send)
		m.logger.Debug("client unregistered", zap.String("client_id", client.ID))
	}
}

func (m *Manager) closeAll() {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	for id, client := range m.clients {
		delete(m.clients, id)
		close(client.Send)
	}
}

func (m *Manager) processMessage(clientMsg *ClientMessage) {
	var msg Message
	if err := json.Unmarshal(clientMsg.Message, &msg); err != nil {
		m.logger.Warn("error unmarshaling message", zap.Error(err))
		return
	}

	if m.messageHandler != nil {
		if err := m.messageHandler.HandleWebSocketMessage(clientMsg.Client, &msg); err != nil {
			m.logger.Warn("error handling message", zap.String("type", string(msg.Type)), zap.Error(err))
		}
	}
}

// Broadcast never blocks. A client whose buffer is full misses the message;
// the next status message supersedes it anyway.
func (m *Manager) Broadcast(message *Message) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()

	for clientID, client := range m.clients {
		select {
		case client.Send <- messageBytes:
		default:
			m.logger.Warn("client send buffer full, dropping message", zap.String("client_id", clientID))
		}
	}
	return nil
}

func (m *Manager) SendToClient(clientID string, message *Message) error {
	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()

	client, exists := m.clients[clientID]
	if !exists {
		return nil
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	select {
	case client.Send <- messageBytes:
	default:
		m.logger.Warn("client send buffer full", zap.String("client_id", clientID))
	}
	return nil
}

func (m *Manager) Connections() int {
	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()
	return len(m.clients)
}

// UpdateSyncStatus pushes the indicator state to every connection.
func (m *Manager) UpdateSyncStatus(status domain.SyncStatus) {
	m.broadcast(TypeSyncStatus, NewSyncStatusPayload(status))
}

// Refresh asks every connection to re-render after reconciliation.
func (m *Manager) Refresh() {
	m.broadcast(TypeRefresh, RefreshPayload{Reason: RefreshReconciled})
}

// ContentReloaded tells connections the static content changed on disk.
func (m *Manager) ContentReloaded() {
	m.broadcast(TypeRefresh, RefreshPayload{Reason: RefreshContent})
}

func (m *Manager) broadcast(t MessageType, payload interface{}) {
	msg, err := NewMessage(t, payload)
	if err == nil {
		err = m.Broadcast(msg)
	}
	if err != nil {
		m.logger.Warn("broadcast failed", zap.String("type", string(t)), zap.Error(err))
	}
}
