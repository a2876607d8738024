package ws

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"gnn-sim/backend/internal/render"
)

// DefaultPingInterval интервал отправки управляющих ping-кадров
const DefaultPingInterval = 10 * time.Second

// MessageHandler - тип функции обработчика сообщений
type MessageHandler func(conn *SafeWriter, message interface{}) error

// Server WebSocket сервер потока наблюдения: рассылает кадры мира всем подключенным клиентам
type Server struct {
	upgrader     websocket.Upgrader
	handlers     map[string]MessageHandler
	pingInterval time.Duration
	welcome      string
	logger       *log.Logger

	clients   map[*SafeWriter]struct{}
	clientsMu sync.RWMutex
}

// NewServer создает новый экземпляр WebSocket сервера
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	server := &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		handlers:     make(map[string]MessageHandler),
		pingInterval: DefaultPingInterval,
		welcome:      "Successfully connected to gnn-sim observer stream",
		logger:       logger,
		clients:      make(map[*SafeWriter]struct{}),
	}

	// Регистрируем стандартные обработчики
	server.RegisterHandler(MessageTypePing, server.handlePing)

	return server
}

// RegisterHandler регистрирует обработчик для конкретного типа сообщений.
// Вызывается до начала обслуживания соединений.
func (s *Server) RegisterHandler(messageType string, handler MessageHandler) {
	s.handlers[messageType] = handler
}

// SetPingInterval устанавливает интервал отправки пингов; 0 отключает пинги
func (s *Server) SetPingInterval(interval time.Duration) {
	s.pingInterval = interval
}

// ClientCount возвращает количество подключенных наблюдателей
func (s *Server) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// HandleWS обрабатывает входящие WebSocket соединения
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("[WSServer] Ошибка upgrade: %v", err)
		return
	}

	safeConn := NewSafeWriter(conn)
	s.addClient(safeConn)
	defer s.removeClient(safeConn)

	s.logger.Printf("[WSServer] Новое соединение от %s", conn.RemoteAddr())

	if err := safeConn.WriteJSON(NewInfoMessage(s.welcome)); err != nil {
		s.logger.Printf("[WSServer] Ошибка отправки приветствия: %v", err)
		return
	}

	done := make(chan struct{})
	defer close(done)
	if s.pingInterval > 0 {
		go s.startPing(safeConn, done)
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Printf("[WSServer] Ошибка соединения: %v", err)
			}
			break
		}

		message, err := ParseMessage(data)
		if err != nil {
			s.logger.Printf("[WSServer] Ошибка разбора сообщения: %v", err)
			continue
		}

		messageType, _ := GetMessageType(data)
		handler, ok := s.handlers[messageType]
		if !ok {
			s.logger.Printf("[WSServer] Нет обработчика для типа сообщения: %s", messageType)
			continue
		}
		if err := handler(safeConn, message); err != nil {
			s.logger.Printf("[WSServer] Ошибка обработки сообщения %s: %v", messageType, err)
		}
	}

	s.logger.Printf("[WSServer] Соединение закрыто: %s", conn.RemoteAddr())
}

// BroadcastFrame отправляет кадр всем наблюдателям; клиенты с ошибкой записи отключаются
func (s *Server) BroadcastFrame(frame render.Frame) error {
	data, err := json.Marshal(NewFrameMessage(frame))
	if err != nil {
		return fmt.Errorf("marshal frame %d: %w", frame.Tick, err)
	}
	pm, err := websocket.NewPreparedMessage(websocket.TextMessage, data)
	if err != nil {
		return fmt.Errorf("prepare frame %d: %w", frame.Tick, err)
	}

	s.clientsMu.RLock()
	clients := make([]*SafeWriter, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.clientsMu.RUnlock()

	for _, c := range clients {
		if err := c.WritePreparedMessage(pm); err != nil {
			s.logger.Printf("[WSServer] Отключение наблюдателя %s: %v", c.GetUnderlyingConn().RemoteAddr(), err)
			s.removeClient(c)
		}
	}
	return nil
}

// Close закрывает все соединения
func (s *Server) Close() {
	s.clientsMu.Lock()
	clients := s.clients
	s.clients = make(map[*SafeWriter]struct{})
	s.clientsMu.Unlock()

	for c := range clients {
		_ = c.Close()
	}
}

func (s *Server) handlePing(conn *SafeWriter, message interface{}) error {
	ping, ok := message.(*PingMessage)
	if !ok {
		return fmt.Errorf("unexpected ping payload %T", message)
	}
	return conn.WriteJSON(NewPongMessage(ping.ClientTime))
}

func (s *Server) startPing(conn *SafeWriter, done <-chan struct{}) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WritePing(); err != nil {
				return
			}
		}
	}
}

func (s *Server) addClient(c *SafeWriter) {
	s.clientsMu.Lock()
	s.clients[c] = struct{}{}
	s.clientsMu.Unlock()
}

func (s *Server) removeClient(c *SafeWriter) {
	s.clientsMu.Lock()
	_, ok := s.clients[c]
	delete(s.clients, c)
	s.clientsMu.Unlock()

	if ok {
		_ = c.Close()
	}
}
