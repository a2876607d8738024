package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultWriteWait максимальное время на одну запись
const DefaultWriteWait = 5 * time.Second

// SafeWriter обеспечивает потокобезопасную запись в WebSocket соединение
type SafeWriter struct {
	conn      *websocket.Conn
	mutex     sync.Mutex
	writeWait time.Duration
}

// NewSafeWriter создает новый экземпляр SafeWriter
func NewSafeWriter(conn *websocket.Conn) *SafeWriter {
	return &SafeWriter{
		conn:      conn,
		writeWait: DefaultWriteWait,
	}
}

// WriteJSON потокобезопасно записывает JSON данные в WebSocket соединение
func (w *SafeWriter) WriteJSON(v interface{}) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.setDeadline()
	return w.conn.WriteJSON(v)
}

// WriteMessage потокобезопасно записывает сообщение в WebSocket соединение
func (w *SafeWriter) WriteMessage(messageType int, data []byte) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.setDeadline()
	return w.conn.WriteMessage(messageType, data)
}

// WritePreparedMessage записывает заранее подготовленное сообщение (рассылка одного кадра многим клиентам)
func (w *SafeWriter) WritePreparedMessage(pm *websocket.PreparedMessage) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.setDeadline()
	return w.conn.WritePreparedMessage(pm)
}

// WritePing отправляет управляющий ping-кадр
func (w *SafeWriter) WritePing() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(w.writeWait))
}

// Close закрывает WebSocket соединение
func (w *SafeWriter) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.conn.Close()
}

// GetUnderlyingConn возвращает базовое WebSocket соединение
func (w *SafeWriter) GetUnderlyingConn() *websocket.Conn {
	return w.conn
}

// ReadMessage читает сообщение из WebSocket соединения (небезопасно для параллельного чтения)
func (w *SafeWriter) ReadMessage() (int, []byte, error) {
	return w.conn.ReadMessage()
}

func (w *SafeWriter) setDeadline() {
	if w.writeWait > 0 {
		_ = w.conn.SetWriteDeadline(time.Now().Add(w.writeWait))
	}
}
