package ws

import "gnn-sim/backend/internal/render"

// Константы для WebSocket сообщений
const (
	// Типы сообщений
	MessageTypeFrame = "frame" // Кадр отрисовки мира
	MessageTypePing  = "ping"  // Пинг для измерения задержки
	MessageTypePong  = "pong"  // Ответ на пинг
	MessageTypeInfo  = "info"  // Информационное сообщение
)

// FrameMessage кадр отрисовки, отправляемый наблюдателям
type FrameMessage struct {
	Type       string             `json:"type"`
	Tick       uint64             `json:"tick"`
	ServerTime int64              `json:"server_time"`
	Calls      []render.FrameCall `json:"calls"`
}

// PingMessage представляет пинг от клиента
type PingMessage struct {
	Type       string `json:"type"`
	ClientTime int64  `json:"client_time"`
}

// PongMessage представляет ответ на пинг от сервера
type PongMessage struct {
	Type       string `json:"type"`
	ClientTime int64  `json:"client_time"`
	ServerTime int64  `json:"server_time"`
}

// InfoMessage представляет информационное сообщение от сервера
type InfoMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
