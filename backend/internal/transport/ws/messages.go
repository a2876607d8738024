package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gnn-sim/backend/internal/render"
)

// ErrUnknownMessage возвращается для сообщений неизвестного типа
var ErrUnknownMessage = errors.New("unknown message type")

// ParseMessage разбирает входящее сообщение в соответствующий тип
func ParseMessage(data []byte) (interface{}, error) {
	messageType, err := GetMessageType(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing message: %w", err)
	}

	switch messageType {
	case MessageTypePing:
		var msg PingMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("error parsing ping message: %w", err)
		}
		return &msg, nil

	case MessageTypePong:
		var msg PongMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("error parsing pong message: %w", err)
		}
		return &msg, nil

	case MessageTypeInfo:
		var msg InfoMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("error parsing info message: %w", err)
		}
		return &msg, nil

	case MessageTypeFrame:
		var msg FrameMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("error parsing frame message: %w", err)
		}
		return &msg, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, messageType)
	}
}

// GetMessageType возвращает тип сообщения на основе входных данных
func GetMessageType(data []byte) (string, error) {
	var baseMessage struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal(data, &baseMessage); err != nil {
		return "", err
	}

	return baseMessage.Type, nil
}

// GetCurrentServerTime возвращает текущее время сервера в миллисекундах
func GetCurrentServerTime() int64 {
	return time.Now().UnixMilli()
}

// NewInfoMessage создает новое информационное сообщение
func NewInfoMessage(message string) *InfoMessage {
	return &InfoMessage{
		Type:    MessageTypeInfo,
		Message: message,
	}
}

// NewPingMessage создает новое ping-сообщение
func NewPingMessage(clientTime int64) *PingMessage {
	return &PingMessage{
		Type:       MessageTypePing,
		ClientTime: clientTime,
	}
}

// NewPongMessage создает ответ на ping
func NewPongMessage(clientTime int64) *PongMessage {
	return &PongMessage{
		Type:       MessageTypePong,
		ClientTime: clientTime,
		ServerTime: GetCurrentServerTime(),
	}
}

// NewFrameMessage оборачивает кадр отрисовки
func NewFrameMessage(frame render.Frame) *FrameMessage {
	calls := frame.Calls
	if calls == nil {
		calls = []render.FrameCall{}
	}
	return &FrameMessage{
		Type:       MessageTypeFrame,
		Tick:       frame.Tick,
		ServerTime: GetCurrentServerTime(),
		Calls:      calls,
	}
}
