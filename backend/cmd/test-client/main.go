package main

import (
	"flag"
	"log"
	"net/url"

	"github.com/gorilla/websocket"

	"gnn-sim/backend/internal/content"
	"gnn-sim/backend/internal/transport/ws"
)

// summarize возвращает короткое описание сообщения для лога
func summarize(msg interface{}) (string, []interface{}) {
	switch m := msg.(type) {
	case *ws.InfoMessage:
		return "INFO: %s", []interface{}{m.Message}
	case *ws.PongMessage:
		return "PONG: client %d, server %d", []interface{}{m.ClientTime, m.ServerTime}
	case *ws.FrameMessage:
		creatures, food := countKinds(m)
		return "FRAME %d: %d вызовов (существ %d, еды %d)", []interface{}{m.Tick, len(m.Calls), creatures, food}
	default:
		return "Сообщение %T", []interface{}{msg}
	}
}

// countKinds считает вызовы отрисовки по текстурам
func countKinds(m *ws.FrameMessage) (creatures, food int) {
	for _, c := range m.Calls {
		switch c.Texture {
		case content.NameCreature:
			creatures++
		case content.NameFood:
			food++
		}
	}
	return creatures, food
}

func main() {
	var (
		addr  = flag.String("url", "ws://localhost:8080/ws", "Адрес потока наблюдения")
		count = flag.Int("n", 10, "Сколько сообщений прочитать")
	)
	flag.Parse()

	u, err := url.Parse(*addr)
	if err != nil {
		log.Fatalf("Неверный URL: %v", err)
	}

	log.Printf("Подключение к %s", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Ошибка подключения: %v", err)
	}
	defer conn.Close()

	log.Printf("Успешно подключен")

	if err := conn.WriteJSON(ws.NewPingMessage(ws.GetCurrentServerTime())); err != nil {
		log.Printf("Ошибка отправки ping: %v", err)
	}

	for i := 0; i < *count; i++ {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Printf("Ошибка чтения сообщения: %v", err)
			break
		}

		msg, err := ws.ParseMessage(data)
		if err != nil {
			log.Printf("Ошибка разбора сообщения: %v", err)
			continue
		}

		format, args := summarize(msg)
		log.Printf(format, args...)
	}

	log.Printf("Тест завершен")
}
