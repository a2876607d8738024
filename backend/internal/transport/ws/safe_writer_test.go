package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// echoCollector поднимает сервер, который читает n сообщений и передает их в канал
func echoCollector(t *testing.T, n int) (*httptest.Server, <-chan string) {
	t.Helper()
	received := make(chan string, n)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Failed to upgrade connection: %v", err)
			return
		}
		defer conn.Close()

		for i := 0; i < n; i++ {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			received <- string(msg)
		}
	}))
	return server, received
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket server: %v", err)
	}
	return conn
}

func TestSafeWriter_WriteJSON_Concurrency(t *testing.T) {
	const writers = 10
	server, received := echoCollector(t, writers)
	defer server.Close()

	wsConn := dial(t, server)
	defer wsConn.Close()

	writer := NewSafeWriter(wsConn)

	// Параллельные записи не должны перемешивать кадры
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			time.Sleep(time.Duration(id) * time.Millisecond)
			if err := writer.WriteJSON(NewPingMessage(int64(id))); err != nil {
				t.Errorf("Error writing message: %v", err)
			}
		}(i)
	}
	wg.Wait()

	uniq := make(map[string]struct{})
	for i := 0; i < writers; i++ {
		select {
		case msg := <-received:
			if _, err := ParseMessage([]byte(msg)); err != nil {
				t.Errorf("поврежденное сообщение %q: %v", msg, err)
			}
			uniq[msg] = struct{}{}
		case <-time.After(2 * time.Second):
			t.Fatalf("получено только %d сообщений", i)
		}
	}
	if len(uniq) != writers {
		t.Errorf("Expected %d unique messages, got %d", writers, len(uniq))
	}
}

func TestSafeWriter_WritePreparedMessage(t *testing.T) {
	server, received := echoCollector(t, 1)
	defer server.Close()

	wsConn := dial(t, server)
	defer wsConn.Close()

	pm, err := websocket.NewPreparedMessage(websocket.TextMessage, []byte(`{"type":"info","message":"hi"}`))
	if err != nil {
		t.Fatalf("NewPreparedMessage: %v", err)
	}
	if err := NewSafeWriter(wsConn).WritePreparedMessage(pm); err != nil {
		t.Fatalf("WritePreparedMessage: %v", err)
	}

	select {
	case msg := <-received:
		if msg != `{"type":"info","message":"hi"}` {
			t.Errorf("msg = %s", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("сообщение не получено")
	}
}

func TestSafeWriter_Close(t *testing.T) {
	server, _ := echoCollector(t, 1)
	defer server.Close()

	writer := NewSafeWriter(dial(t, server))
	if err := writer.Close(); err != nil {
		t.Errorf("Error closing connection: %v", err)
	}

	// Попытка записи в закрытое соединение должна вернуть ошибку
	if err := writer.WriteJSON("test"); err == nil {
		t.Error("Expected error when writing to closed connection, got nil")
	}
}
