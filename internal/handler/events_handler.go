package handler

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"teradrive/internal/bus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// EventsHandler транслирует сигнал "коллекция изменилась" подключённым
// клиентам. Сетевое зеркало внутренней шины: событие без полезной
// нагрузки, клиент перечитывает данные сам.
type EventsHandler struct {
	changeBus *bus.Bus
}

func NewEventsHandler(changeBus *bus.Bus) *EventsHandler {
	return &EventsHandler{changeBus: changeBus}
}

func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade events connection: %v", err)
		return
	}
	defer conn.Close()

	// Буферизованный канал развязывает синхронную шину и запись в
	// сокет; подряд идущие сигналы схлопываются в один.
	events := make(chan struct{}, 16)
	token := h.changeBus.Subscribe(func() {
		select {
		case events <- struct{}{}:
		default:
		}
	})
	defer h.changeBus.Unsubscribe(token)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Читаем только чтобы заметить закрытие со стороны клиента
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-events:
			if err := conn.WriteJSON(map[string]string{"event": "filesupdated"}); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
