// Package websocket реализует рассылку событий лиги подключённым клиентам:
// финализация эпизодов, выбывания участников, смены пиков.
// Хаб однопроцессный: инстанс API один, кластерная шина не нужна.
package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Event — сообщение, рассылаемое клиентам
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub управляет подключёнными клиентами и рассылает им события
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu sync.RWMutex
}

// NewHub создает новый хаб
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte, 256),
	}
}

// Run запускает цикл обработки хаба. Вызывается в отдельной горутине из main.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("[WSHub] Клиент подключен user=%d, всего клиентов: %d", client.UserID, h.ClientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			log.Printf("[WSHub] Клиент отключен user=%d, всего клиентов: %d", client.UserID, h.ClientCount())

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Клиент не успевает читать, отбрасываем его
					go func(c *Client) { h.unregister <- c }(client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastEvent сериализует событие и рассылает его всем клиентам.
// Реализует service.Broadcaster.
func (h *Hub) BroadcastEvent(eventType string, payload interface{}) {
	data, err := json.Marshal(Event{Type: eventType, Data: payload})
	if err != nil {
		log.Printf("[WSHub] Ошибка сериализации события %s: %v", eventType, err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		log.Printf("[WSHub] Буфер рассылки переполнен, событие %s отброшено", eventType)
	}
}

// ClientCount возвращает число подключённых клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
