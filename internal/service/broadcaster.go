package service

// Broadcaster рассылает событие всем подключённым WebSocket-клиентам.
// Реализуется хабом из internal/websocket; сервисы зависят только от
// интерфейса, чтобы не тянуть транспорт в бизнес-логику.
type Broadcaster interface {
	BroadcastEvent(eventType string, payload interface{})
}

// NoopBroadcaster используется, когда WebSocket-рассылка не подключена
type NoopBroadcaster struct{}

func (NoopBroadcaster) BroadcastEvent(eventType string, payload interface{}) {}
