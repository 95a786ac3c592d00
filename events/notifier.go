package events

// Event names pushed to the admin panel.
const (
	OrderUpdated     = "order-updated"
	TrendUpdate      = "trend:update"
	ContactUpdated   = "contact-updated"
	Searching        = "searching"
	BroadcastMessage = "broadcast-message"
	SearchResult     = "search_result"
)

// Event names the admin panel may send over the socket.
const (
	inboundAdminMessage   = "admin-message"
	inboundOrderCreated   = "order-created"
	inboundAdminSearch    = "searching-adminData"
	inboundContactCreated = "contact-created"
)

// Notifier delivers named events to whoever is listening. Delivery is best
// effort and Emit never blocks the caller on a slow consumer.
type Notifier interface {
	Emit(event string, payload any)
}

// Multi fans an event out to every notifier in order.
type Multi []Notifier

func (m Multi) Emit(event string, payload any) {
	for _, n := range m {
		if n != nil {
			n.Emit(event, payload)
		}
	}
}

type discard struct{}

func (discard) Emit(string, any) {}

// Discard drops every event.
var Discard Notifier = discard{}

// Message is the wire frame for every socket and Kafka event.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}
