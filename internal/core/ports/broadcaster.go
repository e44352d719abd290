package ports

// Broadcaster fans a named event out to every connection in a room.
// Delivery is fire-and-forget: failures are logged by the implementation and
// never surfaced to the caller, and missed events are not re-sent.
type Broadcaster interface {
	Broadcast(room, event string, payload any)
}

// NopBroadcaster discards every event. Used in tests and as a safe default.
type NopBroadcaster struct{}

func (NopBroadcaster) Broadcast(string, string, any) {}
