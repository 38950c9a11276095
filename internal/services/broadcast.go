package services

// Broadcaster is the real-time fan-out contract consumed by services.
// The WebSocket hub satisfies it; tests substitute a recorder.
type Broadcaster interface {
	// Broadcast delivers an event to every client in a room. Implementations
	// must not block the caller.
	Broadcast(room, event string, data any)
}

// nopBroadcaster discards every event. Used when no hub is wired.
type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(string, string, any) {}

// orDiscard guards against a nil hub so services never have to nil-check.
func orDiscard(b Broadcaster) Broadcaster {
	if b == nil {
		return nopBroadcaster{}
	}
	return b
}
