package scheduler

// Broadcaster sends real-time events to connected clients.
// Implemented by the WebSocket hub.
type Broadcaster interface {
	JoinMatchChannel(playerID, matchID string)
	LeaveMatchChannel(playerID, matchID string)
	BroadcastMatchEvent(matchID string, eventType string, data any)
	SendPlayerEvent(playerID string, eventType string, data any)
}

// NoopBroadcaster is a no-op implementation for testing or when WS is disabled.
type NoopBroadcaster struct{}

func (NoopBroadcaster) JoinMatchChannel(string, string) {}

func (NoopBroadcaster) LeaveMatchChannel(string, string) {}

func (NoopBroadcaster) BroadcastMatchEvent(string, string, any) {}

func (NoopBroadcaster) SendPlayerEvent(string, string, any) {}
