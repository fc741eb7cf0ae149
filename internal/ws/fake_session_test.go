package ws

import "sync"

// fakeSession records every event sent to it, standing in for a live
// websocket connection.
type fakeSession struct {
	id string

	mu      sync.Mutex
	events  []ServerEvent
	sendErr error
	closed  bool
}

func newFakeSession(id string) *fakeSession {
	return &fakeSession{id: id}
}

func (f *fakeSession) ID() string {
	return f.id
}

func (f *fakeSession) Send(ev ServerEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeSession) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSession) sent() []ServerEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ServerEvent, len(f.events))
	copy(out, f.events)
	return out
}

func (f *fakeSession) sentOfType(eventType string) []ServerEvent {
	var out []ServerEvent
	for _, ev := range f.sent() {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}
