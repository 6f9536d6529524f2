package events

import (
	"sync"

	"github.com/blaulicht/leitstelle/internal/model"
)

type Type string

const (
	StatusUpdate   Type = "statusUpdate"
	HighPriority   Type = "highPriority"
	NewMission     Type = "newMission"
	MissionUpdated Type = "missionUpdated"
)

// Event is one broadcast message. Exactly one payload field is set,
// depending on Type.
type Event struct {
	Type    Type            `json:"type"`
	Entry   *model.LogEntry `json:"entry,omitempty"`
	Mission *model.Mission  `json:"mission,omitempty"`
}

func NewStatusUpdate(e *model.LogEntry) *Event {
	return &Event{Type: StatusUpdate, Entry: e}
}

func NewHighPriority(e *model.LogEntry) *Event {
	return &Event{Type: HighPriority, Entry: e}
}

func NewMissionEvent(m *model.Mission) *Event {
	return &Event{Type: NewMission, Mission: m}
}

func MissionUpdatedEvent(m *model.Mission) *Event {
	return &Event{Type: MissionUpdated, Mission: m}
}

// Hub is a fire-and-forget fan-out to named subscribers. Publishing never
// blocks the caller: each subscriber runs in its own goroutine and is
// dropped when its callback returns false. There is no replay and no
// delivery guarantee.
type Hub struct {
	subscribers sync.Map
}

func NewHub() *Hub {
	return &Hub{subscribers: sync.Map{}}
}

func (h *Hub) Subscribe(name string, fn func(evt *Event) bool) {
	h.subscribers.Store(name, fn)
}

func (h *Hub) Unsubscribe(name string) bool {
	_, found := h.subscribers.LoadAndDelete(name)

	return found
}

func (h *Hub) Publish(evt *Event) {
	h.subscribers.Range(func(key, value any) bool {
		if fn, ok := value.(func(evt *Event) bool); ok {
			go func() {
				if !fn(evt) {
					h.subscribers.Delete(key)
				}
			}()
		}

		return true
	})
}
