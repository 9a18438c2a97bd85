package progress

import (
	"sync"

	"github.com/datallboy/godemo/internal/domain"
	"github.com/datallboy/godemo/internal/infra/logger"
)

const subscriberBuffer = 256

// Hub fans events out to any number of subscribers, one per open event stream.
// A subscriber that stops reading loses events instead of stalling downloads.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]chan Event
	nextID uint64

	logger *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.NewNop()
	}
	return &Hub{subs: make(map[uint64]chan Event), logger: log}
}

// Subscribe registers a new listener. The returned cancel func unregisters it
// and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Event, subscriberBuffer)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers returns the number of open listeners.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) Progress(ev domain.ProgressEvent) { h.publish(progressEvent(ev)) }
func (h *Hub) Status(ev domain.StatusEvent)     { h.publish(statusEvent(ev)) }

func (h *Hub) publish(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subs {
		select {
		case ch <- ev:
		default:
			h.logger.Warn("Event stream %d is not keeping up, dropped %s", id, ev.Name)
		}
	}
}
