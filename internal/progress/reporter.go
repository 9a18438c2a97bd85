package progress

import (
	"github.com/datallboy/godemo/internal/domain"
)

// Event names used on the UI channel.
const (
	EventProgress = "progress-update"
	EventStatus   = "download-status"
)

// Reporter receives every stage transition of a download run. Implementations
// must be safe for concurrent use.
type Reporter interface {
	Progress(ev domain.ProgressEvent)
	Status(ev domain.StatusEvent)
}

// Event is the union of the two event kinds, tagged with its channel name.
type Event struct {
	Name     string
	Progress *domain.ProgressEvent
	Status   *domain.StatusEvent
}

// Payload returns the value to serialise for the event.
func (e Event) Payload() any {
	if e.Progress != nil {
		return e.Progress
	}
	return e.Status
}

func progressEvent(ev domain.ProgressEvent) Event {
	return Event{Name: EventProgress, Progress: &ev}
}

func statusEvent(ev domain.StatusEvent) Event {
	return Event{Name: EventStatus, Status: &ev}
}

// Discard drops everything.
var Discard Reporter = Funcs{}

// Funcs adapts callbacks to a Reporter. Nil callbacks are skipped.
type Funcs struct {
	OnProgress func(domain.ProgressEvent)
	OnStatus   func(domain.StatusEvent)
}

func (f Funcs) Progress(ev domain.ProgressEvent) {
	if f.OnProgress != nil {
		f.OnProgress(ev)
	}
}

func (f Funcs) Status(ev domain.StatusEvent) {
	if f.OnStatus != nil {
		f.OnStatus(ev)
	}
}

// Multi forwards every event to all reporters in order.
type Multi []Reporter

func (m Multi) Progress(ev domain.ProgressEvent) {
	for _, r := range m {
		r.Progress(ev)
	}
}

func (m Multi) Status(ev domain.StatusEvent) {
	for _, r := range m {
		r.Status(ev)
	}
}

// OrDiscard returns r, or Discard when r is nil.
func OrDiscard(r Reporter) Reporter {
	if r == nil {
		return Discard
	}
	return r
}

// Channel delivers events on C. Sends block, so nothing is ever dropped; the
// consumer must keep reading until the run is over.
type Channel struct {
	C chan Event
}

func NewChannel(buffer int) *Channel {
	return &Channel{C: make(chan Event, buffer)}
}

func (c *Channel) Progress(ev domain.ProgressEvent) { c.C <- progressEvent(ev) }
func (c *Channel) Status(ev domain.StatusEvent)     { c.C <- statusEvent(ev) }

// Close ends the stream. No events may be reported afterwards.
func (c *Channel) Close() { close(c.C) }
