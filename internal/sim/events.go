package sim

// Event is a fire-and-forget trigger for audio or haptics collaborators.
type Event string

const (
	EventJump       Event = "jump"
	EventLand       Event = "land"
	EventHit        Event = "hit"
	EventCollect    Event = "collect"
	EventGem        Event = "gem"
	EventCheckpoint Event = "checkpoint"
	EventGoal       Event = "goal"
	EventEnemyDie   Event = "enemy_die"
	EventWarp       Event = "warp"
	EventSudo       Event = "sudo"
	EventPause      Event = "pause"
	EventShoot      Event = "shoot"
)

// EventSink receives simulation events. Emit must not block.
type EventSink interface {
	Emit(Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

// Emit implements EventSink.
func (f EventSinkFunc) Emit(e Event) { f(e) }

type discardSink struct{}

func (discardSink) Emit(Event) {}

// EventLog buffers events, for presenters that drain them once per frame.
type EventLog struct {
	events []Event
}

// Emit implements EventSink.
func (l *EventLog) Emit(e Event) {
	l.events = append(l.events, e)
}

// Drain returns buffered events and empties the log.
func (l *EventLog) Drain() []Event {
	out := l.events
	l.events = nil
	return out
}
