package core

// Event represents a game event
type Event struct {
	Type    EventType
	Tick    uint64
	Team    Team   // side the subject belongs to, if known
	Subject string // entity ID the event is about, if any
	Detail  string
	Amount  float64 // damage dealt, resources spent
}

type EventType uint16

const (
	EvtUnitSpawned EventType = iota
	EvtUnitDestroyed
	EvtBuildingPlaced
	EvtBuildingComplete
	EvtTargetAcquired
	EvtTargetLost
	EvtUnitDamaged
	EvtResourcesSpent
	EvtMoveOrdered
	EvtSelectionChanged
	EvtPauseToggled
	EvtSpeedChanged
	EvtReinforcements
)

var eventNames = [...]string{
	EvtUnitSpawned:      "unit_spawned",
	EvtUnitDestroyed:    "unit_destroyed",
	EvtBuildingPlaced:   "building_placed",
	EvtBuildingComplete: "building_complete",
	EvtTargetAcquired:   "target_acquired",
	EvtTargetLost:       "target_lost",
	EvtUnitDamaged:      "unit_damaged",
	EvtResourcesSpent:   "resources_spent",
	EvtMoveOrdered:      "move_ordered",
	EvtSelectionChanged: "selection_changed",
	EvtPauseToggled:     "pause_toggled",
	EvtSpeedChanged:     "speed_changed",
	EvtReinforcements:   "reinforcements",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// EventBus dispatches events to listeners
type EventBus struct {
	listeners map[EventType][]EventHandler
	any       []EventHandler
	queue     []Event
}

type EventHandler func(e Event)

func NewEventBus() *EventBus {
	return &EventBus{
		listeners: make(map[EventType][]EventHandler),
	}
}

// On registers a handler for an event type
func (eb *EventBus) On(t EventType, h EventHandler) {
	eb.listeners[t] = append(eb.listeners[t], h)
}

// OnAny registers a handler for every event type
func (eb *EventBus) OnAny(h EventHandler) {
	eb.any = append(eb.any, h)
}

// Emit queues an event for dispatch
func (eb *EventBus) Emit(e Event) {
	eb.queue = append(eb.queue, e)
}

// Pending returns the number of queued events
func (eb *EventBus) Pending() int {
	return len(eb.queue)
}

// Dispatch processes all queued events
func (eb *EventBus) Dispatch() {
	for i := 0; i < len(eb.queue); i++ {
		e := eb.queue[i]
		for _, h := range eb.listeners[e.Type] {
			h(e)
		}
		for _, h := range eb.any {
			h(e)
		}
	}
	eb.queue = eb.queue[:0]
}
