package tasks

// Kind is one agent behavior state.
type Kind string

const (
	Idle              Kind = "IDLE"
	DrivingToResource Kind = "DRIVE_TO_RESOURCE"
	Intaking          Kind = "INTAKE"
	DrivingToTarget   Kind = "DRIVE_TO_TARGET"
	Aligning          Kind = "ALIGN"
	Scoring           Kind = "SCORE"
	StockpileHold     Kind = "STOCKPILE_HOLD"
	PrePositioning    Kind = "PREPOSITION"
	Dumping           Kind = "DUMP"
	Climbing          Kind = "CLIMB"
	Defending         Kind = "DEFEND"
	PushingResource   Kind = "PUSH_RESOURCE"
	ClearingJam       Kind = "CLEAR_JAM"
	DrivingBack       Kind = "DRIVE_BACK"
)

// Kinds lists every state in a stable order (trace and digest tables).
var Kinds = []Kind{
	Idle, DrivingToResource, Intaking, DrivingToTarget, Aligning, Scoring,
	StockpileHold, PrePositioning, Dumping, Climbing, Defending,
	PushingResource, ClearingJam, DrivingBack,
}

// Shooting reports whether the state launches fuel every tick.
func (k Kind) Shooting() bool { return k == Scoring || k == Dumping }

// AtTarget reports whether the state works at the alliance hub and so
// contends for it.
func (k Kind) AtTarget() bool {
	return k == DrivingToTarget || k == Aligning || k == Scoring || k == Dumping
}

// Task is the current state with its countdown. Remaining == 0 means the
// state holds until something else moves the agent on.
type Task struct {
	Kind        Kind
	StartedTick int
	Ticks       int
	Remaining   int
}

// Start replaces the task. Timed states always take at least one tick.
func (t *Task) Start(k Kind, now, ticks int) {
	if ticks < 1 {
		ticks = 1
	}
	*t = Task{Kind: k, StartedTick: now, Ticks: ticks, Remaining: ticks}
}

// Hold parks the agent in k with no countdown.
func (t *Task) Hold(k Kind, now int) {
	*t = Task{Kind: k, StartedTick: now}
}

func (t Task) Timed() bool { return t.Remaining > 0 }

// Tick consumes one tick and reports whether the countdown just elapsed.
func (t *Task) Tick() bool {
	if t.Remaining <= 0 {
		return false
	}
	t.Remaining--
	return t.Remaining == 0
}

// Finish forces the countdown to elapse on the next Tick.
func (t *Task) Finish() {
	if t.Remaining > 1 {
		t.Remaining = 1
	}
}
