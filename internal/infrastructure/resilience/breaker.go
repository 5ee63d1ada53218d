package resilience

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("too many requests")
)

// State is the position of a single host breaker.
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings tunes every breaker a Group hands out.
type Settings struct {
	// HalfOpenRequests is how many trial calls a half-open breaker admits
	// and how many must succeed before it closes again.
	HalfOpenRequests uint32
	// Window resets the closed-state counts when it elapses.
	Window time.Duration
	// Cooldown is how long an open breaker rejects calls.
	Cooldown time.Duration
	// ShouldTrip runs after every failure while closed.
	ShouldTrip func(Counts) bool
	// IsFailure classifies a non-nil call error. Errors it rejects count as
	// successes, so a host answering 404 stays reachable.
	IsFailure func(error) bool
	// OnStateChange receives the group key of the breaker that moved.
	OnStateChange func(key string, from, to State)
}

func (s Settings) withDefaults() Settings {
	if s.HalfOpenRequests == 0 {
		s.HalfOpenRequests = 1
	}
	if s.Window <= 0 {
		s.Window = time.Minute
	}
	if s.Cooldown <= 0 {
		s.Cooldown = 30 * time.Second
	}
	if s.ShouldTrip == nil {
		s.ShouldTrip = func(c Counts) bool { return c.ConsecutiveFailures >= 5 }
	}
	if s.IsFailure == nil {
		s.IsFailure = func(error) bool { return true }
	}
	return s
}

// Counts tallies calls since the breaker last changed state or its window
// last rolled over.
type Counts struct {
	Requests             uint32
	Successes            uint32
	Failures             uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// FailureRatio returns failures over requests, zero when idle
func (c Counts) FailureRatio() float64 {
	if c.Requests == 0 {
		return 0
	}
	return float64(c.Failures) / float64(c.Requests)
}

// Group keeps one breaker per key, created on first use.
type Group struct {
	settings Settings
	now      func() time.Time
	breakers sync.Map // key -> *Breaker
}

// NewGroup returns an empty group whose breakers share settings.
func NewGroup(settings Settings) *Group {
	return &Group{settings: settings.withDefaults(), now: time.Now}
}

// Get returns the breaker for key.
func (g *Group) Get(key string) *Breaker {
	if b, ok := g.breakers.Load(key); ok {
		return b.(*Breaker)
	}
	b, _ := g.breakers.LoadOrStore(key, &Breaker{
		key:      key,
		settings: g.settings,
		now:      g.now,
		deadline: g.now().Add(g.settings.Window),
	})
	return b.(*Breaker)
}

// Execute runs fn through the breaker for key.
func (g *Group) Execute(key string, fn func() error) error {
	return g.Get(key).Execute(fn)
}

// States reports every breaker seen so far.
func (g *Group) States() map[string]State {
	states := make(map[string]State)
	g.breakers.Range(func(key, value any) bool {
		states[key.(string)] = value.(*Breaker).State()
		return true
	})
	return states
}

// Breaker fails fast for one key while that key keeps failing.
type Breaker struct {
	key      string
	settings Settings
	now      func() time.Time

	mu         sync.Mutex
	state      State
	counts     Counts
	generation uint64
	// deadline ends the window while closed and the cooldown while open
	deadline time.Time
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.advance(b.now())
	return b.state
}

func (b *Breaker) Counts() Counts {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.advance(b.now())
	return b.counts
}

// Execute runs fn unless the breaker rejects it. A panic in fn is recorded
// as a failure before it propagates.
func (b *Breaker) Execute(fn func() error) error {
	generation, err := b.admit()
	if err != nil {
		return err
	}

	failed := true
	defer func() { b.record(generation, failed) }()

	err = fn()
	failed = err != nil && b.settings.IsFailure(err)
	return err
}

func (b *Breaker) admit() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.advance(b.now())
	switch b.state {
	case StateOpen:
		return 0, ErrCircuitOpen
	case StateHalfOpen:
		if b.counts.Requests >= b.settings.HalfOpenRequests {
			return 0, ErrTooManyRequests
		}
	}
	b.counts.Requests++
	return b.generation, nil
}

// record drops results from calls admitted before the last state change or
// window rollover.
func (b *Breaker) record(generation uint64, failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.advance(now)
	if generation != b.generation {
		return
	}

	if failed {
		b.counts.Failures++
		b.counts.ConsecutiveFailures++
		b.counts.ConsecutiveSuccesses = 0
		if b.state == StateHalfOpen || b.settings.ShouldTrip(b.counts) {
			b.moveTo(StateOpen, now)
		}
		return
	}

	b.counts.Successes++
	b.counts.ConsecutiveSuccesses++
	b.counts.ConsecutiveFailures = 0
	if b.state == StateHalfOpen && b.counts.ConsecutiveSuccesses >= b.settings.HalfOpenRequests {
		b.moveTo(StateClosed, now)
	}
}

func (b *Breaker) advance(now time.Time) {
	switch b.state {
	case StateClosed:
		if !now.Before(b.deadline) {
			b.counts = Counts{}
			b.generation++
			b.deadline = now.Add(b.settings.Window)
		}
	case StateOpen:
		if !now.Before(b.deadline) {
			b.moveTo(StateHalfOpen, now)
		}
	}
}

func (b *Breaker) moveTo(to State, now time.Time) {
	if b.state == to {
		return
	}

	from := b.state
	b.state = to
	b.counts = Counts{}
	b.generation++

	switch to {
	case StateClosed:
		b.deadline = now.Add(b.settings.Window)
	case StateOpen:
		b.deadline = now.Add(b.settings.Cooldown)
	case StateHalfOpen:
		b.deadline = time.Time{}
	}

	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.key, from, to)
	}
}
