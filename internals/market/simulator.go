package market

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

// Rand is the randomness the simulator draws from; tests substitute a
// scripted implementation for deterministic ticks.
type Rand interface {
	Float64() float64
}

type realRand struct {
	*rand.Rand
}

func NewRand(seed uint64) Rand {
	return realRand{rand.New(rand.NewSource(seed))}
}

// Clock abstracts time for the tick loop; tests substitute a manual one.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type RealClock struct{}

func (RealClock) Now() time.Time        { return time.Now() }
func (RealClock) Sleep(d time.Duration) { time.Sleep(d) }

// Subscriber receives the full updated quote set after every tick.
type Subscriber func([]Quote)

// Simulator perturbs every quote by a bounded random percentage on a
// fixed period and republishes the set to subscribers.
type Simulator struct {
	store    *Store
	interval time.Duration
	maxPct   float64
	rand     Rand
	clock    Clock
	log      *zap.Logger

	mu   sync.Mutex
	subs []Subscriber

	stopOnce sync.Once
	quit     chan struct{}
}

func NewSimulator(store *Store, interval time.Duration, maxPct float64, rnd Rand, clock Clock, log *zap.Logger) *Simulator {
	return &Simulator{
		store:    store,
		interval: interval,
		maxPct:   maxPct,
		rand:     rnd,
		clock:    clock,
		log:      log,
		quit:     make(chan struct{}),
	}
}

func (s *Simulator) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Start launches the tick loop. It returns immediately; the loop ends
// when ctx is cancelled or Stop is called.
func (s *Simulator) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *Simulator) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
}

func (s *Simulator) run(ctx context.Context) {
	s.log.Info("price simulator started",
		zap.Duration("interval", s.interval),
		zap.Float64("max_change_pct", s.maxPct))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("price simulator stopped")
			return
		case <-s.quit:
			s.log.Info("price simulator stopped")
			return
		default:
			s.clock.Sleep(s.interval)
			s.Tick()
		}
	}
}

// Tick applies one round of random drift to every quote, hands the
// updated set to all subscribers, and returns it. Exposed so tests can
// step the market without the loop.
func (s *Simulator) Tick() []Quote {
	quotes := s.store.apply(func(q *Quote) {
		// Uniform draw in [-maxPct, +maxPct].
		pct := (s.rand.Float64()*2 - 1) * s.maxPct

		old := q.Price
		next := old.Mul(decimal.NewFromFloat(1 + pct/100)).Round(2)

		q.Price = next
		q.Change = next.Sub(old).Round(2)
		if old.IsZero() {
			q.ChangePercent = decimal.Zero
		} else {
			q.ChangePercent = q.Change.Div(old).Mul(decimal.NewFromInt(100)).Round(2)
		}
	})

	s.publish(quotes)
	return quotes
}

func (s *Simulator) publish(quotes []Quote) {
	s.mu.Lock()
	subs := make([]Subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(quotes)
	}
}
