// Package progress runs the installation stages in order, reporting
// fractional progress and timestamped log lines as it goes.
package progress

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/andreagrandi/jvm-wire/internal/logger"
)

// DefaultStages are the installation stages, in execution order.
var DefaultStages = []string{
	"Verifying local installation file",
	"Creating backup of existing installation",
	"Copying installation file to remote hosts",
	"Unpacking installation files",
	"Configuring environment variables",
	"Updating symlinks",
	"Installation complete",
}

// ErrAlreadyStarted is returned when Run is called on a sequencer that has
// already been run.
var ErrAlreadyStarted = errors.New("installation sequence already started")

// ErrNoStages is returned when the sequencer has nothing to run.
var ErrNoStages = errors.New("no installation stages")

// ExecutionError reports a stage whose executor failed. The run stops at
// that stage.
type ExecutionError struct {
	Stage string
	Index int
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("stage %d %q failed: %v", e.Index+1, e.Stage, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Update is emitted when a stage begins.
type Update struct {
	Index    int
	Total    int
	Stage    string
	Fraction float64
	Time     time.Time
	Line     string
	// Terminal marks the final, successful stage.
	Terminal bool
}

// Percent returns the fraction as a rounded percentage.
func (u Update) Percent() int {
	return int(u.Fraction*100 + 0.5)
}

// Completion is reported after the final stage.
type Completion struct {
	HostCount int
	Message   string
}

// Observer receives progress as the sequencer runs. Either callback may be
// nil.
type Observer struct {
	OnUpdate   func(Update)
	OnComplete func(Completion)
}

// StageContext is passed to the Executor for each stage.
type StageContext struct {
	Index int
	Total int
	Stage string
	Hosts []string
}

// Executor performs the work behind a stage. The default simulates it.
type Executor interface {
	RunStage(ctx context.Context, stage StageContext) error
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, stage StageContext) error

func (f ExecutorFunc) RunStage(ctx context.Context, stage StageContext) error {
	return f(ctx, stage)
}

type simulatedExecutor struct{}

func (simulatedExecutor) RunStage(context.Context, StageContext) error { return nil }

// Sequencer runs a fixed list of stages once.
type Sequencer struct {
	Stages   []string
	Delay    DelayPolicy
	Executor Executor
	Now      func() time.Time
	// Sleep waits for d or until ctx is done.
	Sleep func(ctx context.Context, d time.Duration) error

	mu      sync.Mutex
	started bool
}

// Option configures a Sequencer.
type Option func(*Sequencer)

func WithStages(stages []string) Option {
	return func(s *Sequencer) { s.Stages = append([]string(nil), stages...) }
}

func WithDelay(policy DelayPolicy) Option {
	return func(s *Sequencer) { s.Delay = policy }
}

func WithExecutor(e Executor) Option {
	return func(s *Sequencer) { s.Executor = e }
}

func WithClock(now func() time.Time) Option {
	return func(s *Sequencer) { s.Now = now }
}

func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Sequencer) { s.Sleep = sleep }
}

// New returns a sequencer over DefaultStages with DefaultDelays and the
// simulated executor.
func New(opts ...Option) *Sequencer {
	s := &Sequencer{
		Stages:   append([]string(nil), DefaultStages...),
		Delay:    NewDefaultDelays(),
		Executor: simulatedExecutor{},
		Now:      time.Now,
		Sleep:    sleepContext,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run executes every stage in order for hosts. Progress is reported to obs
// before each stage's work and delay. Run may be called only once.
func (s *Sequencer) Run(ctx context.Context, hosts []string, obs Observer) (Completion, error) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return Completion{}, ErrAlreadyStarted
	}
	s.started = true
	s.mu.Unlock()

	total := len(s.Stages)
	if total == 0 {
		return Completion{}, ErrNoStages
	}

	executor := s.Executor
	if executor == nil {
		executor = simulatedExecutor{}
	}

	now := s.Now
	if now == nil {
		now = time.Now
	}

	sleep := s.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	hostList := append([]string(nil), hosts...)
	logger.Info("installation started", "hosts", len(hostList), "stages", total)

	for i, stage := range s.Stages {
		if err := ctx.Err(); err != nil {
			logger.Warn("installation cancelled", "stage", stage, "index", i)
			return Completion{}, err
		}

		u := newUpdate(i, total, stage, now())
		logger.Info("installation stage", "index", i+1, "total", total, "stage", stage)
		if obs.OnUpdate != nil {
			obs.OnUpdate(u)
		}

		sc := StageContext{Index: i, Total: total, Stage: stage, Hosts: hostList}
		if err := executor.RunStage(ctx, sc); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return Completion{}, ctxErr
			}

			logger.Error("installation stage failed", "stage", stage, "error", err)
			return Completion{}, &ExecutionError{Stage: stage, Index: i, Err: err}
		}

		var d time.Duration
		if s.Delay != nil {
			d = s.Delay.Delay(i, total)
		}

		if err := sleep(ctx, d); err != nil {
			logger.Warn("installation cancelled", "stage", stage, "index", i)
			return Completion{}, err
		}
	}

	c := Completion{
		HostCount: len(hostList),
		Message:   CompletionMessage(len(hostList)),
	}
	logger.Info("installation finished", "hosts", c.HostCount)

	if obs.OnComplete != nil {
		obs.OnComplete(c)
	}

	return c, nil
}

// CompletionMessage returns the success message for n hosts.
func CompletionMessage(n int) string {
	return fmt.Sprintf("Java installation completed successfully on %d host(s)!", n)
}

func newUpdate(i, total int, stage string, at time.Time) Update {
	terminal := i == total-1

	suffix := "..."
	if terminal {
		suffix = " ✓"
	}

	return Update{
		Index:    i,
		Total:    total,
		Stage:    stage,
		Fraction: float64(i+1) / float64(total),
		Time:     at,
		Line:     "[" + at.Format("15:04:05") + "] " + stage + suffix,
		Terminal: terminal,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// DelayPolicy decides how long to wait after stage i of total.
type DelayPolicy interface {
	Delay(i, total int) time.Duration
}

// DelayFunc adapts a function to DelayPolicy.
type DelayFunc func(i, total int) time.Duration

func (f DelayFunc) Delay(i, total int) time.Duration { return f(i, total) }

// NoDelay never waits.
var NoDelay = DelayFunc(func(int, int) time.Duration { return 0 })

// DefaultDelays waits First after the first stage, Final after the last and
// a uniform random duration in [InteriorMin, InteriorMax) otherwise.
type DefaultDelays struct {
	First       time.Duration
	Final       time.Duration
	InteriorMin time.Duration
	InteriorMax time.Duration
	// Rand returns a value in [0, 1). Defaults to math/rand.
	Rand func() float64
}

// NewDefaultDelays returns the stock timing: 1s, 2s and 1.5s to 2.5s.
func NewDefaultDelays() DefaultDelays {
	return DefaultDelays{
		First:       time.Second,
		Final:       2 * time.Second,
		InteriorMin: 1500 * time.Millisecond,
		InteriorMax: 2500 * time.Millisecond,
	}
}

func (d DefaultDelays) Delay(i, total int) time.Duration {
	switch {
	case i == 0:
		return d.First
	case i == total-1:
		return d.Final
	}

	span := d.InteriorMax - d.InteriorMin
	if span <= 0 {
		return d.InteriorMin
	}

	r := rand.Float64
	if d.Rand != nil {
		r = d.Rand
	}

	return d.InteriorMin + time.Duration(r()*float64(span))
}
