// Package delegate runs Telegram events through one serial loop per chat.
//
// Each chat gets its own goroutine on first contact. Jobs for the same chat
// run one at a time in submission order; different chats run concurrently.
// A loop that receives nothing for the idle window exits and reports the
// chat through Options.OnIdle so callers can drop its state.
package delegate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m3rciful/barbot/core/logger"
)

var (
	// ErrClosed is returned when a job is submitted after Close.
	ErrClosed = errors.New("delegate: closed")
	// ErrQueueFull indicates the chat's queue is saturated and the job was not accepted.
	ErrQueueFull = errors.New("delegate: queue full")
)

// Job is the unit of work executed inside a chat loop.
type Job func(ctx context.Context) error

// Options controls the behaviour of the Delegator.
type Options struct {
	// QueueSize bounds pending jobs per chat.
	QueueSize int
	// IdleTimeout is how long a loop waits for work before exiting.
	IdleTimeout time.Duration
	// OnIdle is called after a chat loop exits because of inactivity.
	OnIdle func(chatID int64)
	// OnError is called with every error returned by a job.
	OnError func(ctx context.Context, chatID int64, action string, err error)
}

type task struct {
	ctx    context.Context
	action string
	run    Job
}

type loop struct {
	chatID int64
	jobs   chan task
}

// Delegator owns the per-chat loops.
type Delegator struct {
	opts Options

	mu     sync.Mutex
	loops  map[int64]*loop
	closed bool

	wg   sync.WaitGroup
	errs atomic.Uint64
}

// New creates a Delegator with defaults for zeroed options.
func New(opts Options) *Delegator {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 16
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 20 * time.Minute
	}
	return &Delegator{
		opts:  opts,
		loops: make(map[int64]*loop),
	}
}

// Submit queues run for chatID, starting the chat loop if needed.
// It never blocks: a saturated chat queue yields ErrQueueFull.
func (d *Delegator) Submit(ctx context.Context, chatID int64, action string, run Job) error {
	if run == nil {
		return errors.New("delegate: nil job")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}

	l, ok := d.loops[chatID]
	if !ok {
		l = &loop{chatID: chatID, jobs: make(chan task, d.opts.QueueSize)}
		d.loops[chatID] = l
		d.wg.Add(1)
		go d.run(l)
		logger.Loop.LogAttrs(ctx, slog.LevelDebug, "loop.start",
			slog.Int64("chat_id", chatID),
			slog.Int("loops", len(d.loops)),
		)
	}

	select {
	case l.jobs <- task{ctx: ctx, action: action, run: run}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Active reports the number of running chat loops.
func (d *Delegator) Active() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.loops)
}

// ErrorCount returns the number of failed jobs.
func (d *Delegator) ErrorCount() uint64 {
	return d.errs.Load()
}

// Close stops accepting jobs, lets every loop drain its queue and waits for them.
func (d *Delegator) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, l := range d.loops {
		close(l.jobs)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Delegator) run(l *loop) {
	defer d.wg.Done()

	timer := time.NewTimer(d.opts.IdleTimeout)
	defer timer.Stop()

	for {
		select {
		case t, ok := <-l.jobs:
			if !ok {
				return
			}
			d.execute(l.chatID, t)
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(d.opts.IdleTimeout)
		case <-timer.C:
			if d.retire(l) {
				logger.Loop.LogAttrs(context.Background(), slog.LevelDebug, "loop.idle",
					slog.Int64("chat_id", l.chatID),
					slog.Duration("idle", d.opts.IdleTimeout),
				)
				if d.opts.OnIdle != nil {
					d.opts.OnIdle(l.chatID)
				}
				return
			}
			timer.Reset(d.opts.IdleTimeout)
		}
	}
}

// retire unregisters l unless work arrived meanwhile. Submit holds the same
// lock while enqueueing, so no job can be lost between the check and delete.
func (d *Delegator) retire(l *loop) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || len(l.jobs) > 0 {
		return false
	}
	delete(d.loops, l.chatID)
	return true
}

func (d *Delegator) execute(chatID int64, t task) {
	start := time.Now()
	err := d.safeRun(t)
	if err == nil {
		logger.Debug(t.ctx, "tg.loop", "job.done",
			slog.String("action", t.action),
			slog.Int64("chat_id", chatID),
			slog.Duration("duration", time.Since(start)),
		)
		return
	}

	d.errs.Add(1)
	level := slog.LevelError
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		level = slog.LevelWarn
	}
	logger.Event(t.ctx, "tg.loop", level, "job.fail",
		slog.String("action", t.action),
		slog.Int64("chat_id", chatID),
		slog.String("err", SanitizeError(err)),
		slog.String("error_kind", ClassifyError(err)),
		slog.Duration("duration", time.Since(start)),
	)
	if d.opts.OnError != nil {
		d.opts.OnError(t.ctx, chatID, t.action, err)
	}
}

func (d *Delegator) safeRun(t task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Loop.LogAttrs(t.ctx, slog.LevelError, "job.panic",
				slog.String("action", t.action),
				slog.Any("err", r),
				slog.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("delegate: panic in %s: %v", t.action, r)
		}
	}()
	return t.run(t.ctx)
}
