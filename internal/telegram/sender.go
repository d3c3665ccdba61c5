package telegram

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	tele "gopkg.in/telebot.v4"

	"tourbot/internal/logger"
)

var (
	// ErrQueueClosed is returned when enqueue is attempted after the
	// dispatcher stopped.
	ErrQueueClosed = errors.New("telegram sender: queue closed")
	// ErrQueueFull indicates the queue is saturated and the job was
	// not accepted.
	ErrQueueFull = errors.New("telegram sender: queue full")
)

// SenderOptions controls the behaviour of the outbound dispatcher.
type SenderOptions struct {
	QueueSize    int
	Workers      int
	MaxRetries   int
	RetryBackoff time.Duration
	// MaxDuration bounds the time spent retrying a single job.
	MaxDuration time.Duration
}

type senderJob struct {
	ctx    context.Context
	action string
	run    func() error
}

// Dispatcher executes outbound Telegram calls asynchronously with
// retries. It is the channel for best-effort sends: a failed job is
// logged and counted, never propagated back to the handler that
// enqueued it.
type Dispatcher struct {
	opts SenderOptions
	jobs chan senderJob
	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
	errs atomic.Uint64
}

// NewDispatcher starts a dispatcher with sane defaults for zeroed
// options.
func NewDispatcher(opts SenderOptions) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 2 * time.Second
	}
	if opts.MaxDuration <= 0 {
		opts.MaxDuration = 12 * time.Second
	}

	d := &Dispatcher{
		opts: opts,
		jobs: make(chan senderJob, opts.QueueSize),
		stop: make(chan struct{}),
	}
	d.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go d.worker()
	}
	return d
}

// Enqueue schedules the function for asynchronous execution. The run
// closure must be idempotent if retries are desired.
func (d *Dispatcher) Enqueue(ctx context.Context, action string, run func() error) error {
	if run == nil {
		return errors.New("telegram sender: nil run function")
	}
	select {
	case <-d.stop:
		return ErrQueueClosed
	default:
	}

	j := senderJob{ctx: ctx, action: action, run: run}
	select {
	case d.jobs <- j:
		return nil
	default:
		return ErrQueueFull
	}
}

// ErrorCount returns the number of jobs that exhausted their retries.
func (d *Dispatcher) ErrorCount() uint64 {
	return d.errs.Load()
}

// Close stops the workers after draining queued jobs.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.stop)
		close(d.jobs)
		d.wg.Wait()
	})
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.jobs {
		d.handle(j)
	}
}

func (d *Dispatcher) handle(j senderJob) {
	ctx := j.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	deadline, cancel := context.WithTimeout(ctx, d.opts.MaxDuration)
	defer cancel()

	start := time.Now()
	attempts := d.opts.MaxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := deadline.Err(); err != nil {
			lastErr = err
			break
		}
		err := j.run()
		if err == nil {
			logger.Debug(ctx, "tg.sender", "send.success",
				slog.String("action", j.action),
				slog.Int("attempt", attempt),
				slog.Int64("elapsed_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
			)
			return
		}
		lastErr = err
		if !shouldRetry(err) || attempt == attempts {
			break
		}

		delay := d.opts.RetryBackoff * time.Duration(attempt)
		timer := time.NewTimer(delay)
		select {
		case <-deadline.Done():
			timer.Stop()
			lastErr = deadline.Err()
		case <-timer.C:
		}
	}

	d.errs.Add(1)
	logger.Error(ctx, "tg.sender", "send.fail",
		slog.String("action", j.action),
		slog.String("err", logger.SanitizeLimit(lastErr.Error(), 256)),
		slog.Int("attempts", attempts),
		slog.Int64("elapsed_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	)
}

// shouldRetry reports whether the error looks transient: network
// timeouts, dial failures and Telegram flood errors.
func shouldRetry(err error) bool {
	if err == nil {
		return false
	}

	var floodErr tele.FloodError
	if errors.As(err, &floodErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() || opErr.Op == "dial" {
			return true
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		if urlErr.Err != nil && !errors.Is(urlErr.Err, err) {
			return shouldRetry(urlErr.Err)
		}
	}

	return false
}
