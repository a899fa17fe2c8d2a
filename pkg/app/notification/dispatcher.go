package notification

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	domain "github.com/ContentGuard/ModGate/pkg/domain/moderation"
	"github.com/ContentGuard/ModGate/pkg/infra/metrics"
)

const (
	DefaultQueueSize   = 256
	DefaultWorkerCount = 4
	DefaultSendTimeout = 10 * time.Second
)

// DispatcherConfig tunes the async fan-out. Zero fields use defaults.
type DispatcherConfig struct {
	QueueSize   int
	WorkerCount int
	SendTimeout time.Duration
}

// Dispatcher fans flagged verdicts out to the configured channels. Delivery
// is fire-and-forget from the pipeline's point of view: jobs are handed off
// without blocking and failures never propagate back to the submitter.
type Dispatcher struct {
	logger   *logrus.Logger
	repo     domain.Repository
	channels []Channel
	cfg      DispatcherConfig

	jobs chan Job
	done chan struct{}
	wg   sync.WaitGroup

	mu      sync.Mutex
	started bool
	stopped bool
}

func NewDispatcher(logger *logrus.Logger, repo domain.Repository, channels []Channel, cfg DispatcherConfig) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = DefaultSendTimeout
	}
	return &Dispatcher{
		logger:   logger,
		repo:     repo,
		channels: channels,
		cfg:      cfg,
		jobs:     make(chan Job, cfg.QueueSize),
		done:     make(chan struct{}),
	}
}

// Start launches the worker goroutines. Idempotent.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.stopped {
		return
	}
	d.started = true
	for i := 0; i < d.cfg.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

// Enqueue hands a job to the workers without blocking. Returns false when
// the queue is full or the dispatcher is stopped; the job is dropped.
func (d *Dispatcher) Enqueue(job Job) bool {
	d.mu.Lock()
	if d.stopped || !d.started {
		d.mu.Unlock()
		metrics.DispatchDroppedTotal.Inc()
		return false
	}
	d.mu.Unlock()

	select {
	case d.jobs <- job:
		return true
	default:
		metrics.DispatchDroppedTotal.Inc()
		d.logger.WithField("request_id", job.RequestID).Warn("notification queue full, dropping job")
		return false
	}
}

// Stop drains queued jobs and waits for in-flight sends to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	started := d.started
	d.mu.Unlock()

	close(d.done)
	if started {
		d.wg.Wait()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case job := <-d.jobs:
			d.dispatch(job)
		case <-d.done:
			// Drain what is already queued before exiting.
			for {
				select {
				case job := <-d.jobs:
					d.dispatch(job)
				default:
					return
				}
			}
		}
	}
}

// dispatch delivers one job to every channel. Channels are independent: one
// failing never prevents the others from being attempted.
func (d *Dispatcher) dispatch(job Job) {
	if job.Classification == domain.ClassificationSafe {
		return
	}

	msg := &Message{
		RequestID:      job.RequestID,
		Submitter:      job.Submitter,
		Classification: job.Classification,
		ContentKind:    job.ContentKind,
		ContentPreview: job.ContentPreview,
		Confidence:     job.Confidence,
		Reasoning:      job.Reasoning,
	}

	for _, channel := range d.channels {
		d.send(channel, job, msg)
	}
}

func (d *Dispatcher) send(channel Channel, job Job, msg *Message) {
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.SendTimeout)
	defer cancel()

	log := d.logger.WithFields(logrus.Fields{
		"request_id": job.RequestID,
		"channel":    channel.Name(),
	})

	attempt := &domain.NotificationAttempt{
		RequestID: job.RequestID,
		Channel:   channel.Name(),
	}

	if err := channel.Send(ctx, msg); err != nil {
		log.WithError(err).Error("notification send failed")
		metrics.NotificationsTotal.WithLabelValues(string(channel.Name()), string(domain.NotificationOutcomeFailed)).Inc()
		attempt.Outcome = domain.NotificationOutcomeFailed
		attempt.ErrorDetail = err.Error()
	} else {
		metrics.NotificationsTotal.WithLabelValues(string(channel.Name()), string(domain.NotificationOutcomeSent)).Inc()
		attempt.Outcome = domain.NotificationOutcomeSent
		sentAt := job.RequestCreatedAt
		attempt.SentAt = &sentAt
	}

	recordCtx, recordCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer recordCancel()
	if err := d.repo.RecordNotification(recordCtx, attempt); err != nil {
		log.WithError(err).Error("failed to record notification attempt")
	}
}
