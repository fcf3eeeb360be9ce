package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mordensafety/admin-console/internal/api/metrics"
	"github.com/mordensafety/admin-console/internal/core/domain"
	"github.com/mordensafety/admin-console/internal/core/ports"
)

const (
	defaultInterval = 30 * time.Second
	channelBuffer   = 1
)

// Poller periodically asks the backend for the unread notification count and
// publishes it to subscribers whenever it changes.
type Poller struct {
	service  ports.NotificationService
	interval time.Duration
	log      zerolog.Logger

	mu     sync.Mutex
	subs   []chan int
	last   int
	seen   bool
	closed bool
}

// NewPoller creates a Poller. If interval <= 0, defaultInterval is used.
func NewPoller(service ports.NotificationService, interval time.Duration, log zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		service:  service,
		interval: interval,
		log:      log.With().Str("component", "poller").Logger(),
	}
}

// Subscribe returns a channel that receives the unread count on every change.
// Slow readers only ever see the most recent count. The channel is closed
// when Run returns.
func (p *Poller) Subscribe() <-chan int {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan int, channelBuffer)
	if p.closed {
		close(ch)
		return ch
	}
	if p.seen {
		ch <- p.last
	}
	p.subs = append(p.subs, ch)
	return ch
}

// Unread returns the count from the last successful poll, if any.
func (p *Poller) Unread() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last, p.seen
}

// Run polls immediately and then every interval until ctx is cancelled or the
// session expires. Failed polls are logged and retried on the next tick.
func (p *Poller) Run(ctx context.Context) error {
	defer p.closeSubscribers()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if err := p.poll(ctx); err != nil {
			if errors.Is(err, domain.ErrSessionExpired) {
				return err
			}
			if ctx.Err() != nil {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (p *Poller) poll(ctx context.Context) error {
	count, err := p.service.UnreadCount(ctx)
	if err != nil {
		if ctx.Err() == nil {
			metrics.NotificationPollErrorsTotal.Inc()
			p.log.Error().Err(err).Msg("notification poll failed")
		}
		return err
	}

	metrics.NotificationsUnread.Set(float64(count))
	p.publish(count)
	return nil
}

func (p *Poller) publish(count int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.seen && p.last == count {
		return
	}
	p.last, p.seen = count, true
	p.log.Debug().Int("unread", count).Msg("unread count changed")

	for _, ch := range p.subs {
		// drop the stale value so the newest count always fits
		select {
		case <-ch:
		default:
		}
		ch <- count
	}
}

func (p *Poller) closeSubscribers() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ch := range p.subs {
		close(ch)
	}
	p.subs = nil
	p.closed = true
}
