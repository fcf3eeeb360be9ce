package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mordensafety/admin-console/internal/core/domain"
)

// scriptedNotifications returns counts from a script, repeating the last one.
type scriptedNotifications struct {
	mu     sync.Mutex
	script []result
	calls  int
}

type result struct {
	count int
	err   error
}

func (s *scriptedNotifications) UnreadCount(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	if i >= len(s.script) {
		i = len(s.script) - 1
	}
	s.calls++
	return s.script[i].count, s.script[i].err
}

func (s *scriptedNotifications) List(context.Context) (*domain.NotificationList, error) {
	return &domain.NotificationList{}, nil
}

func (s *scriptedNotifications) MarkRead(context.Context, domain.ID) error { return nil }

func (s *scriptedNotifications) MarkAllRead(context.Context) (int, error) { return 0, nil }

func (s *scriptedNotifications) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func receive(t *testing.T, ch <-chan int) int {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed")
		}
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for unread count")
	}
	return 0
}

func TestPoller_PublishesOnlyOnChange(t *testing.T) {
	svc := &scriptedNotifications{script: []result{
		{count: 2}, {count: 2}, {err: errors.New("boom")}, {count: 2}, {count: 5},
	}}
	p := NewPoller(svc, time.Hour, zerolog.Nop())
	updates := p.Subscribe()
	ctx := context.Background()

	want := []struct {
		published bool
		value     int
	}{{true, 2}, {false, 0}, {false, 0}, {false, 0}, {true, 5}}

	for i, w := range want {
		_ = p.poll(ctx)
		select {
		case got := <-updates:
			if !w.published || got != w.value {
				t.Fatalf("poll %d: got update %d, want published=%v value=%d", i, got, w.published, w.value)
			}
		default:
			if w.published {
				t.Fatalf("poll %d: expected update %d", i, w.value)
			}
		}
	}
	if n, ok := p.Unread(); !ok || n != 5 {
		t.Fatalf("Unread() = %d, %v; want 5, true", n, ok)
	}
}

func TestPoller_RunClosesSubscribersOnCancel(t *testing.T) {
	svc := &scriptedNotifications{script: []result{{count: 1}}}
	p := NewPoller(svc, time.Millisecond, zerolog.Nop())
	updates := p.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	if got := receive(t, updates); got != 1 {
		t.Fatalf("update = %d, want 1", got)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned %v after cancel, want nil", err)
	}
	if _, ok := <-updates; ok {
		t.Fatalf("subscriber channel should be closed after Run returns")
	}
}

func TestPoller_StopsWhenSessionExpires(t *testing.T) {
	expired := &domain.HTTPError{Method: "GET", Path: "/api/notifications", Status: 401, SessionExpired: true}
	svc := &scriptedNotifications{script: []result{{count: 1}, {err: expired}}}
	p := NewPoller(svc, time.Millisecond, zerolog.Nop())

	err := p.Run(context.Background())
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("Run error = %v, want ErrSessionExpired", err)
	}
	if calls := svc.callCount(); calls != 2 {
		t.Fatalf("UnreadCount called %d times, want 2", calls)
	}
}

func TestPoller_LateSubscriberGetsCurrentCount(t *testing.T) {
	svc := &scriptedNotifications{script: []result{{count: 3}}}
	p := NewPoller(svc, time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	first := p.Subscribe()
	go func() { _ = p.Run(ctx) }()
	receive(t, first)

	if got := receive(t, p.Subscribe()); got != 3 {
		t.Fatalf("late subscriber got %d, want 3", got)
	}
}

func TestNewPoller_DefaultInterval(t *testing.T) {
	p := NewPoller(&scriptedNotifications{script: []result{{}}}, 0, zerolog.Nop())
	if p.interval != defaultInterval {
		t.Fatalf("interval = %v, want %v", p.interval, defaultInterval)
	}
}
