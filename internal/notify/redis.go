package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/vietddude/tokensend/internal/metrics"
)

// Publisher is the part of the redis client the sink needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) (int64, error)
}

// RedisSink publishes notifications as JSON on a Redis channel.
// Publishing happens on a background goroutine fed by a bounded queue.
type RedisSink struct {
	pub     Publisher
	channel string
	queue   chan Notification
	done    chan struct{}
	timeout time.Duration
	log     *slog.Logger

	mu     sync.RWMutex
	closed bool
}

func NewRedisSink(pub Publisher, channel string) *RedisSink {
	s := &RedisSink{
		pub:     pub,
		channel: channel,
		queue:   make(chan Notification, 64),
		done:    make(chan struct{}),
		timeout: 3 * time.Second,
		log:     slog.Default().With("component", "notify.redis"),
	}
	go s.run()
	return s
}

// Notify enqueues n. After Close it drops n.
func (s *RedisSink) Notify(n Notification) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		metrics.NotificationsDropped.WithLabelValues("redis").Inc()
		return
	}
	select {
	case s.queue <- n:
	default:
		metrics.NotificationsDropped.WithLabelValues("redis").Inc()
	}
}

// Close drains queued notifications and stops the publisher goroutine.
// It is safe to call more than once.
func (s *RedisSink) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()
	<-s.done
}

func (s *RedisSink) run() {
	defer close(s.done)
	for n := range s.queue {
		payload, err := json.Marshal(n)
		if err != nil {
			s.log.Warn("marshal notification failed", "error", err)
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		if _, err := s.pub.Publish(ctx, s.channel, payload); err != nil {
			metrics.NotificationsDropped.WithLabelValues("redis").Inc()
			s.log.Warn("publish notification failed", "error", err)
		}
		cancel()
	}
}
