package notify

import "github.com/vietddude/tokensend/internal/metrics"

// ChanSink buffers notifications for a single consumer such as the terminal UI.
// When the buffer is full new notifications are dropped.
type ChanSink struct {
	ch chan Notification
}

func NewChanSink(size int) *ChanSink {
	if size <= 0 {
		size = 16
	}
	return &ChanSink{ch: make(chan Notification, size)}
}

func (s *ChanSink) Notify(n Notification) {
	select {
	case s.ch <- n:
	default:
		metrics.NotificationsDropped.WithLabelValues("chan").Inc()
	}
}

// C exposes the receive side.
func (s *ChanSink) C() <-chan Notification {
	return s.ch
}
