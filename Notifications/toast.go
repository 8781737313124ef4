package Notifications

import (
	"sync"
	"time"
)

type Status string

const (
	Success Status = "success"
	Error   Status = "error"
	Info    Status = "info"
)

type Toast struct {
	Message string
	Status  Status
	Expires time.Time
}

// Board queues toasts for one browser session until they are shown or time
// out.
type Board struct {
	timeout time.Duration
	now     func() time.Time

	mu     sync.Mutex
	toasts []Toast
}

func NewBoard(timeout time.Duration) *Board {
	return &Board{timeout: timeout, now: time.Now}
}

func (b *Board) Push(message string, status Status) {
	b.mu.Lock()
	b.toasts = append(b.toasts, Toast{Message: message, Status: status, Expires: b.now().Add(b.timeout)})
	b.mu.Unlock()
}

// Drain returns the pending toasts that have not timed out and empties the
// board. Each toast is rendered at most once.
func (b *Board) Drain() []Toast {
	now := b.now()

	b.mu.Lock()
	pending := b.toasts
	b.toasts = nil
	b.mu.Unlock()

	live := pending[:0]
	for _, toast := range pending {
		if now.Before(toast.Expires) {
			live = append(live, toast)
		}
	}
	return live
}

// TimeoutMillis is the dismiss delay handed to the page script.
func (b *Board) TimeoutMillis() int64 {
	return b.timeout.Milliseconds()
}
