// Package notify delivers user-facing notifications without blocking the caller.
package notify

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Level is the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a single toast-style message.
type Notification struct {
	ID          string    `json:"id"`
	Level       Level     `json:"level"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Time        time.Time `json:"time"`
}

// New stamps a notification with an id and the current time.
func New(level Level, title, description string) Notification {
	return Notification{
		ID:          uuid.NewString(),
		Level:       level,
		Title:       title,
		Description: description,
		Time:        time.Now(),
	}
}

// Sink receives notifications. Notify must not block.
type Sink interface {
	Notify(n Notification)
}

// Info, Success and Error are shorthands for New + Notify.
func Info(s Sink, title, description string) { s.Notify(New(LevelInfo, title, description)) }

func Success(s Sink, title, description string) { s.Notify(New(LevelSuccess, title, description)) }

func Error(s Sink, title, description string) { s.Notify(New(LevelError, title, description)) }

// Multi fans a notification out to several sinks.
type Multi []Sink

func (m Multi) Notify(n Notification) {
	for _, s := range m {
		if s != nil {
			s.Notify(n)
		}
	}
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Notify(Notification) {}

// LogSink writes notifications to a structured logger.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Notify(n Notification) {
	log := s.Logger
	if log == nil {
		log = slog.Default()
	}
	attrs := []any{"id", n.ID}
	if n.Description != "" {
		attrs = append(attrs, "description", n.Description)
	}
	switch n.Level {
	case LevelError:
		log.Error(n.Title, attrs...)
	default:
		log.Info(n.Title, append(attrs, "level", string(n.Level))...)
	}
}
