package pubsub

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// ListenCmd returns a command that waits for the next event on ch and
// delivers it as a tea.Msg. The command yields nil once ctx is cancelled or
// ch is closed, which ends the listen loop.
func ListenCmd[T any](ctx context.Context, ch <-chan Event[T]) tea.Cmd {
	return MapCmd(ctx, ch, func(e Event[T]) tea.Msg { return e })
}

// MapCmd is ListenCmd with the event converted by fn, so models can switch on
// their own message types instead of Event[T].
func MapCmd[T any](ctx context.Context, ch <-chan Event[T], fn func(Event[T]) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			return fn(event)
		}
	}
}

// ContinuousListener keeps one subscription open across Update calls.
// Call Listen again after handling each event to keep receiving.
type ContinuousListener[T any] struct {
	ctx context.Context
	ch  <-chan Event[T]
	fn  func(Event[T]) tea.Msg
}

// NewContinuousListener subscribes to sub for the lifetime of ctx.
func NewContinuousListener[T any](ctx context.Context, sub Subscriber[T]) *ContinuousListener[T] {
	return &ContinuousListener[T]{
		ctx: ctx,
		ch:  sub.Subscribe(ctx),
		fn:  func(e Event[T]) tea.Msg { return e },
	}
}

// NewMappedListener is NewContinuousListener with events converted by fn.
func NewMappedListener[T any](ctx context.Context, sub Subscriber[T], fn func(Event[T]) tea.Msg) *ContinuousListener[T] {
	l := NewContinuousListener(ctx, sub)
	l.fn = fn
	return l
}

// Listen returns a command that waits for the next event.
func (l *ContinuousListener[T]) Listen() tea.Cmd {
	return MapCmd(l.ctx, l.ch, l.fn)
}
