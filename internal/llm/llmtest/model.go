// Package llmtest provides a scripted llm.Model for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/Lllllllleong/lecturesummary/internal/llm"
)

// Handler answers the n-th call (0-based).
type Handler func(n int, req llm.Request) (string, error)

// Model records every request and answers with a Handler.
type Model struct {
	mu      sync.Mutex
	handler Handler
	calls   []llm.Request
}

// New returns a Model backed by h.
func New(h Handler) *Model {
	return &Model{handler: h}
}

// Failing returns a Model whose every call fails with err.
func Failing(err error) *Model {
	return New(func(int, llm.Request) (string, error) { return "", err })
}

// Replies returns a Model that answers calls in order and repeats the last
// reply once the list is exhausted.
func Replies(replies ...string) *Model {
	return New(func(n int, _ llm.Request) (string, error) {
		if len(replies) == 0 {
			return "", nil
		}
		if n >= len(replies) {
			n = len(replies) - 1
		}
		return replies[n], nil
	})
}

func (m *Model) Generate(ctx context.Context, req llm.Request) (string, error) {
	m.mu.Lock()
	n := len(m.calls)
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.handler(n, req)
}

// Calls returns a copy of the recorded requests.
func (m *Model) Calls() []llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]llm.Request, len(m.calls))
	copy(out, m.calls)
	return out
}
