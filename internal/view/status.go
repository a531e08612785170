package view

import "sync"

// StatusLine is the single transient status surface. Sessions write their
// progress and validation prompts here; the gateway reads the latest line.
type StatusLine struct {
	mu      sync.Mutex
	message string
}

func NewStatusLine() *StatusLine {
	return &StatusLine{}
}

// Status implements ports.StatusSink.
func (s *StatusLine) Status(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

func (s *StatusLine) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}
