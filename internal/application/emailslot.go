package application

import (
	"sync"

	"github.com/ericfisherdev/maildraft/internal/domain/model"
)

// EmailSlot holds the single current GeneratedEmail. Replace swaps the whole
// value under a write lock so readers never observe a partially updated email.
type EmailSlot struct {
	mu      sync.RWMutex
	email   model.GeneratedEmail
	present bool
}

// NewEmailSlot creates an empty slot.
func NewEmailSlot() *EmailSlot {
	return &EmailSlot{}
}

// Get returns the current email and whether one has been generated yet.
func (s *EmailSlot) Get() (model.GeneratedEmail, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email, s.present
}

// Replace makes email the current one. The previous email is discarded.
func (s *EmailSlot) Replace(email model.GeneratedEmail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.email = email
	s.present = true
}
