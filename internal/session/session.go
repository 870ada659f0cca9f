// Package session holds the state shared by every command of one shell run.
package session

import (
	"errors"
	"path/filepath"
	"sync"

	"fileshell/internal/history"
	"fileshell/internal/storage"
)

// ConfirmFunc asks the user a yes/no question.
type ConfirmFunc func(prompt string) (bool, error)

// ErrNoConfirm is returned by Confirm when no ConfirmFunc was injected.
var ErrNoConfirm = errors.New("no confirmation available")

type Session struct {
	History *history.Store
	Confirm ConfirmFunc

	mu  sync.RWMutex
	dir string
}

func New(dir string, store *history.Store, confirm ConfirmFunc) *Session {
	return &Session{History: store, Confirm: confirm, dir: filepath.Clean(dir)}
}

// Dir is the working directory relative paths are resolved against.
func (s *Session) Dir() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dir
}

func (s *Session) SetDir(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dir = filepath.Clean(dir)
}

// Resolve makes userPath absolute against the working directory.
func (s *Session) Resolve(userPath string) string {
	return storage.Resolve(s.Dir(), userPath)
}

// AskConfirm runs the injected confirm function. A missing function never confirms.
func (s *Session) AskConfirm(prompt string) (bool, error) {
	if s.Confirm == nil {
		return false, ErrNoConfirm
	}
	return s.Confirm(prompt)
}
