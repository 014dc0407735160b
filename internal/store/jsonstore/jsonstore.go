package jsonstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// JSON-backed receipts of past submissions. Single file, human-readable.
// Only the form id and outcome are kept, never what was typed.
// No locking; one CLI process writes at a time.

// Receipt records one submission attempt.
type Receipt struct {
	ID      string    `json:"id"`
	FormID  string    `json:"form_id"`
	SentAt  time.Time `json:"sent_at"`
	OK      bool      `json:"ok"`
	Message string    `json:"message,omitempty"`
}

// NewReceipt stamps an attempt with a fresh id and the current time.
func NewReceipt(formID string, ok bool, message string) Receipt {
	return Receipt{
		ID:      uuid.NewString(),
		FormID:  formID,
		SentAt:  time.Now().UTC(),
		OK:      ok,
		Message: message,
	}
}

// Store reads and writes one receipts file.
type Store struct {
	path string
}

func New(path string) *Store { return &Store{path: path} }

func (s *Store) Path() string { return s.path }

func (s *Store) Load() ([]Receipt, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Receipt{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var receipts []Receipt
	if err := json.Unmarshal(b, &receipts); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return receipts, nil
}

func (s *Store) Save(receipts []Receipt) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(receipts, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o600); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// Append adds r to the end of the file.
func (s *Store) Append(r Receipt) error {
	receipts, err := s.Load()
	if err != nil {
		return err
	}
	return s.Save(append(receipts, r))
}
