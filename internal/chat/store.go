package chat

import (
	"strings"
	"sync"
	"time"
)

// Speaker identifies who produced an utterance.
type Speaker string

const (
	SpeakerChild   Speaker = "child"
	SpeakerGrandpa Speaker = "grandpa"
)

// Utterance is one immutable conversational turn entry.
type Utterance struct {
	Speaker Speaker   `json:"role"`
	Text    string    `json:"message"`
	At      time.Time `json:"at"`
}

// Store is the append-only conversation log. A single instance is shared
// by all requests; the mutex keeps the slice internally consistent but
// concurrent turns still interleave in arrival order.
type Store struct {
	mu  sync.RWMutex
	log []Utterance
}

func NewStore() *Store {
	return &Store{}
}

// Append adds one utterance. Empty text is dropped, the only validation
// the log performs.
func (s *Store) Append(speaker Speaker, text string) (Utterance, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Utterance{}, false
	}
	u := Utterance{Speaker: speaker, Text: text, At: time.Now().UTC()}
	s.mu.Lock()
	s.log = append(s.log, u)
	s.mu.Unlock()
	return u, true
}

// Window returns the last k utterances in chronological order, fewer when
// the log is shorter.
func (s *Store) Window(k int) []Utterance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if k <= 0 {
		return nil
	}
	start := len(s.log) - k
	if start < 0 {
		start = 0
	}
	out := make([]Utterance, len(s.log)-start)
	copy(out, s.log[start:])
	return out
}

// All returns a copy of the full log.
func (s *Store) All() []Utterance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Utterance, len(s.log))
	copy(out, s.log)
	return out
}

// Reset clears the log. Idempotent.
func (s *Store) Reset() {
	s.mu.Lock()
	s.log = nil
	s.mu.Unlock()
}

// Len reports the current log length.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.log)
}
