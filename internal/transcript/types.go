package transcript

import (
	"context"
	"time"
)

// Entry is one archived utterance.
type Entry struct {
	ID        string    `json:"id"`
	TurnID    string    `json:"turn_id"`
	Speaker   string    `json:"speaker"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Archive is a durable, write-behind mirror of the conversation log used
// for audit and debugging. The in-process log stays authoritative; archive
// failures never fail a turn.
type Archive interface {
	Record(ctx context.Context, entry Entry) error
	Clear(ctx context.Context) error
	Close() error
}
