package transcript

import (
	"context"
	"strings"
)

// NewArchive creates a postgres-backed archive when configured, otherwise
// a no-op one.
func NewArchive(ctx context.Context, databaseURL string) (Archive, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return NewNoopArchive(), nil
	}
	return NewPostgresArchive(ctx, databaseURL)
}
