package drafts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// DefaultTTL is how long an unclaimed draft is kept.
const DefaultTTL = 10 * time.Minute

// ErrNotFound reports an unknown, expired or already taken token.
var ErrNotFound = errors.New("drafts: draft not found")

// Store keeps drafts until they are taken.
type Store interface {
	// Put stores schema and returns the token that retrieves it.
	Put(ctx context.Context, schema model.FormSchema) (string, error)
	// Take returns the draft and removes it.
	Take(ctx context.Context, token string) (model.FormSchema, error)
}

func newToken() string {
	return uuid.NewString()
}
