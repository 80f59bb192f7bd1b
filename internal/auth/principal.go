package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"taskdeck.dev/internal/store"
)

// Principal is the resolved identity bound to a request after successful
// authentication. Downstream handlers use it for every ownership decision.
type Principal struct {
	ID       uuid.UUID
	Username string
}

// ResolvePrincipal loads the credential record by id and maps it to a
// principal. Tokens carry the user id, but the record is re-resolved on every
// request so deleted accounts are rejected immediately.
func ResolvePrincipal(ctx context.Context, users store.UserStore, id uuid.UUID) (Principal, error) {
	u, err := users.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Principal{}, ErrNotFound
		}
		return Principal{}, err
	}
	return Principal{ID: u.ID, Username: u.Username}, nil
}
