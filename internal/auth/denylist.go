package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistKeyPrefix = "grimoire:denylist:"

// Denylist is a Redis-backed store of revoked tokens. Logging out adds the
// presented token until its natural expiry; the auth middleware rejects any
// token found here. Tokens are otherwise stateless.
type Denylist struct {
	client *redis.Client
}

// NewDenylist creates a denylist backed by the given Redis address.
func NewDenylist(addr string) (*Denylist, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Denylist{client: client}, nil
}

// NewDenylistWithClient creates a denylist with an existing client (for testing).
func NewDenylistWithClient(client *redis.Client) *Denylist {
	return &Denylist{client: client}
}

// Close closes the underlying Redis connection.
func (d *Denylist) Close() error {
	return d.client.Close()
}

// Revoke marks a token as revoked until expiresAt. Tokens already past their
// expiry need no entry; ParseToken rejects them anyway.
func (d *Denylist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, denylistKeyPrefix+token, "1", ttl).Err()
}

// IsRevoked reports whether a token has been revoked.
func (d *Denylist) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := d.client.Exists(ctx, denylistKeyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
