package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TimeAuthority reads the Redis server clock (TIME command) so question
// timing does not trust the machine running the session. On any error it
// falls back to the local clock; that degrades anti-manipulation strength but
// never game logic.
type TimeAuthority struct {
	client   *redis.Client
	fallback func() time.Time
}

func NewTimeAuthority(client *redis.Client) *TimeAuthority {
	return &TimeAuthority{client: client, fallback: time.Now}
}

func (a *TimeAuthority) Now(ctx context.Context) time.Time {
	t, err := a.client.Time(ctx).Result()
	if err != nil {
		return a.fallback()
	}
	return t
}
