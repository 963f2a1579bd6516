package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// LivenessStore marks which level a team is currently playing. Markers are
// best-effort with a TTL so abandoned sessions expire on their own; failures
// never block game flow.
type LivenessStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLivenessStore(client *redis.Client, ttl time.Duration) *LivenessStore {
	return &LivenessStore{client: client, ttl: ttl}
}

func (s *LivenessStore) MarkLevelActive(teamID string, levelNumber int) {
	_ = s.client.Set(context.Background(), s.key(teamID), strconv.Itoa(levelNumber), s.ttl).Err()
}

func (s *LivenessStore) ClearLevelActive(teamID string) {
	_ = s.client.Del(context.Background(), s.key(teamID)).Err()
}

func (s *LivenessStore) key(teamID string) string {
	return "game:active:" + teamID
}
