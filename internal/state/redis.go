package state

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"news/aggregator/internal/domain"
)

type redisStore struct {
	redisClient *redis.Client
	key         string
}

// NewRedisStore keeps preferences in the hash news:prefs:<profile>.
func NewRedisStore(redisClient *redis.Client, profile string) PreferencesStore {
	if profile == "" {
		profile = "default"
	}
	return &redisStore{
		redisClient: redisClient,
		key:         "news:prefs:" + profile,
	}
}

func (s *redisStore) Load(ctx context.Context) (domain.Preferences, error) {
	values, err := s.redisClient.HGetAll(ctx, s.key).Result()
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("failed to load preferences from %s: %w", s.key, err)
	}
	if len(values) == 0 {
		return domain.Preferences{}, ErrNotFound
	}

	// Values are opaque strings; anything unparsable is left at zero and
	// normalized by the caller.
	version, _ := strconv.Atoi(values["version"])
	page, _ := strconv.Atoi(values["page"])

	return domain.Preferences{
		Version:  version,
		Category: domain.Category(values["category"]),
		Search:   values["search"],
		Page:     page,
	}, nil
}

func (s *redisStore) Save(ctx context.Context, prefs domain.Preferences) error {
	err := s.redisClient.HSet(ctx, s.key,
		"version", strconv.Itoa(prefs.Version),
		"category", prefs.Category.String(),
		"search", prefs.Search,
		"page", strconv.Itoa(prefs.Page),
	).Err() // No expiration
	if err != nil {
		return fmt.Errorf("failed to save preferences to %s: %w", s.key, err)
	}
	return nil
}
