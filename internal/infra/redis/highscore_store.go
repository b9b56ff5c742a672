package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"timed-quiz-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

// putIfBetter compares and writes in one server-side step so instances
// sharing the hash cannot overwrite a higher score.
//
//	KEYS[1] hash, ARGV[1] username, ARGV[2] entry JSON, ARGV[3] score
var putIfBetter = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], ARGV[1])
if current then
	local existing = cjson.decode(current)
	if tonumber(ARGV[3]) <= tonumber(existing.score) then
		return 0
	end
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
return 1
`)

// HighscoreStore keeps one hash per category:
//
//	HSET highscores:{category} {username} {entry JSON}
type HighscoreStore struct {
	client *redis.Client
}

func NewHighscoreStore(client *redis.Client) *HighscoreStore {
	return &HighscoreStore{client: client}
}

func (s *HighscoreStore) List(ctx context.Context, category string) ([]domain.HighscoreEntry, error) {
	raw, err := s.client.HGetAll(ctx, s.key(category)).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]domain.HighscoreEntry, 0, len(raw))
	for username, value := range raw {
		var entry domain.HighscoreEntry
		if err := json.Unmarshal([]byte(value), &entry); err != nil {
			return nil, fmt.Errorf("decode highscore %s/%s: %w", category, username, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *HighscoreStore) PutIfBetter(ctx context.Context, category string, entry domain.HighscoreEntry) (bool, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return false, err
	}
	stored, err := putIfBetter.Run(ctx, s.client, []string{s.key(category)}, entry.Username, data, entry.Score).Int()
	if err != nil {
		return false, err
	}
	return stored == 1, nil
}

func (s *HighscoreStore) key(category string) string {
	return "highscores:" + category
}
