package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/knockout/internal/model"
	"github.com/mcoot/knockout/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveResult(ctx context.Context, result *model.KnockoutResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	prev, err := s.GetResult(ctx, result.ID)
	if err != nil && !errors.Is(err, model.ErrResultNotFound) {
		return err
	}

	// Result, index and win count change together
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, resultKey(result.ID), data, s.cfg.ResultTTL)
	pipe.ZAdd(ctx, resultsByEndKey(), redis.Z{
		Score:  float64(result.EndedAt.UnixMilli()),
		Member: string(result.ID),
	})
	if prev != nil && prev.Winner != "" {
		pipe.ZIncrBy(ctx, winsKey(), -1, prev.Winner)
	}
	if result.Winner != "" {
		pipe.ZIncrBy(ctx, winsKey(), 1, result.Winner)
		pipe.HSet(ctx, nicknamesKey(), result.Winner, result.WinnerNickname)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetResult(ctx context.Context, id model.KnockoutID) (*model.KnockoutResult, error) {
	data, err := s.client.Get(ctx, resultKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrResultNotFound
		}
		return nil, err
	}

	var result model.KnockoutResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Storage) ListResults(ctx context.Context, limit int) ([]*model.KnockoutResult, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	ids, err := s.client.ZRevRange(ctx, resultsByEndKey(), 0, stop).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.KnockoutResult{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, resultKey(model.KnockoutID(id)))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	results := make([]*model.KnockoutResult, 0, len(ids))
	var expired []any
	for i, cmd := range cmds {
		data, err := cmd.Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				expired = append(expired, ids[i])
				continue
			}
			return nil, err
		}
		var result model.KnockoutResult
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, err
		}
		results = append(results, &result)
	}

	// Drop index entries whose result has expired
	if len(expired) > 0 {
		if err := s.client.ZRem(ctx, resultsByEndKey(), expired...).Err(); err != nil {
			return nil, err
		}
	}

	return results, nil
}

func (s *Storage) DeleteResult(ctx context.Context, id model.KnockoutID) error {
	result, err := s.GetResult(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrResultNotFound) {
			return s.client.ZRem(ctx, resultsByEndKey(), string(id)).Err()
		}
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, resultKey(id))
	pipe.ZRem(ctx, resultsByEndKey(), string(id))
	if result.Winner != "" {
		pipe.ZIncrBy(ctx, winsKey(), -1, result.Winner)
	}
	// Remove players left with no wins
	pipe.ZRemRangeByScore(ctx, winsKey(), "-inf", "0")
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) Leaderboard(ctx context.Context, limit int) ([]model.WinCount, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	entries, err := s.client.ZRevRangeWithScores(ctx, winsKey(), 0, stop).Result()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []model.WinCount{}, nil
	}

	logins := make([]string, len(entries))
	for i, e := range entries {
		logins[i] = e.Member.(string)
	}
	nicknames, err := s.client.HMGet(ctx, nicknamesKey(), logins...).Result()
	if err != nil {
		return nil, err
	}

	board := make([]model.WinCount, 0, len(entries))
	for i, e := range entries {
		if e.Score <= 0 {
			continue
		}
		wc := model.WinCount{Login: logins[i], Wins: int(e.Score)}
		if nick, ok := nicknames[i].(string); ok {
			wc.Nickname = nick
		}
		board = append(board, wc)
	}
	return board, nil
}
