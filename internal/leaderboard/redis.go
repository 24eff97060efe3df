package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	DEFAULT_KEY_PREFIX = "unscramble:leaderboard"
)

// RedisStore 用有序集合保存得分，条目详情保存在哈希表中
type RedisStore struct {
	client  *redis.Client
	size    int
	zsetKey string
	hashKey string
}

type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

func NewRedisStore(ctx context.Context, opts RedisOptions, size int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("连接 Redis 失败: %w", err)
	}

	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = DEFAULT_KEY_PREFIX
	}

	zap.L().Info("排行榜使用 Redis 存储", zap.String("addr", opts.Addr))

	return newRedisStore(client, prefix, size), nil
}

func newRedisStore(client *redis.Client, prefix string, size int) *RedisStore {
	return &RedisStore{
		client:  client,
		size:    size,
		zsetKey: prefix + ":scores",
		hashKey: prefix + ":entries",
	}
}

// 同分时先完成者排名更高：分数整数部分为得分，小数部分随完成时间递减
func redisScore(entry Entry) float64 {
	const scale = 1e13
	ms := float64(entry.FinishedAt.UnixMilli())

	return float64(entry.Score) + (1 - ms/scale)
}

func (rs *RedisStore) Record(ctx context.Context, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("序列化排行榜条目失败: %w", err)
	}

	_, err = rs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, rs.zsetKey, redis.Z{Score: redisScore(entry), Member: entry.ID})
		pipe.HSet(ctx, rs.hashKey, entry.ID, data)
		return nil
	})
	if err != nil {
		return fmt.Errorf("写入排行榜失败: %w", err)
	}

	return rs.trim(ctx)
}

// trim 删除排名在 size 之后的条目
func (rs *RedisStore) trim(ctx context.Context) error {
	stale, err := rs.client.ZRange(ctx, rs.zsetKey, 0, int64(-rs.size-1)).Result()
	if err != nil {
		return fmt.Errorf("读取排行榜失败: %w", err)
	}

	if len(stale) == 0 {
		return nil
	}

	members := make([]any, len(stale))
	for i, m := range stale {
		members[i] = m
	}

	_, err = rs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, rs.zsetKey, members...)
		pipe.HDel(ctx, rs.hashKey, stale...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("裁剪排行榜失败: %w", err)
	}

	return nil
}

func (rs *RedisStore) Top(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 || n > rs.size {
		n = rs.size
	}

	ids, err := rs.client.ZRevRange(ctx, rs.zsetKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("读取排行榜失败: %w", err)
	}

	if len(ids) == 0 {
		return []Entry{}, nil
	}

	values, err := rs.client.HMGet(ctx, rs.hashKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("读取排行榜条目失败: %w", err)
	}

	entries := make([]Entry, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			zap.L().Warn("排行榜条目缺失", zap.String("id", ids[i]))
			continue
		}

		var entry Entry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			zap.L().Warn("排行榜条目损坏", zap.String("id", ids[i]), zap.Error(err))
			continue
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
