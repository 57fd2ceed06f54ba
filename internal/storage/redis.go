package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "teradrive:"

// RedisBlob хранит документы значениями в Redis под общим префиксом.
// Redis здесь используется как тот же плоский blob: GET/SET целого
// документа, никакой транзакционности между ключами.
type RedisBlob struct {
	client *redis.Client
}

// NewRedisBlob подключается к Redis и проверяет соединение.
func NewRedisBlob(addr, password string, db int) (*RedisBlob, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisBlob{client: client}, nil
}

func (b *RedisBlob) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, nil
}

func (b *RedisBlob) Set(ctx context.Context, key string, value []byte) error {
	// TTL нет: документы живут, пока их явно не удалят
	if err := b.client.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (b *RedisBlob) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Close закрывает соединение с Redis.
func (b *RedisBlob) Close() error {
	return b.client.Close()
}
