package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound возвращается, когда документ с таким ключом отсутствует.
var ErrKeyNotFound = errors.New("key not found")

// Blob определяет интерфейс плоского key-value хранилища.
// Каждый ключ хранит один цельный JSON-документ; чтение и запись
// всегда происходят целиком, без транзакций и блокировок.
type Blob interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
