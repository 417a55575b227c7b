package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_SetAndGet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStore[string](db, "catalog", time.Minute)
	ctx := context.Background()

	mock.ExpectSet("catalog:product_1", []byte(`"shoe"`), time.Minute).SetVal("OK")
	mock.ExpectGet("catalog:product_1").SetVal(`"shoe"`)

	require.NoError(t, store.Set(ctx, "product_1", "shoe"))

	got, ok, err := store.Get(ctx, "product_1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "shoe", got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Miss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStore[string](db, "catalog", time.Minute)

	mock.ExpectGet("catalog:categories").RedisNil()

	_, ok, err := store.Get(context.Background(), "categories")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_GetError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStore[string](db, "catalog", time.Minute)

	mock.ExpectGet("catalog:categories").SetErr(errors.New("connection refused"))

	_, ok, err := store.Get(context.Background(), "categories")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisStore_InvalidateAndClear(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStore[string](db, "catalog", time.Minute)
	ctx := context.Background()

	mock.ExpectDel("catalog:product_1").SetVal(1)
	mock.ExpectScan(0, "catalog:*", 100).SetVal([]string{"catalog:a", "catalog:b"}, 7)
	mock.ExpectDel("catalog:a", "catalog:b").SetVal(2)
	mock.ExpectScan(7, "catalog:*", 100).SetVal([]string{}, 0)

	require.NoError(t, store.Invalidate(ctx, "product_1"))
	require.NoError(t, store.Clear(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}
