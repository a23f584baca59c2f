package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_SetAndGet(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCache(client, 5*time.Minute)

	value := []string{"Foreman", "Surveyor"}
	payload, err := json.Marshal(value)
	require.NoError(t, err)

	mock.ExpectSet("master:designations", payload, 5*time.Minute).SetVal("OK")
	err = c.Set(context.Background(), "master:designations", value, 0)
	assert.NoError(t, err)

	mock.ExpectGet("master:designations").SetVal(string(payload))
	var got []string
	err = c.Get(context.Background(), "master:designations", &got)
	assert.NoError(t, err)
	assert.Equal(t, value, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_GetMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCache(client, time.Minute)

	mock.ExpectGet("master:sections").RedisNil()

	var got []string
	err := c.Get(context.Background(), "master:sections", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_Delete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCache(client, time.Minute)

	mock.ExpectDel("master:designations", "master:sections").SetVal(2)
	err := c.Delete(context.Background(), "master:designations", "master:sections")
	assert.NoError(t, err)

	// Deleting nothing is a no-op, not an error.
	assert.NoError(t, c.Delete(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
