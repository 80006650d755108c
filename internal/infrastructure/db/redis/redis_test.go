package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_PingsBeforeReturning(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.NoError(t, client.Set(context.Background(), "k", "v", time.Minute).Err())
}

func TestConnect_AuthenticatesWithPassword(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("hunter2")

	_, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	require.Error(t, err)

	client, err := Connect(context.Background(), Config{Addr: mr.Addr(), Password: "hunter2"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestConnect_UnreachableAddr(t *testing.T) {
	_, err := Connect(context.Background(), Config{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
	})
	assert.Error(t, err)
}
