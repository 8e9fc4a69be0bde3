package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/taxclause/internal/core/domain"
)

// setupRedisStore connects to the server named by TAXCLAUSE_REDIS_ADDR
// under a unique prefix, skipping the test when none is configured.
func setupRedisStore(t *testing.T) *ContractStore {
	t.Helper()

	addr := os.Getenv("TAXCLAUSE_REDIS_ADDR")
	if addr == "" {
		t.Skip("TAXCLAUSE_REDIS_ADDR not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := Dial(ctx, addr, "", 0)
	require.NoError(t, err)

	prefix := "taxclause-test:" + uuid.NewString() + ":"
	store := NewContractStore(client, prefix)

	t.Cleanup(func() {
		ctx := context.Background()
		keys, _ := client.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})
	return store
}

func TestNewContractStore_DefaultPrefix(t *testing.T) {
	store := NewContractStore(nil, "")

	assert.Equal(t, "taxclause:contract:c-1", store.contractKey("c-1"))
	assert.Equal(t, "taxclause:contracts", store.indexKey())
}

func TestNewContractStore_CustomPrefix(t *testing.T) {
	store := NewContractStore(nil, "acme:")

	assert.Equal(t, "acme:contract:c-1", store.contractKey("c-1"))
	assert.Equal(t, "acme:contracts", store.indexKey())
}

func TestFromHash(t *testing.T) {
	_, err := fromHash("c-1", map[string]string{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	c, err := fromHash("c-1", map[string]string{"id": "c-1", "content": "VAT"})
	require.NoError(t, err)
	assert.Equal(t, domain.Contract{ID: "c-1", Content: "VAT"}, *c)
}

func TestContractStore_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	store := NewContractStore(client, "")
	ctx := context.Background()

	assert.Error(t, store.Put(ctx, domain.Contract{ID: "c-1"}))

	_, err := store.Get(ctx, "c-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)

	_, err = store.List(ctx)
	assert.Error(t, err)
}

func TestDial_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := Dial(ctx, "127.0.0.1:1", "", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}

func TestContractStore_PutGetList(t *testing.T) {
	store := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, domain.Contract{ID: "b", Title: "B", Content: "WHT"}))
	require.NoError(t, store.Put(ctx, domain.Contract{ID: "a", Content: "VAT"}))

	got, err := store.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, domain.Contract{ID: "b", Title: "B", Content: "WHT"}, *got)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
}

func TestContractStore_Put_Overwrites(t *testing.T) {
	store := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, domain.Contract{ID: "c-1", Title: "old", Content: "original"}))
	require.NoError(t, store.Put(ctx, domain.Contract{ID: "c-1", Content: "updated"}))

	got, err := store.Get(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Content)
	assert.Empty(t, got.Title)
}

func TestContractStore_Get_NotFound(t *testing.T) {
	store := setupRedisStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContractStore_List_SkipsDanglingIndex(t *testing.T) {
	store := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, domain.Contract{ID: "kept", Content: "VAT"}))
	require.NoError(t, store.client.SAdd(ctx, store.indexKey(), "gone").Err())

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "kept", list[0].ID)
}
