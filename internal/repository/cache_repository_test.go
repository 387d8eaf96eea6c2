package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/lpk-cms-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "lpk", nil)
	ctx := context.Background()

	var out map[string]string
	assert.ErrorIs(t, repo.Get(ctx, "settings", &out), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "settings", map[string]string{"a": "b"}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "settings*"))
	assert.NoError(t, repo.Ping(ctx))
}

func TestCacheRepositoryNamespacesKeys(t *testing.T) {
	assert.Equal(t, "lpk:programs:list", NewCacheRepository(nil, "lpk", nil).key("programs:list"))
	assert.Equal(t, "programs:list", NewCacheRepository(nil, "", nil).key("programs:list"))
}
