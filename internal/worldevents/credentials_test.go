package worldevents_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-cosmic-codex/internal/worldevents"
	"github.com/zalando/go-keyring"
)

func TestNewsArchiveKey(t *testing.T) {
	keyring.MockInit()

	assert.Empty(t, worldevents.NewsArchiveKey(""), "empty keyring yields no key")

	require.NoError(t, worldevents.StoreNewsArchiveKey("  stored-key \n"))
	assert.Equal(t, "stored-key", worldevents.NewsArchiveKey(""))

	assert.Equal(t, "from-env", worldevents.NewsArchiveKey(" from-env "), "override wins over keyring")
}

func TestStoreNewsArchiveKey_Empty(t *testing.T) {
	keyring.MockInit()

	assert.Error(t, worldevents.StoreNewsArchiveKey("   "))
}
