package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lazizkhan1/Easify/pkg/llm"
	"github.com/Lazizkhan1/Easify/pkg/oygul"
)

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	store, err := OpenStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	sess := NewSession("tg:12345")
	sess.SetCredentials(&oygul.Credentials{
		UserID:       "u-1",
		Token:        "jwt",
		RefreshToken: "refresh",
		MerchantID:   "m-1",
		BranchID:     "b-1",
	})
	sess.SetLang("uz")
	sess.AppendHistory(
		llm.Message{Role: llm.RoleUser, Content: "salom"},
		llm.Message{Role: llm.RoleAssistant, Content: "Salom! Qanday yordam bera olaman?"},
	)

	require.NoError(t, store.Save(sess))

	loaded, err := store.Load("tg:12345")
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, "u-1", loaded.UserID())
	assert.Equal(t, "m-1", loaded.MerchantID())
	assert.Equal(t, "b-1", loaded.BranchID())
	assert.Equal(t, "jwt", loaded.Token())
	assert.Equal(t, "refresh", loaded.RefreshToken())
	assert.Equal(t, "uz", loaded.Lang())

	history := loaded.History()
	require.Len(t, history, 2)
	assert.Equal(t, llm.RoleUser, history[0].Role)
	assert.Equal(t, "salom", history[0].Content)
}

func TestStoreLoadMissingReturnsNil(t *testing.T) {
	store, err := OpenStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	loaded, err := store.Load("nope")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStoreSaveOverwrites(t *testing.T) {
	store, err := OpenStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	sess := NewSession("console")
	sess.SetTokens("old", "r1")
	require.NoError(t, store.Save(sess))

	sess.SetTokens("new", "r2")
	require.NoError(t, store.Save(sess))

	loaded, err := store.Load("console")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "new", loaded.Token())
	assert.Equal(t, "r2", loaded.RefreshToken())
}

func TestStoreDelete(t *testing.T) {
	store, err := OpenStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(NewSession("gone")))
	require.NoError(t, store.Delete("gone"))

	loaded, err := store.Load("gone")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSessionDefaultsAndReset(t *testing.T) {
	sess := NewSession("x")
	assert.Equal(t, "ru", sess.Lang())
	assert.False(t, sess.Authorized())

	sess.SetTokens("jwt", "")
	assert.True(t, sess.Authorized())

	sess.AppendHistory(llm.Message{Role: llm.RoleUser, Content: "привет"})
	sess.ResetHistory()
	assert.Empty(t, sess.History())
	// Сброс истории не разлогинивает
	assert.True(t, sess.Authorized())
}

func TestSessionSetTokensKeepsRefreshWhenEmpty(t *testing.T) {
	sess := NewSession("x")
	sess.SetTokens("jwt-1", "refresh-1")
	sess.SetTokens("jwt-2", "")
	assert.Equal(t, "refresh-1", sess.RefreshToken())
}
