package prefs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetReturnsDefaultWhenUnset(t *testing.T) {
	s := openTemp(t)
	assert.Equal(t, "ru", s.Get(KeyLocale, "ru"))
	assert.True(t, s.GetBool(KeySoundEnabled, true))
	assert.False(t, s.GetBool(KeySoundEnabled, false))
}

func TestSetGetRoundTrip(t *testing.T) {
	s := openTemp(t)

	require.NoError(t, s.Set(KeyLocale, "kk"))
	assert.Equal(t, "kk", s.Get(KeyLocale, "ru"))

	require.NoError(t, s.Set(KeyLocale, "ru"))
	assert.Equal(t, "ru", s.Get(KeyLocale, "kk"), "upsert replaces")

	require.NoError(t, s.SetBool(KeySoundEnabled, true))
	assert.True(t, s.GetBool(KeySoundEnabled, false))
}

func TestValuesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyServerURL, "http://pos.local:8007"))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	assert.Equal(t, "http://pos.local:8007", s2.Get(KeyServerURL, ""))
}

func TestDelete(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Set(KeyLocale, "kk"))
	require.NoError(t, s.Delete(KeyLocale))
	assert.Equal(t, "ru", s.Get(KeyLocale, "ru"))
}

func TestGarbageBoolFallsBack(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Set(KeySoundEnabled, "maybe"))
	assert.True(t, s.GetBool(KeySoundEnabled, true))
}
