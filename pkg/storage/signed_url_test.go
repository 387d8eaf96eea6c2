package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerGenerateAndParse(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("snap-1", "snapshots/backup-20240101.json")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, key, parsedExpiry, err := signer.Parse(token, false)
	require.NoError(t, err)
	require.Equal(t, "snap-1", id)
	require.Equal(t, "snapshots/backup-20240101.json", key)
	require.WithinDuration(t, expiresAt, parsedExpiry, time.Second)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	signer.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }
	token, _, err := signer.Generate("snap-1", "snapshots/a.json")
	require.NoError(t, err)

	signer.now = time.Now
	_, _, _, err = signer.Parse(token, false)
	require.Error(t, err)

	id, key, _, err := signer.Parse(token, true)
	require.NoError(t, err)
	require.Equal(t, "snap-1", id)
	require.Equal(t, "snapshots/a.json", key)
}

func TestSignedURLSignerRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Generate("snap-1", "snapshots/a.json")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	parts[0] = "snap-2"
	_, _, _, err = signer.Parse(strings.Join(parts, "."), false)
	require.Error(t, err)

	other := NewSignedURLSigner("other", time.Hour)
	_, _, _, err = other.Parse(token, false)
	require.Error(t, err)
}
