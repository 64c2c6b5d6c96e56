package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/girlscollective/collective/internal/pkg/auth"
)

func TestHashPreviewKey(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, newApp(&out).Run([]string{"collectivectl", "hash-preview-key", "--key", "abre-puertas"}))

	hash := strings.TrimSpace(out.String())
	require.True(t, auth.CheckSecret(hash, "abre-puertas"))
	require.False(t, auth.CheckSecret(hash, "otra"))
}

func TestTokenRejectsBadUser(t *testing.T) {
	var out bytes.Buffer
	err := newApp(&out).Run([]string{"collectivectl", "token", "--user", "nope", "--email", "a@example.com"})
	require.ErrorContains(t, err, "invalid --user")
	require.Empty(t, out.String())
}
