package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/imdone/pkg/adapters/memory"
	"github.com/aretw0/imdone/pkg/core"
)

func TestResolveID(t *testing.T) {
	ids := []string{"abc12345-0000", "abc99999-0000", "def00000-0000"}
	next := 0
	svc := core.NewService(memory.NewStore(), core.Config{NewID: func() string {
		id := ids[next]
		next++
		return id
	}})
	ctx := context.Background()
	for _, text := range []string{"one", "two", "three"} {
		_, _, err := svc.Create(ctx, text)
		require.NoError(t, err)
	}

	id, err := resolveID(svc, "def")
	require.NoError(t, err)
	assert.Equal(t, "def00000-0000", id)

	id, err = resolveID(svc, "abc12345-0000")
	require.NoError(t, err)
	assert.Equal(t, "abc12345-0000", id)

	_, err = resolveID(svc, "abc")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = resolveID(svc, "zzz")
	assert.ErrorContains(t, err, "no note")
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "12345678", shortID("12345678-aaaa"))
}

func TestConfirmed(t *testing.T) {
	assert.True(t, confirmed("y\n"))
	assert.True(t, confirmed(" YES "))
	assert.False(t, confirmed("\n"))
	assert.False(t, confirmed("n"))
}
