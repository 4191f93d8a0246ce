package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelegationChain_AppendCopies(t *testing.T) {
	chain := DelegationChain{1, 2}
	extended := chain.Append(3)

	assert.Equal(t, DelegationChain{1, 2}, chain)
	assert.Equal(t, DelegationChain{1, 2, 3}, extended)
}

func TestDelegationChain_Contains(t *testing.T) {
	chain := DelegationChain{1, 2, 3}

	assert.True(t, chain.Contains(2))
	assert.False(t, chain.Contains(4))
	assert.False(t, DelegationChain(nil).Contains(1))
}

func TestDelegationChain_RoundTrip(t *testing.T) {
	chain := DelegationChain{10, 20, 30}

	value, err := chain.Value()
	require.NoError(t, err)

	var decoded DelegationChain
	require.NoError(t, decoded.Scan(value))
	assert.Equal(t, chain, decoded)

	// Drivers may hand back bytes instead of a string
	var fromBytes DelegationChain
	require.NoError(t, fromBytes.Scan([]byte(`[1,2]`)))
	assert.Equal(t, DelegationChain{1, 2}, fromBytes)
}

func TestDelegationChain_ScanRejectsGarbage(t *testing.T) {
	var chain DelegationChain
	assert.Error(t, chain.Scan(42))
	assert.Error(t, chain.Scan("not json"))
}
