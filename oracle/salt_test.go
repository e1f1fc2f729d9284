package oracle

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
)

func TestFreshSalt(t *testing.T) {
	salt, err := FreshSalt()
	require.NoError(t, err)
	require.Len(t, salt, 4)

	other, err := FreshSalt()
	require.NoError(t, err)
	require.NotEqual(t, salt, other)
}

func TestCommit_Deterministic(t *testing.T) {
	price := sdk.MustNewDecFromStr("12.50")

	hash1 := CommitPrice("abcd", price, "uatom", "persistencevaloper1xyz")
	hash2 := CommitPrice("abcd", price, "uatom", "persistencevaloper1xyz")
	require.Equal(t, hash1, hash2)
	require.Len(t, hash1, 64)
}

func TestCommit_DiffersOnAnyField(t *testing.T) {
	price := sdk.MustNewDecFromStr("12.50")
	base := CommitPrice("abcd", price, "uatom", "val1")

	require.NotEqual(t, base, CommitPrice("dcba", price, "uatom", "val1"))
	require.NotEqual(t, base, CommitPrice("abcd", sdk.MustNewDecFromStr("12.51"), "uatom", "val1"))
	require.NotEqual(t, base, CommitPrice("abcd", price, "uosmo", "val1"))
	require.NotEqual(t, base, CommitPrice("abcd", price, "uatom", "val2"))
}
