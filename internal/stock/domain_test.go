package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetaCoversEveryType(t *testing.T) {
	seen := map[string]bool{}
	for _, typ := range Types() {
		info, ok := Meta(typ)
		require.True(t, ok, "missing table mapping for %s", typ)
		assert.NotEmpty(t, info.Table)
		assert.NotEmpty(t, info.RefColumn)
		assert.False(t, seen[info.Table], "duplicate table %s", info.Table)
		seen[info.Table] = true
	}
}

func TestMetaUnknownType(t *testing.T) {
	_, ok := Meta(Type("seeds"))
	assert.False(t, ok)
}

func TestRefString(t *testing.T) {
	ref := Ref{Type: TypeEgg, ID: 7}
	assert.Equal(t, "Egg/7", ref.String())
}
