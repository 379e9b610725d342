package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timebox-sh/timebox/internal/core/palette"
)

func TestColorIndexByName(t *testing.T) {
	idx, err := colorIndexByName("blue")
	require.NoError(t, err)
	assert.Equal(t, "blue", palette.At(idx).Name)

	idx, err = colorIndexByName("BLUE")
	require.NoError(t, err)
	assert.Equal(t, "blue", palette.At(idx).Name)

	_, err = colorIndexByName("chartreuse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available:")
}
