package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := stripANSI(RenderTable(
		[]string{"ID", "NAME"},
		[][]string{
			{StyleDim.Render("a"), Bold("Alpha")},
			{"bbbb", "B"},
		},
	))
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "ID    NAME", lines[0])
	assert.Equal(t, "────  ─────", lines[1])
	assert.Equal(t, "a     Alpha", lines[2])
	assert.Equal(t, "bbbb  B", lines[3])
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"x"}}))
}
