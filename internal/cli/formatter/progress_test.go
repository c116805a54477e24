package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name  string
		pct   float64
		width int
		want  string
	}{
		{"empty", 0, 4, "[░░░░]   0%"},
		{"half", 0.5, 4, "[██░░]  50%"},
		{"full", 1, 4, "[████] 100%"},
		{"over clamps", 1.7, 4, "[████] 100%"},
		{"negative clamps", -1, 4, "[░░░░]   0%"},
		{"tiny width clamps to 2", 0.5, 1, "[█░]  50%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripANSI(RenderProgress(tt.pct, tt.width)))
		})
	}
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 0.0, Ratio(3, 0))
	assert.InDelta(t, 0.25, Ratio(1, 4), 1e-9)
}
