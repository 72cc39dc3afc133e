package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPOReconstructor_Transitions(t *testing.T) {
	r := &poReconstructor{}

	steps := []struct {
		line  string
		want  itemState
		items int
	}{
		{"Material No. 100-200 16,00", stateIdle, 0},
		{"Pos Material Description Quantity Net Amount", stateCollecting, 0},
		{"Material No. 100-200 16,00", stateCollecting, 0},
		{"00010 Widget A 10 PC 160,00", statePendingPrice, 0},
		{"", statePendingPrice, 0},
		{"16,0000 per 1 unit", stateCollecting, 1},
		{"Pos Material Description Quantity Net Amount", stateCollecting, 1},
		{"00020 Gadget B 5 PC 250,00", statePendingPrice, 1},
		{"00030 Bolt C 100 PC 16,00", statePendingPrice, 2},
		{"Summe 426,00", stateIdle, 3},
		{"00040 Late D 1 PC 1,00", stateIdle, 3},
	}

	for _, step := range steps {
		r.feed(step.line)
		assert.Equal(t, step.want, r.state, "after %q", step.line)
		assert.Len(t, r.items, step.items, "after %q", step.line)
	}

	items := r.finish()
	require.Len(t, items, 3)
	assert.True(t, items[0].UnitPrice.Valid)
	assert.False(t, items[1].UnitPrice.Valid)
	assert.False(t, items[2].UnitPrice.Valid)
}

func TestPOReconstructor_FinishFinalizesPending(t *testing.T) {
	r := &poReconstructor{}
	r.feed("Position Article Qty Amount")
	r.feed("10 Cable 3 12,00")

	require.Equal(t, statePendingPrice, r.state)
	items := r.finish()
	require.Len(t, items, 1)
	assert.Equal(t, stateCollecting, r.state)
	assert.False(t, items[0].UnitPrice.Valid)
}

func TestPOReconstructor_PriceUnit(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"16,0000 per 1 unit", "16"},
		{"EUR 16,00 / 1 PC", "16"},
		{"1.600,00 EUR per 100 PC", "16"},
		{"16,00 je 1 ST", "16"},
		{"Price per unit: 12.50", "12.5"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := unitPrice(tt.line)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}

	_, ok := unitPrice("delivered next week")
	assert.False(t, ok)
}

func TestItemStateString(t *testing.T) {
	assert.Equal(t, "idle", stateIdle.String())
	assert.Equal(t, "collecting", stateCollecting.String())
	assert.Equal(t, "pending_price", statePendingPrice.String())
	assert.Equal(t, "unknown", itemState(9).String())
}
