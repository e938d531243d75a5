package payback

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCashFlow(t *testing.T) {
	f, err := CashFlow([]float64{0, 50, 100, 100}, []float64{100, 50, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{-100, 0, 100, 100}, f.Net)
	assert.Equal(t, []float64{-100, -100, 0, 100}, f.Cumulative)

	i, ok := f.PaybackIndex()
	require.True(t, ok)
	assert.Equal(t, 2, i, "zero cumulative counts as payback")

	y, ok := f.Payback(FirstOperationalYear).Year()
	assert.True(t, ok)
	assert.Equal(t, 6, y)
}

func TestCashFlowFirstMatchWins(t *testing.T) {
	f, err := CashFlow([]float64{10, 0, 0, 50}, []float64{0, 20, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{10, -10, -10, 40}, f.Cumulative)
	i, ok := f.PaybackIndex()
	assert.True(t, ok)
	assert.Equal(t, 0, i)
}

func TestCashFlowPaybackIsSmallestIndex(t *testing.T) {
	rev := []float64{0, 0, 0, 30, 30, 30, 30, 30, 30, 30}
	cost := []float64{40, 20, 10, 5, 5, 5, 5, 5, 5, 5}
	f, err := CashFlow(rev, cost)
	require.NoError(t, err)
	i, ok := f.PaybackIndex()
	require.True(t, ok)
	for j := 0; j < i; j++ {
		assert.Less(t, f.Cumulative[j], 0.0)
	}
	assert.GreaterOrEqual(t, f.Cumulative[i], 0.0)
}

func TestCashFlowNeverRecovers(t *testing.T) {
	f, err := CashFlow(repeat(1, 20), repeat(2, 20))
	require.NoError(t, err)
	_, ok := f.PaybackIndex()
	assert.False(t, ok)
	_, ok = f.Payback(1).Year()
	assert.False(t, ok)
	assert.Equal(t, -20.0, f.Cumulative[19])
}

func TestCashFlowLengthMismatch(t *testing.T) {
	_, err := CashFlow(repeat(1, 17), repeat(1, 20))
	assert.ErrorIs(t, err, ErrLengthMismatch)
	_, err = CashFlow(nil, nil)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestPayback(t *testing.T) {
	var zero Payback
	_, ok := zero.Year()
	assert.False(t, ok)
	assert.Equal(t, "Não atingiu", zero.String())
	assert.Equal(t, "Ano-07", PaybackAt(7).String())

	raw, err := json.Marshal(struct {
		A Payback `json:"a"`
		B Payback `json:"b"`
	}{A: PaybackAt(12)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":12,"b":null}`, string(raw))
}
