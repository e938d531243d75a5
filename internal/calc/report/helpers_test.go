package report

import (
	"os"
	"testing"

	"AgroSim/internal/calc/payback"

	"github.com/stretchr/testify/require"
)

const exampleScenario = "../payback/testdata/scenario_exemplo.json"

func exampleOutput(t *testing.T) payback.Output {
	t.Helper()
	f, err := os.Open(exampleScenario)
	require.NoError(t, err)
	defer f.Close()
	doc, err := payback.DecodeJSON(f)
	require.NoError(t, err)
	out, err := payback.Compute(doc)
	require.NoError(t, err)
	return out
}
