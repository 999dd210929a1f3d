package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategiesCommand(t *testing.T) {
	resetFlags()
	jsonOut = true

	output, err := captureOutput(t, runStrategies)
	require.NoError(t, err)

	var infos []strategyInfo
	decodeJSON(t, output, &infos)
	require.Len(t, infos, len(strategyTable))

	byName := map[string]strategyInfo{}
	for _, info := range infos {
		byName[info.Name] = info
	}
	for _, name := range []string{"heap", "pool", "pages"} {
		assert.True(t, byName[name].Available, name)
	}
	assert.False(t, byName["heap"].OffHeap)
	if !byName["cheap"].Available {
		assert.NotEmpty(t, byName["cheap"].Reason)
	}
}

func TestStrategiesTextOutput(t *testing.T) {
	resetFlags()
	output, err := captureOutput(t, runStrategies)
	require.NoError(t, err)
	assertContains(t, output, []string{"heap", "pool", "pages", "cheap", "available"})
}

func TestOpenStrategyLimit(t *testing.T) {
	st, err := openStrategy("pool", "2KiB")
	require.NoError(t, err)
	defer st.Close()

	require.NotNil(t, st.limited)
	assert.Equal(t, int64(2048), st.limited.Budget())
}
