package shared

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hts-group/hts-tasks/internal/testutil"
)

func TestSaga_Run_Success(t *testing.T) {
	var trace []string
	step := func(name string) Step {
		return Step{
			Name: name,
			Do:   func(context.Context) error { trace = append(trace, "do "+name); return nil },
			Undo: func(context.Context) error { trace = append(trace, "undo "+name); return nil },
		}
	}

	err := NewSaga("test", nil).Add(step("a")).Add(step("b")).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"do a", "do b"}, trace)
}

func TestSaga_Run_CompensatesInReverse(t *testing.T) {
	// Setup
	var trace []string
	logger := &testutil.MockLogger{}
	saga := NewSaga("share", logger).
		Add(Step{
			Name: "a",
			Do:   func(context.Context) error { trace = append(trace, "do a"); return nil },
			Undo: func(context.Context) error { trace = append(trace, "undo a"); return nil },
		}).
		Add(Step{
			Name: "b",
			Do:   func(context.Context) error { trace = append(trace, "do b"); return nil },
			Undo: func(context.Context) error { trace = append(trace, "undo b"); return assert.AnError },
		}).
		Add(Step{
			Name: "c",
			Do:   func(context.Context) error { return assert.AnError },
			Undo: func(context.Context) error { trace = append(trace, "undo c"); return nil },
		})

	// Execute
	err := saga.Run(context.Background())

	// Assert
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "c:")
	assert.Equal(t, []string{"do a", "do b", "undo b", "undo a"}, trace)
	assert.True(t, logger.Has("WARN", "undo b"))
}
