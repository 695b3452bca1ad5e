package scheduler

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/config"
)

func TestSpecForDay(t *testing.T) {
	spec, err := specForDay("Tuesday")
	require.NoError(t, err)
	assert.Equal(t, "0 8 * * TUE", spec)

	spec, err = specForDay("  friday ")
	require.NoError(t, err)
	assert.Equal(t, "0 8 * * FRI", spec)

	_, err = specForDay("someday")
	require.Error(t, err)
}

func TestStart_RequiresAValidDay(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s := New(config.ScheduleConfig{SendDays: []string{"blursday"}}, func(string) {}, logger)
	require.Error(t, s.Start())

	s = New(config.ScheduleConfig{SendDays: []string{"blursday", "tuesday"}}, func(string) {}, logger)
	require.NoError(t, s.Start(), "one bad day does not block the rest")
	s.Stop()
}
