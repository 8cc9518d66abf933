package runner

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"briefline/internal/domain/entity"
)

func beijing(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)
	return loc
}

func TestNextRunBeijing_SameDay(t *testing.T) {
	loc := beijing(t)
	now := time.Date(2025, 6, 1, 7, 30, 0, 0, loc)

	next, err := NextRunBeijing(now, "09:00")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 6, 1, 9, 0, 0, 0, loc), next)
}

func TestNextRunBeijing_RollsToTomorrow(t *testing.T) {
	loc := beijing(t)
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, loc)

	next, err := NextRunBeijing(now, "09:00")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 6, 2, 9, 0, 0, 0, loc), next, "a trigger at exactly the daily time fires tomorrow")
}

func TestNextRunBeijing_ConvertsCallerTimezone(t *testing.T) {
	// 20:30 UTC on June 1 is 04:30 June 2 in Beijing, so the next 09:00
	// Beijing run is later that same Beijing day.
	now := time.Date(2025, 6, 1, 20, 30, 0, 0, time.UTC)

	next, err := NextRunBeijing(now, "09:00")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 6, 2, 9, 0, 0, 0, beijing(t)).Unix(), next.Unix())
}

func TestNextRunBeijing_RejectsBadTime(t *testing.T) {
	_, err := NextRunBeijing(time.Now(), "9 o'clock")
	assert.Error(t, err)
}

func TestWriteSchedulerMeta(t *testing.T) {
	dir := t.TempDir()

	meta, err := WriteSchedulerMeta(dir, false, "09:00", entity.RunStatusOK, time.Now())
	require.NoError(t, err)

	assert.False(t, meta.Installed)
	assert.Equal(t, "Asia/Shanghai", meta.Timezone)
	assert.Equal(t, TaskName, meta.TaskName)

	data, err := os.ReadFile(filepath.Join(dir, SchedulerMetaFile))
	require.NoError(t, err)

	var onDisk entity.SchedulerMeta
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.False(t, onDisk.Installed, "meta must exist with installed=false so verifiers can run unattended")
	assert.Equal(t, "09:00", onDisk.DailyTime)
	assert.Equal(t, entity.RunStatusOK, onDisk.LastRunStatus)
}
