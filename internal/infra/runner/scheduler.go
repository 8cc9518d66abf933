package runner

import (
	"fmt"
	"path/filepath"
	"time"

	"briefline/internal/domain/entity"
	"briefline/internal/gate"
)

// TaskName is the OS-side scheduled task the installer registers.
const TaskName = "briefline-daily"

// SchedulerMetaFile is the meta file verifiers read to confirm the daily
// trigger's installation state without touching the OS scheduler.
const SchedulerMetaFile = "scheduler.meta.json"

// NextRunBeijing computes the next firing of a "HH:MM" daily trigger in
// Asia/Shanghai, relative to now. The trigger itself runs in the OS's local
// time; the meta records the Beijing-normalized timestamp so verifiers on
// any host agree on what "next run" means.
func NextRunBeijing(now time.Time, dailyTime string) (time.Time, error) {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		return time.Time{}, fmt.Errorf("runner: load Asia/Shanghai: %w", err)
	}
	t, err := time.ParseInLocation("15:04", dailyTime, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("runner: parse daily time %q: %w", dailyTime, err)
	}

	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), t.Hour(), t.Minute(), 0, 0, loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next, nil
}

// WriteSchedulerMeta writes scheduler.meta.json under outDir. It is written
// even when installed=false, so unattended verifiers always find the file.
func WriteSchedulerMeta(outDir string, installed bool, dailyTime string, lastStatus entity.RunStatus, now time.Time) (entity.SchedulerMeta, error) {
	next, err := NextRunBeijing(now, dailyTime)
	if err != nil {
		return entity.SchedulerMeta{}, err
	}
	meta := entity.SchedulerMeta{
		Installed:        installed,
		Timezone:         "Asia/Shanghai",
		DailyTime:        dailyTime,
		TaskName:         TaskName,
		NextRunAtBeijing: next,
		LastRunStatus:    lastStatus,
	}
	if err := gate.WriteMetaJSON(filepath.Join(outDir, SchedulerMetaFile), meta); err != nil {
		return entity.SchedulerMeta{}, err
	}
	return meta, nil
}
