package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"briefline/internal/domain/entity"
	"briefline/internal/infra/runner"
)

var schedulerDailyTime string

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage the daily-trigger contract (scheduler.meta.json)",
}

// schedulerInstallCmd records the daily trigger's contract without touching
// the OS scheduler itself: registering the actual task is the shell
// installer's job, briefctl only owns the meta file verifiers read.
var schedulerInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Write scheduler.meta.json with installed=true and the next Beijing-time run",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		meta, err := runner.WriteSchedulerMeta(outputDir, true, schedulerDailyTime, lastRunStatus(), time.Now())
		if err != nil {
			return err
		}
		logger.Info("scheduler contract written",
			"task_name", meta.TaskName,
			"daily_time", meta.DailyTime,
			"next_run_at_beijing", meta.NextRunAtBeijing.Format(time.RFC3339))
		return nil
	},
}

var schedulerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print scheduler.meta.json, writing an installed=false one if absent",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join(outputDir, runner.SchedulerMetaFile)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			// Verifiers must find the file even on hosts with no task
			// installed.
			if _, werr := runner.WriteSchedulerMeta(outputDir, false, schedulerDailyTime, lastRunStatus(), time.Now()); werr != nil {
				return werr
			}
			data, err = os.ReadFile(path)
		}
		if err != nil {
			return fmt.Errorf("scheduler status: %w", err)
		}
		fmt.Println(string(data))
		return nil
	},
}

// lastRunStatus reads the previous run's verdict out of run.meta.json, empty
// when no run has happened yet.
func lastRunStatus() entity.RunStatus {
	data, err := os.ReadFile(filepath.Join(outputDir, "run.meta.json"))
	if err != nil {
		return ""
	}
	var run entity.RunMeta
	if err := json.Unmarshal(data, &run); err != nil {
		return ""
	}
	return run.Status
}

func init() {
	schedulerCmd.PersistentFlags().StringVar(&schedulerDailyTime, "daily-time", "09:00", "daily trigger time, HH:MM in Asia/Shanghai")
	schedulerCmd.AddCommand(schedulerInstallCmd, schedulerStatusCmd)
}
