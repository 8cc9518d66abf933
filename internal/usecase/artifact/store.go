// Package artifact owns the canonical deliverable lifecycle: the
// pre-run snapshot that makes a run all-or-nothing, promotion on OK, restore
// plus NOT_READY placeholders on FAIL, the immutable per-run delivery
// archive, and the operator-facing summary files that exist after every run
// regardless of verdict.
package artifact

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"briefline/internal/domain/entity"
	"briefline/internal/gate"
	"briefline/internal/usecase/render"
)

// canonicalFiles are the files the downstream UI opens; they are replaced
// only on an OK verdict.
var canonicalFiles = []string{render.DeckFile, render.DocFile, render.DigestFile}

// Store manages canonical artifacts under outputDir, with per-run snapshots
// kept under snapshotDir so two concurrent verifiers never clobber each
// other's pre-run state.
type Store struct {
	outputDir   string
	snapshotDir string
}

// NewStore roots a Store at outputDir, keeping pre-run snapshots under
// dataDir/artifact_snapshots/<run_id>.
func NewStore(outputDir, dataDir string) *Store {
	return &Store{
		outputDir:   outputDir,
		snapshotDir: filepath.Join(dataDir, "artifact_snapshots"),
	}
}

// OutputDir returns the canonical outputs directory.
func (s *Store) OutputDir() string { return s.outputDir }

func (s *Store) runSnapshotDir(runID string) string {
	return filepath.Join(s.snapshotDir, runID)
}

// Snapshot copies the current canonical files into the run's snapshot
// directory before any stage writes. Missing canonical files (first run) are
// recorded as absent so Restore can remove what the failed run wrote.
func (s *Store) Snapshot(runID string) error {
	dir := s.runSnapshotDir(runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("artifact: mkdir snapshot %s: %w", dir, err)
	}
	for _, name := range canonicalFiles {
		src := filepath.Join(s.outputDir, name)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		if err := copyFile(src, filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

// Restore puts the canonical directory back to its pre-run state: files
// present in the run's snapshot are copied back, files the failed run
// created with no pre-run counterpart are removed. A FAIL run therefore
// never leaves degraded files at the canonical path.
func (s *Store) Restore(runID string) error {
	dir := s.runSnapshotDir(runID)
	for _, name := range canonicalFiles {
		snap := filepath.Join(dir, name)
		dst := filepath.Join(s.outputDir, name)
		if _, err := os.Stat(snap); os.IsNotExist(err) {
			if rmErr := os.Remove(dst); rmErr != nil && !os.IsNotExist(rmErr) {
				return fmt.Errorf("artifact: remove %s: %w", dst, rmErr)
			}
			continue
		}
		if err := copyFile(snap, dst); err != nil {
			return err
		}
	}
	return nil
}

// DropSnapshot removes the run's snapshot directory after a successful
// promote, keeping the snapshot tree from growing one directory per run
// forever.
func (s *Store) DropSnapshot(runID string) error {
	return os.RemoveAll(s.runSnapshotDir(runID))
}

// ClearNotReady removes the NOT_READY placeholders after an OK run, since
// their presence alone fails external verifiers.
func (s *Store) ClearNotReady() error {
	for _, name := range []string{render.NotReadyDeck, render.NotReadyDoc, render.NotReadyMD} {
		if err := os.Remove(filepath.Join(s.outputDir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("artifact: remove %s: %w", name, err)
		}
	}
	return nil
}

// Archive copies the canonical files into the immutable per-run delivery
// directory outputs/deliveries/<run_id>_<head>. The caller must have already
// verified head against the revision observed at run start; the directory
// name embeds it so auditors can tie a delivery to the exact source state.
func (s *Store) Archive(runID, head string) (string, error) {
	leaf := runID + "_" + head
	dir := filepath.Join(s.outputDir, "deliveries", leaf)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("artifact: mkdir delivery %s: %w", dir, err)
	}
	for _, name := range canonicalFiles {
		src := filepath.Join(s.outputDir, name)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		if err := copyFile(src, filepath.Join(dir, name)); err != nil {
			return "", err
		}
	}
	return dir, nil
}

// Summary is the field set LAST_RUN_SUMMARY.txt reports for the operator.
type Summary struct {
	Run              entity.RunMeta
	SelectedEvents   int
	AISelectedEvents int
	ProducedFiles    []string
}

// WriteLastRunSummary writes the human-readable LAST_RUN_SUMMARY.txt. It is
// written on every run, OK or FAIL, and always carries exactly one status
// line.
func (s *Store) WriteLastRunSummary(sum Summary) error {
	var b []byte
	b = append(b, fmt.Sprintf("run_id: %s\n", sum.Run.RunID)...)
	b = append(b, fmt.Sprintf("started_at: %s\n", sum.Run.StartedAt.Format("2006-01-02T15:04:05Z07:00"))...)
	b = append(b, fmt.Sprintf("finished_at: %s\n", sum.Run.FinishedAt.Format("2006-01-02T15:04:05Z07:00"))...)
	b = append(b, fmt.Sprintf("mode: %s\n", sum.Run.Mode)...)
	b = append(b, fmt.Sprintf("status: %s\n", sum.Run.Status)...)
	b = append(b, fmt.Sprintf("selected_events: %d\n", sum.SelectedEvents)...)
	b = append(b, fmt.Sprintf("ai_selected_events: %d\n", sum.AISelectedEvents)...)
	for _, f := range sum.ProducedFiles {
		b = append(b, fmt.Sprintf("produced_file: %s\n", f)...)
	}
	if sum.Run.FailReason != "" {
		b = append(b, fmt.Sprintf("fail_reason: %s\n", sum.Run.FailReason)...)
	}
	path := filepath.Join(s.outputDir, "LAST_RUN_SUMMARY.txt")
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return fmt.Errorf("artifact: mkdir %s: %w", s.outputDir, err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("artifact: write %s: %w", path, err)
	}
	return nil
}

// DesktopButtonMeta is the machine-readable pointer the desktop shortcut
// reads to decide which file to open.
type DesktopButtonMeta struct {
	RunID    string           `json:"run_id"`
	Status   entity.RunStatus `json:"status"`
	OpenPath string           `json:"open_path"`
}

// DeliveryPathMeta records where the run's delivery archive landed.
type DeliveryPathMeta struct {
	RunID        string `json:"run_id"`
	DeliveryPath string `json:"delivery_path,omitempty"`
	Head         string `json:"head,omitempty"`
}

// WriteDesktopButtonMeta writes desktop_button.meta.json; on FAIL the open
// path points at the NOT_READY deck so the operator still sees something.
func (s *Store) WriteDesktopButtonMeta(run entity.RunMeta) error {
	open := filepath.Join(s.outputDir, render.DeckFile)
	if run.Status == entity.RunStatusFail {
		open = filepath.Join(s.outputDir, render.NotReadyDeck)
	}
	meta := DesktopButtonMeta{RunID: run.RunID, Status: run.Status, OpenPath: open}
	return gate.WriteMetaJSON(filepath.Join(s.outputDir, "desktop_button.meta.json"), meta)
}

// WriteDeliveryPathMeta writes delivery_path.meta.json.
func (s *Store) WriteDeliveryPathMeta(runID, deliveryPath, head string) error {
	meta := DeliveryPathMeta{RunID: runID, DeliveryPath: deliveryPath, Head: head}
	return gate.WriteMetaJSON(filepath.Join(s.outputDir, "delivery_path.meta.json"), meta)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("artifact: open %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("artifact: mkdir for %s: %w", dst, err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("artifact: create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("artifact: copy %s -> %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("artifact: close %s: %w", dst, err)
	}
	return nil
}
