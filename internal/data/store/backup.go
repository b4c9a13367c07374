package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-timesheet/internal/core/model"
	"github.com/penwyp/go-timesheet/internal/util"
)

// BackupVersion is written into every exported backup
const BackupVersion = 1

// ErrInvalidBackup is returned for import payloads that cannot be applied
var ErrInvalidBackup = errors.New("invalid backup file")

// Backup is the transportable form of the whole state
type Backup struct {
	Version    int                 `json:"version"`
	ExportedAt string              `json:"exportedAt"`
	Data       model.PersistedData `json:"data"`
}

// BackupFilename returns the conventional name of a backup taken at now. The date is read in
// now's own location, which is the configured timezone when now comes from util.TimeProvider.
func BackupFilename(now time.Time) string {
	return fmt.Sprintf("timesheet-backup-%s.json", now.Format(model.ISODateLayout))
}

// ExportBackup writes the current state wrapped with a version and export timestamp
func (s *Store) ExportBackup(w io.Writer, now time.Time) error {
	backup := Backup{
		Version:    BackupVersion,
		ExportedAt: now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Data:       s.Snapshot(),
	}

	data, err := sonic.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

// ImportBackup reads either a versioned backup or a bare state object and merges the fields
// it carries over the current state. The payload is fully validated first; a rejected payload
// leaves the state unchanged.
func (s *Store) ImportBackup(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}

	fields, err := model.ParseObject(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}

	if truthy(fields["version"]) && truthy(fields["data"]) {
		fields, err = model.ParseObject(fields["data"])
		if err != nil {
			return fmt.Errorf("%w: data: %v", ErrInvalidBackup, err)
		}
	}

	entries, ok := fields["entries"]
	if !ok || !model.IsJSONObject(entries) {
		return fmt.Errorf("%w: missing entries", ErrInvalidBackup)
	}

	partial, problems := model.DecodePartial(fields)
	if partial.Entries == nil {
		return fmt.Errorf("%w: unreadable entries: %v", ErrInvalidBackup, errors.Join(problems...))
	}
	for _, problem := range problems {
		util.LogWarn(fmt.Sprintf("Backup import: %v", problem))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commitLocked(sanitize(s.data.Apply(partial))); err != nil {
		return err
	}
	util.LogInfo(fmt.Sprintf("Imported backup with %d entries", len(partial.Entries)))
	return nil
}

// truthy mirrors loose truthiness of a JSON value: absent, null, false, "" and any number
// equal to zero are false
func truthy(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	switch string(v) {
	case "", "null", "false", `""`:
		return false
	}
	if c := v[0]; c == '-' || (c >= '0' && c <= '9') {
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			// out of float range, so not zero
			return true
		}
		return f != 0
	}
	return true
}
