package store

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-timesheet/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupFilename(t *testing.T) {
	warsaw := time.FixedZone("CET", 3600)
	auckland := time.FixedZone("NZDT", 13*3600)

	tests := []struct {
		name     string
		now      time.Time
		expected string
	}{
		{"utc", time.Date(2025, 3, 7, 23, 0, 0, 0, time.UTC), "timesheet-backup-2025-03-07.json"},
		{"after midnight in warsaw", time.Date(2025, 3, 8, 0, 30, 0, 0, warsaw), "timesheet-backup-2025-03-08.json"},
		{"evening in auckland", time.Date(2025, 3, 7, 23, 30, 0, 0, auckland), "timesheet-backup-2025-03-07.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BackupFilename(tt.now))
		})
	}
}

func TestExportBackup_Format(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveEntry("2025-01-02", "A", "8"))

	var buf bytes.Buffer
	now := time.Date(2025, 3, 7, 12, 30, 0, 0, time.UTC)
	require.NoError(t, s.ExportBackup(&buf, now))

	var backup Backup
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &backup))
	assert.Equal(t, BackupVersion, backup.Version)
	assert.Equal(t, "2025-03-07T12:30:00.000Z", backup.ExportedAt)
	assert.Equal(t, model.Entry{Project: "A", Hours: "8"}, backup.Data.Entries["2025-01-02"])
}

func TestBackup_RoundTrip(t *testing.T) {
	source := newTestStore(t)
	require.NoError(t, source.SaveEntry("2025-01-02", "Alpha", "8"))
	require.NoError(t, source.SaveEntry("2025-01-03", "Beta \"quoted\"", "7.5"))
	require.NoError(t, source.SaveEntry("2025-01-04", "", "abc"))

	var buf bytes.Buffer
	require.NoError(t, source.ExportBackup(&buf, time.Now()))

	target := newTestStore(t)
	require.NoError(t, target.ImportBackup(&buf))

	assert.Equal(t, source.Snapshot().Entries, target.Snapshot().Entries)
}

func TestImportBackup_BareObject(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveData(model.Partial{Person: strPtr("Kept")}))

	err := s.ImportBackup(strings.NewReader(`{"client":"Imported","entries":{"2025-02-03":{"project":"X","hours":"8"}}}`))
	require.NoError(t, err)

	data := s.Snapshot()
	assert.Equal(t, "Imported", data.Client)
	assert.Equal(t, "Kept", data.Person, "fields absent from the payload are kept")
	assert.Equal(t, model.Entries{"2025-02-03": {Project: "X", Hours: "8"}}, data.Entries)
}

func TestImportBackup_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `hello`},
		{"array", `[]`},
		{"missing entries", `{"client":"X"}`},
		{"entries not an object", `{"entries":[1,2]}`},
		{"entries null", `{"entries":null}`},
		{"wrapped without entries", `{"version":1,"data":{"client":"X"}}`},
		{"unreadable entry", `{"entries":{"2025-01-02":5}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			require.NoError(t, s.SaveEntry("2025-01-02", "Original", "8"))
			before := s.Snapshot()

			err := s.ImportBackup(strings.NewReader(tt.payload))

			assert.ErrorIs(t, err, ErrInvalidBackup)
			assert.Equal(t, before, s.Snapshot())
		})
	}
}

func TestImportBackup_MissingEntriesMessage(t *testing.T) {
	s := newTestStore(t)
	err := s.ImportBackup(strings.NewReader(`{"client":"X"}`))
	assert.EqualError(t, err, "invalid backup file: missing entries")
}

func TestImportBackup_VersionZeroIsTreatedAsBare(t *testing.T) {
	// without a truthy version the object itself must carry entries
	for _, version := range []string{"0", "0.0", "-0", "0e0", "-0.0E+5", `""`, "null", "false"} {
		t.Run(version, func(t *testing.T) {
			s := newTestStore(t)
			err := s.ImportBackup(strings.NewReader(`{"version":` + version + `,"data":{"entries":{}}}`))
			assert.ErrorIs(t, err, ErrInvalidBackup)
		})
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		raw      string
		expected bool
	}{
		{"", false},
		{"null", false},
		{"false", false},
		{`""`, false},
		{"0", false},
		{"-0", false},
		{"0.0", false},
		{"0e10", false},
		{"1", true},
		{"0.5", true},
		{"-1", true},
		{"1e400", true},
		{"true", true},
		{`"0"`, true},
		{"{}", true},
		{"[]", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, truthy([]byte(tt.raw)))
		})
	}
}
