package store

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/penwyp/go-timesheet/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "data.json"))
	s.Load()
	return s
}

func strPtr(s string) *string { return &s }

func TestStore_LoadDefaults(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing", "data.json"))
	assert.False(t, s.IsLoaded())

	s.Load()

	assert.True(t, s.IsLoaded())
	select {
	case <-s.Ready():
	default:
		t.Fatal("Ready channel not closed after Load")
	}
	assert.Equal(t, model.DefaultData(), s.Snapshot())
}

func TestStore_LoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"client":"ACME","month":14,"entries":{"2025-01-02":{"project":"A","hours":"8"}}}`), 0600))

	s := New(path)
	s.Load()
	data := s.Snapshot()

	assert.Equal(t, "ACME", data.Client)
	assert.Equal(t, "8", data.DefaultHours)
	assert.Equal(t, "PL", data.HolidayBank)
	assert.Equal(t, 1, data.Month, "invalid month falls back to default")
	assert.Equal(t, model.Entry{Project: "A", Hours: "8"}, data.Entries["2025-01-02"])
	assert.NotNil(t, data.Templates)
}

func TestStore_LoadCorruptFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"truncated json", `{"client": "ACME", "entr`},
		{"array", `[1, 2, 3]`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			s := New(path)
			assert.NotPanics(t, s.Load)
			assert.Equal(t, model.DefaultData(), s.Snapshot())
		})
	}
}

func TestStore_LoadOnlyOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	s := New(path)
	s.Load()

	require.NoError(t, os.WriteFile(path, []byte(`{"client":"Later"}`), 0600))
	s.Load()

	assert.Equal(t, "", s.Snapshot().Client)
}

func TestStore_SaveDataPersists(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveData(model.Partial{Client: strPtr("ACME"), Person: strPtr("Jan")}))
	require.NoError(t, s.SaveData(model.Partial{Client: strPtr("Globex")}))

	reopened := New(s.Path())
	reopened.Load()
	data := reopened.Snapshot()
	assert.Equal(t, "Globex", data.Client)
	assert.Equal(t, "Jan", data.Person)
}

func TestStore_SaveEntryPreservesOthers(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveEntry("2025-01-02", "A", "8"))
	require.NoError(t, s.SaveEntry("2025-01-03", "B", "4"))
	require.NoError(t, s.SaveEntry("2025-01-02", "A2", "6"))

	entries := s.Snapshot().Entries
	assert.Equal(t, model.Entries{
		"2025-01-02": {Project: "A2", Hours: "6"},
		"2025-01-03": {Project: "B", Hours: "4"},
	}, entries)
}

func TestStore_SaveEntryRejectsInvalidDate(t *testing.T) {
	s := newTestStore(t)
	err := s.SaveEntry("2025-02-30", "A", "8")
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Empty(t, s.Snapshot().Entries)
}

func TestStore_SnapshotIsIsolated(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveEntry("2025-01-02", "A", "8"))

	snap := s.Snapshot()
	snap.Entries["2025-01-02"] = model.Entry{Project: "mutated"}

	assert.Equal(t, "A", s.Snapshot().Entries["2025-01-02"].Project)
}

func TestStore_ClearData(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveEntry("2025-01-02", "A", "8"))

	require.NoError(t, s.ClearData())

	assert.Equal(t, model.DefaultData(), s.Snapshot())
	_, err := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err))

	// clearing twice is fine
	assert.NoError(t, s.ClearData())
}

func TestStore_TemplateLifecycle(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveEntry("2025-01-02", "A", "8"))
	_, err := s.SaveTemplate("Existing", model.Entries{"2025-01-06": {Project: "E", Hours: "1"}})
	require.NoError(t, err)

	before := s.Snapshot()

	id, err := s.SaveTemplate("Sprint", before.Entries)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Len(t, s.Snapshot().Templates, 2)
	assert.Equal(t, before.Entries, s.Snapshot().Entries)

	require.NoError(t, s.DeleteTemplate(id))

	after := s.Snapshot()
	assert.Equal(t, before.Templates, after.Templates)
	assert.Equal(t, before.Entries, after.Entries)
}

func TestStore_TemplateSnapshotIsCopied(t *testing.T) {
	s := newTestStore(t)
	entries := model.Entries{"2025-01-02": {Project: "A", Hours: "8"}}

	id, err := s.SaveTemplate("T", entries)
	require.NoError(t, err)
	entries["2025-01-02"] = model.Entry{Project: "changed"}

	assert.Equal(t, "A", s.Snapshot().Templates[id].Entries["2025-01-02"].Project)
}

func TestStore_DeleteUnknownTemplateIsNoop(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.DeleteTemplate("does-not-exist"))
	_, err := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err), "no write for a no-op delete")
}

func TestStore_LoadTemplate(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveEntry("2025-01-02", "Keep", "8"))
	require.NoError(t, s.SaveEntry("2025-01-03", "Replace", "8"))
	id, err := s.SaveTemplate("T", model.Entries{
		"2025-01-03": {Project: "FromTemplate", Hours: "6"},
		"2025-01-06": {Project: "FromTemplate", Hours: "7"},
	})
	require.NoError(t, err)

	require.NoError(t, s.LoadTemplate(id))

	assert.Equal(t, model.Entries{
		"2025-01-02": {Project: "Keep", Hours: "8"},
		"2025-01-03": {Project: "FromTemplate", Hours: "6"},
		"2025-01-06": {Project: "FromTemplate", Hours: "7"},
	}, s.Snapshot().Entries)

	assert.ErrorIs(t, s.LoadTemplate("missing"), ErrTemplateNotFound)
}

func TestStore_TemplatesOrderedByCreation(t *testing.T) {
	s := newTestStore(t)
	for _, name := range []string{"first", "second", "third"} {
		_, err := s.SaveTemplate(name, model.Entries{})
		require.NoError(t, err)
	}

	list := s.Templates()
	require.Len(t, list, 3)
	assert.Equal(t, "first", list[0].Name)
	assert.Equal(t, "second", list[1].Name)
	assert.Equal(t, "third", list[2].Name)
}

func TestStore_ConcurrentSaveEntry(t *testing.T) {
	s := newTestStore(t)

	var wg sync.WaitGroup
	for day := 1; day <= 20; day++ {
		wg.Add(1)
		go func(day int) {
			defer wg.Done()
			assert.NoError(t, s.SaveEntry(model.FormatISODate(2025, 1, day), "P", "8"))
		}(day)
	}
	wg.Wait()

	reopened := New(s.Path())
	reopened.Load()
	assert.Len(t, reopened.Snapshot().Entries, 20)
}

func TestStore_Reload(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveEntry("2025-01-02", "A", "8"))

	changed, err := s.Reload()
	require.NoError(t, err)
	assert.False(t, changed, "own writes are not reported as external changes")

	other := New(s.Path())
	other.Load()
	require.NoError(t, other.SaveData(model.Partial{Client: strPtr("External")}))

	changed, err = s.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "External", s.Snapshot().Client)
}
