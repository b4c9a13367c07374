// Package store persists the editor state in a single JSON file and is the only writer of it.
package store

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/penwyp/go-timesheet/internal/core/model"
	"github.com/penwyp/go-timesheet/internal/util"
)

var (
	// ErrInvalidDate is returned when an entry key is not a YYYY-MM-DD date
	ErrInvalidDate = errors.New("invalid ISO date")

	// ErrTemplateNotFound is returned when loading a template id that does not exist
	ErrTemplateNotFound = errors.New("template not found")
)

// TemplateInfo summarises a stored template
type TemplateInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Entries int    `json:"entries"`
}

// Store owns the PersistedData. All mutations go through it and each one ends in exactly
// one durable write of the whole state.
type Store struct {
	mu        sync.Mutex
	path      string
	lock      *fileLock
	data      model.PersistedData
	lastWrite *util.FileInfo

	loadOnce sync.Once
	ready    chan struct{}
}

// New creates a store for the state file at path. Call Load before use.
func New(path string) *Store {
	return &Store{
		path:  path,
		lock:  newFileLock(path + ".lock"),
		data:  model.DefaultData(),
		ready: make(chan struct{}),
	}
}

// Path returns the state file location
func (s *Store) Path() string {
	return s.path
}

// Load reads the state file once. Missing or malformed data yields defaults; Load never fails.
func (s *Store) Load() {
	s.loadOnce.Do(func() {
		data, info := s.readFile()

		s.mu.Lock()
		s.data = data
		s.lastWrite = info
		s.mu.Unlock()

		close(s.ready)
	})
}

// Ready is closed once Load has completed
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// IsLoaded reports whether Load has completed
func (s *Store) IsLoaded() bool {
	select {
	case <-s.ready:
		return true
	default:
		return false
	}
}

// Reload re-reads the state file if it changed since this store last read or wrote it.
func (s *Store) Reload() (bool, error) {
	info, err := util.GetFileInfo(s.path)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	s.mu.Lock()
	same := s.lastWrite.Same(info)
	s.mu.Unlock()
	if same {
		return false, nil
	}

	data, info := s.readFile()

	s.mu.Lock()
	s.data = data
	s.lastWrite = info
	s.mu.Unlock()

	util.LogDebug(fmt.Sprintf("Reloaded state from %s", s.path))
	return true, nil
}

// Snapshot returns a deep copy of the current state
func (s *Store) Snapshot() model.PersistedData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// SaveData shallow-merges p into the state and persists the result
func (s *Store) SaveData(p model.Partial) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commitLocked(s.data.Apply(p))
}

// SaveEntry upserts the entry of one date, keeping every other entry
func (s *Store) SaveEntry(date, project, hours string) error {
	if !model.IsISODate(date) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.data.Entries.Clone()
	entries[date] = model.Entry{Project: project, Hours: hours}
	return s.commitLocked(s.data.Apply(model.Partial{Entries: entries}))
}

// ClearData resets the state to defaults and removes the state file
func (s *Store) ClearData() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lock.Lock()
	if err != nil {
		return err
	}
	defer unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove state file: %w", err)
	}

	s.data = model.DefaultData()
	s.lastWrite = nil
	util.LogInfo("State cleared")
	return nil
}

// SaveTemplate stores a snapshot of entries under a new time-ordered id and returns the id.
// The current entries are not changed.
func (s *Store) SaveTemplate(name string, entries model.Entries) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate template id: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	templates := s.data.Templates.Clone()
	templates[id.String()] = model.Template{Name: name, Entries: entries.Clone()}
	if err := s.commitLocked(s.data.Apply(model.Partial{Templates: templates})); err != nil {
		return "", err
	}
	return id.String(), nil
}

// LoadTemplate merges the entries of a template over the current entries
func (s *Store) LoadTemplate(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tpl, ok := s.data.Templates[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}

	entries := s.data.Entries.Clone()
	for date, entry := range tpl.Entries {
		entries[date] = entry
	}
	return s.commitLocked(s.data.Apply(model.Partial{Entries: entries}))
}

// DeleteTemplate removes one template. Deleting an unknown id is a no-op.
func (s *Store) DeleteTemplate(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.Templates[id]; !ok {
		return nil
	}

	templates := s.data.Templates.Clone()
	delete(templates, id)
	return s.commitLocked(s.data.Apply(model.Partial{Templates: templates}))
}

// Templates lists the stored templates, oldest first
func (s *Store) Templates() []TemplateInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]TemplateInfo, 0, len(s.data.Templates))
	for id, tpl := range s.data.Templates {
		list = append(list, TemplateInfo{ID: id, Name: tpl.Name, Entries: len(tpl.Entries)})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// commitLocked writes next to disk and makes it the current state. Callers hold s.mu.
// The in-memory state advances even when the write fails, matching what the user sees.
func (s *Store) commitLocked(next model.PersistedData) error {
	s.data = next

	raw, err := sonic.MarshalIndent(next, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	unlock, err := s.lock.Lock()
	if err != nil {
		return err
	}
	defer unlock()

	if err := util.WriteFileAtomic(s.path, raw, 0600); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}

	if info, err := util.GetFileInfo(s.path); err == nil {
		s.lastWrite = info
	}
	util.LogDebug(fmt.Sprintf("Saved state to %s (%d entries, %d templates)", s.path, len(next.Entries), len(next.Templates)))
	return nil
}

func (s *Store) readFile() (model.PersistedData, *util.FileInfo) {
	info, _ := util.GetFileInfo(s.path)

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			util.LogWarn(fmt.Sprintf("Failed to read state file %s, using defaults: %v", s.path, err))
		}
		return model.DefaultData(), info
	}

	fields, err := model.ParseObject(raw)
	if err != nil {
		util.LogWarn(fmt.Sprintf("State file %s is corrupt, using defaults: %v", s.path, err))
		return model.DefaultData(), info
	}

	partial, problems := model.DecodePartial(fields)
	for _, problem := range problems {
		util.LogWarn(fmt.Sprintf("State file %s: %v", s.path, problem))
	}

	return sanitize(model.DefaultData().Apply(partial)), info
}

// sanitize replaces out-of-range settings with their defaults
func sanitize(d model.PersistedData) model.PersistedData {
	defaults := model.DefaultData()
	if d.Month < 1 || d.Month > 12 {
		util.LogWarn(fmt.Sprintf("Ignoring invalid month %d", d.Month))
		d.Month = defaults.Month
	}
	if d.Year < 1 || d.Year > 9999 {
		util.LogWarn(fmt.Sprintf("Ignoring invalid year %d", d.Year))
		d.Year = defaults.Year
	}
	return d
}
