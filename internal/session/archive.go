package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/suderio/warband/internal/persistence"
)

// Archive bridges configuration settings with local file organization.
// It resolves where battle event logs live, independent of the storage format.
type Archive struct {
	Dir string
}

// NewArchive returns an archive rooted at the configured events directory.
func NewArchive(dir string) *Archive {
	return &Archive{Dir: dir}
}

// LogPath returns the path to the event log of a named scenario.
func (a *Archive) LogPath(name string) string {
	return filepath.Join(a.Dir, name+".jsonl")
}

// Open creates the events directory if needed and opens the scenario's log.
func (a *Archive) Open(name string) (*persistence.Store, error) {
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", a.Dir, err)
	}
	return persistence.NewStore(a.LogPath(name))
}

// List returns the names of the recorded logs, sorted.
func (a *Archive) List() ([]string, error) {
	entries, err := os.ReadDir(a.Dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", a.Dir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jsonl") {
			names = append(names, strings.TrimSuffix(e.Name(), ".jsonl"))
		}
	}
	sort.Strings(names)
	return names, nil
}
