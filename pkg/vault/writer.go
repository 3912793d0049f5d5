package vault

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Writes to a vault directory are serialized per absolute path within this
// process. Separate processes can still race on the snapshot they read
// before writing; the store applies no cross-process locking.
var (
	dirLocksMu sync.Mutex
	dirLocks   = make(map[string]*sync.Mutex)
)

func lockForDir(dir string) *sync.Mutex {
	dirLocksMu.Lock()
	defer dirLocksMu.Unlock()
	mu, ok := dirLocks[dir]
	if !ok {
		mu = &sync.Mutex{}
		dirLocks[dir] = mu
	}
	return mu
}

// WriteNotes persists a batch of notes to the vault directory, creating it
// if needed, and returns the paths that were written.
//
// Each file is written atomically via a temporary file and rename. When a
// note's filename collides with a file already on disk, a numeric suffix
// (" 2", " 3", …) is appended until an unused name is found; the
// pre-existing note keeps the unsuffixed stem.
//
// A note that fails to write is logged and skipped: it is dropped from the
// returned paths and never aborts the rest of the batch. Only a failure to
// create the directory itself is returned as an error.
func WriteNotes(notes []Note, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("vault: create directory %s: %w", dir, err)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("vault: resolve directory %s: %w", dir, err)
	}

	mu := lockForDir(absDir)
	mu.Lock()
	defer mu.Unlock()

	saved := make([]string, 0, len(notes))
	for i := range notes {
		note := &notes[i]

		path, err := availablePath(absDir, note)
		if err != nil {
			slog.Warn("vault: skipping unwritable note", "title", note.Title, "err", err)
			continue
		}

		if err := writeAtomic(path, []byte(note.Markdown())); err != nil {
			slog.Warn("vault: failed to write note", "title", note.Title, "err", err)
			continue
		}

		slog.Info("vault: saved note", "path", path)
		saved = append(saved, path)
	}

	return saved, nil
}

// availablePath resolves the note's target path, suffixing the stem with
// " 2", " 3", … on collision with a file already present.
func availablePath(dir string, note *Note) (string, error) {
	stem := note.Stem()
	candidate := filepath.Join(dir, stem+Extension)
	for i := 2; ; i++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		} else if err != nil {
			return "", err
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s %d%s", stem, i, Extension))
	}
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("atomic rename %s: %w", path, err)
	}
	return nil
}
