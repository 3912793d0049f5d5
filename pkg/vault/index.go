package vault

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// NoteMeta is a read-only projection of an existing note's frontmatter.
// Instances are rebuilt on every scan; the vault directory is the only
// source of truth across runs.
type NoteMeta struct {
	Title    string
	Date     string
	Tags     []string
	Filename string
	Source   string
}

// Stem returns the note's canonical identifier: its filename without the
// markdown extension.
func (m NoteMeta) Stem() string {
	return strings.TrimSuffix(m.Filename, Extension)
}

// frontmatter is the raw YAML shape read back from existing notes. Every
// field is optional; dates come back as opaque strings, best effort.
type frontmatter struct {
	Title  string   `yaml:"title"`
	Date   string   `yaml:"date"`
	Tags   []string `yaml:"tags"`
	Source string   `yaml:"source"`
}

// parseFrontmatter extracts the YAML block delimited by `---` lines at the
// start of a markdown document.
func parseFrontmatter(content string) (*frontmatter, error) {
	trimmed := strings.TrimLeft(content, " \t\r\n")
	if !strings.HasPrefix(trimmed, frontmatterDelimiter) {
		return nil, fmt.Errorf("missing frontmatter delimiter")
	}
	rest := trimmed[len(frontmatterDelimiter):]
	idx := strings.Index(rest, "\n"+frontmatterDelimiter)
	if idx == -1 {
		return nil, fmt.Errorf("unclosed frontmatter block")
	}
	var fm frontmatter
	if err := yaml.Unmarshal([]byte(rest[:idx]), &fm); err != nil {
		return nil, fmt.Errorf("frontmatter parse error: %w", err)
	}
	return &fm, nil
}

// Scan reads the vault directory and returns metadata for every markdown
// note it contains, including notes nested in subdirectories.
//
// A missing directory is not an error: the first run has no notes yet and
// gets an empty index. Files without a valid frontmatter block are skipped
// with a warning; one unreadable file never fails the whole scan. Ordering
// of the returned slice is unspecified.
func Scan(dir string) ([]NoteMeta, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		slog.Debug("vault: directory does not exist yet", "dir", dir)
		return nil, nil
	}

	paths, err := doublestar.FilepathGlob(filepath.Join(dir, "**", "*"+Extension))
	if err != nil {
		return nil, fmt.Errorf("vault: scan %s: %w", dir, err)
	}

	var notes []NoteMeta
	for _, path := range paths {
		filename := filepath.Base(path)

		content, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("vault: skipping unreadable note", "file", filename, "err", err)
			continue
		}

		fm, err := parseFrontmatter(string(content))
		if err != nil {
			slog.Warn("vault: skipping note without valid frontmatter", "file", filename, "err", err)
			continue
		}

		title := fm.Title
		if title == "" {
			title = filename
		}
		notes = append(notes, NoteMeta{
			Title:    title,
			Date:     fm.Date,
			Tags:     fm.Tags,
			Filename: filename,
			Source:   fm.Source,
		})
	}

	return notes, nil
}
