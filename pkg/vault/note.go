// Package vault implements the markdown notes store: the note model, the
// frontmatter index of existing notes, wiki-link resolution, and persistence.
//
// A vault is a flat directory of *.md files, each carrying a YAML
// frontmatter block. The filename stem (filename minus the .md extension)
// is the canonical identifier a note is cross-referenced by; titles are
// human-readable and mutable, stems are not.
package vault

import (
	"fmt"
	"strings"
	"time"
)

// SourceVoiceMemo is the provenance tag written into every generated note.
const SourceVoiceMemo = "voice-memo"

// Extension is the markdown file extension used by the vault.
const Extension = ".md"

// Note is a single generated knowledge-base note.
//
// RelatedNotes holds canonical identifiers (filename stems), never titles.
// ResolveLinks establishes that invariant before a note is written.
type Note struct {
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Tags         []string  `json:"tags"`
	Date         time.Time `json:"date"`
	Source       string    `json:"source"`
	RelatedNotes []string  `json:"related_notes"`
}

// SanitizeTag normalizes a tag: spaces become hyphens, then only
// alphanumerics, hyphens, underscores and forward slashes are kept.
func SanitizeTag(tag string) string {
	hyphenated := strings.ReplaceAll(tag, " ", "-")
	var b strings.Builder
	b.Grow(len(hyphenated))
	for _, r := range hyphenated {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-', r == '_', r == '/':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SanitizeTags applies SanitizeTag to every tag, dropping ones that end up
// empty.
func SanitizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if clean := SanitizeTag(tag); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

// pathUnsafe holds the characters stripped from titles when deriving
// filenames.
const pathUnsafe = `/\:*?"<>|`

// Filename returns the filesystem-safe filename for this note: the title
// with path-unsafe characters removed and runs of whitespace collapsed,
// plus the markdown extension.
func (n *Note) Filename() string {
	var b strings.Builder
	b.Grow(len(n.Title))
	for _, r := range n.Title {
		if !strings.ContainsRune(pathUnsafe, r) {
			b.WriteRune(r)
		}
	}
	safe := strings.Join(strings.Fields(b.String()), " ")
	if safe == "" {
		safe = "untitled"
	}
	return safe + Extension
}

// Stem returns the note's canonical identifier: its filename without the
// extension.
func (n *Note) Stem() string {
	return strings.TrimSuffix(n.Filename(), Extension)
}

// HasTag reports whether the note carries the given tag.
func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SharesTag reports whether two notes have at least one tag in common.
func (n *Note) SharesTag(other *Note) bool {
	for _, t := range other.Tags {
		if n.HasTag(t) {
			return true
		}
	}
	return false
}

// Markdown renders the note to its on-disk form: a YAML frontmatter block,
// the content, and a trailing section repeating each related identifier as
// a wiki-link.
func (n *Note) Markdown() string {
	var sb strings.Builder

	sb.WriteString("---\n")
	fmt.Fprintf(&sb, "title: %q\n", n.Title)
	fmt.Fprintf(&sb, "date: %s\n", n.Date.Format("2006-01-02"))
	fmt.Fprintf(&sb, "source: %s\n", n.Source)

	if len(n.Tags) > 0 {
		sb.WriteString("tags:\n")
		for _, tag := range n.Tags {
			fmt.Fprintf(&sb, "  - %s\n", tag)
		}
	}

	if len(n.RelatedNotes) > 0 {
		sb.WriteString("related:\n")
		for _, rel := range n.RelatedNotes {
			fmt.Fprintf(&sb, "  - %q\n", rel)
		}
	}

	sb.WriteString("---\n\n")
	sb.WriteString(n.Content)

	if len(n.RelatedNotes) > 0 {
		sb.WriteString("\n\n---\n\n## Note correlate\n\n")
		for _, rel := range n.RelatedNotes {
			fmt.Fprintf(&sb, "- [[%s]]\n", rel)
		}
	}

	return sb.String()
}
