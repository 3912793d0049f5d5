package vault

import "strings"

// ResolveLinks rewrites a batch of freshly generated notes so that every
// cross-reference (wiki-links embedded in content and entries of
// RelatedNotes) uses a canonical filename stem rather than a title.
//
// It is a pure function: the input slice is never mutated and the result is
// built from deep copies. It has no failure mode; text that matches nothing
// is left untouched.
//
// Per note, in order:
//
//  1. For every existing vault note: if the content already carries the
//     stem wiki-link, leave it alone (running the resolver on its own
//     output is a no-op). Otherwise rewrite a title wiki-link to the stem
//     form, and failing that wrap bare title mentions in the stem link.
//     The ordering is what prevents doubly-wrapped references.
//  2. Rewrite sibling title wiki-links to the sibling's stem form.
//  3. Append the stem of every sibling sharing at least one tag to
//     RelatedNotes. Each direction is computed independently; two siblings
//     with a common tag end up referencing each other.
//  4. Normalize RelatedNotes entries: titles of existing or sibling notes
//     become stems, anything else is assumed to already be a stem.
//     Duplicates are dropped, first occurrence wins.
func ResolveLinks(notes []Note, existing []NoteMeta) []Note {
	resolved := make([]Note, len(notes))
	for i, n := range notes {
		resolved[i] = n
		resolved[i].Tags = append([]string(nil), n.Tags...)
		resolved[i].RelatedNotes = append([]string(nil), n.RelatedNotes...)
	}

	existingStems := make(map[string]string, len(existing))
	for _, meta := range existing {
		existingStems[meta.Title] = meta.Stem()
	}

	batchTitles := make([]string, len(resolved))
	batchStems := make([]string, len(resolved))
	for i := range resolved {
		batchTitles[i] = resolved[i].Title
		batchStems[i] = resolved[i].Stem()
	}

	for i := range resolved {
		note := &resolved[i]

		for _, meta := range existing {
			note.Content = linkMention(note.Content, meta.Title, meta.Stem())
		}

		for j := range resolved {
			if i == j {
				continue
			}
			titleLink := wikiLink(batchTitles[j])
			if batchTitles[j] != batchStems[j] && strings.Contains(note.Content, titleLink) {
				note.Content = strings.ReplaceAll(note.Content, titleLink, wikiLink(batchStems[j]))
			}
		}

		for j := range resolved {
			if i == j {
				continue
			}
			if note.SharesTag(&resolved[j]) && !contains(note.RelatedNotes, batchStems[j]) {
				note.RelatedNotes = append(note.RelatedNotes, batchStems[j])
			}
		}

		note.RelatedNotes = normalizeRelated(note.RelatedNotes, existingStems, batchTitles, batchStems)
	}

	return resolved
}

// linkMention rewrites references to one existing note inside content.
// Idempotence check first, title-link rewrite second, bare-text wrap third.
func linkMention(content, title, stem string) string {
	stemLink := wikiLink(stem)
	if strings.Contains(content, stemLink) {
		return content
	}
	if titleLink := wikiLink(title); strings.Contains(content, titleLink) {
		return strings.ReplaceAll(content, titleLink, stemLink)
	}
	if strings.Contains(content, title) {
		return strings.ReplaceAll(content, title, stemLink)
	}
	return content
}

// normalizeRelated maps titles to stems and deduplicates while preserving
// first-seen order. Entries matching no known title are kept as-is: they
// are assumed to already be stems.
func normalizeRelated(related []string, existingStems map[string]string, batchTitles, batchStems []string) []string {
	out := make([]string, 0, len(related))
	seen := make(map[string]struct{}, len(related))
	for _, entry := range related {
		normalized := entry
		if stem, ok := existingStems[entry]; ok {
			normalized = stem
		} else if idx := indexOf(batchTitles, entry); idx >= 0 {
			normalized = batchStems[idx]
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

func wikiLink(id string) string {
	return "[[" + id + "]]"
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
