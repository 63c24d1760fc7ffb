package templates

import (
	"fmt"
	"path"
	"strings"

	"github.com/caasion/holos/internal/grammar"
	"github.com/caasion/holos/internal/plan"
	"github.com/caasion/holos/internal/vault"
)

// LoadFolder builds a template store from a folder of template notes.
// Each note is named for the date it takes effect (2026-01-01.md) and
// holds one top-level bullet per item; position in the list is the
// item's order. Files that are not date-named notes are skipped.
func LoadFolder(store vault.Store, folder string) (*Store, error) {
	s := NewStore()

	entries, err := store.ListFolder(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to list template folder: %w", err)
	}

	for _, e := range entries {
		if e.IsDir || !strings.HasSuffix(e.Name, ".md") {
			continue
		}
		date := plan.TDate(strings.TrimSuffix(e.Name, ".md"))
		if _, err := plan.ParseDate(plan.ISODate(date)); err != nil {
			continue
		}

		content, err := store.ReadFile(path.Join(folder, e.Name))
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", e.Name, err)
		}
		if tpl := ParseNote(content); len(tpl) > 0 {
			s.Set(date, tpl)
		}
	}

	return s, nil
}

// ParseNote parses a template note body into a template. Lines that are
// not top-level bullets are skipped.
func ParseNote(doc string) plan.Template {
	_, body, _ := vault.SplitDocument(doc)

	tpl := make(plan.Template)
	order := 1
	for _, line := range strings.Split(body, "\n") {
		label, minutes, ok := grammar.ParseItemHeader(line)
		if !ok || label == "" {
			continue
		}
		tpl[grammar.ItemID(label)] = plan.ItemMeta{Label: label, Order: order, Time: minutes}
		order++
	}
	return tpl
}
