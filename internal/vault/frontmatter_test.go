package vault

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseFrontmatter(t *testing.T) {
	doc := "---\n" +
		"id: track-1\n" +
		"order: 2\n" +
		"activeProject: true\n" +
		"tags:\n" +
		"  - holos/track\n" +
		"---\n" +
		"body text"

	fm, err := ParseFrontmatter(doc)
	if err != nil {
		t.Fatalf("ParseFrontmatter() error: %v", err)
	}

	if got := FMString(fm, "id"); got != "track-1" {
		t.Errorf("id = %q", got)
	}
	if got, ok := FMInt(fm, "order"); !ok || got != 2 {
		t.Errorf("order = %d, %v", got, ok)
	}
	if !FMBool(fm, "activeProject") {
		t.Error("activeProject = false")
	}
	if got := FMStrings(fm, "tags"); !reflect.DeepEqual(got, []string{"holos/track"}) {
		t.Errorf("tags = %v", got)
	}
}

func TestParseFrontmatterAbsent(t *testing.T) {
	fm, err := ParseFrontmatter("just a note\nwith lines")
	if err != nil {
		t.Fatalf("ParseFrontmatter() error: %v", err)
	}
	if len(fm) != 0 {
		t.Errorf("expected empty map, got %v", fm)
	}
}

func TestParseFrontmatterUnclosed(t *testing.T) {
	fm, err := ParseFrontmatter("---\nid: x\nno closing delimiter")
	if err != nil {
		t.Fatalf("ParseFrontmatter() error: %v", err)
	}
	if len(fm) != 0 {
		t.Errorf("unclosed block should parse as no frontmatter, got %v", fm)
	}
}

func TestFrontmatterMissingKeys(t *testing.T) {
	fm := map[string]any{"n": "not a number"}

	if got := FMString(fm, "missing"); got != "" {
		t.Errorf("FMString(missing) = %q", got)
	}
	if _, ok := FMInt(fm, "n"); ok {
		t.Error("FMInt accepted a string")
	}
	if FMBool(fm, "missing") {
		t.Error("FMBool(missing) = true")
	}
	if got := FMStrings(fm, "missing"); got != nil {
		t.Errorf("FMStrings(missing) = %v", got)
	}
}

func TestRenderFrontmatterRoundTrip(t *testing.T) {
	fm := map[string]any{"id": "p-1", "order": 3}
	body := "description\n## Habits\n- Run"

	doc, err := RenderFrontmatter(fm, body)
	if err != nil {
		t.Fatalf("RenderFrontmatter() error: %v", err)
	}
	if !strings.HasSuffix(doc, body) {
		t.Errorf("body not preserved: %q", doc)
	}

	parsed, err := ParseFrontmatter(doc)
	if err != nil {
		t.Fatalf("reparse error: %v", err)
	}
	if got := FMString(parsed, "id"); got != "p-1" {
		t.Errorf("id = %q", got)
	}
	if got, _ := FMInt(parsed, "order"); got != 3 {
		t.Errorf("order = %d", got)
	}
}
