// Package section locates and splices heading-delimited regions of a
// markdown document.
//
// A section is the body between a heading whose trimmed text equals the
// requested label and the next heading of equal or higher level. Splicing
// regenerates exactly that body and leaves every other byte of the
// document untouched.
package section

import (
	"errors"
	"strings"
)

// ErrNoFrontMatter is returned by ReplaceFirst when the document carries no
// front-matter delimiter, leaving the description zone's start undefined.
var ErrNoFrontMatter = errors.New("no front matter delimiter found")

const frontMatterDelim = "---"

// headingLevel reports the heading level (1-6) and label of a line, or
// level 0 for non-heading lines.
func headingLevel(line string) (int, string) {
	trimmed := strings.TrimSpace(line)
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return 0, ""
	}
	rest := trimmed[level:]
	if !strings.HasPrefix(rest, " ") {
		return 0, ""
	}
	return level, strings.TrimSpace(rest)
}

// Extract returns the body of the section under the heading whose text
// equals label. A missing heading yields an empty body, which callers treat
// as zero records rather than an error.
func Extract(doc, label string) string {
	lines := strings.Split(doc, "\n")

	var body []string
	inSection := false
	sectionLevel := 0

	for _, line := range lines {
		level, text := headingLevel(line)
		if !inSection {
			if level > 0 && text == label {
				inSection = true
				sectionLevel = level
			}
			continue
		}
		if level > 0 && level <= sectionLevel {
			break
		}
		body = append(body, line)
	}

	return strings.Join(body, "\n")
}

// ExtractFirst returns the free-text description zone of a document: the
// lines after any leading front-matter block and before the first heading.
func ExtractFirst(doc string) string {
	lines := strings.Split(doc, "\n")
	i := skipFrontMatter(lines)

	var body []string
	for ; i < len(lines); i++ {
		if level, _ := headingLevel(lines[i]); level > 0 {
			break
		}
		body = append(body, lines[i])
	}

	return strings.TrimSpace(strings.Join(body, "\n"))
}

// skipFrontMatter returns the index of the first line after a leading
// front-matter block, or 0 if the document has none.
func skipFrontMatter(lines []string) int {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != frontMatterDelim {
		return 0
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontMatterDelim {
			return i + 1
		}
	}
	return 0
}

// Replace substitutes the body of the labelled section with newBody,
// leaving all other text byte-identical. If the heading is absent the
// section is appended at the end of the document after a blank line.
func Replace(doc, label, newBody string) string {
	lines := strings.Split(doc, "\n")

	var out []string
	inSection := false
	sectionLevel := 0
	spliced := false

	for _, line := range lines {
		level, text := headingLevel(line)

		if inSection {
			if level > 0 && level <= sectionLevel {
				inSection = false
			} else {
				continue
			}
		}

		if !spliced && level > 0 && text == label {
			out = append(out, line, newBody)
			inSection = true
			sectionLevel = level
			spliced = true
			continue
		}

		out = append(out, line)
	}

	if !spliced {
		out = append(out, "", "## "+label, newBody)
	}

	return strings.Join(out, "\n")
}

// ReplaceFirst substitutes the description zone before the first heading.
// Without a front-matter block the zone's start is undefined, so the
// document is returned unchanged along with ErrNoFrontMatter.
func ReplaceFirst(doc, newBody string) (string, error) {
	lines := strings.Split(doc, "\n")
	start := skipFrontMatter(lines)
	if start == 0 {
		return doc, ErrNoFrontMatter
	}

	out := make([]string, 0, len(lines))
	out = append(out, lines[:start]...)
	out = append(out, newBody)

	for i := start; i < len(lines); i++ {
		if level, _ := headingLevel(lines[i]); level > 0 {
			out = append(out, lines[i:]...)
			break
		}
	}

	return strings.Join(out, "\n"), nil
}
