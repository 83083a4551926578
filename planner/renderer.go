// Package planner converts free-text implementation plans into ordered todo
// drafts. Parsing is line-oriented and best-effort: segments the parser cannot
// shape into a valid draft are skipped, never fatal.
package planner

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"github.com/planwing/planwing/models"
)

// DefaultComplexity is assigned to a draft whose segment carries no parseable
// complexity annotation.
const DefaultComplexity = 5

// complexityRe matches a "Complexity: N" annotation line, tolerating list
// markers, blockquote markers, and bold asterisks around the label.
var complexityRe = regexp.MustCompile(`(?i)^[\s*>•-]*complexity[\s*]*[:=][\s*]*(\d+)`)

// RenderPlan splits plan text into todo drafts, one per heading segment, in
// source order. The rules are fixed so behavior stays reproducible:
//
//   - A line whose trimmed form starts with "# " or "## " opens a new draft;
//     the heading remainder is the title. Text before the first heading is
//     ignored. "###" and deeper headings stay in the description.
//   - A "Complexity: N" line sets the draft's complexity (first annotation
//     wins, values clamp to the model's 1–10 range); absent or unparseable
//     annotations leave DefaultComplexity in place.
//   - The first fenced code block (``` ... ```) becomes the code example.
//     Later blocks stay in the description verbatim. A fence left open runs
//     to the end of the text.
//   - Every other non-blank line joins the description.
//
// A draft with a blank title or blank description is dropped. The returned
// slice is never nil.
func RenderPlan(text string) []models.TodoFields {
	drafts := []models.TodoFields{}

	var (
		current   *segment
		inFence   bool
		fenceBody []string
	)

	flush := func() {
		if current == nil {
			return
		}
		if draft, ok := current.draft(); ok {
			drafts = append(drafts, draft)
		}
		current = nil
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)

		if inFence {
			if strings.HasPrefix(trimmed, "```") {
				inFence = false
				if current != nil {
					current.setCode(strings.Join(fenceBody, "\n"))
				}
				fenceBody = nil
				continue
			}
			fenceBody = append(fenceBody, line)
			continue
		}

		if title, ok := headingTitle(trimmed); ok {
			flush()
			current = &segment{title: title, complexity: DefaultComplexity}
			continue
		}
		if current == nil {
			// Preamble before the first heading.
			continue
		}

		if strings.HasPrefix(trimmed, "```") {
			rest := trimmed[3:]
			if end := strings.Index(rest, "```"); end >= 0 {
				// Single-line block such as ```code```.
				current.setCode(rest[:end])
				continue
			}
			inFence = true
			fenceBody = nil
			continue
		}

		if m := complexityRe.FindStringSubmatch(trimmed); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				current.setComplexity(clampComplexity(n))
			}
			continue
		}

		if trimmed != "" {
			current.body = append(current.body, line)
		}
	}
	if inFence && current != nil {
		current.setCode(strings.Join(fenceBody, "\n"))
	}
	flush()

	return drafts
}

// segment accumulates one heading's worth of plan text.
type segment struct {
	title         string
	body          []string
	complexity    int
	complexitySet bool
	code          string
	codeSet       bool
}

func (s *segment) setComplexity(n int) {
	if s.complexitySet {
		return
	}
	s.complexity = n
	s.complexitySet = true
}

func (s *segment) setCode(code string) {
	if s.codeSet {
		// Only the first block becomes the example; keep later ones as text.
		s.body = append(s.body, "```", code, "```")
		return
	}
	s.code = code
	s.codeSet = true
}

// draft finalizes the segment, reporting whether it forms a usable todo.
func (s *segment) draft() (models.TodoFields, bool) {
	title := strings.TrimSpace(s.title)
	description := strings.TrimSpace(strings.Join(s.body, "\n"))
	if title == "" || description == "" {
		return models.TodoFields{}, false
	}
	return models.TodoFields{
		Title:       title,
		Description: description,
		Complexity:  s.complexity,
		CodeExample: s.code,
	}, true
}

// headingTitle reports whether the line is a level-1 or level-2 markdown
// heading, returning its text.
func headingTitle(trimmed string) (string, bool) {
	if rest, ok := strings.CutPrefix(trimmed, "## "); ok {
		return strings.TrimSpace(rest), true
	}
	if rest, ok := strings.CutPrefix(trimmed, "# "); ok {
		return strings.TrimSpace(rest), true
	}
	return "", false
}

func clampComplexity(n int) int {
	if n < models.MinComplexity {
		return models.MinComplexity
	}
	if n > models.MaxComplexity {
		return models.MaxComplexity
	}
	return n
}
