package fixes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// RenderDiff renders the fix as a unified diff against the profile
// file's current content. Edits anchored in other files (the
// source-member insertion of the precompute fix targets the source
// type's file, which the profile does not own) are returned as notes
// instead of hunks.
func RenderDiff(path string, content []byte, f Fix) (string, []string, error) {
	lines := strings.Split(string(content), "\n")

	var hunks []*diff.Hunk
	var notes []string

	for _, e := range f.Edits {
		switch e.Operation {
		case OpInsertSourceMember:
			notes = append(notes, fmt.Sprintf("add to the source type:\n%s", e.Text))
			continue
		case OpInsertComment, OpAppendMemberConfig, OpRemoveMemberConfig, OpRewriteExpression:
		default:
			continue
		}

		line := e.Anchor.Line
		if line < 1 || line > len(lines) {
			line = 1
		}
		anchor := lines[line-1]
		indent := leadingWhitespace(anchor)

		var body strings.Builder
		origLines, newLines := 0, 0
		writeKept := func(s string) {
			body.WriteString(" " + s + "\n")
			origLines++
			newLines++
		}
		writeAdded := func(s string) {
			body.WriteString("+" + s + "\n")
			newLines++
		}
		writeRemoved := func(s string) {
			body.WriteString("-" + s + "\n")
			origLines++
		}

		switch e.Operation {
		case OpAppendMemberConfig:
			writeKept(anchor)
			for _, t := range strings.Split(e.Text, "\n") {
				writeAdded(indent + "    " + t)
			}
		case OpInsertComment:
			for _, t := range strings.Split(e.Text, "\n") {
				writeAdded(indent + t)
			}
			writeKept(anchor)
		case OpRemoveMemberConfig:
			writeRemoved(anchor)
		case OpRewriteExpression:
			writeRemoved(anchor)
			for _, t := range strings.Split(e.Text, "\n") {
				writeAdded(indent + t)
			}
		}

		hunks = append(hunks, &diff.Hunk{
			OrigStartLine: int32(line),
			OrigLines:     int32(origLines),
			NewStartLine:  int32(line),
			NewLines:      int32(newLines),
			Body:          []byte(body.String()),
		})
	}

	if len(hunks) == 0 {
		return "", notes, nil
	}

	fileDiff := &diff.FileDiff{
		OrigName: "a/" + path,
		NewName:  "b/" + path,
		Hunks:    hunks,
	}
	rendered, err := diff.PrintFileDiff(fileDiff)
	if err != nil {
		return "", nil, err
	}
	return string(rendered), notes, nil
}

// ApplyToSource applies the fix to the profile file's content and
// returns the rewritten bytes. Edits anchored in other files become
// notes, as in RenderDiff. Edits are applied bottom-up so anchor lines
// recorded against the original content stay valid.
func ApplyToSource(content []byte, f Fix) ([]byte, []string, error) {
	lines := strings.Split(string(content), "\n")
	var notes []string

	edits := make([]Edit, len(f.Edits))
	copy(edits, f.Edits)
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].Anchor.Line > edits[j].Anchor.Line
	})

	for _, e := range edits {
		switch e.Operation {
		case OpInsertSourceMember:
			notes = append(notes, fmt.Sprintf("add to the source type:\n%s", e.Text))
			continue
		case OpInsertComment, OpAppendMemberConfig, OpRemoveMemberConfig, OpRewriteExpression:
		default:
			continue
		}

		line := e.Anchor.Line
		if line < 1 || line > len(lines) {
			line = 1
		}
		anchor := lines[line-1]
		indent := leadingWhitespace(anchor)

		var inserted []string
		switch e.Operation {
		case OpAppendMemberConfig:
			for _, t := range strings.Split(e.Text, "\n") {
				inserted = append(inserted, indent+"    "+t)
			}
			lines = splice(lines, line, 0, inserted)
		case OpInsertComment:
			for _, t := range strings.Split(e.Text, "\n") {
				inserted = append(inserted, indent+t)
			}
			lines = splice(lines, line-1, 0, inserted)
		case OpRemoveMemberConfig:
			lines = splice(lines, line-1, 1, nil)
		case OpRewriteExpression:
			for _, t := range strings.Split(e.Text, "\n") {
				inserted = append(inserted, indent+t)
			}
			lines = splice(lines, line-1, 1, inserted)
		}
	}

	return []byte(strings.Join(lines, "\n")), notes, nil
}

// splice replaces remove lines at index at with the given replacement.
func splice(lines []string, at, remove int, replacement []string) []string {
	out := make([]string, 0, len(lines)-remove+len(replacement))
	out = append(out, lines[:at]...)
	out = append(out, replacement...)
	out = append(out, lines[at+remove:]...)
	return out
}

func leadingWhitespace(s string) string {
	for i, r := range s {
		if r != ' ' && r != '\t' {
			return s[:i]
		}
	}
	return s
}
