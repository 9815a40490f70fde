package fileio

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// IslandOption names which of the three delimiter forms opened an island.
type IslandOption string

const (
	// IslandHeader marks a $header(id) ... $end block.
	IslandHeader IslandOption = "$header"
	// IslandBegin marks a $begin(id) ... $end block.
	IslandBegin IslandOption = "$begin"
	// IslandBody marks a $body(id) ... $end block.
	IslandBody IslandOption = "$body"
)

// Island is one user-editable region preserved across regenerations.
type Island struct {
	Option IslandOption
	ID     string
	Body   string
}

// ErrNestedIsland is returned by ParseIslands when a $begin/$header/$body
// line appears while another island is still open: nesting one island
// inside another is not supported.
var ErrNestedIsland = fmt.Errorf("fileio: nested island delimiter")

var islandOpeners = map[IslandOption]bool{
	IslandHeader: true,
	IslandBegin:  true,
	IslandBody:   true,
}

// parseOpener reports whether line opens an island, returning its option
// and id. A line opens an island when it starts with "$header(", "$begin("
// or "$body(" followed by a close paren.
func parseOpener(line string) (IslandOption, string, bool) {
	trimmed := strings.TrimSpace(line)
	for opt := range islandOpeners {
		prefix := string(opt) + "("
		if !strings.HasPrefix(trimmed, prefix) {
			continue
		}
		rest := trimmed[len(prefix):]
		close := strings.IndexByte(rest, ')')
		if close < 0 {
			continue
		}
		return opt, rest[:close], true
	}
	return "", "", false
}

func isEnd(line string) bool {
	return strings.TrimSpace(line) == "$end"
}

// ParseIslands scans an existing file's content for code islands and
// returns them keyed by id. It is used when opening a file that already
// exists on disk, so regeneration can preserve user-authored regions.
func ParseIslands(r io.Reader) (map[string]*Island, error) {
	islands := make(map[string]*Island)

	scanner := bufio.NewScanner(r)
	var open *Island
	var body strings.Builder

	for scanner.Scan() {
		line := scanner.Text()

		if opt, id, ok := parseOpener(line); ok {
			if open != nil {
				return nil, fmt.Errorf("%w: %q opened while %q is still open", ErrNestedIsland, id, open.ID)
			}
			open = &Island{Option: opt, ID: id}
			body.Reset()
			continue
		}

		if isEnd(line) {
			if open == nil {
				continue
			}
			open.Body = body.String()
			islands[open.ID] = open
			open = nil
			continue
		}

		if open != nil {
			body.WriteString(line)
			body.WriteByte('\n')
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return islands, nil
}

// Render writes the island back out in its original delimiter form,
// including the trailing $end, for verbatim re-emission when the new
// content did not reference it.
func (isl *Island) Render(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s(%s)\n", isl.Option, isl.ID); err != nil {
		return err
	}
	if _, err := io.WriteString(w, isl.Body); err != nil {
		return err
	}
	_, err := io.WriteString(w, "$end\n")
	return err
}
