package mapping

import (
	"bufio"
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Mapping state serialization version
const stateVersion = "dexmixer-mapping-v1"

// tableState holds the data that needs to be persisted.
// Use exported fields for gob encoding.
type tableState struct {
	Version  string
	Mappings map[string]string // original -> replacement
}

// SaveState writes the table's entries to filePath as a versioned gob
// snapshot. The write happens under an exclusive lock on filePath+".lock"
// so concurrent runs sharing one mapping file do not interleave.
func (t *Table) SaveState(filePath string) error {
	state := tableState{
		Version:  stateVersion,
		Mappings: t.Snapshot(),
	}

	var buffer bytes.Buffer
	if err := gob.NewEncoder(&buffer).Encode(state); err != nil {
		return fmt.Errorf("failed to encode mapping state: %w", err)
	}

	lock := flock.New(filePath + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock mapping state %s: %w", filePath, err)
	}
	defer lock.Unlock()

	if err := os.WriteFile(filePath, buffer.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write mapping state to file %s: %w", filePath, err)
	}
	return nil
}

// LoadState reads a snapshot written by SaveState and returns its entries.
// A missing file is not an error and yields an empty map.
func LoadState(filePath string) (map[string]string, error) {
	lock := flock.New(filePath + ".lock")
	if err := lock.RLock(); err != nil {
		return nil, fmt.Errorf("failed to lock mapping state %s: %w", filePath, err)
	}
	defer lock.Unlock()

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read mapping state file %s: %w", filePath, err)
	}

	var state tableState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return nil, fmt.Errorf("failed to decode mapping state from file %s: %w", filePath, err)
	}
	if state.Version != stateVersion {
		return nil, fmt.Errorf("incompatible mapping version: file has '%s', expected '%s'", state.Version, stateVersion)
	}
	if state.Mappings == nil {
		state.Mappings = map[string]string{}
	}
	return state.Mappings, nil
}

// WriteText writes snapshot as a retrace map, one `"original" -> "replacement"`
// line per entry, sorted by original. Both sides are Go-quoted with
// non-ASCII escaped so the invisible replacement names stay readable.
func WriteText(w io.Writer, snapshot map[string]string) error {
	bw := bufio.NewWriter(w)
	keys := maps.Keys(snapshot)
	slices.Sort(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(bw, "%s -> %s\n", strconv.QuoteToASCII(k), strconv.QuoteToASCII(snapshot[k])); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadText parses a retrace map written by WriteText. Blank lines and lines
// starting with '#' are skipped.
func ReadText(r io.Reader) (map[string]string, error) {
	out := make(map[string]string)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		orig, repl, err := parseTextLine(line)
		if err != nil {
			return nil, fmt.Errorf("mapping line %d: %w", lineNo, err)
		}
		out[orig] = repl
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("error reading mapping: %w", err)
	}
	return out, nil
}

func parseTextLine(line string) (string, string, error) {
	lhs, err := strconv.QuotedPrefix(line)
	if err != nil {
		return "", "", fmt.Errorf("invalid original %q: %w", line, err)
	}
	rest := strings.TrimSpace(line[len(lhs):])
	if !strings.HasPrefix(rest, "->") {
		return "", "", fmt.Errorf("missing '->' in %q", line)
	}
	rest = strings.TrimSpace(rest[len("->"):])
	rhs, err := strconv.QuotedPrefix(rest)
	if err != nil {
		return "", "", fmt.Errorf("invalid replacement %q: %w", rest, err)
	}
	if strings.TrimSpace(rest[len(rhs):]) != "" {
		return "", "", fmt.Errorf("trailing data in %q", line)
	}
	orig, _ := strconv.Unquote(lhs)
	repl, _ := strconv.Unquote(rhs)
	return orig, repl, nil
}
