package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// ParseFile reads a JSONL audit log. The log is append-only across versions,
// so lines that do not decode to a known operation are skipped and counted
// instead of failing the read; a damaged line must not hide the rest of the
// history. A missing file is an empty history.
func ParseFile(path string) ([]Entry, int, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, nil
		}
		return nil, 0, err
	}
	defer f.Close()

	var entries []Entry
	skipped := 0
	s := bufio.NewScanner(f)
	buf := make([]byte, 0, 64*1024)
	s.Buffer(buf, 2*1024*1024)
	for s.Scan() {
		line := bytes.TrimSpace(s.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			skipped++
			continue
		}
		if entry.Operation != OpScrub && entry.Operation != OpDescrub {
			skipped++
			continue
		}
		entries = append(entries, entry)
	}
	if err := s.Err(); err != nil {
		return nil, skipped, fmt.Errorf("scan audit log: %w", err)
	}
	return entries, skipped, nil
}
