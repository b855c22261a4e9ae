package ledger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hupe1980/taskmesh/core"
)

// FileLedger is an append-only JSONL event log backed by a single file. One
// event is written per line in one write call, and an in-process mutex
// serializes appends, so concurrent workers never interleave partial
// records. Reads always start from the beginning of the file; lines that do
// not parse as an event are skipped, which keeps a log readable after a
// crash mid-append.
type FileLedger struct {
	mu   sync.Mutex
	path string
}

// NewFileLedger creates (or reopens) a ledger at the given path, creating
// parent directories as needed. An existing file is never truncated.
func NewFileLedger(path string) (*FileLedger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &core.LedgerWriteError{Err: err}
	}
	return &FileLedger{path: path}, nil
}

// Path returns the location of the backing file.
func (l *FileLedger) Path() string { return l.path }

// Append writes one event as a single JSON line. The file is opened in
// append mode per call so the ledger survives process restarts without a
// long-lived handle. I/O failures surface as *core.LedgerWriteError.
func (l *FileLedger) Append(ev core.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return &core.LedgerWriteError{Err: err}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &core.LedgerWriteError{Err: err}
	}
	// Single write keeps the record atomic under O_APPEND.
	if _, err := f.Write(append(data, '\n')); err != nil {
		_ = f.Close()
		return &core.LedgerWriteError{Err: err}
	}
	if err := f.Close(); err != nil {
		return &core.LedgerWriteError{Err: err}
	}
	return nil
}

// ReadAll returns every parseable event in physical append order. Each call
// is a fresh pass over the file; a missing file yields an empty ledger.
func (l *FileLedger) ReadAll() ([]core.Event, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []core.Event{}, nil
		}
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	defer f.Close()

	events := []core.Event{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev core.Event
		if err := json.Unmarshal(line, &ev); err != nil {
			continue // tolerate partial trailing records
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return events, nil
}

// Archive copies the ledger file to dest, creating a timestamped file under
// an archive/ sibling directory when dest is empty. The live ledger is left
// untouched; callers typically Clear afterwards. Returns the archive path.
// Archiving is an external lifecycle step - the engine never calls this.
func (l *FileLedger) Archive(dest string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	src, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("archive ledger: %w", err)
	}
	defer src.Close()

	if dest == "" {
		dir := filepath.Join(filepath.Dir(l.path), "archive")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("archive ledger: %w", err)
		}
		dest = filepath.Join(dir, fmt.Sprintf("events_%s.jsonl", time.Now().UTC().Format("20060102_150405")))
	}

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("archive ledger: %w", err)
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("archive ledger: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("archive ledger: %w", err)
	}
	return dest, nil
}

// Clear removes the backing file so the path can be reused for a new
// session. Like Archive, this is for external callers after PlanComplete.
func (l *FileLedger) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear ledger: %w", err)
	}
	return nil
}
