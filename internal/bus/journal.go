package bus

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// JournalTransport rebroadcasts events through an append-only journal file
// watched with fsnotify. It covers single-host multi-process deployments
// that run without redis: every process appends its events and tails the
// appends made by the others.
type JournalTransport struct {
	path   string
	logger *zap.Logger

	mu     sync.Mutex
	writer *os.File

	watcher *fsnotify.Watcher
	offset  int64
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewJournalTransport creates a transport journaling to the given file.
func NewJournalTransport(path string, logger *zap.Logger) *JournalTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JournalTransport{
		path:   path,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Publish appends the encoded event as one journal line.
func (t *JournalTransport) Publish(event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.writer == nil {
		return os.ErrClosed
	}
	_, err = t.writer.Write(append(payload, '\n'))
	return err
}

// Start opens the journal and begins tailing appends. Events already in the
// journal at start are skipped; only new appends are delivered.
func (t *JournalTransport) Start(deliver func(Event)) error {
	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return err
	}

	writer, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	t.writer = writer

	info, err := os.Stat(t.path)
	if err != nil {
		writer.Close()
		return err
	}
	t.offset = info.Size()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		writer.Close()
		return err
	}
	// Watch the parent directory: watching the file directly misses events
	// on some platforms when the file is replaced.
	if err := watcher.Add(filepath.Dir(t.path)); err != nil {
		watcher.Close()
		writer.Close()
		return err
	}
	t.watcher = watcher

	t.wg.Add(1)
	go t.loop(deliver)
	return nil
}

// Close stops the watcher and closes the journal.
func (t *JournalTransport) Close() error {
	close(t.done)
	if t.watcher != nil {
		t.watcher.Close()
	}
	t.wg.Wait()

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.writer != nil {
		err := t.writer.Close()
		t.writer = nil
		return err
	}
	return nil
}

func (t *JournalTransport) loop(deliver func(Event)) {
	defer t.wg.Done()
	for {
		select {
		case <-t.done:
			return
		case event, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(t.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			t.drain(deliver)
		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			t.logger.Warn("journal watcher error", zap.Error(err))
		}
	}
}

// drain reads journal lines appended since the last read position.
func (t *JournalTransport) drain(deliver func(Event)) {
	f, err := os.Open(t.path)
	if err != nil {
		t.logger.Warn("journal open failed", zap.Error(err))
		return
	}
	defer f.Close()

	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		t.logger.Warn("journal seek failed", zap.Error(err))
		return
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		t.offset += int64(len(line)) + 1
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			t.logger.Warn("dropping malformed journal line", zap.Error(err))
			continue
		}
		deliver(event)
	}
}
