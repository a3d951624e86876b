package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Cursor stores load progress so an interrupted run can resume.
type Cursor struct {
	Input          string    `json:"input"`
	LineOffset     int       `json:"line_offset"`
	TotalProcessed int       `json:"total_processed"`
	TotalFailed    int       `json:"total_failed"`
	Done           bool      `json:"done"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// cursorTracker is a thread-safe progress tracker with periodic saves.
type cursorTracker struct {
	mu        sync.Mutex
	cursor    Cursor
	path      string
	saveEvery int
	dirty     bool
	logger    *zap.Logger

	// batches finished ahead of nextSeq, keyed by sequence number
	pending map[int]int
	nextSeq int
}

// newCursorTracker loads the previous state from dataDir/cursor.json, if any.
func newCursorTracker(dataDir string, saveEvery int, logger *zap.Logger) (*cursorTracker, error) {
	if saveEvery < 1 {
		saveEvery = 1
	}
	path := filepath.Join(filepath.Clean(dataDir), "cursor.json")
	ct := &cursorTracker{
		path:      path,
		saveEvery: saveEvery,
		logger:    logger,
		pending:   make(map[int]int),
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, &ct.cursor); err != nil {
			return nil, fmt.Errorf("parse cursor %s: %w", path, err)
		}
		logger.Info("resume from cursor",
			zap.String("input", ct.cursor.Input),
			zap.Int("line_offset", ct.cursor.LineOffset),
			zap.Int("processed", ct.cursor.TotalProcessed),
		)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read cursor %s: %w", path, err)
	}

	return ct, nil
}

// Get returns a copy of the current cursor.
func (ct *cursorTracker) Get() Cursor {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	return ct.cursor
}

// Start binds the cursor to input. A cursor left by a different input is
// discarded.
func (ct *cursorTracker) Start(input string) Cursor {
	ct.mu.Lock()
	if ct.cursor.Input != input {
		ct.cursor = Cursor{Input: input}
	}
	ct.cursor.UpdatedAt = time.Now()
	ct.dirty = true
	cur := ct.cursor
	ct.mu.Unlock()
	ct.forceSave()
	return cur
}

// Advance records batch seq, which covered lines up to (not including)
// nextLine. The saved offset moves only past a contiguous run of finished
// batches, so a crash never skips a batch that was still in flight.
func (ct *cursorTracker) Advance(seq, nextLine, processed, failed int) {
	ct.mu.Lock()
	ct.pending[seq] = nextLine
	for {
		line, ok := ct.pending[ct.nextSeq]
		if !ok {
			break
		}
		delete(ct.pending, ct.nextSeq)
		ct.cursor.LineOffset = line
		ct.nextSeq++
	}
	ct.cursor.TotalProcessed += processed
	ct.cursor.TotalFailed += failed
	ct.cursor.UpdatedAt = time.Now()
	ct.dirty = true
	shouldSave := ct.cursor.TotalProcessed%ct.saveEvery < processed
	ct.mu.Unlock()

	if shouldSave {
		ct.forceSave()
	}
}

// forceSave writes the cursor atomically (tmp file + rename).
func (ct *cursorTracker) forceSave() {
	ct.mu.Lock()
	if !ct.dirty {
		ct.mu.Unlock()
		return
	}
	data, err := json.MarshalIndent(ct.cursor, "", "  ")
	if err != nil {
		ct.mu.Unlock()
		ct.logger.Warn("cursor marshal failed", zap.Error(err))
		return
	}
	ct.dirty = false
	ct.mu.Unlock()

	tmp := ct.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		ct.logger.Warn("cursor write failed", zap.Error(err))
		ct.markDirty()
		return
	}
	if err := os.Rename(tmp, ct.path); err != nil {
		ct.logger.Warn("cursor rename failed", zap.Error(err))
		ct.markDirty()
	}
}

func (ct *cursorTracker) markDirty() {
	ct.mu.Lock()
	ct.dirty = true
	ct.mu.Unlock()
}

// Finish marks the load complete and saves.
func (ct *cursorTracker) Finish() {
	ct.mu.Lock()
	ct.cursor.Done = true
	ct.cursor.UpdatedAt = time.Now()
	ct.dirty = true
	ct.mu.Unlock()
	ct.forceSave()
}

// Reset clears progress so the next run starts from scratch.
func (ct *cursorTracker) Reset() {
	ct.mu.Lock()
	ct.cursor = Cursor{}
	ct.dirty = true
	ct.mu.Unlock()
	ct.forceSave()
}
