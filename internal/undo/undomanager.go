/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package undo keeps in-memory undo/redo stacks of script text, one stack per
// script file, with memory and depth caps.
package undo

import (
	"sync"
	"time"
)

// Snapshot is one reversible version of a script's text.
// Size is estimated as len(Text). TS is when the snapshot was captured.
type Snapshot struct {
	Path string
	Text string
	TS   time.Time
}

// Config controls memory and depth caps and coalescing behavior.
type Config struct {
	// MaxBytes is a soft cap; older entries are pruned when exceeded.
	MaxBytes int
	// MaxPerScript limits snapshots kept per script (0 means unlimited).
	MaxPerScript int
	// MinInterval coalesces snapshots captured within the interval for the
	// same script, replacing the previous one instead of pushing a new entry.
	MinInterval time.Duration
}

// Manager provides an in-memory undo/redo stack per script with performance
// safeguards. It is safe for concurrent use.
type Manager struct {
	cfg Config
	mu  sync.Mutex
	// per-script stacks
	undo map[string][]Snapshot
	redo map[string][]Snapshot
	// accounting
	totalBytes int
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 16 * 1024 * 1024 // 16 MiB
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	return &Manager{cfg: cfg, undo: make(map[string][]Snapshot), redo: make(map[string][]Snapshot)}
}

// PushSnapshot records a snapshot for a script. If within MinInterval from the
// last snapshot of the same script, it replaces the last one. Clears the redo
// stack for that script.
func (m *Manager) PushSnapshot(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[s.Path]
	if n := len(stack); n > 0 {
		last := stack[n-1]
		if s.TS.Sub(last.TS) < m.cfg.MinInterval {
			// Coalesce: adjust accounting and replace
			m.totalBytes -= len(last.Text)
			m.totalBytes += len(s.Text)
			stack[n-1] = s
			m.undo[s.Path] = stack
			m.redo[s.Path] = nil
			m.enforceCapsLocked(s.Path)
			return
		}
	}
	stack = append(stack, s)
	m.undo[s.Path] = stack
	m.totalBytes += len(s.Text)
	// Any new change invalidates redo for the script
	m.redo[s.Path] = nil
	m.enforceCapsLocked(s.Path)
}

// Undo pops from the script's undo stack and pushes to redo, returning the
// snapshot.
func (m *Manager) Undo(path string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[path]
	if len(stack) == 0 {
		return Snapshot{}, false
	}
	s := stack[len(stack)-1]
	m.undo[path] = stack[:len(stack)-1]
	m.totalBytes -= len(s.Text)
	m.redo[path] = append(m.redo[path], s)
	return s, true
}

// Redo pops from redo and pushes back to undo.
func (m *Manager) Redo(path string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.redo[path]
	if len(r) == 0 {
		return Snapshot{}, false
	}
	s := r[len(r)-1]
	m.redo[path] = r[:len(r)-1]
	m.undo[path] = append(m.undo[path], s)
	m.totalBytes += len(s.Text)
	m.enforceCapsLocked(path)
	return s, true
}

// ClearScript drops undo/redo stacks for a script to free memory.
func (m *Manager) ClearScript(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.undo[path] {
		m.totalBytes -= len(s.Text)
	}
	delete(m.undo, path)
	delete(m.redo, path)
	if m.totalBytes < 0 {
		m.totalBytes = 0
	}
}

// Stats returns current sizes for diagnostics.
func (m *Manager) Stats() (totalBytes int, scripts int, totalSnapshots int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	scripts = len(m.undo)
	for _, v := range m.undo {
		totalSnapshots += len(v)
	}
	return m.totalBytes, scripts, totalSnapshots
}

func (m *Manager) enforceCapsLocked(path string) {
	// Per-script depth cap
	if m.cfg.MaxPerScript > 0 {
		stack := m.undo[path]
		if len(stack) > m.cfg.MaxPerScript {
			toDrop := len(stack) - m.cfg.MaxPerScript
			for i := 0; i < toDrop; i++ {
				m.totalBytes -= len(stack[i].Text)
			}
			m.undo[path] = append([]Snapshot{}, stack[toDrop:]...)
		}
	}
	// Global memory cap: prune oldest across all scripts
	for m.cfg.MaxBytes > 0 && m.totalBytes > m.cfg.MaxBytes {
		oldestPath := ""
		oldestIdx := -1
		var oldestTS time.Time
		for p, stack := range m.undo {
			if len(stack) == 0 {
				continue
			}
			if oldestIdx == -1 || stack[0].TS.Before(oldestTS) {
				oldestPath = p
				oldestIdx = 0
				oldestTS = stack[0].TS
			}
		}
		if oldestIdx == -1 {
			break
		}
		stack := m.undo[oldestPath]
		m.totalBytes -= len(stack[0].Text)
		m.undo[oldestPath] = stack[1:]
		if len(m.undo[oldestPath]) == 0 {
			delete(m.undo, oldestPath)
		}
	}
}
