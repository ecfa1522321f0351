/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	applog "github.com/libangli218/renpy-visual-editor-sub000/internal/log"
)

//go:embed project.schema.json
var projectSchemaJSON []byte

const (
	// SchemaVersion is the current manifest schema version.
	SchemaVersion = 1

	manifestName = "project.json"
	derivedDir   = ".rve"
	backupsDir   = "backups"
	scriptsDir   = "game"
)

// Project is the manifest stored in project.json.
type Project struct {
	SchemaVersion int         `json:"schemaVersion"`
	Name          string      `json:"name"`
	Metadata      Metadata    `json:"metadata"`
	Scripts       []ScriptRef `json:"scripts"`
}

// Metadata carries free-form descriptive fields.
type Metadata struct {
	Author      string `json:"author,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// ScriptRef points to one script file, relative to the project root.
type ScriptRef struct {
	Path  string `json:"path"`
	Title string `json:"title,omitempty"`
}

// ProjectHandle couples a loaded manifest with its root directory.
type ProjectHandle struct {
	Root    string
	Project *Project
}

// ManifestPath returns the manifest location for a project root.
func ManifestPath(root string) string { return filepath.Join(root, manifestName) }

// ScriptsDir returns the directory that holds the .rpy files.
func ScriptsDir(root string) string { return filepath.Join(root, scriptsDir) }

// DerivedDir returns the directory for derived data (history, backups).
func DerivedDir(root string) string { return filepath.Join(root, derivedDir) }

// InitProject creates the standard project layout under root and writes an
// initial manifest. The root directory may exist but must not already contain
// a manifest.
func InitProject(root, name string) (*ProjectHandle, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("project name must not be empty")
	}
	if _, err := os.Stat(ManifestPath(root)); err == nil {
		return nil, fmt.Errorf("project already exists at %s", root)
	}
	for _, dir := range []string{root, ScriptsDir(root), DerivedDir(root), filepath.Join(DerivedDir(root), backupsDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	p := &Project{
		SchemaVersion: SchemaVersion,
		Name:          name,
		Metadata:      Metadata{CreatedAt: now, UpdatedAt: now},
		Scripts:       []ScriptRef{},
	}
	h := &ProjectHandle{Root: root, Project: p}
	if err := h.Save(); err != nil {
		return nil, err
	}
	applog.WithComponent("storage").Info("project initialized", "root", root, "name", name)
	return h, nil
}

// OpenProject loads and validates the manifest at root. If the manifest is
// unreadable or invalid, the newest backup is tried before giving up.
func OpenProject(root string) (*ProjectHandle, error) {
	p, err := readManifest(ManifestPath(root))
	if err == nil {
		return &ProjectHandle{Root: root, Project: p}, nil
	}
	backup, berr := newestBackup(root)
	if berr != nil || backup == "" {
		return nil, err
	}
	p, berr = readManifest(backup)
	if berr != nil {
		return nil, err
	}
	applog.WithComponent("storage").Warn("manifest recovered from backup",
		"root", root, "backup", filepath.Base(backup), "cause", err)
	return &ProjectHandle{Root: root, Project: p}, nil
}

// Save validates the manifest, backs up the previous one, and writes the new
// manifest atomically via a temp file rename.
func (h *ProjectHandle) Save() error {
	if h == nil || h.Project == nil {
		return fmt.Errorf("no project loaded")
	}
	h.Project.SchemaVersion = SchemaVersion
	h.Project.Metadata.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(h.Project, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := validateManifest(data); err != nil {
		return err
	}

	path := ManifestPath(h.Root)
	if _, err := os.Stat(path); err == nil {
		if err := backupManifest(h.Root, path); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace manifest: %w", err)
	}
	return nil
}

// AddScript registers a script path (relative to the root) in the manifest.
// Adding an already-registered path is a no-op.
func (h *ProjectHandle) AddScript(relPath, title string) {
	for _, s := range h.Project.Scripts {
		if s.Path == relPath {
			return
		}
	}
	h.Project.Scripts = append(h.Project.Scripts, ScriptRef{Path: relPath, Title: title})
}

// ScriptPath resolves a manifest-relative script path against the root.
func (h *ProjectHandle) ScriptPath(ref ScriptRef) string {
	return filepath.Join(h.Root, filepath.FromSlash(ref.Path))
}

func readManifest(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	if err := validateManifest(data); err != nil {
		return nil, err
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if p.SchemaVersion > SchemaVersion {
		return nil, fmt.Errorf("manifest schema version %d is newer than supported %d", p.SchemaVersion, SchemaVersion)
	}
	return &p, nil
}

func validateManifest(data []byte) error {
	schema := gojsonschema.NewBytesLoader(projectSchemaJSON)
	doc := gojsonschema.NewBytesLoader(data)
	res, err := gojsonschema.Validate(schema, doc)
	if err != nil {
		return fmt.Errorf("validate manifest: %w", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("manifest invalid: %s", strings.Join(msgs, "; "))
	}
	return nil
}

func backupManifest(root, path string) error {
	dir := filepath.Join(DerivedDir(root), backupsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	stamp := time.Now().UTC().Format("20060102-150405")
	dst := filepath.Join(dir, fmt.Sprintf("project-%s.json", stamp))
	return copyFile(path, dst)
}

func newestBackup(root string) (string, error) {
	dir := filepath.Join(DerivedDir(root), backupsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "project-") && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", nil
	}
	// Timestamped names sort lexicographically in time order.
	sort.Strings(names)
	return filepath.Join(dir, names[len(names)-1]), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	return out.Close()
}
