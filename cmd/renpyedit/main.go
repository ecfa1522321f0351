/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// renpyedit is the command line front end for the script engine: it formats
// and checks .rpy files, exports screenplays, and manages snapshot history.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/libangli218/renpy-visual-editor-sub000/internal/config"
	"github.com/libangli218/renpy-visual-editor-sub000/internal/crash"
	"github.com/libangli218/renpy-visual-editor-sub000/internal/export"
	"github.com/libangli218/renpy-visual-editor-sub000/internal/extract"
	applog "github.com/libangli218/renpy-visual-editor-sub000/internal/log"
	"github.com/libangli218/renpy-visual-editor-sub000/internal/script"
	"github.com/libangli218/renpy-visual-editor-sub000/internal/storage"
	"github.com/libangli218/renpy-visual-editor-sub000/internal/undo"
	"github.com/libangli218/renpy-visual-editor-sub000/internal/version"
)

func main() {
	defer func() { crash.Recover(nil) }()

	// Optional .env for local overrides; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
	}
	applog.Init(applog.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})

	root := newRootCmd(cfg)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg config.AppConfig) *cobra.Command {
	root := &cobra.Command{
		Use:           "renpyedit",
		Short:         "Visual novel script tool: parse, format, and export .rpy files",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		newFmtCmd(cfg),
		newCheckCmd(),
		newExportCmd(),
		newInitCmd(),
		newHistoryCmd(cfg),
		newVersionCmd(),
	)
	return root
}

func newFmtCmd(cfg config.AppConfig) *cobra.Command {
	var write bool
	var indent int
	var blankLines bool
	cmd := &cobra.Command{
		Use:   "fmt <file.rpy>...",
		Short: "Reformat script files to canonical layout",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &script.GenerateOptions{IndentSize: indent, InsertBlankLines: blankLines}
			// Pre-overwrite texts go through the undo manager so a failure
			// midway restores every file already rewritten in this run.
			um := undo.NewManager(undo.Config{})
			var written []string
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					restoreWritten(um, written)
					return fmt.Errorf("read %s: %w", path, err)
				}
				tree, rep := script.Parse(string(data), path)
				for _, w := range rep.Warnings {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s:%d: warning: %s\n", path, w.Line, w.Message)
				}
				out := script.Generate(tree, opts)
				if write {
					um.PushSnapshot(undo.Snapshot{Path: path, Text: string(data), TS: time.Now()})
					if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
						restoreWritten(um, written)
						return fmt.Errorf("write %s: %w", path, err)
					}
					written = append(written, path)
					applog.WithComponent("cli").Info("formatted", "file", path)
				} else {
					fmt.Fprint(cmd.OutOrStdout(), out)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite files in place instead of printing")
	cmd.Flags().IntVar(&indent, "indent", cfg.Editor.IndentSize, "spaces per indent level")
	cmd.Flags().BoolVar(&blankLines, "blank-lines", cfg.Editor.InsertBlankLines, "insert blank lines between top-level blocks")
	return cmd
}

// restoreWritten puts the pre-format text back for every file the current fmt
// run has already rewritten.
func restoreWritten(um *undo.Manager, paths []string) {
	for _, p := range paths {
		if s, ok := um.Undo(p); ok {
			if err := os.WriteFile(p, []byte(s.Text), 0o644); err != nil {
				applog.WithComponent("cli").Error("restore failed", "file", p, "err", err)
			}
		}
	}
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file.rpy>...",
		Short: "Parse scripts, verify round-trip stability, report unresolved labels",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var trees []*script.Script
			issues := 0
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				tree, rep := script.Parse(string(data), path)
				trees = append(trees, tree)
				for _, e := range rep.Errors {
					fmt.Fprintf(cmd.OutOrStdout(), "%s:%d: error: %s\n", path, e.Line, e.Message)
					issues++
				}
				for _, w := range rep.Warnings {
					fmt.Fprintf(cmd.OutOrStdout(), "%s:%d: warning: %s\n", path, w.Line, w.Message)
				}
				// Formatting must be a fixed point: format(parse(format(tree)))
				// equals format(tree).
				once := script.Generate(tree, nil)
				reparsed, _ := script.Parse(once, path)
				if twice := script.Generate(reparsed, nil); twice != once {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: formatting is not idempotent\n", path)
					issues++
				}
			}
			cr := extract.LabelCrossRefs(trees...)
			for _, ref := range cr.Orphan {
				fmt.Fprintf(cmd.OutOrStdout(), "line %d: %s target %q has no label\n", ref.Line, ref.Kind, ref.Target)
				issues++
			}
			for _, name := range cr.Unused {
				fmt.Fprintf(cmd.OutOrStdout(), "label %q is never referenced\n", name)
			}
			if issues > 0 {
				return fmt.Errorf("%d issue(s) found", issues)
			}
			return nil
		},
	}
	return cmd
}

func newExportCmd() *cobra.Command {
	var out string
	var title string
	var logic bool
	cmd := &cobra.Command{
		Use:   "export <file.rpy>",
		Short: "Export a script as a screenplay PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			tree, rep := script.Parse(string(data), path)
			if len(rep.Errors) > 0 {
				return fmt.Errorf("%s has %d parse error(s), run check first", path, len(rep.Errors))
			}
			if out == "" {
				out = strings.TrimSuffix(path, filepath.Ext(path)) + ".pdf"
			}
			lookup := make(map[string]string)
			for _, c := range extract.Characters(tree) {
				lookup[c.ID] = c.DisplayName
			}
			err = export.ExportScriptPDF(tree, out, export.PDFOptions{
				Title:         title,
				IncludeLogic:  logic,
				SpeakerLookup: lookup,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default: input with .pdf extension)")
	cmd.Flags().StringVar(&title, "title", "", "document title")
	cmd.Flags().BoolVar(&logic, "logic", false, "include jumps, calls and conditions in the output")
	return cmd
}

func newInitCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "init <dir>",
		Short: "Create a new project directory with a manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]
			if name == "" {
				name = filepath.Base(root)
			}
			if _, err := storage.InitProject(root, name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "initialized project %q at %s\n", name, root)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "project name (default: directory name)")
	return cmd
}

func newHistoryCmd(cfg config.AppConfig) *cobra.Command {
	var root string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage script snapshot history",
	}
	cmd.PersistentFlags().StringVar(&root, "project", ".", "project root directory")

	save := &cobra.Command{
		Use:   "save <file.rpy>",
		Short: "Store the current text of a script in the history database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(filepath.Join(root, args[0]))
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			h, err := storage.InitOrOpenHistory(root)
			if err != nil {
				return err
			}
			defer h.Close()
			id, err := h.SaveSnapshot(filepath.ToSlash(args[0]), string(data))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "snapshot %d saved\n", id)
			return nil
		},
	}

	var limit int
	list := &cobra.Command{
		Use:   "list <file.rpy>",
		Short: "List stored snapshots for a script, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := storage.InitOrOpenHistory(root)
			if err != nil {
				return err
			}
			defer h.Close()
			snaps, err := h.ListSnapshots(filepath.ToSlash(args[0]), limit)
			if err != nil {
				return err
			}
			for _, s := range snaps {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%d bytes\n", s.ID, s.CreatedAt.Format("2006-01-02 15:04:05"), len(s.Text))
			}
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "maximum snapshots to list")

	var keep int
	prune := &cobra.Command{
		Use:   "prune <file.rpy>",
		Short: "Delete old snapshots, keeping the newest ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := storage.InitOrOpenHistory(root)
			if err != nil {
				return err
			}
			defer h.Close()
			n, err := h.PruneSnapshots(filepath.ToSlash(args[0]), keep)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d snapshot(s)\n", n)
			return nil
		},
	}
	prune.Flags().IntVar(&keep, "keep", cfg.Editor.SnapshotKeep, "snapshots to keep")

	cmd.AddCommand(save, list, prune)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
