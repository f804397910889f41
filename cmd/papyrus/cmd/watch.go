package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/pacer/papyrus/internal/papyrus"
)

func newWatchCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch DIR",
		Short: "Check a directory again whenever a script changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			root := args[0]
			out := cmd.OutOrStdout()
			s := newStyles(out, opts.color())

			results, err := checkPaths(ctx, opts, args)
			if err != nil {
				return err
			}

			renderReport(out, s, results)

			w, err := newScriptWatcher(root, opts.cfg.Workspace.MaxDirDepth, opts.cfg.Workspace.Extensions, opts.logger)
			if err != nil {
				return err
			}

			opts.logger.Info("watching scripts", "dir", root)

			return w.Run(ctx, opts.cfg.Watch.Debounce.Duration, func(changed []string) {
				files := make(map[string][]byte, len(changed))

				for _, path := range changed {
					content, err := os.ReadFile(path)
					if errors.Is(err, fs.ErrNotExist) {
						fmt.Fprintf(out, "%s removed\n", path)
						continue
					}

					if err != nil {
						opts.logger.Warn("unable to read script", "file", path, "error", err)
						continue
					}

					files[path] = content
				}

				if len(files) == 0 {
					return
				}

				results, err := papyrus.ParseFilesInWorkspace(ctx, files, opts.cfg.Workspace.Concurrency, opts.parserOptions()...)
				if err != nil {
					opts.logger.Warn("check interrupted", "error", err)
					return
				}

				renderReport(out, s, results)
			})
		},
	}
}

// scriptWatcher reports changes to script files below a directory tree.
// fsnotify is not recursive: every directory is watched on its own, new ones included.
type scriptWatcher struct {
	watcher    *fsnotify.Watcher
	root       string
	maxDepth   int
	extensions []string
	logger     *slog.Logger
}

func newScriptWatcher(root string, maxDepth int, extensions []string, logger *slog.Logger) (*scriptWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &scriptWatcher{
		watcher:    watcher,
		root:       filepath.Clean(root),
		maxDepth:   maxDepth,
		extensions: extensions,
		logger:     logger,
	}

	if err := w.addTree(w.root); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	return w, nil
}

func (w *scriptWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !entry.IsDir() {
			return nil
		}

		if papyrus.DirectoryDepth(w.root, path) > w.maxDepth {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory: %w", err)
		}

		return nil
	})
}

// Run calls 'onChange' with the scripts changed since the last call, once no event
// arrived for 'debounce'. It returns when 'ctx' is done and closes the watcher.
func (w *scriptWatcher) Run(ctx context.Context, debounce time.Duration, onChange func(changed []string)) error {
	defer w.watcher.Close()

	pending := make(map[string]struct{})

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}

			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.logger.Warn("unable to watch new directory", "dir", event.Name, "error", err)
					}

					continue
				}
			}

			if !papyrus.HasFileExtension(event.Name, w.extensions) || event.Op == fsnotify.Chmod {
				continue
			}

			w.logger.Debug("script changed", "file", event.Name, "op", event.Op.String())
			pending[event.Name] = struct{}{}

			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}

			fire = timer.C

		case <-fire:
			fire = nil

			changed := make([]string, 0, len(pending))
			for path := range pending {
				changed = append(changed, path)
			}

			clear(pending)
			slices.Sort(changed)

			onChange(changed)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			w.logger.Error("watcher error", "error", err)
		}
	}
}
