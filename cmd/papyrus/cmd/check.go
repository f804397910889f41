package cmd

import (
	"context"
	"fmt"
	"maps"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pacer/papyrus/internal/config"
	"github.com/pacer/papyrus/internal/papyrus"
)

func newCheckCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check PATH...",
		Short: "Report syntax errors in Papyrus scripts",
		Long: `Report syntax errors in scripts.

Directories are searched for files with one of the configured extensions.
Files are parsed in parallel. The exit status is 1 when any error is found.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := checkPaths(cmd.Context(), opts, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			count := renderReport(out, newStyles(out, opts.color()), results)

			return syntaxErrors(count)
		},
	}
}

// checkPaths reads every script under 'paths' and parses them concurrently.
func checkPaths(ctx context.Context, opts *options, paths []string) (map[string]*papyrus.FileResult, error) {
	started := time.Now()

	files, err := collectFiles(paths, opts.cfg.Workspace)
	if err != nil {
		return nil, err
	}

	results, err := papyrus.ParseFilesInWorkspace(ctx, files, opts.cfg.Workspace.Concurrency, opts.parserOptions()...)
	if err != nil {
		return nil, err
	}

	opts.logger.Debug("checked scripts",
		"files", len(results),
		"duration", time.Since(started),
	)

	return results, nil
}

// collectFiles loads explicit files whatever their extension, and the scripts found
// below each directory.
func collectFiles(paths []string, workspace config.WorkspaceConfig) (map[string][]byte, error) {
	files := make(map[string][]byte)

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open path: %w", err)
		}

		if !info.IsDir() {
			content, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read script: %w", err)
			}

			files[path] = content
			continue
		}

		found, err := papyrus.OpenProjectFiles(path, workspace.Extensions, workspace.MaxDirDepth)
		if err != nil {
			return nil, err
		}

		maps.Copy(files, found)
	}

	return files, nil
}
