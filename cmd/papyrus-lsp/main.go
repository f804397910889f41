// Command papyrus-lsp provides a Language Server Protocol server for Papyrus scripts.
//
// It reports syntax errors as diagnostics and offers folding ranges for 'If' and 'While' blocks.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pacer/papyrus/cmd/papyrus-lsp/lsp"
	"github.com/pacer/papyrus/internal/config"
)

// version is set at build time.
var version = "dev"

const (
	serverName = "Papyrus LSP"
	appName    = "papyrus-lsp"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var cfgFile, logFile string

	cmd := &cobra.Command{
		Use:          appName,
		Short:        "Language server for Papyrus scripts, speaking LSP over stdin and stdout",
		Version:      version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}

			if logFile != "" {
				cfg.Log.File = logFile
			}

			closeLog, err := configureLogging(cfg.Log)
			if err != nil {
				return err
			}
			defer closeLog()

			return newServer(cfg, lsp.NewConn(os.Stdout)).Serve(cmd.Context(), os.Stdin)
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "config file, .toml or .yaml (default: $"+config.EnvConfigPath+")")
	cmd.Flags().StringVar(&logFile, "log-file", "", "log file (default: in the user cache directory)")

	return cmd
}

// createLogFile opens the log file for appending, starting it over once it
// reached MaxLogFileSize.
func createLogFile(path string) (*os.File, error) {
	if path == "" {
		userCachePath, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("no log file given and no cache directory: %w", err)
		}

		path = filepath.Join(userCachePath, appName, appName+".log")
	}

	if err := os.MkdirAll(filepath.Dir(path), lsp.DirPermissions); err != nil {
		return nil, fmt.Errorf("unable to create log directory: %w", err)
	}

	flags := os.O_APPEND | os.O_CREATE | os.O_WRONLY

	fileInfo, err := os.Stat(path)
	if err == nil && fileInfo.Size() >= lsp.MaxLogFileSize {
		flags = os.O_TRUNC | os.O_CREATE | os.O_WRONLY
	}

	//nolint:gosec // path comes from the user configuration
	file, err := os.OpenFile(path, flags, lsp.FilePermissions)
	if err != nil {
		return nil, fmt.Errorf("unable to open log file: %w", err)
	}

	return file, nil
}

// configureLogging sends structured logs to the log file. Stdout carries the
// protocol, so stderr is the fallback when the file cannot be opened.
func configureLogging(logConfig config.LogConfig) (func(), error) {
	level, err := config.ParseLevel(logConfig.Level)
	if err != nil {
		return nil, err
	}

	var output io.Writer = os.Stderr
	closeLog := func() {}

	file, err := createLogFile(logConfig.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: logging to stderr: %v\n", appName, err)
	} else {
		output = file
		closeLog = func() { _ = file.Close() }
	}

	logger := slog.New(slog.NewJSONHandler(output, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	return closeLog, nil
}
