package papyrus

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pacer/papyrus/internal/papyrus/lexer"
	"github.com/pacer/papyrus/internal/papyrus/parser"
)

type Error = lexer.Error

// Statement is a parsed statement together with its span.
type Statement = parser.Node[parser.Statement]

// FileResult pairs the parse tree of a file with every error found in it.
type FileResult struct {
	FileName   string
	Source     []byte
	Statements []Statement
	Errs       []Error
}

// OpenProjectFiles reads the scripts below 'rootDir', keyed by path. A script is a file
// whose extension is one of 'extensions'. Directories nested more than 'maxDepth'
// levels below 'rootDir' are skipped, and so are unreadable scripts.
func OpenProjectFiles(rootDir string, extensions []string, maxDepth int) (map[string][]byte, error) {
	scripts := make(map[string][]byte)

	err := filepath.WalkDir(rootDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == rootDir {
				return err
			}

			slog.Warn("skipping unreadable entry", slog.String("path", path), slog.String("error", err.Error()))
			return nil
		}

		if entry.IsDir() {
			if DirectoryDepth(rootDir, path) > maxDepth {
				return filepath.SkipDir
			}

			return nil
		}

		if !HasFileExtension(path, extensions) {
			return nil
		}

		//nolint:gosec // path comes from the walked directory
		content, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("skipping unreadable script", slog.String("path", path), slog.String("error", err.Error()))
			return nil
		}

		scripts[path] = content
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error while reading directory content: %w", err)
	}

	return scripts, nil
}

// DirectoryDepth counts the directories between 'root' and 'dir', 0 for 'root' itself.
func DirectoryDepth(root, dir string) int {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return 0
	}

	return strings.Count(filepath.ToSlash(rel), "/") + 1
}

// HasFileExtension reports whether fileName's extension is found within extensions.
// The comparison ignores case, 'Quest.PSC' is a script file.
func HasFileExtension(fileName string, extensions []string) bool {
	ext := strings.TrimPrefix(filepath.Ext(fileName), ".")
	if ext == "" {
		return false
	}

	for _, candidate := range extensions {
		if strings.EqualFold(ext, strings.TrimPrefix(candidate, ".")) {
			return true
		}
	}

	return false
}

// ParseSingleFile tokenizes and parses a whole file.
// Lexical errors come first, followed by at most one syntax error: the parse stops at
// the first one. A syntax error caused by an unrecognized token is not reported twice.
func ParseSingleFile(source []byte, opts ...parser.Option) ([]Statement, []Error) {
	tokens, errs := lexer.Tokenize(source)

	statements, err := parser.Parse(tokens, opts...)
	if err == nil {
		return statements, errs
	}

	innermost := err.Innermost()
	if innermost.Token != nil && innermost.Token.ID == lexer.Unexpected {
		return statements, errs
	}

	return statements, append(errs, innermost)
}

// ParseFilesInWorkspace parses all files concurrently, at most 'limit' at a time
// (GOMAXPROCS when 'limit' is not positive).
// Syntax errors are part of each FileResult; the returned error is only set when
// 'ctx' is cancelled before every file was parsed.
func ParseFilesInWorkspace(
	ctx context.Context,
	workspaceFiles map[string][]byte,
	limit int,
	opts ...parser.Option,
) (map[string]*FileResult, error) {
	results := make(map[string]*FileResult, len(workspaceFiles))
	if len(workspaceFiles) == 0 {
		return results, nil
	}

	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(limit, len(workspaceFiles)))

	for fileName, content := range workspaceFiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			statements, errs := ParseSingleFile(content, opts...)

			mu.Lock()
			results[fileName] = &FileResult{
				FileName:   fileName,
				Source:     content,
				Statements: statements,
				Errs:       errs,
			}
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parsing workspace: %w", err)
	}

	if len(workspaceFiles) != len(results) {
		panic("number of parsed files do not match the amount present in the workspace")
	}

	return results, nil
}

// SortedFileNames returns the keys of 'results' in lexical order.
func SortedFileNames(results map[string]*FileResult) []string {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// FoldingRanges returns the span of every If and While statement, nested ones included,
// in source order.
func FoldingRanges(statements []Statement) []lexer.Span {
	var spans []lexer.Span

	parser.WalkStatements(statements, func(node parser.Spanned) bool {
		switch node.NodeValue().(type) {
		case parser.If, parser.While:
			spans = append(spans, node.NodeSpan())
		case parser.Expression:
			// no block inside an expression
			return false
		}

		return true
	})

	return spans
}
