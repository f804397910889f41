package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pacer/papyrus/internal/config"
	"github.com/pacer/papyrus/internal/papyrus"
	"github.com/pacer/papyrus/internal/papyrus/parser"
)

type fileTree struct {
	File       string `json:"file" yaml:"file"`
	Statements []any  `json:"statements" yaml:"statements"`
}

func newParseCommand(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse FILE...",
		Short: "Print the syntax tree of Papyrus scripts",
		Long: `Print the syntax tree of each script.

Every node is listed with its kind and its byte span in the file.
Syntax errors are reported after the trees, the tree stops at the first one.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = opts.cfg.Output.Format
			}

			if !slices.Contains(config.OutputFormats, format) {
				return fmt.Errorf("unknown format %q, expected one of %s", format, strings.Join(config.OutputFormats, ", "))
			}

			out := cmd.OutOrStdout()
			s := newStyles(out, opts.color())

			results := make(map[string]*papyrus.FileResult, len(args))
			trees := make([]fileTree, 0, len(args))

			for _, fileName := range args {
				content, err := os.ReadFile(fileName)
				if err != nil {
					return fmt.Errorf("failed to read script: %w", err)
				}

				statements, errs := papyrus.ParseSingleFile(content, opts.parserOptions()...)
				results[fileName] = &papyrus.FileResult{
					FileName:   fileName,
					Source:     content,
					Statements: statements,
					Errs:       errs,
				}

				trees = append(trees, fileTree{
					File:       fileName,
					Statements: parser.DescribeStatements(statements),
				})
			}

			if err := writeTrees(out, s, format, trees, results); err != nil {
				return err
			}

			count := 0
			for _, name := range papyrus.SortedFileNames(results) {
				result := results[name]
				for _, err := range result.Errs {
					renderDiagnostic(cmd.ErrOrStderr(), s, name, result.Source, err)
				}

				count += len(result.Errs)
			}

			return syntaxErrors(count)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: text, json or yaml (default from config)")

	return cmd
}

func writeTrees(w io.Writer, s styles, format string, trees []fileTree, results map[string]*papyrus.FileResult) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		return encoder.Encode(trees)

	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)

		if err := encoder.Encode(trees); err != nil {
			return err
		}

		return encoder.Close()
	}

	for _, tree := range trees {
		fmt.Fprintf(w, "%s\n", s.location.Render(tree.File))

		result := results[tree.File]
		for _, statement := range result.Statements {
			writeOutline(w, s, result.Source, statement, 1)
		}
	}

	return nil
}

// writeOutline prints one line per node, children indented below their parent.
func writeOutline(w io.Writer, s styles, source []byte, node parser.Spanned, depth int) {
	span := node.NodeSpan()

	kind := fmt.Sprintf("%T", node.NodeValue())
	kind = kind[strings.LastIndex(kind, ".")+1:]

	excerpt := string(source[span.Start:span.End])
	if i := strings.IndexAny(excerpt, "\r\n"); i >= 0 {
		excerpt = excerpt[:i] + " ..."
	}

	fmt.Fprintf(w, "%s%s %s  %s\n",
		strings.Repeat("  ", depth),
		s.kind.Render(kind),
		span,
		s.excerpt.Render(excerpt),
	)

	for _, child := range node.Children() {
		writeOutline(w, s, source, child, depth+1)
	}
}
