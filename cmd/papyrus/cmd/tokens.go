package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pacer/papyrus/internal/papyrus/lexer"
)

func newTokensCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens FILE",
		Short: "Print the token stream of a Papyrus script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileName := args[0]

			content, err := os.ReadFile(fileName)
			if err != nil {
				return fmt.Errorf("failed to read script: %w", err)
			}

			out := cmd.OutOrStdout()
			s := newStyles(out, opts.color())

			tokens, errs := lexer.Tokenize(content)
			for _, token := range tokens {
				position := lexer.PositionFromOffset(content, token.Span.Start)

				fmt.Fprintf(out, "%4d:%-3d %-10s %-8s %s\n",
					position.Line+1,
					position.Character+1,
					s.kind.Render(token.ID.String()),
					token.Span,
					token.Describe(),
				)
			}

			for _, err := range errs {
				renderDiagnostic(cmd.ErrOrStderr(), s, fileName, content, err)
			}

			opts.logger.Debug("tokenized", "file", fileName, "tokens", len(tokens), "errors", len(errs))

			return syntaxErrors(len(errs))
		},
	}
}
