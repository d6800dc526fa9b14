package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aculnaig/av-gif/internal/container"
	"github.com/aculnaig/av-gif/internal/lint"
	"github.com/aculnaig/av-gif/pkg/reader"
)

func DefineLintCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint [file]",
		Short: "Run structural sanity checks against a GIF file",
		Long: `The 'lint' command parses a GIF87a/GIF89a file and reports structural
problems beyond what the parser itself tolerates: missing color tables,
frames that overflow the logical screen, out-of-range LZW code sizes, and
truncated streams. It exits with a non-zero status if any error-severity
finding is reported.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunLint,
	}
	return cmd
}

func RunLint(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	buffered := reader.NewBufferedReadSeeker(f, 64*1024)
	data, err := io.ReadAll(buffered)
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", args[0], err)
	}

	parsed, err := container.Parse(data)
	if err != nil {
		return fmt.Errorf("gif: %w", err)
	}

	findings := lint.Check(parsed)
	if len(findings) == 0 {
		fmt.Println("ok: no issues found")
		return nil
	}

	hasError := false
	for _, f := range findings {
		fmt.Println(f.String())
		if f.Severity == lint.SeverityError {
			hasError = true
		}
	}

	if hasError {
		os.Exit(1)
	}
	return nil
}
