package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aculnaig/av-gif/internal/container"
	"github.com/aculnaig/av-gif/internal/logger"
	"github.com/aculnaig/av-gif/pkg/reader"
	"github.com/aculnaig/av-gif/pkg/util/format"
)

func DefineInfoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info [file]",
		Short: "Print a summary of a GIF file's screen, frames and extensions",
		Long: `The 'info' command parses a GIF87a/GIF89a file and prints its logical
screen dimensions, per-frame geometry and timing, and any comment, plain
text, or application extensions it carries.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunInfo,
	}
	cmd.Flags().String("log-level", "WARN", "minimum level for structural warnings (DEBUG, INFO, WARN, ERROR)")
	return cmd
}

func RunInfo(cmd *cobra.Command, args []string) error {
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

	levelName, _ := cmd.Flags().GetString("log-level")
	log := logger.New(os.Stderr, logger.ParseLevel(levelName))

	parsed, err := container.Parse(data, container.WithLogger(log))
	if err != nil {
		return fmt.Errorf("gif: %w", err)
	}

	fmt.Printf("Version:    %s\n", parsed.Version)
	fmt.Printf("Screen:     %dx%d\n", parsed.Screen.Width, parsed.Screen.Height)
	fmt.Printf("Global CT:  %v", parsed.Screen.HasGlobalColorTable())
	if parsed.Screen.HasGlobalColorTable() {
		fmt.Printf(" (%d colors, %s)", parsed.Screen.GlobalColorTableSize(), format.FormatBytes(int64(len(parsed.Screen.GlobalColorTable))))
	}
	fmt.Println()

	if loop, ok := container.LoopCount(parsed.Applications); ok {
		if loop == 0 {
			fmt.Println("Loop:       infinite")
		} else {
			fmt.Printf("Loop:       %d times\n", loop)
		}
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FRAME\tLEFT,TOP\tSIZE\tINTERLACED\tDELAY\tTRANSPARENT")
	for i, frame := range parsed.Frames {
		delay := "-"
		transparent := "-"
		if frame.GCE != nil {
			delay = fmt.Sprintf("%dms", int(frame.GCE.DelayTime)*10)
			if frame.GCE.TransparentColorFlag {
				transparent = fmt.Sprintf("idx %d", frame.GCE.TransparentColorIndex)
			}
		}
		fmt.Fprintf(w, "%d\t%d,%d\t%dx%d\t%v\t%s\t%s\n",
			i, frame.Left, frame.Top, frame.Width, frame.Height, frame.Interlaced(), delay, transparent)
	}
	w.Flush()

	if len(parsed.Comments) > 0 {
		fmt.Println()
		fmt.Println("Comments:")
		for _, c := range parsed.Comments {
			fmt.Printf("  %q\n", c.Text)
		}
	}

	if parsed.Truncated {
		fmt.Fprintln(os.Stderr, "warning: input was truncated; showing the partial result")
	}
	return nil
}
