package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aculnaig/av-gif/internal/encodegif"
	"github.com/aculnaig/av-gif/pkg/pbar"
	"github.com/aculnaig/av-gif/pkg/reader"
	"github.com/aculnaig/av-gif/pkg/util/format"
	ioutil "github.com/aculnaig/av-gif/pkg/util/io"
)

func DefineBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [frame-files...]",
		Short: "Assemble raw palette-indexed pixel files into a GIF",
		Long: `The 'build' command drives the encoder state machine over a sequence of
raw, palette-indexed pixel files (one file per frame, each exactly
width*height bytes) and writes the resulting GIF to --output. Frame files
are read as one continuous stream so progress can be reported against
their combined size.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         RunBuild,
	}

	cmd.Flags().Uint16("width", 0, "frame width in pixels")
	cmd.Flags().Uint16("height", 0, "frame height in pixels")
	cmd.Flags().String("palette", "", "path to a raw RGB palette (3 bytes per color)")
	cmd.Flags().Uint16("delay", 10, "per-frame delay in hundredths of a second")
	cmd.Flags().Bool("loop", false, "add a NETSCAPE2.0 infinite loop extension")
	cmd.Flags().String("output", "", "output GIF path")
	cmd.MarkFlagRequired("width")
	cmd.MarkFlagRequired("height")
	cmd.MarkFlagRequired("output")
	return cmd
}

func RunBuild(cmd *cobra.Command, args []string) error {
	width, _ := cmd.Flags().GetUint16("width")
	height, _ := cmd.Flags().GetUint16("height")
	palettePath, _ := cmd.Flags().GetString("palette")
	delay, _ := cmd.Flags().GetUint16("delay")
	loop, _ := cmd.Flags().GetBool("loop")
	outputPath, _ := cmd.Flags().GetString("output")

	frameSize := int64(width) * int64(height)

	var palette []byte
	if palettePath != "" {
		var err error
		palette, err = os.ReadFile(palettePath)
		if err != nil {
			return fmt.Errorf("failed to read palette %q: %w", palettePath, err)
		}
	}

	readers := make([]io.ReadSeeker, len(args))
	sizes := make([]int64, len(args))
	for i, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %q: %w", path, err)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return err
		}
		if info.Size() != frameSize {
			return fmt.Errorf("%q is %d bytes, expected exactly %d (width*height)", path, info.Size(), frameSize)
		}

		readers[i] = f
		sizes[i] = info.Size()
	}

	src := reader.NewMultiReadSeeker(readers, sizes)
	total := frameSize * int64(len(args))
	pbs := pbar.NewProgressBarState(total)

	var out bytes.Buffer
	enc := encodegif.NewEncoder(&out)
	if err := enc.StartGif(encodegif.GifOptions{
		Width:            width,
		Height:           height,
		GlobalColorTable: palette,
		Loop:             loop,
	}); err != nil {
		return err
	}

	pixels := make([]byte, frameSize)
	for i := range args {
		if _, err := io.ReadFull(src, pixels); err != nil {
			return fmt.Errorf("failed to read frame %d: %w", i, err)
		}

		if err := enc.StartFrame(encodegif.FrameOptions{
			Width:       width,
			Height:      height,
			MinCodeSize: encodegif.MinCodeSize(len(palette) / 3),
			Delay:       delay,
		}); err != nil {
			return err
		}
		if err := enc.WriteImageChunk(pixels); err != nil {
			return err
		}
		if err := enc.FlushFrame(); err != nil {
			return err
		}
		if err := enc.EndFrame(); err != nil {
			return err
		}

		pbs.ProcessedBytes += frameSize
		pbs.FramesEncoded = i + 1
		pbs.Render(false)
	}
	pbs.Render(true)
	pbs.Finish()

	if err := enc.EndGif(); err != nil {
		return err
	}

	if err := ioutil.CopyFile(outputPath, bytes.NewReader(out.Bytes())); err != nil {
		return fmt.Errorf("failed to write %q: %w", outputPath, err)
	}

	fmt.Printf("wrote %s (%s)\n", outputPath, format.FormatBytes(int64(out.Len())))
	return nil
}
