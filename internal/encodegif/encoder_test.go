package encodegif

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aculnaig/av-gif/internal/container"
)

func solidPalette() []byte {
	return []byte{
		0, 0, 0,
		255, 255, 255,
		255, 0, 0,
		0, 255, 0,
	}
}

func TestEncoder_StaticImageParsesBack(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	require.NoError(t, enc.StartGif(GifOptions{
		Width:            10,
		Height:           10,
		GlobalColorTable: solidPalette(),
	}))
	require.NoError(t, enc.StartFrame(FrameOptions{
		Width:       10,
		Height:      10,
		MinCodeSize: MinCodeSize(4),
	}))

	pixels := bytes.Repeat([]byte{1}, 100)
	require.NoError(t, enc.WriteImageChunk(pixels))
	require.NoError(t, enc.FlushFrame())
	require.NoError(t, enc.EndFrame())
	require.NoError(t, enc.EndGif())

	parsed, err := container.Parse(buf.Bytes())
	require.NoError(t, err)
	require.False(t, parsed.Truncated)
	require.Equal(t, "GIF89a", parsed.Version)
	require.Equal(t, uint16(10), parsed.Screen.Width)
	require.Equal(t, uint16(10), parsed.Screen.Height)
	require.Len(t, parsed.Frames, 1)
	require.Equal(t, uint16(10), parsed.Frames[0].Width)
}

func TestEncoder_AnimatedLoopingStreamParsesBack(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	require.NoError(t, enc.StartGif(GifOptions{
		Width:            4,
		Height:           4,
		GlobalColorTable: solidPalette(),
		Loop:             true,
		LoopCount:        0,
	}))

	for frame := 0; frame < 2; frame++ {
		opts := FrameOptions{
			Width:       4,
			Height:      4,
			MinCodeSize: MinCodeSize(4),
			Delay:       10,
		}
		if frame == 1 {
			idx := byte(3)
			opts.TransparentColorIndex = &idx
		}
		require.NoError(t, enc.StartFrame(opts))
		require.NoError(t, enc.WriteImageChunk(bytes.Repeat([]byte{byte(frame)}, 16)))
		require.NoError(t, enc.EndFrame())
	}
	require.NoError(t, enc.EndGif())

	parsed, err := container.Parse(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, "GIF89a", parsed.Version)
	require.Len(t, parsed.Frames, 2)

	loop, ok := container.LoopCount(parsed.Applications)
	require.True(t, ok)
	require.Equal(t, 0, loop)

	require.NotNil(t, parsed.Frames[1].GCE)
	require.True(t, parsed.Frames[1].GCE.TransparentColorFlag)
	require.Equal(t, byte(3), parsed.Frames[1].GCE.TransparentColorIndex)
}

func TestEncoder_EndFrameWritesExactlyOneTerminator(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	require.NoError(t, enc.StartGif(GifOptions{Width: 2, Height: 2}))
	require.NoError(t, enc.StartFrame(FrameOptions{Width: 2, Height: 2, MinCodeSize: 2}))
	require.NoError(t, enc.WriteImageChunk([]byte{0, 1, 0, 1}))
	require.NoError(t, enc.EndFrame())
	require.NoError(t, enc.EndGif())

	out := buf.Bytes()
	require.Equal(t, byte(0x3B), out[len(out)-1], "stream must end with the trailer")
	require.Equal(t, byte(0x00), out[len(out)-2], "exactly one terminator must precede the trailer")
	require.NotEqual(t, byte(0x00), out[len(out)-3], "a second terminator would indicate the double-emit defect")
}

func TestEncoder_LargeFrameSpansMultipleSubBlocks(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	const w, h = 64, 64
	require.NoError(t, enc.StartGif(GifOptions{Width: w, Height: h, GlobalColorTable: solidPalette()}))
	require.NoError(t, enc.StartFrame(FrameOptions{Width: w, Height: h, MinCodeSize: MinCodeSize(4)}))

	pixels := make([]byte, w*h)
	seed := uint32(12345)
	for i := range pixels {
		seed = seed*1664525 + 1013904223
		pixels[i] = byte((seed >> 16) % 4)
	}
	require.NoError(t, enc.WriteImageChunk(pixels))
	require.NoError(t, enc.EndFrame())
	require.NoError(t, enc.EndGif())

	parsed, err := container.Parse(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, parsed.Frames, 1)
	require.Greater(t, len(parsed.Frames[0].Data), 255, "frame data should have required more than one sub-block")
}
