package encodegif

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransitions_LegalSequenceSucceeds(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	require.NoError(t, enc.StartGif(GifOptions{Width: 1, Height: 1}))
	require.Equal(t, StateWritingHeader, enc.State())

	require.NoError(t, enc.StartFrame(FrameOptions{Width: 1, Height: 1, MinCodeSize: 2}))
	require.Equal(t, StateWritingFrame, enc.State())

	require.NoError(t, enc.WriteImageChunk([]byte{0}))
	require.Equal(t, StateWritingFrame, enc.State())

	require.NoError(t, enc.FlushFrame())
	require.Equal(t, StateFlushingFrame, enc.State())

	require.NoError(t, enc.EndFrame())
	require.Equal(t, StateWritingHeader, enc.State())

	require.NoError(t, enc.EndGif())
	require.Equal(t, StateDone, enc.State())
}

func TestTransitions_EndFrameWithoutFlushFrameSucceeds(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	require.NoError(t, enc.StartGif(GifOptions{Width: 1, Height: 1}))
	require.NoError(t, enc.StartFrame(FrameOptions{Width: 1, Height: 1, MinCodeSize: 2}))
	require.NoError(t, enc.WriteImageChunk([]byte{0}))

	require.NoError(t, enc.EndFrame())
	require.Equal(t, StateWritingHeader, enc.State())

	require.NoError(t, enc.EndGif())
	require.Equal(t, StateDone, enc.State())
}

func TestTransitions_WriteImageChunkAfterFlushFrameIsRejected(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	require.NoError(t, enc.StartGif(GifOptions{Width: 1, Height: 1}))
	require.NoError(t, enc.StartFrame(FrameOptions{Width: 1, Height: 1, MinCodeSize: 2}))
	require.NoError(t, enc.WriteImageChunk([]byte{0}))
	require.NoError(t, enc.FlushFrame())

	err := enc.WriteImageChunk([]byte{0})
	require.Error(t, err)

	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, StateFlushingFrame, invalid.State)
	require.Equal(t, EventWriteImageChunk, invalid.Event)
}

func TestTransitions_StartFrameBeforeStartGifIsRejected(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	err := enc.StartFrame(FrameOptions{})
	require.Error(t, err)

	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, StateIdle, invalid.State)
	require.Equal(t, EventStartFrame, invalid.Event)
}

func TestTransitions_WriteImageChunkBeforeStartFrameIsRejected(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	require.NoError(t, enc.StartGif(GifOptions{Width: 1, Height: 1}))

	err := enc.WriteImageChunk([]byte{0})
	require.Error(t, err)

	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, StateWritingHeader, invalid.State)
}

func TestTransitions_EndGifBeforeEndFrameIsRejected(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	require.NoError(t, enc.StartGif(GifOptions{Width: 1, Height: 1}))
	require.NoError(t, enc.StartFrame(FrameOptions{Width: 1, Height: 1, MinCodeSize: 2}))

	err := enc.EndGif()
	require.Error(t, err)

	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, StateWritingFrame, invalid.State)
	require.Equal(t, EventEndGif, invalid.Event)
}

func TestTransitions_DoubleStartGifIsRejected(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	require.NoError(t, enc.StartGif(GifOptions{Width: 1, Height: 1}))

	err := enc.StartGif(GifOptions{Width: 1, Height: 1})
	require.Error(t, err)
}
