// Package encodegif implements the event-driven GIF encoder: a state
// machine that turns a sequence of caller-issued events (StartGif,
// StartFrame, WriteImageChunk, FlushFrame, EndFrame, EndGif) into a valid
// GIF89a byte stream, one frame's LZW codes at a time.
package encodegif

import (
	"fmt"
	"io"

	"github.com/aculnaig/av-gif/internal/lzw"
)

const subBlockMax = 255

// GifOptions configures the stream-level header written by StartGif.
type GifOptions struct {
	Width, Height        uint16
	GlobalColorTable     []byte // RGB triples; nil means no global color table
	ColorResolution      byte
	SortFlag             bool
	BackgroundColorIndex byte
	PixelAspectRatio     byte

	// Loop requests a NETSCAPE2.0 application extension. LoopCount of 0
	// means "loop forever", matching the convention consumers expect.
	Loop      bool
	LoopCount uint16
}

// FrameOptions configures one frame: its Graphic Control Extension (always
// written, so delay/disposal/transparency are always recorded) and its
// image descriptor. WriteImageChunk expects the frame's full pixel grid in
// a single call when Interlace is set, since reordering needs the whole
// image to compute pass boundaries.
type FrameOptions struct {
	Left, Top, Width, Height uint16
	LocalColorTable          []byte
	Interlace                bool
	SortFlag                 bool
	MinCodeSize              byte

	Delay                 uint16
	Disposal              byte
	TransparentColorIndex *byte // nil means no transparency
}

// Encoder drives the GIF byte stream written to w. All state is private;
// callers interact with it exclusively through the event methods, which
// validate legal ordering via the transition table in state.go.
type Encoder struct {
	w     io.Writer
	state State
	err   error

	frame          FrameOptions
	lzw            *lzw.Encoder
	pending        []byte // LZW output not yet partitioned into sub-blocks
	frameFinalized bool   // true once the terminator has been written for this frame
}

// NewEncoder returns an encoder in the Idle state, ready for StartGif.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, state: StateIdle}
}

// State reports the encoder's current position in the state machine.
func (enc *Encoder) State() State { return enc.state }

func (enc *Encoder) write(p []byte) error {
	if enc.err != nil {
		return enc.err
	}
	_, err := enc.w.Write(p)
	if err != nil {
		enc.err = fmt.Errorf("gif: encoder: %w", err)
	}
	return enc.err
}

// StartGif writes the signature, logical screen descriptor, optional
// global color table, and optional NETSCAPE2.0 loop extension.
func (enc *Encoder) StartGif(opts GifOptions) error {
	if err := enc.transition(EventStartGif); err != nil {
		return err
	}

	if err := enc.write([]byte("GIF89a")); err != nil {
		return err
	}

	wBytes := le16(opts.Width)
	hBytes := le16(opts.Height)
	hasGCT := len(opts.GlobalColorTable) > 0
	header := []byte{
		wBytes[0], wBytes[1],
		hBytes[0], hBytes[1],
		packScreenFields(hasGCT, opts.ColorResolution, opts.SortFlag, len(opts.GlobalColorTable)/3),
		opts.BackgroundColorIndex,
		opts.PixelAspectRatio,
	}
	if err := enc.write(header); err != nil {
		return err
	}
	if hasGCT {
		if err := enc.write(opts.GlobalColorTable); err != nil {
			return err
		}
	}

	if opts.Loop {
		loop := le16(opts.LoopCount)
		app := []byte{0x21, 0xFF, 11, 'N', 'E', 'T', 'S', 'C', 'A', 'P', 'E', '2', '.', '0', 3, 0x01, loop[0], loop[1], 0x00}
		if err := enc.write(app); err != nil {
			return err
		}
	}
	return enc.err
}

// StartFrame always writes a Graphic Control Extension (so delay,
// disposal and transparency are always recorded) followed by the image
// descriptor, and resets the per-frame LZW encoder.
func (enc *Encoder) StartFrame(opts FrameOptions) error {
	if err := enc.transition(EventStartFrame); err != nil {
		return err
	}

	delay := le16(opts.Delay)
	transparent := opts.TransparentColorIndex != nil
	var transparentIndex byte
	if transparent {
		transparentIndex = *opts.TransparentColorIndex
	}
	gce := []byte{
		0x21, 0xF9, 4,
		packGCEFields(opts.Disposal, false, transparent),
		delay[0], delay[1],
		transparentIndex,
		0x00,
	}
	if err := enc.write(gce); err != nil {
		return err
	}

	left := le16(opts.Left)
	top := le16(opts.Top)
	w := le16(opts.Width)
	h := le16(opts.Height)
	hasLCT := len(opts.LocalColorTable) > 0
	descriptor := []byte{
		0x2C,
		left[0], left[1],
		top[0], top[1],
		w[0], w[1],
		h[0], h[1],
		packImageFields(hasLCT, opts.Interlace, opts.SortFlag, len(opts.LocalColorTable)/3),
	}
	if err := enc.write(descriptor); err != nil {
		return err
	}
	if hasLCT {
		if err := enc.write(opts.LocalColorTable); err != nil {
			return err
		}
	}

	if err := enc.write([]byte{opts.MinCodeSize}); err != nil {
		return err
	}

	enc.frame = opts
	enc.lzw = lzw.NewEncoder(int(opts.MinCodeSize))
	enc.pending = nil
	enc.frameFinalized = false
	return enc.err
}

// WriteImageChunk reorders the pixels into interlace order when the frame
// was started with Interlace set, feeds them through the LZW encoder, and
// appends whatever compressed bytes that produces to the frame buffer.
// Nothing is written to the underlying stream yet.
func (enc *Encoder) WriteImageChunk(pixels []byte) error {
	if err := enc.transition(EventWriteImageChunk); err != nil {
		return err
	}

	if enc.frame.Interlace && enc.frame.Height > 0 {
		width := int(enc.frame.Width)
		rows := make([][]byte, enc.frame.Height)
		for i := range rows {
			start := i * width
			end := start + width
			if end > len(pixels) {
				end = len(pixels)
			}
			if start > len(pixels) {
				start = len(pixels)
			}
			rows[i] = pixels[start:end]
		}
		reordered := InterlaceRows(rows)
		pixels = make([]byte, 0, len(pixels))
		for _, row := range reordered {
			pixels = append(pixels, row...)
		}
	}

	enc.lzw.Write(pixels)
	enc.pending = append(enc.pending, enc.lzw.Bytes()...)
	return enc.err
}

// FlushFrame closes the LZW stream, partitions the full frame buffer into
// ≤255-byte sub-blocks, and writes the single terminating zero-length
// block.
func (enc *Encoder) FlushFrame() error {
	if err := enc.transition(EventFlushFrame); err != nil {
		return err
	}
	return enc.finalizeFrame()
}

// EndFrame finishes the frame, closing the LZW stream and writing the
// terminator if FlushFrame has not already done so, then clears per-frame
// state. Unlike the source this was distilled from, it never writes a
// second terminator.
func (enc *Encoder) EndFrame() error {
	if err := enc.transition(EventEndFrame); err != nil {
		return err
	}

	if !enc.frameFinalized {
		if err := enc.finalizeFrame(); err != nil {
			return err
		}
	}

	enc.lzw = nil
	enc.pending = nil
	return enc.err
}

// finalizeFrame closes the LZW stream, writes out every remaining
// sub-block, and writes exactly one terminator. It is shared by FlushFrame
// and by EndFrame when FlushFrame was skipped.
func (enc *Encoder) finalizeFrame() error {
	enc.pending = append(enc.pending, enc.lzw.Close()...)

	for len(enc.pending) > 0 {
		n := len(enc.pending)
		if n > subBlockMax {
			n = subBlockMax
		}
		if err := enc.writeSubBlock(enc.pending[:n]); err != nil {
			return err
		}
		enc.pending = enc.pending[n:]
	}

	if err := enc.write([]byte{0x00}); err != nil {
		return err
	}
	enc.frameFinalized = true
	return enc.err
}

// EndGif writes the trailer byte and moves the encoder to its terminal
// Done state.
func (enc *Encoder) EndGif() error {
	if err := enc.transition(EventEndGif); err != nil {
		return err
	}
	if err := enc.write([]byte{0x3B}); err != nil {
		return err
	}
	enc.state = StateDone
	return enc.err
}

func (enc *Encoder) writeSubBlock(b []byte) error {
	if err := enc.write([]byte{byte(len(b))}); err != nil {
		return err
	}
	return enc.write(b)
}

// MinCodeSize returns the smallest LZW minimum code size (floor 2) that
// can index a palette of the given size, per spec §4.2.
func MinCodeSize(paletteSize int) byte {
	k := byte(2)
	for 1<<k < paletteSize && k < 8 {
		k++
	}
	return k
}
