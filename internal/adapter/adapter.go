// Package adapter implements the narrow contract an external media
// framework needs to treat a GIF as one more demuxed container: read the
// stream-level header once, then pull frames one at a time as packets
// (spec §6).
package adapter

import (
	"errors"
	"io"

	"github.com/aculnaig/av-gif/internal/container"
	"github.com/aculnaig/av-gif/internal/logger"
	"github.com/aculnaig/av-gif/pkg/reader"
)

// ErrEOF is returned by ReadEvent once every frame has been delivered.
var ErrEOF = errors.New("gif: adapter: no more packets")

const headerBufferSize = 64 * 1024

// StreamDescriptor is the information a media framework needs before it
// can allocate decode buffers: dimensions and the loop convention.
type StreamDescriptor struct {
	Width, Height uint16
	Loop          bool
	LoopCount     int
}

// Packet is one demuxed frame, still LZW-compressed, along with the
// graphics control metadata needed to present it.
type Packet struct {
	Index  int
	Frame  container.Frame
	Screen container.LogicalScreen
}

// Adapter wraps a fully parsed GIF and exposes it as a pull-based packet
// source, matching the read_headers/read_event shape an external demuxer
// registry expects.
type Adapter struct {
	log    *logger.Logger
	parsed *container.ParsedGif
	next   int
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger attaches the side channel container.Parse reports recoverable
// structural problems on.
func WithLogger(l *logger.Logger) Option {
	return func(a *Adapter) { a.log = l }
}

// New constructs an Adapter. ReadHeaders must be called before ReadEvent.
func New(opts ...Option) *Adapter {
	a := &Adapter{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ReadHeaders reads the entire stream through a buffered reader, parses
// it, and returns the stream descriptor a caller needs before it can start
// pulling packets.
func (a *Adapter) ReadHeaders(src io.ReadSeeker) (StreamDescriptor, error) {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return StreamDescriptor{}, err
	}

	buffered := reader.NewBufferedReadSeeker(src, headerBufferSize)
	data, err := io.ReadAll(buffered)
	if err != nil {
		return StreamDescriptor{}, err
	}

	var parseOpts []container.Option
	if a.log != nil {
		parseOpts = append(parseOpts, container.WithLogger(a.log))
	}

	parsed, err := container.Parse(data, parseOpts...)
	if err != nil {
		return StreamDescriptor{}, err
	}
	a.parsed = parsed
	a.next = 0

	loopCount, hasLoop := container.LoopCount(parsed.Applications)
	return StreamDescriptor{
		Width:     parsed.Screen.Width,
		Height:    parsed.Screen.Height,
		Loop:      hasLoop,
		LoopCount: loopCount,
	}, nil
}

// ReadEvent returns the next frame as a Packet, or ErrEOF once the frame
// list is exhausted. ReadHeaders must have succeeded first.
func (a *Adapter) ReadEvent() (Packet, error) {
	if a.parsed == nil {
		return Packet{}, errors.New("gif: adapter: ReadHeaders was not called")
	}
	if a.next >= len(a.parsed.Frames) {
		return Packet{}, ErrEOF
	}

	pkt := Packet{
		Index:  a.next,
		Frame:  a.parsed.Frames[a.next],
		Screen: a.parsed.Screen,
	}
	a.next++
	return pkt, nil
}
