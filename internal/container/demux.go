package container

import (
	"strings"

	"github.com/aculnaig/av-gif/internal/logger"
)

// Block introducers and extension labels (spec §4.1, §6).
const (
	blockExtension       = 0x21
	blockImageDescriptor = 0x2C
	blockTrailer         = 0x3B

	extGraphicControl = 0xF9
	extComment        = 0xFE
	extPlainText      = 0x01
	extApplication    = 0xFF
)

// Option configures Parse.
type Option func(*parser)

// WithLogger attaches a side channel that receives a warning when the parse
// is stopped early by a structural error (spec §9, "Partial-failure
// semantics" — the recommended default is to report the truncation without
// failing the parse).
func WithLogger(l *logger.Logger) Option {
	return func(p *parser) { p.log = l }
}

type parser struct {
	c   *cursor
	log *logger.Logger

	pendingGCE *GraphicsControlExtension
	out        ParsedGif
}

// Parse consumes a full in-memory GIF byte stream and produces the logical
// screen, the ordered frame list with attached graphics control extensions,
// and the extension collections. A structural error stops the block loop
// but the fields parsed cleanly up to that point are still returned, with
// ParsedGif.Truncated set to true.
func Parse(data []byte, opts ...Option) (*ParsedGif, error) {
	p := &parser{c: newCursor(data)}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.readHeaderAndScreen(); err != nil {
		return nil, err
	}

	if err := p.readBlocks(); err != nil {
		p.out.Truncated = true
		if p.log != nil {
			p.log.Warnf("gif: parse stopped early: %v", err)
		}
	}

	return &p.out, nil
}

func (p *parser) readHeaderAndScreen() error {
	sig, err := p.c.readN(6)
	if err != nil {
		return newErr(ErrInvalidSignature, 0, "input shorter than the 6-byte signature")
	}

	version := string(sig[3:6])
	if string(sig[:3]) != "GIF" || (version != "87a" && version != "89a") {
		return newErr(ErrInvalidSignature, 0, "missing GIF87a/GIF89a signature")
	}
	p.out.Version = string(sig)

	width, err := p.c.readUint16()
	if err != nil {
		return err
	}
	height, err := p.c.readUint16()
	if err != nil {
		return err
	}
	packed, err := p.c.readByte()
	if err != nil {
		return err
	}
	bg, err := p.c.readByte()
	if err != nil {
		return err
	}
	aspect, err := p.c.readByte()
	if err != nil {
		return err
	}

	screen := LogicalScreen{
		Width:                width,
		Height:               height,
		PackedFields:         packed,
		BackgroundColorIndex: bg,
		PixelAspectRatio:     aspect,
	}

	if screen.HasGlobalColorTable() {
		table, err := p.c.readN(3 * screen.GlobalColorTableSize())
		if err != nil {
			return newErr(ErrTruncated, p.c.offset(), "truncated global color table")
		}
		screen.GlobalColorTable = append([]byte(nil), table...)
	}

	p.out.Screen = screen
	return nil
}

// readBlocks loops over block introducers until the trailer or end of
// input, per spec §4.1 step 4.
func (p *parser) readBlocks() error {
	for {
		if p.c.atEnd() {
			return nil
		}

		tag, err := p.c.readByte()
		if err != nil {
			return err
		}

		switch tag {
		case blockExtension:
			if err := p.readExtension(); err != nil {
				return err
			}
		case blockImageDescriptor:
			if err := p.readImageDescriptor(); err != nil {
				return err
			}
		case blockTrailer:
			return nil
		default:
			// Unrecognized byte where a block introducer was expected:
			// stop gracefully and treat the remainder as junk.
			return nil
		}
	}
}

func (p *parser) readExtension() error {
	label, err := p.c.readByte()
	if err != nil {
		return err
	}

	switch label {
	case extGraphicControl:
		return p.readGraphicControl()
	case extComment:
		return p.readComment()
	case extPlainText:
		return p.readPlainText()
	case extApplication:
		return p.readApplication()
	default:
		return p.c.skipSubBlocks()
	}
}

func (p *parser) readGraphicControl() error {
	size, err := p.c.readByte()
	if err != nil {
		return err
	}
	if size != 4 {
		return newErr(ErrMalformed, p.c.offset(), "graphic control extension block size must be 4")
	}
	body, err := p.c.readN(4)
	if err != nil {
		return err
	}
	term, err := p.c.readByte()
	if err != nil {
		return err
	}
	if term != 0 {
		return newErr(ErrMalformed, p.c.offset(), "missing graphic control extension terminator")
	}

	packed := body[0]
	p.pendingGCE = &GraphicsControlExtension{
		DisposalMethod:        (packed >> 2) & 0x07,
		UserInputFlag:         packed&0x02 != 0,
		TransparentColorFlag:  packed&0x01 != 0,
		DelayTime:             uint16(body[1]) | uint16(body[2])<<8,
		TransparentColorIndex: body[3],
	}
	return nil
}

func (p *parser) readComment() error {
	raw, err := p.c.readSubBlocks()
	if err != nil {
		return err
	}
	p.out.Comments = append(p.out.Comments, CommentExtension{Text: decodeText(raw)})
	return nil
}

func (p *parser) readPlainText() error {
	size, err := p.c.readByte()
	if err != nil {
		return err
	}
	if size != 12 {
		return newErr(ErrMalformed, p.c.offset(), "plain text extension block size must be 12")
	}
	body, err := p.c.readN(12)
	if err != nil {
		return err
	}
	raw, err := p.c.readSubBlocks()
	if err != nil {
		return err
	}

	p.out.PlainTexts = append(p.out.PlainTexts, PlainTextExtension{
		TextGridLeft:         uint16(body[0]) | uint16(body[1])<<8,
		TextGridTop:          uint16(body[2]) | uint16(body[3])<<8,
		TextGridWidth:        uint16(body[4]) | uint16(body[5])<<8,
		TextGridHeight:       uint16(body[6]) | uint16(body[7])<<8,
		CellWidth:            body[8],
		CellHeight:           body[9],
		ForegroundColorIndex: body[10],
		BackgroundColorIndex: body[11],
		Text:                 decodeText(raw),
	})
	return nil
}

func (p *parser) readApplication() error {
	size, err := p.c.readByte()
	if err != nil {
		return err
	}
	if size != 11 {
		return newErr(ErrMalformed, p.c.offset(), "application extension block size must be 11")
	}
	body, err := p.c.readN(11)
	if err != nil {
		return err
	}
	data, err := p.c.readSubBlocks()
	if err != nil {
		return err
	}

	app := ApplicationExtension{Data: data}
	copy(app.Identifier[:], body[:8])
	copy(app.AuthCode[:], body[8:11])
	p.out.Applications = append(p.out.Applications, app)
	return nil
}

func (p *parser) readImageDescriptor() error {
	left, err := p.c.readUint16()
	if err != nil {
		return err
	}
	top, err := p.c.readUint16()
	if err != nil {
		return err
	}
	width, err := p.c.readUint16()
	if err != nil {
		return err
	}
	height, err := p.c.readUint16()
	if err != nil {
		return err
	}
	packed, err := p.c.readByte()
	if err != nil {
		return err
	}

	frame := Frame{
		Left: left, Top: top, Width: width, Height: height,
		PackedFields: packed,
	}

	if frame.HasLocalColorTable() {
		table, err := p.c.readN(3 * frame.LocalColorTableSize())
		if err != nil {
			return newErr(ErrTruncated, p.c.offset(), "truncated local color table")
		}
		frame.LocalColorTable = append([]byte(nil), table...)
	}

	minCodeSize, err := p.c.readByte()
	if err != nil {
		return err
	}
	frame.MinCodeSize = minCodeSize

	data, err := p.c.readSubBlocks()
	if err != nil {
		return err
	}
	frame.Data = data

	if p.pendingGCE != nil {
		frame.GCE = p.pendingGCE
		p.pendingGCE = nil
	}

	p.out.Frames = append(p.out.Frames, frame)
	return nil
}

// decodeText replaces invalid byte sequences with the Unicode replacement
// character instead of rejecting the extension (spec §3, §7).
func decodeText(raw []byte) string {
	return strings.ToValidUTF8(string(raw), "�")
}
