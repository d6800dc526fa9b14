package container

const (
	fieldColorTable      = 1 << 7
	fieldInterlace       = 1 << 6
	fieldColorTableSizeN = 0x07
)

// LogicalScreen is produced once per stream and is immutable thereafter.
type LogicalScreen struct {
	Width, Height         uint16
	PackedFields          byte
	BackgroundColorIndex  byte
	PixelAspectRatio      byte
	GlobalColorTable      []byte
}

// HasGlobalColorTable reports bit 7 of the packed fields byte.
func (s LogicalScreen) HasGlobalColorTable() bool {
	return s.PackedFields&fieldColorTable != 0
}

// GlobalColorTableSize returns the number of RGB triples the global color
// table carries, derived from bits 0-2 (N, such that size = 2^(N+1)).
func (s LogicalScreen) GlobalColorTableSize() int {
	return 1 << (uint(s.PackedFields&fieldColorTableSizeN) + 1)
}

// GraphicsControlExtension describes disposal, timing and transparency for
// the single image descriptor that follows it.
type GraphicsControlExtension struct {
	DisposalMethod         byte
	UserInputFlag          bool
	TransparentColorFlag   bool
	DelayTime              uint16
	TransparentColorIndex  byte
}

// Frame is one image in the stream, in file order.
type Frame struct {
	Left, Top, Width, Height uint16
	PackedFields             byte
	LocalColorTable          []byte
	MinCodeSize              byte
	Data                     []byte // opaque, pre-LZW-decompression image sub-block payload
	GCE                      *GraphicsControlExtension
}

// HasLocalColorTable reports bit 7 of the image descriptor's packed fields.
func (f Frame) HasLocalColorTable() bool {
	return f.PackedFields&fieldColorTable != 0
}

// Interlaced reports bit 6 of the image descriptor's packed fields.
func (f Frame) Interlaced() bool {
	return f.PackedFields&fieldInterlace != 0
}

// LocalColorTableSize returns the number of RGB triples the local color
// table carries, if present.
func (f Frame) LocalColorTableSize() int {
	return 1 << (uint(f.PackedFields&fieldColorTableSizeN) + 1)
}

// CommentExtension is a textual payload assembled from sub-blocks. Invalid
// byte sequences are replaced with the Unicode replacement character rather
// than rejected.
type CommentExtension struct {
	Text string
}

// PlainTextExtension positions a text grid over the logical screen.
type PlainTextExtension struct {
	TextGridLeft, TextGridTop           uint16
	TextGridWidth, TextGridHeight       uint16
	CellWidth, CellHeight               byte
	ForegroundColorIndex                byte
	BackgroundColorIndex                byte
	Text                                string
}

// ApplicationExtension carries an 8-byte identifier, a 3-byte auth code and
// a sub-block-assembled data payload.
type ApplicationExtension struct {
	Identifier [8]byte
	AuthCode   [3]byte
	Data       []byte
}

// ParsedGif is the full output of Parse: the logical screen, the ordered
// frame list with attached graphics control extensions, and the three
// extension collections.
type ParsedGif struct {
	Version      string // "GIF87a" or "GIF89a"
	Screen       LogicalScreen
	Frames       []Frame
	Comments     []CommentExtension
	PlainTexts   []PlainTextExtension
	Applications []ApplicationExtension

	// Truncated is true when the block loop stopped early because of a
	// structural error; whatever was parsed cleanly up to that point is
	// still returned (see spec §7, §9 "Partial-failure semantics").
	Truncated bool
}

// netscapeIdentifier and netscapeAuthCode are the fixed values of the
// NETSCAPE2.0 application extension that carries the animation loop count.
var (
	netscapeIdentifier = [8]byte{'N', 'E', 'T', 'S', 'C', 'A', 'P', 'E'}
	netscapeAuthCode    = [3]byte{'2', '.', '0'}
)

// LoopCount scans the parsed application extensions for a NETSCAPE2.0 block
// and returns its loop count (0 meaning infinite). The second return value
// is false if no such extension is present.
func LoopCount(apps []ApplicationExtension) (int, bool) {
	for _, app := range apps {
		if app.Identifier != netscapeIdentifier || app.AuthCode != netscapeAuthCode {
			continue
		}
		if len(app.Data) >= 3 && app.Data[0] == 0x01 {
			return int(app.Data[1]) | int(app.Data[2])<<8, true
		}
	}
	return 0, false
}
