// Package lzw implements GIF's variable-width LZW compressor: the shared
// codec the encoder state machine feeds pixel bytes into. There is no
// decoder here — the demuxer passes compressed image data through
// unmodified (spec §1).
//
// The dictionary is a flat map keyed by (prefix code, next byte) instead of
// the hash table classic C GIF encoders use (see the GIFCOMPR.C-derived
// encoder in the retrieval pack); this avoids a per-lookup string
// allocation while keeping the same greedy longest-match algorithm.
package lzw

const (
	maxCodeWidth = 12
	maxCode      = 1<<maxCodeWidth - 1 // 4095, the last assignable code
)

type dictKey struct {
	prefix int
	b      byte
}

// Encoder packs pixel bytes into GIF LZW codes. All state is private and is
// reset between frames by constructing a new Encoder (spec §4.3: "no
// user-visible state").
type Encoder struct {
	minCodeSize int

	clearCode int
	eoiCode   int
	nextCode  int
	codeWidth int

	dict map[dictKey]int

	// prefix is the code for the currently matched sequence W, or -1 when
	// W is empty (start of stream, or just after a clear/emit).
	prefix int

	bitBuf   uint32
	bitCount uint

	out []byte
}

// NewEncoder initializes per-frame LZW state for the given min_code_size (k)
// and immediately queues a clear code, per spec §4.3.
func NewEncoder(minCodeSize int) *Encoder {
	e := &Encoder{minCodeSize: minCodeSize}
	e.resetDict()
	e.emitCode(e.clearCode)
	return e
}

func (e *Encoder) resetDict() {
	k := e.minCodeSize
	e.clearCode = 1 << uint(k)
	e.eoiCode = e.clearCode + 1
	e.nextCode = e.clearCode + 2
	e.codeWidth = k + 1
	e.dict = make(map[dictKey]int)
	e.prefix = -1
}

// Write feeds raw palette-indexed pixel bytes into the encoder. It may be
// called any number of times per frame; the greedy longest-match search
// carries its state (W) across calls.
func (e *Encoder) Write(pixels []byte) {
	for _, b := range pixels {
		if e.prefix < 0 {
			e.prefix = int(b)
			continue
		}

		key := dictKey{e.prefix, b}
		if code, ok := e.dict[key]; ok {
			e.prefix = code
			continue
		}

		e.emitCode(e.prefix)
		e.insert(key)
		e.prefix = int(b)
	}
}

// insert adds a new dictionary entry, grows the code width when the
// assigned code crosses a power-of-two boundary, and clears the dictionary
// once it would otherwise overflow 4095 entries (spec §4.3, §8: "An image
// with exactly 4095 dictionary entries before insertion triggers a clear
// code, not an overflow").
func (e *Encoder) insert(key dictKey) {
	e.dict[key] = e.nextCode
	if e.nextCode == 1<<uint(e.codeWidth) && e.codeWidth < maxCodeWidth {
		e.codeWidth++
	}
	e.nextCode++

	if e.nextCode > maxCode {
		e.emitCode(e.clearCode)
		e.resetDict()
	}
}

// Bytes drains the bytes produced so far, leaving the encoder ready for
// more input.
func (e *Encoder) Bytes() []byte {
	out := e.out
	e.out = nil
	return out
}

// Close emits the residual code for W (if any), the end-of-information
// code, flushes the bit buffer padded with zeros to a whole byte, and
// returns every byte produced since the last call to Bytes.
func (e *Encoder) Close() []byte {
	if e.prefix >= 0 {
		e.emitCode(e.prefix)
		e.prefix = -1
	}
	e.emitCode(e.eoiCode)

	if e.bitCount > 0 {
		e.out = append(e.out, byte(e.bitBuf))
		e.bitBuf = 0
		e.bitCount = 0
	}
	return e.Bytes()
}

// emitCode packs code LSB-first into the running bit buffer and flushes
// whole bytes out of it (spec §4.3, "little-endian code packing").
func (e *Encoder) emitCode(code int) {
	e.bitBuf |= uint32(code) << e.bitCount
	e.bitCount += uint(e.codeWidth)

	for e.bitCount >= 8 {
		e.out = append(e.out, byte(e.bitBuf))
		e.bitBuf >>= 8
		e.bitCount -= 8
	}
}
