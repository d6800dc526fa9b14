package lzw

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// decodeForTest is a reference LZW decoder used only to verify the encoder
// round-trips. The library itself never ships a decoder (spec §1: "The LZW
// decoder (source does not implement it...)").
func decodeForTest(t *testing.T, encoded []byte, minCodeSize int) []byte {
	t.Helper()

	clearCode := 1 << uint(minCodeSize)
	eoiCode := clearCode + 1

	var codeWidth int
	var nextCode int
	var dict map[int][]byte

	reset := func() {
		codeWidth = minCodeSize + 1
		nextCode = clearCode + 2
		dict = make(map[int][]byte)
	}
	reset()

	seqFor := func(code int) []byte {
		if code < clearCode {
			return []byte{byte(code)}
		}
		return dict[code]
	}

	var bitBuf uint32
	var bitCount uint
	pos := 0
	readCode := func() (int, bool) {
		for bitCount < uint(codeWidth) {
			if pos >= len(encoded) {
				return 0, false
			}
			bitBuf |= uint32(encoded[pos]) << bitCount
			bitCount += 8
			pos++
		}
		mask := uint32(1)<<uint(codeWidth) - 1
		code := int(bitBuf & mask)
		bitBuf >>= uint(codeWidth)
		bitCount -= uint(codeWidth)
		return code, true
	}

	var out []byte
	prevCode := -1

	for {
		code, ok := readCode()
		require.True(t, ok, "unexpected end of LZW stream")

		if code == clearCode {
			reset()
			prevCode = -1
			continue
		}
		if code == eoiCode {
			break
		}

		var entry []byte
		switch {
		case prevCode < 0:
			entry = seqFor(code)
		case code < nextCode:
			entry = seqFor(code)
			newEntry := append(append([]byte(nil), seqFor(prevCode)...), entry[0])
			dict[nextCode] = newEntry
			nextCode++
		case code == nextCode:
			prev := seqFor(prevCode)
			entry = append(append([]byte(nil), prev...), prev[0])
			dict[nextCode] = entry
			nextCode++
		default:
			t.Fatalf("invalid LZW code %d (nextCode=%d)", code, nextCode)
		}

		out = append(out, entry...)
		prevCode = code

		if nextCode == 1<<uint(codeWidth) && codeWidth < maxCodeWidth {
			codeWidth++
		}
	}
	return out
}

func encodeAll(minCodeSize int, pixels []byte) []byte {
	e := NewEncoder(minCodeSize)
	e.Write(pixels)
	return e.Close()
}

func TestEncoder_FirstCodeIsClearLastIsEOI(t *testing.T) {
	codes := codeStream(t, encodeAll(2, []byte{0, 0, 1, 1, 0, 1}), 2)
	require.NotEmpty(t, codes)
	require.Equal(t, 1<<2, codes[0], "first emitted code must be the clear code")
	require.Equal(t, 1<<2+1, codes[len(codes)-1], "last emitted code must be EOI")
}

// codeStream decodes the raw fixed/variable-width code sequence (not the
// reconstructed bytes) for structural assertions.
func codeStream(t *testing.T, encoded []byte, minCodeSize int) []int {
	t.Helper()

	clearCode := 1 << uint(minCodeSize)
	eoiCode := clearCode + 1
	codeWidth := minCodeSize + 1
	nextCode := clearCode + 2

	var bitBuf uint32
	var bitCount uint
	pos := 0

	var codes []int
	havePrev := false
	for {
		for bitCount < uint(codeWidth) {
			if pos >= len(encoded) {
				return codes
			}
			bitBuf |= uint32(encoded[pos]) << bitCount
			bitCount += 8
			pos++
		}
		mask := uint32(1)<<uint(codeWidth) - 1
		code := int(bitBuf & mask)
		bitBuf >>= uint(codeWidth)
		bitCount -= uint(codeWidth)

		codes = append(codes, code)

		if code == clearCode {
			codeWidth = minCodeSize + 1
			nextCode = clearCode + 2
			havePrev = false
			continue
		}
		if code == eoiCode {
			return codes
		}

		// Like decodeForTest, the first code after a clear adds no entry.
		if havePrev {
			nextCode++
		}
		havePrev = true
		if nextCode == 1<<uint(codeWidth) && codeWidth < maxCodeWidth {
			codeWidth++
		}
	}
}

func TestEncoder_RoundTripsSolidImage(t *testing.T) {
	pixels := make([]byte, 10000)
	got := decodeForTest(t, encodeAll(2, pixels), 2)
	require.Equal(t, pixels, got)
}

func TestEncoder_RoundTripsRepeatingPattern(t *testing.T) {
	pixels := make([]byte, 5000)
	for i := range pixels {
		pixels[i] = byte(i % 4)
	}
	got := decodeForTest(t, encodeAll(2, pixels), 2)
	require.Equal(t, pixels, got)
}

func TestEncoder_RoundTripsRandomData(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pixels := make([]byte, 20000)
	for i := range pixels {
		pixels[i] = byte(rng.Intn(8))
	}
	got := decodeForTest(t, encodeAll(3, pixels), 3)
	require.Equal(t, pixels, got)
}

func TestEncoder_ForcesClearBeforeDictionaryOverflow(t *testing.T) {
	// A long, highly repetitive-but-not-identical sequence pushes the
	// dictionary past its 4096-entry ceiling, forcing at least one
	// mid-stream clear code in addition to the initial one.
	pixels := make([]byte, 50000)
	for i := range pixels {
		pixels[i] = byte((i * 7 / (i%13 + 1)) % 4)
	}

	encoded := encodeAll(2, pixels)
	codes := codeStream(t, encoded, 2)

	clearCode := 1 << 2
	clears := 0
	for _, c := range codes {
		if c == clearCode {
			clears++
		}
	}
	require.GreaterOrEqual(t, clears, 2)

	got := decodeForTest(t, encoded, 2)
	require.Equal(t, pixels, got)
}

func TestEncoder_StreamingWritesMatchSingleWrite(t *testing.T) {
	pixels := []byte{0, 1, 2, 3, 0, 1, 2, 3, 0, 0, 0, 1, 1, 1, 2, 3}

	whole := encodeAll(2, pixels)

	e := NewEncoder(2)
	for _, b := range pixels {
		e.Write([]byte{b})
	}
	chunked := e.Close()

	require.Equal(t, whole, chunked)
}
