package encodegif

// InterlaceRows reorders scanlines into the canonical GIF89a 4-pass
// interlace order:
//
//	pass 1: every 8th row starting at row 0 (0, 8, 16, ...)
//	pass 2: every 8th row starting at row 4 (4, 12, 20, ...)
//	pass 3: every 4th row starting at row 2 (2, 6, 10, ...)
//	pass 4: every 2nd row starting at row 1 (1, 3, 5, ...)
//
// The source this package was distilled from swapped the starting offsets
// of two passes; this is the corrected, canonical ordering and is the one
// every conforming GIF decoder expects (spec §9 Design Notes).
func InterlaceRows(rows [][]byte) [][]byte {
	height := len(rows)
	out := make([][]byte, 0, height)

	for row := 0; row < height; row += 8 {
		out = append(out, rows[row])
	}
	for row := 4; row < height; row += 8 {
		out = append(out, rows[row])
	}
	for row := 2; row < height; row += 4 {
		out = append(out, rows[row])
	}
	for row := 1; row < height; row += 2 {
		out = append(out, rows[row])
	}
	return out
}
