package encodegif

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func rowsFor(height int) [][]byte {
	rows := make([][]byte, height)
	for i := range rows {
		rows[i] = []byte{byte(i)}
	}
	return rows
}

func TestInterlaceRows_CanonicalFourPassOrder(t *testing.T) {
	rows := rowsFor(16)
	got := InterlaceRows(rows)

	want := []byte{
		0, 8, // pass 1: every 8th row from 0
		4, 12, // pass 2: every 8th row from 4
		2, 6, 10, 14, // pass 3: every 4th row from 2
		1, 3, 5, 7, 9, 11, 13, 15, // pass 4: every 2nd row from 1
	}

	require.Len(t, got, len(want))
	for i, row := range got {
		require.Equal(t, want[i], row[0], "position %d", i)
	}
}

func TestInterlaceRows_PreservesRowCount(t *testing.T) {
	for _, h := range []int{1, 2, 7, 8, 9, 100} {
		got := InterlaceRows(rowsFor(h))
		require.Len(t, got, h)
	}
}
