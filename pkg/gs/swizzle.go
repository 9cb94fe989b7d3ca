package gs

// swizzleTileW and swizzleTileH are the dimensions of the region the
// PSMT8 address permutation operates within: each 16-column by 4-row
// tile (64 indices) reorders independently of every other tile.
const (
	swizzleTileW = 16
	swizzleTileH = 4
)

// swizzle8Table maps an index's linear offset within a 16x4 tile to its
// offset in the swizzled layout: the top-right 8x2 quadrant trades
// places with the bottom-left 8x2 quadrant, and the remaining two
// quadrants stay put. Swapping the same two regions is its own inverse,
// so one table serves both directions.
var swizzle8Table = buildSwizzle8Table()

func buildSwizzle8Table() [swizzleTileW * swizzleTileH]int {
	var table [swizzleTileW * swizzleTileH]int
	for row := 0; row < swizzleTileH; row++ {
		for col := 0; col < swizzleTileW; col++ {
			dstRow, dstCol := row, col
			switch {
			case row < 2 && col >= 8:
				dstRow, dstCol = row+2, col-8
			case row >= 2 && col < 8:
				dstRow, dstCol = row-2, col+8
			}
			table[row*swizzleTileW+col] = dstRow*swizzleTileW + dstCol
		}
	}
	return table
}

// Swizzle8 reorders a width*height PSMT8 index buffer between linear
// (row-major) order and the tile-swizzled order used on the wire, by
// table lookup within each complete 16x4 tile. Rows and columns that
// don't fill a complete tile are left in place untouched. The
// permutation is self-inverse, so this single function serves both
// directions.
func Swizzle8(indices []byte, width, height int) []byte {
	out := make([]byte, len(indices))
	copy(out, indices)

	tileCols := width / swizzleTileW
	tileRows := height / swizzleTileH

	for tr := 0; tr < tileRows; tr++ {
		for tc := 0; tc < tileCols; tc++ {
			originX := tc * swizzleTileW
			originY := tr * swizzleTileH
			for src, dst := range swizzle8Table {
				if dst <= src {
					continue
				}
				srcPos := (originY+src/swizzleTileW)*width + originX + src%swizzleTileW
				dstPos := (originY+dst/swizzleTileW)*width + originX + dst%swizzleTileW
				out[srcPos], out[dstPos] = out[dstPos], out[srcPos]
			}
		}
	}
	return out
}

// Unswizzle8 reverses Swizzle8. The permutation is self-inverse, so this
// is provided as a distinct name purely for call-site clarity.
func Unswizzle8(indices []byte, width, height int) []byte {
	return Swizzle8(indices, width, height)
}
