// Package quant implements Wu's greedy variance-minimizing color
// quantizer, used to reduce a true-color raster down to the small
// palettes the indexed PSM formats require.
package quant

import (
	"image/color"

	"github.com/hansbonini/tmxtools/pkg/common"
	"github.com/pkg/errors"
)

// histSize is one more than the number of quantization levels per
// channel (32 levels, 0..32 inclusive), matching Wu's original 33^3
// histogram moment array.
const histSize = 33

// ErrTooFewColors is returned when Quantize is asked for more colors
// than the histogram has occupied cells to supply. In practice that
// means an empty input, since any non-empty input yields a palette of
// min(requested, distinct) entries instead of failing.
var ErrTooFewColors = errors.New("quant: requested palette size exceeds distinct color count")

// Result is the outcome of a quantization pass: a palette of at most
// maxColors entries and a parallel slice of indices, one per input
// pixel, into that palette.
type Result struct {
	Palette []color.RGBA
	Indices []uint8
}

// box is an exclusive-inclusive cuboid over the quantized color
// histogram: channel c's range is (min[c], max[c]].
type box struct {
	rMin, rMax int
	gMin, gMax int
	bMin, bMax int
	vol        int
}

// moments holds the cumulative 3-D histogram: weighted pixel count and
// first moments of R, G, B plus the sum of squares, each as a prefix
// sum over the 33^3 quantized color grid. This mirrors Wu's reference
// algorithm (Graphics Gems II, "Color Quantization by Dynamic
// Programming and Principal Analysis").
type moments struct {
	weight [histSize][histSize][histSize]int64
	momR   [histSize][histSize][histSize]int64
	momG   [histSize][histSize][histSize]int64
	momB   [histSize][histSize][histSize]int64
	momSq  [histSize][histSize][histSize]float64
}

// Quantize reduces pixels to at most maxColors palette entries using
// Wu's algorithm. Alpha is preserved per output palette entry as the
// mean alpha of the pixels nearest-assigned to it; the RGB distance
// used for box splitting and final assignment ignores alpha.
func Quantize(pixels []color.RGBA, maxColors int) (*Result, error) {
	if maxColors <= 0 {
		return nil, errors.New("quant: maxColors must be positive")
	}
	if len(pixels) == 0 {
		return nil, ErrTooFewColors
	}

	m := buildMoments(pixels)
	boxes := splitBoxes(&m, maxColors)

	palette := make([]color.RGBA, len(boxes))
	for i, b := range boxes {
		palette[i] = boxCentroid(&m, b)
	}

	indices := assignNearest(pixels, palette)
	accumulateAlpha(pixels, indices, palette)

	return &Result{Palette: palette, Indices: indices}, nil
}

func quantize5(v uint8) int {
	return int(v>>3) + 1
}

func buildMoments(pixels []color.RGBA) moments {
	var m moments
	var freq [histSize][histSize][histSize]int64
	var sumR, sumG, sumB [histSize][histSize][histSize]int64
	var sumSq [histSize][histSize][histSize]float64

	for _, p := range pixels {
		r, g, b := quantize5(p.R), quantize5(p.G), quantize5(p.B)
		freq[r][g][b]++
		sumR[r][g][b] += int64(p.R)
		sumG[r][g][b] += int64(p.G)
		sumB[r][g][b] += int64(p.B)
		sumSq[r][g][b] += float64(p.R)*float64(p.R) + float64(p.G)*float64(p.G) + float64(p.B)*float64(p.B)
	}

	// 3-D prefix sums over the R axis, then G, then B, turning raw
	// per-cell totals into cumulative totals for O(1) box queries.
	for r := 1; r < histSize; r++ {
		for g := 1; g < histSize; g++ {
			for b := 1; b < histSize; b++ {
				freq[r][g][b] += freq[r-1][g][b] + freq[r][g-1][b] + freq[r][g][b-1] -
					freq[r-1][g-1][b] - freq[r-1][g][b-1] - freq[r][g-1][b-1] + freq[r-1][g-1][b-1]
				sumR[r][g][b] += sumR[r-1][g][b] + sumR[r][g-1][b] + sumR[r][g][b-1] -
					sumR[r-1][g-1][b] - sumR[r-1][g][b-1] - sumR[r][g-1][b-1] + sumR[r-1][g-1][b-1]
				sumG[r][g][b] += sumG[r-1][g][b] + sumG[r][g-1][b] + sumG[r][g][b-1] -
					sumG[r-1][g-1][b] - sumG[r-1][g][b-1] - sumG[r][g-1][b-1] + sumG[r-1][g-1][b-1]
				sumB[r][g][b] += sumB[r-1][g][b] + sumB[r][g-1][b] + sumB[r][g][b-1] -
					sumB[r-1][g-1][b] - sumB[r-1][g][b-1] - sumB[r][g-1][b-1] + sumB[r-1][g-1][b-1]
				sumSq[r][g][b] += sumSq[r-1][g][b] + sumSq[r][g-1][b] + sumSq[r][g][b-1] -
					sumSq[r-1][g-1][b] - sumSq[r-1][g][b-1] - sumSq[r][g-1][b-1] + sumSq[r-1][g-1][b-1]
			}
		}
	}

	m.weight = freq
	m.momR = sumR
	m.momG = sumG
	m.momB = sumB
	m.momSq = sumSq
	return m
}

// volumeInt returns the cumulative moment total within b for the given
// prefix-sum cube, via inclusion-exclusion over the box corners.
func volumeInt(cube *[histSize][histSize][histSize]int64, b box) int64 {
	return cube[b.rMax][b.gMax][b.bMax] -
		cube[b.rMax][b.gMax][b.bMin] -
		cube[b.rMax][b.gMin][b.bMax] -
		cube[b.rMin][b.gMax][b.bMax] +
		cube[b.rMax][b.gMin][b.bMin] +
		cube[b.rMin][b.gMax][b.bMin] +
		cube[b.rMin][b.gMin][b.bMax] -
		cube[b.rMin][b.gMin][b.bMin]
}

func volumeFloat(cube *[histSize][histSize][histSize]float64, b box) float64 {
	return cube[b.rMax][b.gMax][b.bMax] -
		cube[b.rMax][b.gMax][b.bMin] -
		cube[b.rMax][b.gMin][b.bMax] -
		cube[b.rMin][b.gMax][b.bMax] +
		cube[b.rMax][b.gMin][b.bMin] +
		cube[b.rMin][b.gMax][b.bMin] +
		cube[b.rMin][b.gMin][b.bMax] -
		cube[b.rMin][b.gMin][b.bMin]
}

// variance computes the weighted variance of b: the sum of squares
// minus the sum of means squared, weighted by the box's pixel count.
func variance(m *moments, b box) float64 {
	w := volumeInt(&m.weight, b)
	if w == 0 {
		return 0
	}
	r := volumeInt(&m.momR, b)
	g := volumeInt(&m.momG, b)
	bl := volumeInt(&m.momB, b)
	sq := volumeFloat(&m.momSq, b)

	dist := float64(r)*float64(r) + float64(g)*float64(g) + float64(bl)*float64(bl)
	return sq - dist/float64(w)
}

// splitBoxes greedily splits the whole-cube box into at most maxColors
// boxes, each time choosing the box with the greatest reducible
// variance and the axis/position that most reduces total variance.
func splitBoxes(m *moments, maxColors int) []box {
	boxes := []box{{rMin: 0, rMax: histSize - 1, gMin: 0, gMax: histSize - 1, bMin: 0, bMax: histSize - 1}}

	unsplittable := make(map[int]bool)
	for len(boxes) < maxColors {
		bestIdx := -1
		bestVar := -1.0
		for i, b := range boxes {
			if unsplittable[i] || volumeInt(&m.weight, b) <= 1 {
				continue
			}
			v := variance(m, b)
			if v > bestVar {
				bestVar = v
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}

		split := boxes[bestIdx]
		b1, b2, ok := splitBox(m, split)
		if !ok {
			unsplittable[bestIdx] = true
			continue
		}
		boxes[bestIdx] = b1
		boxes = append(boxes, b2)
		common.LogDebug(common.DebugQuantizeBoxSplit, bestIdx, volumeInt(&m.weight, split), bestVar)
	}

	return boxes
}

// splitBox finds, across all three axes and every interior cut plane,
// the cut that minimizes the sum of the two resulting sub-box
// variances (the combined within-box variance), and returns the two
// halves.
func splitBox(m *moments, b box) (box, box, bool) {
	type cut struct {
		axis int // 0=R, 1=G, 2=B
		pos  int
		gain float64
	}

	best := cut{gain: -1}
	found := false

	tryAxis := func(axis int, lo, hi int, make func(pos int) (box, box)) {
		for pos := lo + 1; pos < hi; pos++ {
			b1, b2 := make(pos)
			if volumeInt(&m.weight, b1) == 0 || volumeInt(&m.weight, b2) == 0 {
				continue
			}
			gain := variance(m, b1) + variance(m, b2)
			if !found || gain < best.gain {
				best = cut{axis: axis, pos: pos, gain: gain}
				found = true
			}
		}
	}

	tryAxis(0, b.rMin, b.rMax, func(pos int) (box, box) {
		b1, b2 := b, b
		b1.rMax, b2.rMin = pos, pos
		return b1, b2
	})
	tryAxis(1, b.gMin, b.gMax, func(pos int) (box, box) {
		b1, b2 := b, b
		b1.gMax, b2.gMin = pos, pos
		return b1, b2
	})
	tryAxis(2, b.bMin, b.bMax, func(pos int) (box, box) {
		b1, b2 := b, b
		b1.bMax, b2.bMin = pos, pos
		return b1, b2
	})

	if !found {
		return box{}, box{}, false
	}

	b1, b2 := b, b
	switch best.axis {
	case 0:
		b1.rMax, b2.rMin = best.pos, best.pos
	case 1:
		b1.gMax, b2.gMin = best.pos, best.pos
	case 2:
		b1.bMax, b2.bMin = best.pos, best.pos
	}
	return b1, b2, true
}

// boxCentroid returns the mean color of the pixels inside b.
func boxCentroid(m *moments, b box) color.RGBA {
	w := volumeInt(&m.weight, b)
	if w == 0 {
		return color.RGBA{A: 0xFF}
	}
	r := volumeInt(&m.momR, b) / w
	g := volumeInt(&m.momG, b) / w
	bl := volumeInt(&m.momB, b) / w
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(bl), A: 0xFF}
}

// assignNearest maps each pixel to the index of its nearest palette
// entry by squared Euclidean RGB distance, breaking ties toward the
// lowest palette index.
func assignNearest(pixels []color.RGBA, palette []color.RGBA) []uint8 {
	indices := make([]uint8, len(pixels))
	for i, p := range pixels {
		bestIdx := 0
		bestDist := int64(-1)
		for j, c := range palette {
			dr := int64(p.R) - int64(c.R)
			dg := int64(p.G) - int64(c.G)
			db := int64(p.B) - int64(c.B)
			dist := dr*dr + dg*dg + db*db
			if bestDist < 0 || dist < bestDist {
				bestDist = dist
				bestIdx = j
			}
		}
		indices[i] = uint8(bestIdx)
	}
	return indices
}

// accumulateAlpha replaces each palette entry's alpha with the mean
// alpha of the pixels assigned to it, leaving unassigned entries fully
// opaque.
func accumulateAlpha(pixels []color.RGBA, indices []uint8, palette []color.RGBA) {
	sums := make([]int64, len(palette))
	counts := make([]int64, len(palette))
	for i, idx := range indices {
		sums[idx] += int64(pixels[i].A)
		counts[idx]++
	}
	for i := range palette {
		if counts[i] == 0 {
			palette[i].A = 0xFF
			continue
		}
		palette[i].A = uint8(sums[i] / counts[i])
	}
}
