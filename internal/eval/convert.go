package eval

import (
	"fmt"
	"math"

	"github.com/hailam/chesseval/internal/classical"
)

// ToWdl converts raw win/draw/loss floats into a normalized integer
// distribution summing exactly to classical.Total.
//
// The inputs are normalized to probabilities, floored after scaling,
// and the shortfall is distributed by largest fractional remainder
// with ties broken in win > draw > loss order. Naive independent
// rounding can miss the total by a unit or two; downstream code treats
// the exact sum as an invariant.
func ToWdl(raw [3]float32) (classical.Wdl, error) {
	win := float64(raw[0])
	draw := float64(raw[1])
	loss := float64(raw[2])

	if math.IsNaN(win) || math.IsInf(win, 0) ||
		math.IsNaN(draw) || math.IsInf(draw, 0) ||
		math.IsNaN(loss) || math.IsInf(loss, 0) {
		return classical.Wdl{}, fmt.Errorf("non-finite WDL values: %v", raw)
	}
	if win < 0 || draw < 0 || loss < 0 {
		return classical.Wdl{}, fmt.Errorf("negative WDL values: %v", raw)
	}
	sum := win + draw + loss
	if sum <= 0 {
		return classical.Wdl{}, fmt.Errorf("WDL sum must be positive: %v", raw)
	}

	scaled := [3]float64{
		win / sum * classical.Total,
		draw / sum * classical.Total,
		loss / sum * classical.Total,
	}
	var base [3]int
	var frac [3]float64
	total := 0
	for i, s := range scaled {
		base[i] = int(math.Floor(s))
		frac[i] = s - float64(base[i])
		total += base[i]
	}

	for remainder := classical.Total - total; remainder > 0; remainder-- {
		if frac[0] >= frac[1] && frac[0] >= frac[2] {
			base[0]++
			frac[0] = -1
		} else if frac[1] >= frac[2] {
			base[1]++
			frac[1] = -1
		} else {
			base[2]++
			frac[2] = -1
		}
	}

	return classical.Wdl{Win: base[0], Draw: base[1], Loss: base[2]}, nil
}

// WdlCentipawns maps a WDL distribution to a centipawn-like scalar via
// the logistic expected-score odds: round(400 * log10(s / (1-s))) with
// s = win + draw/2, clamped away from the logarithm singularities.
func WdlCentipawns(wdl classical.Wdl) int {
	win := float64(wdl.Win) / classical.Total
	draw := float64(wdl.Draw) / classical.Total
	score := win + 0.5*draw

	const eps = 1e-6
	if score < eps {
		score = eps
	}
	if score > 1.0-eps {
		score = 1.0 - eps
	}
	return int(math.Round(400.0 * math.Log10(score/(1.0-score))))
}
