package lc0

import "math"

// Network holds the value/WDL network weights as float32.
type Network struct {
	// Hidden layer: InputSize -> HiddenSize, ReLU.
	W1 [InputSize][HiddenSize]float32
	B1 [HiddenSize]float32

	// WDL head: HiddenSize -> 3, softmax.
	W2 [HiddenSize][WdlSize]float32
	B2 [WdlSize]float32
}

// NewNetwork creates a network with zero weights (must load weights or
// init random).
func NewNetwork() *Network {
	return &Network{}
}

// Forward runs inference on encoded planes and returns the prediction.
func (n *Network) Forward(planes *[InputSize]float32) Prediction {
	var hidden [HiddenSize]float32
	copy(hidden[:], n.B1[:])
	for i := 0; i < InputSize; i++ {
		x := planes[i]
		if x == 0 {
			continue
		}
		w := &n.W1[i]
		for j := 0; j < HiddenSize; j++ {
			hidden[j] += x * w[j]
		}
	}
	for j := 0; j < HiddenSize; j++ {
		if hidden[j] < 0 {
			hidden[j] = 0
		}
	}

	var logits [WdlSize]float64
	for k := 0; k < WdlSize; k++ {
		sum := float64(n.B2[k])
		for j := 0; j < HiddenSize; j++ {
			sum += float64(hidden[j]) * float64(n.W2[j][k])
		}
		logits[k] = sum
	}

	wdl := softmax3(logits)
	return Prediction{
		Wdl:   wdl,
		Value: wdl[0] - wdl[2],
	}
}

// softmax3 computes a numerically stable softmax over three logits.
func softmax3(logits [3]float64) [3]float32 {
	max := logits[0]
	for _, l := range logits[1:] {
		if l > max {
			max = l
		}
	}
	var exps [3]float64
	var sum float64
	for i, l := range logits {
		exps[i] = math.Exp(l - max)
		sum += exps[i]
	}
	var out [3]float32
	for i := range exps {
		out[i] = float32(exps[i] / sum)
	}
	return out
}

// InitRandom initializes weights with small random values (for testing
// only).
func (n *Network) InitRandom(seed int64) {
	// Simple LCG for reproducibility.
	state := uint64(seed)
	next := func() float32 {
		state = state*6364136223846793005 + 1442695040888963407
		return (float32(state>>40)/float32(1<<24) - 0.5) * 0.1
	}

	for i := 0; i < InputSize; i++ {
		for j := 0; j < HiddenSize; j++ {
			n.W1[i][j] = next()
		}
	}
	for j := 0; j < HiddenSize; j++ {
		n.B1[j] = next()
	}
	for j := 0; j < HiddenSize; j++ {
		for k := 0; k < WdlSize; k++ {
			n.W2[j][k] = next()
		}
	}
	for k := 0; k < WdlSize; k++ {
		n.B2[k] = next()
	}
}
