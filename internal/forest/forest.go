package forest

import (
	"encoding/json"
	"errors"
	"math"
	"math/rand"
)

// Defaults mirror the training policy: 100 trees, fixed seed 42.
const (
	DefaultTrees = 100
	DefaultSeed  = 42
)

// Options controls forest training.
type Options struct {
	Trees    int
	Seed     int64
	MaxDepth int // 0 means unbounded
	MinLeaf  int
	Balanced bool // weight classes inversely to their frequency
}

// DefaultOptions returns the standard training configuration.
func DefaultOptions() Options {
	return Options{Trees: DefaultTrees, Seed: DefaultSeed, MinLeaf: 1, Balanced: true}
}

// Forest is a fitted ensemble of decision trees. It is immutable after Train;
// Predict is deterministic for fixed fitted state and input.
type Forest struct {
	Trees       []tree `json:"trees"`
	NumFeatures int    `json:"num_features"`
	NumClasses  int    `json:"num_classes"`
}

// Train fits an ensemble on X/y. Each tree grows on a bootstrap sample with a
// sqrt(d) random feature subset per split; randomness derives only from
// opt.Seed, so training is reproducible.
func Train(X [][]float64, y []int, opt Options) (*Forest, error) {
	if len(X) == 0 || len(X) != len(y) {
		return nil, errors.New("forest: empty or mismatched training data")
	}
	if opt.Trees <= 0 {
		opt.Trees = DefaultTrees
	}
	if opt.MinLeaf <= 0 {
		opt.MinLeaf = 1
	}
	d := len(X[0])
	classes := 0
	for _, c := range y {
		if c < 0 {
			return nil, errors.New("forest: negative class label")
		}
		if c+1 > classes {
			classes = c + 1
		}
	}

	weights := make([]float64, len(y))
	for i := range weights {
		weights[i] = 1
	}
	if opt.Balanced {
		counts := make([]float64, classes)
		for _, c := range y {
			counts[c]++
		}
		for i, c := range y {
			// balanced weight: n / (k * n_c)
			weights[i] = float64(len(y)) / (float64(classes) * counts[c])
		}
	}

	mtry := int(math.Sqrt(float64(d)))
	if mtry < 1 {
		mtry = 1
	}

	f := &Forest{Trees: make([]tree, opt.Trees), NumFeatures: d, NumClasses: classes}
	for t := 0; t < opt.Trees; t++ {
		rng := rand.New(rand.NewSource(opt.Seed + int64(t)))
		idx := make([]int, len(X))
		for i := range idx {
			idx[i] = rng.Intn(len(X))
		}
		ctx := &growContext{
			X:        X,
			Y:        y,
			Weights:  weights,
			Classes:  classes,
			MaxDepth: opt.MaxDepth,
			MinLeaf:  opt.MinLeaf,
			Features: mtry,
			RNG:      rng,
		}
		f.Trees[t] = tree{Root: growTree(ctx, idx, 0)}
	}
	return f, nil
}

// Predict returns the majority-vote class for one row. Ties resolve to the
// lower class index.
func (f *Forest) Predict(x []float64) int {
	votes := make([]int, f.NumClasses)
	for i := range f.Trees {
		votes[f.Trees[i].predict(x)]++
	}
	best := 0
	for c := 1; c < f.NumClasses; c++ {
		if votes[c] > votes[best] {
			best = c
		}
	}
	return best
}

// PredictBatch applies Predict row-wise, preserving input order.
func (f *Forest) PredictBatch(X [][]float64) []int {
	out := make([]int, len(X))
	for i, x := range X {
		out[i] = f.Predict(x)
	}
	return out
}

// Encode serializes the fitted forest for the artifact store.
func (f *Forest) Encode() ([]byte, error) {
	return json.Marshal(f)
}

// Decode restores a fitted forest from Encode output.
func Decode(b []byte) (*Forest, error) {
	var f Forest
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
