package forest

import (
	"math"
	"math/rand"
	"sort"
)

// node is one decision-tree node. Exported fields keep the tree JSON-encodable
// so a fitted forest can be persisted with the rest of the artifact set.
type node struct {
	Leaf    bool    `json:"leaf"`
	Class   int     `json:"class,omitempty"`
	Feature int     `json:"feature,omitempty"`
	Thresh  float64 `json:"thresh,omitempty"`
	Left    *node   `json:"left,omitempty"`
	Right   *node   `json:"right,omitempty"`
}

// tree is a single CART classifier grown on a bootstrap sample.
type tree struct {
	Root *node `json:"root"`
}

type growContext struct {
	X        [][]float64
	Y        []int
	Weights  []float64 // per-sample weight, already includes class weighting
	Classes  int
	MaxDepth int
	MinLeaf  int
	Features int // candidate features per split
	RNG      *rand.Rand
}

func growTree(ctx *growContext, idx []int, depth int) *node {
	cls, pure := majorityClass(ctx, idx)
	if pure || len(idx) < 2*ctx.MinLeaf || (ctx.MaxDepth > 0 && depth >= ctx.MaxDepth) {
		return &node{Leaf: true, Class: cls}
	}
	feat, thresh, ok := bestSplit(ctx, idx)
	if !ok {
		return &node{Leaf: true, Class: cls}
	}
	var left, right []int
	for _, i := range idx {
		if ctx.X[i][feat] <= thresh {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < ctx.MinLeaf || len(right) < ctx.MinLeaf {
		return &node{Leaf: true, Class: cls}
	}
	return &node{
		Feature: feat,
		Thresh:  thresh,
		Left:    growTree(ctx, left, depth+1),
		Right:   growTree(ctx, right, depth+1),
	}
}

// majorityClass returns the weighted majority class of idx and whether the
// subset is pure. Ties resolve to the lower class index for determinism.
func majorityClass(ctx *growContext, idx []int) (int, bool) {
	counts := make([]float64, ctx.Classes)
	distinct := 0
	for _, i := range idx {
		if counts[ctx.Y[i]] == 0 {
			distinct++
		}
		counts[ctx.Y[i]] += ctx.Weights[i]
	}
	best := 0
	for c := 1; c < ctx.Classes; c++ {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best, distinct <= 1
}

// bestSplit scans a random feature subset for the threshold minimizing weighted
// Gini impurity. Thresholds are midpoints between consecutive distinct values.
func bestSplit(ctx *growContext, idx []int) (int, float64, bool) {
	candidates := ctx.RNG.Perm(len(ctx.X[0]))[:ctx.Features]
	sort.Ints(candidates)

	bestGini := math.Inf(1)
	bestFeat, bestThresh := -1, 0.0

	total := make([]float64, ctx.Classes)
	var totalW float64
	for _, i := range idx {
		total[ctx.Y[i]] += ctx.Weights[i]
		totalW += ctx.Weights[i]
	}

	order := make([]int, len(idx))
	for _, feat := range candidates {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return ctx.X[order[a]][feat] < ctx.X[order[b]][feat] })

		left := make([]float64, ctx.Classes)
		var leftW float64
		for k := 0; k < len(order)-1; k++ {
			i := order[k]
			left[ctx.Y[i]] += ctx.Weights[i]
			leftW += ctx.Weights[i]
			v, next := ctx.X[i][feat], ctx.X[order[k+1]][feat]
			if v == next {
				continue
			}
			g := weightedGini(left, leftW, total, totalW)
			if g < bestGini {
				bestGini = g
				bestFeat = feat
				bestThresh = (v + next) / 2
			}
		}
	}
	if bestFeat < 0 {
		return 0, 0, false
	}
	return bestFeat, bestThresh, true
}

// weightedGini computes the split impurity from left-side and total class
// weights; the right side is derived by subtraction.
func weightedGini(left []float64, leftW float64, total []float64, totalW float64) float64 {
	rightW := totalW - leftW
	if leftW == 0 || rightW == 0 {
		return math.Inf(1)
	}
	gl, gr := 1.0, 1.0
	for c := range left {
		pl := left[c] / leftW
		pr := (total[c] - left[c]) / rightW
		gl -= pl * pl
		gr -= pr * pr
	}
	return (leftW*gl + rightW*gr) / totalW
}

// predict walks the tree for one feature row.
func (t *tree) predict(x []float64) int {
	n := t.Root
	for !n.Leaf {
		if x[n.Feature] <= n.Thresh {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Class
}
