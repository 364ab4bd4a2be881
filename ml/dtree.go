// Package ml holds the decision-tree classifier trained on the cleaned
// dataset, with its train/test split and evaluation metrics.
package ml

import (
	"errors"
	"sort"
	"sync"
)

// DecisionTree is a CART-style classifier over a dense numeric feature
// matrix. Splits are binary numeric comparisons (x <= threshold goes left)
// chosen by gini impurity decrease.
type DecisionTree struct {
	MaxDepth            int     // 0 means no depth limit
	MinSamplesSplit     int     // minimum samples to attempt a split
	MinImpurityDecrease float64 // a split must beat this gain to happen

	root       *node
	nClasses   int
	nFeatures  int
	nSamples   int
	importance []float64
}

type node struct {
	leaf      bool
	feature   int
	threshold float64
	left      *node
	right     *node
	n         int
	pred      int
}

// Option configures a DecisionTree.
type Option func(*DecisionTree)

func WithMaxDepth(d int) Option {
	return func(t *DecisionTree) { t.MaxDepth = d }
}

func WithMinSamplesSplit(n int) Option {
	return func(t *DecisionTree) { t.MinSamplesSplit = n }
}

func WithMinImpurityDecrease(v float64) Option {
	return func(t *DecisionTree) { t.MinImpurityDecrease = v }
}

// NewDecisionTree returns a classifier with the given options applied.
func NewDecisionTree(opts ...Option) *DecisionTree {
	t := &DecisionTree{
		MaxDepth:            0,
		MinSamplesSplit:     2,
		MinImpurityDecrease: 0,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Fit trains the tree on X (n rows by p columns) and y (n class labels,
// non-negative small integers). The matrix must be rectangular with no
// missing values.
func (t *DecisionTree) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("ml: empty training set")
	}
	if len(y) != len(X) {
		return errors.New("ml: feature and label counts differ")
	}
	p := len(X[0])
	if p == 0 {
		return errors.New("ml: rows have no features")
	}
	for i := range X {
		if len(X[i]) != p {
			return errors.New("ml: ragged feature matrix")
		}
	}

	nClasses := 0
	for _, label := range y {
		if label < 0 {
			return errors.New("ml: negative class label")
		}
		if label+1 > nClasses {
			nClasses = label + 1
		}
	}

	t.nFeatures = p
	t.nClasses = nClasses
	t.nSamples = len(X)
	t.importance = make([]float64, p)

	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	t.root = t.buildNode(X, y, idx, 0)

	var total float64
	for _, w := range t.importance {
		total += w
	}
	if total > 0 {
		for f := range t.importance {
			t.importance[f] /= total
		}
	}
	return nil
}

// Predict returns the class label for every row of X. The tree must have
// been fitted first; an unfitted tree predicts nothing.
func (t *DecisionTree) Predict(X [][]float64) []int {
	if t.root == nil {
		return nil
	}
	out := make([]int, len(X))
	for i, x := range X {
		nd := t.root
		for !nd.leaf {
			if x[nd.feature] <= nd.threshold {
				nd = nd.left
			} else {
				nd = nd.right
			}
		}
		out[i] = nd.pred
	}
	return out
}

// FeatureImportance returns one weight per feature column, summing to 1 when
// the tree made any split at all. Each split credits its column with the
// impurity decrease it achieved, weighted by the share of samples it saw.
func (t *DecisionTree) FeatureImportance() []float64 {
	out := make([]float64, len(t.importance))
	copy(out, t.importance)
	return out
}

// Depth returns the number of split levels in the fitted tree.
func (t *DecisionTree) Depth() int {
	return depthOf(t.root)
}

func depthOf(nd *node) int {
	if nd == nil || nd.leaf {
		return 0
	}
	l := depthOf(nd.left)
	r := depthOf(nd.right)
	if l > r {
		return l + 1
	}
	return r + 1
}

func (t *DecisionTree) buildNode(X [][]float64, y []int, idx []int, depth int) *node {
	counts := classCounts(y, idx, t.nClasses)
	nd := &node{n: len(idx), pred: argmax(counts)}

	if isPure(counts) || len(idx) < t.MinSamplesSplit {
		nd.leaf = true
		return nd
	}
	if t.MaxDepth > 0 && depth >= t.MaxDepth {
		nd.leaf = true
		return nd
	}

	best := t.bestSplit(X, y, idx, gini(counts))
	if best.feature < 0 || best.gain <= t.MinImpurityDecrease {
		nd.leaf = true
		return nd
	}

	t.importance[best.feature] += float64(len(idx)) / float64(t.nSamples) * best.gain

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if X[i][best.feature] <= best.threshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}

	nd.feature = best.feature
	nd.threshold = best.threshold
	nd.left = t.buildNode(X, y, leftIdx, depth+1)
	nd.right = t.buildNode(X, y, rightIdx, depth+1)
	return nd
}

type split struct {
	feature   int
	threshold float64
	gain      float64
}

// bestSplit searches every feature concurrently and keeps the split with the
// highest gain. Ties resolve to the lowest feature index so fits are
// reproducible regardless of goroutine scheduling.
func (t *DecisionTree) bestSplit(X [][]float64, y []int, idx []int, parent float64) split {
	results := make(chan split, t.nFeatures)
	var wg sync.WaitGroup

	for f := 0; f < t.nFeatures; f++ {
		wg.Add(1)
		go func(f int) {
			defer wg.Done()
			results <- t.splitFeature(X, y, idx, f, parent)
		}(f)
	}
	wg.Wait()
	close(results)

	best := split{feature: -1}
	for r := range results {
		if r.feature < 0 {
			continue
		}
		if best.feature < 0 || r.gain > best.gain ||
			(r.gain == best.gain && r.feature < best.feature) {
			best = r
		}
	}
	return best
}

type valueIndex struct {
	v float64
	i int
}

// splitFeature scans the midpoints between consecutive distinct values of
// one column, keeping left/right class counts incrementally.
func (t *DecisionTree) splitFeature(X [][]float64, y []int, idx []int, f int, parent float64) split {
	best := split{feature: -1}

	pairs := make([]valueIndex, len(idx))
	for k, i := range idx {
		pairs[k] = valueIndex{X[i][f], i}
	}
	sort.Slice(pairs, func(a, b int) bool { return pairs[a].v < pairs[b].v })

	n := len(pairs)
	leftCounts := make([]int, t.nClasses)
	rightCounts := classCounts(y, idx, t.nClasses)

	for s := 1; s < n; s++ {
		c := y[pairs[s-1].i]
		leftCounts[c]++
		rightCounts[c]--

		if pairs[s].v == pairs[s-1].v {
			continue
		}

		weighted := (float64(s)*gini(leftCounts) + float64(n-s)*gini(rightCounts)) / float64(n)
		gain := parent - weighted
		if best.feature < 0 || gain > best.gain {
			best = split{
				feature:   f,
				threshold: (pairs[s-1].v + pairs[s].v) / 2,
				gain:      gain,
			}
		}
	}
	return best
}

func gini(counts []int) float64 {
	var n float64
	for _, c := range counts {
		n += float64(c)
	}
	if n == 0 {
		return 0
	}
	var res float64
	for _, c := range counts {
		p := float64(c) / n
		res += p * (1 - p)
	}
	return res
}

func classCounts(y []int, idx []int, nClasses int) []int {
	counts := make([]int, nClasses)
	for _, i := range idx {
		counts[y[i]]++
	}
	return counts
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func argmax(counts []int) int {
	best := 0
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}
	return best
}
