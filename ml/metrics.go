package ml

// Accuracy returns the fraction of predictions matching the true labels,
// or 0 for empty or mismatched inputs.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 || len(yTrue) != len(yPred) {
		return 0
	}
	hits := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(yTrue))
}

// ConfusionMatrix returns a k by k matrix where cell [t][p] counts samples
// of true class t predicted as class p. Labels outside [0, k) are ignored.
func ConfusionMatrix(yTrue, yPred []int, k int) [][]int {
	m := make([][]int, k)
	for i := range m {
		m[i] = make([]int, k)
	}
	for i := range yTrue {
		if i >= len(yPred) {
			break
		}
		tc, pc := yTrue[i], yPred[i]
		if tc < 0 || tc >= k || pc < 0 || pc >= k {
			continue
		}
		m[tc][pc]++
	}
	return m
}
