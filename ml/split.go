package ml

import (
	"errors"
	"math/rand"
)

// TrainTestSplit shuffles the dataset with the given seed and carves off
// testRatio of it for evaluation. The same seed always produces the same
// split.
func TrainTestSplit(X [][]float64, y []int, testRatio float64, seed int64) (XTrain, XTest [][]float64, yTrain, yTest []int, err error) {
	if len(X) != len(y) {
		return nil, nil, nil, nil, errors.New("ml: feature and label counts differ")
	}
	if testRatio < 0 || testRatio > 1 {
		return nil, nil, nil, nil, errors.New("ml: test ratio must be within [0, 1]")
	}

	n := len(X)
	indices := rand.New(rand.NewSource(seed)).Perm(n)
	nTest := int(float64(n) * testRatio)

	for i, idx := range indices {
		if i < nTest {
			XTest = append(XTest, X[idx])
			yTest = append(yTest, y[idx])
		} else {
			XTrain = append(XTrain, X[idx])
			yTrain = append(yTrain, y[idx])
		}
	}
	return XTrain, XTest, yTrain, yTest, nil
}
