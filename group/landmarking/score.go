package landmarking

// Names of the supported scores
const (
	Accuracy         = "accuracy"
	BalancedAccuracy = "balanced-accuracy"
)

var scores = map[string]func(expected, predicted []string) float64{
	Accuracy:         accuracy,
	BalancedAccuracy: balancedAccuracy,
}

func accuracy(expected, predicted []string) float64 {
	var hits int
	for i, e := range expected {
		if predicted[i] == e {
			hits++
		}
	}
	return float64(hits) / float64(len(expected))
}

// mean recall over the classes present in expected
func balancedAccuracy(expected, predicted []string) float64 {
	totals := make(map[string]int)
	hits := make(map[string]int)
	var classes []string
	for i, e := range expected {
		if _, ok := totals[e]; !ok {
			classes = append(classes, e)
		}
		totals[e]++
		if predicted[i] == e {
			hits[e]++
		}
	}
	var sum float64
	for _, c := range classes {
		sum += float64(hits[c]) / float64(totals[c])
	}
	return sum / float64(len(classes))
}
