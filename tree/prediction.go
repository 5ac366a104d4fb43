package tree

import (
	"fmt"
	"strings"
)

/*
Prediction represents the class distribution of the training samples that
reached a node of a tree
*/
type Prediction struct {
	counts []int
	weight int
}

// PredictionError represents an error related with predictions
type PredictionError string

/*
ErrCannotPredictFromEmptySet is the error returned when trying to build a prediction
based on an empty set of samples.
*/
const ErrCannotPredictFromEmptySet = PredictionError("cannot make prediction for empty set")

func (pe PredictionError) Error() string {
	return string(pe)
}

/*
NewPrediction takes the number of samples of each class and returns the
prediction for them or ErrCannotPredictFromEmptySet if there are none.
*/
func NewPrediction(counts []int) (*Prediction, error) {
	var weight int
	for _, c := range counts {
		weight += c
	}
	if weight == 0 {
		return nil, ErrCannotPredictFromEmptySet
	}
	return &Prediction{counts, weight}, nil
}

/*
ProbabilityOf takes the index of a class and returns its float64 probability
according to the prediction.
*/
func (p *Prediction) ProbabilityOf(class int) float64 {
	if class < 0 || class >= len(p.counts) {
		return 0.0
	}
	return float64(p.counts[class]) / float64(p.weight)
}

/*
Class returns the index of the most probable class, the lowest one on ties
*/
func (p *Prediction) Class() int {
	var result int
	for c, n := range p.counts {
		if n > p.counts[result] {
			result = c
		}
	}
	return result
}

/*
Weight returns the weight of the prediction: an int equal to the number of
samples from which the prediction was made
*/
func (p *Prediction) Weight() int {
	return p.weight
}

/*
Counts returns the number of samples of each class
*/
func (p *Prediction) Counts() []int {
	return p.counts
}

func (p *Prediction) String() string {
	probs := make([]string, len(p.counts))
	for c := range p.counts {
		probs[c] = fmt.Sprintf("%d:%.3f", c, p.ProbabilityOf(c))
	}
	return strings.Join(probs, " ")
}
