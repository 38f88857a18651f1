package engine

import (
	"errors"
	"math"
	"math/rand"
)

// Candidate is a scored move option produced by a multipv search.
type Candidate struct {
	Move      string
	EvalCP    int
	Principal []string
}

// SelectCandidate picks one of the top candidates using the preset's
// weights, then perturbs the reported eval by EvalNoise. Low presets spread
// their weight across several candidates, which is what makes them beatable.
func SelectCandidate(p DifficultyPreset, candidates []Candidate, r *rand.Rand) (Candidate, error) {
	if len(candidates) == 0 {
		return Candidate{}, errors.New("no candidates to choose from")
	}
	if err := ValidatePreset(p); err != nil {
		return Candidate{}, err
	}

	primaryLimit := p.PrimaryChoices
	if primaryLimit > len(candidates) {
		primaryLimit = len(candidates)
	}

	totalWeight := 0.0
	for i := 0; i < primaryLimit; i++ {
		totalWeight += p.CandidateWeights[i]
	}
	if totalWeight == 0 {
		return Candidate{}, errors.New("candidate weights sum to zero")
	}

	threshold := r.Float64() * totalWeight
	index := 0
	for i := 0; i < primaryLimit; i++ {
		threshold -= p.CandidateWeights[i]
		if threshold <= 0 {
			index = i
			break
		}
	}

	choice := candidates[index]
	if p.EvalNoise > 0 {
		offset := r.Intn(2*p.EvalNoise+1) - p.EvalNoise
		choice.EvalCP = saturatingAdd(choice.EvalCP, offset)
	}
	return choice, nil
}

func saturatingAdd(a, b int) int {
	sum := int64(a) + int64(b)
	if sum > math.MaxInt {
		return math.MaxInt
	}
	if sum < math.MinInt {
		return math.MinInt
	}
	return int(sum)
}
