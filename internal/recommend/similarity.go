package recommend

import "math"

// CosineSimilarity returns dot(a, b) / (|a| × |b|). Keys missing from one side
// contribute nothing. It returns 0 when either vector is empty or has zero
// magnitude.
func CosineSimilarity(a, b FeatureVector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}

	dot := 0.0
	for key, value := range small {
		if other, ok := large[key]; ok {
			dot += value * other
		}
	}

	magA := magnitude(a)
	magB := magnitude(b)
	if magA == 0 || magB == 0 {
		return 0
	}

	return dot / (magA * magB)
}

func magnitude(v FeatureVector) float64 {
	sum := 0.0
	for _, value := range v {
		sum += value * value
	}
	return math.Sqrt(sum)
}

// RatingBoost is the rating term added to the similarity score.
func RatingBoost(rating float64) float64 {
	return RatingBoostWeight * (rating / MaxRating)
}

// Score blends preference similarity with the worker's rating.
func Score(user FeatureVector, w Worker) ScoredWorker {
	similarity := CosineSimilarity(user, BuildWorkerVector(w))
	boost := RatingBoost(w.Rating)

	return ScoredWorker{
		Worker:     w,
		Similarity: similarity,
		Boost:      boost,
		Score:      similarity + boost,
	}
}
