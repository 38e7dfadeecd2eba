package performance

import "math"

// ClassifyTrend compares the latest rating with the mean of the earlier ones.
// ratings must be ordered by review date, oldest first.
func ClassifyTrend(ratings []float64) Trend {
	if len(ratings) < 2 {
		return TrendStable
	}
	latest := ratings[len(ratings)-1]
	previous := ratings[:len(ratings)-1]

	var sum float64
	for _, r := range previous {
		sum += r
	}
	diff := latest - sum/float64(len(previous))

	// rounding keeps 3.2 vs 3.0 from landing on the wrong side of the threshold
	diff = math.Round(diff*1e6) / 1e6
	switch {
	case diff > TrendThreshold:
		return TrendImproving
	case diff < -TrendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// Summarize builds a Summary from reviews ordered by review date ascending.
func Summarize(staffID string, reviews []StaffPerformanceReview) Summary {
	s := Summary{
		StaffID:          staffID,
		CategoryAverages: map[string]float64{},
		Trend:            TrendStable,
	}
	if len(reviews) == 0 {
		return s
	}

	ratings := make([]float64, 0, len(reviews))
	catSum := map[string]float64{}
	catCount := map[string]int{}
	var total float64
	for _, r := range reviews {
		ratings = append(ratings, r.OverallRating)
		total += r.OverallRating
		for name, v := range r.CategoryRatings {
			catSum[name] += v
			catCount[name]++
		}
	}
	for name, sum := range catSum {
		s.CategoryAverages[name] = round2(sum / float64(catCount[name]))
	}

	s.ReviewCount = len(reviews)
	s.AverageRating = round2(total / float64(len(reviews)))
	s.LatestRating = ratings[len(ratings)-1]
	if len(ratings) > 1 {
		prev := ratings[len(ratings)-2]
		s.PreviousRating = &prev
	}
	s.Trend = ClassifyTrend(ratings)
	last := reviews[len(reviews)-1].ReviewDate.Format("2006-01-02")
	s.LastReviewDate = &last
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
