package scoring

import "math"

// Input is one apartment's metric values within a comparison set
type Input struct {
	ID           string
	Rent         float64
	NetRent      float64
	PricePerSqft *float64
	Sqft         int
	AvgDistance  *float64
}

// Weights are the user's preference weights (0-100 each). Zero-weight factors
// are excluded; active weights are normalized to sum to 1.0.
type Weights struct {
	Price        int
	PricePerSqft int
	Sqft         int
	Distance     int
}

// DefaultWeights returns equal weighting across all factors
func DefaultWeights() Weights {
	return Weights{Price: 50, PricePerSqft: 50, Sqft: 50, Distance: 50}
}

// Factor is one factor's contribution to an apartment's score
type Factor struct {
	Name         string  `json:"name"`
	WeightPct    int     `json:"weight_pct"`
	Normalized   float64 `json:"normalized_score"` // 0-10
	Contribution float64 `json:"contribution"`     // 0-10
}

// Result is the comparison score for one apartment
type Result struct {
	ID      string   `json:"id"`
	Score   float64  `json:"score"` // 0-10, one decimal
	Factors []Factor `json:"factors"`
}

type metric struct {
	name   string
	weight int
	invert bool
	value  func(in Input) *float64
}

// Score computes weighted comparison scores across a set of apartments.
// Each metric is min-max normalized to [0,1] relative to the compared set, so
// results are only meaningful within this set and must never be persisted as a
// ranking. Results keep stable input order; ties are not re-sorted.
//
// The price metric uses net effective rent when any apartment in the set
// carries a discount, otherwise nominal rent, so undiscounted comparisons are
// not skewed by amortization rounding.
func Score(inputs []Input, w Weights) []Result {
	if len(inputs) == 0 {
		return nil
	}

	hasDiscounts := false
	for _, in := range inputs {
		if in.NetRent != in.Rent {
			hasDiscounts = true
			break
		}
	}

	priceOf := func(in Input) *float64 {
		v := in.Rent
		if hasDiscounts {
			v = in.NetRent
		}
		return &v
	}

	metrics := []metric{
		{name: "price", weight: w.Price, invert: true, value: priceOf},
		{name: "price_per_sqft", weight: w.PricePerSqft, invert: true, value: func(in Input) *float64 { return in.PricePerSqft }},
		{name: "sqft", weight: w.Sqft, invert: false, value: func(in Input) *float64 {
			if in.Sqft <= 0 {
				return nil
			}
			v := float64(in.Sqft)
			return &v
		}},
		{name: "distance", weight: w.Distance, invert: true, value: func(in Input) *float64 { return in.AvgDistance }},
	}

	// Drop zero-weight factors, then normalize the rest to sum to 1.0
	active := metrics[:0]
	weightSum := 0
	for _, m := range metrics {
		if m.weight > 0 {
			active = append(active, m)
			weightSum += m.weight
		}
	}
	if weightSum == 0 {
		return nil
	}

	// Min/max per metric across the compared set
	type bounds struct {
		min, max float64
		seen     bool
	}
	b := make([]bounds, len(active))
	for i, m := range active {
		for _, in := range inputs {
			v := m.value(in)
			if v == nil {
				continue
			}
			if !b[i].seen || *v < b[i].min {
				b[i].min = *v
			}
			if !b[i].seen || *v > b[i].max {
				b[i].max = *v
			}
			b[i].seen = true
		}
	}

	results := make([]Result, 0, len(inputs))
	for _, in := range inputs {
		var score float64
		factors := make([]Factor, 0, len(active))

		for i, m := range active {
			v := m.value(in)
			if v == nil || !b[i].seen {
				// Metric unavailable for this apartment: skipped, not an error
				continue
			}

			weight := float64(m.weight) / float64(weightSum)
			normalized := normalize(*v, b[i].min, b[i].max, m.invert)
			contribution := normalized * weight
			score += contribution

			factors = append(factors, Factor{
				Name:         m.name,
				WeightPct:    int(math.Round(weight * 100)),
				Normalized:   math.Round(normalized*100) / 10,
				Contribution: math.Round(contribution*100) / 10,
			})
		}

		results = append(results, Result{
			ID:      in.ID,
			Score:   math.Round(score*100) / 10,
			Factors: factors,
		})
	}

	return results
}

// normalize maps value into [0,1] relative to [min,max]. Identical min/max
// collapses to 0.5; invert flips the scale for lower-is-better metrics.
func normalize(value, min, max float64, invert bool) float64 {
	if max == min {
		return 0.5
	}

	n := (value - min) / (max - min)
	if invert {
		n = 1 - n
	}

	return math.Max(0, math.Min(1, n))
}
