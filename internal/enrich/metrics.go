package enrich

import (
	"math"

	"github.com/pgEdge/pgedge-starbuild/internal/warehouse"
)

// SafeDiv returns num/den, or 0 when den is 0 or the quotient is not finite.
func SafeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	q := num / den
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return 0
	}
	return q
}

// Percent returns num/den*100, or 0 when den is 0.
func Percent(num, den float64) float64 {
	return SafeDiv(num, den) * 100
}

// SalesMargins adds cost and margin columns from product purchase prices.
// A sale whose product is not in the dimension has a cost of 0.
func SalesMargins(facts warehouse.SalesFacts, products warehouse.ProductDim) warehouse.SalesFacts {
	cost := make(map[int64]float64, len(products))
	for _, p := range products {
		cost[p.ProductID] = p.PurchasePrice
	}

	out := make(warehouse.SalesFacts, len(facts))
	for i, f := range facts {
		f.TotalCost = cost[f.ProductID] * float64(f.Quantity)
		f.GrossMargin = f.Revenue - f.TotalCost
		f.MarginRate = Percent(f.GrossMargin, f.Revenue)
		f.DiscountRate = Percent(f.DiscountAmount, f.Revenue)
		out[i] = f
	}
	return out
}

// DeliverySLA compares actual and promised delivery time. A delivery is
// on time when it took no longer than promised; late otherwise.
func DeliverySLA(facts warehouse.DeliveryFacts) warehouse.DeliveryFacts {
	out := make(warehouse.DeliveryFacts, len(facts))
	for i, f := range facts {
		f.SLADeltaHours = f.TotalHours - f.PromisedHours
		f.IsOnTime = f.SLADeltaHours <= 0
		f.IsLate = !f.IsOnTime
		out[i] = f
	}
	return out
}

// NPS categories and sentiment labels.
const (
	Promoter  = "Promoter"
	Passive   = "Passive"
	Detractor = "Detractor"

	Positive = "Positive"
	Neutral  = "Neutral"
	Negative = "Negative"
)

// NPSEquivalent maps a 1-5 rating linearly onto 0-10.
func NPSEquivalent(rating int64) float64 {
	return float64(rating-1) * 2.5
}

// NPSCategory buckets a 0-10 score.
func NPSCategory(score float64) string {
	switch {
	case score >= 9:
		return Promoter
	case score >= 7:
		return Passive
	default:
		return Detractor
	}
}

// NPSScore classifies the 1-5 rating itself. Its cut points differ from
// NPSCategory and the two must stay separate.
func NPSScore(rating int64) int64 {
	switch {
	case rating >= 4:
		return 100
	case rating >= 3:
		return 0
	default:
		return -100
	}
}

// Sentiment maps a 1-5 rating onto -1..1 and labels it.
func Sentiment(rating int64) (float64, string) {
	score := float64(rating-3) / 2
	switch {
	case score > 0.3:
		return score, Positive
	case score < -0.3:
		return score, Negative
	default:
		return score, Neutral
	}
}

// Satisfaction adds rate, NPS and sentiment columns from the rating.
func Satisfaction(facts warehouse.SatisfactionFacts) warehouse.SatisfactionFacts {
	out := make(warehouse.SatisfactionFacts, len(facts))
	for i, f := range facts {
		f.SatisfactionRate = float64(f.Rating) / 5
		f.NPSEquivalent = NPSEquivalent(f.Rating)
		f.NPSCategory = NPSCategory(f.NPSEquivalent)
		f.NPSScore = NPSScore(f.Rating)
		f.SentimentScore, f.SentimentLabel = Sentiment(f.Rating)
		out[i] = f
	}
	return out
}
