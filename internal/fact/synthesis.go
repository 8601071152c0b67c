package fact

import (
	"github.com/pgEdge/pgedge-starbuild/internal/datagen"
	"github.com/pgEdge/pgedge-starbuild/internal/dim"
)

// Random stream names.
const (
	streamSales        = "fact_sales"
	streamDelivery     = "fact_delivery"
	streamSatisfaction = "fact_satisfaction"
)

var (
	statusNames   = []string{dim.StatusComplete, dim.StatusProcessing, dim.StatusShipped, dim.StatusCancelled, dim.StatusReturned}
	statusWeights = []float64{0.70, 0.10, 0.10, 0.05, 0.05}

	paymentMethods = []string{"Credit Card", "PayPal", "Debit Card", "Bank Transfer"}

	promisedHours = []float64{24, 48, 72, 120, 168}
	attemptCounts = []int64{1, 1, 1, 2, 3}

	reviewSources = []string{"Website", "Email Survey", "Phone", "Mobile App"}
	sourceWeights = []float64{0.5, 0.3, 0.1, 0.1}
)

const (
	discountProbability = 0.30
	discountMinRate     = 0.05
	discountMaxRate     = 0.25
	shippingMinCost     = 2.0
	shippingMaxCost     = 15.0

	deliveryMinCost = 5.0
	deliveryMaxCost = 25.0

	verifiedProbability = 0.8
	helpfulVotesMean    = 5.0
	resolutionMinHours  = 1.0
	resolutionMaxHours  = 48.0
	lowRating           = 3
)

// salesDraw is every random value one sales row needs. All values are drawn
// in a fixed order so each column is reproducible on its own.
type salesDraw struct {
	attributed   bool
	channel      int
	status       string
	payment      string
	discounted   bool
	discountRate float64
	shippingCost float64
}

func drawSales(f *datagen.Faker, share float64, channels int) salesDraw {
	return salesDraw{
		attributed:   f.Chance(share),
		channel:      f.Int(1, channels),
		status:       datagen.ChooseWeighted(f, statusNames, statusWeights),
		payment:      datagen.Choose(f, paymentMethods),
		discounted:   f.Chance(discountProbability),
		discountRate: f.Float64(discountMinRate, discountMaxRate),
		shippingCost: f.Float64(shippingMinCost, shippingMaxCost),
	}
}

type deliveryDraw struct {
	method   int
	promised float64
	cost     float64
	attempts int64
}

func drawDelivery(f *datagen.Faker, methods int) deliveryDraw {
	return deliveryDraw{
		method:   f.Int(1, methods),
		promised: datagen.Choose(f, promisedHours),
		cost:     f.Float64(deliveryMinCost, deliveryMaxCost),
		attempts: datagen.Choose(f, attemptCounts),
	}
}

type satisfactionDraw struct {
	channel    int
	rating     int
	category   int
	verified   bool
	helpful    int
	resolution float64
	source     string
}

func drawSatisfaction(f *datagen.Faker, channels, categories int) satisfactionDraw {
	d := satisfactionDraw{
		channel:    f.Int(1, channels),
		rating:     f.Int(1, 5),
		category:   f.Int(1, categories),
		verified:   f.Chance(verifiedProbability),
		helpful:    f.Poisson(helpfulVotesMean),
		resolution: f.Float64(resolutionMinHours, resolutionMaxHours),
		source:     datagen.ChooseWeighted(f, reviewSources, sourceWeights),
	}
	if d.rating >= lowRating {
		d.resolution = 0
	}
	return d
}
