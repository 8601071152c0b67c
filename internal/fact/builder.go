//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package fact

import (
	"context"
	"fmt"
	"time"

	"github.com/pgEdge/pgedge-starbuild/internal/datagen"
	"github.com/pgEdge/pgedge-starbuild/internal/dim"
	"github.com/pgEdge/pgedge-starbuild/internal/raw"
	"github.com/pgEdge/pgedge-starbuild/internal/resolve"
	"github.com/pgEdge/pgedge-starbuild/internal/warehouse"
)

// Options configures sampling and synthesis.
type Options struct {
	// Seed is the run seed every row stream derives from.
	Seed uint64

	// Row budgets; 0 means every candidate row.
	SalesRows        int
	DeliveryRows     int
	SatisfactionRows int

	// AttributedChannelShare is the probability that a sale takes its
	// channel from the customer's traffic source.
	AttributedChannelShare float64
}

// DefaultOptions returns the standard sampling budgets.
func DefaultOptions() Options {
	return Options{
		Seed:                   42,
		SalesRows:              10000,
		DeliveryRows:           5000,
		SatisfactionRows:       3000,
		AttributedChannelShare: 0.6,
	}
}

// progressInterval is how often row loops log and check for cancellation.
const progressInterval = 1000

// Builder builds fact rows against one set of dimensions.
type Builder struct {
	res      *resolve.Resolver
	dims     *dim.Set
	opts     Options
	statusID map[string]int64
}

// NewBuilder creates a fact builder.
func NewBuilder(res *resolve.Resolver, dims *dim.Set, opts Options) *Builder {
	b := &Builder{
		res:      res,
		dims:     dims,
		opts:     opts,
		statusID: make(map[string]int64, len(dims.OrderStatus)),
	}
	for _, s := range dims.OrderStatus {
		b.statusID[s.Name] = s.StatusID
	}
	return b
}

func rowError(table string, row int, err error) error {
	return fmt.Errorf("%s row %d: %w", table, row, err)
}

// Sales builds one fact row per joined order line, up to the sales budget.
func (b *Builder) Sales(ctx context.Context, items []JoinedItem) (warehouse.SalesFacts, error) {
	n := limit(len(items), b.opts.SalesRows)
	rows := make(warehouse.SalesFacts, 0, n)
	progress := datagen.NewProgressReporter(warehouse.TableFactSales, int64(n), progressInterval)

	for i := 0; i < n; i++ {
		if i%progressInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row, err := b.salesRow(i, items[i])
		if err != nil {
			return nil, rowError(warehouse.TableFactSales, i, err)
		}
		rows = append(rows, row)
		progress.Update(1)
	}
	progress.Done()
	return rows, nil
}

func (b *Builder) salesRow(i int, j JoinedItem) (warehouse.SalesFact, error) {
	userID := j.UserID()
	timeID, err := b.res.TimeKey(j.EventTime())
	if err != nil {
		return warehouse.SalesFact{}, err
	}
	regionID, err := b.res.RegionKeyForCustomer(userID)
	if err != nil {
		return warehouse.SalesFact{}, err
	}
	customerID, err := b.res.CustomerKey(userID)
	if err != nil {
		return warehouse.SalesFact{}, err
	}
	productID, err := b.res.ProductKey(j.Item.ProductID)
	if err != nil {
		return warehouse.SalesFact{}, err
	}

	d := drawSales(datagen.Stream(b.opts.Seed, streamSales, i), b.opts.AttributedChannelShare, len(b.dims.Channel))

	channelID := int64(d.channel)
	if d.attributed {
		if source, ok := b.res.TrafficSource(userID); ok {
			if channelID, err = b.res.ChannelKey(source); err != nil {
				return warehouse.SalesFact{}, err
			}
		}
	}

	revenue := j.Item.SalePrice
	discount := 0.0
	if d.discounted {
		discount = revenue * d.discountRate
	}

	return warehouse.SalesFact{
		SaleID:         int64(i + 1),
		TimeID:         timeID,
		RegionID:       regionID,
		CustomerID:     customerID,
		ProductID:      productID,
		ChannelID:      channelID,
		StatusID:       b.statusID[d.status],
		OrderID:        fmt.Sprintf("ORD%d", i/2+1000),
		SourceOrderID:  j.Item.OrderID,
		Revenue:        revenue,
		Quantity:       1,
		BasketAverage:  revenue,
		SalesCount:     1,
		OrderStatus:    d.status,
		PaymentMethod:  d.payment,
		DiscountAmount: discount,
		ShippingCost:   d.shippingCost,
	}, nil
}

// DeliveryCandidates returns the orders eligible for delivery facts, in
// source order.
func DeliveryCandidates(orders []raw.Order) []raw.Order {
	var out []raw.Order
	for _, o := range orders {
		if o.Status == dim.StatusComplete || o.Status == dim.StatusShipped {
			out = append(out, o)
		}
	}
	return out
}

// hoursBetween returns to-from in hours, or 0 when either end is absent.
func hoursBetween(from, to *time.Time) float64 {
	if from == nil || to == nil {
		return 0
	}
	return to.Sub(*from).Hours()
}

// Delivery builds one fact row per Complete or Shipped order, up to the
// delivery budget.
func (b *Builder) Delivery(ctx context.Context, orders []raw.Order) (warehouse.DeliveryFacts, error) {
	candidates := DeliveryCandidates(orders)
	n := limit(len(candidates), b.opts.DeliveryRows)
	rows := make(warehouse.DeliveryFacts, 0, n)
	progress := datagen.NewProgressReporter(warehouse.TableFactDelivery, int64(n), progressInterval)

	for i := 0; i < n; i++ {
		if i%progressInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row, err := b.deliveryRow(i, candidates[i])
		if err != nil {
			return nil, rowError(warehouse.TableFactDelivery, i, err)
		}
		rows = append(rows, row)
		progress.Update(1)
	}
	progress.Done()
	return rows, nil
}

func (b *Builder) deliveryRow(i int, o raw.Order) (warehouse.DeliveryFact, error) {
	timeID, err := b.res.TimeKey(o.CreatedAt)
	if err != nil {
		return warehouse.DeliveryFact{}, err
	}
	regionID, err := b.res.RegionKeyForCustomer(o.UserID)
	if err != nil {
		return warehouse.DeliveryFact{}, err
	}
	customerID, err := b.res.CustomerKey(o.UserID)
	if err != nil {
		return warehouse.DeliveryFact{}, err
	}

	d := drawDelivery(datagen.Stream(b.opts.Seed, streamDelivery, i), len(b.dims.DeliveryMethod))

	return warehouse.DeliveryFact{
		DeliveryFactID:   int64(i + 1),
		TimeID:           timeID,
		DeliveryMethodID: int64(d.method),
		RegionID:         regionID,
		CustomerID:       customerID,
		StatusID:         b.statusID[o.Status],
		OrderID:          fmt.Sprintf("ORD%d", i+5000),
		TrackingNumber:   fmt.Sprintf("TRK%d", i+10000),
		SourceOrderID:    o.OrderID,
		ProcessingHours:  hoursBetween(o.CreatedAt, o.ShippedAt),
		TransitHours:     hoursBetween(o.ShippedAt, o.DeliveredAt),
		TotalHours:       hoursBetween(o.CreatedAt, o.DeliveredAt),
		PromisedHours:    d.promised,
		DeliveryCost:     d.cost,
		AttemptCount:     d.attempts,
	}, nil
}

// reviewLine is one completed order paired with one of its products.
type reviewLine struct {
	order      raw.Order
	productID  int64
	hasProduct bool
}

// satisfactionLines pairs each Complete order, in source order, with its
// distinct products in line order. An order without lines yields a single
// line with no product. At most budget lines are returned when budget > 0.
func satisfactionLines(orders []raw.Order, items []raw.OrderItem, budget int) []reviewLine {
	type pair struct{ order, product int64 }
	seen := make(map[pair]struct{}, len(items))
	products := make(map[int64][]int64)
	for _, it := range items {
		p := pair{it.OrderID, it.ProductID}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		products[it.OrderID] = append(products[it.OrderID], it.ProductID)
	}

	var lines []reviewLine
	for _, o := range orders {
		if o.Status != dim.StatusComplete {
			continue
		}
		ps := products[o.OrderID]
		if len(ps) == 0 {
			lines = append(lines, reviewLine{order: o})
		}
		for _, p := range ps {
			lines = append(lines, reviewLine{order: o, productID: p, hasProduct: true})
		}
		if budget > 0 && len(lines) >= budget {
			return lines[:budget]
		}
	}
	return lines
}

// Satisfaction builds one review row per completed order line, up to the
// satisfaction budget.
func (b *Builder) Satisfaction(ctx context.Context, orders []raw.Order, items []raw.OrderItem) (warehouse.SatisfactionFacts, error) {
	lines := satisfactionLines(orders, items, b.opts.SatisfactionRows)
	rows := make(warehouse.SatisfactionFacts, 0, len(lines))
	progress := datagen.NewProgressReporter(warehouse.TableFactSatisfaction, int64(len(lines)), progressInterval)

	for i, line := range lines {
		if i%progressInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row, err := b.satisfactionRow(i, line)
		if err != nil {
			return nil, rowError(warehouse.TableFactSatisfaction, i, err)
		}
		rows = append(rows, row)
		progress.Update(1)
	}
	progress.Done()
	return rows, nil
}

func (b *Builder) satisfactionRow(i int, line reviewLine) (warehouse.SatisfactionFact, error) {
	timeID, err := b.res.TimeKey(line.order.CreatedAt)
	if err != nil {
		return warehouse.SatisfactionFact{}, err
	}
	customerID, err := b.res.CustomerKey(line.order.UserID)
	if err != nil {
		return warehouse.SatisfactionFact{}, err
	}
	var productID int64
	if line.hasProduct {
		productID, err = b.res.ProductKey(line.productID)
	} else {
		productID, err = b.res.Absent(resolve.DimProduct)
	}
	if err != nil {
		return warehouse.SatisfactionFact{}, err
	}

	d := drawSatisfaction(datagen.Stream(b.opts.Seed, streamSatisfaction, i),
		len(b.dims.Channel), len(b.dims.SatisfactionCategory))

	return warehouse.SatisfactionFact{
		SatisfactionID:         int64(i + 1),
		TimeID:                 timeID,
		ChannelID:              int64(d.channel),
		CustomerID:             customerID,
		ProductID:              productID,
		SatisfactionCategoryID: int64(d.category),
		ReviewID:               fmt.Sprintf("REV%d", i+1000),
		Rating:                 int64(d.rating),
		ReviewCount:            1,
		SalesCount:             1,
		IsVerifiedPurchase:     d.verified,
		HelpfulVotes:           int64(d.helpful),
		ResolutionTimeHours:    d.resolution,
		ReviewSource:           d.source,
	}, nil
}
