//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

// SalesFact is one sold line item.
type SalesFact struct {
	SaleID         int64
	TimeID         int64
	RegionID       int64
	CustomerID     int64
	ProductID      int64
	ChannelID      int64
	StatusID       int64
	OrderID        string
	SourceOrderID  int64
	Revenue        float64
	Quantity       int64
	BasketAverage  float64
	SalesCount     int64
	OrderStatus    string
	PaymentMethod  string
	DiscountAmount float64
	DiscountRate   float64
	ShippingCost   float64

	// Set by margin enrichment.
	TotalCost   float64
	GrossMargin float64
	MarginRate  float64
}

// SalesFacts is the sales fact table.
type SalesFacts []SalesFact

// Table implements Tabular.
func (f SalesFacts) Table() *Table {
	t := &Table{
		Name:  TableFactSales,
		Grain: "one row per sold line item",
		Columns: []Column{
			{"sale_id", KindInt}, {"time_id", KindInt}, {"region_id", KindInt},
			{"customer_id", KindInt}, {"product_id", KindInt}, {"channel_id", KindInt},
			{"status_id", KindInt}, {"order_id", KindString}, {"source_order_id", KindInt},
			{"revenue", KindFloat}, {"quantity", KindInt}, {"basket_average", KindFloat},
			{"sales_count", KindInt}, {"order_status", KindString}, {"payment_method", KindString},
			{"discount_amount", KindFloat}, {"discount_rate", KindFloat}, {"shipping_cost", KindFloat},
			{"total_cost", KindFloat}, {"gross_margin", KindFloat}, {"margin_rate", KindFloat},
		},
		Rows: make([][]any, 0, len(f)),
	}
	for _, r := range f {
		t.Rows = append(t.Rows, []any{
			r.SaleID, r.TimeID, r.RegionID,
			r.CustomerID, r.ProductID, r.ChannelID,
			r.StatusID, r.OrderID, r.SourceOrderID,
			r.Revenue, r.Quantity, r.BasketAverage,
			r.SalesCount, r.OrderStatus, r.PaymentMethod,
			r.DiscountAmount, r.DiscountRate, r.ShippingCost,
			r.TotalCost, r.GrossMargin, r.MarginRate,
		})
	}
	return t
}

// DeliveryFact is one sampled shipped or completed order.
type DeliveryFact struct {
	DeliveryFactID   int64
	TimeID           int64
	DeliveryMethodID int64
	RegionID         int64
	CustomerID       int64
	StatusID         int64
	OrderID          string
	TrackingNumber   string
	SourceOrderID    int64
	ProcessingHours  float64
	TransitHours     float64
	TotalHours       float64
	PromisedHours    float64
	DeliveryCost     float64
	AttemptCount     int64

	// Set by SLA enrichment.
	SLADeltaHours float64
	IsOnTime      bool
	IsLate        bool
}

// DeliveryFacts is the delivery fact table.
type DeliveryFacts []DeliveryFact

// Table implements Tabular.
func (f DeliveryFacts) Table() *Table {
	t := &Table{
		Name:  TableFactDelivery,
		Grain: "one row per sampled Complete or Shipped order",
		Columns: []Column{
			{"delivery_fact_id", KindInt}, {"time_id", KindInt}, {"delivery_method_id", KindInt},
			{"region_id", KindInt}, {"customer_id", KindInt}, {"status_id", KindInt},
			{"order_id", KindString}, {"tracking_number", KindString}, {"source_order_id", KindInt},
			{"processing_hours", KindFloat}, {"transit_hours", KindFloat}, {"total_hours", KindFloat},
			{"promised_hours", KindFloat}, {"delivery_cost", KindFloat}, {"attempt_count", KindInt},
			{"sla_delta_hours", KindFloat}, {"is_on_time", KindBool}, {"is_late", KindBool},
		},
		Rows: make([][]any, 0, len(f)),
	}
	for _, r := range f {
		t.Rows = append(t.Rows, []any{
			r.DeliveryFactID, r.TimeID, r.DeliveryMethodID,
			r.RegionID, r.CustomerID, r.StatusID,
			r.OrderID, r.TrackingNumber, r.SourceOrderID,
			r.ProcessingHours, r.TransitHours, r.TotalHours,
			r.PromisedHours, r.DeliveryCost, r.AttemptCount,
			r.SLADeltaHours, r.IsOnTime, r.IsLate,
		})
	}
	return t
}

// SatisfactionFact is one sampled completed order line review.
type SatisfactionFact struct {
	SatisfactionID         int64
	TimeID                 int64
	ChannelID              int64
	CustomerID             int64
	ProductID              int64
	SatisfactionCategoryID int64
	ReviewID               string
	Rating                 int64
	ReviewCount            int64
	SalesCount             int64
	IsVerifiedPurchase     bool
	HelpfulVotes           int64
	ResolutionTimeHours    float64
	ReviewSource           string

	// Set by satisfaction enrichment.
	SatisfactionRate float64
	NPSEquivalent    float64
	NPSCategory      string
	NPSScore         int64
	SentimentScore   float64
	SentimentLabel   string
}

// SatisfactionFacts is the satisfaction fact table.
type SatisfactionFacts []SatisfactionFact

// Table implements Tabular.
func (f SatisfactionFacts) Table() *Table {
	t := &Table{
		Name:  TableFactSatisfaction,
		Grain: "one row per sampled completed order line",
		Columns: []Column{
			{"satisfaction_id", KindInt}, {"time_id", KindInt}, {"channel_id", KindInt},
			{"customer_id", KindInt}, {"product_id", KindInt}, {"satisfaction_category_id", KindInt},
			{"review_id", KindString}, {"rating", KindInt}, {"review_count", KindInt},
			{"sales_count", KindInt}, {"is_verified_purchase", KindBool}, {"helpful_votes", KindInt},
			{"resolution_time_hours", KindFloat}, {"review_source", KindString},
			{"satisfaction_rate", KindFloat}, {"nps_equivalent", KindFloat}, {"nps_category", KindString},
			{"nps_score", KindInt}, {"sentiment_score", KindFloat}, {"sentiment_label", KindString},
		},
		Rows: make([][]any, 0, len(f)),
	}
	for _, r := range f {
		t.Rows = append(t.Rows, []any{
			r.SatisfactionID, r.TimeID, r.ChannelID,
			r.CustomerID, r.ProductID, r.SatisfactionCategoryID,
			r.ReviewID, r.Rating, r.ReviewCount,
			r.SalesCount, r.IsVerifiedPurchase, r.HelpfulVotes,
			r.ResolutionTimeHours, r.ReviewSource,
			r.SatisfactionRate, r.NPSEquivalent, r.NPSCategory,
			r.NPSScore, r.SentimentScore, r.SentimentLabel,
		})
	}
	return t
}

// DailySalesRow is the sales rollup for one (day, region, channel).
type DailySalesRow struct {
	TimeID          int64
	RegionID        int64
	ChannelID       int64
	TotalRevenue    float64
	TotalOrders     int64
	TotalItems      int64
	TotalCustomers  int64
	TotalProfit     float64
	AvgOrderValue   float64
	AvgProfitMargin float64
}

// DailySales is the daily sales summary table.
type DailySales []DailySalesRow

// Table implements Tabular.
func (f DailySales) Table() *Table {
	t := &Table{
		Name:  TableFactDailySales,
		Grain: "one row per (day, region, channel)",
		Columns: []Column{
			{"time_id", KindInt}, {"region_id", KindInt}, {"channel_id", KindInt},
			{"total_revenue", KindFloat}, {"total_orders", KindInt}, {"total_items", KindInt},
			{"total_customers", KindInt}, {"total_profit", KindFloat},
			{"avg_order_value", KindFloat}, {"avg_profit_margin", KindFloat},
		},
		Rows: make([][]any, 0, len(f)),
	}
	for _, r := range f {
		t.Rows = append(t.Rows, []any{
			r.TimeID, r.RegionID, r.ChannelID,
			r.TotalRevenue, r.TotalOrders, r.TotalItems,
			r.TotalCustomers, r.TotalProfit,
			r.AvgOrderValue, r.AvgProfitMargin,
		})
	}
	return t
}
