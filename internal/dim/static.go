//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package dim

import "github.com/pgEdge/pgedge-starbuild/internal/warehouse"

// Order status names.
const (
	StatusComplete   = "Complete"
	StatusShipped    = "Shipped"
	StatusProcessing = "Processing"
	StatusCancelled  = "Cancelled"
	StatusReturned   = "Returned"
)

// NotApplicable fills channel attributes that do not apply.
const NotApplicable = "N/A"

var channels = warehouse.ChannelDim{
	{ChannelID: 1, Name: "Search", Type: "Digital", Category: "Acquisition", Platform: "Google Ads", TrafficSource: "Search"},
	{ChannelID: 2, Name: "Email", Type: "Digital", Category: "Retention", Platform: "Email Marketing", TrafficSource: "Email"},
	{ChannelID: 3, Name: "Organic", Type: "Digital", Category: "Acquisition", Platform: "SEO", TrafficSource: "Organic"},
	{ChannelID: 4, Name: "Display", Type: "Digital", Category: "Acquisition", Platform: "Display Ads", TrafficSource: "Display"},
	{ChannelID: 5, Name: "Facebook", Type: "Social Media", Category: "Acquisition", Platform: "Facebook Ads", TrafficSource: "Facebook"},
	{ChannelID: 6, Name: "Instagram", Type: "Social Media", Category: "Acquisition", Platform: "Instagram Ads", TrafficSource: "Instagram"},
	{ChannelID: 7, Name: "Amazon", Type: "Marketplace", Category: "Vente", Platform: "Amazon", MarketplaceName: "Amazon"},
	{ChannelID: 8, Name: "eBay", Type: "Marketplace", Category: "Vente", Platform: "eBay", MarketplaceName: "eBay"},
	{ChannelID: 9, Name: "Site Web Direct", Type: "Digital", Category: "Direct", Platform: "Site proprietaire"},
	{ChannelID: 10, Name: "Magasin Physique", Type: "Retail", Category: "Direct", Platform: NotApplicable, StoreCity: "Various"},
}

// BuildChannel returns the enumerated channel list keyed 1..10.
// Only acquisition channels carry a traffic source.
func BuildChannel() (warehouse.ChannelDim, error) {
	rows := make(warehouse.ChannelDim, len(channels))
	keys := make([]int64, len(channels))
	for i, c := range channels {
		if c.MarketplaceName == "" {
			c.MarketplaceName = NotApplicable
		}
		if c.StoreCity == "" {
			c.StoreCity = NotApplicable
		}
		rows[i] = c
		keys[i] = c.ChannelID
	}
	if err := ValidateDenseKeys(warehouse.TableDimChannel, keys); err != nil {
		return nil, err
	}
	return rows, nil
}

var (
	shippingModes = []string{"Standard", "Express", "Economy", "Same Day", "Next Day"}
	deliveryTypes = []string{"Domicile", "Point Relais", "Magasin", "Bureau", "Consigne"}
)

// BuildDeliveryMethod returns every (shipping mode, delivery type) pair,
// keyed in nested order with the mode outermost.
func BuildDeliveryMethod() warehouse.DeliveryMethodDim {
	rows := make(warehouse.DeliveryMethodDim, 0, len(shippingModes)*len(deliveryTypes))
	for _, mode := range shippingModes {
		for _, typ := range deliveryTypes {
			rows = append(rows, warehouse.DeliveryMethodRow{
				DeliveryMethodID: int64(len(rows) + 1),
				ShippingMode:     mode,
				DeliveryType:     typ,
			})
		}
	}
	return rows
}

var segments = warehouse.CustomerSegmentDim{
	{SegmentID: 1, Name: "Champions", Description: "Bought recently, buy often and spend the most", RFMScore: "555", RecencyScore: 5, FrequencyScore: 5, MonetaryScore: 5, MinCLV: 10000, MaxCLV: 999999, IsActive: true},
	{SegmentID: 2, Name: "Loyal Customers", Description: "Spend good money, responsive to promotions", RFMScore: "444", RecencyScore: 4, FrequencyScore: 4, MonetaryScore: 4, MinCLV: 5000, MaxCLV: 9999, IsActive: true},
	{SegmentID: 3, Name: "Potential Loyalists", Description: "Recent customers with average frequency", RFMScore: "543", RecencyScore: 5, FrequencyScore: 4, MonetaryScore: 3, MinCLV: 2000, MaxCLV: 4999, IsActive: true},
	{SegmentID: 4, Name: "New Customers", Description: "Bought recently but not frequently", RFMScore: "511", RecencyScore: 5, FrequencyScore: 1, MonetaryScore: 1, MinCLV: 0, MaxCLV: 999, IsActive: true},
	{SegmentID: 5, Name: "At Risk", Description: "Purchased often but long time ago", RFMScore: "244", RecencyScore: 2, FrequencyScore: 4, MonetaryScore: 4, MinCLV: 3000, MaxCLV: 7999, IsActive: true},
	{SegmentID: 6, Name: "Churned", Description: "Haven't purchased in a long time", RFMScore: "111", RecencyScore: 1, FrequencyScore: 1, MonetaryScore: 1, MinCLV: 0, MaxCLV: 1999, IsActive: false},
	{SegmentID: 7, Name: "Promising", Description: "Recent shoppers but haven't spent much", RFMScore: "512", RecencyScore: 5, FrequencyScore: 1, MonetaryScore: 2, MinCLV: 500, MaxCLV: 1999, IsActive: true},
}

// CustomerSegments returns the RFM segment reference list.
func CustomerSegments() (warehouse.CustomerSegmentDim, error) {
	keys := make([]int64, len(segments))
	for i, s := range segments {
		keys[i] = s.SegmentID
		if s.MinCLV > s.MaxCLV {
			return nil, &warehouse.ValidationError{
				Table:  warehouse.TableDimCustomerSegment,
				Reason: "segment " + s.Name + " has min_clv above max_clv",
			}
		}
	}
	if err := ValidateDenseKeys(warehouse.TableDimCustomerSegment, keys); err != nil {
		return nil, err
	}
	return append(warehouse.CustomerSegmentDim(nil), segments...), nil
}

var statuses = warehouse.OrderStatusDim{
	{StatusID: 1, Name: StatusComplete, Category: "Success", IsSuccessful: true, DisplayColor: "#28a745", DisplayOrder: 1},
	{StatusID: 2, Name: StatusShipped, Category: "In Progress", DisplayColor: "#007bff", DisplayOrder: 2},
	{StatusID: 3, Name: StatusProcessing, Category: "In Progress", DisplayColor: "#ffc107", DisplayOrder: 3},
	{StatusID: 4, Name: StatusCancelled, Category: "Failed", IsCancelled: true, DisplayColor: "#dc3545", DisplayOrder: 4},
	{StatusID: 5, Name: StatusReturned, Category: "Failed", IsReturned: true, DisplayColor: "#fd7e14", DisplayOrder: 5},
}

// OrderStatuses returns the order status reference list.
func OrderStatuses() (warehouse.OrderStatusDim, error) {
	keys := make([]int64, len(statuses))
	for i, s := range statuses {
		keys[i] = s.StatusID
	}
	if err := ValidateDenseKeys(warehouse.TableDimOrderStatus, keys); err != nil {
		return nil, err
	}
	return append(warehouse.OrderStatusDim(nil), statuses...), nil
}

var satisfactionCategories = warehouse.SatisfactionCategoryDim{
	{CategoryID: 1, Name: "Product Quality", Description: "Rating based on product quality and features", Weight: 0.35, DisplayOrder: 1},
	{CategoryID: 2, Name: "Delivery Speed", Description: "Rating based on delivery time and punctuality", Weight: 0.25, DisplayOrder: 2},
	{CategoryID: 3, Name: "Customer Service", Description: "Rating based on support and communication", Weight: 0.20, DisplayOrder: 3},
	{CategoryID: 4, Name: "Value for Money", Description: "Rating based on price-to-value ratio", Weight: 0.20, DisplayOrder: 4},
}

// SatisfactionCategories returns the weighted satisfaction categories.
func SatisfactionCategories() (warehouse.SatisfactionCategoryDim, error) {
	return validateCategories(satisfactionCategories)
}

func validateCategories(cats warehouse.SatisfactionCategoryDim) (warehouse.SatisfactionCategoryDim, error) {
	keys := make([]int64, len(cats))
	weights := make([]float64, len(cats))
	for i, c := range cats {
		keys[i] = c.CategoryID
		weights[i] = c.Weight
	}
	if err := ValidateDenseKeys(warehouse.TableDimSatisfactionCategory, keys); err != nil {
		return nil, err
	}
	if err := ValidateWeights(warehouse.TableDimSatisfactionCategory, weights); err != nil {
		return nil, err
	}
	return append(warehouse.SatisfactionCategoryDim(nil), cats...), nil
}
