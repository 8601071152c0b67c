//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import "time"

// Output table names.
const (
	TableDimTime                 = "dim_time"
	TableDimRegion               = "dim_region"
	TableDimChannel              = "dim_channel"
	TableDimCustomer             = "dim_customer"
	TableDimProduct              = "dim_product"
	TableDimDistributionCenter   = "dim_distribution_center"
	TableDimDeliveryMethod       = "dim_delivery_method"
	TableDimCustomerSegment      = "dim_customer_segment"
	TableDimOrderStatus          = "dim_order_status"
	TableDimSatisfactionCategory = "dim_satisfaction_category"
	TableFactSales               = "fact_sales"
	TableFactDelivery            = "fact_delivery"
	TableFactSatisfaction        = "fact_satisfaction"
	TableFactDailySales          = "fact_daily_sales"
)

// TimeRow is one calendar day. Calendar attributes are zero until the
// calendar enrichment runs.
type TimeRow struct {
	TimeID   int64
	Date     time.Time
	Day      int
	Month    int
	Year     int
	FullDate string

	DayName          string
	MonthName        string
	DayOfWeek        int
	WeekOfYear       int
	DayOfYear        int
	Quarter          int
	HalfYear         int
	QuarterLabel     string
	HalfYearLabel    string
	FiscalYear       int
	FiscalQuarter    int
	FiscalMonth      int
	IsWeekend        bool
	IsWorkingDay     bool
	IsHoliday        bool
	HolidayName      string
	IsCurrentDay     bool
	IsCurrentWeek    bool
	IsCurrentMonth   bool
	IsCurrentQuarter bool
	IsCurrentYear    bool
}

// TimeDim is the calendar dimension.
type TimeDim []TimeRow

// Table implements Tabular.
func (d TimeDim) Table() *Table {
	t := &Table{
		Name:  TableDimTime,
		Grain: "one row per calendar day",
		Columns: []Column{
			{"time_id", KindInt}, {"day", KindInt}, {"month", KindInt}, {"year", KindInt},
			{"full_date", KindString}, {"day_name", KindString}, {"month_name", KindString},
			{"day_of_week", KindInt}, {"week_of_year", KindInt}, {"day_of_year", KindInt},
			{"quarter", KindInt}, {"half_year", KindInt}, {"quarter_label", KindString},
			{"half_year_label", KindString}, {"fiscal_year", KindInt}, {"fiscal_quarter", KindInt},
			{"fiscal_month", KindInt}, {"is_weekend", KindBool}, {"is_working_day", KindBool},
			{"is_holiday", KindBool}, {"holiday_name", KindString}, {"is_current_day", KindBool},
			{"is_current_week", KindBool}, {"is_current_month", KindBool},
			{"is_current_quarter", KindBool}, {"is_current_year", KindBool},
		},
		Rows: make([][]any, 0, len(d)),
	}
	for _, r := range d {
		t.Rows = append(t.Rows, []any{
			r.TimeID, int64(r.Day), int64(r.Month), int64(r.Year),
			r.FullDate, r.DayName, r.MonthName,
			int64(r.DayOfWeek), int64(r.WeekOfYear), int64(r.DayOfYear),
			int64(r.Quarter), int64(r.HalfYear), r.QuarterLabel,
			r.HalfYearLabel, int64(r.FiscalYear), int64(r.FiscalQuarter),
			int64(r.FiscalMonth), r.IsWeekend, r.IsWorkingDay,
			r.IsHoliday, r.HolidayName, r.IsCurrentDay,
			r.IsCurrentWeek, r.IsCurrentMonth,
			r.IsCurrentQuarter, r.IsCurrentYear,
		})
	}
	return t
}

// RegionKey is the natural key of the region dimension.
type RegionKey struct {
	City    string
	Region  string
	Country string
}

// RegionRow is one deduplicated (city, region, country) triple.
type RegionRow struct {
	RegionID int64
	RegionKey
}

// RegionDim is the geography dimension.
type RegionDim []RegionRow

// Table implements Tabular.
func (d RegionDim) Table() *Table {
	t := &Table{
		Name:    TableDimRegion,
		Grain:   "one row per (city, region, country)",
		Columns: []Column{{"region_id", KindInt}, {"city", KindString}, {"region", KindString}, {"country", KindString}},
		Rows:    make([][]any, 0, len(d)),
	}
	for _, r := range d {
		t.Rows = append(t.Rows, []any{r.RegionID, r.City, r.Region, r.Country})
	}
	return t
}

// ChannelRow is a marketing or sales channel.
type ChannelRow struct {
	ChannelID       int64
	Name            string
	Type            string
	Category        string
	Platform        string
	MarketplaceName string
	StoreCity       string

	// TrafficSource is the acquisition label that maps onto this channel,
	// empty for channels only reachable by sampling.
	TrafficSource string
}

// ChannelDim is the channel dimension.
type ChannelDim []ChannelRow

// Table implements Tabular.
func (d ChannelDim) Table() *Table {
	t := &Table{
		Name:  TableDimChannel,
		Grain: "one row per enumerated channel",
		Columns: []Column{
			{"channel_id", KindInt}, {"channel_name", KindString}, {"channel_type", KindString},
			{"channel_category", KindString}, {"platform", KindString},
			{"marketplace_name", KindString}, {"store_city", KindString},
		},
		Rows: make([][]any, 0, len(d)),
	}
	for _, r := range d {
		t.Rows = append(t.Rows, []any{r.ChannelID, r.Name, r.Type, r.Category, r.Platform, r.MarketplaceName, r.StoreCity})
	}
	return t
}

// CustomerRow is a customer renamed from the users export.
type CustomerRow struct {
	CustomerID         int64
	FirstName          string
	LastName           string
	Email              string
	Age                int64
	Gender             string
	Province           string
	Address            string
	PostalCode         string
	City               string
	Country            string
	Latitude           float64
	Longitude          float64
	AcquisitionChannel string
	SignupDate         string
}

// CustomerDim is the customer dimension.
type CustomerDim []CustomerRow

// Table implements Tabular.
func (d CustomerDim) Table() *Table {
	t := &Table{
		Name:  TableDimCustomer,
		Grain: "one row per source customer",
		Columns: []Column{
			{"customer_id", KindInt}, {"first_name", KindString}, {"last_name", KindString},
			{"email", KindString}, {"age", KindInt}, {"gender", KindString},
			{"province", KindString}, {"address", KindString}, {"postal_code", KindString},
			{"city", KindString}, {"country", KindString}, {"latitude", KindFloat},
			{"longitude", KindFloat}, {"acquisition_channel", KindString}, {"signup_date", KindString},
		},
		Rows: make([][]any, 0, len(d)),
	}
	for _, r := range d {
		t.Rows = append(t.Rows, []any{
			r.CustomerID, r.FirstName, r.LastName, r.Email, r.Age, r.Gender,
			r.Province, r.Address, r.PostalCode, r.City, r.Country, r.Latitude,
			r.Longitude, r.AcquisitionChannel, r.SignupDate,
		})
	}
	return t
}

// ProductRow is a product renamed from the products export. The source
// department column is not part of the dimension.
type ProductRow struct {
	ProductID            int64
	PurchasePrice        float64
	Category             string
	Name                 string
	Brand                string
	RetailPrice          float64
	SKU                  string
	DistributionCenterID int64
}

// ProductDim is the product dimension.
type ProductDim []ProductRow

// Table implements Tabular.
func (d ProductDim) Table() *Table {
	t := &Table{
		Name:  TableDimProduct,
		Grain: "one row per source product",
		Columns: []Column{
			{"product_id", KindInt}, {"purchase_price", KindFloat}, {"category", KindString},
			{"name", KindString}, {"brand", KindString}, {"retail_price", KindFloat},
			{"sku", KindString}, {"distribution_center_id", KindInt},
		},
		Rows: make([][]any, 0, len(d)),
	}
	for _, r := range d {
		t.Rows = append(t.Rows, []any{r.ProductID, r.PurchasePrice, r.Category, r.Name, r.Brand, r.RetailPrice, r.SKU, r.DistributionCenterID})
	}
	return t
}

// DistributionCenterRow is a warehouse location products ship from.
type DistributionCenterRow struct {
	DistributionCenterID int64
	Name                 string
	Latitude             float64
	Longitude            float64
}

// DistributionCenterDim is the distribution center dimension.
type DistributionCenterDim []DistributionCenterRow

// Table implements Tabular.
func (d DistributionCenterDim) Table() *Table {
	t := &Table{
		Name:  TableDimDistributionCenter,
		Grain: "one row per source distribution center",
		Columns: []Column{
			{"distribution_center_id", KindInt}, {"name", KindString},
			{"latitude", KindFloat}, {"longitude", KindFloat},
		},
		Rows: make([][]any, 0, len(d)),
	}
	for _, r := range d {
		t.Rows = append(t.Rows, []any{r.DistributionCenterID, r.Name, r.Latitude, r.Longitude})
	}
	return t
}

// DeliveryMethodRow is one (shipping mode, delivery type) pair.
type DeliveryMethodRow struct {
	DeliveryMethodID int64
	ShippingMode     string
	DeliveryType     string
}

// DeliveryMethodDim is the delivery method dimension.
type DeliveryMethodDim []DeliveryMethodRow

// Table implements Tabular.
func (d DeliveryMethodDim) Table() *Table {
	t := &Table{
		Name:    TableDimDeliveryMethod,
		Grain:   "one row per (shipping mode, delivery type)",
		Columns: []Column{{"delivery_method_id", KindInt}, {"shipping_mode", KindString}, {"delivery_type", KindString}},
		Rows:    make([][]any, 0, len(d)),
	}
	for _, r := range d {
		t.Rows = append(t.Rows, []any{r.DeliveryMethodID, r.ShippingMode, r.DeliveryType})
	}
	return t
}

// CustomerSegmentRow is an RFM segment definition.
type CustomerSegmentRow struct {
	SegmentID      int64
	Name           string
	Description    string
	RFMScore       string
	RecencyScore   int
	FrequencyScore int
	MonetaryScore  int
	MinCLV         float64
	MaxCLV         float64
	IsActive       bool
}

// CustomerSegmentDim is the RFM segment dimension.
type CustomerSegmentDim []CustomerSegmentRow

// Table implements Tabular.
func (d CustomerSegmentDim) Table() *Table {
	t := &Table{
		Name:  TableDimCustomerSegment,
		Grain: "one row per RFM segment",
		Columns: []Column{
			{"segment_id", KindInt}, {"segment_name", KindString}, {"segment_description", KindString},
			{"rfm_score", KindString}, {"recency_score", KindInt}, {"frequency_score", KindInt},
			{"monetary_score", KindInt}, {"min_clv", KindFloat}, {"max_clv", KindFloat}, {"is_active", KindBool},
		},
		Rows: make([][]any, 0, len(d)),
	}
	for _, r := range d {
		t.Rows = append(t.Rows, []any{
			r.SegmentID, r.Name, r.Description, r.RFMScore, int64(r.RecencyScore),
			int64(r.FrequencyScore), int64(r.MonetaryScore), r.MinCLV, r.MaxCLV, r.IsActive,
		})
	}
	return t
}

// OrderStatusRow is an order lifecycle status.
type OrderStatusRow struct {
	StatusID     int64
	Name         string
	Category     string
	IsSuccessful bool
	IsCancelled  bool
	IsReturned   bool
	DisplayColor string
	DisplayOrder int
}

// OrderStatusDim is the order status dimension.
type OrderStatusDim []OrderStatusRow

// Table implements Tabular.
func (d OrderStatusDim) Table() *Table {
	t := &Table{
		Name:  TableDimOrderStatus,
		Grain: "one row per order status",
		Columns: []Column{
			{"status_id", KindInt}, {"status_name", KindString}, {"status_category", KindString},
			{"is_successful", KindBool}, {"is_cancelled", KindBool}, {"is_returned", KindBool},
			{"display_color", KindString}, {"display_order", KindInt},
		},
		Rows: make([][]any, 0, len(d)),
	}
	for _, r := range d {
		t.Rows = append(t.Rows, []any{
			r.StatusID, r.Name, r.Category, r.IsSuccessful, r.IsCancelled,
			r.IsReturned, r.DisplayColor, int64(r.DisplayOrder),
		})
	}
	return t
}

// SatisfactionCategoryRow is a weighted satisfaction category.
type SatisfactionCategoryRow struct {
	CategoryID   int64
	Name         string
	Description  string
	Weight       float64
	DisplayOrder int
}

// SatisfactionCategoryDim is the satisfaction category dimension.
type SatisfactionCategoryDim []SatisfactionCategoryRow

// Table implements Tabular.
func (d SatisfactionCategoryDim) Table() *Table {
	t := &Table{
		Name:  TableDimSatisfactionCategory,
		Grain: "one row per satisfaction category",
		Columns: []Column{
			{"satisfaction_category_id", KindInt}, {"category_name", KindString},
			{"category_description", KindString}, {"weight", KindFloat}, {"display_order", KindInt},
		},
		Rows: make([][]any, 0, len(d)),
	}
	for _, r := range d {
		t.Rows = append(t.Rows, []any{r.CategoryID, r.Name, r.Description, r.Weight, int64(r.DisplayOrder)})
	}
	return t
}
