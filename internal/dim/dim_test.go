//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package dim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-starbuild/internal/raw"
	"github.com/pgEdge/pgedge-starbuild/internal/testutil"
	"github.com/pgEdge/pgedge-starbuild/internal/warehouse"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildTimeBijection(t *testing.T) {
	start, end := day(2023, 12, 30), day(2024, 3, 1)
	rows, err := BuildTime(start, end)
	require.NoError(t, err)

	// 2 days of 2023, 31 of January, 29 of February (leap year), 1 of March.
	require.Len(t, rows, 63)

	byDate := make(map[string]int64, len(rows))
	for i, r := range rows {
		require.Equal(t, int64(i+1), r.TimeID)
		require.Equal(t, start.AddDate(0, 0, i).Format(DateLayout), r.FullDate)
		_, dup := byDate[r.FullDate]
		require.False(t, dup, "duplicate date %s", r.FullDate)
		byDate[r.FullDate] = r.TimeID
	}
	require.Equal(t, int64(1), byDate["2023-12-30"])
	require.Equal(t, int64(62), byDate["2024-02-29"])
	require.Equal(t, int64(63), byDate["2024-03-01"])

	last := rows[len(rows)-1]
	require.Equal(t, 1, last.Day)
	require.Equal(t, 3, last.Month)
	require.Equal(t, 2024, last.Year)
}

func TestBuildTimeDefaultRange(t *testing.T) {
	rows, err := BuildTime(day(2019, 1, 1), day(2026, 1, 31))
	require.NoError(t, err)
	// 2019-2025 is 7 years with leap years 2020 and 2024, plus January 2026.
	require.Len(t, rows, 7*365+2+31)
}

func TestBuildTimeSingleDayAndInvertedRange(t *testing.T) {
	rows, err := BuildTime(day(2024, 7, 4).Add(15*time.Hour), day(2024, 7, 4))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	_, err = BuildTime(day(2024, 7, 5), day(2024, 7, 4))
	require.Error(t, err)
}

func TestBuildRegionFirstSeenOrder(t *testing.T) {
	users := []raw.User{
		{ID: 1, City: "Austin", State: "Texas", Country: "United States"},
		{ID: 2, City: "Paris", State: "Ile-de-France", Country: "France"},
		{ID: 3, City: "Austin", State: "Texas", Country: "United States"},
		{ID: 4, City: "Paris", State: "Texas", Country: "United States"},
	}
	got := BuildRegion(users)
	want := warehouse.RegionDim{
		{RegionID: 1, RegionKey: warehouse.RegionKey{City: "Austin", Region: "Texas", Country: "United States"}},
		{RegionID: 2, RegionKey: warehouse.RegionKey{City: "Paris", Region: "Ile-de-France", Country: "France"}},
		{RegionID: 3, RegionKey: warehouse.RegionKey{City: "Paris", Region: "Texas", Country: "United States"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildRegion mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildCustomerRenames(t *testing.T) {
	users := []raw.User{{
		ID: 7, FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Age: 34,
		Gender: "F", State: "California", StreetAddress: "1 Main St", PostalCode: "94016",
		City: "San Francisco", Country: "United States", Latitude: 37.77, Longitude: -122.41,
		TrafficSource: "Search", CreatedAtText: "2022-03-01 10:00:00+00:00",
	}}
	got, err := BuildCustomer(users)
	require.NoError(t, err)
	require.Equal(t, warehouse.CustomerDim{{
		CustomerID: 7, FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Age: 34,
		Gender: "F", Province: "California", Address: "1 Main St", PostalCode: "94016",
		City: "San Francisco", Country: "United States", Latitude: 37.77, Longitude: -122.41,
		AcquisitionChannel: "Search", SignupDate: "2022-03-01 10:00:00+00:00",
	}}, got)

	_, err = BuildCustomer(append(users, users[0]))
	var ve *warehouse.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, warehouse.TableDimCustomer, ve.Table)
}

func TestBuildProductDropsDepartment(t *testing.T) {
	got, err := BuildProduct([]raw.Product{{
		ID: 101, Cost: 20, Category: "Jeans", Name: "Slim Jeans", Brand: "Acme",
		RetailPrice: 50, Department: "Men", SKU: "SKU101", DistributionCenterID: 1,
	}})
	require.NoError(t, err)
	require.Equal(t, warehouse.ProductDim{{
		ProductID: 101, PurchasePrice: 20, Category: "Jeans", Name: "Slim Jeans",
		Brand: "Acme", RetailPrice: 50, SKU: "SKU101", DistributionCenterID: 1,
	}}, got)

	tbl := got.Table()
	require.Equal(t, -1, tbl.ColumnIndex("department"))
}

func TestBuildChannel(t *testing.T) {
	rows, err := BuildChannel()
	require.NoError(t, err)
	require.Len(t, rows, 10)

	acquisition := 0
	for _, r := range rows {
		if r.TrafficSource != "" {
			acquisition++
			require.Equal(t, r.Name, r.TrafficSource)
		}
		require.NotEmpty(t, r.MarketplaceName)
		require.NotEmpty(t, r.StoreCity)
	}
	require.Equal(t, 6, acquisition)
	require.Equal(t, "Amazon", rows[6].MarketplaceName)
	require.Equal(t, "Various", rows[9].StoreCity)
}

func TestBuildDeliveryMethodNestedOrder(t *testing.T) {
	rows := BuildDeliveryMethod()
	require.Len(t, rows, 25)
	require.Equal(t, warehouse.DeliveryMethodRow{DeliveryMethodID: 1, ShippingMode: "Standard", DeliveryType: "Domicile"}, rows[0])
	require.Equal(t, warehouse.DeliveryMethodRow{DeliveryMethodID: 2, ShippingMode: "Standard", DeliveryType: "Point Relais"}, rows[1])
	require.Equal(t, warehouse.DeliveryMethodRow{DeliveryMethodID: 6, ShippingMode: "Express", DeliveryType: "Domicile"}, rows[5])
	require.Equal(t, warehouse.DeliveryMethodRow{DeliveryMethodID: 25, ShippingMode: "Next Day", DeliveryType: "Consigne"}, rows[24])
}

func TestStaticReferenceLists(t *testing.T) {
	segs, err := CustomerSegments()
	require.NoError(t, err)
	require.Len(t, segs, 7)
	require.Equal(t, "Champions", segs[0].Name)
	require.False(t, segs[5].IsActive)

	sts, err := OrderStatuses()
	require.NoError(t, err)
	require.Len(t, sts, 5)
	for _, s := range sts {
		flags := 0
		for _, f := range []bool{s.IsSuccessful, s.IsCancelled, s.IsReturned} {
			if f {
				flags++
			}
		}
		require.LessOrEqual(t, flags, 1, "status %s", s.Name)
	}

	cats, err := SatisfactionCategories()
	require.NoError(t, err)
	require.Len(t, cats, 4)

	// Callers get a copy.
	cats[0].Weight = 0.9
	again, err := SatisfactionCategories()
	require.NoError(t, err)
	require.Equal(t, 0.35, again[0].Weight)
}

func TestValidateCategoriesRejectsBadWeights(t *testing.T) {
	_, err := validateCategories(warehouse.SatisfactionCategoryDim{
		{CategoryID: 1, Weight: 0.5},
		{CategoryID: 2, Weight: 0.4},
	})
	var ve *warehouse.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Contains(t, ve.Reason, "weights sum")
}

func TestValidateDenseKeys(t *testing.T) {
	tests := []struct {
		name      string
		keys      []int64
		wantError bool
	}{
		{"empty", nil, false},
		{"ordered", []int64{1, 2, 3}, false},
		{"unordered", []int64{3, 1, 2}, false},
		{"starts at zero", []int64{0, 1, 2}, true},
		{"gap", []int64{1, 2, 4}, true},
		{"duplicate", []int64{1, 1, 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDenseKeys("dim_test", tt.keys)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateDenseKeys(%v) error = %v, wantError %v", tt.keys, err, tt.wantError)
			}
		})
	}
}

func TestValidateUniqueKeys(t *testing.T) {
	require.NoError(t, ValidateUniqueKeys("dim_test", []int64{10, 3, 7}))
	require.Error(t, ValidateUniqueKeys("dim_test", []int64{10, 3, 10}))
}

func TestTasksBuildEveryDimension(t *testing.T) {
	snap, err := raw.Load(context.Background(), testutil.SnapshotDir(t))
	require.NoError(t, err)

	set := &Set{}
	for _, task := range Tasks(set, snap, day(2024, 1, 1), day(2024, 12, 31)) {
		require.NoError(t, task.Run(), task.Table)
	}

	require.Len(t, set.Time, 366)
	require.Len(t, set.Region, testutil.FixtureRegions)
	require.Len(t, set.Customer, testutil.FixtureUsers)
	require.Len(t, set.DistributionCenter, 2)

	names := make([]string, 0)
	for _, tab := range set.Tables() {
		names = append(names, tab.Table().Name)
	}
	require.Equal(t, []string{
		"dim_time", "dim_region", "dim_channel", "dim_customer", "dim_product",
		"dim_distribution_center", "dim_delivery_method", "dim_customer_segment",
		"dim_order_status", "dim_satisfaction_category",
	}, names)
}
