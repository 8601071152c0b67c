package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Snapshot fixture used across package tests. It covers:
//   - three distinct regions among five users (two Austin users)
//   - an order whose user (99) is missing from users.csv
//   - unparseable timestamps in orders.csv and order_items.csv
//   - an order line whose order is missing from orders.csv
//   - a completed order without any order line
//   - a duplicated (order_id, product_id) line
const (
	UsersCSV = `id,first_name,last_name,email,age,gender,state,street_address,postal_code,city,country,latitude,longitude,traffic_source,created_at
1,Ann,Lee,ann@example.com,34,F,California,1 Main St,94016,San Francisco,United States,37.77,-122.41,Search,2022-03-01 10:00:00+00:00
2,Bo,Chan,bo@example.com,28,M,California,2 Oak St,94016,San Francisco,United States,37.78,-122.42,Email,2022-05-10 08:30:00.123000+00:00
3,Cy,Diaz,cy@example.com,45,M,Texas,3 Elm St,73301,Austin,United States,30.26,-97.74,Facebook,2021-12-24
4,Di,Evans,di@example.com,51,F,Ile-de-France,4 Rue Royale,75001,Paris,France,48.85,2.35,Organic,2023-01-15T12:00:00Z
5,Ed,Fox,ed@example.com,19,M,Texas,5 Pine St,73301,Austin,United States,30.27,-97.75,Display,
`

	ProductsCSV = `id,cost,category,name,brand,retail_price,department,sku,distribution_center_id
101,20,Jeans,Slim Jeans,Acme,50,Men,SKU101,1
102,5.5,Tops,Basic Tee,Acme,15,Women,SKU102,2
103,30,Outerwear,Rain Jacket,Nimbus,90,Men,SKU103,1
`

	OrdersCSV = `order_id,user_id,status,created_at,shipped_at,delivered_at,returned_at,num_of_item
1,1,Complete,2024-01-01 09:00:00+00:00,2024-01-02 09:00:00+00:00,2024-01-04 09:00:00+00:00,,2
2,2,Shipped,2024-01-02 10:00:00+00:00,2024-01-03 10:00:00+00:00,,,1
3,3,Cancelled,2024-01-03 11:00:00+00:00,,,,1
4,4,Complete,2024-02-10 12:00:00+00:00,2024-02-11 12:00:00+00:00,2024-02-20 12:00:00+00:00,,2
5,99,Processing,not-a-date,,,,1
6,5,Complete,2024-03-05 08:00:00+00:00,2024-03-05 20:00:00+00:00,2024-03-06 08:00:00+00:00,,0
`

	OrderItemsCSV = `id,order_id,user_id,product_id,sale_price,created_at
1,1,1,101,50,2024-01-01 09:00:00+00:00
2,1,1,102,15,2024-01-01 09:00:00+00:00
3,2,2,103,90,2024-01-02 10:00:00+00:00
4,3,3,101,50,2024-01-03 11:00:00+00:00
5,4,4,102,15,2024-02-10 12:00:00+00:00
6,5,99,103,90,not-a-date
7,4,4,102,15,2024-02-10 12:00:00+00:00
8,777,1,101,50,2024-04-01
`

	DistributionCentersCSV = `id,name,latitude,longitude
1,Memphis TN,35.1174,-89.9711
2,Chicago IL,41.8369,-87.6847
`
)

// Fixture row counts.
const (
	FixtureUsers          = 5
	FixtureRegions        = 3
	FixtureOrders         = 6
	FixtureOrderItems     = 8
	FixtureParseErrors    = 2
	FixtureRevenue        = 375.0
	FixtureDeliveryOrders = 4
)

// WriteSnapshot writes the fixture snapshot into dir.
func WriteSnapshot(t *testing.T, dir string) {
	t.Helper()
	files := map[string]string{
		"users.csv":                UsersCSV,
		"products.csv":             ProductsCSV,
		"orders.csv":               OrdersCSV,
		"order_items.csv":          OrderItemsCSV,
		"distribution_centers.csv": DistributionCentersCSV,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
}

// SnapshotDir writes the fixture snapshot into a fresh temporary directory.
func SnapshotDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	WriteSnapshot(t, dir)
	return dir
}
