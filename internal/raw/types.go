//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package raw reads the flat e-commerce snapshot a build starts from.
package raw

import "time"

// Source table names, also the CSV file stems.
const (
	TableUsers               = "users"
	TableProducts            = "products"
	TableOrders              = "orders"
	TableOrderItems          = "order_items"
	TableDistributionCenters = "distribution_centers"
)

// User is one row of users.csv.
type User struct {
	ID            int64
	FirstName     string
	LastName      string
	Email         string
	Age           int64
	Gender        string
	State         string
	StreetAddress string
	PostalCode    string
	City          string
	Country       string
	Latitude      float64
	Longitude     float64
	TrafficSource string

	// CreatedAt is nil when the source value is empty or unparseable.
	// CreatedAtText keeps the source text.
	CreatedAt     *time.Time
	CreatedAtText string
}

// Product is one row of products.csv.
type Product struct {
	ID                   int64
	Cost                 float64
	Category             string
	Name                 string
	Brand                string
	RetailPrice          float64
	Department           string
	SKU                  string
	DistributionCenterID int64
}

// Order is one row of orders.csv.
type Order struct {
	OrderID     int64
	UserID      int64
	Status      string
	CreatedAt   *time.Time
	ShippedAt   *time.Time
	DeliveredAt *time.Time
	ReturnedAt  *time.Time
	NumOfItem   int64
}

// OrderItem is one row of order_items.csv.
type OrderItem struct {
	ID        int64
	OrderID   int64
	UserID    int64
	ProductID int64
	SalePrice float64
	CreatedAt *time.Time
}

// DistributionCenter is one row of distribution_centers.csv.
type DistributionCenter struct {
	ID        int64
	Name      string
	Latitude  float64
	Longitude float64
}

// Snapshot is the full raw input of a build.
type Snapshot struct {
	Users               []User
	Products            []Product
	Orders              []Order
	OrderItems          []OrderItem
	DistributionCenters []DistributionCenter

	Parse *ParseStats
}

// RequiredColumns lists the columns each source table must carry.
var RequiredColumns = map[string][]string{
	TableUsers: {
		"id", "first_name", "last_name", "email", "age", "gender", "state",
		"street_address", "postal_code", "city", "country", "latitude",
		"longitude", "traffic_source", "created_at",
	},
	TableProducts: {
		"id", "cost", "category", "name", "brand", "retail_price",
		"department", "sku", "distribution_center_id",
	},
	TableOrders: {
		"order_id", "user_id", "status", "created_at", "shipped_at",
		"delivered_at", "returned_at", "num_of_item",
	},
	TableOrderItems: {
		"id", "order_id", "user_id", "product_id", "sale_price", "created_at",
	},
	TableDistributionCenters: {
		"id", "name", "latitude", "longitude",
	},
}
