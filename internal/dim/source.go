package dim

import (
	"github.com/pgEdge/pgedge-starbuild/internal/raw"
	"github.com/pgEdge/pgedge-starbuild/internal/warehouse"
)

// RegionKeyOf returns the region natural key of a user.
func RegionKeyOf(u raw.User) warehouse.RegionKey {
	return warehouse.RegionKey{City: u.City, Region: u.State, Country: u.Country}
}

// BuildRegion deduplicates the (city, state, country) triples of users in
// first-seen order and keys them 1..N.
func BuildRegion(users []raw.User) warehouse.RegionDim {
	seen := make(map[warehouse.RegionKey]struct{})
	var rows warehouse.RegionDim
	for _, u := range users {
		k := RegionKeyOf(u)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		rows = append(rows, warehouse.RegionRow{RegionID: int64(len(rows) + 1), RegionKey: k})
	}
	return rows
}

// BuildCustomer renames users into the customer dimension. The key is the
// source user id.
func BuildCustomer(users []raw.User) (warehouse.CustomerDim, error) {
	rows := make(warehouse.CustomerDim, len(users))
	keys := make([]int64, len(users))
	for i, u := range users {
		rows[i] = warehouse.CustomerRow{
			CustomerID:         u.ID,
			FirstName:          u.FirstName,
			LastName:           u.LastName,
			Email:              u.Email,
			Age:                u.Age,
			Gender:             u.Gender,
			Province:           u.State,
			Address:            u.StreetAddress,
			PostalCode:         u.PostalCode,
			City:               u.City,
			Country:            u.Country,
			Latitude:           u.Latitude,
			Longitude:          u.Longitude,
			AcquisitionChannel: u.TrafficSource,
			SignupDate:         u.CreatedAtText,
		}
		keys[i] = u.ID
	}
	if err := ValidateUniqueKeys(warehouse.TableDimCustomer, keys); err != nil {
		return nil, err
	}
	return rows, nil
}

// BuildProduct renames products into the product dimension, dropping the
// department column.
func BuildProduct(products []raw.Product) (warehouse.ProductDim, error) {
	rows := make(warehouse.ProductDim, len(products))
	keys := make([]int64, len(products))
	for i, p := range products {
		rows[i] = warehouse.ProductRow{
			ProductID:            p.ID,
			PurchasePrice:        p.Cost,
			Category:             p.Category,
			Name:                 p.Name,
			Brand:                p.Brand,
			RetailPrice:          p.RetailPrice,
			SKU:                  p.SKU,
			DistributionCenterID: p.DistributionCenterID,
		}
		keys[i] = p.ID
	}
	if err := ValidateUniqueKeys(warehouse.TableDimProduct, keys); err != nil {
		return nil, err
	}
	return rows, nil
}

// BuildDistributionCenter copies distribution centers into their dimension.
func BuildDistributionCenter(dcs []raw.DistributionCenter) (warehouse.DistributionCenterDim, error) {
	rows := make(warehouse.DistributionCenterDim, len(dcs))
	keys := make([]int64, len(dcs))
	for i, dc := range dcs {
		rows[i] = warehouse.DistributionCenterRow{
			DistributionCenterID: dc.ID,
			Name:                 dc.Name,
			Latitude:             dc.Latitude,
			Longitude:            dc.Longitude,
		}
		keys[i] = dc.ID
	}
	if err := ValidateUniqueKeys(warehouse.TableDimDistributionCenter, keys); err != nil {
		return nil, err
	}
	return rows, nil
}
