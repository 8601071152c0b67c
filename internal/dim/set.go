package dim

import (
	"time"

	"github.com/pgEdge/pgedge-starbuild/internal/raw"
	"github.com/pgEdge/pgedge-starbuild/internal/warehouse"
)

// Set holds every dimension of a build.
type Set struct {
	Time                 warehouse.TimeDim
	Region               warehouse.RegionDim
	Channel              warehouse.ChannelDim
	Customer             warehouse.CustomerDim
	Product              warehouse.ProductDim
	DistributionCenter   warehouse.DistributionCenterDim
	DeliveryMethod       warehouse.DeliveryMethodDim
	CustomerSegment      warehouse.CustomerSegmentDim
	OrderStatus          warehouse.OrderStatusDim
	SatisfactionCategory warehouse.SatisfactionCategoryDim
}

// Tables returns the dimensions in output order.
func (s *Set) Tables() []warehouse.Tabular {
	return []warehouse.Tabular{
		s.Time, s.Region, s.Channel, s.Customer, s.Product,
		s.DistributionCenter, s.DeliveryMethod, s.CustomerSegment,
		s.OrderStatus, s.SatisfactionCategory,
	}
}

// Task builds one dimension into its field of a Set. Tasks of the same Set
// write disjoint fields and may run concurrently.
type Task struct {
	Table string
	Run   func() error
}

// Tasks returns one build task per dimension.
func Tasks(set *Set, snap *raw.Snapshot, start, end time.Time) []Task {
	return []Task{
		{warehouse.TableDimTime, func() (err error) {
			if set.Time, err = BuildTime(start, end); err != nil {
				return err
			}
			keys := make([]int64, len(set.Time))
			for i, r := range set.Time {
				keys[i] = r.TimeID
			}
			return ValidateDenseKeys(warehouse.TableDimTime, keys)
		}},
		{warehouse.TableDimRegion, func() error {
			set.Region = BuildRegion(snap.Users)
			keys := make([]int64, len(set.Region))
			for i, r := range set.Region {
				keys[i] = r.RegionID
			}
			return ValidateDenseKeys(warehouse.TableDimRegion, keys)
		}},
		{warehouse.TableDimChannel, func() (err error) {
			set.Channel, err = BuildChannel()
			return err
		}},
		{warehouse.TableDimCustomer, func() (err error) {
			set.Customer, err = BuildCustomer(snap.Users)
			return err
		}},
		{warehouse.TableDimProduct, func() (err error) {
			set.Product, err = BuildProduct(snap.Products)
			return err
		}},
		{warehouse.TableDimDistributionCenter, func() (err error) {
			set.DistributionCenter, err = BuildDistributionCenter(snap.DistributionCenters)
			return err
		}},
		{warehouse.TableDimDeliveryMethod, func() error {
			set.DeliveryMethod = BuildDeliveryMethod()
			keys := make([]int64, len(set.DeliveryMethod))
			for i, r := range set.DeliveryMethod {
				keys[i] = r.DeliveryMethodID
			}
			return ValidateDenseKeys(warehouse.TableDimDeliveryMethod, keys)
		}},
		{warehouse.TableDimCustomerSegment, func() (err error) {
			set.CustomerSegment, err = CustomerSegments()
			return err
		}},
		{warehouse.TableDimOrderStatus, func() (err error) {
			set.OrderStatus, err = OrderStatuses()
			return err
		}},
		{warehouse.TableDimSatisfactionCategory, func() (err error) {
			set.SatisfactionCategory, err = SatisfactionCategories()
			return err
		}},
	}
}
