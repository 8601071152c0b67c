package resolve

import (
	"strconv"
	"time"

	"github.com/pgEdge/pgedge-starbuild/internal/dim"
	"github.com/pgEdge/pgedge-starbuild/internal/raw"
	"github.com/pgEdge/pgedge-starbuild/internal/warehouse"
)

// Resolver serves natural-key lookups built once per run. It is safe for
// concurrent use.
type Resolver struct {
	policy Policy
	stats  *Stats

	dates      map[string]int64
	regions    map[warehouse.RegionKey]int64
	channels   map[string]int64
	userRegion map[int64]warehouse.RegionKey
	userSource map[int64]string
	customers  map[int64]struct{}
	products   map[int64]struct{}

	defaults map[string]int64
}

// New builds the lookups from the dimensions of set and the users they
// were built from.
func New(set *dim.Set, users []raw.User, policy Policy) *Resolver {
	r := &Resolver{
		policy:     policy,
		stats:      newStats(),
		dates:      make(map[string]int64, len(set.Time)),
		regions:    make(map[warehouse.RegionKey]int64, len(set.Region)),
		channels:   make(map[string]int64),
		userRegion: make(map[int64]warehouse.RegionKey, len(users)),
		userSource: make(map[int64]string, len(users)),
		customers:  make(map[int64]struct{}, len(set.Customer)),
		products:   make(map[int64]struct{}, len(set.Product)),
		defaults:   make(map[string]int64),
	}

	for _, row := range set.Time {
		r.dates[row.FullDate] = row.TimeID
	}
	for _, row := range set.Region {
		r.regions[row.RegionKey] = row.RegionID
	}
	for _, row := range set.Channel {
		if row.TrafficSource != "" {
			r.channels[row.TrafficSource] = row.ChannelID
		}
	}
	for _, u := range users {
		if _, ok := r.userRegion[u.ID]; !ok {
			r.userRegion[u.ID] = dim.RegionKeyOf(u)
			r.userSource[u.ID] = u.TrafficSource
		}
	}
	for _, row := range set.Customer {
		r.customers[row.CustomerID] = struct{}{}
	}
	for _, row := range set.Product {
		r.products[row.ProductID] = struct{}{}
	}

	// The default key is the first row of each dimension.
	if len(set.Time) > 0 {
		r.defaults[DimTime] = set.Time[0].TimeID
	}
	if len(set.Region) > 0 {
		r.defaults[DimRegion] = set.Region[0].RegionID
	}
	if len(set.Channel) > 0 {
		r.defaults[DimChannel] = set.Channel[0].ChannelID
	}
	if len(set.Customer) > 0 {
		r.defaults[DimCustomer] = set.Customer[0].CustomerID
	}
	if len(set.Product) > 0 {
		r.defaults[DimProduct] = set.Product[0].ProductID
	}
	return r
}

// Stats returns the fallback counters.
func (r *Resolver) Stats() *Stats {
	return r.stats
}

// DefaultKey returns the fallback key of a dimension.
func (r *Resolver) DefaultKey(dimension string) int64 {
	return r.defaults[dimension]
}

func (r *Resolver) miss(dimension, key string) (int64, error) {
	if r.policy == Strict {
		return 0, &warehouse.ResolutionError{Dimension: dimension, Key: key}
	}
	r.stats.inc(dimension)
	return r.defaults[dimension], nil
}

// Absent records a row that has no natural key for dimension at all.
func (r *Resolver) Absent(dimension string) (int64, error) {
	return r.miss(dimension, "")
}

// TimeKey resolves the calendar day of t. A nil t is a miss.
func (r *Resolver) TimeKey(t *time.Time) (int64, error) {
	if t == nil {
		return r.miss(DimTime, "")
	}
	date := t.UTC().Format(dim.DateLayout)
	if id, ok := r.dates[date]; ok {
		return id, nil
	}
	return r.miss(DimTime, date)
}

// RegionKey resolves a (city, region, country) triple.
func (r *Resolver) RegionKey(k warehouse.RegionKey) (int64, error) {
	if id, ok := r.regions[k]; ok {
		return id, nil
	}
	return r.miss(DimRegion, k.City+"|"+k.Region+"|"+k.Country)
}

// RegionKeyForCustomer resolves the region of a source user. An unknown
// user is a region miss.
func (r *Resolver) RegionKeyForCustomer(userID int64) (int64, error) {
	k, ok := r.userRegion[userID]
	if !ok {
		return r.miss(DimRegion, "user "+strconv.FormatInt(userID, 10))
	}
	return r.RegionKey(k)
}

// ChannelKey resolves a traffic source label. Only acquisition channels
// are reachable through this lookup.
func (r *Resolver) ChannelKey(source string) (int64, error) {
	if id, ok := r.channels[source]; ok {
		return id, nil
	}
	return r.miss(DimChannel, source)
}

// TrafficSource returns the traffic source of a source user, if known.
func (r *Resolver) TrafficSource(userID int64) (string, bool) {
	s, ok := r.userSource[userID]
	return s, ok
}

// CustomerKey checks a source user id against the customer dimension.
func (r *Resolver) CustomerKey(id int64) (int64, error) {
	if _, ok := r.customers[id]; ok {
		return id, nil
	}
	return r.miss(DimCustomer, strconv.FormatInt(id, 10))
}

// ProductKey checks a source product id against the product dimension.
func (r *Resolver) ProductKey(id int64) (int64, error) {
	if _, ok := r.products[id]; ok {
		return id, nil
	}
	return r.miss(DimProduct, strconv.FormatInt(id, 10))
}
