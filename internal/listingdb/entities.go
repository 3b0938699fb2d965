package listingdb

import "sort"

// Entity describes how one directory maps onto its table. Every column
// name that reaches SQL comes from these definitions, never from the
// request.
type Entity struct {
	Name    string
	Table   string
	Columns []string
	// Search lists the columns matched by the free-text search.
	Search []string
	// Filters maps a query key to an exact-match column.
	Filters map[string]string
	// Ranges maps a query key to a numeric column bounded by
	// <key>_min / <key>_max.
	Ranges map[string]string
	// Sorts maps a sort key to its column.
	Sorts       map[string]string
	DefaultSort string
}

// SortKeys lists the accepted sort keys in order.
func (e Entity) SortKeys() []string {
	keys := make([]string, 0, len(e.Sorts))
	for k := range e.Sorts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var entities = map[string]Entity{
	"brokers": {
		Name:    "brokers",
		Table:   "brokers",
		Columns: []string{"id", "name", "title", "company", "email", "phone", "city", "state", "specialty", "listings", "volume"},
		Search:  []string{"name", "company", "email", "city"},
		Filters: map[string]string{"state": "state", "specialty": "specialty", "company": "company"},
		Ranges:  map[string]string{"volume": "volume"},
		Sorts: map[string]string{
			"name": "name", "company": "company", "city": "city", "state": "state",
			"listings": "listings", "volume": "volume",
		},
		DefaultSort: "name",
	},
	"companies": {
		Name:    "companies",
		Table:   "companies",
		Columns: []string{"id", "name", "type", "city", "state", "website", "phone", "brokers", "listings"},
		Search:  []string{"name", "city", "website"},
		Filters: map[string]string{"type": "type", "state": "state"},
		Ranges:  map[string]string{"brokers": "brokers"},
		Sorts: map[string]string{
			"name": "name", "type": "type", "city": "city", "state": "state",
			"brokers": "brokers", "listings": "listings",
		},
		DefaultSort: "name",
	},
	"locations": {
		Name:    "locations",
		Table:   "locations",
		Columns: []string{"id", "name", "address", "city", "state", "zip", "property_type", "square_feet", "occupancy", "owner"},
		Search:  []string{"name", "address", "city", "owner"},
		Filters: map[string]string{"state": "state", "property_type": "property_type"},
		Ranges:  map[string]string{"size": "square_feet", "occupancy": "occupancy"},
		Sorts: map[string]string{
			"name": "name", "city": "city", "state": "state", "property_type": "property_type",
			"square_feet": "square_feet", "occupancy": "occupancy",
		},
		DefaultSort: "name",
	},
	"funds": {
		Name:    "funds",
		Table:   "funds",
		Columns: []string{"id", "name", "manager", "strategy", "focus", "vintage", "size", "properties", "status"},
		Search:  []string{"name", "manager"},
		Filters: map[string]string{"strategy": "strategy", "focus": "focus", "status": "status"},
		Ranges:  map[string]string{"size": "size", "vintage": "vintage"},
		Sorts: map[string]string{
			"name": "name", "manager": "manager", "strategy": "strategy", "vintage": "vintage",
			"size": "size", "properties": "properties",
		},
		DefaultSort: "name",
	},
	"listings": {
		Name:  "listings",
		Table: "listings",
		Columns: []string{"id", "title", "address", "city", "state", "property_type", "listing_type",
			"price", "rate", "square_feet", "year_built", "broker", "status", "listed_at"},
		Search: []string{"title", "address", "city", "broker"},
		Filters: map[string]string{
			"state": "state", "property_type": "property_type", "listing_type": "listing_type", "status": "status",
		},
		Ranges: map[string]string{"price": "price", "rate": "rate", "size": "square_feet"},
		Sorts: map[string]string{
			"title": "title", "city": "city", "property_type": "property_type", "price": "price",
			"rate": "rate", "square_feet": "square_feet", "year_built": "year_built", "listed_at": "listed_at",
		},
		DefaultSort: "listed_at",
	},
	"transactions": {
		Name:    "transactions",
		Table:   "transactions",
		Columns: []string{"id", "property", "city", "state", "type", "buyer", "seller", "price", "square_feet", "broker", "closed_at"},
		Search:  []string{"property", "buyer", "seller", "broker"},
		Filters: map[string]string{"state": "state", "type": "type"},
		Ranges:  map[string]string{"price": "price", "size": "square_feet"},
		Sorts: map[string]string{
			"property": "property", "city": "city", "type": "type", "price": "price",
			"square_feet": "square_feet", "closed_at": "closed_at",
		},
		DefaultSort: "closed_at",
	},
}

// Lookup returns the entity definition by directory name.
func Lookup(name string) (Entity, bool) {
	e, ok := entities[name]
	return e, ok
}

// Names lists the directory names in order.
func Names() []string {
	names := make([]string, 0, len(entities))
	for n := range entities {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
