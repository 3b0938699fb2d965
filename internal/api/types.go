package api

import "strconv"

// --- API Response Envelope ---

type apiResponse[T any] struct {
	Data  T       `json:"data"`
	Error *apiErr `json:"error,omitempty"`
}

type apiErr struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// --- Broker ---

// Broker is an individual agent in the brokerage directory.
type Broker struct {
	ID        int64    `json:"id" db:"id"`
	Name      string   `json:"name" db:"name"`
	Title     *string  `json:"title" db:"title"`
	Company   *string  `json:"company" db:"company"`
	Email     *string  `json:"email" db:"email"`
	Phone     *string  `json:"phone" db:"phone"`
	City      *string  `json:"city" db:"city"`
	State     *string  `json:"state" db:"state"`
	Specialty *string  `json:"specialty" db:"specialty"`
	Listings  *int64   `json:"listings" db:"listings"`
	Volume    *float64 `json:"volume" db:"volume"`
}

func (b Broker) Key() string { return strconv.FormatInt(b.ID, 10) }

// --- Company ---

// Company is a brokerage, owner, tenant or developer firm.
type Company struct {
	ID       int64   `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	Type     *string `json:"type" db:"type"`
	City     *string `json:"city" db:"city"`
	State    *string `json:"state" db:"state"`
	Website  *string `json:"website" db:"website"`
	Phone    *string `json:"phone" db:"phone"`
	Brokers  *int64  `json:"brokers" db:"brokers"`
	Listings *int64  `json:"listings" db:"listings"`
}

func (c Company) Key() string { return strconv.FormatInt(c.ID, 10) }

// --- Location ---

// Location is a physical property.
type Location struct {
	ID           int64    `json:"id" db:"id"`
	Name         string   `json:"name" db:"name"`
	Address      *string  `json:"address" db:"address"`
	City         *string  `json:"city" db:"city"`
	State        *string  `json:"state" db:"state"`
	Zip          *string  `json:"zip" db:"zip"`
	PropertyType *string  `json:"property_type" db:"property_type"`
	SquareFeet   *float64 `json:"square_feet" db:"square_feet"`
	Occupancy    *float64 `json:"occupancy" db:"occupancy"`
	Owner        *string  `json:"owner" db:"owner"`
}

func (l Location) Key() string { return strconv.FormatInt(l.ID, 10) }

// --- Fund ---

// Fund is a real-estate investment vehicle.
type Fund struct {
	ID         int64    `json:"id" db:"id"`
	Name       string   `json:"name" db:"name"`
	Manager    *string  `json:"manager" db:"manager"`
	Strategy   *string  `json:"strategy" db:"strategy"`
	Focus      *string  `json:"focus" db:"focus"`
	Vintage    *int64   `json:"vintage" db:"vintage"`
	Size       *float64 `json:"size" db:"size"`
	Properties *int64   `json:"properties" db:"properties"`
	Status     *string  `json:"status" db:"status"`
}

func (f Fund) Key() string { return strconv.FormatInt(f.ID, 10) }

// --- Listing ---

// Listing is a property offered for sale or lease. Rate is the asking
// rent per year.
type Listing struct {
	ID           int64    `json:"id" db:"id"`
	Title        string   `json:"title" db:"title"`
	Address      *string  `json:"address" db:"address"`
	City         *string  `json:"city" db:"city"`
	State        *string  `json:"state" db:"state"`
	PropertyType *string  `json:"property_type" db:"property_type"`
	ListingType  *string  `json:"listing_type" db:"listing_type"`
	Price        *float64 `json:"price" db:"price"`
	Rate         *float64 `json:"rate" db:"rate"`
	SquareFeet   *float64 `json:"square_feet" db:"square_feet"`
	YearBuilt    *int64   `json:"year_built" db:"year_built"`
	Broker       *string  `json:"broker" db:"broker"`
	Status       *string  `json:"status" db:"status"`
	ListedAt     *string  `json:"listed_at" db:"listed_at"`
}

func (l Listing) Key() string { return strconv.FormatInt(l.ID, 10) }

// --- Transaction ---

// Transaction is a closed sale or lease.
type Transaction struct {
	ID         int64    `json:"id" db:"id"`
	Property   string   `json:"property" db:"property"`
	City       *string  `json:"city" db:"city"`
	State      *string  `json:"state" db:"state"`
	Type       *string  `json:"type" db:"type"`
	Buyer      *string  `json:"buyer" db:"buyer"`
	Seller     *string  `json:"seller" db:"seller"`
	Price      *float64 `json:"price" db:"price"`
	SquareFeet *float64 `json:"square_feet" db:"square_feet"`
	Broker     *string  `json:"broker" db:"broker"`
	ClosedAt   *string  `json:"closed_at" db:"closed_at"`
}

func (t Transaction) Key() string { return strconv.FormatInt(t.ID, 10) }
