package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/credir/internal/api"
	"github.com/gravitrone/credir/internal/config"
	"github.com/gravitrone/credir/internal/finance"
	"github.com/gravitrone/credir/internal/format"
	"github.com/gravitrone/credir/internal/ui/components"
)

// --- Shared Filter Vocabulary ---

var (
	stateOptions = options("AZ", "CO", "FL", "GA", "IL", "MA", "NC", "TN", "TX", "WA")

	propertyTypeOptions = labeled("office", "retail", "industrial", "multifamily", "land", "hospitality")

	priceUnit     = components.RangeUnit{Name: "usd", Ceiling: 50_000_000, Step: 250_000, Label: compactBound}
	txnPriceUnit  = components.RangeUnit{Name: "usd", Ceiling: 100_000_000, Step: 500_000, Label: compactBound}
	volumeUnit    = components.RangeUnit{Name: "usd", Ceiling: 250_000_000, Step: 5_000_000, Label: compactBound}
	fundSizeUnit  = components.RangeUnit{Name: "usd", Ceiling: 4_000_000_000, Step: 50_000_000, Label: compactBound}
	listingSFUnit = components.RangeUnit{Name: "sf", Ceiling: 180_000, Step: 2_500, Label: format.AreaBoundLabel}
	buildingSF    = components.RangeUnit{Name: "sf", Ceiling: 450_000, Step: 5_000, Label: format.AreaBoundLabel}
	occupancyUnit = components.RangeUnit{Name: "pct", Ceiling: 100, Step: 5, Label: percentBound}
	vintageUnit   = components.RangeUnit{Name: "year", Floor: 2008, Ceiling: 2025, Step: 1, Label: yearBound}
	headcountUnit = components.RangeUnit{Name: "count", Ceiling: 80, Step: 5, Label: countBound}
)

func options(values ...string) []components.Option {
	out := make([]components.Option, len(values))
	for i, v := range values {
		out[i] = components.Option{Value: v, Label: v}
	}
	return out
}

func labeled(values ...string) []components.Option {
	out := make([]components.Option, len(values))
	for i, v := range values {
		out[i] = components.Option{Value: v, Label: format.Title(v)}
	}
	return out
}

func compactBound(v, ceiling float64) string {
	label := format.CompactCurrency(&v)
	if ceiling > 0 && v >= ceiling {
		label = format.CompactCurrency(&ceiling) + "+"
	}
	return label
}

func percentBound(v, ceiling float64) string {
	if ceiling > 0 && v >= ceiling {
		return fmt.Sprintf("%.0f%%", ceiling)
	}
	return fmt.Sprintf("%.0f%%", v)
}

func yearBound(v, ceiling float64) string {
	if ceiling > 0 && v >= ceiling {
		return fmt.Sprintf("%.0f+", ceiling)
	}
	return fmt.Sprintf("%.0f", v)
}

func countBound(v, ceiling float64) string {
	if ceiling > 0 && v >= ceiling {
		return fmt.Sprintf("%.0f+", ceiling)
	}
	return fmt.Sprintf("%.0f", v)
}

func text(s *string) string { return format.Text(s) }

func place(city, state *string) string {
	switch {
	case city != nil && state != nil:
		return *city + ", " + *state
	case city != nil:
		return *city
	}
	return format.Text(state)
}

func label(s *string) string {
	if s == nil {
		return format.Dash
	}
	return format.Title(*s)
}

func badge(s *string) string {
	if s == nil {
		return ""
	}
	return "[" + format.Title(*s) + "]"
}

func search(delay time.Duration) *components.FilterInput {
	return components.NewFilterInput("search", "Search", delay)
}

// --- Directory Definitions ---

// Page is a tab the app can host.
type Page interface {
	Name() string
	Title() string
	Status() Status
	Init() tea.Cmd
	Update(tea.Msg) tea.Cmd
	View() string
	Teardown()
	Capturing() bool
	Pending() bool
	Hints() []string
	Overlay() (string, int, int, bool)
	SetSize(width, height int)
	SetOrigin(x, y int)
}

// Pages builds every directory in tab order.
func Pages(deps Deps) []Page {
	if deps.Config == nil {
		deps.Config = config.Default()
	}
	return []Page{
		NewDirectoryPage(ListingsDirectory(deps.Config), deps),
		NewDirectoryPage(BrokersDirectory(deps.Config), deps),
		NewDirectoryPage(CompaniesDirectory(deps.Config), deps),
		NewDirectoryPage(LocationsDirectory(deps.Config), deps),
		NewDirectoryPage(FundsDirectory(deps.Config), deps),
		NewDirectoryPage(TransactionsDirectory(deps.Config), deps),
	}
}

// ListingsDirectory is the property search.
func ListingsDirectory(cfg *config.Config) Directory[api.Listing] {
	right := lipgloss.Right
	return Directory[api.Listing]{
		Name:       "listings",
		Title:      "Listings",
		StorageKey: "listings",
		Key:        api.Listing.Key,
		Columns: []components.Column[api.Listing]{
			{Key: "title", Label: "Listing", Width: 28, MinWidth: 8, Sortable: true, Render: func(l api.Listing) string { return l.Title }},
			{Key: "city", Label: "Market", Width: 16, Sortable: true, Render: func(l api.Listing) string { return place(l.City, l.State) }},
			{Key: "property_type", Label: "Type", Width: 12, Sortable: true, Render: func(l api.Listing) string { return label(l.PropertyType) }},
			{Key: "listing_type", Label: "For", Width: 6, Render: func(l api.Listing) string { return label(l.ListingType) }},
			{Key: "price", Label: "Price", Width: 12, Align: right, Sortable: true, Render: func(l api.Listing) string { return format.Currency(l.Price) }},
			{Key: "rate", Label: "Rent/yr", Width: 10, Align: right, Sortable: true, Render: func(l api.Listing) string { return format.Currency(l.Rate) }},
			{Key: "square_feet", Label: "Size", Width: 11, Align: right, Sortable: true, Render: func(l api.Listing) string { return format.SquareFeet(l.SquareFeet) }},
			{Key: "year_built", Label: "Built", Width: 6, Align: right, Sortable: true, Render: func(l api.Listing) string { return yearText(l.YearBuilt) }},
			{Key: "status", Label: "Status", Width: 14, Render: func(l api.Listing) string { return label(l.Status) }},
			{Key: "listed_at", Label: "Listed", Width: 12, Sortable: true, Render: func(l api.Listing) string { return format.Date(l.ListedAt) }},
		},
		Card: func(l api.Listing) components.Card {
			price := format.CompactCurrency(l.Price)
			if l.Price == nil && l.Rate != nil {
				price = format.Currency(l.Rate) + "/yr"
			}
			return components.Card{
				Title:    l.Title,
				Subtitle: place(l.City, l.State),
				Lines: []string{
					strings.TrimSpace(label(l.PropertyType) + " " + badge(l.ListingType)),
					price,
					format.SquareFeet(l.SquareFeet),
					label(l.Status),
				},
			}
		},
		Detail: func(l api.Listing) []components.TableRow {
			return listingDetail(l, cfg)
		},
		Filters: func() *components.FilterBar {
			return components.NewFilterBar(
				search(cfg.Debounce()),
				components.NewSelect("state", "State", stateOptions),
				components.NewMultiSelect("property_type", "Type", propertyTypeOptions),
				components.NewSelect("listing_type", "For", labeled("sale", "lease")),
				components.NewToggle("status", "Active only", "active"),
				components.NewRangeFilter("price", "Price", "", priceUnit),
				components.NewRangeFilter("rate", "Rent", "rate_unit", components.YearlyRate, components.MonthlyRate),
				components.NewRangeFilter("size", "Size", "", listingSFUnit),
			)
		},
	}
}

func listingDetail(l api.Listing, cfg *config.Config) []components.TableRow {
	rows := []components.TableRow{
		{Label: "Address", Value: text(l.Address)},
		{Label: "Market", Value: place(l.City, l.State)},
		{Label: "Type", Value: label(l.PropertyType)},
		{Label: "For", Value: label(l.ListingType)},
		{Label: "Status", Value: label(l.Status)},
		{Label: "Size", Value: format.SquareFeet(l.SquareFeet)},
		{Label: "Built", Value: yearText(l.YearBuilt)},
		{Label: "Broker", Value: text(l.Broker)},
		{Label: "Listed", Value: format.Date(l.ListedAt)},
	}
	if l.Rate != nil {
		monthly := *l.Rate / 12
		rows = append(rows,
			components.TableRow{Label: "Rent", Value: format.Currency(l.Rate) + " / yr"},
			components.TableRow{Label: "Rent (monthly)", Value: format.CurrencyCents(monthly) + " / mo"},
		)
	}
	if l.Price != nil {
		est := finance.EstimateFor(*l.Price, cfg.DownPaymentPct, cfg.MortgageRatePct, cfg.MortgageTermYears)
		rows = append(rows,
			components.TableRow{Label: "Price", Value: format.Dollars(est.Price)},
			components.TableRow{Label: fmt.Sprintf("Down (%.0f%%)", cfg.DownPaymentPct), Value: format.Dollars(est.DownPayment)},
			components.TableRow{Label: "Loan", Value: format.Dollars(est.LoanAmount)},
			components.TableRow{
				Label: "Payment",
				Value: fmt.Sprintf("%s / mo at %.2f%% over %dy", format.CurrencyCents(est.Monthly), cfg.MortgageRatePct, cfg.MortgageTermYears),
			},
		)
		if l.SquareFeet != nil && *l.SquareFeet > 0 {
			rows = append(rows, components.TableRow{Label: "Price / SF", Value: format.CurrencyCents(*l.Price / *l.SquareFeet)})
		}
	}
	return rows
}

// BrokersDirectory lists agents.
func BrokersDirectory(cfg *config.Config) Directory[api.Broker] {
	right := lipgloss.Right
	return Directory[api.Broker]{
		Name:       "brokers",
		Title:      "Brokers",
		StorageKey: "brokers",
		Key:        api.Broker.Key,
		Columns: []components.Column[api.Broker]{
			{Key: "name", Label: "Name", Width: 20, MinWidth: 6, Sortable: true, Render: func(b api.Broker) string { return b.Name }},
			{Key: "title", Label: "Title", Width: 18, Render: func(b api.Broker) string { return text(b.Title) }},
			{Key: "company", Label: "Company", Width: 22, Sortable: true, Render: func(b api.Broker) string { return text(b.Company) }},
			{Key: "city", Label: "Market", Width: 16, Sortable: true, Render: func(b api.Broker) string { return place(b.City, b.State) }},
			{Key: "specialty", Label: "Specialty", Width: 18, Render: func(b api.Broker) string { return label(b.Specialty) }},
			{Key: "listings", Label: "Listings", Width: 8, Align: right, Sortable: true, Render: func(b api.Broker) string { return format.Count(b.Listings) }},
			{Key: "volume", Label: "Volume", Width: 10, Align: right, Sortable: true, Render: func(b api.Broker) string { return format.CompactCurrency(b.Volume) }},
		},
		Card: func(b api.Broker) components.Card {
			return components.Card{
				Title:    b.Name,
				Subtitle: text(b.Title),
				Lines:    []string{text(b.Company), place(b.City, b.State), label(b.Specialty), format.CompactCurrency(b.Volume) + " volume"},
			}
		},
		Detail: func(b api.Broker) []components.TableRow {
			return []components.TableRow{
				{Label: "Title", Value: text(b.Title)},
				{Label: "Company", Value: text(b.Company)},
				{Label: "Email", Value: text(b.Email)},
				{Label: "Phone", Value: text(b.Phone)},
				{Label: "Market", Value: place(b.City, b.State)},
				{Label: "Specialty", Value: label(b.Specialty)},
				{Label: "Listings", Value: format.Count(b.Listings)},
				{Label: "Volume", Value: format.Currency(b.Volume)},
			}
		},
		Filters: func() *components.FilterBar {
			return components.NewFilterBar(
				search(cfg.Debounce()),
				components.NewSelect("state", "State", stateOptions),
				components.NewSelect("specialty", "Specialty", labeled("office leasing", "retail investment", "industrial sales", "multifamily", "land", "tenant representation")),
				components.NewRangeFilter("volume", "Volume", "", volumeUnit),
			)
		},
	}
}

// CompaniesDirectory lists firms.
func CompaniesDirectory(cfg *config.Config) Directory[api.Company] {
	right := lipgloss.Right
	return Directory[api.Company]{
		Name:       "companies",
		Title:      "Companies",
		StorageKey: "companies",
		Key:        api.Company.Key,
		Columns: []components.Column[api.Company]{
			{Key: "name", Label: "Name", Width: 28, MinWidth: 6, Sortable: true, Render: func(c api.Company) string { return c.Name }},
			{Key: "type", Label: "Type", Width: 12, Sortable: true, Render: func(c api.Company) string { return label(c.Type) }},
			{Key: "city", Label: "Market", Width: 16, Sortable: true, Render: func(c api.Company) string { return place(c.City, c.State) }},
			{Key: "website", Label: "Website", Width: 28, Render: func(c api.Company) string { return text(c.Website) }},
			{Key: "brokers", Label: "Brokers", Width: 8, Align: right, Sortable: true, Render: func(c api.Company) string { return format.Count(c.Brokers) }},
			{Key: "listings", Label: "Listings", Width: 8, Align: right, Sortable: true, Render: func(c api.Company) string { return format.Count(c.Listings) }},
		},
		Card: func(c api.Company) components.Card {
			return components.Card{
				Title:    c.Name,
				Subtitle: label(c.Type),
				Lines:    []string{place(c.City, c.State), text(c.Website), format.Count(c.Brokers) + " brokers", format.Count(c.Listings) + " listings"},
			}
		},
		Detail: func(c api.Company) []components.TableRow {
			return []components.TableRow{
				{Label: "Type", Value: label(c.Type)},
				{Label: "Market", Value: place(c.City, c.State)},
				{Label: "Website", Value: text(c.Website)},
				{Label: "Phone", Value: text(c.Phone)},
				{Label: "Brokers", Value: format.Count(c.Brokers)},
				{Label: "Listings", Value: format.Count(c.Listings)},
			}
		},
		Filters: func() *components.FilterBar {
			return components.NewFilterBar(
				search(cfg.Debounce()),
				components.NewSelect("type", "Type", labeled("brokerage", "owner", "tenant", "developer")),
				components.NewSelect("state", "State", stateOptions),
				components.NewRangeFilter("brokers", "Brokers", "", headcountUnit),
			)
		},
	}
}

// LocationsDirectory lists buildings.
func LocationsDirectory(cfg *config.Config) Directory[api.Location] {
	right := lipgloss.Right
	return Directory[api.Location]{
		Name:       "locations",
		Title:      "Locations",
		StorageKey: "locations",
		Key:        api.Location.Key,
		Columns: []components.Column[api.Location]{
			{Key: "name", Label: "Name", Width: 26, MinWidth: 6, Sortable: true, Render: func(l api.Location) string { return l.Name }},
			{Key: "address", Label: "Address", Width: 22, Render: func(l api.Location) string { return text(l.Address) }},
			{Key: "city", Label: "Market", Width: 16, Sortable: true, Render: func(l api.Location) string { return place(l.City, l.State) }},
			{Key: "property_type", Label: "Type", Width: 12, Sortable: true, Render: func(l api.Location) string { return label(l.PropertyType) }},
			{Key: "square_feet", Label: "Size", Width: 11, Align: right, Sortable: true, Render: func(l api.Location) string { return format.SquareFeet(l.SquareFeet) }},
			{Key: "occupancy", Label: "Occupied", Width: 9, Align: right, Sortable: true, Render: func(l api.Location) string { return format.Percent(l.Occupancy) }},
			{Key: "owner", Label: "Owner", Width: 22, Render: func(l api.Location) string { return text(l.Owner) }},
		},
		Card: func(l api.Location) components.Card {
			return components.Card{
				Title:    l.Name,
				Subtitle: text(l.Address),
				Lines:    []string{place(l.City, l.State), label(l.PropertyType), format.SquareFeet(l.SquareFeet), format.Percent(l.Occupancy) + " occupied"},
			}
		},
		Detail: func(l api.Location) []components.TableRow {
			return []components.TableRow{
				{Label: "Address", Value: text(l.Address)},
				{Label: "Market", Value: place(l.City, l.State)},
				{Label: "Zip", Value: text(l.Zip)},
				{Label: "Type", Value: label(l.PropertyType)},
				{Label: "Size", Value: format.SquareFeet(l.SquareFeet)},
				{Label: "Occupancy", Value: format.Percent(l.Occupancy)},
				{Label: "Owner", Value: text(l.Owner)},
			}
		},
		Filters: func() *components.FilterBar {
			return components.NewFilterBar(
				search(cfg.Debounce()),
				components.NewSelect("state", "State", stateOptions),
				components.NewMultiSelect("property_type", "Type", propertyTypeOptions),
				components.NewRangeFilter("size", "Size", "", buildingSF),
				components.NewRangeFilter("occupancy", "Occupancy", "", occupancyUnit),
			)
		},
	}
}

// FundsDirectory lists investment vehicles.
func FundsDirectory(cfg *config.Config) Directory[api.Fund] {
	right := lipgloss.Right
	return Directory[api.Fund]{
		Name:       "funds",
		Title:      "Funds",
		StorageKey: "funds",
		Key:        api.Fund.Key,
		Columns: []components.Column[api.Fund]{
			{Key: "name", Label: "Fund", Width: 30, MinWidth: 6, Sortable: true, Render: func(f api.Fund) string { return f.Name }},
			{Key: "manager", Label: "Manager", Width: 22, Sortable: true, Render: func(f api.Fund) string { return text(f.Manager) }},
			{Key: "strategy", Label: "Strategy", Width: 14, Sortable: true, Render: func(f api.Fund) string { return label(f.Strategy) }},
			{Key: "focus", Label: "Focus", Width: 12, Render: func(f api.Fund) string { return label(f.Focus) }},
			{Key: "vintage", Label: "Vintage", Width: 7, Align: right, Sortable: true, Render: func(f api.Fund) string { return yearText(f.Vintage) }},
			{Key: "size", Label: "Size", Width: 9, Align: right, Sortable: true, Render: func(f api.Fund) string { return format.CompactCurrency(f.Size) }},
			{Key: "properties", Label: "Assets", Width: 7, Align: right, Sortable: true, Render: func(f api.Fund) string { return format.Count(f.Properties) }},
			{Key: "status", Label: "Status", Width: 11, Render: func(f api.Fund) string { return label(f.Status) }},
		},
		Card: func(f api.Fund) components.Card {
			return components.Card{
				Title:    f.Name,
				Subtitle: text(f.Manager),
				Lines:    []string{label(f.Strategy) + " " + badge(f.Focus), format.CompactCurrency(f.Size), "Vintage " + yearText(f.Vintage), label(f.Status)},
			}
		},
		Detail: func(f api.Fund) []components.TableRow {
			return []components.TableRow{
				{Label: "Manager", Value: text(f.Manager)},
				{Label: "Strategy", Value: label(f.Strategy)},
				{Label: "Focus", Value: label(f.Focus)},
				{Label: "Vintage", Value: yearText(f.Vintage)},
				{Label: "Size", Value: format.Currency(f.Size)},
				{Label: "Properties", Value: format.Count(f.Properties)},
				{Label: "Status", Value: label(f.Status)},
			}
		},
		Filters: func() *components.FilterBar {
			return components.NewFilterBar(
				search(cfg.Debounce()),
				components.NewMultiSelect("strategy", "Strategy", labeled("core", "core-plus", "value-add", "opportunistic")),
				components.NewSelect("focus", "Focus", propertyTypeOptions),
				components.NewSelect("status", "Status", labeled("raising", "investing", "harvesting", "closed")),
				components.NewRangeFilter("size", "Size", "", fundSizeUnit),
				components.NewRangeFilter("vintage", "Vintage", "", vintageUnit),
			)
		},
	}
}

// TransactionsDirectory lists closed deals.
func TransactionsDirectory(cfg *config.Config) Directory[api.Transaction] {
	right := lipgloss.Right
	return Directory[api.Transaction]{
		Name:       "transactions",
		Title:      "Transactions",
		StorageKey: "transactions",
		Key:        api.Transaction.Key,
		Columns: []components.Column[api.Transaction]{
			{Key: "property", Label: "Property", Width: 24, MinWidth: 6, Sortable: true, Render: func(t api.Transaction) string { return t.Property }},
			{Key: "city", Label: "Market", Width: 16, Sortable: true, Render: func(t api.Transaction) string { return place(t.City, t.State) }},
			{Key: "type", Label: "Type", Width: 6, Sortable: true, Render: func(t api.Transaction) string { return label(t.Type) }},
			{Key: "buyer", Label: "Buyer", Width: 20, Render: func(t api.Transaction) string { return text(t.Buyer) }},
			{Key: "seller", Label: "Seller", Width: 20, Render: func(t api.Transaction) string { return text(t.Seller) }},
			{Key: "price", Label: "Price", Width: 12, Align: right, Sortable: true, Render: func(t api.Transaction) string { return format.Currency(t.Price) }},
			{Key: "square_feet", Label: "Size", Width: 11, Align: right, Sortable: true, Render: func(t api.Transaction) string { return format.SquareFeet(t.SquareFeet) }},
			{Key: "closed_at", Label: "Closed", Width: 12, Sortable: true, Render: func(t api.Transaction) string { return format.Date(t.ClosedAt) }},
		},
		Card: func(t api.Transaction) components.Card {
			return components.Card{
				Title:    t.Property,
				Subtitle: place(t.City, t.State),
				Lines:    []string{label(t.Type), format.CompactCurrency(t.Price), text(t.Buyer), format.Date(t.ClosedAt)},
			}
		},
		Detail: func(t api.Transaction) []components.TableRow {
			rows := []components.TableRow{
				{Label: "Market", Value: place(t.City, t.State)},
				{Label: "Type", Value: label(t.Type)},
				{Label: "Buyer", Value: text(t.Buyer)},
				{Label: "Seller", Value: text(t.Seller)},
				{Label: "Price", Value: format.Currency(t.Price)},
				{Label: "Size", Value: format.SquareFeet(t.SquareFeet)},
				{Label: "Broker", Value: text(t.Broker)},
				{Label: "Closed", Value: format.Date(t.ClosedAt)},
			}
			if t.Price != nil && t.SquareFeet != nil && *t.SquareFeet > 0 {
				rows = append(rows, components.TableRow{Label: "Price / SF", Value: format.CurrencyCents(*t.Price / *t.SquareFeet)})
			}
			return rows
		},
		Filters: func() *components.FilterBar {
			return components.NewFilterBar(
				search(cfg.Debounce()),
				components.NewSelect("state", "State", stateOptions),
				components.NewSelect("type", "Type", labeled("sale", "lease")),
				components.NewRangeFilter("price", "Price", "", txnPriceUnit),
				components.NewRangeFilter("size", "Size", "", buildingSF),
			)
		},
	}
}

func yearText(y *int64) string {
	if y == nil {
		return format.Dash
	}
	return fmt.Sprintf("%d", *y)
}
