package listingdb

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/gravitrone/credir/internal/api"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Seed sizes.
const (
	SeedCompanies    = 48
	SeedBrokers      = 240
	SeedLocations    = 150
	SeedFunds        = 36
	SeedListings     = 320
	SeedTransactions = 200
)

var (
	firstNames = []string{"Dana", "Luis", "Priya", "Marcus", "Elena", "Owen", "Grace", "Tomas", "Aisha", "Jon",
		"Mei", "Samir", "Clara", "Reed", "Nadia", "Victor", "Hana", "Caleb", "Ines", "Jordan"}
	lastNames = []string{"Whitfield", "Ortega", "Raman", "Bell", "Novak", "Grant", "Kimura", "Alvarez", "Okafor",
		"Lindqvist", "Chen", "Haddad", "Moreau", "Fischer", "Patel", "Brennan", "Sato", "Ruiz", "Keller", "Park"}
	cities = []struct{ City, State string }{
		{"Austin", "TX"}, {"Dallas", "TX"}, {"Houston", "TX"}, {"Denver", "CO"}, {"Phoenix", "AZ"},
		{"Atlanta", "GA"}, {"Charlotte", "NC"}, {"Nashville", "TN"}, {"Chicago", "IL"}, {"Seattle", "WA"},
		{"Miami", "FL"}, {"Boston", "MA"},
	}
	streets       = []string{"Main St", "Commerce Blvd", "Market St", "Congress Ave", "Park Ave", "Industrial Pkwy", "Lake Dr", "Harbor Way"}
	companyStems  = []string{"Crest", "Meridian", "Summit", "Keystone", "Harbor", "Northgate", "Ironwood", "Bluestone", "Cedar", "Granite", "Pioneer", "Lakeshore"}
	companyKinds  = []string{"brokerage", "owner", "tenant", "developer"}
	companyTails  = map[string][]string{"brokerage": {"Realty", "Commercial", "Advisors"}, "owner": {"Holdings", "Properties"}, "tenant": {"Group", "Industries"}, "developer": {"Development", "Partners"}}
	propertyTypes = []string{"office", "retail", "industrial", "multifamily", "land", "hospitality"}
	specialties   = []string{"office leasing", "retail investment", "industrial sales", "multifamily", "land", "tenant representation"}
	titles        = []string{"Senior Vice President", "Vice President", "Associate", "Managing Director", "Principal"}
	strategies    = []string{"core", "core-plus", "value-add", "opportunistic"}
	fundStatuses  = []string{"raising", "investing", "harvesting", "closed"}
	listingStates = []string{"active", "active", "active", "under contract", "withdrawn"}
)

func title(s string) string { return cases.Title(language.English).String(s) }

type seeder struct {
	rng *rand.Rand
}

func (s *seeder) pick(items []string) string { return items[s.rng.IntN(len(items))] }

// maybe returns nil for roughly one value in ten.
func (s *seeder) maybe(v string) *string {
	if s.rng.IntN(10) == 0 {
		return nil
	}
	return &v
}

func (s *seeder) maybeFloat(v float64) *float64 {
	if s.rng.IntN(10) == 0 {
		return nil
	}
	return &v
}

func (s *seeder) maybeInt(v int64) *int64 {
	if s.rng.IntN(10) == 0 {
		return nil
	}
	return &v
}

func (s *seeder) person() string {
	return s.pick(firstNames) + " " + s.pick(lastNames)
}

func (s *seeder) between(lo, hi float64, step float64) float64 {
	v := lo + s.rng.Float64()*(hi-lo)
	return math.Round(v/step) * step
}

func (s *seeder) date(base time.Time, days int) string {
	return base.AddDate(0, 0, -s.rng.IntN(days)).Format("2006-01-02")
}

// Seed fills every table with deterministic demo rows. It is a no-op when
// rows already exist.
func Seed(ctx context.Context, db *DB) error {
	empty, err := db.Empty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}

	s := &seeder{rng: rand.New(rand.NewPCG(20240305, 7))}
	base := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	insert := func(entity string, row any) error {
		e, _ := Lookup(entity)
		named := make([]string, len(e.Columns))
		for i, c := range e.Columns {
			named[i] = ":" + c
		}
		stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", e.Table,
			strings.Join(e.Columns, ", "), strings.Join(named, ", "))
		if _, err := tx.NamedExecContext(ctx, stmt, row); err != nil {
			return fmt.Errorf("seed %s: %w", entity, err)
		}
		return nil
	}

	companies := make([]string, 0, SeedCompanies)
	for i := 1; i <= SeedCompanies; i++ {
		kind := companyKinds[i%len(companyKinds)]
		loc := cities[s.rng.IntN(len(cities))]
		name := fmt.Sprintf("%s %s", companyStems[i%len(companyStems)], s.pick(companyTails[kind]))
		if i > len(companyStems) {
			name = fmt.Sprintf("%s %s", name, loc.City)
		}
		companies = append(companies, name)
		slug := strings.ToLower(strings.ReplaceAll(name, " ", ""))
		row := api.Company{
			ID: int64(i), Name: name, Type: &kind,
			City: &loc.City, State: &loc.State,
			Website:  s.maybe("https://" + slug + ".example.com"),
			Phone:    s.maybe(fmt.Sprintf("(%03d) 555-%04d", 200+s.rng.IntN(700), s.rng.IntN(10000))),
			Brokers:  s.maybeInt(int64(s.rng.IntN(80))),
			Listings: s.maybeInt(int64(s.rng.IntN(200))),
		}
		if err := insert("companies", row); err != nil {
			return err
		}
	}

	brokers := make([]string, 0, SeedBrokers)
	for i := 1; i <= SeedBrokers; i++ {
		name := s.person()
		brokers = append(brokers, name)
		loc := cities[s.rng.IntN(len(cities))]
		email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + fmt.Sprintf("%d@example.com", i)
		row := api.Broker{
			ID: int64(i), Name: name,
			Title:     s.maybe(s.pick(titles)),
			Company:   s.maybe(s.pick(companies)),
			Email:     s.maybe(email),
			Phone:     s.maybe(fmt.Sprintf("(%03d) 555-%04d", 200+s.rng.IntN(700), s.rng.IntN(10000))),
			City:      &loc.City,
			State:     &loc.State,
			Specialty: s.maybe(s.pick(specialties)),
			Listings:  s.maybeInt(int64(s.rng.IntN(40))),
			Volume:    s.maybeFloat(s.between(500_000, 250_000_000, 1000)),
		}
		if err := insert("brokers", row); err != nil {
			return err
		}
	}

	for i := 1; i <= SeedLocations; i++ {
		loc := cities[s.rng.IntN(len(cities))]
		ptype := s.pick(propertyTypes)
		street := fmt.Sprintf("%d %s", 100+s.rng.IntN(9800), s.pick(streets))
		row := api.Location{
			ID: int64(i), Name: fmt.Sprintf("%s %s Center", loc.City, title(ptype)),
			Address: &street, City: &loc.City, State: &loc.State,
			Zip:          s.maybe(fmt.Sprintf("%05d", 10000+s.rng.IntN(89999))),
			PropertyType: &ptype,
			SquareFeet:   s.maybeFloat(s.between(1_500, 450_000, 100)),
			Occupancy:    s.maybeFloat(s.between(40, 100, 0.5)),
			Owner:        s.maybe(s.pick(companies)),
		}
		if err := insert("locations", row); err != nil {
			return err
		}
	}

	for i := 1; i <= SeedFunds; i++ {
		strategy := s.pick(strategies)
		name := fmt.Sprintf("%s %s Fund %s", companyStems[i%len(companyStems)], title(strategy), roman(1+i%6))
		row := api.Fund{
			ID: int64(i), Name: name,
			Manager:    s.maybe(s.pick(companies)),
			Strategy:   &strategy,
			Focus:      s.maybe(s.pick(propertyTypes)),
			Vintage:    s.maybeInt(int64(2008 + s.rng.IntN(17))),
			Size:       s.maybeFloat(s.between(50_000_000, 4_000_000_000, 1_000_000)),
			Properties: s.maybeInt(int64(3 + s.rng.IntN(90))),
			Status:     s.maybe(s.pick(fundStatuses)),
		}
		if err := insert("funds", row); err != nil {
			return err
		}
	}

	for i := 1; i <= SeedListings; i++ {
		loc := cities[s.rng.IntN(len(cities))]
		ptype := s.pick(propertyTypes)
		kind := "sale"
		if s.rng.IntN(2) == 0 {
			kind = "lease"
		}
		street := fmt.Sprintf("%d %s", 100+s.rng.IntN(9800), s.pick(streets))
		sqft := s.between(1_200, 180_000, 100)
		row := api.Listing{
			ID: int64(i), Title: fmt.Sprintf("%s %s", street, title(ptype)),
			Address: &street, City: &loc.City, State: &loc.State,
			PropertyType: &ptype, ListingType: &kind,
			SquareFeet: s.maybeFloat(sqft),
			YearBuilt:  s.maybeInt(int64(1955 + s.rng.IntN(69))),
			Broker:     s.maybe(s.pick(brokers)),
			Status:     s.maybe(s.pick(listingStates)),
			ListedAt:   s.maybe(s.date(base, 540)),
		}
		if kind == "sale" {
			row.Price = s.maybeFloat(s.between(250_000, 60_000_000, 5_000))
		} else {
			row.Rate = s.maybeFloat(s.between(1_200, 24_000, 50))
		}
		if err := insert("listings", row); err != nil {
			return err
		}
	}

	for i := 1; i <= SeedTransactions; i++ {
		loc := cities[s.rng.IntN(len(cities))]
		kind := "sale"
		if s.rng.IntN(3) == 0 {
			kind = "lease"
		}
		property := fmt.Sprintf("%d %s", 100+s.rng.IntN(9800), s.pick(streets))
		row := api.Transaction{
			ID: int64(i), Property: property,
			City: &loc.City, State: &loc.State, Type: &kind,
			Buyer:      s.maybe(s.pick(companies)),
			Seller:     s.maybe(s.pick(companies)),
			Price:      s.maybeFloat(s.between(400_000, 120_000_000, 10_000)),
			SquareFeet: s.maybeFloat(s.between(2_000, 300_000, 100)),
			Broker:     s.maybe(s.pick(brokers)),
			ClosedAt:   s.maybe(s.date(base, 1460)),
		}
		if err := insert("transactions", row); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

func roman(n int) string {
	return [...]string{"", "I", "II", "III", "IV", "V", "VI"}[n]
}
