package models

import "time"

// Result is one listing discovered on a search results page. Summary fields are
// set during discovery; every other field is optional and filled by detail
// enrichment. A nil pointer means the value was absent or unparseable.
type Result struct {
	URL              string
	ShortTitle       string
	ShortDescription string

	Title      *string
	Price      *float64
	PricePerM2 *float64
	Rooms      *int
	Area       *float64

	DateAdded *time.Time
	DateBuilt *int

	Floor  *int
	Floors *int

	Lat *float64
	Lng *float64
}

// Details is the field set extracted from a single detail page.
type Details struct {
	Title      *string
	Price      *float64
	PricePerM2 *float64
	Rooms      *int
	Area       *float64
	DateAdded  *time.Time
	DateBuilt  *int
	Floor      *int
	Floors     *int
	Lat        *float64
	Lng        *float64
}

// Apply copies every present field of d onto r. Absent fields leave r as is.
func (r *Result) Apply(d Details) {
	if d.Title != nil {
		r.Title = d.Title
	}
	if d.Price != nil {
		r.Price = d.Price
	}
	if d.PricePerM2 != nil {
		r.PricePerM2 = d.PricePerM2
	}
	if d.Rooms != nil {
		r.Rooms = d.Rooms
	}
	if d.Area != nil {
		r.Area = d.Area
	}
	if d.DateAdded != nil {
		r.DateAdded = d.DateAdded
	}
	if d.DateBuilt != nil {
		r.DateBuilt = d.DateBuilt
	}
	if d.Floor != nil {
		r.Floor = d.Floor
	}
	if d.Floors != nil {
		r.Floors = d.Floors
	}
	if d.Lat != nil && d.Lng != nil {
		r.Lat = d.Lat
		r.Lng = d.Lng
	}
}

// Clone returns a shallow copy; pointer fields are shared.
func (r *Result) Clone() *Result {
	c := *r
	return &c
}

// InsightReport holds summary statistics over a finished crawl.
type InsightReport struct {
	TotalListings      int
	EnrichedListings   int
	GeolocatedListings int
	AveragePrice       float64
	MinPrice           float64
	MaxPrice           float64
	AveragePricePerM2  float64
	CheapestPerM2      []*Result
	ListingsByRooms    map[int]int
}
