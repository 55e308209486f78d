package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"morizon-scraper/models"
	"morizon-scraper/utils"
)

func sampleResults() []*models.Result {
	return []*models.Result{
		{URL: "https://morizon.pl/oferta/1", ShortTitle: "A", Title: ptr("Gdańsk Oliwa"), Price: ptr(500000.0), PricePerM2: ptr(10000.0), Rooms: ptr(2), Lat: ptr(54.4), Lng: ptr(18.5)},
		{URL: "https://morizon.pl/oferta/2", ShortTitle: "B", Title: ptr("Gdańsk Wrzeszcz"), Price: ptr(300000.0), PricePerM2: ptr(8000.0), Rooms: ptr(2)},
		{URL: "https://morizon.pl/oferta/3", ShortTitle: "C", Title: ptr("Gdańsk Zaspa"), Price: ptr(700000.0), PricePerM2: ptr(12000.0), Rooms: ptr(3)},
		{URL: "https://morizon.pl/oferta/4", ShortTitle: "D"},
	}
}

func TestInsightCounts(t *testing.T) {
	svc := NewInsightService(utils.NewDiscardLogger())
	r := svc.Generate(sampleResults())

	assert.Equal(t, 4, r.TotalListings)
	assert.Equal(t, 3, r.EnrichedListings)
	assert.Equal(t, 1, r.GeolocatedListings)
}

func TestInsightPrices(t *testing.T) {
	svc := NewInsightService(utils.NewDiscardLogger())
	r := svc.Generate(sampleResults())

	assert.Equal(t, 500000.0, r.AveragePrice)
	assert.Equal(t, 300000.0, r.MinPrice)
	assert.Equal(t, 700000.0, r.MaxPrice)
	assert.Equal(t, 10000.0, r.AveragePricePerM2)
}

func TestInsightCheapestPerM2(t *testing.T) {
	svc := NewInsightService(utils.NewDiscardLogger())
	r := svc.Generate(sampleResults())

	require.Len(t, r.CheapestPerM2, 3)
	assert.Equal(t, "B", r.CheapestPerM2[0].ShortTitle)
	assert.Equal(t, "C", r.CheapestPerM2[2].ShortTitle)
}

func TestInsightRoomsGrouping(t *testing.T) {
	svc := NewInsightService(utils.NewDiscardLogger())
	r := svc.Generate(sampleResults())

	assert.Equal(t, 2, r.ListingsByRooms[2])
	assert.Equal(t, 1, r.ListingsByRooms[3])
}

func TestInsightEmptyInput(t *testing.T) {
	svc := NewInsightService(utils.NewDiscardLogger())
	r := svc.Generate(nil)

	assert.Equal(t, 0, r.TotalListings)
	assert.NotNil(t, r.ListingsByRooms)
}
