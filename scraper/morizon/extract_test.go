package morizon

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"morizon-scraper/services"
	"morizon-scraper/utils"
)

type fixedDates struct{}

func (fixedDates) ParseDate(raw string) (time.Time, error) {
	if raw == "3 dni temu" {
		return time.Date(2021, 5, 9, 12, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, errors.New("unparseable")
}

func testCleaner() *services.Cleaner {
	return services.NewCleaner(utils.NewDiscardLogger(), fixedDates{})
}

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractSummariesDropsPromotedRow(t *testing.T) {
	for rows := 1; rows <= 5; rows++ {
		doc := mustDoc(t, listingPageHTML(1, rows, 1, "https://www.morizon.pl"))
		got, err := ExtractSummaries(doc, "https://www.morizon.pl/mieszkania/")
		require.NoError(t, err)
		assert.Len(t, got, rows-1, "rows=%d", rows)
	}
}

func TestExtractSummariesFields(t *testing.T) {
	doc := mustDoc(t, listingPageHTML(3, 3, 1, "https://www.morizon.pl"))
	got, err := ExtractSummaries(doc, "https://www.morizon.pl/mieszkania/")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "https://www.morizon.pl/oferta/p3-r1", got[0].URL)
	assert.Equal(t, "Mieszkanie 3/1", got[0].ShortTitle)
	assert.Equal(t, "Opis oferty 1", got[0].ShortDescription)
	assert.Nil(t, got[0].Title)
}

func TestExtractSummariesResolvesRelativeLinks(t *testing.T) {
	doc := mustDoc(t, listingPageHTML(1, 2, 1, ""))
	got, err := ExtractSummaries(doc, "https://www.morizon.pl/mieszkania/gdansk/?page=1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://www.morizon.pl/oferta/p1-r1", got[0].URL)
}

func TestExtractSummariesMissingContainer(t *testing.T) {
	doc := mustDoc(t, `<html><body><div class="other"></div></body></html>`)
	_, err := ExtractSummaries(doc, "https://x.pl/")

	var se *StructuralError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "div.mainBox", se.Element)
}

func TestPageCount(t *testing.T) {
	doc := mustDoc(t, listingPageHTML(1, 3, 7, ""))
	n, err := PageCount(doc, "u")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	doc = mustDoc(t, listingPageHTML(1, 3, 1, ""))
	n, err = PageCount(doc, "u")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "no pagination control means one page")

	doc = mustDoc(t, `<div class="mainBox"><footer><ul><li>1</li><li>dalej</li><li>»</li></ul></footer></div>`)
	_, err = PageCount(doc, "u")
	var se *StructuralError
	assert.ErrorAs(t, err, &se)
}

func TestExtractDetailsFull(t *testing.T) {
	doc := mustDoc(t, detailPageHTML(detailOpts{}))
	d, err := ExtractDetails(doc, "u", testCleaner())
	require.NoError(t, err)

	require.NotNil(t, d.Title)
	assert.Equal(t, "Gdańsk, Jasień, Potęgowska", *d.Title)
	require.NotNil(t, d.Price)
	assert.Equal(t, 450000.0, *d.Price)
	require.NotNil(t, d.PricePerM2)
	assert.InDelta(t, 12857.14, *d.PricePerM2, 1e-9)
	require.NotNil(t, d.Area)
	assert.Equal(t, 35.0, *d.Area)
	require.NotNil(t, d.Rooms)
	assert.Equal(t, 2, *d.Rooms)
	require.NotNil(t, d.DateAdded)
	assert.Equal(t, time.Date(2021, 5, 9, 0, 0, 0, 0, time.UTC), *d.DateAdded)
	require.NotNil(t, d.Floor)
	assert.Equal(t, 2, *d.Floor)
	require.NotNil(t, d.Floors)
	assert.Equal(t, 5, *d.Floors)
	require.NotNil(t, d.DateBuilt)
	assert.Equal(t, 2015, *d.DateBuilt)
	require.NotNil(t, d.Lat)
	require.NotNil(t, d.Lng)
	assert.InDelta(t, 54.3512, *d.Lat, 1e-9)
	assert.InDelta(t, 18.5983, *d.Lng, 1e-9)
}

func TestExtractDetailsOptionalPartsMissing(t *testing.T) {
	doc := mustDoc(t, detailPageHTML(detailOpts{noPricePerM2: true, noBuilding: true, noMap: true, floor: "parter"}))
	d, err := ExtractDetails(doc, "u", testCleaner())
	require.NoError(t, err)

	assert.Nil(t, d.PricePerM2)
	assert.Nil(t, d.DateBuilt)
	assert.Nil(t, d.Lat)
	assert.Nil(t, d.Lng)

	require.NotNil(t, d.Title)
	require.NotNil(t, d.Price)
	require.NotNil(t, d.Floor)
	assert.Equal(t, 0, *d.Floor)
	require.NotNil(t, d.Floors)
}

func TestExtractDetailsMissingParamList(t *testing.T) {
	doc := mustDoc(t, detailPageHTML(detailOpts{noParams: true}))
	_, err := ExtractDetails(doc, "u", testCleaner())

	var se *StructuralError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "ul.paramIcons", se.Element)
}

func TestExtractDetailsUnknownFloorWord(t *testing.T) {
	doc := mustDoc(t, detailPageHTML(detailOpts{floor: "suterena"}))
	d, err := ExtractDetails(doc, "u", testCleaner())
	require.NoError(t, err)
	assert.Nil(t, d.Floor)
}

func TestFlattenTable(t *testing.T) {
	doc := mustDoc(t, `<table>
<tr><th> Piętro: </th><td> Parter </td></tr>
<tr><th>Stan:</th><td>Do zamieszkania</td></tr>
<tr><th>Piętro</th><td>1</td></tr>
<tr><th>Bez wartości</th></tr>
</table>`)

	got := FlattenTable(doc.Find("table"))
	assert.Equal(t, map[string]string{
		"piętro": "1",
		"stan":   "do zamieszkania",
	}, got)
}
