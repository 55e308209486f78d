package morizon

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"morizon-scraper/models"
	"morizon-scraper/services"
)

// StructuralError reports that an element the page cannot be processed
// without is missing.
type StructuralError struct {
	URL     string
	Element string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: missing %s", e.URL, e.Element)
}

// Labels and units printed next to values on detail pages.
var (
	priceStrip      = []string{"Cena za m²", "Cena", "zł"}
	pricePerM2Strip = []string{"Cena za m²", "zł/m²", "zł"}
	areaStrip       = []string{"Powierzchnia", "m²"}
	roomsStrip      = []string{"Pokoje"}
)

// Keys of the flattened parameter tables.
const (
	keyPublished = "opublikowano"
	keyFloor     = "piętro"
	keyFloors    = "liczba pięter"
	keyYearBuilt = "rok budowy"
)

// PageCount reads the pagination control of a results page. Without a
// pagination list the result set has one page; otherwise the second-to-last
// entry holds the last page number (the last one is "next").
func PageCount(doc *goquery.Document, pageURL string) (int, error) {
	mainBox := doc.Find("div.mainBox").First()
	if mainBox.Length() == 0 {
		return 0, &StructuralError{URL: pageURL, Element: "div.mainBox"}
	}

	pagination := mainBox.Find("footer").First().Find("ul").First()
	if pagination.Length() == 0 {
		return 1, nil
	}

	items := pagination.Find("li")
	if items.Length() < 2 {
		return 1, nil
	}

	text := strings.TrimSpace(items.Eq(items.Length() - 2).Text())
	pages, err := strconv.Atoi(text)
	if err != nil || pages < 1 {
		return 0, &StructuralError{URL: pageURL, Element: fmt.Sprintf("page number (got %q)", text)}
	}
	return pages, nil
}

// ExtractSummaries returns one Result per listing row of a results page. The
// last row of every page is a promoted placement and is always dropped. Rows
// without a link are skipped. Relative links are resolved against pageURL.
func ExtractSummaries(doc *goquery.Document, pageURL string) ([]*models.Result, error) {
	mainBox := doc.Find("div.mainBox").First()
	if mainBox.Length() == 0 {
		return nil, &StructuralError{URL: pageURL, Element: "div.mainBox"}
	}
	container := mainBox.Find("section").First()
	if container.Length() == 0 {
		return nil, &StructuralError{URL: pageURL, Element: "results section"}
	}

	rows := container.Find("div.single-result")
	if rows.Length() == 0 {
		return nil, nil
	}
	rows = rows.Slice(0, rows.Length()-1)

	base, _ := url.Parse(pageURL)

	results := make([]*models.Result, 0, rows.Length())
	rows.Each(func(_ int, row *goquery.Selection) {
		content := row.Find("section").First()

		href, ok := content.Find("header a").First().Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return
		}

		results = append(results, &models.Result{
			URL:              resolveURL(base, href),
			ShortTitle:       services.NormaliseText(content.Find("h2.single-result__title").First().Text()),
			ShortDescription: services.NormaliseText(content.Find("div.description p").First().Text()),
		})
	})
	return results, nil
}

// ExtractDetails pulls the detail field set from a listing page. The article,
// its parameter list and the first details table are required; everything
// else is optional and simply left absent.
func ExtractDetails(doc *goquery.Document, pageURL string, c *services.Cleaner) (models.Details, error) {
	var d models.Details

	article := doc.Find("div.contentBox").First().Find("article").First()
	if article.Length() == 0 {
		return d, &StructuralError{URL: pageURL, Element: "div.contentBox article"}
	}

	if title := services.NormaliseText(article.Find("div.summaryLocation").First().Text()); title != "" {
		d.Title = &title
	}

	params := article.Find("ul.paramIcons").First()
	if params.Length() == 0 {
		return d, &StructuralError{URL: pageURL, Element: "ul.paramIcons"}
	}
	if li := params.Find("li.paramIconPrice").First(); li.Length() > 0 {
		d.Price = c.Decimal(li.Text(), priceStrip...)
	}
	if li := params.Find("li.paramIconPriceM2").First(); li.Length() > 0 {
		d.PricePerM2 = c.Decimal(li.Text(), pricePerM2Strip...)
	}
	if li := params.Find("li.paramIconLivingArea").First(); li.Length() > 0 {
		d.Area = c.Decimal(li.Text(), areaStrip...)
	}
	if li := params.Find("li.paramIconNumberOfRooms").First(); li.Length() > 0 {
		d.Rooms = c.Int(li.Text(), roomsStrip...)
	}

	tables := article.Find("section.propertyContent section.propertyParams").First().
		Find("section").First().Find("table")
	if tables.Length() == 0 {
		return d, &StructuralError{URL: pageURL, Element: "details table"}
	}

	details := FlattenTable(tables.Eq(0))
	d.DateAdded = c.Date(details[keyPublished])
	d.Floor = c.Floor(details[keyFloor])
	d.Floors = c.Int(details[keyFloors])

	if tables.Length() > 1 {
		building := FlattenTable(tables.Eq(1))
		d.DateBuilt = c.Int(building[keyYearBuilt])
	}

	if m := doc.Find("div#property-map").First(); m.Length() > 0 {
		lat, latOK := m.Attr("data-lat")
		lng, lngOK := m.Attr("data-lng")
		if latOK && lngOK {
			d.Lat = c.Decimal(lat)
			d.Lng = c.Decimal(lng)
		}
	}

	return d, nil
}

// FlattenTable turns a two-column label/value table into a map keyed by the
// lower-cased label with colons removed. Values are trimmed and lower-cased.
// A repeated label keeps the value of its last row.
func FlattenTable(table *goquery.Selection) map[string]string {
	props := make(map[string]string)
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		ths := tr.Find("th")
		tds := tr.Find("td")
		n := ths.Length()
		if tds.Length() < n {
			n = tds.Length()
		}
		for i := 0; i < n; i++ {
			key := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(ths.Eq(i).Text(), ":", "")))
			props[key] = strings.ToLower(strings.TrimSpace(tds.Eq(i).Text()))
		}
	})
	return props
}

func resolveURL(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
