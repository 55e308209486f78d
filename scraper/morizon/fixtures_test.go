package morizon

import (
	"fmt"
	"strings"
)

// listingPageHTML renders a results page with rows listings (the last one
// being the promoted slot) and a pagination footer for totalPages.
func listingPageHTML(page, rows, totalPages int, hrefPrefix string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="mainBox"><section class="results">`)
	for i := 1; i <= rows; i++ {
		fmt.Fprintf(&b, `
<div class="single-result">
  <section>
    <header>
      <a href=" %s/oferta/p%d-r%d ">link</a>
      <h2 class="single-result__title">
        Mieszkanie %d/%d
      </h2>
    </header>
    <div class="description"><p>  Opis oferty %d  </p></div>
  </section>
</div>`, hrefPrefix, page, i, page, i, i)
	}
	b.WriteString(`</section><footer>`)
	if totalPages > 1 {
		b.WriteString(`<ul>`)
		for p := 1; p <= totalPages; p++ {
			fmt.Fprintf(&b, `<li><a href="?page=%d">%d</a></li>`, p, p)
		}
		b.WriteString(`<li><a href="?page=2">następna</a></li></ul>`)
	}
	b.WriteString(`</footer></div></body></html>`)
	return b.String()
}

type detailOpts struct {
	noPricePerM2 bool
	noBuilding   bool
	noMap        bool
	noParams     bool
	floor        string
}

func detailPageHTML(o detailOpts) string {
	floor := o.floor
	if floor == "" {
		floor = "2/5"
	}

	var params string
	if !o.noParams {
		params = `<ul class="paramIcons">
  <li class="paramIconPrice">Cena <b>450 000 zł</b></li>`
		if !o.noPricePerM2 {
			params += `
  <li class="paramIconPriceM2">Cena za m² <b>12 857,14 zł</b></li>`
		}
		params += `
  <li class="paramIconLivingArea">Powierzchnia <b>35 m²</b></li>
  <li class="paramIconNumberOfRooms">Pokoje <b>2</b></li>
</ul>`
	}

	building := `<table>
  <tr><th>Rok budowy:</th><td>2015</td></tr>
  <tr><th>Typ budynku:</th><td>Blok</td></tr>
</table>`
	if o.noBuilding {
		building = ""
	}

	mapDiv := `<div id="property-map" data-lat="54,3512" data-lng="18,5983"></div>`
	if o.noMap {
		mapDiv = ""
	}

	return fmt.Sprintf(`<html><body><div class="contentBox"><article>
<div class="summaryLocation">
  Gdańsk,
  Jasień,
  Potęgowska
</div>
%s
<section class="propertyContent">
  <section class="propertyParams">
    <section>
      <table>
        <tr><th>Opublikowano:</th><td>3 dni temu</td></tr>
        <tr><th>Piętro:</th><td>%s</td></tr>
        <tr><th>Liczba pięter:</th><td>5</td></tr>
      </table>
      %s
    </section>
  </section>
</section>
%s
</article></div></body></html>`, params, floor, building, mapDiv)
}
