package services

import (
	"fmt"
	"sort"
	"strings"

	"morizon-scraper/models"
	"morizon-scraper/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(results []*models.Result) *models.InsightReport {
	report := &models.InsightReport{
		ListingsByRooms: make(map[int]int),
	}

	if len(results) == 0 {
		return report
	}

	report.TotalListings = len(results)

	var priced []*models.Result
	var perM2 []*models.Result

	for _, r := range results {
		if r.Title != nil {
			report.EnrichedListings++
		}
		if r.Lat != nil && r.Lng != nil {
			report.GeolocatedListings++
		}
		if r.Price != nil && *r.Price > 0 {
			priced = append(priced, r)
		}
		if r.PricePerM2 != nil && *r.PricePerM2 > 0 {
			perM2 = append(perM2, r)
		}
		if r.Rooms != nil {
			report.ListingsByRooms[*r.Rooms]++
		}
	}

	// Price stats (only listings with a positive price)
	if len(priced) > 0 {
		report.MinPrice = *priced[0].Price
		report.MaxPrice = *priced[0].Price
		var total float64
		for _, r := range priced {
			p := *r.Price
			total += p
			if p < report.MinPrice {
				report.MinPrice = p
			}
			if p > report.MaxPrice {
				report.MaxPrice = p
			}
		}
		report.AveragePrice = round2(total / float64(len(priced)))
	}

	if len(perM2) > 0 {
		var total float64
		for _, r := range perM2 {
			total += *r.PricePerM2
		}
		report.AveragePricePerM2 = round2(total / float64(len(perM2)))
	}

	// Top 5 cheapest per m²
	sort.SliceStable(perM2, func(i, j int) bool {
		return *perM2[i].PricePerM2 < *perM2[j].PricePerM2
	})
	if len(perM2) > 5 {
		report.CheapestPerM2 = perM2[:5]
	} else {
		report.CheapestPerM2 = perM2
	}

	return report
}

func (s *InsightService) Print(r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  MORIZON CRAWL SUMMARY\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Listings discovered : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Printf("  Listings enriched   : \033[1m%d\033[0m\n", r.EnrichedListings)
	fmt.Printf("  With coordinates    : \033[1m%d\033[0m\n", r.GeolocatedListings)
	fmt.Println()

	fmt.Printf("\033[1;33m  Prices\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.AveragePrice > 0 {
		fmt.Printf("  Average price : \033[1;32m%.2f zł\033[0m\n", r.AveragePrice)
		fmt.Printf("  Minimum price : \033[1;32m%.2f zł\033[0m\n", r.MinPrice)
		fmt.Printf("  Maximum price : \033[1;32m%.2f zł\033[0m\n", r.MaxPrice)
	} else {
		fmt.Printf("  No price data available\n")
	}
	if r.AveragePricePerM2 > 0 {
		fmt.Printf("  Average per m²: \033[1;32m%.2f zł\033[0m\n", r.AveragePricePerM2)
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Cheapest per m²\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.CheapestPerM2) == 0 {
		fmt.Printf("  No per-m² prices found\n")
	} else {
		for i, l := range r.CheapestPerM2 {
			fmt.Printf("  \033[1m%d.\033[0m %-40s \033[1;32m%.2f zł/m²\033[0m\n",
				i+1, truncate(displayTitle(l), 38), *l.PricePerM2)
		}
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Listings by Rooms\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.ListingsByRooms) == 0 {
		fmt.Printf("  No room data\n")
	} else {
		rooms := make([]int, 0, len(r.ListingsByRooms))
		for n := range r.ListingsByRooms {
			rooms = append(rooms, n)
		}
		sort.Ints(rooms)
		for _, n := range rooms {
			cnt := r.ListingsByRooms[n]
			fmt.Printf("  %2d rooms %s (%d)\n", n, strings.Repeat("█", cnt), cnt)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func displayTitle(r *models.Result) string {
	if r.Title != nil && *r.Title != "" {
		return *r.Title
	}
	return r.ShortTitle
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
