package application

import (
	"fmt"
	"math"
	"sort"

	"github.com/davicafu/carexplorer/internal/car/domain"
)

const histogramBins = 10

type BrandPrice struct {
	Brand    string  `json:"brand"`
	Count    int     `json:"count"`
	AvgPrice float64 `json:"avg_price"`
}

type HistogramBin struct {
	PriceRange string  `json:"price_range"`
	BinStart   float64 `json:"bin_start"`
	BinEnd     float64 `json:"bin_end"`
	Frequency  int     `json:"frequency"`
}

type ScatterPoint struct {
	Mileage int     `json:"mileage"`
	Price   float64 `json:"price"`
	Brand   string  `json:"brand"`
}

// Insights series de los gráficos del dashboard calculadas sobre el snapshot.
type Insights struct {
	Stats          domain.DatasetStats `json:"stats"`
	BrandPrices    []BrandPrice        `json:"brand_prices"`
	PriceHistogram []HistogramBin      `json:"price_histogram"`
	MileagePrice   []ScatterPoint      `json:"mileage_price"`
}

// ComputeStats mismo formato que GET /dataset/stats. std muestral (n-1).
func ComputeStats(records []domain.CarRecord) domain.DatasetStats {
	stats := domain.DatasetStats{
		TotalRecords:      len(records),
		BrandDistribution: map[string]int{},
	}
	if len(records) == 0 {
		return stats
	}

	prices := make([]float64, len(records))
	sum := 0.0
	stats.YearRange = domain.YearRange{Min: records[0].ModelYear, Max: records[0].ModelYear}
	for i, r := range records {
		prices[i] = r.Price
		sum += r.Price
		stats.BrandDistribution[r.Brand]++
		if r.ModelYear < stats.YearRange.Min {
			stats.YearRange.Min = r.ModelYear
		}
		if r.ModelYear > stats.YearRange.Max {
			stats.YearRange.Max = r.ModelYear
		}
	}
	sort.Float64s(prices)

	n := len(prices)
	mean := sum / float64(n)
	median := prices[n/2]
	if n%2 == 0 {
		median = (prices[n/2-1] + prices[n/2]) / 2
	}

	std := 0.0
	if n > 1 {
		sq := 0.0
		for _, p := range prices {
			sq += (p - mean) * (p - mean)
		}
		std = math.Sqrt(sq / float64(n-1))
	}

	stats.PriceStats = domain.PriceStats{
		Mean:   mean,
		Median: median,
		Min:    prices[0],
		Max:    prices[n-1],
		Std:    std,
	}
	return stats
}

// ComputeInsights estadísticas y series para los gráficos.
func ComputeInsights(records []domain.CarRecord) Insights {
	stats := ComputeStats(records)
	return Insights{
		Stats:          stats,
		BrandPrices:    brandPrices(records),
		PriceHistogram: priceHistogram(records, stats.PriceStats),
		MileagePrice:   mileagePrice(records),
	}
}

// brandPrices precio medio por marca, de mayor a menor.
func brandPrices(records []domain.CarRecord) []BrandPrice {
	type acc struct {
		count int
		sum   float64
	}
	byBrand := map[string]*acc{}
	for _, r := range records {
		a, ok := byBrand[r.Brand]
		if !ok {
			a = &acc{}
			byBrand[r.Brand] = a
		}
		a.count++
		a.sum += r.Price
	}

	out := make([]BrandPrice, 0, len(byBrand))
	for brand, a := range byBrand {
		out = append(out, BrandPrice{Brand: brand, Count: a.count, AvgPrice: a.sum / float64(a.count)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgPrice != out[j].AvgPrice {
			return out[i].AvgPrice > out[j].AvgPrice
		}
		return out[i].Brand < out[j].Brand
	})
	return out
}

// priceHistogram 10 intervalos iguales entre min y max; el máximo cae en el último.
func priceHistogram(records []domain.CarRecord, ps domain.PriceStats) []HistogramBin {
	if len(records) == 0 {
		return []HistogramBin{}
	}

	width := (ps.Max - ps.Min) / histogramBins
	bins := make([]HistogramBin, histogramBins)
	for i := range bins {
		start := ps.Min + float64(i)*width
		end := start + width
		bins[i] = HistogramBin{
			PriceRange: fmt.Sprintf("$%dk-%dk", int(math.Round(start/1000)), int(math.Round(end/1000))),
			BinStart:   start,
			BinEnd:     end,
		}
	}

	for _, r := range records {
		idx := 0
		if width > 0 {
			idx = int((r.Price - ps.Min) / width)
		}
		if idx >= histogramBins {
			idx = histogramBins - 1
		}
		if idx < 0 {
			idx = 0
		}
		bins[idx].Frequency++
	}
	return bins
}

func mileagePrice(records []domain.CarRecord) []ScatterPoint {
	out := make([]ScatterPoint, len(records))
	for i, r := range records {
		out[i] = ScatterPoint{Mileage: r.Mileage, Price: r.Price, Brand: r.Brand}
	}
	return out
}
