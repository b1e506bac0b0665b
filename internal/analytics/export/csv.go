// Package export serialises analytics views to CSV for back-office download.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/shoepoint/shoepoint/internal/analytics"
)

// WriteOverviewCSV serialises the headline metrics to a CSV representation.
func WriteOverviewCSV(w io.Writer, ov analytics.Overview) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Metric", "Value"}); err != nil {
		return err
	}
	records := [][]string{
		{"Total Revenue", formatFloat(ov.TotalRevenue)},
		{"Total Orders", strconv.Itoa(ov.TotalOrders)},
		{"Average Order Value", formatFloat(ov.AverageOrderValue)},
		{"Unique Customers", strconv.Itoa(ov.UniqueCustomers)},
		{"Revenue Growth %", formatFloat(ov.RevenueGrowthPct)},
		{"Orders Last 30 Days", strconv.Itoa(ov.RecentOrders)},
		{"Orders Prior 30 Days", strconv.Itoa(ov.PreviousOrders)},
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteTrendCSV emits the daily order trend as CSV.
func WriteTrendCSV(w io.Writer, points []analytics.TrendPoint) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Day", "Orders"}); err != nil {
		return err
	}
	for _, point := range points {
		if err := writer.Write([]string{point.Day, strconv.Itoa(point.Orders)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteRankedItemsCSV prints a product or category ranking to CSV.
func WriteRankedItemsCSV(w io.Writer, ranked []analytics.RankedItem) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Name", "Quantity", "Revenue", "Orders"}); err != nil {
		return err
	}
	for _, item := range ranked {
		if err := writer.Write([]string{
			item.Name,
			strconv.Itoa(item.Quantity),
			formatFloat(item.Revenue),
			strconv.Itoa(item.Orders),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCustomersCSV prints the customer ranking to CSV.
func WriteCustomersCSV(w io.Writer, ranked []analytics.RankedCustomer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Email", "Name", "Orders", "Total Spent", "Average Order Value", "Segment"}); err != nil {
		return err
	}
	for _, c := range ranked {
		if err := writer.Write([]string{
			c.Email,
			c.Name,
			strconv.Itoa(c.Orders),
			formatFloat(c.TotalSpent),
			formatFloat(c.AverageOrderValue),
			string(c.Segment),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
