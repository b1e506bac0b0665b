package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shoepoint/shoepoint/internal/analytics"
)

func TestWriteOverviewCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteOverviewCSV(&buf, analytics.Overview{
		TotalRevenue:      1234.5,
		TotalOrders:       10,
		AverageOrderValue: 123.45,
		UniqueCustomers:   4,
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Equal(t, "Metric,Value", lines[0])
	require.Contains(t, buf.String(), "Total Revenue,1234.50")
	require.Contains(t, buf.String(), "Total Orders,10")
}

func TestWriteTrendCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTrendCSV(&buf, []analytics.TrendPoint{
		{Day: "2026-03-01", Orders: 2},
		{Day: "2026-03-02", Orders: 0},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "Day,Orders", lines[0])
	require.Equal(t, "2026-03-01,2", lines[1])
}

func TestWriteCustomersCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCustomersCSV(&buf, []analytics.RankedCustomer{
		{Email: "vip@shop.example", Name: "Vera", Orders: 6, TotalSpent: 900, AverageOrderValue: 150, Segment: "VIP"},
	})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "vip@shop.example,Vera,6,900.00,150.00,VIP")
}
