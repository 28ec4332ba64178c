package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const salesCSV = `product_id,product_name,category,created_at,quantity
p-1,Arabica,coffee,2024-01-01T08:00:00Z,4
p-2,Oat milk,dairy,2024-01-01 09:30:00,2
p-1,Arabica,coffee,2024-01-02,6
`

func TestReadSales_FiltersProduct(t *testing.T) {
	records, err := ReadSales(strings.NewReader(salesCSV), "p-1")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Arabica", records[0].ProductName)
	assert.Equal(t, 4, records[0].Quantity)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), records[1].Timestamp)
}

func TestReadSales_AllProducts(t *testing.T) {
	records, err := ReadSales(strings.NewReader(salesCSV), "")
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestReadSales_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"missing column", "product_id,quantity\np,1\n", `missing required column "created_at"`},
		{"bad quantity", "product_id,created_at,quantity\np,2024-01-01,many\n", "line 2: invalid quantity"},
		{"bad timestamp", "product_id,created_at,quantity\np,01/02/2024,1\n", "line 2: invalid created_at"},
		{"negative quantity", "product_id,created_at,quantity\np,2024-01-01,3\np,2024-01-02,-4\n", "line 3: negative quantity -4"},
		{"empty", "", "failed to read CSV header"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSales(strings.NewReader(tt.data), "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadInventoryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.csv")
	data := "product_id,product_name,current_stock,min_stock_threshold,price,lead_time_days\n" +
		"p-1,Arabica,100,10,2.0,5\n" +
		"p-2,Oat milk,3,10,1.5,\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	items, err := ReadInventoryFile(path)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, 100, items[0].CurrentStock)
	assert.InDelta(t, 2.0, items[0].UnitPrice, 1e-9)
	assert.Equal(t, 5, items[0].LeadTimeDays)
	assert.Equal(t, 0, items[1].LeadTimeDays)
}

func TestReadInventory_RejectsNegativeCounts(t *testing.T) {
	header := "product_id,current_stock,min_stock_threshold,price,lead_time_days\n"
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"current_stock", "p-1,-1,10,2.0,5\n", "line 3: negative current_stock -1"},
		{"min_stock_threshold", "p-1,4,-10,2.0,5\n", "line 3: negative min_stock_threshold -10"},
		{"lead_time_days", "p-1,4,10,2.0,-2\n", "line 3: negative lead_time_days -2"},
		{"bad number", "p-1,four,10,2.0,5\n", "line 3: invalid current_stock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := header + "p-0,1,1,1.0,1\n" + tt.row
			_, err := ReadInventory(strings.NewReader(data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadSalesFile_Missing(t *testing.T) {
	_, err := ReadSalesFile(filepath.Join(t.TempDir(), "nope.csv"), "")
	assert.Error(t, err)
}
