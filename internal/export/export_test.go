package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/momoscout/momo-brand-scraper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowsFixedColumnOrder(t *testing.T) {
	records := []models.ProductRecord{
		{
			Brand:       "輝葉",
			Name:        "HY-111 按摩椅",
			ModelNumber: "HY-111",
			Price:       "39800",
			SalesCount:  "120",
			ProductURL:  "https://www.momoshop.com.tw/goods/GoodsDetail.jsp?i_code=111",
		},
	}

	rows := Rows(records)

	require.Len(t, rows, 1)
	assert.Equal(t, []string{
		"輝葉",
		"HY-111 按摩椅",
		"HY-111",
		"39800",
		"120",
		"https://www.momoshop.com.tw/goods/GoodsDetail.jsp?i_code=111",
	}, rows[0])
}

func TestWriteCSV(t *testing.T) {
	records := []models.ProductRecord{
		{Brand: "X", Name: "A", Price: "0", SalesCount: "0", ProductURL: "u1"},
		{Brand: "X", Name: "B", ModelNumber: "AB-1", Price: "100", SalesCount: "5", ProductURL: "u2"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	expected := "brand,name,model_number,price,sales_count,product_url\n" +
		"X,A,,0,0,u1\n" +
		"X,B,AB-1,100,5,u2\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	assert.Equal(t, "brand,name,model_number,price,sales_count,product_url\n", buf.String())
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 5, 9, 0, time.UTC)

	assert.Equal(t, "輝葉_momo_20260830_140509.csv", Filename("輝葉", now))
}
