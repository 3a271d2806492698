package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		href     string
		expected string
		found    bool
	}{
		{
			name:     "relative detail link",
			href:     "/goods/GoodsDetail.jsp?i_code=12345678",
			expected: "12345678",
			found:    true,
		},
		{
			name:     "absolute detail link",
			href:     "https://www.momoshop.com.tw/goods/GoodsDetail.jsp?i_code=42&str_category_code=1",
			expected: "42",
			found:    true,
		},
		{
			name:  "wrong parameter name",
			href:  "/GoodsDetail.jsp?no_code=123",
			found: false,
		},
		{
			name:  "no query at all",
			href:  "/goods/GoodsDetail.jsp",
			found: false,
		},
		{
			name:  "empty href",
			href:  "",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, found := ExtractIdentifier(tt.href)

			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.expected, id)
		})
	}
}

const twoProductPage = `
<html><body>
<ul>
	<li>
		<a href="/goods/GoodsDetail.jsp?i_code=111" title="輝葉 HY-111 按摩椅"><img alt=""></a>
		<span class="price">NT$39,800</span>
		<span class="totalSales">總銷量>120</span>
	</li>
	<li>
		<a href="https://www.momoshop.com.tw/goods/GoodsDetail.jsp?i_code=222" title="">
			<img alt="輝葉 溫感按摩枕">
		</a>
		<span class="money">1,280</span>
	</li>
</ul>
</body></html>`

func TestCollectRecords(t *testing.T) {
	p := NewMomoParser()

	records, skipped, err := p.CollectRecords(twoProductPage, "輝葉")
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "輝葉", first.Brand)
	assert.Equal(t, "輝葉 HY-111 按摩椅", first.Name)
	assert.Equal(t, "HY-111", first.ModelNumber)
	assert.Equal(t, "39800", first.Price)
	assert.Equal(t, "120", first.SalesCount)
	assert.Equal(t, SiteOrigin+"/goods/GoodsDetail.jsp?i_code=111", first.ProductURL)

	second := records[1]
	assert.Equal(t, "輝葉 溫感按摩枕", second.Name)
	assert.Equal(t, "", second.ModelNumber)
	assert.Equal(t, "1280", second.Price)
	assert.Equal(t, "0", second.SalesCount)
	assert.Equal(t, "https://www.momoshop.com.tw/goods/GoodsDetail.jsp?i_code=222", second.ProductURL)
}

func TestCollectRecordsSkipsMalformedAnchors(t *testing.T) {
	html := `
	<html><body>
	<li><a href="/GoodsDetail.jsp?no_code=1" title="not a product link">x</a></li>
	<li><a href="/GoodsDetail.jsp?i_code=333"></a></li>
	<li><a href="/GoodsDetail.jsp?i_code=444" title="Valid Product"></a></li>
	</body></html>`

	p := NewMomoParser()
	records, skipped, err := p.CollectRecords(html, "brand")
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "Valid Product", records[0].Name)
	assert.Equal(t, 2, skipped)
}

func TestCollectRecordsOnlyInvalidAnchors(t *testing.T) {
	html := `
	<html><body>
	<li><a href="/GoodsDetail.jsp?i_code=1"></a></li>
	<li><a href="/GoodsDetail.jsp?i_code=2" title="  "></a></li>
	</body></html>`

	p := NewMomoParser()
	records, skipped, err := p.CollectRecords(html, "brand")
	require.NoError(t, err)

	assert.Empty(t, records)
	assert.Equal(t, 2, skipped)
}

func TestCollectRecordsKeepsSamePageDuplicates(t *testing.T) {
	html := `
	<html><body>
	<li><a href="/GoodsDetail.jsp?i_code=555" title="First Tile"></a></li>
	<li><a href="/GoodsDetail.jsp?i_code=555" title="Second Tile"></a></li>
	</body></html>`

	p := NewMomoParser()
	records, _, err := p.CollectRecords(html, "brand")
	require.NoError(t, err)

	// Dedup is the accumulator's job, the page scan reports every anchor.
	require.Len(t, records, 2)
	assert.Equal(t, "First Tile", records[0].Name)
	assert.Equal(t, "Second Tile", records[1].Name)
}

func TestCollectRecordsNoAnchors(t *testing.T) {
	p := NewMomoParser()

	records, skipped, err := p.CollectRecords("<html><body><p>查無資料</p></body></html>", "brand")
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, skipped)
}
