package parser

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anchorFromHTML(t *testing.T, html string) *goquery.Selection {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	anchor := doc.Find("a").First()
	require.NotZero(t, anchor.Length(), "fixture must contain an anchor")
	return anchor
}

func TestExtractFieldsNameFallback(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
		valid    bool
	}{
		{
			name:     "anchor title wins",
			html:     `<a href="#" title="Massage Chair A1"><img alt="ignored"></a>`,
			expected: "Massage Chair A1",
			valid:    true,
		},
		{
			name:     "empty title falls back to image alt",
			html:     `<a href="#" title=""><img alt="Widget X"></a>`,
			expected: "Widget X",
			valid:    true,
		},
		{
			name:     "image title when alt is blank",
			html:     `<a href="#"><img alt="  " title="Widget Y"></a>`,
			expected: "Widget Y",
			valid:    true,
		},
		{
			name:     "prdName text when no image",
			html:     `<a href="#"><span class="prdName"> Foot Massager </span></a>`,
			expected: "Foot Massager",
			valid:    true,
		},
		{
			name:     "goodsName as second class variant",
			html:     `<a href="#"><span class="goodsName">Neck Massager</span></a>`,
			expected: "Neck Massager",
			valid:    true,
		},
		{
			name:     "prdName preferred over goodsName",
			html:     `<a href="#"><span class="prdName">First</span><span class="goodsName">Second</span></a>`,
			expected: "First",
			valid:    true,
		},
		{
			name:  "no name anywhere is invalid",
			html:  `<a href="#"><span class="other">text</span></a>`,
			valid: false,
		},
		{
			name:  "whitespace-only title with no fallbacks is invalid",
			html:  `<a href="#" title="   "></a>`,
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, ok := ExtractFields(anchorFromHTML(t, tt.html))

			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.expected, fields.Name)
			}
		})
	}
}

func TestExtractFieldsModelNumber(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{"uppercase model", "ABC-123 Blender", "ABC-123"},
		{"no model", "Blender 3000", ""},
		{"lowercase matches case-insensitively", "hy-5082 massage chair", "hy-5082"},
		{"model in the middle", "輝葉 HY-3067A 按摩椅", "HY-3067A"},
		{"single letter prefix does not match", "A-123 thing", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := `<a href="#" title="` + tt.title + `"></a>`
			fields, ok := ExtractFields(anchorFromHTML(t, html))

			require.True(t, ok)
			assert.Equal(t, tt.expected, fields.ModelNumber)
		})
	}
}

func TestExtractFieldsPrice(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "price class wins",
			html:     `<li><a href="#" title="X"></a><span class="price">NT$1,299</span><b>999</b></li>`,
			expected: "1299",
		},
		{
			name:     "money class when no price class",
			html:     `<li><a href="#" title="X"></a><span class="money">$2,500</span></li>`,
			expected: "2500",
		},
		{
			name:     "bold element as last resort",
			html:     `<li><a href="#" title="X"></a><b>888</b></li>`,
			expected: "888",
		},
		{
			name:     "found element with no digits strips to empty",
			html:     `<li><a href="#" title="X"></a><span class="price">特價中</span></li>`,
			expected: "",
		},
		{
			name:     "no price element keeps default",
			html:     `<li><a href="#" title="X"></a></li>`,
			expected: "0",
		},
		{
			name:     "no li container keeps default",
			html:     `<div><a href="#" title="X"></a><span class="price">123</span></div>`,
			expected: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, ok := ExtractFields(anchorFromHTML(t, tt.html))

			require.True(t, ok)
			assert.Equal(t, tt.expected, fields.Price)
		})
	}
}

func TestExtractFieldsSalesCount(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "label and bracket stripped",
			html:     `<li><a href="#" title="X"></a><span class="totalSales">總銷量>1500</span></li>`,
			expected: "1500",
		},
		{
			name:     "plain count",
			html:     `<li><a href="#" title="X"></a><span class="totalSales"> 42 </span></li>`,
			expected: "42",
		},
		{
			name:     "missing element keeps default",
			html:     `<li><a href="#" title="X"></a></li>`,
			expected: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, ok := ExtractFields(anchorFromHTML(t, tt.html))

			require.True(t, ok)
			assert.Equal(t, tt.expected, fields.SalesCount)
		})
	}
}
