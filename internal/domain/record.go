package domain

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderEvent is one raw order-event row as delivered by the kiosk feed. Values
// are loosely typed (string, number, bool or absent) and field presence is not
// guaranteed, so all reads go through the typed accessors below. Events are
// never mutated after ingest.
type OrderEvent map[string]any

// fieldColumns maps a semantic field name to the raw upstream column name.
// Upstream column renames only require touching this table.
var fieldColumns = map[string]string{
	"price":             "Price",
	"quantity":          "Quantity",
	"date":              "Date",
	"time":              "Time",
	"timestamp":         "Timestamp",
	"approxLocation":    "ApproxLocation",
	"language":          "Language",
	"sweetness":         "Sweetness",
	"promotionName":     "PromotionName",
	"promotionDiscount": "PromotionDiscount",
	"promotionUsed":     "PromotionUsed",
	"like":              "Like",
	"notLike":           "NotLike",
	"improve":           "Improve",
	"action":            "Action",
	"browserLanguage":   "BrowserLanguage",
	"storeZone":         "StoreZone",
	"scanLocation":      "ScanLocation",
	"category":          "Category",
	"brand":             "Brand",
	"commonNameTH":      "CommonNameTH",
	"nameTH":            "NameTH",
}

func (e OrderEvent) raw(field string) (any, bool) {
	col, ok := fieldColumns[field]
	if !ok {
		return nil, false
	}
	v, ok := e[col]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (e OrderEvent) str(field string) string {
	v, ok := e.raw(field)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

func (e OrderEvent) dec(field string) decimal.Decimal {
	v, ok := e.raw(field)
	if !ok {
		return decimal.Zero
	}
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n)
	case int:
		return decimal.NewFromInt(int64(n))
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Zero
		}
		return d
	}
	return decimal.Zero
}

func (e OrderEvent) truthy(field string) bool {
	v, ok := e.raw(field)
	if !ok {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b != 0
	case int:
		return b != 0
	case string:
		s := strings.ToLower(strings.TrimSpace(b))
		return s == "true" || s == "1" || s == "yes"
	}
	return false
}

// Price returns the order line price, zero when missing or malformed.
func (e OrderEvent) Price() decimal.Decimal { return e.dec("price") }

// Quantity returns the unit count for the line, defaulting to 1 so every row
// contributes at least one unit to totals.
func (e OrderEvent) Quantity() int {
	q := e.dec("quantity")
	if q.IsPositive() {
		return int(q.IntPart())
	}
	return 1
}

func (e OrderEvent) DateField() string      { return e.str("date") }
func (e OrderEvent) TimeField() string      { return e.str("time") }
func (e OrderEvent) TimestampField() string { return e.str("timestamp") }

func (e OrderEvent) ApproxLocation() string  { return e.str("approxLocation") }
func (e OrderEvent) Language() string        { return e.str("language") }
func (e OrderEvent) Sweetness() string       { return e.str("sweetness") }
func (e OrderEvent) Action() string          { return e.str("action") }
func (e OrderEvent) BrowserLanguage() string { return e.str("browserLanguage") }
func (e OrderEvent) StoreZone() string       { return e.str("storeZone") }
func (e OrderEvent) ScanLocation() string    { return e.str("scanLocation") }
func (e OrderEvent) Category() string        { return e.str("category") }
func (e OrderEvent) Brand() string           { return e.str("brand") }
func (e OrderEvent) Improve() string         { return e.str("improve") }

func (e OrderEvent) Liked() bool    { return e.truthy("like") }
func (e OrderEvent) Disliked() bool { return e.truthy("notLike") }

func (e OrderEvent) PromotionName() string              { return e.str("promotionName") }
func (e OrderEvent) PromotionDiscount() decimal.Decimal { return e.dec("promotionDiscount") }
func (e OrderEvent) PromotionUsedFlag() bool            { return e.truthy("promotionUsed") }

// ProductName prefers the common Thai display name, falling back to the full
// Thai name.
func (e OrderEvent) ProductName() string {
	if name := e.str("commonNameTH"); name != "" {
		return name
	}
	return e.str("nameTH")
}
