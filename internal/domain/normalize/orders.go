package normalize

import (
	"strings"
	"time"
	"unicode/utf8"
)

// OrderColumns is the fixed column list and order of the canonical orders
// table. Output always exposes exactly these columns regardless of what
// the raw input contained.
var OrderColumns = []string{
	"account_id",
	"store_id",
	"platform",
	"order_id",
	"order_datetime_utc",
	"sku",
	"quantity_ordered",
	"customer_country",
	"customer_state",
	"order_revenue",
	"currency",
	"shipping_method",
	"promised_ship_days",
}

// OrderLine is one canonical order row (one row per ordered SKU).
type OrderLine struct {
	AccountID        string     `json:"account_id"`
	StoreID          string     `json:"store_id"`
	Platform         string     `json:"platform"`
	OrderID          string     `json:"order_id"`
	OrderDatetimeUTC *time.Time `json:"order_datetime_utc"`
	SKU              string     `json:"sku"`
	QuantityOrdered  int        `json:"quantity_ordered"`
	CustomerCountry  string     `json:"customer_country"`
	CustomerState    string     `json:"customer_state"`
	OrderRevenue     *float64   `json:"order_revenue"`
	Currency         string     `json:"currency"`
	ShippingMethod   string     `json:"shipping_method"`
	PromisedShipDays int        `json:"promised_ship_days"`
}

// OrdersParams carries the tenant identifiers and run defaults for one
// orders normalization.
type OrdersParams struct {
	AccountID               string
	StoreID                 string
	PlatformHint            string
	DefaultCurrency         string
	DefaultPromisedShipDays int
}

// OrdersResult pairs the canonical orders table with its validation report.
type OrdersResult struct {
	Lines  []OrderLine `json:"lines"`
	Report Report      `json:"report"`
}

var orderRules = []ColumnRule{
	{Name: "order_id", Required: true},
	{Name: "order_datetime_utc", Required: true},
	{Name: "sku", Required: true},
	{Name: "quantity_ordered", Required: true},
	{Name: "customer_country", Required: true},
}

// NormalizeOrders transforms an arbitrary raw orders table into the
// canonical orders table. It never returns an error: malformed values
// degrade to null/default, and only rows missing an order_id or sku are
// dropped. The input rows are never mutated.
func NormalizeOrders(raw []RawRow, p OrdersParams) OrdersResult {
	result := OrdersResult{Lines: []OrderLine{}, Report: newReport()}

	if len(raw) == 0 {
		result.Report.add("orders", "Input orders dataframe is empty.")
		return result
	}

	rows := LowerHeaders(raw)

	isShopify := DetectShopifyOrders(raw) || IsShopifyHint(p.PlatformHint)
	if isShopify {
		rows = applyAliases(rows, ShopifyColumnMap)
	}

	// Missing required fields are synthesized as null columns so that the
	// output schema is complete even for sparse inputs.
	cols := columnSet(rows)
	for _, rule := range orderRules {
		cols[rule.Name] = struct{}{}
	}

	platform := "other"
	if isShopify {
		platform = "shopify"
	} else if p.PlatformHint != "" {
		platform = p.PlatformHint
	}

	_, hasRevenue := cols["order_revenue"]
	_, hasCurrency := cols["currency"]
	_, hasShipping := cols["shipping_method"]

	for _, row := range rows {
		line := OrderLine{
			AccountID:        p.AccountID,
			StoreID:          p.StoreID,
			Platform:         platform,
			OrderID:          strings.TrimSpace(SafeString(row["order_id"])),
			OrderDatetimeUTC: ToUTCTime(row["order_datetime_utc"]),
			SKU:              strings.ToUpper(strings.TrimSpace(SafeString(row["sku"]))),
			QuantityOrdered:  ToInt(row["quantity_ordered"], 1),
			CustomerState:    strings.TrimSpace(SafeString(row["customer_state"])),
			PromisedShipDays: p.DefaultPromisedShipDays,
		}

		if line.QuantityOrdered <= 0 {
			line.QuantityOrdered = 1
		}

		// Full country names are kept as-is only when shorter than two
		// characters; otherwise the value is truncated to its first two.
		// ISO mapping is a possible later refinement; the truncation rule
		// is the documented contract.
		country := strings.ToUpper(strings.TrimSpace(SafeString(row["customer_country"])))
		if utf8.RuneCountInString(country) >= 2 {
			country = firstRunes(country, 2)
		}
		line.CustomerCountry = country

		if hasRevenue {
			line.OrderRevenue = ToFloat(row["order_revenue"])
		}
		if hasCurrency {
			line.Currency = strings.ToUpper(strings.TrimSpace(SafeString(row["currency"])))
		} else {
			line.Currency = p.DefaultCurrency
		}
		if hasShipping {
			line.ShippingMethod = strings.TrimSpace(SafeString(row["shipping_method"]))
		}

		result.Lines = append(result.Lines, line)
	}

	requireColumns(&result.Report, cols, orderRules, "orders")

	// Drop rows missing a mandatory business key. The removal is silent
	// and never shows up in the validation report.
	kept := result.Lines[:0]
	for _, line := range result.Lines {
		if line.OrderID != "" && line.SKU != "" {
			kept = append(kept, line)
		}
	}
	result.Lines = kept

	return result
}
