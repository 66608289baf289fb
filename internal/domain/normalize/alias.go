package normalize

import "strings"

// shopifySignals are lowercase header names whose presence indicates a
// Shopify order export. Three or more matches count as a positive:
// tolerant of partial column renaming or omission, while a single
// coincidentally named column is not enough.
var shopifySignals = map[string]struct{}{
	"name":               {},
	"created at":         {},
	"lineitem sku":       {},
	"lineitem quantity":  {},
	"variant sku":        {},
	"shipping country":   {},
	"shipping province":  {},
	"financial status":   {},
	"fulfillment status": {},
}

// ShopifyColumnMap maps lowercase Shopify export headers to canonical
// order fields. Several source headers map to the same canonical field;
// when an upload carries more than one of them the surviving value is the
// last one applied (known ambiguity, kept as-is).
var ShopifyColumnMap = map[string]string{
	// IDs
	"name":     "order_id",
	"order id": "order_id",

	// time
	"created at": "order_datetime_utc",

	// sku options
	"lineitem sku":  "sku",
	"variant sku":   "sku",
	"lineitem name": "sku", // fallback if no SKU

	// quantity
	"lineitem quantity": "quantity_ordered",
	"quantity":          "quantity_ordered",

	// geo
	"shipping country":  "customer_country",
	"shipping province": "customer_state",

	// financials
	"total":    "order_revenue",
	"subtotal": "order_revenue",
	"currency": "currency",

	// shipping
	"shipping method":     "shipping_method",
	"shipping line title": "shipping_method",
}

// ShipmentColumnMap maps the messy header variants suppliers upload to
// canonical shipment fields. Applied unconditionally; shipments have no
// platform concept.
var ShipmentColumnMap = map[string]string{
	"supplier":      "supplier_name",
	"supplier name": "supplier_name",
	"vendor":        "supplier_name",

	"supplier order id": "supplier_order_id",
	"supplier_order_id": "supplier_order_id",
	"po":                "supplier_order_id",
	"purchase order":    "supplier_order_id",

	"order id":         "order_id",
	"order_id":         "order_id",
	"shopify order id": "order_id",
	"name":             "order_id", // sometimes they paste the Shopify order name

	"sku":          "sku",
	"item sku":     "sku",
	"lineitem sku": "sku",

	"quantity":         "quantity_shipped",
	"qty":              "quantity_shipped",
	"quantity shipped": "quantity_shipped",

	"ship date":         "ship_datetime_utc",
	"shipped at":        "ship_datetime_utc",
	"ship_datetime_utc": "ship_datetime_utc",
	"shipment date":     "ship_datetime_utc",

	"carrier":         "carrier",
	"tracking":        "tracking_number",
	"tracking number": "tracking_number",
	"tracking_number": "tracking_number",

	"from country":      "ship_from_country",
	"ship from country": "ship_from_country",
	"to country":        "ship_to_country",
	"ship to country":   "ship_to_country",
}

// TrackingColumnMap maps carrier export header variants to canonical
// tracking fields. Applied unconditionally.
var TrackingColumnMap = map[string]string{
	"carrier":         "carrier",
	"tracking number": "tracking_number",
	"tracking":        "tracking_number",
	"tracking_number": "tracking_number",

	"order id":          "order_id",
	"supplier order id": "supplier_order_id",

	"status":              "tracking_status_raw",
	"tracking status":     "tracking_status_raw",
	"tracking_status_raw": "tracking_status_raw",

	"last update":     "last_update_utc",
	"last updated":    "last_update_utc",
	"last_update_utc": "last_update_utc",

	"delivered at":      "delivery_date_utc",
	"delivered":         "delivery_date_utc",
	"delivery date":     "delivery_date_utc",
	"delivery_date_utc": "delivery_date_utc",

	"exception":          "delivery_exception",
	"delivery exception": "delivery_exception",
}

// DetectShopifyOrders scores the raw table's header set against the
// Shopify signal set. Headers are trimmed and lowercased before scoring.
func DetectShopifyOrders(raw []RawRow) bool {
	score := 0
	for col := range columnSet(LowerHeaders(raw)) {
		if _, ok := shopifySignals[col]; ok {
			score++
		}
	}
	return score >= 3
}

// IsShopifyHint reports whether the caller-supplied platform hint forces
// Shopify handling regardless of the detection score. The match is wider
// than a lowercase string compare: surrounding whitespace is trimmed and
// the fold is full case-insensitive, so " Shopify " counts.
func IsShopifyHint(hint string) bool {
	return strings.EqualFold(strings.TrimSpace(hint), "shopify")
}

// applyAliases renames every header that has an entry in table to its
// canonical name, leaving unknown headers untouched.
func applyAliases(rows []RawRow, table map[string]string) []RawRow {
	return renameHeaders(rows, func(header string) string {
		if canonical, ok := table[header]; ok {
			return canonical
		}
		return header
	})
}
