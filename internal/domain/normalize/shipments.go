package normalize

import (
	"strings"
	"time"
)

// UnknownSupplier is the sentinel substituted for an empty supplier name.
const UnknownSupplier = "Unknown Supplier"

// ShipmentColumns is the fixed column list and order of the canonical
// shipments table.
var ShipmentColumns = []string{
	"account_id",
	"store_id",
	"supplier_name",
	"supplier_order_id",
	"order_id",
	"sku",
	"quantity_shipped",
	"ship_datetime_utc",
	"carrier",
	"tracking_number",
	"ship_from_country",
	"ship_to_country",
}

// ShipmentLine is one canonical shipment row (one row per shipped SKU).
type ShipmentLine struct {
	AccountID       string     `json:"account_id"`
	StoreID         string     `json:"store_id"`
	SupplierName    string     `json:"supplier_name"`
	SupplierOrderID string     `json:"supplier_order_id"`
	OrderID         string     `json:"order_id"`
	SKU             string     `json:"sku"`
	QuantityShipped int        `json:"quantity_shipped"`
	ShipDatetimeUTC *time.Time `json:"ship_datetime_utc"`
	Carrier         string     `json:"carrier"`
	TrackingNumber  string     `json:"tracking_number"`
	ShipFromCountry string     `json:"ship_from_country"`
	ShipToCountry   string     `json:"ship_to_country"`
}

// TenantParams carries the tenant identifiers stamped onto every row.
type TenantParams struct {
	AccountID string
	StoreID   string
}

// ShipmentsResult pairs the canonical shipments table with its validation
// report.
type ShipmentsResult struct {
	Lines  []ShipmentLine `json:"lines"`
	Report Report         `json:"report"`
}

var shipmentRules = []ColumnRule{
	{Name: "supplier_name", Required: true},
	{Name: "supplier_order_id", Required: true},
	{Name: "sku", Required: true},
	{Name: "quantity_shipped", Required: true},
	{Name: "ship_datetime_utc", Required: true},
}

// NormalizeShipments transforms an arbitrary raw shipments table into the
// canonical shipments table. Aliasing is unconditional: there is no
// platform concept for supplier uploads. Rows missing a supplier_order_id
// or sku are dropped silently; everything else degrades to null/default.
func NormalizeShipments(raw []RawRow, p TenantParams) ShipmentsResult {
	result := ShipmentsResult{Lines: []ShipmentLine{}, Report: newReport()}

	if len(raw) == 0 {
		result.Report.add("shipments", "Input shipments dataframe is empty.")
		return result
	}

	rows := applyAliases(LowerHeaders(raw), ShipmentColumnMap)

	cols := columnSet(rows)
	for _, rule := range shipmentRules {
		cols[rule.Name] = struct{}{}
	}

	for _, row := range rows {
		line := ShipmentLine{
			AccountID:       p.AccountID,
			StoreID:         p.StoreID,
			SupplierName:    strings.TrimSpace(SafeString(row["supplier_name"])),
			SupplierOrderID: strings.TrimSpace(SafeString(row["supplier_order_id"])),
			OrderID:         strings.TrimSpace(SafeString(row["order_id"])),
			SKU:             strings.ToUpper(strings.TrimSpace(SafeString(row["sku"]))),
			QuantityShipped: ToInt(row["quantity_shipped"], 0),
			ShipDatetimeUTC: ToUTCTime(row["ship_datetime_utc"]),
			Carrier:         strings.TrimSpace(SafeString(row["carrier"])),
			TrackingNumber:  strings.TrimSpace(SafeString(row["tracking_number"])),
		}

		if line.SupplierName == "" {
			line.SupplierName = UnknownSupplier
		}

		// Unlike orders, country codes here are force-uppercased and
		// truncated unconditionally, so "United States" becomes "UN".
		// Kept verbatim as the documented behavior.
		line.ShipFromCountry = firstRunes(strings.ToUpper(strings.TrimSpace(SafeString(row["ship_from_country"]))), 2)
		line.ShipToCountry = firstRunes(strings.ToUpper(strings.TrimSpace(SafeString(row["ship_to_country"]))), 2)

		result.Lines = append(result.Lines, line)
	}

	requireColumns(&result.Report, cols, shipmentRules, "shipments")

	kept := result.Lines[:0]
	for _, line := range result.Lines {
		if line.SupplierOrderID != "" && line.SKU != "" {
			kept = append(kept, line)
		}
	}
	result.Lines = kept

	return result
}
