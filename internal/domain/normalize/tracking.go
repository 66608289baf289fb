package normalize

import (
	"strings"
	"time"
)

// TrackingColumns is the fixed column list and order of the canonical
// tracking table.
var TrackingColumns = []string{
	"account_id",
	"store_id",
	"carrier",
	"tracking_number",
	"order_id",
	"supplier_order_id",
	"tracking_status_raw",
	"tracking_status_normalized",
	"last_update_utc",
	"delivery_date_utc",
	"delivery_exception",
}

// TrackingEvent is one canonical tracking row.
type TrackingEvent struct {
	AccountID                string     `json:"account_id"`
	StoreID                  string     `json:"store_id"`
	Carrier                  string     `json:"carrier"`
	TrackingNumber           string     `json:"tracking_number"`
	OrderID                  string     `json:"order_id"`
	SupplierOrderID          string     `json:"supplier_order_id"`
	TrackingStatusRaw        string     `json:"tracking_status_raw"`
	TrackingStatusNormalized string     `json:"tracking_status_normalized"`
	LastUpdateUTC            *time.Time `json:"last_update_utc"`
	DeliveryDateUTC          *time.Time `json:"delivery_date_utc"`
	DeliveryException        string     `json:"delivery_exception"`
}

// TrackingResult pairs the canonical tracking table with its validation
// report.
type TrackingResult struct {
	Events []TrackingEvent `json:"events"`
	Report Report          `json:"report"`
}

var trackingRules = []ColumnRule{
	{Name: "tracking_number", Required: true},
}

// NormalizeTracking transforms an arbitrary raw tracking table into the
// canonical tracking table. An empty input yields an empty result with an
// empty report: unlike orders and shipments, no advisory error is emitted
// here. That asymmetry is part of the contract and is not corrected.
func NormalizeTracking(raw []RawRow, p TenantParams) TrackingResult {
	result := TrackingResult{Events: []TrackingEvent{}, Report: newReport()}

	if len(raw) == 0 {
		return result
	}

	rows := applyAliases(LowerHeaders(raw), TrackingColumnMap)

	cols := columnSet(rows)
	for _, rule := range trackingRules {
		cols[rule.Name] = struct{}{}
	}

	for _, row := range rows {
		event := TrackingEvent{
			AccountID:                p.AccountID,
			StoreID:                  p.StoreID,
			Carrier:                  strings.TrimSpace(SafeString(row["carrier"])),
			TrackingNumber:           strings.TrimSpace(SafeString(row["tracking_number"])),
			OrderID:                  strings.TrimSpace(SafeString(row["order_id"])),
			SupplierOrderID:          strings.TrimSpace(SafeString(row["supplier_order_id"])),
			TrackingStatusRaw:        strings.TrimSpace(SafeString(row["tracking_status_raw"])),
			TrackingStatusNormalized: strings.TrimSpace(SafeString(row["tracking_status_normalized"])),
			LastUpdateUTC:            ToUTCTime(row["last_update_utc"]),
			DeliveryDateUTC:          ToUTCTime(row["delivery_date_utc"]),
			DeliveryException:        strings.TrimSpace(SafeString(row["delivery_exception"])),
		}
		result.Events = append(result.Events, event)
	}

	requireColumns(&result.Report, cols, trackingRules, "tracking")

	// Rows without a tracking number cannot be joined to anything
	// downstream and are dropped silently.
	kept := result.Events[:0]
	for _, event := range result.Events {
		if event.TrackingNumber != "" {
			kept = append(kept, event)
		}
	}
	result.Events = kept

	return result
}
