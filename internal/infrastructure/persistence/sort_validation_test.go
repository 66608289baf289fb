package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"DESC uppercase returns DESC", "DESC", "DESC"},
		{"desc lowercase returns DESC", "desc", "DESC"},
		{"invalid value returns DESC", "INVALID", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE normalization_runs;--", "DESC"},
		{"whitespace only returns DESC", "   ", "DESC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateSortOrder(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestValidateSortField(t *testing.T) {
	allowedFields := map[string]bool{
		"id":         true,
		"created_at": true,
		"updated_at": true,
		"status":     true,
	}

	tests := []struct {
		name         string
		input        string
		allowedMap   map[string]bool
		defaultField string
		expected     string
	}{
		{"empty string returns default", "", allowedFields, "created_at", "created_at"},
		{"valid field returns field", "status", allowedFields, "created_at", "status"},
		{"valid field id returns field", "id", allowedFields, "created_at", "id"},
		{"invalid field returns default", "invalid_field", allowedFields, "created_at", "created_at"},
		{"sql injection attempt returns default", "id; DROP TABLE normalization_runs;--", allowedFields, "created_at", "created_at"},
		{"case sensitive - uppercase invalid", "STATUS", allowedFields, "created_at", "created_at"},
		{"whitespace only returns default", "   ", allowedFields, "created_at", "created_at"},
		{"whitespace around valid field returns field", "  status  ", allowedFields, "created_at", "status"},
		{"field with spaces injection returns default", "status runs", allowedFields, "created_at", "created_at"},
		{"field with quotes injection returns default", "status'--", allowedFields, "created_at", "created_at"},
		{"empty default with valid field", "status", allowedFields, "", "status"},
		{"empty default with invalid field", "invalid", allowedFields, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateSortField(tt.input, tt.allowedMap, tt.defaultField)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestRunSortFields(t *testing.T) {
	t.Run("contains common fields", func(t *testing.T) {
		for _, field := range []string{"id", "created_at", "updated_at"} {
			assert.True(t, RunSortFields[field], "RunSortFields should contain '%s'", field)
		}
	})

	t.Run("contains run lifecycle fields", func(t *testing.T) {
		for _, field := range []string{"dataset", "status", "started_at", "completed_at", "input_rows", "output_rows"} {
			assert.True(t, RunSortFields[field], "RunSortFields should contain '%s'", field)
		}
	})

	t.Run("excludes non-column fields", func(t *testing.T) {
		assert.False(t, RunSortFields["tenant_id; DROP TABLE normalization_runs"])
		assert.False(t, RunSortFields["failure_reason"])
	})
}

func TestSQLInjectionPrevention(t *testing.T) {
	// Test various SQL injection payloads
	injectionPayloads := []string{
		"id; DROP TABLE normalization_runs;--",
		"id' OR '1'='1",
		"id\"; DROP TABLE normalization_runs;--",
		"id UNION SELECT * FROM normalization_runs",
		"id ORDER BY 1",
		"id, (SELECT tenant_id FROM normalization_runs)",
		"CASE WHEN 1=1 THEN id ELSE status END",
		"id/**/;DROP TABLE normalization_runs",
		"id\n; DROP TABLE normalization_runs",
		"id\t; DROP TABLE normalization_runs",
		"' OR ''='",
		"1; EXEC xp_cmdshell('dir')",
	}

	for _, payload := range injectionPayloads {
		t.Run("field: "+payload[:min(len(payload), 30)], func(t *testing.T) {
			result := ValidateSortField(payload, RunSortFields, "created_at")
			// All injection attempts should return the default
			assert.Equal(t, "created_at", result, "SQL injection payload should be rejected: %s", payload)
		})

		t.Run("order: "+payload[:min(len(payload), 30)], func(t *testing.T) {
			result := ValidateSortOrder(payload)
			// All injection attempts should return DESC
			assert.Equal(t, "DESC", result, "SQL injection payload should be rejected: %s", payload)
		})
	}
}
