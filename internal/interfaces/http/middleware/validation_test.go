package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recon/backend/internal/interfaces/http/dto"
)

func TestSetupValidator(t *testing.T) {
	// Should not panic
	SetupValidator()

	// Verify the validator is configured
	v, ok := binding.Validator.Engine().(*validator.Validate)
	assert.True(t, ok)
	assert.NotNil(t, v)
}

func TestFormatValidationErrors(t *testing.T) {
	type testInput struct {
		StoreID string `json:"store_id" binding:"required,min=1"`
		Dataset string `json:"dataset" binding:"required,oneof=orders shipments tracking"`
	}

	SetupValidator()

	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req testInput
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	t.Run("returns validation errors for invalid input", func(t *testing.T) {
		body := strings.NewReader(`{"store_id": "", "dataset": "products"}`)
		req := httptest.NewRequest("POST", "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		require.NoError(t, err)

		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "Request validation failed", resp.Error.Message)
		assert.Len(t, resp.Error.Details, 2)
	})

	t.Run("uses json tag names in details", func(t *testing.T) {
		body := strings.NewReader(`{"dataset": "orders"}`)
		req := httptest.NewRequest("POST", "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		require.NoError(t, err)

		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "store_id", resp.Error.Details[0].Field)
	})

	t.Run("returns success for valid input", func(t *testing.T) {
		body := strings.NewReader(`{"store_id": "store-1", "dataset": "orders"}`)
		req := httptest.NewRequest("POST", "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGetValidationMessage(t *testing.T) {
	type testStruct struct {
		Required string `validate:"required"`
		Min      string `validate:"min=5"`
		Max      string `validate:"max=10"`
		MinInt   int    `validate:"min=5"`
		UUID     string `validate:"uuid"`
		OneOf    string `validate:"oneof=a b c"`
		Numeric  string `validate:"numeric"`
	}

	v := validator.New()

	tests := []struct {
		field    string
		value    testStruct
		expected string
	}{
		{"Required", testStruct{MinInt: 6, Min: "abcde", Max: "ok", UUID: "8c1f9e56-6ec5-4f9f-b3a2-9b8d3a0f1c2e", OneOf: "a", Numeric: "1"}, "This field is required"},
		{"Min", testStruct{Required: "x", MinInt: 6, Min: "ab", Max: "ok", UUID: "8c1f9e56-6ec5-4f9f-b3a2-9b8d3a0f1c2e", OneOf: "a", Numeric: "1"}, "Must be at least 5 characters"},
		{"Max", testStruct{Required: "x", MinInt: 6, Min: "abcde", Max: "this is way too long", UUID: "8c1f9e56-6ec5-4f9f-b3a2-9b8d3a0f1c2e", OneOf: "a", Numeric: "1"}, "Must be at most 10 characters"},
		{"MinInt", testStruct{Required: "x", MinInt: 1, Min: "abcde", Max: "ok", UUID: "8c1f9e56-6ec5-4f9f-b3a2-9b8d3a0f1c2e", OneOf: "a", Numeric: "1"}, "Must be at least 5"},
		{"UUID", testStruct{Required: "x", MinInt: 6, Min: "abcde", Max: "ok", UUID: "invalid", OneOf: "a", Numeric: "1"}, "Invalid UUID format"},
		{"OneOf", testStruct{Required: "x", MinInt: 6, Min: "abcde", Max: "ok", UUID: "8c1f9e56-6ec5-4f9f-b3a2-9b8d3a0f1c2e", OneOf: "d", Numeric: "1"}, "Must be one of: a b c"},
		{"Numeric", testStruct{Required: "x", MinInt: 6, Min: "abcde", Max: "ok", UUID: "8c1f9e56-6ec5-4f9f-b3a2-9b8d3a0f1c2e", OneOf: "a", Numeric: "nope"}, "Invalid value"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			err := v.Struct(tt.value)
			require.Error(t, err)

			validationErrs := err.(validator.ValidationErrors)
			for _, e := range validationErrs {
				if e.StructField() == tt.field {
					assert.Equal(t, tt.expected, getValidationMessage(e))
					return
				}
			}
			t.Fatalf("no validation error reported for field %s", tt.field)
		})
	}
}

func TestHandleValidationError(t *testing.T) {
	t.Run("handles validator.ValidationErrors", func(t *testing.T) {
		type input struct {
			Name string `json:"name" binding:"required"`
		}

		router := gin.New()
		router.POST("/test", func(c *gin.Context) {
			var in input
			if err := c.ShouldBindJSON(&in); err != nil {
				HandleValidationError(c, err)
				return
			}
		})

		body := strings.NewReader(`{}`)
		req := httptest.NewRequest("POST", "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeValidation)
	})

	t.Run("handles non-validation errors", func(t *testing.T) {
		router := gin.New()
		router.POST("/test", func(c *gin.Context) {
			var in map[string]any
			if err := c.ShouldBindJSON(&in); err != nil {
				HandleValidationError(c, err)
				return
			}
		})

		body := strings.NewReader(`{not json`)
		req := httptest.NewRequest("POST", "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
