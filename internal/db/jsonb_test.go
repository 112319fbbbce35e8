/*-------------------------------------------------------------------------
 *
 * jsonb_test.go
 *    Tests for JSONB column support
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/db/jsonb_test.go
 *
 *-------------------------------------------------------------------------
 */

package db

import (
	"testing"
)

func TestJSONBMapValueScan(t *testing.T) {
	original := JSONBMap{
		"item_code": "PMP-100",
		"quantity":  float64(25),
		"active":    true,
	}

	value, err := original.Value()
	if err != nil {
		t.Fatalf("Value() error: %v", err)
	}

	var decoded JSONBMap
	if err := decoded.Scan(value); err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	if decoded.GetString("item_code") != "PMP-100" {
		t.Errorf("item_code = %q, want PMP-100", decoded.GetString("item_code"))
	}
	if q, ok := decoded.GetFloat64("quantity"); !ok || q != 25 {
		t.Errorf("quantity = %v (%v), want 25", q, ok)
	}
	if active, ok := decoded.GetBool("active"); !ok || !active {
		t.Errorf("active = %v (%v), want true", active, ok)
	}
}

func TestJSONBMapNil(t *testing.T) {
	var m JSONBMap

	value, err := m.Value()
	if err != nil {
		t.Fatalf("Value() error: %v", err)
	}
	if value != nil {
		t.Errorf("nil map Value() = %v, want nil", value)
	}

	var scanned JSONBMap
	if err := scanned.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) error: %v", err)
	}
	if scanned != nil {
		t.Errorf("Scan(nil) yielded %v, want nil", scanned)
	}
}

func TestJSONBMapGetInt64(t *testing.T) {
	tests := []struct {
		name   string
		value  interface{}
		want   int64
		wantOK bool
	}{
		{"float64 from json decode", float64(42), 42, true},
		{"int64", int64(7), 7, true},
		{"string", "42", 0, false},
		{"absent", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := JSONBMap{}
			if tt.value != nil {
				m["key"] = tt.value
			}
			got, ok := m.GetInt64("key")
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("GetInt64() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestJSONBMapScanString(t *testing.T) {
	var m JSONBMap
	if err := m.Scan(`{"name":"Main Warehouse"}`); err != nil {
		t.Fatalf("Scan(string) error: %v", err)
	}
	if m.GetString("name") != "Main Warehouse" {
		t.Errorf("name = %q, want Main Warehouse", m.GetString("name"))
	}
}

func TestIsUniqueViolationNonPQ(t *testing.T) {
	if IsUniqueViolation(nil, "") {
		t.Error("nil error must not be a unique violation")
	}
	if IsUniqueViolation(errTest, "any") {
		t.Error("plain error must not be a unique violation")
	}
}

var errTest = &testError{}

type testError struct{}

func (*testError) Error() string { return "test error" }
