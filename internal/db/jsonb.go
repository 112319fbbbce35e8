/*-------------------------------------------------------------------------
 *
 * jsonb.go
 *    JSONB column support
 *
 * JSONBMap stores arbitrary JSON objects in JSONB columns, used for
 * pending-approval payloads and history log metadata.
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/db/jsonb.go
 *
 *-------------------------------------------------------------------------
 */

package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type JSONBMap map[string]interface{}

func (m JSONBMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("jsonb marshal failed: %w", err)
	}
	return data, nil
}

func (m *JSONBMap) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("jsonb unmarshal failed: %w", err)
	}
	*m = decoded
	return nil
}

/* GetString returns the string value at key, or "" when absent or not a
 * string. */
func (m JSONBMap) GetString(key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

/* GetInt64 returns the integer value at key. JSON decoding yields float64
 * for numbers, so both forms are accepted. */
func (m JSONBMap) GetInt64(key string) (int64, bool) {
	switch v := m[key].(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

/* GetFloat64 returns the numeric value at key */
func (m JSONBMap) GetFloat64(key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

/* GetBool returns the boolean value at key */
func (m JSONBMap) GetBool(key string) (bool, bool) {
	v, ok := m[key].(bool)
	return v, ok
}
