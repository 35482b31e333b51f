// Copyright (c) 2026 Doh. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/doh/pkg/convert"
)

/*
TestToFloat64 pins down the coerce-to-zero contract the recipe edit
operations rely on.
*/
func TestToFloat64(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{"integer", "60", 60},
		{"fractional", "62.5", 62.5},
		{"negative", "-20", -20},
		{"empty", "", 0},
		{"garbage", "abc", 0},
		{"trailing_garbage", "60g", 0},
		{"nan_literal", "NaN", 0},
		{"inf_literal", "Inf", 0},
		{"negative_inf_literal", "-Infinity", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, convert.ToFloat64(tt.input))
		})
	}
}

/*
TestToInt checks integer coercion and the default-carrying variant.
*/
func TestToInt(t *testing.T) {
	assert.Equal(t, 42, convert.ToInt("42"))
	assert.Equal(t, 0, convert.ToInt("nope"))
	assert.Equal(t, 0, convert.ToInt(""))

	assert.Equal(t, 42, convert.ToIntD("42", 7))
	assert.Equal(t, 7, convert.ToIntD("nope", 7))
	assert.Equal(t, 7, convert.ToIntD("", 7))
}

/*
TestToBool checks boolean parsing with the false fallback.
*/
func TestToBool(t *testing.T) {
	assert.True(t, convert.ToBool("true"))
	assert.True(t, convert.ToBool("1"))
	assert.False(t, convert.ToBool("false"))
	assert.False(t, convert.ToBool(""))
	assert.False(t, convert.ToBool("maybe"))
}
