package money

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseString(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		wantErr  bool
	}{
		{input: "12", expected: 1200},
		{input: "12.5", expected: 1250},
		{input: "12.50", expected: 1250},
		{input: "  7.05 ", expected: 705},
		{input: ".5", expected: 50},
		{input: "0", expected: 0},
		{input: "0.01", expected: 1},
		{input: "100000", expected: 10000000},
		{input: "", wantErr: true},
		{input: "   ", wantErr: true},
		{input: ".", wantErr: true},
		{input: "12.", wantErr: true},
		{input: "12.345", wantErr: true},
		{input: "-1", wantErr: true},
		{input: "+1", wantErr: true},
		{input: "1,000", wantErr: true},
		{input: "1e3", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "1234567890123456", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFromFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected int64
		wantErr  bool
	}{
		{name: "whole", input: 12, expected: 1200},
		{name: "two decimals", input: 19.99, expected: 1999},
		{name: "binary imprecision", input: 1.005, expected: 101},
		{name: "half away from zero", input: 0.125, expected: 13},
		{name: "negative rounds away", input: -0.125, expected: -13},
		{name: "third decimal rounds down", input: 2.344, expected: 234},
		{name: "nan", input: math.NaN(), wantErr: true},
		{name: "inf", input: math.Inf(1), wantErr: true},
		{name: "too large", input: 1e20, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromFloat(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseAmountToCents(t *testing.T) {
	cents, err := ParseAmountToCents("4.20")
	require.NoError(t, err)
	assert.Equal(t, int64(420), cents)

	cents, err = ParseAmountToCents(4.2)
	require.NoError(t, err)
	assert.Equal(t, int64(420), cents)

	_, err = ParseAmountToCents(true)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestParseBasisPoints(t *testing.T) {
	bp, err := ParseBasisPoints("33.34")
	require.NoError(t, err)
	assert.Equal(t, int64(3334), bp)

	bp, err = ParseBasisPoints("100")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), bp)

	_, err = ParseBasisPoints("33.333")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	var body struct {
		Total Amount `json:"total"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"total":"12.34"}`), &body))
	cents, err := body.Total.Cents()
	require.NoError(t, err)
	assert.Equal(t, int64(1234), cents)

	require.NoError(t, json.Unmarshal([]byte(`{"total":12.34}`), &body))
	cents, err = body.Total.Cents()
	require.NoError(t, err)
	assert.Equal(t, int64(1234), cents)

	body.Total = Amount{}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &body))
	assert.True(t, body.Total.IsZero())
	_, err = body.Total.Cents()
	assert.ErrorIs(t, err, ErrInvalidAmount)

	require.NoError(t, json.Unmarshal([]byte(`{"total":[1]}`), &body))
	_, err = body.Total.Cents()
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "12.05", Format(1205))
	assert.Equal(t, "0.00", Format(0))
	assert.Equal(t, "-3.10", Format(-310))
}

func TestAmount_String(t *testing.T) {
	assert.Equal(t, "12.50", NewAmount("12.50").String())
	assert.Equal(t, "", Amount{}.String())

	var a Amount
	require.NoError(t, json.Unmarshal([]byte(` 7.5 `), &a))
	assert.Equal(t, "7.5", a.String())
}
