package numutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntWithCommas(t *testing.T) {
	tests := []struct {
		input int
		want  string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{12345, "12,345"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IntWithCommas(tt.input))
	}
}

func TestFloatLiteral(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  string
	}{
		{name: "whole number", input: 5, want: "5.0"},
		{name: "zero", input: 0, want: "0.0"},
		{name: "fraction", input: 12.5, want: "12.5"},
		{name: "probability", input: 0.1, want: "0.1"},
		{name: "one", input: 1, want: "1.0"},
		{name: "negative", input: -3.25, want: "-3.25"},
		{name: "large", input: 1234567, want: "1234567.0"},
		{name: "nan", input: math.NaN(), want: "nan"},
		{name: "inf", input: math.Inf(1), want: "inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FloatLiteral(tt.input))
		})
	}
}
