package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestCommissionAmount(t *testing.T) {
	tests := []struct {
		amount int64
		rate   string
		want   string
	}{
		{1000000, "10", "100000.00"},
		{1000000, "12.5", "125000.00"},
		{199999, "7.5", "14999.93"},
		{0, "20", "0.00"},
	}
	for _, tt := range tests {
		got := CommissionAmount(tt.amount, decimal.RequireFromString(tt.rate))
		assert.Equal(t, tt.want, got.StringFixed(2))
	}
}

func TestSalerRateFor(t *testing.T) {
	s := &Saler{
		DefaultRate: decimal.NewFromInt(10),
		CourseRates: datatypes.NewJSONType(map[string]decimal.Decimal{"course-vip": decimal.RequireFromString("25.5")}),
	}
	assert.Equal(t, "25.50", s.RateFor("course-vip").StringFixed(2))
	assert.Equal(t, "10.00", s.RateFor("course-basic").StringFixed(2))

	empty := &Saler{DefaultRate: decimal.NewFromInt(5)}
	assert.Equal(t, "5.00", empty.RateFor("any").StringFixed(2))
}
