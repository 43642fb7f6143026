package words_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/btels/scheme-ledger/words"
)

func TestConvert_Basics(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "Zero"},
		{"1", "Rupees One Only"},
		{"7", "Rupees Seven Only"},
		{"13", "Rupees Thirteen Only"},
		{"20", "Rupees Twenty Only"},
		{"99", "Rupees Ninety Nine Only"},
		{"1000", "Rupees One Thousand Only"},
		{"2000000", "Rupees Two Million Only"},
		{"3000000000", "Rupees Three Billion Only"},
		{"45012", "Rupees Forty Five Thousand Twelve Only"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, words.ConvertString(tc.in))
		})
	}
}

func TestConvert_HundredsDigitNotSpelled(t *testing.T) {
	// GIVEN: amounts whose three-digit groups have a hundreds digit
	// WHEN: spelled
	// THEN: the hundreds digit is dropped from each group

	assert.Equal(t, "Rupees Fifty Only", words.ConvertString("150"))
	assert.Equal(t, "Rupees Only", words.ConvertString("100"))
	assert.Equal(t, "Rupees One Thousand Only", words.ConvertString("1500"))
	assert.Equal(t, "Rupees Ninety Nine Only", words.ConvertString("999"))
	assert.Equal(t, "Rupees Twenty Five Thousand Only", words.ConvertString("125000"))
}

func TestConvert_Cents(t *testing.T) {
	assert.Equal(t, "Rupees Ten and Fifty Cents Only", words.ConvertString("10.5"))
	assert.Equal(t, "Rupees Ten and Five Cents Only", words.ConvertString("10.05"))
	assert.Equal(t, "Rupees One Thousand Fifty and Seventy Five Cents Only", words.ConvertString("1250.75"))

	// Only the first two digits count, truncated not rounded.
	assert.Equal(t, "Rupees Ten and Ninety Nine Cents Only", words.ConvertString("10.999"))
	assert.Equal(t, "Rupees Ten Only", words.ConvertString("10.001"))
	assert.Equal(t, "Rupees Ten Only", words.ConvertString("10.00"))
}

func TestConvert_CentsOnly(t *testing.T) {
	assert.Equal(t, "Rupees and Fifty Cents Only", words.ConvertString("0.5"))
	assert.Equal(t, "Rupees and One Cents Only", words.ConvertString("0.01"))
}

func TestConvert_InvalidInput(t *testing.T) {
	assert.Equal(t, words.InvalidNumber, words.ConvertString("-5"))
	assert.Equal(t, words.InvalidNumber, words.ConvertString("abc"))
	assert.Equal(t, words.InvalidNumber, words.ConvertString(""))
	assert.Equal(t, words.InvalidNumber, words.Convert(decimal.NewFromInt(-1)))
	assert.Equal(t, words.InvalidNumber, words.ConvertFloat(math.NaN()))
	assert.Equal(t, words.InvalidNumber, words.ConvertFloat(math.Inf(1)))
	assert.Equal(t, words.InvalidNumber, words.ConvertFloat(-0.01))
}

func TestConvertFloat_MatchesDecimal(t *testing.T) {
	assert.Equal(t, "Zero", words.ConvertFloat(0))
	assert.Equal(t, "Rupees Forty Two and Twenty Five Cents Only", words.ConvertFloat(42.25))
	assert.Equal(t, words.Convert(decimal.RequireFromString("6000")), words.ConvertFloat(6000))
}
