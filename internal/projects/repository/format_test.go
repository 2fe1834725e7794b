package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatThaiAmount(t *testing.T) {
	cases := []struct {
		name   string
		amount float64
		want   string
	}{
		{"zero", 0, "0"},
		{"small integer", 2500, "2,500"},
		{"just below a million", 999_999, "999,999"},
		{"exactly a million", 1_000_000, "1 ล้าน"},
		{"millions with decimals", 2_500_000, "2.5 ล้าน"},
		{"decimals trimmed to two places", 1_234_567, "1.23 ล้าน"},
		{"whole hundreds of millions", 500_000_000, "500 ล้าน"},
		{"billions stay in millions", 2_000_000_000, "2,000 ล้าน"},
		{"trillion rolls up twice", 1_000_000_000_000, "1 ล้านล้าน"},
		{"negative below a million", -2500, "-2,500"},
		{"negative millions", -1_500_000, "-1.5 ล้าน"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, formatThaiAmount(tc.amount))
		})
	}
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "1", groupThousands("1"))
	assert.Equal(t, "999", groupThousands("999"))
	assert.Equal(t, "1,000", groupThousands("1000"))
	assert.Equal(t, "123,456,789", groupThousands("123456789"))
}

func TestSplitClimateTypes(t *testing.T) {
	assert.Equal(t, []string{"mitigation"}, splitClimateTypes("mitigation"))
	assert.Equal(t, []string{"mitigation", "adaptation"}, splitClimateTypes("mitigation, adaptation"))
}
