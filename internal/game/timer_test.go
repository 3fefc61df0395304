package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{9, "00:09"},
		{65, "01:05"},
		{600, "10:00"},
		{-3, "00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTime(tt.seconds))
		})
	}
}

func TestTimeBonus(t *testing.T) {
	assert.Equal(t, TimeBonusCap, TimeBonus(0))
	assert.Equal(t, 180, TimeBonus(120))
	assert.Equal(t, 0, TimeBonus(TimeBonusCap))
	assert.Equal(t, 0, TimeBonus(1000))
}
