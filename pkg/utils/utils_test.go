package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSymbols(t *testing.T) {
	got := NormalizeSymbols([]string{" bbca", "BBRI", "", "bbca", "tlkm "})
	assert.Equal(t, []string{"BBCA", "BBRI", "TLKM"}, got)
}

func TestStartOfDay(t *testing.T) {
	loc := GetWibTimeLocation()
	in := time.Date(2024, 3, 5, 15, 4, 5, 6, loc)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, loc), StartOfDay(in))
}
