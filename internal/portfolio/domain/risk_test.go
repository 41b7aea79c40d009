package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRisk(t *testing.T) {
	tests := []struct {
		dpd  int
		want RiskTier
	}{
		{0, RiskTierBueno},
		{1, RiskTierBueno},
		{2, RiskTierMalo},
		{3, RiskTierMalo},
		{4, RiskTierMalo},
		{5, RiskTierMuyMalo},
		{7, RiskTierMuyMalo},
		{9, RiskTierMuyMalo},
		{10, RiskTierPesimo},
		{365, RiskTierPesimo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyRisk(tt.dpd), "dpd=%d", tt.dpd)
	}
}

func TestRiskTier_IsHigh(t *testing.T) {
	assert.False(t, RiskTierBueno.IsHigh())
	assert.False(t, RiskTierMalo.IsHigh())
	assert.True(t, RiskTierMuyMalo.IsHigh())
	assert.True(t, RiskTierPesimo.IsHigh())
}

func TestRiskTier_Label(t *testing.T) {
	assert.Equal(t, "Muy Malo", RiskTierMuyMalo.Label())
	assert.Equal(t, "Pésimo", RiskTierPesimo.Label())
}
