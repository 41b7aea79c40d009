package domain

// RiskTier 风险等级，由平均逾期天数 (DPD) 唯一决定
type RiskTier string

const (
	RiskTierBueno   RiskTier = "bueno"
	RiskTierMalo    RiskTier = "malo"
	RiskTierMuyMalo RiskTier = "muy_malo"
	RiskTierPesimo  RiskTier = "pesimo"
)

// ClassifyRisk 根据 DPD 映射风险等级，纯函数
func ClassifyRisk(dpd int) RiskTier {
	switch {
	case dpd <= 1:
		return RiskTierBueno
	case dpd <= 4:
		return RiskTierMalo
	case dpd <= 9:
		return RiskTierMuyMalo
	default:
		return RiskTierPesimo
	}
}

// IsHigh 是否属于需要告警的高风险等级
func (r RiskTier) IsHigh() bool {
	return r == RiskTierMuyMalo || r == RiskTierPesimo
}

// Label 风险等级展示名
func (r RiskTier) Label() string {
	switch r {
	case RiskTierBueno:
		return "Bueno"
	case RiskTierMalo:
		return "Malo"
	case RiskTierMuyMalo:
		return "Muy Malo"
	case RiskTierPesimo:
		return "Pésimo"
	default:
		return string(r)
	}
}
