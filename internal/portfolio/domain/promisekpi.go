package domain

// PromiseCompliance 还款承诺履约统计
type PromiseCompliance struct {
	Total          int     `json:"total"`
	Cumplidas      int     `json:"cumplidas"`
	Incumplidas    int     `json:"incumplidas"`
	Pendientes     int     `json:"pendientes"`
	ComplianceRate float64 `json:"compliance_rate"`
}

// CalcPromiseCompliance 统计承诺履约率，只在已终态承诺上计算比率
func CalcPromiseCompliance(promises []PaymentPromise) PromiseCompliance {
	var pc PromiseCompliance
	pc.Total = len(promises)
	for _, p := range promises {
		switch p.Status {
		case PromiseStatusCumplida:
			pc.Cumplidas++
		case PromiseStatusIncumplida:
			pc.Incumplidas++
		default:
			pc.Pendientes++
		}
	}
	resolved := pc.Cumplidas + pc.Incumplidas
	if resolved > 0 {
		pc.ComplianceRate = float64(pc.Cumplidas) / float64(resolved) * 100
	}
	return pc
}
