package domain

import (
	"fmt"
	"sort"
)

// AdvisorUnassigned 顾问未指定或无法解析时的占位名
const AdvisorUnassigned = "Sin asesor"

// Alert 高风险客户告警
type Alert struct {
	ClientID    string   `json:"client_id"`
	ClientName  string   `json:"client_name"`
	AdvisorName string   `json:"advisor_name"`
	Message     string   `json:"message"`
	RiskTier    RiskTier `json:"risk_tier"`
	DPD         int      `json:"dpd"`
}

// GenerateAlerts 扫描全部非 buro 客户，按集团感知口径计算风险，
// 输出高风险告警列表，按 DPD 降序，同值保持输入顺序
func GenerateAlerts(clients []Client, advisors []Advisor, invoices []Invoice, opts KPIOptions) []Alert {
	advisorByID := make(map[string]string, len(advisors))
	for _, a := range advisors {
		advisorByID[a.ID] = a.Name
	}

	alerts := make([]Alert, 0)
	for _, c := range clients {
		if c.IsWrittenOff() {
			continue
		}
		kpi := CalcEffectiveKPI(c, clients, invoices, opts)
		if !kpi.RiskTier.IsHigh() {
			continue
		}

		advisorName := AdvisorUnassigned
		if c.AdvisorID != nil {
			if name, ok := advisorByID[*c.AdvisorID]; ok {
				advisorName = name
			}
		}

		alerts = append(alerts, Alert{
			ClientID:    c.ID,
			ClientName:  c.Name,
			AdvisorName: advisorName,
			Message:     fmt.Sprintf("Este cliente presenta atraso recurrente (DPD: %d días). Revisar gestión de cobranza.", kpi.AverageDaysPastDue),
			RiskTier:    kpi.RiskTier,
			DPD:         kpi.AverageDaysPastDue,
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].DPD > alerts[j].DPD
	})
	return alerts
}
