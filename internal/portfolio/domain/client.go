package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditStatus 信用状态
type CreditStatus string

const (
	// CreditStatusActivo 正常
	CreditStatusActivo CreditStatus = "activo"
	// CreditStatusRiesgo 风险观察
	CreditStatusRiesgo CreditStatus = "riesgo"
	// CreditStatusBuro 已核销 / 移交催收
	CreditStatusBuro CreditStatus = "buro"
)

// ClientType 客户类型
type ClientType string

const (
	ClientTypeNormal ClientType = "normal"
	// ClientTypeGrupoOriginador 集团发起方（父级客户）
	ClientTypeGrupoOriginador ClientType = "grupo_originador"
)

// BillingCycle 账单周期
type BillingCycle string

const (
	BillingCycleMensual   BillingCycle = "mensual"
	BillingCycleQuincenal BillingCycle = "quincenal"
	BillingCycleManual    BillingCycle = "manual"
)

// Client 信贷客户。集团客户通过 ParentClientID 形成两级层次：
// 父级客户 ParentClientID 为空，子客户指向父级，子客户不再有下级。
type Client struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	AdvisorID          *string         `json:"advisor_id"`
	CreditLine         decimal.Decimal `json:"credit_line"`
	CreditStatus       CreditStatus    `json:"credit_status"`
	Type               ClientType      `json:"type"`
	IsGroup            bool            `json:"is_group"`
	ParentClientID     *string         `json:"parent_client_id"`
	BillingCycle       BillingCycle    `json:"billing_cycle"`
	CutDay             int             `json:"cut_day"`
	PayDay             int             `json:"pay_day"`
	AlertThresholdDays int             `json:"alert_threshold_days"`
	RegisteredAt       time.Time       `json:"registered_at"`
	CreatedAt          time.Time       `json:"created_at"`
}

// IsWrittenOff 是否已核销。核销客户保留在货币汇总中，但排除在行为指标之外。
func (c Client) IsWrittenOff() bool {
	return c.CreditStatus == CreditStatusBuro
}

// IsChild 是否为集团子客户
func (c Client) IsChild() bool {
	return c.ParentClientID != nil && *c.ParentClientID != ""
}
