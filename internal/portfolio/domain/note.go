package domain

import "time"

// ClientNote 客户跟进备注，由催收或顾问人员记录。
// Type 为自由文本的跟进方式（llamada、visita 等），不做枚举约束。
type ClientNote struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}
