// Package domain 信贷组合服务领域模型
package domain

import "time"

// Advisor 信贷顾问
type Advisor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
