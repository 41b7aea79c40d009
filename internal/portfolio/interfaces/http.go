// Package interfaces 信贷组合服务接口层
package interfaces

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/creditportfolio/internal/portfolio/application"
	"github.com/wyfcoding/creditportfolio/internal/portfolio/domain"
)

// HTTPHandler HTTP 接口处理器
type HTTPHandler struct {
	commandService *application.CommandService
	queryService   *application.QueryService
}

// NewHTTPHandler 创建 HTTP 处理器
func NewHTTPHandler(
	commandService *application.CommandService,
	queryService *application.QueryService,
) *HTTPHandler {
	return &HTTPHandler{
		commandService: commandService,
		queryService:   queryService,
	}
}

// RegisterRoutes 注册路由
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup) {
	portfolio := r.Group("/portfolio")
	{
		portfolio.POST("/advisors", h.CreateAdvisor)
		portfolio.GET("/advisors", h.ListAdvisors)
		portfolio.DELETE("/advisors/:id", h.DeleteAdvisor)

		portfolio.POST("/clients", h.CreateClient)
		portfolio.GET("/clients", h.ListClients)
		portfolio.PUT("/clients/:id", h.UpdateClient)
		portfolio.DELETE("/clients/:id", h.DeleteClient)
		portfolio.GET("/clients/:id/timeline", h.GetClientTimeline)

		portfolio.POST("/invoices", h.CreateInvoice)
		portfolio.GET("/invoices", h.ListInvoices)
		portfolio.DELETE("/invoices/:id", h.DeleteInvoice)

		portfolio.POST("/payments", h.RegisterPayment)

		portfolio.POST("/promises", h.CreatePromise)
		portfolio.POST("/promises/:id/resolve", h.ResolvePromise)
		portfolio.GET("/promises/compliance", h.GetPromiseCompliance)

		portfolio.POST("/notes", h.AddNote)

		portfolio.GET("/kpis/clients", h.ListClientKPIs)
		portfolio.GET("/kpis/clients/:id", h.GetClientKPI)
		portfolio.GET("/kpis/advisors", h.ListAdvisorKPIs)
		portfolio.GET("/kpis/advisors/:id", h.GetAdvisorKPI)

		portfolio.GET("/alerts", h.GetAlerts)
		portfolio.GET("/summary", h.GetExecutiveSummary)

		portfolio.GET("/exports/clients", h.ExportClients)
		portfolio.GET("/exports/written-off", h.ExportWrittenOff)
		portfolio.GET("/exports/invoices", h.ExportInvoices)
		portfolio.GET("/exports/advisors", h.ExportAdvisors)
	}
}

// respondError 域错误到 HTTP 状态码的映射
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrClientNotFound),
		errors.Is(err, domain.ErrAdvisorNotFound),
		errors.Is(err, domain.ErrInvoiceNotFound),
		errors.Is(err, domain.ErrPromiseNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidCreditStatus),
		errors.Is(err, domain.ErrInvalidPromiseStatus),
		errors.Is(err, domain.ErrPaymentExceedsBalance),
		errors.Is(err, domain.ErrPromiseAlreadyResolved),
		errors.Is(err, domain.ErrDuplicateInvoiceNumber):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// CreateAdvisorRequest 创建顾问请求
type CreateAdvisorRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
}

// CreateAdvisor 创建顾问
func (h *HTTPHandler) CreateAdvisor(c *gin.Context) {
	var req CreateAdvisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.commandService.CreateAdvisor(c.Request.Context(), application.CreateAdvisorCommand{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"advisor_id": id})
}

// ListAdvisors 顾问列表
func (h *HTTPHandler) ListAdvisors(c *gin.Context) {
	advisors, err := h.queryService.ListAdvisors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"advisors": advisors})
}

// DeleteAdvisor 删除顾问
func (h *HTTPHandler) DeleteAdvisor(c *gin.Context) {
	if err := h.commandService.DeleteAdvisor(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateClientRequest 创建客户请求
type CreateClientRequest struct {
	Name               string          `json:"name" binding:"required"`
	AdvisorID          *string         `json:"advisor_id"`
	CreditLine         decimal.Decimal `json:"credit_line"`
	CreditStatus       string          `json:"credit_status"`
	Type               string          `json:"client_type"`
	IsGroup            bool            `json:"is_group"`
	ParentClientID     *string         `json:"parent_client_id"`
	BillingCycle       string          `json:"billing_cycle"`
	CutDay             int             `json:"cut_day"`
	PayDay             int             `json:"pay_day"`
	AlertThresholdDays int             `json:"alert_threshold_days"`
}

// CreateClient 创建客户
func (h *HTTPHandler) CreateClient(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.commandService.CreateClient(c.Request.Context(), application.CreateClientCommand{
		Name:               req.Name,
		AdvisorID:          req.AdvisorID,
		CreditLine:         req.CreditLine,
		CreditStatus:       domain.CreditStatus(req.CreditStatus),
		Type:               domain.ClientType(req.Type),
		IsGroup:            req.IsGroup,
		ParentClientID:     req.ParentClientID,
		BillingCycle:       domain.BillingCycle(req.BillingCycle),
		CutDay:             req.CutDay,
		PayDay:             req.PayDay,
		AlertThresholdDays: req.AlertThresholdDays,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"client_id": id})
}

// ListClients 客户列表
func (h *HTTPHandler) ListClients(c *gin.Context) {
	clients, err := h.queryService.ListClients(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

// UpdateClientRequest 更新客户请求
type UpdateClientRequest struct {
	Name               *string          `json:"name"`
	AdvisorID          *string          `json:"advisor_id"`
	CreditLine         *decimal.Decimal `json:"credit_line"`
	CreditStatus       *string          `json:"credit_status"`
	AlertThresholdDays *int             `json:"alert_threshold_days"`
}

// UpdateClient 更新客户
func (h *HTTPHandler) UpdateClient(c *gin.Context) {
	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := application.UpdateClientCommand{
		ID:                 c.Param("id"),
		Name:               req.Name,
		AdvisorID:          req.AdvisorID,
		CreditLine:         req.CreditLine,
		AlertThresholdDays: req.AlertThresholdDays,
	}
	if req.CreditStatus != nil {
		status := domain.CreditStatus(*req.CreditStatus)
		cmd.CreditStatus = &status
	}

	if err := h.commandService.UpdateClient(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteClient 删除客户
func (h *HTTPHandler) DeleteClient(c *gin.Context) {
	if err := h.commandService.DeleteClient(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetClientTimeline 客户跟进时间线
func (h *HTTPHandler) GetClientTimeline(c *gin.Context) {
	timeline, err := h.queryService.GetClientTimeline(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, timeline)
}

// CreateInvoiceRequest 创建发票请求
type CreateInvoiceRequest struct {
	ClientID  string          `json:"client_id" binding:"required"`
	Number    string          `json:"number"`
	Amount    decimal.Decimal `json:"amount"`
	IssueDate time.Time       `json:"issue_date"`
	DueDate   time.Time       `json:"due_date" binding:"required"`
	GraceDays int             `json:"grace_days"`
}

// CreateInvoice 手工创建发票
func (h *HTTPHandler) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issueDate := req.IssueDate
	if issueDate.IsZero() {
		issueDate = time.Now()
	}
	id, err := h.commandService.CreateInvoice(c.Request.Context(), application.CreateInvoiceCommand{
		ClientID:  req.ClientID,
		Number:    req.Number,
		Amount:    req.Amount,
		IssueDate: issueDate,
		DueDate:   req.DueDate,
		GraceDays: req.GraceDays,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"invoice_id": id})
}

// ListInvoices 发票列表
func (h *HTTPHandler) ListInvoices(c *gin.Context) {
	invoices, err := h.queryService.ListInvoices(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

// DeleteInvoice 删除发票
func (h *HTTPHandler) DeleteInvoice(c *gin.Context) {
	if err := h.commandService.DeleteInvoice(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterPaymentRequest 登记支付请求
type RegisterPaymentRequest struct {
	InvoiceID  string          `json:"invoice_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAt     time.Time       `json:"paid_at"`
	Method     string          `json:"method"`
	Reference  string          `json:"reference"`
	RecordedBy string          `json:"recorded_by"`
}

// RegisterPayment 登记支付
func (h *HTTPHandler) RegisterPayment(c *gin.Context) {
	var req RegisterPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.commandService.RegisterPayment(c.Request.Context(), application.RegisterPaymentCommand{
		InvoiceID:  req.InvoiceID,
		Amount:     req.Amount,
		PaidAt:     req.PaidAt,
		Method:     req.Method,
		Reference:  req.Reference,
		RecordedBy: req.RecordedBy,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment_id": id})
}

// CreatePromiseRequest 创建还款承诺请求
type CreatePromiseRequest struct {
	ClientID    string          `json:"client_id" binding:"required"`
	InvoiceID   *string         `json:"invoice_id"`
	Amount      decimal.Decimal `json:"amount"`
	PromiseDate time.Time       `json:"promise_date" binding:"required"`
	Notes       string          `json:"notes"`
	CreatedBy   string          `json:"created_by"`
}

// CreatePromise 创建还款承诺
func (h *HTTPHandler) CreatePromise(c *gin.Context) {
	var req CreatePromiseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.commandService.CreatePromise(c.Request.Context(), application.CreatePromiseCommand{
		ClientID:    req.ClientID,
		InvoiceID:   req.InvoiceID,
		Amount:      req.Amount,
		PromiseDate: req.PromiseDate,
		Notes:       req.Notes,
		CreatedBy:   req.CreatedBy,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"promise_id": id})
}

// ResolvePromiseRequest 承诺终态请求
type ResolvePromiseRequest struct {
	Status string `json:"status" binding:"required"`
}

// ResolvePromise 承诺履约/违约
func (h *HTTPHandler) ResolvePromise(c *gin.Context) {
	var req ResolvePromiseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.commandService.ResolvePromise(c.Request.Context(), c.Param("id"), domain.PromiseStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetPromiseCompliance 承诺履约统计，?client_id= 可选
func (h *HTTPHandler) GetPromiseCompliance(c *gin.Context) {
	pc, err := h.queryService.GetPromiseCompliance(c.Request.Context(), c.Query("client_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pc)
}

// AddNoteRequest 添加备注请求
type AddNoteRequest struct {
	ClientID  string `json:"client_id" binding:"required"`
	Type      string `json:"type"`
	Content   string `json:"content" binding:"required"`
	CreatedBy string `json:"created_by"`
}

// AddNote 添加客户跟进备注
func (h *HTTPHandler) AddNote(c *gin.Context) {
	var req AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.commandService.AddNote(c.Request.Context(), application.AddNoteCommand{
		ClientID:  req.ClientID,
		Type:      req.Type,
		Content:   req.Content,
		CreatedBy: req.CreatedBy,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"note_id": id})
}

// ListClientKPIs 全部客户指标
func (h *HTTPHandler) ListClientKPIs(c *gin.Context) {
	kpis, err := h.queryService.ListClientKPIs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kpis": kpis})
}

// GetClientKPI 单客户指标
func (h *HTTPHandler) GetClientKPI(c *gin.Context) {
	kpi, err := h.queryService.GetClientKPI(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, kpi)
}

// ListAdvisorKPIs 全部顾问指标
func (h *HTTPHandler) ListAdvisorKPIs(c *gin.Context) {
	kpis, err := h.queryService.ListAdvisorKPIs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kpis": kpis})
}

// GetAdvisorKPI 单顾问指标
func (h *HTTPHandler) GetAdvisorKPI(c *gin.Context) {
	kpi, err := h.queryService.GetAdvisorKPI(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, kpi)
}

// GetAlerts 高风险告警列表
func (h *HTTPHandler) GetAlerts(c *gin.Context) {
	alerts, err := h.queryService.GetAlerts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

// GetExecutiveSummary 管理层汇总视图
func (h *HTTPHandler) GetExecutiveSummary(c *gin.Context) {
	summary, err := h.queryService.GetExecutiveSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func csvHeaders(c *gin.Context, name string) {
	filename := fmt.Sprintf("%s_%s.csv", name, time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
}

// ExportClients 客户 KPI 报表下载
func (h *HTTPHandler) ExportClients(c *gin.Context) {
	csvHeaders(c, "clientes_kpi")
	if err := h.queryService.ExportClientKPIs(c.Request.Context(), c.Writer); err != nil {
		respondError(c, err)
	}
}

// ExportWrittenOff 核销客户报表下载
func (h *HTTPHandler) ExportWrittenOff(c *gin.Context) {
	csvHeaders(c, "cartera_castigada")
	if err := h.queryService.ExportWrittenOffPortfolio(c.Request.Context(), c.Writer); err != nil {
		respondError(c, err)
	}
}

// ExportInvoices 发票报表下载
func (h *HTTPHandler) ExportInvoices(c *gin.Context) {
	csvHeaders(c, "facturas")
	if err := h.queryService.ExportInvoices(c.Request.Context(), c.Writer); err != nil {
		respondError(c, err)
	}
}

// ExportAdvisors 顾问组合报表下载
func (h *HTTPHandler) ExportAdvisors(c *gin.Context) {
	csvHeaders(c, "asesores_cartera")
	if err := h.queryService.ExportAdvisorKPIs(c.Request.Context(), c.Writer); err != nil {
		respondError(c, err)
	}
}
