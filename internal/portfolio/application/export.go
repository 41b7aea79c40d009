// Package application CSV 导出
package application

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/wyfcoding/creditportfolio/internal/portfolio/domain"
)

// utf8BOM Excel 识别 UTF-8 所需的前导字节
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// 空引用占位，与界面展示保持一致
const emptyCell = "—"

func writeCSV(w io.Writer, headers []string, rows [][]string) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func advisorNameOf(c domain.Client, advisors []domain.Advisor) string {
	if c.AdvisorID == nil {
		return emptyCell
	}
	for _, a := range advisors {
		if a.ID == *c.AdvisorID {
			return a.Name
		}
	}
	return emptyCell
}

// ExportClientKPIs 客户 KPI 报表
func (s *QueryService) ExportClientKPIs(ctx context.Context, w io.Writer) error {
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return err
	}
	opts := domain.KPIOptions{Payments: snap.Payments, Today: time.Now()}

	headers := []string{"Cliente", "Asesor", "Riesgo", "Estado Crédito", "Tipo Cliente", "Línea de Crédito", "Facturado", "Vencido", "Saldo Pendiente", "DPD", "Uso Línea %", "% Pago a Tiempo"}
	rows := make([][]string, 0, len(snap.Clients))
	for _, c := range snap.Clients {
		kpi := domain.CalcEffectiveKPI(c, snap.Clients, snap.Invoices, opts)
		clientType := string(c.Type)
		if clientType == "" {
			clientType = string(domain.ClientTypeNormal)
		}
		rows = append(rows, []string{
			c.Name,
			advisorNameOf(c, snap.Advisors),
			string(kpi.RiskTier),
			string(c.CreditStatus),
			clientType,
			c.CreditLine.StringFixed(2),
			kpi.TotalInvoiced.StringFixed(2),
			kpi.OverdueAmount.StringFixed(2),
			kpi.OutstandingBalance.StringFixed(2),
			fmt.Sprintf("%d", kpi.AverageDaysPastDue),
			fmt.Sprintf("%d", int(math.Round(kpi.CreditLineUtilization))),
			fmt.Sprintf("%d", int(math.Round(kpi.OnTimePaymentRate))),
		})
	}
	return writeCSV(w, headers, rows)
}

// ExportWrittenOffPortfolio 核销客户(cartera castigada)报表
func (s *QueryService) ExportWrittenOffPortfolio(ctx context.Context, w io.Writer) error {
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return err
	}
	opts := domain.KPIOptions{Payments: snap.Payments, Today: time.Now()}

	headers := []string{"Cliente", "Asesor", "Línea de Crédito", "Facturado", "Vencido", "Saldo Pendiente", "DPD"}
	var rows [][]string
	for _, c := range snap.Clients {
		if !c.IsWrittenOff() {
			continue
		}
		kpi := domain.CalcEffectiveKPI(c, snap.Clients, snap.Invoices, opts)
		rows = append(rows, []string{
			c.Name,
			advisorNameOf(c, snap.Advisors),
			c.CreditLine.StringFixed(2),
			kpi.TotalInvoiced.StringFixed(2),
			kpi.OverdueAmount.StringFixed(2),
			kpi.OutstandingBalance.StringFixed(2),
			fmt.Sprintf("%d", kpi.AverageDaysPastDue),
		})
	}
	return writeCSV(w, headers, rows)
}

// ExportInvoices 发票报表
func (s *QueryService) ExportInvoices(ctx context.Context, w io.Writer) error {
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return err
	}
	nameByID := make(map[string]string, len(snap.Clients))
	for _, c := range snap.Clients {
		nameByID[c.ID] = c.Name
	}

	headers := []string{"Folio", "Cliente", "Monto", "Fecha Emisión", "Fecha Vencimiento", "Fecha Pago", "Estado", "DPD"}
	rows := make([][]string, 0, len(snap.Invoices))
	for _, inv := range snap.Invoices {
		number := inv.Number
		if number == "" {
			number = emptyCell
		}
		clientName := nameByID[inv.ClientID]
		if clientName == "" {
			clientName = inv.ClientID
		}
		paidDate := emptyCell
		if inv.PaidDate != nil {
			paidDate = inv.PaidDate.Format("2006-01-02")
		}
		rows = append(rows, []string{
			number,
			clientName,
			inv.Amount.StringFixed(2),
			inv.IssueDate.Format("2006-01-02"),
			inv.DueDate.Format("2006-01-02"),
			paidDate,
			string(inv.Status),
			fmt.Sprintf("%d", inv.DPD),
		})
	}
	return writeCSV(w, headers, rows)
}

// ExportAdvisorKPIs 顾问组合报表
func (s *QueryService) ExportAdvisorKPIs(ctx context.Context, w io.Writer) error {
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return err
	}
	opts := domain.KPIOptions{Payments: snap.Payments, Today: time.Now()}

	headers := []string{"Asesor", "Email", "Clientes", "Cartera Total", "Monto Vencido", "% Vencido", "DPD Promedio", "Clientes en Riesgo"}
	rows := make([][]string, 0, len(snap.Advisors))
	for _, a := range snap.Advisors {
		kpi := domain.CalcAdvisorKPI(a, snap.Clients, snap.Invoices, opts)
		rows = append(rows, []string{
			a.Name,
			a.Email,
			fmt.Sprintf("%d", kpi.TotalClients),
			kpi.TotalPortfolio.StringFixed(2),
			kpi.OverdueAmount.StringFixed(2),
			fmt.Sprintf("%d", int(math.Round(kpi.OverdueRate))),
			fmt.Sprintf("%d", kpi.AverageDPD),
			fmt.Sprintf("%d", kpi.ClientsAtRisk),
		})
	}
	return writeCSV(w, headers, rows)
}
