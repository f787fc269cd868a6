package handlers

import (
	"github.com/gin-gonic/gin"

	"contractops/internal/core/apperror"
	"contractops/internal/core/clock"
	"contractops/internal/domain/reports"
	"contractops/internal/infrastructure/export"
)

// ReportsHandler serves the report endpoints. Every report renders as JSON
// by default; a format query of excel, csv or pdf downloads a file instead.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
	clock   clock.Clock
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service, clk clock.Clock) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service, clock: clk}
}

// RegisterRoutes mounts the report endpoints on the group.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/operations", h.Operations)
	rg.GET("/operations/:id", h.Details)
	rg.GET("/checks-payments", h.ChecksAndPayments)
	rg.GET("/guarantees", h.Guarantees)
	rg.GET("/warranties", h.Warranties)
	rg.GET("/clients", h.Clients)
	rg.GET("/financial", h.Financial)
}

// bindFormat parses the format query. A validation error is already
// registered when ok is false.
func (h *ReportsHandler) bindFormat(c *gin.Context) (export.Format, bool) {
	f, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		h.Error(c, apperror.NewValidation(err.Error()).WithDetail("param", "format"))
		return "", false
	}
	return f, true
}

// Format aliases the export format for handler signatures.
type Format = export.Format

// respond dispatches the already-built report to the matching export
// writer and streams the file.
func (h *ReportsHandler) respond(
	c *gin.Context,
	name string,
	f Format,
	excel, csv, pdf func() ([]byte, error),
) {
	var (
		data []byte
		err  error
	)
	switch f {
	case export.FormatExcel:
		data, err = excel()
	case export.FormatCSV:
		data, err = csv()
	case export.FormatPDF:
		data, err = pdf()
	}
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}
	h.Download(c, export.Filename(name, f, h.clock.Now()), f.ContentType(), data)
}

// Operations handles GET /reports/operations.
func (h *ReportsHandler) Operations(c *gin.Context) {
	f, ok := h.bindFormat(c)
	if !ok {
		return
	}

	report, err := h.service.Operations(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	if c.Query("format") == "" {
		h.OK(c, report)
		return
	}

	h.respond(c, "operations-report", f,
		func() ([]byte, error) { return export.OperationsExcel(report) },
		func() ([]byte, error) { return export.OperationsCSV(report) },
		func() ([]byte, error) { return export.OperationsPDF(report) },
	)
}

// Details handles GET /reports/operations/:id.
func (h *ReportsHandler) Details(c *gin.Context) {
	opID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	f, ok := h.bindFormat(c)
	if !ok {
		return
	}

	report, err := h.service.Details(c.Request.Context(), opID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if c.Query("format") == "" {
		h.OK(c, report)
		return
	}

	h.respond(c, "operation-report", f,
		func() ([]byte, error) { return export.DetailsExcel(report) },
		func() ([]byte, error) { return export.DetailsCSV(report) },
		func() ([]byte, error) { return export.DetailsPDF(report) },
	)
}

// ChecksAndPayments handles GET /reports/checks-payments.
func (h *ReportsHandler) ChecksAndPayments(c *gin.Context) {
	f, ok := h.bindFormat(c)
	if !ok {
		return
	}

	report, err := h.service.ChecksAndPayments(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	if c.Query("format") == "" {
		h.OK(c, report)
		return
	}

	h.respond(c, "checks-payments-report", f,
		func() ([]byte, error) { return export.ChecksAndPaymentsExcel(report) },
		func() ([]byte, error) { return export.ChecksAndPaymentsCSV(report) },
		func() ([]byte, error) { return export.ChecksAndPaymentsPDF(report) },
	)
}

// Guarantees handles GET /reports/guarantees.
func (h *ReportsHandler) Guarantees(c *gin.Context) {
	f, ok := h.bindFormat(c)
	if !ok {
		return
	}

	report, err := h.service.Guarantees(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	if c.Query("format") == "" {
		h.OK(c, report)
		return
	}

	h.respond(c, "guarantees-report", f,
		func() ([]byte, error) { return export.GuaranteesExcel(report) },
		func() ([]byte, error) { return export.GuaranteesCSV(report) },
		func() ([]byte, error) { return export.GuaranteesPDF(report) },
	)
}

// Warranties handles GET /reports/warranties.
func (h *ReportsHandler) Warranties(c *gin.Context) {
	f, ok := h.bindFormat(c)
	if !ok {
		return
	}

	report, err := h.service.Warranties(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	if c.Query("format") == "" {
		h.OK(c, report)
		return
	}

	h.respond(c, "warranties-report", f,
		func() ([]byte, error) { return export.WarrantiesExcel(report) },
		func() ([]byte, error) { return export.WarrantiesCSV(report) },
		func() ([]byte, error) { return export.WarrantiesPDF(report) },
	)
}

// Clients handles GET /reports/clients.
func (h *ReportsHandler) Clients(c *gin.Context) {
	f, ok := h.bindFormat(c)
	if !ok {
		return
	}

	report, err := h.service.Clients(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	if c.Query("format") == "" {
		h.OK(c, report)
		return
	}

	h.respond(c, "clients-report", f,
		func() ([]byte, error) { return export.ClientsExcel(report) },
		func() ([]byte, error) { return export.ClientsCSV(report) },
		func() ([]byte, error) { return export.ClientsPDF(report) },
	)
}

// Financial handles GET /reports/financial.
func (h *ReportsHandler) Financial(c *gin.Context) {
	f, ok := h.bindFormat(c)
	if !ok {
		return
	}

	report, err := h.service.Financial(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	if c.Query("format") == "" {
		h.OK(c, report)
		return
	}

	h.respond(c, "financial-report", f,
		func() ([]byte, error) { return export.FinancialExcel(report) },
		func() ([]byte, error) { return export.FinancialCSV(report) },
		func() ([]byte, error) { return export.FinancialPDF(report) },
	)
}
