package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-parking/internal/config"
	"github.com/iliyamo/smart-parking/internal/export"
	"github.com/iliyamo/smart-parking/internal/repository"
)

// ReportHandler implements the admin reporting endpoints: revenue
// aggregates, occupancy and table exports.
type ReportHandler struct {
	Cfg      config.Config
	Payments *repository.PaymentRepo
	Vehicles *repository.VehicleRepo
	Slots    *repository.SlotRepo
}

func NewReportHandler(cfg config.Config, p *repository.PaymentRepo, v *repository.VehicleRepo, s *repository.SlotRepo) *ReportHandler {
	return &ReportHandler{Cfg: cfg, Payments: p, Vehicles: v, Slots: s}
}

// Revenue returns total revenue and payment count for an optional
// ?from/?to paid-at range.
func (h *ReportHandler) Revenue(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	stats, err := h.Payments.Revenue(ctx, strings.TrimSpace(c.QueryParam("from")), strings.TrimSpace(c.QueryParam("to")))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, stats)
}

// DailyRevenue returns revenue bucketed per day over the last ?days days
// (default 7).
func (h *ReportHandler) DailyRevenue(c echo.Context) error {
	days := 7
	if v := c.QueryParam("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 365 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "days must be between 1 and 365"})
		}
		days = n
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	series, err := h.Payments.RevenueByDay(ctx, days)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, series)
}

// Occupancy returns current slot occupancy counts.
func (h *ReportHandler) Occupancy(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	stats, err := h.Slots.Occupancy(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, stats)
}

type exportReq struct {
	Table  string `json:"table"`  // payments | vehicles | slots
	Format string `json:"format"` // pdf | xlsx
}

// Export renders one of the core tables to a PDF or XLSX file under the
// export directory and returns the artifact path.
func (h *ReportHandler) Export(c echo.Context) error {
	var req exportReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	table := strings.ToLower(strings.TrimSpace(req.Table))
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format != "pdf" && format != "xlsx" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "format must be pdf or xlsx"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	var (
		title   string
		headers []string
		rows    [][]string
	)
	switch table {
	case "payments":
		payments, err := h.Payments.List(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		title = "Payments"
		headers = []string{"ID", "Vehicle", "Amount", "Paid At", "Hours", "Operator", "Method"}
		for _, p := range payments {
			rows = append(rows, []string{
				strconv.FormatUint(p.ID, 10), p.VehicleNumber,
				fmt.Sprintf("%.2f", p.Amount), p.PaidAt,
				fmt.Sprintf("%.2f", p.DurationHours), p.GeneratedBy, p.PaymentMethod,
			})
		}
	case "vehicles":
		sessions, err := h.Vehicles.List(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		title = "Vehicle Sessions"
		headers = []string{"ID", "Number", "Type", "Operator", "Entry", "Exit"}
		for _, s := range sessions {
			exit := ""
			if s.ExitTime != nil {
				exit = *s.ExitTime
			}
			rows = append(rows, []string{
				strconv.FormatUint(s.ID, 10), s.Number, s.Type, s.Username, s.EntryTime, exit,
			})
		}
	case "slots":
		slots, err := h.Slots.List(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		title = "Slots"
		headers = []string{"ID", "Name", "Allowed", "Status", "Hourly Rate"}
		for _, s := range slots {
			rows = append(rows, []string{
				strconv.FormatUint(s.ID, 10), s.Name, s.TypeAllowed, s.Status,
				fmt.Sprintf("%.2f", s.HourlyRate),
			})
		}
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table must be payments, vehicles or slots"})
	}

	name := fmt.Sprintf("%s_%s.%s", table, time.Now().UTC().Format("20060102_150405"), format)
	path := filepath.Join(h.Cfg.ExportDir, name)

	var exportErr error
	if format == "pdf" {
		exportErr = export.TablePDF(path, title, headers, rows)
	} else {
		exportErr = export.TableXLSX(path, title, headers, rows)
	}
	if exportErr != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "export failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"path": path})
}
