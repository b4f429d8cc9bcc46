package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-parking/internal/billing"
	"github.com/iliyamo/smart-parking/internal/mailer"
	"github.com/iliyamo/smart-parking/internal/model"
	"github.com/iliyamo/smart-parking/internal/repository"
)

// SettingsHandler implements the admin settings endpoints. Saves refresh
// the fee calculator and the mailer so changes take effect without a
// restart.
type SettingsHandler struct {
	Settings   *repository.SettingRepo
	Calculator *billing.Calculator
	Mailer     *mailer.Mailer
}

func NewSettingsHandler(s *repository.SettingRepo, calc *billing.Calculator, m *mailer.Mailer) *SettingsHandler {
	return &SettingsHandler{Settings: s, Calculator: calc, Mailer: m}
}

// knownSettingKeys is the accepted key set; unknown keys are rejected to
// keep the table from collecting typos.
var knownSettingKeys = map[string]bool{
	model.SettingCarRate:        true,
	model.SettingMotorRate:      true,
	model.SettingSMTPServer:     true,
	model.SettingSMTPPort:       true,
	model.SettingSenderEmail:    true,
	model.SettingSenderPassword: true,
	model.SettingEmailEnabled:   true,
}

// Get returns all settings with the sender password masked.
func (h *SettingsHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	all, err := h.Settings.GetAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if _, ok := all[model.SettingSenderPassword]; ok {
		all[model.SettingSenderPassword] = "********"
	}
	return c.JSON(http.StatusOK, all)
}

// Save validates and upserts the posted settings in one transaction, then
// reloads the calculator and mailer.
func (h *SettingsHandler) Save(c echo.Context) error {
	var req map[string]string
	if err := c.Bind(&req); err != nil || len(req) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	for k, v := range req {
		if !knownSettingKeys[k] {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown setting: " + k})
		}
		switch k {
		case model.SettingCarRate, model.SettingMotorRate:
			rate, err := strconv.ParseFloat(v, 64)
			if err != nil || rate <= 0 {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": k + " must be a positive number"})
			}
		case model.SettingSMTPPort:
			port, err := strconv.Atoi(v)
			if err != nil || port <= 0 || port > 65535 {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "smtp_port must be a valid port"})
			}
		case model.SettingEmailEnabled:
			if v != "true" && v != "false" {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "email_enabled must be true or false"})
			}
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Settings.SetMany(ctx, req); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}

	if err := h.Calculator.Reload(ctx, h.Settings); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reload rates failed"})
	}
	if err := h.Mailer.Reload(ctx, h.Settings); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reload mailer failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

type testEmailReq struct {
	Recipient string `json:"recipient"`
}

// TestEmail sends a short message to verify the SMTP settings.
func (h *SettingsHandler) TestEmail(c echo.Context) error {
	var req testEmailReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Recipient) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "recipient required"})
	}

	err := h.Mailer.Send(strings.TrimSpace(req.Recipient),
		"Smart Parking test email",
		"This is a test email from your Smart Parking installation. SMTP settings are working.",
		"")
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "send failed: " + err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "sent"})
}
