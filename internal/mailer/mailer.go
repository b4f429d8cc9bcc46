// Package mailer sends receipt emails over SMTP using the credentials
// stored in the settings table.
package mailer

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	gomail "gopkg.in/gomail.v2"

	"github.com/iliyamo/smart-parking/internal/model"
	"github.com/iliyamo/smart-parking/internal/repository"
)

// ErrDisabled is returned when email delivery is switched off in settings.
var ErrDisabled = errors.New("email delivery is disabled")

// ErrNotConfigured is returned when the SMTP sender or password is missing.
var ErrNotConfigured = errors.New("smtp sender credentials are not configured")

// ErrBadRecipient is returned when the recipient address is empty or
// malformed.
var ErrBadRecipient = errors.New("invalid recipient address")

// Config holds the SMTP connection parameters.
type Config struct {
	Server   string
	Port     int
	Sender   string
	Password string
	Enabled  bool
}

// Mailer delivers mail through a configured SMTP relay. Safe for
// concurrent use; Reload swaps the config atomically.
type Mailer struct {
	mu  sync.RWMutex
	cfg Config
}

// New returns a Mailer with the given initial config.
func New(cfg Config) *Mailer { return &Mailer{cfg: cfg} }

// Reload refreshes the SMTP config from the settings store.
func (m *Mailer) Reload(ctx context.Context, settings *repository.SettingRepo) error {
	all, err := settings.GetAll(ctx)
	if err != nil {
		return err
	}
	cfg := Config{
		Server:   all[model.SettingSMTPServer],
		Port:     587,
		Sender:   all[model.SettingSenderEmail],
		Password: all[model.SettingSenderPassword],
		Enabled:  all[model.SettingEmailEnabled] == "true",
	}
	if p, err := strconv.Atoi(all[model.SettingSMTPPort]); err == nil && p > 0 {
		cfg.Port = p
	}
	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()
	return nil
}

// Config returns a snapshot of the current SMTP config.
func (m *Mailer) Config() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// Validate reports whether delivery to the recipient can be attempted
// with the current config. Delivery fails closed: disabled or incomplete
// settings refuse to send rather than error out mid-dial.
func (m *Mailer) Validate(recipient string) error {
	cfg := m.Config()
	if !cfg.Enabled {
		return ErrDisabled
	}
	if cfg.Server == "" || cfg.Sender == "" || cfg.Password == "" {
		return ErrNotConfigured
	}
	if recipient == "" || !strings.Contains(recipient, "@") {
		return ErrBadRecipient
	}
	return nil
}

// Send delivers a plain-text message, optionally attaching a file. The
// dial uses STARTTLS when the server offers it.
func (m *Mailer) Send(recipient, subject, body, attachmentPath string) error {
	if err := m.Validate(recipient); err != nil {
		return err
	}
	cfg := m.Config()

	msg := gomail.NewMessage()
	msg.SetHeader("From", cfg.Sender)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	if attachmentPath != "" {
		msg.Attach(attachmentPath)
	}

	d := gomail.NewDialer(cfg.Server, cfg.Port, cfg.Sender, cfg.Password)
	return d.DialAndSend(msg)
}
