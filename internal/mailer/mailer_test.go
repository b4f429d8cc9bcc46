package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFailsClosed(t *testing.T) {
	cases := []struct {
		name      string
		cfg       Config
		recipient string
		want      error
	}{
		{
			name:      "disabled",
			cfg:       Config{Server: "smtp.example.com", Port: 587, Sender: "a@b.c", Password: "x", Enabled: false},
			recipient: "user@example.com",
			want:      ErrDisabled,
		},
		{
			name:      "missing sender",
			cfg:       Config{Server: "smtp.example.com", Port: 587, Password: "x", Enabled: true},
			recipient: "user@example.com",
			want:      ErrNotConfigured,
		},
		{
			name:      "missing password",
			cfg:       Config{Server: "smtp.example.com", Port: 587, Sender: "a@b.c", Enabled: true},
			recipient: "user@example.com",
			want:      ErrNotConfigured,
		},
		{
			name:      "empty recipient",
			cfg:       Config{Server: "smtp.example.com", Port: 587, Sender: "a@b.c", Password: "x", Enabled: true},
			recipient: "",
			want:      ErrBadRecipient,
		},
		{
			name:      "recipient without at sign",
			cfg:       Config{Server: "smtp.example.com", Port: 587, Sender: "a@b.c", Password: "x", Enabled: true},
			recipient: "not-an-address",
			want:      ErrBadRecipient,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := New(tc.cfg)
			assert.ErrorIs(t, m.Validate(tc.recipient), tc.want)
		})
	}
}

func TestValidateOK(t *testing.T) {
	m := New(Config{Server: "smtp.example.com", Port: 587, Sender: "a@b.c", Password: "x", Enabled: true})
	assert.NoError(t, m.Validate("user@example.com"))
}

func TestSendRefusesWithoutConfig(t *testing.T) {
	m := New(Config{})
	err := m.Send("user@example.com", "subject", "body", "")
	assert.ErrorIs(t, err, ErrDisabled)
}
