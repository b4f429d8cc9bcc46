package model

// Setting keys recognized by the service. Rates feed the fee calculator;
// the smtp_* and email_* keys feed the mailer.
const (
	SettingCarRate        = "car_rate"
	SettingMotorRate      = "motor_rate"
	SettingSMTPServer     = "smtp_server"
	SettingSMTPPort       = "smtp_port"
	SettingSenderEmail    = "sender_email"
	SettingSenderPassword = "sender_password"
	SettingEmailEnabled   = "email_enabled"
)
