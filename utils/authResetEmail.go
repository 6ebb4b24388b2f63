package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// SendResetCodeEmail mails the one-time password-reset code. SMTP settings
// come from the environment so deployments can switch providers without a
// rebuild.
func SendResetCodeEmail(email, code string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	smtpPort, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		return fmt.Errorf("invalid SMTP_PORT value: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "ControlMed - Código de restablecimiento de contraseña")

	m.SetBody("text/plain", "Tu código de restablecimiento es: "+code)
	m.AddAlternative("text/html", resetCodeHTML(code))

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	return d.DialAndSend(m)
}

func resetCodeHTML(code string) string {
	return `
	<!DOCTYPE html>
	<html>
	<head>
		<title>Código de restablecimiento</title>
		<style>
			body {
				font-family: Arial, sans-serif;
				background-color: #f4f4f4;
				margin: 0;
				padding: 0;
			}
			.container {
				background-color: #ffffff;
				margin: 20px auto;
				padding: 20px;
				border-radius: 8px;
				box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);
				max-width: 600px;
			}
			h1 {
				color: #333333;
			}
			p {
				color: #666666;
			}
			.code {
				font-weight: bold;
				color: #007bff;
			}
		</style>
	</head>
	<body>
		<div class="container">
			<h1>ControlMed</h1>
			<p>Tu código de restablecimiento de contraseña es:</p>
			<p class="code">` + code + `</p>
			<p>Si no has solicitado restablecer tu contraseña, ignora este correo.</p>
		</div>
	</body>
	</html>
	`
}
