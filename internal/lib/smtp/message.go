package smtp

import (
	"fmt"
	"mime"
	"strings"
)

// Message — текстовое письмо в UTF-8.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Bytes собирает письмо с заголовками.
func (m Message) Bytes(from string) []byte {
	return []byte(strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(m.To, ", "),
		"Subject: " + mime.BEncoding.Encode("UTF-8", m.Subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		m.Body,
	}, "\r\n"))
}

// Send открывает сессию через d и отправляет письмо.
func Send(d Dialer, m Message) error {
	const op = "smtp.Send"

	if len(m.To) == 0 {
		return fmt.Errorf("%s: no recipients", op)
	}

	client, err := d.Connect()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer client.Close()

	from := d.Sender()
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("%s: mail from: %w", op, err)
	}
	for _, addr := range m.To {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("%s: rcpt %s: %w", op, addr, err)
		}
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("%s: data: %w", op, err)
	}
	if _, err := wc.Write(m.Bytes(from)); err != nil {
		return fmt.Errorf("%s: write: %w", op, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("%s: close data: %w", op, err)
	}
	if err := client.Quit(); err != nil {
		return fmt.Errorf("%s: quit: %w", op, err)
	}
	return nil
}
