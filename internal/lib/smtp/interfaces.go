// Package smtp отправляет письма через SMTP-сервер.
package smtp

import "io"

// Client — часть *smtp.Client, нужная для отправки письма.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Dialer открывает авторизованную SMTP-сессию.
type Dialer interface {
	Connect() (Client, error)
	Sender() string
}
