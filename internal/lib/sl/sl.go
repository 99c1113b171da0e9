// Package sl — атрибуты slog, общие для всех пакетов портала.
package sl

import "log/slog"

// Err кладёт текст ошибки под ключ "error"; для nil значение пустое.
//
//	log.Error("failed to save subscription", sl.Err(err))
func Err(err error) slog.Attr {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return slog.String("error", msg)
}

// PartnerID возвращает атрибут с идентификатором партнёра.
func PartnerID(id int64) slog.Attr {
	return slog.Int64("partner_id", id)
}
