package pricing

import "errors"

var (
	// ErrUnavailable — таймаут или ошибка соединения с сервисом.
	ErrUnavailable = errors.New("pricing service is unavailable")
	// ErrServerError — неуспешный статус ответа или ответ, который не удалось разобрать.
	ErrServerError = errors.New("pricing server error")
)

// Сообщения пользователю о недоступности сервиса.
const (
	MsgUnavailable = "Сервис оформления подписок недоступен."
	MsgServerError = "Сервер оформления подписок недоступен."
)

// DefaultRejectMessage подставляется, если сервис отклонил запрос без пояснения.
const DefaultRejectMessage = "Сервис оформления подписок отклонил запрос."

// RejectedError — сервис разобрал запрос и отказал в нём по бизнес-правилам.
// Message предназначено для показа пользователю без изменений.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return "pricing request rejected: " + e.Message
}

func newRejected(message string) *RejectedError {
	if message == "" {
		message = DefaultRejectMessage
	}
	return &RejectedError{Message: message}
}
