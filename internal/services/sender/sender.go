// Package sender отправляет партнёрам письма о зафиксированных продажах.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/partner-portal/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/partner-portal/internal/lib/sl"
	"github.com/magabrotheeeer/partner-portal/internal/lib/smtp"
	"github.com/magabrotheeeer/partner-portal/internal/models"
)

const subjectSale = "Новая продажа в партнёрском кабинете"

type Service struct {
	dialer smtp.Dialer
	log    *slog.Logger
}

func New(log *slog.Logger, dialer smtp.Dialer) *Service {
	return &Service{dialer: dialer, log: log}
}

// HandleSubscriptionCreated разбирает событие из очереди и отправляет письмо.
// Неразбираемое событие отбрасывается (rabbitmq.ErrDiscard), ошибка отправки
// возвращает сообщение в очередь.
func (s *Service) HandleSubscriptionCreated(body []byte) error {
	const op = "sender.HandleSubscriptionCreated"

	var event models.SubscriptionCreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("%s: error unmarshalling message: %w: %w", op, rabbitmq.ErrDiscard, err)
	}
	if event.PartnerEmail == "" {
		// без адреса письмо не отправить, повтор ничего не изменит
		s.log.Warn("event without partner email dropped", slog.String("event_id", event.EventID))
		return nil
	}

	msg := smtp.Message{
		To:      []string{event.PartnerEmail},
		Subject: subjectSale,
		Body: fmt.Sprintf("Здравствуйте!\n\nКлиент %s подписан на тариф «%s» на %d мес.\nСтоимость: %s ₽.\nНомер подписки: %d.",
			event.ClientEmail, event.TariffName, event.Period, event.TotalPrice.StringFixed(2), event.SubscriptionID),
	}
	if err := smtp.Send(s.dialer, msg); err != nil {
		s.log.Error("failed to send sale email", sl.PartnerID(event.PartnerID), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("sale email sent", sl.PartnerID(event.PartnerID), slog.Int64("subscription_id", event.SubscriptionID))
	return nil
}
