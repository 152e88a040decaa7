package email

import (
	"fmt"
	"net/smtp"

	"github.com/Dan9191/aurora/internal/config"
	"github.com/Dan9191/aurora/internal/models"
	"github.com/Dan9191/aurora/internal/utils"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendSubscriptionReminder tells a user that a subscription is about to bill.
func (s *Sender) SendSubscriptionReminder(r *models.SubscriptionReminder) error {
	e := s.reminderEmail(r)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send reminder for subscription %d to %s: %v", r.ID, r.Email, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", r.Email, e.Subject)
	return nil
}

func (s *Sender) reminderEmail(r *models.SubscriptionReminder) *email.Email {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{r.Email}
	e.Subject = fmt.Sprintf("Recordatorio: %s se cobra pronto", r.Name)

	body := fmt.Sprintf("Hola %s,\n\n", r.UserName)
	body += fmt.Sprintf(
		"Tu suscripción %s por %s (%s) se cobrará el %s.\n"+
			"Asegúrate de tener fondos disponibles o cancélala si ya no la usas.\n",
		r.Name, utils.FormatMoney(r.Amount, r.Currency), periodLabel(r.Period), r.NextBillingDate.Format("2006-01-02"),
	)
	body += "\nSaludos,\nAurora Finance"
	e.Text = []byte(body)
	return e
}

func periodLabel(p models.Period) string {
	if p == models.PeriodYearly {
		return "anual"
	}
	return "mensual"
}
