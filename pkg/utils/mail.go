package utils

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/mailjet/mailjet-apiv3-go/v4"

	"coinbridge_back/pkg/repository"
)

// Канал сверки: если демон перевёл средства, а ledger не записал, деталей
// в обычных логах недостаточно — шлём письмо оператору с данными для ручной
// сверки по истории транзакций демона.

// SendReconciliationAlertMailjet отправляет письмо о расхождении через Mailjet.
func SendReconciliationAlertMailjet(e *repository.LedgerWriteError) {
	apiKey := os.Getenv("MAILJET_API_KEY")
	secretKey := os.Getenv("MAILJET_SECRET_KEY")
	fromEmail := os.Getenv("RECONCILE_MAIL_FROM")
	toEmail := os.Getenv("RECONCILE_MAIL_TO")
	if apiKey == "" || secretKey == "" || fromEmail == "" || toEmail == "" {
		logrus.Warn("Mailjet для канала сверки не настроен, письмо не отправлено")
		return
	}

	mj := mailjet.NewMailjetClient(apiKey, secretKey)
	messagesInfo := []mailjet.InfoMessagesV31{
		{
			From: &mailjet.RecipientV31{
				Email: fromEmail,
				Name:  "coinbridge",
			},
			To: &mailjet.RecipientsV31{
				{
					Email: toEmail,
					Name:  "Оператор",
				},
			},
			Subject:  "Требуется сверка: перевод без записи в ledger",
			TextPart: reconciliationBody(e),
		},
	}
	messages := &mailjet.MessagesV31{Info: messagesInfo}
	if _, err := mj.SendMailV31(messages); err != nil {
		logrus.Errorf("Ошибка при отправке письма сверки через Mailjet: %v", err)
		return
	}
	logrus.Info("Письмо сверки отправлено через Mailjet")
}

// SendReconciliationAlert — запасной канал через SMTP (gomail).
func SendReconciliationAlert(e *repository.LedgerWriteError) {
	from := os.Getenv("RECONCILE_MAIL_FROM")
	to := os.Getenv("RECONCILE_MAIL_TO")
	password := os.Getenv("SMTP_APP_PASSWORD")
	host := os.Getenv("SMTP_HOST")
	if from == "" || to == "" || password == "" || host == "" {
		logrus.Warn("SMTP для канала сверки не настроен, письмо не отправлено")
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Требуется сверка: перевод без записи в ledger")
	m.SetBody("text/plain", reconciliationBody(e))

	d := gomail.NewDialer(host, 587, from, password)
	if err := d.DialAndSend(m); err != nil {
		logrus.Errorf("Ошибка при отправке письма сверки: %v", err)
		return
	}
	logrus.Info("Письмо сверки отправлено")
}

func reconciliationBody(e *repository.LedgerWriteError) string {
	return fmt.Sprintf(
		"Демон выполнил перевод, но запись в ledger не удалась.\n\n"+
			"Вид: %s\nОткуда: %s\nКуда: %s\nСумма: %s %s\nХэш: %s\n\nОшибка: %v\n\n"+
			"Сверьте вручную с listtransactions по аккаунту отправителя.",
		e.Kind, e.FromAccount, e.Destination, e.Amount, e.Currency, e.TxHash, e.Err)
}
