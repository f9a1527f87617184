package notify

import (
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Notifier announces a newly published post to subscriber emails.
// Implementations must not block the calling request and must not
// surface transport failures to it; they log and move on.
type Notifier interface {
	NotifyNewPost(title, content string, recipients []string)
}

type SendGridNotifier struct {
	apiKey string
	from   string
	log    *slog.Logger
}

func NewSendGridNotifier(apiKey, from string, log *slog.Logger) *SendGridNotifier {
	return &SendGridNotifier{apiKey: apiKey, from: from, log: log}
}

func (n *SendGridNotifier) NotifyNewPost(title, content string, recipients []string) {
	if len(recipients) == 0 {
		return
	}
	go n.send(title, content, recipients)
}

func (n *SendGridNotifier) send(title, content string, recipients []string) {
	client := sendgrid.NewSendClient(n.apiKey)
	from := sgmail.NewEmail("Blog", n.from)
	subject := "New Post Published"
	body := fmt.Sprintf("A new post titled %q has been published on our blog.\n\n%s", title, content)
	for _, rcpt := range recipients {
		msg := sgmail.NewSingleEmail(from, subject, sgmail.NewEmail("", rcpt), body, body)
		resp, err := client.Send(msg)
		if err != nil {
			n.log.Error("send notification email", "recipient", rcpt, "error", err)
			continue
		}
		if resp.StatusCode >= 400 {
			n.log.Error("notification email rejected", "recipient", rcpt, "status", resp.StatusCode)
		}
	}
	n.log.Info("subscribers notified", "title", title, "count", len(recipients))
}

// LogNotifier is used when no SendGrid API key is configured.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyNewPost(title, content string, recipients []string) {
	n.log.Info("new post notification (email disabled)", "title", title, "recipients", len(recipients))
}
