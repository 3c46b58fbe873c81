// Package notifysvc delivers workspace notifications (the toasts of the web
// client) to whatever channels are configured.
package notifysvc

import (
	"fmt"
	"net/mail"

	"github.com/trezcool/darasa/core"
)

// ConsoleNotifier writes notifications to the application log.
type ConsoleNotifier struct {
	logger core.Logger
}

var _ core.Notifier = (*ConsoleNotifier)(nil)

func NewConsoleNotifier(logger core.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{logger: logger}
}

func (n ConsoleNotifier) Notify(notif core.Notification) {
	msg := fmt.Sprintf("[%s] %s: %s", notif.Level, notif.Title, notif.Message)
	if notif.Level == core.NotifyError {
		n.logger.Warn(msg)
		return
	}
	n.logger.Info(msg)
}

// EmailNotifier mails each notification to the configured address. Useful
// when the workspace runs headless and nobody watches the log.
type EmailNotifier struct {
	mailSvc core.EmailService
	to      mail.Address
}

var _ core.Notifier = (*EmailNotifier)(nil)

func NewEmailNotifier(mailSvc core.EmailService, conf *core.Config) *EmailNotifier {
	return &EmailNotifier{
		mailSvc: mailSvc,
		to:      mail.Address{Address: conf.NotifyEmailAddr},
	}
}

func (n EmailNotifier) Notify(notif core.Notification) {
	if n.to.Address == "" {
		return
	}
	n.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{n.to},
		Subject: notif.Title,
		BodyStr: notif.Message,
	})
}

// MultiNotifier fans a notification out to every channel.
type MultiNotifier []core.Notifier

var _ core.Notifier = (MultiNotifier)(nil)

func NewMultiNotifier(notifiers ...core.Notifier) MultiNotifier {
	return MultiNotifier(notifiers)
}

func (n MultiNotifier) Notify(notif core.Notification) {
	for _, notifier := range n {
		notifier.Notify(notif)
	}
}

// Recorder collects notifications for assertions in tests.
type Recorder struct {
	Notifications []core.Notification
}

var _ core.Notifier = (*Recorder)(nil)

func (n *Recorder) Notify(notif core.Notification) {
	n.Notifications = append(n.Notifications, notif)
}

// Last returns the most recent notification, or a zero value when none.
func (n *Recorder) Last() core.Notification {
	if len(n.Notifications) == 0 {
		return core.Notification{}
	}
	return n.Notifications[len(n.Notifications)-1]
}
