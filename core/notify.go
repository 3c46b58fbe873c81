package core

// Notification levels.
const (
	NotifySuccess = "success"
	NotifyError   = "error"
)

// Notification is a non-blocking, user-facing event report: the outcome of an
// action, never an escalation. Message is human-readable; when the remote LMS
// supplied a message it is used verbatim, otherwise a generic one is set.
type Notification struct {
	Level   string
	Title   string
	Message string
}

// Notifier delivers notifications. Implementations must not block the caller
// and must not fail the action being reported on.
type Notifier interface {
	Notify(n Notification)
}

func SuccessNotification(title, msg string) Notification {
	return Notification{Level: NotifySuccess, Title: title, Message: msg}
}

func ErrorNotification(title, msg string) Notification {
	return Notification{Level: NotifyError, Title: title, Message: msg}
}
