package core

// Logger is any leveled logger the app can report through.
// Implementations may inspect args for known types (errors, session info)
// and forward them to an external monitoring service.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
