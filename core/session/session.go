package session

import (
	"errors"
	"time"
)

var (
	// ErrNoSession is returned when no user identity record has been persisted
	// locally. It is a terminal precondition failure for any remote call.
	ErrNoSession = errors.New("user not logged in")

	ErrExpired = errors.New("session has expired, log in again")
)

// Portal roles
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// Session is the locally held identity of the signed-in user. It is read from
// persistent storage and handed explicitly to every operation that needs it;
// operations never reach for a process-wide record themselves.
type Session struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Role    string    `json:"role"`
	Token   string    `json:"token"`
	SavedAt time.Time `json:"saved_at"` // UTC
}

func (s Session) IsZero() bool { return s.ID == "" }

func (s Session) IsTeacher() bool { return s.Role == RoleTeacher }

func (s Session) IsStudent() bool { return s.Role == RoleStudent }

// Check reports the typed precondition failure for an unusable session.
func (s Session) Check() error {
	if s.IsZero() {
		return ErrNoSession
	}
	return nil
}

// Store persists the single local session record.
type Store interface {
	// Get returns the current session; ErrNoSession when none is persisted.
	Get() (Session, error)
	Save(Session) error
	Clear() error
}
