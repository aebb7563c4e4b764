package views

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/eproduct/internal/common"
)

type Level int

const (
	Info Level = iota
	Success
	Failure
)

func (l Level) String() string {
	switch l {
	case Success:
		return "success"
	case Failure:
		return "error"
	default:
		return "info"
	}
}

type Notification struct {
	Level   Level
	Message string
}

func (n Notification) String() string {
	return fmt.Sprintf("[%s] %s", n.Level, n.Message)
}

type Notifier interface {
	Notify(n Notification)
}

type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// UserMessage picks what the user sees for err. Auth and validation
// failures carry their own message; anything else gets fallback.
func UserMessage(err error, fallback string) string {
	var ae *common.AuthError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	var ve *common.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	return fallback
}
