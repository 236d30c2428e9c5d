package service

import (
	"fmt"
	"time"

	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/go-playground/validator/v10"
)

// Notifier pushes real-time events to every connection of a user
type Notifier interface {
	Notify(userID, eventType string, payload interface{})
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, string, interface{}) {}

func orNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

// Clock time source; services keep timestamps in UTC
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

var validate = validator.New()

// validateStruct runs struct tag validation and maps failures to ErrInvalidInput
func validateStruct(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}
	return nil
}

const (
	DefaultMessageLimit = 50
	MaxMessageLimit     = 500
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultMessageLimit
	}
	if limit > MaxMessageLimit {
		return MaxMessageLimit
	}
	return limit
}
