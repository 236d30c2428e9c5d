package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chatfusion/chatfusion-backend/internal/common"
	"gorm.io/gorm"
)

// translate maps driver errors onto the common taxonomy. notFound is returned
// for gorm.ErrRecordNotFound so callers get an entity-specific error.
func translate(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case isDuplicateKey(err):
		return fmt.Errorf("%w: %v", common.ErrDuplicate, err)
	case isCheckViolation(err):
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	case errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrInvalidInput),
		errors.Is(err, common.ErrForbidden), errors.Is(err, common.ErrDuplicate):
		return err
	default:
		return fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}
}

// isDuplicateKey detects unique constraint violations across sqlite and mysql,
// with or without gorm's TranslateError.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Duplicate entry")
}

// isCheckViolation matches the sqlite and mysql wording for CHECK failures
func isCheckViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "CHECK constraint failed") || strings.Contains(msg, "Check constraint")
}

// likeJSONElement is the WHERE fragment used with jsonContains.
const likeJSONElement = " LIKE ? ESCAPE '!'"

// jsonContains builds a LIKE pattern matching a quoted id inside a JSON string array.
// It only narrows candidates; callers must confirm membership on the decoded list.
func jsonContains(id string) string {
	r := strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)
	return `%"` + r.Replace(id) + `"%`
}
