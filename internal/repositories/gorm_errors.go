package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicate reports whether err is a unique constraint violation. Drivers
// opened with TranslateError report gorm.ErrDuplicatedKey; the message checks
// cover connections opened without it.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern turns key into a case-folded LIKE pattern matching it as a literal substring.
func likePattern(key string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(key)) + "%"
}
