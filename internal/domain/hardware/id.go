package hardware

import (
	"regexp"
	"strconv"

	"hwcatalog/internal/core/apperror"
)

// IDPattern matches a record identity: 1 to 11 digits without a leading zero.
var IDPattern = regexp.MustCompile(`^[1-9]\d{0,10}$`)

// ParseID validates s against IDPattern and converts it.
// A malformed identity cannot match any record, so it is reported as not found.
func ParseID(s string) (int64, error) {
	if !IDPattern.MatchString(s) {
		return 0, apperror.NewNotFound(entityName, s)
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, apperror.NewNotFound(entityName, s).WithCause(err)
	}
	return id, nil
}
