package hardware

import (
	"fmt"
	"regexp"
	"strconv"

	"hwcatalog/internal/core/apperror"
)

// versionPattern is a double-quoted run of one to three digits.
var versionPattern = regexp.MustCompile(`^"(\d{1,3})"$`)

// VersionToken is the wire form of a record version, e.g. `"3"`.
// The quotes are part of the value.
type VersionToken struct {
	raw     string
	version int
}

// ParseVersionToken validates raw and extracts the enclosed version.
func ParseVersionToken(raw string) (VersionToken, error) {
	m := versionPattern.FindStringSubmatch(raw)
	if m == nil {
		return VersionToken{}, apperror.NewVersionInvalid(raw)
	}

	v, err := strconv.Atoi(m[1])
	if err != nil {
		return VersionToken{}, apperror.NewVersionInvalid(raw).WithCause(err)
	}

	return VersionToken{raw: raw, version: v}, nil
}

// Version returns the enclosed integer.
func (t VersionToken) Version() int { return t.version }

func (t VersionToken) String() string { return t.raw }

// FormatVersion renders v the way clients send it back, suitable for ETag.
func FormatVersion(v int) string {
	return fmt.Sprintf("%q", strconv.Itoa(v))
}
