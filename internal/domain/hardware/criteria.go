package hardware

import (
	"strconv"
	"strings"
)

// SearchCriteria maps field names to filter values as received from the wire.
// It is never persisted.
type SearchCriteria map[string]string

// Criteria keys with dedicated predicates.
const (
	KeyName   = "name"
	KeyRating = "rating"
	KeyPrice  = "price"
	KeyType   = "type"
	KeyTags   = "tags"
)

// FieldNames are the record fields that may be used as criteria keys.
var FieldNames = []string{
	"id", "version", KeyName, KeyType, "manufacturer", KeyPrice,
	KeyRating, "inStock", KeyTags, "created", "updated", "images",
}

// TagLiterals are tag values that may be used directly as criteria keys.
var TagLiterals = []string{"DDR4", "gaming", "high-speed", "reliable"}

var allowedKeys = func() map[string]struct{} {
	m := make(map[string]struct{}, len(FieldNames)+len(TagLiterals))
	for _, k := range FieldNames {
		m[k] = struct{}{}
	}
	for _, k := range TagLiterals {
		m[k] = struct{}{}
	}
	return m
}()

// IsTagLiteral reports whether key is one of the tag literals.
func IsTagLiteral(key string) bool {
	for _, t := range TagLiterals {
		if t == key {
			return true
		}
	}
	return false
}

// invalidKeys returns every key not on the allow-list.
func (c SearchCriteria) invalidKeys() []string {
	var bad []string
	for k := range c {
		if _, ok := allowedKeys[k]; !ok {
			bad = append(bad, k)
		}
	}
	return bad
}

// validType reports whether the type criterion, if any, is a known category.
func (c SearchCriteria) validType() bool {
	t, ok := c[KeyType]
	return !ok || Type(t).IsValid()
}

// ParseRating reads the leading integer of v, ignoring leading whitespace
// and anything after the digits, so "3.5" and "4abc" yield 3 and 4.
// ok is false when v does not start with an optionally signed digit run.
func ParseRating(v string) (rating int, ok bool) {
	v = strings.TrimLeft(v, " \t\n\r\v\f")
	end := 0
	if end < len(v) && (v[end] == '+' || v[end] == '-') {
		end++
	}
	digits := end
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(v[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
