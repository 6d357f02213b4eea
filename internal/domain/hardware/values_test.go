package hardware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hwcatalog/internal/core/apperror"
)

func TestParseVersionToken(t *testing.T) {
	valid := map[string]int{`"0"`: 0, `"7"`: 7, `"42"`: 42, `"999"`: 999, `"007"`: 7}
	for raw, want := range valid {
		vt, err := ParseVersionToken(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, vt.Version())
		assert.Equal(t, raw, vt.String())
	}

	for _, raw := range []string{"5", `"abcd"`, `"12345"`, `"1000"`, `""`, `'1'`, ` "1"`, `"1"x`} {
		_, err := ParseVersionToken(raw)
		assert.True(t, apperror.IsVersionInvalid(err), raw)
	}
}

func TestFormatVersion(t *testing.T) {
	assert.Equal(t, `"3"`, FormatVersion(3))

	vt, err := ParseVersionToken(FormatVersion(12))
	require.NoError(t, err)
	assert.Equal(t, 12, vt.Version())
}

func TestParseID(t *testing.T) {
	id, err := ParseID("12345678901")
	require.NoError(t, err)
	assert.EqualValues(t, 12345678901, id)

	for _, s := range []string{"", "0", "01", "123456789012", "-1", "1a", " 1"} {
		_, err := ParseID(s)
		assert.True(t, apperror.IsNotFound(err), s)
	}
}

func TestNewPageable(t *testing.T) {
	tests := []struct {
		number, size string
		want         Pageable
	}{
		{"", "", Pageable{Number: DefaultPageNumber, Size: DefaultPageSize}},
		{"2", "10", Pageable{Number: 2, Size: 10}},
		{"x", "y", Pageable{Number: DefaultPageNumber, Size: DefaultPageSize}},
		{"-1", "-5", Pageable{Number: DefaultPageNumber, Size: DefaultPageSize}},
		{"1", "0", Pageable{Number: 1, Size: 0}},
		{"0", "1000", Pageable{Number: 0, Size: MaxPageSize}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewPageable(tt.number, tt.size), "number=%q size=%q", tt.number, tt.size)
	}
	assert.Equal(t, 20, Pageable{Number: 2, Size: 10}.Offset())
}

func TestNewPage(t *testing.T) {
	s := Slice[int]{Content: []int{1, 2}, TotalElements: 5}

	p := NewPage(s, Pageable{Number: 2, Size: 2})
	assert.Equal(t, PageInfo{Size: 2, Number: 2, TotalElements: 5, TotalPages: 3}, p.Page)

	p = NewPage(Slice[int]{Content: []int{1, 2, 3}, TotalElements: 3}, Unpaged)
	assert.Equal(t, 1, p.Page.TotalPages)
}

func TestSearchCriteria_Validation(t *testing.T) {
	assert.Empty(t, SearchCriteria{"name": "a", "DDR4": "true", "inStock": "true", "images": "x"}.invalidKeys())
	assert.ElementsMatch(t, []string{"foo", "InStock"}, SearchCriteria{"foo": "1", "InStock": "1"}.invalidKeys())

	assert.True(t, SearchCriteria{}.validType())
	assert.True(t, SearchCriteria{"type": "POWER_SUPPLY"}.validType())
	assert.False(t, SearchCriteria{"type": "MONITOR"}.validType())
}

func TestType_IsValid(t *testing.T) {
	require.Len(t, Types, 10)
	for _, typ := range Types {
		assert.True(t, typ.IsValid(), typ)
	}
	assert.False(t, Type("").IsValid())
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"4", 4, true},
		{" 3", 3, true},
		{"3.5", 3, true},
		{"4abc", 4, true},
		{"+2", 2, true},
		{"-1", -1, true},
		{"abc", 0, false},
		{"", 0, false},
		{"-", 0, false},
		{".5", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseRating(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
