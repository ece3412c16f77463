// Package calendar provides the Spanish month vocabulary and the supported
// publication year range. BanRep publishes the haircut tables monthly with
// Spanish month names in the file slugs, so this is the canonical source for
// month spellings across the application.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// FirstYear is the first year with publicly available haircut publications.
const FirstYear = 2019

// Month describes one month of the publication calendar.
type Month struct {
	Num   int    `json:"num"`    // 1..12
	Num2D string `json:"num_2d"` // zero-padded, "01".."12"
	Name  string `json:"name"`   // lowercase Spanish long name
}

var months = []Month{
	{1, "01", "enero"},
	{2, "02", "febrero"},
	{3, "03", "marzo"},
	{4, "04", "abril"},
	{5, "05", "mayo"},
	{6, "06", "junio"},
	{7, "07", "julio"},
	{8, "08", "agosto"},
	{9, "09", "septiembre"},
	{10, "10", "octubre"},
	{11, "11", "noviembre"},
	{12, "12", "diciembre"},
}

// ErrInvalidMonth is returned when a month name is not one of the twelve
// canonical Spanish names.
type ErrInvalidMonth struct {
	Input string
}

func (e *ErrInvalidMonth) Error() string {
	return fmt.Sprintf("invalid month %q (expected one of %s)",
		e.Input, strings.Join(Names(), ", "))
}

// Months returns the twelve months in calendar order.
func Months() []Month {
	out := make([]Month, len(months))
	copy(out, months)
	return out
}

// Names returns the twelve lowercase Spanish month names in calendar order.
func Names() []string {
	names := make([]string, len(months))
	for i, m := range months {
		names[i] = m.Name
	}
	return names
}

// ByName looks up a month by its Spanish name (case-insensitive).
func ByName(name string) (Month, bool) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, m := range months {
		if m.Name == lower {
			return m, true
		}
	}
	return Month{}, false
}

// ByNumber looks up a month by number (1..12).
func ByNumber(n int) (Month, bool) {
	if n < 1 || n > 12 {
		return Month{}, false
	}
	return months[n-1], true
}

// ValidateMonth returns the canonical month for a user-supplied name, or an
// ErrInvalidMonth. This is the fail-fast input check: it must run before any
// network access.
func ValidateMonth(name string) (Month, error) {
	m, ok := ByName(name)
	if !ok {
		return Month{}, &ErrInvalidMonth{Input: name}
	}
	return m, nil
}

// Years returns the supported year range [FirstYear .. current year],
// oldest first.
func Years() []int {
	cur := time.Now().Year()
	var years []int
	for y := FirstYear; y <= cur; y++ {
		years = append(years, y)
	}
	return years
}
