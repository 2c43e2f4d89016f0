// Package blockcode maps exam grid coordinates to the block codes used in the
// SPA result files and back.
//
// The grid has three weeks of six weekdays (Monday to Saturday) with six
// slots per day. A coordinate is encoded as <DAY><WEEK>_<SLOT>, for example
// week 2, Thursday, slot 5 becomes "DO2_5". The table is built once at init
// and never changes.
package blockcode

import (
	"errors"
	"fmt"
)

const (
	Weeks       = 3
	DaysPerWeek = 6
	SlotsPerDay = 6
	// Size is the number of coordinates in the grid.
	Size = Weeks * DaysPerWeek * SlotsPerDay
)

// ErrNotFound is returned for codes or coordinates outside the grid.
var ErrNotFound = errors.New("block code not found")

// Weekday is a day of an exam week.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var abbreviations = [DaysPerWeek]string{"MO", "DI", "MI", "DO", "FR", "SA"}

var weekdayNames = [DaysPerWeek]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Valid reports whether d is one of Monday..Saturday.
func (d Weekday) Valid() bool { return d >= Monday && d <= Saturday }

// Abbrev returns the two letter abbreviation used in block codes.
func (d Weekday) Abbrev() string {
	if !d.Valid() {
		return "??"
	}
	return abbreviations[d]
}

func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// Coordinate addresses one timeslot of the grid. Week and Slot are 1-based.
type Coordinate struct {
	Week int     `json:"week"`
	Day  Weekday `json:"day"`
	Slot int     `json:"slot"`
}

// Valid reports whether c lies inside the grid.
func (c Coordinate) Valid() bool {
	return c.Week >= 1 && c.Week <= Weeks && c.Day.Valid() && c.Slot >= 1 && c.Slot <= SlotsPerDay
}

func (c Coordinate) String() string {
	return fmt.Sprintf("week %d %s slot %d", c.Week, c.Day, c.Slot)
}

var (
	ordered []Coordinate
	codes   map[Coordinate]string
	coords  map[string]Coordinate
)

func init() {
	ordered = make([]Coordinate, 0, Size)
	codes = make(map[Coordinate]string, Size)
	coords = make(map[string]Coordinate, Size)
	for w := 1; w <= Weeks; w++ {
		for d := Monday; d <= Saturday; d++ {
			for s := 1; s <= SlotsPerDay; s++ {
				c := Coordinate{Week: w, Day: d, Slot: s}
				code := fmt.Sprintf("%s%d_%d", d.Abbrev(), w, s)
				if _, dup := coords[code]; dup {
					panic("blockcode: duplicate code " + code)
				}
				ordered = append(ordered, c)
				codes[c] = code
				coords[code] = c
			}
		}
	}
	if len(codes) != Size || len(coords) != Size {
		panic("blockcode: table is not a bijection")
	}
}

// Code returns the block code of c.
func Code(c Coordinate) (string, error) {
	code, ok := codes[c]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, c)
	}
	return code, nil
}

// Lookup returns the coordinate encoded by code.
func Lookup(code string) (Coordinate, error) {
	c, ok := coords[code]
	if !ok {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrNotFound, code)
	}
	return c, nil
}

// All returns every coordinate in table order: week, then weekday, then slot.
func All() []Coordinate {
	out := make([]Coordinate, len(ordered))
	copy(out, ordered)
	return out
}
