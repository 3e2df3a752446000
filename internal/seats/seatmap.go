package seats

import (
	"fmt"
	"strings"

	"aerobook/internal/trips"
)

// SeatPosition classifies where a seat sits within its row.
type SeatPosition string

const (
	PositionWindow SeatPosition = "Window"
	PositionAisle  SeatPosition = "Aisle"
	PositionMiddle SeatPosition = "Middle"
)

// SeatsPerRow returns the fixed row width for a cabin class: Economy flies
// a 3-3 layout, Business and FirstClass a 2-2 layout.
func SeatsPerRow(class trips.SeatClass) int {
	switch class {
	case trips.ClassEconomy:
		return 6
	default:
		return 4
	}
}

// SeatRecord is one cell of a generated seat map.
type SeatRecord struct {
	SeatNumber   string       `json:"seat_number"`
	Row          int          `json:"row"`
	Column       int          `json:"column"`
	ColumnLetter string       `json:"column_letter"`
	IsAvailable  bool         `json:"is_available"`
	Position     SeatPosition `json:"position"`
}

// SeatMap is the transient per-request view of a cabin. It is regenerated
// on every read and must not be cached: occupancy changes concurrently.
type SeatMap struct {
	SeatClass   trips.SeatClass `json:"seat_class"`
	TotalSeats  int             `json:"total_seats"`
	SeatsPerRow int             `json:"seats_per_row"`
	Rows        int             `json:"rows"`
	Seats       []SeatRecord    `json:"seats"`
}

// GenerateSeatMap lays out totalSeats seats row-major from row 1, columns
// lettered A upward, and marks the given seat numbers as taken. Pure: no
// side effects, safe to call repeatedly.
func GenerateSeatMap(class trips.SeatClass, totalSeats int, bookedSeats []string) SeatMap {
	perRow := SeatsPerRow(class)
	rows := (totalSeats + perRow - 1) / perRow

	booked := make(map[string]struct{}, len(bookedSeats))
	for _, s := range bookedSeats {
		booked[strings.ToUpper(s)] = struct{}{}
	}

	seats := make([]SeatRecord, 0, totalSeats)
	for i := 0; i < totalSeats; i++ {
		row := i/perRow + 1
		col := i % perRow
		letter := string(rune('A' + col))
		number := fmt.Sprintf("%d%s", row, letter)

		_, taken := booked[strings.ToUpper(number)]
		seats = append(seats, SeatRecord{
			SeatNumber:   number,
			Row:          row,
			Column:       col,
			ColumnLetter: letter,
			IsAvailable:  !taken,
			Position:     classifyPosition(col, perRow),
		})
	}

	return SeatMap{
		SeatClass:   class,
		TotalSeats:  totalSeats,
		SeatsPerRow: perRow,
		Rows:        rows,
		Seats:       seats,
	}
}

// classifyPosition maps a column index to Window/Aisle/Middle. Edge columns
// are always Window. In the 6-wide layout C/D flank the aisle and B/E are
// middles; in the 4-wide layout B/C flank the aisle and no middles exist.
// Unknown row widths default interior columns to Middle.
func classifyPosition(col, perRow int) SeatPosition {
	if col == 0 || col == perRow-1 {
		return PositionWindow
	}
	switch perRow {
	case 6:
		if col == 2 || col == 3 {
			return PositionAisle
		}
		return PositionMiddle
	case 4:
		return PositionAisle
	default:
		return PositionMiddle
	}
}

// ValidSeatNumber reports whether seatNumber names a seat that exists in a
// cabin of totalSeats seats laid out for the class. Case-insensitive.
func ValidSeatNumber(class trips.SeatClass, totalSeats int, seatNumber string) bool {
	perRow := SeatsPerRow(class)

	s := strings.ToUpper(strings.TrimSpace(seatNumber))
	if len(s) < 2 {
		return false
	}

	letter := s[len(s)-1]
	if letter < 'A' || int(letter-'A') >= perRow {
		return false
	}

	row := 0
	for _, ch := range s[:len(s)-1] {
		if ch < '0' || ch > '9' {
			return false
		}
		row = row*10 + int(ch-'0')
	}
	if row < 1 {
		return false
	}

	index := (row-1)*perRow + int(letter-'A')
	return index < totalSeats
}
