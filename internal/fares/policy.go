package fares

import (
	"strings"

	"aerobook/internal/trips"
)

// ChangeFeeTable maps an airline to its per-class ticket change fees.
// Airline matching is a case-insensitive substring test so marketing
// variants ("VietJet Air", "Vietjet Aviation JSC") hit the same row.
type ChangeFeeTable struct {
	rows       []changeFeeRow
	defaultRow map[trips.SeatClass]float64
}

type changeFeeRow struct {
	airlineFragment string
	fees            map[trips.SeatClass]float64
}

// DefaultChangeFeeTable returns the built-in fee schedule. Carriers not
// listed fall through to the default row.
func DefaultChangeFeeTable() *ChangeFeeTable {
	return &ChangeFeeTable{
		rows: []changeFeeRow{
			{
				airlineFragment: "vietjet",
				fees: map[trips.SeatClass]float64{
					trips.ClassEconomy:    15,
					trips.ClassBusiness:   30,
					trips.ClassFirstClass: 50,
				},
			},
			{
				airlineFragment: "vietnam airlines",
				fees: map[trips.SeatClass]float64{
					trips.ClassEconomy:    20,
					trips.ClassBusiness:   40,
					trips.ClassFirstClass: 60,
				},
			},
			{
				airlineFragment: "bamboo",
				fees: map[trips.SeatClass]float64{
					trips.ClassEconomy:    12,
					trips.ClassBusiness:   25,
					trips.ClassFirstClass: 45,
				},
			},
		},
		defaultRow: map[trips.SeatClass]float64{
			trips.ClassEconomy:    25,
			trips.ClassBusiness:   50,
			trips.ClassFirstClass: 75,
		},
	}
}

// FeeFor returns the change fee for an airline and class. Unknown airlines
// use the default row; the class must be valid.
func (t *ChangeFeeTable) FeeFor(airline string, class trips.SeatClass) (float64, bool) {
	needle := strings.ToLower(strings.TrimSpace(airline))
	for _, row := range t.rows {
		if strings.Contains(needle, row.airlineFragment) {
			fee, ok := row.fees[class]
			return fee, ok
		}
	}
	fee, ok := t.defaultRow[class]
	return fee, ok
}
