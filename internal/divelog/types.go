package divelog

import "errors"

// ErrNotFound covers both a missing record and a record owned by someone
// else; the two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("divelog: record not found")

// Fields is the caller-supplied portion of a dive record. Every field is an
// optional free-form string; the schema performs no type coercion, a
// permissiveness inherited from the existing data. A nil field is absent,
// never an empty string.
type Fields struct {
	Date                  *string `json:"date,omitempty"`
	Country               *string `json:"country,omitempty"`
	Site                  *string `json:"site,omitempty"`
	EntryTime             *string `json:"entry_time,omitempty"`
	ExitTime              *string `json:"exit_time,omitempty"`
	BottomTime            *string `json:"bottom_time,omitempty"`
	MaxDepth              *string `json:"max_depth,omitempty"`
	AvgDepth              *string `json:"avg_depth,omitempty"`
	WaterTemp             *string `json:"water_temp,omitempty"`
	Visibility            *string `json:"visibility,omitempty"`
	Weather               *string `json:"weather,omitempty"`
	Current               *string `json:"current,omitempty"`
	CylinderPressureStart *string `json:"cylinder_pressure_start,omitempty"`
	CylinderPressureEnd   *string `json:"cylinder_pressure_end,omitempty"`
	Gas                   *string `json:"gas,omitempty"`
	TankType              *string `json:"tank_type,omitempty"`
	Weight                *string `json:"weight,omitempty"`
	Suit                  *string `json:"suit,omitempty"`
	Computer              *string `json:"computer,omitempty"`
	Buddy                 *string `json:"buddy,omitempty"`
	Guide                 *string `json:"guide,omitempty"`
	Operator              *string `json:"operator,omitempty"`
	Notes                 *string `json:"notes,omitempty"`
	Rating                *string `json:"rating,omitempty"`
}

// Record is a persisted dive log entry. The owner reference never leaves the
// service; clients only ever see their own records.
type Record struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"-"`
	Fields
}
