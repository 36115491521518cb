package divelog

import (
	"context"
	"database/sql"
)

var _ Store = (*Postgres)(nil)

// Postgres implements Store using PostgreSQL. The user_id predicate is part
// of every statement, so ownership filtering happens atomically with the row
// access itself.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// fieldColumns lists the optional columns in the order used everywhere below.
const fieldColumns = `date, country, site, entry_time, exit_time, bottom_time, ` +
	`max_depth, avg_depth, water_temp, visibility, weather, current, ` +
	`cylinder_pressure_start, cylinder_pressure_end, gas, tank_type, weight, ` +
	`suit, computer, buddy, guide, operator, notes, rating`

const fieldPlaceholders = `$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25`

func fieldArgs(f Fields) []any {
	return []any{
		f.Date, f.Country, f.Site, f.EntryTime, f.ExitTime, f.BottomTime,
		f.MaxDepth, f.AvgDepth, f.WaterTemp, f.Visibility, f.Weather, f.Current,
		f.CylinderPressureStart, f.CylinderPressureEnd, f.Gas, f.TankType, f.Weight,
		f.Suit, f.Computer, f.Buddy, f.Guide, f.Operator, f.Notes, f.Rating,
	}
}

func fieldDests(f *Fields) []any {
	return []any{
		&f.Date, &f.Country, &f.Site, &f.EntryTime, &f.ExitTime, &f.BottomTime,
		&f.MaxDepth, &f.AvgDepth, &f.WaterTemp, &f.Visibility, &f.Weather, &f.Current,
		&f.CylinderPressureStart, &f.CylinderPressureEnd, &f.Gas, &f.TankType, &f.Weight,
		&f.Suit, &f.Computer, &f.Buddy, &f.Guide, &f.Operator, &f.Notes, &f.Rating,
	}
}

func (s *Postgres) List(ctx context.Context, userID int64) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, user_id, `+fieldColumns+` from dive_logs where user_id=$1 order by id desc`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Record
	for rows.Next() {
		var rec Record
		dests := append([]any{&rec.ID, &rec.UserID}, fieldDests(&rec.Fields)...)
		if err := rows.Scan(dests...); err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

func (s *Postgres) Create(ctx context.Context, userID int64, fields Fields) (Record, error) {
	rec := Record{UserID: userID, Fields: fields}
	args := append([]any{userID}, fieldArgs(fields)...)
	err := s.db.QueryRowContext(ctx,
		`insert into dive_logs(user_id, `+fieldColumns+`) values($1,`+fieldPlaceholders+`) returning id`,
		args...,
	).Scan(&rec.ID)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Postgres) Delete(ctx context.Context, userID, recordID int64) error {
	res, err := s.db.ExecContext(ctx,
		`delete from dive_logs where id=$1 and user_id=$2`, recordID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
