package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"docclock-api/internal/model"
)

// PGAppointmentRepo is the Postgres appointment ledger.
type PGAppointmentRepo struct {
	pool *pgxpool.Pool
}

func NewPGAppointmentRepo(pool *pgxpool.Pool) *PGAppointmentRepo {
	return &PGAppointmentRepo{pool: pool}
}

const apptColumns = `id, patient_name, provider_name, patient_user_id, provider_user_id,
	appointment_time, reason, location, channel, status, risk_level, notes,
	created_at, updated_at`

func (r *PGAppointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO appointments (`+apptColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		a.ID, a.PatientName, a.ProviderName, a.PatientUserID, a.ProviderUserID,
		a.AppointmentTime, a.Reason, a.Location, a.Channel, a.Status, a.RiskLevel, a.Notes,
		a.CreatedAt, a.UpdatedAt,
	)
	return err
}

func (r *PGAppointmentRepo) Get(ctx context.Context, id string) (*model.Appointment, error) {
	a := &model.Appointment{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+apptColumns+` FROM appointments WHERE id = $1`, id,
	).Scan(
		&a.ID, &a.PatientName, &a.ProviderName, &a.PatientUserID, &a.ProviderUserID,
		&a.AppointmentTime, &a.Reason, &a.Location, &a.Channel, &a.Status, &a.RiskLevel, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *PGAppointmentRepo) Update(ctx context.Context, a *model.Appointment) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE appointments
		 SET patient_name=$1, provider_name=$2, patient_user_id=$3, provider_user_id=$4,
		     appointment_time=$5, reason=$6, location=$7, channel=$8, status=$9,
		     risk_level=$10, notes=$11, updated_at=$12
		 WHERE id=$13`,
		a.PatientName, a.ProviderName, a.PatientUserID, a.ProviderUserID,
		a.AppointmentTime, a.Reason, a.Location, a.Channel, a.Status,
		a.RiskLevel, a.Notes, a.UpdatedAt, a.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGAppointmentRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGAppointmentRepo) List(ctx context.Context, f Filter) ([]model.Appointment, error) {
	q := `SELECT ` + apptColumns + ` FROM appointments`
	var conds []string
	var args []any
	add := func(expr string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(expr, len(args)))
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Risk != "" {
		add("risk_level = $%d", f.Risk)
	}
	if f.PatientID != "" {
		add("patient_user_id = $%d", f.PatientID)
	}
	if f.ProviderID != "" {
		add("provider_user_id = $%d", f.ProviderID)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY appointment_time"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(
			&a.ID, &a.PatientName, &a.ProviderName, &a.PatientUserID, &a.ProviderUserID,
			&a.AppointmentTime, &a.Reason, &a.Location, &a.Channel, &a.Status, &a.RiskLevel, &a.Notes,
			&a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PGAppointmentRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM appointments`).Scan(&n)
	return n, err
}

var _ AppointmentRepository = (*PGAppointmentRepo)(nil)
var _ AppointmentRepository = (*MemoryAppointmentRepo)(nil)
