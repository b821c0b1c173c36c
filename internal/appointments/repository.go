package appointments

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound indicates the requested appointment does not exist.
var ErrNotFound = errors.New("appointments: not found")

// Repository persists appointments to PostgreSQL.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a Postgres-backed appointment repository.
func NewRepository(db *sql.DB) *Repository {
	if db == nil {
		panic("appointments: db cannot be nil")
	}
	return &Repository{db: db}
}

// Save inserts the appointment and returns the generated booking identifier.
func (r *Repository) Save(ctx context.Context, appt Appointment) (string, error) {
	id := appt.ID
	if id == "" {
		id = uuid.NewString()
	}
	status := appt.Status
	if status == "" {
		status = StatusConfirmed
	}
	createdAt := appt.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	symptoms, err := json.Marshal(appt.Symptoms)
	if err != nil {
		return "", fmt.Errorf("appointments: encode symptoms: %w", err)
	}

	const query = `
		INSERT INTO appointments
			(id, patient_name, contact_number, preferred_date, preferred_time,
			 department, symptoms, severity, status, summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	if _, err := r.db.ExecContext(ctx, query,
		id, appt.PatientName, appt.ContactNumber, appt.PreferredDate, appt.PreferredTime,
		appt.Department, symptoms, appt.Severity, status, appt.Summary, createdAt,
	); err != nil {
		return "", fmt.Errorf("appointments: insert: %w", err)
	}
	return id, nil
}

// GetByID loads a single appointment by its booking identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	const query = `
		SELECT id, patient_name, contact_number, preferred_date, preferred_time,
		       department, symptoms, severity, status, summary, created_at
		FROM appointments
		WHERE id = $1`

	appt, err := scanAppointment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: load %s: %w", id, err)
	}
	return appt, nil
}

// ListRecent returns the newest appointments, most recent first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Appointment, error) {
	if limit <= 0 {
		limit = 50
	}

	const query = `
		SELECT id, patient_name, contact_number, preferred_date, preferred_time,
		       department, symptoms, severity, status, summary, created_at
		FROM appointments
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("appointments: list recent: %w", err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan row: %w", err)
		}
		out = append(out, *appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: iterate rows: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (*Appointment, error) {
	var appt Appointment
	var symptoms []byte
	if err := row.Scan(
		&appt.ID, &appt.PatientName, &appt.ContactNumber, &appt.PreferredDate,
		&appt.PreferredTime, &appt.Department, &symptoms, &appt.Severity,
		&appt.Status, &appt.Summary, &appt.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(symptoms) > 0 {
		if err := json.Unmarshal(symptoms, &appt.Symptoms); err != nil {
			return nil, fmt.Errorf("decode symptoms: %w", err)
		}
	}
	return &appt, nil
}
