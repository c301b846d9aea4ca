package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"docclock-api/internal/auth"
	"docclock-api/internal/model"
)

// Seed loads the demo dataset: two patients, two providers and three linked
// appointments. Each half is skipped when its table already has rows, so the
// call is safe at every startup.
func Seed(ctx context.Context, users UserRepository, appts AppointmentRepository) error {
	if err := seedUsers(ctx, users); err != nil {
		return err
	}
	return seedAppointments(ctx, users, appts)
}

func seedUsers(ctx context.Context, users UserRepository) error {
	n, err := users.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	now := time.Now().UTC()
	samples := []struct {
		fullName string
		email    string
		role     model.Role
		password string
	}{
		{"Jordan Carter", "jordan@docclock.health", model.RolePatient, "patient123"},
		{"Ava Mitchell", "ava@docclock.health", model.RolePatient, "patient123"},
		{"Dr. Emilia Wong", "emilia.wong@docclock.health", model.RoleProvider, "provider123"},
		{"Dr. Rishi Patel", "rishi.patel@docclock.health", model.RoleProvider, "provider123"},
	}
	for _, s := range samples {
		hash, err := auth.HashPassword(s.password)
		if err != nil {
			return err
		}
		u := &model.User{
			ID:           uuid.NewString(),
			FullName:     s.fullName,
			Email:        s.email,
			Role:         s.role,
			PasswordHash: hash,
			CreatedAt:    now,
		}
		if err := users.Create(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", s.email, err)
		}
	}
	return nil
}

func seedAppointments(ctx context.Context, users UserRepository, appts AppointmentRepository) error {
	n, err := appts.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	now := time.Now().UTC()
	samples := []struct {
		patientEmail  string
		providerEmail string
		at            time.Time
		reason        string
		location      string
		status        model.Status
		risk          model.RiskLevel
		notes         string
	}{
		{
			"jordan@docclock.health", "emilia.wong@docclock.health",
			now.Add(4 * time.Hour),
			"Chronic migraine follow-up", "UVA Neurology - Pavilion II",
			model.StatusScheduled, model.RiskHigh,
			"Missed last two appointments, commute > 1 hr",
		},
		{
			"ava@docclock.health", "rishi.patel@docclock.health",
			now.Add(26 * time.Hour),
			"Post-op wound check", "UVA Surgical Center",
			model.StatusRescheduled, model.RiskLow,
			"Confirmed via SMS",
		},
		{
			"jordan@docclock.health", "emilia.wong@docclock.health",
			now.Add(51 * time.Hour),
			"Dermatology consult", "UVA Dermatology",
			model.StatusScheduled, model.RiskMedium,
			"Transit reliability score low",
		},
	}
	for _, s := range samples {
		a := &model.Appointment{
			ID:              uuid.NewString(),
			PatientName:     s.patientEmail,
			ProviderName:    s.providerEmail,
			AppointmentTime: s.at,
			Reason:          s.reason,
			Location:        s.location,
			Channel:         "in-person",
			Status:          s.status,
			RiskLevel:       s.risk,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		notes := s.notes
		a.Notes = &notes
		if patient, err := users.GetByEmail(ctx, s.patientEmail); err == nil {
			a.PatientName = patient.FullName
			id := patient.ID
			a.PatientUserID = &id
		}
		if provider, err := users.GetByEmail(ctx, s.providerEmail); err == nil {
			a.ProviderName = provider.FullName
			id := provider.ID
			a.ProviderUserID = &id
		}
		if err := appts.Create(ctx, a); err != nil {
			return fmt.Errorf("seed appointment %q: %w", s.reason, err)
		}
	}
	return nil
}
