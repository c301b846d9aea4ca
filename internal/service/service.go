package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docclock-api/internal/auth"
	"docclock-api/internal/model"
	"docclock-api/internal/store"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("appointment not found")
)

// LinkError reports a dangling or role-mismatched user reference on an
// appointment. It maps to a client error, never a retry.
type LinkError struct {
	Role model.Role
}

func (e *LinkError) Error() string {
	if e.Role == model.RolePatient {
		return "Patient does not exist"
	}
	return "Provider does not exist"
}

// Service owns the reconciliation rules between the user directory and the
// appointment ledger. Storage is behind the repository interfaces so the
// file-backed and Postgres backends are interchangeable.
type Service struct {
	users store.UserRepository
	appts store.AppointmentRepository
	risk  RiskPolicy
	now   func() time.Time
}

func New(users store.UserRepository, appts store.AppointmentRepository, risk RiskPolicy) *Service {
	return &Service{users: users, appts: appts, risk: risk, now: time.Now}
}

// -- User directory --

func (s *Service) Register(ctx context.Context, fullName, email, password string, role model.Role) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		ID:           uuid.NewString(),
		FullName:     strings.TrimSpace(fullName),
		Email:        email,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// Authenticate never reveals which of email, password or role was wrong.
func (s *Service) Authenticate(ctx context.Context, email, password string, role model.Role) (*model.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if u.Role != role {
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context, role model.Role) ([]model.User, error) {
	return s.users.List(ctx, role)
}

// -- Appointment ledger --

// CreateAppointment resolves user links to canonical names, falls back to a
// name match for an unlinked provider, and overwrites the caller's risk
// level with the policy's draw.
func (s *Service) CreateAppointment(ctx context.Context, draft *model.Appointment) (*model.Appointment, error) {
	a := *draft

	if a.PatientUserID != nil && *a.PatientUserID != "" {
		patient, err := s.users.GetByIDAndRole(ctx, *a.PatientUserID, model.RolePatient)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, &LinkError{Role: model.RolePatient}
			}
			return nil, err
		}
		a.PatientName = patient.FullName
	}

	if a.ProviderUserID != nil && *a.ProviderUserID != "" {
		provider, err := s.users.GetByIDAndRole(ctx, *a.ProviderUserID, model.RoleProvider)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, &LinkError{Role: model.RoleProvider}
			}
			return nil, err
		}
		a.ProviderName = provider.FullName
	} else {
		// No link supplied: an exact full-name match adopts the provider's
		// id but leaves the supplied name untouched.
		providers, err := s.users.List(ctx, model.RoleProvider)
		if err != nil {
			return nil, err
		}
		for _, p := range providers {
			if p.FullName == a.ProviderName {
				id := p.ID
				a.ProviderUserID = &id
				break
			}
		}
	}

	a.RiskLevel = s.risk.Assess(&a)
	if a.Status == "" {
		a.Status = model.StatusScheduled
	}
	a.ID = uuid.NewString()
	now := s.now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	if err := s.appts.Create(ctx, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateAppointment applies only the fields present in the patch. Supplied
// user links are re-validated and names re-derived exactly as on create; an
// explicit null unlinks without validation. Status and risk level pass
// through untouched by the risk policy.
func (s *Service) UpdateAppointment(ctx context.Context, id string, p *model.AppointmentPatch) (*model.Appointment, error) {
	a, err := s.appts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if p.PatientName != nil {
		a.PatientName = *p.PatientName
	}
	if p.ProviderName != nil {
		a.ProviderName = *p.ProviderName
	}
	if p.AppointmentTime != nil {
		a.AppointmentTime = *p.AppointmentTime
	}
	if p.Reason != nil {
		a.Reason = *p.Reason
	}
	if p.Location != nil {
		a.Location = *p.Location
	}
	if p.Channel != nil {
		a.Channel = *p.Channel
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.RiskLevel != nil {
		a.RiskLevel = *p.RiskLevel
	}
	if p.NotesSet {
		a.Notes = p.Notes
	}

	if p.PatientUserIDSet {
		if p.PatientUserID == nil || *p.PatientUserID == "" {
			a.PatientUserID = nil
		} else {
			patient, err := s.users.GetByIDAndRole(ctx, *p.PatientUserID, model.RolePatient)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return nil, &LinkError{Role: model.RolePatient}
				}
				return nil, err
			}
			a.PatientUserID = p.PatientUserID
			a.PatientName = patient.FullName
		}
	}

	if p.ProviderUserIDSet {
		if p.ProviderUserID == nil || *p.ProviderUserID == "" {
			a.ProviderUserID = nil
		} else {
			provider, err := s.users.GetByIDAndRole(ctx, *p.ProviderUserID, model.RoleProvider)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return nil, &LinkError{Role: model.RoleProvider}
				}
				return nil, err
			}
			a.ProviderUserID = p.ProviderUserID
			a.ProviderName = provider.FullName
		}
	}

	a.UpdatedAt = s.now().UTC()

	if err := s.appts.Update(ctx, a); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *Service) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	a, err := s.appts.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	return a, err
}

func (s *Service) DeleteAppointment(ctx context.Context, id string) error {
	err := s.appts.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Service) ListAppointments(ctx context.Context, f store.Filter) ([]model.Appointment, error) {
	return s.appts.List(ctx, f)
}

// -- Query/summary layer --

type Summary struct {
	Total         int                     `json:"total"`
	Active        int                     `json:"active"`
	Cancelled     int                     `json:"cancelled"`
	Completed     int                     `json:"completed"`
	RiskBreakdown map[model.RiskLevel]int `json:"risk_breakdown"`
}

// Summarize counts appointments by status bucket and risk level. Active
// means Scheduled or Rescheduled; CheckedIn is counted only in the total.
func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	appts, err := s.appts.List(ctx, store.Filter{})
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		Total:         len(appts),
		RiskBreakdown: make(map[model.RiskLevel]int, len(model.RiskLevels)),
	}
	for _, level := range model.RiskLevels {
		sum.RiskBreakdown[level] = 0
	}
	for _, a := range appts {
		switch a.Status {
		case model.StatusScheduled, model.StatusRescheduled:
			sum.Active++
		case model.StatusCancelled:
			sum.Cancelled++
		case model.StatusCompleted:
			sum.Completed++
		}
		sum.RiskBreakdown[a.RiskLevel]++
	}
	return sum, nil
}

// Counts backs the health endpoint.
func (s *Service) Counts(ctx context.Context) (users, appointments int, err error) {
	if users, err = s.users.Count(ctx); err != nil {
		return 0, 0, err
	}
	if appointments, err = s.appts.Count(ctx); err != nil {
		return 0, 0, err
	}
	return users, appointments, nil
}
