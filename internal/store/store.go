package store

import (
	"context"
	"errors"

	"docclock-api/internal/model"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository is the user directory. Email matching is case-insensitive
// everywhere; List orders by full name ascending.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByIDAndRole(ctx context.Context, id string, role model.Role) (*model.User, error)
	List(ctx context.Context, role model.Role) ([]model.User, error)
	Count(ctx context.Context) (int, error)
}

// Filter holds the appointment list predicates. Zero values mean "no filter";
// set filters are ANDed.
type Filter struct {
	Status     model.Status
	Risk       model.RiskLevel
	PatientID  string
	ProviderID string
}

// AppointmentRepository is the appointment ledger. List orders by
// appointment time ascending.
type AppointmentRepository interface {
	Create(ctx context.Context, a *model.Appointment) error
	Get(ctx context.Context, id string) (*model.Appointment, error)
	Update(ctx context.Context, a *model.Appointment) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f Filter) ([]model.Appointment, error)
	Count(ctx context.Context) (int, error)
}
