package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"docclock-api/internal/model"
)

func newUser(name, email string, role model.Role) *model.User {
	return &model.User{
		ID:           uuid.NewString(),
		FullName:     name,
		Email:        email,
		Role:         role,
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	}
}

func newAppt(at time.Time, status model.Status, risk model.RiskLevel) *model.Appointment {
	return &model.Appointment{
		ID:              uuid.NewString(),
		PatientName:     "Pat",
		ProviderName:    "Doc",
		AppointmentTime: at,
		Reason:          "checkup",
		Location:        "clinic",
		Channel:         "in-person",
		Status:          status,
		RiskLevel:       risk,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
}

func TestMemoryUserRepo_DuplicateEmailCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryUserRepo("")

	if err := r.Create(ctx, newUser("A", "a@x.com", model.RolePatient)); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := r.Create(ctx, newUser("B", "A@X.COM", model.RolePatient))
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestMemoryUserRepo_GetByEmailCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryUserRepo("")
	u := newUser("A", "a@x.com", model.RolePatient)
	r.Create(ctx, u)

	got, err := r.GetByEmail(ctx, "A@X.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("id mismatch: %s vs %s", got.ID, u.ID)
	}
}

func TestMemoryUserRepo_GetByIDAndRole(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryUserRepo("")
	u := newUser("A", "a@x.com", model.RolePatient)
	r.Create(ctx, u)

	if _, err := r.GetByIDAndRole(ctx, u.ID, model.RolePatient); err != nil {
		t.Errorf("matching role: %v", err)
	}
	if _, err := r.GetByIDAndRole(ctx, u.ID, model.RoleProvider); !errors.Is(err, ErrNotFound) {
		t.Errorf("role mismatch should be ErrNotFound, got %v", err)
	}
	if _, err := r.GetByIDAndRole(ctx, "nope", model.RolePatient); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id should be ErrNotFound, got %v", err)
	}
}

func TestMemoryUserRepo_ListOrderAndFilter(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryUserRepo("")
	r.Create(ctx, newUser("Zoe Hart", "z@x.com", model.RoleProvider))
	r.Create(ctx, newUser("adam Bell", "a@x.com", model.RolePatient))
	r.Create(ctx, newUser("Mia Cole", "m@x.com", model.RoleProvider))

	all, err := r.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 users, got %d", len(all))
	}
	// case-insensitive full_name ordering
	if all[0].FullName != "adam Bell" || all[1].FullName != "Mia Cole" || all[2].FullName != "Zoe Hart" {
		t.Errorf("wrong order: %s, %s, %s", all[0].FullName, all[1].FullName, all[2].FullName)
	}

	providers, _ := r.List(ctx, model.RoleProvider)
	if len(providers) != 2 {
		t.Errorf("expected 2 providers, got %d", len(providers))
	}
}

func TestMemoryAppointmentRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryAppointmentRepo("")
	a := newAppt(time.Now().Add(time.Hour), model.StatusScheduled, model.RiskNone)

	if err := r.Create(ctx, a); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := r.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Reason != "checkup" {
		t.Errorf("reason: got %s", got.Reason)
	}

	got.Status = model.StatusCompleted
	if err := r.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := r.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := r.Get(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := r.Delete(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete should be ErrNotFound, got %v", err)
	}
}

func TestMemoryAppointmentRepo_ListFiltersAndOrder(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryAppointmentRepo("")
	base := time.Now().UTC()

	early := newAppt(base.Add(1*time.Hour), model.StatusScheduled, model.RiskHigh)
	late := newAppt(base.Add(3*time.Hour), model.StatusScheduled, model.RiskNone)
	cancelled := newAppt(base.Add(2*time.Hour), model.StatusCancelled, model.RiskHigh)
	pid := "patient-1"
	early.PatientUserID = &pid
	r.Create(ctx, late)
	r.Create(ctx, cancelled)
	r.Create(ctx, early)

	all, err := r.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3, got %d", len(all))
	}
	if !all[0].AppointmentTime.Before(all[1].AppointmentTime) || !all[1].AppointmentTime.Before(all[2].AppointmentTime) {
		t.Error("not ordered by appointment_time")
	}

	// filters are ANDed
	got, _ := r.List(ctx, Filter{Status: model.StatusScheduled, Risk: model.RiskHigh})
	if len(got) != 1 || got[0].ID != early.ID {
		t.Errorf("AND filter: expected only the early appointment, got %d", len(got))
	}

	got, _ = r.List(ctx, Filter{PatientID: pid})
	if len(got) != 1 || got[0].ID != early.ID {
		t.Errorf("patient filter: got %d", len(got))
	}

	got, _ = r.List(ctx, Filter{PatientID: "nobody"})
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
}

func TestMemoryRepos_PersistAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	users := NewMemoryUserRepo(dir)
	appts := NewMemoryAppointmentRepo(dir)
	u := newUser("A", "a@x.com", model.RolePatient)
	a := newAppt(time.Now().UTC().Truncate(time.Second), model.StatusScheduled, model.RiskLow)
	notes := "bring records"
	a.Notes = &notes
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := appts.Create(ctx, a); err != nil {
		t.Fatalf("create appt: %v", err)
	}

	// fresh instances over the same dir see the same data
	users2 := NewMemoryUserRepo(dir)
	appts2 := NewMemoryAppointmentRepo(dir)
	if err := users2.Load(); err != nil {
		t.Fatalf("load users: %v", err)
	}
	if err := appts2.Load(); err != nil {
		t.Fatalf("load appts: %v", err)
	}

	gotUser, err := users2.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if gotUser.Email != "a@x.com" {
		t.Errorf("email: got %s", gotUser.Email)
	}

	gotAppt, err := appts2.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("get appt: %v", err)
	}
	if gotAppt.Notes == nil || *gotAppt.Notes != "bring records" {
		t.Error("notes did not survive the round trip")
	}
	if !gotAppt.AppointmentTime.Equal(a.AppointmentTime) {
		t.Errorf("time mismatch: %v vs %v", gotAppt.AppointmentTime, a.AppointmentTime)
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUserRepo("")
	appts := NewMemoryAppointmentRepo("")

	if err := Seed(ctx, users, appts); err != nil {
		t.Fatalf("seed: %v", err)
	}

	nu, _ := users.Count(ctx)
	na, _ := appts.Count(ctx)
	if nu != 4 {
		t.Errorf("expected 4 users, got %d", nu)
	}
	if na != 3 {
		t.Errorf("expected 3 appointments, got %d", na)
	}

	// seeded appointments are linked to seeded users with canonical names
	all, _ := appts.List(ctx, Filter{})
	for _, a := range all {
		if a.PatientUserID == nil || a.ProviderUserID == nil {
			t.Errorf("appointment %q missing user link", a.Reason)
		}
	}

	// seeding again is a no-op
	if err := Seed(ctx, users, appts); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if nu2, _ := users.Count(ctx); nu2 != 4 {
		t.Errorf("second seed changed user count to %d", nu2)
	}
}
