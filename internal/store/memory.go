package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"docclock-api/internal/model"
)

// MemoryUserRepo keeps users in a map and mirrors every mutation to a JSON
// file. An empty dir disables persistence, which is what tests use.
type MemoryUserRepo struct {
	mu    sync.RWMutex
	path  string
	users map[string]model.User
}

func NewMemoryUserRepo(dir string) *MemoryUserRepo {
	r := &MemoryUserRepo{users: make(map[string]model.User)}
	if dir != "" {
		r.path = filepath.Join(dir, "users.json")
	}
	return r
}

// Load reads the backing file if it exists. Call once at startup.
func (r *MemoryUserRepo) Load() error {
	if r.path == "" {
		return nil
	}
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", r.path, err)
	}
	var users []model.User
	if err := json.Unmarshal(data, &users); err != nil {
		return fmt.Errorf("parse %s: %w", r.path, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = make(map[string]model.User, len(users))
	for _, u := range users {
		r.users[u.ID] = u
	}
	return nil
}

// Flush rewrites the backing file. Mutations flush themselves; this exists
// for the shutdown path.
func (r *MemoryUserRepo) Flush() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.flushLocked()
}

func (r *MemoryUserRepo) flushLocked() error {
	if r.path == "" {
		return nil
	}
	users := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0o644)
}

func (r *MemoryUserRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return ErrDuplicateEmail
		}
	}
	r.users[u.ID] = *u
	return r.flushLocked()
}

func (r *MemoryUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepo) GetByIDAndRole(_ context.Context, id string, role model.Role) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok || u.Role != role {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepo) List(_ context.Context, role model.Role) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		if role != "" && u.Role != role {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].FullName) < strings.ToLower(out[j].FullName)
	})
	return out, nil
}

func (r *MemoryUserRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}

// MemoryAppointmentRepo is the file-backed appointment ledger.
type MemoryAppointmentRepo struct {
	mu    sync.RWMutex
	path  string
	appts map[string]model.Appointment
}

func NewMemoryAppointmentRepo(dir string) *MemoryAppointmentRepo {
	r := &MemoryAppointmentRepo{appts: make(map[string]model.Appointment)}
	if dir != "" {
		r.path = filepath.Join(dir, "appointments.json")
	}
	return r
}

func (r *MemoryAppointmentRepo) Load() error {
	if r.path == "" {
		return nil
	}
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", r.path, err)
	}
	var appts []model.Appointment
	if err := json.Unmarshal(data, &appts); err != nil {
		return fmt.Errorf("parse %s: %w", r.path, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appts = make(map[string]model.Appointment, len(appts))
	for _, a := range appts {
		r.appts[a.ID] = a
	}
	return nil
}

func (r *MemoryAppointmentRepo) Flush() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.flushLocked()
}

func (r *MemoryAppointmentRepo) flushLocked() error {
	if r.path == "" {
		return nil
	}
	appts := make([]model.Appointment, 0, len(r.appts))
	for _, a := range r.appts {
		appts = append(appts, a)
	}
	sort.Slice(appts, func(i, j int) bool { return appts[i].ID < appts[j].ID })
	data, err := json.MarshalIndent(appts, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0o644)
}

func (r *MemoryAppointmentRepo) Create(_ context.Context, a *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appts[a.ID] = *a
	return r.flushLocked()
}

func (r *MemoryAppointmentRepo) Get(_ context.Context, id string) (*model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.appts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r *MemoryAppointmentRepo) Update(_ context.Context, a *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appts[a.ID]; !ok {
		return ErrNotFound
	}
	r.appts[a.ID] = *a
	return r.flushLocked()
}

func (r *MemoryAppointmentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appts[id]; !ok {
		return ErrNotFound
	}
	delete(r.appts, id)
	return r.flushLocked()
}

func (r *MemoryAppointmentRepo) List(_ context.Context, f Filter) ([]model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Appointment, 0, len(r.appts))
	for _, a := range r.appts {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Risk != "" && a.RiskLevel != f.Risk {
			continue
		}
		if f.PatientID != "" && (a.PatientUserID == nil || *a.PatientUserID != f.PatientID) {
			continue
		}
		if f.ProviderID != "" && (a.ProviderUserID == nil || *a.ProviderUserID != f.ProviderID) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AppointmentTime.Before(out[j].AppointmentTime)
	})
	return out, nil
}

func (r *MemoryAppointmentRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.appts), nil
}
