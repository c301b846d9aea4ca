package model

import (
	"encoding/json"
	"time"
)

type Role string

const (
	RolePatient  Role = "patient"
	RoleProvider Role = "provider"
)

func (r Role) Valid() bool {
	return r == RolePatient || r == RoleProvider
}

type Status string

const (
	StatusScheduled   Status = "Scheduled"
	StatusRescheduled Status = "Rescheduled"
	StatusCheckedIn   Status = "CheckedIn"
	StatusCompleted   Status = "Completed"
	StatusCancelled   Status = "Cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusRescheduled, StatusCheckedIn, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type RiskLevel string

const (
	RiskNone   RiskLevel = "none"
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

func (r RiskLevel) Valid() bool {
	switch r {
	case RiskNone, RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// RiskLevels lists every level in severity order; summaries zero-fill from it.
var RiskLevels = []RiskLevel{RiskNone, RiskLow, RiskMedium, RiskHigh}

type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is the API view of a user. The credential never leaves the store.
type PublicUser struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// Appointment denormalizes patient/provider display names next to the
// optional user links so reads never need a join.
type Appointment struct {
	ID              string    `json:"id"`
	PatientName     string    `json:"patient_name"`
	ProviderName    string    `json:"provider_name"`
	PatientUserID   *string   `json:"patient_user_id"`
	ProviderUserID  *string   `json:"provider_user_id"`
	AppointmentTime time.Time `json:"appointment_time"`
	Reason          string    `json:"reason"`
	Location        string    `json:"location"`
	Channel         string    `json:"channel"`
	Status          Status    `json:"status"`
	RiskLevel       RiskLevel `json:"risk_level"`
	Notes           *string   `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AppointmentPatch carries a partial update. An absent field stays nil with
// its presence flag false; an explicit null arrives as nil with the flag
// true. The distinction only matters for the nullable fields: notes, and the
// two user links where null means unlink.
type AppointmentPatch struct {
	PatientName     *string
	ProviderName    *string
	AppointmentTime *time.Time
	Reason          *string
	Location        *string
	Channel         *string
	Status          *Status
	RiskLevel       *RiskLevel

	Notes    *string
	NotesSet bool

	PatientUserID    *string
	PatientUserIDSet bool

	ProviderUserID    *string
	ProviderUserIDSet bool
}

func (p *AppointmentPatch) UnmarshalJSON(data []byte) error {
	var fields struct {
		PatientName     *string    `json:"patient_name"`
		ProviderName    *string    `json:"provider_name"`
		AppointmentTime *time.Time `json:"appointment_time"`
		Reason          *string    `json:"reason"`
		Location        *string    `json:"location"`
		Channel         *string    `json:"channel"`
		Status          *Status    `json:"status"`
		RiskLevel       *RiskLevel `json:"risk_level"`
		Notes           *string    `json:"notes"`
		PatientUserID   *string    `json:"patient_user_id"`
		ProviderUserID  *string    `json:"provider_user_id"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}

	p.PatientName = fields.PatientName
	p.ProviderName = fields.ProviderName
	p.AppointmentTime = fields.AppointmentTime
	p.Reason = fields.Reason
	p.Location = fields.Location
	p.Channel = fields.Channel
	p.Status = fields.Status
	p.RiskLevel = fields.RiskLevel
	p.Notes = fields.Notes
	p.PatientUserID = fields.PatientUserID
	p.ProviderUserID = fields.ProviderUserID

	_, p.NotesSet = keys["notes"]
	_, p.PatientUserIDSet = keys["patient_user_id"]
	_, p.ProviderUserIDSet = keys["provider_user_id"]
	return nil
}
