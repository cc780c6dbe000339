package model

import (
	"strings"
	"time"
)

// NormalizeEmail folds an email to its canonical stored form. Every write and
// every lookup goes through this, so case variants hit the same row.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// User is the principal record. SchoolID is nil only for superadmins.
type User struct {
	ID            string
	SchoolID      *string
	Email         string
	PasswordHash  string
	FirstName     string
	LastName      string
	Role          Role
	Active        bool
	Blocked       bool
	ChatAvailable bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// School is the tenant. Its id is stable and never reused; deleting a school
// cascades to every row carrying its id.
type School struct {
	ID        string
	Code      string
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type RefreshSession struct {
	ID        string
	UserID    string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
	UserAgent *string
	IPAddress *string
}

type PasswordResetToken struct {
	ID        string
	UserID    string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
	UsedAt    *time.Time
}

type AttendanceRecord struct {
	ID         string
	SchoolID   string
	StudentID  string
	Date       time.Time
	Status     string
	RecordedBy string
	CreatedAt  time.Time
}

type TimetableSlot struct {
	ID        string
	SchoolID  string
	TeacherID string
	ClassName string
	Subject   string
	Weekday   int
	StartsAt  string
	EndsAt    string
	CreatedAt time.Time
}

type ReportCard struct {
	ID        string
	SchoolID  string
	StudentID string
	TeacherID string
	Term      string
	Subject   string
	Grade     string
	Remarks   string
	CreatedAt time.Time
}

type FeeRecord struct {
	ID          string
	SchoolID    string
	StudentID   string
	Description string
	AmountCents int64
	DueDate     time.Time
	PaidAt      *time.Time
	CreatedAt   time.Time
}

type SalaryRecord struct {
	ID          string
	SchoolID    string
	UserID      string
	Month       string
	AmountCents int64
	PaidAt      *time.Time
	CreatedAt   time.Time
}

type StudyMaterial struct {
	ID        string
	SchoolID  string
	TeacherID string
	ClassName string
	Title     string
	FileURL   string
	CreatedAt time.Time
}

type Event struct {
	ID          string
	SchoolID    string
	CreatedBy   string
	Title       string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	CreatedAt   time.Time
}

type Announcement struct {
	ID        string
	SchoolID  string
	CreatedBy string
	Title     string
	Body      string
	CreatedAt time.Time
}

type BusRoute struct {
	ID         string
	SchoolID   string
	Name       string
	DriverName string
	Stops      string
	CreatedAt  time.Time
}

const (
	ChatRequestPending  = "pending"
	ChatRequestAccepted = "accepted"
	ChatRequestDeclined = "declined"
)

type ChatRequest struct {
	ID          string
	SchoolID    string
	StudentID   string
	TeacherID   string
	Message     string
	Status      string
	CreatedAt   time.Time
	RespondedAt *time.Time
}

type Inquiry struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Message   string
	CreatedAt time.Time
}

// Curriculum is superadmin-published content. SchoolID nil means the entry is
// global and readable from every school.
type Curriculum struct {
	ID        string
	SchoolID  *string
	Title     string
	Body      string
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
