package httpapi

import (
	"context"
	"time"

	"campus/server/internal/model"
	"campus/server/internal/repository"
	"campus/server/internal/scope"
)

// Store is the persistence surface the handlers consume. *repository.Store is
// the production implementation; tests run against an in-memory one.
type Store interface {
	// Users.
	CreateUser(ctx context.Context, user model.User) error
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByID(ctx context.Context, userID string) (model.User, error)
	GetUser(ctx context.Context, userID string, sc scope.Scope) (model.User, error)
	ListUsers(ctx context.Context, sc scope.Scope, role string, limit, offset int) ([]model.User, int, error)
	UpdateUser(ctx context.Context, userID string, update repository.UserUpdate, sc scope.Scope) (model.User, error)
	UpdateUserPassword(ctx context.Context, userID, passwordHash string) error
	DeactivateUser(ctx context.Context, userID string, sc scope.Scope) error
	SetUserBlocked(ctx context.Context, userID string, blocked bool, sc scope.Scope) error
	SetChatAvailability(ctx context.Context, userID string, available bool) error
	CountUsersByRole(ctx context.Context, sc scope.Scope, role model.Role) (int, error)

	// Sessions and reset tokens.
	CreateRefreshSession(ctx context.Context, session model.RefreshSession) error
	GetRefreshSession(ctx context.Context, tokenHash string) (model.RefreshSession, error)
	RevokeRefreshSession(ctx context.Context, sessionID string, revokedAt time.Time) error
	RevokeRefreshSessionsByUser(ctx context.Context, userID string, revokedAt time.Time) error
	CreatePasswordResetToken(ctx context.Context, token model.PasswordResetToken) error
	GetPasswordResetToken(ctx context.Context, tokenHash string) (model.PasswordResetToken, error)
	MarkPasswordResetTokenUsed(ctx context.Context, tokenID string, usedAt time.Time) error

	// Schools.
	CreateSchool(ctx context.Context, school model.School) error
	GetSchool(ctx context.Context, schoolID string) (model.School, error)
	ListSchools(ctx context.Context, limit, offset int) ([]model.School, int, error)
	UpdateSchool(ctx context.Context, schoolID string, update repository.SchoolUpdate) (model.School, error)
	DeleteSchool(ctx context.Context, schoolID string) error

	// Academics.
	CreateAttendanceRecord(ctx context.Context, record model.AttendanceRecord) error
	ListAttendance(ctx context.Context, sc scope.Scope, month, limit, offset int) ([]model.AttendanceRecord, int, error)
	CreateTimetableSlot(ctx context.Context, slot model.TimetableSlot) error
	ListTimetable(ctx context.Context, sc scope.Scope, limit, offset int) ([]model.TimetableSlot, int, error)
	CreateReportCard(ctx context.Context, card model.ReportCard) error
	ListReportCards(ctx context.Context, sc scope.Scope, limit, offset int) ([]model.ReportCard, int, error)
	CreateStudyMaterial(ctx context.Context, material model.StudyMaterial) error
	ListStudyMaterials(ctx context.Context, sc scope.Scope, limit, offset int) ([]model.StudyMaterial, int, error)

	// Finance.
	CreateFeeRecord(ctx context.Context, fee model.FeeRecord) error
	ListFeeRecords(ctx context.Context, sc scope.Scope, limit, offset int) ([]model.FeeRecord, int, error)
	MarkFeePaid(ctx context.Context, feeID string, paidAt time.Time, sc scope.Scope) error
	DeleteFeeRecord(ctx context.Context, feeID string, sc scope.Scope) error
	CreateSalaryRecord(ctx context.Context, salary model.SalaryRecord) error
	ListSalaryRecords(ctx context.Context, sc scope.Scope, limit, offset int) ([]model.SalaryRecord, int, error)
	MarkSalaryPaid(ctx context.Context, salaryID string, paidAt time.Time, sc scope.Scope) error

	// Community.
	CreateEvent(ctx context.Context, event model.Event) error
	ListEvents(ctx context.Context, sc scope.Scope, limit, offset int) ([]model.Event, int, error)
	DeleteEvent(ctx context.Context, eventID string, sc scope.Scope) error
	CreateAnnouncement(ctx context.Context, announcement model.Announcement) error
	ListAnnouncements(ctx context.Context, sc scope.Scope, limit, offset int) ([]model.Announcement, int, error)
	DeleteAnnouncement(ctx context.Context, announcementID string, sc scope.Scope) error
	CreateBusRoute(ctx context.Context, route model.BusRoute) error
	ListBusRoutes(ctx context.Context, sc scope.Scope, limit, offset int) ([]model.BusRoute, int, error)
	DeleteBusRoute(ctx context.Context, routeID string, sc scope.Scope) error
	CreateChatRequest(ctx context.Context, request model.ChatRequest) error
	ListChatRequests(ctx context.Context, sc scope.Scope, limit, offset int) ([]model.ChatRequest, int, error)
	ListChatRequestsByStudent(ctx context.Context, sc scope.Scope, limit, offset int) ([]model.ChatRequest, int, error)
	UpdateChatRequestStatus(ctx context.Context, requestID, status string, respondedAt time.Time, sc scope.Scope) error
	CreateInquiry(ctx context.Context, inquiry model.Inquiry) error
	ListInquiries(ctx context.Context, limit, offset int) ([]model.Inquiry, int, error)

	// Curricula.
	CreateCurriculum(ctx context.Context, curriculum model.Curriculum) error
	ListCurricula(ctx context.Context, limit, offset int) ([]model.Curriculum, int, error)
	ListPublishedCurricula(ctx context.Context, sc scope.Scope, limit, offset int) ([]model.Curriculum, int, error)
	GetCurriculum(ctx context.Context, curriculumID string) (model.Curriculum, error)
	GetPublishedCurriculum(ctx context.Context, curriculumID string, sc scope.Scope) (model.Curriculum, error)
	UpdateCurriculum(ctx context.Context, curriculumID string, update repository.CurriculumUpdate) (model.Curriculum, error)
	DeleteCurriculum(ctx context.Context, curriculumID string) error
}
