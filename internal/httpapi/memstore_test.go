package httpapi

import (
	"context"
	"sync"
	"time"

	"campus/server/internal/model"
	"campus/server/internal/repository"
	"campus/server/internal/scope"
)

// memStore implements Store in memory for handler tests.
type memStore struct {
	mu sync.Mutex

	users         []model.User
	schools       []model.School
	sessions      []model.RefreshSession
	resetTokens   []model.PasswordResetToken
	attendance    []model.AttendanceRecord
	timetable     []model.TimetableSlot
	reportCards   []model.ReportCard
	materials     []model.StudyMaterial
	fees          []model.FeeRecord
	salaries      []model.SalaryRecord
	events        []model.Event
	announcements []model.Announcement
	busRoutes     []model.BusRoute
	chatRequests  []model.ChatRequest
	inquiries     []model.Inquiry
	curricula     []model.Curriculum
}

func newMemStore() *memStore {
	return &memStore{}
}

func rowSchool(schoolID *string) string {
	if schoolID == nil {
		return ""
	}
	return *schoolID
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func (m *memStore) CreateUser(_ context.Context, user model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return repository.ErrConflict
		}
	}
	m.users = append(m.users, user)
	return nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memStore) GetUserByID(_ context.Context, userID string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memStore) GetUser(_ context.Context, userID string, sc scope.Scope) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == userID && sc.AllowsSchool(rowSchool(user.SchoolID)) && sc.AllowsOwner(user.ID) {
			return user, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memStore) ListUsers(_ context.Context, sc scope.Scope, role string, limit, offset int) ([]model.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []model.User
	for _, user := range m.users {
		if !sc.AllowsSchool(rowSchool(user.SchoolID)) {
			continue
		}
		if role != "" && string(user.Role) != role {
			continue
		}
		matched = append(matched, user)
	}
	return paginate(matched, limit, offset), len(matched), nil
}

func (m *memStore) UpdateUser(_ context.Context, userID string, update repository.UserUpdate, sc scope.Scope) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, user := range m.users {
		if user.ID != userID || !sc.AllowsSchool(rowSchool(user.SchoolID)) {
			continue
		}
		if update.Email != nil {
			m.users[i].Email = *update.Email
		}
		if update.PasswordHash != nil {
			m.users[i].PasswordHash = *update.PasswordHash
		}
		if update.FirstName != nil {
			m.users[i].FirstName = *update.FirstName
		}
		if update.LastName != nil {
			m.users[i].LastName = *update.LastName
		}
		return m.users[i], nil
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memStore) UpdateUserPassword(_ context.Context, userID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, user := range m.users {
		if user.ID == userID {
			m.users[i].PasswordHash = passwordHash
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) DeactivateUser(_ context.Context, userID string, sc scope.Scope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, user := range m.users {
		if user.ID == userID && sc.AllowsSchool(rowSchool(user.SchoolID)) {
			m.users[i].Active = false
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) SetUserBlocked(_ context.Context, userID string, blocked bool, sc scope.Scope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, user := range m.users {
		if user.ID == userID && sc.AllowsSchool(rowSchool(user.SchoolID)) {
			m.users[i].Blocked = blocked
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) SetChatAvailability(_ context.Context, userID string, available bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, user := range m.users {
		if user.ID == userID {
			m.users[i].ChatAvailable = available
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) CountUsersByRole(_ context.Context, sc scope.Scope, role model.Role) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, user := range m.users {
		if user.Role == role && sc.AllowsSchool(rowSchool(user.SchoolID)) {
			count++
		}
	}
	return count, nil
}

func (m *memStore) CreateRefreshSession(_ context.Context, session model.RefreshSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = append(m.sessions, session)
	return nil
}

func (m *memStore) GetRefreshSession(_ context.Context, tokenHash string) (model.RefreshSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, session := range m.sessions {
		if session.TokenHash == tokenHash {
			return session, nil
		}
	}
	return model.RefreshSession{}, repository.ErrNotFound
}

func (m *memStore) RevokeRefreshSession(_ context.Context, sessionID string, revokedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, session := range m.sessions {
		if session.ID == sessionID && session.RevokedAt == nil {
			at := revokedAt
			m.sessions[i].RevokedAt = &at
			return nil
		}
	}
	return nil
}

func (m *memStore) RevokeRefreshSessionsByUser(_ context.Context, userID string, revokedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, session := range m.sessions {
		if session.UserID == userID && session.RevokedAt == nil {
			at := revokedAt
			m.sessions[i].RevokedAt = &at
		}
	}
	return nil
}

func (m *memStore) CreatePasswordResetToken(_ context.Context, token model.PasswordResetToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetTokens = append(m.resetTokens, token)
	return nil
}

func (m *memStore) GetPasswordResetToken(_ context.Context, tokenHash string) (model.PasswordResetToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, token := range m.resetTokens {
		if token.TokenHash == tokenHash {
			return token, nil
		}
	}
	return model.PasswordResetToken{}, repository.ErrNotFound
}

func (m *memStore) MarkPasswordResetTokenUsed(_ context.Context, tokenID string, usedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, token := range m.resetTokens {
		if token.ID == tokenID && token.UsedAt == nil {
			at := usedAt
			m.resetTokens[i].UsedAt = &at
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) CreateSchool(_ context.Context, school model.School) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.schools {
		if existing.Code == school.Code {
			return repository.ErrConflict
		}
	}
	m.schools = append(m.schools, school)
	return nil
}

func (m *memStore) GetSchool(_ context.Context, schoolID string) (model.School, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, school := range m.schools {
		if school.ID == schoolID {
			return school, nil
		}
	}
	return model.School{}, repository.ErrNotFound
}

func (m *memStore) ListSchools(_ context.Context, limit, offset int) ([]model.School, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return paginate(m.schools, limit, offset), len(m.schools), nil
}

func (m *memStore) UpdateSchool(_ context.Context, schoolID string, update repository.SchoolUpdate) (model.School, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, school := range m.schools {
		if school.ID != schoolID {
			continue
		}
		if update.Name != nil {
			m.schools[i].Name = *update.Name
		}
		if update.Address != nil {
			m.schools[i].Address = *update.Address
		}
		if update.Active != nil {
			m.schools[i].Active = *update.Active
		}
		return m.schools[i], nil
	}
	return model.School{}, repository.ErrNotFound
}

func (m *memStore) DeleteSchool(_ context.Context, schoolID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, school := range m.schools {
		if school.ID == schoolID {
			m.schools = append(m.schools[:i], m.schools[i+1:]...)
			// Tenant cascade.
			var kept []model.User
			for _, user := range m.users {
				if rowSchool(user.SchoolID) != schoolID {
					kept = append(kept, user)
				}
			}
			m.users = kept
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) CreateAttendanceRecord(_ context.Context, record model.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attendance = append(m.attendance, record)
	return nil
}

func (m *memStore) ListAttendance(_ context.Context, sc scope.Scope, month, limit, offset int) ([]model.AttendanceRecord, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []model.AttendanceRecord
	for _, record := range m.attendance {
		if !sc.AllowsSchool(record.SchoolID) || !sc.AllowsOwner(record.StudentID) {
			continue
		}
		if month != 0 && int(record.Date.Month()) != month {
			continue
		}
		matched = append(matched, record)
	}
	return paginate(matched, limit, offset), len(matched), nil
}

func (m *memStore) CreateTimetableSlot(_ context.Context, slot model.TimetableSlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timetable = append(m.timetable, slot)
	return nil
}

func (m *memStore) ListTimetable(_ context.Context, sc scope.Scope, limit, offset int) ([]model.TimetableSlot, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []model.TimetableSlot
	for _, slot := range m.timetable {
		if sc.AllowsSchool(slot.SchoolID) && sc.AllowsOwner(slot.TeacherID) {
			matched = append(matched, slot)
		}
	}
	return paginate(matched, limit, offset), len(matched), nil
}

func (m *memStore) CreateReportCard(_ context.Context, card model.ReportCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reportCards = append(m.reportCards, card)
	return nil
}

func (m *memStore) ListReportCards(_ context.Context, sc scope.Scope, limit, offset int) ([]model.ReportCard, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []model.ReportCard
	for _, card := range m.reportCards {
		if sc.AllowsSchool(card.SchoolID) && sc.AllowsOwner(card.StudentID) {
			matched = append(matched, card)
		}
	}
	return paginate(matched, limit, offset), len(matched), nil
}

func (m *memStore) CreateStudyMaterial(_ context.Context, material model.StudyMaterial) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.materials = append(m.materials, material)
	return nil
}

func (m *memStore) ListStudyMaterials(_ context.Context, sc scope.Scope, limit, offset int) ([]model.StudyMaterial, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []model.StudyMaterial
	for _, material := range m.materials {
		if sc.AllowsSchool(material.SchoolID) && sc.AllowsOwner(material.TeacherID) {
			matched = append(matched, material)
		}
	}
	return paginate(matched, limit, offset), len(matched), nil
}

func (m *memStore) CreateFeeRecord(_ context.Context, fee model.FeeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fees = append(m.fees, fee)
	return nil
}

func (m *memStore) ListFeeRecords(_ context.Context, sc scope.Scope, limit, offset int) ([]model.FeeRecord, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []model.FeeRecord
	for _, fee := range m.fees {
		if sc.AllowsSchool(fee.SchoolID) && sc.AllowsOwner(fee.StudentID) {
			matched = append(matched, fee)
		}
	}
	return paginate(matched, limit, offset), len(matched), nil
}

func (m *memStore) MarkFeePaid(_ context.Context, feeID string, paidAt time.Time, sc scope.Scope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, fee := range m.fees {
		if fee.ID == feeID && sc.AllowsSchool(fee.SchoolID) {
			at := paidAt
			m.fees[i].PaidAt = &at
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) DeleteFeeRecord(_ context.Context, feeID string, sc scope.Scope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, fee := range m.fees {
		if fee.ID == feeID && sc.AllowsSchool(fee.SchoolID) {
			m.fees = append(m.fees[:i], m.fees[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) CreateSalaryRecord(_ context.Context, salary model.SalaryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.salaries = append(m.salaries, salary)
	return nil
}

func (m *memStore) ListSalaryRecords(_ context.Context, sc scope.Scope, limit, offset int) ([]model.SalaryRecord, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []model.SalaryRecord
	for _, salary := range m.salaries {
		if sc.AllowsSchool(salary.SchoolID) && sc.AllowsOwner(salary.UserID) {
			matched = append(matched, salary)
		}
	}
	return paginate(matched, limit, offset), len(matched), nil
}

func (m *memStore) MarkSalaryPaid(_ context.Context, salaryID string, paidAt time.Time, sc scope.Scope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, salary := range m.salaries {
		if salary.ID == salaryID && sc.AllowsSchool(salary.SchoolID) {
			at := paidAt
			m.salaries[i].PaidAt = &at
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) CreateEvent(_ context.Context, event model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *memStore) ListEvents(_ context.Context, sc scope.Scope, limit, offset int) ([]model.Event, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []model.Event
	for _, event := range m.events {
		if sc.AllowsSchool(event.SchoolID) {
			matched = append(matched, event)
		}
	}
	return paginate(matched, limit, offset), len(matched), nil
}

func (m *memStore) DeleteEvent(_ context.Context, eventID string, sc scope.Scope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, event := range m.events {
		if event.ID == eventID && sc.AllowsSchool(event.SchoolID) {
			m.events = append(m.events[:i], m.events[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) CreateAnnouncement(_ context.Context, announcement model.Announcement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.announcements = append(m.announcements, announcement)
	return nil
}

func (m *memStore) ListAnnouncements(_ context.Context, sc scope.Scope, limit, offset int) ([]model.Announcement, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []model.Announcement
	for _, announcement := range m.announcements {
		if sc.AllowsSchool(announcement.SchoolID) {
			matched = append(matched, announcement)
		}
	}
	return paginate(matched, limit, offset), len(matched), nil
}

func (m *memStore) DeleteAnnouncement(_ context.Context, announcementID string, sc scope.Scope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, announcement := range m.announcements {
		if announcement.ID == announcementID && sc.AllowsSchool(announcement.SchoolID) {
			m.announcements = append(m.announcements[:i], m.announcements[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) CreateBusRoute(_ context.Context, route model.BusRoute) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.busRoutes = append(m.busRoutes, route)
	return nil
}

func (m *memStore) ListBusRoutes(_ context.Context, sc scope.Scope, limit, offset int) ([]model.BusRoute, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []model.BusRoute
	for _, route := range m.busRoutes {
		if sc.AllowsSchool(route.SchoolID) {
			matched = append(matched, route)
		}
	}
	return paginate(matched, limit, offset), len(matched), nil
}

func (m *memStore) DeleteBusRoute(_ context.Context, routeID string, sc scope.Scope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, route := range m.busRoutes {
		if route.ID == routeID && sc.AllowsSchool(route.SchoolID) {
			m.busRoutes = append(m.busRoutes[:i], m.busRoutes[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) CreateChatRequest(_ context.Context, request model.ChatRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chatRequests = append(m.chatRequests, request)
	return nil
}

func (m *memStore) ListChatRequests(_ context.Context, sc scope.Scope, limit, offset int) ([]model.ChatRequest, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []model.ChatRequest
	for _, request := range m.chatRequests {
		if sc.AllowsSchool(request.SchoolID) && sc.AllowsOwner(request.TeacherID) {
			matched = append(matched, request)
		}
	}
	return paginate(matched, limit, offset), len(matched), nil
}

func (m *memStore) ListChatRequestsByStudent(_ context.Context, sc scope.Scope, limit, offset int) ([]model.ChatRequest, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []model.ChatRequest
	for _, request := range m.chatRequests {
		if sc.AllowsSchool(request.SchoolID) && sc.AllowsOwner(request.StudentID) {
			matched = append(matched, request)
		}
	}
	return paginate(matched, limit, offset), len(matched), nil
}

func (m *memStore) UpdateChatRequestStatus(_ context.Context, requestID, status string, respondedAt time.Time, sc scope.Scope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, request := range m.chatRequests {
		if request.ID != requestID || request.Status != model.ChatRequestPending {
			continue
		}
		if !sc.AllowsSchool(request.SchoolID) || !sc.AllowsOwner(request.TeacherID) {
			continue
		}
		at := respondedAt
		m.chatRequests[i].Status = status
		m.chatRequests[i].RespondedAt = &at
		return nil
	}
	return repository.ErrNotFound
}

func (m *memStore) CreateInquiry(_ context.Context, inquiry model.Inquiry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inquiries = append(m.inquiries, inquiry)
	return nil
}

func (m *memStore) ListInquiries(_ context.Context, limit, offset int) ([]model.Inquiry, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return paginate(m.inquiries, limit, offset), len(m.inquiries), nil
}

func (m *memStore) CreateCurriculum(_ context.Context, curriculum model.Curriculum) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.curricula = append(m.curricula, curriculum)
	return nil
}

func (m *memStore) ListCurricula(_ context.Context, limit, offset int) ([]model.Curriculum, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return paginate(m.curricula, limit, offset), len(m.curricula), nil
}

func (m *memStore) ListPublishedCurricula(_ context.Context, sc scope.Scope, limit, offset int) ([]model.Curriculum, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []model.Curriculum
	for _, curriculum := range m.curricula {
		if !curriculum.Published {
			continue
		}
		if curriculum.SchoolID != nil && !sc.AllowsSchool(*curriculum.SchoolID) {
			continue
		}
		matched = append(matched, curriculum)
	}
	return paginate(matched, limit, offset), len(matched), nil
}

func (m *memStore) GetCurriculum(_ context.Context, curriculumID string) (model.Curriculum, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, curriculum := range m.curricula {
		if curriculum.ID == curriculumID {
			return curriculum, nil
		}
	}
	return model.Curriculum{}, repository.ErrNotFound
}

func (m *memStore) GetPublishedCurriculum(_ context.Context, curriculumID string, sc scope.Scope) (model.Curriculum, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, curriculum := range m.curricula {
		if curriculum.ID != curriculumID || !curriculum.Published {
			continue
		}
		if curriculum.SchoolID != nil && !sc.AllowsSchool(*curriculum.SchoolID) {
			continue
		}
		return curriculum, nil
	}
	return model.Curriculum{}, repository.ErrNotFound
}

func (m *memStore) UpdateCurriculum(_ context.Context, curriculumID string, update repository.CurriculumUpdate) (model.Curriculum, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, curriculum := range m.curricula {
		if curriculum.ID != curriculumID {
			continue
		}
		if update.Title != nil {
			m.curricula[i].Title = *update.Title
		}
		if update.Body != nil {
			m.curricula[i].Body = *update.Body
		}
		if update.Published != nil {
			m.curricula[i].Published = *update.Published
		}
		return m.curricula[i], nil
	}
	return model.Curriculum{}, repository.ErrNotFound
}

func (m *memStore) DeleteCurriculum(_ context.Context, curriculumID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, curriculum := range m.curricula {
		if curriculum.ID == curriculumID {
			m.curricula = append(m.curricula[:i], m.curricula[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}
