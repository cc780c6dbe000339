package httpapi

import (
	"time"

	"campus/server/internal/model"
)

// Response shapes. Model structs stay tag-free; the wire format lives here.

type userView struct {
	ID            string  `json:"id"`
	SchoolID      *string `json:"school_id"`
	Email         string  `json:"email"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Role          string  `json:"role"`
	Active        bool    `json:"active"`
	Blocked       bool    `json:"blocked"`
	ChatAvailable bool    `json:"chat_available"`
	CreatedAt     string  `json:"created_at"`
}

func toUserView(u model.User) userView {
	return userView{
		ID:            u.ID,
		SchoolID:      u.SchoolID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Role:          string(u.Role),
		Active:        u.Active,
		Blocked:       u.Blocked,
		ChatAvailable: u.ChatAvailable,
		CreatedAt:     u.CreatedAt.Format(time.RFC3339),
	}
}

func toUserViews(users []model.User) []userView {
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}
	return views
}

type schoolView struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

func toSchoolView(s model.School) schoolView {
	return schoolView{
		ID:        s.ID,
		Code:      s.Code,
		Name:      s.Name,
		Address:   s.Address,
		Active:    s.Active,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}

func toSchoolViews(schools []model.School) []schoolView {
	views := make([]schoolView, 0, len(schools))
	for _, s := range schools {
		views = append(views, toSchoolView(s))
	}
	return views
}

type attendanceView struct {
	ID         string `json:"id"`
	StudentID  string `json:"student_id"`
	Date       string `json:"date"`
	Status     string `json:"status"`
	RecordedBy string `json:"recorded_by"`
}

func toAttendanceViews(records []model.AttendanceRecord) []attendanceView {
	views := make([]attendanceView, 0, len(records))
	for _, rec := range records {
		views = append(views, attendanceView{
			ID:         rec.ID,
			StudentID:  rec.StudentID,
			Date:       rec.Date.Format("2006-01-02"),
			Status:     rec.Status,
			RecordedBy: rec.RecordedBy,
		})
	}
	return views
}

type timetableView struct {
	ID        string `json:"id"`
	TeacherID string `json:"teacher_id"`
	ClassName string `json:"class_name"`
	Subject   string `json:"subject"`
	Weekday   int    `json:"weekday"`
	StartsAt  string `json:"starts_at"`
	EndsAt    string `json:"ends_at"`
}

func toTimetableViews(slots []model.TimetableSlot) []timetableView {
	views := make([]timetableView, 0, len(slots))
	for _, slot := range slots {
		views = append(views, timetableView{
			ID:        slot.ID,
			TeacherID: slot.TeacherID,
			ClassName: slot.ClassName,
			Subject:   slot.Subject,
			Weekday:   slot.Weekday,
			StartsAt:  slot.StartsAt,
			EndsAt:    slot.EndsAt,
		})
	}
	return views
}

type reportCardView struct {
	ID        string `json:"id"`
	StudentID string `json:"student_id"`
	TeacherID string `json:"teacher_id"`
	Term      string `json:"term"`
	Subject   string `json:"subject"`
	Grade     string `json:"grade"`
	Remarks   string `json:"remarks"`
}

func toReportCardViews(cards []model.ReportCard) []reportCardView {
	views := make([]reportCardView, 0, len(cards))
	for _, card := range cards {
		views = append(views, reportCardView{
			ID:        card.ID,
			StudentID: card.StudentID,
			TeacherID: card.TeacherID,
			Term:      card.Term,
			Subject:   card.Subject,
			Grade:     card.Grade,
			Remarks:   card.Remarks,
		})
	}
	return views
}

type feeView struct {
	ID          string  `json:"id"`
	StudentID   string  `json:"student_id"`
	Description string  `json:"description"`
	AmountCents int64   `json:"amount_cents"`
	DueDate     string  `json:"due_date"`
	PaidAt      *string `json:"paid_at"`
}

func toFeeViews(fees []model.FeeRecord) []feeView {
	views := make([]feeView, 0, len(fees))
	for _, fee := range fees {
		views = append(views, feeView{
			ID:          fee.ID,
			StudentID:   fee.StudentID,
			Description: fee.Description,
			AmountCents: fee.AmountCents,
			DueDate:     fee.DueDate.Format("2006-01-02"),
			PaidAt:      formatTimePtr(fee.PaidAt),
		})
	}
	return views
}

type salaryView struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Month       string  `json:"month"`
	AmountCents int64   `json:"amount_cents"`
	PaidAt      *string `json:"paid_at"`
}

func toSalaryViews(salaries []model.SalaryRecord) []salaryView {
	views := make([]salaryView, 0, len(salaries))
	for _, salary := range salaries {
		views = append(views, salaryView{
			ID:          salary.ID,
			UserID:      salary.UserID,
			Month:       salary.Month,
			AmountCents: salary.AmountCents,
			PaidAt:      formatTimePtr(salary.PaidAt),
		})
	}
	return views
}

type materialView struct {
	ID        string `json:"id"`
	TeacherID string `json:"teacher_id"`
	ClassName string `json:"class_name"`
	Title     string `json:"title"`
	FileURL   string `json:"file_url"`
	CreatedAt string `json:"created_at"`
}

func toMaterialViews(materials []model.StudyMaterial) []materialView {
	views := make([]materialView, 0, len(materials))
	for _, mat := range materials {
		views = append(views, materialView{
			ID:        mat.ID,
			TeacherID: mat.TeacherID,
			ClassName: mat.ClassName,
			Title:     mat.Title,
			FileURL:   mat.FileURL,
			CreatedAt: mat.CreatedAt.Format(time.RFC3339),
		})
	}
	return views
}

type eventView struct {
	ID          string `json:"id"`
	CreatedBy   string `json:"created_by"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartsAt    string `json:"starts_at"`
	EndsAt      string `json:"ends_at"`
}

func toEventViews(events []model.Event) []eventView {
	views := make([]eventView, 0, len(events))
	for _, ev := range events {
		views = append(views, eventView{
			ID:          ev.ID,
			CreatedBy:   ev.CreatedBy,
			Title:       ev.Title,
			Description: ev.Description,
			StartsAt:    ev.StartsAt.Format(time.RFC3339),
			EndsAt:      ev.EndsAt.Format(time.RFC3339),
		})
	}
	return views
}

type announcementView struct {
	ID        string `json:"id"`
	CreatedBy string `json:"created_by"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

func toAnnouncementViews(announcements []model.Announcement) []announcementView {
	views := make([]announcementView, 0, len(announcements))
	for _, a := range announcements {
		views = append(views, announcementView{
			ID:        a.ID,
			CreatedBy: a.CreatedBy,
			Title:     a.Title,
			Body:      a.Body,
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
		})
	}
	return views
}

type busRouteView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DriverName string `json:"driver_name"`
	Stops      string `json:"stops"`
}

func toBusRouteViews(routes []model.BusRoute) []busRouteView {
	views := make([]busRouteView, 0, len(routes))
	for _, route := range routes {
		views = append(views, busRouteView{
			ID:         route.ID,
			Name:       route.Name,
			DriverName: route.DriverName,
			Stops:      route.Stops,
		})
	}
	return views
}

type chatRequestView struct {
	ID          string  `json:"id"`
	StudentID   string  `json:"student_id"`
	TeacherID   string  `json:"teacher_id"`
	Message     string  `json:"message"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	RespondedAt *string `json:"responded_at"`
}

func toChatRequestViews(requests []model.ChatRequest) []chatRequestView {
	views := make([]chatRequestView, 0, len(requests))
	for _, req := range requests {
		views = append(views, chatRequestView{
			ID:          req.ID,
			StudentID:   req.StudentID,
			TeacherID:   req.TeacherID,
			Message:     req.Message,
			Status:      req.Status,
			CreatedAt:   req.CreatedAt.Format(time.RFC3339),
			RespondedAt: formatTimePtr(req.RespondedAt),
		})
	}
	return views
}

type inquiryView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

func toInquiryViews(inquiries []model.Inquiry) []inquiryView {
	views := make([]inquiryView, 0, len(inquiries))
	for _, inq := range inquiries {
		views = append(views, inquiryView{
			ID:        inq.ID,
			Name:      inq.Name,
			Email:     inq.Email,
			Phone:     inq.Phone,
			Message:   inq.Message,
			CreatedAt: inq.CreatedAt.Format(time.RFC3339),
		})
	}
	return views
}

type curriculumView struct {
	ID        string  `json:"id"`
	SchoolID  *string `json:"school_id"`
	Title     string  `json:"title"`
	Body      string  `json:"body"`
	Published bool    `json:"published"`
	CreatedAt string  `json:"created_at"`
}

func toCurriculumView(c model.Curriculum) curriculumView {
	return curriculumView{
		ID:        c.ID,
		SchoolID:  c.SchoolID,
		Title:     c.Title,
		Body:      c.Body,
		Published: c.Published,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

func toCurriculumViews(curricula []model.Curriculum) []curriculumView {
	views := make([]curriculumView, 0, len(curricula))
	for _, c := range curricula {
		views = append(views, toCurriculumView(c))
	}
	return views
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}
