package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"campus/server/internal/policy"
)

// route is one row of the access matrix: the guard is data, so the whole
// matrix can be enumerated and tested.
type route struct {
	Method  string
	Pattern string
	Guard   policy.Guard
	Handler http.HandlerFunc
}

func (s *Server) routes() []route {
	anonymous := policy.Guard{Tenant: policy.TenantNone}
	authed := policy.Guard{Roles: []policy.RolePredicate{policy.Authenticated}, Tenant: policy.TenantNone}
	authedTenant := policy.Guard{Roles: []policy.RolePredicate{policy.Authenticated}, Tenant: policy.TenantSame}
	superadmin := policy.Guard{Roles: []policy.RolePredicate{policy.Superadmin}, Tenant: policy.TenantNone}
	schoolAdmin := policy.Guard{Roles: []policy.RolePredicate{policy.SchoolAdmin}, Tenant: policy.TenantSame}
	teacher := policy.Guard{Roles: []policy.RolePredicate{policy.Teacher}, Tenant: policy.TenantSame}
	student := policy.Guard{Roles: []policy.RolePredicate{policy.Student}, Tenant: policy.TenantSame}
	staff := policy.Guard{Roles: []policy.RolePredicate{policy.ManagementStaff, policy.NonTeachingStaff}, Tenant: policy.TenantSame}

	return []route{
		// Anonymous entry points.
		{http.MethodPost, "/auth/login", anonymous, s.handleLogin},
		{http.MethodPost, "/auth/refresh", anonymous, s.handleRefresh},
		{http.MethodPost, "/auth/password-reset", anonymous, s.handlePasswordReset},
		{http.MethodPost, "/auth/password-reset/confirm", anonymous, s.handlePasswordResetConfirm},
		{http.MethodPost, "/inquiries", anonymous, s.handleCreateInquiry},

		// Any authenticated principal.
		{http.MethodPost, "/auth/logout", authed, s.handleLogout},
		{http.MethodGet, "/auth/me", authed, s.handleMe},

		// Superadmin: tenant lifecycle and global content.
		{http.MethodPost, "/schools", superadmin, s.handleCreateSchool},
		{http.MethodGet, "/schools", superadmin, s.handleListSchools},
		{http.MethodGet, "/schools/{schoolID}", superadmin, s.handleGetSchool},
		{http.MethodPatch, "/schools/{schoolID}", superadmin, s.handlePatchSchool},
		{http.MethodDelete, "/schools/{schoolID}", superadmin, s.handleDeleteSchool},
		{http.MethodPost, "/schools/{schoolID}/admins", superadmin, s.handleCreateSchoolAdmin},
		{http.MethodPost, "/curricula", superadmin, s.handleCreateCurriculum},
		{http.MethodGet, "/curricula", superadmin, s.handleListCurricula},
		{http.MethodGet, "/curricula/{curriculumID}", superadmin, s.handleGetCurriculum},
		{http.MethodPatch, "/curricula/{curriculumID}", superadmin, s.handlePatchCurriculum},
		{http.MethodDelete, "/curricula/{curriculumID}", superadmin, s.handleDeleteCurriculum},
		{http.MethodGet, "/inquiries", superadmin, s.handleListInquiries},

		// School admin: in-tenant administration.
		{http.MethodPost, "/admin/users", schoolAdmin, s.handleAdminCreateUser},
		{http.MethodGet, "/admin/users", schoolAdmin, s.handleAdminListUsers},
		{http.MethodGet, "/admin/users/{userID}", schoolAdmin, s.handleAdminGetUser},
		{http.MethodPatch, "/admin/users/{userID}", schoolAdmin, s.handleAdminPatchUser},
		{http.MethodDelete, "/admin/users/{userID}", schoolAdmin, s.handleAdminDeleteUser},
		{http.MethodPost, "/admin/users/{userID}/block", schoolAdmin, s.handleAdminBlockUser},
		{http.MethodPost, "/admin/users/{userID}/unblock", schoolAdmin, s.handleAdminUnblockUser},
		{http.MethodPost, "/admin/fees", schoolAdmin, s.handleAdminCreateFee},
		{http.MethodGet, "/admin/fees", schoolAdmin, s.handleAdminListFees},
		{http.MethodPost, "/admin/fees/{feeID}/pay", schoolAdmin, s.handleAdminMarkFeePaid},
		{http.MethodDelete, "/admin/fees/{feeID}", schoolAdmin, s.handleAdminDeleteFee},
		{http.MethodPost, "/admin/salaries", schoolAdmin, s.handleAdminCreateSalary},
		{http.MethodGet, "/admin/salaries", schoolAdmin, s.handleAdminListSalaries},
		{http.MethodPost, "/admin/salaries/{salaryID}/pay", schoolAdmin, s.handleAdminMarkSalaryPaid},
		{http.MethodGet, "/admin/attendance", schoolAdmin, s.handleAdminAttendance},
		{http.MethodPost, "/admin/announcements", schoolAdmin, s.handleAdminCreateAnnouncement},
		{http.MethodDelete, "/admin/announcements/{announcementID}", schoolAdmin, s.handleAdminDeleteAnnouncement},
		{http.MethodPost, "/admin/bus-routes", schoolAdmin, s.handleAdminCreateBusRoute},
		{http.MethodDelete, "/admin/bus-routes/{routeID}", schoolAdmin, s.handleAdminDeleteBusRoute},
		{http.MethodPost, "/admin/events", schoolAdmin, s.handleAdminCreateEvent},
		{http.MethodDelete, "/admin/events/{eventID}", schoolAdmin, s.handleAdminDeleteEvent},

		// Teacher self-service.
		{http.MethodGet, "/teacher/schedule", teacher, s.handleTeacherSchedule},
		{http.MethodPost, "/timetable", teacher, s.handleCreateTimetableSlot},
		{http.MethodPost, "/attendance", teacher, s.handleRecordAttendance},
		{http.MethodPost, "/report-cards", teacher, s.handleCreateReportCard},
		{http.MethodPost, "/materials", teacher, s.handleUploadMaterial},
		{http.MethodPost, "/events", teacher, s.handleTeacherCreateEvent},
		{http.MethodPut, "/teacher/chat-availability", teacher, s.handleChatAvailability},
		{http.MethodGet, "/teacher/chat-requests", teacher, s.handleTeacherChatRequests},
		{http.MethodPost, "/teacher/chat-requests/{requestID}/accept", teacher, s.handleAcceptChatRequest},
		{http.MethodPost, "/teacher/chat-requests/{requestID}/decline", teacher, s.handleDeclineChatRequest},

		// Student self-service.
		{http.MethodGet, "/student/attendance", student, s.handleStudentAttendance},
		{http.MethodGet, "/student/timetable", student, s.handleStudentTimetable},
		{http.MethodGet, "/student/report-cards", student, s.handleStudentReportCards},
		{http.MethodGet, "/student/materials", student, s.handleStudentMaterials},
		{http.MethodGet, "/student/fees", student, s.handleStudentFees},
		{http.MethodPost, "/chat-requests", student, s.handleCreateChatRequest},
		{http.MethodGet, "/student/chat-requests", student, s.handleStudentChatRequests},

		// Management and non-teaching staff.
		{http.MethodGet, "/staff/profile", staff, s.handleStaffProfile},
		{http.MethodPatch, "/staff/profile", staff, s.handleStaffPatchProfile},
		{http.MethodGet, "/staff/dashboard", staff, s.handleStaffDashboard},
		{http.MethodGet, "/staff/salaries", staff, s.handleStaffSalaries},

		// Shared in-tenant browsing; null-tenant content is globally visible.
		{http.MethodGet, "/content", authedTenant, s.handleListContent},
		{http.MethodGet, "/content/{curriculumID}", authedTenant, s.handleGetContent},
		{http.MethodGet, "/announcements", authedTenant, s.handleListAnnouncements},
		{http.MethodGet, "/events", authedTenant, s.handleListEvents},
		{http.MethodGet, "/bus-routes", authedTenant, s.handleListBusRoutes},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	r.Use(s.resolvePrincipal)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusOK, "ok", nil)
	})
	r.Handle("/metrics", promhttp.Handler())

	for _, rt := range s.routes() {
		r.With(s.guard(rt.Guard)).Method(rt.Method, rt.Pattern, rt.Handler)
	}

	return r
}
