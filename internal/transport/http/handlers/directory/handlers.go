package directoryhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"turno/internal/domain/directory"
	"turno/internal/transport/http/api"
	"turno/internal/transport/http/middleware"
	"turno/internal/transport/http/shared"
)

const maxAvatarBytes = 2 << 20

type Handler struct {
	Directory *directory.Service
}

func NewHandler(service *directory.Service) *Handler {
	return &Handler{Directory: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/", h.handleListEmployees)
		r.Get("/{employeeID}", h.handleGetEmployee)
		r.Post("/{employeeID}/avatar", h.handleUploadAvatar)
		r.With(middleware.RequireAdmin).Post("/", h.handleHire)
		r.With(middleware.RequireAdmin).Put("/{employeeID}", h.handleUpdateEmployee)
		r.With(middleware.RequireAdmin).Delete("/{employeeID}", h.handleDismiss)
		r.With(middleware.RequireAdmin).Post("/{employeeID}/reset-password", h.handleResetPassword)
	})
	r.Route("/departments", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/", h.handleListDepartments)
		r.With(middleware.RequireAdmin).Post("/", h.handleCreateDepartment)
		r.With(middleware.RequireAdmin).Put("/{departmentID}", h.handleUpdateDepartment)
		r.With(middleware.RequireAdmin).Delete("/{departmentID}", h.handleDeleteDepartment)
	})
	r.Route("/company-roles", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/", h.handleListRoles)
		r.With(middleware.RequireAdmin).Post("/", h.handleCreateRole)
		r.With(middleware.RequireAdmin).Delete("/{roleID}", h.handleDeleteRole)
	})
	r.Route("/settings", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/", h.handleGetSettings)
		r.With(middleware.RequireAdmin).Put("/", h.handleUpdateSettings)
	})
	r.Route("/company-periods", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/", h.handleListPeriods)
		r.With(middleware.RequireAdmin).Post("/", h.handleCreatePeriod)
		r.With(middleware.RequireAdmin).Delete("/{periodID}", h.handleDeletePeriod)
	})
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employees, err := h.Directory.Employees(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list employees", reqID)
		return
	}
	api.Success(w, employees, reqID)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employee, err := h.Directory.Employee(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, directory.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to load employee", reqID)
		return
	}
	api.Success(w, employee, reqID)
}

type employeePayload struct {
	FirstName           string  `json:"firstName"`
	LastName            string  `json:"lastName"`
	RoleLabel           string  `json:"roleLabel"`
	DepartmentID        *string `json:"departmentId"`
	BirthDate           string  `json:"birthDate"`
	HourlyRate          float64 `json:"hourlyRate"`
	HourlyRateNet       float64 `json:"hourlyRateNet"`
	ContractHoursWeekly float64 `json:"contractHoursWeekly"`
	ContractType        string  `json:"contractType"`
}

func (h *Handler) decodeEmployee(w http.ResponseWriter, r *http.Request, reqID string) (directory.Employee, bool) {
	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "malformed JSON body", reqID)
		return directory.Employee{}, false
	}
	v := shared.NewValidator()
	v.Required("firstName", payload.FirstName, "firstName is required")
	v.Required("lastName", payload.LastName, "lastName is required")
	employee := directory.Employee{
		FirstName:           payload.FirstName,
		LastName:            payload.LastName,
		RoleLabel:           payload.RoleLabel,
		DepartmentID:        payload.DepartmentID,
		HourlyRate:          payload.HourlyRate,
		HourlyRateNet:       payload.HourlyRateNet,
		ContractHoursWeekly: payload.ContractHoursWeekly,
		ContractType:        payload.ContractType,
	}
	if payload.BirthDate != "" {
		if birth, ok := v.Date("birthDate", payload.BirthDate); ok {
			employee.BirthDate = &birth
		}
	}
	if v.Reject(w, reqID) {
		return directory.Employee{}, false
	}
	return employee, true
}

func (h *Handler) handleHire(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employee, ok := h.decodeEmployee(w, r, reqID)
	if !ok {
		return
	}
	hired, err := h.Directory.Hire(r.Context(), employee)
	if errors.Is(err, directory.ErrUsernameTaken) {
		api.Fail(w, http.StatusConflict, "username_taken", "an account with this name already exists", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to create employee", reqID)
		return
	}
	api.Created(w, hired, reqID)
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employee, ok := h.decodeEmployee(w, r, reqID)
	if !ok {
		return
	}
	employee.ID = chi.URLParam(r, "employeeID")
	updated, err := h.Directory.Update(r.Context(), employee)
	if errors.Is(err, directory.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to update employee", reqID)
		return
	}
	api.Success(w, updated, reqID)
}

func (h *Handler) handleDismiss(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	err := h.Directory.Dismiss(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, directory.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to delete employee", reqID)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, reqID)
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	err := h.Directory.ResetPassword(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, directory.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to reset password", reqID)
		return
	}
	api.Success(w, map[string]bool{"reset": true}, reqID)
}

var allowedAvatarExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true}

func (h *Handler) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	// Staff may only change their own picture.
	if employeeID != user.EmployeeID && !user.IsAdmin() {
		api.Fail(w, http.StatusForbidden, "forbidden", "cannot change another employee's avatar", reqID)
		return
	}

	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "expected a multipart upload under 2MB", reqID)
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "avatar file field missing", reqID)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedAvatarExts[ext] {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "avatar must be png, jpg or webp", reqID)
		return
	}

	url, err := h.Directory.SaveAvatar(r.Context(), employeeID, file, ext)
	if errors.Is(err, directory.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to store avatar", reqID)
		return
	}
	api.Success(w, map[string]string{"avatarUrl": url}, reqID)
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	departments, err := h.Directory.Departments(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list departments", reqID)
		return
	}
	api.Success(w, departments, reqID)
}

func (h *Handler) decodeDepartment(w http.ResponseWriter, r *http.Request, reqID string) (directory.Department, bool) {
	var payload struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "malformed JSON body", reqID)
		return directory.Department{}, false
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, reqID) {
		return directory.Department{}, false
	}
	return directory.Department{Name: payload.Name, Color: payload.Color}, true
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	department, ok := h.decodeDepartment(w, r, reqID)
	if !ok {
		return
	}
	created, err := h.Directory.CreateDepartment(r.Context(), department)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to create department", reqID)
		return
	}
	api.Created(w, created, reqID)
}

func (h *Handler) handleUpdateDepartment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	department, ok := h.decodeDepartment(w, r, reqID)
	if !ok {
		return
	}
	department.ID = chi.URLParam(r, "departmentID")
	err := h.Directory.UpdateDepartment(r.Context(), department)
	if errors.Is(err, directory.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "department not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to update department", reqID)
		return
	}
	api.Success(w, department, reqID)
}

func (h *Handler) handleDeleteDepartment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	err := h.Directory.DeleteDepartment(r.Context(), chi.URLParam(r, "departmentID"))
	switch {
	case errors.Is(err, directory.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "department not found", reqID)
	case errors.Is(err, directory.ErrDepartmentUsed):
		api.Fail(w, http.StatusConflict, "department_in_use", "reassign its employees first", reqID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to delete department", reqID)
	default:
		api.Success(w, map[string]bool{"deleted": true}, reqID)
	}
}

func (h *Handler) handleListRoles(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	roles, err := h.Directory.CompanyRoles(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list roles", reqID)
		return
	}
	api.Success(w, roles, reqID)
}

func (h *Handler) handleCreateRole(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload struct {
		Name         string `json:"name"`
		DepartmentID string `json:"departmentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "malformed JSON body", reqID)
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("departmentId", payload.DepartmentID, "departmentId is required")
	if v.Reject(w, reqID) {
		return
	}
	role, err := h.Directory.CreateCompanyRole(r.Context(), directory.CompanyRole{Name: payload.Name, DepartmentID: payload.DepartmentID})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to create role", reqID)
		return
	}
	api.Created(w, role, reqID)
}

func (h *Handler) handleDeleteRole(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	err := h.Directory.DeleteCompanyRole(r.Context(), chi.URLParam(r, "roleID"))
	if errors.Is(err, directory.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "role not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to delete role", reqID)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, reqID)
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	settings, err := h.Directory.Settings(r.Context())
	if errors.Is(err, directory.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "settings not initialised", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to load settings", reqID)
		return
	}
	api.Success(w, settings, reqID)
}

func (h *Handler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var settings directory.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "malformed JSON body", reqID)
		return
	}
	v := shared.NewValidator()
	if settings.OpeningTime != "" {
		v.Clock("openingTime", settings.OpeningTime)
	}
	if settings.ClosingTime != "" {
		v.Clock("closingTime", settings.ClosingTime)
	}
	if v.Reject(w, reqID) {
		return
	}
	if err := h.Directory.UpdateSettings(r.Context(), settings); err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to save settings", reqID)
		return
	}
	api.Success(w, settings, reqID)
}

func (h *Handler) handleListPeriods(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	periods, err := h.Directory.Periods(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list periods", reqID)
		return
	}
	api.Success(w, periods, reqID)
}

func (h *Handler) handleCreatePeriod(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload struct {
		Description string `json:"description"`
		Type        string `json:"type"`
		StartDate   string `json:"startDate"`
		EndDate     string `json:"endDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "malformed JSON body", reqID)
		return
	}
	v := shared.NewValidator()
	v.Required("description", payload.Description, "description is required")
	v.Enum("type", payload.Type, []string{directory.PeriodOpening, directory.PeriodClosing}, "must be opening or closing")
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	if v.Reject(w, reqID) {
		return
	}

	period, err := h.Directory.CreatePeriod(r.Context(), directory.CompanyPeriod{
		Description: payload.Description,
		Type:        payload.Type,
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to create period", reqID)
		return
	}
	api.Created(w, period, reqID)
}

func (h *Handler) handleDeletePeriod(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	err := h.Directory.DeletePeriod(r.Context(), chi.URLParam(r, "periodID"))
	if errors.Is(err, directory.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "period not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to delete period", reqID)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, reqID)
}
