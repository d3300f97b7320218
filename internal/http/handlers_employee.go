package http

import (
	"net/http"
	"sync/atomic"

	"payroll/internal/core"
	"payroll/internal/employees"
	applog "payroll/internal/log"
)

// Alert texts for the modal flow.
const (
	msgEmployeeAdded   = "Employee added successfully!"
	msgEmployeeUpdated = "Employee updated successfully!"
	msgEmployeeDeleted = "Employee deleted successfully!"
)

type employeeFormData struct {
	Title string
	Form  EmployeeForm
}

// handleNewEmployee opens the modal with an empty form.
func (s *Server) handleNewEmployee(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "employee_form.html", employeeFormData{Title: "Add New Employee"})
}

// handleEditEmployee opens the modal prefilled with the current record.
func (s *Server) handleEditEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		BadRequestError(validationMessage(err)).Write(w)
		return
	}

	e, err := s.backend.GetEmployee(r.Context(), id)
	if err != nil {
		s.backendFailed(w, r, "employee_form", err)
		return
	}
	s.render(w, r, "employee_form.html", employeeFormData{Title: "Edit Employee", Form: FormFromEmployee(e)})
}

// handleSaveEmployee creates the employee when the form has no id and
// updates that id otherwise.
func (s *Server) handleSaveEmployee(w http.ResponseWriter, r *http.Request) {
	form, err := ParseEmployeeForm(r)
	if err != nil {
		BadRequestError("Invalid request format.").Write(w)
		return
	}

	e, err := form.Employee()
	if err != nil {
		applog.FromContext(r.Context()).DebugContext(r.Context(), "Employee form rejected",
			applog.FieldError, err, applog.FieldOperation, applog.OpValidate)
		UnprocessableEntityError(validationMessage(err)).Write(w)
		return
	}

	var (
		saved   core.Employee
		op      string
		message string
	)
	if e.IsNew() {
		op, message = applog.OpCreate, msgEmployeeAdded
		saved, err = s.backend.CreateEmployee(r.Context(), e)
	} else {
		op, message = applog.OpUpdate, msgEmployeeUpdated
		saved, err = s.backend.UpdateEmployee(r.Context(), e.ID, e)
	}
	if err != nil {
		s.backendFailed(w, r, "employee_form", err)
		return
	}

	if op == applog.OpCreate {
		atomic.AddInt64(&s.appMetrics.employeesCreated, 1)
	} else {
		atomic.AddInt64(&s.appMetrics.employeesUpdated, 1)
	}
	s.viewLogger(r).LogEmployeeChanged(r.Context(), op, saved.ID, saved.Name, saved.Role, saved.Department)

	NewHTMXResponse().
		TriggerSuccessNotification(message).
		TriggerModalClose().
		TriggerEmployeesChanged().
		Write(w)
}

// handleConfirmDelete opens the delete confirmation modal.
func (s *Server) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		BadRequestError(validationMessage(err)).Write(w)
		return
	}
	s.render(w, r, "confirm_delete.html", struct{ ID int64 }{ID: id})
}

// handleDeleteEmployee deletes the employee. The modal closes whatever the
// outcome.
func (s *Server) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		BadRequestError(validationMessage(err)).TriggerModalClose().Write(w)
		return
	}

	if err := s.backend.DeleteEmployee(r.Context(), id); err != nil {
		s.appMetrics.backendFailure()
		s.viewLogger(r).LogViewFailed(r.Context(), "confirm_delete", err)
		BadGatewayError(employees.UserMessage(err)).TriggerModalClose().Write(w)
		return
	}

	atomic.AddInt64(&s.appMetrics.employeesDeleted, 1)
	s.viewLogger(r).LogEmployeeChanged(r.Context(), applog.OpDelete, id, "", "", "")

	NewHTMXResponse().
		TriggerSuccessNotification(msgEmployeeDeleted).
		TriggerModalClose().
		TriggerEmployeesChanged().
		Write(w)
}
