package http

import (
	"errors"
	"net/http"
	"time"

	"cantiere/internal/forms"
	"cantiere/internal/log"
	"cantiere/internal/services"
)

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.ledger.Projects(r.Context()))
	case http.MethodPost:
		s.createProject(w, r)
	default:
		writeMethodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	project, errs := forms.Project(parser.Fields(), time.Now())
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	if err := s.ledger.CreateProject(r.Context(), project); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Project creation failed",
			log.FieldError, err, log.FieldProjectID, project.ID)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

func (s *Server) handleProjectByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		project, err := s.ledger.GetProject(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		writeJSON(w, http.StatusOK, project)
	case http.MethodPut:
		s.updateProject(w, r, id)
	case http.MethodDelete:
		s.deleteProject(w, r, id)
	default:
		writeMethodNotAllowed(w, "GET, PUT, DELETE")
	}
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request, id string) {
	existing, err := s.ledger.GetProject(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	project, errs := forms.ApplyProject(existing, parser.Fields(), time.Now())
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	if err := s.ledger.UpdateProject(r.Context(), project); err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Project update failed",
			log.FieldError, err, log.FieldProjectID, id)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, project)
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.ledger.DeleteProject(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Project deletion failed",
			log.FieldError, err, log.FieldProjectID, id)
		writeError(w, http.StatusInternalServerError, "could not delete project")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleForms publishes the entity form schemas so clients can render and
// pre-check forms without hardcoding the field list.
func (s *Server) handleForms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, "GET")
		return
	}

	writeJSON(w, http.StatusOK, []forms.Schema{
		forms.ProjectSchema,
		forms.ExpenseSchema,
		forms.PaymentSchema,
	})
}
