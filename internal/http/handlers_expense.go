package http

import (
	"errors"
	"net/http"
	"time"

	"cantiere/internal/forms"
	"cantiere/internal/log"
	"cantiere/internal/services"
)

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, "GET")
		return
	}
	writeJSON(w, http.StatusOK, s.ledger.Expenses(r.Context()))
}

// handleProjectExpenses lists or records expenses for one project. Listing an
// unknown project yields an empty list, not an error.
func (s *Server) handleProjectExpenses(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.ledger.ExpensesFor(r.Context(), id))
	case http.MethodPost:
		s.createExpense(w, r, id)
	default:
		writeMethodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request, projectID string) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	input := parser.Fields()
	input["projectId"] = projectID

	expense, errs := forms.Expense(input, time.Now())
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	if err := s.ledger.AddExpense(r.Context(), expense); err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Expense creation failed",
			log.FieldError, err,
			log.FieldProjectID, projectID,
			log.FieldAmountCents, expense.Amount.Cents)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, expense)
}
