package http

import (
	"errors"
	"net/http"
	"time"

	"cantiere/internal/forms"
	"cantiere/internal/log"
	"cantiere/internal/services"
)

func (s *Server) handlePayments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, "GET")
		return
	}
	writeJSON(w, http.StatusOK, s.ledger.Payments(r.Context()))
}

func (s *Server) handleProjectPayments(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.ledger.PaymentsFor(r.Context(), id))
	case http.MethodPost:
		s.createPayment(w, r, id)
	default:
		writeMethodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) createPayment(w http.ResponseWriter, r *http.Request, projectID string) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	input := parser.Fields()
	input["projectId"] = projectID

	payment, errs := forms.Payment(input, time.Now())
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	if err := s.ledger.AddPayment(r.Context(), payment); err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Payment creation failed",
			log.FieldError, err,
			log.FieldProjectID, projectID,
			log.FieldAmountCents, payment.Amount.Cents,
			log.FieldPaymentType, string(payment.Type))
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, payment)
}
