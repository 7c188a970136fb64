package forms

import (
	"fmt"
	"strings"
	"time"

	"cantiere/internal/core"
)

// FieldErrors maps field name to a human-readable message. It is the
// validation failure shape surfaced inline to the user, never thrown.
type FieldErrors map[string]string

// Values holds validated, typed field values keyed by field name.
// Text and enum fields are strings, number fields core.Money,
// date fields core.Date.
type Values map[string]any

func (v Values) Text(name string) string {
	s, _ := v[name].(string)
	return s
}

func (v Values) Money(name string) core.Money {
	m, _ := v[name].(core.Money)
	return m
}

func (v Values) Date(name string) core.Date {
	d, _ := v[name].(core.Date)
	return d
}

// Validate checks raw input against the schema. It returns the typed values
// and a (possibly empty) error map; every failing field is reported, not
// just the first. Unrecognized input keys are ignored. Validation has no
// side effects and never mutates any store.
func Validate(input map[string]string, schema Schema) (Values, FieldErrors) {
	values := make(Values, len(schema.Fields))
	errs := make(FieldErrors)

	for _, f := range schema.Fields {
		raw := strings.TrimSpace(input[f.Name])

		if raw == "" {
			if f.Required {
				errs[f.Name] = fmt.Sprintf("%s is required", f.Label)
			}
			continue
		}

		switch f.Kind {
		case Text:
			values[f.Name] = raw

		case Number:
			cents, err := core.ParseDecimalToCents(raw)
			if err != nil {
				errs[f.Name] = fmt.Sprintf("%s must be a number", f.Label)
				continue
			}
			values[f.Name] = core.Money{Cents: cents}

		case Enum:
			// The input widget constrains this already; validate anyway so
			// hand-crafted requests cannot smuggle values past the form.
			if !contains(f.Enum, raw) {
				errs[f.Name] = fmt.Sprintf("%s must be one of: %s", f.Label, strings.Join(f.Enum, ", "))
				continue
			}
			values[f.Name] = raw

		case DateOf:
			d, err := core.ParseDate(raw)
			if err != nil {
				errs[f.Name] = fmt.Sprintf("%s must be a valid date (YYYY-MM-DD)", f.Label)
				continue
			}
			values[f.Name] = d

		default:
			errs[f.Name] = fmt.Sprintf("%s has an unknown field kind", f.Label)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return values, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Project builds a new project from raw form input, generating its id and
// timestamps.
func Project(input map[string]string, now time.Time) (core.Project, FieldErrors) {
	v, errs := Validate(input, ProjectSchema)
	if errs != nil {
		return core.Project{}, errs
	}
	return core.Project{
		ID:              core.NewID(),
		Name:            v.Text("name"),
		Description:     v.Text("description"),
		ClientName:      v.Text("clientName"),
		StartDate:       v.Date("startDate"),
		ExpectedEndDate: v.Date("expectedEndDate"),
		Status:          core.ProjectStatus(v.Text("status")),
		TotalBudget:     v.Money("totalBudget"),
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// ApplyProject builds an updated copy of existing from raw form input,
// preserving id and createdAt and refreshing updatedAt.
func ApplyProject(existing core.Project, input map[string]string, now time.Time) (core.Project, FieldErrors) {
	p, errs := Project(input, now)
	if errs != nil {
		return core.Project{}, errs
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	return p, nil
}

// Expense builds a new expense from raw form input.
func Expense(input map[string]string, now time.Time) (core.Expense, FieldErrors) {
	v, errs := Validate(input, ExpenseSchema)
	if errs != nil {
		return core.Expense{}, errs
	}
	return core.Expense{
		ID:          core.NewID(),
		ProjectID:   v.Text("projectId"),
		Category:    core.ExpenseCategory(v.Text("category")),
		Description: v.Text("description"),
		Amount:      v.Money("amount"),
		Date:        v.Date("date"),
		CreatedAt:   now,
	}, nil
}

// Payment builds a new payment from raw form input.
func Payment(input map[string]string, now time.Time) (core.Payment, FieldErrors) {
	v, errs := Validate(input, PaymentSchema)
	if errs != nil {
		return core.Payment{}, errs
	}
	return core.Payment{
		ID:          core.NewID(),
		ProjectID:   v.Text("projectId"),
		Type:        core.PaymentType(v.Text("type")),
		To:          v.Text("to"),
		Amount:      v.Money("amount"),
		Description: v.Text("description"),
		Date:        v.Date("date"),
		Status:      core.PaymentStatus(v.Text("status")),
		CreatedAt:   now,
	}, nil
}
