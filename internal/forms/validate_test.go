package forms

import (
	"testing"
	"time"

	"cantiere/internal/core"
)

func projectInput() map[string]string {
	return map[string]string{
		"name":            "Site A",
		"description":     "Residential build",
		"clientName":      "R. Mehta",
		"startDate":       "2025-03-01",
		"expectedEndDate": "2025-12-31",
		"status":          "planning",
		"totalBudget":     "100000",
	}
}

func TestValidateProjectOK(t *testing.T) {
	now := time.Now()
	p, errs := Project(projectInput(), now)
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if p.ID == "" {
		t.Fatalf("expected generated id")
	}
	if p.TotalBudget.Cents != 10000000 {
		t.Fatalf("budget = %d cents, want 10000000", p.TotalBudget.Cents)
	}
	if p.Status != core.Planning {
		t.Fatalf("status = %s", p.Status)
	}
	if !p.CreatedAt.Equal(now) || !p.UpdatedAt.Equal(now) {
		t.Fatalf("timestamps not set from now")
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("built entity should validate: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(map[string]string)
		field   string
	}{
		{"non-numeric amount", func(m map[string]string) { m["totalBudget"] = "abc" }, "totalBudget"},
		{"empty description", func(m map[string]string) { m["description"] = "   " }, "description"},
		{"missing name", func(m map[string]string) { delete(m, "name") }, "name"},
		{"bad date", func(m map[string]string) { m["startDate"] = "01/03/2025" }, "startDate"},
		{"out-of-enum status", func(m map[string]string) { m["status"] = "invalid-value" }, "status"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := projectInput()
			tc.mutate(in)
			_, errs := Project(in, time.Now())
			if errs == nil {
				t.Fatalf("expected errors")
			}
			if _, ok := errs[tc.field]; !ok {
				t.Fatalf("expected error on %q, got %v", tc.field, errs)
			}
		})
	}
}

func TestValidateReportsEveryFailingField(t *testing.T) {
	in := projectInput()
	in["name"] = ""
	in["totalBudget"] = "abc"
	_, errs := Project(in, time.Now())
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
}

func TestExpenseFromInput(t *testing.T) {
	in := map[string]string{
		"projectId":   "p1",
		"category":    "materials",
		"description": "cement bags",
		"amount":      "20000",
		"date":        "2025-04-02",
	}
	e, errs := Expense(in, time.Now())
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if e.Amount.Cents != 2000000 || e.Category != core.Materials {
		t.Fatalf("unexpected expense: %+v", e)
	}

	in["category"] = "invalid-value"
	if _, errs := Expense(in, time.Now()); errs == nil {
		t.Fatalf("expected rejection of out-of-enum category")
	}
}

func TestPaymentFromInput(t *testing.T) {
	in := map[string]string{
		"projectId":   "p1",
		"type":        "received",
		"to":          "R. Mehta",
		"amount":      "50000",
		"description": "advance",
		"date":        "2025-04-05",
		"status":      "completed",
	}
	p, errs := Payment(in, time.Now())
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if p.Type != core.Received || p.Amount.Cents != 5000000 {
		t.Fatalf("unexpected payment: %+v", p)
	}

	in["type"] = "refund"
	if _, errs := Payment(in, time.Now()); errs == nil {
		t.Fatalf("expected rejection of out-of-enum type")
	}
}

func TestApplyProjectPreservesIdentity(t *testing.T) {
	created := time.Now().Add(-24 * time.Hour)
	existing, _ := Project(projectInput(), created)

	in := projectInput()
	in["status"] = "in-progress"
	now := time.Now()
	updated, errs := ApplyProject(existing, in, now)
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if updated.ID != existing.ID {
		t.Fatalf("id changed on update")
	}
	if !updated.CreatedAt.Equal(existing.CreatedAt) {
		t.Fatalf("createdAt changed on update")
	}
	if !updated.UpdatedAt.Equal(now) {
		t.Fatalf("updatedAt not refreshed")
	}
	if updated.Status != core.InProgress {
		t.Fatalf("status not applied")
	}
}

func TestValidateHasNoSideEffects(t *testing.T) {
	in := projectInput()
	_, _ = Validate(in, ProjectSchema)
	if in["name"] != "Site A" {
		t.Fatalf("input mutated")
	}
}

func TestNumberFieldsCarryUnitHint(t *testing.T) {
	for _, schema := range []Schema{ProjectSchema, ExpenseSchema, PaymentSchema} {
		for _, f := range schema.Fields {
			if f.Kind == Number && f.Hint == "" {
				t.Errorf("%s.%s has no unit hint", schema.Name, f.Name)
			}
		}
	}
}
