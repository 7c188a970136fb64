// Package forms validates raw user input against per-entity field schemas
// and builds domain entities from the validated values. Adding a field to an
// entity form is a schema change, not new validation code.
package forms

import "cantiere/internal/core"

// FieldKind tags the variant a Field carries.
type FieldKind string

const (
	Text   FieldKind = "text"
	Number FieldKind = "number"
	Enum   FieldKind = "enum"
	DateOf FieldKind = "date"
)

// Field describes one recognized form field.
type Field struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	Enum     []string  `json:"enum,omitempty"` // literal values, Enum kind only
	Hint     string    `json:"hint,omitempty"` // unit convention, Number kind only
}

// Number fields are submitted in decimal units but come back from the API as
// integer cents; the hint spells that out so clients do not resubmit a cents
// value as units.
const amountHint = "decimal amount, e.g. 1500.50; API responses return this value as integer cents"

// Schema is the ordered field list for one entity form.
type Schema struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

func enumOf[T ~string](vals ...T) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}

// ProjectSchema mirrors the project creation/edit form.
var ProjectSchema = Schema{
	Name: "project",
	Fields: []Field{
		{Name: "name", Label: "Project name", Kind: Text, Required: true},
		{Name: "description", Label: "Description", Kind: Text, Required: true},
		{Name: "clientName", Label: "Client name", Kind: Text, Required: true},
		{Name: "startDate", Label: "Start date", Kind: DateOf, Required: true},
		{Name: "expectedEndDate", Label: "Expected end date", Kind: DateOf, Required: true},
		{Name: "status", Label: "Status", Kind: Enum, Required: true,
			Enum: enumOf(core.Planning, core.InProgress, core.OnHold, core.Completed)},
		{Name: "totalBudget", Label: "Budget", Kind: Number, Required: true, Hint: amountHint},
	},
}

// ExpenseSchema mirrors the expense entry form.
var ExpenseSchema = Schema{
	Name: "expense",
	Fields: []Field{
		{Name: "projectId", Label: "Project", Kind: Text, Required: true},
		{Name: "category", Label: "Category", Kind: Enum, Required: true,
			Enum: enumOf(core.Materials, core.Labour, core.Equipment, core.Transport, core.Other)},
		{Name: "description", Label: "Description", Kind: Text, Required: true},
		{Name: "amount", Label: "Amount", Kind: Number, Required: true, Hint: amountHint},
		{Name: "date", Label: "Date", Kind: DateOf, Required: true},
	},
}

// PaymentSchema mirrors the payment entry form.
var PaymentSchema = Schema{
	Name: "payment",
	Fields: []Field{
		{Name: "projectId", Label: "Project", Kind: Text, Required: true},
		{Name: "type", Label: "Payment type", Kind: Enum, Required: true,
			Enum: enumOf(core.Received, core.Given)},
		{Name: "to", Label: "Paid to / received from", Kind: Text, Required: true},
		{Name: "amount", Label: "Amount", Kind: Number, Required: true, Hint: amountHint},
		{Name: "description", Label: "Description", Kind: Text, Required: true},
		{Name: "date", Label: "Date", Kind: DateOf, Required: true},
		{Name: "status", Label: "Status", Kind: Enum, Required: true,
			Enum: enumOf(core.PaymentPending, core.PaymentCompleted)},
	},
}
