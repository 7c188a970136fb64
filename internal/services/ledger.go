// Package services orchestrates domain operations over the kv store and
// publishes change events for interested consumers.
package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"cantiere/internal/amqp"
	"cantiere/internal/core"
	"cantiere/internal/kv"
)

var ErrProjectNotFound = errors.New("project not found")

// Publisher broadcasts collection changes. The AMQP client satisfies it;
// a nil Publisher disables broadcasting without changing behavior.
type Publisher interface {
	PublishChange(ctx context.Context, msg *amqp.ChangeMessage) error
}

// Ledger owns the project, expense and payment collections. All mutations
// go through it so referential rules (cascade on project delete) are
// enforced in one place instead of in every caller.
//
// Every mutation is a whole-collection read-modify-write, so mu serializes
// them; concurrent handlers would otherwise overwrite each other's appends.
type Ledger struct {
	mu        sync.Mutex
	store     *kv.Store
	publisher Publisher
	now       func() time.Time
}

func NewLedger(store *kv.Store, publisher Publisher) *Ledger {
	return &Ledger{
		store:     store,
		publisher: publisher,
		now:       time.Now,
	}
}

// Projects returns every project, newest first.
func (l *Ledger) Projects(ctx context.Context) []core.Project {
	return kv.Load(ctx, l.store, kv.KeyProjects, []core.Project{})
}

// GetProject looks a project up by id.
func (l *Ledger) GetProject(ctx context.Context, id string) (core.Project, error) {
	for _, p := range l.Projects(ctx) {
		if p.ID == id {
			return p, nil
		}
	}
	return core.Project{}, ErrProjectNotFound
}

// CreateProject validates and stores a new project at the head of the
// collection, so listings show the most recent project first.
func (l *Ledger) CreateProject(ctx context.Context, p core.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	projects := l.Projects(ctx)
	kv.Save(ctx, l.store, kv.KeyProjects, append([]core.Project{p}, projects...))
	l.publish(ctx, kv.KeyProjects, amqp.OpCreate, p.ID)

	slog.InfoContext(ctx, "Project created",
		"project_id", p.ID,
		"name", p.Name,
		"status", string(p.Status),
		"budget_cents", p.TotalBudget.Cents)
	return nil
}

// UpdateProject replaces the stored project with the same id in place.
func (l *Ledger) UpdateProject(ctx context.Context, p core.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	projects := l.Projects(ctx)
	found := false
	for i := range projects {
		if projects[i].ID == p.ID {
			projects[i] = p
			found = true
			break
		}
	}
	if !found {
		return ErrProjectNotFound
	}
	kv.Save(ctx, l.store, kv.KeyProjects, projects)
	l.publish(ctx, kv.KeyProjects, amqp.OpUpdate, p.ID)

	slog.InfoContext(ctx, "Project updated", "project_id", p.ID, "name", p.Name)
	return nil
}

// DeleteProject removes the project and cascades to its expenses and
// payments, keeping the collections free of orphans.
func (l *Ledger) DeleteProject(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	projects := l.Projects(ctx)
	kept := projects[:0:0]
	found := false
	for _, p := range projects {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return ErrProjectNotFound
	}
	kv.Save(ctx, l.store, kv.KeyProjects, kept)

	expenses := l.Expenses(ctx)
	keptExpenses := expenses[:0:0]
	for _, e := range expenses {
		if e.ProjectID != id {
			keptExpenses = append(keptExpenses, e)
		}
	}
	if len(keptExpenses) != len(expenses) {
		kv.Save(ctx, l.store, kv.KeyExpenses, keptExpenses)
		l.publish(ctx, kv.KeyExpenses, amqp.OpDelete, id)
	}

	payments := l.Payments(ctx)
	keptPayments := payments[:0:0]
	for _, p := range payments {
		if p.ProjectID != id {
			keptPayments = append(keptPayments, p)
		}
	}
	if len(keptPayments) != len(payments) {
		kv.Save(ctx, l.store, kv.KeyPayments, keptPayments)
		l.publish(ctx, kv.KeyPayments, amqp.OpDelete, id)
	}

	l.publish(ctx, kv.KeyProjects, amqp.OpDelete, id)

	slog.InfoContext(ctx, "Project deleted",
		"project_id", id,
		"cascaded_expenses", len(expenses)-len(keptExpenses),
		"cascaded_payments", len(payments)-len(keptPayments))
	return nil
}

// Expenses returns the full expense collection in insertion order.
func (l *Ledger) Expenses(ctx context.Context) []core.Expense {
	return kv.Load(ctx, l.store, kv.KeyExpenses, []core.Expense{})
}

// ExpensesFor returns the expenses recorded against one project.
func (l *Ledger) ExpensesFor(ctx context.Context, projectID string) []core.Expense {
	return core.ExpensesFor(projectID, l.Expenses(ctx))
}

// AddExpense validates and appends an expense. The referenced project must
// exist; expenses are immutable once recorded.
func (l *Ledger) AddExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.GetProject(ctx, e.ProjectID); err != nil {
		return err
	}
	kv.Save(ctx, l.store, kv.KeyExpenses, append(l.Expenses(ctx), e))
	l.publish(ctx, kv.KeyExpenses, amqp.OpCreate, e.ID)

	slog.InfoContext(ctx, "Expense recorded",
		"expense_id", e.ID,
		"project_id", e.ProjectID,
		"category", string(e.Category),
		"amount_cents", e.Amount.Cents)
	return nil
}

// Payments returns the full payment collection in insertion order.
func (l *Ledger) Payments(ctx context.Context) []core.Payment {
	return kv.Load(ctx, l.store, kv.KeyPayments, []core.Payment{})
}

// PaymentsFor returns the payments recorded against one project.
func (l *Ledger) PaymentsFor(ctx context.Context, projectID string) []core.Payment {
	return core.PaymentsFor(projectID, l.Payments(ctx))
}

// AddPayment validates and appends a payment. The referenced project must
// exist; payments are immutable once recorded.
func (l *Ledger) AddPayment(ctx context.Context, p core.Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.GetProject(ctx, p.ProjectID); err != nil {
		return err
	}
	kv.Save(ctx, l.store, kv.KeyPayments, append(l.Payments(ctx), p))
	l.publish(ctx, kv.KeyPayments, amqp.OpCreate, p.ID)

	slog.InfoContext(ctx, "Payment recorded",
		"payment_id", p.ID,
		"project_id", p.ProjectID,
		"payment_type", string(p.Type),
		"amount_cents", p.Amount.Cents)
	return nil
}

// Summary computes the derived financial figures for a project. A project
// with no entries, or an unknown id, yields an all-zero summary.
func (l *Ledger) Summary(ctx context.Context, projectID string) core.ProjectSummary {
	return core.Summarize(projectID, l.Expenses(ctx), l.Payments(ctx))
}

// Watch exposes the store's change notifications for a collection key.
func (l *Ledger) Watch(key string) (<-chan kv.Event, func()) {
	return l.store.Watch(key)
}

func (l *Ledger) publish(ctx context.Context, key, op, entityID string) {
	if l.publisher == nil {
		return
	}
	if err := l.publisher.PublishChange(ctx, amqp.NewChangeMessage(key, op, entityID)); err != nil {
		// The write already landed; a lost broadcast must not fail the request.
		slog.ErrorContext(ctx, "Failed to publish change message",
			"key", key, "op", op, "entity_id", entityID, "error", err)
	}
}
