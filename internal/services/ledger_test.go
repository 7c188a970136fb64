package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"cantiere/internal/amqp"
	"cantiere/internal/core"
	"cantiere/internal/kv"
	"cantiere/internal/kv/memory"
)

type recordingPublisher struct {
	messages []*amqp.ChangeMessage
	fail     bool
}

func (r *recordingPublisher) PublishChange(_ context.Context, msg *amqp.ChangeMessage) error {
	if r.fail {
		return errors.New("broker unavailable")
	}
	r.messages = append(r.messages, msg)
	return nil
}

func newTestLedger() (*Ledger, *recordingPublisher) {
	pub := &recordingPublisher{}
	return NewLedger(kv.NewStore(memory.New()), pub), pub
}

func testProject(id, name string) core.Project {
	now := time.Now()
	return core.Project{
		ID:              id,
		Name:            name,
		Description:     "desc",
		ClientName:      "client",
		StartDate:       core.NewDate(2025, 3, 1),
		ExpectedEndDate: core.NewDate(2025, 12, 31),
		Status:          core.Planning,
		TotalBudget:     core.Money{Cents: 10000000},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func testExpense(id, projectID string, cents int64) core.Expense {
	return core.Expense{
		ID:          id,
		ProjectID:   projectID,
		Category:    core.Materials,
		Description: "cement",
		Amount:      core.Money{Cents: cents},
		Date:        core.NewDate(2025, 4, 2),
		CreatedAt:   time.Now(),
	}
}

func testPayment(id, projectID string, typ core.PaymentType, cents int64) core.Payment {
	return core.Payment{
		ID:          id,
		ProjectID:   projectID,
		Type:        typ,
		To:          "counterparty",
		Amount:      core.Money{Cents: cents},
		Description: "payment",
		Date:        core.NewDate(2025, 4, 5),
		Status:      core.PaymentCompleted,
		CreatedAt:   time.Now(),
	}
}

func TestCreateProjectNewestFirst(t *testing.T) {
	l, pub := newTestLedger()
	ctx := context.Background()

	if err := l.CreateProject(ctx, testProject("p1", "first")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := l.CreateProject(ctx, testProject("p2", "second")); err != nil {
		t.Fatalf("create: %v", err)
	}

	projects := l.Projects(ctx)
	if len(projects) != 2 || projects[0].ID != "p2" || projects[1].ID != "p1" {
		t.Fatalf("expected newest first, got %+v", projects)
	}
	if len(pub.messages) != 2 || pub.messages[0].Op != amqp.OpCreate {
		t.Fatalf("expected create messages, got %+v", pub.messages)
	}
}

func TestCreateProjectRejectsInvalid(t *testing.T) {
	l, _ := newTestLedger()
	p := testProject("p1", "x")
	p.Status = "paused"
	if err := l.CreateProject(context.Background(), p); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestGetProjectNotFound(t *testing.T) {
	l, _ := newTestLedger()
	if _, err := l.GetProject(context.Background(), "missing"); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestUpdateProject(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()

	original := testProject("p1", "before")
	if err := l.CreateProject(ctx, original); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated := original
	updated.Name = "after"
	updated.UpdatedAt = time.Now().Add(time.Minute)
	if err := l.UpdateProject(ctx, updated); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := l.GetProject(ctx, "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "after" {
		t.Fatalf("update not applied: %+v", got)
	}
	if !got.CreatedAt.Equal(original.CreatedAt) {
		t.Fatalf("createdAt changed on update")
	}

	missing := testProject("nope", "x")
	if err := l.UpdateProject(ctx, missing); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	l, pub := newTestLedger()
	ctx := context.Background()

	if err := l.CreateProject(ctx, testProject("p1", "doomed")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := l.CreateProject(ctx, testProject("p2", "survivor")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := l.AddExpense(ctx, testExpense("e1", "p1", 100)); err != nil {
		t.Fatalf("expense: %v", err)
	}
	if err := l.AddExpense(ctx, testExpense("e2", "p2", 200)); err != nil {
		t.Fatalf("expense: %v", err)
	}
	if err := l.AddPayment(ctx, testPayment("pay1", "p1", core.Received, 300)); err != nil {
		t.Fatalf("payment: %v", err)
	}

	if err := l.DeleteProject(ctx, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := l.GetProject(ctx, "p1"); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("project still present")
	}
	if got := l.Expenses(ctx); len(got) != 1 || got[0].ID != "e2" {
		t.Fatalf("cascade missed expenses: %+v", got)
	}
	if got := l.Payments(ctx); len(got) != 0 {
		t.Fatalf("cascade missed payments: %+v", got)
	}

	// Every collection the cascade rewrote must announce its change, or
	// downstream snapshots of expenses and payments go stale.
	deleted := map[string]bool{}
	for _, msg := range pub.messages {
		if msg.Op == amqp.OpDelete && msg.EntityID == "p1" {
			deleted[msg.Key] = true
		}
	}
	for _, key := range []string{kv.KeyProjects, kv.KeyExpenses, kv.KeyPayments} {
		if !deleted[key] {
			t.Errorf("no delete message published for %s", key)
		}
	}

	if err := l.DeleteProject(ctx, "p1"); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound on second delete, got %v", err)
	}
}

func TestAddExpenseConcurrent(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()

	if err := l.CreateProject(ctx, testProject("p1", "busy site")); err != nil {
		t.Fatalf("create: %v", err)
	}

	const n = 100
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- l.AddExpense(ctx, testExpense(fmt.Sprintf("e%d", i), "p1", 100))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("add expense: %v", err)
		}
	}

	if got := l.ExpensesFor(ctx, "p1"); len(got) != n {
		t.Fatalf("expected %d expenses, got %d", n, len(got))
	}
	if s := l.Summary(ctx, "p1"); s.TotalExpenses.Cents != n*100 {
		t.Fatalf("expected total %d cents, got %d", n*100, s.TotalExpenses.Cents)
	}
}

func TestAddExpenseRequiresProject(t *testing.T) {
	l, _ := newTestLedger()
	err := l.AddExpense(context.Background(), testExpense("e1", "ghost", 100))
	if !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestAddPaymentRequiresProject(t *testing.T) {
	l, _ := newTestLedger()
	err := l.AddPayment(context.Background(), testPayment("pay1", "ghost", core.Given, 100))
	if !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestSummaryScenario(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()

	if err := l.CreateProject(ctx, testProject("site-a", "Site A")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := l.AddExpense(ctx, testExpense("e1", "site-a", 2000000)); err != nil {
		t.Fatalf("expense: %v", err)
	}
	if err := l.AddPayment(ctx, testPayment("pay1", "site-a", core.Received, 5000000)); err != nil {
		t.Fatalf("payment: %v", err)
	}
	if err := l.AddPayment(ctx, testPayment("pay2", "site-a", core.Given, 1000000)); err != nil {
		t.Fatalf("payment: %v", err)
	}

	s := l.Summary(ctx, "site-a")
	if s.TotalExpenses.Cents != 2000000 || s.TotalReceived.Cents != 5000000 ||
		s.TotalPaid.Cents != 1000000 || s.NetBalance.Cents != 2000000 {
		t.Fatalf("unexpected summary: %+v", s)
	}

	// Unknown project renders as empty state, never an error.
	if s := l.Summary(ctx, "ghost"); s.NetBalance.Cents != 0 {
		t.Fatalf("expected zero summary for unknown project")
	}
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	pub := &recordingPublisher{fail: true}
	l := NewLedger(kv.NewStore(memory.New()), pub)
	ctx := context.Background()

	if err := l.CreateProject(ctx, testProject("p1", "x")); err != nil {
		t.Fatalf("create should succeed despite publish failure: %v", err)
	}
	if len(l.Projects(ctx)) != 1 {
		t.Fatalf("project not stored")
	}
}

func TestNilPublisher(t *testing.T) {
	l := NewLedger(kv.NewStore(memory.New()), nil)
	if err := l.CreateProject(context.Background(), testProject("p1", "x")); err != nil {
		t.Fatalf("create with nil publisher: %v", err)
	}
}
