package core

import "testing"

func TestSummarizeEmptyProject(t *testing.T) {
	s := Summarize("nothing-here", nil, nil)
	if s.TotalExpenses.Cents != 0 || s.TotalReceived.Cents != 0 || s.TotalPaid.Cents != 0 || s.NetBalance.Cents != 0 {
		t.Fatalf("expected all-zero summary, got %+v", s)
	}
}

func TestSummarizeScenario(t *testing.T) {
	// Site A: budget 100000, one materials expense of 20000,
	// 50000 received, 10000 given out.
	expenses := []Expense{
		{ID: "e1", ProjectID: "site-a", Category: Materials, Description: "cement", Amount: Money{Cents: 2000000}, Date: NewDate(2025, 4, 2)},
		{ID: "e2", ProjectID: "site-b", Category: Labour, Description: "other site", Amount: Money{Cents: 999900}, Date: NewDate(2025, 4, 2)},
	}
	payments := []Payment{
		{ID: "p1", ProjectID: "site-a", Type: Received, To: "client", Amount: Money{Cents: 5000000}, Description: "advance", Date: NewDate(2025, 4, 5), Status: PaymentCompleted},
		{ID: "p2", ProjectID: "site-a", Type: Given, To: "supplier", Amount: Money{Cents: 1000000}, Description: "steel", Date: NewDate(2025, 4, 6), Status: PaymentCompleted},
		{ID: "p3", ProjectID: "site-b", Type: Received, To: "client", Amount: Money{Cents: 123400}, Description: "other site", Date: NewDate(2025, 4, 7), Status: PaymentPending},
	}

	s := Summarize("site-a", expenses, payments)
	if s.TotalExpenses.Cents != 2000000 {
		t.Fatalf("total expenses = %d, want 2000000", s.TotalExpenses.Cents)
	}
	if s.TotalReceived.Cents != 5000000 {
		t.Fatalf("total received = %d, want 5000000", s.TotalReceived.Cents)
	}
	if s.TotalPaid.Cents != 1000000 {
		t.Fatalf("total paid = %d, want 1000000", s.TotalPaid.Cents)
	}
	if s.NetBalance.Cents != 2000000 {
		t.Fatalf("net balance = %d, want 2000000", s.NetBalance.Cents)
	}
}

func TestNetBalanceIdentity(t *testing.T) {
	var expenses []Expense
	var payments []Payment

	check := func() {
		t.Helper()
		got := NetBalance("p", expenses, payments)
		want := TotalReceived("p", payments).Cents - TotalPaid("p", payments).Cents - TotalExpenses("p", expenses).Cents
		if got.Cents != want {
			t.Fatalf("identity broken: net=%d decomposed=%d", got.Cents, want)
		}
		if s := Summarize("p", expenses, payments); s.NetBalance != got {
			t.Fatalf("Summarize disagrees with NetBalance: %d != %d", s.NetBalance.Cents, got.Cents)
		}
	}

	check()
	for i, cents := range []int64{100, 250, 999999, 1} {
		expenses = append(expenses, Expense{ID: NewID(), ProjectID: "p", Category: Other, Description: "x", Amount: Money{Cents: cents}, Date: NewDate(2025, 1, i+1)})
		check()
	}
	for i, cents := range []int64{5000, 70, 1234567} {
		typ := Received
		if i%2 == 1 {
			typ = Given
		}
		payments = append(payments, Payment{ID: NewID(), ProjectID: "p", Type: typ, To: "x", Amount: Money{Cents: cents}, Description: "x", Date: NewDate(2025, 2, i+1), Status: PaymentPending})
		check()
	}
}

func TestFiltersPreserveInsertionOrder(t *testing.T) {
	expenses := []Expense{
		{ID: "e1", ProjectID: "p"},
		{ID: "e2", ProjectID: "other"},
		{ID: "e3", ProjectID: "p"},
	}
	got := ExpensesFor("p", expenses)
	if len(got) != 2 || got[0].ID != "e1" || got[1].ID != "e3" {
		t.Fatalf("unexpected filter result: %+v", got)
	}

	payments := []Payment{
		{ID: "p1", ProjectID: "p"},
		{ID: "p2", ProjectID: "p"},
		{ID: "p3", ProjectID: "other"},
	}
	gotP := PaymentsFor("p", payments)
	if len(gotP) != 2 || gotP[0].ID != "p1" || gotP[1].ID != "p2" {
		t.Fatalf("unexpected filter result: %+v", gotP)
	}
}
