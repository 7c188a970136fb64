package core

// ProjectSummary holds the derived financial figures for one project.
type ProjectSummary struct {
	TotalExpenses Money `json:"totalExpenses"`
	TotalReceived Money `json:"totalReceived"`
	TotalPaid     Money `json:"totalPaid"`
	NetBalance    Money `json:"netBalance"`
}

// ExpensesFor filters expenses belonging to the given project,
// preserving insertion order.
func ExpensesFor(projectID string, expenses []Expense) []Expense {
	var out []Expense
	for _, e := range expenses {
		if e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	return out
}

// PaymentsFor filters payments belonging to the given project,
// preserving insertion order.
func PaymentsFor(projectID string, payments []Payment) []Payment {
	var out []Payment
	for _, p := range payments {
		if p.ProjectID == projectID {
			out = append(out, p)
		}
	}
	return out
}

// TotalExpenses sums all expense amounts recorded against the project.
func TotalExpenses(projectID string, expenses []Expense) Money {
	var cents int64
	for _, e := range expenses {
		if e.ProjectID == projectID {
			cents += e.Amount.Cents
		}
	}
	return Money{Cents: cents}
}

// TotalReceived sums payments of type "received" for the project.
func TotalReceived(projectID string, payments []Payment) Money {
	return sumPayments(projectID, Received, payments)
}

// TotalPaid sums payments of type "given" for the project.
func TotalPaid(projectID string, payments []Payment) Money {
	return sumPayments(projectID, Given, payments)
}

func sumPayments(projectID string, typ PaymentType, payments []Payment) Money {
	var cents int64
	for _, p := range payments {
		if p.ProjectID == projectID && p.Type == typ {
			cents += p.Amount.Cents
		}
	}
	return Money{Cents: cents}
}

// NetBalance is received minus paid out minus expenses. It may be negative.
func NetBalance(projectID string, expenses []Expense, payments []Payment) Money {
	received := TotalReceived(projectID, payments)
	paid := TotalPaid(projectID, payments)
	spent := TotalExpenses(projectID, expenses)
	return Money{Cents: received.Cents - paid.Cents - spent.Cents}
}

// Summarize computes every derived figure for the project in one pass over
// the collections. A project with no entries yields an all-zero summary.
func Summarize(projectID string, expenses []Expense, payments []Payment) ProjectSummary {
	var spent, received, paid int64
	for _, e := range expenses {
		if e.ProjectID == projectID {
			spent += e.Amount.Cents
		}
	}
	for _, p := range payments {
		if p.ProjectID != projectID {
			continue
		}
		switch p.Type {
		case Received:
			received += p.Amount.Cents
		case Given:
			paid += p.Amount.Cents
		}
	}
	return ProjectSummary{
		TotalExpenses: Money{Cents: spent},
		TotalReceived: Money{Cents: received},
		TotalPaid:     Money{Cents: paid},
		NetBalance:    Money{Cents: received - paid - spent},
	}
}
