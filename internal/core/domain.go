package core

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Planning   ProjectStatus = "planning"
	InProgress ProjectStatus = "in-progress"
	OnHold     ProjectStatus = "on-hold"
	Completed  ProjectStatus = "completed"
)

const (
	Materials ExpenseCategory = "materials"
	Labour    ExpenseCategory = "labor"
	Equipment ExpenseCategory = "equipment"
	Transport ExpenseCategory = "transport"
	Other     ExpenseCategory = "other"
)

const (
	Received PaymentType = "received"
	Given    PaymentType = "given"
)

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

type (
	ProjectStatus   string
	ExpenseCategory string
	PaymentType     string
	PaymentStatus   string

	Date struct {
		time.Time
	}

	Project struct {
		ID              string        `json:"id"`
		Name            string        `json:"name"`
		Description     string        `json:"description"`
		ClientName      string        `json:"clientName"`
		StartDate       Date          `json:"startDate"`
		ExpectedEndDate Date          `json:"expectedEndDate"`
		Status          ProjectStatus `json:"status"`
		TotalBudget     Money         `json:"totalBudget"`
		CreatedAt       time.Time     `json:"createdAt"`
		UpdatedAt       time.Time     `json:"updatedAt"`
	}

	Expense struct {
		ID          string          `json:"id"`
		ProjectID   string          `json:"projectId"`
		Category    ExpenseCategory `json:"category"`
		Description string          `json:"description"`
		Amount      Money           `json:"amount"`
		Date        Date            `json:"date"`
		CreatedAt   time.Time       `json:"createdAt"`
	}

	Payment struct {
		ID          string        `json:"id"`
		ProjectID   string        `json:"projectId"`
		Type        PaymentType   `json:"type"`
		To          string        `json:"to"`
		Amount      Money         `json:"amount"`
		Description string        `json:"description"`
		Date        Date          `json:"date"`
		Status      PaymentStatus `json:"status"`
		CreatedAt   time.Time     `json:"createdAt"`
	}

	// Labor, Supplier and LaborAssignment have collection keys and snapshot
	// coverage but no operations yet beyond storage.

	Labor struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Phone     string    `json:"phone"`
		Address   string    `json:"address"`
		DailyRate Money     `json:"dailyRate"`
		Skills    []string  `json:"skills"`
		Status    string    `json:"status"` // active | inactive
		CreatedAt time.Time `json:"createdAt"`
	}

	Supplier struct {
		ID            string    `json:"id"`
		Name          string    `json:"name"`
		ContactPerson string    `json:"contactPerson"`
		Phone         string    `json:"phone"`
		Email         string    `json:"email"`
		Address       string    `json:"address"`
		Category      string    `json:"category"`
		Status        string    `json:"status"` // active | inactive
		CreatedAt     time.Time `json:"createdAt"`
	}

	LaborAssignment struct {
		ID          string    `json:"id"`
		ProjectID   string    `json:"projectId"`
		LaborID     string    `json:"laborId"`
		StartDate   Date      `json:"startDate"`
		EndDate     *Date     `json:"endDate,omitempty"`
		DaysWorked  int       `json:"daysWorked"`
		TotalAmount Money     `json:"totalAmount"`
		Status      string    `json:"status"` // active | completed
		CreatedAt   time.Time `json:"createdAt"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyName       = errors.New("empty name")
	ErrEmptyClient     = errors.New("empty client name")
	ErrEmptyDesc       = errors.New("empty description")
	ErrEmptyPayee      = errors.New("empty counterparty")
	ErrMissingProject  = errors.New("missing project id")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidType     = errors.New("invalid payment type")
	ErrInvalidDate     = errors.New("invalid date")
)

func (s ProjectStatus) IsValid() bool {
	switch s {
	case Planning, InProgress, OnHold, Completed:
		return true
	}
	return false
}

func (c ExpenseCategory) IsValid() bool {
	switch c {
	case Materials, Labour, Equipment, Transport, Other:
		return true
	}
	return false
}

func (t PaymentType) IsValid() bool {
	switch t {
	case Received, Given:
		return true
	}
	return false
}

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentCompleted:
		return true
	}
	return false
}

// NewDate creates a new Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

// MarshalJSON stores dates as plain YYYY-MM-DD strings.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (p Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if len(p.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	if strings.TrimSpace(p.Description) == "" {
		return ErrEmptyDesc
	}
	if strings.TrimSpace(p.ClientName) == "" {
		return ErrEmptyClient
	}
	if err := p.StartDate.Validate(); err != nil {
		return fmt.Errorf("start date: %w", err)
	}
	if err := p.ExpectedEndDate.Validate(); err != nil {
		return fmt.Errorf("expected end date: %w", err)
	}
	if !p.Status.IsValid() {
		return ErrInvalidStatus
	}
	if err := p.TotalBudget.Validate(); err != nil {
		return err
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.ProjectID) == "" {
		return ErrMissingProject
	}
	if !e.Category.IsValid() {
		return ErrInvalidCategory
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDesc
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	return nil
}

func (p Payment) Validate() error {
	if strings.TrimSpace(p.ProjectID) == "" {
		return ErrMissingProject
	}
	if !p.Type.IsValid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(p.To) == "" {
		return ErrEmptyPayee
	}
	if err := p.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(p.Description) == "" {
		return ErrEmptyDesc
	}
	if err := p.Date.Validate(); err != nil {
		return err
	}
	if !p.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// NewID returns a random identifier for newly created entities.
func NewID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("id_%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(bytes)
}
