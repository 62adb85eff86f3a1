package goal

import (
	"encoding/json"
	"time"

	"github.com/finbuddy/backend/internal/money"
)

type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without time of day, written as YYYY-MM-DD.
type Date struct {
	time.Time
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func NewDate(t time.Time) Date {
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

type Goal struct {
	ID           string       `json:"id"`
	UserID       string       `json:"-"`
	Username     string       `json:"user"`
	Name         string       `json:"name"`
	TargetAmount money.Amount `json:"target_amount"`
	SavedAmount  money.Amount `json:"saved_amount"`
	Deadline     Date         `json:"deadline"`
	Status       Status       `json:"status"`
	Notes        *string      `json:"notes"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Input is the client-writable part of a goal. saved_amount only moves
// through AddSavedAmount.
type Input struct {
	Name         string    `json:"name" validate:"required,max=100"`
	TargetAmount money.Raw `json:"target_amount"`
	Deadline     string    `json:"deadline"`
	Status       string    `json:"status" validate:"omitempty,oneof=ongoing completed"`
	Notes        *string   `json:"notes"`
}

type AddSavedAmountRequest struct {
	Amount money.Raw `json:"amount"`
}

type Progress struct {
	Message     string `json:"message"`
	SavedAmount string `json:"saved_amount"`
	Reached     bool   `json:"-"`
}
