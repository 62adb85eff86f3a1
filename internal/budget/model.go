package budget

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/finbuddy/backend/internal/money"
)

type Category string

const (
	CategoryGeneral       Category = "GENERAL"
	CategoryFood          Category = "FOOD"
	CategoryRent          Category = "RENT"
	CategoryTransport     Category = "TRANSPORT"
	CategoryUtilities     Category = "UTILITIES"
	CategoryEntertainment Category = "ENTERTAINMENT"
	CategorySavings       Category = "SAVINGS"
	CategoryOther         Category = "OTHER"
)

var ErrInvalidMonth = errors.New("invalid month format")

var monthPattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)

// Month is a calendar month. It is written as "YYYY-MM" and stored as the
// first day of the month.
type Month struct {
	Year  int
	Month time.Month
}

func ParseMonth(s string) (Month, error) {
	m := monthPattern.FindStringSubmatch(s)
	if m == nil {
		return Month{}, ErrInvalidMonth
	}
	year, _ := strconv.Atoi(m[1])
	mon, _ := strconv.Atoi(m[2])
	if year < 1 || mon < 1 || mon > 12 {
		return Month{}, ErrInvalidMonth
	}
	return Month{Year: year, Month: time.Month(mon)}, nil
}

func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) Date() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

func (m Month) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Month) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseMonth(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

type Budget struct {
	ID        string       `json:"id"`
	UserID    string       `json:"-"`
	Username  string       `json:"user"`
	Income    money.Amount `json:"income"`
	Expenses  money.Amount `json:"expenses"`
	Month     Month        `json:"month"`
	Category  Category     `json:"category"`
	Notes     *string      `json:"notes"`
	CreatedAt time.Time    `json:"created_at"`
}

// Input is the writable part of a budget as sent by clients. Owner fields in the
// payload are not part of it and therefore ignored.
type Input struct {
	Income   money.Raw `json:"income"`
	Expenses money.Raw `json:"expenses"`
	Month    string    `json:"month"`
	Category string    `json:"category" validate:"omitempty,oneof=GENERAL FOOD RENT TRANSPORT UTILITIES ENTERTAINMENT SAVINGS OTHER"`
	Notes    *string   `json:"notes"`
}

// Filter narrows a listing. A nil Month matches every month.
type Filter struct {
	Month *Month
}
