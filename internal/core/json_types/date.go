package json_types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Date - календарная дата без времени, формат YYYY-MM-DD
type Date struct {
	Time time.Time
}

// ParseDate парсит дату из строки в формате YYYY-MM-DD
func ParseDate(str string) (Date, error) {
	parsedDate, err := time.Parse("2006-01-02", str)
	if err != nil {
		return Date{}, fmt.Errorf("%w: failed to parse date %q: %v", ErrMalformedInput, str, err)
	}

	return Date{Time: parsedDate}, nil
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf обрезает время у переданного момента, оставляя только дату
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func (d Date) Weekday() time.Weekday {
	return d.Time.Weekday()
}

func (d Date) Equal(other Date) bool {
	return d.String() == other.String()
}

func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

func (d Date) IsZero() bool {
	return d.Time.IsZero()
}

func (d Date) String() string {
	return d.Time.Format("2006-01-02")
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("%w: date must be a string", ErrMalformedInput)
	}

	// Убираем кавычки вокруг строки
	str := string(data[1 : len(data)-1])
	parsedDate, err := ParseDate(str)
	if err != nil {
		return err
	}

	*d = parsedDate
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}
