package json_types

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMalformedInput - ошибка разбора входных данных (не бизнес-отказ, а ошибка вызывающей стороны)
var ErrMalformedInput = errors.New("malformed input")

// ClockTime - время суток в формате HH:MM, хранится как количество минут с начала суток
type ClockTime int

func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ParseClockTime парсит строку вида "09:00" в ClockTime
func ParseClockTime(str string) (ClockTime, error) {
	parsedTime, err := time.Parse("15:04", str)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to parse clock time %q: %v", ErrMalformedInput, str, err)
	}
	return NewClockTime(parsedTime.Hour(), parsedTime.Minute()), nil
}

func (t ClockTime) Hour() int {
	return int(t) / 60
}

func (t ClockTime) Minute() int {
	return int(t) % 60
}

// Add возвращает время, сдвинутое на minutes минут вперед
func (t ClockTime) Add(minutes int) ClockTime {
	return t + ClockTime(minutes)
}

func (t ClockTime) Before(other ClockTime) bool {
	return t < other
}

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t *ClockTime) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("%w: clock time must be a string", ErrMalformedInput)
	}

	// Убираем кавычки вокруг строки
	str := string(data[1 : len(data)-1])
	parsed, err := ParseClockTime(str)
	if err != nil {
		return err
	}

	*t = parsed
	return nil
}

func (t ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}
