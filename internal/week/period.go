package week

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind distinguishes the two period formats that coexist in stored data.
// Early records were keyed by calendar month ("2024-11"); everything written
// since the weekly rollout is keyed by anchor date ("2025-02-07").
type Kind int

const (
	KindMonthly Kind = iota
	KindWeekly
)

// PeriodKey identifies one reporting interval. It is parsed from and
// serialized to the legacy string forms only at the storage boundary; the
// rest of the code never branches on string length.
type PeriodKey struct {
	kind  Kind
	year  int
	month time.Month
	day   int // weekly only
}

// Weekly builds a week-anchored key for the given civil date.
func Weekly(year int, month time.Month, day int) PeriodKey {
	return PeriodKey{kind: KindWeekly, year: year, month: month, day: day}
}

// Monthly builds a legacy month key.
func Monthly(year int, month time.Month) PeriodKey {
	return PeriodKey{kind: KindMonthly, year: year, month: month}
}

// ParseKey reads either stored form. "YYYY-MM" parses as a monthly key,
// "YYYY-MM-DD" as a weekly one.
func ParseKey(s string) (PeriodKey, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return Weekly(t.Year(), t.Month(), t.Day()), nil
	}
	if t, err := time.Parse("2006-01", s); err == nil {
		return Monthly(t.Year(), t.Month()), nil
	}
	return PeriodKey{}, fmt.Errorf("invalid period key %q", s)
}

func (k PeriodKey) Kind() Kind { return k.kind }

func (k PeriodKey) IsZero() bool { return k.year == 0 }

// String renders the stored form. Both forms sort correctly together under
// plain string comparison, which is what the store backends order by.
func (k PeriodKey) String() string {
	if k.kind == KindMonthly {
		return fmt.Sprintf("%04d-%02d", k.year, int(k.month))
	}
	return fmt.Sprintf("%04d-%02d-%02d", k.year, int(k.month), k.day)
}

// Label renders the display form: "2025/2/7 (金)" for weekly keys,
// "2024/11" for monthly ones.
func (k PeriodKey) Label() string {
	if k.kind == KindMonthly {
		return fmt.Sprintf("%d/%d", k.year, int(k.month))
	}
	return labelFor(k.year, k.month, k.day)
}

func (k PeriodKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *PeriodKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseKey(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
