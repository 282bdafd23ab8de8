package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// ClockTime is a duration written as HH:MM:SS. It is stored in a TIME
// column, or an INTERVAL on PostgreSQL where TIME stops at 24:00:00.
type ClockTime time.Duration

// ParseClockTime parses "HH:MM" or "HH:MM:SS". Hours may exceed 23.
// The PostgreSQL interval forms "N days HH:MM:SS" and "HH:MM:SS.ffffff"
// are accepted as well.
func ParseClockTime(s string) (ClockTime, error) {
	var d time.Duration
	clock := s
	if fields := strings.Fields(s); len(fields) >= 2 && (fields[1] == "day" || fields[1] == "days") {
		days, ok := number(fields[0])
		if !ok || len(fields) > 3 {
			return 0, invalidClockTime(s)
		}
		d = time.Duration(days) * 24 * time.Hour
		if len(fields) == 2 {
			return ClockTime(d), nil
		}
		clock = fields[2]
	}

	parts := strings.Split(clock, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, invalidClockTime(s)
	}
	h, okH := number(parts[0])
	m, okM := number(parts[1])
	if !okH || !okM || m > 59 {
		return 0, invalidClockTime(s)
	}
	d += time.Duration(h)*time.Hour + time.Duration(m)*time.Minute

	if len(parts) == 3 {
		whole, frac, hasFrac := strings.Cut(parts[2], ".")
		sec, ok := number(whole)
		if !ok || sec > 59 {
			return 0, invalidClockTime(s)
		}
		d += time.Duration(sec) * time.Second
		if hasFrac {
			if len(frac) > 9 {
				return 0, invalidClockTime(s)
			}
			ns, ok := number(frac + strings.Repeat("0", 9-len(frac)))
			if !ok || frac == "" {
				return 0, invalidClockTime(s)
			}
			d += time.Duration(ns)
		}
	}
	return ClockTime(d), nil
}

// number parses a non-empty run of ASCII digits.
func number(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

func invalidClockTime(s string) error {
	return fmt.Errorf("invalid clock time %q", s)
}

// GormDBDataType picks the column type for migrations.
func (ClockTime) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "interval"
	}
	return "time"
}

func (t ClockTime) String() string {
	d := time.Duration(t).Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	return fmt.Sprintf("%02d:%02d:%02d", h, m, d/time.Second)
}

// Value implements driver.Valuer.
func (t ClockTime) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan implements sql.Scanner.
func (t *ClockTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = 0
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	case time.Time:
		midnight := time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, v.Location())
		*t = ClockTime(v.Sub(midnight))
		return nil
	case time.Duration:
		*t = ClockTime(v)
		return nil
	default:
		return fmt.Errorf("clock time: unsupported column type %T", src)
	}
}

func (t *ClockTime) parse(s string) error {
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *ClockTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return t.parse(s)
}
