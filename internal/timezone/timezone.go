package timezone

import (
	"time"
)

const (
	DefaultTimezone = "Asia/Manila"

	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.FixedZone("PHT", 8*60*60)
	}
	return loc
}

// Clock is the single business time source. All dates handled by the core
// are local to Clock.Location().
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type BusinessClock struct {
	loc *time.Location
}

func NewBusinessClock(tz string) *BusinessClock {
	return &BusinessClock{loc: Location(tz)}
}

func (c *BusinessClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *BusinessClock) Location() *time.Location {
	return c.loc
}

// FixedClock is used by tests and replays.
type FixedClock struct {
	T   time.Time
	Loc *time.Location
}

func (c *FixedClock) Now() time.Time {
	return c.T.In(c.Location())
}

func (c *FixedClock) Location() *time.Location {
	if c.Loc == nil {
		return time.UTC
	}
	return c.Loc
}

func (c *FixedClock) Advance(d time.Duration) {
	c.T = c.T.Add(d)
}

func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DatesBetween returns every calendar date from start to end inclusive.
func DatesBetween(start, end time.Time) []string {
	var out []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, FormatDate(d))
	}
	return out
}
