package clock

import "time"

// Zoned wall clock of the configured business timezone.
// Availability and booking validation compare "today" in this zone.
type Zoned struct {
	loc *time.Location
}

func NewZoned(loc *time.Location) Zoned {
	if loc == nil {
		loc = time.Local
	}
	return Zoned{loc: loc}
}

func (z Zoned) Now() time.Time {
	return time.Now().In(z.loc)
}

// Load resolves an IANA zone name, falling back to UTC for an empty name
func Load(name string) (Zoned, error) {
	if name == "" {
		return NewZoned(time.UTC), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Zoned{}, err
	}
	return NewZoned(loc), nil
}
