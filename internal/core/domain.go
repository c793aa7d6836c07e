package core

import (
	"errors"
	"sort"
	"strconv"
	"time"
)

const (
	// DayFormat is the ISO date layout used for timetable keys.
	DayFormat = "2006-01-02"

	// ContactKey is the single storage key holding the contact record.
	ContactKey = "contactData"
)

var (
	ErrInvalidMonth = errors.New("invalid month")
	ErrInvalidYear  = errors.New("invalid year")
)

// Period identifies one timetable: a (month, year) pair.
type Period struct {
	Month int
	Year  int
}

func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return ErrInvalidMonth
	}
	if p.Year < 1 {
		return ErrInvalidYear
	}
	return nil
}

// Key returns the storage key namespacing this period's timetable,
// "tt-<month>-<year>" with the month unpadded.
func (p Period) Key() string {
	return "tt-" + strconv.Itoa(p.Month) + "-" + strconv.Itoa(p.Year)
}

// Timetable maps ISO dates ("2006-01-02") to worked units kept as text,
// so in-progress entries like "0." survive a round trip. The key set of a
// generated record is exactly the day span of its period.
type Timetable map[string]string

// Days returns the record's dates in chronological order. ISO date keys
// sort lexicographically, so a plain string sort suffices.
func (tt Timetable) Days() []string {
	days := make([]string, 0, len(tt))
	for d := range tt {
		days = append(days, d)
	}
	sort.Strings(days)
	return days
}

// Total sums all entries parsed as numbers; unparseable entries count 0.
func (tt Timetable) Total() float64 {
	var sum float64
	for _, v := range tt {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			sum += f
		}
	}
	return sum
}

// Clone returns an independent copy of the record.
func (tt Timetable) Clone() Timetable {
	out := make(Timetable, len(tt))
	for k, v := range tt {
		out[k] = v
	}
	return out
}

// ParseDay parses a timetable key back into a date.
func ParseDay(day string) (time.Time, error) {
	return time.Parse(DayFormat, day)
}

// ErrUnknownContactField is returned when a field name is not part of the
// contact record.
var ErrUnknownContactField = errors.New("unknown contact field")

// Contact holds the identity fields of the report plus the uploaded
// signature as a data URI. Every field is optional; the JSON names are
// part of the persisted format and must not change.
type Contact struct {
	Company        string `json:"company,omitempty"`
	CompanyAddress string `json:"companyAddresse,omitempty"`
	DevName        string `json:"devName,omitempty"`
	Signature      string `json:"signature,omitempty"`
	ClientName     string `json:"clientName,omitempty"`
	ClientAddress  string `json:"clientAddress,omitempty"`
	ClientResp     string `json:"clientResp,omitempty"`
	ClientContact  string `json:"clientContact,omitempty"`
}

// WithField returns a copy of c with the named text field replaced. The
// signature is written through the dedicated upload path, never here.
func (c Contact) WithField(name, value string) (Contact, error) {
	switch name {
	case "company":
		c.Company = value
	case "companyAddresse":
		c.CompanyAddress = value
	case "devName":
		c.DevName = value
	case "clientName":
		c.ClientName = value
	case "clientAddress":
		c.ClientAddress = value
	case "clientResp":
		c.ClientResp = value
	case "clientContact":
		c.ClientContact = value
	default:
		return c, ErrUnknownContactField
	}
	return c, nil
}
