package domain

import (
	"errors"
	"fmt"
	"time"
)

// Field keys used by columns, sorting and the detail view.
const (
	FieldClientID       = "clientId"
	FieldTags           = "tags"
	FieldLastUpdated    = "lastUpdated"
	FieldFirstNames     = "firstnames"
	FieldSurname        = "surname"
	FieldSIN            = "sin"
	FieldPhone          = "phoneNo"
	FieldEmail          = "email"
	FieldSpouse         = "spFirstnames"
	FieldFileStatus     = "fileStatus"
	FieldCompanyName    = "companyName"
	FieldBusinessNumber = "bnFull"
	FieldYearEnd        = "fyEnd"
	FieldEstateName     = "estateName"
	FieldTrustNumber    = "SNFull"
)

var (
	// ErrMissingClientID indicates a row without a client identifier.
	ErrMissingClientID = errors.New("record has no client id")
	// ErrSchemaMismatch indicates a row whose fields do not match its category.
	ErrSchemaMismatch = errors.New("record schema does not match category")
)

// PersonFields are the T1 specific fields.
type PersonFields struct {
	FirstNames       string
	Surname          string
	SIN              string
	Phone            string
	Email            string
	SpouseFirstNames string
	FileStatus       string
}

// CompanyFields are the T2 specific fields.
type CompanyFields struct {
	CompanyName    string
	BusinessNumber string
	YearEnd        string
	FileStatus     string
}

// TrustFields are the T3 specific fields.
type TrustFields struct {
	EstateName  string
	TrustNumber string
	FileStatus  string
}

// Record is one row returned by the query API.
// Exactly one of Person, Company or Trust is set, matching Category.
type Record struct {
	Category    Category
	ClientID    string
	Tags        string
	LastUpdated string

	Person  *PersonFields
	Company *CompanyFields
	Trust   *TrustFields
}

// Validate checks that the record carries an id and the schema of its category.
func (r Record) Validate() error {
	if r.ClientID == "" {
		return ErrMissingClientID
	}
	var ok bool
	switch r.Category {
	case CategoryT1:
		ok = r.Person != nil && r.Company == nil && r.Trust == nil
	case CategoryT2:
		ok = r.Company != nil && r.Person == nil && r.Trust == nil
	case CategoryT3:
		ok = r.Trust != nil && r.Person == nil && r.Company == nil
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrSchemaMismatch, r.Category)
	}
	return nil
}

// Field returns the display value of a field key, or "" when the key does not
// apply to the record's category.
func (r Record) Field(key string) string {
	switch key {
	case FieldClientID:
		return r.ClientID
	case FieldTags:
		return r.Tags
	case FieldLastUpdated:
		return r.LastUpdated
	}
	switch {
	case r.Person != nil:
		return r.Person.field(key)
	case r.Company != nil:
		return r.Company.field(key)
	case r.Trust != nil:
		return r.Trust.field(key)
	}
	return ""
}

func (p *PersonFields) field(key string) string {
	switch key {
	case FieldFirstNames:
		return p.FirstNames
	case FieldSurname:
		return p.Surname
	case FieldSIN:
		return p.SIN
	case FieldPhone:
		return p.Phone
	case FieldEmail:
		return p.Email
	case FieldSpouse:
		return p.SpouseFirstNames
	case FieldFileStatus:
		return p.FileStatus
	}
	return ""
}

func (c *CompanyFields) field(key string) string {
	switch key {
	case FieldCompanyName:
		return c.CompanyName
	case FieldBusinessNumber:
		return c.BusinessNumber
	case FieldYearEnd:
		return c.YearEnd
	case FieldFileStatus:
		return c.FileStatus
	}
	return ""
}

func (t *TrustFields) field(key string) string {
	switch key {
	case FieldEstateName:
		return t.EstateName
	case FieldTrustNumber:
		return t.TrustNumber
	case FieldFileStatus:
		return t.FileStatus
	}
	return ""
}

// DisplayName returns the name a client is best known by.
func (r Record) DisplayName() string {
	switch {
	case r.Person != nil:
		name := r.Person.FirstNames
		if r.Person.Surname != "" {
			if name != "" {
				name += " "
			}
			name += r.Person.Surname
		}
		return name
	case r.Company != nil:
		return r.Company.CompanyName
	case r.Trust != nil:
		return r.Trust.EstateName
	}
	return r.ClientID
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DateLayout,
}

// ParseTimestamp parses the timestamp formats the query API emits.
func ParseTimestamp(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a timestamp as yyyy-MM-dd, or "N/A" when absent or invalid.
func FormatDate(raw string) string {
	t, ok := ParseTimestamp(raw)
	if !ok {
		return "N/A"
	}
	return t.Format(DateLayout)
}
