package domain

import (
	"fmt"
	"strings"
)

// Screen identifies one of the record listings backed by the query API.
type Screen string

const (
	// ScreenClients searches client profiles.
	ScreenClients Screen = "clients"
	// ScreenReturns lists all tax returns.
	ScreenReturns Screen = "returns"
)

// IsValid returns whether the screen is one of the supported values.
func (s Screen) IsValid() bool {
	return s == ScreenClients || s == ScreenReturns
}

// ParseScreen parses a screen name.
func ParseScreen(raw string) (Screen, error) {
	s := Screen(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", fmt.Errorf("invalid screen: %q (must be clients or returns)", raw)
	}
	return s, nil
}

// MonthDayMode selects how a month/day selection reaches the query API.
type MonthDayMode int

const (
	// MonthDayUnsupported hides the month/day selector.
	MonthDayUnsupported MonthDayMode = iota
	// MonthDayBirthdate sends FromDate with a ClientDOBMonth/ClientDOBDay filter type.
	MonthDayBirthdate
	// MonthDayYearEnd adds a "yearEnd eq <day>" filter clause.
	MonthDayYearEnd
)

// Filter types sent with temporal parameters.
const (
	FilterTypeDOBRange   = "ClientDOBFromTo"
	FilterTypeT2YearEnd  = "ClientT2YearEnd"
	FilterTypeT3YearEnd  = "ClientT3YearEnd"
	FilterTypeDOBMonth   = "ClientDOBMonth"
	FilterTypeDOBDay     = "ClientDOBDay"
	YearEndClauseField   = "yearEnd"
	TrustTypeClauseField = "trustType"
)

// FilterProfile describes the filter controls of one screen and category.
type FilterProfile struct {
	// Current is the flag catalog for the current year (or the only catalog).
	Current FlagCatalog
	// Previous is the previous-year catalog; empty when there is no year toggle.
	Previous FlagCatalog
	// TrustTypes enables the trust type selector when non-empty.
	TrustTypes []string
	// RangeFilterType enables the date range control when non-empty.
	RangeFilterType string
	// MonthDay selects the month/day control behaviour.
	MonthDay MonthDayMode
}

// HasYearToggle reports whether current and previous year sets both exist.
func (p FilterProfile) HasYearToggle() bool {
	return !p.Previous.IsEmpty()
}

// Catalog returns the flag catalog for a year.
func (p FilterProfile) Catalog(y Year) FlagCatalog {
	if y == YearPrevious {
		return p.Previous
	}
	return p.Current
}

// SupportsRange reports whether the date range control applies.
func (p FilterProfile) SupportsRange() bool {
	return p.RangeFilterType != ""
}

// SupportsMonthDay reports whether the month/day control applies.
func (p FilterProfile) SupportsMonthDay() bool {
	return p.MonthDay != MonthDayUnsupported
}

// SupportsTrustType reports whether the trust type control applies.
func (p FilterProfile) SupportsTrustType() bool {
	return len(p.TrustTypes) > 0
}

// Column maps a record field to a table or CSV column.
type Column struct {
	Key    string
	Header string
	// Date renders the value through FormatDate.
	Date bool
}

// Value extracts the display value of the column from a record.
func (c Column) Value(r Record) string {
	v := r.Field(c.Key)
	if c.Date {
		return FormatDate(v)
	}
	return v
}

// CategoryProfile groups everything that varies by screen and category.
type CategoryProfile struct {
	Filters    FilterProfile
	Columns    []Column
	CSVColumns []Column
}

// ScreenProfile parameterizes the record listing for one screen.
type ScreenProfile struct {
	Screen Screen
	Title  string
	// Endpoint is the path template; "{user}" is replaced by the user id.
	Endpoint string
	// ExportFile is the default CSV file name.
	ExportFile string
	categories map[Category]CategoryProfile
}

// Category returns the profile of a category on this screen.
func (p ScreenProfile) Category(c Category) CategoryProfile {
	return p.categories[c]
}

// Path returns the endpoint path for a user.
func (p ScreenProfile) Path(userID string) string {
	return strings.ReplaceAll(p.Endpoint, "{user}", userID)
}

var (
	colFirstNames  = Column{Key: FieldFirstNames, Header: "First Name"}
	colSurname     = Column{Key: FieldSurname, Header: "Surname"}
	colSIN         = Column{Key: FieldSIN, Header: "SIN"}
	colPhone       = Column{Key: FieldPhone, Header: "Phone"}
	colEmail       = Column{Key: FieldEmail, Header: "Email"}
	colLastUpdated = Column{Key: FieldLastUpdated, Header: "Last Updated", Date: true}
	colCompany     = Column{Key: FieldCompanyName, Header: "Company Name"}
	colBN          = Column{Key: FieldBusinessNumber, Header: "Business Number"}
	colYearEnd     = Column{Key: FieldYearEnd, Header: "Year End"}
	colEstate      = Column{Key: FieldEstateName, Header: "Estate Name"}
	colTrustNumber = Column{Key: FieldTrustNumber, Header: "Trust Number"}
	colTags        = Column{Key: FieldTags, Header: "Tags"}
	colFileStatus  = Column{Key: FieldFileStatus, Header: "File Status"}
	colName        = Column{Key: FieldFirstNames, Header: "Name"}
	colSpouse      = Column{Key: FieldSpouse, Header: "Spouse"}
)

var personColumns = []Column{colFirstNames, colSurname, colSIN, colPhone, colEmail, colLastUpdated}

var clientsProfile = ScreenProfile{
	Screen:     ScreenClients,
	Title:      "Client Search",
	Endpoint:   "/clientsearch/getclientsdata/{user}",
	ExportFile: "filtered_clients.csv",
	categories: map[Category]CategoryProfile{
		CategoryT1: {
			Filters: FilterProfile{
				Current:         FlagCatalog{Prefix: currentYearPrefix, Flags: clientsPersonalFlags},
				Previous:        FlagCatalog{Prefix: previousYearPrefix, Flags: clientsPersonalFlags},
				RangeFilterType: FilterTypeDOBRange,
				MonthDay:        MonthDayBirthdate,
			},
			Columns:    personColumns,
			CSVColumns: personColumns,
		},
		CategoryT2: {
			Filters: FilterProfile{
				Current:         FlagCatalog{Prefix: currentYearPrefix, Flags: clientsPersonalFlags},
				RangeFilterType: FilterTypeT2YearEnd,
			},
			Columns:    []Column{colCompany, colBN, colYearEnd, colLastUpdated},
			CSVColumns: []Column{colCompany, colBN, colYearEnd, colLastUpdated},
		},
		CategoryT3: {
			Filters: FilterProfile{
				Current:         FlagCatalog{Prefix: currentYearPrefix, Flags: clientsPersonalFlags},
				RangeFilterType: FilterTypeT3YearEnd,
			},
			Columns:    []Column{colEstate, colTrustNumber, colLastUpdated},
			CSVColumns: []Column{colEstate, colTrustNumber, colLastUpdated},
		},
	},
}

var returnsProfile = ScreenProfile{
	Screen:     ScreenReturns,
	Title:      "All Returns",
	Endpoint:   "/taxreturnsearch/getreturnsdata/{user}/all",
	ExportFile: "all_returns.csv",
	categories: map[Category]CategoryProfile{
		CategoryT1: {
			Filters: FilterProfile{
				Current:  FlagCatalog{Prefix: currentYearPrefix, Flags: returnsPersonalFlags},
				Previous: FlagCatalog{Prefix: previousYearPrefix, Flags: returnsPersonalFlags},
			},
			Columns:    []Column{colTags, colName, colSpouse, colFileStatus, colLastUpdated},
			CSVColumns: personColumns,
		},
		CategoryT2: {
			Filters: FilterProfile{
				Current:  FlagCatalog{Prefix: currentYearPrefix, Flags: returnsCorporateFlags},
				MonthDay: MonthDayYearEnd,
			},
			Columns:    []Column{colTags, colYearEnd, colFileStatus, colLastUpdated},
			CSVColumns: []Column{colTags, colYearEnd, colFileStatus, colLastUpdated},
		},
		CategoryT3: {
			Filters: FilterProfile{
				Current:    FlagCatalog{Prefix: currentYearPrefix, Flags: returnsTrustFlags},
				TrustTypes: TrustTypes,
				MonthDay:   MonthDayYearEnd,
			},
			Columns:    []Column{colTags, colEstate, colTrustNumber, colFileStatus, colLastUpdated},
			CSVColumns: []Column{colTags, colEstate, colTrustNumber, colFileStatus, colLastUpdated},
		},
	},
}

// ProfileFor returns the profile of a screen. Unknown screens fall back to clients.
func ProfileFor(s Screen) ScreenProfile {
	if s == ScreenReturns {
		return returnsProfile
	}
	return clientsProfile
}
