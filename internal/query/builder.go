// Package query builds the request parameters of the record query API.
//
// Build is a pure function of its Intent: identical intents always encode to the
// same query string. Parameters are encoded in sorted key order and filter
// clauses follow catalog order, never map iteration order.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/taxdesk/clientsearch/internal/domain"
)

// PageSize is the fixed number of records requested per page.
const PageSize = 20

// Request parameter names.
const (
	ParamProductCode = "ProductCode"
	ParamSearchText  = "SearchText"
	ParamLocation    = "Location"
	ParamFilterText  = "FilterText"
	ParamFromDate    = "FromDate"
	ParamToDate      = "ToDate"
	ParamFilterType  = "FilterType"
	ParamSize        = "Size"
	ParamSkip        = "Skip"
)

// clauseJoiner joins filter clauses into one conjunctive expression.
const clauseJoiner = " and "

// Intent is everything the user asked for that shapes one request.
type Intent struct {
	Screen   domain.Screen
	Category domain.Category
	// Search is the debounced free-text search.
	Search   string
	Location domain.Location
	// Current and Previous are the applied flag snapshots; Previous is only
	// consulted when the category has a year toggle.
	Current   domain.FlagSet
	Previous  domain.FlagSet
	TrustType string
	Temporal  domain.Temporal
	Page      int
}

// Skip returns the record offset of the intent's page.
func (i Intent) Skip() int {
	if i.Page < 0 {
		return 0
	}
	return i.Page * PageSize
}

// Build maps an intent to request parameters.
func Build(i Intent) url.Values {
	filters := domain.ProfileFor(i.Screen).Category(i.Category).Filters
	params := url.Values{}

	params.Set(ParamProductCode, i.Category.String())
	if search := strings.TrimSpace(i.Search); search != "" {
		params.Set(ParamSearchText, search)
	}
	if i.Location != domain.LocationNone {
		params.Set(ParamLocation, string(i.Location))
	}
	if clauses := Clauses(i); len(clauses) > 0 {
		params.Set(ParamFilterText, strings.Join(clauses, clauseJoiner))
	}
	applyTemporal(params, filters, i.Temporal)
	params.Set(ParamSize, strconv.Itoa(PageSize))
	params.Set(ParamSkip, strconv.Itoa(i.Skip()))

	return params
}

// Encode returns the URL-encoded query string for an intent.
func Encode(i Intent) string {
	return Build(i).Encode()
}

// Clauses returns the filter clauses of an intent in a stable order:
// current-year flags, previous-year flags, trust type, then year end.
func Clauses(i Intent) []string {
	filters := domain.ProfileFor(i.Screen).Category(i.Category).Filters

	clauses := flagClauses(filters.Current, i.Current)
	if filters.HasYearToggle() {
		clauses = append(clauses, flagClauses(filters.Previous, i.Previous)...)
	}
	if filters.SupportsTrustType() && i.TrustType != "" {
		clauses = append(clauses, domain.TrustTypeClauseField+" eq "+i.TrustType)
	}
	if filters.MonthDay == domain.MonthDayYearEnd &&
		i.Temporal.Kind == domain.TemporalMonthDay && i.Temporal.MonthDay.HasDay() {
		clauses = append(clauses, domain.YearEndClauseField+" eq "+strconv.Itoa(i.Temporal.MonthDay.Day))
	}
	return clauses
}

func flagClauses(catalog domain.FlagCatalog, set domain.FlagSet) []string {
	return lo.Map(set.Active(catalog), func(f domain.Flag, _ int) string {
		return catalog.ExternalField(f) + " eq true"
	})
}

// applyTemporal adds the date parameters of the temporal filter. Kinds the
// category does not support are ignored.
func applyTemporal(params url.Values, filters domain.FilterProfile, t domain.Temporal) {
	switch t.Kind {
	case domain.TemporalRange:
		if !filters.SupportsRange() {
			return
		}
		params.Set(ParamFromDate, t.Range.From.Format(domain.DateLayout))
		params.Set(ParamToDate, t.Range.To.Format(domain.DateLayout))
		params.Set(ParamFilterType, filters.RangeFilterType)
	case domain.TemporalMonthDay:
		if filters.MonthDay != domain.MonthDayBirthdate {
			return
		}
		params.Set(ParamFromDate, t.MonthDay.FromDate())
		if t.MonthDay.HasDay() {
			params.Set(ParamFilterType, domain.FilterTypeDOBDay)
		} else {
			params.Set(ParamFilterType, domain.FilterTypeDOBMonth)
		}
	}
}

// URL joins the base URL, the screen endpoint for a user and the encoded intent.
func URL(baseURL string, userID string, i Intent) string {
	path := domain.ProfileFor(i.Screen).Path(url.PathEscape(userID))
	return strings.TrimRight(baseURL, "/") + path + "?" + Encode(i)
}
