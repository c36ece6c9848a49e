// Package filter keeps the pending and applied filter selections of a record
// listing consistent across edits, submissions and category switches.
package filter

import (
	"fmt"
	"strings"

	"github.com/taxdesk/clientsearch/internal/domain"
	"github.com/taxdesk/clientsearch/internal/query"
)

// Phase is the reconciler state.
type Phase int

const (
	// PhaseEditing means no snapshot is in effect yet.
	PhaseEditing Phase = iota
	// PhaseApplied means a submitted snapshot drives the query.
	PhaseApplied
)

// String returns the phase name.
func (p Phase) String() string {
	if p == PhaseApplied {
		return "applied"
	}
	return "editing"
}

// Outcome tells the caller what a state change did to the applied query.
type Outcome int

const (
	// Unchanged means only pending state moved; the query is the same.
	Unchanged Outcome = iota
	// PageReset means the applied query changed: go back to the first page
	// and fetch again.
	PageReset
)

// Selection is one full set of filter choices for a category.
type Selection struct {
	Current   domain.FlagSet
	Previous  domain.FlagSet
	TrustType string
	Temporal  domain.Temporal
}

// Clone returns a deep copy so later edits never leak into the copy.
func (s Selection) Clone() Selection {
	return Selection{
		Current:   s.Current.Clone(),
		Previous:  s.Previous.Clone(),
		TrustType: s.TrustType,
		Temporal:  s.Temporal,
	}
}

// Flags returns the flag set for a year.
func (s Selection) Flags(y domain.Year) domain.FlagSet {
	if y == domain.YearPrevious {
		return s.Previous
	}
	return s.Current
}

func newSelection(p domain.FilterProfile) Selection {
	return Selection{
		Current:  domain.NewFlagSet(p.Current),
		Previous: domain.NewFlagSet(p.Previous),
	}
}

// State holds the filter selections of one screen.
type State struct {
	screen   domain.Screen
	category domain.Category
	year     domain.Year
	location domain.Location
	search   string

	live    Selection
	applied Selection
	phase   Phase
}

// New returns a state for a screen with every filter at its default.
func New(screen domain.Screen, category domain.Category) *State {
	if !category.IsValid() {
		category = domain.DefaultCategory()
	}
	s := &State{screen: screen, category: category}
	s.clearSelections()
	return s
}

func (s *State) clearSelections() {
	profile := s.Filters()
	s.live = newSelection(profile)
	s.applied = newSelection(profile)
	s.year = domain.YearCurrent
	s.phase = PhaseEditing
}

// Screen returns the screen the state belongs to.
func (s *State) Screen() domain.Screen { return s.screen }

// Category returns the active category.
func (s *State) Category() domain.Category { return s.category }

// Year returns the year whose flags the panel is editing.
func (s *State) Year() domain.Year { return s.year }

// Location returns the selected location.
func (s *State) Location() domain.Location { return s.location }

// Search returns the committed search text.
func (s *State) Search() string { return s.search }

// Phase returns the reconciler phase.
func (s *State) Phase() Phase { return s.phase }

// Filters returns the filter controls of the active category.
func (s *State) Filters() domain.FilterProfile {
	return domain.ProfileFor(s.screen).Category(s.category).Filters
}

// Catalog returns the flag catalog being edited.
func (s *State) Catalog() domain.FlagCatalog {
	return s.Filters().Catalog(s.year)
}

// Live returns a copy of the pending selection.
func (s *State) Live() Selection { return s.live.Clone() }

// Applied returns a copy of the selection in effect.
func (s *State) Applied() Selection { return s.applied.Clone() }

// IsChecked reports whether a flag is checked in the pending set being edited.
func (s *State) IsChecked(name string) bool {
	return s.live.Flags(s.year)[name]
}

// Dirty reports whether pending edits differ from the applied snapshot.
func (s *State) Dirty() bool {
	profile := s.Filters()
	if !sameFlags(profile.Current, s.live.Current, s.applied.Current) ||
		!sameFlags(profile.Previous, s.live.Previous, s.applied.Previous) {
		return true
	}
	return s.live.TrustType != s.applied.TrustType || s.live.Temporal != s.applied.Temporal
}

func sameFlags(c domain.FlagCatalog, a, b domain.FlagSet) bool {
	for _, f := range c.Flags {
		if a[f.Name] != b[f.Name] {
			return false
		}
	}
	return true
}

// Toggle flips a pending flag of the year being edited. Unknown names are ignored.
func (s *State) Toggle(name string) Outcome {
	if _, ok := s.Catalog().Lookup(name); !ok {
		return Unchanged
	}
	s.live.Flags(s.year).Toggle(name)
	return Unchanged
}

// SetYear selects which year's flags the panel edits. Categories without a
// year toggle stay on the current year.
func (s *State) SetYear(y domain.Year) Outcome {
	if !y.IsValid() || !s.Filters().HasYearToggle() {
		return Unchanged
	}
	s.year = y
	return Unchanged
}

// SetLocation changes the location filter, which takes effect immediately.
func (s *State) SetLocation(l domain.Location) Outcome {
	if !l.IsValid() || l == s.location {
		return Unchanged
	}
	s.location = l
	return PageReset
}

// SetSearch commits debounced search text.
func (s *State) SetSearch(text string) Outcome {
	text = strings.TrimSpace(text)
	if text == s.search {
		return Unchanged
	}
	s.search = text
	return PageReset
}

// SetTrustType sets the pending trust type; "" clears it.
func (s *State) SetTrustType(code string) Outcome {
	if !s.Filters().SupportsTrustType() || !domain.IsValidTrustType(code) {
		return Unchanged
	}
	s.live.TrustType = code
	return Unchanged
}

// SetDateRange sets the pending date range, replacing any month/day selection.
func (s *State) SetDateRange(r domain.DateRange) error {
	if !s.Filters().SupportsRange() {
		return fmt.Errorf("date range is not available for %s %s", s.screen, s.category)
	}
	s.live.Temporal = domain.RangeFilter(r)
	return nil
}

// SetMonthDay sets the pending month/day selection, replacing any date range.
// A year end filter needs a day.
func (s *State) SetMonthDay(md domain.MonthDay) error {
	filters := s.Filters()
	if !filters.SupportsMonthDay() {
		return fmt.Errorf("month/day is not available for %s %s", s.screen, s.category)
	}
	if filters.MonthDay == domain.MonthDayYearEnd && !md.HasDay() {
		return fmt.Errorf("year end filter needs a day for %s %s", s.screen, s.category)
	}
	s.live.Temporal = domain.MonthDayFilter(md)
	return nil
}

// ClearTemporal clears the pending date range or month/day selection.
func (s *State) ClearTemporal() Outcome {
	s.live.Temporal = domain.Temporal{}
	return Unchanged
}

// Apply copies the pending selection into the applied snapshot.
func (s *State) Apply() Outcome {
	s.applied = s.live.Clone()
	s.phase = PhaseApplied
	return PageReset
}

// Reset returns every filter, the search text and the location to defaults.
func (s *State) Reset() Outcome {
	s.search = ""
	s.location = domain.LocationNone
	s.clearSelections()
	return PageReset
}

// SwitchCategory activates a category and drops all flag, trust type and
// temporal selections. Search text and location are kept.
func (s *State) SwitchCategory(c domain.Category) Outcome {
	if !c.IsValid() {
		return Unchanged
	}
	s.category = c
	s.clearSelections()
	return PageReset
}

// Intent returns the query intent of the applied snapshot for a page.
func (s *State) Intent(page int) query.Intent {
	return query.Intent{
		Screen:    s.screen,
		Category:  s.category,
		Search:    s.search,
		Location:  s.location,
		Current:   s.applied.Current.Clone(),
		Previous:  s.applied.Previous.Clone(),
		TrustType: s.applied.TrustType,
		Temporal:  s.applied.Temporal,
		Page:      page,
	}
}
