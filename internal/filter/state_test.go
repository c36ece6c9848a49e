package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxdesk/clientsearch/internal/domain"
	"github.com/taxdesk/clientsearch/internal/query"
)

func dateRange(t *testing.T) domain.DateRange {
	t.Helper()
	r, err := domain.NewDateRange(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return r
}

func TestNew_Defaults(t *testing.T) {
	s := New(domain.ScreenClients, "")
	assert.Equal(t, domain.CategoryT1, s.Category())
	assert.Equal(t, domain.YearCurrent, s.Year())
	assert.Equal(t, PhaseEditing, s.Phase())
	assert.False(t, s.Applied().Current.Any())
	assert.False(t, s.Live().Previous.Any())
	assert.Empty(t, s.Chips())
	assert.False(t, s.Dirty())
}

func TestToggle_OnlyTouchesLive(t *testing.T) {
	s := New(domain.ScreenReturns, domain.CategoryT1)
	assert.Equal(t, Unchanged, s.Toggle("selfEmployed"))
	assert.True(t, s.IsChecked("selfEmployed"))
	assert.False(t, s.Applied().Current["selfEmployed"])
	assert.True(t, s.Dirty())

	// Building a query still sees the applied (empty) snapshot.
	_, present := query.Build(s.Intent(0))[query.ParamFilterText]
	assert.False(t, present)

	assert.Equal(t, Unchanged, s.Toggle("notAFlag"))
	assert.False(t, s.Live().Current["notAFlag"])
}

func TestSetYear(t *testing.T) {
	s := New(domain.ScreenReturns, domain.CategoryT1)
	s.SetYear(domain.YearPrevious)
	s.Toggle("gstDue")
	assert.True(t, s.Live().Previous["gstDue"])
	assert.False(t, s.Live().Current["gstDue"])

	s.SwitchCategory(domain.CategoryT2)
	s.SetYear(domain.YearPrevious)
	assert.Equal(t, domain.YearCurrent, s.Year())
}

func TestApply_CopiesLiveAtomically(t *testing.T) {
	s := New(domain.ScreenReturns, domain.CategoryT1)
	s.Toggle("selfEmployed")
	s.Toggle("gstDue")
	assert.Equal(t, PageReset, s.Apply())
	assert.Equal(t, PhaseApplied, s.Phase())
	first := s.Applied()

	// Editing after apply must not leak into the snapshot.
	s.Toggle("selfEmployed")
	s.Toggle("expectedRefund")
	assert.True(t, s.Applied().Current["selfEmployed"])
	assert.False(t, s.Applied().Current["expectedRefund"])
	assert.Equal(t, first, s.Applied())

	s.Apply()
	applied := s.Applied()
	assert.False(t, applied.Current["selfEmployed"])
	assert.True(t, applied.Current["gstDue"])
	assert.True(t, applied.Current["expectedRefund"])
	assert.False(t, s.Dirty())

	// Mutating the returned copy does not touch the state.
	applied.Current["payrollSlipsDue"] = true
	assert.False(t, s.Applied().Current["payrollSlipsDue"])
}

func TestSwitchCategory_ClearsSelections(t *testing.T) {
	tests := []struct {
		name   string
		screen domain.Screen
		setup  func(t *testing.T, s *State)
	}{
		{
			name:   "applied flags and range",
			screen: domain.ScreenClients,
			setup: func(t *testing.T, s *State) {
				s.Toggle("selfEmployed")
				require.NoError(t, s.SetDateRange(dateRange(t)))
				s.Apply()
			},
		},
		{
			name:   "pending month day only",
			screen: domain.ScreenClients,
			setup: func(t *testing.T, s *State) {
				md, err := domain.NewMonthDay(4, 2)
				require.NoError(t, err)
				require.NoError(t, s.SetMonthDay(md))
			},
		},
		{
			name:   "previous year flags",
			screen: domain.ScreenReturns,
			setup: func(t *testing.T, s *State) {
				s.SetYear(domain.YearPrevious)
				s.Toggle("gstDue")
				s.Apply()
			},
		},
	}

	for _, tt := range tests {
		for _, target := range domain.Categories {
			t.Run(tt.name+"/"+target.String(), func(t *testing.T) {
				s := New(tt.screen, domain.CategoryT1)
				s.SetSearch("smith")
				s.SetLocation(domain.LocationHeadOffice)
				tt.setup(t, s)

				assert.Equal(t, PageReset, s.SwitchCategory(target))
				assert.Equal(t, target, s.Category())
				assert.Equal(t, PhaseEditing, s.Phase())
				assert.Equal(t, domain.YearCurrent, s.Year())
				assert.False(t, s.Live().Temporal.IsSet())
				assert.False(t, s.Applied().Temporal.IsSet())
				assert.False(t, s.Live().Current.Any())
				assert.False(t, s.Applied().Previous.Any())
				assert.Empty(t, s.Chips())
				assert.Equal(t, "smith", s.Search())
				assert.Equal(t, domain.LocationHeadOffice, s.Location())
				assert.Equal(t, 0, s.Intent(0).Skip())
			})
		}
	}
}

func TestReset(t *testing.T) {
	s := New(domain.ScreenReturns, domain.CategoryT3)
	s.SetSearch("estate")
	s.SetLocation(domain.LocationSubOffice)
	s.Toggle("foreignIncome")
	s.SetTrustType("300")
	s.Apply()

	assert.Equal(t, PageReset, s.Reset())
	assert.Equal(t, domain.CategoryT3, s.Category())
	assert.Empty(t, s.Search())
	assert.Equal(t, domain.LocationNone, s.Location())
	assert.Empty(t, s.Applied().TrustType)
	assert.Empty(t, s.Chips())
	assert.Equal(t, PhaseEditing, s.Phase())
}

func TestSetSearchAndLocation(t *testing.T) {
	s := New(domain.ScreenClients, domain.CategoryT1)
	assert.Equal(t, PageReset, s.SetSearch(" abc "))
	assert.Equal(t, "abc", s.Search())
	assert.Equal(t, Unchanged, s.SetSearch("abc"))

	assert.Equal(t, PageReset, s.SetLocation(domain.LocationHeadOffice))
	assert.Equal(t, Unchanged, s.SetLocation(domain.LocationHeadOffice))
	assert.Equal(t, Unchanged, s.SetLocation("Elsewhere"))
}

func TestTemporal_MostRecentWins(t *testing.T) {
	s := New(domain.ScreenClients, domain.CategoryT1)
	md, err := domain.NewMonthDay(5, 0)
	require.NoError(t, err)

	require.NoError(t, s.SetDateRange(dateRange(t)))
	require.NoError(t, s.SetMonthDay(md))
	assert.Equal(t, domain.TemporalMonthDay, s.Live().Temporal.Kind)

	require.NoError(t, s.SetDateRange(dateRange(t)))
	s.Apply()
	v := query.Build(s.Intent(0))
	assert.Equal(t, domain.FilterTypeDOBRange, v.Get(query.ParamFilterType))

	s.ClearTemporal()
	assert.False(t, s.Live().Temporal.IsSet())
	assert.True(t, s.Applied().Temporal.IsSet())
}

func TestTemporal_Unsupported(t *testing.T) {
	s := New(domain.ScreenReturns, domain.CategoryT1)
	assert.Error(t, s.SetDateRange(dateRange(t)))

	md, _ := domain.NewMonthDay(1, 1)
	assert.Error(t, s.SetMonthDay(md))

	s = New(domain.ScreenClients, domain.CategoryT2)
	assert.Error(t, s.SetMonthDay(md))
	assert.NoError(t, s.SetDateRange(dateRange(t)))
}

func TestSetMonthDay_YearEndNeedsDay(t *testing.T) {
	for _, c := range []domain.Category{domain.CategoryT2, domain.CategoryT3} {
		t.Run(c.String(), func(t *testing.T) {
			s := New(domain.ScreenReturns, c)
			month, err := domain.NewMonthDay(3, 0)
			require.NoError(t, err)

			require.Error(t, s.SetMonthDay(month))
			s.Apply()
			assert.Empty(t, s.Chips())
			assert.Empty(t, query.Build(s.Intent(0)).Get(query.ParamFilterText))

			day, err := domain.NewMonthDay(3, 31)
			require.NoError(t, err)
			require.NoError(t, s.SetMonthDay(day))
			s.Apply()
			assert.Len(t, s.Chips(), 1)
			assert.Equal(t, "yearEnd eq 31", query.Build(s.Intent(0)).Get(query.ParamFilterText))
		})
	}
}

func TestSetTrustType(t *testing.T) {
	s := New(domain.ScreenReturns, domain.CategoryT3)
	s.SetTrustType("900")
	assert.Equal(t, "900", s.Live().TrustType)
	s.SetTrustType("123")
	assert.Equal(t, "900", s.Live().TrustType)

	s = New(domain.ScreenReturns, domain.CategoryT2)
	s.SetTrustType("900")
	assert.Empty(t, s.Live().TrustType)
}

func TestIntent_UsesAppliedSnapshot(t *testing.T) {
	s := New(domain.ScreenReturns, domain.CategoryT1)
	s.SetSearch("doe")
	s.Toggle("selfEmployed")
	s.SetYear(domain.YearPrevious)
	s.Toggle("gstDue")
	s.Apply()
	s.Toggle("expectedRefund")

	intent := s.Intent(2)
	assert.Equal(t, 40, intent.Skip())
	assert.Equal(t, "doe", intent.Search)
	assert.Equal(t, "bSelfEmployed eq true and Pre_bGSTDue eq true", query.Build(intent).Get(query.ParamFilterText))
}
