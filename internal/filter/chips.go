package filter

import (
	"github.com/taxdesk/clientsearch/internal/domain"
)

// ChipKind identifies what a chip removes.
type ChipKind int

const (
	ChipFlag ChipKind = iota
	ChipTrustType
	ChipTemporal
)

// Chip is one removable label for an applied filter.
type Chip struct {
	Kind  ChipKind
	Year  domain.Year
	Flag  string
	Label string
}

// Chips lists the applied filters in a stable order: current-year flags,
// previous-year flags, trust type, then the temporal filter.
func (s *State) Chips() []Chip {
	profile := s.Filters()
	toggle := profile.HasYearToggle()

	var chips []Chip
	for _, f := range s.applied.Current.Active(profile.Current) {
		chips = append(chips, flagChip(f, domain.YearCurrent, toggle))
	}
	if toggle {
		for _, f := range s.applied.Previous.Active(profile.Previous) {
			chips = append(chips, flagChip(f, domain.YearPrevious, toggle))
		}
	}
	if s.applied.TrustType != "" {
		chips = append(chips, Chip{Kind: ChipTrustType, Label: "Trust Type: " + s.applied.TrustType})
	}
	if s.applied.Temporal.IsSet() {
		chips = append(chips, Chip{Kind: ChipTemporal, Label: s.applied.Temporal.String()})
	}
	return chips
}

func flagChip(f domain.Flag, y domain.Year, suffix bool) Chip {
	label := f.Label
	if suffix {
		if y == domain.YearPrevious {
			label += " (P)"
		} else {
			label += " (C)"
		}
	}
	return Chip{Kind: ChipFlag, Year: y, Flag: f.Name, Label: label}
}

// RemoveChip clears the filter behind one chip in both the pending and the
// applied selection. Every other filter is left as it is.
func (s *State) RemoveChip(c Chip) Outcome {
	switch c.Kind {
	case ChipFlag:
		applied := s.applied.Flags(c.Year)
		if !applied[c.Flag] {
			return Unchanged
		}
		applied.Clear(c.Flag)
		s.live.Flags(c.Year).Clear(c.Flag)
	case ChipTrustType:
		if s.applied.TrustType == "" {
			return Unchanged
		}
		s.applied.TrustType = ""
		s.live.TrustType = ""
	case ChipTemporal:
		if !s.applied.Temporal.IsSet() {
			return Unchanged
		}
		s.applied.Temporal = domain.Temporal{}
		s.live.Temporal = domain.Temporal{}
	default:
		return Unchanged
	}
	return PageReset
}
