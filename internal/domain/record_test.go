package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		record  Record
		wantErr error
	}{
		{"valid person", Record{Category: CategoryT1, ClientID: "c1", Person: &PersonFields{}}, nil},
		{"valid company", Record{Category: CategoryT2, ClientID: "c2", Company: &CompanyFields{}}, nil},
		{"valid trust", Record{Category: CategoryT3, ClientID: "c3", Trust: &TrustFields{}}, nil},
		{"missing id", Record{Category: CategoryT1, Person: &PersonFields{}}, ErrMissingClientID},
		{"wrong variant", Record{Category: CategoryT2, ClientID: "c", Person: &PersonFields{}}, ErrSchemaMismatch},
		{"two variants", Record{Category: CategoryT3, ClientID: "c", Trust: &TrustFields{}, Company: &CompanyFields{}}, ErrSchemaMismatch},
		{"unknown category", Record{Category: "T9", ClientID: "c"}, ErrSchemaMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}
}

func TestRecord_Field(t *testing.T) {
	company := Record{
		Category:    CategoryT2,
		ClientID:    "42",
		Tags:        "vip",
		LastUpdated: "2024-05-01",
		Company:     &CompanyFields{CompanyName: "Acme", BusinessNumber: "BN1", YearEnd: "12-31", FileStatus: "Filed"},
	}
	assert.Equal(t, "42", company.Field(FieldClientID))
	assert.Equal(t, "vip", company.Field(FieldTags))
	assert.Equal(t, "Acme", company.Field(FieldCompanyName))
	assert.Equal(t, "BN1", company.Field(FieldBusinessNumber))
	assert.Equal(t, "12-31", company.Field(FieldYearEnd))
	assert.Equal(t, "Filed", company.Field(FieldFileStatus))
	assert.Equal(t, "", company.Field(FieldSurname))
	assert.Equal(t, "Acme", company.DisplayName())

	person := Record{Category: CategoryT1, ClientID: "7", Person: &PersonFields{FirstNames: "Ada", Surname: "Lovelace"}}
	assert.Equal(t, "Ada Lovelace", person.DisplayName())
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", "N/A"},
		{"not a date", "N/A"},
		{"2024-03-05T14:22:01Z", "2024-03-05"},
		{"2024-03-05T14:22:01.123+02:00", "2024-03-05"},
		{"2024-03-05T14:22:01", "2024-03-05"},
		{"2024-03-05 14:22:01", "2024-03-05"},
		{"2024-03-05", "2024-03-05"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(tt.raw))
		})
	}
}
