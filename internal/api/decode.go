package api

import (
	"fmt"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/taxdesk/clientsearch/internal/domain"
)

// json matches keys case-insensitively, so "SIN" and "sin" decode alike.
var json = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	CaseSensitive:          false,
}.Froze()

// flexString decodes a JSON string, number, bool or array of those into text.
// Arrays are joined with ", ".
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexString(flatten(v))
	return nil
}

func flatten(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := flatten(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(t)
	}
}

// wireRecord is the loose row shape shared by every category.
type wireRecord struct {
	ClientID    flexString `json:"clientId"`
	Tags        flexString `json:"tags"`
	LastUpdated flexString `json:"lastUpdated"`

	FirstNames       flexString `json:"firstnames"`
	Surname          flexString `json:"surname"`
	SIN              flexString `json:"sin"`
	Phone            flexString `json:"phoneNo"`
	Email            flexString `json:"email"`
	SpouseFirstNames flexString `json:"spFirstnames"`

	CompanyName    flexString `json:"companyName"`
	BusinessNumber flexString `json:"bnFull"`
	YearEnd        flexString `json:"fyEnd"`

	EstateName  flexString `json:"estateName"`
	TrustNumber flexString `json:"SNFull"`

	FilingStatus      flexString `json:"cifFilingStatus"`
	TrustFilingStatus flexString `json:"t3retefileFilingStatus"`
	FileStatus        flexString `json:"fileStatus"`
}

func (w wireRecord) fileStatus() string {
	for _, s := range []flexString{w.FilingStatus, w.TrustFilingStatus, w.FileStatus} {
		if s != "" {
			return string(s)
		}
	}
	return ""
}

// record converts a wire row into the schema of its category.
func (w wireRecord) record(c domain.Category) domain.Record {
	r := domain.Record{
		Category:    c,
		ClientID:    string(w.ClientID),
		Tags:        string(w.Tags),
		LastUpdated: string(w.LastUpdated),
	}
	switch c {
	case domain.CategoryT1:
		r.Person = &domain.PersonFields{
			FirstNames:       string(w.FirstNames),
			Surname:          string(w.Surname),
			SIN:              string(w.SIN),
			Phone:            string(w.Phone),
			Email:            string(w.Email),
			SpouseFirstNames: string(w.SpouseFirstNames),
			FileStatus:       w.fileStatus(),
		}
	case domain.CategoryT2:
		r.Company = &domain.CompanyFields{
			CompanyName:    string(w.CompanyName),
			BusinessNumber: string(w.BusinessNumber),
			YearEnd:        string(w.YearEnd),
			FileStatus:     w.fileStatus(),
		}
	case domain.CategoryT3:
		r.Trust = &domain.TrustFields{
			EstateName:  string(w.EstateName),
			TrustNumber: string(w.TrustNumber),
			FileStatus:  w.fileStatus(),
		}
	}
	return r
}

// wirePage accepts both the tuple shape {"item1": total, "item2": rows} and
// {"totalCount": total, "records": rows}.
type wirePage struct {
	Item1      *int         `json:"item1"`
	Item2      []wireRecord `json:"item2"`
	TotalCount *int         `json:"totalCount"`
	Records    []wireRecord `json:"records"`
}

func (p wirePage) total() int {
	switch {
	case p.Item1 != nil:
		return *p.Item1
	case p.TotalCount != nil:
		return *p.TotalCount
	}
	return len(p.rows())
}

func (p wirePage) rows() []wireRecord {
	if p.Item2 != nil {
		return p.Item2
	}
	return p.Records
}

// decodePage parses a response body into validated records. Rows that fail
// validation are returned as dropped errors instead of failing the page.
func decodePage(body []byte, c domain.Category) ([]domain.Record, int, []error, error) {
	var page wirePage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, 0, nil, fmt.Errorf("decode response: %w", err)
	}

	rows := page.rows()
	records := make([]domain.Record, 0, len(rows))
	var dropped []error
	for i, row := range rows {
		r := row.record(c)
		if err := r.Validate(); err != nil {
			dropped = append(dropped, fmt.Errorf("row %d: %w", i, err))
			continue
		}
		records = append(records, r)
	}
	return records, page.total(), dropped, nil
}
