package domain

import (
	"github.com/samber/lo"
)

// Flag is one boolean filter a user can toggle.
type Flag struct {
	// Name is the internal flag key, e.g. "selfEmployed".
	Name string
	// Label is the checkbox and chip text.
	Label string
	// Field is the external field name without the year prefix.
	Field string
}

// FlagCatalog is the fixed, ordered set of flags for one screen and category.
// Prefix is prepended to every field when building filter clauses.
type FlagCatalog struct {
	Prefix string
	Flags  []Flag
}

// Lookup returns the flag with the given internal name.
func (c FlagCatalog) Lookup(name string) (Flag, bool) {
	return lo.Find(c.Flags, func(f Flag) bool { return f.Name == name })
}

// Names returns the internal flag names in catalog order.
func (c FlagCatalog) Names() []string {
	return lo.Map(c.Flags, func(f Flag, _ int) string { return f.Name })
}

// ExternalField returns the prefixed field name for a flag.
func (c FlagCatalog) ExternalField(f Flag) string {
	return c.Prefix + f.Field
}

// IsEmpty reports whether the catalog has no flags.
func (c FlagCatalog) IsEmpty() bool {
	return len(c.Flags) == 0
}

// FlagSet maps flag names to their checked state.
// A missing key is unchecked.
type FlagSet map[string]bool

// NewFlagSet returns a set with every catalog flag unchecked.
func NewFlagSet(c FlagCatalog) FlagSet {
	set := make(FlagSet, len(c.Flags))
	for _, f := range c.Flags {
		set[f.Name] = false
	}
	return set
}

// Clone returns an independent copy of the set.
func (s FlagSet) Clone() FlagSet {
	clone := make(FlagSet, len(s))
	for k, v := range s {
		clone[k] = v
	}
	return clone
}

// Any reports whether at least one flag is checked.
func (s FlagSet) Any() bool {
	return lo.SomeBy(lo.Values(s), func(v bool) bool { return v })
}

// Active returns the checked flags of the catalog in catalog order.
// Keys that are not part of the catalog are ignored.
func (s FlagSet) Active(c FlagCatalog) []Flag {
	return lo.Filter(c.Flags, func(f Flag, _ int) bool { return s[f.Name] })
}

// Toggle flips one flag.
func (s FlagSet) Toggle(name string) {
	s[name] = !s[name]
}

// Clear unchecks one flag.
func (s FlagSet) Clear(name string) {
	s[name] = false
}

// Client flags shared by the T1 personal sets of both screens.
var (
	flagSelfEmployed      = Flag{Name: "selfEmployed", Label: "Self Employed", Field: "SelfEmployed"}
	flagForeignTaxFiling  = Flag{Name: "foreignTaxFilingRequired", Label: "Foreign Tax Filing Required", Field: "ForeignTaxFilingRequired"}
	flagGSTDue            = Flag{Name: "gstDue", Label: "GST Due", Field: "GSTDue"}
	flagExpectedRefund    = Flag{Name: "expectedRefund", Label: "Expected Refund", Field: "ExpectedRefund"}
	clientsDiscountedFlag = Flag{Name: "discountedReturn", Label: "Discounted Return", Field: "DicountedRet"}
	clientsPayrollFlag    = Flag{Name: "payrollSlipsDue", Label: "Payroll Slips Due", Field: "PayRollSlipsDue"}
	returnsDiscountedFlag = Flag{Name: "discountedReturn", Label: "Discounted Return", Field: "DiscountedRet"}
	returnsPayrollFlag    = Flag{Name: "payrollSlipsDue", Label: "Payroll Slips Due", Field: "PayrollSlipsDue"}
)

const (
	currentYearPrefix  = "b"
	previousYearPrefix = "Pre_b"
)

// The client search service spells two fields differently from the returns
// service; each screen keeps the spelling its endpoint expects.
var clientsPersonalFlags = []Flag{
	flagSelfEmployed,
	flagForeignTaxFiling,
	clientsDiscountedFlag,
	flagGSTDue,
	flagExpectedRefund,
	clientsPayrollFlag,
}

var returnsPersonalFlags = []Flag{
	flagSelfEmployed,
	flagForeignTaxFiling,
	returnsDiscountedFlag,
	flagGSTDue,
	flagExpectedRefund,
	returnsPayrollFlag,
}

var returnsCorporateFlags = []Flag{
	{Name: "t2TaxableIncome", Label: "Taxable Income", Field: "T2TaxableIncome"},
	{Name: "t2CapitalLoss", Label: "Capital Loss", Field: "T2CapitalLoss"},
	{Name: "t2NonCapitalLoss", Label: "Non Capital Loss", Field: "T2NonCapitalLoss"},
	{Name: "hstReturnFiled", Label: "HST", Field: "HSTReturnFiled"},
	{Name: "t2NonResident", Label: "Non Resident", Field: "T2NonResident"},
	{Name: "t2ReturnFiled", Label: "Return Filed", Field: "T2ReturnFiled"},
	{Name: "t2T1135", Label: "T2T1135", Field: "T2T1135ReturnFiled"},
	{Name: "t2S89", Label: "T2S89", Field: "T2S89ReturnFiled"},
	{Name: "t2T2054", Label: "T2T2054", Field: "T2T2054ReturnFiled"},
	{Name: "t2UHT", Label: "T2UHT", Field: "T2UHTReturnFiled"},
}

var returnsTrustFlags = []Flag{
	{Name: "bNonResidentTrust", Label: "Residency of Trust", Field: "NonResidentTrust"},
	{Name: "foreignIncome", Label: "Foreign Income", Field: "ForeignIncome"},
	{Name: "gstFiled", Label: "GST Filed", Field: "GSTFiled"},
	{Name: "expectedRefund", Label: "Expected Refund", Field: "ExpectedRefund"},
	{Name: "balanceOwing", Label: "Balance Owing", Field: "BalanceOwing"},
	{Name: "payrollSlipsDue", Label: "Payroll Slips", Field: "PayRollSlipsDue"},
	{Name: "t1135ReturnFiled", Label: "T1135", Field: "T1135ReturnFiled"},
}

// TrustTypes lists the selectable T3 trust type codes.
var TrustTypes = []string{"900", "300", "903"}

// IsValidTrustType reports whether code is empty or a known trust type.
func IsValidTrustType(code string) bool {
	return code == "" || lo.Contains(TrustTypes, code)
}

// NextTrustType cycles through no trust type and each known code.
func NextTrustType(code string) string {
	if code == "" {
		return TrustTypes[0]
	}
	idx := lo.IndexOf(TrustTypes, code)
	if idx < 0 || idx == len(TrustTypes)-1 {
		return ""
	}
	return TrustTypes[idx+1]
}
