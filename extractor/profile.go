package extractor

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// CellRef points at a header cell in the raw rows. SplitAfter cuts the cell
// value after the first occurrence of the separator ("Cuenta: 123" -> "123").
type CellRef struct {
	Row        int    `mapstructure:"row"`
	Col        int    `mapstructure:"col"`
	SplitAfter string `mapstructure:"split_after"`
}

// ColumnMap maps movement fields to zero-based column indices in the data
// rows. Use -1 for columns the bank's export does not carry.
type ColumnMap struct {
	Date      int `mapstructure:"date"`
	Type      int `mapstructure:"type"`
	Document  int `mapstructure:"document"`
	Concept   int `mapstructure:"concept"`
	Office    int `mapstructure:"office"`
	Amount    int `mapstructure:"amount"`
	Balance   int `mapstructure:"balance"`
	Reference int `mapstructure:"reference"`

	// CreditAmount/DebitAmount replace Amount for banks that report credits
	// and debits in separate columns; the type decides which one is read.
	CreditAmount int `mapstructure:"credit_amount"`
	DebitAmount  int `mapstructure:"debit_amount"`
}

// Profile is the per-bank configuration that replaces bespoke per-bank
// extraction code: where the header cells are, how columns are laid out, how
// dates and transaction types are written, and how the combination key is
// built for this bank.
type Profile struct {
	// Bank is the code persisted in the movements table.
	Bank string `mapstructure:"bank_code"`

	// HeaderRows is the number of leading rows before movement data starts.
	HeaderRows int `mapstructure:"header_rows"`

	// MinColumns discards structurally short rows (totals, separators).
	MinColumns int `mapstructure:"min_columns"`

	AccountCell *CellRef `mapstructure:"account_cell"`
	CompanyCell *CellRef `mapstructure:"company_cell"`

	Columns ColumnMap `mapstructure:"columns"`

	// DateFormats are Go time layouts tried in order.
	DateFormats []string `mapstructure:"date_formats"`

	// CreditValues are raw type-column values (case-insensitive) meaning
	// credit; anything else is a debit. Ignored when TypeFromSign is set.
	CreditValues []string `mapstructure:"credit_values"`

	// CreditContains marks a credit when the type column merely contains one
	// of these fragments, for banks that bury the type in a longer
	// description ("DEPOSITO TRANSFERENCIA N/C").
	CreditContains []string `mapstructure:"credit_contains"`

	// TypeFromSign derives the type from the amount's sign instead of the
	// type column: non-negative is credit. The stored amount keeps its sign.
	TypeFromSign bool `mapstructure:"type_from_sign"`

	// IncludeConceptInKey adds a 50-character concept prefix to the
	// combination key, for banks whose document/date/amount/type tuple is not
	// discriminating enough.
	IncludeConceptInKey bool `mapstructure:"include_concept_in_key"`

	// ConceptPrefixes prepends a marker to the concept for specific account
	// numbers (shared portals reporting several businesses on one login).
	ConceptPrefixes map[string]string `mapstructure:"concept_prefixes"`
}

// ProfileFromConfig loads the named bank profile from the viper configuration
// under "banks.<name>".
func ProfileFromConfig(name string) (Profile, error) {
	key := "banks." + strings.ToLower(name)
	if !viper.IsSet(key) {
		return Profile{}, fmt.Errorf("no bank profile %q in configuration", name)
	}

	p := Profile{
		MinColumns: 2,
		Columns: ColumnMap{
			Date: -1, Type: -1, Document: -1, Concept: -1,
			Office: -1, Amount: -1, Balance: -1, Reference: -1,
			CreditAmount: -1, DebitAmount: -1,
		},
	}
	if err := viper.UnmarshalKey(key, &p); err != nil {
		return Profile{}, fmt.Errorf("bank profile %q: %w", name, err)
	}
	if p.Bank == "" {
		p.Bank = strings.ToUpper(name)
	}
	if len(p.DateFormats) == 0 {
		return Profile{}, fmt.Errorf("bank profile %q has no date_formats", name)
	}
	if p.Columns.Date < 0 {
		return Profile{}, fmt.Errorf("bank profile %q must map a date column", name)
	}
	if p.Columns.Amount < 0 && (p.Columns.CreditAmount < 0 || p.Columns.DebitAmount < 0) {
		return Profile{}, fmt.Errorf("bank profile %q must map an amount column, or both credit_amount and debit_amount", name)
	}
	return p, nil
}

// isCredit classifies a raw type value under this profile.
func (p Profile) isCredit(rawType string, negativeAmount bool) bool {
	if p.TypeFromSign {
		return !negativeAmount
	}
	v := strings.ToUpper(strings.TrimSpace(rawType))
	for _, c := range p.CreditValues {
		if strings.ToUpper(c) == v {
			return true
		}
	}
	for _, c := range p.CreditContains {
		if strings.Contains(v, strings.ToUpper(c)) {
			return true
		}
	}
	return false
}

// read fetches the referenced cell from the raw rows, applying SplitAfter.
func (c *CellRef) read(rows [][]string) string {
	if c == nil || c.Row >= len(rows) || c.Col >= len(rows[c.Row]) {
		return ""
	}
	v := strings.TrimSpace(rows[c.Row][c.Col])
	if c.SplitAfter != "" {
		if i := strings.Index(v, c.SplitAfter); i >= 0 {
			v = strings.TrimSpace(v[i+len(c.SplitAfter):])
		}
	}
	return v
}
