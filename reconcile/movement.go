package reconcile

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Movement is one account ledger entry. For candidates coming out of a file
// DocumentNumber holds the base number as the bank supplied it (possibly
// synthesized); for persisted rows it holds the final, possibly suffixed,
// number.
type Movement struct {
	AccountNumber  string          `json:"account_number"`
	Bank           string          `json:"bank"`
	Company        string          `json:"company"`
	DocumentNumber string          `json:"document_number"`
	ExecutionID    int64           `json:"execution_id"`
	Date           time.Time       `json:"date"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	Balance        decimal.Decimal `json:"balance"`
	Office         string          `json:"office,omitempty"`
	Concept        string          `json:"concept,omitempty"`
	Reference      string          `json:"reference,omitempty"`
	DateCounter    int             `json:"date_counter,omitempty"`
}

// Transaction types as persisted.
const (
	TypeCredit = "C"
	TypeDebit  = "D"
)

// Scope identifies the partition a batch reconciles against. Movements of one
// scope never collide with another scope's, so an Index must not be shared
// across scopes.
type Scope struct {
	AccountNumber string
	Bank          string
	Company       string
}

// Summary is the per-batch outcome returned to the caller.
type Summary struct {
	Inserted  int `json:"inserted"`
	Omitted   int `json:"omitted"`
	Processed int `json:"processed"`
}

// Merge accumulates another summary into s, for directory runs.
func (s *Summary) Merge(other Summary) {
	s.Inserted += other.Inserted
	s.Omitted += other.Omitted
	s.Processed += other.Processed
}

// suffixSep is the canonical disambiguation suffix separator. Persisted data
// may still carry the legacy "_N" form, which BaseDocumentNumber also strips.
const suffixSep = " - "

var legacySuffixRegex = regexp.MustCompile(`^(.+?)_(\d+)$`)

// BaseDocumentNumber strips a disambiguation suffix (" - N" or legacy "_N")
// from a persisted document number, returning the number the source system
// originally supplied.
func BaseDocumentNumber(doc string) string {
	if i := strings.LastIndex(doc, suffixSep); i > 0 {
		if isDigits(doc[i+len(suffixSep):]) {
			return doc[:i]
		}
	}
	if m := legacySuffixRegex.FindStringSubmatch(doc); m != nil {
		return m[1]
	}
	return doc
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// combinationKey derives the identity of a movement: two movements with the
// same key in one scope are the same real-world transaction regardless of how
// their document numbers ended up formatted.
func combinationKey(doc string, date time.Time, amount decimal.Decimal, txType, concept string, withConcept bool) string {
	parts := []string{
		BaseDocumentNumber(doc),
		date.Format("2006-01-02"),
		amount.StringFixed(2),
		txType,
	}
	if withConcept {
		c := concept
		// Truncate on rune boundaries: concepts are Spanish text and a byte
		// slice could cut an accented character in half.
		if r := []rune(c); len(r) > 50 {
			c = string(r[:50])
		}
		parts = append(parts, c)
	}
	return strings.Join(parts, "|")
}
