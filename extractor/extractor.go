package extractor

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/autollantabi/conciliador/extractor/common"
	"github.com/autollantabi/conciliador/reconcile"
)

// Batch holds the candidates extracted from one file together with the scope
// they were extracted for.
type Batch struct {
	Scope      reconcile.Scope
	Candidates []reconcile.Movement
}

// MapRows turns raw tabular rows into movement candidates under a bank
// profile. Rows shorter than the profile minimum or with both date and amount
// empty are dropped here as structure (headers, totals, separators), not
// data. Rows missing one of the two, or whose date does not parse, are kept
// with a zero date so the runner counts and reports them instead of silently
// losing rows.
func MapRows(p Profile, rows [][]string, executionID int64, log *logrus.Entry) Batch {
	account := p.AccountCell.read(rows)
	if account == "" {
		log.Warn("no account number found in file header")
		account = "SIN_CUENTA"
	}
	company := p.CompanyCell.read(rows)

	batch := Batch{
		Scope: reconcile.Scope{
			AccountNumber: account,
			Bank:          p.Bank,
			Company:       company,
		},
	}

	for i := p.HeaderRows; i < len(rows); i++ {
		row := rows[i]
		if len(row) < p.MinColumns {
			continue
		}

		dateText := column(row, p.Columns.Date)
		rawType := column(row, p.Columns.Type)

		amountText := column(row, p.Columns.Amount)
		if p.Columns.Amount < 0 {
			// Split credit/debit columns: the type decides which one holds
			// this row's value.
			if p.isCredit(rawType, false) {
				amountText = column(row, p.Columns.CreditAmount)
			} else {
				amountText = column(row, p.Columns.DebitAmount)
			}
		}
		if dateText == "" && amountText == "" {
			continue
		}

		concept := column(row, p.Columns.Concept)
		office := column(row, p.Columns.Office)
		balanceText := column(row, p.Columns.Balance)
		document := column(row, p.Columns.Document)

		amount := common.ParseAmount(amountText)
		balance := common.ParseAmount(balanceText)

		txType := reconcile.TypeDebit
		if p.isCredit(rawType, amount.IsNegative()) {
			txType = reconcile.TypeCredit
		}

		if prefix, ok := p.ConceptPrefixes[account]; ok {
			concept = strings.TrimSpace(prefix + concept)
		}

		if document == "" {
			document = SynthesizeDocumentNumber(dateText, rawType, concept, office, amountText, balanceText)
		}

		var date time.Time
		if dateText == "" || amountText == "" {
			log.Warnf("row %d: missing %s", i+1, missingFields(dateText, amountText))
		} else {
			var err error
			if date, err = common.ParseDateAny(dateText, p.DateFormats); err != nil {
				log.Warnf("row %d: %v", i+1, err)
			}
		}

		batch.Candidates = append(batch.Candidates, reconcile.Movement{
			AccountNumber:  account,
			Bank:           p.Bank,
			Company:        company,
			DocumentNumber: document,
			ExecutionID:    executionID,
			Date:           date,
			Type:           txType,
			Amount:         amount,
			Balance:        balance,
			Office:         office,
			Concept:        concept,
			Reference:      column(row, p.Columns.Reference),
		})
	}

	return batch
}

// SynthesizeDocumentNumber builds a deterministic document number for rows
// the bank exports without one: date digits, the lengths of the type, concept
// and office fragments, the amount and balance digits, and a trailing marker.
// The same row always synthesizes the same number, which is what makes the
// combination-key deduplication work for these banks.
func SynthesizeDocumentNumber(dateText, rawType, concept, office, amountText, balanceText string) string {
	return fmt.Sprintf("%s%d%d%d%s%sG",
		common.DigitsOnly(dateText),
		len(strings.TrimSpace(rawType)),
		len(concept),
		len(office),
		common.DigitsOnly(amountText),
		common.DigitsOnly(balanceText),
	)
}

func missingFields(dateText, amountText string) string {
	switch {
	case dateText == "" && amountText == "":
		return "date and amount"
	case dateText == "":
		return "date"
	default:
		return "amount"
	}
}

func column(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
