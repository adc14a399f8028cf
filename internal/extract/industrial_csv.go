package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/castmind/quetzal/internal/common"
	"github.com/castmind/quetzal/internal/model"
	"github.com/castmind/quetzal/internal/textenc"
)

// csvHeaderTokens anchor the encoding resolution; the decoded bytes are
// only trusted if one of these appears near the top of the file.
var csvHeaderTokens = []string{"fecha", "debe", "haber"}

// csvPeriodLine carries the statement period; rows only print day and
// month, so the year comes from here.
var csvPeriodLine = regexp.MustCompile(`Del\s+\d{1,2}/\d{1,2}/(\d{4})`)

// csvRowDate matches the "d- m" day-month cells of movement rows.
var csvRowDate = regexp.MustCompile(`^(\d{1,2})\s*-\s*(\d{1,2})$`)

// Transaction-type codes used by the Banco Industrial CSV export.
var (
	csvCreditCodes = map[string]bool{"NC": true, "DE": true}
	csvDebitCodes  = map[string]bool{"ND": true, "CQ": true}
)

// industrialCheckingCSV extracts the checking-account CSV export, which
// ships in whatever encoding the download path produced. Structural
// problems fail the document; individual malformed rows are skipped.
type industrialCheckingCSV struct {
	base
	currency string
}

func (x *industrialCheckingCSV) Extract(in Input, opts Options) ([]model.Transaction, error) {
	sink := x.sink(opts)
	label := x.label(opts)

	text, _, err := textenc.Resolve(in.Raw, csvHeaderTokens)
	if err != nil {
		return nil, err
	}
	lines := splitLines(text)

	year, err := csvStatementYear(lines)
	if err != nil {
		return nil, err
	}
	headerIdx, err := csvHeaderIndex(lines)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(strings.Join(lines[headerIdx:], "\n")))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	cols, err := csvColumns(header)
	if err != nil {
		return nil, err
	}

	var txns []model.Transaction
	unknown := map[string]bool{}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			sink.Emit(Event{Kind: EventRowSkipped, Detail: err.Error()})
			continue
		}
		if len(record) <= cols.max() {
			sink.Emit(Event{Kind: EventRowSkipped, Line: strings.Join(record, ","), Detail: "short row"})
			continue
		}

		dm := csvRowDate.FindStringSubmatch(trimmed(record[cols.date]))
		if dm == nil {
			sink.Emit(Event{Kind: EventRowSkipped, Line: strings.Join(record, ","), Detail: "no row date"})
			continue
		}
		day, _ := strconv.Atoi(dm[1])
		month, _ := strconv.Atoi(dm[2])
		if month < 1 || month > 12 {
			sink.Emit(Event{Kind: EventBadNumber, Line: strings.Join(record, ","), Detail: "month out of range"})
			continue
		}
		date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)

		code := strings.ToUpper(trimmed(record[cols.code]))
		var typ model.TransactionType
		switch {
		case csvCreditCodes[code]:
			typ = model.TypeCredit
		case csvDebitCodes[code]:
			typ = model.TypeDebit
		default:
			unknown[code] = true
			continue
		}

		cell := trimmed(record[cols.debit])
		if cell == "" || isZeroAmount(cell) {
			cell = trimmed(record[cols.credit])
		}
		if cell == "" {
			sink.Emit(Event{Kind: EventRowSkipped, Line: strings.Join(record, ","), Detail: "no amount"})
			continue
		}
		amount, err := parseMoney(cell)
		if err != nil {
			sink.Emit(Event{Kind: EventBadNumber, Line: strings.Join(record, ","), Detail: err.Error()})
			continue
		}
		amount = amount.Abs()

		desc := trimmed(record[cols.description])
		txn := model.Transaction{
			Date:                date,
			Description:         desc,
			OriginalDescription: desc,
			Amount:              amount,
			Type:                typ,
			AccountName:         label,
			OriginalCurrency:    x.currency,
			OriginalValue:       amount,
		}
		if x.currency == model.CurrencyUSD {
			txn.Amount = x.toGTQ(amount)
		}
		txns = append(txns, txn)
	}

	if len(unknown) > 0 {
		codes := make([]string, 0, len(unknown))
		for code := range unknown {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		return nil, &common.UnknownCodeError{Codes: codes}
	}
	return txns, nil
}

func isZeroAmount(s string) bool {
	d, err := parseMoney(s)
	return err == nil && d.IsZero()
}

// csvStatementYear finds the period line in the preamble. The export is
// useless without it, since rows never print a year.
func csvStatementYear(lines []string) (int, error) {
	limit := len(lines)
	if limit > 15 {
		limit = 15
	}
	for _, line := range lines[:limit] {
		if m := csvPeriodLine.FindStringSubmatch(line); m != nil {
			year, err := strconv.Atoi(m[1])
			if err != nil {
				return 0, fmt.Errorf("parsing statement year %q: %w", m[1], err)
			}
			return year, nil
		}
	}
	return 0, fmt.Errorf("csv export has no statement period line")
}

func csvHeaderIndex(lines []string) (int, error) {
	for i, line := range lines {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "fecha") &&
			strings.Contains(lower, "tt") &&
			strings.Contains(lower, "descripci") {
			return i, nil
		}
	}
	return 0, fmt.Errorf("csv export has no column header row")
}

// csvLayout holds the resolved column positions of one export.
type csvLayout struct {
	date        int
	code        int
	description int
	debit       int
	credit      int
}

func (l csvLayout) max() int {
	m := l.date
	for _, i := range []int{l.code, l.description, l.debit, l.credit} {
		if i > m {
			m = i
		}
	}
	return m
}

// csvColumns maps header names to positions. Debe and Haber carry a
// currency suffix like "(Q.)" or "(USD)", and Descripción depends on the
// encoding surviving, so both are matched by prefix.
func csvColumns(header []string) (csvLayout, error) {
	layout := csvLayout{date: -1, code: -1, description: -1, debit: -1, credit: -1}
	for i, name := range header {
		lower := strings.ToLower(trimmed(name))
		switch {
		case lower == "fecha":
			layout.date = i
		case lower == "tt":
			layout.code = i
		case strings.HasPrefix(lower, "descripci"):
			layout.description = i
		case strings.HasPrefix(lower, "debe"):
			layout.debit = i
		case strings.HasPrefix(lower, "haber"):
			layout.credit = i
		}
	}

	var missing []string
	for _, col := range []struct {
		name string
		idx  int
	}{
		{"Fecha", layout.date},
		{"TT", layout.code},
		{"Descripción", layout.description},
		{"Debe", layout.debit},
		{"Haber", layout.credit},
	} {
		if col.idx < 0 {
			missing = append(missing, col.name)
		}
	}
	if len(missing) > 0 {
		return csvLayout{}, fmt.Errorf("csv export missing required columns: %s", strings.Join(missing, ", "))
	}
	return layout, nil
}
