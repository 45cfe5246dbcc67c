// Package output renders calculation results for the command line.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/broker-engine/pkg/loans"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Field is one labelled line of a result summary.
type Field struct {
	Label string
	Value string
}

// PrettyFields writes a titled, aligned summary.
func PrettyFields(w io.Writer, title string, fields []Field) {
	fmt.Fprintf(w, "--- %s ---\n", title)
	width := 0
	for _, f := range fields {
		if len(f.Label) > width {
			width = len(f.Label)
		}
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%-*s | %s\n", width, f.Label, f.Value)
	}
}

// CsvFields writes a two-column label,value CSV.
func CsvFields(w io.Writer, fields []Field) {
	fmt.Fprintf(w, `"field","value"`+"\n")
	for _, f := range fields {
		fmt.Fprintf(w, "%s,%s\n", quote(f.Label), quote(f.Value))
	}
}

// PrettySchedule outputs a human-readable amortization table.
func PrettySchedule(w io.Writer, schedule []loans.Payment) {
	p := message.NewPrinter(language.English)
	fmt.Fprintf(w, "Month | Payment      | Principal    | Interest     | Remaining\n")
	fmt.Fprintf(w, "_____ | ____________ | ____________ | ____________ | ____________\n")
	for _, payment := range schedule {
		_, _ = p.Fprintf(w, "%5d | %12.2f | %12.2f | %12.2f | %12.2f\n",
			payment.Month, payment.Payment, payment.Principal, payment.Interest, payment.RemainingPrincipal)
	}
}

// CsvSchedule outputs an amortization table in comma-separated value format.
func CsvSchedule(w io.Writer, schedule []loans.Payment) {
	fmt.Fprintf(w, `"month","payment","principal","interest","remaining"`+"\n")
	for _, payment := range schedule {
		fmt.Fprintf(w, `"%d","%.2f","%.2f","%.2f","%.2f"`+"\n",
			payment.Month, payment.Payment, payment.Principal, payment.Interest, payment.RemainingPrincipal)
	}
}

// Fields renders fields in the given format, "pretty" or "csv".
func Fields(w io.Writer, format, title string, fields []Field) {
	if format == "csv" {
		CsvFields(w, fields)
		return
	}
	PrettyFields(w, title, fields)
}

// Schedule renders a schedule in the given format, "pretty" or "csv".
func Schedule(w io.Writer, format string, schedule []loans.Payment) {
	if format == "csv" {
		CsvSchedule(w, schedule)
		return
	}
	PrettySchedule(w, schedule)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
