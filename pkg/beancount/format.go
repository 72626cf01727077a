package beancount

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/kingswood-labs/starling-sync/pkg/starling"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// assetAccount builds the ledger account name for a bank account,
// e.g. "Personal" -> "Assets:Starling:Personal".
func assetAccount(name string) string {
	return "Assets:Starling:" + strings.ReplaceAll(name, " ", "")
}

func formatDate(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// statusMarker marks settled transactions as cleared, everything else as
// pending.
func statusMarker(status starling.Status) string {
	if status == starling.StatusSettled {
		return "*"
	}
	return "!"
}

// collapseWhitespace folds runs of whitespace, including newlines, into
// single spaces.
func collapseWhitespace(s string) string {
	return whitespaceRun.ReplaceAllString(s, " ")
}

// formatHeader builds a transaction's header line: date, cleared/pending
// marker, quoted counterparty, quoted reference and an optional note.
func formatHeader(item starling.FeedItem) string {
	var b strings.Builder
	b.WriteString(formatDate(item.TransactionTime))
	b.WriteString(" ")
	b.WriteString(statusMarker(item.Status))
	fmt.Fprintf(&b, " %q", item.CounterPartyName)
	if item.Reference != "" {
		fmt.Fprintf(&b, " %q", collapseWhitespace(item.Reference))
	}
	if item.UserNote != "" {
		b.WriteString(" ; ")
		b.WriteString(item.UserNote)
	}
	return b.String()
}
