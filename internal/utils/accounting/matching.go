package accounting

import (
	"sort"
	"strings"
	"unicode"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

func isTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '/'
}

// ContainsDocumentNumber reports whether number occurs in text as a whole token,
// so "INV-1" is found in "Payment INV-1." but not in "Payment INV-10".
// Matching is case-insensitive.
func ContainsDocumentNumber(text, number string) bool {
	number = strings.TrimSpace(number)
	if number == "" {
		return false
	}
	haystack := []rune(strings.ToUpper(text))
	needle := []rune(strings.ToUpper(number))
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if string(haystack[i:i+len(needle)]) != string(needle) {
			continue
		}
		if i > 0 && isTokenRune(haystack[i-1]) {
			continue
		}
		end := i + len(needle)
		if end < len(haystack) && isTokenRune(haystack[end]) {
			continue
		}
		return true
	}
	return false
}

// MatchInvoices returns the invoices whose number appears as a whole token in
// any of texts, ordered by invoice number.
func MatchInvoices(texts []string, invoices []domain.PurchaseInvoice) []domain.PurchaseInvoice {
	var matched []domain.PurchaseInvoice
	for _, inv := range invoices {
		for _, text := range texts {
			if ContainsDocumentNumber(text, inv.InvoiceNumber) {
				matched = append(matched, inv)
				break
			}
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].InvoiceNumber < matched[j].InvoiceNumber
	})
	return matched
}
