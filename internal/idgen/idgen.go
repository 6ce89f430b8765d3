// Package idgen derives the next human-readable identifier for a
// sequence (products, customers, sellers, invoices) from the set of
// identifiers already in use.
//
// The scheme is prefix + zero-padded integer (P001, C042, INV-007).
// Next is a pure function and is only collision-free at the instant of
// computation; concurrent allocations must be serialized by the caller,
// e.g. by claiming the candidate inside a transaction with a unique
// constraint and retrying on conflict.
package idgen

import (
	"fmt"
	"strconv"
	"strings"
)

// Identifier prefixes used by the ledger.
const (
	PrefixProduct  = "P"
	PrefixCustomer = "C"
	PrefixSeller   = "S"
	PrefixInvoice  = "INV-"
)

// width is the minimum number of digits in the numeric suffix.
const width = 3

// Next returns the next unused identifier for the given prefix. It scans
// existing for identifiers of the form prefix+digits, takes the maximum
// numeric suffix, and increments until it finds a value not present in
// existing. Gaps are not reused: given {P001, P003} the next product ID
// is P004. If no identifier of the prefix exists, numbering starts at 1.
func Next(prefix string, existing []string) string {
	used := make(map[string]struct{}, len(existing))
	max := 0
	for _, id := range existing {
		used[id] = struct{}{}
		n, ok := suffix(prefix, id)
		if ok && n > max {
			max = n
		}
	}
	for {
		max++
		candidate := fmt.Sprintf("%s%0*d", prefix, width, max)
		if _, taken := used[candidate]; !taken {
			return candidate
		}
	}
}

// suffix extracts the numeric suffix of id if it matches prefix+digits.
func suffix(prefix, id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, prefix)
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 || strings.ContainsAny(rest, "+-. ") {
		return 0, false
	}
	return n, true
}
