package coupon

import (
	"fmt"
	"strconv"
	"strings"
)

// Table is a static, read-only mapping from coupon code to a discount rate in
// basis points. Lookups are case-insensitive.
type Table struct {
	rates map[string]int64
}

// Parse builds a table from a "CODE:bps,CODE:bps" specification. Codes must be
// non-empty and rates must fall strictly between 0 and 10000 basis points.
func Parse(spec string) (Table, error) {
	rates := map[string]int64{}
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		code, rate, ok := strings.Cut(entry, ":")
		if !ok {
			return Table{}, fmt.Errorf("coupon: malformed entry %q", entry)
		}
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			return Table{}, fmt.Errorf("coupon: empty code in entry %q", entry)
		}
		bps, err := strconv.ParseInt(strings.TrimSpace(rate), 10, 64)
		if err != nil {
			return Table{}, fmt.Errorf("coupon: rate for %s: %w", code, err)
		}
		if bps <= 0 || bps >= 10_000 {
			return Table{}, fmt.Errorf("coupon: rate for %s must be between 0 and 10000 bps", code)
		}
		rates[code] = bps
	}
	return Table{rates: rates}, nil
}

// RateBps returns the discount rate for the code and whether it exists.
func (t Table) RateBps(code string) (int64, bool) {
	if t.rates == nil {
		return 0, false
	}
	bps, ok := t.rates[strings.ToUpper(strings.TrimSpace(code))]
	return bps, ok
}

// Len reports the number of configured codes.
func (t Table) Len() int {
	return len(t.rates)
}
