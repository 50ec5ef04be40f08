package service

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/4lovek5346534/git-Supreme-Cofe/internal/store"

	"github.com/shopspring/decimal"
)

// ParseFilter reads catalog filters from query parameters:
//
//	price=min-max weight=min-max origin=a,b type=a,b composition=a,b text=...
//
// Either bound of a range may be left empty.
func ParseFilter(q url.Values) (store.ProductFilter, error) {
	f := store.ProductFilter{
		Text:         strings.TrimSpace(q.Get("text")),
		Origins:      splitList(q.Get("origin")),
		Types:        splitList(q.Get("type")),
		Compositions: splitList(q.Get("composition")),
	}

	if raw := q.Get("price"); raw != "" {
		lo, hi, err := splitRange(raw)
		if err != nil {
			return f, invalid("price must look like min-max")
		}
		if lo != "" {
			d, err := decimal.NewFromString(lo)
			if err != nil {
				return f, invalid("bad minimum price %q", lo)
			}
			f.MinPrice = &d
		}
		if hi != "" {
			d, err := decimal.NewFromString(hi)
			if err != nil {
				return f, invalid("bad maximum price %q", hi)
			}
			f.MaxPrice = &d
		}
	}

	if raw := q.Get("weight"); raw != "" {
		lo, hi, err := splitRange(raw)
		if err != nil {
			return f, invalid("weight must look like min-max")
		}
		if lo != "" {
			w, err := strconv.ParseFloat(lo, 64)
			if err != nil {
				return f, invalid("bad minimum weight %q", lo)
			}
			f.MinWeight = &w
		}
		if hi != "" {
			w, err := strconv.ParseFloat(hi, 64)
			if err != nil {
				return f, invalid("bad maximum weight %q", hi)
			}
			f.MaxWeight = &w
		}
	}

	return f, nil
}

func splitRange(raw string) (string, string, error) {
	parts := strings.SplitN(raw, "-", 2)
	if len(parts) != 2 {
		return "", "", ErrInvalidInput
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}

func splitList(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
