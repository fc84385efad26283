package currency

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"ChartFeed/internal/model"
)

var ErrNotFound = errors.New("currency not found")

// Registry is an immutable in-memory lookup of currencies by code or title.
type Registry struct {
	byCode  map[string]model.Currency
	byTitle map[string]model.Currency
	all     []model.Currency
}

// NewRegistry indexes currencies. Later duplicates of a code or title are ignored.
func NewRegistry(currencies []model.Currency) *Registry {
	r := &Registry{
		byCode:  make(map[string]model.Currency, len(currencies)),
		byTitle: make(map[string]model.Currency, len(currencies)),
	}
	for _, c := range currencies {
		code := strings.ToUpper(strings.TrimSpace(c.Code))
		if code == "" {
			continue
		}
		if _, dup := r.byCode[code]; dup {
			continue
		}
		c.Code = code
		r.byCode[code] = c
		if t := strings.ToLower(strings.TrimSpace(c.Title)); t != "" {
			if _, dup := r.byTitle[t]; !dup {
				r.byTitle[t] = c
			}
		}
		r.all = append(r.all, c)
	}
	sort.Slice(r.all, func(i, j int) bool { return r.all[i].ID < r.all[j].ID })
	return r
}

// Lookup matches s against ISO codes first, then titles, ignoring case.
func (r *Registry) Lookup(s string) (model.Currency, error) {
	s = strings.TrimSpace(s)
	if c, ok := r.byCode[strings.ToUpper(s)]; ok {
		return c, nil
	}
	if c, ok := r.byTitle[strings.ToLower(s)]; ok {
		return c, nil
	}
	return model.Currency{}, fmt.Errorf("%w: %q", ErrNotFound, s)
}

// All returns the known currencies ordered by ID.
func (r *Registry) All() []model.Currency {
	out := make([]model.Currency, len(r.all))
	copy(out, r.all)
	return out
}

// Pair looks up both sides of a pair.
func (r *Registry) Pair(from, to string) (model.Pair, error) {
	f, err := r.Lookup(from)
	if err != nil {
		return model.Pair{}, err
	}
	t, err := r.Lookup(to)
	if err != nil {
		return model.Pair{}, err
	}
	return model.Pair{From: f, To: t}, nil
}

// ParsePair resolves "FROM/TO" notation, e.g. "BTC/USD".
func (r *Registry) ParsePair(s string) (model.Pair, error) {
	from, to, ok := strings.Cut(s, "/")
	if !ok || from == "" || to == "" {
		return model.Pair{}, fmt.Errorf("invalid pair %q, want FROM/TO", s)
	}
	return r.Pair(from, to)
}

// Defaults is the built-in currency list used when none is configured.
func Defaults() []model.Currency {
	return []model.Currency{
		{ID: 1, Code: "BTC", Title: "Bitcoin"},
		{ID: 2, Code: "ETH", Title: "Ethereum"},
		{ID: 3, Code: "USD", Title: "US Dollar"},
		{ID: 4, Code: "EUR", Title: "Euro"},
	}
}
