// Package query turns list URL parameters into a Filter the repository
// can apply. It knows nothing about SQL.
package query

import (
	"cmp"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"nursery-service/internal/model"
	"nursery-service/internal/schema"
)

// Reserved parameter names. Every other key is matched against column ids.
const (
	ParamSearch     = "search"
	ParamDateFrom   = "dateFrom"
	ParamDateTo     = "dateTo"
	ParamQuickRange = "quickRange"
	ParamSort       = "sort"
	ParamOrder      = "order"
	ParamLimit      = "limit"
)

const (
	DefaultLimit = 500
	MaxLimit     = 1000
)

// Base record fields that can be sorted on besides the catalog columns.
const (
	FieldCreatedAt = model.FieldCreatedAt
	FieldUpdatedAt = model.FieldUpdatedAt
)

// Op is a comparison a Condition applies.
type Op string

const (
	OpIn  Op = "in"
	OpGTE Op = "gte"
	OpLTE Op = "lte"
)

// Condition restricts one column.
type Condition struct {
	Column string
	Op     Op
	Values []any
}

// Filter is the parsed form of a list request. Conditions are ANDed; the
// search term matches when any of SearchColumns contains it.
type Filter struct {
	Search        string
	SearchColumns []string
	Conditions    []Condition
	DateColumn    string
	DateFrom      *time.Time
	DateTo        *time.Time
	Sort          string
	Desc          bool
	Limit         int

	// Ignored lists parameters that named a column but could not be parsed.
	Ignored []string
}

// Parse builds a Filter over columns from q. dateColumn may be empty, in
// which case date range parameters are ignored. now anchors quick ranges
// on its own calendar day. Range bounds are UTC, the zone stored dates use.
func Parse(columns []schema.Column, dateColumn string, q url.Values, now time.Time) Filter {
	f := Filter{
		DateColumn: dateColumn,
		Sort:       dateColumn,
		Desc:       true,
		Limit:      DefaultLimit,
	}
	if f.Sort == "" {
		f.Sort = FieldCreatedAt
	}

	byID := make(map[string]schema.Column, len(columns))
	for _, c := range columns {
		byID[c.ID] = c
		if c.Type == schema.TypeText {
			f.SearchColumns = append(f.SearchColumns, c.ID)
		}
	}

	f.Search = strings.TrimSpace(q.Get(ParamSearch))

	for key, vals := range q {
		if len(vals) == 0 {
			continue
		}
		if col, ok := byID[key]; ok && col.Type == schema.TypeText {
			if in := splitList(vals); len(in) > 0 {
				f.Conditions = append(f.Conditions, Condition{Column: col.ID, Op: OpIn, Values: in})
			}
			continue
		}
		for suffix, op := range map[string]Op{"Min": OpGTE, "Max": OpLTE} {
			id, found := strings.CutSuffix(key, suffix)
			if !found {
				continue
			}
			col, ok := byID[id]
			if !ok || !col.Type.Numeric() {
				continue
			}
			raw := strings.TrimSpace(vals[0])
			if raw == "" {
				continue
			}
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				f.Ignored = append(f.Ignored, key)
				continue
			}
			f.Conditions = append(f.Conditions, Condition{Column: id, Op: op, Values: []any{n}})
		}
	}
	// Map iteration order is random; keep the output stable.
	slices.SortFunc(f.Conditions, func(a, b Condition) int {
		return cmp.Or(cmp.Compare(a.Column, b.Column), cmp.Compare(a.Op, b.Op))
	})

	if dateColumn != "" {
		f.DateFrom, f.DateTo = dateRange(q, now, &f.Ignored)
	}

	if s := q.Get(ParamSort); s != "" {
		if _, ok := byID[s]; ok || s == FieldCreatedAt || s == FieldUpdatedAt {
			f.Sort = s
		} else {
			f.Ignored = append(f.Ignored, ParamSort)
		}
	}
	switch strings.ToLower(q.Get(ParamOrder)) {
	case "asc":
		f.Desc = false
	case "desc":
		f.Desc = true
	}

	if raw := q.Get(ParamLimit); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil || n <= 0:
			f.Ignored = append(f.Ignored, ParamLimit)
		case n > MaxLimit:
			f.Limit = MaxLimit
		default:
			f.Limit = n
		}
	}
	slices.Sort(f.Ignored)
	return f
}

func splitList(vals []string) []any {
	var out []any
	for _, v := range vals {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// QuickRange bounds for a named range. ok is false for "all", "" and
// unknown names.
func QuickRange(name string, now time.Time) (from, to time.Time, ok bool) {
	today := startOfDay(now)
	to = endOfDay(now)
	switch name {
	case "today":
		from = today
	case "thisWeek":
		from = today.AddDate(0, 0, -int(today.Weekday()))
	case "last7":
		from = today.AddDate(0, 0, -6)
	case "thisMonth":
		from = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	case "last30":
		from = today.AddDate(0, 0, -29)
	case "thisYear":
		from = time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func dateRange(q url.Values, now time.Time, ignored *[]string) (*time.Time, *time.Time) {
	if from, to, ok := QuickRange(q.Get(ParamQuickRange), now); ok {
		return &from, &to
	}
	var from, to *time.Time
	if raw := q.Get(ParamDateFrom); raw != "" {
		if d, err := time.Parse("2006-01-02", raw); err == nil {
			from = &d
		} else {
			*ignored = append(*ignored, ParamDateFrom)
		}
	}
	if raw := q.Get(ParamDateTo); raw != "" {
		if d, err := time.Parse("2006-01-02", raw); err == nil {
			end := endOfDay(d)
			to = &end
		} else {
			*ignored = append(*ignored, ParamDateTo)
		}
	}
	return from, to
}

// startOfDay returns UTC midnight of t's calendar day in t's own zone.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
