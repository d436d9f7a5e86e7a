// Package query filters and sorts delivery entries for the dashboard.
// It is pure: it reads an entry slice and returns a new one.
package query

import (
	"sort"
	"strings"
	"time"

	"tanker-queue/pkg/models"
)

const (
	SortByCreatedAt   = "created_at"
	SortByOrderDate   = "order_date"
	SortByTruckNumber = "truck_number"
	SortByDriverName  = "driver_name"
	SortByCompanyName = "company_name"

	OrderAsc  = "asc"
	OrderDesc = "desc"

	// AllCompanies disables the company equality filter.
	AllCompanies = "all"
)

type Params struct {
	From       *time.Time
	To         *time.Time
	SearchTerm string
	Company    string
	SortBy     string
	SortOrder  string
}

// Apply runs the date-range, free-text and company filters over entries,
// then stably sorts the survivors. now substitutes for missing dates during
// comparison.
func Apply(entries []*models.Entry, p Params, now time.Time) []*models.Entry {
	result := make([]*models.Entry, 0, len(entries))
	for _, e := range entries {
		if !matchesDateRange(e, p.From, p.To) {
			continue
		}
		if !matchesSearchTerm(e, p.SearchTerm) {
			continue
		}
		if !matchesCompany(e, p.Company) {
			continue
		}
		result = append(result, e)
	}

	sortEntries(result, p.SortBy, p.SortOrder, now)
	return result
}

// effectiveDate is the order date when set, otherwise the creation time.
func effectiveDate(e *models.Entry) time.Time {
	if !e.OrderDate.IsZero() {
		return e.OrderDate
	}
	return e.CreatedAt
}

func matchesDateRange(e *models.Entry, from, to *time.Time) bool {
	d := effectiveDate(e)
	if from != nil && d.Before(*from) {
		return false
	}
	if to != nil && d.After(*to) {
		return false
	}
	return true
}

func matchesSearchTerm(e *models.Entry, term string) bool {
	if term == "" {
		return true
	}
	lowered := strings.ToLower(term)
	for _, field := range []string{e.TruckNumber, e.DriverName, e.OrderNumber, e.CompanyName} {
		if strings.Contains(strings.ToLower(field), lowered) {
			return true
		}
	}
	return false
}

func matchesCompany(e *models.Entry, company string) bool {
	if company == "" || company == AllCompanies {
		return true
	}
	return e.CompanyName == company
}

func sortEntries(entries []*models.Entry, sortBy, sortOrder string, now time.Time) {
	if sortBy == "" {
		sortBy = SortByCreatedAt
	}
	desc := sortOrder != OrderAsc

	// Missing dates compare as "now" so undated entries sort to the top.
	dateOr := func(t time.Time) time.Time {
		if t.IsZero() {
			return now
		}
		return t
	}

	less := func(a, b *models.Entry) bool {
		switch sortBy {
		case SortByOrderDate:
			return dateOr(a.OrderDate).Before(dateOr(b.OrderDate))
		case SortByTruckNumber:
			return a.TruckNumber < b.TruckNumber
		case SortByDriverName:
			return a.DriverName < b.DriverName
		case SortByCompanyName:
			return a.CompanyName < b.CompanyName
		default:
			return dateOr(a.CreatedAt).Before(dateOr(b.CreatedAt))
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if desc {
			return less(entries[j], entries[i])
		}
		return less(entries[i], entries[j])
	})
}
