package analytics

import (
	"fmt"
	"time"

	"github.com/waste3d/course-marketplace/internal/domain"
)

type Period string

const (
	Last7Days  Period = "7d"
	Last30Days Period = "30d"
	Last90Days Period = "90d"
	AllTime    Period = "all"
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case Last7Days, Last30Days, Last90Days, AllTime:
		return p, nil
	case "":
		return AllTime, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// Days returns the window length; ok is false for AllTime.
func (p Period) Days() (days int, ok bool) {
	switch p {
	case Last7Days:
		return 7, true
	case Last30Days:
		return 30, true
	case Last90Days:
		return 90, true
	}
	return 0, false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dayDiff counts calendar days between then and now in UTC.
func dayDiff(now, then time.Time) int {
	return int(startOfDay(now).Sub(startOfDay(then)).Hours() / 24)
}

// FilterSales keeps sales dated within the period. The boundary day is included,
// so 7d keeps sales from today and the seven calendar days before it.
func FilterSales(sales []domain.Sale, p Period, now time.Time) []domain.Sale {
	days, bounded := p.Days()
	out := make([]domain.Sale, 0, len(sales))
	for _, s := range sales {
		if bounded && dayDiff(now, s.Date) > days {
			continue
		}
		out = append(out, s)
	}
	return out
}

func completed(sales []domain.Sale) []domain.Sale {
	out := make([]domain.Sale, 0, len(sales))
	for _, s := range sales {
		if s.Status == domain.SaleCompleted {
			out = append(out, s)
		}
	}
	return out
}

func byVendor(sales []domain.Sale, vendorID string) []domain.Sale {
	if vendorID == "" {
		return sales
	}
	out := make([]domain.Sale, 0, len(sales))
	for _, s := range sales {
		if s.VendorID == vendorID {
			out = append(out, s)
		}
	}
	return out
}
