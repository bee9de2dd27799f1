package analytics

import (
	"sort"
	"time"

	"github.com/waste3d/course-marketplace/internal/domain"
)

type Balance struct {
	VendorID       string `json:"vendorId"`
	Gross          int64  `json:"gross"`
	Fees           int64  `json:"fees"`
	Net            int64  `json:"net"`
	PaidOut        int64  `json:"paidOut"`
	PendingPayouts int64  `json:"pendingPayouts"`
	Available      int64  `json:"available"`
}

// VendorBalance is the net of completed sales minus every payout already requested.
func VendorBalance(vendorID string, sales []domain.Sale, payouts []domain.PayoutRequest) Balance {
	b := Balance{VendorID: vendorID}
	for _, s := range completed(byVendor(sales, vendorID)) {
		b.Gross += s.Amount
		b.Fees += s.PlatformFee
		b.Net += s.NetEarnings
	}
	for _, p := range payouts {
		if p.VendorID != vendorID {
			continue
		}
		switch p.Status {
		case domain.PayoutPaid:
			b.PaidOut += p.Amount
		case domain.PayoutPending:
			b.PendingPayouts += p.Amount
		}
	}
	b.Available = b.Net - b.PaidOut - b.PendingPayouts
	return b
}

type DayRevenue struct {
	Date    string `json:"date"`
	Revenue int64  `json:"revenue"`
	Sales   int64  `json:"sales"`
}

// DailyRevenue returns one point per calendar day, oldest first. Bounded
// periods always cover the whole window, empty days included.
func DailyRevenue(sales []domain.Sale, p Period, now time.Time) []DayRevenue {
	sales = completed(FilterSales(sales, p, now))
	totals := make(map[string]*DayRevenue)
	var first time.Time
	for _, s := range sales {
		day := startOfDay(s.Date)
		key := day.Format(time.DateOnly)
		d, ok := totals[key]
		if !ok {
			d = &DayRevenue{Date: key}
			totals[key] = d
		}
		d.Revenue += s.Amount
		d.Sales++
		if first.IsZero() || day.Before(first) {
			first = day
		}
	}

	last := startOfDay(now)
	if days, ok := p.Days(); ok {
		first = last.AddDate(0, 0, -days)
	}
	if first.IsZero() {
		return nil
	}
	for _, s := range sales {
		if day := startOfDay(s.Date); day.After(last) {
			last = day
		}
	}

	var out []DayRevenue
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		key := day.Format(time.DateOnly)
		if d, ok := totals[key]; ok {
			out = append(out, *d)
			continue
		}
		out = append(out, DayRevenue{Date: key})
	}
	return out
}

type CourseRevenue struct {
	CourseID string `json:"courseId"`
	Title    string `json:"title"`
	Sales    int64  `json:"sales"`
	Revenue  int64  `json:"revenue"`
}

// TopCourses ranks courses by completed revenue. n <= 0 returns all of them.
func TopCourses(sales []domain.Sale, n int) []CourseRevenue {
	index := make(map[string]int)
	var out []CourseRevenue
	for _, s := range completed(sales) {
		i, ok := index[s.CourseID]
		if !ok {
			i = len(out)
			index[s.CourseID] = i
			out = append(out, CourseRevenue{CourseID: s.CourseID, Title: s.CourseTitle})
		}
		out[i].Sales++
		out[i].Revenue += s.Amount
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].CourseID < out[j].CourseID
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
