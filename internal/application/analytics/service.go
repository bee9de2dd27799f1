package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/waste3d/course-marketplace/internal/domain"
	"github.com/waste3d/course-marketplace/internal/infrastructure/repository"
)

// Service answers dashboard queries from a consistent view of the ledger.
type Service struct {
	ledger  *repository.Ledger
	traffic TrafficSource
	now     func() time.Time
}

// NewService builds the analytics service. traffic may be nil, in which case
// visit and conversion figures are left empty.
func NewService(ledger *repository.Ledger, traffic TrafficSource, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{ledger: ledger, traffic: traffic, now: now}
}

func (s *Service) sales(vendorID string) []domain.Sale {
	return byVendor(repository.Sales.All(s.ledger), vendorID)
}

// Stats summarizes a vendor's sales in the period. An empty vendorID covers the whole marketplace.
func (s *Service) Stats(ctx context.Context, vendorID string, p Period) (Stats, error) {
	now := s.now()
	st := ComputeStats(FilterSales(s.sales(vendorID), p, now))
	if s.traffic == nil {
		return st, nil
	}
	visits, err := s.traffic.Visits(ctx, vendorID, p, now)
	if err != nil {
		return st, fmt.Errorf("load visits: %w", err)
	}
	return st.WithVisits(visits), nil
}

func (s *Service) Customers(vendorID string) []Customer {
	return RebuildCustomers(s.sales(vendorID))
}

func (s *Service) Coupons() []CouponStats {
	var out []CouponStats
	s.ledger.View(func(tx *repository.Tx) {
		out = CouponPerformance(repository.Coupons.List(tx), repository.Sales.List(tx))
	})
	return out
}

func (s *Service) Campaigns() []CampaignStats {
	var out []CampaignStats
	s.ledger.View(func(tx *repository.Tx) {
		out = CampaignPerformance(repository.Campaigns.List(tx), repository.Sales.List(tx))
	})
	return out
}

func (s *Service) Balance(vendorID string) Balance {
	var b Balance
	s.ledger.View(func(tx *repository.Tx) {
		b = VendorBalance(vendorID, repository.Sales.List(tx), repository.Payouts.List(tx))
	})
	return b
}

func (s *Service) DailyRevenue(vendorID string, p Period) []DayRevenue {
	return DailyRevenue(s.sales(vendorID), p, s.now())
}

func (s *Service) TopCourses(vendorID string, p Period, n int) []CourseRevenue {
	return TopCourses(FilterSales(s.sales(vendorID), p, s.now()), n)
}

func (s *Service) StudentDashboard(userID string) []CourseProgress {
	var out []CourseProgress
	s.ledger.View(func(tx *repository.Tx) {
		out = StudentDashboard(userID, repository.Enrollments.List(tx), repository.Courses.List(tx))
	})
	return out
}
