package repository

import (
	"time"

	"github.com/waste3d/course-marketplace/internal/domain"
)

// DefaultVendorID is the vendor whose commission rate applies to unknown instructors.
const DefaultVendorID = "vendor-default"

var seedEpoch = time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func seedVendors() []domain.Vendor {
	return []domain.Vendor{
		{ID: DefaultVendorID, Name: "Marketplace", Email: "payouts@marketplace.local", CommissionRate: 20, CreatedAt: seedEpoch},
		{ID: "instructor-ada", Name: "Ada Okafor", Email: "ada@marketplace.local", CommissionRate: 15, CreatedAt: seedEpoch},
		{ID: "instructor-tunde", Name: "Tunde Bello", Email: "tunde@marketplace.local", CommissionRate: 25, CreatedAt: seedEpoch},
	}
}

func seedCourses() []domain.Course {
	return []domain.Course{
		{
			ID:           "course-go-basics",
			Title:        "Go for Backend Developers",
			Description:  "Types, interfaces, goroutines and the standard library.",
			Price:        25000,
			PromoPrice:   int64Ptr(20000),
			Currency:     "NGN",
			InstructorID: "instructor-ada",
			Status:       domain.CoursePublished,
			HostingMode:  domain.HostingInternal,
			Modules: []domain.Module{
				{ID: "m1", Title: "Getting started", Lessons: []domain.Lesson{
					{ID: "l1", Title: "Installing Go", Duration: "08:12"},
					{ID: "l2", Title: "Modules and packages", Duration: "12:40"},
				}},
				{ID: "m2", Title: "Concurrency", Lessons: []domain.Lesson{
					{ID: "l3", Title: "Goroutines", Duration: "15:03"},
					{ID: "l4", Title: "Channels and select", Duration: "18:27"},
				}},
			},
			Reviews: []domain.Review{
				{UserID: "student-1", Rating: 5, Comment: "Clear and practical.", Date: seedEpoch.AddDate(0, 1, 0)},
			},
			CreatedAt: seedEpoch,
		},
		{
			ID:           "course-sql",
			Title:        "Practical SQL",
			Description:  "Queries, indexes and transactions on PostgreSQL.",
			Price:        15000,
			Currency:     "NGN",
			InstructorID: "instructor-tunde",
			Status:       domain.CoursePublished,
			HostingMode:  domain.HostingInternal,
			Modules: []domain.Module{
				{ID: "m1", Title: "Basics", Lessons: []domain.Lesson{
					{ID: "l1", Title: "SELECT and WHERE", Duration: "10:00"},
					{ID: "l2", Title: "Joins", Duration: "14:30"},
					{ID: "l3", Title: "Indexes", Duration: "11:45"},
				}},
			},
			CreatedAt: seedEpoch,
		},
		{
			ID:           "course-design",
			Title:        "UI Design Fundamentals",
			Price:        9000,
			Currency:     "NGN",
			InstructorID: "instructor-unknown",
			Status:       domain.CoursePublished,
			HostingMode:  domain.HostingExternal,
			ExternalURL:  "https://learn.example.com/ui-design",
			CreatedAt:    seedEpoch,
		},
	}
}

func seedCoupons() []domain.Coupon {
	return []domain.Coupon{
		{
			ID: "coupon-welcome10", Code: "WELCOME10", DiscountType: domain.DiscountPercentage, DiscountValue: 10,
			OncePerCustomer: true, IsActive: true, RedeemedBy: []string{}, CreatedAt: seedEpoch,
		},
		{
			ID: "coupon-save10", Code: "SAVE10", DiscountType: domain.DiscountPercentage, DiscountValue: 10,
			MinPurchaseAmount: int64Ptr(5000), IsActive: true, RedeemedBy: []string{}, CreatedAt: seedEpoch,
		},
		{
			ID: "coupon-flat2000", Code: "FLAT2000", VendorID: "instructor-ada", DiscountType: domain.DiscountFixed, DiscountValue: 2000,
			MaxUsage: intPtr(100), IsActive: true, RedeemedBy: []string{}, CreatedAt: seedEpoch,
		},
	}
}

func seedCampaigns() []domain.Campaign {
	c := domain.Campaign{
		ID: "campaign-launch", Name: "Launch Week", Source: "newsletter", Medium: "email",
		BaseURL: "https://marketplace.local/courses/course-go-basics", VendorID: "instructor-ada",
		Budget: 50000, TargetSales: 20, IsActive: true, CreatedAt: seedEpoch,
	}
	c.TrackingLink, _ = domain.BuildTrackingLink(c.BaseURL, c.Params())
	return []domain.Campaign{c}
}

func seedPlacements() []domain.Placement {
	return []domain.Placement{
		{ID: "placement-exit", Kind: domain.PlacementPopup, Name: "Exit Offer", Trigger: domain.TriggerExitIntent,
			TargetURL: "https://marketplace.local/checkout?course=course-sql", AutoUTM: true, IsActive: true},
		{ID: "placement-top", Kind: domain.PlacementBanner, Name: "Top Banner", Trigger: domain.TriggerImmediate,
			TargetURL: "https://marketplace.local/courses", IsActive: true},
	}
}

// seedState builds the fallback dataset used when a collection cannot be restored.
func seedState() *state {
	s := &state{}
	for _, v := range seedVendors() {
		s.vendors.put(v)
	}
	for _, c := range seedCourses() {
		s.courses.put(c)
	}
	for _, c := range seedCoupons() {
		s.coupons.put(c)
	}
	for _, c := range seedCampaigns() {
		s.campaigns.put(c)
	}
	for _, p := range seedPlacements() {
		s.placements.put(p)
	}
	return s
}
