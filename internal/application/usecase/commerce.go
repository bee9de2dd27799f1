package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/waste3d/course-marketplace/internal/domain"
	"github.com/waste3d/course-marketplace/internal/infrastructure/logger"
	"github.com/waste3d/course-marketplace/internal/infrastructure/metrics"
	"github.com/waste3d/course-marketplace/internal/infrastructure/repository"
)

// Notifier receives the events of a command once it has committed.
type Notifier interface {
	Dispatch(ctx context.Context, events []domain.Event)
}

type Settings struct {
	DefaultVendorID string
	Currency        string
	MinPayoutAmount int64
}

type CommerceUseCase struct {
	ledger   *repository.Ledger
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
	settings Settings
}

func NewCommerceUseCase(ledger *repository.Ledger, notifier Notifier, log *zap.Logger, now func() time.Time, settings Settings) *CommerceUseCase {
	if now == nil {
		now = time.Now
	}
	if settings.DefaultVendorID == "" {
		settings.DefaultVendorID = repository.DefaultVendorID
	}
	if settings.Currency == "" {
		settings.Currency = "NGN"
	}
	return &CommerceUseCase{
		ledger:   ledger,
		notifier: notifier,
		log:      logger.OrNop(log),
		now:      now,
		settings: settings,
	}
}

// events collects what a command raised while its transaction is open.
type events []domain.Event

func (ev *events) raise(kind domain.EventKind, recipient, title, body string, at time.Time) {
	*ev = append(*ev, domain.Event{Kind: kind, RecipientID: recipient, Title: title, Body: body, OccurredAt: at})
}

// execute runs fn in one ledger transaction and dispatches its events only
// after the transaction committed.
func (uc *CommerceUseCase) execute(ctx context.Context, fn func(tx *repository.Tx, ev *events) error) error {
	var raised events
	err := uc.ledger.Update(ctx, func(tx *repository.Tx) error {
		raised = raised[:0]
		return fn(tx, &raised)
	})
	if err != nil {
		return err
	}
	if uc.notifier != nil && len(raised) > 0 {
		uc.notifier.Dispatch(ctx, raised)
	}
	return nil
}

func (uc *CommerceUseCase) clock() time.Time { return uc.now().UTC() }

func (uc *CommerceUseCase) Course(id string) (domain.Course, error) {
	c, ok := repository.Courses.Lookup(uc.ledger, id)
	if !ok {
		return domain.Course{}, domain.NotFound("course", id)
	}
	return c, nil
}

func (uc *CommerceUseCase) Enrollment(userID, courseID string) (domain.Enrollment, bool) {
	e, ok := repository.Enrollments.Lookup(uc.ledger, domain.EnrollmentKey(userID, courseID))
	if !ok || !e.Belongs(userID, courseID) {
		return domain.Enrollment{}, false
	}
	return e, true
}

func findEnrollment(tx *repository.Tx, userID, courseID string) (domain.Enrollment, bool) {
	e, ok := repository.Enrollments.Get(tx, domain.EnrollmentKey(userID, courseID))
	if !ok || !e.Belongs(userID, courseID) {
		return domain.Enrollment{}, false
	}
	return e, true
}

// Enroll grants userID access to courseID. Calling it again only refreshes LastAccessed.
func (uc *CommerceUseCase) Enroll(ctx context.Context, userID, courseID string) (domain.Enrollment, error) {
	var out domain.Enrollment
	err := uc.execute(ctx, func(tx *repository.Tx, _ *events) error {
		if _, ok := repository.Courses.Get(tx, courseID); !ok {
			return domain.NotFound("course", courseID)
		}
		var err error
		out, err = uc.enroll(tx, userID, courseID)
		return err
	})
	return out, err
}

func (uc *CommerceUseCase) enroll(tx *repository.Tx, userID, courseID string) (domain.Enrollment, error) {
	if userID == "" {
		return domain.Enrollment{}, domain.Invariant("enrollment needs a user id")
	}
	now := uc.clock()
	e, ok := findEnrollment(tx, userID, courseID)
	if !ok {
		e = domain.Enrollment{
			UserID:             userID,
			CourseID:           courseID,
			CompletedLessonIDs: []string{},
			EnrolledAt:         now,
		}
	}
	e.LastAccessed = now
	repository.Enrollments.Put(tx, e)
	return e, nil
}

type PurchaseInput struct {
	UserID        string
	StudentName   string
	StudentEmail  string
	CourseID      string
	PaymentMethod string
	CouponCode    string
	CampaignID    string
}

// CompletePurchase records a completed sale, enrolls the buyer and splits the
// amount between the platform and the course's vendor.
func (uc *CommerceUseCase) CompletePurchase(ctx context.Context, in PurchaseInput) (domain.Sale, error) {
	var sale domain.Sale
	err := uc.execute(ctx, func(tx *repository.Tx, ev *events) error {
		course, ok := repository.Courses.Get(tx, in.CourseID)
		if !ok {
			return domain.NotFound("course", in.CourseID)
		}
		if err := course.Validate(); err != nil {
			return err
		}
		if _, err := uc.enroll(tx, in.UserID, course.ID); err != nil {
			return err
		}

		now := uc.clock()
		amount := course.EffectivePrice()
		var discount int64
		var couponCode string
		if in.CouponCode != "" {
			res, err := uc.redeemCoupon(tx, in.CouponCode, amount, in.UserID, now)
			if err != nil {
				return err
			}
			amount, discount, couponCode = res.FinalAmount, res.Discount, res.Code
		}

		vendor, err := uc.vendorFor(tx, course.InstructorID)
		if err != nil {
			return err
		}
		fee, net, err := domain.CommissionSplit(amount, vendor.CommissionRate)
		if err != nil {
			return err
		}

		currency := course.Currency
		if currency == "" {
			currency = uc.settings.Currency
		}
		sale = domain.Sale{
			ID:             uuid.NewString(),
			CourseID:       course.ID,
			CourseTitle:    course.Title,
			VendorID:       course.InstructorID,
			StudentID:      in.UserID,
			StudentName:    in.StudentName,
			StudentEmail:   in.StudentEmail,
			Amount:         amount,
			PlatformFee:    fee,
			NetEarnings:    net,
			Currency:       currency,
			Date:           now,
			Status:         domain.SaleCompleted,
			PaymentMethod:  in.PaymentMethod,
			CouponCode:     couponCode,
			DiscountAmount: discount,
		}

		if in.CampaignID != "" {
			if c, ok := repository.Campaigns.Get(tx, in.CampaignID); ok {
				c.Sales++
				c.Revenue += amount
				repository.Campaigns.Put(tx, c)
				sale.CampaignID = c.ID
			}
		}

		if err := sale.Validate(); err != nil {
			return err
		}
		repository.Sales.Put(tx, sale)
		ev.raise(domain.EventSaleCompleted, sale.VendorID, "New sale",
			fmt.Sprintf("%s bought %s for %d %s", displayName(in), course.Title, amount, currency), now)
		return nil
	})
	if err != nil {
		if reason, ok := domain.RejectionReason(err); ok {
			metrics.CouponRedemptionsTotal.WithLabelValues(string(reason)).Inc()
		}
		return domain.Sale{}, err
	}

	if sale.CouponCode != "" {
		metrics.CouponRedemptionsTotal.WithLabelValues("applied").Inc()
	}
	metrics.SalesCompletedTotal.WithLabelValues(sale.Currency).Inc()
	metrics.SalesRevenueTotal.WithLabelValues(sale.Currency).Add(float64(sale.Amount))
	uc.log.Info("purchase completed",
		zap.String("sale_id", sale.ID),
		zap.String("course_id", sale.CourseID),
		zap.Int64("amount", sale.Amount),
		zap.Int64("platform_fee", sale.PlatformFee))
	return sale, nil
}

func displayName(in PurchaseInput) string {
	if in.StudentName != "" {
		return in.StudentName
	}
	return in.UserID
}

// vendorFor returns the instructor's vendor record, or the default vendor when
// the instructor has none.
func (uc *CommerceUseCase) vendorFor(tx *repository.Tx, instructorID string) (domain.Vendor, error) {
	if v, ok := repository.Vendors.Get(tx, instructorID); ok {
		return v, nil
	}
	v, ok := repository.Vendors.Get(tx, uc.settings.DefaultVendorID)
	if !ok {
		return domain.Vendor{}, domain.NotFound("vendor", uc.settings.DefaultVendorID)
	}
	return v, nil
}

// MarkLessonComplete records lessonID for an existing enrollment. Without an
// enrollment it does nothing.
func (uc *CommerceUseCase) MarkLessonComplete(ctx context.Context, userID, courseID, lessonID string) error {
	return uc.execute(ctx, func(tx *repository.Tx, ev *events) error {
		e, ok := findEnrollment(tx, userID, courseID)
		if !ok {
			return nil
		}
		course, hasCourse := repository.Courses.Get(tx, courseID)
		var before float64
		if hasCourse {
			before = e.Progress(course)
		}

		now := uc.clock()
		e.MarkCompleted(lessonID)
		e.LastAccessed = now
		repository.Enrollments.Put(tx, e)

		if hasCourse && before < 100 && e.Progress(course) >= 100 {
			ev.raise(domain.EventCourseCompleted, userID, "Course completed",
				fmt.Sprintf("You finished %s", course.Title), now)
		}
		return nil
	})
}

// RefundSale moves a completed sale to refunded. The enrollment is kept.
func (uc *CommerceUseCase) RefundSale(ctx context.Context, saleID string) (domain.Sale, error) {
	var sale domain.Sale
	err := uc.execute(ctx, func(tx *repository.Tx, ev *events) error {
		var ok bool
		sale, ok = repository.Sales.Get(tx, saleID)
		if !ok {
			return domain.NotFound("sale", saleID)
		}
		if sale.Status != domain.SaleCompleted {
			return domain.Invariant("sale %s is %s, only completed sales can be refunded", sale.ID, sale.Status)
		}
		now := uc.clock()
		sale.Status = domain.SaleRefunded
		sale.RefundedAt = &now
		repository.Sales.Put(tx, sale)
		ev.raise(domain.EventSaleRefunded, sale.VendorID, "Sale refunded",
			fmt.Sprintf("%s was refunded (%d %s)", sale.CourseTitle, sale.Amount, sale.Currency), now)
		return nil
	})
	if err != nil {
		return domain.Sale{}, err
	}
	return sale, nil
}

func (uc *CommerceUseCase) Sales(vendorID string) []domain.Sale {
	all := repository.Sales.All(uc.ledger)
	if vendorID == "" {
		return all
	}
	out := make([]domain.Sale, 0, len(all))
	for _, s := range all {
		if s.VendorID == vendorID {
			out = append(out, s)
		}
	}
	return out
}
