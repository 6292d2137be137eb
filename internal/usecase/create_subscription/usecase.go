package create_subscription

import (
	"context"
	"errors"
	"fmt"

	"github.com/amar4h/rituyog-booking/internal/domain"
	assignmentRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/assignment"
	memberRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/member"
	planRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/plan"
	slotRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/slot"
	"github.com/amar4h/rituyog-booking/internal/integrations/invoicing"
	"github.com/amar4h/rituyog-booking/pkg/dates"
	"github.com/amar4h/rituyog-booking/pkg/ptr"
)

// UseCase creates a subscription together with its invoice, the member's
// slot assignment and status update, all inside one serializable
// transaction.
type UseCase struct {
	memberRepo       MemberRepository
	planRepo         PlanRepository
	slotRepo         SlotRepository
	subscriptionRepo SubscriptionRepository
	assignmentRepo   AssignmentRepository
	invoiceRepo      InvoiceRepository
	capacity         CapacityChecker
	numberProvider   InvoiceNumberProvider
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase creates the use case.
func NewUseCase(
	memberRepo MemberRepository,
	planRepo PlanRepository,
	slotRepo SlotRepository,
	subscriptionRepo SubscriptionRepository,
	assignmentRepo AssignmentRepository,
	invoiceRepo InvoiceRepository,
	capacity CapacityChecker,
	numberProvider InvoiceNumberProvider,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		memberRepo:       memberRepo,
		planRepo:         planRepo,
		slotRepo:         slotRepo,
		subscriptionRepo: subscriptionRepo,
		assignmentRepo:   assignmentRepo,
		invoiceRepo:      invoiceRepo,
		capacity:         capacity,
		numberProvider:   numberProvider,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute creates the subscription. The capacity check and all writes run
// in one serializable transaction keyed on the locked slot row, so two
// concurrent bookings of the last seat cannot both pass the check.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateSubscription: member=%d, plan=%d, slot=%d, start=%s",
		req.MemberID, req.PlanID, req.SlotID, req.StartDate)

	// 1. Validate input.
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateSubscription: validation failed: %v", err)
		return nil, err
	}

	// 2. Load the member.
	member, err := uc.memberRepo.GetByID(ctx, req.MemberID)
	if err != nil {
		if errors.Is(err, memberRepo.ErrMemberNotFound) {
			uc.logger.Warn("CreateSubscription: member id=%d not found", req.MemberID)
			return nil, ErrMemberNotFound
		}
		uc.logger.Error("CreateSubscription: failed to get member id=%d: %v", req.MemberID, err)
		return nil, fmt.Errorf("%w: failed to get member: %v", ErrInternal, err)
	}

	// 3. Load the plan and derive amounts.
	plan, err := uc.planRepo.GetByID(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, planRepo.ErrPlanNotFound) {
			uc.logger.Warn("CreateSubscription: plan id=%d not found", req.PlanID)
			return nil, ErrPlanNotFound
		}
		uc.logger.Error("CreateSubscription: failed to get plan id=%d: %v", req.PlanID, err)
		return nil, fmt.Errorf("%w: failed to get plan: %v", ErrInternal, err)
	}

	if !plan.IsActive {
		uc.logger.Warn("CreateSubscription: plan id=%d is not active", req.PlanID)
		return nil, ErrPlanInactive
	}

	payable := plan.Price - req.DiscountAmount
	if payable < 0 {
		payable = 0
	}

	// 4. Reserve an invoice number before opening the transaction. The
	// numbering call goes over the network and must not hold the slot lock.
	invoiceNumber, err := uc.numberProvider.NextNumberWithGracefulDegradation(ctx, req.MemberID)
	degradedNumber := false
	if err != nil {
		if !errors.Is(err, invoicing.ErrServiceDegraded) {
			uc.logger.Error("CreateSubscription: failed to get invoice number: %v", err)
			return nil, fmt.Errorf("%w: failed to get invoice number: %v", ErrInternal, err)
		}
		degradedNumber = true
	}

	now := uc.timeProvider.Now()
	today := dates.FromTime(now)

	var (
		result      *domain.MembershipSubscription
		invoice     *domain.Invoice
		isException bool
		isRenewal   bool
	)

	// 5. Book the seat.
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Lock the slot row.
		slot, err := uc.slotRepo.GetByID(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("CreateSubscription: slot id=%d not found", req.SlotID)
				return ErrSlotNotFound
			}
			uc.logger.Error("CreateSubscription: failed to get slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		if !slot.IsActive {
			uc.logger.Warn("CreateSubscription: slot id=%d is not active", req.SlotID)
			return ErrSlotInactive
		}

		// 5.2. Derive the inclusive end date from the plan duration.
		endDate := dates.AddMonthsInclusive(req.StartDate, plan.DurationMonths)

		// 5.3. The member must not already hold a seat-occupying
		// subscription overlapping the new range, in any slot.
		existing, err := uc.subscriptionRepo.GetByMember(txCtx, req.MemberID, domain.CountedSubscriptionStatuses)
		if err != nil {
			uc.logger.Error("CreateSubscription: failed to get subscriptions for member id=%d: %v", req.MemberID, err)
			return fmt.Errorf("%w: failed to get member subscriptions: %v", ErrInternal, err)
		}

		if conflict := findOverlap(existing, req.StartDate, endDate); conflict != nil {
			uc.logger.Warn("CreateSubscription: member id=%d already has %q covering %s..%s",
				req.MemberID, conflict.PlanName, conflict.StartDate, conflict.EndDate)
			return fmt.Errorf("%w: %s from %s to %s", ErrOverlapConflict,
				conflict.PlanName, conflict.StartDate, conflict.EndDate)
		}

		// 5.4. Capacity over the full range. A renewing member keeps their
		// own seat, so their expiring subscription is excluded from the
		// count.
		isRenewal = member.AssignedSlotID != nil && *member.AssignedSlotID == req.SlotID

		var exclude *int64
		if isRenewal {
			exclude = ptr.Ptr(req.MemberID)
		}

		capResult, err := uc.capacity.CheckWindow(txCtx, slot, req.StartDate, endDate, exclude)
		if err != nil {
			uc.logger.Error("CreateSubscription: capacity check failed for slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: capacity check failed: %v", ErrInternal, err)
		}

		if !capResult.Available {
			uc.logger.Warn("CreateSubscription: slot id=%d full, %d/%d seats taken",
				req.SlotID, capResult.CurrentBookings, capResult.TotalCapacity)
			return fmt.Errorf("%w: %s", ErrSlotFull, capResult.Message)
		}

		isException = capResult.IsExceptionOnly
		if isException {
			uc.logger.Warn("CreateSubscription: slot id=%d seating member id=%d from the exception pool, %d/%d",
				req.SlotID, req.MemberID, capResult.CurrentBookings, capResult.TotalCapacity)
		}

		// 5.5. Create the subscription. Future-dated ranges start as
		// scheduled and flip to active on their start date.
		status := domain.SubscriptionActive
		if req.StartDate.After(today) {
			status = domain.SubscriptionScheduled
		}

		sub := &domain.MembershipSubscription{
			MemberID:       req.MemberID,
			PlanID:         req.PlanID,
			SlotID:         req.SlotID,
			StartDate:      req.StartDate,
			EndDate:        endDate,
			Status:         status,
			PaymentStatus:  domain.PaymentPending,
			OriginalAmount: plan.Price,
			DiscountAmount: req.DiscountAmount,
			PayableAmount:  payable,
			DiscountReason: req.DiscountReason,
			PlanName:       plan.Name,
			SlotName:       slot.DisplayName,
			Notes:          req.Notes,
		}

		created, err := uc.subscriptionRepo.Create(txCtx, sub)
		if err != nil {
			uc.logger.Error("CreateSubscription: failed to create subscription: %v", err)
			return fmt.Errorf("%w: failed to create subscription: %v", ErrInternal, err)
		}

		// 5.6. Create the invoice and link it back.
		inv, err := uc.invoiceRepo.Create(txCtx, &domain.Invoice{
			Number:         invoiceNumber,
			MemberID:       req.MemberID,
			SubscriptionID: created.ID,
			Description:    fmt.Sprintf("%s @ %s", plan.Name, slot.DisplayName),
			Amount:         plan.Price,
			Discount:       req.DiscountAmount,
			Total:          payable,
			Status:         domain.InvoiceSent,
			DueDate:        req.StartDate,
		})
		if err != nil {
			uc.logger.Error("CreateSubscription: failed to create invoice: %v", err)
			return fmt.Errorf("%w: failed to create invoice: %v", ErrInternal, err)
		}

		if err := uc.subscriptionRepo.SetInvoiceID(txCtx, created.ID, inv.ID); err != nil {
			uc.logger.Error("CreateSubscription: failed to link invoice id=%d: %v", inv.ID, err)
			return fmt.Errorf("%w: failed to link invoice: %v", ErrInternal, err)
		}
		created.InvoiceID = ptr.Ptr(inv.ID)

		// 5.7. Point the member at the slot.
		if err := uc.memberRepo.UpdateStatusAndSlot(txCtx, req.MemberID, domain.MemberActive, req.SlotID); err != nil {
			uc.logger.Error("CreateSubscription: failed to update member id=%d: %v", req.MemberID, err)
			return fmt.Errorf("%w: failed to update member: %v", ErrInternal, err)
		}

		// 5.8. Roll the slot assignment over. Same-slot renewals keep the
		// existing active row.
		if err := uc.rollAssignment(txCtx, req, isException); err != nil {
			return err
		}

		result = created
		invoice = inv
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateSubscription: created subscription id=%d, invoice=%s, member=%d, slot=%d",
		result.ID, invoice.Number, req.MemberID, req.SlotID)

	// A renewing member keeps their own seat, so the overflow warning is
	// only meaningful for new occupants.
	warning := ""
	if isException && !isRenewal {
		warning = "seated from the exception pool: the slot is at normal capacity"
	}
	if degradedNumber {
		if warning != "" {
			warning += "; "
		}
		warning += "invoice numbering service unavailable, a local invoice number was issued"
	}

	return &Response{
		ID:             result.ID,
		MemberID:       result.MemberID,
		PlanID:         result.PlanID,
		SlotID:         result.SlotID,
		StartDate:      result.StartDate,
		EndDate:        result.EndDate,
		Status:         string(result.Status),
		PaymentStatus:  string(result.PaymentStatus),
		OriginalAmount: result.OriginalAmount,
		DiscountAmount: result.DiscountAmount,
		PayableAmount:  result.PayableAmount,
		PlanName:       result.PlanName,
		SlotName:       result.SlotName,
		InvoiceID:      invoice.ID,
		InvoiceNumber:  invoice.Number,
		IsException:    isException,
		Warning:        warning,
		CreatedAt:      result.CreatedAt,
		UpdatedAt:      result.UpdatedAt,
	}, nil
}

// rollAssignment ensures exactly one active assignment pointing at the
// booked slot. An assignment on another slot is closed the day before the
// new range starts.
func (uc *UseCase) rollAssignment(ctx context.Context, req *Request, isException bool) error {
	current, err := uc.assignmentRepo.GetActiveByMember(ctx, req.MemberID)
	if err != nil && !errors.Is(err, assignmentRepo.ErrAssignmentNotFound) {
		uc.logger.Error("CreateSubscription: failed to get assignment for member id=%d: %v", req.MemberID, err)
		return fmt.Errorf("%w: failed to get assignment: %v", ErrInternal, err)
	}

	if current != nil {
		if current.SlotID == req.SlotID {
			return nil
		}
		if err := uc.assignmentRepo.Deactivate(ctx, current.ID, req.StartDate.AddDays(-1)); err != nil {
			uc.logger.Error("CreateSubscription: failed to deactivate assignment id=%d: %v", current.ID, err)
			return fmt.Errorf("%w: failed to deactivate assignment: %v", ErrInternal, err)
		}
	}

	if _, err := uc.assignmentRepo.Create(ctx, &domain.SlotAssignment{
		MemberID:    req.MemberID,
		SlotID:      req.SlotID,
		StartDate:   req.StartDate,
		IsException: isException,
	}); err != nil {
		uc.logger.Error("CreateSubscription: failed to create assignment for member id=%d: %v", req.MemberID, err)
		return fmt.Errorf("%w: failed to create assignment: %v", ErrInternal, err)
	}

	return nil
}
