package service

import (
	"context"

	"draytrack-backend/internal/domain"
	"draytrack-backend/internal/repository"
)

type billingService struct {
	moveRepo  repository.MoveRepository
	markupBps int32
}

func NewBillingService(moveRepo repository.MoveRepository, markupBps int32) BillingService {
	return &billingService{moveRepo: moveRepo, markupBps: markupBps}
}

// GetJobCostBreakdown sums every move attached to the job. The move count
// covers all statuses, but only closed moves contribute cost: port fees ride
// on an active move from creation and must not be billed (or marked up)
// before the move completes, and a cancellation would zero them anyway.
// A job with no moves is a valid "no drayage activity yet" state, not an
// error.
func (s *billingService) GetJobCostBreakdown(ctx context.Context, jobID string) (*domain.JobCostBreakdown, error) {
	moves, err := s.moveRepo.List(ctx, repository.MoveFilter{JobID: jobID})
	if err != nil {
		return nil, err
	}

	bd := &domain.JobCostBreakdown{
		JobID:     jobID,
		MarkupBps: s.markupBps,
		MoveCount: len(moves),
	}

	for _, mv := range moves {
		if mv.Status == domain.MoveStatusActive {
			continue
		}
		bd.ContainerPerDiemCents += mv.Costs.ContainerPerDiemCents
		bd.ChassisRentalCents += mv.Costs.ChassisRentalCents
		bd.PortFeesCents += mv.Costs.PortFeesCents
		bd.FuelSurchargeCents += mv.Costs.FuelSurchargeCents
	}
	bd.GrandTotalCents = bd.ContainerPerDiemCents + bd.ChassisRentalCents +
		bd.PortFeesCents + bd.FuelSurchargeCents

	// Integer basis-point math keeps the markup exact for audit.
	bd.BillableCents = bd.GrandTotalCents * int64(10000+s.markupBps) / 10000
	bd.ProfitCents = bd.BillableCents - bd.GrandTotalCents

	return bd, nil
}
