package jobs

import (
	"context"

	"draytrack-backend/internal/domain"
	"draytrack-backend/internal/logger"
	"draytrack-backend/internal/perdiem"
	"draytrack-backend/internal/repository"
)

// AccrualSnapshot walks every open move and logs the per-diem accruing
// against it so dispatch can spot equipment burning past free time before
// the bill lands. Reporting only; nothing downstream consumes the numbers.
func (jr *JobRunner) AccrualSnapshot() {
	jr.runWithRecovery("AccrualSnapshot", func() {
		ctx := context.Background()

		moves, err := jr.moveRepo.List(ctx, repository.MoveFilter{Status: domain.MoveStatusActive})
		if err != nil {
			logger.Error("Failed to list active moves", "error", err)
			return
		}

		var totalAccruingCents int64
		overFreeTime := 0
		for _, mv := range moves {
			container := perdiem.Calculate(mv.ContainerID, mv.ContainerLine, mv.StartedAt, nil, jr.rates.Containers())
			chassis := perdiem.Calculate(mv.ChassisID, mv.ChassisProvider, mv.StartedAt, nil, jr.rates.Chassis())

			accruing := container.TotalChargeCents + chassis.TotalChargeCents
			totalAccruingCents += accruing
			if accruing > 0 {
				overFreeTime++
				logger.Warn("Open move accruing charges",
					"move_id", mv.ID,
					"job_id", mv.JobID,
					"container_id", mv.ContainerID,
					"container_accruing_cents", container.TotalChargeCents,
					"chassis_id", mv.ChassisID,
					"chassis_accruing_cents", chassis.TotalChargeCents,
					"elapsed_days", container.ElapsedDays)
			}
		}

		logger.Info("Accrual snapshot complete",
			"open_moves", len(moves),
			"moves_over_free_time", overFreeTime,
			"total_accruing_cents", totalAccruingCents)
	})
}
