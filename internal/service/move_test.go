package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"draytrack-backend/internal/domain"
	"draytrack-backend/internal/rates"
	"draytrack-backend/internal/repository"
	"draytrack-backend/internal/repository/memory"
)

func testRates(t *testing.T) *rates.Table {
	tbl, err := rates.New(
		map[string]rates.Entry{
			rates.DefaultCode: {FreeDays: 4, DailyRateCents: 7500},
			"MAEU":            {FreeDays: 5, DailyRateCents: 8500},
		},
		map[string]rates.Entry{
			rates.DefaultCode: {FreeDays: 3, DailyRateCents: 3000},
			"DCLI":            {FreeDays: 4, DailyRateCents: 3500, FuelSurchargeCents: 1500},
		},
	)
	assert.NoError(t, err)
	return tbl
}

func createRequest() CreateMoveRequest {
	return CreateMoveRequest{
		JobID:           "job-1",
		ContainerID:     "MAEU7654321",
		ChassisID:       "DCLI-4402",
		ChassisProvider: "DCLI",
		MoveType:        domain.MoveTypePickup,
		PickupLocation:  domain.Location{FacilityType: "PORT", Name: "APM Terminal", Address: "2500 Navy Way, Los Angeles"},
		DeliveryLocation: domain.Location{
			FacilityType: "WAREHOUSE", Name: "Inland DC 7", Address: "114 Commerce Dr, Ontario",
		},
		Driver:        domain.DriverRef{Name: "R. Alvarez", LicenseID: "CA-883102", VehicleID: "TRK-51"},
		PortFeesCents: 2500,
	}
}

func TestMoveService_CreateMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Success with tracked container", func(t *testing.T) {
		moveRepo := memory.NewMoveStore()
		equipRepo := memory.NewEquipmentStatusStore()
		svc := NewMoveService(moveRepo, equipRepo, testRates(t))

		// The feed has reported the container with its line
		assert.NoError(t, equipRepo.SetStatus(ctx, &domain.EquipmentStatus{
			EquipmentID:  "MAEU7654321",
			Subtype:      domain.EquipmentSubtypeContainer,
			OperatorCode: "MAEU",
			CustodyState: domain.CustodyStateAvailable,
			LastStatusAt: time.Now().UTC(),
		}))

		mv, err := svc.CreateMove(ctx, createRequest())
		assert.NoError(t, err)
		assert.NotEmpty(t, mv.ID)
		assert.Equal(t, domain.MoveStatusActive, mv.Status)
		assert.Equal(t, "MAEU", mv.ContainerLine)
		// Allowances snapshotted from the rate tables at creation
		assert.Equal(t, 5, mv.ContainerFreeDays)
		assert.Equal(t, 4, mv.ChassisFreeDays)
		// Costs stay zero until completion except the known port fees
		assert.Equal(t, int64(2500), mv.Costs.PortFeesCents)
		assert.Equal(t, int64(0), mv.Costs.TotalCents)

		// Both cache entries are paired
		containerStatus, err := equipRepo.GetStatus(ctx, "MAEU7654321")
		assert.NoError(t, err)
		assert.NotNil(t, containerStatus.AssignedTo)
		assert.Equal(t, "DCLI-4402", *containerStatus.AssignedTo)
		assert.Equal(t, domain.CustodyStateOutWithCustomer, containerStatus.CustodyState)

		chassisStatus, err := equipRepo.GetStatus(ctx, "DCLI-4402")
		assert.NoError(t, err)
		assert.NotNil(t, chassisStatus.AssignedTo)
		assert.Equal(t, "MAEU7654321", *chassisStatus.AssignedTo)
	})

	t.Run("Untracked container uses default line", func(t *testing.T) {
		moveRepo := memory.NewMoveStore()
		equipRepo := memory.NewEquipmentStatusStore()
		svc := NewMoveService(moveRepo, equipRepo, testRates(t))

		mv, err := svc.CreateMove(ctx, createRequest())
		assert.NoError(t, err)
		assert.Equal(t, rates.DefaultCode, mv.ContainerLine)
		assert.Equal(t, 4, mv.ContainerFreeDays)
	})

	t.Run("Duplicate custody rejected", func(t *testing.T) {
		moveRepo := memory.NewMoveStore()
		equipRepo := memory.NewEquipmentStatusStore()
		svc := NewMoveService(moveRepo, equipRepo, testRates(t))

		_, err := svc.CreateMove(ctx, createRequest())
		assert.NoError(t, err)

		// Same chassis, different container
		req := createRequest()
		req.ContainerID = "MSCU1112223"
		_, err = svc.CreateMove(ctx, req)
		assert.ErrorIs(t, err, domain.ErrDuplicateCustodyAssignment)

		// Same container, different chassis
		req = createRequest()
		req.ChassisID = "TRAC-9981"
		_, err = svc.CreateMove(ctx, req)
		assert.ErrorIs(t, err, domain.ErrDuplicateCustodyAssignment)
	})

	t.Run("Validation", func(t *testing.T) {
		svc := NewMoveService(memory.NewMoveStore(), memory.NewEquipmentStatusStore(), testRates(t))

		req := createRequest()
		req.ContainerID = ""
		_, err := svc.CreateMove(ctx, req)
		assert.Error(t, err)

		req = createRequest()
		req.MoveType = "JOYRIDE"
		_, err = svc.CreateMove(ctx, req)
		assert.Error(t, err)
	})

	t.Run("Repository error propagates", func(t *testing.T) {
		moveRepo := new(MockMoveRepo)
		equipRepo := new(MockEquipmentRepo)
		svc := NewMoveService(moveRepo, equipRepo, testRates(t))

		moveRepo.On("FindActiveByEquipment", ctx, mock.Anything).Return(nil, errors.New("db down"))

		_, err := svc.CreateMove(ctx, createRequest())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "db down")
	})
}

func TestMoveService_CreateMove_ConcurrentSameChassis(t *testing.T) {
	// Two concurrent dispatches against the same chassis: exactly one may
	// win custody.
	ctx := context.Background()
	svc := NewMoveService(memory.NewMoveStore(), memory.NewEquipmentStatusStore(), testRates(t))

	containers := []string{"MAEU7654321", "MSCU1112223"}
	errs := make([]error, len(containers))

	var wg sync.WaitGroup
	for i, containerID := range containers {
		wg.Add(1)
		go func(i int, containerID string) {
			defer wg.Done()
			req := createRequest()
			req.ContainerID = containerID
			_, errs[i] = svc.CreateMove(ctx, req)
		}(i, containerID)
	}
	wg.Wait()

	successes, duplicates := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrDuplicateCustodyAssignment):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, duplicates)
}

func TestMoveService_CompleteMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Computes used days and costs from snapshots", func(t *testing.T) {
		moveRepo := memory.NewMoveStore()
		equipRepo := memory.NewEquipmentStatusStore()
		svc := NewMoveService(moveRepo, equipRepo, testRates(t))

		// Out for 10 days and 1 hour → 11 elapsed days
		start := time.Now().UTC().Add(-(10*24 + 1) * time.Hour)
		mv := &domain.Move{
			ID: "mv-1", JobID: "job-1",
			ContainerID: "MAEU7654321", ChassisID: "DCLI-4402",
			ChassisProvider: "DCLI", ContainerLine: "MAEU",
			MoveType: domain.MoveTypeDelivery, StartedAt: start,
			ContainerFreeDays: 5, ChassisFreeDays: 4,
			Costs:  domain.MoveCosts{PortFeesCents: 2500},
			Status: domain.MoveStatusActive,
		}
		assert.NoError(t, moveRepo.Create(ctx, mv))

		res, err := svc.CompleteMove(ctx, "mv-1")
		assert.NoError(t, err)
		assert.Equal(t, domain.MoveStatusCompleted, res.Status)
		assert.NotNil(t, res.EndedAt)
		assert.Equal(t, 6, res.ContainerUsedDays)                          // 11 - 5
		assert.Equal(t, 7, res.ChassisUsedDays)                            // 11 - 4
		assert.Equal(t, int64(51000), res.Costs.ContainerPerDiemCents)     // 6 * $85
		assert.Equal(t, int64(24500), res.Costs.ChassisRentalCents)        // 7 * $35
		assert.Equal(t, int64(1500), res.Costs.FuelSurchargeCents)         // DCLI surcharge
		assert.Equal(t, int64(2500), res.Costs.PortFeesCents)              // carried from creation
		assert.Equal(t, int64(51000+24500+1500+2500), res.Costs.TotalCents)
	})

	t.Run("Within free time bills zero", func(t *testing.T) {
		moveRepo := memory.NewMoveStore()
		svc := NewMoveService(moveRepo, memory.NewEquipmentStatusStore(), testRates(t))

		mv := &domain.Move{
			ID: "mv-2", JobID: "job-1",
			ContainerID: "C2", ChassisID: "CH2",
			ChassisProvider: "DCLI", ContainerLine: "MAEU",
			StartedAt:         time.Now().UTC().Add(-26 * time.Hour), // 2 elapsed days
			ContainerFreeDays: 5, ChassisFreeDays: 4,
			Status: domain.MoveStatusActive,
		}
		assert.NoError(t, moveRepo.Create(ctx, mv))

		res, err := svc.CompleteMove(ctx, "mv-2")
		assert.NoError(t, err)
		assert.Equal(t, 0, res.ContainerUsedDays)
		assert.Equal(t, 0, res.ChassisUsedDays)
		assert.Equal(t, int64(0), res.Costs.ContainerPerDiemCents)
		assert.Equal(t, int64(0), res.Costs.ChassisRentalCents)
		// The provider surcharge still applies to the completed move
		assert.Equal(t, int64(1500), res.Costs.FuelSurchargeCents)
	})

	t.Run("Releases equipment in the cache", func(t *testing.T) {
		moveRepo := memory.NewMoveStore()
		equipRepo := memory.NewEquipmentStatusStore()
		svc := NewMoveService(moveRepo, equipRepo, testRates(t))

		mv, err := svc.CreateMove(ctx, createRequest())
		assert.NoError(t, err)

		_, err = svc.CompleteMove(ctx, mv.ID)
		assert.NoError(t, err)

		for _, id := range []string{mv.ContainerID, mv.ChassisID} {
			status, err := equipRepo.GetStatus(ctx, id)
			assert.NoError(t, err)
			assert.Nil(t, status.AssignedTo)
			assert.Equal(t, domain.CustodyStateReturned, status.CustodyState)
			assert.NotNil(t, status.LastCustodyEnd)
		}

		// Equipment is free for the next move
		req := createRequest()
		req.JobID = "job-2"
		_, err = svc.CreateMove(ctx, req)
		assert.NoError(t, err)
	})

	t.Run("Completed move is immutable", func(t *testing.T) {
		moveRepo := memory.NewMoveStore()
		svc := NewMoveService(moveRepo, memory.NewEquipmentStatusStore(), testRates(t))

		mv, err := svc.CreateMove(ctx, createRequest())
		assert.NoError(t, err)

		first, err := svc.CompleteMove(ctx, mv.ID)
		assert.NoError(t, err)

		_, err = svc.CompleteMove(ctx, mv.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidMoveState)
		_, err = svc.CancelMove(ctx, mv.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidMoveState)

		// Failed transitions changed nothing
		stored, err := svc.GetMove(ctx, mv.ID)
		assert.NoError(t, err)
		assert.Equal(t, first.Costs, stored.Costs)
		assert.Equal(t, domain.MoveStatusCompleted, stored.Status)
	})

	t.Run("Unknown move", func(t *testing.T) {
		svc := NewMoveService(memory.NewMoveStore(), memory.NewEquipmentStatusStore(), testRates(t))
		_, err := svc.CompleteMove(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrMoveNotFound)
	})
}

func TestMoveService_CancelMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Cancellation bills nothing regardless of elapsed time", func(t *testing.T) {
		moveRepo := memory.NewMoveStore()
		equipRepo := memory.NewEquipmentStatusStore()
		svc := NewMoveService(moveRepo, equipRepo, testRates(t))

		start := time.Now().UTC().Add(-30 * 24 * time.Hour)
		mv := &domain.Move{
			ID: "mv-3", JobID: "job-1",
			ContainerID: "C3", ChassisID: "CH3",
			ChassisProvider: "DCLI", ContainerLine: "MAEU",
			StartedAt:         start,
			ContainerFreeDays: 5, ChassisFreeDays: 4,
			Costs:  domain.MoveCosts{PortFeesCents: 2500},
			Status: domain.MoveStatusActive,
		}
		assert.NoError(t, moveRepo.Create(ctx, mv))

		res, err := svc.CancelMove(ctx, "mv-3")
		assert.NoError(t, err)
		assert.Equal(t, domain.MoveStatusCancelled, res.Status)
		assert.Equal(t, domain.MoveCosts{}, res.Costs)
		assert.Equal(t, 0, res.ContainerUsedDays)
		assert.Equal(t, 0, res.ChassisUsedDays)
	})

	t.Run("Cancelled move cannot be completed", func(t *testing.T) {
		svc := NewMoveService(memory.NewMoveStore(), memory.NewEquipmentStatusStore(), testRates(t))

		mv, err := svc.CreateMove(ctx, createRequest())
		assert.NoError(t, err)

		_, err = svc.CancelMove(ctx, mv.ID)
		assert.NoError(t, err)

		_, err = svc.CompleteMove(ctx, mv.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidMoveState)
		_, err = svc.CancelMove(ctx, mv.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidMoveState)
	})
}

func TestMoveService_ListMoves(t *testing.T) {
	ctx := context.Background()
	svc := NewMoveService(memory.NewMoveStore(), memory.NewEquipmentStatusStore(), testRates(t))

	first, err := svc.CreateMove(ctx, createRequest())
	assert.NoError(t, err)

	req := createRequest()
	req.JobID = "job-2"
	req.ContainerID = "MSCU1112223"
	req.ChassisID = "TRAC-9981"
	req.ChassisProvider = "TRAC"
	_, err = svc.CreateMove(ctx, req)
	assert.NoError(t, err)

	byJob, err := svc.ListMoves(ctx, repository.MoveFilter{JobID: "job-1"})
	assert.NoError(t, err)
	assert.Len(t, byJob, 1)
	assert.Equal(t, first.ID, byJob[0].ID)
}
