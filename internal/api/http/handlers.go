package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"draytrack-backend/internal/domain"
	"draytrack-backend/internal/logger"
	"draytrack-backend/internal/repository"
	"draytrack-backend/internal/service"
)

// Handler exposes the engine's synchronous operations as JSON endpoints.
type Handler struct {
	moves     service.MoveService
	billing   service.BillingService
	equipment service.EquipmentService
}

func NewHandler(moves service.MoveService, billing service.BillingService, equipment service.EquipmentService) *Handler {
	return &Handler{moves: moves, billing: billing, equipment: equipment}
}

// Register mounts all routes on the router.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/moves", h.CreateMove).Methods(http.MethodPost)
	r.HandleFunc("/moves", h.ListMoves).Methods(http.MethodGet)
	r.HandleFunc("/moves/{id}", h.GetMove).Methods(http.MethodGet)
	r.HandleFunc("/moves/{id}/complete", h.CompleteMove).Methods(http.MethodPost)
	r.HandleFunc("/moves/{id}/cancel", h.CancelMove).Methods(http.MethodPost)
	r.HandleFunc("/jobs/{id}/cost-breakdown", h.GetJobCostBreakdown).Methods(http.MethodGet)
	r.HandleFunc("/equipment/status", h.PushEquipmentStatus).Methods(http.MethodPost)
	r.HandleFunc("/equipment/{id}/status", h.GetEquipmentStatus).Methods(http.MethodGet)
	r.HandleFunc("/equipment/{id}/perdiem", h.CalculatePerDiem).Methods(http.MethodGet)
}

func (h *Handler) CreateMove(w http.ResponseWriter, r *http.Request) {
	var req service.CreateMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	mv, err := h.moves.CreateMove(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mv)
}

func (h *Handler) GetMove(w http.ResponseWriter, r *http.Request) {
	mv, err := h.moves.GetMove(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mv)
}

func (h *Handler) CompleteMove(w http.ResponseWriter, r *http.Request) {
	mv, err := h.moves.CompleteMove(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mv)
}

func (h *Handler) CancelMove(w http.ResponseWriter, r *http.Request) {
	mv, err := h.moves.CancelMove(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mv)
}

func (h *Handler) ListMoves(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.MoveFilter{
		ContainerID: q.Get("container_id"),
		ChassisID:   q.Get("chassis_id"),
		JobID:       q.Get("job_id"),
		Status:      domain.MoveStatus(q.Get("status")),
	}
	if from, ok := parseDateParam(w, q.Get("from")); !ok {
		return
	} else {
		filter.From = from
	}
	if to, ok := parseDateParam(w, q.Get("to")); !ok {
		return
	} else {
		filter.To = to
	}

	moves, err := h.moves.ListMoves(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if moves == nil {
		moves = []domain.Move{}
	}
	writeJSON(w, http.StatusOK, moves)
}

func (h *Handler) GetJobCostBreakdown(w http.ResponseWriter, r *http.Request) {
	bd, err := h.billing.GetJobCostBreakdown(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bd)
}

func (h *Handler) PushEquipmentStatus(w http.ResponseWriter, r *http.Request) {
	var status domain.EquipmentStatus
	if err := json.NewDecoder(r.Body).Decode(&status); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.equipment.PushEquipmentStatus(r.Context(), &status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) GetEquipmentStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.equipment.GetEquipmentStatus(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) CalculatePerDiem(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	start, err := time.Parse("2006-01-02", q.Get("start"))
	if err != nil {
		http.Error(w, "Missing or invalid start parameter, expected yyyy-mm-dd", http.StatusBadRequest)
		return
	}

	var end *time.Time
	if v := q.Get("end"); v != "" {
		e, err := time.Parse("2006-01-02", v)
		if err != nil {
			http.Error(w, "Invalid end parameter, expected yyyy-mm-dd", http.StatusBadRequest)
			return
		}
		end = &e
	}

	result, err := h.equipment.CalculatePerDiem(r.Context(), mux.Vars(r)["id"], q.Get("operator"), start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func parseDateParam(w http.ResponseWriter, v string) (*time.Time, bool) {
	if v == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		http.Error(w, "Invalid date parameter, expected yyyy-mm-dd", http.StatusBadRequest)
		return nil, false
	}
	return &t, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMoveNotFound), errors.Is(err, domain.ErrEquipmentNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrDuplicateCustodyAssignment), errors.Is(err, domain.ErrInvalidMoveState):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		logger.Error("Request failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
