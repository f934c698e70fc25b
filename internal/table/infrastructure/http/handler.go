package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/restauranthq/pos-service/internal/table/application"
	"github.com/restauranthq/pos-service/internal/table/domain"
	"github.com/restauranthq/pos-service/pkg/apperr"
	"github.com/restauranthq/pos-service/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("table-http"),
	}
}

// Routes is mounted under /api/order-tables.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.create)
	r.Get("/", h.findAll)
	r.Put("/{tableID}/sit", h.transition("SitOrderTable", h.service.Sit))
	r.Put("/{tableID}/clear", h.transition("ClearOrderTable", h.service.Clear))
	r.Put("/{tableID}/number-of-guests", h.changeNumberOfGuests)

	return r
}

type createTableReq struct {
	Name *string `json:"name"`
}

type numberOfGuestsReq struct {
	NumberOfGuests int `json:"numberOfGuests"`
}

type tableResp struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	NumberOfGuests int       `json:"numberOfGuests"`
	Occupied       bool      `json:"occupied"`
}

func toTableResp(t domain.OrderTable) tableResp {
	return tableResp{ID: t.ID, Name: t.Name, NumberOfGuests: t.NumberOfGuests, Occupied: t.Occupied}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateOrderTable")
	defer span.End()

	var req createTableReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.InvalidArgumentf("invalid request body"))
		metrics.Operations.WithLabelValues("CreateOrderTable", "invalid_argument").Inc()
		return
	}
	orderTable, err := h.service.Create(ctx, application.CreateOrderTableRequest{Name: req.Name})
	metrics.Operations.WithLabelValues("CreateOrderTable", apperr.Outcome(err)).Inc()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTableResp(orderTable))
}

func (h *Handler) transition(op string, fn func(ctx context.Context, id uuid.UUID) (domain.OrderTable, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := h.tracer.Start(r.Context(), op)
		defer span.End()

		tableID, err := uuid.Parse(chi.URLParam(r, "tableID"))
		if err != nil {
			writeError(w, apperr.InvalidArgumentf("invalid order table id"))
			metrics.Operations.WithLabelValues(op, "invalid_argument").Inc()
			return
		}
		orderTable, err := fn(ctx, tableID)
		metrics.Operations.WithLabelValues(op, apperr.Outcome(err)).Inc()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toTableResp(orderTable))
	}
}

func (h *Handler) changeNumberOfGuests(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ChangeNumberOfGuests")
	defer span.End()

	tableID, err := uuid.Parse(chi.URLParam(r, "tableID"))
	if err != nil {
		writeError(w, apperr.InvalidArgumentf("invalid order table id"))
		metrics.Operations.WithLabelValues("ChangeNumberOfGuests", "invalid_argument").Inc()
		return
	}
	var req numberOfGuestsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.InvalidArgumentf("invalid request body"))
		metrics.Operations.WithLabelValues("ChangeNumberOfGuests", "invalid_argument").Inc()
		return
	}
	orderTable, err := h.service.ChangeNumberOfGuests(ctx, tableID, application.ChangeNumberOfGuestsRequest{NumberOfGuests: req.NumberOfGuests})
	metrics.Operations.WithLabelValues("ChangeNumberOfGuests", apperr.Outcome(err)).Inc()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTableResp(orderTable))
}

func (h *Handler) findAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "FindAllOrderTables")
	defer span.End()

	tables, err := h.service.FindAll(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]tableResp, 0, len(tables))
	for _, t := range tables {
		resp = append(resp, toTableResp(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperr.HTTPStatus(err), map[string]string{"message": err.Error()})
}
