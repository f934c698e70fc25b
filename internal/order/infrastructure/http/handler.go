package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/restauranthq/pos-service/internal/order/application"
	"github.com/restauranthq/pos-service/internal/order/domain"
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
		tracer:  otel.Tracer("order-http"),
	}
}

// Routes is mounted under /api/orders.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.create)
	r.Get("/", h.findAll)
	r.Put("/{orderID}/accept", h.transition("AcceptOrder", h.service.Accept))
	r.Put("/{orderID}/serve", h.transition("ServeOrder", h.service.Serve))
	r.Put("/{orderID}/start-delivery", h.transition("StartOrderDelivery", h.service.StartDelivery))
	r.Put("/{orderID}/complete-delivery", h.transition("CompleteOrderDelivery", h.service.CompleteDelivery))
	r.Put("/{orderID}/complete", h.transition("CompleteOrder", h.service.Complete))

	return r
}

type orderLineItemReq struct {
	MenuID   uuid.UUID `json:"menuId"`
	Price    int64     `json:"price"`
	Quantity int64     `json:"quantity"`
}

type createOrderReq struct {
	Type            domain.OrderType   `json:"type"`
	OrderLineItems  []orderLineItemReq `json:"orderLineItems"`
	DeliveryAddress string             `json:"deliveryAddress"`
	OrderTableID    uuid.UUID          `json:"orderTableId"`
}

type orderLineItemResp struct {
	MenuID   uuid.UUID `json:"menuId"`
	Price    int64     `json:"price"`
	Quantity int64     `json:"quantity"`
}

type orderResp struct {
	ID              uuid.UUID           `json:"id"`
	Type            domain.OrderType    `json:"type"`
	Status          domain.OrderStatus  `json:"status"`
	OrderDateTime   time.Time           `json:"orderDateTime"`
	OrderLineItems  []orderLineItemResp `json:"orderLineItems"`
	DeliveryAddress string              `json:"deliveryAddress,omitempty"`
	OrderTableID    *uuid.UUID          `json:"orderTableId,omitempty"`
}

func toOrderResp(o domain.Order) orderResp {
	items := make([]orderLineItemResp, 0, len(o.OrderLineItems))
	for _, item := range o.OrderLineItems {
		items = append(items, orderLineItemResp{MenuID: item.MenuID, Price: item.Price, Quantity: item.Quantity})
	}
	resp := orderResp{
		ID:              o.ID,
		Type:            o.Type,
		Status:          o.Status,
		OrderDateTime:   o.OrderDateTime,
		OrderLineItems:  items,
		DeliveryAddress: o.DeliveryAddress,
	}
	if o.OrderTableID != uuid.Nil {
		id := o.OrderTableID
		resp.OrderTableID = &id
	}
	return resp
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateOrder")
	defer span.End()

	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.InvalidArgumentf("invalid request body"))
		metrics.Operations.WithLabelValues("CreateOrder", "invalid_argument").Inc()
		return
	}

	items := make([]application.OrderLineItemRequest, 0, len(req.OrderLineItems))
	for _, item := range req.OrderLineItems {
		items = append(items, application.OrderLineItemRequest{
			MenuID:   item.MenuID,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	order, err := h.service.Create(ctx, application.CreateOrderRequest{
		Type:            req.Type,
		OrderLineItems:  items,
		DeliveryAddress: req.DeliveryAddress,
		OrderTableID:    req.OrderTableID,
	})
	metrics.Operations.WithLabelValues("CreateOrder", apperr.Outcome(err)).Inc()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResp(order))
}

// transition builds a handler for the status-change endpoints, which only
// differ in the service method they invoke.
func (h *Handler) transition(op string, fn func(ctx context.Context, id uuid.UUID) (domain.Order, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := h.tracer.Start(r.Context(), op)
		defer span.End()

		orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			writeError(w, apperr.InvalidArgumentf("invalid order id"))
			metrics.Operations.WithLabelValues(op, "invalid_argument").Inc()
			return
		}

		order, err := fn(ctx, orderID)
		metrics.Operations.WithLabelValues(op, apperr.Outcome(err)).Inc()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toOrderResp(order))
	}
}

func (h *Handler) findAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "FindAllOrders")
	defer span.End()

	orders, err := h.service.FindAll(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]orderResp, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResp(o))
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
