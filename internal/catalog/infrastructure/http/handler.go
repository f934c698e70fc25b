package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/restauranthq/pos-service/internal/catalog/application"
	"github.com/restauranthq/pos-service/internal/catalog/domain"
	"github.com/restauranthq/pos-service/pkg/apperr"
	"github.com/restauranthq/pos-service/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	log      *slog.Logger
	products *application.ProductService
	menus    *application.MenuService
	groups   *application.MenuGroupService
	tracer   trace.Tracer
}

func NewHandler(log *slog.Logger, products *application.ProductService, menus *application.MenuService, groups *application.MenuGroupService) *Handler {
	return &Handler{
		log:      log,
		products: products,
		menus:    menus,
		groups:   groups,
		tracer:   otel.Tracer("catalog-http"),
	}
}

// ProductRoutes is mounted under /api/products.
func (h *Handler) ProductRoutes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.createProduct)
	r.Get("/", h.findAllProducts)
	r.Put("/{productID}/price", h.changeProductPrice)

	return r
}

// MenuRoutes is mounted under /api/menus.
func (h *Handler) MenuRoutes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.createMenu)
	r.Get("/", h.findAllMenus)
	r.Put("/{menuID}/price", h.changeMenuPrice)
	r.Put("/{menuID}/display", h.displayMenu)
	r.Put("/{menuID}/hide", h.hideMenu)

	return r
}

// MenuGroupRoutes is mounted under /api/menu-groups.
func (h *Handler) MenuGroupRoutes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.createMenuGroup)
	r.Get("/", h.findAllMenuGroups)

	return r
}

type productReq struct {
	Name  *string `json:"name"`
	Price *int64  `json:"price"`
}

type priceReq struct {
	Price *int64 `json:"price"`
}

type productResp struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price int64     `json:"price"`
}

type menuProductResp struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int64     `json:"quantity"`
}

type menuResp struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	Price        int64             `json:"price"`
	Displayed    bool              `json:"displayed"`
	MenuGroupID  uuid.UUID         `json:"menuGroupId"`
	MenuProducts []menuProductResp `json:"menuProducts"`
}

type menuGroupResp struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func toProductResp(p domain.Product) productResp {
	return productResp{ID: p.ID, Name: p.Name, Price: p.Price}
}

func toMenuResp(m domain.Menu) menuResp {
	products := make([]menuProductResp, 0, len(m.MenuProducts))
	for _, mp := range m.MenuProducts {
		products = append(products, menuProductResp{ProductID: mp.ProductID, Quantity: mp.Quantity})
	}
	return menuResp{
		ID:           m.ID,
		Name:         m.Name,
		Price:        m.Price,
		Displayed:    m.Displayed,
		MenuGroupID:  m.MenuGroupID,
		MenuProducts: products,
	}
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateProduct")
	defer span.End()

	var req productReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.InvalidArgumentf("invalid request body"))
		metrics.Operations.WithLabelValues("CreateProduct", "invalid_argument").Inc()
		return
	}
	product, err := h.products.Create(ctx, application.CreateProductRequest{Name: req.Name, Price: req.Price})
	metrics.Operations.WithLabelValues("CreateProduct", apperr.Outcome(err)).Inc()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResp(product))
}

func (h *Handler) changeProductPrice(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ChangeProductPrice")
	defer span.End()

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, apperr.InvalidArgumentf("invalid product id"))
		metrics.Operations.WithLabelValues("ChangeProductPrice", "invalid_argument").Inc()
		return
	}
	var req priceReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.InvalidArgumentf("invalid request body"))
		metrics.Operations.WithLabelValues("ChangeProductPrice", "invalid_argument").Inc()
		return
	}
	product, err := h.products.ChangePrice(ctx, productID, application.ChangeProductPriceRequest{Price: req.Price})
	metrics.Operations.WithLabelValues("ChangeProductPrice", apperr.Outcome(err)).Inc()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResp(product))
}

func (h *Handler) findAllProducts(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "FindAllProducts")
	defer span.End()

	products, err := h.products.FindAll(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]productResp, 0, len(products))
	for _, p := range products {
		resp = append(resp, toProductResp(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

type menuProductReq struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int64     `json:"quantity"`
}

type createMenuReq struct {
	Name         *string          `json:"name"`
	Price        *int64           `json:"price"`
	MenuGroupID  uuid.UUID        `json:"menuGroupId"`
	MenuProducts []menuProductReq `json:"menuProducts"`
}

func (h *Handler) createMenu(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateMenu")
	defer span.End()

	var req createMenuReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.InvalidArgumentf("invalid request body"))
		metrics.Operations.WithLabelValues("CreateMenu", "invalid_argument").Inc()
		return
	}
	products := make([]application.MenuProductRequest, 0, len(req.MenuProducts))
	for _, mp := range req.MenuProducts {
		products = append(products, application.MenuProductRequest{ProductID: mp.ProductID, Quantity: mp.Quantity})
	}
	menu, err := h.menus.Create(ctx, application.CreateMenuRequest{
		Name:         req.Name,
		Price:        req.Price,
		MenuGroupID:  req.MenuGroupID,
		MenuProducts: products,
	})
	metrics.Operations.WithLabelValues("CreateMenu", apperr.Outcome(err)).Inc()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMenuResp(menu))
}

func (h *Handler) changeMenuPrice(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ChangeMenuPrice")
	defer span.End()

	menuID, err := uuid.Parse(chi.URLParam(r, "menuID"))
	if err != nil {
		writeError(w, apperr.InvalidArgumentf("invalid menu id"))
		metrics.Operations.WithLabelValues("ChangeMenuPrice", "invalid_argument").Inc()
		return
	}
	var req priceReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.InvalidArgumentf("invalid request body"))
		metrics.Operations.WithLabelValues("ChangeMenuPrice", "invalid_argument").Inc()
		return
	}
	menu, err := h.menus.ChangePrice(ctx, menuID, application.ChangeMenuPriceRequest{Price: req.Price})
	metrics.Operations.WithLabelValues("ChangeMenuPrice", apperr.Outcome(err)).Inc()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuResp(menu))
}

func (h *Handler) displayMenu(w http.ResponseWriter, r *http.Request) {
	h.menuTransition(w, r, "DisplayMenu", h.menus.Display)
}

func (h *Handler) hideMenu(w http.ResponseWriter, r *http.Request) {
	h.menuTransition(w, r, "HideMenu", h.menus.Hide)
}

func (h *Handler) menuTransition(w http.ResponseWriter, r *http.Request, op string, fn func(ctx context.Context, id uuid.UUID) (domain.Menu, error)) {
	ctx, span := h.tracer.Start(r.Context(), op)
	defer span.End()

	menuID, err := uuid.Parse(chi.URLParam(r, "menuID"))
	if err != nil {
		writeError(w, apperr.InvalidArgumentf("invalid menu id"))
		metrics.Operations.WithLabelValues(op, "invalid_argument").Inc()
		return
	}
	menu, err := fn(ctx, menuID)
	metrics.Operations.WithLabelValues(op, apperr.Outcome(err)).Inc()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuResp(menu))
}

func (h *Handler) findAllMenus(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "FindAllMenus")
	defer span.End()

	menus, err := h.menus.FindAll(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]menuResp, 0, len(menus))
	for _, m := range menus {
		resp = append(resp, toMenuResp(m))
	}
	writeJSON(w, http.StatusOK, resp)
}

type createMenuGroupReq struct {
	Name *string `json:"name"`
}

func (h *Handler) createMenuGroup(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateMenuGroup")
	defer span.End()

	var req createMenuGroupReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.InvalidArgumentf("invalid request body"))
		metrics.Operations.WithLabelValues("CreateMenuGroup", "invalid_argument").Inc()
		return
	}
	group, err := h.groups.Create(ctx, application.CreateMenuGroupRequest{Name: req.Name})
	metrics.Operations.WithLabelValues("CreateMenuGroup", apperr.Outcome(err)).Inc()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, menuGroupResp{ID: group.ID, Name: group.Name})
}

func (h *Handler) findAllMenuGroups(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "FindAllMenuGroups")
	defer span.End()

	groups, err := h.groups.FindAll(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]menuGroupResp, 0, len(groups))
	for _, g := range groups {
		resp = append(resp, menuGroupResp{ID: g.ID, Name: g.Name})
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
