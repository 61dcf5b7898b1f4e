package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/Dee-Rock/soucey/internal/core/domain"
	"github.com/Dee-Rock/soucey/internal/core/service"
)

const sessionHeader = "X-Session-ID"

type HTTPHandler struct {
	orders *service.OrderService
	carts  *service.CartService
}

func NewHTTPHandler(orders *service.OrderService, carts *service.CartService) *HTTPHandler {
	return &HTTPHandler{orders: orders, carts: carts}
}

// Register wires all routes onto the mux. Cart and checkout routes are
// session-scoped via the X-Session-ID header.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HealthCheck)

	mux.HandleFunc("GET /orders", h.ListOrders)
	mux.HandleFunc("POST /orders", h.CreateOrder)
	mux.HandleFunc("PUT /orders", h.UpdateStatusByBody)
	mux.HandleFunc("GET /orders/{id}", h.GetOrder)
	mux.HandleFunc("PUT /orders/{id}", h.UpdateStatus)
	mux.HandleFunc("DELETE /orders/{id}", h.DeleteOrder)

	mux.HandleFunc("GET /payments", h.ListPayments)
	mux.HandleFunc("POST /payments", h.RecordPayment)

	mux.HandleFunc("GET /cart", h.GetCart)
	mux.HandleFunc("DELETE /cart", h.ClearCart)
	mux.HandleFunc("POST /cart/items", h.AddCartItem)
	mux.HandleFunc("PUT /cart/items/{id}", h.UpdateCartItem)
	mux.HandleFunc("DELETE /cart/items/{id}", h.RemoveCartItem)

	mux.HandleFunc("POST /checkout", h.Checkout)
}

type statusUpdateRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type statusUpdateResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

type addCartItemRequest struct {
	Item     domain.CartItem `json:"item"`
	Quantity int             `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity"`
}

// cartView is the wire shape of a cart: the items plus every derived
// aggregate, computed fresh on each response.
type cartView struct {
	Items       []domain.CartItem `json:"items"`
	ItemCount   int               `json:"itemCount"`
	Subtotal    float64           `json:"subtotal"`
	DeliveryFee float64           `json:"deliveryFee"`
	Total       float64           `json:"total"`
}

func viewOf(cart domain.Cart) cartView {
	items := cart.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return cartView{
		Items:       items,
		ItemCount:   cart.ItemCount(),
		Subtotal:    cart.Subtotal(),
		DeliveryFee: cart.DeliveryFee(),
		Total:       cart.Total(),
	}
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	orders, err := h.orders.ListOrders(r.Context(), limit)
	if err != nil {
		h.fail(w, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Order{"orders": orders})
}

func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *HTTPHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req service.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *HTTPHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.updateStatus(w, r, r.PathValue("id"), req.Status)
}

// UpdateStatusByBody serves the legacy shape where the order ID travels
// in the body instead of the path.
func (h *HTTPHandler) UpdateStatusByBody(w http.ResponseWriter, r *http.Request) {
	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ID == "" {
		h.fail(w, &domain.ValidationError{Missing: []string{"id"}})
		return
	}
	h.updateStatus(w, r, req.ID, req.Status)
}

func (h *HTTPHandler) updateStatus(w http.ResponseWriter, r *http.Request, id, status string) {
	if status == "" {
		h.fail(w, &domain.ValidationError{Missing: []string{"status"}})
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), id, status)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusUpdateResponse{
		Success: true,
		Message: "order status updated",
		Order:   order,
	})
}

func (h *HTTPHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.DeleteOrder(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *HTTPHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.orders.ListPayments(r.Context(), 0)
	if err != nil {
		h.fail(w, err)
		return
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Payment{"payments": payments})
}

func (h *HTTPHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req service.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payment, err := h.orders.RecordPayment(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(h.carts.Get(r.Context(), session)))
}

func (h *HTTPHandler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Item.ID == "" {
		h.fail(w, &domain.ValidationError{Missing: []string{"item.id"}})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart := h.carts.AddItem(r.Context(), session, req.Item, req.Quantity)
	writeJSON(w, http.StatusOK, viewOf(cart))
}

func (h *HTTPHandler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req updateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity == nil {
		h.fail(w, &domain.ValidationError{Missing: []string{"quantity"}})
		return
	}

	cart := h.carts.UpdateQuantity(r.Context(), session, r.PathValue("id"), *req.Quantity)
	writeJSON(w, http.StatusOK, viewOf(cart))
}

func (h *HTTPHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	cart := h.carts.RemoveItem(r.Context(), session, r.PathValue("id"))
	writeJSON(w, http.StatusOK, viewOf(cart))
}

func (h *HTTPHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(h.carts.Clear(r.Context(), session)))
}

func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req service.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orders.Checkout(r.Context(), session, req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *HTTPHandler) session(w http.ResponseWriter, r *http.Request) (string, bool) {
	session := r.Header.Get(sessionHeader)
	if session == "" {
		writeError(w, http.StatusBadRequest, "missing "+sessionHeader+" header")
		return "", false
	}
	return session, true
}

// fail maps the error taxonomy onto status codes. Store failures are
// logged with full detail but surfaced to the client as a generic 500.
func (h *HTTPHandler) fail(w http.ResponseWriter, err error) {
	var validation *domain.ValidationError
	var notFound *domain.NotFoundError
	var invalidStatus *domain.InvalidStatusError

	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Error())
	case errors.As(err, &invalidStatus):
		writeError(w, http.StatusBadRequest, invalidStatus.Error())
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, notFound.Error())
	case errors.Is(err, service.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, "cart is empty")
	default:
		log.Printf("request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// Recover converts an unexpected panic in any handler into a generic 500
// instead of killing the process.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
