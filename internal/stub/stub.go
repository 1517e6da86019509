// Package stub is a development backend implementing the endpoints the
// storefront consumes, over an in-memory catalog. Used by the `storefront
// stub` command and by integration tests.
package stub

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nycolasmancini/pmcell-storefront/internal/domain"
)

const pageSize = 20

type AbandonedCartReport struct {
	Cart           domain.CartSnapshot `json:"cart_data"`
	EstimatedValue string              `json:"estimated_value"`
	SessionID      string              `json:"session_id"`
}

type Server struct {
	logger *zap.Logger

	mu         sync.Mutex
	products   []domain.Product
	categories []domain.Category
	makers     []domain.Manufacturer
	prices     map[int64]string // product id -> unit price
	journeys   []domain.JourneyEvent
	abandoned  []AbandonedCartReport
	orders     []domain.Order
	nextOrder  int64
}

func NewServer(logger *zap.Logger) *Server {
	s := &Server{logger: logger, nextOrder: 1}
	s.seed()
	return s
}

// Handler builds the REST surface consumed by the client.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/api/products/", s.listProducts)
	r.Get("/api/products/{id}/", s.getProduct)
	r.Get("/api/categories/", s.listCategories)
	r.Get("/api/manufacturers/", s.listManufacturers)

	r.Post("/api/liberate-prices/", s.liberatePrices)
	r.Post("/api/track-journey/", s.trackJourney)
	r.Post("/api/get-cart-items/", s.estimateCartItems)
	r.Post("/api/track-abandoned-cart/", s.trackAbandonedCart)
	r.Post("/api/orders/", s.createOrder)

	return r
}

// Journeys returns the recorded journey events, for tests and inspection.
func (s *Server) Journeys() []domain.JourneyEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.JourneyEvent(nil), s.journeys...)
}

// AbandonedReports returns the recorded abandoned-cart reports.
func (s *Server) AbandonedReports() []AbandonedCartReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]AbandonedCartReport(nil), s.abandoned...)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	search := strings.ToLower(query.Get("search"))
	categoryID, _ := strconv.ParseInt(query.Get("category"), 10, 64)
	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}

	s.mu.Lock()
	var matched []domain.Product
	for _, p := range s.products {
		if categoryID != 0 && p.Category.ID != categoryID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		matched = append(matched, p)
	}
	s.mu.Unlock()

	start := (page - 1) * pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}

	respondJSON(w, http.StatusOK, domain.Paginated[domain.Product]{
		Count:   len(matched),
		Results: matched[start:end],
	})
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			respondJSON(w, http.StatusOK, p)
			return
		}
	}
	respondError(w, http.StatusNotFound, "product not found")
}

func (s *Server) listCategories(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	respondJSON(w, http.StatusOK, s.categories)
}

func (s *Server) listManufacturers(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	respondJSON(w, http.StatusOK, s.makers)
}

func (s *Server) liberatePrices(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WhatsApp string `json:"whatsapp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.WhatsApp == "" {
		respondError(w, http.StatusBadRequest, "whatsapp is required")
		return
	}
	s.logger.Info("prices liberated", zap.String("whatsapp", req.WhatsApp))
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) trackJourney(w http.ResponseWriter, r *http.Request) {
	var event domain.JourneyEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.mu.Lock()
	s.journeys = append(s.journeys, event)
	s.mu.Unlock()
	respondJSON(w, http.StatusCreated, map[string]any{"success": true})
}

func (s *Server) estimateCartItems(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Cart domain.CartSnapshot `json:"cart"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]estimatedItem, 0, len(req.Cart))
	for _, line := range req.Cart {
		price, ok := s.prices[line.ProductID]
		if !ok {
			continue
		}
		items = append(items, estimatedItem{
			Key:       line.Key,
			UnitPrice: price,
			Quantity:  line.Quantity,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) trackAbandonedCart(w http.ResponseWriter, r *http.Request) {
	var report AbandonedCartReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.mu.Lock()
	s.abandoned = append(s.abandoned, report)
	s.mu.Unlock()
	s.logger.Info("abandoned cart reported",
		zap.String("session_id", report.SessionID),
		zap.String("estimated_value", report.EstimatedValue))
	respondJSON(w, http.StatusCreated, map[string]any{"success": true})
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		domain.CheckoutForm
		Cart domain.CartSnapshot `json:"cart"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Cart) == 0 {
		respondError(w, http.StatusBadRequest, "cart is empty")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	subtotal := decimal.Zero
	items := make([]domain.OrderItem, 0, len(req.Cart))
	for _, line := range req.Cart {
		price := s.prices[line.ProductID]
		unit, err := decimal.NewFromString(price)
		if err != nil {
			unit = decimal.Zero
		}
		lineTotal := unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		items = append(items, domain.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: unit.StringFixed(2),
			Subtotal:  lineTotal.StringFixed(2),
		})
	}

	order := domain.Order{
		ID:          s.nextOrder,
		OrderNumber: "ORD-" + strconv.FormatInt(s.nextOrder, 10),
		Status:      domain.OrderStatusPending,
		Subtotal:    subtotal.StringFixed(2),
		Total:       subtotal.StringFixed(2),
		Items:       items,
	}
	s.nextOrder++
	s.orders = append(s.orders, order)
	respondJSON(w, http.StatusCreated, order)
}

type estimatedItem struct {
	Key       string `json:"key"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
