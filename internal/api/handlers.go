package api

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/trogers1052/wine-investment-service/internal/database"
	"github.com/trogers1052/wine-investment-service/internal/investment"
	"github.com/trogers1052/wine-investment-service/internal/models"
)

// Repository is the storage the API reads and writes
type Repository interface {
	Ping(ctx context.Context) error
	GetWine(ctx context.Context, id int) (*models.Wine, error)
	GetInvestmentProfile(ctx context.Context, id int) (*models.InvestmentProfile, error)
	GetInvestmentWine(ctx context.Context, id int) (*models.InvestmentWine, error)
	ListInvestmentWines(ctx context.Context, q models.InvestmentQuery) ([]*models.InvestmentWine, error)
	UpdateInvestmentProfile(ctx context.Context, id int, p *models.InvestmentProfile) error
}

// Publisher announces profiles recomputed through the API
type Publisher interface {
	PublishProfileUpdated(ctx context.Context, runID string, wineID int, p *models.InvestmentProfile) error
}

// RecomputeRunID tags events for profiles recomputed on request
const RecomputeRunID = "api"

const (
	defaultListLimit = 10
	maxListLimit     = 100
	defaultMinScore  = 7.0
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	db        Repository
	publisher Publisher
	logger    *zap.Logger
	newRand   func(wineID int) investment.Rand
}

// NewHandler creates a new Handler. publisher and logger may be nil.
func NewHandler(db Repository, publisher Publisher, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		db:        db,
		publisher: publisher,
		logger:    logger,
		newRand: func(wineID int) investment.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano() + int64(wineID)))
		},
	}
}

// GetInvestmentProfile handles GET /wines/{id}/investment
func (h *Handler) GetInvestmentProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := wineID(w, r)
	if !ok {
		return
	}

	profile, err := h.db.GetInvestmentProfile(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// RecomputeInvestmentProfile handles POST /wines/{id}/investment
func (h *Handler) RecomputeInvestmentProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := wineID(w, r)
	if !ok {
		return
	}

	wine, err := h.db.GetWine(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	profile := investment.Synthesize(wine, h.newRand(id))
	if err := h.db.UpdateInvestmentProfile(r.Context(), id, profile); err != nil {
		h.respondStoreError(w, err)
		return
	}

	if h.publisher != nil {
		if err := h.publisher.PublishProfileUpdated(r.Context(), RecomputeRunID, id, profile); err != nil {
			h.logger.Warn("Failed to publish investment update", zap.Int("wine_id", id), zap.Error(err))
		}
	}

	respondJSON(w, http.StatusOK, profile)
}

// ListInvestmentWines handles GET /investment/wines
func (h *Handler) ListInvestmentWines(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := defaultListLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxListLimit)
	}

	minScore := defaultMinScore
	if v := q.Get("min_score"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 10 {
			http.Error(w, "min_score must be a number between 0 and 10", http.StatusBadRequest)
			return
		}
		minScore = f
	}

	wines, err := h.db.ListInvestmentWines(r.Context(), models.InvestmentQuery{
		MinScore: minScore,
		Region:   q.Get("region"),
		Limit:    limit,
	})
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	if wines == nil {
		wines = []*models.InvestmentWine{}
	}

	respondJSON(w, http.StatusOK, wines)
}

// CalculateROI handles GET /wines/{id}/roi
func (h *Handler) CalculateROI(w http.ResponseWriter, r *http.Request) {
	id, ok := wineID(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()

	req := investment.ROIRequest{StorageType: models.StorageType(q.Get("storage"))}
	if v := q.Get("amount"); v != "" {
		amount, err := decimal.NewFromString(v)
		if err != nil || !amount.IsPositive() {
			http.Error(w, "amount must be a positive number", http.StatusBadRequest)
			return
		}
		req.Amount = amount
	}
	if v := q.Get("years"); v != "" {
		years, err := strconv.Atoi(v)
		if err != nil || years < 1 || years > 50 {
			http.Error(w, "years must be an integer between 1 and 50", http.StatusBadRequest)
			return
		}
		req.HoldingYears = years
	}
	if req.StorageType != "" && !req.StorageType.Valid() {
		http.Error(w, "storage must be one of bonded, private_cellar, retail", http.StatusBadRequest)
		return
	}

	wine, err := h.db.GetInvestmentWine(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	req.Wine = wine.Name
	req.Price = wine.Price
	req.FiveYearReturn = wine.FiveYearReturn

	respondJSON(w, http.StatusOK, investment.CalculateROI(req))
}

// BuildPortfolio handles GET /investment/portfolio
func (h *Handler) BuildPortfolio(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	budget, err := decimal.NewFromString(q.Get("budget"))
	if err != nil || !budget.IsPositive() {
		http.Error(w, "budget must be a positive number", http.StatusBadRequest)
		return
	}
	risk := investment.RiskProfileFor(q.Get("risk"))

	candidates, err := h.db.ListInvestmentWines(r.Context(), risk.CandidateQuery(budget))
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, investment.BuildPortfolio(candidates, budget, risk))
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrWineNotFound):
		http.Error(w, "wine not found", http.StatusNotFound)
	case errors.Is(err, database.ErrProfileNotFound):
		http.Error(w, "investment profile not found", http.StatusNotFound)
	default:
		h.logger.Error("Store request failed", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func wineID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 {
		http.Error(w, "invalid wine id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
