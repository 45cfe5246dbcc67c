package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iwvelando/broker-engine/internal/cache"
	"github.com/iwvelando/broker-engine/internal/engine"
	"github.com/iwvelando/broker-engine/internal/store"
	"github.com/iwvelando/broker-engine/pkg/commission"
	"github.com/iwvelando/broker-engine/pkg/constants"
	"github.com/iwvelando/broker-engine/pkg/currency"
	"github.com/iwvelando/broker-engine/pkg/id"
	"github.com/iwvelando/broker-engine/pkg/loans"
	"github.com/iwvelando/broker-engine/pkg/qualification"
	"github.com/iwvelando/broker-engine/pkg/shipping"
	"github.com/iwvelando/broker-engine/pkg/validation"
	"go.uber.org/zap"
)

// QuoteReader reads the quote journal.
type QuoteReader interface {
	Get(ctx context.Context, id string) (store.Quote, error)
	List(ctx context.Context, kind store.Kind, limit int) ([]store.Quote, error)
}

// Options configure the HTTP handler.
type Options struct {
	Logger          *zap.Logger
	Engine          *engine.Engine
	Quotes          QuoteReader // nil disables the quote endpoints
	Cache           cache.Cache // nil disables response caching
	MaxBodyBytes    int64
	RateLimit       int // requests per window per client, 0 disables
	RateLimitWindow time.Duration
	Version         string
}

// Handler serves the JSON API.
type Handler struct {
	router  chi.Router
	limiter *RateLimiter
}

type handler struct {
	logger       *zap.Logger
	engine       *engine.Engine
	quotes       QuoteReader
	cache        cache.Cache
	maxBodyBytes int64
	version      string
}

// NewHandler constructs the HTTP handler that serves the calculator API.
func NewHandler(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	eng := opts.Engine
	if eng == nil {
		eng = engine.New(logger, currency.DefaultTable, nil)
	}
	c := opts.Cache
	if c == nil {
		c = cache.Nop{}
	}
	maxBodyBytes := opts.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = constants.DefaultMaxBodyBytes
	}
	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}

	h := &handler{
		logger:       logger,
		engine:       eng,
		quotes:       opts.Quotes,
		cache:        c,
		maxBodyBytes: maxBodyBytes,
		version:      version,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	var limiter *RateLimiter
	if opts.RateLimit > 0 {
		limiter = NewRateLimiter(opts.RateLimit, opts.RateLimitWindow)
		r.Use(limiter.Middleware)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", h.handleVersion)

		r.Get("/currency/rates", h.handleRates)
		r.Post("/currency/convert", h.handleConvert)

		r.Post("/loans/amortize", h.handleAmortize)
		r.Post("/loans/schedule", h.handleSchedule)
		r.Post("/financing/vehicle", h.handleFinancing)

		r.Get("/qualification/tiers", h.handleTiers)
		r.Post("/qualification", h.handleQualification)

		r.Get("/shipping/destinations", h.handleDestinations)
		r.Post("/shipping/estimate", h.handleShipping)

		r.Get("/commission/defaults/{role}", h.handleCommissionDefaults)
		r.Post("/commission", h.handleCommission)

		r.Get("/quotes", h.handleListQuotes)
		r.Get("/quotes/{id}", h.handleGetQuote)
	})

	return &Handler{router: r, limiter: limiter}
}

func (s *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops background work started by the handler.
func (s *Handler) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleRates(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"base":  currency.Base,
		"rates": h.engine.Rates().Rates(),
	})
}

func (h *handler) handleConvert(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConvert"
	var req engine.ConversionRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	h.memoize(w, r, store.KindConversion, req, op, func(ctx context.Context) (interface{}, string, error) {
		return h.engine.Convert(ctx, req)
	})
}

func (h *handler) handleAmortize(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAmortize"
	var req loans.LoanTerms
	if !h.decode(w, r, &req, op) {
		return
	}
	h.memoize(w, r, store.KindAmortization, req, op, func(ctx context.Context) (interface{}, string, error) {
		return h.engine.Amortize(ctx, req)
	})
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"
	var req loans.LoanTerms
	if !h.decode(w, r, &req, op) {
		return
	}
	h.memoize(w, r, "schedule", req, op, func(ctx context.Context) (interface{}, string, error) {
		schedule, err := h.engine.Schedule(ctx, req)
		if err != nil {
			return nil, "", err
		}
		return map[string]interface{}{
			"summary":  loans.Amortize(req),
			"payments": schedule,
		}, "", nil
	})
}

func (h *handler) handleFinancing(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleFinancing"
	var req loans.VehicleFinancing
	if !h.decode(w, r, &req, op) {
		return
	}
	h.memoize(w, r, store.KindFinancing, req, op, func(ctx context.Context) (interface{}, string, error) {
		return h.engine.Finance(ctx, req)
	})
}

func (h *handler) handleQualification(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleQualification"
	var req qualification.Input
	if !h.decode(w, r, &req, op) {
		return
	}
	h.memoize(w, r, store.KindQualification, req, op, func(ctx context.Context) (interface{}, string, error) {
		return h.engine.Qualify(ctx, req)
	})
}

func (h *handler) handleTiers(w http.ResponseWriter, r *http.Request) {
	type tier struct {
		Tier qualification.CreditTier `json:"tier"`
		APR  float64                  `json:"apr"`
	}
	tiers := make([]tier, 0, len(qualification.Tiers()))
	for _, t := range qualification.Tiers() {
		apr, _ := qualification.APR(t)
		tiers = append(tiers, tier{Tier: t, APR: apr})
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"tiers": tiers,
		"thresholds": map[string]float64{
			"poorCreditMinDownPercent": qualification.PoorCreditMinDownPercent,
			"highRiskDTIPercent":       qualification.HighRiskDTIPercent,
			"conditionalDTIPercent":    qualification.ConditionalDTIPercent,
		},
	})
}

func (h *handler) handleDestinations(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"destinations": shipping.Destinations(),
		"sizeClasses":  shipping.SizeClasses(),
		"surcharges": map[string]float64{
			"portFees":         shipping.PortFees,
			"customsClearance": shipping.CustomsClearance,
			"insuranceRate":    shipping.InsuranceRate,
		},
	})
}

func (h *handler) handleShipping(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleShipping"
	var req engine.ShippingRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	h.memoize(w, r, store.KindShipping, req, op, func(ctx context.Context) (interface{}, string, error) {
		return h.engine.Ship(ctx, req)
	})
}

func (h *handler) handleCommissionDefaults(w http.ResponseWriter, r *http.Request) {
	role, ok := commission.ParseRole(chi.URLParam(r, "role"))
	if !ok {
		h.respondErrorWithOp(w, http.StatusNotFound, fmt.Sprintf("unknown role %q", role), "server.handleCommissionDefaults")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"role":              role,
		"defaultPercentage": commission.DefaultPercentage(role),
		"presets":           commission.Presets(role),
	})
}

func (h *handler) handleCommission(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCommission"
	var req commission.Input
	if !h.decode(w, r, &req, op) {
		return
	}
	h.memoize(w, r, store.KindCommission, req, op, func(ctx context.Context) (interface{}, string, error) {
		return h.engine.Commission(ctx, req)
	})
}

func (h *handler) handleListQuotes(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleListQuotes"
	if h.quotes == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, "quote journal is disabled", op)
		return
	}

	var kind store.Kind
	if raw := r.URL.Query().Get("kind"); raw != "" {
		parsed, ok := store.ParseKind(raw)
		if !ok {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("unknown quote kind %q", raw), op)
			return
		}
		kind = parsed
	}

	limit := constants.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", raw), op)
			return
		}
		limit = parsed
	}

	quotes, err := h.quotes.List(r.Context(), kind, limit)
	if err != nil {
		h.respondErr(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"quotes": quotes})
}

func (h *handler) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGetQuote"
	if h.quotes == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, "quote journal is disabled", op)
		return
	}

	quoteID := chi.URLParam(r, "id")
	if !id.Valid(quoteID) {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("malformed quote ID %q", quoteID), op)
		return
	}
	q, err := h.quotes.Get(r.Context(), quoteID)
	if err != nil {
		h.respondErr(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, q)
}

// decode reads a JSON body into dst, answering the request itself on failure.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodyBytes), op)
		case errors.Is(err, io.EOF):
			h.respondErrorWithOp(w, http.StatusBadRequest, "request body is empty", op)
		default:
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		}
		return false
	}
	return true
}

// memoize answers from the cache when the same request was computed before,
// otherwise computes, caches and writes the result.
func (h *handler) memoize(w http.ResponseWriter, r *http.Request, kind store.Kind, req interface{}, op string,
	compute func(ctx context.Context) (interface{}, string, error)) {
	payload, err := json.Marshal(req)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode request: %v", err), op)
		return
	}
	key := cache.Key(string(kind), payload)

	if body, ok := h.cache.Get(r.Context(), key); ok {
		w.Header().Set("X-Cache", "hit")
		h.writeRaw(w, http.StatusOK, body)
		return
	}

	result, quoteID, err := compute(r.Context())
	if err != nil {
		h.respondErr(w, err, op)
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode response: %v", err), op)
		return
	}
	if err := h.cache.Set(r.Context(), key, body); err != nil {
		h.logger.Warn("failed to cache response",
			zap.String("op", op),
			zap.Error(err),
		)
	}

	w.Header().Set("X-Cache", "miss")
	if quoteID != "" {
		w.Header().Set("X-Quote-ID", quoteID)
	}
	h.writeRaw(w, http.StatusOK, body)
}

// respondErr maps err onto a status code.
func (h *handler) respondErr(w http.ResponseWriter, err error, op string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, validation.ErrInvalidInput), errors.Is(err, currency.ErrUnknownCurrency):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	}
	h.respondErrorWithOp(w, status, err.Error(), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	} else {
		h.logger.Debug("request rejected",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *handler) writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func formatSeconds(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
