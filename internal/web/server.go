package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Zer0will/chesschamp/internal/config"
	"github.com/Zer0will/chesschamp/internal/engine"
	"github.com/Zer0will/chesschamp/internal/obslog"
	"github.com/Zer0will/chesschamp/internal/web/paystore"
	"github.com/Zer0will/chesschamp/internal/web/stripeapi"
)

const (
	productName = "Chess AI Opponent Access"
	priceCents  = 100
	currency    = "usd"
)

// maxWebhookBody bounds the webhook request body read.
const maxWebhookBody = 64 * 1024

// Server bundles router, payment store, and the Stripe client.
type Server struct {
	r        *chi.Mux
	cfg      config.AppConfig
	store    paystore.Store
	stripe   *stripeapi.Client
	launcher Launcher
}

// New constructs a Server, installs middleware, and registers routes.
// stripe may be nil when only simulation mode is enabled.
func New(cfg config.AppConfig, store paystore.Store, stripe *stripeapi.Client, launcher Launcher) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		store:    store,
		stripe:   stripe,
		launcher: launcher,
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(30 * time.Second))

	s.r.Get("/", s.handleIndex)
	s.r.Get("/checkout", s.handleCheckout)
	s.r.Post("/checkout", s.handleCheckout)
	s.r.Get("/success", s.handleSuccess)
	s.r.Get("/settings", s.handleSettings)
	s.r.Get("/start-game", s.handleStartGame)
	s.r.Post("/webhook", s.handleWebhook)
	s.r.Get("/health", s.handleHealth)

	return s
}

// Router exposes the internal router, useful for tests.
func (s *Server) Router() chi.Router { return s.r }

func (s *Server) Handler() http.Handler { return s.r }

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, "index.html", map[string]any{
		"PriceLabel": "$1.00",
	})
}

// handleCheckout sends the buyer to the payment page. With simulation
// enabled there is no real charge: the handler fabricates a session ID
// and jumps straight to the success callback.
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	if s.cfg.EnableSimulation || s.stripe == nil {
		sessionID := "sim_" + uuid.NewString()
		obslog.L().Info("simulated checkout", zap.String("session_id", sessionID))
		http.Redirect(w, r, "/success?session_id="+sessionID, http.StatusSeeOther)
		return
	}

	session, err := s.stripe.CreateCheckoutSession(r.Context(), stripeapi.CheckoutParams{
		ProductName: productName,
		AmountCents: priceCents,
		Currency:    currency,
		Quantity:    1,
		SuccessURL:  s.cfg.PublicDomain + "/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   s.cfg.PublicDomain + "/",
	})
	if err != nil {
		obslog.L().Error("create checkout session", zap.Error(err))
		writeJSONError(w, http.StatusInternalServerError, "checkout unavailable")
		return
	}

	http.Redirect(w, r, session.URL, http.StatusSeeOther)
}

// handleSuccess records the payment when it can be verified, then sends
// the buyer to the settings page. Verification failures are logged but
// never block: the game is playable either way.
func (s *Server) handleSuccess(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")

	switch {
	case sessionID == "":
		obslog.L().Warn("success callback without session_id")
	case isSimulatedSession(sessionID):
		s.markPaid(r, paystore.Payment{
			SessionID:   sessionID,
			AmountCents: priceCents,
			Currency:    currency,
			PaidAt:      time.Now().UTC(),
		})
	case s.stripe != nil:
		session, err := s.stripe.GetCheckoutSession(r.Context(), sessionID)
		if err != nil {
			obslog.L().Warn("retrieve checkout session", zap.String("session_id", sessionID), zap.Error(err))
			break
		}
		if !session.Paid() {
			obslog.L().Warn("checkout session not paid",
				zap.String("session_id", sessionID),
				zap.String("payment_status", session.PaymentStatus))
			break
		}
		s.markPaid(r, paystore.Payment{
			SessionID:   session.ID,
			AmountCents: session.AmountTotal,
			Currency:    session.Currency,
			PaidAt:      time.Now().UTC(),
		})
	}

	http.Redirect(w, r, "/settings?paid=1", http.StatusSeeOther)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	type difficultyRow struct {
		Value int
		Name  string
	}
	rows := make([]difficultyRow, 0, engine.MaxSkill-engine.MinSkill+1)
	for skill := engine.MinSkill; skill <= engine.MaxSkill; skill++ {
		rows = append(rows, difficultyRow{Value: skill, Name: engine.SkillName(skill)})
	}
	s.renderPage(w, "settings.html", map[string]any{
		"Paid":         r.URL.Query().Get("paid") == "1",
		"Difficulties": rows,
	})
}

// handleStartGame spawns the desktop game binary with the chosen
// difficulty and color.
func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	skill, err := strconv.Atoi(r.URL.Query().Get("difficulty"))
	if err != nil || skill < engine.MinSkill || skill > engine.MaxSkill {
		writeJSONError(w, http.StatusBadRequest, "difficulty must be between 0 and 4")
		return
	}
	color := r.URL.Query().Get("color")
	if color != "white" && color != "black" {
		writeJSONError(w, http.StatusBadRequest, "color must be white or black")
		return
	}

	if err := s.launcher.Launch(skill, color); err != nil {
		obslog.L().Error("launch game", zap.Error(err))
		if errors.Is(err, os.ErrNotExist) {
			writeJSONError(w, http.StatusNotFound, "game binary not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "could not launch game")
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "success",
		"message": "Game started successfully!",
		"params": map[string]string{
			"difficulty": engine.SkillName(skill),
			"color":      color,
		},
	})
}

// handleWebhook verifies the Stripe signature and records completed
// checkouts.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	event, err := stripeapi.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), s.cfg.StripeWebhookSecret)
	if err != nil {
		obslog.L().Warn("webhook rejected", zap.Error(err))
		writeJSONError(w, http.StatusBadRequest, "invalid signature")
		return
	}

	if event.Type == "checkout.session.completed" {
		var session stripeapi.CheckoutSession
		if err := json.Unmarshal(event.Data.Object, &session); err != nil {
			obslog.L().Warn("webhook object decode", zap.Error(err))
			writeJSONError(w, http.StatusBadRequest, "invalid event object")
			return
		}
		s.markPaid(r, paystore.Payment{
			SessionID:   session.ID,
			AmountCents: session.AmountTotal,
			Currency:    session.Currency,
			PaidAt:      time.Now().UTC(),
		})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(`{"received":true}`))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(`{"ok":true}`))
}

func (s *Server) markPaid(r *http.Request, p paystore.Payment) {
	if err := s.store.MarkPaid(r.Context(), p); err != nil {
		obslog.L().Error("record payment", zap.String("session_id", p.SessionID), zap.Error(err))
		return
	}
	obslog.L().Info("payment recorded",
		zap.String("session_id", p.SessionID),
		zap.Int("amount_cents", p.AmountCents),
		zap.String("currency", p.Currency))
}

func (s *Server) renderPage(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		obslog.L().Error("render page", zap.String("template", name), zap.Error(err))
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func isSimulatedSession(id string) bool {
	return len(id) > 4 && id[:4] == "sim_"
}
