package apitest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/yndnr/rentdesk-go/internal/core/domain"
)

// Seeded account accepted by the sign-in route.
const (
	AdminEmail    = "admin@example.com"
	AdminPassword = "password123"
)

// signingKey signs fake tokens. Clients never verify it.
var signingKey = []byte("apitest-signing-key")

// Request is one recorded request.
type Request struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
}

// Server is an in-memory rentdesk API.
type Server struct {
	*httptest.Server

	mu             sync.Mutex
	tokens         map[string]domain.User
	payments       *collection[domain.Payment]
	debts          *collection[domain.Debt]
	properties     *collection[domain.Property]
	requests       []Request
	malformedPaths map[string]bool
	tokenTTL       time.Duration
}

// New starts a server. Call Close when done.
func New() *Server {
	s := &Server{
		tokens:         make(map[string]domain.User),
		malformedPaths: make(map[string]bool),
		tokenTTL:       time.Hour,
		payments: newCollection(func(p domain.Payment, id string) domain.Payment {
			p.ID, p.LegacyID = id, ""
			return p
		}),
		debts: newCollection(func(d domain.Debt, id string) domain.Debt {
			d.ID, d.LegacyID = id, ""
			return d
		}),
		// Properties carry Mongo-style ids.
		properties: newCollection(func(p domain.Property, id string) domain.Property {
			p.ID, p.LegacyID = "", id
			if p.Units == nil {
				p.Units = []domain.Unit{}
			}
			return p
		}),
	}
	s.Server = httptest.NewServer(s.Handler())
	return s
}

// Handler returns the routed API with its middleware chain.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/auth/login", s.login).Methods(http.MethodPost)

	r.HandleFunc("/api/payments/summary", s.paymentSummary).Methods(http.MethodGet)
	routeCollection(r, "/api/payments", "Payment", s, func() *collection[domain.Payment] { return s.payments })

	r.HandleFunc("/api/debts/summary", s.debtSummary).Methods(http.MethodGet)
	r.HandleFunc("/api/debts/breakdown", s.debtBreakdown).Methods(http.MethodGet)
	routeCollection(r, "/api/debts", "Debt", s, func() *collection[domain.Debt] { return s.debts })

	r.HandleFunc("/api/properties/rented-vacant", s.rentedVacant).Methods(http.MethodGet)
	r.HandleFunc("/api/properties/income-portfolio", s.incomePortfolio).Methods(http.MethodGet)
	routeCollection(r, "/api/properties", "Property", s, func() *collection[domain.Property] { return s.properties })

	r.HandleFunc("/api/dashboard/overview", s.overview).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})

	return Chain(r,
		recoverPanic(slog.Default()),
		requestID(),
		s.record(),
		s.malformed(),
		s.bearerAuth("/api/auth/login"),
	)
}

// RevokeTokens invalidates every issued token, so the next authenticated
// request answers 401.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = make(map[string]domain.User)
}

// SetTokenTTL sets the lifetime written into newly issued tokens.
func (s *Server) SetTokenTTL(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenTTL = d
}

// Malform makes path answer 200 with a body that is not valid JSON.
func (s *Server) Malform(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.malformedPaths[path] = true
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request.
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// IssueToken signs in the admin account directly and returns its token.
func (s *Server) IssueToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, _ := s.issueLocked(adminUser())
	return token
}

// SeedPayment stores p and returns it with its id.
func (s *Server) SeedPayment(p domain.Payment) domain.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payments.create(p)
}

// SeedDebt stores d and returns it with its id.
func (s *Server) SeedDebt(d domain.Debt) domain.Debt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debts.create(d)
}

// SeedProperty stores p and returns it with its id.
func (s *Server) SeedProperty(p domain.Property) domain.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.properties.create(p)
}

func adminUser() domain.User {
	return domain.User{ID: "u-admin", Name: "Admin", Email: AdminEmail, Role: "admin", IsAdmin: true}
}

// issueLocked signs a token for user. s.mu must be held.
func (s *Server) issueLocked(user domain.User) (string, error) {
	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}).SignedString(signingKey)
	if err != nil {
		return "", err
	}
	s.tokens[token] = user
	return token, nil
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if creds.Identifier != AdminEmail || creds.Secret != AdminPassword {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	user := adminUser()
	s.mu.Lock()
	token, err := s.issueLocked(user)
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, domain.Session{Token: token, User: &user})
}

func (s *Server) paymentSummary(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum domain.PaymentSummary
	for _, p := range s.payments.list() {
		sum.TotalPaid += p.Amount
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) debtSummary(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum domain.DebtSummary
	for _, d := range s.debts.list() {
		switch d.Status {
		case domain.StatusPending:
			sum.Pending += d.Amount
		case domain.StatusSettled:
			sum.Settled += d.Amount
		}
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) debtBreakdown(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := make(map[string]domain.Amount)
	for _, d := range s.debts.list() {
		totals[d.Category] += d.Amount
	}
	out := make([]domain.CategoryTotal, 0, len(totals))
	for cat, total := range totals {
		out = append(out, domain.CategoryTotal{Category: cat, TotalAmount: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) rentedVacant(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var occ domain.Occupancy
	for _, p := range s.properties.list() {
		occ.Rented += p.RentedCount()
		occ.Vacant += p.VacantCount()
	}
	writeJSON(w, http.StatusOK, occ)
}

// incomePortfolio reports rent collected from rented units and the
// annual rent roll of every unit.
func (s *Server) incomePortfolio(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out domain.IncomePortfolio
	for _, p := range s.properties.list() {
		out.MonthlyIncome += p.MonthlyIncome()
		for _, u := range p.Units {
			out.PortfolioValue += u.MonthlyRent * 12
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) overview(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out domain.Overview
	for _, p := range s.payments.list() {
		out.TotalPayments += p.Amount
	}
	for _, d := range s.debts.list() {
		if d.Status == domain.StatusPending {
			out.OutstandingDebt += d.Amount
		}
	}
	out.NetPosition = out.TotalPayments - out.OutstandingDebt
	writeJSON(w, http.StatusOK, out)
}
