package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/piwi3910/PrintQuote/internal/engine"
	"github.com/piwi3910/PrintQuote/internal/model"
)

// LayoutRequest asks for the grid of one piece on one sheet.
type LayoutRequest struct {
	Sheet       model.PieceSpec `json:"sheet"`
	Piece       model.PieceSpec `json:"piece"`
	Margins     model.Margins   `json:"margins"`
	AllowRotate bool            `json:"allow_rotate"`
}

// LayoutResponse is the computed grid plus the remnant strips left over.
type LayoutResponse struct {
	Layout     model.LayoutResult `json:"layout"`
	Efficiency float64            `json:"efficiency"`
	Remnants   []model.Remnant    `json:"remnants"`
}

// EstimateRequest carries a whole quote. Settings fields missing from the
// body keep the server's values.
type EstimateRequest struct {
	Settings  *model.Settings    `json:"settings,omitempty"`
	Products  []model.Product    `json:"products"`
	Overrides []model.OverrideAt `json:"overrides,omitempty"`
}

// EstimateResponse is the quote result with the overrides merged in.
// Products echoes the request with every product ID filled in, so a
// client can key later overrides on the IDs the server assigned.
type EstimateResponse struct {
	Products []model.Product     `json:"products"`
	Result   model.QuoteResult   `json:"result"`
	Fields   []model.PaperFields `json:"fields"`
	Total    float64             `json:"total"`
}

// CompareRequest asks for what-if scenarios around one product.
type CompareRequest struct {
	Settings *model.Settings `json:"settings,omitempty"`
	Product  model.Product   `json:"product"`
}

// ScenarioSummary is one compared scenario.
type ScenarioSummary struct {
	Name           string                 `json:"name"`
	Method         model.Method           `json:"method"`
	Total          float64                `json:"total"`
	Sheets         int                    `json:"sheets"`
	FeasiblePapers int                    `json:"feasible_papers"`
	Infeasible     int                    `json:"infeasible"`
	Error          string                 `json:"error,omitempty"`
	Results        []model.PerPaperResult `json:"results,omitempty"`
}

// CatalogResponse lists what the server prices against.
type CatalogResponse struct {
	Candidates    []model.SheetCandidate `json:"candidates"`
	Papers        []model.PaperStock     `json:"papers"`
	DigitalSheets []model.DigitalSheet   `json:"digital_sheets"`
	Settings      model.Settings         `json:"settings"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"memo":   s.memo.Stats(),
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if !s.decode(w, r, &req) {
		return
	}
	l := s.memo.Layout(req.Sheet, req.Piece, req.Margins, req.AllowRotate)
	writeJSON(w, http.StatusOK, LayoutResponse{
		Layout:     l,
		Efficiency: l.Efficiency(),
		Remnants:   model.Remnants(l),
	})
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	req := EstimateRequest{Settings: s.settingsCopy()}
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Products) == 0 {
		writeError(w, http.StatusBadRequest, "no products to estimate")
		return
	}
	if err := assignProductIDs(req.Products); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	est := s.estimator(r, req.Settings)
	res, err := est.Estimate(r.Context(), req.Products)
	if err != nil {
		s.log.Warn("estimate cancelled",
			zap.String("request_id", requestID(r)),
			zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "estimate cancelled")
		return
	}

	writeJSON(w, http.StatusOK, EstimateResponse{
		Products: req.Products,
		Result:   res,
		Fields:   model.MergeOverrides(res.Results, model.OverridesFromList(req.Overrides)),
		Total:    res.Total(),
	})
}

// assignProductIDs gives every product without an ID a fresh one, since
// overrides are keyed by product ID. Two products sharing an ID are
// rejected.
func assignProductIDs(products []model.Product) error {
	seen := make(map[string]bool, len(products))
	for i := range products {
		if products[i].ID == "" {
			products[i].ID = uuid.New().String()[:8]
		}
		if seen[products[i].ID] {
			return fmt.Errorf("duplicate product id %q", products[i].ID)
		}
		seen[products[i].ID] = true
	}
	return nil
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	req := CompareRequest{Settings: s.settingsCopy()}
	if !s.decode(w, r, &req) {
		return
	}
	if req.Settings == nil {
		req.Settings = s.settingsCopy()
	}

	scenarios := engine.BuildDefaultScenarios(*req.Settings, req.Product)
	results := engine.CompareScenarios(scenarios, s.inventory.Candidates, s.lookup, s.memo)

	out := make([]ScenarioSummary, 0, len(results))
	for _, cr := range results {
		sum := ScenarioSummary{
			Name:           cr.Scenario.Name,
			Method:         cr.Scenario.Product.Method,
			Total:          cr.Total,
			Sheets:         cr.Sheets,
			FeasiblePapers: cr.FeasiblePapers,
			Infeasible:     cr.InfeasibleCount,
			Results:        cr.Results,
		}
		if cr.Err != nil {
			sum.Error = cr.Err.Error()
		}
		out = append(out, sum)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	papers := s.inventory.Papers
	if papers == nil {
		papers = []model.PaperStock{}
	}
	writeJSON(w, http.StatusOK, CatalogResponse{
		Candidates:    s.inventory.Candidates,
		Papers:        papers,
		DigitalSheets: model.DigitalSheets,
		Settings:      s.settings,
	})
}

func (s *Server) settingsCopy() *model.Settings {
	c := s.settings
	return &c
}

func (s *Server) estimator(r *http.Request, override *model.Settings) *engine.Estimator {
	settings := s.settings
	if override != nil {
		settings = *override
	}
	return engine.New(settings, s.inventory.Candidates, s.lookup).
		WithMemo(s.memo).
		WithLogger(s.log.With(zap.String("request_id", requestID(r))))
}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}

// decode reads a JSON body into v, writing a 400 and returning false on
// failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		msg := fmt.Sprintf("invalid request body: %v", err)
		if errors.Is(err, io.EOF) {
			msg = "request body is empty"
		}
		s.log.Debug("bad request",
			zap.String("request_id", requestID(r)),
			zap.Error(err))
		writeError(w, http.StatusBadRequest, msg)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
