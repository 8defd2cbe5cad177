package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/voltaic/iqc/internal/iqc/engine"
	"github.com/voltaic/iqc/internal/iqc/repository"
	"github.com/voltaic/iqc/internal/iqc/service"
	"github.com/voltaic/iqc/internal/iqc/testutil"
	"go.uber.org/zap"
)

func setupSessionTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	logger := zap.NewNop()

	lotSvc := service.NewLotService(repos.Lot, repos.Subcontract, logger)
	sessionSvc := service.NewSessionService(lotSvc, repos.ActivityLog, engine.DefaultConfig())
	decisionSvc := service.NewDecisionService(sessionSvc, lotSvc, repos.Decision, repos.ActivityLog, logger)

	sessionH := NewSessionHandler(sessionSvc)
	decisionH := NewDecisionHandler(decisionSvc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1/iqc")
	api.POST("/sessions", sessionH.SelectLot)
	api.GET("/sessions/current", sessionH.GetSession)
	api.DELETE("/sessions/current", sessionH.ClearSession)
	api.PUT("/sessions/current", sessionH.UpdateForm)
	api.PUT("/sessions/current/sampling-percent", sessionH.SetSamplingPercent)
	api.PUT("/sessions/current/accepted", sessionH.SetAccepted)
	api.PUT("/sessions/current/category", sessionH.SetCategory)
	api.POST("/sessions/current/rows", sessionH.InsertRow)
	api.DELETE("/sessions/current/rows/:index", sessionH.DeleteRow)
	api.PUT("/sessions/current/rows/:index/dimension", sessionH.SetDimension)
	api.PUT("/sessions/current/rows/:index/observations/:obs", sessionH.SetObservation)
	api.GET("/sessions/current/results", sessionH.GetResults)
	api.POST("/sessions/current/hold", sessionH.Hold)
	api.POST("/sessions/current/resume", sessionH.Resume)
	api.POST("/sessions/current/decision", decisionH.Submit)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestSelectLotInitializesSession(t *testing.T) {
	env := setupSessionTest(t)
	testutil.SeedTestLot(t, env.DB, 1, "BEL-12345", 150)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/iqc/sessions", map[string]interface{}{"slno": 1}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["sampling_percent"].(float64) != 10 {
		t.Errorf("default sampling percent = %v", data["sampling_percent"])
	}
	if data["sample_qty"].(float64) != 15 {
		t.Errorf("sample qty = %v, want 15", data["sample_qty"])
	}
}

func TestSessionRequiresAuth(t *testing.T) {
	env := setupSessionTest(t)

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/iqc/sessions/current", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status without token = %d, want 401", w.Code)
	}
}

func TestNoSessionReturns404(t *testing.T) {
	env := setupSessionTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/iqc/sessions/current", nil, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestReselectReplacesSession(t *testing.T) {
	env := setupSessionTest(t)
	testutil.SeedTestLot(t, env.DB, 1, "BEL-12345", 150)
	testutil.SeedTestLot(t, env.DB, 2, "BEL-54321", 300)
	token := testutil.DefaultTestToken()

	testutil.DoRequest(env.Router, "POST", "/api/v1/iqc/sessions", map[string]interface{}{"slno": 1}, token)
	// Mutate the first session so replacement is observable
	testutil.DoRequest(env.Router, "PUT", "/api/v1/iqc/sessions/current/sampling-percent", map[string]interface{}{"value": "50"}, token)

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/iqc/sessions", map[string]interface{}{"slno": 2}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("reselect status = %d", w.Code)
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["part_number"] != "BEL-54321" {
		t.Errorf("part number = %v", data["part_number"])
	}
	// Back to defaults, previous edits discarded
	if data["sampling_percent"].(float64) != 10 {
		t.Errorf("sampling percent after reselect = %v, want 10", data["sampling_percent"])
	}
}

func TestHoldBlocksMeasurementEdits(t *testing.T) {
	env := setupSessionTest(t)
	testutil.SeedTestLot(t, env.DB, 1, "BEL-12345", 150)
	token := testutil.DefaultTestToken()

	testutil.DoRequest(env.Router, "POST", "/api/v1/iqc/sessions", map[string]interface{}{"slno": 1}, token)

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/iqc/sessions/current/hold", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("hold status = %d", w.Code)
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["indenter_intervention"] != true || data["process_on_hold"] != true {
		t.Errorf("hold flags = %v / %v, want both true", data["indenter_intervention"], data["process_on_hold"])
	}

	// Measurement edits are rejected with 409 while on hold
	w = testutil.DoRequest(env.Router, "PUT", "/api/v1/iqc/sessions/current/rows/0/dimension", map[string]interface{}{"value": "50"}, token)
	if w.Code != http.StatusConflict {
		t.Errorf("dimension edit on hold status = %d, want 409", w.Code)
	}
	w = testutil.DoRequest(env.Router, "PUT", "/api/v1/iqc/sessions/current/category", map[string]interface{}{"value": "Mechanical"}, token)
	if w.Code != http.StatusConflict {
		t.Errorf("category edit on hold status = %d, want 409", w.Code)
	}

	// Resume clears both flags and unblocks edits
	w = testutil.DoRequest(env.Router, "POST", "/api/v1/iqc/sessions/current/resume", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("resume status = %d", w.Code)
	}
	resp = testutil.ParseResponse(w)
	data = resp["data"].(map[string]interface{})
	if data["indenter_intervention"] != false || data["process_on_hold"] != false {
		t.Errorf("resume flags = %v / %v, want both false", data["indenter_intervention"], data["process_on_hold"])
	}

	w = testutil.DoRequest(env.Router, "PUT", "/api/v1/iqc/sessions/current/rows/0/dimension", map[string]interface{}{"value": "50"}, token)
	if w.Code != http.StatusOK {
		t.Errorf("dimension edit after resume status = %d", w.Code)
	}
}

func TestResultsEndpoint(t *testing.T) {
	env := setupSessionTest(t)
	testutil.SeedTestLot(t, env.DB, 1, "BEL-12345", 150)
	token := testutil.DefaultTestToken()

	testutil.DoRequest(env.Router, "POST", "/api/v1/iqc/sessions", map[string]interface{}{"slno": 1}, token)
	testutil.DoRequest(env.Router, "PUT", "/api/v1/iqc/sessions/current/rows/0/dimension", map[string]interface{}{"value": "50"}, token)
	testutil.DoRequest(env.Router, "PUT", "/api/v1/iqc/sessions/current/rows/0/observations/0", map[string]interface{}{"value": "50.30"}, token)
	testutil.DoRequest(env.Router, "PUT", "/api/v1/iqc/sessions/current/rows/0/observations/1", map[string]interface{}{"value": "50.31"}, token)

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/iqc/sessions/current/results", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("results status = %d", w.Code)
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	results := data["results"].([]interface{})
	if len(results) != 2 {
		t.Fatalf("results = %d entries, want 2", len(results))
	}
	summary := data["summary"].(map[string]interface{})
	if summary["accepted"].(float64) != 1 || summary["rejected"].(float64) != 1 {
		t.Errorf("summary = %v", summary)
	}
}

func TestDecisionValidationMessages(t *testing.T) {
	env := setupSessionTest(t)
	testutil.SeedTestLot(t, env.DB, 1, "BEL-12345", 150)
	token := testutil.DefaultTestToken()

	testutil.DoRequest(env.Router, "POST", "/api/v1/iqc/sessions", map[string]interface{}{"slno": 1}, token)

	// Inspector missing
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/iqc/sessions/current/decision", map[string]interface{}{"type": "accept"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	resp := testutil.ParseResponse(w)
	if resp["message"] != "Enter 'Inspected By' in the form." {
		t.Errorf("message = %v", resp["message"])
	}

	// Date missing
	testutil.DoRequest(env.Router, "PUT", "/api/v1/iqc/sessions/current", map[string]interface{}{"inspected_by": "R. Iyer"}, token)
	w = testutil.DoRequest(env.Router, "POST", "/api/v1/iqc/sessions/current/decision", map[string]interface{}{"type": "accept"}, token)
	resp = testutil.ParseResponse(w)
	if resp["message"] != "Enter Date." {
		t.Errorf("message = %v", resp["message"])
	}
}

func TestDecisionPersistsAndFlipsLot(t *testing.T) {
	env := setupSessionTest(t)
	testutil.SeedTestLot(t, env.DB, 1, "BEL-12345", 150)
	token := testutil.DefaultTestToken()

	testutil.DoRequest(env.Router, "POST", "/api/v1/iqc/sessions", map[string]interface{}{"slno": 1}, token)
	testutil.DoRequest(env.Router, "PUT", "/api/v1/iqc/sessions/current", map[string]interface{}{
		"inspected_by":    "R. Iyer",
		"inspection_date": "2025-01-18",
	}, token)
	testutil.DoRequest(env.Router, "PUT", "/api/v1/iqc/sessions/current/accepted", map[string]interface{}{"value": "12"}, token)

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/iqc/sessions/current/decision", map[string]interface{}{"type": "accept"}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("decision status = %d, body = %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["result"] != "accepted" {
		t.Errorf("result = %v", data["result"])
	}
	if data["rejected_in_sample"].(float64) != 3 {
		t.Errorf("rejected = %v, want 3", data["rejected_in_sample"])
	}

	// Lot status flipped
	lotRepo := repository.NewLotRepository(env.DB)
	lot, err := lotRepo.FindBySLNo(context.Background(), 1)
	if err != nil {
		t.Fatalf("FindBySLNo: %v", err)
	}
	if lot.Status != "accepted" {
		t.Errorf("lot status = %q, want accepted", lot.Status)
	}
}
