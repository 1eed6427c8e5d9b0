package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PeytonLeFleur/lamp-and-light/internal/aicache"
	"github.com/PeytonLeFleur/lamp-and-light/internal/catalog"
	"github.com/PeytonLeFleur/lamp-and-light/internal/connectivity"
	"github.com/PeytonLeFleur/lamp-and-light/internal/model"
	"github.com/PeytonLeFleur/lamp-and-light/internal/planner"
	"github.com/PeytonLeFleur/lamp-and-light/internal/platform/logger"
	"github.com/PeytonLeFleur/lamp-and-light/internal/recap"
	"github.com/PeytonLeFleur/lamp-and-light/internal/store"
	"github.com/PeytonLeFleur/lamp-and-light/internal/store/sqlite"
	"github.com/PeytonLeFleur/lamp-and-light/internal/streak"
)

type staticProvider struct{ calls int }

func (p *staticProvider) Generate(ctx context.Context, ref, text string, recent []string) (model.DevotionalContent, error) {
	p.calls++
	return model.DevotionalContent{
		Application: "Rest in God's presence today.",
		Prayer:      "Lord, be my refuge. Amen.",
		Challenge:   "Read the passage aloud once.",
	}, nil
}

type testEnv struct {
	srv      *httptest.Server
	store    store.Store
	provider *staticProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.New("test")

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "api_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.EnsureSchema(db))
	st := sqlite.New(db)

	cat, err := catalog.Load("")
	require.NoError(t, err)

	provider := &staticProvider{}
	orch := planner.New(planner.Options{
		Store:    st,
		Catalog:  cat,
		Cache:    aicache.NewMemoryCache(),
		Provider: provider,
		Net:      connectivity.Static(true),
		Log:      log,
	})
	streaks := streak.New(st.Profiles(), nil)
	recaps := recap.New(st, nil, log)

	pinger, ok := st.(Pinger)
	require.True(t, ok, "store must implement HealthPing")

	router := NewRouter(Handlers{
		Profiles: NewProfileHandler(st.Profiles()),
		Entries:  NewEntryHandler(st.Profiles(), st.Entries()),
		Plans:    NewPlanHandler(orch, st, streaks, cat, log),
		Recaps:   NewRecapHandler(recaps),
		Health:   NewHealthHandler(pinger, connectivity.Static(true)),
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, store: st, provider: provider}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, out.Bytes()
}

func (e *testEnv) createProfile(t *testing.T) model.Profile {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/api/profiles", map[string]string{
		"displayName": "Peyton",
		"goals":       "peace",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var p model.Profile
	require.NoError(t, json.Unmarshal(body, &p))
	require.NotEmpty(t, p.ProfileID)
	return p
}

func TestCreateAndGetProfile(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProfile(t)

	resp, body := env.do(t, http.MethodGet, "/api/profiles/"+p.ProfileID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got model.Profile
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "Peyton", got.DisplayName)

	resp, _ = env.do(t, http.MethodGet, "/api/profiles/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateProfile_Validation(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodPost, "/api/profiles", map[string]string{"displayName": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEntries_CreateAndList(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProfile(t)

	resp, body := env.do(t, http.MethodPost, "/api/profiles/"+p.ProfileID+"/entries", map[string]interface{}{
		"kind":    "prayer",
		"content": "Praying for calm before the exam.",
		"tags":    []string{"anxiety", "school"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, _ = env.do(t, http.MethodPost, "/api/profiles/"+p.ProfileID+"/entries", map[string]interface{}{
		"kind": "note", "content": "x",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, "/api/profiles/"+p.ProfileID+"/entries?days=30", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed struct {
		Entries []model.Entry `json:"entries"`
		Count   int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(body, &listed))
	assert.Equal(t, 1, listed.Count)
	assert.Equal(t, []string{"anxiety", "school"}, listed.Entries[0].Tags)

	resp, _ = env.do(t, http.MethodGet, "/api/profiles/"+p.ProfileID+"/entries?days=zero", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateToday_EndToEnd(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProfile(t)
	path := "/api/profiles/" + p.ProfileID + "/plans/today"

	resp, body := env.do(t, http.MethodPost, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var plan model.DailyPlan
	require.NoError(t, json.Unmarshal(body, &plan))
	assert.Equal(t, model.StatusActive, plan.Status)
	assert.NotEmpty(t, plan.ScriptureRef)
	assert.Equal(t, "Rest in God's presence today.", plan.Content.Application)

	// Second request returns the same plan without regenerating.
	resp, body = env.do(t, http.MethodPost, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var again model.DailyPlan
	require.NoError(t, json.Unmarshal(body, &again))
	assert.Equal(t, plan.PlanID, again.PlanID)
	assert.Equal(t, 1, env.provider.calls)

	resp, _ = env.do(t, http.MethodPost, "/api/profiles/nope/plans/today", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateStatus_ForwardOnlyAndStreak(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProfile(t)

	_, body := env.do(t, http.MethodPost, "/api/profiles/"+p.ProfileID+"/plans/today", nil)
	var plan model.DailyPlan
	require.NoError(t, json.Unmarshal(body, &plan))
	statusPath := "/api/profiles/" + p.ProfileID + "/plans/" + plan.PlanID + "/status"

	resp, body := env.do(t, http.MethodPatch, statusPath, map[string]string{"status": "started"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = env.do(t, http.MethodPatch, statusPath, map[string]string{"status": "done"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var updated model.DailyPlan
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, model.StatusDone, updated.Status)

	// Completion feeds the streak counters.
	prof, err := env.store.Profiles().Get(context.Background(), p.ProfileID)
	require.NoError(t, err)
	assert.Equal(t, 1, prof.StreakCount)
	assert.Equal(t, 1, prof.WeeklyCompleted)
	require.NotNil(t, prof.LastActive)

	// Backwards and repeated transitions are rejected.
	resp, _ = env.do(t, http.MethodPatch, statusPath, map[string]string{"status": "started"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp, _ = env.do(t, http.MethodPatch, statusPath, map[string]string{"status": "skipped"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPatch, statusPath, map[string]string{"status": "blessed"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPatch, "/api/profiles/"+p.ProfileID+"/plans/nope/status", map[string]string{"status": "done"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWhyPassage(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProfile(t)
	base := "/api/profiles/" + p.ProfileID

	// A journaled theme steers passage selection, so the explanation must
	// point back at that tag.
	resp, _ := env.do(t, http.MethodPost, base+"/entries", map[string]interface{}{
		"kind": "journal", "content": "Worried about the move.", "tags": []string{"anxiety"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, body := env.do(t, http.MethodPost, base+"/plans/today", nil)
	var plan model.DailyPlan
	require.NoError(t, json.Unmarshal(body, &plan))

	resp, body = env.do(t, http.MethodGet, base+"/plans/"+plan.PlanID+"/why", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var why struct {
		Reference string   `json:"reference"`
		Themes    []string `json:"themes"`
		Reasons   []string `json:"reasons"`
	}
	require.NoError(t, json.Unmarshal(body, &why))
	assert.Equal(t, plan.ScriptureRef, why.Reference)
	assert.NotEmpty(t, why.Themes)
	assert.Contains(t, why.Reasons, "anxiety")

	resp, _ = env.do(t, http.MethodGet, base+"/plans/nope/why", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListPlans(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProfile(t)
	env.do(t, http.MethodPost, "/api/profiles/"+p.ProfileID+"/plans/today", nil)

	from := time.Now().AddDate(0, 0, -7).Format("2006-01-02")
	to := time.Now().Format("2006-01-02")
	resp, body := env.do(t, http.MethodGet, "/api/profiles/"+p.ProfileID+"/plans?from="+from+"&to="+to, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var listed struct {
		Plans []model.DailyPlan `json:"plans"`
		Count int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(body, &listed))
	assert.Equal(t, 1, listed.Count)

	resp, _ = env.do(t, http.MethodGet, "/api/profiles/"+p.ProfileID+"/plans?from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateWeekRecap(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProfile(t)
	base := "/api/profiles/" + p.ProfileID

	env.do(t, http.MethodPost, base+"/entries", map[string]interface{}{
		"kind": "prayer", "content": "Thankful tonight.", "tags": []string{"gratitude"},
	})

	resp, body := env.do(t, http.MethodPost, base+"/recaps/week", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var rec model.WeeklyRecap
	require.NoError(t, json.Unmarshal(body, &rec))
	assert.Contains(t, rec.RecapMD, "# Weekly Walk Recap")
	assert.Contains(t, rec.RecapMD, "Prayers logged: 1")

	// Same week returns the stored recap.
	resp, body = env.do(t, http.MethodPost, base+"/recaps/week", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rec2 model.WeeklyRecap
	require.NoError(t, json.Unmarshal(body, &rec2))
	assert.Equal(t, rec.RecapID, rec2.RecapID)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &health))
	assert.Equal(t, "UP", health["status"])
	assert.Equal(t, true, health["aiOnline"])
}
