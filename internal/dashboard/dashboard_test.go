package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Girder/internal/auth"
	"Girder/internal/material"
	"Girder/internal/register"
	"Girder/internal/repo"
	"Girder/internal/session"
)

func testStore() *session.Store {
	return session.NewStore(zerolog.Nop(), time.Hour)
}

func testCatalog(t *testing.T) *material.Catalog {
	t.Helper()
	c, err := material.Load("")
	require.NoError(t, err)
	return c
}

// doJSON posts a JSON body to a handler, carrying the session cookie across
// calls the way a browser would.
func doJSON(t *testing.T, h http.HandlerFunc, method, target, body string, cookie *http.Cookie) (*httptest.ResponseRecorder, *http.Cookie) {
	t.Helper()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("{}")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h(rec, req)

	out := cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "register_session" {
			out = c
		}
	}
	return rec, out
}

func TestLoads_AddAndSummary(t *testing.T) {
	h := &LoadsHandler{Sessions: testStore(), Log: zerolog.Nop()}

	rec, cookie := doJSON(t, h.AddPoint, http.MethodPost, "/tools/loads/point",
		`{"magnitude_kn":10,"distance_m":2}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, cookie, "first contact must issue a session cookie")

	var added register.Load
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))
	assert.InDelta(t, 90.0, added.AngleDeg, 1e-9, "angle defaults to 90")
	assert.InDelta(t, 20.0, added.MomentKNM, 1e-9)

	rec, _ = doJSON(t, h.AddDistributed, http.MethodPost, "/tools/loads/distributed",
		`{"intensity_kn_m":5,"start_m":0,"end_m":4}`, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = doJSON(t, h.Summary, http.MethodGet, "/tools/loads/summary", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var sum summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.Equal(t, 2, sum.Count)
	assert.InDelta(t, 60.0, sum.TotalMomentKNM, 1e-9)
	assert.InDelta(t, 30.0, sum.TotalForceKN, 1e-9)
	assert.InDelta(t, 15.0, sum.AppliedLoadKN, 1e-9)
}

func TestLoads_InvalidInputLeavesRegisterUntouched(t *testing.T) {
	h := &LoadsHandler{Sessions: testStore(), Log: zerolog.Nop()}

	rec, cookie := doJSON(t, h.AddPoint, http.MethodPost, "/tools/loads/point",
		`{"magnitude_kn":-1,"distance_m":2}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, h.AddDistributed, http.MethodPost, "/tools/loads/distributed",
		`{"intensity_kn_m":5,"start_m":4,"end_m":4}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, h.Summary, http.MethodGet, "/tools/loads/summary", "", cookie)
	var sum summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.Equal(t, 0, sum.Count)
}

func TestLoads_SessionsAreIsolated(t *testing.T) {
	h := &LoadsHandler{Sessions: testStore(), Log: zerolog.Nop()}

	_, alice := doJSON(t, h.AddPoint, http.MethodPost, "/x", `{"magnitude_kn":10,"distance_m":2}`, nil)
	_, bob := doJSON(t, h.Summary, http.MethodGet, "/x", "", nil)
	require.NotEqual(t, alice.Value, bob.Value)

	rec, _ := doJSON(t, h.Summary, http.MethodGet, "/x", "", bob)
	var sum summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.Equal(t, 0, sum.Count)
}

func TestLoads_ResetAndList(t *testing.T) {
	h := &LoadsHandler{Sessions: testStore(), Log: zerolog.Nop()}

	_, cookie := doJSON(t, h.AddPoint, http.MethodPost, "/x", `{"magnitude_kn":10,"distance_m":2}`, nil)

	rec, _ := doJSON(t, h.List, http.MethodGet, "/x", "", cookie)
	var loads []register.Load
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loads))
	assert.Len(t, loads, 1)

	rec, _ = doJSON(t, h.Reset, http.MethodPost, "/x", "", cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = doJSON(t, h.List, http.MethodGet, "/x", "", cookie)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loads))
	assert.Len(t, loads, 0)
}

func TestLoads_Diagram(t *testing.T) {
	h := &LoadsHandler{Sessions: testStore(), Log: zerolog.Nop()}
	_, cookie := doJSON(t, h.AddPoint, http.MethodPost, "/x", `{"magnitude_kn":10,"distance_m":2}`, nil)

	rec, _ := doJSON(t, h.Diagram, http.MethodPost, "/x", `{"span_m":10,"samples":11}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var pts []register.DiagramPoint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pts))
	require.Len(t, pts, 11)
	assert.InDelta(t, 20.0, pts[10].MomentKNM, 1e-9)

	rec, _ = doJSON(t, h.Diagram, http.MethodPost, "/x", `{"span_m":-1}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoads_DiagramRenderings(t *testing.T) {
	h := &LoadsHandler{Sessions: testStore(), Log: zerolog.Nop()}
	_, cookie := doJSON(t, h.AddPoint, http.MethodPost, "/x", `{"magnitude_kn":10,"distance_m":2}`, nil)

	rec, _ := doJSON(t, h.DiagramPNG, http.MethodPost, "/x", `{"span_m":10}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte{0x89, 'P', 'N', 'G'}))

	rec, _ = doJSON(t, h.DiagramASCII, http.MethodPost, "/x", `{"span_m":10}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Moment")
}

func TestSection_Calc(t *testing.T) {
	h := &SectionHandler{}

	rec, _ := doJSON(t, h.Calc, http.MethodPost, "/x",
		`{"shape":"rectangular","width_m":0.3,"height_m":0.5}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var res sectionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.InDelta(t, 0.15, res.AreaM2, 1e-9)
	assert.InDelta(t, 0.0125, res.ModulusM3, 1e-9)
	assert.Len(t, res.Outline, 5)

	rec, _ = doJSON(t, h.Calc, http.MethodPost, "/x",
		`{"shape":"rectangular","width_m":0,"height_m":0.5}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChecks_Stress(t *testing.T) {
	store := testStore()
	loads := &LoadsHandler{Sessions: store, Log: zerolog.Nop()}
	h := &ChecksHandler{Sessions: store, Catalog: testCatalog(t)}

	_, cookie := doJSON(t, loads.AddPoint, http.MethodPost, "/x", `{"magnitude_kn":10,"distance_m":2}`, nil)

	rec, _ := doJSON(t, h.Stress, http.MethodPost, "/x",
		`{"shape":"rectangular","width_m":0.3,"height_m":0.5,"material":"Steel S235"}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var res stressResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.InDelta(t, 20.0, res.TotalMomentKNM, 1e-9)
	assert.InDelta(t, 1.6e6, res.StressPa, 1)
	assert.True(t, res.OK)
}

func TestChecks_StressWoodRejected(t *testing.T) {
	store := testStore()
	h := &ChecksHandler{Sessions: store, Catalog: testCatalog(t)}

	rec, _ := doJSON(t, h.Stress, http.MethodPost, "/x",
		`{"shape":"rectangular","width_m":0.3,"height_m":0.5,"material":"Timber C24"}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestChecks_StressUnknownMaterial(t *testing.T) {
	h := &ChecksHandler{Sessions: testStore(), Catalog: testCatalog(t)}
	rec, _ := doJSON(t, h.Stress, http.MethodPost, "/x",
		`{"shape":"rectangular","width_m":0.3,"height_m":0.5,"material":"Adamantium"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChecks_Deflection(t *testing.T) {
	store := testStore()
	loads := &LoadsHandler{Sessions: store, Log: zerolog.Nop()}
	h := &ChecksHandler{Sessions: store, Catalog: testCatalog(t)}

	_, cookie := doJSON(t, loads.AddPoint, http.MethodPost, "/x", `{"magnitude_kn":10,"distance_m":2}`, nil)

	rec, _ := doJSON(t, h.Deflection, http.MethodPost, "/x",
		`{"span_m":6,"material":"Concrete C25/30","shape":"rectangular","width_m":0.3,"height_m":0.5}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		DeflectionM float64 `json:"deflection_m"`
		AllowableM  float64 `json:"allowable_m"`
		OK          bool    `json:"ok"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.InDelta(t, 0.012, res.AllowableM, 1e-9)
	assert.True(t, res.OK)
}

func TestStability_Calc(t *testing.T) {
	store := testStore()
	loads := &LoadsHandler{Sessions: store, Log: zerolog.Nop()}
	h := &StabilityHandler{Sessions: store}

	_, cookie := doJSON(t, loads.AddPoint, http.MethodPost, "/x", `{"magnitude_kn":25,"distance_m":2}`, nil)

	rec, _ := doJSON(t, h.Calc, http.MethodPost, "/x", `{"ultimate_load_kn":50}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var res stabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.InDelta(t, 2.0, res.SafetyCoefficient, 1e-9)
	assert.Equal(t, "excellent", string(res.Rating))
	assert.Len(t, res.LoadDeformation, 50)
	assert.Len(t, res.Interaction, 50)
	assert.InDelta(t, 50.0, res.DesignPoint.X, 1e-9)
	assert.InDelta(t, 200.0, res.DesignPoint.Y, 1e-9)
}

func TestStability_EmptyRegisterUnbounded(t *testing.T) {
	h := &StabilityHandler{Sessions: testStore()}

	rec, _ := doJSON(t, h.Calc, http.MethodPost, "/x", `{"ultimate_load_kn":50}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var res stabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Unbounded)
}

func TestExport_CSV(t *testing.T) {
	store := testStore()
	loads := &LoadsHandler{Sessions: store, Log: zerolog.Nop()}
	h := &ExportHandler{Sessions: store, Log: zerolog.Nop()}

	_, cookie := doJSON(t, loads.AddPoint, http.MethodPost, "/x", `{"magnitude_kn":10,"distance_m":2}`, nil)

	rec, _ := doJSON(t, h.CSV, http.MethodGet, "/x", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "point,10,2")
}

func TestExport_XLSX(t *testing.T) {
	store := testStore()
	loads := &LoadsHandler{Sessions: store, Log: zerolog.Nop()}
	h := &ExportHandler{Sessions: store, Log: zerolog.Nop()}

	_, cookie := doJSON(t, loads.AddPoint, http.MethodPost, "/x", `{"magnitude_kn":10,"distance_m":2}`, nil)

	rec, _ := doJSON(t, h.XLSX, http.MethodGet, "/x", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	// xlsx is a zip container
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte{'P', 'K'}))
}

func TestReport_Generate(t *testing.T) {
	store := testStore()
	loads := &LoadsHandler{Sessions: store, Log: zerolog.Nop()}
	h := &ReportHandler{Sessions: store, Catalog: testCatalog(t)}

	_, cookie := doJSON(t, loads.AddPoint, http.MethodPost, "/x", `{"magnitude_kn":10,"distance_m":2}`, nil)

	body := `{"project":"Overpass A7","material":"Steel S235","shape":"rectangular",
		"width_m":0.3,"height_m":0.5,"span_m":6,"ultimate_load_kn":50}`
	rec, _ := doJSON(t, h.Generate, http.MethodPost, "/x", body, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

type memRepo struct {
	projects map[int]repo.Project
	nextID   int
}

func newMemRepo() *memRepo {
	return &memRepo{projects: make(map[int]repo.Project), nextID: 1}
}

func (m *memRepo) CreateUser(context.Context, string, string, string) (int, error) { return 1, nil }
func (m *memRepo) GetByLogin(context.Context, string) (int, string, error)         { return 1, "", nil }

func (m *memRepo) SaveProject(_ context.Context, userID int, name string, loads []register.Load) (int, error) {
	id := m.nextID
	m.nextID++
	m.projects[id] = repo.Project{ID: id, Name: name, Loads: loads, CreatedAt: time.Now()}
	return id, nil
}

func (m *memRepo) ListProjects(context.Context, int) ([]repo.Project, error) {
	var out []repo.Project
	for _, p := range m.projects {
		out = append(out, repo.Project{ID: p.ID, Name: p.Name, CreatedAt: p.CreatedAt})
	}
	return out, nil
}

func (m *memRepo) GetProject(_ context.Context, _ int, projectID int) (repo.Project, error) {
	p, ok := m.projects[projectID]
	if !ok {
		return repo.Project{}, repo.ErrNotFound
	}
	return p, nil
}

func authContext(ctx context.Context, userID int, login string) context.Context {
	return auth.WithUser(ctx, userID, login)
}

func authedRequest(method, target, body string, cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req.WithContext(authContext(req.Context(), 1, "mason"))
}

func TestProjects_SaveAndReload(t *testing.T) {
	store := testStore()
	loads := &LoadsHandler{Sessions: store, Log: zerolog.Nop()}
	h := &ProjectsHandler{Sessions: store, Repo: newMemRepo(), Log: zerolog.Nop()}

	_, cookie := doJSON(t, loads.AddPoint, http.MethodPost, "/x", `{"magnitude_kn":10,"distance_m":2}`, nil)

	rec := httptest.NewRecorder()
	h.Save(rec, authedRequest(http.MethodPost, "/projects", `{"name":"bridge"}`, cookie))
	require.Equal(t, http.StatusCreated, rec.Code)

	var saved saveProjectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))

	// wipe the session, then restore from the snapshot
	_, _ = doJSON(t, loads.Reset, http.MethodPost, "/x", "", cookie)

	router := mux.NewRouter()
	router.HandleFunc("/projects/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		h.Load(w, r.WithContext(authContext(r.Context(), 1, "mason")))
	}).Methods("GET")

	req := httptest.NewRequest(http.MethodGet, "/projects/1", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec2, _ := doJSON(t, loads.Summary, http.MethodGet, "/x", "", cookie)
	var sum summaryResponse
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &sum))
	assert.Equal(t, 1, sum.Count)
	assert.InDelta(t, 20.0, sum.TotalMomentKNM, 1e-9)
}

func TestProjects_SaveEmptyRejected(t *testing.T) {
	h := &ProjectsHandler{Sessions: testStore(), Repo: newMemRepo(), Log: zerolog.Nop()}
	rec := httptest.NewRecorder()
	h.Save(rec, authedRequest(http.MethodPost, "/projects", `{"name":"bridge"}`, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjects_NotFound(t *testing.T) {
	h := &ProjectsHandler{Sessions: testStore(), Repo: newMemRepo(), Log: zerolog.Nop()}

	router := mux.NewRouter()
	router.HandleFunc("/projects/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		h.Load(w, r.WithContext(authContext(r.Context(), 1, "mason")))
	}).Methods("GET")

	req := httptest.NewRequest(http.MethodGet, "/projects/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
