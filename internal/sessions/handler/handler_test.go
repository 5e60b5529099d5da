package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"coleta_portal_backend/internal/events"
	"coleta_portal_backend/internal/form"
	"coleta_portal_backend/internal/geo"
	"coleta_portal_backend/internal/sessions/service"
	"coleta_portal_backend/internal/sessions/transport"
	"coleta_portal_backend/platform/logger"
	"coleta_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type stubDirectory struct{}

func (stubDirectory) Regions(context.Context) ([]string, error) {
	return []string{"MG", "SP"}, nil
}

func (stubDirectory) Cities(_ context.Context, uf string) ([]string, error) {
	if uf == "SP" {
		return []string{"Campinas", "Santos"}, nil
	}
	return nil, nil
}

type stubCatalog struct{}

func (stubCatalog) Items(context.Context) ([]form.Item, error) {
	return []form.Item{{ID: 1, Title: "Lâmpadas"}, {ID: 2, Title: "Pilhas e Baterias"}}, nil
}

type stubRegistrar struct {
	mu  sync.Mutex
	err error
}

func (r *stubRegistrar) Register(context.Context, form.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *stubRegistrar) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func newTestRouter(t *testing.T) (*gin.Engine, *stubRegistrar) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New("development")
	registrar := &stubRegistrar{}
	svc := service.New(
		service.NewRegistry(time.Minute, log),
		stubDirectory{},
		stubCatalog{},
		registrar,
		geo.NewLocator(nil, form.Coordinate{Latitude: -23.55, Longitude: -46.63}, log),
		events.NewInMemoryBus(log),
		log,
	)
	h := New(svc, validator.New())

	engine := gin.New()
	group := engine.Group("/api/v1/sessions")
	group.POST("", h.Start)
	h.RegisterRoutes(group)
	return engine, registrar
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, engine *gin.Engine) string {
	t.Helper()
	rec := doJSON(t, engine, http.MethodPost, "/api/v1/sessions", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session status = %d, want 201", rec.Code)
	}
	var resp transport.SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if resp.ID == "" {
		t.Fatal("create response has no session id")
	}
	return resp.ID
}

func TestStartWithoutBody(t *testing.T) {
	engine, _ := newTestRouter(t)
	createSession(t, engine)
}

func TestStartWithCoordinateBody(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/sessions", `{"latitude":-22.9,"longitude":-47.0}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
}

func TestStartWithChunkedCoordinateBody(t *testing.T) {
	engine, _ := newTestRouter(t)

	// io.Reader that is not a bytes/strings reader leaves ContentLength at -1,
	// as a chunked request would.
	body := io.MultiReader(strings.NewReader(`{"latitude":-22.9,"longitude":-47.0}`))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	var resp transport.SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	// The posted coordinate seeds the map once the position fetch applies.
	deadline := time.Now().Add(2 * time.Second)
	for {
		get := doJSON(t, engine, http.MethodGet, "/api/v1/sessions/"+resp.ID, "")
		var state transport.SessionResponse
		if err := json.Unmarshal(get.Body.Bytes(), &state); err != nil {
			t.Fatalf("decode get response: %v", err)
		}
		if state.State.Position.Latitude == -22.9 && state.State.Position.Longitude == -47.0 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("posted coordinate never applied, position = %+v", state.State.Position)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStartRejectsOutOfRangeCoordinate(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/sessions", `{"latitude":120,"longitude":-47.0}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestMalformedSessionID(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec := doJSON(t, engine, http.MethodGet, "/api/v1/sessions/not-a-uuid", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUnknownSessionIs404(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec := doJSON(t, engine, http.MethodGet, "/api/v1/sessions/6a6e5a6e-ffc4-4f4e-9c19-8ef8a851a9c1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSetContactValidation(t *testing.T) {
	engine, _ := newTestRouter(t)
	id := createSession(t, engine)

	rec := doJSON(t, engine, http.MethodPut, "/api/v1/sessions/"+id+"/contact", `{"field":"website","value":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown field status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, engine, http.MethodPut, "/api/v1/sessions/"+id+"/contact", `{"field":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, engine, http.MethodPut, "/api/v1/sessions/"+id+"/contact", `{"field":"name","value":"Ecoponto Centro"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid field status = %d, want 200", rec.Code)
	}
	var resp transport.SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.State.Contact.Name != "Ecoponto Centro" {
		t.Errorf("Name = %q after set", resp.State.Contact.Name)
	}
}

func TestToggleItemRejectsNonNumericID(t *testing.T) {
	engine, _ := newTestRouter(t)
	id := createSession(t, engine)

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/sessions/"+id+"/items/two/toggle", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/sessions/"+id+"/items/2/toggle", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp transport.ToggleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Selected || resp.ItemID != 2 {
		t.Errorf("toggle response = %+v", resp)
	}
}

func TestSubmitSuccessAndUpstreamFailure(t *testing.T) {
	engine, registrar := newTestRouter(t)
	id := createSession(t, engine)

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/sessions/"+id+"/submit", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("submit status = %d, want 204", rec.Code)
	}

	registrar.fail(context.DeadlineExceeded)
	rec = doJSON(t, engine, http.MethodPost, "/api/v1/sessions/"+id+"/submit", "")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("failed submit status = %d, want 502", rec.Code)
	}
}

func TestDiscardThenGet(t *testing.T) {
	engine, _ := newTestRouter(t)
	id := createSession(t, engine)

	rec := doJSON(t, engine, http.MethodDelete, "/api/v1/sessions/"+id, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("discard status = %d, want 204", rec.Code)
	}

	rec = doJSON(t, engine, http.MethodGet, "/api/v1/sessions/"+id, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after discard status = %d, want 404", rec.Code)
	}
}
