package form

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"coleta_portal_backend/platform/apperr"
	"coleta_portal_backend/platform/logger"
)

type fakeDirectory struct {
	mu          sync.Mutex
	regions     []string
	regionsErr  error
	regionCalls int
	cities      map[string][]string
	citiesErr   error
	cityCalls   []string
	gates       map[string]chan struct{}
}

func (d *fakeDirectory) Regions(context.Context) ([]string, error) {
	d.mu.Lock()
	d.regionCalls++
	d.mu.Unlock()
	return d.regions, d.regionsErr
}

func (d *fakeDirectory) Cities(_ context.Context, uf string) ([]string, error) {
	d.mu.Lock()
	d.cityCalls = append(d.cityCalls, uf)
	gate := d.gates[uf]
	d.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if d.citiesErr != nil {
		return nil, d.citiesErr
	}
	return d.cities[uf], nil
}

func (d *fakeDirectory) cityCallCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.cityCalls)
}

type fakeCatalog struct {
	items []Item
	err   error
}

func (c *fakeCatalog) Items(context.Context) ([]Item, error) {
	return c.items, c.err
}

type fakeRegistrar struct {
	mu      sync.Mutex
	err     error
	records []Record
}

func (r *fakeRegistrar) Register(_ context.Context, rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *fakeRegistrar) sent() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

func staticPosition(c Coordinate) PositionSource {
	return LocateFunc(func(context.Context) Coordinate { return c })
}

func testDeps(dir *fakeDirectory, cat *fakeCatalog, reg *fakeRegistrar, pos PositionSource) Deps {
	if pos == nil {
		pos = staticPosition(Coordinate{})
	}
	return Deps{
		Directory: dir,
		Catalog:   cat,
		Registrar: reg,
		Position:  pos,
		Logger:    logger.New("development"),
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestSessionStartLoadsReferenceData(t *testing.T) {
	dir := &fakeDirectory{regions: []string{"SP", "RJ"}}
	cat := &fakeCatalog{items: []Item{{ID: 1, Title: "Lâmpadas"}, {ID: 2, Title: "Pilhas"}}}
	s := NewSession(testDeps(dir, cat, &fakeRegistrar{}, staticPosition(Coordinate{Latitude: -23.5, Longitude: -46.6})))

	s.Start(context.Background())

	waitFor(t, func() bool {
		v := s.Snapshot()
		return v.RegionsLoaded && v.ItemsLoaded && v.Position.Latitude != 0
	})

	v := s.Snapshot()
	if !reflect.DeepEqual(v.Regions, []string{"SP", "RJ"}) {
		t.Errorf("regions = %v", v.Regions)
	}
	if len(v.Items) != 2 || v.Items[0].ID != 1 {
		t.Errorf("items = %v", v.Items)
	}
	if v.Position.Latitude != -23.5 || v.PositionSet {
		t.Errorf("position = %+v explicit=%v, want seeded device position", v.Position, v.PositionSet)
	}
}

func TestSessionStartFailuresDegradeToEmpty(t *testing.T) {
	dir := &fakeDirectory{regionsErr: errors.New("ibge down")}
	cat := &fakeCatalog{err: errors.New("catalog down")}
	s := NewSession(testDeps(dir, cat, &fakeRegistrar{}, nil))

	s.Start(context.Background())

	waitFor(t, func() bool {
		v := s.Snapshot()
		return v.RegionsLoaded && v.ItemsLoaded
	})

	v := s.Snapshot()
	if len(v.Regions) != 0 || len(v.Items) != 0 {
		t.Errorf("failed fetches did not degrade to empty: regions=%v items=%v", v.Regions, v.Items)
	}

	// The form stays usable.
	if !s.ToggleItem(3) {
		t.Error("toggle rejected after degraded start")
	}
	if !s.SetContactField(FieldName, "A") {
		t.Error("contact edit rejected after degraded start")
	}
}

func TestSessionStartIsOneShot(t *testing.T) {
	dir := &fakeDirectory{regions: []string{"SP"}}
	s := NewSession(testDeps(dir, &fakeCatalog{}, &fakeRegistrar{}, nil))

	s.Start(context.Background())
	s.Start(context.Background())

	waitFor(t, func() bool { return s.Snapshot().RegionsLoaded })
	time.Sleep(20 * time.Millisecond)

	dir.mu.Lock()
	calls := dir.regionCalls
	dir.mu.Unlock()
	if calls != 1 {
		t.Errorf("region list fetched %d times, want 1", calls)
	}
}

func TestSessionSelectRegionFetchesCities(t *testing.T) {
	dir := &fakeDirectory{cities: map[string][]string{"SP": {"Campinas", "Santos"}}}
	s := NewSession(testDeps(dir, &fakeCatalog{}, &fakeRegistrar{}, nil))

	s.SelectRegion(context.Background(), "SP")

	waitFor(t, func() bool { return s.Snapshot().CitiesReady })
	v := s.Snapshot()
	if !reflect.DeepEqual(v.Cities, []string{"Campinas", "Santos"}) {
		t.Errorf("cities = %v", v.Cities)
	}
}

func TestSessionSentinelRegionIssuesNoFetch(t *testing.T) {
	dir := &fakeDirectory{cities: map[string][]string{"SP": {"Campinas"}}}
	s := NewSession(testDeps(dir, &fakeCatalog{}, &fakeRegistrar{}, nil))

	s.SelectRegion(context.Background(), "SP")
	waitFor(t, func() bool { return s.Snapshot().CitiesReady })

	s.SelectRegion(context.Background(), NoRegion)

	v := s.Snapshot()
	if len(v.Cities) != 0 || v.CitiesReady {
		t.Errorf("sentinel selection left city state: %+v", v)
	}

	time.Sleep(20 * time.Millisecond)
	if got := dir.cityCallCount(); got != 1 {
		t.Errorf("city fetches = %d, want 1 (none for the sentinel)", got)
	}
}

func TestSessionStaleCityResponseDiscarded(t *testing.T) {
	gateA := make(chan struct{})
	dir := &fakeDirectory{
		cities: map[string][]string{"A": {"Old Town"}, "B": {"New Town"}},
		gates:  map[string]chan struct{}{"A": gateA},
	}
	s := NewSession(testDeps(dir, &fakeCatalog{}, &fakeRegistrar{}, nil))

	s.SelectRegion(context.Background(), "A")
	s.SelectRegion(context.Background(), "B")

	waitFor(t, func() bool { return s.Snapshot().CitiesReady })

	// Now let the fetch for "A" resolve, after "B" is already selected.
	close(gateA)
	time.Sleep(50 * time.Millisecond)

	v := s.Snapshot()
	if v.SelectedUF != "B" {
		t.Fatalf("selected UF = %q", v.SelectedUF)
	}
	if !reflect.DeepEqual(v.Cities, []string{"New Town"}) {
		t.Errorf("stale response overwrote the city list: %v", v.Cities)
	}
}

func TestSessionSubmitPayloadAndReset(t *testing.T) {
	dir := &fakeDirectory{
		regions: []string{"SP"},
		cities:  map[string][]string{"SP": {"Campinas"}},
	}
	cat := &fakeCatalog{items: []Item{{ID: 2, Title: "Papel"}, {ID: 5, Title: "Óleo"}}}
	reg := &fakeRegistrar{}
	s := NewSession(testDeps(dir, cat, reg, staticPosition(Coordinate{Latitude: -22, Longitude: -47})))

	s.Start(context.Background())
	waitFor(t, func() bool {
		v := s.Snapshot()
		return v.RegionsLoaded && v.ItemsLoaded
	})

	s.SetContactField(FieldName, "A")
	s.SetContactField(FieldEmail, "a@b.c")
	s.SetContactField(FieldPhone, "123")
	s.SelectRegion(context.Background(), "SP")
	waitFor(t, func() bool { return s.Snapshot().CitiesReady })
	s.SelectCity("Campinas")
	s.SelectPosition(Coordinate{Latitude: -22.9, Longitude: -47.0})
	s.ToggleItem(2)
	s.ToggleItem(5)

	if err := s.Submit(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	sent := reg.sent()
	if len(sent) != 1 {
		t.Fatalf("registrar called %d times, want exactly 1", len(sent))
	}
	want := Record{
		Name: "A", Email: "a@b.c", Phone: "123",
		UF: "SP", City: "Campinas",
		Latitude: -22.9, Longitude: -47.0,
		Items: []int{2, 5},
	}
	if !reflect.DeepEqual(sent[0], want) {
		t.Errorf("record = %+v, want %+v", sent[0], want)
	}

	// Success resets to initial defaults; reference data is kept.
	v := s.Snapshot()
	if v.Contact != (Contact{}) {
		t.Errorf("contact not reset: %+v", v.Contact)
	}
	if len(v.SelectedItems) != 0 {
		t.Errorf("selection not reset: %v", v.SelectedItems)
	}
	if v.SelectedUF != NoRegion || v.ChosenCity != "" || len(v.Cities) != 0 {
		t.Errorf("region selection not reset: %+v", v)
	}
	if v.PositionSet || v.Position.Latitude != -22 {
		t.Errorf("position not back at the seeded default: %+v", v)
	}
	if len(v.Regions) != 1 || len(v.Items) != 2 {
		t.Error("reset dropped session reference data")
	}
}

func TestSessionSubmitFailureKeepsState(t *testing.T) {
	reg := &fakeRegistrar{err: errors.New("503 from registration service")}
	s := NewSession(testDeps(&fakeDirectory{}, &fakeCatalog{}, reg, nil))

	s.SetContactField(FieldName, "A")
	s.ToggleItem(9)
	s.SelectPosition(Coordinate{Latitude: 1, Longitude: 2})

	err := s.Submit(context.Background())
	if err == nil {
		t.Fatal("submit reported success on registrar failure")
	}
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Errorf("error kind = %v, want KindUnavailable", apperr.GetKind(err))
	}

	v := s.Snapshot()
	if v.Contact.Name != "A" || len(v.SelectedItems) != 1 || !v.PositionSet {
		t.Errorf("failed submit cleared state: %+v", v)
	}
}
