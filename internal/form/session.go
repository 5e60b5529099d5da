package form

import (
	"context"
	"sync"

	"coleta_portal_backend/platform/apperr"
	"coleta_portal_backend/platform/logger"
)

// Directory resolves administrative divisions: top-level UF codes and the city
// names scoped to one UF.
type Directory interface {
	Regions(ctx context.Context) ([]string, error)
	Cities(ctx context.Context, uf string) ([]string, error)
}

// CatalogSource fetches the static list of selectable item categories.
type CatalogSource interface {
	Items(ctx context.Context) ([]Item, error)
}

// Registrar sends a completed record to the registration endpoint. It is
// invoked exactly once per submit attempt; retrying is the operator's call.
type Registrar interface {
	Register(ctx context.Context, rec Record) error
}

// PositionSource yields a best-effort initial coordinate. Implementations
// must not fail: on any error they return a default coordinate instead.
type PositionSource interface {
	Locate(ctx context.Context) Coordinate
}

// LocateFunc adapts a function to the PositionSource interface.
type LocateFunc func(ctx context.Context) Coordinate

// Locate calls the underlying function.
func (f LocateFunc) Locate(ctx context.Context) Coordinate {
	return f(ctx)
}

// Deps bundles the collaborators a Session needs.
type Deps struct {
	Directory Directory
	Catalog   CatalogSource
	Registrar Registrar
	Position  PositionSource
	Logger    *logger.Logger
}

// Session composes the form stores into one consistent, submittable unit.
//
// Every operator action takes the session mutex synchronously, and every
// asynchronous fetch takes it before applying its result, so no two updates
// interleave their effects. The stores themselves stay plain and
// deterministic; Session is their sole mutator.
type Session struct {
	mu sync.Mutex

	contact   *ContactFields
	selection *ItemSelection
	cascade   *RegionCascade
	position  *MapPosition

	items       []Item
	itemsLoaded bool

	started bool

	deps Deps
	log  *logger.Logger
}

// NewSession creates a session with all stores at their initial defaults.
func NewSession(deps Deps) *Session {
	return &Session{
		contact:   NewContactFields(),
		selection: NewItemSelection(),
		cascade:   NewRegionCascade(),
		position:  NewMapPosition(Coordinate{}),
		deps:      deps,
		log:       deps.Logger,
	}
}

// Start issues the three independent initialization fetches: device position,
// the top-level UF list, and the item catalog. Each runs concurrently, applies
// its result under the session lock, and recovers from failure locally (empty
// list or default coordinate). Start never blocks on the fetches and is a
// no-op after the first call.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go s.locate(ctx)
	go s.loadRegions(ctx)
	go s.loadCatalog(ctx)
}

func (s *Session) locate(ctx context.Context) {
	pos := s.deps.Position.Locate(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.position.Seed(pos)
}

func (s *Session) loadRegions(ctx context.Context) {
	list, err := s.deps.Directory.Regions(ctx)
	if err != nil {
		s.log.CollaboratorError("region_directory", "regions", err)
		list = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cascade.ApplyRegions(list)
}

func (s *Session) loadCatalog(ctx context.Context) {
	items, err := s.deps.Catalog.Items(ctx)
	if err != nil {
		s.log.CollaboratorError("item_catalog", "items", err)
		items = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.itemsLoaded = true
}

// SetContactField overwrites one contact field. It reports false for unknown
// field names.
func (s *Session) SetContactField(field, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contact.Set(field, value)
}

// SelectRegion sets the selected UF, discards the previous city list and
// chosen city, and, unless code is NoRegion, issues the dependent city fetch.
// The fetch carries the UF it was issued for; a response arriving after the
// selection has changed again is discarded.
func (s *Session) SelectRegion(ctx context.Context, code string) {
	s.mu.Lock()
	s.cascade.SelectRegion(code)
	s.mu.Unlock()

	if code == NoRegion {
		return
	}
	go s.loadCities(ctx, code)
}

func (s *Session) loadCities(ctx context.Context, uf string) {
	list, err := s.deps.Directory.Cities(ctx, uf)
	if err != nil {
		s.log.CollaboratorError("region_directory", "cities", err)
		list = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cascade.ApplyCities(uf, list) {
		s.log.Debug("stale city list discarded", "uf", uf, "selected", s.cascade.SelectedRegion())
	}
}

// SelectCity records the chosen city name.
func (s *Session) SelectCity(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cascade.SelectCity(name)
}

// SelectPosition records an explicit map click.
func (s *Session) SelectPosition(c Coordinate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position.Select(c)
}

// ToggleItem flips membership of the item id and returns the new state.
func (s *Session) ToggleItem(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Toggle(id)
}

// Submit assembles the record from a synchronously-taken snapshot of every
// store, sends it once, and on success resets the session for a fresh entry.
// On failure nothing is reset; the operator decides whether to resubmit.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	rec := s.assembleLocked()
	s.mu.Unlock()

	if err := s.deps.Registrar.Register(ctx, rec); err != nil {
		s.log.CollaboratorError("registration", "register", err)
		return apperr.Wrap(apperr.KindUnavailable, "point registration failed", err)
	}

	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()
	return nil
}

func (s *Session) assembleLocked() Record {
	contact := s.contact.Snapshot()
	pos := s.position.Current()
	return Record{
		Name:      contact.Name,
		Email:     contact.Email,
		Phone:     contact.Phone,
		UF:        s.cascade.SelectedRegion(),
		City:      s.cascade.ChosenCity(),
		Latitude:  pos.Latitude,
		Longitude: pos.Longitude,
		Items:     s.selection.Snapshot(),
	}
}

// resetLocked returns every store to its initial default. Reference data
// fetched once per session (the UF list and the item catalog) is kept.
func (s *Session) resetLocked() {
	s.contact.Reset()
	s.selection.Reset()
	s.cascade.Reset()
	s.position.Reset()
}

// View is a read-only snapshot of everything the operator-facing form renders.
// The loaded flags let the frontend distinguish "still loading" from
// "resolved empty".
type View struct {
	Contact       Contact    `json:"contact"`
	Regions       []string   `json:"ufs"`
	RegionsLoaded bool       `json:"ufsLoaded"`
	SelectedUF    string     `json:"selectedUf"`
	Cities        []string   `json:"cities"`
	CitiesReady   bool       `json:"citiesReady"`
	ChosenCity    string     `json:"chosenCity"`
	Items         []Item     `json:"items"`
	ItemsLoaded   bool       `json:"itemsLoaded"`
	SelectedItems []int      `json:"selectedItems"`
	Position      Coordinate `json:"position"`
	PositionSet   bool       `json:"positionSet"`
}

// Snapshot returns a consistent view of the whole session.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]Item, len(s.items))
	copy(items, s.items)

	return View{
		Contact:       s.contact.Snapshot(),
		Regions:       s.cascade.Regions(),
		RegionsLoaded: s.cascade.RegionsLoaded(),
		SelectedUF:    s.cascade.SelectedRegion(),
		Cities:        s.cascade.Cities(),
		CitiesReady:   s.cascade.CitiesReady(),
		ChosenCity:    s.cascade.ChosenCity(),
		Items:         items,
		ItemsLoaded:   s.itemsLoaded,
		SelectedItems: s.selection.Snapshot(),
		Position:      s.position.Current(),
		PositionSet:   s.position.Explicit(),
	}
}
