package form

// NoRegion is the sentinel region code meaning "none selected".
const NoRegion = "0"

// RegionCascade owns the two-level dependent region selection: the top-level
// UF list (fetched once per session) and the city list scoped to the selected
// UF. Changing the selected UF always discards the previous city list and the
// chosen city. The store itself is synchronous; Session issues the fetches and
// applies their results, carrying the UF each city fetch was issued for so
// stale responses can be discarded.
type RegionCascade struct {
	regions       []string
	regionsLoaded bool

	selected    string
	cities      []string
	citiesReady bool
	chosenCity  string
}

// NewRegionCascade creates a cascade with nothing selected.
func NewRegionCascade() *RegionCascade {
	return &RegionCascade{selected: NoRegion}
}

// ApplyRegions records the top-level UF list. The list is fetched at most once
// per session; a failed fetch applies an empty list and there is no retry.
func (r *RegionCascade) ApplyRegions(list []string) {
	r.regions = list
	r.regionsLoaded = true
}

// RegionsLoaded reports whether the top-level fetch has resolved.
func (r *RegionCascade) RegionsLoaded() bool {
	return r.regionsLoaded
}

// Regions returns the top-level UF codes in fetch order.
func (r *RegionCascade) Regions() []string {
	out := make([]string, len(r.regions))
	copy(out, r.regions)
	return out
}

// SelectRegion sets the selected UF and invalidates everything scoped to the
// previous one: the city list and the chosen city. The caller is responsible
// for issuing the city fetch when code is not NoRegion.
func (r *RegionCascade) SelectRegion(code string) {
	r.selected = code
	r.cities = nil
	r.citiesReady = false
	r.chosenCity = ""
}

// SelectedRegion returns the currently selected UF code.
func (r *RegionCascade) SelectedRegion() string {
	return r.selected
}

// ApplyCities records the city list for the UF the fetch was issued under.
// If the selection has moved on since, the response is stale and is discarded;
// the return value reports whether the list was applied.
func (r *RegionCascade) ApplyCities(uf string, list []string) bool {
	if uf != r.selected {
		return false
	}
	r.cities = list
	r.citiesReady = true
	return true
}

// CitiesReady reports whether the city list for the current UF has resolved.
func (r *RegionCascade) CitiesReady() bool {
	return r.citiesReady
}

// Cities returns the city names scoped to the selected UF.
func (r *RegionCascade) Cities() []string {
	out := make([]string, len(r.cities))
	copy(out, r.cities)
	return out
}

// SelectCity records the chosen city name.
func (r *RegionCascade) SelectCity(name string) {
	r.chosenCity = name
}

// ChosenCity returns the chosen city name, empty if none.
func (r *RegionCascade) ChosenCity() string {
	return r.chosenCity
}

// Reset clears the selection state while keeping the already-fetched top-level
// list, which is session-scoped reference data.
func (r *RegionCascade) Reset() {
	r.SelectRegion(NoRegion)
}
