package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	handler "github.com/bytefixx/gridcalc/internal/adapters/http"
	"github.com/bytefixx/gridcalc/internal/core/domain"
	"github.com/bytefixx/gridcalc/internal/core/usecases"
	"github.com/bytefixx/gridcalc/internal/core/zones"
)

// ---- Fakes ----

type fakeTransformer struct {
	transformFn func(ctx context.Context, src, dst domain.CRS, x, y float64) (float64, float64, error)
}

func (f *fakeTransformer) Transform(ctx context.Context, src, dst domain.CRS, x, y float64) (float64, float64, error) {
	if f.transformFn != nil {
		return f.transformFn(ctx, src, dst, x, y)
	}
	// Geographic targets get a point near Dehradun, grids a fixed easting/northing.
	if dst == domain.WGS84 {
		return 78.0322, 30.3165, nil
	}
	return 3877983.5, 756073.4, nil
}

type fakeChecker struct{ err error }

func (f fakeChecker) Check(ctx context.Context) error { return f.err }

// ---- Test helpers ----

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func makeDeps(opts ...func(*handler.Dependencies)) *handler.Dependencies {
	catalog := zones.NewCatalog()
	tr := &fakeTransformer{}
	d := &handler.Dependencies{
		Conversion: usecases.NewConversionService(tr, catalog, usecases.DefaultFallbackPolicy(), nil, 0),
		Batch:      usecases.NewBatchService(tr, catalog, nil, zones.ZoneI, 100),
		Calculator: usecases.NewCalculatorService(catalog),
		Zones:      usecases.NewZoneService(catalog),
		Projection: fakeChecker{},
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func withTransformer(fn func(ctx context.Context, src, dst domain.CRS, x, y float64) (float64, float64, error)) func(*handler.Dependencies) {
	return func(d *handler.Dependencies) {
		catalog := zones.NewCatalog()
		tr := &fakeTransformer{transformFn: fn}
		d.Conversion = usecases.NewConversionService(tr, catalog, usecases.DefaultFallbackPolicy(), nil, 0)
		d.Batch = usecases.NewBatchService(tr, catalog, nil, zones.ZoneI, 100)
	}
}

func get(t *testing.T, app *fiber.App, target string) (int, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", target, nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, readBody(t, resp.Body)
}

func readBody(t *testing.T, body io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return b
}

func decodeError(t *testing.T, body []byte) handler.APIError {
	t.Helper()
	var e handler.APIError
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatalf("decode error body %q: %v", body, err)
	}
	return e
}

// ---- Health ----

func TestHealth(t *testing.T) {
	status, body := get(t, setupApp(makeDeps()), "/v1/health")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(string(body), `"healthy"`) {
		t.Errorf("unexpected body %s", body)
	}
}

func TestReady(t *testing.T) {
	status, _ := get(t, setupApp(makeDeps()), "/v1/ready")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
}

func TestReady_ProjectionDown(t *testing.T) {
	app := setupApp(makeDeps(func(d *handler.Dependencies) {
		d.Projection = fakeChecker{err: errors.New("proj.db not found")}
	}))
	status, body := get(t, app, "/v1/ready")
	if status != 503 {
		t.Fatalf("expected 503, got %d", status)
	}
	if !strings.Contains(string(body), "proj.db not found") {
		t.Errorf("expected check message in body, got %s", body)
	}
}

// ---- Calculator ----

func TestGeodetic(t *testing.T) {
	status, body := get(t, setupApp(makeDeps()), "/v1/calc/geodetic?lat1=30.3165&lon1=78.0322&lat2=28.6139&lon2=77.2090")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var m domain.GeodeticMeasurement
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatal(err)
	}
	if m.DistanceKm < 200 || m.DistanceKm > 210 {
		t.Errorf("expected roughly 205 km, got %v", m.DistanceKm)
	}
	if m.ZoneA == nil || m.ZoneA.Code != zones.ZoneI {
		t.Errorf("expected Zone I for the first point, got %+v", m.ZoneA)
	}
}

func TestGeodetic_NonNumeric(t *testing.T) {
	status, body := get(t, setupApp(makeDeps()), "/v1/calc/geodetic?lat1=abc&lon1=78&lat2=28&lon2=77")
	if status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
	if e := decodeError(t, body); e.Code != "bad_request" || !strings.Contains(e.Message, "lat1") {
		t.Errorf("unexpected error %+v", e)
	}
}

func TestGridDistance(t *testing.T) {
	status, body := get(t, setupApp(makeDeps()), "/v1/calc/grid?easting1=0&northing1=0&easting2=3&northing2=4&height2=12")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var m domain.GridMeasurement
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatal(err)
	}
	if m.Horizontal != 5 || m.Slope != 13 || m.HeightDiff != 12 {
		t.Errorf("unexpected measurement %+v", m)
	}
}

func TestDMSEncode(t *testing.T) {
	status, body := get(t, setupApp(makeDeps()), "/v1/dms/encode?lat=30.3165&lon=78.0322")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var pair domain.DMSPair
	if err := json.Unmarshal(body, &pair); err != nil {
		t.Fatal(err)
	}
	if pair.Lat != "30°18'59.40\"N" {
		t.Errorf("unexpected latitude %q", pair.Lat)
	}
}

func TestDMSDecode_InvalidFormat(t *testing.T) {
	status, body := get(t, setupApp(makeDeps()), "/v1/dms/decode?lat=30.5&lon=78.0")
	if status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
	if e := decodeError(t, body); e.Code != "invalid_dms" {
		t.Errorf("expected invalid_dms, got %+v", e)
	}
}

func TestDMSDecode_Missing(t *testing.T) {
	status, _ := get(t, setupApp(makeDeps()), "/v1/dms/decode")
	if status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
}

// ---- Zones ----

func TestListZones(t *testing.T) {
	app := setupApp(makeDeps())

	for family, want := range map[string]int{"esm": 9, "dsm": 24, "wgs84": 9} {
		status, body := get(t, app, "/v1/zones?family="+family)
		if status != 200 {
			t.Fatalf("%s: expected 200, got %d", family, status)
		}
		var res struct {
			Count int           `json:"count"`
			Zones []domain.Zone `json:"zones"`
		}
		if err := json.Unmarshal(body, &res); err != nil {
			t.Fatal(err)
		}
		if res.Count != want || len(res.Zones) != want {
			t.Errorf("%s: expected %d zones, got %d", family, want, res.Count)
		}
	}
}

func TestListZones_UnknownFamily(t *testing.T) {
	status, _ := get(t, setupApp(makeDeps()), "/v1/zones?family=utm")
	if status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestGetZone_EscapedCode(t *testing.T) {
	status, body := get(t, setupApp(makeDeps()), "/v1/zones/esm/Zone%20IIa")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var z domain.Zone
	if err := json.Unmarshal(body, &z); err != nil {
		t.Fatal(err)
	}
	if z.Code != zones.ZoneIIa || z.EPSG != 24379 {
		t.Errorf("unexpected zone %+v", z)
	}
}

func TestGetZone_DSMIncludesParams(t *testing.T) {
	status, body := get(t, setupApp(makeDeps()), "/v1/zones/dsm/6D")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var res struct {
		Params domain.ProjectionParams `json:"params"`
		Proj   string                  `json:"proj"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatal(err)
	}
	if res.Params.CentralMeridian != 80 || res.Params.FalseEasting != 500010 {
		t.Errorf("unexpected params %+v", res.Params)
	}
	if !strings.Contains(res.Proj, "+proj=tmerc") {
		t.Errorf("unexpected proj string %q", res.Proj)
	}
}

func TestDSMFamilies(t *testing.T) {
	status, body := get(t, setupApp(makeDeps()), "/v1/zones/dsm-params")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var res struct {
		Count    int                `json:"count"`
		Families []domain.DSMFamily `json:"families"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatal(err)
	}
	if res.Count != 4 || len(res.Families) != 4 {
		t.Fatalf("expected 4 families, got %d", res.Count)
	}
	if res.Families[0].Major != "5" || len(res.Families[0].Tiles) == 0 {
		t.Errorf("unexpected first family %+v", res.Families[0])
	}
}

func TestGetZone_NotFound(t *testing.T) {
	status, _ := get(t, setupApp(makeDeps()), "/v1/zones/dsm/9Z")
	if status != 404 {
		t.Fatalf("expected 404, got %d", status)
	}
}

func TestDetectZones(t *testing.T) {
	status, body := get(t, setupApp(makeDeps()), "/v1/zones/detect?lat=30.3165&lon=78.0322")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var d domain.ZoneDetection
	if err := json.Unmarshal(body, &d); err != nil {
		t.Fatal(err)
	}
	if d.ESM == nil || d.ESM.Code != zones.ZoneI {
		t.Errorf("expected Zone I, got %+v", d.ESM)
	}
	if d.DSM == nil || d.DSM.Code != "6D" {
		t.Errorf("expected tile 6D, got %+v", d.DSM)
	}
}

// ---- Conversions ----

func TestGeoToESM(t *testing.T) {
	status, body := get(t, setupApp(makeDeps()), "/v1/convert/geo-to-esm?lat=30.3165&lon=78.0322&height=640")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var res domain.GridResult
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatal(err)
	}
	if res.Zone.Code != zones.ZoneI || res.Target.EPSG != 24378 {
		t.Errorf("expected Zone I / 24378, got %s / %s", res.Zone.Code, res.Target)
	}
	if res.Point.Height != 640 || res.Fallback {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestGeoToESM_FallbackOutsideCoverage(t *testing.T) {
	status, body := get(t, setupApp(makeDeps()), "/v1/convert/geo-to-esm?lat=0&lon=0")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var res domain.GridResult
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatal(err)
	}
	if !res.Fallback || res.Zone.Code != zones.ZoneI {
		t.Errorf("expected fallback to Zone I, got %+v", res)
	}
}

func TestGeoToState_OutsideCoverage(t *testing.T) {
	status, body := get(t, setupApp(makeDeps()), "/v1/convert/geo-to-state?lat=0&lon=0")
	if status != 422 {
		t.Fatalf("expected 422, got %d", status)
	}
	if e := decodeError(t, body); e.Code != "outside_coverage" {
		t.Errorf("expected outside_coverage, got %+v", e)
	}
}

func TestESMToGeo(t *testing.T) {
	status, body := get(t, setupApp(makeDeps()), "/v1/convert/esm-to-geo?easting=3877983.5&northing=756073.4&zone=Zone%20I")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var res domain.GeoResult
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatal(err)
	}
	if res.Point.Lat != 30.3165 || res.LatDMS == "" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestESMToGeo_UnknownZone(t *testing.T) {
	status, _ := get(t, setupApp(makeDeps()), "/v1/convert/esm-to-geo?easting=1&northing=2&zone=Zone%20Q")
	if status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestESMToGeo_TransformError(t *testing.T) {
	app := setupApp(makeDeps(withTransformer(func(ctx context.Context, src, dst domain.CRS, x, y float64) (float64, float64, error) {
		return 0, 0, errors.New("tolerance condition error")
	})))

	status, body := get(t, app, "/v1/convert/esm-to-geo?easting=1&northing=2")
	if status != 422 {
		t.Fatalf("expected 422, got %d", status)
	}
	e := decodeError(t, body)
	if e.Code != "transform_error" || e.Step != domain.StepESMToWGS84 {
		t.Errorf("unexpected error %+v", e)
	}
	if e.Message != "tolerance condition error" {
		t.Errorf("expected adapter message, got %q", e.Message)
	}
}

func TestESMToDSM_OutsideCoverage(t *testing.T) {
	app := setupApp(makeDeps(withTransformer(func(ctx context.Context, src, dst domain.CRS, x, y float64) (float64, float64, error) {
		return 0, 0, nil
	})))

	status, body := get(t, app, "/v1/convert/esm-to-dsm?easting=1&northing=2")
	if status != 422 {
		t.Fatalf("expected 422, got %d", status)
	}
	if e := decodeError(t, body); e.Code != "outside_coverage" {
		t.Errorf("expected outside_coverage, got %+v", e)
	}
}

func TestDSMToGeo_TileRequired(t *testing.T) {
	status, _ := get(t, setupApp(makeDeps()), "/v1/convert/dsm-to-geo?easting=500010&northing=0")
	if status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestDSMToESM(t *testing.T) {
	status, body := get(t, setupApp(makeDeps()), "/v1/convert/dsm-to-esm?easting=500010&northing=0&tile=6D")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var res domain.GridResult
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatal(err)
	}
	if res.Intermediate == nil || res.Zone.Code != zones.ZoneI {
		t.Errorf("expected Zone I via WGS84, got %+v", res)
	}
}

// ---- Batch ----

func TestBatchTemplate(t *testing.T) {
	status, body := get(t, setupApp(makeDeps()), "/v1/batch/template")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.HasPrefix(string(body), "easting,northing,height,point_id") {
		t.Errorf("unexpected template %q", body)
	}
}

func TestBatch(t *testing.T) {
	app := setupApp(makeDeps())

	csv := "point_id,easting,northing,height\nA,3877983.5,756073.4,600\nB,oops,756500.1,650\n"
	req := httptest.NewRequest("POST", "/v1/batch?zone=Zone%20I", strings.NewReader(csv))
	req.Header.Set("Content-Type", "text/csv")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp.Body)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	if resp.Header.Get("X-Batch-Total") != "2" || resp.Header.Get("X-Batch-Failed") != "1" {
		t.Errorf("unexpected summary headers %v", resp.Header)
	}
	if resp.Header.Get("X-Batch-Id") == "" {
		t.Error("expected a batch id header")
	}

	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %q", body)
	}
	if lines[1] != "A,30.3165,78.0322,600,Success" {
		t.Errorf("unexpected first row %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "B,,,650,") || !strings.Contains(lines[2], "Error: invalid easting") {
		t.Errorf("unexpected second row %q", lines[2])
	}
}

func TestBatch_EmptyBody(t *testing.T) {
	resp, err := app(t).Test(httptest.NewRequest("POST", "/v1/batch", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestBatch_MissingColumn(t *testing.T) {
	req := httptest.NewRequest("POST", "/v1/batch", strings.NewReader("point_id,easting\nA,1\n"))
	resp, err := app(t).Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestBatch_TooManyRows(t *testing.T) {
	a := setupApp(makeDeps(func(d *handler.Dependencies) {
		d.Batch = usecases.NewBatchService(&fakeTransformer{}, zones.NewCatalog(), nil, zones.ZoneI, 1)
	}))
	req := httptest.NewRequest("POST", "/v1/batch", strings.NewReader("easting,northing\n1,2\n3,4\n"))
	resp, err := a.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 413 {
		t.Fatalf("expected 413, got %d", resp.StatusCode)
	}
}

func TestBatch_UploadLimit(t *testing.T) {
	a := setupApp(makeDeps(func(d *handler.Dependencies) { d.MaxUploadBytes = 10 }))
	req := httptest.NewRequest("POST", "/v1/batch", strings.NewReader("easting,northing\n1,2\n"))
	resp, err := a.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func app(t *testing.T) *fiber.App {
	t.Helper()
	return setupApp(makeDeps())
}

// ---- GraphQL ----

func graphql(t *testing.T, a *fiber.App, query string) map[string]any {
	t.Helper()
	payload, _ := json.Marshal(map[string]string{"query": query})
	req := httptest.NewRequest("POST", "/graphql", strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestGraphQL_Zones(t *testing.T) {
	out := graphql(t, app(t), `{ zones(family: "wgs84") { code epsg bounds { min_lat } } }`)
	if out["errors"] != nil {
		t.Fatalf("unexpected errors %v", out["errors"])
	}
	list := out["data"].(map[string]any)["zones"].([]any)
	if len(list) != 9 {
		t.Errorf("expected 9 state zones, got %d", len(list))
	}
}

func TestGraphQL_GeoToESM(t *testing.T) {
	out := graphql(t, app(t), `{ geoToEsm(lat: 30.3165, lon: 78.0322) { zone { code } target { epsg } fallback } }`)
	if out["errors"] != nil {
		t.Fatalf("unexpected errors %v", out["errors"])
	}
	res := out["data"].(map[string]any)["geoToEsm"].(map[string]any)
	if res["zone"].(map[string]any)["code"] != zones.ZoneI {
		t.Errorf("unexpected zone %v", res["zone"])
	}
	if res["target"].(map[string]any)["epsg"] != float64(24378) {
		t.Errorf("unexpected target %v", res["target"])
	}
}

func TestGraphQL_ConversionError(t *testing.T) {
	out := graphql(t, app(t), `{ dsmToGeo(easting: 1, northing: 2, tile: "9Z") { lat_dms } }`)
	if out["errors"] == nil {
		t.Fatal("expected an error for an unknown tile")
	}
}

// ---- WebSocket ----

func TestBatchSocket_RequiresUpgrade(t *testing.T) {
	status, _ := get(t, app(t), "/ws/batch")
	if status != fiber.StatusUpgradeRequired {
		t.Fatalf("expected 426, got %d", status)
	}
}
