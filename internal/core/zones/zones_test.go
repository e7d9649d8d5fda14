package zones_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytefixx/gridcalc/internal/core/domain"
	"github.com/bytefixx/gridcalc/internal/core/zones"
)

func TestCatalog_Sizes(t *testing.T) {
	t.Parallel()

	c := zones.NewCatalog()
	assert.Equal(t, 9, c.ESM.Len())
	assert.Equal(t, 24, c.DSM.Len())
	assert.Equal(t, 9, c.WGS84.Len())
}

func TestESM_ClassifyNorthernIndia(t *testing.T) {
	t.Parallel()

	z, ok := zones.NewCatalog().ESM.Classify(30.0, 78.0)
	require.True(t, ok)
	assert.Equal(t, zones.ZoneI, z.Code)
	assert.Equal(t, 24378, z.EPSG)
	assert.Equal(t, domain.FamilyESM, z.Family)
	assert.Equal(t, 78.0, z.CentralMeridian)
}

func TestClassify_OutsideEveryRegistry(t *testing.T) {
	t.Parallel()

	c := zones.NewCatalog()
	for _, r := range []*zones.Registry{c.ESM, c.DSM, c.WGS84} {
		_, ok := r.Classify(0, 0)
		assert.False(t, ok, "family %s", r.Family())
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	t.Parallel()

	c := zones.NewCatalog()

	// 28.0/75.0 sits inside both Zone I (lat >= 28) and Zone IIa (lat <= 28.01).
	z, ok := c.ESM.Classify(28.0, 75.0)
	require.True(t, ok)
	assert.Equal(t, zones.ZoneI, z.Code)

	// The national LCC zone is declared before Uttar Pradesh and shadows it.
	z, ok = c.WGS84.Classify(27.0, 80.0)
	require.True(t, ok)
	assert.Equal(t, "India NSF LCC", z.Code)

	// India Northeast is declared first of all.
	z, ok = c.WGS84.Classify(26.0, 92.0)
	require.True(t, ok)
	assert.Equal(t, "India Northeast", z.Code)
}

func TestClassify_BoundsAreInclusive(t *testing.T) {
	t.Parallel()

	c := zones.NewCatalog()

	z, ok := c.ESM.Classify(35.51, 81.64)
	require.True(t, ok)
	assert.Equal(t, zones.ZoneI, z.Code)

	// Shared edge between 5D and 5E resolves to the earlier tile.
	z, ok = c.DSM.Classify(30.0, 70.0)
	require.True(t, ok)
	assert.Equal(t, "5D", z.Code)
}

func TestDSM_TilesShareFamilyParams(t *testing.T) {
	t.Parallel()

	c := zones.NewCatalog()

	c5, ok := c.DSM.Lookup("5C")
	require.True(t, ok)
	h5, ok := c.DSM.Lookup("5H")
	require.True(t, ok)
	assert.NotEqual(t, c5.Bounds, h5.Bounds)

	p1, err := zones.DSMParams("5C")
	require.NoError(t, err)
	p2, err := zones.DSMParams("5H")
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
	assert.Equal(t, 72.0, p1.CentralMeridian)
	assert.Equal(t, -2010760.0, p1.FalseNorthing)

	p6, err := zones.DSMParams("6E")
	require.NoError(t, err)
	assert.Equal(t, 500010.0, p6.FalseEasting)
	assert.Equal(t, -2010750.0, p6.FalseNorthing)
}

func TestDSMParams_UnknownMajorZone(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"", "9C", "X"} {
		_, err := zones.DSMParams(code)
		require.Error(t, err, "code %q", code)
		assert.True(t, domain.IsValidationError(err), "code %q", code)
	}
}

func TestDSM_EPSGCatalogueNumbers(t *testing.T) {
	t.Parallel()

	c := zones.NewCatalog()
	want := map[string]int{"5C": 2001, "5H": 2031, "6E": 2014, "7G": 2027, "8H": 2034}
	for code, epsg := range want {
		z, ok := c.DSM.Lookup(code)
		require.True(t, ok, code)
		assert.Equal(t, epsg, z.EPSG, code)
	}
}

func TestMajorZone(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "5", zones.MajorZone("5C"))
	assert.Equal(t, "8", zones.MajorZone("8H"))
	assert.Equal(t, "", zones.MajorZone(""))
}

func TestRegistry_ZonesReturnsCopy(t *testing.T) {
	t.Parallel()

	r := zones.NewCatalog().ESM
	list := r.Zones()
	list[0].Code = "mutated"

	z, ok := r.Lookup(zones.ZoneI)
	require.True(t, ok)
	assert.Equal(t, zones.ZoneI, z.Code)
	assert.Equal(t, zones.ZoneI, r.Zones()[0].Code)
}

func TestCatalog_Detect(t *testing.T) {
	t.Parallel()

	c := zones.NewCatalog()

	d := c.Detect(domain.GeoPoint{Lat: 30.3165, Lon: 78.0322})
	require.NotNil(t, d.ESM)
	require.NotNil(t, d.DSM)
	require.NotNil(t, d.WGS84)
	assert.Equal(t, zones.ZoneI, d.ESM.Code)
	assert.Equal(t, "6D", d.DSM.Code)
	assert.Equal(t, "India NSF LCC", d.WGS84.Code)

	none := c.Detect(domain.GeoPoint{})
	assert.Nil(t, none.ESM)
	assert.Nil(t, none.DSM)
	assert.Nil(t, none.WGS84)
}

func TestCatalog_Registry(t *testing.T) {
	t.Parallel()

	c := zones.NewCatalog()
	assert.Same(t, c.ESM, c.Registry(domain.FamilyESM))
	assert.Same(t, c.DSM, c.Registry(domain.FamilyDSM))
	assert.Same(t, c.WGS84, c.Registry(domain.FamilyWGS84))
	assert.Nil(t, c.Registry("utm"))
}
