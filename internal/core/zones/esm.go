package zones

import "github.com/bytefixx/gridcalc/internal/core/domain"

// Kalianpur 1975 / India zone codes used as defaults.
const (
	ZoneI    = "Zone I"
	ZoneIIa  = "Zone IIa"
	ZoneIIb  = "Zone IIb"
	ZoneIIIa = "Zone IIIa"
	ZoneIIIb = "Zone IIIb"
	ZoneIVa  = "Zone IVa"
	ZoneIVb  = "Zone IVb"
	ZoneVa   = "Zone Va"
	ZoneVb   = "Zone Vb"
)

// esmZones is the Kalianpur 1975 (ESM) table in classification order.
var esmZones = []domain.Zone{
	{
		Code: ZoneI, EPSG: 24378,
		Bounds:          domain.Bounds{MinLat: 28.0, MaxLat: 35.51, MinLon: 70.35, MaxLon: 81.64},
		Description:     "Northern India (J&K, HP, Punjab, Haryana, Uttarakhand, North UP)",
		CentralMeridian: 78.0,
	},
	{
		Code: ZoneIIa, EPSG: 24379,
		Bounds:          domain.Bounds{MinLat: 21.0, MaxLat: 28.01, MinLon: 68.13, MaxLon: 82.01},
		Description:     "Northwest India (Rajasthan, Gujarat, West MP, South UP)",
		CentralMeridian: 75.0,
	},
	{
		Code: ZoneIIb, EPSG: 24380,
		Bounds:          domain.Bounds{MinLat: 21.0, MaxLat: 29.47, MinLon: 82.0, MaxLon: 97.42},
		Description:     "Northeast India (Assam, Meghalaya, Manipur, Mizoram)",
		CentralMeridian: 90.0,
	},
	{
		Code: ZoneIIIa, EPSG: 24381,
		Bounds:          domain.Bounds{MinLat: 15.0, MaxLat: 21.01, MinLon: 70.14, MaxLon: 87.15},
		Description:     "Central India (Maharashtra, East MP, Chhattisgarh)",
		CentralMeridian: 78.0,
	},
	{
		Code: ZoneIIIb, EPSG: 24382,
		Bounds:          domain.Bounds{MinLat: 15.0, MaxLat: 21.01, MinLon: 87.15, MaxLon: 97.42},
		Description:     "East Central India (Jharkhand, Odisha, East Bengal)",
		CentralMeridian: 92.0,
	},
	{
		Code: ZoneIVa, EPSG: 24383,
		Bounds:          domain.Bounds{MinLat: 8.02, MaxLat: 15.01, MinLon: 73.94, MaxLon: 80.4},
		Description:     "Southwest India (Karnataka, Kerala, Tamil Nadu West)",
		CentralMeridian: 77.0,
	},
	{
		Code: ZoneIVb, EPSG: 24384,
		Bounds:          domain.Bounds{MinLat: 8.02, MaxLat: 15.01, MinLon: 80.4, MaxLon: 87.18},
		Description:     "Southeast India (Andhra Pradesh, Tamil Nadu East)",
		CentralMeridian: 84.0,
	},
	{
		Code: ZoneVa, EPSG: 24385,
		Bounds:          domain.Bounds{MinLat: 5.0, MaxLat: 8.02, MinLon: 73.94, MaxLon: 80.4},
		Description:     "Far South India (South Kerala, South Tamil Nadu)",
		CentralMeridian: 77.0,
	},
	{
		Code: ZoneVb, EPSG: 24386,
		Bounds:          domain.Bounds{MinLat: 5.0, MaxLat: 8.02, MinLon: 80.4, MaxLon: 87.18},
		Description:     "Far Southeast India (South Tamil Nadu, South Andhra)",
		CentralMeridian: 84.0,
	},
}
