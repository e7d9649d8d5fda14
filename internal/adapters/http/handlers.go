package http

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/bytefixx/gridcalc/internal/adapters/csvio"
	"github.com/bytefixx/gridcalc/internal/core/domain"
)

// geoQuery reads lat, lon and an optional height from the query string.
func geoQuery(c *fiber.Ctx, suffix string) (domain.GeoPoint, error) {
	lat, err := domain.ParseNumber("lat"+suffix, c.Query("lat"+suffix))
	if err != nil {
		return domain.GeoPoint{}, err
	}
	lon, err := domain.ParseNumber("lon"+suffix, c.Query("lon"+suffix))
	if err != nil {
		return domain.GeoPoint{}, err
	}
	h, err := domain.ParseOptionalNumber("height"+suffix, c.Query("height"+suffix), 0)
	if err != nil {
		return domain.GeoPoint{}, err
	}
	return domain.GeoPoint{Lat: lat, Lon: lon, Height: h}, nil
}

// gridQuery reads easting, northing and an optional height from the query string.
func gridQuery(c *fiber.Ctx, suffix string) (domain.GridPoint, error) {
	e, err := domain.ParseNumber("easting"+suffix, c.Query("easting"+suffix))
	if err != nil {
		return domain.GridPoint{}, err
	}
	n, err := domain.ParseNumber("northing"+suffix, c.Query("northing"+suffix))
	if err != nil {
		return domain.GridPoint{}, err
	}
	h, err := domain.ParseOptionalNumber("height"+suffix, c.Query("height"+suffix), 0)
	if err != nil {
		return domain.GridPoint{}, err
	}
	return domain.GridPoint{Easting: e, Northing: n, Height: h}, nil
}

// GeodeticHandler measures the great-circle distance and bearing between two points.
func GeodeticHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := geoQuery(c, "1")
		if err != nil {
			return handleError(c, err)
		}
		b, err := geoQuery(c, "2")
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(deps.Calculator.Geodetic(a, b))
	}
}

// GridDistanceHandler measures planar distance and grid bearing between two grid points.
func GridDistanceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := gridQuery(c, "1")
		if err != nil {
			return handleError(c, err)
		}
		b, err := gridQuery(c, "2")
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(deps.Calculator.Grid(a, b))
	}
}

// DMSEncodeHandler formats decimal degrees as DMS strings.
func DMSEncodeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := geoQuery(c, "")
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(deps.Calculator.ToDMS(p.Lat, p.Lon))
	}
}

// DMSDecodeHandler parses DMS strings back to decimal degrees.
func DMSDecodeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, lon := c.Query("lat"), c.Query("lon")
		if lat == "" || lon == "" {
			return errBadRequest(c, "lat and lon are required")
		}
		decoded, err := deps.Calculator.FromDMS(lat, lon)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(decoded)
	}
}

// ListZonesHandler lists one zone family. The family defaults to esm.
func ListZonesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		family := domain.ZoneFamily(c.Query("family", string(domain.FamilyESM)))
		zs, err := deps.Zones.List(family)
		if err != nil {
			return handleError(c, err)
		}
		c.Set("Cache-Control", "public, max-age=86400")
		return c.JSON(fiber.Map{"family": family, "count": len(zs), "zones": zs})
	}
}

// GetZoneHandler returns one zone. DSM tiles include their projection parameters.
func GetZoneHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		family := domain.ZoneFamily(c.Params("family"))
		code, err := url.PathUnescape(c.Params("code"))
		if err != nil {
			return errBadRequest(c, "malformed zone code")
		}

		z, err := deps.Zones.Get(family, code)
		if err != nil {
			if domain.IsValidationError(err) && family.Valid() {
				return errNotFound(c, err.Error())
			}
			return handleError(c, err)
		}
		if family != domain.FamilyDSM {
			return c.JSON(z)
		}

		params, err := deps.Zones.DSMParams(code)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(fiber.Map{"zone": z, "params": params, "proj": params.ProjString()})
	}
}

// DSMFamiliesHandler lists the DSM parameter families.
func DSMFamiliesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fams := deps.Zones.DSMFamilies()
		c.Set("Cache-Control", "public, max-age=86400")
		return c.JSON(fiber.Map{"count": len(fams), "families": fams})
	}
}

// DetectZonesHandler classifies a point against every registry.
func DetectZonesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := geoQuery(c, "")
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(deps.Zones.Detect(p))
	}
}

// GeoToESMHandler projects WGS84 into the containing ESM zone.
func GeoToESMHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := geoQuery(c, "")
		if err != nil {
			return handleError(c, err)
		}
		res, err := deps.Conversion.GeoToESM(c.UserContext(), p)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(res)
	}
}

// GeoToStateHandler projects WGS84 into the containing state grid.
func GeoToStateHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := geoQuery(c, "")
		if err != nil {
			return handleError(c, err)
		}
		res, err := deps.Conversion.GeoToStateGrid(c.UserContext(), p)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(res)
	}
}

// ESMToGeoHandler unprojects ESM coordinates. zone is optional.
func ESMToGeoHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := gridQuery(c, "")
		if err != nil {
			return handleError(c, err)
		}
		res, err := deps.Conversion.ESMToGeo(c.UserContext(), p, c.Query("zone"))
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(res)
	}
}

// ESMToDSMHandler converts ESM coordinates to the DSM tile grid.
func ESMToDSMHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := gridQuery(c, "")
		if err != nil {
			return handleError(c, err)
		}
		res, err := deps.Conversion.ESMToDSM(c.UserContext(), p, c.Query("zone"))
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(res)
	}
}

// DSMToGeoHandler unprojects DSM tile coordinates. tile is required.
func DSMToGeoHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := gridQuery(c, "")
		if err != nil {
			return handleError(c, err)
		}
		res, err := deps.Conversion.DSMToGeo(c.UserContext(), p, c.Query("tile"))
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(res)
	}
}

// DSMToESMHandler converts DSM tile coordinates to the containing ESM zone.
func DSMToESMHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := gridQuery(c, "")
		if err != nil {
			return handleError(c, err)
		}
		res, err := deps.Conversion.DSMToESM(c.UserContext(), p, c.Query("tile"))
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(res)
	}
}

// BatchTemplateHandler serves the CSV upload template.
func BatchTemplateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="grid_template.csv"`)
		c.Set("Cache-Control", "public, max-age=86400")
		return c.SendString(csvio.Template())
	}
}

// BatchHandler converts an uploaded grid CSV to WGS84. The CSV is either the
// raw request body or a multipart "file" field; zone is an optional query
// parameter. The summary travels in X-Batch-* headers.
func BatchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := uploadedCSV(c, deps.MaxUploadBytes)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		rows, err := csvio.ReadRows(bytes.NewReader(body))
		if err != nil {
			return handleError(c, err)
		}

		results, summary, err := deps.Batch.ProcessESM(c.UserContext(), rows, c.Query("zone"), nil)
		if err != nil {
			return handleError(c, err)
		}

		var buf bytes.Buffer
		if err := csvio.WriteResults(&buf, results); err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("X-Batch-Id", summary.ID)
		c.Set("X-Batch-Zone", summary.Zone)
		c.Set("X-Batch-Total", strconv.Itoa(summary.Total))
		c.Set("X-Batch-Failed", strconv.Itoa(summary.Failed))
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="converted_coordinates.csv"`)
		return c.Send(buf.Bytes())
	}
}

func uploadedCSV(c *fiber.Ctx, limit int) ([]byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		body := c.Body()
		if len(body) == 0 {
			return nil, fmt.Errorf("request body or file field is required")
		}
		if limit > 0 && len(body) > limit {
			return nil, fmt.Errorf("upload exceeds %d bytes", limit)
		}
		return body, nil
	}

	if limit > 0 && fh.Size > int64(limit) {
		return nil, fmt.Errorf("upload exceeds %d bytes", limit)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return io.ReadAll(f)
}
