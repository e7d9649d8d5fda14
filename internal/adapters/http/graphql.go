package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/bytefixx/gridcalc/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services. Field names
// follow the JSON tags of the domain types, which the default resolver reads.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	boundsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bounds",
		Fields: graphql.Fields{
			"min_lat": &graphql.Field{Type: graphql.Float},
			"max_lat": &graphql.Field{Type: graphql.Float},
			"min_lon": &graphql.Field{Type: graphql.Float},
			"max_lon": &graphql.Field{Type: graphql.Float},
		},
	})

	zoneType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Zone",
		Fields: graphql.Fields{
			"code":             &graphql.Field{Type: graphql.String},
			"family":           &graphql.Field{Type: graphql.String},
			"epsg":             &graphql.Field{Type: graphql.Int},
			"bounds":           &graphql.Field{Type: boundsType},
			"description":      &graphql.Field{Type: graphql.String},
			"central_meridian": &graphql.Field{Type: graphql.Float},
		},
	})

	crsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CRS",
		Fields: graphql.Fields{
			"epsg": &graphql.Field{Type: graphql.Int},
			"proj": &graphql.Field{Type: graphql.String},
		},
	})

	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat":    &graphql.Field{Type: graphql.Float},
			"lon":    &graphql.Field{Type: graphql.Float},
			"height": &graphql.Field{Type: graphql.Float},
		},
	})

	gridPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GridPoint",
		Fields: graphql.Fields{
			"easting":  &graphql.Field{Type: graphql.Float},
			"northing": &graphql.Field{Type: graphql.Float},
			"height":   &graphql.Field{Type: graphql.Float},
		},
	})

	detectionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ZoneDetection",
		Fields: graphql.Fields{
			"point": &graphql.Field{Type: geoPointType},
			"esm":   &graphql.Field{Type: zoneType},
			"dsm":   &graphql.Field{Type: zoneType},
			"wgs84": &graphql.Field{Type: zoneType},
		},
	})

	gridResultType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GridResult",
		Fields: graphql.Fields{
			"point":        &graphql.Field{Type: gridPointType},
			"zone":         &graphql.Field{Type: zoneType},
			"source":       &graphql.Field{Type: crsType},
			"target":       &graphql.Field{Type: crsType},
			"intermediate": &graphql.Field{Type: geoPointType},
			"fallback":     &graphql.Field{Type: graphql.Boolean},
		},
	})

	geoResultType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoResult",
		Fields: graphql.Fields{
			"point":   &graphql.Field{Type: geoPointType},
			"zone":    &graphql.Field{Type: zoneType},
			"source":  &graphql.Field{Type: crsType},
			"lat_dms": &graphql.Field{Type: graphql.String},
			"lon_dms": &graphql.Field{Type: graphql.String},
		},
	})

	geoArgs := graphql.FieldConfigArgument{
		"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
		"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
		"height": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 0.0},
	}
	gridArgs := func(codeArg string) graphql.FieldConfigArgument {
		return graphql.FieldConfigArgument{
			"easting":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
			"northing": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
			"height":   &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 0.0},
			codeArg:    &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
		}
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"zones": &graphql.Field{
				Type:        graphql.NewList(zoneType),
				Description: "List the zones of one family (esm, dsm, wgs84)",
				Args: graphql.FieldConfigArgument{
					"family": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: string(domain.FamilyESM)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Zones.List(domain.ZoneFamily(p.Args["family"].(string)))
				},
			},
			"zone": &graphql.Field{
				Type:        zoneType,
				Description: "Get a zone by family and code",
				Args: graphql.FieldConfigArgument{
					"family": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"code":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Zones.Get(domain.ZoneFamily(p.Args["family"].(string)), p.Args["code"].(string))
				},
			},
			"detect": &graphql.Field{
				Type:        detectionType,
				Description: "Classify a WGS84 point against every registry",
				Args:        geoArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Zones.Detect(geoArg(p.Args)), nil
				},
			},
			"geoToEsm": &graphql.Field{
				Type:    gridResultType,
				Args:    geoArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Conversion.GeoToESM(p.Context, geoArg(p.Args))
				},
			},
			"geoToState": &graphql.Field{
				Type:    gridResultType,
				Args:    geoArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Conversion.GeoToStateGrid(p.Context, geoArg(p.Args))
				},
			},
			"esmToGeo": &graphql.Field{
				Type: geoResultType,
				Args: gridArgs("zone"),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Conversion.ESMToGeo(p.Context, gridArg(p.Args), p.Args["zone"].(string))
				},
			},
			"esmToDsm": &graphql.Field{
				Type: gridResultType,
				Args: gridArgs("zone"),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Conversion.ESMToDSM(p.Context, gridArg(p.Args), p.Args["zone"].(string))
				},
			},
			"dsmToGeo": &graphql.Field{
				Type: geoResultType,
				Args: gridArgs("tile"),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Conversion.DSMToGeo(p.Context, gridArg(p.Args), p.Args["tile"].(string))
				},
			},
			"dsmToEsm": &graphql.Field{
				Type: gridResultType,
				Args: gridArgs("tile"),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Conversion.DSMToESM(p.Context, gridArg(p.Args), p.Args["tile"].(string))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

func geoArg(args map[string]interface{}) domain.GeoPoint {
	return domain.GeoPoint{
		Lat:    args["lat"].(float64),
		Lon:    args["lon"].(float64),
		Height: args["height"].(float64),
	}
}

func gridArg(args map[string]interface{}) domain.GridPoint {
	return domain.GridPoint{
		Easting:  args["easting"].(float64),
		Northing: args["northing"].(float64),
		Height:   args["height"].(float64),
	}
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
