package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

// buildSchema creates the GraphQL schema wired to our services. Fields are
// resolved from the json tags of the domain types.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	boundsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bounds",
		Fields: graphql.Fields{
			"min_lat": &graphql.Field{Type: graphql.Float},
			"min_lon": &graphql.Field{Type: graphql.Float},
			"max_lat": &graphql.Field{Type: graphql.Float},
			"max_lon": &graphql.Field{Type: graphql.Float},
		},
	})

	encodingType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Encoding",
		Fields: graphql.Fields{
			"digipin":            &graphql.Field{Type: graphql.String},
			"compact":            &graphql.Field{Type: graphql.String},
			"bounds":             &graphql.Field{Type: boundsType},
			"center":             &graphql.Field{Type: geoPointType},
			"error_meters":       &graphql.Field{Type: graphql.Float},
			"cell_height_meters": &graphql.Field{Type: graphql.Float},
			"cell_width_meters":  &graphql.Field{Type: graphql.Float},
		},
	})

	decodingType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Decoding",
		Fields: graphql.Fields{
			"digipin": &graphql.Field{Type: graphql.String},
			"center":  &graphql.Field{Type: geoPointType},
			"bounds":  &graphql.Field{Type: boundsType},
		},
	})

	placeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Place",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.String},
			"label":    &graphql.Field{Type: graphql.String},
			"location": &graphql.Field{Type: geoPointType},
			"digipin":  &graphql.Field{Type: graphql.String},
			"distance": &graphql.Field{Type: graphql.Float},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"encode": &graphql.Field{
				Type:        encodingType,
				Description: "Encode a coordinate into its DIGIPIN",
				Args: graphql.FieldConfigArgument{
					"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Codec.Encode(p.Context, p.Args["lat"].(float64), p.Args["lon"].(float64))
				},
			},
			"decode": &graphql.Field{
				Type:        decodingType,
				Description: "Decode a DIGIPIN into the center of its cell",
				Args: graphql.FieldConfigArgument{
					"code": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Codec.Decode(p.Context, p.Args["code"].(string))
				},
			},
			"bounds": &graphql.Field{
				Type:        boundsType,
				Description: "Cell named by a full code or a prefix",
				Args: graphql.FieldConfigArgument{
					"code": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Codec.Bounds(p.Context, p.Args["code"].(string))
				},
			},
			"place": &graphql.Field{
				Type:        placeType,
				Description: "Get a place by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Places.GetByID(p.Context, p.Args["id"].(string))
				},
			},
			"placesInCell": &graphql.Field{
				Type:        graphql.NewList(placeType),
				Description: "Places inside the cell named by a code prefix",
				Args: graphql.FieldConfigArgument{
					"prefix": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 50},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					page, err := deps.Places.ListInCell(p.Context, p.Args["prefix"].(string),
						p.Args["offset"].(int), p.Args["limit"].(int))
					if err != nil {
						return nil, err
					}
					return page.Places, nil
				},
			},
			"placesNearby": &graphql.Field{
				Type:        graphql.NewList(placeType),
				Description: "Places near a location, nearest first",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 500.0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Places.FindNearby(p.Context,
						p.Args["lat"].(float64), p.Args["lon"].(float64),
						p.Args["radius"].(float64), p.Args["limit"].(int))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
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
