package routes

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"home-rental-server/models"
	"home-rental-server/services"
	"home-rental-server/storage"
	"home-rental-server/utils"

	"github.com/kataras/iris/v12"
)

var geo *services.GeolocationService

// SetGeolocationService injects the constructed adapter at startup.
func SetGeolocationService(svc *services.GeolocationService) {
	geo = svc
}

func GeocodeAddress(ctx iris.Context) {
	var input GeocodeInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var result *services.GeocodeResult
	var err error
	switch input.Provider {
	case "google":
		result, err = geo.GeocodeWithGoogle(input.Address)
	case "mapbox":
		result, err = geo.GeocodeWithMapbox(input.Address)
	case "nominatim":
		result, err = geo.GeocodeWithNominatim(input.Address)
	default:
		result, err = geo.SmartGeocode(input.Address)
	}

	if err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "Geocoding failed", err.Error())
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": result})
}

func ReverseGeocode(ctx iris.Context) {
	var input ReverseGeocodeInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	provider := input.Provider
	if provider == "" {
		provider = "nominatim"
	}

	result, err := geo.ReverseGeocode(*input.Latitude, *input.Longitude, provider)
	if err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "Reverse geocoding failed", err.Error())
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": result})
}

// FindNearbyAmenities proxies Google Places. Provider failures surface as
// an empty list, not an error.
func FindNearbyAmenities(ctx iris.Context) {
	latStr := ctx.URLParam("latitude")
	lngStr := ctx.URLParam("longitude")
	if latStr == "" || lngStr == "" {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_query", "Latitude and longitude are required")
		return
	}

	lat, latErr := strconv.ParseFloat(latStr, 64)
	lng, lngErr := strconv.ParseFloat(lngStr, 64)
	if latErr != nil || lngErr != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_query", "Latitude and longitude must be numbers")
		return
	}

	radius := ctx.URLParamIntDefault("radius", 1000)
	amenityType := ctx.URLParamDefault("type", "lodging")

	amenities := geo.NearbyAmenities(lat, lng, radius, amenityType)

	ctx.JSON(iris.Map{"success": true, "data": amenities})
}

func GetDirections(ctx iris.Context) {
	var input DirectionsInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	mode := input.Mode
	if mode == "" {
		mode = "driving"
	}

	directions, err := geo.GetDirections(input.Origin, input.Destination, mode)
	if err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "Failed to get directions", err.Error())
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": directions})
}

func CalculateDistance(ctx iris.Context) {
	var input DistanceInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	distance := services.CalculateDistance(*input.Lat1, *input.Lon1, *input.Lat2, *input.Lon2)

	ctx.JSON(iris.Map{
		"success": true,
		"data": iris.Map{
			"distance":      distance,
			"distanceKm":    fmt.Sprintf("%.2f", distance),
			"distanceMiles": fmt.Sprintf("%.2f", services.KilometersToMiles(distance)),
		},
	})
}

// FindPropertiesNearby loads listings that have coordinates, filters them by
// Haversine distance and returns them distance-ascending with the distance
// annotated on each row. Radius is in kilometers on this path.
func FindPropertiesNearby(ctx iris.Context) {
	latStr := ctx.URLParam("latitude")
	lngStr := ctx.URLParam("longitude")
	if latStr == "" || lngStr == "" {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_query", "Latitude and longitude are required")
		return
	}

	lat, latErr := strconv.ParseFloat(latStr, 64)
	lng, lngErr := strconv.ParseFloat(lngStr, 64)
	if latErr != nil || lngErr != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_query", "Latitude and longitude must be numbers")
		return
	}

	radiusKm := 5.0
	if v := ctx.URLParam("radius"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			radiusKm = parsed
		}
	}
	limit := ctx.URLParamIntDefault("limit", 20)

	var listings []models.Listing
	err := storage.DB.
		Where("NOT (lat = 0 AND lng = 0)").
		Limit(limit).
		Find(&listings).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	type nearbyListing struct {
		listing  *models.Listing
		distance float64
	}

	nearby := make([]nearbyListing, 0, len(listings))
	for i := range listings {
		d := services.CalculateDistance(lat, lng, listings[i].Lat, listings[i].Lng)
		if d <= radiusKm {
			nearby = append(nearby, nearbyListing{listing: &listings[i], distance: d})
		}
	}

	sort.Slice(nearby, func(i, j int) bool { return nearby[i].distance < nearby[j].distance })

	// Annotate each listing with its distance without disturbing the
	// listing's own JSON shape.
	annotated := make([]map[string]interface{}, 0, len(nearby))
	for _, item := range nearby {
		raw, marshalErr := json.Marshal(item.listing)
		if marshalErr != nil {
			continue
		}
		var entry map[string]interface{}
		if unmarshalErr := json.Unmarshal(raw, &entry); unmarshalErr != nil {
			continue
		}
		entry["distance"] = item.distance
		entry["distanceKm"] = fmt.Sprintf("%.2f", item.distance)
		annotated = append(annotated, entry)
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data": iris.Map{
			"properties": annotated,
			"count":      len(annotated),
			"center":     iris.Map{"latitude": lat, "longitude": lng},
			"radius":     radiusKm,
		},
	})
}

func AutocompleteAddress(ctx iris.Context) {
	query := ctx.URLParam("query")
	if len(query) < 3 {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_query", "Query must be at least 3 characters")
		return
	}

	suggestions, err := geo.AutocompleteAddress(query)
	if err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "Failed to autocomplete address", err.Error())
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": suggestions})
}

type GeocodeInput struct {
	Address  string `json:"address" validate:"required"`
	Provider string `json:"provider"`
}

type ReverseGeocodeInput struct {
	Latitude  *float64 `json:"latitude" validate:"required"`
	Longitude *float64 `json:"longitude" validate:"required"`
	Provider  string   `json:"provider"`
}

type DirectionsInput struct {
	Origin      string `json:"origin" validate:"required"`
	Destination string `json:"destination" validate:"required"`
	Mode        string `json:"mode"`
}

type DistanceInput struct {
	Lat1 *float64 `json:"lat1" validate:"required"`
	Lon1 *float64 `json:"lon1" validate:"required"`
	Lat2 *float64 `json:"lat2" validate:"required"`
	Lon2 *float64 `json:"lon2" validate:"required"`
}
