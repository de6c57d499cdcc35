package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

const nominatimUserAgent = "HomeRentalApp/1.0"

// GeocodeResult is the normalized answer from any geocoding provider.
type GeocodeResult struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formattedAddress"`
	PlaceID          string  `json:"placeId"`
	Provider         string  `json:"provider"`
}

type ReverseGeocodeResult struct {
	Address  string `json:"address"`
	PlaceID  string `json:"placeId"`
	Provider string `json:"provider"`
}

type Amenity struct {
	Name      string   `json:"name"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Rating    float64  `json:"rating"`
	Vicinity  string   `json:"vicinity"`
	PlaceID   string   `json:"placeId"`
	Types     []string `json:"types"`
}

type DirectionStep struct {
	Instruction string `json:"instruction"`
	Distance    string `json:"distance"`
	Duration    string `json:"duration"`
}

type Directions struct {
	Distance      string          `json:"distance"`
	Duration      string          `json:"duration"`
	DistanceValue int             `json:"distanceValue"`
	DurationValue int             `json:"durationValue"`
	Steps         []DirectionStep `json:"steps"`
}

type AddressSuggestion struct {
	Address   string `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	PlaceID   string `json:"placeId"`
}

type GeolocationConfig struct {
	GoogleAPIKey     string
	MapboxAPIKey     string
	GoogleBaseURL    string
	MapboxBaseURL    string
	NominatimBaseURL string
	HTTPClient       *http.Client
}

func GeolocationConfigFromEnv() GeolocationConfig {
	return GeolocationConfig{
		GoogleAPIKey: os.Getenv("GOOGLE_MAPS_API_KEY"),
		MapboxAPIKey: os.Getenv("MAPBOX_API_KEY"),
	}
}

// GeolocationService is a stateless adapter over the Google, Mapbox and
// Nominatim HTTP APIs. Construct it once in main and hand it to the routes;
// there is no package-level instance.
type GeolocationService struct {
	client           *http.Client
	googleKey        string
	mapboxKey        string
	googleBaseURL    string
	mapboxBaseURL    string
	nominatimBaseURL string
}

func NewGeolocationService(cfg GeolocationConfig) *GeolocationService {
	svc := &GeolocationService{
		client:           cfg.HTTPClient,
		googleKey:        cfg.GoogleAPIKey,
		mapboxKey:        cfg.MapboxAPIKey,
		googleBaseURL:    cfg.GoogleBaseURL,
		mapboxBaseURL:    cfg.MapboxBaseURL,
		nominatimBaseURL: cfg.NominatimBaseURL,
	}
	if svc.client == nil {
		svc.client = &http.Client{Timeout: 10 * time.Second}
	}
	if svc.googleBaseURL == "" {
		svc.googleBaseURL = "https://maps.googleapis.com"
	}
	if svc.mapboxBaseURL == "" {
		svc.mapboxBaseURL = "https://api.mapbox.com"
	}
	if svc.nominatimBaseURL == "" {
		svc.nominatimBaseURL = "https://nominatim.openstreetmap.org"
	}
	return svc
}

func (s *GeolocationService) getJSON(rawURL string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", nominatimUserAgent)

	res, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("provider status %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// GeocodeWithGoogle converts an address to coordinates via the Google
// Geocoding API.
func (s *GeolocationService) GeocodeWithGoogle(address string) (*GeocodeResult, error) {
	if s.googleKey == "" {
		return nil, errors.New("Google Maps API key not configured")
	}

	q := url.Values{}
	q.Set("address", address)
	q.Set("key", s.googleKey)

	var parsed struct {
		Status  string `json:"status"`
		Results []struct {
			FormattedAddress string `json:"formatted_address"`
			PlaceID          string `json:"place_id"`
			Geometry         struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := s.getJSON(s.googleBaseURL+"/maps/api/geocode/json?"+q.Encode(), &parsed); err != nil {
		return nil, err
	}

	if parsed.Status != "OK" || len(parsed.Results) == 0 {
		return nil, fmt.Errorf("Google Geocoding failed: %s", parsed.Status)
	}

	result := parsed.Results[0]
	return &GeocodeResult{
		Latitude:         result.Geometry.Location.Lat,
		Longitude:        result.Geometry.Location.Lng,
		FormattedAddress: result.FormattedAddress,
		PlaceID:          result.PlaceID,
		Provider:         "google",
	}, nil
}

// GeocodeWithMapbox converts an address to coordinates via the Mapbox
// Places API.
func (s *GeolocationService) GeocodeWithMapbox(address string) (*GeocodeResult, error) {
	if s.mapboxKey == "" {
		return nil, errors.New("Mapbox API key not configured")
	}

	q := url.Values{}
	q.Set("access_token", s.mapboxKey)
	q.Set("country", "IN")
	q.Set("limit", "1")

	var parsed struct {
		Features []struct {
			ID        string     `json:"id"`
			PlaceName string     `json:"place_name"`
			Center    [2]float64 `json:"center"` // [lng, lat]
		} `json:"features"`
	}
	endpoint := s.mapboxBaseURL + "/geocoding/v5/mapbox.places/" + url.PathEscape(address) + ".json?" + q.Encode()
	if err := s.getJSON(endpoint, &parsed); err != nil {
		return nil, err
	}

	if len(parsed.Features) == 0 {
		return nil, errors.New("no results found")
	}

	feature := parsed.Features[0]
	return &GeocodeResult{
		Latitude:         feature.Center[1],
		Longitude:        feature.Center[0],
		FormattedAddress: feature.PlaceName,
		PlaceID:          feature.ID,
		Provider:         "mapbox",
	}, nil
}

// GeocodeWithNominatim converts an address to coordinates via the free
// OpenStreetMap Nominatim API. No key required.
func (s *GeolocationService) GeocodeWithNominatim(address string) (*GeocodeResult, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("countrycodes", "in")
	q.Set("addressdetails", "1")

	var parsed []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
		PlaceID     json.Number `json:"place_id"`
	}
	if err := s.getJSON(s.nominatimBaseURL+"/search?"+q.Encode(), &parsed); err != nil {
		return nil, err
	}

	if len(parsed) == 0 {
		return nil, errors.New("no results found")
	}

	result := parsed[0]
	lat, _ := strconv.ParseFloat(result.Lat, 64)
	lon, _ := strconv.ParseFloat(result.Lon, 64)
	return &GeocodeResult{
		Latitude:         lat,
		Longitude:        lon,
		FormattedAddress: result.DisplayName,
		PlaceID:          result.PlaceID.String(),
		Provider:         "nominatim",
	}, nil
}

// SmartGeocode tries Google, then Mapbox, then Nominatim, returning the
// first success. It fails only when every provider fails.
func (s *GeolocationService) SmartGeocode(address string) (*GeocodeResult, error) {
	geocoders := []func(string) (*GeocodeResult, error){
		s.GeocodeWithGoogle,
		s.GeocodeWithMapbox,
		s.GeocodeWithNominatim,
	}

	for _, geocode := range geocoders {
		result, err := geocode(address)
		if err == nil {
			return result, nil
		}
	}

	return nil, errors.New("all geocoding providers failed")
}

// ReverseGeocode converts coordinates to an address. Defaults to Nominatim;
// Google is used only when requested and a key is present.
func (s *GeolocationService) ReverseGeocode(latitude, longitude float64, provider string) (*ReverseGeocodeResult, error) {
	if provider == "google" && s.googleKey != "" {
		return s.reverseGeocodeWithGoogle(latitude, longitude)
	}
	return s.reverseGeocodeWithNominatim(latitude, longitude)
}

func (s *GeolocationService) reverseGeocodeWithGoogle(latitude, longitude float64) (*ReverseGeocodeResult, error) {
	q := url.Values{}
	q.Set("latlng", fmt.Sprintf("%f,%f", latitude, longitude))
	q.Set("key", s.googleKey)

	var parsed struct {
		Status  string `json:"status"`
		Results []struct {
			FormattedAddress string `json:"formatted_address"`
			PlaceID          string `json:"place_id"`
		} `json:"results"`
	}
	if err := s.getJSON(s.googleBaseURL+"/maps/api/geocode/json?"+q.Encode(), &parsed); err != nil {
		return nil, err
	}

	if parsed.Status != "OK" || len(parsed.Results) == 0 {
		return nil, errors.New("reverse geocoding failed")
	}
	return &ReverseGeocodeResult{
		Address:  parsed.Results[0].FormattedAddress,
		PlaceID:  parsed.Results[0].PlaceID,
		Provider: "google",
	}, nil
}

func (s *GeolocationService) reverseGeocodeWithNominatim(latitude, longitude float64) (*ReverseGeocodeResult, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", latitude))
	q.Set("lon", fmt.Sprintf("%f", longitude))
	q.Set("format", "json")
	q.Set("addressdetails", "1")

	var parsed struct {
		DisplayName string      `json:"display_name"`
		PlaceID     json.Number `json:"place_id"`
	}
	if err := s.getJSON(s.nominatimBaseURL+"/reverse?"+q.Encode(), &parsed); err != nil {
		return nil, err
	}

	if parsed.DisplayName == "" {
		return nil, errors.New("reverse geocoding failed")
	}
	return &ReverseGeocodeResult{
		Address:  parsed.DisplayName,
		PlaceID:  parsed.PlaceID.String(),
		Provider: "nominatim",
	}, nil
}

// NearbyAmenities finds points of interest around a property via Google
// Places. A missing key or provider failure yields an empty list, never an
// error, so an outage reads as "no results" to the client.
func (s *GeolocationService) NearbyAmenities(latitude, longitude float64, radiusMeters int, amenityType string) []Amenity {
	if s.googleKey == "" {
		return []Amenity{}
	}

	q := url.Values{}
	q.Set("location", fmt.Sprintf("%f,%f", latitude, longitude))
	q.Set("radius", fmt.Sprintf("%d", radiusMeters))
	q.Set("type", amenityType)
	q.Set("key", s.googleKey)

	var parsed struct {
		Status  string `json:"status"`
		Results []struct {
			Name     string `json:"name"`
			Rating   float64 `json:"rating"`
			Vicinity string `json:"vicinity"`
			PlaceID  string `json:"place_id"`
			Types    []string `json:"types"`
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := s.getJSON(s.googleBaseURL+"/maps/api/place/nearbysearch/json?"+q.Encode(), &parsed); err != nil {
		return []Amenity{}
	}

	if parsed.Status != "OK" {
		return []Amenity{}
	}

	amenities := make([]Amenity, 0, len(parsed.Results))
	for _, place := range parsed.Results {
		amenities = append(amenities, Amenity{
			Name:      place.Name,
			Latitude:  place.Geometry.Location.Lat,
			Longitude: place.Geometry.Location.Lng,
			Rating:    place.Rating,
			Vicinity:  place.Vicinity,
			PlaceID:   place.PlaceID,
			Types:     place.Types,
		})
	}
	return amenities
}

// GetDirections returns the first route between two points from the Google
// Directions API.
func (s *GeolocationService) GetDirections(origin, destination, mode string) (*Directions, error) {
	if s.googleKey == "" {
		return nil, errors.New("Google Maps API key not configured")
	}

	q := url.Values{}
	q.Set("origin", origin)
	q.Set("destination", destination)
	q.Set("mode", mode)
	q.Set("key", s.googleKey)

	var parsed struct {
		Status string `json:"status"`
		Routes []struct {
			Legs []struct {
				Distance struct {
					Text  string `json:"text"`
					Value int    `json:"value"`
				} `json:"distance"`
				Duration struct {
					Text  string `json:"text"`
					Value int    `json:"value"`
				} `json:"duration"`
				Steps []struct {
					HTMLInstructions string `json:"html_instructions"`
					Distance         struct {
						Text string `json:"text"`
					} `json:"distance"`
					Duration struct {
						Text string `json:"text"`
					} `json:"duration"`
				} `json:"steps"`
			} `json:"legs"`
		} `json:"routes"`
	}
	if err := s.getJSON(s.googleBaseURL+"/maps/api/directions/json?"+q.Encode(), &parsed); err != nil {
		return nil, err
	}

	if parsed.Status != "OK" || len(parsed.Routes) == 0 || len(parsed.Routes[0].Legs) == 0 {
		return nil, fmt.Errorf("Directions API failed: %s", parsed.Status)
	}

	leg := parsed.Routes[0].Legs[0]
	steps := make([]DirectionStep, 0, len(leg.Steps))
	for _, step := range leg.Steps {
		steps = append(steps, DirectionStep{
			Instruction: step.HTMLInstructions,
			Distance:    step.Distance.Text,
			Duration:    step.Duration.Text,
		})
	}

	return &Directions{
		Distance:      leg.Distance.Text,
		Duration:      leg.Duration.Text,
		DistanceValue: leg.Distance.Value,
		DurationValue: leg.Duration.Value,
		Steps:         steps,
	}, nil
}

// AutocompleteAddress suggests up to five addresses for a partial query via
// Nominatim.
func (s *GeolocationService) AutocompleteAddress(query string) ([]AddressSuggestion, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "5")
	q.Set("countrycodes", "in")
	q.Set("addressdetails", "1")

	var parsed []struct {
		Lat         string      `json:"lat"`
		Lon         string      `json:"lon"`
		DisplayName string      `json:"display_name"`
		PlaceID     json.Number `json:"place_id"`
	}
	if err := s.getJSON(s.nominatimBaseURL+"/search?"+q.Encode(), &parsed); err != nil {
		return nil, err
	}

	suggestions := make([]AddressSuggestion, 0, len(parsed))
	for _, item := range parsed {
		lat, _ := strconv.ParseFloat(item.Lat, 64)
		lon, _ := strconv.ParseFloat(item.Lon, 64)
		suggestions = append(suggestions, AddressSuggestion{
			Address:   item.DisplayName,
			Latitude:  lat,
			Longitude: lon,
			PlaceID:   item.PlaceID.String(),
		})
	}
	return suggestions, nil
}

// CalculateDistance returns the great-circle distance between two points in
// kilometers using the Haversine formula.
func CalculateDistance(lat1, lng1, lat2, lng2 float64) float64 {
	const R = 6371 // Earth's radius in kilometers

	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return R * c
}

// KilometersToMiles converts for display alongside km values.
func KilometersToMiles(km float64) float64 {
	return km * 0.621371
}
