package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCalculateDistanceZero(t *testing.T) {
	d := CalculateDistance(13.0827, 80.2707, 13.0827, 80.2707)
	if d != 0 {
		t.Fatalf("expected zero distance for identical points, got %f", d)
	}
}

func TestCalculateDistanceSymmetry(t *testing.T) {
	a := CalculateDistance(13.0827, 80.2707, 12.9716, 77.5946)
	b := CalculateDistance(12.9716, 77.5946, 13.0827, 80.2707)
	if a != b {
		t.Fatalf("distance not symmetric: %f vs %f", a, b)
	}
}

func TestCalculateDistanceChennaiBangalore(t *testing.T) {
	// Chennai to Bangalore is roughly 290 km as the crow flies.
	d := CalculateDistance(13.0827, 80.2707, 12.9716, 77.5946)
	if d < 250 || d > 350 {
		t.Fatalf("Chennai-Bangalore distance out of range: %f km", d)
	}
}

func TestKilometersToMiles(t *testing.T) {
	miles := KilometersToMiles(100)
	if miles < 62.1 || miles > 62.2 {
		t.Fatalf("unexpected conversion: %f", miles)
	}
}

func TestSmartGeocodeFallsBackToNominatim(t *testing.T) {
	google := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"REQUEST_DENIED","results":[]}`))
	}))
	defer google.Close()

	nominatim := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != nominatimUserAgent {
			t.Errorf("missing expected User-Agent, got %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte(`[{"lat":"13.0827","lon":"80.2707","display_name":"Chennai, Tamil Nadu, India","place_id":12345}]`))
	}))
	defer nominatim.Close()

	svc := NewGeolocationService(GeolocationConfig{
		GoogleAPIKey:     "test-key",
		GoogleBaseURL:    google.URL,
		NominatimBaseURL: nominatim.URL,
	})

	result, err := svc.SmartGeocode("Chennai")
	if err != nil {
		t.Fatalf("expected fallback success, got error: %v", err)
	}
	if result.Provider != "nominatim" {
		t.Fatalf("expected nominatim provider, got %q", result.Provider)
	}
	if result.Latitude != 13.0827 || result.Longitude != 80.2707 {
		t.Fatalf("unexpected coordinates: %f, %f", result.Latitude, result.Longitude)
	}
}

func TestSmartGeocodeAllProvidersFail(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	svc := NewGeolocationService(GeolocationConfig{
		GoogleAPIKey:     "test-key",
		MapboxAPIKey:     "test-key",
		GoogleBaseURL:    failing.URL,
		MapboxBaseURL:    failing.URL,
		NominatimBaseURL: failing.URL,
	})

	_, err := svc.SmartGeocode("Chennai")
	if err == nil {
		t.Fatal("expected error when every provider fails")
	}
	if err.Error() != "all geocoding providers failed" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGeocodeWithGoogleNoKey(t *testing.T) {
	svc := NewGeolocationService(GeolocationConfig{})
	_, err := svc.GeocodeWithGoogle("Chennai")
	if err == nil {
		t.Fatal("expected error without an API key")
	}
}

func TestNearbyAmenitiesWithoutKey(t *testing.T) {
	svc := NewGeolocationService(GeolocationConfig{})
	amenities := svc.NearbyAmenities(13.0827, 80.2707, 1000, "lodging")
	if amenities == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(amenities) != 0 {
		t.Fatalf("expected no amenities, got %d", len(amenities))
	}
}

func TestNearbyAmenitiesProviderFailure(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	svc := NewGeolocationService(GeolocationConfig{
		GoogleAPIKey:  "test-key",
		GoogleBaseURL: failing.URL,
	})

	amenities := svc.NearbyAmenities(13.0827, 80.2707, 1000, "lodging")
	if len(amenities) != 0 {
		t.Fatalf("expected failure to read as empty, got %d results", len(amenities))
	}
}

func TestNearbyAmenitiesParsesResults(t *testing.T) {
	google := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","results":[{"name":"Hotel Chennai","rating":4.2,"vicinity":"Anna Salai","place_id":"abc","types":["lodging"],"geometry":{"location":{"lat":13.06,"lng":80.26}}}]}`))
	}))
	defer google.Close()

	svc := NewGeolocationService(GeolocationConfig{
		GoogleAPIKey:  "test-key",
		GoogleBaseURL: google.URL,
	})

	amenities := svc.NearbyAmenities(13.0827, 80.2707, 1000, "lodging")
	if len(amenities) != 1 {
		t.Fatalf("expected one amenity, got %d", len(amenities))
	}
	if amenities[0].Name != "Hotel Chennai" || amenities[0].Rating != 4.2 {
		t.Fatalf("unexpected amenity: %+v", amenities[0])
	}
}

func TestReverseGeocodeDefaultsToNominatim(t *testing.T) {
	nominatim := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"display_name":"Marina Beach, Chennai","place_id":777}`))
	}))
	defer nominatim.Close()

	svc := NewGeolocationService(GeolocationConfig{
		NominatimBaseURL: nominatim.URL,
	})

	result, err := svc.ReverseGeocode(13.05, 80.28, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Provider != "nominatim" {
		t.Fatalf("expected nominatim, got %q", result.Provider)
	}
	if result.Address != "Marina Beach, Chennai" {
		t.Fatalf("unexpected address: %q", result.Address)
	}
}
