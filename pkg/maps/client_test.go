package maps

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestEmbedURLEncodesQuery(t *testing.T) {
	client, err := NewClient("test-key")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	got := client.EmbedURL("Via 1, 6900 Lugano, Switzerland")
	if !strings.HasPrefix(got, "https://www.google.com/maps/embed/v1/place?") {
		t.Fatalf("unexpected prefix in %q", got)
	}
	if !strings.Contains(got, "key=test-key") {
		t.Fatalf("api key missing from %q", got)
	}
	if !strings.Contains(got, "q=Via+1%2C+6900+Lugano%2C+Switzerland") {
		t.Fatalf("place query not encoded in %q", got)
	}
}

func TestGeocodeRequest(t *testing.T) {
	respBody := `{"status":"OK","results":[{"geometry":{"location":{"lat":46.0037,"lng":8.9511}}}]}`

	var capturedURL string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("test-key",
		WithGeocodeBaseURL("http://maps.test/geocode"),
		WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	location, err := client.Geocode(context.Background(), "Via 1, Lugano")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if !strings.HasPrefix(capturedURL, "http://maps.test/geocode?") {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if !strings.Contains(capturedURL, "key=test-key") {
		t.Fatalf("api key missing from %q", capturedURL)
	}
	if location.Latitude != 46.0037 || location.Longitude != 8.9511 {
		t.Fatalf("unexpected location %+v", location)
	}
}

func TestGeocodeZeroResults(t *testing.T) {
	rt := roundTripFunc(func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"status":"ZERO_RESULTS","results":[]}`)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("test-key", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Geocode(context.Background(), "nowhere"); err == nil {
		t.Fatal("expected error for zero results")
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected error without api key")
	}
}
