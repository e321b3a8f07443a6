package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	t.Setenv("OPENFOODFACTS_BASE_URL", server.URL)
	return NewOpenFoodFactsClient()
}

func TestLookupFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v0/product/6281007823.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"status":1,"product":{"product_name":"Almarai Milk","image_url":"https://img.example/milk.jpg"}}`))
	})

	res, err := client.Lookup(context.Background(), "6281007823")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found || res.Name != "Almarai Milk" || res.Image != "https://img.example/milk.jpg" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestLookupPrefersArabicName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":1,"product":{"product_name_ar":"حليب المراعي","product_name":"Almarai Milk"}}`))
	})

	res, err := client.Lookup(context.Background(), "6281007823")
	if err != nil {
		t.Fatal(err)
	}
	if res.Name != "حليب المراعي" {
		t.Fatalf("expected arabic name preferred, got %q", res.Name)
	}
}

func TestLookupStatusZeroIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":0,"status_verbose":"product not found"}`))
	})

	res, err := client.Lookup(context.Background(), "000")
	if err != nil {
		t.Fatal(err)
	}
	if res.Found {
		t.Fatal("status 0 must report not found")
	}
}

func TestLookupServerFailureIsSoft(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	res, err := client.Lookup(context.Background(), "123")
	if err != nil {
		t.Fatalf("oracle failure must not surface as an error: %v", err)
	}
	if res.Found {
		t.Fatal("failed lookup must report not found")
	}
	if calls != 2 {
		t.Fatalf("expected one retry (2 calls), got %d", calls)
	}
}
