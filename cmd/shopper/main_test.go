package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeCatalog(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "p1" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"Product not found"}`)
			return
		}
		_, _ = io.WriteString(w, `{"_id":"p1","name":"Whole Milk","brand":"Serge","category":"Dairy","estimated_price":450}`)
	})
	mux.HandleFunc("GET /products/{id}/prices", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[
			{"location_id":"hilo","store_name":"Hi-Lo","amount":455,"currency":"JMD","last_seen_at":"2026-01-02"},
			{"location_id":"pricesmart","amount":12.5,"currency":"USD","last_seen_at":"2026-01-03"}
		]`)
	})
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("category") == "Empty" {
			_, _ = io.WriteString(w, `[]`)
			return
		}
		_, _ = io.WriteString(w, `[{"_id":"p1","name":"Whole Milk","estimated_price":450,"location_prices":[{"location_id":"hilo","amount":455}]}]`)
	})
	mux.HandleFunc("POST /products", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"message":"Product added","product_id":"p99","store_id":"hilo"}`)
	})
	mux.HandleFunc("GET /product-stores", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"store_id":"hilo","store_name":"Hi-Lo","product_count":120}]`)
	})
	mux.HandleFunc("GET /categories", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `["Dairy","Bakery"]`)
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

// setupEnv points the CLI at a fresh file store and the fake catalog.
func setupEnv(t *testing.T, catalogURL string) {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("SHOPPER_CONFIG", filepath.Join(dir, "missing.yaml"))
	t.Setenv("STORAGE_DRIVER", "file")
	t.Setenv("STORAGE_PATH", filepath.Join(dir, "shopper.json"))
	t.Setenv("CATALOG_URL", catalogURL)
	t.Setenv("PROFILE_PLATFORM", "cli")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LIST_KEY_PREFIX", "")
	t.Setenv("METRICS_ENABLED", "")
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	err := execute(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestCLI_ListLifecycle(t *testing.T) {
	setupEnv(t, newFakeCatalog(t).URL)

	out, _, err := run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Your list is empty.")

	out, _, err = run(t, "add", "p1")
	require.NoError(t, err)
	assert.Contains(t, out, "Whole Milk")

	_, _, err = run(t, "add", "p1")
	require.NoError(t, err)

	out, _, err = run(t, "add", "local-1", "--name", "Hardo Bread", "--price", "320.50")
	require.NoError(t, err)
	assert.Contains(t, out, "2 items, 3 units, estimated $1220.50")

	out, _, err = run(t, "qty", "p1", "0")
	require.NoError(t, err)
	assert.NotContains(t, out, "Whole Milk")

	out, _, err = run(t, "total")
	require.NoError(t, err)
	assert.Equal(t, "$320.50\n", out)

	out, _, err = run(t, "rm", "local-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Your list is empty.")

	_, _, err = run(t, "add", "local-2", "--name", "Ackee")
	require.NoError(t, err)
	out, _, err = run(t, "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Your list is empty.")
}

func TestCLI_AddUnknownProduct(t *testing.T) {
	setupEnv(t, newFakeCatalog(t).URL)

	_, _, err := run(t, "add", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Product not found")
}

func TestCLI_BadQuantity(t *testing.T) {
	setupEnv(t, newFakeCatalog(t).URL)

	_, _, err := run(t, "qty", "p1", "many")
	require.Error(t, err)
}

func TestCLI_ProfileIsStable(t *testing.T) {
	setupEnv(t, newFakeCatalog(t).URL)

	first, _, err := run(t, "profile")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first, "cli-"), first)

	second, _, err := run(t, "profile")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCLI_Catalog(t *testing.T) {
	setupEnv(t, newFakeCatalog(t).URL)

	out, _, err := run(t, "search", "milk", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Whole Milk")
	assert.Contains(t, out, "$450.00")
	assert.Contains(t, out, "1 store")

	out, _, err = run(t, "search", "--category", "Empty")
	require.NoError(t, err)
	assert.Contains(t, out, "No products found.")

	out, _, err = run(t, "product", "p1")
	require.NoError(t, err)
	assert.Contains(t, out, "Brand: Serge")
	assert.Contains(t, out, "Available at 2 stores")
	assert.Contains(t, out, "Hi-Lo")
	assert.Contains(t, out, "US$12.50")

	out, _, err = run(t, "stores")
	require.NoError(t, err)
	assert.Contains(t, out, "Hi-Lo")
	assert.Contains(t, out, "1 store\n")

	out, _, err = run(t, "categories")
	require.NoError(t, err)
	assert.Equal(t, "Dairy\nBakery\n", out)
}

func TestCLI_Submit(t *testing.T) {
	setupEnv(t, newFakeCatalog(t).URL)

	_, _, err := run(t, "submit", "--name", "X", "--store", "hilo", "--price", "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2 characters")

	out, _, err := run(t, "submit", "--name", "Corned Beef", "--store", "HILO", "--price", "650")
	require.NoError(t, err)
	assert.Contains(t, out, "Product added (product p99 at hilo)")
}

func TestCLI_AddRejectsBadPrice(t *testing.T) {
	setupEnv(t, newFakeCatalog(t).URL)

	for _, p := range []string{"Inf", "-Inf", "NaN", "-1"} {
		_, _, err := run(t, "add", "x1", "--name", "Thing", "--price", p)
		require.Error(t, err, p)
		assert.Contains(t, err.Error(), "--price must be a non-negative number")
	}

	_, _, err := run(t, "add", "p1", "--price", "99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--price requires --name")

	out, _, err := run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Your list is empty.")
}
