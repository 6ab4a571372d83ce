package integration

import (
	"net/http"
	"sync"
	"testing"
)

// Five workers each try to consume 30 units out of 100. Row locks on
// the stock levels serialize them, so exactly three commit and two are
// rejected for insufficient stock.
func TestConcurrentTransformations(t *testing.T) {
	env := newTestEnv(t)

	env.recordStock(t, productCereza, warehouseMain, "100", "5.00")

	const workers = 5

	var wg sync.WaitGroup
	codes := make([]int, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			rec := env.doJSON(t, http.MethodPost, "/api/v1/transformations/", map[string]any{
				"input_product_id":  productCereza,
				"input_quantity":    "30",
				"output_product_id": productPergamin,
				"warehouse_id":      warehouseMain,
				"actor_id":          "integration-test",
			}, nil)
			codes[i] = rec.Code
		}(i)
	}
	wg.Wait()

	created, rejected := 0, 0
	for _, code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusBadRequest:
			rejected++
		default:
			t.Errorf("unexpected status code %d", code)
		}
	}

	if created != 3 {
		t.Errorf("expected 3 committed transformations, got %d", created)
	}
	if rejected != 2 {
		t.Errorf("expected 2 rejected transformations, got %d", rejected)
	}

	// 10 remain as cherry, 3*30*0.85 were produced as parchment.
	assertBalance(t, env, productCereza, "10")
	assertBalance(t, env, productPergamin, "76.5")
}

// Concurrent IN movements for the same stock key must all land and the
// weighted average must reflect every receipt.
func TestConcurrentMovements(t *testing.T) {
	env := newTestEnv(t)

	const workers = 8

	var wg sync.WaitGroup
	codes := make([]int, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			rec := env.doJSON(t, http.MethodPost, "/api/v1/movements/", map[string]any{
				"product_id":   productOro,
				"warehouse_id": warehouseMain,
				"quantity":     "10",
				"direction":    "IN",
				"unit_cost":    "12.00",
				"actor_id":     "integration-test",
			}, nil)
			codes[i] = rec.Code
		}(i)
	}
	wg.Wait()

	for _, code := range codes {
		if code != http.StatusCreated {
			t.Fatalf("expected every movement to commit, got status %d", code)
		}
	}

	assertBalance(t, env, productOro, "80")

	rec := env.doJSON(t, http.MethodGet, "/api/v1/movements/?product_id=89&warehouse_id=1", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var movements []struct {
		StockVersion int64 `json:"stock_version"`
	}
	decodeBody(t, rec, &movements)
	if len(movements) != workers {
		t.Fatalf("expected %d movements, got %d", workers, len(movements))
	}

	// Every write bumped the version exactly once.
	seen := map[int64]bool{}
	for _, m := range movements {
		if seen[m.StockVersion] {
			t.Errorf("duplicate stock version %d", m.StockVersion)
		}
		seen[m.StockVersion] = true
	}
}
