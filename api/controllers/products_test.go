package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/sgr-storefront/internal/catalog"
	"github.com/angelmondragon/sgr-storefront/pkg/backend"
	"github.com/angelmondragon/sgr-storefront/pkg/logger"
)

type stubWriteClient struct {
	created []backend.CreateProductRequest
	updated []backend.UpdateProductRequest
	deleted []int64
}

func (s *stubWriteClient) CreateProduct(_ context.Context, req backend.CreateProductRequest) error {
	s.created = append(s.created, req)
	return nil
}

func (s *stubWriteClient) UpdateProduct(_ context.Context, req backend.UpdateProductRequest) error {
	s.updated = append(s.updated, req)
	return nil
}

func (s *stubWriteClient) DeleteProduct(_ context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type stubCategoryClient struct{}

func (stubCategoryClient) ListCategories(context.Context) ([]backend.Category, error) {
	return []backend.Category{{ID: 1, Name: "Lighting"}}, nil
}

func (stubCategoryClient) CreateCategory(context.Context, backend.CreateCategoryRequest) error {
	return nil
}

type stubFetcher struct{}

func (stubFetcher) GetFilteredProducts(context.Context, backend.FilterRequest) (*backend.ProductPage, error) {
	return &backend.ProductPage{}, nil
}

func newStubFlows(t *testing.T, client *stubWriteClient) *catalog.Flows {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	directory, err := catalog.NewDirectory(stubCategoryClient{}, logg)
	if err != nil {
		t.Fatalf("new directory: %v", err)
	}
	engine, err := catalog.NewEngine(stubFetcher{}, logg)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	flows, err := catalog.NewFlows(client, directory, engine, logg)
	if err != nil {
		t.Fatalf("new flows: %v", err)
	}
	return flows
}

func postForm(t *testing.T, handler http.HandlerFunc, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestUpdateProductSendsNullForUntouchedFields(t *testing.T) {
	client := &stubWriteClient{}
	flows := newStubFlows(t, client)

	target := backend.Product{
		ID:          7,
		Name:        "Lampada",
		Price:       decimal.NewFromFloat(19.9),
		Description: "Da tavolo",
	}
	flows.OpenUpdate(target)

	form := url.Values{
		"id":          {"7"},
		"name":        {"Lampada"},
		"price":       {"24.50"},
		"description": {"Da tavolo"},
		"categories":  {"Lighting"},
	}
	rec := postForm(t, UpdateProduct(flows), "/products/update", form)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}

	if len(client.updated) != 1 {
		t.Fatalf("expected one update, got %d", len(client.updated))
	}
	sent := client.updated[0]
	if sent.Name != nil || sent.Description != nil {
		t.Fatalf("unchanged fields must travel as null: %+v", sent)
	}
	if sent.Price == nil || *sent.Price != 24.5 {
		t.Fatalf("changed price must travel: %+v", sent.Price)
	}
}

func TestUpdateProductBlankFieldsTravelAsNull(t *testing.T) {
	client := &stubWriteClient{}
	flows := newStubFlows(t, client)
	flows.OpenUpdate(backend.Product{
		ID:          7,
		Name:        "Lampada",
		Price:       decimal.NewFromFloat(19.9),
		Description: "Da tavolo",
	})

	form := url.Values{
		"id":          {"7"},
		"name":        {""},
		"price":       {"19.90"},
		"description": {""},
		"categories":  {"Lighting"},
	}
	rec := postForm(t, UpdateProduct(flows), "/products/update", form)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}

	if len(client.updated) != 1 {
		t.Fatalf("expected one update, got %d", len(client.updated))
	}
	sent := client.updated[0]
	if sent.Name != nil {
		t.Fatalf("blank name must travel as null, got %q", *sent.Name)
	}
	if sent.Description != nil {
		t.Fatalf("blank description must travel as null, got %q", *sent.Description)
	}
}

func TestUpdateProductCarriesTags(t *testing.T) {
	client := &stubWriteClient{}
	flows := newStubFlows(t, client)
	target := backend.Product{ID: 7, Name: "Lampada", Price: decimal.NewFromFloat(19.9), Tags: []string{"vintage"}}

	flows.OpenUpdate(target)
	form := url.Values{
		"id":         {"7"},
		"price":      {"24.50"},
		"categories": {"Lighting"},
		"tags":       {"vintage, led"},
	}
	postForm(t, UpdateProduct(flows), "/products/update", form)

	if len(client.updated) != 1 {
		t.Fatalf("expected one update, got %d", len(client.updated))
	}
	sent := client.updated[0]
	if len(sent.Tags) != 2 || sent.Tags[0] != "vintage" || sent.Tags[1] != "led" {
		t.Fatalf("submitted tags must travel, got %v", sent.Tags)
	}

	// An emptied tags field clears the tags (null on the wire).
	flows.OpenUpdate(target)
	form.Set("tags", "")
	postForm(t, UpdateProduct(flows), "/products/update", form)

	if len(client.updated) != 2 {
		t.Fatalf("expected two updates, got %d", len(client.updated))
	}
	if client.updated[1].Tags != nil {
		t.Fatalf("empty tags field must clear, got %v", client.updated[1].Tags)
	}
}

func TestCreateProductParsesForm(t *testing.T) {
	client := &stubWriteClient{}
	flows := newStubFlows(t, client)
	flows.OpenCreate()

	form := url.Values{
		"name":        {"  Lampada  "},
		"price":       {"19.90"},
		"description": {"Da tavolo"},
		"categories":  {"Lighting"},
		"tags":        {"vintage, led , "},
	}
	rec := postForm(t, CreateProduct(flows), "/products/create", form)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}

	if len(client.created) != 1 {
		t.Fatalf("expected one create, got %d", len(client.created))
	}
	sent := client.created[0]
	if sent.Name != "Lampada" {
		t.Fatalf("name not trimmed: %q", sent.Name)
	}
	if len(sent.Tags) != 2 || sent.Tags[0] != "vintage" || sent.Tags[1] != "led" {
		t.Fatalf("tags not split: %v", sent.Tags)
	}
}

func TestDeleteProductRoutesConfirmation(t *testing.T) {
	client := &stubWriteClient{}
	flows := newStubFlows(t, client)
	flows.OpenDelete(backend.Product{ID: 7, Name: "Lampada"})

	postForm(t, DeleteProduct(flows), "/products/delete", url.Values{"confirm": {"sbagliato"}})
	if len(client.deleted) != 0 {
		t.Fatal("wrong confirmation must not delete")
	}

	postForm(t, DeleteProduct(flows), "/products/delete", url.Values{"confirm": {"Lampada"}})
	if len(client.deleted) != 1 || client.deleted[0] != 7 {
		t.Fatalf("unexpected deletes %v", client.deleted)
	}
}

func TestParseSort(t *testing.T) {
	if _, ok := parseSort("name:asc"); ok {
		t.Fatal("unknown field must be rejected")
	}
	if _, ok := parseSort("price"); ok {
		t.Fatal("missing direction must be rejected")
	}
	sort, ok := parseSort("date:asc")
	if !ok || sort.Field != backend.SortFieldDate || sort.Direction != backend.SortAsc {
		t.Fatalf("unexpected sort %+v ok=%t", sort, ok)
	}
}

func TestSplitTags(t *testing.T) {
	if got := splitTags("   "); got != nil {
		t.Fatalf("blank input must yield nil, got %v", got)
	}
	got := splitTags("a, b,,c ,a")
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("expected deduplicated tags, got %v", got)
	}
}
