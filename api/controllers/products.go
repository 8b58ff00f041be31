package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/sgr-storefront/internal/catalog"
	"github.com/angelmondragon/sgr-storefront/pkg/backend"
	"github.com/angelmondragon/sgr-storefront/pkg/logger"
)

type productsView struct {
	Title      string
	Categories []backend.Category
	Snapshot   catalog.Snapshot
	Dialog     catalog.DialogState
	SortValue  string

	ShowCreateDialog bool
	ShowUpdateDialog bool
	ShowDeleteDialog bool
	DialogError      string
	FetchError       string
}

// ProductsPage renders the product grid with the current filters, pagination
// and whatever dialog is open.
func ProductsPage(rn *Renderer, engine *catalog.Engine, flows *catalog.Flows, directory *catalog.Directory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		snapshot := engine.Snapshot()
		if snapshot.Page == nil && !snapshot.Loading {
			// First visit: fetch synchronously so the grid is never empty
			// for no reason.
			engine.Refetch(ctx)
			snapshot = engine.Snapshot()
		}

		categories, err := directory.Categories(ctx)
		if err != nil && logg != nil {
			logg.Error(ctx, "category list unavailable", err)
		}

		dialog := flows.Dialog()
		view := productsView{
			Title:            "Prodotti",
			Categories:       categories,
			Snapshot:         snapshot,
			Dialog:           dialog,
			SortValue:        fmt.Sprintf("%s:%s", snapshot.State.Sort.Field, snapshot.State.Sort.Direction),
			ShowCreateDialog: dialog.Kind == catalog.DialogCreate,
			ShowUpdateDialog: dialog.Kind == catalog.DialogUpdate,
			ShowDeleteDialog: dialog.Kind == catalog.DialogDelete,
		}
		if dialog.Err != nil {
			view.DialogError = publicMessage(dialog.Err)
		}
		if snapshot.Err != nil {
			view.FetchError = publicMessage(snapshot.Err)
		}

		rn.Render(ctx, w, "products.html", view)
	}
}

// ApplyFilters handles the filter sidebar form. Every change rewinds to the
// first page; the refetch itself happens on the engine's change loop.
func ApplyFilters(engine *catalog.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/products", http.StatusSeeOther)
			return
		}

		if r.PostForm.Get("clear") != "" {
			engine.ClearFilters()
			http.Redirect(w, r, "/products", http.StatusSeeOther)
			return
		}

		engine.SetText(r.PostForm.Get("text"))
		engine.SetCategories(r.PostForm["categories"])
		engine.SetPriceRange(parsePrice(r.PostForm.Get("price_min"), catalog.PriceFloor), parsePrice(r.PostForm.Get("price_max"), catalog.PriceCeiling))
		if sort, ok := parseSort(r.PostForm.Get("sort")); ok {
			engine.SetSort(sort)
		}

		http.Redirect(w, r, "/products", http.StatusSeeOther)
	}
}

// GoToPage handles the pagination strip. Like every other state change it is
// a POST, so prefetchers following links cannot flip the page.
func GoToPage(engine *catalog.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err == nil {
			if page, err := strconv.Atoi(r.PostForm.Get("page")); err == nil {
				engine.SetPage(page)
			}
		}
		http.Redirect(w, r, "/products", http.StatusSeeOther)
	}
}

// OpenDialog opens or closes one of the product dialogs. Update and delete
// resolve their target from the currently visible page.
func OpenDialog(engine *catalog.Engine, flows *catalog.Flows) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/products", http.StatusSeeOther)
			return
		}

		switch r.PostForm.Get("open") {
		case "create":
			flows.OpenCreate()
		case "update":
			if product, ok := findVisibleProduct(engine, r.PostForm.Get("id")); ok {
				flows.OpenUpdate(product)
			}
		case "delete":
			if product, ok := findVisibleProduct(engine, r.PostForm.Get("id")); ok {
				flows.OpenDelete(product)
			}
		default:
			flows.Close()
		}

		http.Redirect(w, r, "/products", http.StatusSeeOther)
	}
}

// CreateProduct handles the create dialog submit.
func CreateProduct(flows *catalog.Flows) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/products", http.StatusSeeOther)
			return
		}

		price, _ := strconv.ParseFloat(r.PostForm.Get("price"), 64)
		_ = flows.SubmitCreate(r.Context(), backend.CreateProductRequest{
			Name:           strings.TrimSpace(r.PostForm.Get("name")),
			Price:          price,
			Description:    strings.TrimSpace(r.PostForm.Get("description")),
			CategoriesName: r.PostForm["categories"],
			Tags:           splitTags(r.PostForm.Get("tags")),
		})

		// Success closed the dialog; failure left it open with the error.
		// Either way the page shows the outcome.
		http.Redirect(w, r, "/products", http.StatusSeeOther)
	}
}

// UpdateProduct handles the update dialog submit. Fields left blank or equal
// to the dialog's target travel as null, meaning "leave unchanged". Tags are
// the exception: an empty tags field clears them.
func UpdateProduct(flows *catalog.Flows) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/products", http.StatusSeeOther)
			return
		}

		target := flows.Dialog().Target
		id, _ := strconv.ParseInt(r.PostForm.Get("id"), 10, 64)
		req := backend.UpdateProductRequest{ID: id}

		name := strings.TrimSpace(r.PostForm.Get("name"))
		if name != "" && (target == nil || name != target.Name) {
			req.Name = &name
		}
		if price, err := strconv.ParseFloat(r.PostForm.Get("price"), 64); err == nil {
			if target == nil || !target.Price.Equal(decimal.NewFromFloat(price)) {
				req.Price = &price
			}
		}
		description := strings.TrimSpace(r.PostForm.Get("description"))
		if description != "" && (target == nil || description != target.Description) {
			req.Description = &description
		}
		req.CategoriesName = r.PostForm["categories"]
		req.Tags = splitTags(r.PostForm.Get("tags"))

		_ = flows.SubmitUpdate(r.Context(), req)
		http.Redirect(w, r, "/products", http.StatusSeeOther)
	}
}

// DeleteProduct handles the delete confirmation submit.
func DeleteProduct(flows *catalog.Flows) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/products", http.StatusSeeOther)
			return
		}
		_ = flows.ConfirmDelete(r.Context(), r.PostForm.Get("confirm"))
		http.Redirect(w, r, "/products", http.StatusSeeOther)
	}
}

// CreateCategory handles the inline category form.
func CreateCategory(flows *catalog.Flows, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/products", http.StatusSeeOther)
			return
		}
		if err := flows.CreateCategory(ctx, r.PostForm.Get("name")); err != nil && logg != nil {
			logg.Error(ctx, "category creation failed", err)
		}
		http.Redirect(w, r, "/products", http.StatusSeeOther)
	}
}

func findVisibleProduct(engine *catalog.Engine, rawID string) (backend.Product, bool) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return backend.Product{}, false
	}
	snapshot := engine.Snapshot()
	if snapshot.Page == nil {
		return backend.Product{}, false
	}
	for _, product := range snapshot.Page.Products {
		if product.ID == id {
			return product, true
		}
	}
	return backend.Product{}, false
}

func parsePrice(raw string, fallback decimal.Decimal) decimal.Decimal {
	if value, err := decimal.NewFromString(strings.TrimSpace(raw)); err == nil {
		return value
	}
	return fallback
}

func parseSort(raw string) (backend.SortSpec, bool) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return backend.SortSpec{}, false
	}
	field := backend.SortField(parts[0])
	direction := backend.SortDirection(parts[1])
	if field != backend.SortFieldPrice && field != backend.SortFieldDate {
		return backend.SortSpec{}, false
	}
	if direction != backend.SortAsc && direction != backend.SortDesc {
		return backend.SortSpec{}, false
	}
	return backend.SortSpec{Field: field, Direction: direction}, true
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		tags = append(tags, trimmed)
	}
	return tags
}
