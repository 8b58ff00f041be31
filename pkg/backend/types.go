package backend

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Category is what reads return. Write requests reference categories by name
// only (categories_name), never by id.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product mirrors the backend's read model. CreatedAt stays the raw
// dd/mm/yyyy string the backend stores; CreatedTime parses it on demand.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Tags        []string        `json:"tags,omitempty"`
	CreatedAt   string          `json:"created_at"`
	Categories  []Category      `json:"categories,omitempty"`
}

const createdAtLayout = "02/01/2006"

func (p Product) CreatedTime() (time.Time, error) {
	return time.Parse(createdAtLayout, p.CreatedAt)
}

type SortField string

const (
	SortFieldPrice SortField = "price"
	SortFieldDate  SortField = "date"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortSpec marshals as the two-element array the backend expects:
// ["price","asc"].
type SortSpec struct {
	Field     SortField
	Direction SortDirection
}

func (s SortSpec) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{string(s.Field), string(s.Direction)})
}

func (s *SortSpec) UnmarshalJSON(data []byte) error {
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	s.Field = SortField(pair[0])
	s.Direction = SortDirection(pair[1])
	return nil
}

// PriceRange marshals as [min, max].
type PriceRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

func (r PriceRange) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]decimal.Decimal{r.Min, r.Max})
}

func (r *PriceRange) UnmarshalJSON(data []byte) error {
	var pair []decimal.Decimal
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("price range must have exactly two elements, got %d", len(pair))
	}
	r.Min = pair[0]
	r.Max = pair[1]
	return nil
}

// FilterRequest is the body of get_filtered_products. Nil slices and nil
// pointers serialize as JSON null, which the backend reads as "no filter".
type FilterRequest struct {
	TextFilter        *string     `json:"text_filter"`
	CategoryFilter    []string    `json:"category_filter"`
	MinMaxPriceFilter *PriceRange `json:"min_max_price_filter"`
	SortBy            SortSpec    `json:"sort_by"`
	Page              int         `json:"page"`
	PageSize          int         `json:"page_size"`
}

type Pagination struct {
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// ProductPage is one fetched page of products plus pagination totals.
type ProductPage struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

type CreateProductRequest struct {
	Name           string   `json:"name" validate:"required"`
	Price          float64  `json:"price" validate:"gt=0"`
	CategoriesName []string `json:"categories_name" validate:"required,min=1"`
	Tags           []string `json:"tags"`
	Description    string   `json:"description" validate:"required"`
}

// UpdateProductRequest sends null for every field that should stay unchanged.
type UpdateProductRequest struct {
	ID             int64    `json:"id" validate:"required"`
	Name           *string  `json:"name"`
	Price          *float64 `json:"price" validate:"omitempty,gt=0"`
	Description    *string  `json:"description"`
	CategoriesName []string `json:"categories_name"`
	Tags           []string `json:"tags"`
}

type DeleteProductRequest struct {
	ID int64 `json:"id"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// envelope is the backend's uniform response wrapper.
type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}
