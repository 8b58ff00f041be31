package backend

import (
	"context"
	"encoding/json"
	"net/http"

	apperrors "github.com/angelmondragon/sgr-storefront/pkg/errors"
)

const (
	pathCategoriesList = "/v1/category/get_categories_list/"
	pathCreateCategory = "/v1/category/create_category/"
)

// ListCategories returns every category known to the backend.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	env, err := c.do(ctx, http.MethodGet, pathCategoriesList, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var categories []Category
	if err := json.Unmarshal(env.Data, &categories); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeBackend, err, "decoding category list")
	}
	return categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, req CreateCategoryRequest) error {
	_, err := c.do(ctx, http.MethodPost, pathCreateCategory, req, http.StatusCreated)
	return err
}
