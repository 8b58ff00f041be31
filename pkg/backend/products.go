package backend

import (
	"context"
	"encoding/json"
	"net/http"

	apperrors "github.com/angelmondragon/sgr-storefront/pkg/errors"
)

const (
	pathFilteredProducts = "/v1/product/get_filtered_products/"
	pathCreateProduct    = "/v1/product/create_product/"
	pathUpdateProduct    = "/v1/product/update_product/"
	pathDeleteProduct    = "/v1/product/delete_product/"
)

// GetFilteredProducts fetches one page of products for the given filters.
func (c *Client) GetFilteredProducts(ctx context.Context, filters FilterRequest) (*ProductPage, error) {
	env, err := c.do(ctx, http.MethodPost, pathFilteredProducts, filters, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var page ProductPage
	if err := json.Unmarshal(env.Data, &page); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeBackend, err, "decoding product page")
	}
	return &page, nil
}

func (c *Client) CreateProduct(ctx context.Context, req CreateProductRequest) error {
	_, err := c.do(ctx, http.MethodPost, pathCreateProduct, req, http.StatusCreated)
	return err
}

func (c *Client) UpdateProduct(ctx context.Context, req UpdateProductRequest) error {
	_, err := c.do(ctx, http.MethodPut, pathUpdateProduct, req, http.StatusOK)
	return err
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, pathDeleteProduct, DeleteProductRequest{ID: id}, http.StatusOK)
	return err
}
