package client

import (
	"context"
	"net/url"
)

// ProductsService groups the product endpoints.
type ProductsService struct {
	c *Client
}

// List returns active products, optionally filtered by a search query over
// name, description and category.
func (s *ProductsService) List(ctx context.Context, search string) ([]Product, error) {
	path := "/products"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	var out []Product
	err := s.c.get(ctx, path, &out)
	return out, err
}

// ListAll returns every product including deactivated ones.
func (s *ProductsService) ListAll(ctx context.Context) ([]Product, error) {
	var out []Product
	err := s.c.get(ctx, "/products/all", &out)
	return out, err
}

// Get fetches one product by id.
func (s *ProductsService) Get(ctx context.Context, id string) (Product, error) {
	var out Product
	err := s.c.get(ctx, "/products/"+url.PathEscape(id), &out)
	return out, err
}

// Create adds a product. Tax rate, unit and taxability default server side.
func (s *ProductsService) Create(ctx context.Context, in ProductInput) (Product, error) {
	var out Product
	err := s.c.post(ctx, "/products", in, &out)
	return out, err
}

// Update applies a partial update to a product.
func (s *ProductsService) Update(ctx context.Context, id string, in ProductInput) (Product, error) {
	var out Product
	err := s.c.put(ctx, "/products/"+url.PathEscape(id), in, &out)
	return out, err
}

// Delete deactivates a product.
func (s *ProductsService) Delete(ctx context.Context, id string) error {
	return s.c.delete(ctx, "/products/"+url.PathEscape(id), nil)
}
