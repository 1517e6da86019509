package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nycolasmancini/pmcell-storefront/internal/domain"
)

// ListProducts fetches one page of products narrowed by the given filters.
func (c *Client) ListProducts(ctx context.Context, filters domain.ProductFilters, page int) (*domain.Paginated[domain.Product], error) {
	params := url.Values{}
	if filters.CategoryID != 0 {
		params.Set("category", strconv.FormatInt(filters.CategoryID, 10))
	}
	if filters.ManufacturerID != 0 {
		params.Set("manufacturer", strconv.FormatInt(filters.ManufacturerID, 10))
	}
	if filters.Type != "" {
		params.Set("type", filters.Type)
	}
	if filters.Search != "" {
		params.Set("search", filters.Search)
	}
	if filters.FeaturedOnly {
		params.Set("featured", "true")
	}
	if filters.InStockOnly {
		params.Set("in_stock", "true")
	}
	if page < 1 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))

	var out domain.Paginated[domain.Product]
	if err := c.get(ctx, "/api/products/?"+params.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return sharedGet[domain.Product](ctx, c, fmt.Sprintf("/api/products/%d/", id))
}

// ListProductBrands returns the phone brands a case/film product has variants
// for.
func (c *Client) ListProductBrands(ctx context.Context, productID int64) ([]domain.PhoneBrand, error) {
	brands, err := sharedGet[[]domain.PhoneBrand](ctx, c, fmt.Sprintf("/api/products/%d/brands/", productID))
	if err != nil {
		return nil, err
	}
	return *brands, nil
}

func (c *Client) ListBrandModels(ctx context.Context, productID, brandID int64) ([]domain.PhoneModel, error) {
	models, err := sharedGet[[]domain.PhoneModel](ctx, c, fmt.Sprintf("/api/products/%d/brands/%d/models/", productID, brandID))
	if err != nil {
		return nil, err
	}
	return *models, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := sharedGet[[]domain.Category](ctx, c, "/api/categories/")
	if err != nil {
		return nil, err
	}
	return *categories, nil
}

func (c *Client) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return sharedGet[domain.Category](ctx, c, fmt.Sprintf("/api/categories/%d/", id))
}

func (c *Client) ListManufacturers(ctx context.Context) ([]domain.Manufacturer, error) {
	manufacturers, err := sharedGet[[]domain.Manufacturer](ctx, c, "/api/manufacturers/")
	if err != nil {
		return nil, err
	}
	return *manufacturers, nil
}

func (c *Client) GetManufacturer(ctx context.Context, id int64) (*domain.Manufacturer, error) {
	return sharedGet[domain.Manufacturer](ctx, c, fmt.Sprintf("/api/manufacturers/%d/", id))
}
