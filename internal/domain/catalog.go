package domain

import "time"

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

type Manufacturer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Logo      string    `json:"logo,omitempty"`
	Site      string    `json:"site,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type PhoneBrand struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Logo   string `json:"logo,omitempty"`
	Active bool   `json:"active"`
	Order  int    `json:"order"`
}

type PhoneModel struct {
	ID     int64      `json:"id"`
	Name   string     `json:"name"`
	Brand  PhoneBrand `json:"brand"`
	Active bool       `json:"active"`
	Order  int        `json:"order"`
}

// ProductModel is a per-phone-model variant of a case/screen-protector
// product, carrying its own wholesale prices and stock.
type ProductModel struct {
	ID                  int64      `json:"id"`
	ProductID           int64      `json:"product"`
	Model               PhoneModel `json:"model"`
	WholesalePrice      string     `json:"wholesale_price"`
	SuperWholesalePrice string     `json:"super_wholesale_price,omitempty"`
	Available           bool       `json:"available"`
	Stock               int        `json:"stock"`
}

const (
	ProductTypeAccessory  = "accessory"
	ProductTypeCaseOrFilm = "case_film"
)

type Product struct {
	ID                int64          `json:"id"`
	Name              string         `json:"name"`
	Description       string         `json:"description,omitempty"`
	Category          Category       `json:"category"`
	Manufacturer      Manufacturer   `json:"manufacturer"`
	Type              string         `json:"type"`
	WholesalePrice    string         `json:"wholesale_price,omitempty"`
	SuperWholesaleQty int            `json:"super_wholesale_qty,omitempty"`
	MainImage         string         `json:"main_image,omitempty"`
	Active            bool           `json:"active"`
	Featured          bool           `json:"featured"`
	Stock             int            `json:"stock"`
	ModelPrices       []ProductModel `json:"model_prices,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// ProductFilters narrows product listings; zero values mean "no filter".
type ProductFilters struct {
	CategoryID     int64
	ManufacturerID int64
	Type           string
	Search         string
	FeaturedOnly   bool
	InStockOnly    bool
}

// Paginated wraps a page of results in the backend's envelope.
type Paginated[T any] struct {
	Count    int    `json:"count"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
	Results  []T    `json:"results"`
}
