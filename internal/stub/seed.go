package stub

import "github.com/nycolasmancini/pmcell-storefront/internal/domain"

func (s *Server) seed() {
	cables := domain.Category{ID: 1, Name: "Cables", Active: true}
	cases := domain.Category{ID: 2, Name: "Cases & Films", Active: true}
	audio := domain.Category{ID: 3, Name: "Audio", Active: true}
	s.categories = []domain.Category{cables, cases, audio}

	acme := domain.Manufacturer{ID: 1, Name: "Acme Mobile", Active: true}
	voltz := domain.Manufacturer{ID: 2, Name: "Voltz", Active: true}
	s.makers = []domain.Manufacturer{acme, voltz}

	s.products = []domain.Product{
		{
			ID: 1, Name: "USB-C Cable 2m", Category: cables, Manufacturer: voltz,
			Type: domain.ProductTypeAccessory, WholesalePrice: "8.90", Active: true, Stock: 240,
		},
		{
			ID: 2, Name: "Tempered Glass Film", Category: cases, Manufacturer: acme,
			Type: domain.ProductTypeCaseOrFilm, Active: true, Stock: 500,
		},
		{
			ID: 3, Name: "TWS Earbuds", Category: audio, Manufacturer: acme,
			Type: domain.ProductTypeAccessory, WholesalePrice: "45.00", Active: true, Featured: true, Stock: 80,
		},
		{
			ID: 5, Name: "Wall Charger 20W", Category: cables, Manufacturer: voltz,
			Type: domain.ProductTypeAccessory, WholesalePrice: "12.50", Active: true, Stock: 150,
		},
	}

	s.prices = map[int64]string{
		1: "8.90",
		2: "3.20",
		3: "45.00",
		5: "12.50",
	}
}
