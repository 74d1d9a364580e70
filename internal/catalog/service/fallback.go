package service

import "github.com/fjod/go_storefront/internal/catalog/domain"

// fallbackProducts is the bundled static set served when the catalog store
// is unreachable, so browsing keeps working without the backend.
var fallbackProducts = []domain.Product{
	{
		ID:          1,
		Name:        "Oyster Perpetual",
		Description: "The essence of the Oyster, exclusively in stainless steel.",
		Price:       8500,
		ImageURL:    "https://images.unsplash.com/photo-1614767626353-c9cccce28cc6?auto=format&fit=crop&w=800&q=80",
		Category:    "Luxury",
		Tags:        []string{"Automatic", "Steel", "Water Resistant"},
	},
	{
		ID:          2,
		Name:        "Speedmaster Moonwatch",
		Description: "The legendary chronograph that has been a part of all six lunar missions.",
		Price:       7600,
		ImageURL:    "https://images.unsplash.com/photo-1522312346375-d1a52e2b99b3?auto=format&fit=crop&w=800&q=80",
		Category:    "Sport",
		Tags:        []string{"Chronograph", "Manual", "History"},
	},
	{
		ID:          3,
		Name:        "Tank Must",
		Description: "A chic and elegant watch that stands the test of time.",
		Price:       4500,
		ImageURL:    "https://images.unsplash.com/photo-1524592094714-0f0654e20314?auto=format&fit=crop&w=800&q=80",
		Category:    "Dress",
		Tags:        []string{"Quartz", "Leather", "Rectangular"},
	},
	{
		ID:          4,
		Name:        "Seamaster Diver 300M",
		Description: "Since 1993, the Seamaster Professional Diver 300M has enjoyed a legendary following.",
		Price:       5900,
		ImageURL:    "https://images.unsplash.com/photo-1612817288484-9691c95b678a?auto=format&fit=crop&w=800&q=80",
		Category:    "Diver",
		Tags:        []string{"Automatic", "Ceramic", "300m"},
	},
	{
		ID:          5,
		Name:        "Monaco Calibre 11",
		Description: "The timeless classic worn by Steve McQueen.",
		Price:       8250,
		ImageURL:    "https://images.unsplash.com/photo-1614767625721-e378393e8e19?auto=format&fit=crop&w=800&q=80",
		Category:    "Sport",
		Tags:        []string{"Automatic", "Chronograph", "Iconic"},
	},
	{
		ID:          6,
		Name:        "Black Bay 58",
		Description: "A tribute to the brand's first divers' watches.",
		Price:       3950,
		ImageURL:    "https://images.unsplash.com/photo-1619134778706-c27533cdcd67?auto=format&fit=crop&w=800&q=80",
		Category:    "Diver",
		Tags:        []string{"Automatic", "Vintage", "200m"},
	},
}
