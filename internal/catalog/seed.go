package catalog

// DefaultCatalog is the fixed catalog seeded on first run when the inventory
// collection is absent.
func DefaultCatalog() []Product {
	return []Product{
		{
			ID:          1,
			Name:        "Air Jordan 5 Retro",
			Price:       12500,
			Stock:       15,
			Image:       "sl1.webp",
			Category:    "Basketball",
			Description: "Premium basketball shoes with excellent grip and comfort",
			Sizes:       []string{"8", "9", "10", "11", "12"},
			Colors:      []string{"Black", "White", "Red"},
		},
		{
			ID:          2,
			Name:        "Hiking Shoes for Adventurers",
			Price:       8500,
			Stock:       20,
			Image:       "card 1.webp",
			Category:    "Hiking",
			Description: "Durable hiking shoes for outdoor adventures",
			Sizes:       []string{"7", "8", "9", "10", "11"},
			Colors:      []string{"Brown", "Black", "Gray"},
		},
		{
			ID:          3,
			Name:        "High-Top Basketball Shoes",
			Price:       9500,
			Stock:       12,
			Image:       "card 2.webp",
			Category:    "Basketball",
			Description: "High-top design for ankle support during intense games",
			Sizes:       []string{"8", "9", "10", "11", "12"},
			Colors:      []string{"Black", "White", "Blue"},
		},
		{
			ID:          4,
			Name:        "Soccer Cleats for Speed",
			Price:       7500,
			Stock:       18,
			Image:       "card 4.webp",
			Category:    "Soccer",
			Description: "Lightweight cleats designed for speed and agility",
			Sizes:       []string{"7", "8", "9", "10", "11"},
			Colors:      []string{"Black", "White", "Blue"},
		},
		{
			ID:          5,
			Name:        "Lightweight Running Shoes",
			Price:       6500,
			Stock:       25,
			Image:       "card 6.webp",
			Category:    "Running",
			Description: "Ultra-lightweight shoes for long-distance running",
			Sizes:       []string{"7", "8", "9", "10", "11", "12"},
			Colors:      []string{"Black", "White", "Gray", "Blue"},
		},
		{
			ID:          6,
			Name:        "Tennis Court Shoes",
			Price:       8000,
			Stock:       10,
			Image:       "sc4.webp",
			Category:    "Tennis",
			Description: "Professional tennis shoes with superior court grip",
			Sizes:       []string{"8", "9", "10", "11"},
			Colors:      []string{"White", "Black"},
		},
	}
}
