package blocks

// Texts rendered in place of an empty collection.
const (
	EmptyBrandLogos = "No brand logos to display"
	EmptyBrands     = "No brands to display"
	EmptySlides     = "No carousel slides available"
	EmptyCategories = "No categories available"
	EmptyProducts   = "No products available"
	EmptyLinks      = "No links available"
)
