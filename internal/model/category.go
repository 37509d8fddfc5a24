package model

// Category tokens accepted by the catalog
const (
	CategoryTrending  = "trending"
	CategoryPopular   = "popular"
	CategoryTV        = "tv"
	CategoryBollywood = "bollywood"
	CategoryFree      = "free"
)

// Category is one entry of the side menu
type Category struct {
	Token   string
	Heading string
}

// Categories lists the menu entries in display order
var Categories = []Category{
	{Token: CategoryTrending, Heading: "Trending This Week"},
	{Token: CategoryPopular, Heading: "Popular Movies"},
	{Token: CategoryTV, Heading: "Popular TV Shows"},
	{Token: CategoryBollywood, Heading: "Bollywood Movies"},
	{Token: CategoryFree, Heading: "Free To Watch"},
}

// DefaultHeading is shown above the grid before any category is picked
const DefaultHeading = "Now Playing"

// GetCategory returns the category matching a token
func GetCategory(token string) (Category, bool) {
	for _, c := range Categories {
		if c.Token == token {
			return c, true
		}
	}
	return Category{}, false
}
