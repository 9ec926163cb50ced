// Package categorize assigns spending categories to parsed transactions.
package categorize

// Category is one spending bucket.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// OtherID is the catch-all category.
const OtherID = "other"

// DefaultCategories returns the built-in category set.
func DefaultCategories() []Category {
	return []Category{
		{"food", "Food & Dining", "Restaurants, coffee shops, groceries and food delivery"},
		{"transportation", "Transportation", "Ride hailing, taxis, fuel, parking and transit"},
		{"shopping", "Shopping", "Retail, online marketplaces and general merchandise"},
		{"lifestyle", "Lifestyle & Subscriptions", "Streaming, software subscriptions and entertainment"},
		{"health", "Health & Medical", "Pharmacies, doctors, hospitals and clinics"},
		{"travel", "Travel", "Hotels, airlines and vacation rentals"},
		{"utilities", "Bills & Utilities", "Phone, internet, power and insurance"},
		{OtherID, "Other", "Anything that does not fit another category"},
	}
}

// Catalog indexes categories by ID and by name.
type Catalog struct {
	list   []Category
	byID   map[string]Category
	byName map[string]Category
}

// NewCatalog builds a Catalog. An "other" entry is added when missing.
func NewCatalog(categories []Category) *Catalog {
	c := &Catalog{
		byID:   make(map[string]Category, len(categories)+1),
		byName: make(map[string]Category, len(categories)+1),
	}
	for _, cat := range categories {
		c.add(cat)
	}
	if _, ok := c.byID[OtherID]; !ok {
		c.add(Category{ID: OtherID, Name: "Other"})
	}
	return c
}

func (c *Catalog) add(cat Category) {
	c.list = append(c.list, cat)
	c.byID[cat.ID] = cat
	c.byName[cat.Name] = cat
}

// ByID looks up a category by ID.
func (c *Catalog) ByID(id string) (Category, bool) {
	cat, ok := c.byID[id]
	return cat, ok
}

// ByName looks up a category by display name.
func (c *Catalog) ByName(name string) (Category, bool) {
	cat, ok := c.byName[name]
	return cat, ok
}

// Name returns the display name for id, falling back to "Other".
func (c *Catalog) Name(id string) string {
	if cat, ok := c.byID[id]; ok {
		return cat.Name
	}
	return c.byID[OtherID].Name
}

// List returns the categories in definition order.
func (c *Catalog) List() []Category {
	return c.list
}
