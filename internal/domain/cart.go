package domain

// CartLine is one distinct purchasable selection in the cart. Two lines
// with the same product but a different color or size are separate entries.
type CartLine struct {
	ProductID   string  `json:"product_id"`
	Name        string  `json:"name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	Color       string  `json:"color"`
	Size        string  `json:"size"`
	ImageURL    string  `json:"image_url"`
	Description string  `json:"description"`
}

// LineKey uniquely identifies a cart line within one session.
type LineKey struct {
	ProductID string
	Color     string
	Size      string
}

// Key returns the identity key of the line.
func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Color: l.Color, Size: l.Size}
}

// WishEntry is a single saved-for-later product, one entry per product ID
// regardless of variation.
type WishEntry struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"image_url"`
}
