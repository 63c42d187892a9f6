package catalog

// Variation is a (color, size) pair of a product with its own stock quantity.
type Variation struct {
	Color    string `json:"color"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// Product is a catalog item as served by the catalog service.
type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       float64     `json:"price"`
	ImageURL    string      `json:"image_url"`
	Variations  []Variation `json:"variations"`
}

// Snapshot is a read-only cache of per-variation stock, taken once at
// startup. It is never refreshed; staleness against server-side stock
// changes is accepted.
type Snapshot struct {
	stock map[string][]Variation
}

// NewSnapshot builds a snapshot from a product listing. A nil or empty
// listing yields a snapshot where every ceiling lookup reports not found.
func NewSnapshot(products []Product) *Snapshot {
	stock := make(map[string][]Variation, len(products))
	for _, p := range products {
		stock[p.ID] = append([]Variation(nil), p.Variations...)
	}
	return &Snapshot{stock: stock}
}

// Ceiling returns the stock ceiling for the given variation. The second
// return value is false when the product or the exact (color, size) pair
// is unknown to the snapshot; callers must treat that as a ceiling of 0.
// Matching is exact and case-sensitive.
func (s *Snapshot) Ceiling(productID, color, size string) (int, bool) {
	variations, ok := s.stock[productID]
	if !ok {
		return 0, false
	}
	for _, v := range variations {
		if v.Color == color && v.Size == size {
			return v.Quantity, true
		}
	}
	return 0, false
}

// Len returns the number of products in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.stock)
}
