package heritage

import "time"

// Category classifies a site as Cultural, Natural or Mixed.
type Category struct {
	ID   int64
	Name string
}

// Site is a heritage site record. Optional numeric fields are nil when unknown.
type Site struct {
	ID            int64
	Name          string
	Description   string
	Justification string
	DateInscribed *int
	Longitude     *float64
	Latitude      *float64
	AreaHectares  *float64
	CategoryID    int64
	Category      *Category
	Transboundary bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CategoryName returns the category name, or "" when not loaded.
func (s Site) CategoryName() string {
	if s.Category == nil {
		return ""
	}
	return s.Category.Name
}
