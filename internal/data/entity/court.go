package entity

type Court struct {
	Base
	Name         string  `db:"name"`
	Sport        string  `db:"sport"`
	Location     string  `db:"location"`
	City         string  `db:"city"`
	Description  *string `db:"description"`
	PricePerHour float64 `db:"price_per_hour"`
	ImageURL     *string `db:"image_url"`
	IsActive     bool    `db:"is_active"`
}
