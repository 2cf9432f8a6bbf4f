package domain

// ShoppingItem is one aggregated line of a shopping list.
type ShoppingItem struct {
	Name            string `json:"name" gorm:"column:name"`
	MeasurementUnit string `json:"measurement_unit" gorm:"column:measurement_unit"`
	Amount          int64  `json:"amount" gorm:"column:amount"`
}
