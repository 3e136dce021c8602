// Package admin declares what the generic admin screens show for each
// entity. Instead of a registry with global side effects, every entity gets
// one declarative descriptor that a scaffolding client interprets.
package admin

// Descriptor describes the admin list screen of one entity.
type Descriptor struct {
	// Entity is the stable machine name of the entity.
	Entity string `json:"entity"`
	// ListColumns are the stored columns shown on the list screen, in order.
	ListColumns []string `json:"list_columns"`
	// ComputedColumns are derived display columns. Their values ride along on
	// the list API responses; the computation lives in internal/display.
	ComputedColumns []string `json:"computed_columns"`
	// SearchColumns are the columns free-text search matches against.
	SearchColumns []string `json:"search_columns"`
	// FilterColumns are the columns exposed as list filters.
	FilterColumns []string `json:"filter_columns"`
	// Ordering is the default sort order.
	Ordering []string `json:"ordering"`
}

// Descriptors returns the admin descriptors for all five entities.
func Descriptors() []Descriptor {
	return []Descriptor{
		{
			Entity:        "currency",
			ListColumns:   []string{"code", "name"},
			SearchColumns: []string{"code", "name"},
			Ordering:      []string{"code"},
		},
		{
			Entity:          "product",
			ListColumns:     []string{"name", "is_active", "created_at", "updated_at"},
			ComputedColumns: []string{"average_rating"},
			SearchColumns:   []string{"name", "description"},
			FilterColumns:   []string{"is_active", "created_at", "updated_at"},
			Ordering:        []string{"id"},
		},
		{
			Entity:          "sales_data",
			ListColumns:     []string{"product_id", "date", "units_sold", "revenue"},
			ComputedColumns: []string{"revenue_per_unit"},
			SearchColumns:   []string{"product_name", "date"},
			FilterColumns:   []string{"product_id", "date", "currency_id"},
			Ordering:        []string{"date", "id"},
		},
		{
			Entity:          "user_engagement",
			ListColumns:     []string{"product_id", "date", "active_users"},
			ComputedColumns: []string{"churn_bucket"},
			SearchColumns:   []string{"product_name", "date"},
			FilterColumns:   []string{"product_id", "date"},
			Ordering:        []string{"date", "id"},
		},
		{
			Entity:          "customer_feedback",
			ListColumns:     []string{"product_id", "date", "rating"},
			ComputedColumns: []string{"rating_stars", "feedback_preview"},
			SearchColumns:   []string{"product_name", "date", "feedback"},
			FilterColumns:   []string{"product_id", "date", "rating"},
			Ordering:        []string{"date", "id"},
		},
	}
}
