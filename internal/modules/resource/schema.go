// Package resource implements the generic CRUD repository and HTTP handler
// shared by the portfolio collections (projects, skills, certificates,
// experience). One configurable component replaces four copy-pasted handlers:
// each collection supplies a Schema and a model type, nothing else.
package resource

// Schema describes one resource collection: which payload fields must be
// present on create, which defaults apply, how lists are ordered and which
// query parameters act as equality filters.
type Schema struct {
	// Name is the collection name and the API path segment, e.g. "projects".
	Name string
	// Required lists JSON field names that must be present and non-empty on
	// create. No cross-field or type-level validation is performed.
	Required []string
	// Defaults maps JSON field names to values applied when the field is
	// absent or empty on create.
	Defaults map[string]interface{}
	// OrderBy is the SQL ordering for list queries.
	OrderBy string
	// Filters lists query parameters usable as equality filters on list.
	Filters []string
}

// Projects returns the schema for the projects collection.
func Projects() Schema {
	return Schema{
		Name:     "projects",
		Required: []string{"title", "description", "category"},
		Defaults: map[string]interface{}{
			"status":   "Live",
			"featured": false,
		},
		OrderBy: "created_at DESC",
		Filters: []string{"category", "featured", "status"},
	}
}

// Skills returns the schema for the skills collection. Skills list
// alphabetically, not by creation time.
func Skills() Schema {
	return Schema{
		Name:     "skills",
		Required: []string{"name", "icon", "color", "category"},
		OrderBy:  "name ASC",
		Filters:  []string{"category"},
	}
}

// Certificates returns the schema for the certificates collection.
func Certificates() Schema {
	return Schema{
		Name:     "certificates",
		Required: []string{"title", "issuer", "date", "description"},
		Defaults: map[string]interface{}{
			"status":   "Active",
			"verified": false,
		},
		OrderBy: "created_at DESC",
		Filters: []string{"category", "verified", "status"},
	}
}

// Experience returns the schema for the experience collection.
func Experience() Schema {
	return Schema{
		Name:     "experience",
		Required: []string{"role", "company", "start_date"},
		OrderBy:  "created_at DESC",
		Filters:  []string{"category", "current"},
	}
}
