package resource

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/foliospace/core/internal/pkg/apperrors"
	"gorm.io/gorm"
)

const maxListLimit = 100

// Repository provides uniform create/read/update/delete over a single
// collection, parameterized by model type and schema. All store connectivity
// failures surface as ErrStoreUnavailable, distinct from not-found and
// validation errors; they are never swallowed on write paths.
type Repository[T any] struct {
	db     *gorm.DB
	schema Schema
}

// NewRepository builds a repository for one collection.
func NewRepository[T any](db *gorm.DB, schema Schema) *Repository[T] {
	return &Repository[T]{db: db, schema: schema}
}

// Schema returns the collection schema.
func (r *Repository[T]) Schema() Schema { return r.schema }

// List returns records matching the equality filters, capped at limit when
// limit > 0. An empty result set is not an error.
func (r *Repository[T]) List(filters map[string]interface{}, limit int) ([]T, error) {
	tx := r.db.Model(new(T)).Order(r.schema.OrderBy)
	for field, value := range filters {
		tx = tx.Where(fmt.Sprintf("%s = ?", field), value)
	}
	if limit > 0 {
		if limit > maxListLimit {
			limit = maxListLimit
		}
		tx = tx.Limit(limit)
	}

	items := make([]T, 0)
	if err := tx.Find(&items).Error; err != nil {
		return nil, r.storeErr("list", err)
	}
	return items, nil
}

// Get returns the record with the given id.
func (r *Repository[T]) Get(id string) (*T, error) {
	var item T
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, r.storeErr("get", err)
	}
	return &item, nil
}

// Create validates the payload against the schema, applies defaults and
// persists the record. The returned record carries the server-assigned id and
// timestamps.
func (r *Repository[T]) Create(payload map[string]interface{}) (*T, error) {
	if err := validateRequired(payload, r.schema.Required); err != nil {
		return nil, err
	}
	stripProtected(payload)
	applyDefaults(payload, r.schema.Defaults)

	item, err := decodePayload[T](payload)
	if err != nil {
		return nil, err
	}
	if err := r.db.Create(item).Error; err != nil {
		return nil, r.storeErr("create", err)
	}
	return item, nil
}

// Update replaces only the supplied fields of an existing record. A missing
// id is reported as ErrNotFound, not as a store failure.
func (r *Repository[T]) Update(id string, partial map[string]interface{}) (*T, error) {
	existing, err := r.Get(id)
	if err != nil {
		return nil, err
	}

	stripProtected(partial)
	merged, err := mergeRecord(existing, partial)
	if err != nil {
		return nil, err
	}
	if err := r.db.Save(merged).Error; err != nil {
		return nil, r.storeErr("update", err)
	}
	return merged, nil
}

// Delete removes the record with the given id (hard delete).
func (r *Repository[T]) Delete(id string) error {
	res := r.db.Unscoped().Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return r.storeErr("delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Count returns the number of records in the collection.
func (r *Repository[T]) Count() (int64, error) {
	var n int64
	if err := r.db.Model(new(T)).Count(&n).Error; err != nil {
		return 0, r.storeErr("count", err)
	}
	return n, nil
}

func (r *Repository[T]) storeErr(op string, err error) error {
	return fmt.Errorf("%s %s: %v: %w", op, r.schema.Name, err, apperrors.ErrStoreUnavailable)
}

// decodePayload maps a JSON payload onto a fresh model value.
func decodePayload[T any](payload map[string]interface{}) (*T, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, &apperrors.ValidationError{Reason: "invalid payload"}
	}
	item := new(T)
	if err := json.Unmarshal(raw, item); err != nil {
		return nil, &apperrors.ValidationError{Reason: "invalid payload: " + err.Error()}
	}
	return item, nil
}

// mergeRecord overlays the partial payload onto the stored record through its
// JSON form, so only the supplied fields change and column serializers still
// apply on save.
func mergeRecord[T any](existing *T, partial map[string]interface{}) (*T, error) {
	raw, err := json.Marshal(existing)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var snapshot map[string]interface{}
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	for field, value := range partial {
		snapshot[field] = value
	}

	merged, err := decodePayload[T](snapshot)
	if err != nil {
		return nil, err
	}
	return merged, nil
}
