package resource

import (
	"testing"

	"github.com/foliospace/core/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequiredNamesEveryMissingField(t *testing.T) {
	err := validateRequired(map[string]interface{}{
		"title":       "ok",
		"description": "",
		"category":    nil,
	}, []string{"title", "description", "category"})
	require.Error(t, err)

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"description", "category"}, ve.Fields)
}

func TestValidateRequiredPasses(t *testing.T) {
	assert.NoError(t, validateRequired(map[string]interface{}{
		"title": "a", "featured": false,
	}, []string{"title"}))
}

func TestIsEmptyValue(t *testing.T) {
	assert.True(t, isEmptyValue(nil))
	assert.True(t, isEmptyValue(""))
	assert.True(t, isEmptyValue([]interface{}{}))
	assert.False(t, isEmptyValue("x"))
	assert.False(t, isEmptyValue(false))
	assert.False(t, isEmptyValue(0))
	assert.False(t, isEmptyValue([]interface{}{"x"}))
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	payload := map[string]interface{}{
		"status":   "Archived",
		"featured": false,
	}
	applyDefaults(payload, map[string]interface{}{
		"status":   "Live",
		"featured": true,
		"extra":    "filled",
	})

	assert.Equal(t, "Archived", payload["status"])
	assert.Equal(t, false, payload["featured"])
	assert.Equal(t, "filled", payload["extra"])
}

func TestStripProtected(t *testing.T) {
	payload := map[string]interface{}{
		"id":       "x",
		"created":  "2026-01-01",
		"modified": "2026-01-01",
		"title":    "keep",
	}
	stripProtected(payload)
	assert.Equal(t, map[string]interface{}{"title": "keep"}, payload)
}
