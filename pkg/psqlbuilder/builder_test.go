package psqlbuilder

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectUsesDollarPlaceholders(t *testing.T) {
	query, args, err := Select("id").
		From("reservations").
		Where(squirrel.Eq{"organization_id": int64(7), "location_id": int64(3)}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM reservations WHERE location_id = $1 AND organization_id = $2", query)
	assert.Equal(t, []interface{}{int64(3), int64(7)}, args)
}

func TestUpdateUsesDollarPlaceholders(t *testing.T) {
	query, _, err := Update("loyalty_profiles").
		Set("packages_count", squirrel.Expr("packages_count - ?", 3)).
		Where(squirrel.Eq{"user_id": int64(1)}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "UPDATE loyalty_profiles SET packages_count = packages_count - $1 WHERE user_id = $2", query)
}
