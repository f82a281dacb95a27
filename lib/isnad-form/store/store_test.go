package isnadformstore

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestIsConstraintViolation(t *testing.T) {
	t.Run(`active asset index breach is matched check`, func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: activeAssetConstraint}
		require.True(t, isConstraintViolation(pgErr, activeAssetConstraint))
		require.True(t, isConstraintViolation(errors.Wrap(pgErr, "insert failed"), activeAssetConstraint))

		pqErr := &pq.Error{Code: "23505", Constraint: activeAssetConstraint}
		require.True(t, isConstraintViolation(pqErr, activeAssetConstraint))
	})

	t.Run(`form code collision is not a duplicate active form check`, func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "idx_isnad_forms_form_code"}
		require.False(t, isConstraintViolation(pgErr, activeAssetConstraint))

		pqErr := &pq.Error{Code: "23505", Constraint: "idx_isnad_forms_form_code"}
		require.False(t, isConstraintViolation(pqErr, activeAssetConstraint))
	})

	t.Run(`non-unique errors never match check`, func(t *testing.T) {
		require.False(t, isConstraintViolation(errors.New("connection reset"), activeAssetConstraint))
		pgErr := &pgconn.PgError{Code: "23503", ConstraintName: activeAssetConstraint}
		require.False(t, isConstraintViolation(pgErr, activeAssetConstraint))
	})
}
