package repository

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thip-platform/disclosure-backend/internal/projects/domain"
)

func setupDeleteRepo(t *testing.T) (*DeleteRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewDeleteRepository(db), mock, db
}

func TestDeleteRepository_SoftDelete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("stamps a live project", func(t *testing.T) {
		repo, mock, db := setupDeleteRepo(t)
		defer db.Close()

		mock.ExpectExec(`update projects`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.SoftDelete(ctx, id))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already deleted reports not found", func(t *testing.T) {
		repo, mock, db := setupDeleteRepo(t)
		defer db.Close()

		mock.ExpectExec(`update projects`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SoftDelete(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteRepository_HardDelete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("unknown id reports not found before any delete", func(t *testing.T) {
		repo, mock, db := setupDeleteRepo(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`select exists`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectRollback()

		err := repo.HardDelete(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("runs every graph statement under a savepoint", func(t *testing.T) {
		repo, mock, db := setupDeleteRepo(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`select exists`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		for _, stmt := range graphDeleteStatements {
			mock.ExpectExec(`savepoint graph_del_`).WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectExec(firstWords(stmt)).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectExec(`release savepoint graph_del_`).WillReturnResult(sqlmock.NewResult(0, 0))
		}
		mock.ExpectCommit()

		require.NoError(t, repo.HardDelete(ctx, id))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing table is skipped, other errors abort", func(t *testing.T) {
		repo, mock, db := setupDeleteRepo(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`select exists`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		// First statement hits schema drift and is rolled back to its
		// savepoint; the second fails hard and aborts the transaction.
		mock.ExpectExec(`savepoint graph_del_`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(firstWords(graphDeleteStatements[0])).
			WithArgs(id).
			WillReturnError(&pq.Error{Code: "42P01"})
		mock.ExpectExec(`rollback to savepoint graph_del_`).WillReturnResult(sqlmock.NewResult(0, 0))

		mock.ExpectExec(`savepoint graph_del_`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(firstWords(graphDeleteStatements[1])).
			WithArgs(id).
			WillReturnError(&pq.Error{Code: "23503"})
		mock.ExpectRollback()

		err := repo.HardDelete(ctx, id)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

// The statement order is the deletion contract: children before parents,
// the project row last, and no reference table anywhere.
func TestGraphDeleteStatementOrder(t *testing.T) {
	last := graphDeleteStatements[len(graphDeleteStatements)-1]
	assert.Contains(t, last, "delete from projects")

	pos := func(table string) int {
		for i, stmt := range graphDeleteStatements {
			if strings.Contains(stmt, "delete from "+table+" ") ||
				strings.Contains(stmt, "delete from "+table+"\n") ||
				strings.HasSuffix(strings.TrimSpace(stmt), "delete from "+table+" where id = $1;") {
				return i
			}
		}
		t.Fatalf("no delete statement for %s", table)
		return -1
	}

	assert.Less(t, pos("location_gazetteer_identifiers"), pos("location_gazetteers"))
	assert.Less(t, pos("location_gazetteers"), pos("project_locations"))
	assert.Less(t, pos("budget_breakdown_items"), pos("budget_breakdowns"))
	assert.Less(t, pos("budget_breakdowns"), pos("project_budgets"))
	assert.Less(t, pos("project_finance"), pos("project_budgets"))
	assert.Less(t, pos("beneficial_owner_nationalities"), pos("party_beneficial_owners"))
	assert.Less(t, pos("party_beneficial_owners"), pos("project_parties"))
	assert.Less(t, pos("contracting_tender_tenderers"), pos("contracting_tenders"))
	assert.Less(t, pos("contracting_tenders"), pos("project_contracting_processes"))
	assert.Less(t, pos("cost_items"), pos("cost_groups"))
	assert.Less(t, pos("cost_groups"), pos("project_cost_measurements"))

	for _, stmt := range graphDeleteStatements {
		for _, ref := range []string{
			"delete from ministry", "delete from agency", "delete from sector",
			"delete from project_type", "delete from currencies",
			"delete from additional_classifications", "delete from period_types",
		} {
			assert.NotContains(t, stmt, ref)
		}
	}
}

// firstWords turns a statement into a loose regexp prefix for sqlmock.
func firstWords(stmt string) string {
	fields := strings.Fields(stmt)
	if len(fields) > 3 {
		fields = fields[:3]
	}
	return `(?s)` + strings.Join(fields, `\s+`)
}
