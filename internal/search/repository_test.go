package search

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*Repository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewRepository(db), mock, db
}

func candidateRows(ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "created_at"})
	ts := time.Now()
	for _, id := range ids {
		rows.AddRow(id, ts)
		ts = ts.Add(-time.Minute)
	}
	return rows
}

func TestRepository_CandidateJoins(t *testing.T) {
	ctx := context.Background()

	t.Run("no filters means no joins", func(t *testing.T) {
		repo, mock, db := setupRepo(t)
		defer db.Close()

		mock.ExpectQuery(`\Aselect distinct p\.id::text, p\.created_at from projects p\swhere p\.deleted_at is null\sorder by`).
			WillReturnRows(candidateRows())

		ids, err := repo.candidateIDs(ctx, Filters{})
		require.NoError(t, err)
		assert.Empty(t, ids)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sector filter joins only the sector link", func(t *testing.T) {
		repo, mock, db := setupRepo(t)
		defer db.Close()

		mock.ExpectQuery(`(?s)\Aselect distinct p\.id::text, p\.created_at from projects p\sjoin project_sector fs.*fs\.sector_id = any`).
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(candidateRows(uuid.NewString()))

		ids, err := repo.candidateIDs(ctx, Filters{SectorIDs: []int64{1}})
		require.NoError(t, err)
		assert.Len(t, ids, 1)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ministry filter matches every join path", func(t *testing.T) {
		repo, mock, db := setupRepo(t)
		defer db.Close()

		mock.ExpectQuery(`(?s)left join party_additional_identifiers fmi.*left join agency fma.*fmi\.legal_name_id = any.*or fma\.ministry_id = any.*or fpa\.ministry_id = any`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(candidateRows())

		_, err := repo.candidateIDs(ctx, Filters{MinistryIDs: []int64{8}})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("year range overlaps the duration period", func(t *testing.T) {
		repo, mock, db := setupRepo(t)
		defer db.Close()

		from, to := 2020, 2025
		mock.ExpectQuery(`(?s)join project_periods fy.*period_type = 'duration'.*>= \$\d.*start_date\) <= \$\d`).
			WithArgs("%ทางหลวง%", from, to).
			WillReturnRows(candidateRows())

		_, err := repo.candidateIDs(ctx, Filters{Query: "ทางหลวง", YearFrom: &from, YearTo: &to})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_SearchPagination(t *testing.T) {
	ctx := context.Background()

	summaryColumns := []string{
		"id", "title", "public_authority", "pa_ministry", "budget_total", "period_start",
		"ministries", "private_parties", "sectors", "contract_types", "concession_forms",
	}

	t.Run("total counts all candidates, page holds its slice", func(t *testing.T) {
		repo, mock, db := setupRepo(t)
		defer db.Close()

		a, b, c := uuid.NewString(), uuid.NewString(), uuid.NewString()
		mock.ExpectQuery(`select distinct p\.id::text`).
			WillReturnRows(candidateRows(a, b, c))

		// Page 2 of size 2 contains only the third id.
		mock.ExpectQuery(`(?s)select p\.id::text, p\.title,.*group by`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(summaryColumns).
				AddRow(c, "โครงการ ค", "การรถไฟแห่งประเทศไทย", "กระทรวงคมนาคม",
					2_000_000_000, "2024-01-01",
					"{}", `{"บริษัทรับเหมา จำกัด"}`, `{"transport.rail"}`, `{"BTO"}`, "{}"))

		res, err := repo.Search(ctx, Filters{}, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, 3, res.Total)
		assert.Equal(t, 2, res.Page)
		require.Len(t, res.Projects, 1)

		got := res.Projects[0]
		assert.Equal(t, c, got.ID)
		assert.Equal(t, []string{"กระทรวงคมนาคม"}, got.Ministries,
			"public authority's parent ministry folds into the list")
		assert.Equal(t, []string{"บริษัทรับเหมา จำกัด"}, got.PrivateParties)
		require.NotNil(t, got.BudgetTotal)
		assert.Equal(t, float64(2_000_000_000), *got.BudgetTotal)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("page past the end skips the detail query", func(t *testing.T) {
		repo, mock, db := setupRepo(t)
		defer db.Close()

		mock.ExpectQuery(`select distinct p\.id::text`).
			WillReturnRows(candidateRows(uuid.NewString()))

		res, err := repo.Search(ctx, Filters{}, 5, 20)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Empty(t, res.Projects)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_DashboardMapping(t *testing.T) {
	ctx := context.Background()

	t.Run("empty candidate set short-circuits", func(t *testing.T) {
		repo, mock, db := setupRepo(t)
		defer db.Close()

		mock.ExpectQuery(`select distinct p\.id::text`).
			WillReturnRows(candidateRows())

		stats, err := repo.Dashboard(ctx, Filters{})
		require.NoError(t, err)
		assert.Zero(t, stats.Summary.TotalProjects)
		assert.Empty(t, stats.Ministries)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps totals, tiers and groupings", func(t *testing.T) {
		repo, mock, db := setupRepo(t)
		defer db.Close()

		mock.ExpectQuery(`select distinct p\.id::text`).
			WillReturnRows(candidateRows(uuid.NewString(), uuid.NewString(), uuid.NewString()))

		mock.ExpectQuery(`(?s)select count\(\*\),\s+coalesce\(sum`).
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{
				"count", "sum", "small_c", "small_s", "med_c", "med_s", "big_c", "big_s",
			}).AddRow(3, 8_500_000_000, 1, 500_000_000, 1, 2_000_000_000, 1, 6_000_000_000))

		mock.ExpectQuery(`select count\(distinct a\.id\)`).
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		mock.ExpectQuery(`(?s)with pm as`).
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "count", "sum"}).
				AddRow(8, "กระทรวงคมนาคม", 3, 8_500_000_000))

		mock.ExpectQuery(`(?s)from project_sector ps`).
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "code", "name", "small_c", "small_s", "med_c", "med_s", "big_c", "big_s",
			}).AddRow(1, "transport.road", "transport.road", 1, 500_000_000, 0, 0, 1, 6_000_000_000))

		mock.ExpectQuery(`(?s)from project_periods d`).
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"year", "count", "sum"}).
				AddRow(2023, 1, 500_000_000).
				AddRow(2024, 2, 8_000_000_000))

		stats, err := repo.Dashboard(ctx, Filters{})
		require.NoError(t, err)
		assert.Equal(t, 3, stats.Summary.TotalProjects)
		assert.Equal(t, float64(8_500_000_000), stats.Summary.TotalInvestment)
		assert.Equal(t, 2, stats.Summary.UniqueContractors)
		assert.Equal(t, 1, stats.Scale.Medium.Count)
		assert.Equal(t, float64(6_000_000_000), stats.Scale.Big.Investment)
		require.Len(t, stats.Ministries, 1)
		assert.Equal(t, "กระทรวงคมนาคม", stats.Ministries[0].Name)
		require.Len(t, stats.Sectors, 1)
		assert.Equal(t, 1, stats.Sectors[0].Big.Count)
		require.Len(t, stats.Years, 2)
		assert.Equal(t, 2024, stats.Years[1].Year)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
