package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thip-platform/disclosure-backend/internal/oc4ids"
	"github.com/thip-platform/disclosure-backend/internal/projects/domain"
	"github.com/thip-platform/disclosure-backend/internal/projects/repository"
	"github.com/thip-platform/disclosure-backend/internal/projects/service"
	"github.com/thip-platform/disclosure-backend/internal/refdata"
	"github.com/thip-platform/disclosure-backend/internal/search"
	"github.com/thip-platform/disclosure-backend/internal/storage/postgres"
)

// setupTestPostgres connects to the database named by TEST_DB_DSN.
// Skips the test when it is not set.
func setupTestPostgres(t *testing.T) *sql.DB {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		host := os.Getenv("TEST_DB_HOST")
		port := os.Getenv("TEST_DB_PORT")
		user := os.Getenv("TEST_DB_USER")
		password := os.Getenv("TEST_DB_PASSWORD")
		dbname := os.Getenv("TEST_DB_NAME")
		if host != "" && port != "" && user != "" && dbname != "" {
			dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
				host, port, user, password, dbname)
		} else {
			t.Skip("TEST_DB_DSN not set, skipping PostgreSQL integration test")
		}
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	require.NoError(t, postgres.EnsureSchema(context.Background(), db))
	return db
}

func newProjectService(db *sql.DB) *service.ProjectService {
	return service.NewProjectService(
		repository.NewIngestRepository(db),
		repository.NewRenderRepository(db),
		repository.NewDeleteRepository(db),
	)
}

const sampleDocument = `{
	"title": "ทางพิเศษสายทดสอบ",
	"description": "Integration test expressway",
	"status": "construction",
	"period": {"startDate": "2024-01-01", "endDate": "2027-12-31", "durationInDays": 1460},
	"sector": ["transport.road"],
	"additionalClassifications": [
		{"scheme": "รูปแบบการจัดสรรกรรมสิทธิ์", "id": "BTO", "description": "BTO"},
		{"scheme": "รูปแบบสัมปทานหรือค่าตอบแทน", "id": "PPP Net Cost", "description": "PPP Net Cost"}
	],
	"budget": {
		"amount": {"amount": 2000000000, "currency": "THB"},
		"description": "งบประมาณรวม",
		"breakdown": [
			{"id": "BD1", "description": "ระยะแรก", "breakdown": [
				{"id": "BDI1", "amount": {"amount": 1200000000, "currency": "THB"}}
			]}
		]
	},
	"parties": [
		{
			"id": "1",
			"name": "การทางพิเศษแห่งประเทศไทย",
			"roles": ["publicAuthority"],
			"identifier": {"legalName": "การทางพิเศษแห่งประเทศไทย"},
			"additionalIdentifiers": [{"legalName": "กระทรวงคมนาคม"}]
		},
		{
			"id": "2",
			"name": "บริษัทรับเหมา จำกัด",
			"roles": ["supplier"],
			"identifier": {"legalName": "บริษัทรับเหมา จำกัด"}
		}
	],
	"contractingProcesses": [
		{
			"id": "cp-1",
			"summary": {
				"ocid": "ocds-213czf-000-00001",
				"title": "งานโยธา",
				"nature": ["construction"],
				"contractValue": {"amount": 1800000000, "currency": "THB"},
				"tender": {
					"procurementMethod": "open",
					"value": {"amount": 1900000000, "currency": "THB"},
					"tenderers": [{"id": "t1", "name": "บริษัทรับเหมา จำกัด"}]
				},
				"suppliers": [{"id": "s1", "name": "บริษัทรับเหมา จำกัด"}],
				"milestones": [{"id": "m1", "title": "เปิดใช้งาน", "dueDate": "2027-12-01"}]
			}
		}
	]
}`

func TestProjectRoundTrip(t *testing.T) {
	db := setupTestPostgres(t)
	defer db.Close()
	svc := newProjectService(db)
	ctx := context.Background()

	created, err := svc.Create(ctx, []byte(sampleDocument))
	require.NoError(t, err)
	id, err := uuid.Parse(created.ID)
	require.NoError(t, err)
	defer svc.HardDelete(ctx, id)

	rendered, err := svc.Get(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, "ทางพิเศษสายทดสอบ", rendered.Title)
	assert.Equal(t, []string{"transport.road"}, rendered.Sector)

	require.NotNil(t, rendered.Period)
	assert.Equal(t, "2024-01-01", *rendered.Period.StartDate)
	require.NotNil(t, rendered.Period.DurationInDays)
	assert.Equal(t, 1460, *rendered.Period.DurationInDays)

	require.NotNil(t, rendered.Budget)
	require.NotNil(t, rendered.Budget.Amount)
	assert.Equal(t, float64(2_000_000_000), *rendered.Budget.Amount.Amount)
	assert.Equal(t, "2,000 ล้าน", rendered.Budget.Amount.AmountFormatted)
	require.Len(t, rendered.Budget.Breakdown, 1)
	require.Len(t, rendered.Budget.Breakdown[0].Breakdown, 1)

	require.Len(t, rendered.Parties, 2)
	pa := rendered.PublicAuthorityParty()
	require.NotNil(t, pa)
	require.NotNil(t, pa.Identifier)
	assert.Equal(t, "การทางพิเศษแห่งประเทศไทย", *pa.Identifier.LegalName)
	require.Len(t, pa.AdditionalIdentifiers, 1)
	assert.Equal(t, "กระทรวงคมนาคม", *pa.AdditionalIdentifiers[0].LegalName)

	require.Len(t, rendered.ContractingProcesses, 1)
	sum := rendered.ContractingProcesses[0].Summary
	require.NotNil(t, sum)
	assert.Equal(t, []string{"construction"}, sum.Nature)
	require.NotNil(t, sum.Tender)
	require.Len(t, sum.Tender.Tenderers, 1)
	require.Len(t, sum.Suppliers, 1)
	require.Len(t, sum.Milestones, 1)

	require.NotNil(t, rendered.PublicAuthority, "public authority reference resolves to an agency row")
}

func TestReferenceResolutionIsIdempotent(t *testing.T) {
	db := setupTestPostgres(t)
	defer db.Close()
	svc := newProjectService(db)
	ctx := context.Background()

	first, err := svc.Create(ctx, []byte(sampleDocument))
	require.NoError(t, err)
	firstID := uuid.MustParse(first.ID)
	defer svc.HardDelete(ctx, firstID)

	second, err := svc.Create(ctx, []byte(sampleDocument))
	require.NoError(t, err)
	secondID := uuid.MustParse(second.ID)
	defer svc.HardDelete(ctx, secondID)

	var ministries int
	require.NoError(t, db.QueryRow(
		`select count(*) from ministry where name_th = $1`, "กระทรวงคมนาคม").Scan(&ministries))
	assert.Equal(t, 1, ministries, "shared ministry name resolves to one row")

	var agencies int
	require.NoError(t, db.QueryRow(
		`select count(*) from agency where name_th = $1`, "การทางพิเศษแห่งประเทศไทย").Scan(&agencies))
	assert.Equal(t, 1, agencies)
}

func TestSoftDeleteExclusion(t *testing.T) {
	db := setupTestPostgres(t)
	defer db.Close()
	svc := newProjectService(db)
	ctx := context.Background()

	created, err := svc.Create(ctx, []byte(sampleDocument))
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)
	defer svc.HardDelete(ctx, id)

	require.NoError(t, svc.SoftDelete(ctx, id))

	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.SoftDelete(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound, "second soft delete finds nothing live")

	// Children are still in storage.
	var parties int
	require.NoError(t, db.QueryRow(
		`select count(*) from project_parties where project_id = $1`, id).Scan(&parties))
	assert.Equal(t, 2, parties)

	res, err := search.NewRepository(db).Search(ctx, search.Filters{}, 1, 100)
	require.NoError(t, err)
	for _, row := range res.Projects {
		assert.NotEqual(t, id.String(), row.ID, "soft-deleted project is absent from search")
	}
}

func TestHardDeleteCompleteness(t *testing.T) {
	db := setupTestPostgres(t)
	defer db.Close()
	svc := newProjectService(db)
	ctx := context.Background()

	created, err := svc.Create(ctx, []byte(sampleDocument))
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	require.NoError(t, svc.HardDelete(ctx, id))

	for _, table := range []string{
		"project_identifiers", "project_periods", "project_sector",
		"project_additional_classifications", "project_budgets",
		"project_parties", "project_contracting_processes",
	} {
		var n int
		require.NoError(t, db.QueryRow(
			fmt.Sprintf(`select count(*) from %s where project_id = $1`, table), id).Scan(&n))
		assert.Zero(t, n, table)
	}

	var projects int
	require.NoError(t, db.QueryRow(
		`select count(*) from projects where id = $1`, id).Scan(&projects))
	assert.Zero(t, projects)

	// Reference rows survive the purge.
	var ministries int
	require.NoError(t, db.QueryRow(
		`select count(*) from ministry where name_th = $1`, "กระทรวงคมนาคม").Scan(&ministries))
	assert.Equal(t, 1, ministries)

	err = svc.HardDelete(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateReplacesGraph(t *testing.T) {
	db := setupTestPostgres(t)
	defer db.Close()
	svc := newProjectService(db)
	ctx := context.Background()

	created, err := svc.Create(ctx, []byte(sampleDocument))
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)
	defer svc.HardDelete(ctx, id)

	replacement := `{
		"title": "ทางพิเศษสายทดสอบ ปรับปรุง",
		"period": {"startDate": "2025-01-01"},
		"sector": ["transport.rail"],
		"parties": [
			{"id": "1", "name": "การรถไฟแห่งประเทศไทย", "roles": ["publicAuthority"],
			 "identifier": {"legalName": "การรถไฟแห่งประเทศไทย"}}
		]
	}`
	updated, err := svc.Update(ctx, id, []byte(replacement))
	require.NoError(t, err)
	assert.Equal(t, id.String(), updated.ID, "update keeps the caller's id")
	assert.Equal(t, "ทางพิเศษสายทดสอบ ปรับปรุง", updated.Title)
	assert.Equal(t, []string{"transport.rail"}, updated.Sector)
	assert.Nil(t, updated.Budget, "old graph is gone")
	require.Len(t, updated.Parties, 1)

	_, err = svc.Update(ctx, uuid.New(), []byte(replacement))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSearchFilters(t *testing.T) {
	db := setupTestPostgres(t)
	defer db.Close()
	svc := newProjectService(db)
	ctx := context.Background()

	created, err := svc.Create(ctx, []byte(sampleDocument))
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)
	defer svc.HardDelete(ctx, id)

	var sectorID int64
	require.NoError(t, db.QueryRow(
		`select id from sector where code = $1`, "transport.road").Scan(&sectorID))
	var ministryID int64
	require.NoError(t, db.QueryRow(
		`select id from ministry where name_th = $1`, "กระทรวงคมนาคม").Scan(&ministryID))

	repo := search.NewRepository(db)

	finds := func(f search.Filters) bool {
		res, err := repo.Search(ctx, f, 1, 100)
		require.NoError(t, err)
		for _, row := range res.Projects {
			if row.ID == id.String() {
				return true
			}
		}
		return false
	}

	assert.True(t, finds(search.Filters{SectorIDs: []int64{sectorID}}))
	assert.True(t, finds(search.Filters{MinistryIDs: []int64{ministryID}}),
		"ministry filter matches through the party-linked path")
	assert.True(t, finds(search.Filters{Query: "สายทดสอบ"}))
	assert.False(t, finds(search.Filters{Query: "ไม่มีทางเจอ"}))

	from, to := 2024, 2024
	assert.True(t, finds(search.Filters{YearFrom: &from, YearTo: &to}),
		"2024-2027 period overlaps 2024")
	past := 2010
	assert.False(t, finds(search.Filters{YearTo: &past}))
}

func TestDashboardTierBoundaries(t *testing.T) {
	db := setupTestPostgres(t)
	defer db.Close()
	svc := newProjectService(db)
	ctx := context.Background()

	mkDoc := func(title string, amount float64) string {
		return fmt.Sprintf(`{
			"title": %q,
			"period": {"startDate": "2024-01-01"},
			"sector": ["transport.road"],
			"budget": {"amount": {"amount": %.0f, "currency": "THB"}},
			"parties": [{"id": "1", "name": "หน่วยงานทดสอบระดับ", "roles": ["publicAuthority"],
				"identifier": {"legalName": "หน่วยงานทดสอบระดับ"}}]
		}`, title, amount)
	}

	var ids []uuid.UUID
	for _, c := range []struct {
		title  string
		amount float64
	}{
		{"tier-small", 999_999_999},
		{"tier-medium-floor", 1_000_000_000},
		{"tier-big-floor", 5_000_000_000},
	} {
		doc, err := svc.Create(ctx, []byte(mkDoc(c.title, c.amount)))
		require.NoError(t, err)
		ids = append(ids, uuid.MustParse(doc.ID))
	}
	defer func() {
		for _, id := range ids {
			svc.HardDelete(ctx, id)
		}
	}()

	stats, err := search.NewRepository(db).Dashboard(ctx, search.Filters{Query: "tier-"})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Summary.TotalProjects)
	assert.Equal(t, 1, stats.Scale.Small.Count)
	assert.Equal(t, 1, stats.Scale.Medium.Count, "exactly 1,000,000,000 is medium, not small")
	assert.Equal(t, 1, stats.Scale.Big.Count, "exactly 5,000,000,000 is big, not medium")
}

// A name-only public authority still lands an agency row, and a party legal
// name naming a known ministry makes the project reachable through the
// ministry filter's party path.
func TestPartyNameResolutionPaths(t *testing.T) {
	db := setupTestPostgres(t)
	defer db.Close()
	svc := newProjectService(db)
	ctx := context.Background()

	ministryName := fmt.Sprintf("กระทรวงทดสอบเส้นทาง-%s", uuid.NewString()[:8])
	ministry, err := refdata.NewResolver(db).Ministry(ctx, ministryName)
	require.NoError(t, err)

	doc := fmt.Sprintf(`{
		"title": "ทางด่วนสายชื่อหน่วยงาน",
		"period": {"startDate": "2024-01-01"},
		"sector": ["transport.road"],
		"budget": {"amount": {"amount": 2000000000, "currency": "THB"}},
		"parties": [
			{"id": "1", "name": "Agency A", "roles": ["publicAuthority"]},
			{"id": "2", "name": "Builder Co", "identifier": {"legalName": %q}}
		]
	}`, ministryName)

	created, err := svc.Create(ctx, []byte(doc))
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)
	defer svc.HardDelete(ctx, id)

	var agencies int
	require.NoError(t, db.QueryRow(
		`select count(*) from agency where name_th = $1`, "Agency A").Scan(&agencies))
	assert.Equal(t, 1, agencies, "name-only public authority resolves to an agency row")

	rendered, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, rendered.PublicAuthority)
	assert.Equal(t, "Agency A", *rendered.PublicAuthority.Name)

	var linked int
	require.NoError(t, db.QueryRow(
		`select count(*) from agency where name_th = $1 and ministry_id = $2`,
		ministryName, ministry.ID).Scan(&linked))
	assert.Equal(t, 1, linked, "legal name naming a ministry links the agency under it")

	res, err := search.NewRepository(db).Search(ctx,
		search.Filters{MinistryIDs: []int64{ministry.ID}}, 1, 100)
	require.NoError(t, err)
	found := false
	for _, row := range res.Projects {
		if row.ID == id.String() {
			found = true
		}
	}
	assert.True(t, found, "ministry filter matches through the party agency path")

	stats, err := search.NewRepository(db).Dashboard(ctx,
		search.Filters{Query: "ทางด่วนสายชื่อหน่วยงาน"})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Summary.TotalProjects)
	assert.Equal(t, 1, stats.Scale.Medium.Count)
	assert.Zero(t, stats.Summary.UniqueContractors,
		"a ministry-linked agency is not counted as a contractor")
}

func TestResolverAgainstLiveDB(t *testing.T) {
	db := setupTestPostgres(t)
	defer db.Close()
	ctx := context.Background()
	refs := refdata.NewResolver(db)

	name := fmt.Sprintf("กระทรวงทดสอบ-%s", uuid.NewString()[:8])
	first, err := refs.Ministry(ctx, name)
	require.NoError(t, err)
	second, err := refs.Ministry(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	code := oc4ids.PeriodDuration
	require.NoError(t, refs.PeriodType(ctx, code))
	require.NoError(t, refs.PeriodType(ctx, code), "re-seeding an existing code is a no-op")
}
