package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thip-platform/disclosure-backend/internal/oc4ids"
)

func setupIngestRepo(t *testing.T) (*IngestRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewIngestRepository(db), mock, db
}

func strp(s string) *string { return &s }

// A public-authority party that carries only a display name still resolves to
// an agency row, and the project row links to it.
func TestIngestRepository_PublicAuthorityByNameOnly(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	doc := &oc4ids.Document{
		Title: "Expressway X",
		Parties: []oc4ids.Party{
			{ID: "1", Name: strp("Agency A"), Roles: []string{oc4ids.RolePublicAuthority}},
		},
	}

	repo, mock, db := setupIngestRepo(t)
	defer db.Close()

	agencyCols := []string{"id", "name_th", "name_en", "ministry_id"}

	mock.ExpectBegin()

	// Resolving the declared public authority creates the agency from the
	// party name. The name matches no ministry, so no linkage.
	mock.ExpectQuery(`select id, name_th, name_en\s+from ministry`).
		WithArgs("Agency A").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`select id, name_th, name_en, ministry_id`).
		WithArgs("Agency A").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`insert into agency`).
		WithArgs("Agency A", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`select id, name_th, name_en, ministry_id`).
		WithArgs("Agency A").
		WillReturnRows(sqlmock.NewRows(agencyCols).AddRow(int64(7), "Agency A", nil, nil))

	mock.ExpectExec(`insert into projects`).
		WithArgs(id, "Expressway X", nil, nil, nil, nil, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// The party loop lands on the same agency row.
	mock.ExpectQuery(`select id, name_th, name_en\s+from ministry`).
		WithArgs("Agency A").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`select id, name_th, name_en, ministry_id`).
		WithArgs("Agency A").
		WillReturnRows(sqlmock.NewRows(agencyCols).AddRow(int64(7), "Agency A", nil, nil))
	mock.ExpectQuery(`insert into project_parties`).
		WithArgs(id, "1", "Agency A", nil, nil, int64(7), nil,
			nil, nil, nil, nil, nil,
			nil, nil, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
	mock.ExpectExec(`insert into party_roles`).
		WithArgs(int64(42), oc4ids.RolePublicAuthority).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectCommit()

	require.NoError(t, repo.Create(ctx, id, doc))
	require.NoError(t, mock.ExpectationsWereMet())
}

// A party legal name that names a known ministry links the created agency
// under that ministry, so ministry filters reach the project through the
// party.
func TestIngestRepository_LegalNameNamingAMinistry(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	ministry := "กระทรวงคมนาคม"
	doc := &oc4ids.Document{
		Title: "Tollway Y",
		Parties: []oc4ids.Party{
			{
				ID:         "2",
				Name:       strp("Builder Co"),
				Identifier: &oc4ids.PartyIdentifier{LegalName: &ministry},
			},
		},
	}

	repo, mock, db := setupIngestRepo(t)
	defer db.Close()

	agencyCols := []string{"id", "name_th", "name_en", "ministry_id"}

	mock.ExpectBegin()

	// No public-authority party, so no project-level agency resolution.
	mock.ExpectExec(`insert into projects`).
		WithArgs(id, "Tollway Y", nil, nil, nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery(`select id, name_th, name_en\s+from ministry`).
		WithArgs(ministry).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name_th", "name_en"}).
			AddRow(int64(3), ministry, nil))
	mock.ExpectQuery(`select id, name_th, name_en, ministry_id`).
		WithArgs(ministry).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`insert into agency`).
		WithArgs(ministry, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`select id, name_th, name_en, ministry_id`).
		WithArgs(ministry).
		WillReturnRows(sqlmock.NewRows(agencyCols).AddRow(int64(9), ministry, nil, int64(3)))

	mock.ExpectQuery(`insert into project_parties`).
		WithArgs(id, "2", "Builder Co", nil, nil, int64(9), nil,
			nil, nil, nil, nil, nil,
			nil, nil, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(55)))

	mock.ExpectCommit()

	require.NoError(t, repo.Create(ctx, id, doc))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPartyAgencyName(t *testing.T) {
	legal := "การทางพิเศษแห่งประเทศไทย"
	display := "กทพ."

	cases := []struct {
		name  string
		party oc4ids.Party
		want  string
	}{
		{
			name: "legal name wins over the display name",
			party: oc4ids.Party{
				Name:       &display,
				Identifier: &oc4ids.PartyIdentifier{LegalName: &legal},
				Roles:      []string{oc4ids.RolePublicAuthority},
			},
			want: legal,
		},
		{
			name: "public authority falls back to the display name",
			party: oc4ids.Party{
				Name:  &display,
				Roles: []string{oc4ids.RolePublicAuthority},
			},
			want: display,
		},
		{
			name: "acting public authority falls back too",
			party: oc4ids.Party{
				Name:  &display,
				Roles: []string{oc4ids.RoleActingPublicAuthority},
			},
			want: display,
		},
		{
			name: "a supplier without a legal name resolves nothing",
			party: oc4ids.Party{
				Name:  &display,
				Roles: []string{"supplier"},
			},
			want: "",
		},
		{
			name: "a supplier with a legal name still resolves it",
			party: oc4ids.Party{
				Identifier: &oc4ids.PartyIdentifier{LegalName: &legal},
				Roles:      []string{"supplier"},
			},
			want: legal,
		},
		{
			name:  "nothing to resolve",
			party: oc4ids.Party{Roles: []string{oc4ids.RolePublicAuthority}},
			want:  "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, partyAgencyName(&tc.party))
		})
	}
}
