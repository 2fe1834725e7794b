package refdata

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thip-platform/disclosure-backend/internal/oc4ids"
	"github.com/thip-platform/disclosure-backend/internal/projects/domain"
)

// Kinds the dropdown endpoint serves. Each maps to a query returning
// (id, display value) pairs.
const (
	KindSector         = "sector"
	KindMinistry       = "ministry"
	KindAgency         = "agency"
	KindProjectType    = "project-type"
	KindContractType   = "contract-type"
	KindConcessionForm = "concession-form"
)

// ErrUnknownKind is returned for a kind the endpoint does not serve.
var ErrUnknownKind = fmt.Errorf("unknown reference kind")

// ListRepository reads the deduplicated reference tables for UI dropdowns.
// It runs on the pgx pool, not the mapper's sql.DB.
type ListRepository struct {
	pool *pgxpool.Pool
}

func NewListRepository(pool *pgxpool.Pool) *ListRepository {
	return &ListRepository{pool: pool}
}

// List returns the id/value pairs for one reference kind, ordered by value.
func (r *ListRepository) List(ctx context.Context, kind string) ([]domain.ReferenceItem, error) {
	query, args, err := listQuery(kind)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	items := make([]domain.ReferenceItem, 0)
	for rows.Next() {
		var it domain.ReferenceItem
		if err := rows.Scan(&it.ID, &it.Value); err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return items, nil
}

func listQuery(kind string) (string, []any, error) {
	switch kind {
	case KindSector:
		return `select id, coalesce(name_th, code) from sector where is_active order by 2;`, nil, nil
	case KindMinistry:
		return `select id, name_th from ministry order by name_th;`, nil, nil
	case KindAgency:
		return `select id, name_th from agency order by name_th;`, nil, nil
	case KindProjectType:
		return `select id, coalesce(name_th, code) from project_type order by 2;`, nil, nil
	case KindContractType:
		return `select id, coalesce(description, code) from additional_classifications where scheme = $1 order by 2;`,
			[]any{oc4ids.SchemeContractType}, nil
	case KindConcessionForm:
		return `select id, coalesce(description, code) from additional_classifications where scheme = $1 order by 2;`,
			[]any{oc4ids.SchemeConcessionForm}, nil
	}
	return "", nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
}
