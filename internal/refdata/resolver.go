package refdata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thip-platform/disclosure-backend/internal/projects/domain"
)

// DBTX is satisfied by *sql.DB and *sql.Tx. The resolver runs against
// whichever handle the caller is writing through, so reference rows created
// during an ingestion roll back with it.
type DBTX interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Resolver provides get-or-create lookups for shared reference entities,
// deduplicated by natural key. Creates go through `on conflict do nothing`
// followed by a re-select, so a concurrent ingestion winning the insert race
// is indistinguishable from the row having existed all along — and the
// transaction survives the conflict.
type Resolver struct {
	db DBTX
}

func NewResolver(db DBTX) *Resolver {
	return &Resolver{db: db}
}

// Ministry resolves a ministry by its Thai name.
func (r *Resolver) Ministry(ctx context.Context, nameTH string) (*domain.Ministry, error) {
	const sel = `
select id, name_th, name_en
from ministry
where name_th = $1;
`
	const ins = `
insert into ministry (name_th, created_at, updated_at)
values ($1, now(), now())
on conflict (name_th) do nothing;
`
	var m domain.Ministry
	err := r.db.QueryRowContext(ctx, sel, nameTH).Scan(&m.ID, &m.NameTH, &m.NameEN)
	if err == nil {
		return &m, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("select ministry: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, ins, nameTH); err != nil {
		return nil, fmt.Errorf("insert ministry: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, sel, nameTH).Scan(&m.ID, &m.NameTH, &m.NameEN); err != nil {
		return nil, fmt.Errorf("reselect ministry: %w", err)
	}
	return &m, nil
}

// MinistryByName finds a ministry by exact Thai name. Returns nil when no
// such ministry exists; nothing is created.
func (r *Resolver) MinistryByName(ctx context.Context, nameTH string) (*domain.Ministry, error) {
	const sel = `
select id, name_th, name_en
from ministry
where name_th = $1;
`
	var m domain.Ministry
	err := r.db.QueryRowContext(ctx, sel, nameTH).Scan(&m.ID, &m.NameTH, &m.NameEN)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find ministry: %w", err)
	}
	return &m, nil
}

// Agency resolves an agency by its Thai name. A non-nil ministryID is only
// applied on create; an existing agency keeps its linkage.
func (r *Resolver) Agency(ctx context.Context, nameTH string, ministryID *int64) (*domain.Agency, error) {
	const sel = `
select id, name_th, name_en, ministry_id
from agency
where name_th = $1;
`
	const ins = `
insert into agency (name_th, ministry_id, created_at, updated_at)
values ($1, $2, now(), now())
on conflict (name_th) do nothing;
`
	var a domain.Agency
	err := r.db.QueryRowContext(ctx, sel, nameTH).Scan(&a.ID, &a.NameTH, &a.NameEN, &a.MinistryID)
	if err == nil {
		return &a, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("select agency: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, ins, nameTH, ministryID); err != nil {
		return nil, fmt.Errorf("insert agency: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, sel, nameTH).Scan(&a.ID, &a.NameTH, &a.NameEN, &a.MinistryID); err != nil {
		return nil, fmt.Errorf("reselect agency: %w", err)
	}
	return &a, nil
}

// Sector resolves a sector by code. Unknown codes are created with the code
// as a fallback display name, the same way the seed data does.
func (r *Resolver) Sector(ctx context.Context, code string) (*domain.Sector, error) {
	const sel = `
select id, code, name_th, name_en, category, parent_id, is_active
from sector
where code = $1;
`
	const ins = `
insert into sector (code, name_th, name_en, category, is_active, created_at, updated_at)
values ($1, $1, $1, $1, true, now(), now())
on conflict (code) do nothing;
`
	var s domain.Sector
	err := r.db.QueryRowContext(ctx, sel, code).
		Scan(&s.ID, &s.Code, &s.NameTH, &s.NameEN, &s.Category, &s.ParentID, &s.IsActive)
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("select sector: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, ins, code); err != nil {
		return nil, fmt.Errorf("insert sector: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, sel, code).
		Scan(&s.ID, &s.Code, &s.NameTH, &s.NameEN, &s.Category, &s.ParentID, &s.IsActive); err != nil {
		return nil, fmt.Errorf("reselect sector: %w", err)
	}
	return &s, nil
}

// ProjectType resolves a project type by code.
func (r *Resolver) ProjectType(ctx context.Context, code string) (*domain.ProjectType, error) {
	const sel = `
select id, code, scheme, name_th, name_en
from project_type
where code = $1;
`
	const ins = `
insert into project_type (code)
values ($1)
on conflict (code) do nothing;
`
	var pt domain.ProjectType
	err := r.db.QueryRowContext(ctx, sel, code).
		Scan(&pt.ID, &pt.Code, &pt.Scheme, &pt.NameTH, &pt.NameEN)
	if err == nil {
		return &pt, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("select project type: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, ins, code); err != nil {
		return nil, fmt.Errorf("insert project type: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, sel, code).
		Scan(&pt.ID, &pt.Code, &pt.Scheme, &pt.NameTH, &pt.NameEN); err != nil {
		return nil, fmt.Errorf("reselect project type: %w", err)
	}
	return &pt, nil
}

// Currency makes sure a currency code exists before anything references it.
// Codes arrive from budgets, finance entries and contracting values alike.
func (r *Resolver) Currency(ctx context.Context, code string) error {
	if code == "" {
		return nil
	}
	const ins = `
insert into currencies (code, name, is_active)
values ($1, $1, true)
on conflict (code) do nothing;
`
	if _, err := r.db.ExecContext(ctx, ins, code); err != nil {
		return fmt.Errorf("ensure currency %q: %w", code, err)
	}
	return nil
}

// Classification resolves by the (scheme, code) natural key.
func (r *Resolver) Classification(ctx context.Context, scheme, code string, description, uri *string) (*domain.Classification, error) {
	const sel = `
select id, scheme, code, description, uri
from additional_classifications
where scheme = $1 and code = $2;
`
	const ins = `
insert into additional_classifications (scheme, code, description, uri)
values ($1, $2, $3, $4)
on conflict (scheme, code) do nothing;
`
	var c domain.Classification
	err := r.db.QueryRowContext(ctx, sel, scheme, code).
		Scan(&c.ID, &c.Scheme, &c.Code, &c.Description, &c.URI)
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("select classification: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, ins, scheme, code, description, uri); err != nil {
		return nil, fmt.Errorf("insert classification: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, sel, scheme, code).
		Scan(&c.ID, &c.Scheme, &c.Code, &c.Description, &c.URI); err != nil {
		return nil, fmt.Errorf("reselect classification: %w", err)
	}
	return &c, nil
}

// PeriodType makes sure a period type code exists before a period row
// references it.
func (r *Resolver) PeriodType(ctx context.Context, code string) error {
	const ins = `
insert into period_types (code, name_en, is_active)
values ($1, $1, true)
on conflict (code) do nothing;
`
	if _, err := r.db.ExecContext(ctx, ins, code); err != nil {
		return fmt.Errorf("ensure period type %q: %w", code, err)
	}
	return nil
}
