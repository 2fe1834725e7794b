package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/thip-platform/disclosure-backend/internal/oc4ids"
)

// Repository runs the portal's filter and aggregation queries. Reads go
// through the same mapper handle as the document store and always exclude
// soft-deleted projects.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// firstBudget picks one budget row per project for display and bucketing.
const firstBudget = `(select distinct on (project_id) project_id, total_amount
	from project_budgets order by project_id, id)`

// candidateIDs computes the qualifying project id set with only the joins
// the active filters require. Ids come back newest first.
func (r *Repository) candidateIDs(ctx context.Context, f Filters) ([]string, error) {
	var joins strings.Builder
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	conds := []string{"p.deleted_at is null"}

	if q := strings.TrimSpace(f.Query); q != "" {
		conds = append(conds, "p.title ilike "+arg("%"+q+"%"))
	}
	if len(f.SectorIDs) > 0 {
		joins.WriteString("\njoin project_sector fs on fs.project_id = p.id")
		conds = append(conds, "fs.sector_id = any("+arg(pq.Array(f.SectorIDs))+")")
	}
	if len(f.MinistryIDs) > 0 {
		// A project matches a ministry through a party's linked ministry,
		// through a party agency's parent ministry, or through its public
		// authority's parent ministry.
		joins.WriteString("\nleft join agency fpa on fpa.id = p.public_authority_id")
		joins.WriteString("\nleft join project_parties fmp on fmp.project_id = p.id")
		joins.WriteString("\nleft join party_additional_identifiers fmi on fmi.party_id = fmp.id")
		joins.WriteString("\nleft join agency fma on fma.id = fmp.identifier_legal_name_id")
		conds = append(conds, "(fmi.legal_name_id = any("+arg(pq.Array(f.MinistryIDs))+
			") or fma.ministry_id = any("+arg(pq.Array(f.MinistryIDs))+
			") or fpa.ministry_id = any("+arg(pq.Array(f.MinistryIDs))+"))")
	}
	if len(f.AgencyIDs) > 0 {
		joins.WriteString("\nleft join project_parties fap on fap.project_id = p.id")
		conds = append(conds, "(fap.identifier_legal_name_id = any("+arg(pq.Array(f.AgencyIDs))+
			") or p.public_authority_id = any("+arg(pq.Array(f.AgencyIDs))+"))")
	}
	if len(f.ContractTypeIDs) > 0 {
		joins.WriteString("\njoin project_additional_classifications fctl on fctl.project_id = p.id")
		joins.WriteString("\njoin additional_classifications fct on fct.id = fctl.classification_id")
		conds = append(conds, "fct.scheme = "+arg(oc4ids.SchemeContractType)+
			" and fct.id = any("+arg(pq.Array(f.ContractTypeIDs))+")")
	}
	if len(f.ConcessionFormIDs) > 0 {
		joins.WriteString("\njoin project_additional_classifications fcfl on fcfl.project_id = p.id")
		joins.WriteString("\njoin additional_classifications fcf on fcf.id = fcfl.classification_id")
		conds = append(conds, "fcf.scheme = "+arg(oc4ids.SchemeConcessionForm)+
			" and fcf.id = any("+arg(pq.Array(f.ConcessionFormIDs))+")")
	}
	if f.YearFrom != nil || f.YearTo != nil {
		// Overlap against the project's duration period, not start year
		// containment. Projects without a duration period drop out.
		joins.WriteString("\njoin project_periods fy on fy.project_id = p.id and fy.period_type = 'duration'")
		if f.YearFrom != nil {
			conds = append(conds,
				"coalesce(extract(year from fy.end_date), extract(year from fy.start_date)) >= "+arg(*f.YearFrom))
		}
		if f.YearTo != nil {
			conds = append(conds, "extract(year from fy.start_date) <= "+arg(*f.YearTo))
		}
	}

	query := "select distinct p.id::text, p.created_at from projects p" + joins.String() +
		"\nwhere " + strings.Join(conds, "\n  and ") +
		"\norder by p.created_at desc, p.id;"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("candidate ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		var createdAt time.Time
		if err := rows.Scan(&id, &createdAt); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Search returns one page of summaries plus the total match count.
func (r *Repository) Search(ctx context.Context, f Filters, page, pageSize int) (*Result, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	ids, err := r.candidateIDs(ctx, f)
	if err != nil {
		return nil, err
	}

	res := &Result{Projects: []Summary{}, Total: len(ids), Page: page, PageSize: pageSize}

	offset := (page - 1) * pageSize
	if offset >= len(ids) {
		return res, nil
	}
	end := offset + pageSize
	if end > len(ids) {
		end = len(ids)
	}
	pageIDs := ids[offset:end]

	const q = `
select p.id::text, p.title,
	coalesce(pa.name_en, pa.name_th),
	pam.name_th,
	b.total_amount,
	d.start_date::text,
	coalesce(array_agg(distinct pm.name_th) filter (where pm.name_th is not null), '{}'),
	coalesce(array_agg(distinct pvt.name_th) filter (where pvt.ministry_id is null and pvt.id is distinct from p.public_authority_id), '{}'),
	coalesce(array_agg(distinct coalesce(s.name_th, s.code)) filter (where s.id is not null), '{}'),
	coalesce(array_agg(distinct coalesce(ac.description, ac.code)) filter (where ac.scheme = $2), '{}'),
	coalesce(array_agg(distinct coalesce(ac.description, ac.code)) filter (where ac.scheme = $3), '{}')
from projects p
left join agency pa on pa.id = p.public_authority_id
left join ministry pam on pam.id = pa.ministry_id
left join ` + firstBudget + ` b on b.project_id = p.id
left join project_periods d on d.project_id = p.id and d.period_type = 'duration'
left join project_parties pp on pp.project_id = p.id
left join party_additional_identifiers pai on pai.party_id = pp.id
left join agency pvt on pvt.id = pp.identifier_legal_name_id
left join ministry pm on pm.id = coalesce(pai.legal_name_id, pvt.ministry_id)
left join project_sector ps on ps.project_id = p.id
left join sector s on s.id = ps.sector_id
left join project_additional_classifications pac on pac.project_id = p.id
left join additional_classifications ac on ac.id = pac.classification_id
where p.id = any($1::uuid[])
group by p.id, p.title, p.created_at, pa.name_en, pa.name_th, pam.name_th, b.total_amount, d.start_date
order by p.created_at desc, p.id;
`
	rows, err := r.db.QueryContext(ctx, q, pq.Array(pageIDs),
		oc4ids.SchemeContractType, oc4ids.SchemeConcessionForm)
	if err != nil {
		return nil, fmt.Errorf("search detail: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s Summary
		var publicAuthority, paMinistry, periodStart sql.NullString
		var budgetTotal sql.NullFloat64
		if err := rows.Scan(&s.ID, &s.Title, &publicAuthority, &paMinistry,
			&budgetTotal, &periodStart,
			pq.Array(&s.Ministries), pq.Array(&s.PrivateParties), pq.Array(&s.Sectors),
			pq.Array(&s.ContractTypes), pq.Array(&s.ConcessionForms)); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		if publicAuthority.Valid {
			s.PublicAuthority = &publicAuthority.String
		}
		if paMinistry.Valid && !contains(s.Ministries, paMinistry.String) {
			s.Ministries = append(s.Ministries, paMinistry.String)
		}
		if budgetTotal.Valid {
			s.BudgetTotal = &budgetTotal.Float64
		}
		if periodStart.Valid {
			s.PeriodStart = &periodStart.String
		}
		res.Projects = append(res.Projects, s)
	}
	return res, rows.Err()
}

// Dashboard aggregates statistics over the qualifying project set.
func (r *Repository) Dashboard(ctx context.Context, f Filters) (*Statistics, error) {
	ids, err := r.candidateIDs(ctx, f)
	if err != nil {
		return nil, err
	}

	stats := &Statistics{Ministries: []MinistryStat{}, Sectors: []SectorStat{}, Years: []YearStat{}}
	if len(ids) == 0 {
		return stats, nil
	}
	idArr := pq.Array(ids)

	const totalsQ = `
select count(*),
	coalesce(sum(b.total_amount), 0),
	count(*) filter (where coalesce(b.total_amount, 0) < 1000000000),
	coalesce(sum(b.total_amount) filter (where coalesce(b.total_amount, 0) < 1000000000), 0),
	count(*) filter (where coalesce(b.total_amount, 0) >= 1000000000 and coalesce(b.total_amount, 0) < 5000000000),
	coalesce(sum(b.total_amount) filter (where coalesce(b.total_amount, 0) >= 1000000000 and coalesce(b.total_amount, 0) < 5000000000), 0),
	count(*) filter (where coalesce(b.total_amount, 0) >= 5000000000),
	coalesce(sum(b.total_amount) filter (where coalesce(b.total_amount, 0) >= 5000000000), 0)
from projects p
left join ` + firstBudget + ` b on b.project_id = p.id
where p.id = any($1::uuid[]);
`
	err = r.db.QueryRowContext(ctx, totalsQ, idArr).Scan(
		&stats.Summary.TotalProjects, &stats.Summary.TotalInvestment,
		&stats.Scale.Small.Count, &stats.Scale.Small.Investment,
		&stats.Scale.Medium.Count, &stats.Scale.Medium.Investment,
		&stats.Scale.Big.Count, &stats.Scale.Big.Investment)
	if err != nil {
		return nil, fmt.Errorf("dashboard totals: %w", err)
	}

	// Contractors by the parentless-agency heuristic. The project's own
	// public authority never counts, even when it has no parent ministry.
	const contractorsQ = `
select count(distinct a.id)
from project_parties pp
join projects p on p.id = pp.project_id
join agency a on a.id = pp.identifier_legal_name_id
where pp.project_id = any($1::uuid[]) and a.ministry_id is null
	and a.id is distinct from p.public_authority_id;
`
	if err := r.db.QueryRowContext(ctx, contractorsQ, idArr).Scan(&stats.Summary.UniqueContractors); err != nil {
		return nil, fmt.Errorf("dashboard contractors: %w", err)
	}

	const ministriesQ = `
with pm as (
	select distinct pp.project_id, m.id as ministry_id, m.name_th
	from project_parties pp
	join party_additional_identifiers pai on pai.party_id = pp.id
	join ministry m on m.id = pai.legal_name_id
	where pp.project_id = any($1::uuid[])
	union
	select distinct pp.project_id, m.id, m.name_th
	from project_parties pp
	join agency a on a.id = pp.identifier_legal_name_id
	join ministry m on m.id = a.ministry_id
	where pp.project_id = any($1::uuid[])
	union
	select distinct p.id, m.id, m.name_th
	from projects p
	join agency a on a.id = p.public_authority_id
	join ministry m on m.id = a.ministry_id
	where p.id = any($1::uuid[])
)
select pm.ministry_id, pm.name_th,
	count(distinct pm.project_id),
	coalesce(sum(b.total_amount), 0)
from pm
left join ` + firstBudget + ` b on b.project_id = pm.project_id
group by pm.ministry_id, pm.name_th
order by 3 desc, pm.name_th;
`
	rows, err := r.db.QueryContext(ctx, ministriesQ, idArr)
	if err != nil {
		return nil, fmt.Errorf("dashboard ministries: %w", err)
	}
	for rows.Next() {
		var m MinistryStat
		if err := rows.Scan(&m.ID, &m.Name, &m.Count, &m.Investment); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan ministry stat: %w", err)
		}
		stats.Ministries = append(stats.Ministries, m)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	const sectorsQ = `
select s.id, s.code, coalesce(s.name_th, s.code),
	count(*) filter (where coalesce(b.total_amount, 0) < 1000000000),
	coalesce(sum(b.total_amount) filter (where coalesce(b.total_amount, 0) < 1000000000), 0),
	count(*) filter (where coalesce(b.total_amount, 0) >= 1000000000 and coalesce(b.total_amount, 0) < 5000000000),
	coalesce(sum(b.total_amount) filter (where coalesce(b.total_amount, 0) >= 1000000000 and coalesce(b.total_amount, 0) < 5000000000), 0),
	count(*) filter (where coalesce(b.total_amount, 0) >= 5000000000),
	coalesce(sum(b.total_amount) filter (where coalesce(b.total_amount, 0) >= 5000000000), 0)
from project_sector ps
join sector s on s.id = ps.sector_id
left join ` + firstBudget + ` b on b.project_id = ps.project_id
where ps.project_id = any($1::uuid[])
group by s.id, s.code, s.name_th
order by s.code;
`
	rows, err = r.db.QueryContext(ctx, sectorsQ, idArr)
	if err != nil {
		return nil, fmt.Errorf("dashboard sectors: %w", err)
	}
	for rows.Next() {
		var s SectorStat
		if err := rows.Scan(&s.ID, &s.Code, &s.Name,
			&s.Small.Count, &s.Small.Investment,
			&s.Medium.Count, &s.Medium.Investment,
			&s.Big.Count, &s.Big.Investment); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sector stat: %w", err)
		}
		stats.Sectors = append(stats.Sectors, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	const yearsQ = `
select extract(year from d.start_date)::int,
	count(*),
	coalesce(sum(b.total_amount), 0)
from project_periods d
left join ` + firstBudget + ` b on b.project_id = d.project_id
where d.project_id = any($1::uuid[]) and d.period_type = 'duration' and d.start_date is not null
group by 1
order by 1;
`
	rows, err = r.db.QueryContext(ctx, yearsQ, idArr)
	if err != nil {
		return nil, fmt.Errorf("dashboard years: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var y YearStat
		if err := rows.Scan(&y.Year, &y.Count, &y.Investment); err != nil {
			return nil, fmt.Errorf("scan year stat: %w", err)
		}
		stats.Years = append(stats.Years, y)
	}
	return stats, rows.Err()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
