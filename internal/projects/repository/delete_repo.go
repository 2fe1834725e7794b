package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/thip-platform/disclosure-backend/internal/projects/domain"
)

// DeleteRepository implements both deletion modes. Soft delete stamps the
// root row; hard delete removes the owned graph leaf-to-root in one
// transaction. Reference rows (ministry, agency, sector, classifications,
// currencies, period types) are never touched by either mode.
type DeleteRepository struct {
	db *sql.DB
}

func NewDeleteRepository(db *sql.DB) *DeleteRepository {
	return &DeleteRepository{db: db}
}

// SoftDelete stamps deleted_at on a live project. Already-deleted or unknown
// ids report ErrNotFound.
func (r *DeleteRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	const q = `
update projects
set deleted_at = now(), updated_at = now()
where id = $1 and deleted_at is null;
`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("soft delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// HardDelete removes the project and its entire owned graph. It applies to
// soft-deleted rows too, so a purge after a soft delete still works.
func (r *DeleteRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin hard delete: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`select exists (select 1 from projects where id = $1);`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check project: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}

	if err := deleteProjectGraph(ctx, tx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit hard delete: %w", err)
	}
	return nil
}

// graphDeleteStatements lists the owned tables leaf-to-root, so every child
// row is gone before its parent. Each takes the project id as $1.
var graphDeleteStatements = []string{
	`delete from location_gazetteer_identifiers where gazetteer_id in
		(select g.id from location_gazetteers g
		 join project_locations l on l.id = g.location_id where l.project_id = $1);`,
	`delete from location_gazetteers where location_id in
		(select id from project_locations where project_id = $1);`,
	`delete from project_locations where project_id = $1;`,

	`delete from budget_breakdown_items where breakdown_id in
		(select bd.id from budget_breakdowns bd
		 join project_budgets b on b.id = bd.budget_id where b.project_id = $1);`,
	`delete from budget_breakdowns where budget_id in
		(select id from project_budgets where project_id = $1);`,
	`delete from project_finance where budget_id in
		(select id from project_budgets where project_id = $1);`,
	`delete from project_budgets where project_id = $1;`,

	`delete from beneficial_owner_nationalities where owner_id in
		(select bo.id from party_beneficial_owners bo
		 join project_parties p on p.id = bo.party_id where p.project_id = $1);`,
	`delete from party_beneficial_owners where party_id in
		(select id from project_parties where project_id = $1);`,
	`delete from party_additional_identifiers where party_id in
		(select id from project_parties where project_id = $1);`,
	`delete from party_people where party_id in
		(select id from project_parties where project_id = $1);`,
	`delete from party_roles where party_id in
		(select id from project_parties where project_id = $1);`,
	`delete from party_classifications where party_id in
		(select id from project_parties where project_id = $1);`,
	`delete from project_parties where project_id = $1;`,

	`delete from contracting_tender_tenderers where process_id in
		(select id from project_contracting_processes where project_id = $1);`,
	`delete from contracting_tender_entities where process_id in
		(select id from project_contracting_processes where project_id = $1);`,
	`delete from contracting_tender_sustainability where process_id in
		(select id from project_contracting_processes where project_id = $1);`,
	`delete from contracting_tenders where process_id in
		(select id from project_contracting_processes where project_id = $1);`,
	`delete from contracting_social where process_id in
		(select id from project_contracting_processes where project_id = $1);`,
	`delete from contracting_documents where process_id in
		(select id from project_contracting_processes where project_id = $1);`,
	`delete from contracting_milestones where process_id in
		(select id from project_contracting_processes where project_id = $1);`,
	`delete from contracting_modifications where process_id in
		(select id from project_contracting_processes where project_id = $1);`,
	`delete from contracting_releases where process_id in
		(select id from project_contracting_processes where project_id = $1);`,
	`delete from contracting_suppliers where process_id in
		(select id from project_contracting_processes where project_id = $1);`,
	`delete from contracting_transactions where process_id in
		(select id from project_contracting_processes where project_id = $1);`,
	`delete from project_contracting_processes where project_id = $1;`,

	`delete from cost_items where cost_group_id in
		(select cg.id from cost_groups cg
		 join project_cost_measurements cm on cm.id = cg.cost_measurement_id where cm.project_id = $1);`,
	`delete from cost_groups where cost_measurement_id in
		(select id from project_cost_measurements where project_id = $1);`,
	`delete from project_cost_measurements where project_id = $1;`,

	`delete from forecast_observations where forecast_id in
		(select id from project_forecasts where project_id = $1);`,
	`delete from project_forecasts where project_id = $1;`,
	`delete from metric_observations where metric_id in
		(select id from project_metrics where project_id = $1);`,
	`delete from project_metrics where project_id = $1;`,

	`delete from social_consultation_meetings where project_id = $1;`,
	`delete from social_health_safety_material_tests where project_id = $1;`,
	`delete from project_social where project_id = $1;`,

	`delete from environment_goals where project_id = $1;`,
	`delete from environment_climate_oversight_types where project_id = $1;`,
	`delete from environment_conservation_measures where project_id = $1;`,
	`delete from environment_environmental_measures where project_id = $1;`,
	`delete from environment_climate_measures where project_id = $1;`,
	`delete from environment_impact_categories where project_id = $1;`,
	`delete from project_environment where project_id = $1;`,

	`delete from benefit_beneficiaries where benefit_id in
		(select id from project_benefits where project_id = $1);`,
	`delete from project_benefits where project_id = $1;`,

	`delete from project_completion where project_id = $1;`,
	`delete from project_lobbying_meetings where project_id = $1;`,
	`delete from project_policy_alignment_policies where project_id = $1;`,
	`delete from project_policy_alignment where project_id = $1;`,
	`delete from project_asset_lifetime where project_id = $1;`,
	`delete from project_related_projects where project_id = $1;`,
	`delete from project_identifiers where project_id = $1;`,
	`delete from project_periods where project_id = $1;`,
	`delete from project_documents where project_id = $1;`,

	`delete from project_sector where project_id = $1;`,
	`delete from project_additional_classifications where project_id = $1;`,

	`delete from projects where id = $1;`,
}

// deleteProjectGraph runs the cascade within the caller's transaction. Each
// statement runs under a savepoint so an undefined_table error (a deployment
// without an optional section's table) is skipped without aborting the
// transaction.
func deleteProjectGraph(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	for i, q := range graphDeleteStatements {
		sp := fmt.Sprintf("graph_del_%d", i)
		if _, err := tx.ExecContext(ctx, "savepoint "+sp); err != nil {
			return fmt.Errorf("savepoint: %w", err)
		}
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			var pgErr *pq.Error
			if errors.As(err, &pgErr) && pgErr.Code == "42P01" {
				if _, err := tx.ExecContext(ctx, "rollback to savepoint "+sp); err != nil {
					return fmt.Errorf("rollback savepoint: %w", err)
				}
				continue
			}
			return fmt.Errorf("delete graph: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "release savepoint "+sp); err != nil {
			return fmt.Errorf("release savepoint: %w", err)
		}
	}
	return nil
}
