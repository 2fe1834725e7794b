package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/thip-platform/disclosure-backend/internal/oc4ids"
	"github.com/thip-platform/disclosure-backend/internal/projects/domain"
	"github.com/thip-platform/disclosure-backend/internal/refdata"
)

// IngestRepository decomposes an OC4IDS document into the relational graph.
// Every ingestion runs in a single transaction: either the whole graph lands
// or none of it does, reference rows included.
type IngestRepository struct {
	db *sql.DB
}

func NewIngestRepository(db *sql.DB) *IngestRepository {
	return &IngestRepository{db: db}
}

// Create persists a new project under the given id.
func (r *IngestRepository) Create(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ingest: %w", err)
	}
	defer tx.Rollback()

	w := &graphWriter{tx: tx, refs: refdata.NewResolver(tx)}
	if err := w.writeGraph(ctx, id, doc); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ingest: %w", err)
	}
	return nil
}

// Replace re-ingests a document under an existing id. The old graph is torn
// down and rebuilt inside one transaction, so readers never see a half state.
func (r *IngestRepository) Replace(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`select exists (select 1 from projects where id = $1 and deleted_at is null);`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check project: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}

	if err := deleteProjectGraph(ctx, tx, id); err != nil {
		return err
	}

	w := &graphWriter{tx: tx, refs: refdata.NewResolver(tx)}
	if err := w.writeGraph(ctx, id, doc); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

// graphWriter carries the transaction and its reference resolver through the
// section writers.
type graphWriter struct {
	tx   *sql.Tx
	refs *refdata.Resolver
}

func (w *graphWriter) writeGraph(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	projectTypeID, err := w.resolveProjectType(ctx, doc)
	if err != nil {
		return err
	}
	publicAuthorityID, err := w.resolvePublicAuthority(ctx, doc)
	if err != nil {
		return err
	}

	const insProject = `
insert into projects (id, title, description, status, purpose, project_type_id, public_authority_id, created_at, updated_at)
values ($1, $2, $3, $4, $5, $6, $7, now(), now());
`
	if _, err := w.tx.ExecContext(ctx, insProject,
		id, doc.Title, doc.Description, doc.Status, doc.Purpose,
		projectTypeID, publicAuthorityID); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}

	steps := []struct {
		name string
		fn   func(context.Context, uuid.UUID, *oc4ids.Document) error
	}{
		{"identifiers", w.writeIdentifiers},
		{"periods", w.writePeriods},
		{"sectors", w.writeSectors},
		{"classifications", w.writeClassifications},
		{"locations", w.writeLocations},
		{"documents", w.writeDocuments},
		{"budget", w.writeBudget},
		{"parties", w.writeParties},
		{"contracting processes", w.writeContractingProcesses},
		{"cost measurements", w.writeCostMeasurements},
		{"forecasts", w.writeForecasts},
		{"metrics", w.writeMetrics},
		{"social", w.writeSocial},
		{"environment", w.writeEnvironment},
		{"benefits", w.writeBenefits},
		{"completion", w.writeCompletion},
		{"lobbying meetings", w.writeLobbyingMeetings},
		{"policy alignment", w.writePolicyAlignment},
		{"related projects", w.writeRelatedProjects},
	}
	for _, s := range steps {
		if err := s.fn(ctx, id, doc); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (w *graphWriter) resolveProjectType(ctx context.Context, doc *oc4ids.Document) (*int64, error) {
	if doc.Type == nil || *doc.Type == "" {
		return nil, nil
	}
	pt, err := w.refs.ProjectType(ctx, *doc.Type)
	if err != nil {
		return nil, err
	}
	return &pt.ID, nil
}

// resolvePublicAuthority maps the publicAuthority-role party to an agency
// under a ministry (the first additionalIdentifiers legalName). The agency
// name is identifier.legalName, falling back to the party name when the
// identifier carries none. The party loop later resolves the same names and
// lands on the same rows.
func (w *graphWriter) resolvePublicAuthority(ctx context.Context, doc *oc4ids.Document) (*int64, error) {
	pa := doc.PublicAuthorityParty()
	if pa == nil {
		return nil, nil
	}
	name := partyAgencyName(pa)
	if name == "" {
		return nil, nil
	}

	var ministryID *int64
	for i := range pa.AdditionalIdentifiers {
		ln := pa.AdditionalIdentifiers[i].LegalName
		if ln != nil && *ln != "" {
			m, err := w.refs.Ministry(ctx, *ln)
			if err != nil {
				return nil, err
			}
			ministryID = &m.ID
			break
		}
	}

	a, err := w.agencyFor(ctx, name, ministryID)
	if err != nil {
		return nil, err
	}
	return &a.ID, nil
}

// agencyFor resolves a party legal name to an agency. With no ministry of its
// own, a legal name that names a known ministry links the agency under that
// ministry, so ministry filters reach the project through the party.
func (w *graphWriter) agencyFor(ctx context.Context, name string, ministryID *int64) (*domain.Agency, error) {
	if ministryID == nil {
		m, err := w.refs.MinistryByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if m != nil {
			ministryID = &m.ID
		}
	}
	return w.refs.Agency(ctx, name, ministryID)
}

// partyAgencyName is the name a party resolves to an agency under:
// identifier.legalName when present, otherwise the party name for
// publicAuthority-role parties.
func partyAgencyName(p *oc4ids.Party) string {
	if p.Identifier != nil && p.Identifier.LegalName != nil && *p.Identifier.LegalName != "" {
		return *p.Identifier.LegalName
	}
	for _, role := range p.Roles {
		if role == oc4ids.RolePublicAuthority || role == oc4ids.RoleActingPublicAuthority {
			if p.Name != nil && *p.Name != "" {
				return *p.Name
			}
			return ""
		}
	}
	return ""
}

func (w *graphWriter) writeIdentifiers(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const q = `
insert into project_identifiers (project_id, identifier_value, scheme)
values ($1, $2, $3);
`
	for _, ident := range doc.Identifiers {
		if ident.ID == nil || *ident.ID == "" {
			continue
		}
		if _, err := w.tx.ExecContext(ctx, q, id, *ident.ID, ident.Scheme); err != nil {
			return err
		}
	}
	return nil
}

func (w *graphWriter) writePeriods(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const q = `
insert into project_periods (project_id, period_type, start_date, end_date, max_extent_date, duration_days)
values ($1, $2, $3, $4, $5, $6);
`
	for _, code := range oc4ids.PeriodCodes {
		p := doc.PeriodByCode(code)
		if p == nil {
			continue
		}
		if err := w.refs.PeriodType(ctx, code); err != nil {
			return err
		}
		if _, err := w.tx.ExecContext(ctx, q, id, code,
			p.StartDate, p.EndDate, p.MaxExtentDate, p.DurationInDays); err != nil {
			return err
		}
	}

	if al := doc.AssetLifetime; al != nil {
		const q = `
insert into project_asset_lifetime (project_id, period_start_date, period_end_date, period_max_extent_date, period_duration_days)
values ($1, $2, $3, $4, $5);
`
		if _, err := w.tx.ExecContext(ctx, q, id,
			al.StartDate, al.EndDate, al.MaxExtentDate, al.DurationInDays); err != nil {
			return err
		}
	}
	return nil
}

func (w *graphWriter) writeSectors(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const q = `
insert into project_sector (project_id, sector_id)
values ($1, $2)
on conflict do nothing;
`
	for _, code := range doc.Sector {
		if code == "" {
			continue
		}
		s, err := w.refs.Sector(ctx, code)
		if err != nil {
			return err
		}
		if _, err := w.tx.ExecContext(ctx, q, id, s.ID); err != nil {
			return err
		}
	}
	return nil
}

func (w *graphWriter) writeClassifications(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const q = `
insert into project_additional_classifications (project_id, classification_id)
values ($1, $2)
on conflict do nothing;
`
	for i := range doc.AdditionalClassifications {
		ac := &doc.AdditionalClassifications[i]
		if ac.Scheme == nil || ac.ID == nil {
			continue
		}
		c, err := w.refs.Classification(ctx, *ac.Scheme, *ac.ID, ac.Description, ac.URI)
		if err != nil {
			return err
		}
		if _, err := w.tx.ExecContext(ctx, q, id, c.ID); err != nil {
			return err
		}
	}
	return nil
}

func (w *graphWriter) writeLocations(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const insLoc = `
insert into project_locations (id, project_id, description, uri, geometry_type, geometry_coordinates,
	street_address, locality, region, postal_code, country_name)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`
	const insGaz = `
insert into location_gazetteers (location_id, scheme)
values ($1, $2)
returning id;
`
	const insGazID = `
insert into location_gazetteer_identifiers (gazetteer_id, identifier)
values ($1, $2);
`
	for i := range doc.Locations {
		loc := &doc.Locations[i]
		locID := uuid.New()

		var geomType *string
		var geomCoords any
		if loc.Geometry != nil {
			geomType = loc.Geometry.Type
			if len(loc.Geometry.Coordinates) > 0 {
				geomCoords = []byte(loc.Geometry.Coordinates)
			}
		}
		addr := loc.Address
		if addr == nil {
			addr = &oc4ids.Address{}
		}
		if _, err := w.tx.ExecContext(ctx, insLoc, locID, id,
			loc.Description, loc.URI, geomType, geomCoords,
			addr.StreetAddress, addr.Locality, addr.Region, addr.PostalCode, addr.CountryName); err != nil {
			return err
		}

		for j := range loc.Gazetteers {
			gaz := &loc.Gazetteers[j]
			var gazID int64
			if err := w.tx.QueryRowContext(ctx, insGaz, locID, gaz.Scheme).Scan(&gazID); err != nil {
				return err
			}
			for _, ident := range gaz.Identifiers {
				if _, err := w.tx.ExecContext(ctx, insGazID, gazID, ident); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (w *graphWriter) writeDocuments(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const q = `
insert into project_documents (project_id, local_id, document_type, title, description, url,
	date_published, date_modified, format, language, page_start, page_end, access_details, author)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
`
	for i := range doc.Documents {
		d := &doc.Documents[i]
		if _, err := w.tx.ExecContext(ctx, q, id, d.ID, d.DocumentType, d.Title, d.Description, d.URL,
			d.DatePublished, d.DateModified, d.Format, d.Language,
			d.PageStart, d.PageEnd, d.AccessDetails, d.Author); err != nil {
			return err
		}
	}
	return nil
}

func (w *graphWriter) writeBudget(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	b := doc.Budget
	if b == nil {
		return nil
	}

	var amount *float64
	var currency *string
	if b.Amount != nil {
		amount = b.Amount.Amount
		currency = b.Amount.Currency
	}
	if err := w.ensureCurrency(ctx, currency); err != nil {
		return err
	}

	const insBudget = `
insert into project_budgets (project_id, description, total_amount, currency, request_date, approval_date)
values ($1, $2, $3, $4, $5, $6)
returning id;
`
	var budgetID int64
	if err := w.tx.QueryRowContext(ctx, insBudget, id,
		b.Description, amount, currency, b.RequestDate, b.ApprovalDate).Scan(&budgetID); err != nil {
		return err
	}

	const insBreakdown = `
insert into budget_breakdowns (budget_id, local_id, description)
values ($1, $2, $3)
returning id;
`
	const insItem = `
insert into budget_breakdown_items (breakdown_id, local_id, description, amount, currency, uri,
	period_start_date, period_end_date, period_max_extent_date, period_duration_days,
	source_party_id, source_party_name)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
`
	for i := range b.Breakdown {
		bd := &b.Breakdown[i]
		var bdID int64
		if err := w.tx.QueryRowContext(ctx, insBreakdown, budgetID, bd.ID, bd.Description).Scan(&bdID); err != nil {
			return err
		}
		for j := range bd.Breakdown {
			item := &bd.Breakdown[j]
			itemAmount, itemCurrency := valueParts(item.Amount)
			if err := w.ensureCurrency(ctx, itemCurrency); err != nil {
				return err
			}
			p := item.Period
			if p == nil {
				p = &oc4ids.Period{}
			}
			var spID, spName *string
			if item.SourceParty != nil {
				spID, spName = item.SourceParty.ID, item.SourceParty.Name
			}
			if _, err := w.tx.ExecContext(ctx, insItem, bdID, item.ID, item.Description,
				itemAmount, itemCurrency, item.URI,
				p.StartDate, p.EndDate, p.MaxExtentDate, p.DurationInDays,
				spID, spName); err != nil {
				return err
			}
		}
	}

	const insFinance = `
insert into project_finance (budget_id, local_id, asset_class, type, concessional,
	value_amount, value_currency, source, financing_party_id, financing_party_name,
	period_start_date, period_end_date, payment_period_start_date, payment_period_end_date,
	interest_rate_margin, description)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
`
	for i := range b.Finance {
		fin := &b.Finance[i]
		amount, currency := valueParts(fin.Value)
		if err := w.ensureCurrency(ctx, currency); err != nil {
			return err
		}
		var fpID, fpName *string
		if fin.FinancingParty != nil {
			fpID, fpName = fin.FinancingParty.ID, fin.FinancingParty.Name
		}
		p := fin.Period
		if p == nil {
			p = &oc4ids.Period{}
		}
		pp := fin.PaymentPeriod
		if pp == nil {
			pp = &oc4ids.Period{}
		}
		if _, err := w.tx.ExecContext(ctx, insFinance, budgetID, fin.ID,
			fin.AssetClass, fin.Type, fin.Concessional,
			amount, currency, fin.Source, fpID, fpName,
			p.StartDate, p.EndDate, pp.StartDate, pp.EndDate,
			fin.InterestRateMargin, fin.Description); err != nil {
			return err
		}
	}
	return nil
}

func (w *graphWriter) writeParties(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const insParty = `
insert into project_parties (project_id, local_id, name, identifier_scheme, identifier_value,
	identifier_legal_name_id, identifier_uri,
	street_address, locality, region, postal_code, country_name,
	contact_name, contact_email, contact_telephone, contact_fax, contact_url)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
returning id;
`
	for i := range doc.Parties {
		p := &doc.Parties[i]

		// Ministries referenced by this party resolve first so the agency
		// created from the top-level legal name gets a ministry linkage.
		ministryIDs := make([]*int64, len(p.AdditionalIdentifiers))
		var firstMinistryID *int64
		for j := range p.AdditionalIdentifiers {
			ln := p.AdditionalIdentifiers[j].LegalName
			if ln == nil || *ln == "" {
				continue
			}
			m, err := w.refs.Ministry(ctx, *ln)
			if err != nil {
				return err
			}
			ministryIDs[j] = &m.ID
			if firstMinistryID == nil {
				firstMinistryID = &m.ID
			}
		}

		var agencyID *int64
		ident := p.Identifier
		if ident == nil {
			ident = &oc4ids.PartyIdentifier{}
		}
		if name := partyAgencyName(p); name != "" {
			a, err := w.agencyFor(ctx, name, firstMinistryID)
			if err != nil {
				return err
			}
			agencyID = &a.ID
		}

		addr := p.Address
		if addr == nil {
			addr = &oc4ids.Address{}
		}
		contact := p.ContactPoint
		if contact == nil {
			contact = &oc4ids.ContactPoint{}
		}

		var partyID int64
		if err := w.tx.QueryRowContext(ctx, insParty, id, p.ID, p.Name,
			ident.Scheme, ident.ID, agencyID, ident.URI,
			addr.StreetAddress, addr.Locality, addr.Region, addr.PostalCode, addr.CountryName,
			contact.Name, contact.Email, contact.Telephone, contact.Fax, contact.URL).Scan(&partyID); err != nil {
			return err
		}

		if err := w.writePartyChildren(ctx, partyID, p, ministryIDs); err != nil {
			return err
		}
	}
	return nil
}

func (w *graphWriter) writePartyChildren(ctx context.Context, partyID int64, p *oc4ids.Party, ministryIDs []*int64) error {
	const insRole = `
insert into party_roles (party_id, role)
values ($1, $2)
on conflict do nothing;
`
	for _, role := range p.Roles {
		if _, err := w.tx.ExecContext(ctx, insRole, partyID, role); err != nil {
			return err
		}
	}

	const insAddIdent = `
insert into party_additional_identifiers (party_id, scheme, identifier, legal_name_id, uri)
values ($1, $2, $3, $4, $5);
`
	for j := range p.AdditionalIdentifiers {
		ai := &p.AdditionalIdentifiers[j]
		if _, err := w.tx.ExecContext(ctx, insAddIdent, partyID,
			ai.Scheme, ai.ID, ministryIDs[j], ai.URI); err != nil {
			return err
		}
	}

	const insPerson = `
insert into party_people (party_id, local_id, name, job_title)
values ($1, $2, $3, $4);
`
	for j := range p.Persons {
		per := &p.Persons[j]
		if _, err := w.tx.ExecContext(ctx, insPerson, partyID, per.ID, per.Name, per.JobTitle); err != nil {
			return err
		}
	}

	const insOwner = `
insert into party_beneficial_owners (party_id, local_id, name, email, telephone, fax_number,
	identifier_scheme, identifier_value,
	street_address, locality, region, postal_code, country_name)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
returning id;
`
	const insNationality = `
insert into beneficial_owner_nationalities (owner_id, nationality)
values ($1, $2)
on conflict do nothing;
`
	for j := range p.BeneficialOwners {
		bo := &p.BeneficialOwners[j]
		boIdent := bo.Identifier
		if boIdent == nil {
			boIdent = &oc4ids.Identifier{}
		}
		addr := bo.Address
		if addr == nil {
			addr = &oc4ids.Address{}
		}
		var ownerID int64
		if err := w.tx.QueryRowContext(ctx, insOwner, partyID, bo.ID,
			bo.Name, bo.Email, bo.Telephone, bo.FaxNumber,
			boIdent.Scheme, boIdent.ID,
			addr.StreetAddress, addr.Locality, addr.Region, addr.PostalCode, addr.CountryName).Scan(&ownerID); err != nil {
			return err
		}
		for _, nat := range bo.Nationalities {
			if _, err := w.tx.ExecContext(ctx, insNationality, ownerID, nat); err != nil {
				return err
			}
		}
	}

	const insPartyClass = `
insert into party_classifications (party_id, scheme, classification_id)
values ($1, $2, $3)
on conflict do nothing;
`
	for j := range p.Classifications {
		pc := &p.Classifications[j]
		if pc.Scheme == nil || pc.ID == nil {
			continue
		}
		if _, err := w.tx.ExecContext(ctx, insPartyClass, partyID, *pc.Scheme, *pc.ID); err != nil {
			return err
		}
	}
	return nil
}

func (w *graphWriter) writeContractingProcesses(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const insProcess = `
insert into project_contracting_processes (project_id, local_id, ocid, external_reference,
	title, description, status, nature, contract_amount, contract_currency,
	final_amount, final_currency,
	period_start_date, period_end_date, period_max_extent_date, period_duration_days)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
returning id;
`
	for i := range doc.ContractingProcesses {
		cp := &doc.ContractingProcesses[i]
		sum := cp.Summary
		if sum == nil {
			sum = &oc4ids.ContractingProcessSummary{}
		}

		contractAmount, contractCurrency := valueParts(sum.ContractValue)
		finalAmount, finalCurrency := valueParts(sum.FinalValue)
		if err := w.ensureCurrency(ctx, contractCurrency); err != nil {
			return err
		}
		if err := w.ensureCurrency(ctx, finalCurrency); err != nil {
			return err
		}

		nature, err := asJSON(sum.Nature)
		if err != nil {
			return err
		}
		period := sum.ContractPeriod
		if period == nil {
			period = &oc4ids.Period{}
		}

		var processID int64
		if err := w.tx.QueryRowContext(ctx, insProcess, id, cp.ID,
			sum.OCID, sum.ExternalReference, sum.Title, sum.Description, sum.Status, nature,
			contractAmount, contractCurrency, finalAmount, finalCurrency,
			period.StartDate, period.EndDate, period.MaxExtentDate, period.DurationInDays).Scan(&processID); err != nil {
			return err
		}

		if err := w.writeProcessChildren(ctx, processID, sum); err != nil {
			return err
		}
	}
	return nil
}

func (w *graphWriter) writeProcessChildren(ctx context.Context, processID int64, sum *oc4ids.ContractingProcessSummary) error {
	if t := sum.Tender; t != nil {
		if err := w.writeTender(ctx, processID, t); err != nil {
			return err
		}
	}

	const insSupplier = `
insert into contracting_suppliers (process_id, local_id, name)
values ($1, $2, $3);
`
	for i := range sum.Suppliers {
		s := &sum.Suppliers[i]
		if _, err := w.tx.ExecContext(ctx, insSupplier, processID, s.ID, s.Name); err != nil {
			return err
		}
	}

	if soc := sum.Social; soc != nil {
		amount, currency := valueParts(soc.LaborBudget)
		if err := w.ensureCurrency(ctx, currency); err != nil {
			return err
		}
		obligations, err := asJSON(soc.LaborObligations)
		if err != nil {
			return err
		}
		const insSocial = `
insert into contracting_social (process_id, labor_budget_amount, labor_budget_currency, labor_obligations, labor_description)
values ($1, $2, $3, $4, $5);
`
		if _, err := w.tx.ExecContext(ctx, insSocial, processID,
			amount, currency, obligations, soc.Description); err != nil {
			return err
		}
	}

	const insRelease = `
insert into contracting_releases (process_id, local_id, tag, date, url)
values ($1, $2, $3, $4, $5);
`
	for i := range sum.Releases {
		rel := &sum.Releases[i]
		tag, err := asJSON(rel.Tag)
		if err != nil {
			return err
		}
		if _, err := w.tx.ExecContext(ctx, insRelease, processID, rel.ID, tag, rel.Date, rel.URL); err != nil {
			return err
		}
	}

	const insMilestone = `
insert into contracting_milestones (process_id, local_id, title, type, description, code,
	due_date, date_met, date_modified, status, value_amount, value_currency)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
`
	for i := range sum.Milestones {
		m := &sum.Milestones[i]
		amount, currency := valueParts(m.Value)
		if err := w.ensureCurrency(ctx, currency); err != nil {
			return err
		}
		if _, err := w.tx.ExecContext(ctx, insMilestone, processID, m.ID,
			m.Title, m.Type, m.Description, m.Code,
			m.DueDate, m.DateMet, m.DateModified, m.Status, amount, currency); err != nil {
			return err
		}
	}

	const insTransaction = `
insert into contracting_transactions (process_id, local_id, source, date, amount, currency,
	payer_name, payee_name, uri)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`
	for i := range sum.Transactions {
		t := &sum.Transactions[i]
		amount, currency := valueParts(t.Value)
		if err := w.ensureCurrency(ctx, currency); err != nil {
			return err
		}
		var payer, payee *string
		if t.Payer != nil {
			payer = t.Payer.Name
		}
		if t.Payee != nil {
			payee = t.Payee.Name
		}
		if _, err := w.tx.ExecContext(ctx, insTransaction, processID, t.ID,
			t.Source, t.Date, amount, currency, payer, payee, t.URI); err != nil {
			return err
		}
	}

	const insModification = `
insert into contracting_modifications (process_id, local_id, date, description, rationale, type, release_id,
	old_amount, old_currency, new_amount, new_currency,
	old_start_date, old_end_date, new_start_date, new_end_date)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
`
	for i := range sum.Modifications {
		mod := &sum.Modifications[i]
		var oldAmount, newAmount *float64
		var oldCurrency, newCurrency *string
		if mod.ContractValue != nil {
			oldAmount, oldCurrency = valueParts(mod.ContractValue.OriginalAmount)
			newAmount, newCurrency = valueParts(mod.ContractValue.Amount)
		}
		if err := w.ensureCurrency(ctx, oldCurrency); err != nil {
			return err
		}
		if err := w.ensureCurrency(ctx, newCurrency); err != nil {
			return err
		}
		period := mod.Period
		if period == nil {
			period = &oc4ids.ModificationPeriod{}
		}
		if _, err := w.tx.ExecContext(ctx, insModification, processID, mod.ID,
			mod.Date, mod.Description, mod.Rationale, mod.Type, mod.ReleaseID,
			oldAmount, oldCurrency, newAmount, newCurrency,
			period.OldStartDate, period.OldEndDate, period.NewStartDate, period.NewEndDate); err != nil {
			return err
		}
	}

	const insDocument = `
insert into contracting_documents (process_id, local_id, document_type, title, description, url,
	date_published, date_modified, format, language, page_start, page_end, access_details, author)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
`
	for i := range sum.Documents {
		d := &sum.Documents[i]
		if _, err := w.tx.ExecContext(ctx, insDocument, processID, d.ID,
			d.DocumentType, d.Title, d.Description, d.URL,
			d.DatePublished, d.DateModified, d.Format, d.Language,
			d.PageStart, d.PageEnd, d.AccessDetails, d.Author); err != nil {
			return err
		}
	}
	return nil
}

func (w *graphWriter) writeTender(ctx context.Context, processID int64, t *oc4ids.Tender) error {
	costAmount, costCurrency := valueParts(t.CostEstimate)
	if err := w.ensureCurrency(ctx, costCurrency); err != nil {
		return err
	}

	const insTender = `
insert into contracting_tenders (process_id, procurement_method, procurement_method_details,
	date_published, cost_estimate_amount, cost_estimate_currency, number_of_tenderers)
values ($1, $2, $3, $4, $5, $6, $7);
`
	if _, err := w.tx.ExecContext(ctx, insTender, processID,
		t.ProcurementMethod, t.ProcurementMethodDetails, t.DatePublished,
		costAmount, costCurrency, t.NumberOfTenderers); err != nil {
		return err
	}

	const insTenderer = `
insert into contracting_tender_tenderers (process_id, local_id, name)
values ($1, $2, $3);
`
	for i := range t.Tenderers {
		ten := &t.Tenderers[i]
		if _, err := w.tx.ExecContext(ctx, insTenderer, processID, ten.ID, ten.Name); err != nil {
			return err
		}
	}

	if t.ProcuringEntity != nil {
		const insEntity = `
insert into contracting_tender_entities (process_id, role, name)
values ($1, 'procuringEntity', $2);
`
		if _, err := w.tx.ExecContext(ctx, insEntity, processID, t.ProcuringEntity.Name); err != nil {
			return err
		}
	}

	const insSustainability = `
insert into contracting_tender_sustainability (process_id, strategies)
values ($1, $2);
`
	for _, strategies := range t.Sustainability {
		raw, err := asJSON(strategies)
		if err != nil {
			return err
		}
		if _, err := w.tx.ExecContext(ctx, insSustainability, processID, raw); err != nil {
			return err
		}
	}
	return nil
}

func (w *graphWriter) writeCostMeasurements(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const insMeasurement = `
insert into project_cost_measurements (project_id, local_id, measurement_date, lifecycle_cost_amount, lifecycle_cost_currency)
values ($1, $2, $3, $4, $5)
returning id;
`
	const insGroup = `
insert into cost_groups (cost_measurement_id, local_id, category)
values ($1, $2, $3)
returning id;
`
	const insItem = `
insert into cost_items (cost_group_id, local_id, amount, currency, classification_id, classification_scheme, classification_description)
values ($1, $2, $3, $4, $5, $6, $7);
`
	for i := range doc.CostMeasurements {
		cm := &doc.CostMeasurements[i]
		amount, currency := valueParts(cm.LifeCycleCost)
		if err := w.ensureCurrency(ctx, currency); err != nil {
			return err
		}
		var cmID int64
		if err := w.tx.QueryRowContext(ctx, insMeasurement, id, cm.ID,
			cm.Date, amount, currency).Scan(&cmID); err != nil {
			return err
		}
		for j := range cm.CostBreakdown {
			cg := &cm.CostBreakdown[j]
			var cgID int64
			if err := w.tx.QueryRowContext(ctx, insGroup, cmID, cg.ID, cg.Description).Scan(&cgID); err != nil {
				return err
			}
			for k := range cg.Breakdown {
				item := &cg.Breakdown[k]
				itemAmount, itemCurrency := valueParts(item.Amount)
				if err := w.ensureCurrency(ctx, itemCurrency); err != nil {
					return err
				}
				var classID, classScheme, classDesc *string
				if item.Classification != nil {
					classID = item.Classification.ID
					classScheme = item.Classification.Scheme
					classDesc = item.Classification.Description
				}
				if classDesc == nil {
					classDesc = item.Description
				}
				if _, err := w.tx.ExecContext(ctx, insItem, cgID, item.ID,
					itemAmount, itemCurrency, classID, classScheme, classDesc); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (w *graphWriter) writeForecasts(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const insForecast = `
insert into project_forecasts (project_id, local_id, title, description)
values ($1, $2, $3, $4)
returning id;
`
	const insObservation = `
insert into forecast_observations (forecast_id, local_id, measure, notes, value_amount, value_currency,
	period_start_date, period_end_date, period_max_extent_date, period_duration_days,
	unit_name, unit_scheme, unit_id, unit_uri, dimensions)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
`
	for i := range doc.Forecasts {
		f := &doc.Forecasts[i]
		var fID int64
		if err := w.tx.QueryRowContext(ctx, insForecast, id, f.ID, f.Title, f.Description).Scan(&fID); err != nil {
			return err
		}
		for j := range f.Observations {
			if err := w.writeObservation(ctx, insObservation, fID, &f.Observations[j]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *graphWriter) writeMetrics(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const insMetric = `
insert into project_metrics (project_id, local_id, title, description)
values ($1, $2, $3, $4)
returning id;
`
	const insObservation = `
insert into metric_observations (metric_id, local_id, measure, notes, value_amount, value_currency,
	period_start_date, period_end_date, period_max_extent_date, period_duration_days,
	unit_name, unit_scheme, unit_id, unit_uri, dimensions)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
`
	for i := range doc.Metrics {
		m := &doc.Metrics[i]
		var mID int64
		if err := w.tx.QueryRowContext(ctx, insMetric, id, m.ID, m.Title, m.Description).Scan(&mID); err != nil {
			return err
		}
		for j := range m.Observations {
			if err := w.writeObservation(ctx, insObservation, mID, &m.Observations[j]); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeObservation handles both forecast and metric observations; the two
// tables share a column list.
func (w *graphWriter) writeObservation(ctx context.Context, query string, parentID int64, obs *oc4ids.Observation) error {
	amount, currency := valueParts(obs.Value)
	if err := w.ensureCurrency(ctx, currency); err != nil {
		return err
	}
	unit := obs.Unit
	if unit == nil {
		unit = &oc4ids.Unit{}
	}
	period := obs.Period
	if period == nil {
		period = &oc4ids.Period{}
	}
	dims, err := asJSON(obs.Dimensions)
	if err != nil {
		return err
	}
	_, err = w.tx.ExecContext(ctx, query, parentID, obs.ID, obs.Measure, obs.Notes,
		amount, currency,
		period.StartDate, period.EndDate, period.MaxExtentDate, period.DurationInDays,
		unit.Name, unit.Scheme, unit.ID, unit.URI, dims)
	return err
}

func (w *graphWriter) writeSocial(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	s := doc.Social
	if s == nil {
		return nil
	}

	amount, currency := valueParts(s.LandCompensationBudget)
	if err := w.ensureCurrency(ctx, currency); err != nil {
		return err
	}
	var testsDescription *string
	if s.HealthAndSafety != nil && s.HealthAndSafety.MaterialTests != nil {
		testsDescription = s.HealthAndSafety.MaterialTests.Description
	}

	const insSocial = `
insert into project_social (project_id, in_indigenous_land, land_compensation_amount, land_compensation_currency, health_safety_material_test_description)
values ($1, $2, $3, $4, $5);
`
	if _, err := w.tx.ExecContext(ctx, insSocial, id,
		s.InIndigenousLand, amount, currency, testsDescription); err != nil {
		return err
	}

	const insMeeting = `
insert into social_consultation_meetings (project_id, local_id, date, number_of_participants,
	street_address, locality, region, postal_code, country_name,
	person_name, organization_name, organization_id, job_title)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
`
	for i := range s.ConsultationMeetings {
		m := &s.ConsultationMeetings[i]
		addr := m.Address
		if addr == nil {
			addr = &oc4ids.Address{}
		}
		var personName, orgName, orgID, jobTitle *string
		if m.PublicOffice != nil {
			if m.PublicOffice.Person != nil {
				personName = m.PublicOffice.Person.Name
			}
			if m.PublicOffice.Organization != nil {
				orgName = m.PublicOffice.Organization.Name
				orgID = m.PublicOffice.Organization.ID
			}
			jobTitle = m.PublicOffice.JobTitle
		}
		if _, err := w.tx.ExecContext(ctx, insMeeting, id, m.ID, m.Date, m.NumberOfParticipants,
			addr.StreetAddress, addr.Locality, addr.Region, addr.PostalCode, addr.CountryName,
			personName, orgName, orgID, jobTitle); err != nil {
			return err
		}
	}

	if s.HealthAndSafety != nil && s.HealthAndSafety.MaterialTests != nil {
		const insTest = `
insert into social_health_safety_material_tests (project_id, test)
values ($1, $2)
on conflict do nothing;
`
		for _, test := range s.HealthAndSafety.MaterialTests.Tests {
			if _, err := w.tx.ExecContext(ctx, insTest, id, test); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *graphWriter) writeEnvironment(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	e := doc.Environment
	if e == nil {
		return nil
	}

	amount, currency := valueParts(e.AbatementCost)
	if err := w.ensureCurrency(ctx, currency); err != nil {
		return err
	}

	const insEnv = `
insert into project_environment (project_id, has_impact_assessment, in_protected_area, abatement_cost_amount, abatement_cost_currency)
values ($1, $2, $3, $4, $5);
`
	if _, err := w.tx.ExecContext(ctx, insEnv, id,
		e.HasImpactAssessment, e.InProtectedArea, amount, currency); err != nil {
		return err
	}

	const insGoal = `
insert into environment_goals (project_id, goal)
values ($1, $2)
on conflict do nothing;
`
	for _, goal := range e.Goals {
		if _, err := w.tx.ExecContext(ctx, insGoal, id, goal); err != nil {
			return err
		}
	}

	const insOversight = `
insert into environment_climate_oversight_types (project_id, oversight_type)
values ($1, $2)
on conflict do nothing;
`
	for _, ot := range e.ClimateOversightTypes {
		if _, err := w.tx.ExecContext(ctx, insOversight, id, ot); err != nil {
			return err
		}
	}

	const insConservation = `
insert into environment_conservation_measures (project_id, type, description)
values ($1, $2, $3);
`
	for i := range e.ConservationMeasures {
		m := &e.ConservationMeasures[i]
		if _, err := w.tx.ExecContext(ctx, insConservation, id, m.Type, m.Description); err != nil {
			return err
		}
	}

	const insEnvironmental = `
insert into environment_environmental_measures (project_id, type, description)
values ($1, $2, $3);
`
	for i := range e.EnvironmentalMeasures {
		m := &e.EnvironmentalMeasures[i]
		if _, err := w.tx.ExecContext(ctx, insEnvironmental, id, m.Type, m.Description); err != nil {
			return err
		}
	}

	// Climate measure types are multi-valued in the document and stored as a
	// comma-joined string.
	const insClimate = `
insert into environment_climate_measures (project_id, type, description)
values ($1, $2, $3);
`
	for i := range e.ClimateMeasures {
		m := &e.ClimateMeasures[i]
		var typ *string
		if len(m.Type) > 0 {
			joined := strings.Join(m.Type, ", ")
			typ = &joined
		}
		if _, err := w.tx.ExecContext(ctx, insClimate, id, typ, m.Description); err != nil {
			return err
		}
	}

	const insImpact = `
insert into environment_impact_categories (project_id, scheme, category_id)
values ($1, $2, $3);
`
	for i := range e.ImpactCategories {
		c := &e.ImpactCategories[i]
		if _, err := w.tx.ExecContext(ctx, insImpact, id, c.Scheme, c.ID); err != nil {
			return err
		}
	}
	return nil
}

func (w *graphWriter) writeBenefits(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const insBenefit = `
insert into project_benefits (project_id, title, description)
values ($1, $2, $3)
returning id;
`
	const insBeneficiary = `
insert into benefit_beneficiaries (benefit_id, description, number_of_people)
values ($1, $2, $3);
`
	for i := range doc.Benefits {
		b := &doc.Benefits[i]
		var benefitID int64
		if err := w.tx.QueryRowContext(ctx, insBenefit, id, b.Title, b.Description).Scan(&benefitID); err != nil {
			return err
		}
		for j := range b.Beneficiaries {
			ben := &b.Beneficiaries[j]
			if _, err := w.tx.ExecContext(ctx, insBeneficiary, benefitID,
				ben.Description, ben.NumberOfPeople); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *graphWriter) writeCompletion(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	c := doc.Completion
	if c == nil {
		return nil
	}
	amount, currency := valueParts(c.FinalValue)
	if err := w.ensureCurrency(ctx, currency); err != nil {
		return err
	}
	const q = `
insert into project_completion (project_id, end_date, end_date_details, final_scope, final_scope_details, final_value_amount, final_value_currency)
values ($1, $2, $3, $4, $5, $6, $7);
`
	_, err := w.tx.ExecContext(ctx, q, id,
		c.EndDate, c.EndDateDetails, c.FinalScope, c.FinalScopeDetails, amount, currency)
	return err
}

func (w *graphWriter) writeLobbyingMeetings(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const q = `
insert into project_lobbying_meetings (project_id, local_id, meeting_date, number_of_participants,
	street_address, locality, region, postal_code, country_name,
	public_office_job_title, public_office_person_name, public_office_org_id, public_office_org_name)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
`
	for i := range doc.LobbyingMeetings {
		m := &doc.LobbyingMeetings[i]
		addr := m.Address
		if addr == nil {
			addr = &oc4ids.Address{}
		}
		var personName, jobTitle, orgID, orgName *string
		if m.PublicOffice != nil {
			personName = m.PublicOffice.Name
			jobTitle = m.PublicOffice.JobTitle
			if m.PublicOffice.Organization != nil {
				orgID = m.PublicOffice.Organization.ID
				orgName = m.PublicOffice.Organization.Name
			}
		}
		if _, err := w.tx.ExecContext(ctx, q, id, m.ID, m.Date, m.NumberOfParticipants,
			addr.StreetAddress, addr.Locality, addr.Region, addr.PostalCode, addr.CountryName,
			jobTitle, personName, orgID, orgName); err != nil {
			return err
		}
	}
	return nil
}

func (w *graphWriter) writePolicyAlignment(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	pa := doc.PolicyAlignment
	if pa == nil {
		return nil
	}
	const insAlignment = `
insert into project_policy_alignment (project_id, description)
values ($1, $2);
`
	if _, err := w.tx.ExecContext(ctx, insAlignment, id, pa.Description); err != nil {
		return err
	}
	const insPolicy = `
insert into project_policy_alignment_policies (project_id, policy)
values ($1, $2)
on conflict do nothing;
`
	for _, policy := range pa.Policies {
		if _, err := w.tx.ExecContext(ctx, insPolicy, id, policy); err != nil {
			return err
		}
	}
	return nil
}

func (w *graphWriter) writeRelatedProjects(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const q = `
insert into project_related_projects (id, project_id, relationship_id, identifier, relationship, scheme, title, uri)
values ($1, $2, $3, $4, $5, $6, $7, $8);
`
	for i := range doc.RelatedProjects {
		rp := &doc.RelatedProjects[i]
		relationship := ""
		if len(rp.Relationship) > 0 {
			relationship = rp.Relationship[0]
		}
		if _, err := w.tx.ExecContext(ctx, q, uuid.New(), id,
			rp.ID, rp.ID, relationship, rp.Scheme, rp.Title, rp.URI); err != nil {
			return err
		}
	}
	return nil
}

func (w *graphWriter) ensureCurrency(ctx context.Context, code *string) error {
	if code == nil {
		return nil
	}
	return w.refs.Currency(ctx, *code)
}

func valueParts(v *oc4ids.Value) (*float64, *string) {
	if v == nil {
		return nil, nil
	}
	return v.Amount, v.Currency
}

// asJSON renders a value for a jsonb column, keeping absent input absent.
func asJSON(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []string:
		if len(t) == 0 {
			return nil, nil
		}
	case map[string]string:
		if len(t) == 0 {
			return nil, nil
		}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode jsonb: %w", err)
	}
	return raw, nil
}
