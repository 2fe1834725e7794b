package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/thip-platform/disclosure-backend/internal/oc4ids"
	"github.com/thip-platform/disclosure-backend/internal/projects/domain"
)

// RenderRepository recomposes the relational graph back into an OC4IDS
// document. It is the read-side inverse of IngestRepository: every field the
// decomposer persists comes back, absent sections stay absent.
type RenderRepository struct {
	db *sql.DB
}

func NewRenderRepository(db *sql.DB) *RenderRepository {
	return &RenderRepository{db: db}
}

// Render loads a live project. Soft-deleted projects report ErrNotFound the
// same as unknown ids.
func (r *RenderRepository) Render(ctx context.Context, id uuid.UUID) (*oc4ids.Document, error) {
	doc, err := r.loadRoot(ctx, id)
	if err != nil {
		return nil, err
	}

	steps := []struct {
		name string
		fn   func(context.Context, uuid.UUID, *oc4ids.Document) error
	}{
		{"identifiers", r.loadIdentifiers},
		{"periods", r.loadPeriods},
		{"sectors", r.loadSectors},
		{"classifications", r.loadClassifications},
		{"locations", r.loadLocations},
		{"documents", r.loadDocuments},
		{"budget", r.loadBudget},
		{"parties", r.loadParties},
		{"contracting processes", r.loadContractingProcesses},
		{"cost measurements", r.loadCostMeasurements},
		{"forecasts", r.loadForecasts},
		{"metrics", r.loadMetrics},
		{"social", r.loadSocial},
		{"environment", r.loadEnvironment},
		{"benefits", r.loadBenefits},
		{"completion", r.loadCompletion},
		{"lobbying meetings", r.loadLobbyingMeetings},
		{"policy alignment", r.loadPolicyAlignment},
		{"related projects", r.loadRelatedProjects},
	}
	for _, s := range steps {
		if err := s.fn(ctx, id, doc); err != nil {
			return nil, fmt.Errorf("render %s: %w", s.name, err)
		}
	}
	return doc, nil
}

func (r *RenderRepository) loadRoot(ctx context.Context, id uuid.UUID) (*oc4ids.Document, error) {
	const q = `
select p.id::text, p.title, p.description, p.status, p.purpose,
	to_char(p.updated_at, 'YYYY-MM-DD"T"HH24:MI:SS'),
	pt.code,
	a.id, coalesce(a.name_en, a.name_th)
from projects p
left join project_type pt on pt.id = p.project_type_id
left join agency a on a.id = p.public_authority_id
where p.id = $1 and p.deleted_at is null;
`
	var doc oc4ids.Document
	var description, status, purpose, updated, typeCode, paName sql.NullString
	var paID sql.NullInt64
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&doc.ID, &doc.Title, &description, &status, &purpose,
		&updated, &typeCode, &paID, &paName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("load project: %w", err)
	}
	doc.Description = strPtr(description)
	doc.Status = strPtr(status)
	doc.Purpose = strPtr(purpose)
	doc.Updated = strPtr(updated)
	doc.Type = strPtr(typeCode)
	if paID.Valid {
		idStr := strconv.FormatInt(paID.Int64, 10)
		doc.PublicAuthority = &oc4ids.OrganizationReference{ID: &idStr, Name: strPtr(paName)}
	}
	return &doc, nil
}

func (r *RenderRepository) loadIdentifiers(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const q = `
select scheme, identifier_value
from project_identifiers where project_id = $1 order by id;
`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var scheme sql.NullString
		var value string
		if err := rows.Scan(&scheme, &value); err != nil {
			return err
		}
		doc.Identifiers = append(doc.Identifiers, oc4ids.Identifier{Scheme: strPtr(scheme), ID: &value})
	}
	return rows.Err()
}

func (r *RenderRepository) loadPeriods(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const q = `
select period_type, start_date::text, end_date::text, max_extent_date::text, duration_days
from project_periods where project_id = $1;
`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var code string
		var start, end, maxExtent sql.NullString
		var days sql.NullInt64
		if err := rows.Scan(&code, &start, &end, &maxExtent, &days); err != nil {
			return err
		}
		doc.SetPeriod(code, periodOf(start, end, maxExtent, days))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	const alq = `
select period_start_date::text, period_end_date::text, period_max_extent_date::text, period_duration_days
from project_asset_lifetime where project_id = $1;
`
	var start, end, maxExtent sql.NullString
	var days sql.NullInt64
	err = r.db.QueryRowContext(ctx, alq, id).Scan(&start, &end, &maxExtent, &days)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	doc.AssetLifetime = periodOf(start, end, maxExtent, days)
	return nil
}

func (r *RenderRepository) loadSectors(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const q = `
select s.code
from project_sector ps
join sector s on s.id = ps.sector_id
where ps.project_id = $1
order by s.code;
`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return err
		}
		doc.Sector = append(doc.Sector, code)
	}
	return rows.Err()
}

func (r *RenderRepository) loadClassifications(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const q = `
select c.scheme, c.code, c.description, c.uri
from project_additional_classifications pc
join additional_classifications c on c.id = pc.classification_id
where pc.project_id = $1
order by c.id;
`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var scheme, code string
		var description, uri sql.NullString
		if err := rows.Scan(&scheme, &code, &description, &uri); err != nil {
			return err
		}
		doc.AdditionalClassifications = append(doc.AdditionalClassifications, oc4ids.Classification{
			Scheme:      &scheme,
			ID:          &code,
			Description: strPtr(description),
			URI:         strPtr(uri),
		})
	}
	return rows.Err()
}

func (r *RenderRepository) loadLocations(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const q = `
select id, description, uri, geometry_type, geometry_coordinates,
	street_address, locality, region, postal_code, country_name
from project_locations where project_id = $1 order by id;
`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return err
	}
	defer rows.Close()

	var locIDs []uuid.UUID
	for rows.Next() {
		var locID uuid.UUID
		var description, uri, geomType sql.NullString
		var geomCoords []byte
		var street, locality, region, postal, country sql.NullString
		if err := rows.Scan(&locID, &description, &uri, &geomType, &geomCoords,
			&street, &locality, &region, &postal, &country); err != nil {
			return err
		}
		loc := oc4ids.Location{
			Description: strPtr(description),
			URI:         strPtr(uri),
			Address:     addressOf(street, locality, region, postal, country),
		}
		if geomType.Valid || len(geomCoords) > 0 {
			loc.Geometry = &oc4ids.Geometry{Type: strPtr(geomType), Coordinates: geomCoords}
		}
		doc.Locations = append(doc.Locations, loc)
		locIDs = append(locIDs, locID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	const gq = `
select g.scheme,
	coalesce(array_agg(i.identifier order by i.id) filter (where i.identifier is not null), '{}')
from location_gazetteers g
left join location_gazetteer_identifiers i on i.gazetteer_id = g.id
where g.location_id = $1
group by g.id, g.scheme
order by g.id;
`
	for i, locID := range locIDs {
		grows, err := r.db.QueryContext(ctx, gq, locID)
		if err != nil {
			return err
		}
		for grows.Next() {
			var gaz oc4ids.Gazetteer
			if err := grows.Scan(&gaz.Scheme, pq.Array(&gaz.Identifiers)); err != nil {
				grows.Close()
				return err
			}
			doc.Locations[i].Gazetteers = append(doc.Locations[i].Gazetteers, gaz)
		}
		if err := grows.Err(); err != nil {
			grows.Close()
			return err
		}
		grows.Close()
	}
	return nil
}

// scanDocumentRows is shared by the project-level and process-level document
// tables; both carry the same column list after the parent id.
func scanDocumentRows(rows *sql.Rows) ([]oc4ids.DocumentReference, error) {
	var out []oc4ids.DocumentReference
	for rows.Next() {
		var d oc4ids.DocumentReference
		var docType, title, description, url sql.NullString
		var published, modified, format, language sql.NullString
		var pageStart, pageEnd, access, author sql.NullString
		if err := rows.Scan(&d.ID, &docType, &title, &description, &url,
			&published, &modified, &format, &language,
			&pageStart, &pageEnd, &access, &author); err != nil {
			return nil, err
		}
		d.DocumentType = strPtr(docType)
		d.Title = strPtr(title)
		d.Description = strPtr(description)
		d.URL = strPtr(url)
		d.DatePublished = strPtr(published)
		d.DateModified = strPtr(modified)
		d.Format = strPtr(format)
		d.Language = strPtr(language)
		d.PageStart = strPtr(pageStart)
		d.PageEnd = strPtr(pageEnd)
		d.AccessDetails = strPtr(access)
		d.Author = strPtr(author)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *RenderRepository) loadDocuments(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const q = `
select local_id, document_type, title, description, url,
	date_published::text, date_modified::text, format, language,
	page_start, page_end, access_details, author
from project_documents where project_id = $1 order by id;
`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return err
	}
	defer rows.Close()

	doc.Documents, err = scanDocumentRows(rows)
	return err
}

func (r *RenderRepository) loadBudget(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const q = `
select id, description, total_amount, currency, request_date::text, approval_date::text
from project_budgets where project_id = $1 order by id limit 1;
`
	var budgetID int64
	var description, currency, requestDate, approvalDate sql.NullString
	var amount sql.NullFloat64
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&budgetID, &description, &amount, &currency, &requestDate, &approvalDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	b := &oc4ids.Budget{
		Description:  strPtr(description),
		RequestDate:  strPtr(requestDate),
		ApprovalDate: strPtr(approvalDate),
	}
	if amount.Valid || currency.Valid {
		ba := &oc4ids.BudgetAmount{Amount: f64Ptr(amount), Currency: strPtr(currency)}
		if amount.Valid {
			ba.AmountFormatted = formatThaiAmount(amount.Float64)
		}
		b.Amount = ba
	}

	if err := r.loadBudgetBreakdowns(ctx, budgetID, b); err != nil {
		return err
	}
	if err := r.loadFinance(ctx, budgetID, b); err != nil {
		return err
	}
	doc.Budget = b
	return nil
}

func (r *RenderRepository) loadBudgetBreakdowns(ctx context.Context, budgetID int64, b *oc4ids.Budget) error {
	const q = `
select id, local_id, description
from budget_breakdowns where budget_id = $1 order by id;
`
	rows, err := r.db.QueryContext(ctx, q, budgetID)
	if err != nil {
		return err
	}
	defer rows.Close()

	var bdIDs []int64
	for rows.Next() {
		var bdID int64
		var bd oc4ids.BudgetBreakdown
		var description sql.NullString
		if err := rows.Scan(&bdID, &bd.ID, &description); err != nil {
			return err
		}
		bd.Description = strPtr(description)
		b.Breakdown = append(b.Breakdown, bd)
		bdIDs = append(bdIDs, bdID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	const iq = `
select local_id, description, amount, currency, uri,
	period_start_date::text, period_end_date::text, period_max_extent_date::text, period_duration_days,
	source_party_id, source_party_name
from budget_breakdown_items where breakdown_id = $1 order by id;
`
	for i, bdID := range bdIDs {
		irows, err := r.db.QueryContext(ctx, iq, bdID)
		if err != nil {
			return err
		}
		for irows.Next() {
			var item oc4ids.BudgetBreakdownItem
			var description, currency, uri sql.NullString
			var amount sql.NullFloat64
			var start, end, maxExtent sql.NullString
			var days sql.NullInt64
			var spID, spName sql.NullString
			if err := irows.Scan(&item.ID, &description, &amount, &currency, &uri,
				&start, &end, &maxExtent, &days, &spID, &spName); err != nil {
				irows.Close()
				return err
			}
			item.Description = strPtr(description)
			item.Amount = valueOf(amount, currency)
			item.URI = strPtr(uri)
			item.Period = periodOf(start, end, maxExtent, days)
			item.SourceParty = orgRef(spID, spName)
			b.Breakdown[i].Breakdown = append(b.Breakdown[i].Breakdown, item)
		}
		if err := irows.Err(); err != nil {
			irows.Close()
			return err
		}
		irows.Close()
	}
	return nil
}

func (r *RenderRepository) loadFinance(ctx context.Context, budgetID int64, b *oc4ids.Budget) error {
	const q = `
select local_id, description, asset_class, type, concessional,
	value_amount, value_currency, source, financing_party_id, financing_party_name,
	period_start_date::text, period_end_date::text,
	payment_period_start_date::text, payment_period_end_date::text,
	interest_rate_margin
from project_finance where budget_id = $1 order by id;
`
	rows, err := r.db.QueryContext(ctx, q, budgetID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var fin oc4ids.Finance
		var description, assetClass, finType sql.NullString
		var concessional sql.NullBool
		var amount sql.NullFloat64
		var currency, source, fpID, fpName sql.NullString
		var start, end, payStart, payEnd sql.NullString
		var margin sql.NullFloat64
		if err := rows.Scan(&fin.ID, &description, &assetClass, &finType, &concessional,
			&amount, &currency, &source, &fpID, &fpName,
			&start, &end, &payStart, &payEnd, &margin); err != nil {
			return err
		}
		fin.Description = strPtr(description)
		fin.AssetClass = strPtr(assetClass)
		fin.Type = strPtr(finType)
		fin.Concessional = boolPtr(concessional)
		fin.Value = valueOf(amount, currency)
		fin.Source = strPtr(source)
		fin.FinancingParty = orgRef(fpID, fpName)
		fin.Period = periodOf(start, end, sql.NullString{}, sql.NullInt64{})
		fin.PaymentPeriod = periodOf(payStart, payEnd, sql.NullString{}, sql.NullInt64{})
		fin.InterestRateMargin = f64Ptr(margin)
		b.Finance = append(b.Finance, fin)
	}
	return rows.Err()
}

func (r *RenderRepository) loadParties(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const q = `
select p.id, p.local_id, p.name, p.identifier_scheme, p.identifier_value, a.name_th, p.identifier_uri,
	p.street_address, p.locality, p.region, p.postal_code, p.country_name,
	p.contact_name, p.contact_email, p.contact_telephone, p.contact_fax, p.contact_url
from project_parties p
left join agency a on a.id = p.identifier_legal_name_id
where p.project_id = $1
order by p.id;
`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return err
	}
	defer rows.Close()

	var partyIDs []int64
	for rows.Next() {
		var partyID int64
		var party oc4ids.Party
		var name, identScheme, identValue, legalName, identURI sql.NullString
		var street, locality, region, postal, country sql.NullString
		var cName, cEmail, cTel, cFax, cURL sql.NullString
		if err := rows.Scan(&partyID, &party.ID, &name,
			&identScheme, &identValue, &legalName, &identURI,
			&street, &locality, &region, &postal, &country,
			&cName, &cEmail, &cTel, &cFax, &cURL); err != nil {
			return err
		}
		party.Name = strPtr(name)
		if identScheme.Valid || identValue.Valid || legalName.Valid || identURI.Valid {
			party.Identifier = &oc4ids.PartyIdentifier{
				Scheme:    strPtr(identScheme),
				ID:        strPtr(identValue),
				LegalName: strPtr(legalName),
				URI:       strPtr(identURI),
			}
		}
		party.Address = addressOf(street, locality, region, postal, country)
		if cName.Valid || cEmail.Valid || cTel.Valid || cFax.Valid || cURL.Valid {
			party.ContactPoint = &oc4ids.ContactPoint{
				Name:      strPtr(cName),
				Email:     strPtr(cEmail),
				Telephone: strPtr(cTel),
				Fax:       strPtr(cFax),
				URL:       strPtr(cURL),
			}
		}
		doc.Parties = append(doc.Parties, party)
		partyIDs = append(partyIDs, partyID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i, partyID := range partyIDs {
		if err := r.loadPartyChildren(ctx, partyID, &doc.Parties[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *RenderRepository) loadPartyChildren(ctx context.Context, partyID int64, party *oc4ids.Party) error {
	const rolesQ = `
select coalesce(array_agg(role order by role), '{}')
from party_roles where party_id = $1;
`
	if err := r.db.QueryRowContext(ctx, rolesQ, partyID).Scan(pq.Array(&party.Roles)); err != nil {
		return err
	}

	const aiQ = `
select ai.scheme, ai.identifier, m.name_th, ai.uri
from party_additional_identifiers ai
left join ministry m on m.id = ai.legal_name_id
where ai.party_id = $1
order by ai.id;
`
	rows, err := r.db.QueryContext(ctx, aiQ, partyID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var scheme, identifier, legalName, uri sql.NullString
		if err := rows.Scan(&scheme, &identifier, &legalName, &uri); err != nil {
			rows.Close()
			return err
		}
		party.AdditionalIdentifiers = append(party.AdditionalIdentifiers, oc4ids.PartyIdentifier{
			Scheme:    strPtr(scheme),
			ID:        strPtr(identifier),
			LegalName: strPtr(legalName),
			URI:       strPtr(uri),
		})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	const peopleQ = `
select local_id, name, job_title
from party_people where party_id = $1 order by id;
`
	rows, err = r.db.QueryContext(ctx, peopleQ, partyID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var p oc4ids.Person
		var name, jobTitle sql.NullString
		if err := rows.Scan(&p.ID, &name, &jobTitle); err != nil {
			rows.Close()
			return err
		}
		p.Name = strPtr(name)
		p.JobTitle = strPtr(jobTitle)
		party.Persons = append(party.Persons, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	const ownersQ = `
select bo.id, bo.local_id, bo.name, bo.email, bo.telephone, bo.fax_number,
	bo.identifier_scheme, bo.identifier_value,
	bo.street_address, bo.locality, bo.region, bo.postal_code, bo.country_name,
	coalesce(array_agg(n.nationality order by n.nationality) filter (where n.nationality is not null), '{}')
from party_beneficial_owners bo
left join beneficial_owner_nationalities n on n.owner_id = bo.id
where bo.party_id = $1
group by bo.id
order by bo.id;
`
	rows, err = r.db.QueryContext(ctx, ownersQ, partyID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var ownerID int64
		var bo oc4ids.BeneficialOwner
		var name, email, tel, fax sql.NullString
		var identScheme, identValue sql.NullString
		var street, locality, region, postal, country sql.NullString
		if err := rows.Scan(&ownerID, &bo.ID, &name, &email, &tel, &fax,
			&identScheme, &identValue,
			&street, &locality, &region, &postal, &country,
			pq.Array(&bo.Nationalities)); err != nil {
			rows.Close()
			return err
		}
		bo.Name = strPtr(name)
		bo.Email = strPtr(email)
		bo.Telephone = strPtr(tel)
		bo.FaxNumber = strPtr(fax)
		if identScheme.Valid || identValue.Valid {
			bo.Identifier = &oc4ids.Identifier{Scheme: strPtr(identScheme), ID: strPtr(identValue)}
		}
		bo.Address = addressOf(street, locality, region, postal, country)
		party.BeneficialOwners = append(party.BeneficialOwners, bo)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	const classQ = `
select scheme, classification_id
from party_classifications where party_id = $1 order by scheme, classification_id;
`
	rows, err = r.db.QueryContext(ctx, classQ, partyID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var scheme, classID string
		if err := rows.Scan(&scheme, &classID); err != nil {
			return err
		}
		party.Classifications = append(party.Classifications, oc4ids.Identifier{Scheme: &scheme, ID: &classID})
	}
	return rows.Err()
}

func (r *RenderRepository) loadContractingProcesses(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const q = `
select id, local_id, ocid, external_reference, title, description, status, nature,
	contract_amount, contract_currency, final_amount, final_currency,
	period_start_date::text, period_end_date::text, period_max_extent_date::text, period_duration_days
from project_contracting_processes where project_id = $1 order by id;
`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return err
	}
	defer rows.Close()

	var processIDs []int64
	for rows.Next() {
		var processID int64
		var cp oc4ids.ContractingProcess
		var ocid, extRef, title, description, status sql.NullString
		var nature []byte
		var contractAmount, finalAmount sql.NullFloat64
		var contractCurrency, finalCurrency sql.NullString
		var start, end, maxExtent sql.NullString
		var days sql.NullInt64
		if err := rows.Scan(&processID, &cp.ID, &ocid, &extRef, &title, &description, &status, &nature,
			&contractAmount, &contractCurrency, &finalAmount, &finalCurrency,
			&start, &end, &maxExtent, &days); err != nil {
			return err
		}
		sum := &oc4ids.ContractingProcessSummary{
			OCID:              strPtr(ocid),
			ExternalReference: strPtr(extRef),
			Title:             strPtr(title),
			Description:       strPtr(description),
			Status:            strPtr(status),
			ContractValue:     valueOf(contractAmount, contractCurrency),
			FinalValue:        valueOf(finalAmount, finalCurrency),
			ContractPeriod:    periodOf(start, end, maxExtent, days),
		}
		if len(nature) > 0 {
			if err := json.Unmarshal(nature, &sum.Nature); err != nil {
				return fmt.Errorf("decode nature: %w", err)
			}
		}
		cp.Summary = sum
		doc.ContractingProcesses = append(doc.ContractingProcesses, cp)
		processIDs = append(processIDs, processID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i, processID := range processIDs {
		if err := r.loadProcessChildren(ctx, processID, doc.ContractingProcesses[i].Summary); err != nil {
			return err
		}
	}
	return nil
}

func (r *RenderRepository) loadProcessChildren(ctx context.Context, processID int64, sum *oc4ids.ContractingProcessSummary) error {
	if err := r.loadTender(ctx, processID, sum); err != nil {
		return err
	}

	const suppliersQ = `
select local_id, name
from contracting_suppliers where process_id = $1 order by id;
`
	rows, err := r.db.QueryContext(ctx, suppliersQ, processID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var s oc4ids.LocalEntity
		var name sql.NullString
		if err := rows.Scan(&s.ID, &name); err != nil {
			rows.Close()
			return err
		}
		s.Name = strPtr(name)
		sum.Suppliers = append(sum.Suppliers, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	const socialQ = `
select labor_budget_amount, labor_budget_currency, labor_obligations, labor_description
from contracting_social where process_id = $1;
`
	var laborAmount sql.NullFloat64
	var laborCurrency, laborDescription sql.NullString
	var obligations []byte
	err = r.db.QueryRowContext(ctx, socialQ, processID).Scan(
		&laborAmount, &laborCurrency, &obligations, &laborDescription)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if err == nil {
		soc := &oc4ids.ProcessSocial{
			Description: strPtr(laborDescription),
			LaborBudget: valueOf(laborAmount, laborCurrency),
		}
		if len(obligations) > 0 {
			if err := json.Unmarshal(obligations, &soc.LaborObligations); err != nil {
				return fmt.Errorf("decode labor obligations: %w", err)
			}
		}
		sum.Social = soc
	}

	const releasesQ = `
select local_id, date::text, tag, url
from contracting_releases where process_id = $1 order by id;
`
	rows, err = r.db.QueryContext(ctx, releasesQ, processID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var rel oc4ids.Release
		var date, url sql.NullString
		var tag []byte
		if err := rows.Scan(&rel.ID, &date, &tag, &url); err != nil {
			rows.Close()
			return err
		}
		rel.Date = strPtr(date)
		rel.URL = strPtr(url)
		if len(tag) > 0 {
			if err := json.Unmarshal(tag, &rel.Tag); err != nil {
				rows.Close()
				return fmt.Errorf("decode release tag: %w", err)
			}
		}
		sum.Releases = append(sum.Releases, rel)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	const milestonesQ = `
select local_id, title, type, description, code,
	due_date::text, date_met::text, date_modified::text, status, value_amount, value_currency
from contracting_milestones where process_id = $1 order by id;
`
	rows, err = r.db.QueryContext(ctx, milestonesQ, processID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var m oc4ids.Milestone
		var title, mType, description, code sql.NullString
		var dueDate, dateMet, dateModified, status sql.NullString
		var amount sql.NullFloat64
		var currency sql.NullString
		if err := rows.Scan(&m.ID, &title, &mType, &description, &code,
			&dueDate, &dateMet, &dateModified, &status, &amount, &currency); err != nil {
			rows.Close()
			return err
		}
		m.Title = strPtr(title)
		m.Type = strPtr(mType)
		m.Description = strPtr(description)
		m.Code = strPtr(code)
		m.DueDate = strPtr(dueDate)
		m.DateMet = strPtr(dateMet)
		m.DateModified = strPtr(dateModified)
		m.Status = strPtr(status)
		m.Value = valueOf(amount, currency)
		sum.Milestones = append(sum.Milestones, m)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	const transactionsQ = `
select local_id, source, date::text, amount, currency, payer_name, payee_name, uri
from contracting_transactions where process_id = $1 order by id;
`
	rows, err = r.db.QueryContext(ctx, transactionsQ, processID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var t oc4ids.Transaction
		var source, date sql.NullString
		var amount sql.NullFloat64
		var currency, payer, payee, uri sql.NullString
		if err := rows.Scan(&t.ID, &source, &date, &amount, &currency, &payer, &payee, &uri); err != nil {
			rows.Close()
			return err
		}
		t.Source = strPtr(source)
		t.Date = strPtr(date)
		t.Value = valueOf(amount, currency)
		if payer.Valid {
			t.Payer = &oc4ids.OrganizationReference{Name: strPtr(payer)}
		}
		if payee.Valid {
			t.Payee = &oc4ids.OrganizationReference{Name: strPtr(payee)}
		}
		t.URI = strPtr(uri)
		sum.Transactions = append(sum.Transactions, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	const modificationsQ = `
select local_id, date::text, description, rationale, type, release_id,
	old_amount, old_currency, new_amount, new_currency,
	old_start_date::text, old_end_date::text, new_start_date::text, new_end_date::text
from contracting_modifications where process_id = $1 order by id;
`
	rows, err = r.db.QueryContext(ctx, modificationsQ, processID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var mod oc4ids.Modification
		var date, description, rationale, modType, releaseID sql.NullString
		var oldAmount, newAmount sql.NullFloat64
		var oldCurrency, newCurrency sql.NullString
		var oldStart, oldEnd, newStart, newEnd sql.NullString
		if err := rows.Scan(&mod.ID, &date, &description, &rationale, &modType, &releaseID,
			&oldAmount, &oldCurrency, &newAmount, &newCurrency,
			&oldStart, &oldEnd, &newStart, &newEnd); err != nil {
			rows.Close()
			return err
		}
		mod.Date = strPtr(date)
		mod.Description = strPtr(description)
		mod.Rationale = strPtr(rationale)
		mod.Type = strPtr(modType)
		mod.ReleaseID = strPtr(releaseID)
		if oldAmount.Valid || oldCurrency.Valid || newAmount.Valid || newCurrency.Valid {
			mod.ContractValue = &oc4ids.ModificationContractValue{
				OriginalAmount: valueOf(oldAmount, oldCurrency),
				Amount:         valueOf(newAmount, newCurrency),
			}
		}
		if oldStart.Valid || oldEnd.Valid || newStart.Valid || newEnd.Valid {
			mod.Period = &oc4ids.ModificationPeriod{
				OldStartDate: strPtr(oldStart),
				OldEndDate:   strPtr(oldEnd),
				NewStartDate: strPtr(newStart),
				NewEndDate:   strPtr(newEnd),
			}
		}
		sum.Modifications = append(sum.Modifications, mod)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	const documentsQ = `
select local_id, document_type, title, description, url,
	date_published::text, date_modified::text, format, language,
	page_start, page_end, access_details, author
from contracting_documents where process_id = $1 order by id;
`
	rows, err = r.db.QueryContext(ctx, documentsQ, processID)
	if err != nil {
		return err
	}
	defer rows.Close()

	sum.Documents, err = scanDocumentRows(rows)
	return err
}

func (r *RenderRepository) loadTender(ctx context.Context, processID int64, sum *oc4ids.ContractingProcessSummary) error {
	const q = `
select procurement_method, procurement_method_details, date_published::text,
	cost_estimate_amount, cost_estimate_currency, number_of_tenderers
from contracting_tenders where process_id = $1;
`
	var method, methodDetails, published sql.NullString
	var amount sql.NullFloat64
	var currency sql.NullString
	var tenderers sql.NullInt64
	err := r.db.QueryRowContext(ctx, q, processID).Scan(
		&method, &methodDetails, &published, &amount, &currency, &tenderers)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	t := &oc4ids.Tender{
		ProcurementMethod:        strPtr(method),
		ProcurementMethodDetails: strPtr(methodDetails),
		DatePublished:            strPtr(published),
		CostEstimate:             valueOf(amount, currency),
		NumberOfTenderers:        intPtr(tenderers),
	}

	const tenderersQ = `
select local_id, name
from contracting_tender_tenderers where process_id = $1 order by id;
`
	rows, err := r.db.QueryContext(ctx, tenderersQ, processID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var ten oc4ids.LocalEntity
		var name sql.NullString
		if err := rows.Scan(&ten.ID, &name); err != nil {
			rows.Close()
			return err
		}
		ten.Name = strPtr(name)
		t.Tenderers = append(t.Tenderers, ten)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	const entityQ = `
select name
from contracting_tender_entities
where process_id = $1 and role = 'procuringEntity'
order by id limit 1;
`
	var entityName sql.NullString
	err = r.db.QueryRowContext(ctx, entityQ, processID).Scan(&entityName)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if err == nil {
		t.ProcuringEntity = &oc4ids.OrganizationReference{Name: strPtr(entityName)}
	}

	const sustainabilityQ = `
select strategies
from contracting_tender_sustainability where process_id = $1 order by id;
`
	rows, err = r.db.QueryContext(ctx, sustainabilityQ, processID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return err
		}
		var strategies []string
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &strategies); err != nil {
				return fmt.Errorf("decode sustainability: %w", err)
			}
		}
		t.Sustainability = append(t.Sustainability, strategies)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	sum.Tender = t
	return nil
}

func (r *RenderRepository) loadCostMeasurements(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const q = `
select id, local_id, measurement_date::text, lifecycle_cost_amount, lifecycle_cost_currency
from project_cost_measurements where project_id = $1 order by id;
`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return err
	}
	defer rows.Close()

	var cmIDs []int64
	for rows.Next() {
		var cmID int64
		var cm oc4ids.CostMeasurement
		var date sql.NullString
		var amount sql.NullFloat64
		var currency sql.NullString
		if err := rows.Scan(&cmID, &cm.ID, &date, &amount, &currency); err != nil {
			return err
		}
		cm.Date = strPtr(date)
		cm.LifeCycleCost = valueOf(amount, currency)
		doc.CostMeasurements = append(doc.CostMeasurements, cm)
		cmIDs = append(cmIDs, cmID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	const groupQ = `
select id, local_id, category
from cost_groups where cost_measurement_id = $1 order by id;
`
	const itemQ = `
select local_id, amount, currency, classification_id, classification_scheme, classification_description
from cost_items where cost_group_id = $1 order by id;
`
	for i, cmID := range cmIDs {
		grows, err := r.db.QueryContext(ctx, groupQ, cmID)
		if err != nil {
			return err
		}
		var cgIDs []int64
		for grows.Next() {
			var cgID int64
			var cg oc4ids.CostGroup
			var category sql.NullString
			if err := grows.Scan(&cgID, &cg.ID, &category); err != nil {
				grows.Close()
				return err
			}
			cg.Description = strPtr(category)
			doc.CostMeasurements[i].CostBreakdown = append(doc.CostMeasurements[i].CostBreakdown, cg)
			cgIDs = append(cgIDs, cgID)
		}
		if err := grows.Err(); err != nil {
			grows.Close()
			return err
		}
		grows.Close()

		for j, cgID := range cgIDs {
			irows, err := r.db.QueryContext(ctx, itemQ, cgID)
			if err != nil {
				return err
			}
			for irows.Next() {
				var item oc4ids.CostItem
				var amount sql.NullFloat64
				var currency, classID, classScheme, classDesc sql.NullString
				if err := irows.Scan(&item.ID, &amount, &currency, &classID, &classScheme, &classDesc); err != nil {
					irows.Close()
					return err
				}
				item.Description = strPtr(classDesc)
				item.Amount = valueOf(amount, currency)
				if classID.Valid || classScheme.Valid {
					item.Classification = &oc4ids.Classification{
						ID:          strPtr(classID),
						Scheme:      strPtr(classScheme),
						Description: strPtr(classDesc),
					}
				}
				doc.CostMeasurements[i].CostBreakdown[j].Breakdown =
					append(doc.CostMeasurements[i].CostBreakdown[j].Breakdown, item)
			}
			if err := irows.Err(); err != nil {
				irows.Close()
				return err
			}
			irows.Close()
		}
	}
	return nil
}

func (r *RenderRepository) loadForecasts(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const q = `
select id, local_id, title, description
from project_forecasts where project_id = $1 order by id;
`
	const obsQ = `
select local_id, measure, notes, value_amount, value_currency,
	period_start_date::text, period_end_date::text, period_max_extent_date::text, period_duration_days,
	unit_name, unit_scheme, unit_id, unit_uri, dimensions
from forecast_observations where forecast_id = $1 order by id;
`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return err
	}
	defer rows.Close()

	var fIDs []int64
	for rows.Next() {
		var fID int64
		var f oc4ids.Forecast
		var title, description sql.NullString
		if err := rows.Scan(&fID, &f.ID, &title, &description); err != nil {
			return err
		}
		f.Title = strPtr(title)
		f.Description = strPtr(description)
		doc.Forecasts = append(doc.Forecasts, f)
		fIDs = append(fIDs, fID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i, fID := range fIDs {
		obs, err := r.loadObservations(ctx, obsQ, fID)
		if err != nil {
			return err
		}
		doc.Forecasts[i].Observations = obs
	}
	return nil
}

func (r *RenderRepository) loadMetrics(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const q = `
select id, local_id, title, description
from project_metrics where project_id = $1 order by id;
`
	const obsQ = `
select local_id, measure, notes, value_amount, value_currency,
	period_start_date::text, period_end_date::text, period_max_extent_date::text, period_duration_days,
	unit_name, unit_scheme, unit_id, unit_uri, dimensions
from metric_observations where metric_id = $1 order by id;
`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return err
	}
	defer rows.Close()

	var mIDs []int64
	for rows.Next() {
		var mID int64
		var m oc4ids.Metric
		var title, description sql.NullString
		if err := rows.Scan(&mID, &m.ID, &title, &description); err != nil {
			return err
		}
		m.Title = strPtr(title)
		m.Description = strPtr(description)
		doc.Metrics = append(doc.Metrics, m)
		mIDs = append(mIDs, mID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i, mID := range mIDs {
		obs, err := r.loadObservations(ctx, obsQ, mID)
		if err != nil {
			return err
		}
		doc.Metrics[i].Observations = obs
	}
	return nil
}

func (r *RenderRepository) loadObservations(ctx context.Context, query string, parentID int64) ([]oc4ids.Observation, error) {
	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []oc4ids.Observation
	for rows.Next() {
		var obs oc4ids.Observation
		var measure, notes sql.NullString
		var amount sql.NullFloat64
		var currency sql.NullString
		var start, end, maxExtent sql.NullString
		var days sql.NullInt64
		var unitName, unitScheme, unitID, unitURI sql.NullString
		var dims []byte
		if err := rows.Scan(&obs.ID, &measure, &notes, &amount, &currency,
			&start, &end, &maxExtent, &days,
			&unitName, &unitScheme, &unitID, &unitURI, &dims); err != nil {
			return nil, err
		}
		obs.Measure = strPtr(measure)
		obs.Notes = strPtr(notes)
		obs.Value = valueOf(amount, currency)
		obs.Period = periodOf(start, end, maxExtent, days)
		if unitName.Valid || unitScheme.Valid || unitID.Valid || unitURI.Valid {
			obs.Unit = &oc4ids.Unit{
				Name:   strPtr(unitName),
				Scheme: strPtr(unitScheme),
				ID:     strPtr(unitID),
				URI:    strPtr(unitURI),
			}
		}
		if len(dims) > 0 {
			if err := json.Unmarshal(dims, &obs.Dimensions); err != nil {
				return nil, fmt.Errorf("decode dimensions: %w", err)
			}
		}
		out = append(out, obs)
	}
	return out, rows.Err()
}

func (r *RenderRepository) loadSocial(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const q = `
select in_indigenous_land, land_compensation_amount, land_compensation_currency, health_safety_material_test_description
from project_social where project_id = $1;
`
	var indigenous sql.NullBool
	var amount sql.NullFloat64
	var currency, testsDescription sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(&indigenous, &amount, &currency, &testsDescription)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	s := &oc4ids.Social{
		InIndigenousLand:       boolPtr(indigenous),
		LandCompensationBudget: valueOf(amount, currency),
	}

	const meetingsQ = `
select local_id, date::text, number_of_participants,
	street_address, locality, region, postal_code, country_name,
	person_name, organization_name, organization_id, job_title
from social_consultation_meetings where project_id = $1 order by id;
`
	rows, err := r.db.QueryContext(ctx, meetingsQ, id)
	if err != nil {
		return err
	}
	for rows.Next() {
		var m oc4ids.ConsultationMeeting
		var date sql.NullString
		var participants sql.NullInt64
		var street, locality, region, postal, country sql.NullString
		var personName, orgName, orgID, jobTitle sql.NullString
		if err := rows.Scan(&m.ID, &date, &participants,
			&street, &locality, &region, &postal, &country,
			&personName, &orgName, &orgID, &jobTitle); err != nil {
			rows.Close()
			return err
		}
		m.Date = strPtr(date)
		m.NumberOfParticipants = intPtr(participants)
		m.Address = addressOf(street, locality, region, postal, country)
		if personName.Valid || orgName.Valid || orgID.Valid || jobTitle.Valid {
			office := &oc4ids.PublicOffice{JobTitle: strPtr(jobTitle)}
			if personName.Valid {
				office.Person = &oc4ids.OrganizationReference{Name: strPtr(personName)}
			}
			if orgName.Valid || orgID.Valid {
				office.Organization = orgRef(orgID, orgName)
			}
			m.PublicOffice = office
		}
		s.ConsultationMeetings = append(s.ConsultationMeetings, m)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	const testsQ = `
select coalesce(array_agg(test order by test), '{}')
from social_health_safety_material_tests where project_id = $1;
`
	var tests []string
	if err := r.db.QueryRowContext(ctx, testsQ, id).Scan(pq.Array(&tests)); err != nil {
		return err
	}
	if testsDescription.Valid || len(tests) > 0 {
		s.HealthAndSafety = &oc4ids.HealthAndSafety{
			MaterialTests: &oc4ids.MaterialTests{
				Description: strPtr(testsDescription),
				Tests:       tests,
			},
		}
	}

	doc.Social = s
	return nil
}

func (r *RenderRepository) loadEnvironment(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const q = `
select has_impact_assessment, in_protected_area, abatement_cost_amount, abatement_cost_currency
from project_environment where project_id = $1;
`
	var impact, protected sql.NullBool
	var amount sql.NullFloat64
	var currency sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(&impact, &protected, &amount, &currency)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	e := &oc4ids.Environment{
		HasImpactAssessment: boolPtr(impact),
		InProtectedArea:     boolPtr(protected),
		AbatementCost:       valueOf(amount, currency),
	}

	const goalsQ = `
select coalesce(array_agg(goal order by goal), '{}')
from environment_goals where project_id = $1;
`
	if err := r.db.QueryRowContext(ctx, goalsQ, id).Scan(pq.Array(&e.Goals)); err != nil {
		return err
	}

	const oversightQ = `
select coalesce(array_agg(oversight_type order by oversight_type), '{}')
from environment_climate_oversight_types where project_id = $1;
`
	if err := r.db.QueryRowContext(ctx, oversightQ, id).Scan(pq.Array(&e.ClimateOversightTypes)); err != nil {
		return err
	}

	loadMeasures := func(query string) ([]oc4ids.TypedMeasure, error) {
		rows, err := r.db.QueryContext(ctx, query, id)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		var out []oc4ids.TypedMeasure
		for rows.Next() {
			var m oc4ids.TypedMeasure
			var mType, description sql.NullString
			if err := rows.Scan(&mType, &description); err != nil {
				return nil, err
			}
			m.Type = strPtr(mType)
			m.Description = strPtr(description)
			out = append(out, m)
		}
		return out, rows.Err()
	}

	e.ConservationMeasures, err = loadMeasures(`
select type, description from environment_conservation_measures where project_id = $1 order by id;`)
	if err != nil {
		return err
	}
	e.EnvironmentalMeasures, err = loadMeasures(`
select type, description from environment_environmental_measures where project_id = $1 order by id;`)
	if err != nil {
		return err
	}

	const climateQ = `
select type, description from environment_climate_measures where project_id = $1 order by id;
`
	rows, err := r.db.QueryContext(ctx, climateQ, id)
	if err != nil {
		return err
	}
	for rows.Next() {
		var m oc4ids.ClimateMeasure
		var mType, description sql.NullString
		if err := rows.Scan(&mType, &description); err != nil {
			rows.Close()
			return err
		}
		if mType.Valid && mType.String != "" {
			m.Type = splitClimateTypes(mType.String)
		}
		m.Description = strPtr(description)
		e.ClimateMeasures = append(e.ClimateMeasures, m)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	const impactQ = `
select scheme, category_id from environment_impact_categories where project_id = $1 order by id;
`
	rows, err = r.db.QueryContext(ctx, impactQ, id)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var scheme, categoryID sql.NullString
		if err := rows.Scan(&scheme, &categoryID); err != nil {
			return err
		}
		e.ImpactCategories = append(e.ImpactCategories, oc4ids.Identifier{
			Scheme: strPtr(scheme),
			ID:     strPtr(categoryID),
		})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	doc.Environment = e
	return nil
}

func (r *RenderRepository) loadBenefits(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const q = `
select id, title, description
from project_benefits where project_id = $1 order by id;
`
	const beneficiariesQ = `
select description, number_of_people
from benefit_beneficiaries where benefit_id = $1 order by id;
`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return err
	}
	defer rows.Close()

	var benefitIDs []int64
	for rows.Next() {
		var benefitID int64
		var b oc4ids.Benefit
		var title, description sql.NullString
		if err := rows.Scan(&benefitID, &title, &description); err != nil {
			return err
		}
		b.ID = strconv.FormatInt(benefitID, 10)
		b.Title = strPtr(title)
		b.Description = strPtr(description)
		doc.Benefits = append(doc.Benefits, b)
		benefitIDs = append(benefitIDs, benefitID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i, benefitID := range benefitIDs {
		brows, err := r.db.QueryContext(ctx, beneficiariesQ, benefitID)
		if err != nil {
			return err
		}
		for brows.Next() {
			var ben oc4ids.Beneficiary
			var description sql.NullString
			var people sql.NullInt64
			if err := brows.Scan(&description, &people); err != nil {
				brows.Close()
				return err
			}
			ben.Description = strPtr(description)
			ben.NumberOfPeople = intPtr(people)
			doc.Benefits[i].Beneficiaries = append(doc.Benefits[i].Beneficiaries, ben)
		}
		if err := brows.Err(); err != nil {
			brows.Close()
			return err
		}
		brows.Close()
	}
	return nil
}

func (r *RenderRepository) loadCompletion(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const q = `
select end_date::text, end_date_details, final_scope, final_scope_details, final_value_amount, final_value_currency
from project_completion where project_id = $1;
`
	var endDate, endDetails, finalScope, scopeDetails sql.NullString
	var amount sql.NullFloat64
	var currency sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&endDate, &endDetails, &finalScope, &scopeDetails, &amount, &currency)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	doc.Completion = &oc4ids.Completion{
		EndDate:           strPtr(endDate),
		EndDateDetails:    strPtr(endDetails),
		FinalScope:        strPtr(finalScope),
		FinalScopeDetails: strPtr(scopeDetails),
		FinalValue:        valueOf(amount, currency),
	}
	return nil
}

func (r *RenderRepository) loadLobbyingMeetings(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const q = `
select local_id, meeting_date::text, number_of_participants,
	street_address, locality, region, postal_code, country_name,
	public_office_job_title, public_office_person_name, public_office_org_id, public_office_org_name
from project_lobbying_meetings where project_id = $1 order by id;
`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var m oc4ids.LobbyingMeeting
		var date sql.NullString
		var participants sql.NullInt64
		var street, locality, region, postal, country sql.NullString
		var jobTitle, personName, orgID, orgName sql.NullString
		if err := rows.Scan(&m.ID, &date, &participants,
			&street, &locality, &region, &postal, &country,
			&jobTitle, &personName, &orgID, &orgName); err != nil {
			return err
		}
		m.Date = strPtr(date)
		m.NumberOfParticipants = intPtr(participants)
		m.Address = addressOf(street, locality, region, postal, country)
		if jobTitle.Valid || personName.Valid || orgID.Valid || orgName.Valid {
			m.PublicOffice = &oc4ids.LobbyingPublicOffice{
				Name:         strPtr(personName),
				JobTitle:     strPtr(jobTitle),
				Organization: orgRef(orgID, orgName),
			}
		}
		doc.LobbyingMeetings = append(doc.LobbyingMeetings, m)
	}
	return rows.Err()
}

func (r *RenderRepository) loadPolicyAlignment(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const q = `
select description
from project_policy_alignment where project_id = $1;
`
	var description sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(&description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	pa := &oc4ids.PolicyAlignment{Description: strPtr(description)}

	const policiesQ = `
select coalesce(array_agg(policy order by policy), '{}')
from project_policy_alignment_policies where project_id = $1;
`
	if err := r.db.QueryRowContext(ctx, policiesQ, id).Scan(pq.Array(&pa.Policies)); err != nil {
		return err
	}
	doc.PolicyAlignment = pa
	return nil
}

func (r *RenderRepository) loadRelatedProjects(ctx context.Context, id uuid.UUID, doc *oc4ids.Document) error {
	const q = `
select identifier, relationship, title, scheme, uri
from project_related_projects where project_id = $1 order by identifier;
`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var rp oc4ids.RelatedProject
		var relationship string
		var title, scheme, uri sql.NullString
		if err := rows.Scan(&rp.ID, &relationship, &title, &scheme, &uri); err != nil {
			return err
		}
		if relationship != "" {
			rp.Relationship = []string{relationship}
		}
		rp.Title = strPtr(title)
		rp.Scheme = strPtr(scheme)
		rp.URI = strPtr(uri)
		doc.RelatedProjects = append(doc.RelatedProjects, rp)
	}
	return rows.Err()
}
