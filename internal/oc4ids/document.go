package oc4ids

import "encoding/json"

// Document is an OC4IDS project document. Every optional field is a pointer
// or a slice so that absent input stays absent through a round trip.
type Document struct {
	ID          string  `json:"id,omitempty"`
	Title       string  `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Purpose     *string `json:"purpose,omitempty"`
	Type        *string `json:"type,omitempty"`
	Updated     *string `json:"updated,omitempty"`

	PublicAuthority *OrganizationReference `json:"publicAuthority,omitempty"`

	Sector                    []string         `json:"sector,omitempty"`
	AdditionalClassifications []Classification `json:"additionalClassifications,omitempty"`
	Identifiers               []Identifier     `json:"identifiers,omitempty"`

	Period                *Period `json:"period,omitempty"`
	IdentificationPeriod  *Period `json:"identificationPeriod,omitempty"`
	PreparationPeriod     *Period `json:"preparationPeriod,omitempty"`
	ImplementationPeriod  *Period `json:"implementationPeriod,omitempty"`
	CompletionPeriod      *Period `json:"completionPeriod,omitempty"`
	MaintenancePeriod     *Period `json:"maintenancePeriod,omitempty"`
	DecommissioningPeriod *Period `json:"decommissioningPeriod,omitempty"`
	AssetLifetime         *Period `json:"assetLifetime,omitempty"`

	Locations            []Location            `json:"locations,omitempty"`
	Budget               *Budget               `json:"budget,omitempty"`
	Parties              []Party               `json:"parties,omitempty"`
	ContractingProcesses []ContractingProcess  `json:"contractingProcesses,omitempty"`
	Documents            []DocumentReference   `json:"documents,omitempty"`
	RelatedProjects      []RelatedProject      `json:"relatedProjects,omitempty"`
	CostMeasurements     []CostMeasurement     `json:"costMeasurements,omitempty"`
	Forecasts            []Forecast            `json:"forecasts,omitempty"`
	Metrics              []Metric              `json:"metrics,omitempty"`
	Social               *Social               `json:"social,omitempty"`
	Environment          *Environment          `json:"environment,omitempty"`
	Benefits             []Benefit             `json:"benefits,omitempty"`
	Completion           *Completion           `json:"completion,omitempty"`
	LobbyingMeetings     []LobbyingMeeting     `json:"lobbyingMeetings,omitempty"`
	PolicyAlignment      *PolicyAlignment      `json:"policyAlignment,omitempty"`
}

// Period as used for the project phase fields and nested period objects.
// Dates are ISO-8601 date strings.
type Period struct {
	StartDate      *string `json:"startDate,omitempty"`
	EndDate        *string `json:"endDate,omitempty"`
	MaxExtentDate  *string `json:"maxExtentDate,omitempty"`
	DurationInDays *int    `json:"durationInDays,omitempty"`
}

// Value is an amount/currency pair.
type Value struct {
	Amount   *float64 `json:"amount,omitempty"`
	Currency *string  `json:"currency,omitempty"`
}

// BudgetAmount is a Value plus the portal's localized display string,
// populated only on output.
type BudgetAmount struct {
	Amount          *float64 `json:"amount,omitempty"`
	Currency        *string  `json:"currency,omitempty"`
	AmountFormatted string   `json:"amountFormatted,omitempty"`
}

type Address struct {
	StreetAddress *string `json:"streetAddress,omitempty"`
	Locality      *string `json:"locality,omitempty"`
	Region        *string `json:"region,omitempty"`
	PostalCode    *string `json:"postalCode,omitempty"`
	CountryName   *string `json:"countryName,omitempty"`
}

func (a *Address) Empty() bool {
	return a == nil || (a.StreetAddress == nil && a.Locality == nil &&
		a.Region == nil && a.PostalCode == nil && a.CountryName == nil)
}

type ContactPoint struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Telephone *string `json:"telephone,omitempty"`
	Fax       *string `json:"fax,omitempty"`
	URL       *string `json:"url,omitempty"`
}

type Classification struct {
	Scheme      *string `json:"scheme,omitempty"`
	ID          *string `json:"id,omitempty"`
	Description *string `json:"description,omitempty"`
	URI         *string `json:"uri,omitempty"`
}

type Identifier struct {
	Scheme *string `json:"scheme,omitempty"`
	ID     *string `json:"id,omitempty"`
}

// PartyIdentifier carries an organization identifier. At the top level of a
// party the legal name names an agency; inside additionalIdentifiers it names
// a ministry. The two meanings are kept apart by the decomposer, not here.
type PartyIdentifier struct {
	Scheme    *string `json:"scheme,omitempty"`
	ID        *string `json:"id,omitempty"`
	LegalName *string `json:"legalName,omitempty"`
	URI       *string `json:"uri,omitempty"`
}

type OrganizationReference struct {
	ID   *string `json:"id,omitempty"`
	Name *string `json:"name,omitempty"`
}

type Location struct {
	Description *string     `json:"description,omitempty"`
	URI         *string     `json:"uri,omitempty"`
	Geometry    *Geometry   `json:"geometry,omitempty"`
	Address     *Address    `json:"address,omitempty"`
	Gazetteers  []Gazetteer `json:"gazetteers,omitempty"`
}

type Geometry struct {
	Type        *string         `json:"type,omitempty"`
	Coordinates json.RawMessage `json:"coordinates,omitempty"`
}

type Gazetteer struct {
	Scheme      string   `json:"scheme"`
	Identifiers []string `json:"identifiers,omitempty"`
}

type Party struct {
	ID           string           `json:"id"`
	Name         *string          `json:"name,omitempty"`
	Identifier   *PartyIdentifier `json:"identifier,omitempty"`
	Address      *Address         `json:"address,omitempty"`
	ContactPoint *ContactPoint    `json:"contactPoint,omitempty"`
	Roles        []string         `json:"roles,omitempty"`

	AdditionalIdentifiers []PartyIdentifier `json:"additionalIdentifiers,omitempty"`
	Persons               []Person          `json:"persons,omitempty"`
	BeneficialOwners      []BeneficialOwner `json:"beneficialOwners,omitempty"`
	Classifications       []Identifier      `json:"classifications,omitempty"`
}

type Person struct {
	ID       string  `json:"id"`
	Name     *string `json:"name,omitempty"`
	JobTitle *string `json:"jobTitle,omitempty"`
}

type BeneficialOwner struct {
	ID          string      `json:"id"`
	Name        *string     `json:"name,omitempty"`
	Email       *string     `json:"email,omitempty"`
	Telephone   *string     `json:"telephone,omitempty"`
	FaxNumber   *string     `json:"faxNumber,omitempty"`
	Identifier  *Identifier `json:"identifier,omitempty"`
	Address     *Address    `json:"address,omitempty"`
	Nationalities []string  `json:"nationalities,omitempty"`
}

type Budget struct {
	Amount       *BudgetAmount     `json:"amount,omitempty"`
	Description  *string           `json:"description,omitempty"`
	RequestDate  *string           `json:"requestDate,omitempty"`
	ApprovalDate *string           `json:"approvalDate,omitempty"`
	Breakdown    []BudgetBreakdown `json:"breakdown,omitempty"`
	Finance      []Finance         `json:"finance,omitempty"`
}

type BudgetBreakdown struct {
	ID          string                `json:"id"`
	Description *string               `json:"description,omitempty"`
	Breakdown   []BudgetBreakdownItem `json:"breakdown,omitempty"`
}

type BudgetBreakdownItem struct {
	ID          string                 `json:"id"`
	Description *string                `json:"description,omitempty"`
	Amount      *Value                 `json:"amount,omitempty"`
	URI         *string                `json:"uri,omitempty"`
	Period      *Period                `json:"period,omitempty"`
	SourceParty *OrganizationReference `json:"sourceParty,omitempty"`
}

type Finance struct {
	ID                 string                 `json:"id"`
	Description        *string                `json:"description,omitempty"`
	AssetClass         *string                `json:"assetClass,omitempty"`
	Type               *string                `json:"type,omitempty"`
	Concessional       *bool                  `json:"concessional,omitempty"`
	Value              *Value                 `json:"value,omitempty"`
	Source             *string                `json:"source,omitempty"`
	FinancingParty     *OrganizationReference `json:"financingParty,omitempty"`
	InterestRateMargin *float64               `json:"interestRateMargin,omitempty"`
	Period             *Period                `json:"period,omitempty"`
	PaymentPeriod      *Period                `json:"paymentPeriod,omitempty"`
}

type DocumentReference struct {
	ID            string  `json:"id"`
	DocumentType  *string `json:"documentType,omitempty"`
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	URL           *string `json:"url,omitempty"`
	DatePublished *string `json:"datePublished,omitempty"`
	DateModified  *string `json:"dateModified,omitempty"`
	Format        *string `json:"format,omitempty"`
	Language      *string `json:"language,omitempty"`
	PageStart     *string `json:"pageStart,omitempty"`
	PageEnd       *string `json:"pageEnd,omitempty"`
	AccessDetails *string `json:"accessDetails,omitempty"`
	Author        *string `json:"author,omitempty"`
}

type RelatedProject struct {
	ID           string   `json:"id"`
	Relationship []string `json:"relationship,omitempty"`
	Title        *string  `json:"title,omitempty"`
	Scheme       *string  `json:"scheme,omitempty"`
	URI          *string  `json:"uri,omitempty"`
}

type ContractingProcess struct {
	ID      string                     `json:"id"`
	Summary *ContractingProcessSummary `json:"summary,omitempty"`
}

type ContractingProcessSummary struct {
	OCID              *string        `json:"ocid,omitempty"`
	ExternalReference *string        `json:"externalReference,omitempty"`
	Title             *string        `json:"title,omitempty"`
	Description       *string        `json:"description,omitempty"`
	Status            *string        `json:"status,omitempty"`
	Nature            []string       `json:"nature,omitempty"`
	ContractValue     *Value         `json:"contractValue,omitempty"`
	FinalValue        *Value         `json:"finalValue,omitempty"`
	ContractPeriod    *Period        `json:"contractPeriod,omitempty"`
	Tender            *Tender        `json:"tender,omitempty"`
	Suppliers         []LocalEntity  `json:"suppliers,omitempty"`
	Social            *ProcessSocial `json:"social,omitempty"`
	Releases          []Release      `json:"releases,omitempty"`
	Milestones        []Milestone    `json:"milestones,omitempty"`
	Transactions      []Transaction  `json:"transactions,omitempty"`
	Modifications     []Modification `json:"modifications,omitempty"`
	Documents         []DocumentReference `json:"documents,omitempty"`
}

// LocalEntity is a minimally identified organization (suppliers, tenderers).
type LocalEntity struct {
	ID   string  `json:"id"`
	Name *string `json:"name,omitempty"`
}

type Tender struct {
	ProcurementMethod        *string                `json:"procurementMethod,omitempty"`
	ProcurementMethodDetails *string                `json:"procurementMethodDetails,omitempty"`
	DatePublished            *string                `json:"datePublished,omitempty"`
	CostEstimate             *Value                 `json:"value,omitempty"`
	NumberOfTenderers        *int                   `json:"numberOfTenderers,omitempty"`
	Tenderers                []LocalEntity          `json:"tenderers,omitempty"`
	ProcuringEntity          *OrganizationReference `json:"procuringEntity,omitempty"`
	Sustainability           [][]string             `json:"sustainability,omitempty"`
}

type ProcessSocial struct {
	Description      *string  `json:"description,omitempty"`
	LaborObligations []string `json:"laborObligations,omitempty"`
	LaborBudget      *Value   `json:"laborBudget,omitempty"`
}

type Release struct {
	ID   string   `json:"id"`
	Date *string  `json:"date,omitempty"`
	Tag  []string `json:"tag,omitempty"`
	URL  *string  `json:"url,omitempty"`
}

type Milestone struct {
	ID           string  `json:"id"`
	Title        *string `json:"title,omitempty"`
	Type         *string `json:"type,omitempty"`
	Code         *string `json:"code,omitempty"`
	Description  *string `json:"description,omitempty"`
	Status       *string `json:"status,omitempty"`
	DueDate      *string `json:"dueDate,omitempty"`
	DateMet      *string `json:"dateMet,omitempty"`
	DateModified *string `json:"dateModified,omitempty"`
	Value        *Value  `json:"value,omitempty"`
}

type Transaction struct {
	ID     string                 `json:"id"`
	Source *string                `json:"source,omitempty"`
	Date   *string                `json:"date,omitempty"`
	Value  *Value                 `json:"value,omitempty"`
	Payer  *OrganizationReference `json:"payer,omitempty"`
	Payee  *OrganizationReference `json:"payee,omitempty"`
	URI    *string                `json:"uri,omitempty"`
}

type Modification struct {
	ID            string                     `json:"id"`
	Date          *string                    `json:"date,omitempty"`
	Description   *string                    `json:"description,omitempty"`
	Rationale     *string                    `json:"rationale,omitempty"`
	Type          *string                    `json:"type,omitempty"`
	ReleaseID     *string                    `json:"releaseID,omitempty"`
	ContractValue *ModificationContractValue `json:"contractValue,omitempty"`
	Period        *ModificationPeriod        `json:"period,omitempty"`
}

type ModificationContractValue struct {
	OriginalAmount *Value `json:"originalAmount,omitempty"`
	Amount         *Value `json:"amount,omitempty"`
}

type ModificationPeriod struct {
	OldStartDate *string `json:"oldStartDate,omitempty"`
	OldEndDate   *string `json:"oldEndDate,omitempty"`
	NewStartDate *string `json:"newStartDate,omitempty"`
	NewEndDate   *string `json:"newEndDate,omitempty"`
}

type CostMeasurement struct {
	ID            string      `json:"id"`
	Date          *string     `json:"date,omitempty"`
	LifeCycleCost *Value      `json:"lifeCycleCost,omitempty"`
	CostBreakdown []CostGroup `json:"costBreakdown,omitempty"`
}

type CostGroup struct {
	ID          string     `json:"id"`
	Description *string    `json:"description,omitempty"`
	Breakdown   []CostItem `json:"breakdown,omitempty"`
}

type CostItem struct {
	ID             string          `json:"id"`
	Description    *string         `json:"description,omitempty"`
	Amount         *Value          `json:"amount,omitempty"`
	Classification *Classification `json:"classification,omitempty"`
}

type Forecast struct {
	ID           string        `json:"id"`
	Title        *string       `json:"title,omitempty"`
	Description  *string       `json:"description,omitempty"`
	Observations []Observation `json:"observations,omitempty"`
}

type Metric struct {
	ID           string        `json:"id"`
	Title        *string       `json:"title,omitempty"`
	Description  *string       `json:"description,omitempty"`
	Observations []Observation `json:"observations,omitempty"`
}

type Observation struct {
	ID         string            `json:"id"`
	Measure    *string           `json:"measure,omitempty"`
	Notes      *string           `json:"notes,omitempty"`
	Value      *Value            `json:"value,omitempty"`
	Unit       *Unit             `json:"unit,omitempty"`
	Period     *Period           `json:"period,omitempty"`
	Dimensions map[string]string `json:"dimensions,omitempty"`
}

type Unit struct {
	Name   *string `json:"name,omitempty"`
	Scheme *string `json:"scheme,omitempty"`
	ID     *string `json:"id,omitempty"`
	URI    *string `json:"uri,omitempty"`
}

type Social struct {
	InIndigenousLand       *bool                 `json:"inIndigenousLand,omitempty"`
	LandCompensationBudget *Value                `json:"landCompensationBudget,omitempty"`
	ConsultationMeetings   []ConsultationMeeting `json:"consultationMeetings,omitempty"`
	HealthAndSafety        *HealthAndSafety      `json:"healthAndSafety,omitempty"`
}

type ConsultationMeeting struct {
	ID                   string        `json:"id"`
	Date                 *string       `json:"date,omitempty"`
	NumberOfParticipants *int          `json:"numberOfParticipants,omitempty"`
	Address              *Address      `json:"address,omitempty"`
	PublicOffice         *PublicOffice `json:"publicOffice,omitempty"`
}

type PublicOffice struct {
	Person       *OrganizationReference `json:"person,omitempty"`
	Organization *OrganizationReference `json:"organization,omitempty"`
	JobTitle     *string                `json:"jobTitle,omitempty"`
}

type HealthAndSafety struct {
	MaterialTests *MaterialTests `json:"materialTests,omitempty"`
}

type MaterialTests struct {
	Description *string  `json:"description,omitempty"`
	Tests       []string `json:"tests,omitempty"`
}

type Environment struct {
	HasImpactAssessment   *bool            `json:"hasImpactAssessment,omitempty"`
	InProtectedArea       *bool            `json:"inProtectedArea,omitempty"`
	AbatementCost         *Value           `json:"abatementCost,omitempty"`
	Goals                 []string         `json:"goals,omitempty"`
	ClimateOversightTypes []string         `json:"climateOversightTypes,omitempty"`
	ConservationMeasures  []TypedMeasure   `json:"conservationMeasures,omitempty"`
	EnvironmentalMeasures []TypedMeasure   `json:"environmentalMeasures,omitempty"`
	ClimateMeasures       []ClimateMeasure `json:"climateMeasures,omitempty"`
	ImpactCategories      []Identifier     `json:"impactCategories,omitempty"`
}

type TypedMeasure struct {
	Type        *string `json:"type,omitempty"`
	Description *string `json:"description,omitempty"`
}

type ClimateMeasure struct {
	Type        []string `json:"type,omitempty"`
	Description *string  `json:"description,omitempty"`
}

type Benefit struct {
	ID            string        `json:"id,omitempty"`
	Title         *string       `json:"title,omitempty"`
	Description   *string       `json:"description,omitempty"`
	Beneficiaries []Beneficiary `json:"beneficiaries,omitempty"`
}

type Beneficiary struct {
	Description    *string `json:"description,omitempty"`
	NumberOfPeople *int    `json:"numberOfPeople,omitempty"`
}

type Completion struct {
	EndDate           *string `json:"endDate,omitempty"`
	EndDateDetails    *string `json:"endDateDetails,omitempty"`
	FinalScope        *string `json:"finalScope,omitempty"`
	FinalScopeDetails *string `json:"finalScopeDetails,omitempty"`
	FinalValue        *Value  `json:"finalValue,omitempty"`
}

type LobbyingMeeting struct {
	ID                   string               `json:"id"`
	Date                 *string              `json:"date,omitempty"`
	NumberOfParticipants *int                 `json:"numberOfParticipants,omitempty"`
	Address              *Address             `json:"address,omitempty"`
	PublicOffice         *LobbyingPublicOffice `json:"publicOffice,omitempty"`
}

type LobbyingPublicOffice struct {
	Name         *string                `json:"name,omitempty"`
	JobTitle     *string                `json:"jobTitle,omitempty"`
	Organization *OrganizationReference `json:"organization,omitempty"`
}

type PolicyAlignment struct {
	Policies    []string `json:"policies,omitempty"`
	Description *string  `json:"description,omitempty"`
}
