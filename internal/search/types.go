package search

// Filters are the portal's combinable search dimensions. Zero values mean
// the dimension is inactive.
type Filters struct {
	Query             string  `json:"q,omitempty"`
	SectorIDs         []int64 `json:"sector_id,omitempty"`
	MinistryIDs       []int64 `json:"ministry_id,omitempty"`
	AgencyIDs         []int64 `json:"agency_id,omitempty"`
	ContractTypeIDs   []int64 `json:"contract_type_id,omitempty"`
	ConcessionFormIDs []int64 `json:"concession_form_id,omitempty"`
	YearFrom          *int    `json:"year_from,omitempty"`
	YearTo            *int    `json:"year_to,omitempty"`
}

// Summary is one search result row. One-to-many relations come back as
// deduplicated name lists, never duplicated project rows.
type Summary struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	PublicAuthority *string  `json:"public_authority,omitempty"`
	Ministries      []string `json:"ministries"`
	PrivateParties  []string `json:"private_parties"`
	Sectors         []string `json:"sectors"`
	ContractTypes   []string `json:"contract_types"`
	ConcessionForms []string `json:"concession_forms"`
	BudgetTotal     *float64 `json:"budget_total,omitempty"`
	PeriodStart     *string  `json:"period_start,omitempty"`
}

// Result is the paginated search envelope.
type Result struct {
	Projects []Summary `json:"projects"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// Investment-scale tiers by total budget amount. Boundaries belong to the
// higher tier.
const (
	tierMediumFloor = 1_000_000_000
	tierBigFloor    = 5_000_000_000
)

// TierStat is a count/investment pair for one scale tier.
type TierStat struct {
	Count      int     `json:"count"`
	Investment float64 `json:"investment"`
}

type MinistryStat struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Investment float64 `json:"investment"`
}

type SectorStat struct {
	ID     int64    `json:"id"`
	Code   string   `json:"code"`
	Name   string   `json:"name"`
	Small  TierStat `json:"small"`
	Medium TierStat `json:"medium"`
	Big    TierStat `json:"big"`
}

type YearStat struct {
	Year       int     `json:"year"`
	Count      int     `json:"count"`
	Investment float64 `json:"investment"`
}

// Statistics is the dashboard payload.
type Statistics struct {
	Summary struct {
		TotalProjects     int     `json:"totalProjects"`
		TotalInvestment   float64 `json:"totalInvestment"`
		UniqueContractors int     `json:"uniqueContractors"`
	} `json:"summary"`
	Scale struct {
		Small  TierStat `json:"small"`
		Medium TierStat `json:"medium"`
		Big    TierStat `json:"big"`
	} `json:"scale"`
	Ministries []MinistryStat `json:"ministries"`
	Sectors    []SectorStat   `json:"sectors"`
	Years      []YearStat     `json:"years"`
}
