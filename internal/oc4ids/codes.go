package oc4ids

// Period type codes. The document spells each phase as its own top-level
// field; the store keys one row per code.
const (
	PeriodDuration        = "duration"
	PeriodIdentification  = "identification"
	PeriodPreparation     = "preparation"
	PeriodImplementation  = "implementation"
	PeriodCompletion      = "completion"
	PeriodMaintenance     = "maintenance"
	PeriodDecommissioning = "decommissioning"
	PeriodAssetLifetime   = "assetLifetime"
)

// Party roles that mark the project's public authority.
const (
	RolePublicAuthority       = "publicAuthority"
	RoleActingPublicAuthority = "actingPublicAuthority"
)

// Classification schemes used by the portal's filter dimensions. The scheme
// string is part of the external contract and stays in Thai.
const (
	SchemeContractType   = "รูปแบบการจัดสรรกรรมสิทธิ์"
	SchemeConcessionForm = "รูปแบบสัมปทานหรือค่าตอบแทน"
)

// PeriodFields maps each period type code to its document field. Order
// matters only for deterministic iteration in tests.
var PeriodCodes = []string{
	PeriodDuration,
	PeriodIdentification,
	PeriodPreparation,
	PeriodImplementation,
	PeriodCompletion,
	PeriodMaintenance,
	PeriodDecommissioning,
}

// PeriodByCode returns the document's period object for a given type code,
// or nil when the field is absent. The assetLifetime block is persisted in
// its own table and is deliberately not part of this mapping.
func (d *Document) PeriodByCode(code string) *Period {
	switch code {
	case PeriodDuration:
		return d.Period
	case PeriodIdentification:
		return d.IdentificationPeriod
	case PeriodPreparation:
		return d.PreparationPeriod
	case PeriodImplementation:
		return d.ImplementationPeriod
	case PeriodCompletion:
		return d.CompletionPeriod
	case PeriodMaintenance:
		return d.MaintenancePeriod
	case PeriodDecommissioning:
		return d.DecommissioningPeriod
	}
	return nil
}

// SetPeriod is the inverse of PeriodByCode, used by the serializer.
func (d *Document) SetPeriod(code string, p *Period) {
	switch code {
	case PeriodDuration:
		d.Period = p
	case PeriodIdentification:
		d.IdentificationPeriod = p
	case PeriodPreparation:
		d.PreparationPeriod = p
	case PeriodImplementation:
		d.ImplementationPeriod = p
	case PeriodCompletion:
		d.CompletionPeriod = p
	case PeriodMaintenance:
		d.MaintenancePeriod = p
	case PeriodDecommissioning:
		d.DecommissioningPeriod = p
	}
}

// PublicAuthorityParty returns the first party whose role list declares it
// the public authority, or nil.
func (d *Document) PublicAuthorityParty() *Party {
	for i := range d.Parties {
		for _, r := range d.Parties[i].Roles {
			if r == RolePublicAuthority || r == RoleActingPublicAuthority {
				return &d.Parties[i]
			}
		}
	}
	return nil
}
