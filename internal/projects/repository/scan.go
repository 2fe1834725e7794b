package repository

import (
	"database/sql"

	"github.com/thip-platform/disclosure-backend/internal/oc4ids"
)

// Null-to-pointer adapters shared by the read paths.

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func f64Ptr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}

func intPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	n := int(ni.Int64)
	return &n
}

func boolPtr(nb sql.NullBool) *bool {
	if !nb.Valid {
		return nil
	}
	b := nb.Bool
	return &b
}

// valueOf builds a Value, or nil when neither part is stored.
func valueOf(amount sql.NullFloat64, currency sql.NullString) *oc4ids.Value {
	if !amount.Valid && !currency.Valid {
		return nil
	}
	return &oc4ids.Value{Amount: f64Ptr(amount), Currency: strPtr(currency)}
}

// periodOf builds a Period from the flattened date columns, or nil when the
// whole block is absent.
func periodOf(start, end, maxExtent sql.NullString, days sql.NullInt64) *oc4ids.Period {
	if !start.Valid && !end.Valid && !maxExtent.Valid && !days.Valid {
		return nil
	}
	return &oc4ids.Period{
		StartDate:      strPtr(start),
		EndDate:        strPtr(end),
		MaxExtentDate:  strPtr(maxExtent),
		DurationInDays: intPtr(days),
	}
}

// addressOf builds an Address, or nil when every column is null.
func addressOf(street, locality, region, postal, country sql.NullString) *oc4ids.Address {
	if !street.Valid && !locality.Valid && !region.Valid && !postal.Valid && !country.Valid {
		return nil
	}
	return &oc4ids.Address{
		StreetAddress: strPtr(street),
		Locality:      strPtr(locality),
		Region:        strPtr(region),
		PostalCode:    strPtr(postal),
		CountryName:   strPtr(country),
	}
}

func orgRef(id, name sql.NullString) *oc4ids.OrganizationReference {
	if !id.Valid && !name.Valid {
		return nil
	}
	return &oc4ids.OrganizationReference{ID: strPtr(id), Name: strPtr(name)}
}
