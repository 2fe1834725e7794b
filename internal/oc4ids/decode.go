package oc4ids

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Decode parses raw JSON into a Document. Shape errors (a list where an
// object is expected, a string where a number is expected) fail the whole
// decode; unknown fields are dropped, never persisted.
func Decode(raw []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("malformed document: %w", err)
	}
	return &doc, nil
}

// Validate checks the structures the store cannot do without. All problems
// are collected so the caller sees the full list at once.
func (d *Document) Validate() []string {
	var missing []string

	if d.Title == "" {
		missing = append(missing, "title is required")
	}
	if d.Period == nil {
		missing = append(missing, "period (project duration) is required")
	}

	pa := d.PublicAuthorityParty()
	if pa == nil {
		missing = append(missing, "no party carries the publicAuthority role")
	} else if (pa.Name == nil || *pa.Name == "") &&
		(pa.Identifier == nil || pa.Identifier.LegalName == nil || *pa.Identifier.LegalName == "") {
		missing = append(missing, "public authority party has neither a name nor a legal name")
	}

	hasLegalName := false
	for i := range d.Parties {
		p := &d.Parties[i]
		if p.Identifier != nil && p.Identifier.LegalName != nil && *p.Identifier.LegalName != "" {
			hasLegalName = true
			break
		}
		for j := range p.AdditionalIdentifiers {
			if p.AdditionalIdentifiers[j].LegalName != nil && *p.AdditionalIdentifiers[j].LegalName != "" {
				hasLegalName = true
				break
			}
		}
	}
	if len(d.Parties) > 0 && !hasLegalName {
		missing = append(missing, "no party carries a legal name")
	}

	return missing
}
