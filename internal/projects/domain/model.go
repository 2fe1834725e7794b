package domain

import (
	"time"

	"github.com/google/uuid"
)

// Project is the root row of the disclosure graph. deleted_at unset means
// the project is live; every read path filters on that.
type Project struct {
	ID                uuid.UUID  `json:"id"`
	Title             string     `json:"title"`
	Description       *string    `json:"description,omitempty"`
	Status            *string    `json:"status,omitempty"`
	Purpose           *string    `json:"purpose,omitempty"`
	ProjectTypeID     *int64     `json:"project_type_id,omitempty"`
	PublicAuthorityID *int64     `json:"public_authority_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	DeletedAt         *time.Time `json:"deleted_at,omitempty"`
}

// Reference rows. Each is deduplicated by its natural key and shared across
// projects; deletion paths never touch them.

type Ministry struct {
	ID     int64   `json:"id"`
	NameTH string  `json:"name_th"`
	NameEN *string `json:"name_en,omitempty"`
}

type Agency struct {
	ID         int64   `json:"id"`
	NameTH     string  `json:"name_th"`
	NameEN     *string `json:"name_en,omitempty"`
	MinistryID *int64  `json:"ministry_id,omitempty"`
}

type Sector struct {
	ID       int64   `json:"id"`
	Code     string  `json:"code"`
	NameTH   string  `json:"name_th"`
	NameEN   *string `json:"name_en,omitempty"`
	Category string  `json:"category"`
	ParentID *int64  `json:"parent_id,omitempty"`
	IsActive bool    `json:"is_active"`
}

type ProjectType struct {
	ID     int64   `json:"id"`
	Code   string  `json:"code"`
	Scheme *string `json:"scheme,omitempty"`
	NameTH *string `json:"name_th,omitempty"`
	NameEN *string `json:"name_en,omitempty"`
}

type Currency struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Symbol   *string `json:"symbol,omitempty"`
	IsActive bool    `json:"is_active"`
}

// Classification is keyed by (scheme, code); the scheme string decides which
// filter dimension the row belongs to.
type Classification struct {
	ID          int64   `json:"id"`
	Scheme      string  `json:"scheme"`
	Code        string  `json:"code"`
	Description *string `json:"description,omitempty"`
	URI         *string `json:"uri,omitempty"`
}

type PeriodType struct {
	Code     string  `json:"code"`
	NameEN   string  `json:"name_en"`
	NameTH   *string `json:"name_th,omitempty"`
	Sequence *int    `json:"sequence,omitempty"`
	IsActive bool    `json:"is_active"`
}

// ReferenceItem is the id/display pair served to UI dropdowns.
type ReferenceItem struct {
	ID    int64  `json:"id"`
	Value string `json:"value"`
}
