// package models defines the data model for the VA directory maintenance jobs
package models

import (
	"time"
)

// LenderType is the lenders.lenderType enumeration.
type LenderType string

const (
	LenderTypeBank        LenderType = "bank"
	LenderTypeCreditUnion LenderType = "credit_union"
	LenderTypeBroker      LenderType = "broker"
	LenderTypeDirect      LenderType = "direct"
)

// VerifiedLevel is the verifiedLevel enumeration shared by resources and lenders.
type VerifiedLevel string

const (
	VerifiedLevelUnverified      VerifiedLevel = "unverified"
	VerifiedLevelVerified        VerifiedLevel = "verified"
	VerifiedLevelPartnerVerified VerifiedLevel = "partner_verified"
)

// Resource is a VA benefit resource. Phone and URL are optional in the directory schema.
type Resource struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Phone     string    `json:"phone,omitempty"`
	URL       string    `json:"url,omitempty"`
	IsActive  bool      `json:"is_active"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasContact reports whether the resource has a phone number or a URL.
func (r Resource) HasContact() bool {
	return r.Phone != "" || r.URL != ""
}

// Lender is a VA-approved mortgage lender. Name is the natural key, compared case-insensitively.
type Lender struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	LenderType    LenderType    `json:"lender_type"`
	StatesServed  []string      `json:"states_served"`
	URL           string        `json:"url"`
	Phone         string        `json:"phone"`
	VASpecialist  bool          `json:"va_specialist"`
	VerifiedLevel VerifiedLevel `json:"verified_level"`
	Description   string        `json:"description"`
	IsActive      bool          `json:"is_active"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// AuditEntry is one row of the audit_logs table. Job runs have no actor or entity id.
type AuditEntry struct {
	ID          int64          `json:"id"`
	ActorUserID *int64         `json:"actor_user_id,omitempty"`
	Action      string         `json:"action"`
	EntityType  string         `json:"entity_type"`
	EntityID    *int64         `json:"entity_id,omitempty"`
	Detail      map[string]any `json:"detail"`
	CreatedAt   time.Time      `json:"created_at"`
}
