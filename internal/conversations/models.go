package conversations

import "time"

// Conversation is one logged call for a tenant (storefront domain).
//
// Multi-tenant invariant: TenantDomain is required on every row and every
// read/write is filtered by it.
type Conversation struct {
	ID           string `json:"id"`
	TenantDomain string `json:"tenantDomain"`

	CallerNumber string `json:"callerNumber"`
	CallerName   string `json:"callerName,omitempty"`
	CalleeNumber string `json:"calleeNumber"`
	CalleeName   string `json:"calleeName,omitempty"`

	Direction Direction `json:"direction"`
	Status    Status    `json:"status"`

	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	// Duration is the call duration in seconds; fractional values are kept.
	Duration *float64 `json:"duration,omitempty"`

	RecordingURL string         `json:"recordingUrl,omitempty"`
	Notes        string         `json:"notes,omitempty"`
	Tags         []string       `json:"tags,omitempty"`
	IsArchived   bool           `json:"isArchived"`
	Metadata     map[string]any `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

type Status string

const (
	StatusAnswered  Status = "answered"
	StatusMissed    Status = "missed"
	StatusVoicemail Status = "voicemail"
	StatusBusy      Status = "busy"
)

// CreateInput is the payload for a new conversation.
// TenantDomain is never read from client JSON; the API layer sets it from the
// resolved tenant.
type CreateInput struct {
	TenantDomain string `json:"-" validate:"required"`

	CallerNumber string `json:"callerNumber" validate:"required"`
	CallerName   string `json:"callerName,omitempty"`
	CalleeNumber string `json:"calleeNumber" validate:"required"`
	CalleeName   string `json:"calleeName,omitempty"`

	Direction Direction `json:"direction" validate:"required,oneof=inbound outbound"`
	Status    Status    `json:"status" validate:"required,oneof=answered missed voicemail busy"`

	StartTime time.Time  `json:"startTime" validate:"required"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Duration  *float64   `json:"duration,omitempty" validate:"omitempty,gte=0"`

	RecordingURL string         `json:"recordingUrl,omitempty"`
	Notes        string         `json:"notes,omitempty"`
	Tags         []string       `json:"tags,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// UpdateInput is a partial update. Nil fields are left untouched.
// Only these fields are mutable; tenant, id and party numbers never change.
type UpdateInput struct {
	CallerName   *string    `json:"callerName,omitempty"`
	CalleeName   *string    `json:"calleeName,omitempty"`
	Status       *Status    `json:"status,omitempty" validate:"omitempty,oneof=answered missed voicemail busy"`
	EndTime      *time.Time `json:"endTime,omitempty"`
	Duration     *float64   `json:"duration,omitempty" validate:"omitempty,gte=0"`
	RecordingURL *string    `json:"recordingUrl,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	Tags         *[]string  `json:"tags,omitempty"`
	IsArchived   *bool      `json:"isArchived,omitempty"`
}

// Filters narrows a List call. Zero values mean "no constraint" except
// IsArchived, where a non-nil false is a real constraint.
type Filters struct {
	Direction    Direction  `json:"direction,omitempty" validate:"omitempty,oneof=inbound outbound"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	Search       string     `json:"search,omitempty"`
	Statuses     []Status   `json:"statuses,omitempty" validate:"omitempty,dive,oneof=answered missed voicemail busy"`
	CallerNumber string     `json:"callerNumber,omitempty"`
	CalleeNumber string     `json:"calleeNumber,omitempty"`
	IsArchived   *bool      `json:"isArchived,omitempty"`
}

// Pagination selects a page. All disables paging entirely.
type Pagination struct {
	Page  int  `json:"page,omitempty"`
	Limit int  `json:"limit,omitempty"`
	All   bool `json:"all,omitempty"`
}

// PageMetadata is the navigational summary returned with a page.
type PageMetadata struct {
	TotalDocs  int  `json:"totalDocs"`
	TotalPages int  `json:"totalPages"`
	Limit      int  `json:"limit"`
	Page       int  `json:"page"`
	PrevPage   *int `json:"prevPage,omitempty"`
	NextPage   *int `json:"nextPage,omitempty"`
}

// Connection is a page of conversations plus its metadata.
type Connection struct {
	Data     []Conversation `json:"data"`
	Metadata PageMetadata   `json:"metadata"`
}

// Stats are per-tenant call counters.
type Stats struct {
	TotalCalls    int `json:"totalCalls"`
	InboundCalls  int `json:"inboundCalls"`
	OutboundCalls int `json:"outboundCalls"`
	MissedCalls   int `json:"missedCalls"`
}
