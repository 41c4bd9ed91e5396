package models

import (
	"database/sql"
	"time"
)

type Ticket struct {
	ID         uint
	TenantID   string
	IncidentID string

	SourceID  sql.NullString
	MappingID sql.NullInt64
	ProjectID sql.NullString

	Organization      sql.NullString
	Company           sql.NullString
	Location          sql.NullString
	Caller            sql.NullString
	OpenedBy          sql.NullString
	ResolvedBy        sql.NullString
	ClosedBy          sql.NullString
	AssignmentGroup   sql.NullString
	Assignee          sql.NullString
	AssignedUserEmail sql.NullString

	ContactType       sql.NullString
	State             sql.NullString
	Impact            sql.NullString
	Urgency           sql.NullString
	Priority          sql.NullString
	Category          sql.NullString
	Subcategory       sql.NullString
	ServiceOffering   sql.NullString
	ConfigurationItem sql.NullString

	ShortDescription sql.NullString
	Description      sql.NullString
	CloseCode        sql.NullString
	CloseNotes       sql.NullString

	CausedBy      sql.NullString
	ProblemID     sql.NullString
	ChangeRequest sql.NullString

	MadeSLA           sql.NullBool
	ReassignmentCount sql.NullInt64
	ReopenCount       sql.NullInt64

	OpenedAt   sql.NullTime
	ResolvedAt sql.NullTime
	ClosedAt   sql.NullTime
	DueAt      sql.NullTime

	ResponseTime        sql.NullString
	ResponseTimeSeconds sql.NullInt64
	ResponseTimeMinutes sql.NullString
	ResolvedTime        sql.NullString
	ResolvedTimeSeconds sql.NullInt64
	ResolvedTimeMinutes sql.NullString

	CreatedAt time.Time
	UpdatedAt time.Time
}

type UploadSession struct {
	ID            string
	TenantID      string
	SourceID      string
	Filename      sql.NullString
	TotalRows     int
	ProcessedRows int
	Status        string
	ErrorMessage  sql.NullString
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   sql.NullTime
}

type OrganizationMapping struct {
	ID           uint
	TenantID     string
	SourceID     string
	Organization string
	ProjectID    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserMapping struct {
	ID        uint
	TenantID  string
	SourceID  string
	Assignee  string
	UserEmail string
	CreatedAt time.Time
	UpdatedAt time.Time
}
