// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
//   - base.go: BaseModel shared by every table
//   - identity.go: users
//   - organisation.go: organisations and salesforce_changes_checks
//   - funding.go: funding applications, legal signatories, pre-applications and payment requests
package models
