package organisation

import (
	"context"

	"github.com/ffe/backend/internal/domain/organisation"
)

// FlagPullOnLoad enables refreshing an organisation from the CRM when it is opened
const FlagPullOnLoad = "organisation_pull_on_load"

// CRM is the subset of the Salesforce client used for organisations
type CRM interface {
	FindMatchingAccount(ctx context.Context, org *organisation.Organisation) (string, error)
	UpsertByOrganisationID(ctx context.Context, org *organisation.Organisation) (string, error)
	UpsertBySalesforceID(ctx context.Context, org *organisation.Organisation, accountID string) (string, error)
	RetrieveAccountDetails(ctx context.Context, accountID string) (*organisation.RemoteDetails, error)
	ChangeOrganisationVATStatus(ctx context.Context, accountID, vatNumber string, registered *bool) error
	OrganisationHasBankAccount(ctx context.Context, accountID string) (bool, error)
}

// FeatureFlags reports whether a named flag is switched on
type FeatureFlags interface {
	IsEnabled(ctx context.Context, flag string) (bool, error)
}
