package salesforce

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ffe/backend/internal/domain/organisation"
)

const (
	accountObject          = "Account"
	accountExternalIDField = "Account_External_ID__c"
)

// accountDetailsQuery is the fixed projection read when refreshing an organisation
const accountDetailsQuery = "SELECT Name, BillingStreet, BillingCity, BillingState, BillingPostalCode, " +
	"Company_Number__c, Charity_Number__c, organisation_description__c, Organisation_Type__c, " +
	"Communities_that_org_serves__c, Are_you_VAT_registered_picklist__c, VAT_number__c, " +
	"leadership_self_identify__c, Number_Of_Board_members_or_Trustees__c, NumberOfEmployees, " +
	"Number_of_volunteers__c, Volunteer_work_description__c FROM Account WHERE Id = ?"

type accountRecord struct {
	ID                       string   `json:"Id"`
	Name                     string   `json:"Name"`
	BillingStreet            string   `json:"BillingStreet"`
	BillingCity              string   `json:"BillingCity"`
	BillingState             string   `json:"BillingState"`
	BillingPostalCode        string   `json:"BillingPostalCode"`
	CompanyNumber            string   `json:"Company_Number__c"`
	CharityNumber            string   `json:"Charity_Number__c"`
	Description              string   `json:"organisation_description__c"`
	OrganisationType         string   `json:"Organisation_Type__c"`
	Communities              string   `json:"Communities_that_org_serves__c"`
	VATRegistered            string   `json:"Are_you_VAT_registered_picklist__c"`
	VATNumber                string   `json:"VAT_number__c"`
	LeadershipSelfIdentify   string   `json:"leadership_self_identify__c"`
	BoardMembersOrTrustees   *float64 `json:"Number_Of_Board_members_or_Trustees__c"`
	NumberOfEmployees        *float64 `json:"NumberOfEmployees"`
	NumberOfVolunteers       *float64 `json:"Number_of_volunteers__c"`
	VolunteerWorkDescription string   `json:"Volunteer_work_description__c"`
}

// FindMatchingAccount returns the Account id for org, or "" when none exists.
// A locally stored id is returned without a remote call. Otherwise the account
// is looked up by external id and then by exact name and postcode.
func (c *Client) FindMatchingAccount(ctx context.Context, org *organisation.Organisation) (string, error) {
	if org.HasSalesforceAccount() {
		c.logger.Info("Organisation already holds a Salesforce account id",
			zap.String("organisation_id", org.ID.String()),
			zap.String("salesforce_account_id", org.SalesforceAccountID),
		)
		return org.SalesforceAccountID, nil
	}

	var found accountRecord
	err := c.FindByExternalID(ctx, accountObject, accountExternalIDField, org.ID.String(), []string{"Id"}, &found)
	switch {
	case err == nil && found.ID != "":
		return found.ID, nil
	case err != nil && !IsNotFound(err):
		return "", err
	}

	c.logger.Info("No account with external id, matching on name and postcode",
		zap.String("organisation_id", org.ID.String()))

	soql, err := BuildQuery("SELECT Id FROM Account WHERE Name = ? AND BillingPostalCode = ?", org.Name, org.Postcode)
	if err != nil {
		return "", err
	}
	var matches []accountRecord
	if err := c.queryInto(ctx, soql, &matches); err != nil {
		return "", err
	}
	if len(matches) == 0 {
		c.logger.Info("Unable to find account with matching name and postcode",
			zap.String("organisation_id", org.ID.String()))
		return "", nil
	}
	return matches[0].ID, nil
}

// UpsertByOrganisationID writes org keyed by its local id, including the org type
func (c *Client) UpsertByOrganisationID(ctx context.Context, org *organisation.Organisation) (string, error) {
	return c.Upsert(ctx, accountObject, accountExternalIDField, org.ID.String(), accountFields(org, true))
}

// UpsertBySalesforceID writes org onto an existing Account. The org type held
// in the CRM is preserved.
func (c *Client) UpsertBySalesforceID(ctx context.Context, org *organisation.Organisation, accountID string) (string, error) {
	return c.Upsert(ctx, accountObject, "Id", accountID, accountFields(org, false))
}

// RetrieveAccountDetails reads the CRM owned view of an Account
func (c *Client) RetrieveAccountDetails(ctx context.Context, accountID string) (*organisation.RemoteDetails, error) {
	soql, err := BuildQuery(accountDetailsQuery, accountID)
	if err != nil {
		return nil, err
	}
	var records []accountRecord
	if err := c.queryInto(ctx, soql, &records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: account %s", ErrNotFound, accountID)
	}
	r := records[0]
	return &organisation.RemoteDetails{
		Name:                   r.Name,
		BillingStreet:          r.BillingStreet,
		BillingCity:            r.BillingCity,
		BillingState:           r.BillingState,
		BillingPostalCode:      r.BillingPostalCode,
		CompanyNumber:          r.CompanyNumber,
		CharityNumber:          r.CharityNumber,
		OrgTypeLabel:           r.OrganisationType,
		BoardMembersOrTrustees: toInt(r.BoardMembersOrTrustees),
		VATRegistered:          ParseVATRegistered(r.VATRegistered),
		VATNumber:              r.VATNumber,
	}, nil
}

// ChangeOrganisationVATStatus updates the VAT answer held on an Account
func (c *Client) ChangeOrganisationVATStatus(ctx context.Context, accountID, vatNumber string, registered *bool) error {
	c.logger.Info("Changing organisation VAT status", zap.String("salesforce_account_id", accountID))
	var number any
	if vatNumber != "" {
		number = vatNumber
	}
	return c.Update(ctx, accountObject, accountID, map[string]any{
		"VAT_number__c":                      number,
		"Are_you_VAT_registered_picklist__c": VATRegisteredLabel(registered),
	})
}

// OrganisationHasBankAccount reports whether any Bank_Account__c is linked to the Account
func (c *Client) OrganisationHasBankAccount(ctx context.Context, accountID string) (bool, error) {
	soql, err := BuildQuery("SELECT COUNT() FROM Bank_Account__c WHERE Organisation__c = ?", accountID)
	if err != nil {
		return false, err
	}
	result, err := c.Query(ctx, soql)
	if err != nil {
		return false, err
	}
	return result.TotalSize > 0, nil
}

func toInt(f *float64) *int {
	if f == nil {
		return nil
	}
	i := int(*f)
	return &i
}
