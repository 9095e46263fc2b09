package salesforce

import (
	"context"
	"encoding/base64"

	"go.uber.org/zap"

	"github.com/ffe/backend/internal/domain/funding"
)

const (
	spendObject          = "Spending_Costs__c"
	spendExternalIDField = "External_Id__c"
	costHeadingsQuery    = "SELECT Cost_heading__c FROM Project_Cost__c WHERE Case__c = ? AND RecordTypeId = ? GROUP BY Cost_heading__c"
	// MediumGrantCostRecordType is the Project_Cost__c record type used by medium grants
	MediumGrantCostRecordType = "Medium_Grants"
)

// UpsertSpend writes one spend line against a payment request form
func (c *Client) UpsertSpend(ctx context.Context, formID string, spend *funding.Spend) (string, error) {
	fields := map[string]any{
		"Forms__c":        formID,
		"Cost_Heading__c": spend.CostHeading,
		"Amount__c":       spend.NetAmount().InexactFloat64(),
		"VAT__c":          spend.VATAmount.InexactFloat64(),
		"Spend_level__c":  spend.LevelLabel(),
	}
	if spend.Level == funding.SpendLevelHigh {
		fields["Description__c"] = spend.Description
		if spend.DateOfSpend != nil {
			fields["Date_of_spend__c"] = spend.DateOfSpend.Format(dateLayout)
		}
	}
	return c.Upsert(ctx, spendObject, spendExternalIDField, spend.ID.String(), fields)
}

// UploadDocument stores a file as a ContentVersion published to the linked record
func (c *Client) UploadDocument(ctx context.Context, title, filename string, content []byte, linkedRecordID string) (string, error) {
	c.logger.Info("Uploading document to Salesforce",
		zap.String("title", title),
		zap.String("linked_record_id", linkedRecordID),
		zap.Int("size", len(content)),
	)
	return c.Create(ctx, "ContentVersion", map[string]any{
		"Title":                  title,
		"PathOnClient":           filename,
		"VersionData":            base64.StdEncoding.EncodeToString(content),
		"FirstPublishLocationId": linkedRecordID,
	})
}

// CostHeadings lists the distinct cost headings of a medium grant Case
func (c *Client) CostHeadings(ctx context.Context, caseID string) ([]string, error) {
	recordTypeID, err := c.RecordTypeID(ctx, MediumGrantCostRecordType, "Project_Cost__c")
	if err != nil {
		return nil, err
	}
	soql, err := BuildQuery(costHeadingsQuery, caseID, recordTypeID)
	if err != nil {
		return nil, err
	}
	var records []struct {
		CostHeading string `json:"Cost_heading__c"`
	}
	if err := c.queryInto(ctx, soql, &records); err != nil {
		return nil, err
	}
	headings := make([]string, 0, len(records))
	for _, r := range records {
		headings = append(headings, r.CostHeading)
	}
	return headings, nil
}
