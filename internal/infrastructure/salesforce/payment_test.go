package salesforce

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffe/backend/internal/domain/funding"
)

func TestUpsertSpend(t *testing.T) {
	spentOn := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	high := &funding.Spend{
		ID: uuid.New(), Level: funding.SpendLevelHigh, CostHeading: "Equipment",
		Amount: decimal.NewFromInt(1200), VATAmount: decimal.NewFromInt(200),
		DateOfSpend: &spentOn, Description: "Display cases", SpendThreshold: 250,
	}
	low := &funding.Spend{
		ID: uuid.New(), Level: funding.SpendLevelLow, CostHeading: "Travel",
		Amount: decimal.NewFromInt(180), VATAmount: decimal.NewFromInt(30), SpendThreshold: 250,
	}

	bodies := map[string]map[string]any{}
	org := newFakeOrg(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		bodies[r.URL.Path] = body
		writeJSON(w, http.StatusCreated, map[string]any{"id": "a0S1"})
	})
	c := org.client(t)

	_, err := c.UpsertSpend(context.Background(), "a0F1", high)
	require.NoError(t, err)
	_, err = c.UpsertSpend(context.Background(), "a0F1", low)
	require.NoError(t, err)

	h := bodies[dataPrefix+"/sobjects/Spending_Costs__c/External_Id__c/"+high.ID.String()]
	assert.Equal(t, "a0F1", h["Forms__c"])
	assert.Equal(t, 1200.0, h["Amount__c"])
	assert.Equal(t, "2024-02-29", h["Date_of_spend__c"])
	assert.Equal(t, "Spend over £250", h["Spend_level__c"])

	l := bodies[dataPrefix+"/sobjects/Spending_Costs__c/External_Id__c/"+low.ID.String()]
	assert.Equal(t, 150.0, l["Amount__c"])
	assert.Equal(t, 30.0, l["VAT__c"])
	assert.Equal(t, "Spend less than £250", l["Spend_level__c"])
	assert.NotContains(t, l, "Date_of_spend__c")
}

func TestUploadDocument(t *testing.T) {
	org := newFakeOrg(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, dataPrefix+"/sobjects/ContentVersion", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		data, err := base64.StdEncoding.DecodeString(body["VersionData"].(string))
		require.NoError(t, err)
		assert.Equal(t, "receipt", string(data))
		assert.Equal(t, "a0F1", body["FirstPublishLocationId"])
		writeJSON(w, http.StatusCreated, map[string]any{"id": "068V", "success": true})
	})

	id, err := org.client(t).UploadDocument(context.Background(), "Spend table - table.xlsx", "table.xlsx", []byte("receipt"), "a0F1")

	require.NoError(t, err)
	assert.Equal(t, "068V", id)
}

func TestCostHeadings(t *testing.T) {
	org := newFakeOrg(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if strings.Contains(q, "FROM RecordType") {
			writeJSON(w, http.StatusOK, queryResponse(map[string]any{"Id": "012MG"}))
			return
		}
		assert.Equal(t, "SELECT Cost_heading__c FROM Project_Cost__c WHERE Case__c = '500X' AND RecordTypeId = '012MG' GROUP BY Cost_heading__c", q)
		writeJSON(w, http.StatusOK, queryResponse(
			map[string]any{"Cost_heading__c": "Equipment"},
			map[string]any{"Cost_heading__c": "Travel"},
		))
	})

	headings, err := org.client(t).CostHeadings(context.Background(), "500X")

	require.NoError(t, err)
	assert.Equal(t, []string{"Equipment", "Travel"}, headings)
}
