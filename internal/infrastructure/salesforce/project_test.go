package salesforce

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffe/backend/internal/domain/funding"
	"github.com/ffe/backend/internal/domain/identity"
)

func testUser() *identity.User {
	return &identity.User{Email: "jo@example.org", Name: "Jo Bloggs"}
}

func TestCreateProject(t *testing.T) {
	o := testOrganisation()
	o.SalesforceAccountID = "001A"
	user := testUser()
	user.ID = uuid.New()
	app := funding.NewFundingApplication(o.ID, user.ID)
	app.Project.Title = "Restore the bandstand"
	app.Project.TotalCost = decimal.NewFromInt(12000)

	var caseBody map[string]any
	org := newFakeOrg(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == dataPrefix+"/sobjects/Contact/Contact_External_ID__c/"+user.ID.String():
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Jo", body["FirstName"])
			assert.Equal(t, "Bloggs", body["LastName"])
			assert.Equal(t, "001A", body["AccountId"])
			writeJSON(w, http.StatusCreated, map[string]any{"id": "003C", "created": true})
		case r.URL.Path == dataPrefix+"/sobjects/Case/ApplicationId__c/"+app.ID.String():
			require.NoError(t, json.NewDecoder(r.Body).Decode(&caseBody))
			writeJSON(w, http.StatusCreated, map[string]any{"id": "500X", "created": true})
		case r.URL.Path == dataPrefix+"/query":
			assert.Contains(t, r.URL.Query().Get("q"), "FROM Case WHERE Id = '500X'")
			writeJSON(w, http.StatusOK, queryResponse(map[string]any{"Id": "500X", "Project_Reference_Number__c": "NS-24-01234"}))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	refs, err := org.client(t).CreateProject(context.Background(), app, user, o)

	require.NoError(t, err)
	assert.Equal(t, "500X", refs.RecordID)
	assert.Equal(t, "NS-24-01234", refs.ExternalReference)
	assert.Equal(t, "003C", refs.ContactID)
	assert.Equal(t, "Restore the bandstand", caseBody["Project_Title__c"])
	assert.Equal(t, 12000.0, caseBody["Total_Cost__c"])
	assert.Equal(t, "003C", caseBody["ContactId"])
}

func TestCreateProjectEnquiry_UsesRecordType(t *testing.T) {
	o := testOrganisation()
	o.SalesforceAccountID = "001A"
	user := testUser()
	pe := &funding.ProjectEnquiry{ID: uuid.New(), WorkingTitle: "Oral history"}

	org := newFakeOrg(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, dataPrefix+"/sobjects/Contact/"):
			writeJSON(w, http.StatusOK, map[string]any{"id": "003C"})
		case r.URL.Path == dataPrefix+"/query" && strings.Contains(r.URL.Query().Get("q"), "FROM RecordType"):
			assert.Equal(t, "SELECT Id FROM RecordType WHERE DeveloperName = 'Pre_application' AND SobjectType = 'Case'", r.URL.Query().Get("q"))
			writeJSON(w, http.StatusOK, queryResponse(map[string]any{"Id": "012RT"}))
		case r.URL.Path == dataPrefix+"/sobjects/Case/ApplicationId__c/"+pe.ID.String():
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "012RT", body["RecordTypeId"])
			assert.Equal(t, "Oral history", body["Project_Title__c"])
			writeJSON(w, http.StatusCreated, map[string]any{"id": "500PE"})
		case r.URL.Path == dataPrefix+"/query":
			writeJSON(w, http.StatusOK, queryResponse(map[string]any{"Id": "500PE", "Project_Reference_Number__c": "PE-0001"}))
		}
	})

	refs, err := org.client(t).CreateProjectEnquiry(context.Background(), pe, user, o)

	require.NoError(t, err)
	assert.Equal(t, "500PE", refs.RecordID)
	assert.Equal(t, "PE-0001", refs.ExternalReference)
	assert.Equal(t, "001A", refs.AccountID)
}

func TestIsProjectAwarded(t *testing.T) {
	tests := []struct {
		status  string
		awarded bool
	}{
		{"Awarded", true},
		{"Payment request", true},
		{"Assessment", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			org := newFakeOrg(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, queryResponse(map[string]any{"Id": "500X", "Status": tt.status}))
			})

			awarded, err := org.client(t).IsProjectAwarded(context.Background(), "500X")

			require.NoError(t, err)
			assert.Equal(t, tt.awarded, awarded)
		})
	}
}

func TestGrantLevelDetails(t *testing.T) {
	org := newFakeOrg(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, queryResponse(map[string]any{
			"Id":                         "500X",
			"RecordType":                 map[string]any{"DeveloperName": "Medium"},
			"Grant_Award__c":             85000.0,
			"Development_grant_award__c": nil,
		}))
	})

	d, err := org.client(t).GrantLevelDetails(context.Background(), "500X")

	require.NoError(t, err)
	assert.Equal(t, "Medium", d.RecordType)
	require.NotNil(t, d.GrantAward)
	assert.True(t, d.GrantAward.Equal(decimal.NewFromInt(85000)))
	assert.Nil(t, d.DevGrantAward)

	awardType, err := funding.DetermineAwardType(d)
	require.NoError(t, err)
	assert.Equal(t, funding.AwardTypeIs10To100k, awardType)
}

func TestPaymentDetails(t *testing.T) {
	app := funding.NewFundingApplication(uuid.New(), uuid.New())
	org := newFakeOrg(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "SELECT Grant_Award__c, Grant_Percentage__c FROM Case WHERE ApplicationId__c = '"+app.ID.String()+"'", r.URL.Query().Get("q"))
		writeJSON(w, http.StatusOK, queryResponse(map[string]any{"Grant_Award__c": 50000.0, "Grant_Percentage__c": 75.5}))
	})

	d, err := org.client(t).PaymentDetails(context.Background(), app)

	require.NoError(t, err)
	assert.True(t, d.GrantAward.Equal(decimal.NewFromInt(50000)))
	assert.True(t, d.GrantPercentage.Equal(decimal.RequireFromString("75.5")))
}
