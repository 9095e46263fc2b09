package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	fundingapp "github.com/ffe/backend/internal/application/funding"
	"github.com/ffe/backend/internal/domain/funding"
	"github.com/ffe/backend/internal/domain/shared"
	"github.com/ffe/backend/internal/interfaces/http/dto"
)

type fundingFixture struct {
	access      *MockAccessPolicy
	submitter   *MockFundingSubmitter
	awards      *MockAwardTypeChecker
	signatories *MockSignatories
	payments    *MockPaymentGateway
	router      *gin.Engine
	userID      uuid.UUID
	appID       uuid.UUID
}

func newFundingFixture() *fundingFixture {
	f := &fundingFixture{
		access:      new(MockAccessPolicy),
		submitter:   new(MockFundingSubmitter),
		awards:      new(MockAwardTypeChecker),
		signatories: new(MockSignatories),
		payments:    new(MockPaymentGateway),
		userID:      uuid.New(),
		appID:       uuid.New(),
	}
	h := NewFundingApplicationHandler(f.access, f.submitter, f.awards, f.signatories, f.payments)
	f.router = gin.New()
	g := f.router.Group("/funding-applications", authenticated(f.userID))
	g.POST("/:id/submit", h.Submit)
	g.POST("/:id/award-type", h.AwardType)
	g.GET("/:id/signatories", h.Signatories)
	g.PUT("/:id/signatories", h.ReplaceSignatories)
	g.DELETE("/:id/signatories/personal-data", h.RemoveSignatoryPersonalData)
	g.GET("/:id/payment-details", h.PaymentDetails)
	g.GET("/:id/cost-headings", h.CostHeadings)
	g.POST("/:id/payment-requests/:prid/sync", h.SyncPaymentRequest)
	return f
}

func (f *fundingFixture) allow() {
	f.access.On("CanAccessFundingApplication", mock.Anything, f.userID, f.appID).Return(nil)
}

func (f *fundingFixture) do(method, suffix string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, "/funding-applications/"+f.appID.String()+suffix, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

// ==================== Submission ====================

func TestFundingApplicationHandler_Submit(t *testing.T) {
	f := newFundingFixture()
	f.allow()
	app := funding.NewFundingApplication(uuid.New(), f.userID)
	app.ID = f.appID
	require.NoError(t, app.MarkSubmitted(time.Now(), "500000000000001", "NS-19-01234"))
	f.submitter.On("SubmitFundingApplication", mock.Anything, f.appID).Return(app, nil)

	w := f.do(http.MethodPost, "/submit", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data FundingApplicationResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "NS-19-01234", body.Data.ProjectReferenceNumber)
	assert.Equal(t, "01234", body.Data.SalesforceCaseNumber)
	assert.NotNil(t, body.Data.SubmittedOn)
}

func TestFundingApplicationHandler_Submit_Errors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		errCode string
	}{
		{"already submitted", funding.ErrAlreadySubmitted, http.StatusConflict, dto.ErrCodeAlreadySubmitted},
		{"submission in progress", shared.ErrConflict, http.StatusConflict, dto.ErrCodeConflict},
		{"crm unavailable", shared.ErrUpstream, http.StatusBadGateway, dto.ErrCodeUpstream},
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFundingFixture()
			f.allow()
			f.submitter.On("SubmitFundingApplication", mock.Anything, f.appID).Return(nil, tt.err)

			w := f.do(http.MethodPost, "/submit", nil)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.errCode, decodeResponse(t, w).Error.Code)
		})
	}
}

func TestFundingApplicationHandler_Submit_Forbidden(t *testing.T) {
	f := newFundingFixture()
	f.access.On("CanAccessFundingApplication", mock.Anything, f.userID, f.appID).Return(shared.ErrForbidden)

	w := f.do(http.MethodPost, "/submit", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	f.submitter.AssertNotCalled(t, "SubmitFundingApplication", mock.Anything, mock.Anything)
}

// ==================== Awards and signatories ====================

func TestFundingApplicationHandler_AwardType(t *testing.T) {
	f := newFundingFixture()
	f.allow()
	f.awards.On("CheckAwardType", mock.Anything, f.appID).Return(funding.AwardTypeIs10To100k, nil)

	w := f.do(http.MethodPost, "/award-type", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data AwardTypeResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, string(funding.AwardTypeIs10To100k), body.Data.AwardType)
}

func TestFundingApplicationHandler_RemoveSignatoryPersonalData(t *testing.T) {
	f := newFundingFixture()
	f.allow()
	f.signatories.On("RemovePersonalData", mock.Anything, f.appID).Return(2, nil)

	w := f.do(http.MethodDelete, "/signatories/personal-data", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"removed":2}}`, w.Body.String())
}

func TestFundingApplicationHandler_ReplaceSignatories(t *testing.T) {
	signatory := &funding.LegalSignatory{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         "Ada Lovelace",
		EmailAddress: "ada@example.org",
		PhoneNumber:  "0161 496 0000",
	}

	t.Run("saves and reports the applicant as a signatory", func(t *testing.T) {
		f := newFundingFixture()
		f.allow()
		f.signatories.On("Replace", mock.Anything, f.appID, []fundingapp.SignatoryInput{
			{Name: "Ada Lovelace", EmailAddress: "ada@example.org", PhoneNumber: "0161 496 0000"},
		}).Return(&fundingapp.SignatoriesResult{
			Signatories:          []*funding.LegalSignatory{signatory},
			ApplicantIsSignatory: true,
		}, nil)

		w := f.do(http.MethodPut, "/signatories", map[string]any{
			"legal_signatory_one": map[string]string{
				"name": "Ada Lovelace", "email_address": "ada@example.org", "phone_number": "0161 496 0000",
			},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Data SignatoriesResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Data.ApplicantIsSignatory)
		require.Len(t, body.Data.Signatories, 1)
		assert.Equal(t, signatory.ID.String(), body.Data.Signatories[0].ID)
	})

	t.Run("returns field errors when validation fails", func(t *testing.T) {
		f := newFundingFixture()
		f.allow()
		var errs shared.ValidationErrors
		errs.Add("legal_signatory_two.email_address", "must be different to first signatory email address")
		f.signatories.On("Replace", mock.Anything, f.appID, mock.MatchedBy(func(in []fundingapp.SignatoryInput) bool {
			return len(in) == 2
		})).Return(&fundingapp.SignatoriesResult{Errors: errs}, nil)

		w := f.do(http.MethodPut, "/signatories", map[string]any{
			"legal_signatory_one": map[string]string{"name": "Ada", "email_address": "ada@example.org", "phone_number": "1"},
			"legal_signatory_two": map[string]string{"name": "Bob", "email_address": "ADA@example.org", "phone_number": "2"},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "legal_signatory_two.email_address", resp.Error.Details[0].Field)
	})

	t.Run("lists the current signatories", func(t *testing.T) {
		f := newFundingFixture()
		f.allow()
		f.signatories.On("List", mock.Anything, f.appID).Return(&fundingapp.SignatoriesResult{
			Signatories: []*funding.LegalSignatory{signatory},
		}, nil)

		w := f.do(http.MethodGet, "/signatories", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Data SignatoriesResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Data.ApplicantIsSignatory)
		assert.Equal(t, "Ada Lovelace", body.Data.Signatories[0].Name)
	})
}

// ==================== Payments ====================

func TestFundingApplicationHandler_PaymentDetails(t *testing.T) {
	f := newFundingFixture()
	f.allow()
	f.payments.On("PaymentDetails", mock.Anything, f.appID).Return(&funding.PaymentDetails{
		GrantAward:      decimal.RequireFromString("12500"),
		GrantPercentage: decimal.RequireFromString("62.5"),
	}, nil)

	w := f.do(http.MethodGet, "/payment-details", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"grant_award":"12500.00","grant_percentage":"62.5"}}`, w.Body.String())
}

func TestFundingApplicationHandler_PaymentDetails_NotSubmitted(t *testing.T) {
	f := newFundingFixture()
	f.allow()
	f.payments.On("PaymentDetails", mock.Anything, f.appID).Return(nil, fundingapp.ErrNotSubmitted)

	w := f.do(http.MethodGet, "/payment-details", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestFundingApplicationHandler_CostHeadings(t *testing.T) {
	f := newFundingFixture()
	f.allow()
	f.payments.On("CostHeadings", mock.Anything, f.appID).Return(nil, nil)

	w := f.do(http.MethodGet, "/cost-headings", nil)

	assert.JSONEq(t, `{"success":true,"data":{"cost_headings":[]}}`, w.Body.String())
}

func TestFundingApplicationHandler_SyncPaymentRequest(t *testing.T) {
	f := newFundingFixture()
	f.allow()
	prID := uuid.New()
	f.payments.On("SyncPaymentRequest", mock.Anything, f.appID, prID, "a0X1x000001AbCd").
		Return(&fundingapp.PaymentSyncResult{SpendRecordIDs: []string{"s1"}, DocumentIDs: []string{"d1"}}, nil)

	w := f.do(http.MethodPost, "/payment-requests/"+prID.String()+"/sync", map[string]string{"form_id": "a0X1x000001AbCd"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"spend_record_ids":["s1"],"document_ids":["d1"]}}`, w.Body.String())
}

func TestFundingApplicationHandler_SyncPaymentRequest_RequiresFormID(t *testing.T) {
	f := newFundingFixture()
	f.allow()

	w := f.do(http.MethodPost, "/payment-requests/"+uuid.NewString()+"/sync", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.NotEmpty(t, resp.Error.Details)
	assert.Equal(t, "form_id", resp.Error.Details[0].Field)
	f.payments.AssertNotCalled(t, "SyncPaymentRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
