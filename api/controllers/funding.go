package controllers

import (
	"net/http"

	"github.com/sooyeonjun/giftpool-backend/api/responses"
	"github.com/sooyeonjun/giftpool-backend/api/validators"
	"github.com/sooyeonjun/giftpool-backend/internal/funding"
	"github.com/sooyeonjun/giftpool-backend/pkg/logger"
)

// PledgeCampaign backs a campaign with the caller's money.
func PledgeCampaign(svc funding.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		backerID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		campaignID, err := pathUUID(r, "campaignID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input funding.PledgeInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Pledge(r.Context(), campaignID, backerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// RetractPledge withdraws the caller's pledge from a campaign.
func RetractPledge(svc funding.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requesterID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		campaignID, err := pathUUID(r, "campaignID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pledgeID, err := pathUUID(r, "pledgeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Retract(r.Context(), campaignID, pledgeID, requesterID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "retracted"})
	}
}

// FundingHistory pages the caller's pledges across campaigns.
func FundingHistory(svc funding.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		backerID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := queryInt(r, "page", 0)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := svc.History(r.Context(), backerID, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}
