package funding

import (
	"time"

	"github.com/google/uuid"

	"github.com/sooyeonjun/giftpool-backend/pkg/db/models"
)

// PledgeInput carries the request body for backing a campaign.
type PledgeInput struct {
	Amount int    `json:"amount" validate:"required,gt=0"`
	Note   string `json:"note" validate:"max=200"`
}

// PledgeDTO is the public projection of a committed pledge together with the
// campaign aggregates it produced.
type PledgeDTO struct {
	ID               uuid.UUID `json:"id"`
	CampaignID       uuid.UUID `json:"campaign_id"`
	Amount           int       `json:"amount"`
	Note             string    `json:"note,omitempty"`
	CampaignMoney    int       `json:"campaign_money"`
	CampaignComplete bool      `json:"campaign_complete"`
	CreatedAt        time.Time `json:"created_at"`
}

// HistoryItem is one row of a backer's funding history.
type HistoryItem struct {
	PledgeID     uuid.UUID `json:"pledge_id"`
	CampaignID   uuid.UUID `json:"campaign_id"`
	CampaignName string    `json:"campaign_name"`
	Goal         int       `json:"goal"`
	Money        int       `json:"money"`
	Complete     bool      `json:"complete"`
	Amount       int       `json:"amount"`
	Note         string    `json:"note,omitempty"`
	PledgedAt    time.Time `json:"pledged_at"`
}

// HistoryPage is one fixed-size window of a backer's funding history.
type HistoryPage struct {
	Items    []HistoryItem `json:"items"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	HasMore  bool          `json:"has_more"`
}

func toHistoryItem(pledge *models.Pledge) HistoryItem {
	item := HistoryItem{
		PledgeID:   pledge.ID,
		CampaignID: pledge.CampaignID,
		Amount:     pledge.Amount,
		Note:       pledge.Note,
		PledgedAt:  pledge.CreatedAt,
	}
	if pledge.Campaign != nil {
		item.CampaignName = pledge.Campaign.Name
		item.Goal = pledge.Campaign.Goal
		item.Money = pledge.Campaign.Money
		item.Complete = pledge.Campaign.Complete
	}
	return item
}
