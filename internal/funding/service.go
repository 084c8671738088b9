package funding

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sooyeonjun/giftpool-backend/internal/campaigns"
	"github.com/sooyeonjun/giftpool-backend/internal/notifications"
	"github.com/sooyeonjun/giftpool-backend/pkg/config"
	"github.com/sooyeonjun/giftpool-backend/pkg/db"
	"github.com/sooyeonjun/giftpool-backend/pkg/db/models"
	pkgerrors "github.com/sooyeonjun/giftpool-backend/pkg/errors"
	"github.com/sooyeonjun/giftpool-backend/pkg/logger"
	"github.com/sooyeonjun/giftpool-backend/pkg/metrics"
	"github.com/sooyeonjun/giftpool-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type backerLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service is the funding engine: it owns every write to pledges and to the
// campaign money/complete aggregates.
type Service interface {
	Pledge(ctx context.Context, campaignID, backerID uuid.UUID, input PledgeInput) (PledgeDTO, error)
	Retract(ctx context.Context, campaignID, pledgeID, requesterID uuid.UUID) error
	History(ctx context.Context, backerID uuid.UUID, page int) (HistoryPage, error)
}

// ServiceParams collects the dependencies for NewService.
type ServiceParams struct {
	Tx         txRunner
	Pledges    *Repository
	Campaigns  *campaigns.Repository
	Backers    backerLookup
	Dispatcher notifications.Dispatcher
	Metrics    *metrics.FundingMetrics
	Logger     *logger.Logger
	Funding    config.FundingConfig
}

type service struct {
	tx         txRunner
	pledges    *Repository
	campaigns  *campaigns.Repository
	backers    backerLookup
	dispatcher notifications.Dispatcher
	metrics    *metrics.FundingMetrics
	logg       *logger.Logger
	minPledge  int
	pageSize   int
	location   *time.Location
}

// NewService builds the funding engine.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if params.Pledges == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "pledge repository required")
	}
	if params.Campaigns == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "campaign repository required")
	}
	if params.Backers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "backer lookup required")
	}
	if params.Dispatcher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notification dispatcher required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	location, err := time.LoadLocation(params.Funding.Timezone)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load funding timezone")
	}
	minPledge := params.Funding.MinPledgeAmount
	if minPledge <= 0 {
		minPledge = 100
	}
	pageSize := params.Funding.HistoryPageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	return &service{
		tx:         params.Tx,
		pledges:    params.Pledges,
		campaigns:  params.Campaigns,
		backers:    params.Backers,
		dispatcher: params.Dispatcher,
		metrics:    params.Metrics,
		logg:       params.Logger,
		minPledge:  minPledge,
		pageSize:   pageSize,
		location:   location,
	}, nil
}

func (s *service) Pledge(ctx context.Context, campaignID, backerID uuid.UUID, input PledgeInput) (PledgeDTO, error) {
	backer, err := s.backers.FindByID(ctx, backerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PledgeDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "backer not found")
		}
		return PledgeDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load backer")
	}

	campaign, err := s.loadCampaign(ctx, campaignID)
	if err != nil {
		return PledgeDTO{}, err
	}
	if campaign.OwnerID == backerID {
		return PledgeDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "cannot back your own campaign")
	}
	if s.closed(campaign.Deadline, time.Now()) {
		return PledgeDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "campaign funding period is over")
	}
	if input.Amount < s.minPledge {
		return PledgeDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "pledge amount is below the minimum").
			WithDetails(map[string]int{"minimum": s.minPledge})
	}
	if _, err := s.pledges.FindLive(ctx, campaignID, backerID); err == nil {
		return PledgeDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "campaign already backed")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return PledgeDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing pledge")
	}

	var (
		pledge      *models.Pledge
		money       int
		complete    bool
		wasComplete bool
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		campaignsTx := s.campaigns.WithTx(tx)
		pledgesTx := s.pledges.WithTx(tx)

		locked, err := campaignsTx.FindByIDForUpdate(ctx, campaignID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "campaign not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock campaign")
		}

		// a concurrent pledge may have won the race between the pre-check
		// and the row lock
		if _, err := pledgesTx.FindLive(ctx, campaignID, backerID); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "campaign already backed")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing pledge")
		}

		pledge = &models.Pledge{
			ID:            uuid.New(),
			CampaignID:    campaignID,
			BackerID:      backerID,
			BeneficiaryID: locked.OwnerID,
			Amount:        input.Amount,
			Note:          input.Note,
		}
		if err := pledgesTx.Create(ctx, pledge); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "campaign already backed")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record pledge")
		}

		wasComplete = locked.Complete
		money = locked.Money + input.Amount
		complete = money >= locked.Goal
		if err := campaignsTx.SaveAggregate(ctx, campaignID, money, complete); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update campaign aggregates")
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return PledgeDTO{}, appErr
		}
		return PledgeDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "commit pledge")
	}

	s.metrics.IncPledges()
	s.dispatcher.NewPledge(ctx, campaign.OwnerID, backer.Nickname, input.Amount)
	if !wasComplete && complete {
		s.metrics.IncCompletions()
		s.dispatcher.CampaignComplete(ctx, campaign.OwnerID)
	}

	return PledgeDTO{
		ID:               pledge.ID,
		CampaignID:       campaignID,
		Amount:           pledge.Amount,
		Note:             pledge.Note,
		CampaignMoney:    money,
		CampaignComplete: complete,
		CreatedAt:        pledge.CreatedAt,
	}, nil
}

func (s *service) Retract(ctx context.Context, campaignID, pledgeID, requesterID uuid.UUID) error {
	pledge, err := s.pledges.FindByID(ctx, pledgeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "pledge not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pledge")
	}
	if pledge.CampaignID != campaignID {
		return pkgerrors.New(pkgerrors.CodeNotFound, "pledge not found")
	}
	if pledge.BackerID != requesterID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not the pledge owner")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		campaignsTx := s.campaigns.WithTx(tx)
		pledgesTx := s.pledges.WithTx(tx)

		locked, err := campaignsTx.FindByIDForUpdate(ctx, campaignID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// campaign vanished underneath the pledge; drop the pledge
				// without touching aggregates
				if _, err := pledgesTx.SoftDelete(ctx, pledgeID); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "retract pledge")
				}
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock campaign")
		}
		if locked.Complete {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "campaign already reached its goal")
		}

		// a concurrent retraction may have removed the pledge between the
		// pre-check and the row lock; decrementing again would desync the
		// aggregates from the live pledge sum
		deleted, err := pledgesTx.SoftDelete(ctx, pledgeID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "retract pledge")
		}
		if !deleted {
			return pkgerrors.New(pkgerrors.CodeNotFound, "pledge not found")
		}

		money := locked.Money - pledge.Amount
		if money < 0 {
			money = 0
		}
		if err := campaignsTx.SaveAggregate(ctx, campaignID, money, money >= locked.Goal); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update campaign aggregates")
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return appErr
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "commit retraction")
	}

	s.metrics.IncRetractions()
	return nil
}

func (s *service) History(ctx context.Context, backerID uuid.UUID, page int) (HistoryPage, error) {
	if page < 0 {
		page = 0
	}
	offset := pagination.Offset(page, s.pageSize)

	// one extra row tells us whether another page follows
	pledges, err := s.pledges.ListByBacker(ctx, backerID, offset, s.pageSize+1)
	if err != nil {
		return HistoryPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list funding history")
	}

	hasMore := len(pledges) > s.pageSize
	if hasMore {
		pledges = pledges[:s.pageSize]
	}

	result := HistoryPage{
		Items:    make([]HistoryItem, 0, len(pledges)),
		Page:     page,
		PageSize: s.pageSize,
		HasMore:  hasMore,
	}
	for i := range pledges {
		result.Items = append(result.Items, toHistoryItem(&pledges[i]))
	}
	return result, nil
}

func (s *service) loadCampaign(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	campaign, err := s.campaigns.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "campaign not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load campaign")
	}
	return campaign, nil
}

// closed reports whether the funding window is over. The comparison is
// date-granular in the service timezone and the deadline date itself is out of
// the window.
func (s *service) closed(deadline, now time.Time) bool {
	local := now.In(s.location)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location)
	end := deadline.In(s.location)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, s.location)
	return !today.Before(endDay)
}
