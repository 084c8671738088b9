package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sooyeonjun/giftpool-backend/pkg/db/models"
	"github.com/sooyeonjun/giftpool-backend/pkg/enums"
	pkgerrors "github.com/sooyeonjun/giftpool-backend/pkg/errors"
	"github.com/sooyeonjun/giftpool-backend/pkg/logger"
	"github.com/sooyeonjun/giftpool-backend/pkg/push"
)

// Dispatcher fans events out to device push and the in-app notification feed.
// Callers invoke it after their own transaction commits; a dispatch failure
// never rolls back the committed state.
type Dispatcher interface {
	NewPledge(ctx context.Context, beneficiaryID uuid.UUID, backerNickname string, amount int)
	CampaignComplete(ctx context.Context, beneficiaryID uuid.UUID)
	NewFollower(ctx context.Context, userID uuid.UUID, followerNickname string)
}

type recipientLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type deviceTokenReader interface {
	DeviceToken(ctx context.Context, userID uuid.UUID) (string, error)
}

// DispatcherParams collects the dependencies for NewDispatcher.
type DispatcherParams struct {
	Users  recipientLookup
	Tokens deviceTokenReader
	Sender push.Sender
	Repo   Repository
	Logger *logger.Logger
}

type dispatcher struct {
	users  recipientLookup
	tokens deviceTokenReader
	sender push.Sender
	repo   Repository
	logg   *logger.Logger
}

// NewDispatcher wires the notification fan-out.
func NewDispatcher(params DispatcherParams) (Dispatcher, error) {
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "user lookup required")
	}
	if params.Tokens == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "device token reader required")
	}
	if params.Sender == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "push sender required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &dispatcher{
		users:  params.Users,
		tokens: params.Tokens,
		sender: params.Sender,
		repo:   params.Repo,
		logg:   params.Logger,
	}, nil
}

func (d *dispatcher) NewPledge(ctx context.Context, beneficiaryID uuid.UUID, backerNickname string, amount int) {
	d.deliver(ctx, beneficiaryID, enums.NotificationTypeFundingReceived,
		"펀딩 도착 알림",
		fmt.Sprintf("%s님이 %d원을 펀딩해 주셨어요!", backerNickname, amount))
}

func (d *dispatcher) CampaignComplete(ctx context.Context, beneficiaryID uuid.UUID) {
	d.deliver(ctx, beneficiaryID, enums.NotificationTypeFundingComplete,
		"펀딩 마감 알림",
		"축하합니다! 펀딩 목표 금액을 달성했어요!")
}

func (d *dispatcher) NewFollower(ctx context.Context, userID uuid.UUID, followerNickname string) {
	d.deliver(ctx, userID, enums.NotificationTypeFollowerReceived,
		"팔로우 알림",
		fmt.Sprintf("%s님이 회원님을 팔로우하기 시작했어요!", followerNickname))
}

// deliver records the in-app row first, then attempts device push when the
// recipient opted in and has a registered token. Every failure is logged and
// swallowed.
func (d *dispatcher) deliver(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, title, message string) {
	ctx = d.logg.WithUserID(ctx, userID.String())

	row := &models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := d.repo.Create(ctx, row); err != nil {
		d.logg.Error(ctx, "notification row insert failed", err)
	}

	user, err := d.users.FindByID(ctx, userID)
	if err != nil {
		d.logg.Error(ctx, "notification recipient lookup failed", err)
		return
	}
	if !user.Alarm {
		return
	}

	token, err := d.tokens.DeviceToken(ctx, userID)
	if err != nil {
		d.logg.Error(ctx, "device token lookup failed", err)
		return
	}
	if token == "" {
		return
	}

	if err := d.sender.Send(ctx, push.Message{Token: token, Title: title, Body: message}); err != nil {
		d.logg.Error(ctx, "device push failed", err)
	}
}
