package rewards

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/ecowaste/dashboard/core"
)

var (
	// errors
	errBlankParam = "must not be blank"
)

type (
	// Backend is the remote rewards and leaderboard API.
	Backend interface {
		Rewards(ctx context.Context, token string) (Rewards, error)
		RewardCategories(ctx context.Context, token string) (Categories, error)
		RewardsByCategory(ctx context.Context, token, category string) (Rewards, error)
		Redeem(ctx context.Context, token string, req RedeemRequest) (Redeemed, error)
		MyRedemptions(ctx context.Context, token string) (Redemptions, error)
		Redemption(ctx context.Context, token, id string) (Redemption, error)
		MyPoints(ctx context.Context, token string) (Points, error)
		Leaderboard(ctx context.Context, token string) (Leaderboard, error)
		UserRank(ctx context.Context, token, userID string) (Entry, error)
		Badges(ctx context.Context, token, userID string) (Badges, error)
	}

	Service struct {
		backend Backend
	}
)

func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

func (svc *Service) Rewards(ctx context.Context, token string) (Rewards, error) {
	r, err := svc.backend.Rewards(ctx, token)
	if err != nil {
		return Rewards{}, errors.Wrap(err, "fetching rewards")
	}
	return r.orEmpty(), nil
}

func (svc *Service) Categories(ctx context.Context, token string) (Categories, error) {
	c, err := svc.backend.RewardCategories(ctx, token)
	if err != nil {
		return Categories{}, errors.Wrap(err, "fetching reward categories")
	}
	if c.Categories == nil {
		c.Categories = []string{}
	}
	return c, nil
}

func (svc *Service) RewardsByCategory(ctx context.Context, token, category string) (Rewards, error) {
	category, err := pathParam("category", category)
	if err != nil {
		return Rewards{}, err
	}
	r, err := svc.backend.RewardsByCategory(ctx, token, category)
	if err != nil {
		return Rewards{}, errors.Wrap(err, "fetching rewards by category")
	}
	return r.orEmpty(), nil
}

// Redeem trades points for a reward. Point balance and stock are checked by the backend.
func (svc *Service) Redeem(ctx context.Context, token string, req RedeemRequest) (Redeemed, error) {
	r, err := svc.backend.Redeem(ctx, token, req)
	return r, errors.Wrap(err, "redeeming reward")
}

func (svc *Service) MyRedemptions(ctx context.Context, token string) (Redemptions, error) {
	r, err := svc.backend.MyRedemptions(ctx, token)
	if err != nil {
		return Redemptions{}, errors.Wrap(err, "fetching redemptions")
	}
	if r.Redemptions == nil {
		r.Redemptions = []Redemption{}
	}
	return r, nil
}

func (svc *Service) Redemption(ctx context.Context, token, id string) (Redemption, error) {
	id, err := pathParam("id", id)
	if err != nil {
		return Redemption{}, err
	}
	r, err := svc.backend.Redemption(ctx, token, id)
	return r, errors.Wrap(err, "fetching redemption")
}

// MyPoints returns the point balance and the rewards it can buy.
func (svc *Service) MyPoints(ctx context.Context, token string) (Points, error) {
	p, err := svc.backend.MyPoints(ctx, token)
	if err != nil {
		return Points{}, errors.Wrap(err, "fetching points")
	}
	if p.AffordableRewards == nil {
		p.AffordableRewards = []Reward{}
	}
	p.AffordableCount = len(p.AffordableRewards)
	return p, nil
}

func (svc *Service) Leaderboard(ctx context.Context, token string) (Leaderboard, error) {
	l, err := svc.backend.Leaderboard(ctx, token)
	if err != nil {
		return Leaderboard{}, errors.Wrap(err, "fetching leaderboard")
	}
	if l.Leaderboard == nil {
		l.Leaderboard = []Entry{}
	}
	return l, nil
}

func (svc *Service) UserRank(ctx context.Context, token, userID string) (Entry, error) {
	userID, err := pathParam("user_id", userID)
	if err != nil {
		return Entry{}, err
	}
	e, err := svc.backend.UserRank(ctx, token, userID)
	return e, errors.Wrap(err, "fetching user rank")
}

func (svc *Service) Badges(ctx context.Context, token, userID string) (Badges, error) {
	userID, err := pathParam("user_id", userID)
	if err != nil {
		return Badges{}, err
	}
	b, err := svc.backend.Badges(ctx, token, userID)
	if err != nil {
		return Badges{}, errors.Wrap(err, "fetching badges")
	}
	if b.Badges == nil {
		b.Badges = []Badge{}
	}
	return b, nil
}

func (r Rewards) orEmpty() Rewards {
	if r.Rewards == nil {
		r.Rewards = []Reward{}
	}
	return r
}

// pathParam trims a value meant for an upstream URL path segment.
func pathParam(name, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", core.NewValidationError(nil, core.FieldError{Field: name, Error: errBlankParam})
	}
	return value, nil
}
