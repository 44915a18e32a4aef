package backendsvc

import (
	"context"
	"net/http"

	"github.com/ecowaste/dashboard/core/rewards"
)

const (
	rewardsPath          = "/api/rewards/"
	rewardCategoriesPath = "/api/rewards/categories"
	rewardCategoryPath   = "/api/rewards/category/{name}"
	redeemPath           = "/api/rewards/redeem"
	myRedemptionsPath    = "/api/rewards/my-redemptions"
	redemptionPath       = "/api/rewards/redemption/{id}"
	myPointsPath         = "/api/rewards/my-points"
	leaderboardPath      = "/api/leaderboard/"
	leaderboardUserPath  = "/api/leaderboard/user/{id}"
	badgesPath           = "/api/leaderboard/badges/{id}"
)

func (c *Client) Rewards(ctx context.Context, token string) (rewards.Rewards, error) {
	var r rewards.Rewards
	err := c.do(c.request(ctx, token), http.MethodGet, rewardsPath, nil, &r)
	return r, err
}

func (c *Client) RewardCategories(ctx context.Context, token string) (rewards.Categories, error) {
	var cat rewards.Categories
	err := c.do(c.request(ctx, token), http.MethodGet, rewardCategoriesPath, nil, &cat)
	return cat, err
}

func (c *Client) RewardsByCategory(ctx context.Context, token, category string) (rewards.Rewards, error) {
	var r rewards.Rewards
	req := c.request(ctx, token).SetPathParam("name", category)
	err := c.do(req, http.MethodGet, rewardCategoryPath, nil, &r)
	return r, err
}

func (c *Client) Redeem(ctx context.Context, token string, rr rewards.RedeemRequest) (rewards.Redeemed, error) {
	var r rewards.Redeemed
	err := c.do(c.request(ctx, token), http.MethodPost, redeemPath, rr, &r)
	return r, err
}

func (c *Client) MyRedemptions(ctx context.Context, token string) (rewards.Redemptions, error) {
	var r rewards.Redemptions
	err := c.do(c.request(ctx, token), http.MethodGet, myRedemptionsPath, nil, &r)
	return r, err
}

func (c *Client) Redemption(ctx context.Context, token, id string) (rewards.Redemption, error) {
	var reply struct {
		Redemption rewards.Redemption `json:"redemption"`
	}
	req := c.request(ctx, token).SetPathParam("id", id)
	err := c.do(req, http.MethodGet, redemptionPath, nil, &reply)
	return reply.Redemption, err
}

func (c *Client) MyPoints(ctx context.Context, token string) (rewards.Points, error) {
	var p rewards.Points
	err := c.do(c.request(ctx, token), http.MethodGet, myPointsPath, nil, &p)
	return p, err
}

func (c *Client) Leaderboard(ctx context.Context, token string) (rewards.Leaderboard, error) {
	var l rewards.Leaderboard
	err := c.do(c.request(ctx, token), http.MethodGet, leaderboardPath, nil, &l)
	return l, err
}

func (c *Client) UserRank(ctx context.Context, token, userID string) (rewards.Entry, error) {
	var e rewards.Entry
	req := c.request(ctx, token).SetPathParam("id", userID)
	err := c.do(req, http.MethodGet, leaderboardUserPath, nil, &e)
	return e, err
}

func (c *Client) Badges(ctx context.Context, token, userID string) (rewards.Badges, error) {
	var b rewards.Badges
	req := c.request(ctx, token).SetPathParam("id", userID)
	err := c.do(req, http.MethodGet, badgesPath, nil, &b)
	return b, err
}
