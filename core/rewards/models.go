package rewards

import (
	"github.com/go-playground/validator/v10"

	"github.com/ecowaste/dashboard/core"
)

// UnlimitedStock is the stock of a reward that never runs out.
const UnlimitedStock = -1

type (
	Reward struct {
		ID             string `json:"_id"`
		Name           string `json:"name"`
		Description    string `json:"description"`
		PointsRequired int64  `json:"points_required"`
		Category       string `json:"category"`
		Image          string `json:"image,omitempty"`
		Stock          int64  `json:"stock"`
		Active         bool   `json:"active"`
	}

	Rewards struct {
		Rewards []Reward `json:"rewards"`
	}

	Categories struct {
		Categories []string `json:"categories"`
	}

	ShippingAddress struct {
		FullName   string `json:"full_name" validate:"required,notblank"`
		Address    string `json:"address" validate:"required,notblank"`
		City       string `json:"city" validate:"required,notblank"`
		PostalCode string `json:"postal_code,omitempty"`
		Country    string `json:"country,omitempty"`
	}

	RedeemRequest struct {
		RewardID        string           `json:"reward_id" validate:"required,notblank"`
		ShippingAddress *ShippingAddress `json:"shipping_address,omitempty"`
	}

	RewardDetails struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Category    string `json:"category"`
	}

	Redeemed struct {
		Success         bool          `json:"success"`
		Message         string        `json:"message"`
		RedemptionID    string        `json:"redemption_id"`
		PointsRemaining int64         `json:"points_remaining"`
		RewardDetails   RewardDetails `json:"reward_details"`
	}

	Redemption struct {
		ID              string           `json:"_id"`
		RewardID        string           `json:"reward_id"`
		RewardName      string           `json:"reward_name"`
		PointsUsed      int64            `json:"points_used"`
		ShippingAddress *ShippingAddress `json:"shipping_address"`
		Status          string           `json:"status"` // pending, shipped, delivered
		RedemptionDate  string           `json:"redemption_date,omitempty"`
		TrackingNumber  *string          `json:"tracking_number"`
	}

	Redemptions struct {
		Redemptions []Redemption `json:"redemptions"`
	}

	Points struct {
		Points            int64    `json:"points"`
		AffordableRewards []Reward `json:"affordable_rewards"`
		AffordableCount   int      `json:"affordable_count"`
	}

	Entry struct {
		Rank     int    `json:"rank"`
		Username string `json:"username"`
		Points   int64  `json:"points"`
		Avatar   string `json:"avatar,omitempty"`
		ClerkID  string `json:"clerk_id,omitempty"`
	}

	Leaderboard struct {
		Leaderboard []Entry `json:"leaderboard"`
		TotalUsers  int     `json:"total_users"`
	}

	Badge struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
		Color       string `json:"color"`
	}

	Badges struct {
		Badges []Badge `json:"badges"`
	}
)

// InStock reports whether r can still be redeemed.
func (r Reward) InStock() bool {
	return r.Active && (r.Stock == UnlimitedStock || r.Stock > 0)
}

// Affordable reports whether points are enough to redeem r.
func (r Reward) Affordable(points int64) bool {
	return r.InStock() && points >= r.PointsRequired
}

func (rr *RedeemRequest) Validate(validate *validator.Validate) error {
	rr.RewardID = core.CleanString(rr.RewardID)
	if sa := rr.ShippingAddress; sa != nil {
		sa.FullName = core.CleanString(sa.FullName)
		sa.Address = core.CleanString(sa.Address)
		sa.City = core.CleanString(sa.City)
		sa.PostalCode = core.CleanString(sa.PostalCode)
		sa.Country = core.CleanString(sa.Country)
	}
	return validate.Struct(rr)
}
