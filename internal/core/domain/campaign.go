package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrCampaignCodeTaken is returned when a campaign code is already in use.
var ErrCampaignCodeTaken = errors.New("campaign code already exists")

// Campaign is a fundraising target donations can be attributed to. The code
// is what payers quote as the account/bill reference in the payment, so it is
// unique. Raised is maintained inside the confirming database transaction.
type Campaign struct {
	ID        uuid.UUID       `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Goal      decimal.Decimal `json:"goal"`
	Raised    decimal.Decimal `json:"raised"`
	CreatedAt time.Time       `json:"created_at"`
}

// GoalReached returns true once raised meets or exceeds the goal.
func (c *Campaign) GoalReached() bool {
	return c.Goal.IsPositive() && c.Raised.GreaterThanOrEqual(c.Goal)
}
