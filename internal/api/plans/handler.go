package plans

import (
	"net/http"
	"os"

	"recruit-iq/database"
	"recruit-iq/internal/domain/plans"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/price"
	"gorm.io/gorm/clause"
)

func ListPlans(c *gin.Context) {
	var all []plans.Plan
	if err := database.DB.Order("price_eur ASC").Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plans"})
		return
	}
	c.JSON(http.StatusOK, all)
}

// SyncPlansFromStripe refreshes the local plan allow-list from active
// recurring Stripe prices. Admin-only; checkout rejects any price_id not in
// this table.
func SyncPlansFromStripe(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
	}

	params := &stripe.PriceListParams{}
	params.Active = stripe.Bool(true)
	params.Type = stripe.String("recurring")
	params.AddExpand("data.product")

	it := price.List(params)

	synced := 0
	skipped := 0

	for it.Next() {
		p := it.Price()

		if !p.Active || p.Recurring == nil || p.Product == nil || !p.Product.Active {
			skipped++
			continue
		}

		if p.Metadata != nil && p.Metadata["visible"] == "false" {
			skipped++
			continue
		}

		plan := plans.Plan{
			Name:          p.Product.Name,
			PriceEUR:      float64(p.UnitAmount) / 100.0,
			StripePriceID: p.ID,
			Interval:      string(p.Recurring.Interval),
		}

		if err := database.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stripe_price_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "price_eur", "interval"}),
		}).Create(&plan).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upsert plan"})
			return
		}
		synced++
	}

	if err := it.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch Stripe prices"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"synced": synced, "skipped": skipped})
}
