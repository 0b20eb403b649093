package main

import (
	"errors"
	"log"
	"net/http"
	"sbs/src/db"
	"sbs/src/lib"
	"sbs/src/models"
	"sbs/src/types"
	"sbs/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

func productAdminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/products", func(ctx *gin.Context) {
			var body types.CreateProductRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			product := models.Product{
				Name:             body.Name,
				Slug:             slug.Make(body.Name),
				Description:      body.Description,
				PriceCents:       body.PriceCents,
				Currency:         body.Currency,
				StripePriceId:    body.StripePriceId,
				OfferWindowHours: body.OfferWindowHours,
				SlotMinutes:      body.SlotMinutes,
				FullWindowStart:  body.FullWindowStart,
				FullWindowEnd:    body.FullWindowEnd,
				LimitedSlots:     types.StringList(body.LimitedSlots),
				Active:           body.Active,
			}
			db := db.GetDb()
			if err := db.Create(&product).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					ctx.JSON(http.StatusConflict, gin.H{"error": "a product with this name already exists"})
					return
				}
				log.Printf("Could not create product: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Error while processing request"})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": product})
		}).
		PUT("/products/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.CreateProductRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var product models.Product
				if err := tx.Where("id = ?", params.ID).First(&product).Error; err != nil {
					return err
				}
				return tx.
					Model(&models.Product{}).
					Where("id = ?", params.ID).
					Updates(map[string]any{
						"name":               body.Name,
						"description":        body.Description,
						"price_cents":        body.PriceCents,
						"currency":           body.Currency,
						"stripe_price_id":    body.StripePriceId,
						"offer_window_hours": body.OfferWindowHours,
						"slot_minutes":       body.SlotMinutes,
						"full_window_start":  body.FullWindowStart,
						"full_window_end":    body.FullWindowEnd,
						"limited_slots":      types.StringList(body.LimitedSlots),
						"active":             body.Active,
					}).
					Error
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		DELETE("/products/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			if err := db.
				Model(&models.Product{}).
				Where("id = ?", params.ID).
				Update("active", false).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		POST("/campaigns", func(ctx *gin.Context) {
			var body types.CreateCampaignRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			campaign := models.Campaign{
				Slug:     slug.Make(body.Title),
				Title:    body.Title,
				Subtitle: body.Subtitle,
				HeroURL:  body.HeroURL,
				Active:   body.Active,
			}
			if body.StartsAt != nil {
				if t, err := utils.ParseDate(*body.StartsAt); err == nil {
					campaign.StartsAt = &t
				}
			}
			if body.EndsAt != nil {
				if t, err := utils.ParseDate(*body.EndsAt); err == nil {
					campaign.EndsAt = &t
				}
			}
			db := db.GetDb()
			if err := db.Create(&campaign).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					ctx.JSON(http.StatusConflict, gin.H{"error": "a campaign with this title already exists"})
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": campaign})
		}).
		POST("/campaigns/:id/cards", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.CreateCampaignCardRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			card := models.CampaignCard{
				CampaignID:    params.ID,
				CardIndex:     body.CardIndex,
				Title:         body.Title,
				ImageURL:      body.ImageURL,
				PriceCents:    body.PriceCents,
				StripePriceId: body.StripePriceId,
			}
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var campaign models.Campaign
				if err := tx.Where("id = ?", params.ID).First(&campaign).Error; err != nil {
					return err
				}
				return tx.Create(&card).Error
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					ctx.JSON(http.StatusConflict, gin.H{"error": "card index already taken for this campaign"})
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": card})
		}).
		POST("/gallery", func(ctx *gin.Context) {
			var body types.CreateGalleryCardRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			card := models.GalleryCard{
				Title:     body.Title,
				ImageURL:  body.ImageURL,
				Category:  body.Category,
				SortOrder: body.SortOrder,
				Published: body.Published,
			}
			db := db.GetDb()
			if err := db.Create(&card).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": card})
		}).
		PUT("/gallery/reorder", func(ctx *gin.Context) {
			var body types.ReorderGalleryRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				for i, id := range body.IDs {
					if err := tx.
						Model(&models.GalleryCard{}).
						Where("id = ?", id).
						Update("sort_order", i).
						Error; err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		DELETE("/gallery/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			if err := db.Delete(&models.GalleryCard{}, params.ID).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}

// publicHandlers serves the marketing site: package cards, campaign landing
// pages and the gallery. No identity required.
func publicHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/products", func(ctx *gin.Context) {
			db := db.GetDb()
			var products []models.Product
			if err := db.
				Model(&models.Product{}).
				Where("active = ?", true).
				Order("sort_order ASC, id ASC").
				Find(&products).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": products, "count": len(products)})
		}).
		GET("/products/:slug", func(ctx *gin.Context) {
			var product models.Product
			db := db.GetDb()
			if err := db.
				Model(&models.Product{}).
				Where("slug = ?", ctx.Params.ByName("slug")).
				Where("active = ?", true).
				First(&product).
				Error; err != nil {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": product})
		}).
		GET("/campaigns/:slug", func(ctx *gin.Context) {
			var campaign models.Campaign
			db := db.GetDb()
			if err := db.
				Model(&models.Campaign{}).
				Where("slug = ?", ctx.Params.ByName("slug")).
				Where("active = ?", true).
				Preload("Cards", func(db *gorm.DB) *gorm.DB {
					return db.Order("card_index ASC")
				}).
				First(&campaign).
				Error; err != nil {
				ctx.Status(http.StatusNotFound)
				return
			}
			now := lib.GetClock().Now()
			if campaign.StartsAt != nil && now.Before(*campaign.StartsAt) {
				ctx.Status(http.StatusNotFound)
				return
			}
			if campaign.EndsAt != nil && now.After(*campaign.EndsAt) {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": campaign})
		}).
		GET("/gallery", func(ctx *gin.Context) {
			db := db.GetDb()
			q := db.
				Model(&models.GalleryCard{}).
				Where("published = ?", true)
			if cat := ctx.Query("category"); cat != "" {
				q = q.Where("category = ?", cat)
			}
			var cards []models.GalleryCard
			if err := q.Order("sort_order ASC, id ASC").Find(&cards).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": cards, "count": len(cards)})
		})
	return g
}
