package main

import (
	"errors"
	"log"
	"net/http"
	"sbs/src/common"
	"sbs/src/db"
	"sbs/src/models"
	"sbs/src/types"
	"sbs/src/utils"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// availabilityAdminHandlers mounts the calendar management surface. The
// caller wraps the group with auth and admin middleware.
func availabilityAdminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/availability/rules", func(ctx *gin.Context) {
			db := db.GetDb()
			q := db.Model(&models.AvailabilityRule{})
			if pid := ctx.Query("product_id"); pid != "" {
				q = q.Where("product_id = ?", pid)
			}
			var rules []models.AvailabilityRule
			if err := q.Order("created_at DESC").Find(&rules).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": rules, "count": len(rules)})
		}).
		POST("/availability/rules", func(ctx *gin.Context) {
			var body types.CreateAvailabilityRuleRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			actorId := ctx.GetUint("id")
			active := true
			if body.IsActive != nil {
				active = *body.IsActive
			}
			rule := models.AvailabilityRule{
				ProductID:     body.ProductID,
				Timezone:      body.Timezone,
				Workdays:      types.IntList(body.Workdays),
				StartTime:     body.StartTime,
				EndTime:       body.EndTime,
				SlotMinutes:   body.SlotMinutes,
				BufferMinutes: body.BufferMinutes,
				CapacityType:  body.CapacityType,
				DailyCapacity: body.DailyCapacity,
				SlotCapacity:  body.SlotCapacity,
				IsActive:      active,
			}
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				if active {
					scope := tx.Model(&models.AvailabilityRule{}).Where("is_active = ?", true)
					if body.ProductID != nil {
						scope = scope.Where("product_id = ?", *body.ProductID)
					} else {
						scope = scope.Where("product_id IS NULL")
					}
					var count int64
					if err := scope.Count(&count).Error; err != nil {
						return err
					}
					if count > 0 {
						return errors.New("an active rule already exists for this scope, deactivate it first")
					}
				}
				if err := tx.Create(&rule).Error; err != nil {
					return err
				}
				return common.AppendAuditLog(tx, "rule_create", &actorId, types.JSONB{
					"rule_id":    rule.ID,
					"product_id": body.ProductID,
					"workdays":   body.Workdays,
					"is_active":  active,
				})
			})
			if err != nil {
				log.Printf("Could not create rule: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			common.FlushAvailabilityCache()
			ctx.JSON(http.StatusCreated, gin.H{"data": rule})
		}).
		PUT("/availability/rules/:id/deactivate", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			actorId := ctx.GetUint("id")
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var rule models.AvailabilityRule
				if err := tx.Where("id = ?", params.ID).First(&rule).Error; err != nil {
					return err
				}
				if err := tx.
					Model(&models.AvailabilityRule{}).
					Where("id = ?", params.ID).
					Update("is_active", false).
					Error; err != nil {
					return err
				}
				return common.AppendAuditLog(tx, "rule_deactivate", &actorId, types.JSONB{
					"rule_id":    params.ID,
					"product_id": rule.ProductID,
				})
			})
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			common.FlushAvailabilityCache()
			ctx.Status(http.StatusNoContent)
		}).
		POST("/availability/overrides", func(ctx *gin.Context) {
			var body types.UpsertOverrideRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			wholeDay := body.Date != ""
			intraDay := body.StartAt != nil && body.EndAt != nil
			if wholeDay == intraDay {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "set either date or the start_at/end_at pair"})
				return
			}
			actorId := ctx.GetUint("id")
			override := models.AvailabilityOverride{
				ProductID:        body.ProductID,
				Status:           body.Status,
				CapacityOverride: body.CapacityOverride,
				Reason:           body.Reason,
				CreatedBy:        &actorId,
			}
			var affectedDates []string
			if wholeDay {
				override.Date = &body.Date
				affectedDates = []string{body.Date}
			} else {
				startAt, err := time.Parse(time.RFC3339, *body.StartAt)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				endAt, err := time.Parse(time.RFC3339, *body.EndAt)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				if !endAt.After(startAt) {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": "end_at must be after start_at"})
					return
				}
				override.StartAt = &startAt
				override.EndAt = &endAt
				affectedDates = utils.DateRange(startAt, endAt)
			}

			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				// One whole-day override per scope and date; a repeat edit
				// replaces the previous row.
				if wholeDay {
					del := tx.Where("date = ?", body.Date)
					if body.ProductID != nil {
						del = del.Where("product_id = ?", *body.ProductID)
					} else {
						del = del.Where("product_id IS NULL")
					}
					if err := del.Delete(&models.AvailabilityOverride{}).Error; err != nil {
						return err
					}
				}
				if err := tx.Create(&override).Error; err != nil {
					return err
				}
				return common.AppendAuditLog(tx, "override_upsert", &actorId, types.JSONB{
					"override_id": override.ID,
					"product_id":  body.ProductID,
					"date":        body.Date,
					"status":      string(body.Status),
					"capacity":    body.CapacityOverride,
					"reason":      body.Reason,
				})
			})
			if err != nil {
				log.Printf("Could not upsert override: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			productId := uint(0)
			if body.ProductID != nil {
				productId = *body.ProductID
			}
			common.InvalidateAvailabilityCache(productId, affectedDates...)
			ctx.JSON(http.StatusCreated, gin.H{"data": override})
		}).
		DELETE("/availability/overrides/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			actorId := ctx.GetUint("id")
			var override models.AvailabilityOverride
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where("id = ?", params.ID).First(&override).Error; err != nil {
					return err
				}
				if err := tx.Delete(&models.AvailabilityOverride{}, params.ID).Error; err != nil {
					return err
				}
				return common.AppendAuditLog(tx, "override_delete", &actorId, types.JSONB{
					"override_id": params.ID,
					"product_id":  override.ProductID,
					"date":        override.Date,
				})
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			if override.Date != nil {
				productId := uint(0)
				if override.ProductID != nil {
					productId = *override.ProductID
				}
				common.InvalidateAvailabilityCache(productId, *override.Date)
			} else {
				common.FlushAvailabilityCache()
			}
			ctx.Status(http.StatusNoContent)
		}).
		POST("/availability/presets/apply", func(ctx *gin.Context) {
			var body types.ApplyPresetRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			actorId := ctx.GetUint("id")
			result, err := common.ApplyPreset(body.Preset, body.StartDate, body.EndDate, body.DailyCapacity, &actorId)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": result})
		}).
		GET("/availability/audit", func(ctx *gin.Context) {
			db := db.GetDb()
			var entries []models.AvailabilityAuditLog
			if err := db.
				Model(&models.AvailabilityAuditLog{}).
				Order("created_at DESC").
				Limit(100).
				Find(&entries).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": entries, "count": len(entries)})
		})
	return g
}

// availabilityPublicHandlers serves the calendar the booking widget renders.
func availabilityPublicHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.GET("/availability/calendar", func(ctx *gin.Context) {
		pid, err := strconv.Atoi(ctx.Query("product_id"))
		if err != nil || pid < 1 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
			return
		}
		year, err := strconv.Atoi(ctx.Query("year"))
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "year is required"})
			return
		}
		month, err := strconv.Atoi(ctx.Query("month"))
		if err != nil || month < 1 || month > 12 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "month must be 1-12"})
			return
		}
		days, err := common.GetMonthAvailability(uint(pid), year, time.Month(month))
		if err != nil {
			log.Printf("Could not compute availability: %s\n", err.Error())
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Error while processing request"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": days})
	})
	return g
}
