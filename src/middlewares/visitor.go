package middlewares

import (
	"log"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"sbs/src/types"
)

// VisitorMiddleware resolves the request identity for the public booking
// flow. An authenticated bearer token wins; otherwise the client-generated
// visitor id from the x-visitor-id header is used. One of the two must be
// present, since the booking request lookup key needs an identity component.
func VisitorMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if strings.HasPrefix(bearerToken, "Bearer") {
		reqToken := strings.Split(bearerToken, " ")[1]
		claims := &types.Claims{}
		tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
			return jwtKey, nil
		})
		if err == nil && tkn.Valid {
			if uid, err := strconv.Atoi(claims.Subject); err == nil {
				ctx.Set("id", uint(uid))
				return
			}
		}
		log.Println("[visitor] invalid bearer token, falling back to visitor id")
	}

	visitorId := ctx.GetHeader("x-visitor-id")
	if visitorId == "" {
		ctx.AbortWithStatusJSON(400, gin.H{"error": "missing x-visitor-id header"})
		return
	}
	if _, err := uuid.Parse(visitorId); err != nil {
		ctx.AbortWithStatusJSON(400, gin.H{"error": "malformed visitor id"})
		return
	}
	ctx.Set("visitor_id", visitorId)
}
