package prediction

import (
	"github.com/DhavalSuthar-24/cricbook/pkg/rmiddleware"
	"github.com/gin-gonic/gin"
)

func PredictionRoutes(router *gin.RouterGroup, pc *PredictionController, authMW, optionalMW gin.HandlerFunc) {
	router.GET("/matches/:id/predictions", optionalMW, pc.GetMatchPredictions)
	router.GET("/matches/:id/overs", pc.ListOvers)

	router.POST("/matches/:id/predictions", authMW, pc.PredictWinner)
	router.POST("/overs/:id/predictions", authMW, pc.PredictOver)
	router.POST("/matches/:id/overs", authMW, rmiddleware.AdminMiddleware(), pc.RecordOver)
}
