package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.GET("/background", h.background)
		api.GET("/export", h.export)

		api.POST("/coupons", h.createCoupon)
		api.GET("/coupons", h.listCoupons)
		api.DELETE("/coupons", h.clearCoupons)
		api.GET("/coupons/:serial", h.getCoupon)
		api.DELETE("/coupons/:serial", h.deleteCoupon)
		api.GET("/coupons/:serial/image", h.couponImage)
		api.GET("/coupons/:serial/share", h.shareLink)
		api.GET("/coupons/:serial/qr", h.qr)
	}
}
