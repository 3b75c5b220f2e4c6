package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/spiritnsoul/couponart/internal/coupon"
	"github.com/spiritnsoul/couponart/internal/designer"
	imagepkg "github.com/spiritnsoul/couponart/internal/image"
	"github.com/spiritnsoul/couponart/internal/logger"
	"github.com/spiritnsoul/couponart/internal/store"
)

// Handler serves the designer and the saved-records views.
type Handler struct {
	designer  *designer.Service
	store     store.Store
	synth     *imagepkg.Synthesizer
	messenger *coupon.Messenger
}

func NewHandler(svc *designer.Service, st store.Store, synth *imagepkg.Synthesizer, messenger *coupon.Messenger) *Handler {
	return &Handler{designer: svc, store: st, synth: synth, messenger: messenger}
}

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// createResponse is a generated voucher plus the first-send share link.
// A voucher that could not be stored is still returned, with Saved false.
type createResponse struct {
	coupon.Generated
	ShareURL string `json:"shareUrl"`
	Saved    bool   `json:"saved"`
	Warning  string `json:"warning,omitempty"`
}

func (h *Handler) createCoupon(c *gin.Context) {
	var req coupon.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	gen, err := h.designer.Generate(c.Request.Context(), req)
	switch {
	case errors.Is(err, coupon.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, designer.ErrNotSaved):
		// the voucher is still usable for download and sharing
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": designer.ErrGenerationFailed.Error()})
		return
	}

	link, linkErr := h.messenger.ShareLink(gen.Data)
	if linkErr != nil {
		h.internalError(c, linkErr)
		return
	}
	resp := createResponse{Generated: *gen, ShareURL: link, Saved: err == nil}
	status := http.StatusCreated
	if err != nil {
		resp.Warning = designer.ErrNotSaved.Error()
		status = http.StatusOK
	}
	c.JSON(status, resp)
}

// listCoupons searches saved records. Image payloads are omitted unless full=1.
func (h *Handler) listCoupons(c *gin.Context) {
	all, err := h.store.List(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	out := coupon.Filter(all, c.Query("q"))
	if c.Query("full") != "1" {
		out = coupon.WithoutImages(out)
	}
	if out == nil {
		out = []coupon.Generated{}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "coupons": out})
}

func (h *Handler) getCoupon(c *gin.Context) {
	gen, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gen)
}

func (h *Handler) couponImage(c *gin.Context) {
	gen, ok := h.lookup(c)
	if !ok {
		return
	}
	b, err := imagepkg.DecodeDataURI(gen.DataURL)
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+coupon.DownloadName(gen.Data)+`"`)
	c.Data(http.StatusOK, "image/png", b)
}

func (h *Handler) shareLink(c *gin.Context) {
	gen, ok := h.lookup(c)
	if !ok {
		return
	}
	share := h.messenger.ReshareLink
	if c.Query("kind") == "first" {
		share = h.messenger.ShareLink
	}
	link, err := share(gen.Data)
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": link})
}

// qr returns a PNG QR code of the reshare link
func (h *Handler) qr(c *gin.Context) {
	gen, ok := h.lookup(c)
	if !ok {
		return
	}
	size := imagepkg.DefaultQRSize
	if v, err := strconv.Atoi(c.Query("size")); err == nil {
		size = v
	}
	link, err := h.messenger.ReshareLink(gen.Data)
	if err != nil {
		h.internalError(c, err)
		return
	}
	b, err := imagepkg.GenerateQRPNG(link, size)
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

func (h *Handler) deleteCoupon(c *gin.Context) {
	err := h.store.Delete(c.Request.Context(), c.Param("serial"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) clearCoupons(c *gin.Context) {
	if err := h.store.Clear(c.Request.Context()); err != nil {
		h.internalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// export downloads every record as CSV (default) or JSON.
func (h *Handler) export(c *gin.Context) {
	all, err := h.store.List(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", `attachment; filename="coupons.csv"`)
		c.Status(http.StatusOK)
		err = coupon.ExportCSV(c.Writer, all)
	case "json":
		c.Header("Content-Type", "application/json; charset=utf-8")
		c.Header("Content-Disposition", `attachment; filename="coupons.json"`)
		c.Status(http.StatusOK)
		err = coupon.ExportJSON(c.Writer, all)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or json"})
		return
	}
	if err != nil {
		logger.From(c.Request.Context()).Error().Err(err).Msg("export failed mid-stream")
	}
}

// background returns a freshly synthesized background PNG for ?type=
func (h *Handler) background(c *gin.Context) {
	bg, err := h.synth.Generate(c.Request.Context(), c.Query("type"))
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", bg.PNG())
}

func (h *Handler) lookup(c *gin.Context) (coupon.Generated, bool) {
	gen, err := h.store.Get(c.Request.Context(), c.Param("serial"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return coupon.Generated{}, false
	}
	if err != nil {
		h.internalError(c, err)
		return coupon.Generated{}, false
	}
	return gen, true
}

func (h *Handler) internalError(c *gin.Context, err error) {
	logger.From(c.Request.Context()).Error().
		Str("error", logger.Redact(err.Error())).
		Str("path", c.FullPath()).
		Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
