package api

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spiritnsoul/couponart/internal/coupon"
	"github.com/spiritnsoul/couponart/internal/designer"
	imagepkg "github.com/spiritnsoul/couponart/internal/image"
	"github.com/spiritnsoul/couponart/internal/metrics"
	"github.com/spiritnsoul/couponart/internal/store"
)

func setupRouter(t *testing.T) (*gin.Engine, store.Store) {
	t.Helper()
	return setupRouterWithQuota(t, 0)
}

func setupRouterWithQuota(t *testing.T, maxBytes int64) (*gin.Engine, store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.NewFileStore(t.TempDir(), maxBytes)
	require.NoError(t, err)
	synth := imagepkg.NewSynthesizer(imagepkg.DefaultCanvas)
	svc := designer.NewService(synth, imagepkg.NewCompositor(), st, metrics.New(prometheus.NewRegistry()))

	r := gin.New()
	r.Use(RequestLogger())
	RegisterRoutes(r, NewHandler(svc, st, synth, coupon.NewMessenger()))
	return r, st
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seed(t *testing.T, st store.Store, serial, name string) {
	t.Helper()
	require.NoError(t, st.Save(context.Background(), coupon.Generated{
		ID:        "id-" + serial,
		DataURL:   imagepkg.DataURI(qrPNG(t)),
		CreatedAt: time.Now(),
		Data: coupon.Data{
			UserName:      name,
			Phone:         "+1 (555) 010-0000",
			BusinessName:  "Spirit N Soul",
			DiscountValue: "20% OFF",
			SerialNumber:  serial,
		},
	}))
}

func qrPNG(t *testing.T) []byte {
	t.Helper()
	b, err := imagepkg.GenerateQRPNG("placeholder", 64)
	require.NoError(t, err)
	return b
}

func TestHealth(t *testing.T) {
	r, _ := setupRouter(t)
	w := do(r, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCreateCoupon(t *testing.T) {
	r, st := setupRouter(t)

	w := do(r, http.MethodPost, "/api/coupons", map[string]string{
		"userName":      "Jane Doe",
		"phone":         "+1 555 0100",
		"discountType":  "Flash Sale",
		"discountValue": "50% OFF",
		"expiryDate":    "2026-12-31",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var gen createResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &gen))
	assert.Regexp(t, `^SN-[0-9A-Z]{9}$`, gen.Data.SerialNumber)
	assert.True(t, gen.Saved)
	assert.Empty(t, gen.Warning)
	assert.True(t, strings.HasPrefix(gen.ShareURL, "https://wa.me/15550100?text="))
	assert.Contains(t, gen.ShareURL, "Your%20exclusive%20voucher")
	assert.Equal(t, "December 31, 2026", gen.Data.ExpiryDate)
	assert.True(t, strings.HasPrefix(gen.DataURL, "data:image/png;base64,"))

	list, err := st.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	img := do(r, http.MethodGet, "/api/coupons/"+gen.Data.SerialNumber+"/image", nil)
	require.Equal(t, http.StatusOK, img.Code)
	assert.Equal(t, "image/png", img.Header().Get("Content-Type"))
	assert.Contains(t, img.Header().Get("Content-Disposition"), "sn-voucher-"+gen.Data.SerialNumber+".png")
	decoded, err := png.Decode(bytes.NewReader(img.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 1200, decoded.Bounds().Dx())
}

func TestCreateCouponStorageFull(t *testing.T) {
	r, st := setupRouterWithQuota(t, 256)

	w := do(r, http.MethodPost, "/api/coupons", map[string]string{
		"userName": "Jane Doe",
		"phone":    "555 0100",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var gen createResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &gen))
	assert.False(t, gen.Saved)
	assert.Equal(t, designer.ErrNotSaved.Error(), gen.Warning)
	assert.True(t, strings.HasPrefix(gen.DataURL, "data:image/png;base64,"))
	assert.True(t, strings.HasPrefix(gen.ShareURL, "https://wa.me/5550100?text="))

	list, err := st.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateCouponInvalid(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, http.MethodPost, "/api/coupons", map[string]string{"userName": "Jane"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "phone")

	req := httptest.NewRequest(http.MethodPost, "/api/coupons", strings.NewReader("{broken"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListSearch(t *testing.T) {
	r, st := setupRouter(t)
	seed(t, st, "SN-AAA111AAA", "Jane Doe")
	seed(t, st, "SN-BBB222BBB", "Mark Lee")

	var body struct {
		Count   int                `json:"count"`
		Coupons []coupon.Generated `json:"coupons"`
	}

	w := do(r, http.MethodGet, "/api/coupons?q=mark", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "SN-BBB222BBB", body.Coupons[0].Data.SerialNumber)
	assert.Empty(t, body.Coupons[0].DataURL)

	w = do(r, http.MethodGet, "/api/coupons?full=1", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.NotEmpty(t, body.Coupons[0].DataURL)

	w = do(r, http.MethodGet, "/api/coupons?q=zzz", nil)
	assert.JSONEq(t, `{"count":0,"coupons":[]}`, w.Body.String())
}

func TestShareAndQR(t *testing.T) {
	r, st := setupRouter(t)
	seed(t, st, "SN-AAA111AAA", "Jane Doe")

	w := do(r, http.MethodGet, "/api/coupons/SN-AAA111AAA/share", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, strings.HasPrefix(body["url"], "https://wa.me/15550100000?text="))
	assert.Contains(t, body["url"], "Resending%20your%20coupon")

	w = do(r, http.MethodGet, "/api/coupons/SN-AAA111AAA/share?kind=first", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["url"], "Your%20exclusive%20voucher")

	w = do(r, http.MethodGet, "/api/coupons/SN-AAA111AAA/qr?size=256", nil)
	require.Equal(t, http.StatusOK, w.Code)
	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
}

func TestNotFound(t *testing.T) {
	r, _ := setupRouter(t)
	for _, path := range []string{
		"/api/coupons/SN-NOPE",
		"/api/coupons/SN-NOPE/image",
		"/api/coupons/SN-NOPE/share",
		"/api/coupons/SN-NOPE/qr",
	} {
		assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, path, nil).Code, path)
	}
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/api/coupons/SN-NOPE", nil).Code)
}

func TestDeleteAndClear(t *testing.T) {
	r, st := setupRouter(t)
	seed(t, st, "SN-AAA111AAA", "Jane Doe")
	seed(t, st, "SN-BBB222BBB", "Mark Lee")

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/api/coupons/SN-AAA111AAA", nil).Code)
	list, err := st.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "SN-BBB222BBB", list[0].Data.SerialNumber)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/api/coupons", nil).Code)
	list, err = st.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestExport(t *testing.T) {
	r, st := setupRouter(t)
	seed(t, st, "SN-AAA111AAA", "Jane Doe")

	w := do(r, http.MethodGet, "/api/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	rows, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "SN-AAA111AAA", rows[1][0])

	w = do(r, http.MethodGet, "/api/export?format=json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var records []coupon.Generated
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	assert.Len(t, records, 1)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/export?format=xml", nil).Code)
}

func TestBackground(t *testing.T) {
	r, _ := setupRouter(t)
	w := do(r, http.MethodGet, "/api/background?type=Grand%20Opening", nil)
	require.Equal(t, http.StatusOK, w.Code)
	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 1200, img.Bounds().Dx())
	assert.Equal(t, 675, img.Bounds().Dy())
}
