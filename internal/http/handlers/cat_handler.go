// Cat HTTP handlers.
//
// This file exposes REST endpoints for cat pictures:
//   - GET  /api/cat              (fetch a random picture and record a showing)
//   - POST /api/cat/{id}/like    (like)
//   - GET  /api/cat/top          (most liked)
//   - GET  /api/cat/history      (most recently added)
//   - GET  /api/cat/{id}         (lookup by id)
//   - GET  /api/cat/by-url       (lookup by picture URL)
//
// Handlers are transport-thin: they parse input, call the CatService, and
// translate results into HTTP responses. A nil CatService means the process
// runs without a store; every endpoint then answers 503 store_unavailable.
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-cat-service/internal/domain"
	"github.com/tbourn/go-cat-service/internal/services"
	"github.com/tbourn/go-cat-service/internal/utils"
)

//
// Service contracts (context-aware)
//

// CatService defines the query surface consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type CatService interface {
	// Save records one showing of url and returns the updated row.
	Save(ctx context.Context, url string) (domain.Cat, error)
	// Like adds one like; services.ErrCatNotFound when id is unknown.
	Like(ctx context.Context, id int64) error
	Top(ctx context.Context, limit int) ([]domain.Cat, error)
	History(ctx context.Context, limit int) ([]domain.Cat, error)
	ByID(ctx context.Context, id int64) (domain.Cat, bool, error)
	ByURL(ctx context.Context, url string) (domain.Cat, bool, error)
	Count(ctx context.Context) (int64, error)
}

// ImageSource returns the URL of a random cat picture.
type ImageSource interface {
	Random(ctx context.Context) (string, error)
}

//
// Handler wiring
//

// Handlers groups the cat endpoints.
type Handlers struct {
	cats   CatService
	images ImageSource
}

// New constructs Handlers. cats may be nil when the store is disabled.
func New(cats CatService, images ImageSource) *Handlers {
	return &Handlers{cats: cats, images: images}
}

//
// DTOs
//

// LikeResponse acknowledges a like.
type LikeResponse struct {
	Success bool `json:"success" example:"true"`
}

//
// Helpers
//

// store reports whether a CatService is wired, failing the request otherwise.
func (h *Handlers) store(c *gin.Context) bool {
	if h.cats == nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "cat store disabled")
		return false
	}
	return true
}

// queryLimit reads ?limit=, returning def when the parameter is absent.
// Range checks are left to the service.
func queryLimit(c *gin.Context, def int) (int, bool) {
	raw, present := c.GetQuery("limit")
	if !present || raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "limit must be an integer")
		return 0, false
	}
	return n, true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "id must be an integer")
		return 0, false
	}
	return id, true
}

//
// Handlers
//

// RandomCat godoc
// @ID          randomCat
// @Summary     Fetch a random cat
// @Description Fetches one random picture from the image API, records a showing and returns the stored record.
// @Tags        Cats
// @Produce     json
// @Success     200  {object}  domain.Cat
// @Failure     502  {object}  handlers.ErrorResponse  "Image API failed"
// @Failure     503  {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /api/cat [get]
func (h *Handlers) RandomCat(c *gin.Context) {
	if !h.store(c) {
		return
	}
	ctx := c.Request.Context()

	url, err := h.images.Random(ctx)
	if err != nil {
		_ = c.Error(err)
		fail(c, http.StatusBadGateway, ErrCodeUpstream, "failed to fetch cat")
		return
	}

	cat, err := h.cats.Save(ctx, url)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, cat)
}

// LikeCat godoc
// @ID          likeCat
// @Summary     Like a cat
// @Tags        Cats
// @Produce     json
// @Param       id   path      int  true  "Cat ID"  minimum(1)
// @Success     200  {object}  handlers.LikeResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Cat not found"
// @Failure     503  {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /api/cat/{id}/like [post]
func (h *Handlers) LikeCat(c *gin.Context) {
	if !h.store(c) {
		return
	}
	id, valid := pathID(c)
	if !valid {
		return
	}
	if err := h.cats.Like(c.Request.Context(), id); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, LikeResponse{Success: true})
}

// TopCats godoc
// @ID          topCats
// @Summary     Most liked cats
// @Description Ordered by likes, then shown, both descending.
// @Tags        Cats
// @Produce     json
// @Param       limit  query     int  false  "Max rows"  minimum(0)  maximum(100)  default(5)
// @Success     200    {array}   domain.Cat
// @Failure     400    {object}  handlers.ErrorResponse  "Bad request"
// @Failure     503    {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /api/cat/top [get]
func (h *Handlers) TopCats(c *gin.Context) {
	if !h.store(c) {
		return
	}
	limit, valid := queryLimit(c, services.DefaultTopLimit)
	if !valid {
		return
	}
	cats, err := h.cats.Top(c.Request.Context(), limit)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, cats)
}

// CatHistory godoc
// @ID          catHistory
// @Summary     Recently added cats
// @Tags        Cats
// @Produce     json
// @Param       limit  query     int  false  "Max rows"  minimum(0)  maximum(100)  default(10)
// @Success     200    {array}   domain.Cat
// @Failure     400    {object}  handlers.ErrorResponse  "Bad request"
// @Failure     503    {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /api/cat/history [get]
func (h *Handlers) CatHistory(c *gin.Context) {
	if !h.store(c) {
		return
	}
	limit, valid := queryLimit(c, services.DefaultHistoryLimit)
	if !valid {
		return
	}
	cats, err := h.cats.History(c.Request.Context(), limit)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, cats)
}

// GetCat godoc
// @ID          getCat
// @Summary     Get a cat by id
// @Tags        Cats
// @Produce     json
// @Param       id   path      int  true  "Cat ID"  minimum(1)
// @Success     200  {object}  domain.Cat
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Cat not found"
// @Failure     503  {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /api/cat/{id} [get]
func (h *Handlers) GetCat(c *gin.Context) {
	if !h.store(c) {
		return
	}
	id, valid := pathID(c)
	if !valid {
		return
	}
	cat, found, err := h.cats.ByID(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	if !found {
		fail(c, http.StatusNotFound, ErrCodeNotFound, services.ErrCatNotFound.Error())
		return
	}
	ok(c, http.StatusOK, cat)
}

// GetCatByURL godoc
// @ID          getCatByURL
// @Summary     Get a cat by picture URL
// @Tags        Cats
// @Produce     json
// @Param       url  query     string  true  "Picture URL"  example(https://cdn2.thecatapi.com/images/abc.jpg)
// @Success     200  {object}  domain.Cat
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Cat not found"
// @Failure     503  {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /api/cat/by-url [get]
func (h *Handlers) GetCatByURL(c *gin.Context) {
	if !h.store(c) {
		return
	}
	cat, found, err := h.cats.ByURL(c.Request.Context(), c.Query("url"))
	if err != nil {
		failErr(c, err)
		return
	}
	if !found {
		fail(c, http.StatusNotFound, ErrCodeNotFound, services.ErrCatNotFound.Error())
		return
	}
	ok(c, http.StatusOK, cat)
}
