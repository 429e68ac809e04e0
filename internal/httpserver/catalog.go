package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/service/catalog"
)

func (h *handlers) home(c *gin.Context) {
	featured, err := h.deps.Catalog.Featured(c.Request.Context(), catalog.FeaturedCount)
	if err != nil {
		h.fail(c, err)
		return
	}
	render(c, http.StatusOK, view{Data: gin.H{"featured": featured}})
}

func (h *handlers) products(c *gin.Context) {
	list, err := h.deps.Catalog.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	render(c, http.StatusOK, view{Data: gin.H{"products": list}})
}

func (h *handlers) product(c *gin.Context) {
	p, err := h.deps.Catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	render(c, http.StatusOK, view{Data: gin.H{"product": p}})
}
