package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/notify"
)

type addToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type cartLineView struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"imageUrl"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type cartView struct {
	Lines       []cartLineView  `json:"lines"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Shipping    string          `json:"shipping"`
	Total       decimal.Decimal `json:"total"`
	Empty       bool            `json:"empty"`
	CheckingOut bool            `json:"checkingOut"`
	LineCount   int             `json:"lineCount"`
}

func (h *handlers) cartSnapshot() cartView {
	lines := h.deps.Cart.Lines()
	out := cartView{
		Lines:       make([]cartLineView, 0, len(lines)),
		Shipping:    "Gratuite",
		Empty:       len(lines) == 0,
		CheckingOut: h.deps.Checkout.InProgress(),
		LineCount:   len(lines),
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, cartLineView{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			ImageURL:  h.deps.Catalog.ImageURL(l.Image),
			Subtotal:  l.Subtotal(),
		})
	}
	out.Subtotal = h.deps.Cart.Total()
	out.Total = out.Subtotal
	return out
}

func (h *handlers) cart(c *gin.Context) {
	render(c, http.StatusOK, view{Data: h.cartSnapshot()})
}

func (h *handlers) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, domain.Invalid("productId", "Produit invalide"))
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	p, err := h.deps.Catalog.Get(c.Request.Context(), req.ProductID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.deps.Cart.Add(domain.CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Image:     p.Image,
		Quantity:  req.Quantity,
	}); err != nil {
		h.fail(c, err)
		return
	}
	h.cartChanged(c, "add")
	render(c, http.StatusOK, view{
		Data:         h.cartSnapshot(),
		Notification: notify.Success("Ajouté au panier", p.Name),
	})
}

func (h *handlers) updateCartItem(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, domain.Invalid("quantity", "Quantité invalide"))
		return
	}
	// Stepping below one leaves the line as it is; removal is explicit.
	if req.Quantity < 1 {
		render(c, http.StatusOK, view{Data: h.cartSnapshot()})
		return
	}
	if err := h.deps.Cart.UpdateQuantity(c.Param("productId"), req.Quantity); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			render(c, http.StatusNotFound, view{
				Data:         h.cartSnapshot(),
				Notification: notify.FromError(err),
			})
			return
		}
		h.fail(c, err)
		return
	}
	h.cartChanged(c, "update")
	render(c, http.StatusOK, view{Data: h.cartSnapshot()})
}

func (h *handlers) removeCartItem(c *gin.Context) {
	h.deps.Cart.Remove(c.Param("productId"))
	h.cartChanged(c, "remove")
	render(c, http.StatusOK, view{Data: h.cartSnapshot()})
}

func (h *handlers) checkout(c *gin.Context) {
	order, err := h.deps.Checkout.Checkout(c.Request.Context())
	if err != nil {
		if errors.Is(err, domain.ErrAuthRequired) {
			render(c, http.StatusUnauthorized, view{
				Notification: notify.CheckoutLoginRequired(),
				Redirect:     "/login",
			})
			return
		}
		h.fail(c, err)
		return
	}
	render(c, http.StatusCreated, view{
		Data:         gin.H{"order": order},
		Notification: notify.Success("Commande réussie !", "Votre commande a été passée avec succès."),
		Redirect:     "/orders",
	})
}

func (h *handlers) cartChanged(c *gin.Context, op string) {
	if h.deps.CartEvents == nil {
		return
	}
	h.deps.CartEvents.CartChanged(c.Request.Context(), op)
}
