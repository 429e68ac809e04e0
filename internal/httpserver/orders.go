package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/notify"
	ordersvc "storefront/internal/service/orders"
)

type orderItemView struct {
	Name     string          `json:"name"`
	ImageURL string          `json:"imageUrl"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type orderView struct {
	ID          string             `json:"id"`
	Ref         string             `json:"ref"`
	Date        string             `json:"date"`
	Status      domain.OrderStatus `json:"status"`
	StatusLabel string             `json:"statusLabel"`
	StatusColor string             `json:"statusColor"`
	Items       []orderItemView    `json:"items"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
	Cancellable bool               `json:"cancellable"`
}

func (h *handlers) toOrderView(o domain.Order) orderView {
	items := make([]orderItemView, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemView{
			Name:     it.Product.Name,
			ImageURL: h.deps.Catalog.ImageURL(it.Product.Image),
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	return orderView{
		ID:          o.ID,
		Ref:         ordersvc.ShortRef(o.ID),
		Date:        ordersvc.FormatDate(o.CreatedAt),
		Status:      o.Status,
		StatusLabel: ordersvc.StatusLabel(o.Status),
		StatusColor: ordersvc.StatusColor(o.Status),
		Items:       items,
		TotalAmount: o.TotalAmount,
		Cancellable: o.Cancellable(),
	}
}

func (h *handlers) orders(c *gin.Context) {
	if !h.deps.Session.Authenticated() {
		render(c, http.StatusUnauthorized, view{Redirect: "/login"})
		return
	}
	list, err := h.deps.Orders.Load(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]orderView, 0, len(list))
	for _, o := range list {
		out = append(out, h.toOrderView(o))
	}
	render(c, http.StatusOK, view{Data: gin.H{"orders": out}})
}

func (h *handlers) cancelOrder(c *gin.Context) {
	order, err := h.deps.Orders.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	render(c, http.StatusOK, view{
		Data:         gin.H{"order": h.toOrderView(*order)},
		Notification: notify.Success("Succès !", "La commande a été annulée"),
	})
}
