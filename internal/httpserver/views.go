package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/notify"
)

// view is the envelope every storefront view answers with.
type view struct {
	Data         any                  `json:"data,omitempty"`
	Notification *notify.Notification `json:"notification,omitempty"`
	Redirect     string               `json:"redirect,omitempty"`
}

func render(c *gin.Context, status int, v view) {
	c.JSON(status, v)
}

func (h *handlers) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Printf("view %s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	v := view{Notification: notify.FromError(err)}
	if errors.Is(err, domain.ErrAuthRequired) {
		v.Redirect = "/login"
	}
	render(c, status, v)
}

func statusFor(err error) int {
	var (
		apiErr *domain.APIError
		netErr *domain.NetworkError
		vErr   *domain.ValidationError
	)
	switch {
	case errors.Is(err, domain.ErrAuthRequired):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrCheckoutInProgress), errors.Is(err, domain.ErrNotCancellable):
		return http.StatusConflict
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return apiErr.StatusCode
		}
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &netErr), errors.Is(err, domain.ErrInvalidPayload):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type navView struct {
	Authenticated bool   `json:"authenticated"`
	UserName      string `json:"userName,omitempty"`
	CartCount     int    `json:"cartCount"`
}

func (h *handlers) nav(c *gin.Context) {
	sess := h.deps.Session.Current()
	out := navView{Authenticated: sess.Authenticated(), CartCount: h.deps.Cart.Count()}
	if sess.User != nil {
		out.UserName = sess.User.Name
	}
	render(c, http.StatusOK, view{Data: out})
}
