package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/notify"
	authsvc "storefront/internal/service/auth"
)

// guestOnly answers true after redirecting authenticated users home.
func (h *handlers) guestOnly(c *gin.Context) bool {
	if h.deps.Session.Authenticated() {
		render(c, http.StatusOK, view{Redirect: "/"})
		return false
	}
	return true
}

func (h *handlers) loginPage(c *gin.Context) {
	if !h.guestOnly(c) {
		return
	}
	render(c, http.StatusOK, view{Data: gin.H{"form": authsvc.LoginInput{}}})
}

func (h *handlers) registerPage(c *gin.Context) {
	if !h.guestOnly(c) {
		return
	}
	render(c, http.StatusOK, view{Data: gin.H{"form": authsvc.RegisterInput{}}})
}

func (h *handlers) login(c *gin.Context) {
	var req authsvc.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, domain.Invalid("body", "Formulaire invalide"))
		return
	}
	user, err := h.deps.Auth.Login(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	// a different user may have logged in over the previous session
	h.deps.Orders.Reset()
	render(c, http.StatusOK, view{
		Data:         gin.H{"user": user},
		Notification: notify.Success("Connexion réussie !", "Bienvenue !"),
		Redirect:     "/",
	})
}

func (h *handlers) register(c *gin.Context) {
	var req authsvc.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, domain.Invalid("body", "Formulaire invalide"))
		return
	}
	user, err := h.deps.Auth.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.deps.Orders.Reset()
	render(c, http.StatusCreated, view{
		Data:         gin.H{"user": user},
		Notification: notify.Success("Inscription réussie !", "Vous êtes maintenant connecté."),
		Redirect:     "/",
	})
}

func (h *handlers) logout(c *gin.Context) {
	if err := h.deps.Auth.Logout(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	h.deps.Orders.Reset()
	render(c, http.StatusOK, view{Redirect: "/"})
}
