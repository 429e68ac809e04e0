package notify

import (
	"context"
	"errors"

	"storefront/internal/domain"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
)

// Notification is the message a view shows after an action.
type Notification struct {
	Kind  Kind   `json:"kind"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

const errorTitle = "Erreur !"

func Success(title, text string) *Notification {
	return &Notification{Kind: KindSuccess, Title: title, Text: text}
}

// FromError maps the error taxonomy to what the user sees. Server messages are shown verbatim.
func FromError(err error) *Notification {
	if err == nil {
		return nil
	}
	var (
		apiErr *domain.APIError
		netErr *domain.NetworkError
		vErr   *domain.ValidationError
	)
	switch {
	case errors.Is(err, domain.ErrAuthRequired):
		return &Notification{Kind: KindWarning, Title: "Connexion requise", Text: "Veuillez vous connecter pour continuer."}
	case errors.Is(err, domain.ErrCheckoutInProgress):
		return &Notification{Kind: KindWarning, Title: "Commande en cours", Text: "Une commande est déjà en cours de traitement."}
	case errors.Is(err, domain.ErrNotCancellable):
		return &Notification{Kind: KindError, Title: errorTitle, Text: "Seules les commandes en attente peuvent être annulées."}
	case errors.As(err, &vErr):
		return &Notification{Kind: KindError, Title: errorTitle, Text: vErr.Message}
	case errors.As(err, &apiErr):
		return &Notification{Kind: KindError, Title: errorTitle, Text: apiErr.Message}
	case errors.Is(err, domain.ErrInvalidPayload):
		return &Notification{Kind: KindError, Title: errorTitle, Text: "Format de données invalide"}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &Notification{Kind: KindWarning, Title: errorTitle, Text: "La requête a été interrompue."}
	case errors.As(err, &netErr):
		return &Notification{Kind: KindError, Title: errorTitle, Text: "Impossible de contacter le serveur. Vérifiez votre connexion."}
	case errors.Is(err, domain.ErrNotFound):
		return &Notification{Kind: KindError, Title: errorTitle, Text: "Élément introuvable"}
	default:
		return &Notification{Kind: KindError, Title: errorTitle, Text: "Une erreur est survenue"}
	}
}

// CheckoutLoginRequired is shown when an anonymous user tries to place an order.
func CheckoutLoginRequired() *Notification {
	return &Notification{Kind: KindWarning, Title: "Connexion requise", Text: "Veuillez vous connecter pour passer commande."}
}
