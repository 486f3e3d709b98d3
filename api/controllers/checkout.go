package controllers

import (
	"net/http"
	"strings"

	"github.com/turboost/turboost-backend/api/middleware"
	"github.com/turboost/turboost-backend/api/responses"
	"github.com/turboost/turboost-backend/api/validators"
	cartsvc "github.com/turboost/turboost-backend/internal/cart"
	checkoutsvc "github.com/turboost/turboost-backend/internal/checkout"
	shippingsvc "github.com/turboost/turboost-backend/internal/shipping"
	pkgerrors "github.com/turboost/turboost-backend/pkg/errors"
	"github.com/turboost/turboost-backend/pkg/logger"
)

type checkoutRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// Checkout validates the cart against the shipping selection and opens
// a payment session. The response carries the priced snapshot and the
// provider redirect.
func Checkout(orchestrator *checkoutsvc.Orchestrator, carts *cartsvc.Manager, sessions *shippingsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if orchestrator == nil || sessions == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		store, err := sessionCart(w, r, carts, logg)
		if err != nil {
			return
		}

		buyer := checkoutsvc.Identity{
			Authenticated: strings.TrimSpace(payload.Name) != "" && strings.TrimSpace(payload.Email) != "",
			Name:          strings.TrimSpace(payload.Name),
			Email:         strings.TrimSpace(payload.Email),
		}

		session := sessions.Get(middleware.SessionIDFromContext(ctx))
		snapshot, redirectURL, err := orchestrator.AttemptCheckout(ctx, store, session, buyer)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"snapshot":     snapshot,
			"redirect_url": redirectURL,
		})
	}
}
