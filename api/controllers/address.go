package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/turboost/turboost-backend/api/responses"
	"github.com/turboost/turboost-backend/internal/address"
	pkgerrors "github.com/turboost/turboost-backend/pkg/errors"
	"github.com/turboost/turboost-backend/pkg/logger"
)

// AddressLookup resolves a CEP into a street address.
func AddressLookup(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		cep := strings.TrimSpace(chi.URLParam(r, "cep"))
		addr, err := svc.Lookup(ctx, cep)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, addr)
	}
}
