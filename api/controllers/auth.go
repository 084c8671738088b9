package controllers

import (
	"net/http"

	"github.com/sooyeonjun/giftpool-backend/api/responses"
	"github.com/sooyeonjun/giftpool-backend/api/validators"
	"github.com/sooyeonjun/giftpool-backend/internal/auth"
	"github.com/sooyeonjun/giftpool-backend/pkg/logger"
)

// Signup registers a new user and returns a session token.
func Signup(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input auth.SignupInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Signup(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}

// Signin exchanges credentials for a session token.
func Signin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input auth.SigninInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Signin(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}
