package handlers

import (
	"errors"
	"net/http"

	"harambee_billing/internal/usecase"
	"harambee_billing/pkg"
)

var (
	errInvalidDonationPayload = pkg.NewDomainErrorSimple("INVALID_DONATION_INPUT", "Invalid donation payload", http.StatusBadRequest)
	errInvalidRequest         = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
)

func mapPaymentError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidAmount):
		return pkg.NewDomainErrorSimple("INVALID_AMOUNT", "Donation amount is out of the accepted range", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidPhoneNumber):
		return pkg.NewDomainErrorSimple("INVALID_PHONE_NUMBER", "Phone number must be a valid Kenyan mobile number", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrValidation):
		return errInvalidRequest
	case errors.Is(err, usecase.ErrCampaignNotFound):
		return pkg.NewDomainErrorSimple("CAMPAIGN_NOT_FOUND", "Campaign not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrIntentNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrCampaignClosed):
		return pkg.NewDomainErrorSimple("CAMPAIGN_CLOSED", "Campaign is not accepting donations", http.StatusConflict)
	case errors.Is(err, usecase.ErrRateLimited):
		return pkg.NewDomainErrorSimple("RATE_LIMITED", "Too many payment attempts, try again later", http.StatusTooManyRequests)
	case errors.Is(err, usecase.ErrGateway):
		return pkg.NewDomainError("PAYMENT_PROVIDER_ERROR", "Payment provider could not start the payment", err, http.StatusBadGateway)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
