package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/parcelbay/parcelbay/internal/invoiceprovider/domain"
	parceldomain "github.com/parcelbay/parcelbay/internal/parcel/domain"
	ratetabledomain "github.com/parcelbay/parcelbay/internal/ratetable/domain"
	ratingdomain "github.com/parcelbay/parcelbay/internal/rating/domain"
	settlementdomain "github.com/parcelbay/parcelbay/internal/settlement/domain"
	shipmentdomain "github.com/parcelbay/parcelbay/internal/shipment/domain"
	walletdomain "github.com/parcelbay/parcelbay/internal/wallet/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case errors.Is(err, invoicedomain.ErrUnavailable):
		return http.StatusBadGateway, errorPayload{
			Type:    "provider_unavailable",
			Message: "invoice provider unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

// Business-rule violations map to 409: valid requests rejected because
// of the current state of money, inventory, or lifecycle.
func isConflictError(err error) bool {
	switch {
	case errors.Is(err, walletdomain.ErrInsufficientBalance),
		errors.Is(err, parceldomain.ErrNotAvailable),
		errors.Is(err, parceldomain.ErrDuplicateTracking),
		errors.Is(err, parceldomain.ErrImmutableInShipment),
		errors.Is(err, shipmentdomain.ErrInvalidTransition),
		errors.Is(err, shipmentdomain.ErrInvoiceAlreadyIssued),
		errors.Is(err, shipmentdomain.ErrInvoiceNotIssued),
		errors.Is(err, invoicedomain.ErrRejected),
		errors.Is(err, settlementdomain.ErrDeleteActiveShipment):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, parceldomain.ErrNotFound),
		errors.Is(err, shipmentdomain.ErrNotFound),
		errors.Is(err, walletdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ratingdomain.ErrInvalidDimensions),
		errors.Is(err, ratingdomain.ErrInvalidWeight),
		errors.Is(err, ratingdomain.ErrInvalidDeliveryRate),
		errors.Is(err, ratingdomain.ErrInvalidQuantity),
		errors.Is(err, ratetabledomain.ErrInvalidSetting),
		errors.Is(err, ratetabledomain.ErrInvalidCategory),
		errors.Is(err, parceldomain.ErrInvalidTracking),
		errors.Is(err, parceldomain.ErrInvalidMeasurement),
		errors.Is(err, parceldomain.ErrInvalidOwner),
		errors.Is(err, parceldomain.ErrMeasurementsRequired),
		errors.Is(err, walletdomain.ErrInvalidAmount),
		errors.Is(err, walletdomain.ErrInvalidOwner),
		errors.Is(err, shipmentdomain.ErrInvalidStatus),
		errors.Is(err, shipmentdomain.ErrInvalidPayment),
		errors.Is(err, shipmentdomain.ErrInvalidRecipient),
		errors.Is(err, shipmentdomain.ErrNoPackages),
		errors.Is(err, shipmentdomain.ErrReasonRequired),
		errors.Is(err, shipmentdomain.ErrInvalidPrice),
		errors.Is(err, shipmentdomain.ErrNothingToInvoice):
		return true
	default:
		return false
	}
}
