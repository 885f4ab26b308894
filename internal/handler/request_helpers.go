package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/osse101/TapStake_Go/internal/domain"
	"github.com/osse101/TapStake_Go/internal/logger"
)

// ValidationErrorResponse defines the response structure for validation errors
type ValidationErrorResponse struct {
	OK     bool              `json:"ok"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// DecodeAndValidateRequest decodes a JSON request body into req and runs
// its validate tags. Numbers are kept as json.Number so amounts never pass
// through float64.
//
// If this function returns an error, the response has already been written
// and the handler should return.
//
//	var req MoneyRequest
//	if err := DecodeAndValidateRequest(r, w, &req, "Fund wallet"); err != nil {
//	    return
//	}
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	log := logger.FromContext(r.Context())

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(req); err != nil {
		log.Warn(fmt.Sprintf(LogMsgDecodeFailed, actionName), "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return err
	}
	log.Debug(fmt.Sprintf(LogMsgRequestDecoded, actionName))

	if err := GetValidator().ValidateStruct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  validationCode(err),
			Fields: FormatValidationError(err),
		})
		return err
	}
	return nil
}

// decodeOptionalBody is DecodeAndValidateRequest for routes whose body may
// be empty
func decodeOptionalBody(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return DecodeAndValidateRequest(r, w, req, actionName)
}

// GetOptionalQueryParam returns a query parameter or defaultValue
func GetOptionalQueryParam(r *http.Request, paramName string, defaultValue string) string {
	value := strings.TrimSpace(r.URL.Query().Get(paramName))
	if value == "" {
		return defaultValue
	}
	return value
}

// getLimitParam parses the limit query parameter. Zero means the service
// default.
func getLimitParam(r *http.Request, w http.ResponseWriter) (int, bool) {
	raw := GetOptionalQueryParam(r, "limit", "")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
		return 0, false
	}
	return limit, true
}

// parseAmount accepts a JSON number or a numeric string
func parseAmount(raw interface{}) (decimal.Decimal, error) {
	var s string
	switch v := raw.(type) {
	case json.Number:
		s = v.String()
	case string:
		s = strings.TrimSpace(v)
	default:
		return decimal.Zero, domain.ErrBadAmount
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, domain.ErrBadAmount
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// MoneyRequest is the shared shape of fund, withdraw, cashout and stake
// bodies
type MoneyRequest struct {
	PlayerID string      `json:"playerId" validate:"required,notblank,max=128"`
	Amount   interface{} `json:"amount" validate:"required"`
	Currency string      `json:"currency" validate:"omitempty,max=8"`
}

// parse returns the normalized amount and currency
func (m MoneyRequest) parse() (decimal.Decimal, domain.Currency, error) {
	amount, err := parseAmount(m.Amount)
	if err != nil {
		return decimal.Zero, "", err
	}
	cur, err := domain.ParseCurrency(m.Currency)
	if err != nil {
		return decimal.Zero, "", err
	}
	return amount, cur, nil
}
