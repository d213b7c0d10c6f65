package usecase

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"harambee_billing/internal/domain/entities"

	"github.com/tidwall/gjson"
)

const (
	callbackRoot            = "Body.stkCallback"
	gatewayTimestampLayout  = "20060102150405"
	metadataAmount          = "Amount"
	metadataReceipt         = "MpesaReceiptNumber"
	metadataTransactionDate = "TransactionDate"
	metadataPhoneNumber     = "PhoneNumber"
)

// GatewayLocation is the timezone the gateway stamps its timestamps in (EAT).
var GatewayLocation = time.FixedZone("EAT", 3*60*60)

// ParseCallback validates the shape of an STK push callback and extracts a
// CallbackResult. Nothing is looked up or mutated here.
//
// Expected payload:
//
//	{"Body":{"stkCallback":{"MerchantRequestID":"...","CheckoutRequestID":"ws_CO_...",
//	  "ResultCode":0,"ResultDesc":"...",
//	  "CallbackMetadata":{"Item":[{"Name":"Amount","Value":500},
//	    {"Name":"MpesaReceiptNumber","Value":"ABC123"}, ...]}}}}
func ParseCallback(raw []byte) (entities.CallbackResult, error) {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return entities.CallbackResult{}, fmt.Errorf("%w: body is not valid json", ErrMalformedCallback)
	}

	cb := gjson.GetBytes(raw, callbackRoot)
	if !cb.IsObject() {
		return entities.CallbackResult{}, fmt.Errorf("%w: missing %s", ErrMalformedCallback, callbackRoot)
	}

	correlationID, err := requiredString(cb, "CheckoutRequestID")
	if err != nil {
		return entities.CallbackResult{}, err
	}

	code := cb.Get("ResultCode")
	resultCode, err := integral(code)
	if err != nil {
		return entities.CallbackResult{}, fmt.Errorf("%w: ResultCode: %v", ErrMalformedCallback, err)
	}

	out := entities.CallbackResult{
		CorrelationID:     correlationID,
		MerchantRequestID: strings.TrimSpace(cb.Get("MerchantRequestID").String()),
		ResultCode:        int(resultCode),
		ResultDesc:        strings.TrimSpace(cb.Get("ResultDesc").String()),
	}
	if !out.Succeeded() {
		return out, nil
	}

	items := cb.Get("CallbackMetadata.Item")
	if !items.IsArray() {
		return entities.CallbackResult{}, fmt.Errorf("%w: successful callback without CallbackMetadata", ErrMalformedCallback)
	}

	amount, err := integral(metadataItem(items, metadataAmount))
	if err != nil || amount <= 0 {
		return entities.CallbackResult{}, fmt.Errorf("%w: Amount must be a positive whole number", ErrMalformedCallback)
	}
	out.Amount = amount

	receipt := metadataItem(items, metadataReceipt)
	if receipt.Type != gjson.String || strings.TrimSpace(receipt.String()) == "" {
		return entities.CallbackResult{}, fmt.Errorf("%w: missing %s", ErrMalformedCallback, metadataReceipt)
	}
	out.ReceiptRef = strings.TrimSpace(receipt.String())

	if phone := metadataItem(items, metadataPhoneNumber); phone.Exists() {
		out.PhoneNumber = rawNumberOrString(phone)
	}

	if ts := metadataItem(items, metadataTransactionDate); ts.Exists() {
		parsed, err := time.ParseInLocation(gatewayTimestampLayout, rawNumberOrString(ts), GatewayLocation)
		if err != nil {
			return entities.CallbackResult{}, fmt.Errorf("%w: %s: %v", ErrMalformedCallback, metadataTransactionDate, err)
		}
		utc := parsed.UTC()
		out.TransactionDate = &utc
	}

	return out, nil
}

func requiredString(obj gjson.Result, field string) (string, error) {
	v := obj.Get(field)
	if v.Type != gjson.String || strings.TrimSpace(v.String()) == "" {
		return "", fmt.Errorf("%w: missing %s", ErrMalformedCallback, field)
	}
	return strings.TrimSpace(v.String()), nil
}

func metadataItem(items gjson.Result, name string) gjson.Result {
	return items.Get(`#(Name=="` + name + `").Value`)
}

// integral accepts JSON numbers (500, 500.00) and numeric strings ("500")
// that carry no fractional part.
func integral(v gjson.Result) (int64, error) {
	switch v.Type {
	case gjson.Number:
		f := v.Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64/2 {
			return 0, fmt.Errorf("not a whole number: %s", v.Raw)
		}
		return int64(f), nil
	case gjson.String:
		n, err := strconv.ParseInt(strings.TrimSpace(v.String()), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("not a whole number: %q", v.String())
		}
		return n, nil
	default:
		return 0, fmt.Errorf("missing or non-numeric value")
	}
}

// rawNumberOrString keeps large numeric values (phone numbers, timestamps)
// exactly as sent instead of round-tripping through float64.
func rawNumberOrString(v gjson.Result) string {
	if v.Type == gjson.Number {
		return strings.TrimSpace(v.Raw)
	}
	return strings.TrimSpace(v.String())
}
