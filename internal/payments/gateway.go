package payments

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"aerobook/internal/shared/config"
)

var (
	// ErrInvalidSignature is returned when the callback's signature does not
	// match; the callback must be treated as forged and ignored.
	ErrInvalidSignature = errors.New("payment callback signature mismatch")
	// ErrMalformedCallback is returned when required callback fields are
	// missing or unparseable.
	ErrMalformedCallback = errors.New("malformed payment callback")
)

// PaymentRequest describes the charge to redirect the customer for. Token
// is an opaque server-generated correlation value echoed back unchanged in
// the callback; nothing else in the callback is trusted as an identifier.
type PaymentRequest struct {
	Token     string
	Amount    float64
	OrderInfo string
	ClientIP  string
}

// CallbackResult is a verified, parsed gateway callback.
type CallbackResult struct {
	Token   string
	Success bool
	Amount  float64
	TxnRef  string
	PaidAt  time.Time
}

// Gateway is the external payment collaborator: build a redirect URL for an
// amount, and turn a raw callback into a verified result.
type Gateway interface {
	CreatePaymentURL(req PaymentRequest) (string, error)

	// ParseCallback validates the signature and extracts the result. A bad
	// signature is ErrInvalidSignature, distinct from a well-formed callback
	// reporting a declined payment (Success=false).
	ParseCallback(params url.Values) (*CallbackResult, error)
}

// redirectGateway signs redirect URLs and callbacks with HMAC-SHA512 over
// the sorted query string, the scheme VNPay-style gateways use.
type redirectGateway struct {
	gatewayURL   string
	merchantCode string
	hashSecret   string
	returnURL    string
	currency     string
	converter    CurrencyConverter
	now          func() time.Time
}

func NewRedirectGateway(cfg *config.Config, converter CurrencyConverter) Gateway {
	return &redirectGateway{
		gatewayURL:   cfg.Payment.GatewayURL,
		merchantCode: cfg.Payment.MerchantCode,
		hashSecret:   cfg.Payment.HashSecret,
		returnURL:    cfg.Payment.ReturnURL,
		currency:     cfg.Payment.GatewayCurrency,
		converter:    converter,
		now:          time.Now,
	}
}

func (g *redirectGateway) CreatePaymentURL(req PaymentRequest) (string, error) {
	if req.Token == "" {
		return "", fmt.Errorf("payment request needs a correlation token")
	}
	if req.Amount <= 0 {
		return "", fmt.Errorf("payment amount must be positive, got %.2f", req.Amount)
	}

	// The gateway wants its own currency in minor units (x100).
	gatewayAmount := int64(g.converter.ToGatewayCurrency(req.Amount) * 100)

	now := g.now()
	params := url.Values{}
	params.Set("vnp_Version", "2.1.0")
	params.Set("vnp_Command", "pay")
	params.Set("vnp_TmnCode", g.merchantCode)
	params.Set("vnp_Amount", strconv.FormatInt(gatewayAmount, 10))
	params.Set("vnp_CurrCode", g.currency)
	params.Set("vnp_TxnRef", req.Token)
	params.Set("vnp_OrderInfo", req.OrderInfo)
	params.Set("vnp_OrderType", "other")
	params.Set("vnp_Locale", "en")
	params.Set("vnp_ReturnUrl", g.returnURL)
	params.Set("vnp_IpAddr", req.ClientIP)
	params.Set("vnp_CreateDate", now.Format("20060102150405"))
	params.Set("vnp_ExpireDate", now.Add(30*time.Minute).Format("20060102150405"))

	signed := signQuery(params, g.hashSecret)
	params.Set("vnp_SecureHash", signed)

	return g.gatewayURL + "?" + params.Encode(), nil
}

func (g *redirectGateway) ParseCallback(params url.Values) (*CallbackResult, error) {
	received := params.Get("vnp_SecureHash")
	if received == "" {
		return nil, ErrMalformedCallback
	}

	verify := url.Values{}
	for key, vals := range params {
		if key == "vnp_SecureHash" || key == "vnp_SecureHashType" {
			continue
		}
		for _, v := range vals {
			verify.Add(key, v)
		}
	}
	expected := signQuery(verify, g.hashSecret)
	if !hmac.Equal([]byte(strings.ToLower(received)), []byte(expected)) {
		return nil, ErrInvalidSignature
	}

	token := params.Get("vnp_TxnRef")
	if token == "" {
		return nil, ErrMalformedCallback
	}

	rawAmount := params.Get("vnp_Amount")
	minor, err := strconv.ParseInt(rawAmount, 10, 64)
	if err != nil {
		return nil, ErrMalformedCallback
	}
	amount := g.converter.FromGatewayCurrency(float64(minor) / 100)

	paidAt := g.now()
	if raw := params.Get("vnp_PayDate"); raw != "" {
		if t, err := time.ParseInLocation("20060102150405", raw, time.Local); err == nil {
			paidAt = t
		}
	}

	return &CallbackResult{
		Token:   token,
		Success: params.Get("vnp_ResponseCode") == "00",
		Amount:  amount,
		TxnRef:  params.Get("vnp_TransactionNo"),
		PaidAt:  paidAt,
	}, nil
}

// signQuery hashes the sorted, URL-encoded parameters with HMAC-SHA512.
func signQuery(params url.Values, secret string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, key := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(params.Get(key)))
	}

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(sb.String()))
	return hex.EncodeToString(mac.Sum(nil))
}
