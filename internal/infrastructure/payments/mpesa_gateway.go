package payments

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"harambee_billing/internal/domain/entities"
	"harambee_billing/internal/usecase/interfaces"
	"harambee_billing/pkg"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	SandboxBaseURL    = "https://sandbox.safaricom.co.ke"
	ProductionBaseURL = "https://api.safaricom.co.ke"

	tokenPath    = "/oauth/v1/generate?grant_type=client_credentials"
	stkPushPath  = "/mpesa/stkpush/v1/processrequest"
	responseOK   = "0"
	darajaLayout = "20060102150405"

	maxAccountReference = 12
	maxTransactionDesc  = 13

	defaultRequestTimeout = 15 * time.Second
	defaultRequestsPerSec = 5
	tokenExpiryDelta      = time.Minute
)

var (
	ErrMissingMpesaCredentials   = errors.New("missing M-Pesa configuration")
	ErrMpesaGatewayNotConfigured = errors.New("m-pesa gateway not configured")
)

// Daraja timestamps and passwords are computed in East Africa Time.
var darajaLocation = time.FixedZone("EAT", 3*60*60)

// MpesaConfig holds the Daraja app credentials and the paybill/till settings.
type MpesaConfig struct {
	ConsumerKey    string
	ConsumerSecret string
	Passkey        string
	ShortCode      string
	CallbackURL    string
	// Environment is "sandbox" or "production"; BaseURL overrides it when set.
	Environment       string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	MockMode          bool
}

func (c MpesaConfig) missing() []string {
	var out []string
	for name, v := range map[string]string{
		"MPESA_CONSUMER_KEY":    c.ConsumerKey,
		"MPESA_CONSUMER_SECRET": c.ConsumerSecret,
		"MPESA_PASSKEY":         c.Passkey,
		"MPESA_SHORTCODE":       c.ShortCode,
		"MPESA_CALLBACK_URL":    c.CallbackURL,
	} {
		if strings.TrimSpace(v) == "" {
			out = append(out, name)
		}
	}
	return out
}

type stkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type stkPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

type darajaErrorResponse struct {
	RequestID    string `json:"requestId"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// MpesaGateway initiates Lipa na M-Pesa Online (STK push) payments.
type MpesaGateway struct {
	cfg      MpesaConfig
	baseURL  string
	client   *http.Client
	limiter  *rate.Limiter
	mockMode bool
	now      func() time.Time
	log      logrus.FieldLogger
}

var _ interfaces.IPaymentGateway = (*MpesaGateway)(nil)

func NewMpesaGateway(cfg MpesaConfig, log logrus.FieldLogger) (*MpesaGateway, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if cfg.MockMode {
		log.Info("[payment][gateway] mock mode enabled")
		return &MpesaGateway{cfg: cfg, mockMode: true, now: time.Now, log: log}, nil
	}

	if missing := cfg.missing(); len(missing) > 0 {
		log.WithField("missing", missing).Error("[payment][gateway] incomplete M-Pesa configuration")
		return nil, fmt.Errorf("%w: %s", ErrMissingMpesaCredentials, strings.Join(missing, ", "))
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = SandboxBaseURL
		if strings.EqualFold(cfg.Environment, "production") {
			baseURL = ProductionBaseURL
		}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSec
	}

	base := &http.Client{Timeout: timeout}
	tokens := oauth2.ReuseTokenSourceWithExpiry(nil, &darajaTokenSource{
		client: base,
		url:    baseURL + tokenPath,
		key:    cfg.ConsumerKey,
		secret: cfg.ConsumerSecret,
		now:    time.Now,
	}, tokenExpiryDelta)

	log.WithField("base_url", baseURL).Info("[payment][gateway] M-Pesa client initialized")
	return &MpesaGateway{
		cfg:     cfg,
		baseURL: baseURL,
		client: &http.Client{
			Timeout:   timeout,
			Transport: &oauth2.Transport{Source: tokens, Base: http.DefaultTransport},
		},
		limiter: rate.NewLimiter(rate.Limit(rps), int(rps)+1),
		now:     time.Now,
		log:     log,
	}, nil
}

// Mode reports how the gateway is wired, for health checks.
func (g *MpesaGateway) Mode() string {
	switch {
	case g == nil:
		return "unconfigured"
	case g.mockMode:
		return "mock"
	default:
		return "live"
	}
}

func (g *MpesaGateway) InitiatePayment(ctx context.Context, req entities.PaymentRequest) (entities.GatewayAcceptance, error) {
	log := g.logger().WithFields(logrus.Fields{"intent_id": req.IntentID, "amount": req.Amount})

	if g != nil && g.mockMode {
		acc := entities.GatewayAcceptance{
			CorrelationID:     "ws_CO_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
			MerchantRequestID: uuid.NewString(),
			ResponseCode:      responseOK,
			Description:       "Success. Request accepted for processing",
			CustomerMessage:   "Success. Request accepted for processing",
		}
		log.WithField("correlation_id", acc.CorrelationID).Info("[payment][gateway] mock stk push accepted")
		return acc, nil
	}
	if g == nil || g.client == nil {
		log.Error("[payment][gateway] gateway not configured")
		return entities.GatewayAcceptance{}, ErrMpesaGatewayNotConfigured
	}

	if err := g.limiter.Wait(ctx); err != nil {
		log.WithError(err).Warn("[payment][gateway] pacing wait aborted")
		return entities.GatewayAcceptance{}, err
	}

	timestamp := g.now().In(darajaLocation).Format(darajaLayout)
	body, err := json.Marshal(stkPushRequest{
		BusinessShortCode: g.cfg.ShortCode,
		Password:          stkPassword(g.cfg.ShortCode, g.cfg.Passkey, timestamp),
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            req.Amount,
		PartyA:            req.PhoneNumber,
		PartyB:            g.cfg.ShortCode,
		PhoneNumber:       req.PhoneNumber,
		CallBackURL:       g.cfg.CallbackURL,
		AccountReference:  pkg.Truncate(strings.TrimSpace(req.AccountReference), maxAccountReference),
		TransactionDesc:   pkg.Truncate(strings.TrimSpace(req.Description), maxTransactionDesc),
	})
	if err != nil {
		return entities.GatewayAcceptance{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+stkPushPath, bytes.NewReader(body))
	if err != nil {
		return entities.GatewayAcceptance{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	log.Debug("[payment][gateway] stk push start")
	resp, err := g.client.Do(httpReq)
	if err != nil {
		log.WithError(err).Warn("[payment][gateway] stk push transport failure")
		return entities.GatewayAcceptance{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return entities.GatewayAcceptance{}, err
	}

	if resp.StatusCode != http.StatusOK {
		rejection := rejectionFromBody(resp.StatusCode, raw)
		log.WithFields(logrus.Fields{"status": resp.StatusCode, "code": rejection.Code}).Warn("[payment][gateway] stk push rejected")
		return entities.GatewayAcceptance{}, rejection
	}

	var out stkPushResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		log.WithError(err).Warn("[payment][gateway] stk push response unreadable")
		return entities.GatewayAcceptance{}, fmt.Errorf("decode stk push response: %w", err)
	}
	if out.ResponseCode != responseOK {
		log.WithField("code", out.ResponseCode).Warn("[payment][gateway] stk push not accepted")
		return entities.GatewayAcceptance{}, &entities.GatewayRejection{Code: out.ResponseCode, Message: out.ResponseDescription}
	}

	log.WithField("correlation_id", out.CheckoutRequestID).Info("[payment][gateway] stk push accepted")
	return entities.GatewayAcceptance{
		CorrelationID:     out.CheckoutRequestID,
		MerchantRequestID: out.MerchantRequestID,
		ResponseCode:      out.ResponseCode,
		Description:       out.ResponseDescription,
		CustomerMessage:   out.CustomerMessage,
	}, nil
}

func (g *MpesaGateway) logger() logrus.FieldLogger {
	if g == nil || g.log == nil {
		return logrus.StandardLogger()
	}
	return g.log
}

// darajaTokenSource fetches client-credential tokens. Daraja expects a GET
// with basic auth, which the standard clientcredentials flow does not send.
type darajaTokenSource struct {
	client *http.Client
	url    string
	key    string
	secret string
	now    func() time.Time
}

type darajaTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

func (s *darajaTokenSource) Token() (*oauth2.Token, error) {
	req, err := http.NewRequest(http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(s.key, s.secret)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("m-pesa oauth: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return nil, rejectionFromBody(resp.StatusCode, raw)
	}

	var out darajaTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("m-pesa oauth: decode: %w", err)
	}
	if out.AccessToken == "" {
		return nil, errors.New("m-pesa oauth: empty access token")
	}
	ttl, err := strconv.Atoi(out.ExpiresIn)
	if err != nil || ttl <= 0 {
		ttl = 3599
	}
	return &oauth2.Token{
		AccessToken: out.AccessToken,
		TokenType:   "Bearer",
		Expiry:      s.now().Add(time.Duration(ttl) * time.Second),
	}, nil
}

func stkPassword(shortCode, passkey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortCode + passkey + timestamp))
}

func rejectionFromBody(status int, raw []byte) *entities.GatewayRejection {
	var e darajaErrorResponse
	if err := json.Unmarshal(raw, &e); err == nil && e.ErrorCode != "" {
		return &entities.GatewayRejection{Code: e.ErrorCode, Message: e.ErrorMessage}
	}
	return &entities.GatewayRejection{Code: "HTTP_" + strconv.Itoa(status), Message: http.StatusText(status)}
}
