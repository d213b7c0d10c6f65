package middleware

import (
	"crypto/subtle"
	"net"
	"net/http"
	"strings"

	"harambee_billing/pkg"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	CallbackTokenHeader = "X-Callback-Token"
	CallbackTokenQuery  = "token"
)

var errForbiddenOrigin = pkg.NewDomainErrorSimple("FORBIDDEN_ORIGIN", "Callback origin not allowed", http.StatusForbidden)

// CallbackOriginConfig lists the checks a callback must pass. An empty Token
// or an empty AllowedNets disables that check.
type CallbackOriginConfig struct {
	Token       string
	AllowedNets []*net.IPNet
}

// CallbackOrigin rejects gateway callbacks that do not carry the shared token
// (query parameter or header) or that come from outside the allowed networks.
// Register the callback URL with the gateway as ".../v1/mpesa/callback?token=<CALLBACK_TOKEN>".
func CallbackOrigin(cfg CallbackOriginConfig, log logrus.FieldLogger) gin.HandlerFunc {
	if log == nil {
		log = logrus.StandardLogger()
	}
	token := []byte(strings.TrimSpace(cfg.Token))

	return func(c *gin.Context) {
		ip := c.ClientIP()

		if len(token) > 0 {
			got := c.Query(CallbackTokenQuery)
			if got == "" {
				got = c.GetHeader(CallbackTokenHeader)
			}
			if subtle.ConstantTimeCompare([]byte(got), token) != 1 {
				log.WithField("client_ip", ip).Warn("[payment][callback] rejected callback: bad token")
				c.AbortWithStatusJSON(errForbiddenOrigin.HTTPStatus, errForbiddenOrigin.ToHTTPError())
				return
			}
		}

		if len(cfg.AllowedNets) > 0 && !allowed(cfg.AllowedNets, net.ParseIP(ip)) {
			log.WithField("client_ip", ip).Warn("[payment][callback] rejected callback: address not allowed")
			c.AbortWithStatusJSON(errForbiddenOrigin.HTTPStatus, errForbiddenOrigin.ToHTTPError())
			return
		}

		c.Next()
	}
}

func allowed(nets []*net.IPNet, ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
