// Package payments covers the online payment flow: creating gateway orders,
// verifying capture signatures and turning verified payments into orders.
package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Verifier checks gateway capture signatures. The gateway signs
// "<gateway order id>|<payment id>" with HMAC-SHA256 over the shared key
// secret and sends the hex digest back with the capture callback.
type Verifier struct {
	secret []byte
}

// NewVerifier constructs a Verifier from the gateway key secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Signature computes the expected hex digest for an order/payment pair.
func (v *Verifier) Signature(gatewayOrderID, paymentID string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether the submitted signature matches, in constant time.
func (v *Verifier) Verify(gatewayOrderID, paymentID, signature string) bool {
	expected := v.Signature(gatewayOrderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
