package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// signingPayload builds the canonical colon-separated string the gateway
// signs: pspReference:originalReference:merchantAccountCode:
// merchantReference:value:currency:eventCode:success.
func signingPayload(item *NotificationRequestItem) string {
	fields := []string{
		item.PSPReference,
		item.OriginalReference,
		item.MerchantAccountCode,
		item.MerchantReference,
		strconv.FormatInt(item.Amount.Value, 10),
		item.Amount.Currency,
		item.EventCode,
		item.Success,
	}
	return strings.Join(fields, ":")
}

// SignNotification computes the base64 HMAC-SHA256 signature of a
// notification item. The key is the hex-encoded secret from the gateway's
// webhook configuration.
func SignNotification(item *NotificationRequestItem, hmacKey string) (string, error) {
	key, err := hex.DecodeString(hmacKey)
	if err != nil {
		return "", fmt.Errorf("invalid hmac key: %w", err)
	}
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(signingPayload(item)))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// ValidateHMAC checks the signature carried in the item's additionalData
// against a freshly computed one. Payload fields must not be trusted until
// this returns true.
func ValidateHMAC(item *NotificationRequestItem, hmacKey string) (bool, error) {
	got, ok := item.AdditionalData[hmacSignatureKey]
	if !ok || got == "" {
		return false, fmt.Errorf("notification carries no hmac signature")
	}
	want, err := SignNotification(item, hmacKey)
	if err != nil {
		return false, err
	}
	return hmac.Equal([]byte(got), []byte(want)), nil
}
