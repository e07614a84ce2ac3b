package gateways

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

func hmacHex(secret string, message []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

// verifyHex constant-time comparison of an expected hex digest with the received one
func verifyHex(secret string, message []byte, received string) bool {
	got, err := hex.DecodeString(strings.TrimSpace(received))
	if err != nil || len(got) == 0 {
		return false
	}
	want, _ := hex.DecodeString(hmacHex(secret, message))
	return hmac.Equal(want, got)
}

func parseReservationID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid reservation reference %q", ErrMalformedPayload, raw)
	}
	return id, nil
}
