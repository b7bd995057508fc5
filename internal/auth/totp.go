package auth

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// TOTPSecret is a freshly generated shared secret plus its provisioning
// URL. Nothing is persisted until the caller confirms a working code.
type TOTPSecret struct {
	Base32     string
	OtpauthURL string
}

type TOTP struct {
	Issuer string
}

func (t TOTP) GenerateSecret(account string) (TOTPSecret, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      t.Issuer,
		AccountName: account,
		SecretSize:  20,
	})
	if err != nil {
		return TOTPSecret{}, fmt.Errorf("generate totp secret: %w", err)
	}
	return TOTPSecret{Base32: key.Secret(), OtpauthURL: key.URL()}, nil
}

// VerifyCode validates a 6-digit code against a base32 secret using
// 30-second steps, accepting one step of clock drift on each side.
func VerifyCode(code, secret string) bool {
	ok, err := totp.ValidateCustom(code, secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

// QRDataURL renders a provisioning URL as a PNG data URL for the
// enrollment dialog.
func QRDataURL(otpauthURL string) (string, error) {
	key, err := otp.NewKeyFromURL(otpauthURL)
	if err != nil {
		return "", fmt.Errorf("parse otpauth url: %w", err)
	}
	img, err := key.Image(256, 256)
	if err != nil {
		return "", fmt.Errorf("render qr: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode qr png: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
