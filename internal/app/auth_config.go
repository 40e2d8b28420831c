package app

import (
	"github.com/uiforge/uiforge/internal/auth"
	"github.com/uiforge/uiforge/internal/services"
)

// JWTServiceConfig converts AuthConfig into the parameters expected by the JWT service.
func (c AuthConfig) JWTServiceConfig() auth.JWTConfig {
	ttl := c.JWT.TTL
	if ttl <= 0 {
		ttl = auth.DefaultAccessTokenTTL
	}

	return auth.JWTConfig{
		Secret:         c.JWT.Secret,
		Issuer:         c.JWT.Issuer,
		AccessTokenTTL: ttl,
	}
}

// OTPServiceOptions converts AuthConfig into passcode service options.
func (c AuthConfig) OTPServiceOptions() []services.OTPOption {
	var opts []services.OTPOption
	if c.OTP.TTL > 0 {
		opts = append(opts, services.WithOTPTTL(c.OTP.TTL))
	}
	if c.OTP.Digits > 0 {
		opts = append(opts, services.WithOTPDigits(c.OTP.Digits))
	}
	return opts
}
