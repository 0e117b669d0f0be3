package msgx

import "github.com/ridermall/riderbot/errx"

// Error registry for msgx and its providers
var (
	Errors = errx.NewRegistry("MSG")

	ErrInvalidMessage            = Errors.Register("INVALID_MESSAGE", errx.TypeValidation, 400, "Message content does not match its declared type")
	ErrSendFailed                = Errors.Register("SEND_FAILED", errx.TypeExternal, 502, "Provider rejected the outbound message")
	ErrWebhookVerificationFailed = Errors.Register("WEBHOOK_VERIFICATION_FAILED", errx.TypeAuthorization, 403, "Webhook signature or verify token mismatch")
	ErrWebhookParseFailed        = Errors.Register("WEBHOOK_PARSE_FAILED", errx.TypeBadRequest, 400, "Webhook payload could not be parsed")
	ErrProviderConfigInvalid     = Errors.Register("PROVIDER_CONFIG_INVALID", errx.TypeValidation, 400, "Provider configuration is incomplete")
	ErrMediaFetchFailed          = Errors.Register("MEDIA_FETCH_FAILED", errx.TypeExternal, 502, "Provider media could not be resolved or downloaded")
)
