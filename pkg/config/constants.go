package config

const (
	EnvPrefix = "storefront"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv             = "STOREFRONT_APP_ENV"
	EnvLogLevel           = "STOREFRONT_LOG_LEVEL"
	EnvAPIBaseURL         = "STOREFRONT_API_BASE_URL"
	EnvAPITimeout         = "STOREFRONT_API_TIMEOUT"
	EnvAPIAuthHeader      = "STOREFRONT_API_AUTH_HEADER"
	EnvRedisURL           = "STOREFRONT_REDIS_URL"
	EnvRedisAddr          = "STOREFRONT_REDIS_ADDR"
	EnvCartTaxRate        = "STOREFRONT_CART_TAX_RATE"
	EnvCartCouponCode     = "STOREFRONT_CART_COUPON_CODE"
	EnvCartCouponDiscount = "STOREFRONT_CART_COUPON_DISCOUNT"
	EnvCartGuestName      = "STOREFRONT_CART_GUEST_NAME"

	DefaultTaxRate        = "0.25"
	DefaultCouponDiscount = "0.9"
)
