package config

const EnvPrefix = "HYDRATION"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "HYDRATION_APP_ENV"
	EnvPort     = "HYDRATION_APP_PORT"
	EnvLogLevel = "HYDRATION_LOG_LEVEL"

	EnvDBDSN  = "HYDRATION_DB_DSN"
	EnvDBHost = "HYDRATION_DB_HOST"
	EnvDBPort = "HYDRATION_DB_PORT"
	EnvDBUser = "HYDRATION_DB_USER"
	EnvDBName = "HYDRATION_DB_NAME"

	EnvRedisURL = "HYDRATION_REDIS_URL"

	EnvIdentityIssuer       = "HYDRATION_IDENTITY_ISSUER"
	EnvIdentityJWKSURL      = "HYDRATION_IDENTITY_JWKS_URL"
	EnvIdentityPublicKeyPEM = "HYDRATION_IDENTITY_PUBLIC_KEY_PEM"
	EnvIdentityParties      = "HYDRATION_IDENTITY_AUTHORIZED_PARTIES"

	EnvCatalogDefaultLimit = "HYDRATION_CATALOG_DEFAULT_LIMIT"
	EnvCronViewRetention   = "HYDRATION_CRON_VIEW_RETENTION_DAYS"
)

// discreteDBEnvVars must all be set when no DSN is provided.
var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
