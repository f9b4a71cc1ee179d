package config

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "LONOLEGGI"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "LONOLEGGI_APP_ENV"
	EnvPort   = "LONOLEGGI_APP_PORT"

	EnvDBDSN  = "LONOLEGGI_DB_DSN"
	EnvDBHost = "LONOLEGGI_DB_HOST"
	EnvDBUser = "LONOLEGGI_DB_USER"
	EnvDBName = "LONOLEGGI_DB_NAME"

	EnvRedisURL = "LONOLEGGI_REDIS_URL"

	EnvJWTSecret = "LONOLEGGI_JWT_SECRET"
	EnvJWTIssuer = "LONOLEGGI_JWT_ISSUER"

	EnvStripeAPIKey = "LONOLEGGI_STRIPE_API_KEY"
	EnvStripeSecret = "LONOLEGGI_STRIPE_SECRET"
)

// componentDBEnvVars are the variables required to assemble a DSN when
// LONOLEGGI_DB_DSN is not provided directly.
var componentDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
