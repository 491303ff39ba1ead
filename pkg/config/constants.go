package config

// EnvPrefix scopes envconfig processing; individual fields carry fully
// qualified names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvTest = "test"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "FABLINK_APP_ENV"
	EnvPort     = "FABLINK_APP_PORT"
	EnvDBDSN    = "FABLINK_DB_DSN"
	EnvDBHost   = "FABLINK_DB_HOST"
	EnvDBUser   = "FABLINK_DB_USER"
	EnvDBName   = "FABLINK_DB_NAME"
	EnvRedisURL = "FABLINK_REDIS_URL"

	EnvJWTSecret = "FABLINK_JWT_SECRET"
	EnvJWTIssuer = "FABLINK_JWT_ISSUER"

	EnvGCPProjectID = "FABLINK_GCP_PROJECT_ID"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
