package config

const (
	// EnvPrefix namespaces every environment variable the app reads.
	EnvPrefix = "RELAYPAY"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "RELAYPAY_DB_DSN"
	EnvDBHost = "RELAYPAY_DB_HOST"
	EnvDBUser = "RELAYPAY_DB_USER"
	EnvDBName = "RELAYPAY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
