package config

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = "VE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "VE_DB_DSN"
	EnvDBHost = "VE_DB_HOST"
	EnvDBUser = "VE_DB_USER"
	EnvDBName = "VE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
