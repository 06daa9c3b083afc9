package config

// EnvPrefix scopes every envconfig lookup; variable names carry the full
// HAGGLEHUB_ prefix in their tags so the prefix stays empty here.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "HAGGLEHUB_DB_DSN"
	EnvDBHost = "HAGGLEHUB_DB_HOST"
	EnvDBUser = "HAGGLEHUB_DB_USER"
	EnvDBName = "HAGGLEHUB_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
