package config

// Config holds all configuration for the application.
type Config struct {
	DBName         string
	MigrationsDir  string
	Port           string
	StorageBackend string
	JWTSecret      string
	CORSOrigins    []string
	Turso          TursoConfig
	Mongo          MongoConfig
	Slack          SlackConfig
	ProjectID      string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type MongoConfig struct {
	URI      string
	Database string
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

const (
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// UseMongo reports whether the document store should back the application.
func (c Config) UseMongo() bool {
	return c.StorageBackend == BackendMongo
}

// SlackEnabled reports whether match events should be posted to Slack.
func (c Config) SlackEnabled() bool {
	return c.Slack.Token != "" && c.Slack.ChannelID != ""
}
