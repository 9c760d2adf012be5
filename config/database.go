package config

// DBConfig contains PostgreSQL connection configuration. Used only when a
// postgres store backend is selected.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	Name     string `env:"NAME"     envDefault:"paymentd"`
	User     string `env:"USER"     envDefault:"paymentd"`
	Password string `env:"PASSWORD" envDefault:""`
	SSLMode  string `env:"SSLMODE"  envDefault:"disable"`

	// RunMigrationsOnStart applies the schema at startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS" envDefault:"true"`
}

// RedisConfig contains Redis connection configuration. Used only when a
// redis store backend is selected.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}
