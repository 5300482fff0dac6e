package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr        string
	DBPath      string
	PublicDir   string
	TokenSecret string
	TokenTTL    time.Duration
	Environment string
	Debug       bool

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	// HTTP mail provider fallback; empty URL disables it
	MailAPIURL string
	MailAPIKey string
}

// ParseFlags builds the configuration from command line flags, with
// environment variables (optionally from a .env file) as defaults.
func ParseFlags() (cfg Config, err error) {
	godotenv.Load()

	var host string
	flag.StringVar(&host, "host", envOr("HOST", "0.0.0.0"), "listen host name")
	var port uint
	flag.UintVar(&port, "port", envUint("PORT", 5001), "listen port number")
	flag.StringVar(&cfg.DBPath, "db-path", envOr("DB_PATH", "canova.sqlite"), "path to SQLite3 DB file")
	flag.StringVar(&cfg.PublicDir, "public-dir", envOr("PUBLIC_DIR", "public"), "directory of static frontend assets")
	flag.StringVar(&cfg.TokenSecret, "token-secret", os.Getenv("JWT_SECRET"), "secret key for auth token signing")
	var ttl uint
	flag.UintVar(&ttl, "token-ttl", envUint("JWT_TTL_HOURS", 24*7), "auth token TTL in hours")
	flag.StringVar(&cfg.Environment, "env", envOr("APP_ENV", "development"), "environment name (development|production)")
	flag.BoolVar(&cfg.Debug, "debug", os.Getenv("DEBUG") != "", "log at DEBUG level")

	flag.StringVar(&cfg.SMTPHost, "smtp-host", envOr("EMAIL_HOST", "smtp.gmail.com"), "SMTP server host")
	var smtpPort uint
	flag.UintVar(&smtpPort, "smtp-port", envUint("EMAIL_PORT", 587), "SMTP server port")
	flag.StringVar(&cfg.SMTPUser, "smtp-user", os.Getenv("EMAIL_USER"), "SMTP user name")
	flag.StringVar(&cfg.SMTPPass, "smtp-pass", os.Getenv("EMAIL_PASS"), "SMTP password")
	flag.StringVar(&cfg.MailFrom, "mail-from", os.Getenv("EMAIL_FROM"), "sender address for outgoing mail")
	flag.StringVar(&cfg.MailAPIURL, "mail-api-url", os.Getenv("EMAIL_API_URL"), "HTTP mail provider endpoint")
	flag.StringVar(&cfg.MailAPIKey, "mail-api-key", os.Getenv("EMAIL_API_KEY"), "HTTP mail provider API key")
	flag.Parse()

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.TokenTTL = time.Duration(ttl) * time.Hour
	cfg.SMTPPort = int(smtpPort)
	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.SMTPUser
	}

	if cfg.TokenSecret == "" {
		err = errors.New("missing parameter -token-secret (env JWT_SECRET)")
	}

	return
}

func (cfg Config) Production() bool {
	return cfg.Environment == "production"
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envUint(key string, fallback uint) uint {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			return uint(n)
		}
	}
	return fallback
}
