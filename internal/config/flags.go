package config

import (
	"flag"
	"fmt"
	"net"
	"strconv"
	"time"
)

// NetAddress is the -a flag value.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses configuration flags from args (without the program name).
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-redis redis URL of the whitelist cache
//	-token-issuer token issuer name
//	-private-sign-key session token signing key
//	-public-sign-key public/link token signing key
//	-session-ttl session lifetime (e.g., "24h")
//	-registration-ttl registration token lifetime (e.g., "1h")
//	-reset-ttl password reset link window (e.g., "10m")
//	-csrf-ttl anti-forgery token lifetime (e.g., "1m")
//	-cookie-domain domain of the public token cookie
//	-production secure cookies, no debug payloads
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-mail-driver smtp, postmark or log
//	-admin-email address notified about registrations needing review
func ParseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("oni-auth", flag.ContinueOnError)

	var serverAddress NetAddress
	var databaseDSN, redisURL, jsonConfigPath string
	var tokenIssuer, privateSignKey, publicSignKey string
	var sessionTTL, registrationTTL, resetTTL, csrfTTL, requestTimeout time.Duration
	var cookieDomain, mailDriver, adminEmail string
	var production bool

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&redisURL, "redis", "", "Redis URL of the whitelist cache")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.StringVar(&privateSignKey, "private-sign-key", "", "Session token signing key")
	fs.StringVar(&publicSignKey, "public-sign-key", "", "Public and link token signing key")
	fs.DurationVar(&sessionTTL, "session-ttl", 0, "Session lifetime (e.g., 24h)")
	fs.DurationVar(&registrationTTL, "registration-ttl", 0, "Registration token lifetime (e.g., 1h)")
	fs.DurationVar(&resetTTL, "reset-ttl", 0, "Password reset link window (e.g., 10m)")
	fs.DurationVar(&csrfTTL, "csrf-ttl", 0, "Anti-forgery token lifetime (e.g., 1m)")
	fs.StringVar(&cookieDomain, "cookie-domain", "", "Domain of the public token cookie")
	fs.BoolVar(&production, "production", false, "Production mode")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&mailDriver, "mail-driver", "", "Mail driver: smtp, postmark or log")
	fs.StringVar(&adminEmail, "admin-email", "", "Address notified about registrations needing review")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			TokenIssuer:     tokenIssuer,
			PrivateSignKey:  privateSignKey,
			PublicSignKey:   publicSignKey,
			SessionTTL:      sessionTTL,
			RegistrationTTL: registrationTTL,
			ResetTTL:        resetTTL,
			CSRFTTL:         csrfTTL,
			CookieDomain:    cookieDomain,
			Production:      production,
			AdminEmail:      adminEmail,
		},
		Storage: Storage{
			DB:    DB{DSN: databaseDSN},
			Redis: Redis{URL: redisURL},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Mail:         Mail{Driver: mailDriver},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String joins the address back into host:port. A zero address is "".
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set accepts host:port where host is empty (all interfaces), "localhost"
// or an IP literal, and port is within 1-65535.
func (a *NetAddress) Set(s string) error {
	host, rawPort, err := net.SplitHostPort(s)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	port, err := strconv.Atoi(rawPort)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: port %q is not in range 1-65535", ErrInvalidAddress, rawPort)
	}
	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return fmt.Errorf("%w: host %q is neither localhost nor an IP", ErrInvalidAddress, host)
	}

	a.Host, a.Port = host, port
	return nil
}
