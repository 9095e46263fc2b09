package salesforce

import (
	"errors"
	"strings"
)

const (
	// DefaultHost is the production login host
	DefaultHost = "login.salesforce.com"
	// DefaultAPIVersion is the REST API version every request is made against
	DefaultAPIVersion = "47.0"
)

// Config holds the connected-app credentials for the CRM
type Config struct {
	// Username of the integration user
	Username string
	// Password of the integration user
	Password string
	// SecurityToken is appended to the password for the password grant
	SecurityToken string
	// ClientID is the connected app consumer key
	ClientID string
	// ClientSecret is the connected app consumer secret
	ClientSecret string
	// Host is the login host, e.g. test.salesforce.com for sandboxes
	Host string
	// APIVersion is the REST API version
	APIVersion string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// Errors for Salesforce configuration
var (
	ErrConfigMissingUsername     = errors.New("salesforce: username is required")
	ErrConfigMissingPassword     = errors.New("salesforce: password is required")
	ErrConfigMissingClientID     = errors.New("salesforce: client id is required")
	ErrConfigMissingClientSecret = errors.New("salesforce: client secret is required")
)

// Validate checks required credentials and fills in defaults
func (c *Config) Validate() error {
	if c.Username == "" {
		return ErrConfigMissingUsername
	}
	if c.Password == "" {
		return ErrConfigMissingPassword
	}
	if c.ClientID == "" {
		return ErrConfigMissingClientID
	}
	if c.ClientSecret == "" {
		return ErrConfigMissingClientSecret
	}
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// loginURL returns the OAuth token endpoint. A host given with a scheme is used as is.
func (c *Config) loginURL() string {
	host := strings.TrimRight(c.Host, "/")
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	return host + "/services/oauth2/token"
}
