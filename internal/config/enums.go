package config

import "net/http"

// Environment represents the runtime environment
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

func (e Environment) IsValid() bool {
	switch e {
	case EnvDevelopment, EnvProduction:
		return true
	}
	return false
}

func (e Environment) IsProduction() bool {
	return e == EnvProduction
}

// CookieSameSite represents cookie SameSite policy
type CookieSameSite string

const (
	SameSiteStrict CookieSameSite = "strict"
	SameSiteLax    CookieSameSite = "lax"
	SameSiteNone   CookieSameSite = "none"
)

func (c CookieSameSite) IsValid() bool {
	switch c {
	case SameSiteStrict, SameSiteLax, SameSiteNone:
		return true
	}
	return false
}

func (c CookieSameSite) ToHTTP() http.SameSite {
	switch c {
	case SameSiteStrict:
		return http.SameSiteStrictMode
	case SameSiteNone:
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// SessionStoreType represents the session storage backend
type SessionStoreType string

const (
	StoreTypeMemory SessionStoreType = "memory"
	StoreTypeCookie SessionStoreType = "cookie"
)

func (s SessionStoreType) IsValid() bool {
	switch s {
	case StoreTypeMemory, StoreTypeCookie:
		return true
	}
	return false
}

// CredentialStoreType selects where OAuth tokens are persisted.
type CredentialStoreType string

const (
	CredentialStoreMemory CredentialStoreType = "memory"
	CredentialStoreSQL    CredentialStoreType = "sql"
)

func (s CredentialStoreType) IsValid() bool {
	switch s {
	case CredentialStoreMemory, CredentialStoreSQL:
		return true
	}
	return false
}

// DatabaseDriver names a database/sql driver supported by the credential store.
type DatabaseDriver string

const (
	DriverMySQL  DatabaseDriver = "mysql"
	DriverSQLite DatabaseDriver = "sqlite"
)

func (d DatabaseDriver) IsValid() bool {
	switch d {
	case DriverMySQL, DriverSQLite:
		return true
	}
	return false
}
