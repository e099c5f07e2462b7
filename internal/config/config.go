package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strconv"  // strconv converts strings to other types
    "strings"  // strings splits list-valued variables
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations
// and costs, and a slice for the upload extension allow-list.
type Config struct {
    Env            string   // application environment (e.g. "dev", "prod")
    Port           string   // HTTP port to listen on
    DBUser         string   // database username
    DBPass         string   // database password (optional)
    DBHost         string   // database host address
    DBPort         string   // database port number
    DBName         string   // database name
    JWTSecret      string   // secret used to sign JWTs
    JWTIssuer      string   // issuer claim placed into access tokens
    JWTAudience    string   // audience claim placed into access tokens
    AccessTTLMin   int      // access token time-to-live in minutes
    RefreshTTLDays int      // refresh token time-to-live in days
    BcryptCost     int      // bcrypt cost for password hashing
    StorageBase    string   // base directory for uploaded files (outside the web root)
    MaxUploadMB    int64    // maximum accepted upload size in megabytes
    AllowedExts    []string // permitted image file extensions, without dots
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Upload and token
// settings fall back to the platform defaults when unset.
func Load() Config {
    return Config{
        Env:            must("APP_ENV"),
        Port:           must("APP_PORT"),
        DBUser:         must("DB_USER"),
        DBPass:         os.Getenv("DB_PASS"), // empty password allowed
        DBHost:         must("DB_HOST"),
        DBPort:         must("DB_PORT"),
        DBName:         must("DB_NAME"),
        JWTSecret:      must("JWT_SECRET"),
        JWTIssuer:      envOr("JWT_ISSUER", "uniliving"),
        JWTAudience:    envOr("JWT_AUDIENCE", "uniliving-api"),
        AccessTTLMin:   envOrInt("ACCESS_TOKEN_TTL_MIN", 60),
        RefreshTTLDays: envOrInt("REFRESH_TOKEN_TTL_DAYS", 7),
        BcryptCost:     envOrInt("BCRYPT_COST", 12),
        StorageBase:    envOr("FILE_STORAGE_DIR", "uploads"),
        MaxUploadMB:    int64(envOrInt("MAX_UPLOAD_MB", 10)),
        AllowedExts:    envOrList("ALLOWED_IMAGE_EXTS", []string{"jpg", "jpeg", "png", "gif", "webp"}),
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// envOr returns the variable's value or the provided default when unset.
func envOr(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

// envOrInt is like envOr but converts the value to an integer.  Invalid
// numbers are fatal rather than silently replaced, so a typo in deployment
// configuration is caught at startup.
func envOrInt(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, v)
    }
    return n
}

// envOrList splits a comma-separated variable into trimmed lowercase items.
func envOrList(key string, def []string) []string {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    out := []string{}
    for _, p := range strings.Split(v, ",") {
        p = strings.ToLower(strings.TrimSpace(p))
        if p != "" {
            out = append(out, p)
        }
    }
    if len(out) == 0 {
        return def
    }
    return out
}
