package model

import "time"

// Role identifiers as seeded in the `roles` table.  Registration only
// accepts the two self-service roles; the admin role is assigned manually.
const (
    RoleAdmin    uint8 = 1
    RoleLandlord uint8 = 2
    RoleTenant   uint8 = 3
)

// RoleNameOf maps a role id to the name stored in the roles table.  Unknown
// ids map to the empty string.
func RoleNameOf(id uint8) string {
    switch id {
    case RoleAdmin:
        return "ADMIN"
    case RoleLandlord:
        return "LANDLORD"
    case RoleTenant:
        return "TENANT"
    }
    return ""
}

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column.  The json tags are omitted
// because these structs are used internally by the repository layer;
// handlers define separate response types with appropriate JSON tags.
//
// Fields:
//  ID              – primary key identifier of the user.
//  Email           – unique email address (exact-match unique, see repository).
//  PasswordHash    – bcrypt hashed password.
//  FirstName       – given name.
//  LastName        – family name.
//  RoleID          – foreign key into the roles table (tinyint).
//  RoleName        – role name joined from the roles table (e.g. LANDLORD).
//  IsActive        – whether the account is active.
//  IsEmailVerified – whether the email address has been confirmed.
//  CreatedAt       – timestamp of creation.
//  UpdatedAt       – timestamp of last update.
type User struct {
    ID              uint64    // users.id
    Email           string    // users.email
    PasswordHash    string    // users.password_hash
    FirstName       string    // users.first_name
    LastName        string    // users.last_name
    RoleID          uint8     // users.role_id (references roles.id)
    RoleName        string    // roles.name (joined)
    IsActive        bool      // users.is_active
    IsEmailVerified bool      // users.is_email_verified
    CreatedAt       time.Time // users.created_at
    UpdatedAt       time.Time // users.updated_at
}

// Role represents a row in the `roles` table.  It maps a small integer ID
// to a role name.
type Role struct {
    ID   uint8  // roles.id
    Name string // roles.name
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each refresh
// token belongs to a user and carries metadata for expiry and revocation.
// The plain token is never stored; only its SHA-256 hash.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – owner of the token.
//  TokenHash   – SHA-256 hex digest of the token value.
//  ExpiresAt   – expiration timestamp of the token.
//  RevokedAt   – when the token was revoked (null if still active).
//  CreatedByIP – client address recorded at issuance, when known.
//  UserAgent   – client user agent recorded at issuance, when known.
//  CreatedAt   – timestamp of creation.
type RefreshToken struct {
    ID          uint64     // refresh_tokens.id
    UserID      uint64     // refresh_tokens.user_id
    TokenHash   string     // refresh_tokens.token_hash
    ExpiresAt   time.Time  // refresh_tokens.expires_at
    RevokedAt   *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedByIP string     // refresh_tokens.created_by_ip
    UserAgent   string     // refresh_tokens.user_agent
    CreatedAt   time.Time  // refresh_tokens.created_at
}
