// Package auth provides authentication for the lifting diary API.
//
// It supports two modes:
//   - "none": no authentication; all requests run as a seeded shared account
//   - "local": local user database with session cookies for browser clients
//     and Bearer tokens for API clients
//
// # Configuration
//
// Set AUTH_MODE to select the mode:
//
//	AUTH_MODE=none   # Default, no auth required
//	AUTH_MODE=local  # Requires user creation and login
//
// For local mode, additional configuration:
//
//	AUTH_SESSION_SECRET=<hex-32-bytes>  # Auto-generated if empty
//	AUTH_SESSION_LIFETIME=24h           # Session duration
//	AUTH_TOKEN_EXPIRY=720h              # API token expiry (30 days default)
//	AUTH_BCRYPT_COST=12                 # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true            # HTTPS-only cookies
//
// Handlers never read a user identifier from request payloads; the only
// trusted source is the context populated by the middleware:
//
//	userID := auth.GetUserID(c)
package auth
