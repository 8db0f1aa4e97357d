// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package auth

// # Authentication Constraints

const (
	// MaxFailedLogins is the consecutive-failure threshold at which an
	// account locks. The counter is checked before password comparison, so
	// a locked account rejects even a correct password. There is no timed
	// unlock: only a successful login below the threshold or an
	// administrative reset clears the counter.
	MaxFailedLogins = 5

	// RefreshTokenLength is the byte length of entropy behind the opaque
	// refresh token. 48 bytes keeps the base64url rendering compact while
	// staying far beyond brute-force reach.
	RefreshTokenLength = 48

	// MinPasswordLength is the minimum accepted password length at
	// registration and password change.
	MinPasswordLength = 6
)
