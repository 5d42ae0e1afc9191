// Copyright (c) 2026 Kyle McDowell.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides authentication and token generation utilities.

# Host Keys

Host keys use HMAC-SHA256 to create deterministic, verifiable keys:

	hostKey := auth.GenerateHostKey(inviteID, salt)
	err := auth.ValidateHostKey(inviteID, hostKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same invite ID and salt always produce the same key. This allows
validation without storing the key in the database.

# Diner Tokens

Diner tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateDinerToken()

Tokens are URL-safe base64 encoded and identify diners on multi-device
sessions. Each diner gets a unique token when joining.

# Invite IDs

Invite IDs are short random base62 codes for shareable session links:

	inviteID, err := auth.GenerateInviteID()

Base62 (alphanumeric only) keeps them friendly in URLs and group chats.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters

# IP Hashing

For privacy-preserving fraud detection:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
