// Copyright (c) 2026 Kyle McDowell.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"errors"

	"github.com/kylemcd/tablepick/party"
)

// ErrNotFound is returned when no session exists for an invite id.
var ErrNotFound = errors.New("session not found")

// Store persists sessions. The whole aggregate is saved and loaded as a
// unit; handlers follow a load-mutate-save cycle per request.
type Store interface {
	Load(inviteID string) (*party.Session, error)
	Save(s *party.Session) error
	Delete(inviteID string) error
}
