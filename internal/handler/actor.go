package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/fundwell/credit-engine/internal/domain"
)

// Actor identity is resolved by the external authentication layer and
// forwarded on these headers. Handlers never look actors up themselves.
const (
	headerActorRole       = "X-Actor-Role"
	headerActorUserID     = "X-Actor-User-Id"
	headerActorCustomerID = "X-Actor-Customer-Id"
)

func actorFromRequest(r *http.Request) (domain.Actor, error) {
	actor := domain.Actor{Role: r.Header.Get(headerActorRole)}
	if actor.Role == "" {
		return actor, errors.New("missing " + headerActorRole + " header")
	}

	if raw := r.Header.Get(headerActorUserID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return actor, errors.New("invalid " + headerActorUserID + " header")
		}
		actor.UserID = &id
	}

	if raw := r.Header.Get(headerActorCustomerID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return actor, errors.New("invalid " + headerActorCustomerID + " header")
		}
		actor.CustomerID = &id
	}

	return actor, nil
}
