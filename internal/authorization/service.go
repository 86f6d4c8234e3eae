// Package authorization guards the back-office surface. Regular users
// never pass through here; ownership checks in the services cover them.
package authorization

import (
	"context"
	"errors"
)

const (
	ObjectSession = "session"
	ObjectOrder   = "order"
	ObjectLedger  = "ledger"
	ObjectPolicy  = "policy"
)

const (
	ActionSessionInspect = "session.inspect"
	ActionOrderInspect   = "order.inspect"
	ActionLedgerView     = "ledger.view"
	ActionPolicyManage   = "policy.manage"
)

const (
	RoleAdmin   = "role:admin"
	RoleSupport = "role:support"
)

var (
	ErrInvalidActor = errors.New("invalid_actor")
	ErrForbidden    = errors.New("forbidden")
)

type Service interface {
	Authorize(ctx context.Context, actor, object, action string) error
	Grant(ctx context.Context, actor, role string) error
	Revoke(ctx context.Context, actor, role string) error
}
