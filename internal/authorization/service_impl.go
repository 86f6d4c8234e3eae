package authorization

import (
	"context"
	_ "embed"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		{RoleAdmin, ObjectSession, ActionSessionInspect},
		{RoleAdmin, ObjectOrder, ActionOrderInspect},
		{RoleAdmin, ObjectLedger, ActionLedgerView},
		{RoleAdmin, ObjectPolicy, ActionPolicyManage},

		{RoleSupport, ObjectSession, ActionSessionInspect},
		{RoleSupport, ObjectOrder, ActionOrderInspect},
		{RoleSupport, ObjectLedger, ActionLedgerView},
	}
	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return err
		}
	}
	return nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, actor, object, action string) error {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return ErrInvalidActor
	}
	if object == "" || action == "" {
		return ErrForbidden
	}

	allowed, err := s.enforcer.Enforce("user:"+actor, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Warn("authorization denied",
			zap.String("actor", actor),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}
	return nil
}

func (s *ServiceImpl) Grant(ctx context.Context, actor, role string) error {
	if strings.TrimSpace(actor) == "" {
		return ErrInvalidActor
	}
	if role != RoleAdmin && role != RoleSupport {
		return ErrForbidden
	}
	_, err := s.enforcer.AddGroupingPolicy("user:"+actor, role)
	return err
}

func (s *ServiceImpl) Revoke(ctx context.Context, actor, role string) error {
	if strings.TrimSpace(actor) == "" {
		return ErrInvalidActor
	}
	_, err := s.enforcer.RemoveGroupingPolicy("user:"+actor, role)
	return err
}
