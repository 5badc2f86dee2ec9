// Package routing runs the inbound-message resolution pipeline: contact
// lookup, funnel derivation, playbook activation, parameter marshalling, and
// the agent call.
package routing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leadwireai/leadwire/internal/agent"
	"github.com/leadwireai/leadwire/internal/contact"
	"github.com/leadwireai/leadwire/internal/funnel"
	"github.com/leadwireai/leadwire/internal/playbook"
	"github.com/leadwireai/leadwire/internal/tenant"
)

// RouteRequest is one parsed inbound message.
type RouteRequest struct {
	TenantID  string
	ChannelID string
	UserID    string
	Text      string
}

// RouteResult is the outcome of one pipeline run. Matched is false when the
// flow ended deliberately with no agent call (inactive playbook, or contact
// miss under the reject policy); that is a policy outcome, not an error.
type RouteResult struct {
	Matched  bool
	FunnelID string
	Replies  []string
}

// Pipeline wires the resolution stages. All collaborators are injected; the
// pipeline itself holds no mutable state and is safe for concurrent use.
type Pipeline struct {
	tenants      *tenant.Service
	contacts     *contact.Resolver
	agentClient  agent.Client
	languageCode string
	logger       *slog.Logger
}

func NewPipeline(log *slog.Logger, tenants *tenant.Service, contacts *contact.Resolver, agentClient agent.Client, languageCode string) *Pipeline {
	return &Pipeline{
		tenants:      tenants,
		contacts:     contacts,
		agentClient:  agentClient,
		languageCode: languageCode,
		logger:       log.With(slog.String("service", "routing")),
	}
}

// Route resolves the request and calls the agent. Errors from the underlying
// stages propagate so the caller can decide whether to answer, retry, or drop.
func (p *Pipeline) Route(ctx context.Context, req RouteRequest) (RouteResult, error) {
	res, err := p.contacts.Resolve(ctx, req.TenantID, req.UserID)
	if err != nil {
		return RouteResult{}, err
	}
	if !res.Found {
		return RouteResult{}, nil
	}

	funnelID := funnel.Resolve(res.Contact.Status)

	tn, err := p.tenants.Get(ctx, req.TenantID)
	if err != nil {
		return RouteResult{}, err
	}

	cfg, err := playbook.Resolve(tn, funnelID)
	if err != nil {
		return RouteResult{}, err
	}
	if !cfg.Active {
		p.logger.Info("playbook inactive, ending flow",
			slog.String("tenant_id", req.TenantID),
			slog.String("funnel_id", funnelID),
		)
		return RouteResult{FunnelID: funnelID}, nil
	}

	params := BuildSessionParams(BuildInput{
		TenantID:       req.TenantID,
		ChannelID:      req.ChannelID,
		UserID:         req.UserID,
		FunnelID:       funnelID,
		PlaybookFields: cfg.Payload,
		ContactFields:  res.Contact.Fields(),
	})

	replies, err := p.agentClient.DetectIntent(ctx, agent.DetectIntentRequest{
		Session:      p.agentClient.SessionPath(req.TenantID, req.UserID),
		Text:         req.Text,
		LanguageCode: p.languageCode,
		Parameters:   params,
	})
	if err != nil {
		return RouteResult{}, fmt.Errorf("detect intent: %w", err)
	}

	p.logger.Info("message routed",
		slog.String("tenant_id", req.TenantID),
		slog.String("funnel_id", funnelID),
		slog.Int("replies", len(replies)),
	)
	return RouteResult{
		Matched:  true,
		FunnelID: funnelID,
		Replies:  replies,
	}, nil
}
