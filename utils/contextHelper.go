package utils

import (
	"context"

	"github.com/mmdatafocus/maintenance_backend/appctx"
)

var (
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
	ContextKeyDomain        = appctx.ContextKeyDomain
)

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}

func GetDomainFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyDomain)
}

func SetDomainInContext(ctx context.Context, domain string) context.Context {
	return appctx.Set(ctx, ContextKeyDomain, domain)
}
