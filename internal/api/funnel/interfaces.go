package funnel

import (
	funneluc "github.com/futig/ai-compass/internal/usecase/funnel"
)

type VisitorRegistry interface {
	Visitor(id string) *funneluc.Visitor
	Lookup(id string) (*funneluc.Visitor, bool)
	Forget(id string)
}
