package config

import (
	"github.com/vango-dev/routekit/pkg/kernel"
	"github.com/vango-dev/routekit/pkg/redirect"
	"github.com/vango-dev/routekit/pkg/router"
)

// Instance holds the routers and redirectors created from a Config.
type Instance struct {
	// Routers lists the routers in declaration order.
	Routers []*router.Engine

	// ByID indexes the routers that have an id.
	ByID map[string]*router.Engine

	Redirectors []*redirect.Redirector
}

// Instantiate creates the configured routers and redirectors on k.
// Redirectors are created last so that their first scan sees every
// router. On error everything created so far is disposed.
func (c *Config) Instantiate(k *kernel.Kernel) (inst *Instance, err error) {
	inst = &Instance{ByID: make(map[string]*router.Engine)}
	defer func() {
		if err != nil {
			inst.Dispose()
			inst = nil
		}
	}()

	for _, rc := range c.Routers {
		e, err := router.New(k, router.Options{Parent: inst.ByID[rc.Parent], Hash: rc.Hash.Hash})
		if err != nil {
			return inst, err
		}
		inst.Routers = append(inst.Routers, e)
		if rc.ID != "" {
			e.SetID(rc.ID)
			inst.ByID[rc.ID] = e
		}
		if rc.BasePath != "" {
			e.SetBasePath(rc.BasePath)
		}
		for _, route := range rc.Routes {
			info, err := route.RouteInfo()
			if err != nil {
				return inst, err
			}
			if err := e.SetRoute(route.Name, info); err != nil {
				return inst, err
			}
		}
	}

	for _, dc := range c.Redirectors {
		r, err := redirect.New(k, redirect.Options{
			Hash:    dc.Hash.Hash,
			Parent:  inst.ByID[dc.Parent],
			Replace: dc.Replace,
		})
		if err != nil {
			return inst, err
		}
		inst.Redirectors = append(inst.Redirectors, r)
		for _, rule := range dc.Rules {
			rd, err := rule.Redirection()
			if err != nil {
				return inst, err
			}
			if err := r.Push(rd); err != nil {
				return inst, err
			}
		}
	}
	return inst, nil
}

// Dispose disposes every router and redirector.
func (i *Instance) Dispose() {
	if i == nil {
		return
	}
	for _, r := range i.Redirectors {
		r.Dispose()
	}
	for j := len(i.Routers) - 1; j >= 0; j-- {
		i.Routers[j].Dispose()
	}
}
