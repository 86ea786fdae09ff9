// Package config loads routekit.yaml, the configuration of the routekit
// CLI and playground.
//
// The file describes the initial URL, the routing options and a set of
// routers and redirectors to create once the library is initialized.
//
// # Configuration File Structure
//
//	url: http://localhost/
//	serve:
//	  addr: localhost:8080
//	routing:
//	  hashMode: multi
//	  defaultHash: false        # false, true or a hash path id
//	  disallowHashRouting: false
//	trace:
//	  routerHierarchy: true
//	routers:
//	  - id: main
//	    basePath: /
//	    routes:
//	      - name: home
//	        path: /
//	      - name: user
//	        path: /user/:id
//	  - id: admin
//	    parent: main
//	    basePath: /admin
//	    routes:
//	      - name: any
//	        path: /*
//	redirectors:
//	  - hash: false
//	    rules:
//	      - path: /old-user/:id
//	        href: /user/{{.id}}
//	        options:
//	          preserveQuery: [tab]
//
// Rule hrefs are text/template templates executed with the match
// parameters.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	inst, err := cfg.Instantiate(kernel.Active())
package config
