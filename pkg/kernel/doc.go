// Package kernel holds the process-wide routing state: the options
// registry, the Location, the logger and the router trace registry.
//
// InitCore installs a Kernel and returns the function that tears it down.
// Routers and redirectors take the Kernel returned by Active.
//
//	loc, _ := location.NewLite(history, reg)
//	teardown, err := kernel.InitCore(loc, reg, kernel.InitOptions{})
//	if err != nil {
//	    return err
//	}
//	defer teardown()
package kernel
