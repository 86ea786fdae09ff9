package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// Registered error codes.
const (
	CodeInvalidOptions        = "R001"
	CodeRoutingModeDisallowed = "R002"
	CodeInvalidHash           = "R003"
	CodeConfigNotFound        = "R004"
	CodeConfigParse           = "R005"
	CodeConfigInvalid         = "R006"

	CodeAlreadyInitialized = "R010"
	CodeNotInitialized     = "R011"
	CodeHashMismatch       = "R012"
	CodeLocationActive     = "R013"
	CodeDisposed           = "R014"

	CodeAbsoluteHref   = "R020"
	CodeInvalidPattern = "R021"
	CodeCrossOrigin    = "R022"
	CodeInvalidURL     = "R023"

	CodeUnsupportedEvent = "R030"
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Configuration (R001-R009)
	CodeInvalidOptions: {
		Category: CategoryConfig,
		Message:  "Invalid routing options",
		Detail:   "The combination of 'hashMode' and 'defaultHash' is not valid.",
	},
	CodeRoutingModeDisallowed: {
		Category: CategoryConfig,
		Message:  "Routing mode disallowed",
		Detail:   "The routing universe targeted by this operation has been disallowed in the routing options.",
	},
	CodeInvalidHash: {
		Category: CategoryConfig,
		Message:  "Invalid hash value",
		Detail:   "The hash value is not valid for the configured hash mode.",
	},

	CodeConfigNotFound: {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
	},
	CodeConfigParse: {
		Category: CategoryConfig,
		Message:  "Configuration file could not be parsed",
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},

	// Lifecycle (R010-R019)
	CodeAlreadyInitialized: {
		Category: CategoryLifecycle,
		Message:  "The routing library is already initialized",
		Detail:   "Call the teardown function returned by the previous initialization first.",
	},
	CodeNotInitialized: {
		Category: CategoryLifecycle,
		Message:  "The routing library hasn't been initialized",
		Detail:   "Initialize the library before creating routers or redirectors.",
	},
	CodeHashMismatch: {
		Category: CategoryLifecycle,
		Message:  "The parent router's hash mode must match the child router's hash mode",
	},
	CodeLocationActive: {
		Category: CategoryLifecycle,
		Message:  "A location object is already active",
		Detail:   "Dispose the current location before creating another one.",
	},
	CodeDisposed: {
		Category: CategoryLifecycle,
		Message:  "The object has been disposed",
	},

	// Validation (R020-R029)
	CodeAbsoluteHref: {
		Category: CategoryValidation,
		Message:  "HREF cannot contain protocol, host, or port",
	},
	CodeInvalidPattern: {
		Category: CategoryValidation,
		Message:  "Invalid route pattern",
	},
	CodeCrossOrigin: {
		Category: CategoryValidation,
		Message:  "Navigation target is on a different origin",
	},
	CodeInvalidURL: {
		Category: CategoryValidation,
		Message:  "Invalid URL",
	},

	// Unsupported (R030-R039)
	CodeUnsupportedEvent: {
		Category: CategoryUnsupported,
		Message:  "Event subscription is not supported by this location implementation",
		Detail:   "Use a full-featured location implementation to subscribe to navigation events.",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
