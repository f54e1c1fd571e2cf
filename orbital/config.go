package orbital

import (
	"net/http"

	"golang.org/x/exp/slog"
)

// Message types accepted by the new-order request.
const (
	MessageTypeAuthorize        = "A"
	MessageTypeAuthorizeCapture = "AC"
	MessageTypeForceCapture     = "FC"
	MessageTypeRefund           = "R"
)

// Customer profile actions.
const (
	profileActionCreate = "C"
	profileActionRead   = "R"
	profileActionUpdate = "U"
	profileActionDelete = "D"
)

// CustomerProfileFromOrderInd options.
const (
	profileAutoGenerate   = "A"
	profileUseCustomerRef = "S"
)

// Deposit account types for electronic check payments.
const (
	ConsumerChecking   = "C" // US or Canadian
	ConsumerSavings    = "S" // US only
	CommercialChecking = "X" // US only
)

// ECP payment delivery methods.
const (
	BestPossibleMethod = "B" // US only
	ACH                = "A" // US or Canadian
)

// Processing status codes callers commonly branch on. The client never
// interprets these; they are exposed for convenience.
const (
	ProcStatusInvalidRetryTrace = "9714"
	ProcStatusUserNotFound      = "9581"
)

const (
	dtdVersion       = "PTI68"
	contentType      = "application/" + dtdVersion
	interfaceVersion = "MooreBro 1.01"
)

// The gateway runs two processing platforms; the platform identifier selects
// the BIN routing code sent with every request.
//
//	Salem (Stratus) - BIN 000001
//	PNS             - BIN 000002
const (
	PlatformSalem = "salem"
	PlatformPNS   = "pns"
)

var platformBINs = map[string]string{
	PlatformSalem: "000001",
	PlatformPNS:   "000002",
}

// Endpoints is a primary/secondary pair. Transport fails over to Secondary
// when an attempt against Primary fails.
type Endpoints struct {
	Primary   string
	Secondary string
}

var (
	productionEndpoints = Endpoints{
		Primary:   "https://orbital1.chasepaymentech.com/authorize",
		Secondary: "https://orbital2.chasepaymentech.com/authorize",
	}
	testEndpoints = Endpoints{
		Primary:   "https://orbitalvar1.chasepaymentech.com/authorize",
		Secondary: "https://orbitalvar2.chasepaymentech.com/authorize",
	}
)

// Config carries everything the client needs. Credential sourcing (env,
// vault, ...) is the caller's concern; the client only consumes the values
// it is given.
type Config struct {
	MerchantID string
	Username   string
	Password   string

	// Platform selects the processing platform BIN. Empty defaults to
	// Salem; anything other than PlatformSalem/PlatformPNS is a
	// configuration error.
	Platform string

	// Production selects the live endpoint pair instead of the
	// certification one. Ignored when Endpoints is set.
	Production bool

	// Endpoints overrides the derived endpoint pair. Intended for tests.
	Endpoints *Endpoints

	// Strict makes the request builder reject values that have no
	// matching slot in the selected template. When false (the default)
	// unknown values are silently dropped.
	Strict bool

	// HTTPClient overrides the default client (30s timeout).
	HTTPClient *http.Client

	// Logger receives transport attempt/failover diagnostics. Nil
	// disables logging.
	Logger *slog.Logger
}
