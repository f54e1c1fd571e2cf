package orbital

// PaymentMethod is the card-or-echeck tagged union carried by orders and
// profiles. Exactly the fields valid for each family exist on its variant;
// the shared fields (amount, order id, addresses) live on the request
// structs.
type PaymentMethod interface {
	paymentMethod()
}

// CardPayment pays by credit or debit card. The brand is always inferred
// from Number, never supplied.
type CardPayment struct {
	Number string
	Expiry string // MMYY

	// CVV is transmitted only when the resolved presence indicator is
	// SecValPresent. CVVIndicator overrides the derived indicator.
	CVV          string
	CVVIndicator string
}

func (CardPayment) paymentMethod() {}

// EcheckPayment pays by electronic check (ACH). AccountType defaults to
// ConsumerChecking and DeliveryMethod to BestPossibleMethod.
type EcheckPayment struct {
	RoutingNumber  string
	AccountNumber  string
	AccountType    string
	DeliveryMethod string
	PayerName      string
}

func (EcheckPayment) paymentMethod() {}

// Address is the AVS / profile address block. All fields are optional;
// empty fields are omitted from the request.
type Address struct {
	Line1       string
	Line2       string
	City        string
	State       string
	PostalCode  string
	CountryCode string
	Phone       string
}

// OrderRequest drives the Authorize, AuthorizeCapture, ForceCapture and
// Refund operations.
type OrderRequest struct {
	OrderID        string
	Amount         string // decimal string, e.g. "10.00"
	CustomerRefNum string
	Address        Address
	PriorAuthID    string
	TxRefNum       string

	// NewCustomerProfile asks the gateway to create a customer profile
	// from this order (card payments only).
	NewCustomerProfile bool

	Method PaymentMethod

	// TraceNumber overrides the generated retry trace for this request.
	TraceNumber string
}

// CaptureRequest marks a prior authorization for capture.
type CaptureRequest struct {
	OrderID     string
	Amount      string
	TxRefNum    string
	TraceNumber string
}

// ReversalRequest drives both Reversal and Void against a prior
// transaction.
type ReversalRequest struct {
	TxRefNum       string
	TxRefIdx       string
	OrderID        string
	AdjustedAmount string // optional partial amount
	TraceNumber    string
}

// ProfileRequest drives profile create and update. Method selects
// card-on-file vs echeck-on-file fields.
type ProfileRequest struct {
	CustomerRefNum string
	Name           string
	Address        Address
	Email          string
	Method         PaymentMethod
	TraceNumber    string
}
