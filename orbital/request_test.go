package orbital

import (
	"errors"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, cfg Config) *Client {
	t.Helper()
	if cfg.MerchantID == "" {
		cfg.MerchantID = "700000"
	}
	cfg.Username = "user"
	cfg.Password = "secret"
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestBuildOrder_CardAuthorize(t *testing.T) {
	c := newTestClient(t, Config{})
	env, err := c.buildOrder(MessageTypeAuthorize, OrderRequest{
		OrderID: "X1",
		Amount:  "10.00",
		Method:  CardPayment{Number: "4112344112344113"},
	})
	if err != nil {
		t.Fatalf("buildOrder: %v", err)
	}
	body := string(env.body)

	if !strings.Contains(body, "<Amount>1000</Amount>") {
		t.Fatalf("amount not encoded: %s", body)
	}
	if !strings.Contains(body, "<AccountNum>4112344112344113</AccountNum>") {
		t.Fatalf("account number missing: %s", body)
	}
	// No CVV supplied: indicator and value both stay absent.
	if !strings.Contains(body, "<CardSecValInd></CardSecValInd>") {
		t.Fatalf("indicator should be empty: %s", body)
	}
	if !strings.Contains(body, "<CardSecVal></CardSecVal>") {
		t.Fatalf("security code should be empty: %s", body)
	}
	// Card orders never carry echeck fields.
	for _, tag := range []string{"BCRtNum", "CheckDDA", "BankAccountType", "BankPmtDelv", "CardBrand"} {
		if strings.Contains(body, tag) {
			t.Fatalf("echeck field %s present in card order: %s", tag, body)
		}
	}
	if !strings.Contains(body, "<BIN>000001</BIN>") {
		t.Fatalf("platform bin missing: %s", body)
	}
	if !strings.Contains(body, "<OrbitalConnectionUsername>user</OrbitalConnectionUsername>") {
		t.Fatalf("credentials missing: %s", body)
	}
	if env.traceNumber == "" {
		t.Fatal("trace number not generated")
	}
}

func TestBuildOrder_CVVTransmittedOnlyWhenPresent(t *testing.T) {
	c := newTestClient(t, Config{})

	// Visa with expiry: indicator 1, value transmitted.
	env, err := c.buildOrder(MessageTypeAuthorize, OrderRequest{
		OrderID: "X1",
		Amount:  "0.01",
		Method:  CardPayment{Number: "4112344112344113", Expiry: "1229", CVV: "411"},
	})
	if err != nil {
		t.Fatal(err)
	}
	body := string(env.body)
	if !strings.Contains(body, "<CardSecValInd>1</CardSecValInd>") {
		t.Fatalf("want indicator 1: %s", body)
	}
	if !strings.Contains(body, "<CardSecVal>411</CardSecVal>") {
		t.Fatalf("want cvv transmitted: %s", body)
	}

	// Visa without expiry: indicator 9, value withheld.
	env, err = c.buildOrder(MessageTypeAuthorize, OrderRequest{
		OrderID: "X2",
		Amount:  "0.01",
		Method:  CardPayment{Number: "4112344112344113", CVV: "411"},
	})
	if err != nil {
		t.Fatal(err)
	}
	body = string(env.body)
	if !strings.Contains(body, "<CardSecValInd>9</CardSecValInd>") {
		t.Fatalf("want indicator 9: %s", body)
	}
	if strings.Contains(body, "<CardSecVal>411</CardSecVal>") {
		t.Fatalf("cvv must be withheld when indicator is not 1: %s", body)
	}
}

func TestBuildOrder_Echeck(t *testing.T) {
	c := newTestClient(t, Config{})
	env, err := c.buildOrder(MessageTypeAuthorizeCapture, OrderRequest{
		OrderID:        "X3",
		Amount:         "25.50",
		CustomerRefNum: "CR9",
		Method: EcheckPayment{
			RoutingNumber: "122000247",
			AccountNumber: "0888271156",
			PayerName:     "Lesley Lou LaFrance",
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	body := string(env.body)
	if !strings.Contains(body, "<CardBrand>EC</CardBrand>") {
		t.Fatalf("echeck brand marker missing: %s", body)
	}
	if !strings.Contains(body, "<BCRtNum>122000247</BCRtNum>") {
		t.Fatalf("routing number missing: %s", body)
	}
	// Defaults: consumer checking, best possible delivery.
	if !strings.Contains(body, "<BankAccountType>C</BankAccountType>") {
		t.Fatalf("account type default missing: %s", body)
	}
	if !strings.Contains(body, "<BankPmtDelv>B</BankPmtDelv>") {
		t.Fatalf("delivery method default missing: %s", body)
	}
	if !strings.Contains(body, "<UseCustomerRefNum>CR9</UseCustomerRefNum>") {
		t.Fatalf("customer ref missing: %s", body)
	}
	for _, tag := range []string{"AccountNum>", "Exp>", "CardSecVal"} {
		if strings.Contains(body, "<"+tag) {
			t.Fatalf("card field %s present in echeck order: %s", tag, body)
		}
	}
}

func TestBuildOrder_SanitizesAVSFields(t *testing.T) {
	c := newTestClient(t, Config{})
	env, err := c.buildOrder(MessageTypeAuthorize, OrderRequest{
		OrderID: "X4",
		Amount:  "1.00",
		Address: Address{
			Line1: "101 Main% St|/",
			Phone: "(603) 555-1234",
		},
		Method: CardPayment{Number: "4112344112344113"},
	})
	if err != nil {
		t.Fatal(err)
	}
	body := string(env.body)
	if !strings.Contains(body, "<AVSaddress1>101 Main St</AVSaddress1>") {
		t.Fatalf("address not sanitized: %s", body)
	}
	if !strings.Contains(body, "<AVSphoneNum>603 5551234</AVSphoneNum>") {
		t.Fatalf("phone not sanitized: %s", body)
	}
}

func TestBuildOrder_Errors(t *testing.T) {
	c := newTestClient(t, Config{})
	var invErr *InvalidRequestError

	_, err := c.buildOrder(MessageTypeAuthorize, OrderRequest{
		OrderID: "X5",
		Amount:  "1.005",
		Method:  CardPayment{Number: "4112344112344113"},
	})
	if !errors.As(err, &invErr) {
		t.Fatalf("three fractional digits: got %v, want *InvalidRequestError", err)
	}

	_, err = c.buildOrder(MessageTypeAuthorize, OrderRequest{OrderID: "X6", Amount: "1.00"})
	if !errors.As(err, &invErr) {
		t.Fatalf("missing method: got %v, want *InvalidRequestError", err)
	}

	_, err = c.buildOrder(MessageTypeAuthorize, OrderRequest{
		OrderID: "X7",
		Amount:  "1.00",
		Method:  CardPayment{Number: "4112344112344113", Expiry: "1329"},
	})
	if !errors.As(err, &invErr) {
		t.Fatalf("bad expiry month: got %v, want *InvalidRequestError", err)
	}
}

func TestBuildOrder_NewCustomerProfileFlags(t *testing.T) {
	c := newTestClient(t, Config{})
	env, err := c.buildOrder(MessageTypeAuthorizeCapture, OrderRequest{
		OrderID:            "X8",
		Amount:             "5.00",
		NewCustomerProfile: true,
		Method:             CardPayment{Number: "4112344112344113"},
	})
	if err != nil {
		t.Fatal(err)
	}
	body := string(env.body)
	if !strings.Contains(body, "<CustomerProfileFromOrderInd>A</CustomerProfileFromOrderInd>") {
		t.Fatalf("profile-from-order flag missing: %s", body)
	}
	if !strings.Contains(body, "<CustomerProfileOrderOverrideInd>NO</CustomerProfileOrderOverrideInd>") {
		t.Fatalf("override flag missing: %s", body)
	}
}

func TestBuildReversal_OnlineFlag(t *testing.T) {
	c := newTestClient(t, Config{})

	env, err := c.buildReversal(ReversalRequest{TxRefNum: "T1", TxRefIdx: "0", OrderID: "X9"}, true)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(env.body), "<OnlineReversalInd>Y</OnlineReversalInd>") {
		t.Fatalf("reversal must set online flag: %s", env.body)
	}

	env, err = c.buildReversal(ReversalRequest{TxRefNum: "T1", TxRefIdx: "0", OrderID: "X9", AdjustedAmount: "3.1"}, false)
	if err != nil {
		t.Fatal(err)
	}
	body := string(env.body)
	if !strings.Contains(body, "<OnlineReversalInd></OnlineReversalInd>") {
		t.Fatalf("void must omit online flag: %s", body)
	}
	if !strings.Contains(body, "<AdjustedAmt>310</AdjustedAmt>") {
		t.Fatalf("adjusted amount not encoded: %s", body)
	}
}

func TestBuildProfile_CreateReferenceSource(t *testing.T) {
	c := newTestClient(t, Config{})

	// No reference supplied: the gateway auto-generates one.
	env, err := c.buildProfile(profileActionCreate, ProfileRequest{
		Name:   "Test Visa",
		Method: CardPayment{Number: "4112344112344113", Expiry: "1229"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(env.body), "<CustomerProfileFromOrderInd>A</CustomerProfileFromOrderInd>") {
		t.Fatalf("want auto-generate indicator: %s", env.body)
	}

	// Caller-supplied reference: use it instead.
	env, err = c.buildProfile(profileActionCreate, ProfileRequest{
		CustomerRefNum: "CR100",
		Name:           "Test Visa",
		Method:         CardPayment{Number: "4112344112344113", Expiry: "1229"},
	})
	if err != nil {
		t.Fatal(err)
	}
	body := string(env.body)
	if !strings.Contains(body, "<CustomerProfileFromOrderInd>S</CustomerProfileFromOrderInd>") {
		t.Fatalf("want use-supplied-reference indicator: %s", body)
	}
	if !strings.Contains(body, "<CustomerRefNum>CR100</CustomerRefNum>") {
		t.Fatalf("reference missing: %s", body)
	}
}

func TestBuildProfile_CountryDefaultAndSanitization(t *testing.T) {
	c := newTestClient(t, Config{})
	env, err := c.buildProfile(profileActionCreate, ProfileRequest{
		Name: strings.Repeat("N", 40),
		Address: Address{
			Line1: "4 Northeastern% Blvd",
			City:  "Salem",
			State: "New Hampshire",
		},
		Email:  "someone@example.com",
		Method: CardPayment{Number: "341134113411347", Expiry: "1229"},
	})
	if err != nil {
		t.Fatal(err)
	}
	body := string(env.body)
	if !strings.Contains(body, "<CustomerCountryCode>US</CustomerCountryCode>") {
		t.Fatalf("country default missing: %s", body)
	}
	if !strings.Contains(body, "<CustomerName>"+strings.Repeat("N", 30)+"</CustomerName>") {
		t.Fatalf("name not capped: %s", body)
	}
	if !strings.Contains(body, "<CustomerState>Ne</CustomerState>") {
		t.Fatalf("state not capped: %s", body)
	}
	if !strings.Contains(body, "<CustomerAddress1>4 Northeastern Blvd</CustomerAddress1>") {
		t.Fatalf("address not sanitized: %s", body)
	}
}

func TestBuildProfile_UpdateRequiresReference(t *testing.T) {
	c := newTestClient(t, Config{})
	var invErr *InvalidRequestError
	_, err := c.buildProfile(profileActionUpdate, ProfileRequest{Name: "X"})
	if !errors.As(err, &invErr) {
		t.Fatalf("got %v, want *InvalidRequestError", err)
	}
}

func TestBuildProfileRef(t *testing.T) {
	c := newTestClient(t, Config{})
	env, err := c.buildProfileRef(profileActionDelete, "CR77")
	if err != nil {
		t.Fatal(err)
	}
	body := string(env.body)
	if !strings.Contains(body, "<CustomerProfileAction>D</CustomerProfileAction>") {
		t.Fatalf("action missing: %s", body)
	}
	if !strings.Contains(body, "<CustomerRefNum>CR77</CustomerRefNum>") {
		t.Fatalf("reference missing: %s", body)
	}

	var invErr *InvalidRequestError
	if _, err := c.buildProfileRef(profileActionRead, ""); !errors.As(err, &invErr) {
		t.Fatalf("empty reference: got %v, want *InvalidRequestError", err)
	}
}

func TestNew_UnknownPlatform(t *testing.T) {
	_, err := New(Config{Platform: "tandem"})
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("got %v, want *ConfigurationError", err)
	}
}

func TestNew_PlatformBins(t *testing.T) {
	c := newTestClient(t, Config{Platform: "PNS"})
	if c.bin != "000002" {
		t.Fatalf("pns bin got %q", c.bin)
	}
	c = newTestClient(t, Config{})
	if c.bin != "000001" {
		t.Fatalf("default (salem) bin got %q", c.bin)
	}
}

func TestRenderTemplate_StrictRejectsUnknownValues(t *testing.T) {
	c := newTestClient(t, Config{Strict: true})
	_, err := c.renderTemplate(templateMarkForCapture, map[string]string{
		"OrderID": "X1",
		"Bogus":   "value",
	})
	var invErr *InvalidRequestError
	if !errors.As(err, &invErr) {
		t.Fatalf("got %v, want *InvalidRequestError", err)
	}

	// Non-strict drops the value silently.
	c = newTestClient(t, Config{})
	if _, err := c.renderTemplate(templateMarkForCapture, map[string]string{"Bogus": "value"}); err != nil {
		t.Fatalf("non-strict should ignore unknown values: %v", err)
	}
}
