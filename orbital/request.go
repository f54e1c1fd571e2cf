package orbital

import (
	"encoding/binary"
	"strconv"

	"github.com/SendOutCards/chase/internal/amount"
	"github.com/SendOutCards/chase/internal/sanitize"
	"github.com/google/uuid"
)

// requestEnvelope is the single-use unit handed to the transport: the
// filled template body plus the retry trace identifying the attempt
// sequence.
type requestEnvelope struct {
	body        []byte
	traceNumber string
}

// renderTemplate merges values into the named template. Connection
// credentials and the platform BIN are injected into every request; the
// profile templates use the Customer-prefixed slots for the same values.
func (c *Client) renderTemplate(name string, values map[string]string) ([]byte, error) {
	doc, err := lookupTemplate(name)
	if err != nil {
		return nil, err
	}
	filled := doc.clone()
	unmatched := filled.fill(values, "")
	if c.cfg.Strict {
		for _, key := range unmatched {
			if values[key] != "" {
				return nil, invalidRequest(key, "no slot in template %s", name)
			}
		}
	}
	// The order templates carry BIN, the profile templates CustomerBin;
	// whichever slot exists takes the platform code.
	filled.fill(map[string]string{
		"OrbitalConnectionUsername": c.cfg.Username,
		"OrbitalConnectionPassword": c.cfg.Password,
		"BIN":                       c.bin,
		"CustomerBin":               c.bin,
	}, "")
	return filled.marshal(), nil
}

func (c *Client) buildOrder(messageType string, req OrderRequest) (requestEnvelope, error) {
	encoded, err := amount.Encode(req.Amount)
	if err != nil {
		return requestEnvelope{}, invalidRequest("amount", "%v", err)
	}

	values := map[string]string{
		"MerchantID":  c.cfg.MerchantID,
		"MessageType": messageType,
		"OrderID":     req.OrderID,
		"Amount":      encoded,
		"AVSzip":      sanitize.PostalCode(req.Address.PostalCode),
		"AVSaddress1": sanitize.AddressLine(req.Address.Line1),
		"AVSaddress2": sanitize.AddressLine(req.Address.Line2),
		"AVScity":     sanitize.City(req.Address.City),
		"AVSstate":    sanitize.State(req.Address.State),
		"AVSphoneNum": sanitize.Phone(req.Address.Phone),
		"PriorAuthID": req.PriorAuthID,
		"TxRefNum":    req.TxRefNum,
	}

	var template string
	switch method := req.Method.(type) {
	case CardPayment:
		if err := validateExpiry(method.Expiry); err != nil {
			return requestEnvelope{}, err
		}
		template = templateOrderNew
		indicator := securityCodeIndicator(
			Classify(method.Number), method.CVV, method.CVVIndicator, messageType, method.Expiry,
		)
		values["AccountNum"] = method.Number
		values["Exp"] = method.Expiry
		values["CardSecValInd"] = indicator
		if indicator == SecValPresent {
			values["CardSecVal"] = method.CVV
		}
		values["CustomerRefNum"] = req.CustomerRefNum
		if req.NewCustomerProfile {
			values["CustomerProfileFromOrderInd"] = profileAutoGenerate
			values["CustomerProfileOrderOverrideInd"] = "NO"
		}
	case EcheckPayment:
		template = templateEcheckOrderNew
		values["CardBrand"] = string(ElectronicCheck)
		values["BCRtNum"] = method.RoutingNumber
		values["CheckDDA"] = method.AccountNumber
		values["BankAccountType"] = orDefault(method.AccountType, ConsumerChecking)
		values["BankPmtDelv"] = orDefault(method.DeliveryMethod, BestPossibleMethod)
		values["AVSname"] = sanitize.Name(method.PayerName)
		values["UseCustomerRefNum"] = req.CustomerRefNum
	case nil:
		return requestEnvelope{}, invalidRequest("method", "payment method is required")
	default:
		return requestEnvelope{}, invalidRequest("method", "unsupported payment method %T", req.Method)
	}

	body, err := c.renderTemplate(template, values)
	if err != nil {
		return requestEnvelope{}, err
	}
	return requestEnvelope{body: body, traceNumber: traceOrNew(req.TraceNumber)}, nil
}

func (c *Client) buildCapture(req CaptureRequest) (requestEnvelope, error) {
	encoded, err := amount.Encode(req.Amount)
	if err != nil {
		return requestEnvelope{}, invalidRequest("amount", "%v", err)
	}
	body, err := c.renderTemplate(templateMarkForCapture, map[string]string{
		"MerchantID": c.cfg.MerchantID,
		"OrderID":    req.OrderID,
		"Amount":     encoded,
		"TxRefNum":   req.TxRefNum,
	})
	if err != nil {
		return requestEnvelope{}, err
	}
	return requestEnvelope{body: body, traceNumber: traceOrNew(req.TraceNumber)}, nil
}

// buildReversal serves both reversal and void; only reversal carries the
// online reversal flag.
func (c *Client) buildReversal(req ReversalRequest, online bool) (requestEnvelope, error) {
	values := map[string]string{
		"MerchantID": c.cfg.MerchantID,
		"TxRefNum":   req.TxRefNum,
		"TxRefIdx":   req.TxRefIdx,
		"OrderID":    req.OrderID,
	}
	if online {
		values["OnlineReversalInd"] = "Y"
	}
	if req.AdjustedAmount != "" {
		encoded, err := amount.Encode(req.AdjustedAmount)
		if err != nil {
			return requestEnvelope{}, invalidRequest("adjusted amount", "%v", err)
		}
		values["AdjustedAmt"] = encoded
	}
	body, err := c.renderTemplate(templateReversal, values)
	if err != nil {
		return requestEnvelope{}, err
	}
	return requestEnvelope{body: body, traceNumber: traceOrNew(req.TraceNumber)}, nil
}

func (c *Client) buildProfile(action string, req ProfileRequest) (requestEnvelope, error) {
	values := map[string]string{
		"CustomerMerchantID":    c.cfg.MerchantID,
		"CustomerProfileAction": action,
		"CustomerName":          sanitize.Name(req.Name),
		"CustomerAddress1":      sanitize.AddressLine(req.Address.Line1),
		"CustomerAddress2":      sanitize.AddressLine(req.Address.Line2),
		"CustomerCity":          sanitize.City(req.Address.City),
		"CustomerState":         sanitize.State(req.Address.State),
		"CustomerZIP":           sanitize.PostalCode(req.Address.PostalCode),
		"CustomerCountryCode":   orDefault(req.Address.CountryCode, "US"),
		"CustomerEmail":         sanitize.Email(req.Email),
		"CustomerPhone":         sanitize.Phone(req.Address.Phone),
	}

	switch action {
	case profileActionCreate:
		// A caller-supplied reference number switches the profile
		// source from auto-generate to the supplied value.
		values["CustomerProfileFromOrderInd"] = profileAutoGenerate
		if req.CustomerRefNum != "" {
			values["CustomerProfileFromOrderInd"] = profileUseCustomerRef
			values["CustomerRefNum"] = req.CustomerRefNum
		}
	case profileActionUpdate:
		if req.CustomerRefNum == "" {
			return requestEnvelope{}, invalidRequest("customer ref num", "profile update requires an existing reference")
		}
		values["CustomerProfileFromOrderInd"] = profileUseCustomerRef
		values["CustomerRefNum"] = req.CustomerRefNum
	}

	template := templateProfile
	switch method := req.Method.(type) {
	case CardPayment:
		if err := validateExpiry(method.Expiry); err != nil {
			return requestEnvelope{}, err
		}
		values["CCAccountNum"] = method.Number
		values["CCExpireDate"] = method.Expiry
	case EcheckPayment:
		template = templateEcheckProfile
		values["UseCustomerRefNum"] = req.CustomerRefNum
		values["ECPAccountDDA"] = method.AccountNumber
		values["ECPAccountType"] = orDefault(method.AccountType, ConsumerChecking)
		values["ECPAccountRT"] = method.RoutingNumber
		values["ECPBankPmtDlv"] = orDefault(method.DeliveryMethod, BestPossibleMethod)
	case nil:
		// Card-family template with no account on file, as for
		// address-only profiles.
	default:
		return requestEnvelope{}, invalidRequest("method", "unsupported payment method %T", req.Method)
	}

	body, err := c.renderTemplate(template, values)
	if err != nil {
		return requestEnvelope{}, err
	}
	return requestEnvelope{body: body, traceNumber: traceOrNew(req.TraceNumber)}, nil
}

// buildProfileRef covers the read and delete actions, which carry only the
// reference number.
func (c *Client) buildProfileRef(action, customerRefNum string) (requestEnvelope, error) {
	if customerRefNum == "" {
		return requestEnvelope{}, invalidRequest("customer ref num", "reference is required")
	}
	body, err := c.renderTemplate(templateProfileRead, map[string]string{
		"CustomerMerchantID":    c.cfg.MerchantID,
		"CustomerRefNum":        customerRefNum,
		"CustomerProfileAction": action,
	})
	if err != nil {
		return requestEnvelope{}, err
	}
	return requestEnvelope{body: body, traceNumber: traceOrNew("")}, nil
}

// validateExpiry accepts an absent expiry or MMYY digits with a real month.
func validateExpiry(exp string) error {
	if exp == "" {
		return nil
	}
	if len(exp) != 4 {
		return invalidRequest("expiry", "must be MMYY (4 digits)")
	}
	for i := 0; i < 4; i++ {
		if exp[i] < '0' || exp[i] > '9' {
			return invalidRequest("expiry", "must be digits: MMYY")
		}
	}
	mm := int(exp[0]-'0')*10 + int(exp[1]-'0')
	if mm < 1 || mm > 12 {
		return invalidRequest("expiry", "month must be 01..12")
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// traceOrNew returns the caller's trace number or derives a fresh numeric
// one from a random UUID's node bits.
func traceOrNew(trace string) string {
	if trace != "" {
		return trace
	}
	id := uuid.New()
	node := binary.BigEndian.Uint64(append([]byte{0, 0}, id[10:]...))
	return strconv.FormatUint(node, 10)
}
