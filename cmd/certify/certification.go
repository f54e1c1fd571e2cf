package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"time"

	"github.com/SendOutCards/chase/orbital"
	"golang.org/x/exp/slog"
)

// testCase is one method-of-payment row from the certification test deck.
type testCase struct {
	name    string
	amount  string
	address orbital.Address
	method  orbital.PaymentMethod
}

// testDeck holds the certification test accounts, one per supported brand
// plus an electronic check.
var testDeck = []testCase{
	{
		name:   "Test Amex",
		amount: "0.01",
		address: orbital.Address{
			Line1: "4 Northeastern Blvd", City: "Salem", State: "NH", PostalCode: "03195",
		},
		method: orbital.CardPayment{Number: "341134113411347", CVV: "1234"},
	},
	{
		name:   "Test Discover",
		amount: "0.01",
		address: orbital.Address{
			Line1: "1 Northeastern Blvd", City: "Bedford", State: "NH", PostalCode: "03109",
		},
		method: orbital.CardPayment{Number: "6559906559906557", CVV: "613"},
	},
	{
		name:   "Test Echeck",
		amount: "0.00",
		address: orbital.Address{
			Line1: "Lesley Lou LaFrance", Line2: "Byway Street", City: "Portsmouth", State: "MA", PostalCode: "03275",
		},
		method: orbital.EcheckPayment{
			RoutingNumber: "122000247",
			AccountNumber: "0888271156",
			PayerName:     "Test Echeck",
		},
	},
	{
		name:   "Test JCB",
		amount: "0.01",
		address: orbital.Address{
			Line1: "5 Northeastern Blvd", City: "Nashua", State: "NH", PostalCode: "03060",
		},
		method: orbital.CardPayment{Number: "3528000000000007", CVV: "611"},
	},
	{
		name:   "Test MasterCard",
		amount: "0.0",
		address: orbital.Address{
			Line1: "Suite 100", Line2: "5 Northeastern Blvd", City: "Bedford", State: "NH", PostalCode: "03101",
		},
		method: orbital.CardPayment{Number: "5112345112345114", CVV: "123"},
	},
	{
		name:   "Test Visa",
		amount: "0.00",
		address: orbital.Address{
			Line1: "Apt 2", Line2: "1 Northeastern Blvd", City: "Bedford", State: "NH", PostalCode: "03109-1234",
		},
		method: orbital.CardPayment{Number: "4112344112344113", CVV: "411"},
	},
}

// sequence yields unique, monotonically increasing ids for order and
// customer references.
type sequence struct {
	next uint64
}

func newSequence() *sequence {
	return &sequence{next: uint64(rand.Uint32())}
}

func (s *sequence) Next() string {
	v := s.next
	s.next++
	return strconv.FormatUint(v, 10)
}

type authResult struct {
	mop      string
	txRefNum string
	amount   string
	orderID  string
	method   orbital.PaymentMethod
}

type certification struct {
	client    *orbital.Client
	out       io.Writer
	logger    *slog.Logger
	orders    *sequence
	customers *sequence
	authed    []authResult
}

func newCertification(client *orbital.Client, out io.Writer, logger *slog.Logger) *certification {
	return &certification{
		client:    client,
		out:       out,
		logger:    logger,
		orders:    newSequence(),
		customers: newSequence(),
	}
}

func (c *certification) run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	steps := []func(context.Context) error{
		c.sectionAccountVerification,
		c.sectionAuthorization,
		c.sectionCapture,
		c.sectionReversal,
		c.sectionProfiles,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return err
		}
	}
	return nil
}

func mop(tc testCase) string {
	switch m := tc.method.(type) {
	case orbital.CardPayment:
		return fmt.Sprintf("%s %s", orbital.Classify(m.Number), m.Number)
	case orbital.EcheckPayment:
		return fmt.Sprintf("ECHECK: %s RDFI %s", m.AccountNumber, m.RoutingNumber)
	default:
		return "unknown"
	}
}

func formatOrderResponse(record orbital.ResponseRecord) string {
	return fmt.Sprintf("Auth code: %s Order ID: %s, TxRefNum: %s",
		record["AuthCode"], record["OrderID"], record["TxRefNum"])
}

// sectionAccountVerification authorizes each deck entry at its
// verification amount.
func (c *certification) sectionAccountVerification(ctx context.Context) error {
	fmt.Fprintln(c.out, "SECTION A: Authorization for Account Verification Testing")
	for line, tc := range testDeck {
		record, err := c.client.Authorize(ctx, orbital.OrderRequest{
			OrderID:        c.orders.Next(),
			Amount:         tc.amount,
			CustomerRefNum: c.customers.Next(),
			Address:        tc.address,
			Method:         tc.method,
		})
		if err != nil {
			return fmt.Errorf("section A %s: %w", tc.name, err)
		}
		fmt.Fprintf(c.out, "%d MOP: %s Amt: %s %s\n", line+1, mop(tc), tc.amount, formatOrderResponse(record))
	}
	return nil
}

// sectionAuthorization authorizes each deck entry at $100 and keeps the
// returned references for the capture and reversal sections.
func (c *certification) sectionAuthorization(ctx context.Context) error {
	fmt.Fprintln(c.out, "SECTION B: Authorization Testing")
	for line, tc := range testDeck {
		orderID := c.orders.Next()
		record, err := c.client.Authorize(ctx, orbital.OrderRequest{
			OrderID:        orderID,
			Amount:         "100.00",
			CustomerRefNum: c.customers.Next(),
			Address:        tc.address,
			Method:         tc.method,
		})
		if err != nil {
			return fmt.Errorf("section B %s: %w", tc.name, err)
		}
		if txRefNum := record["TxRefNum"]; txRefNum != "" {
			c.authed = append(c.authed, authResult{
				mop:      mop(tc),
				txRefNum: txRefNum,
				amount:   "100.00",
				orderID:  orderID,
				method:   tc.method,
			})
		}
		fmt.Fprintf(c.out, "%d MOP: %s Amt: 100.00 %s\n", line+1, mop(tc), formatOrderResponse(record))
	}
	return nil
}

func (c *certification) sectionCapture(ctx context.Context) error {
	fmt.Fprintln(c.out, "SECTION C: Capture Testing")
	for line, auth := range c.authed {
		record, err := c.client.MarkForCapture(ctx, orbital.CaptureRequest{
			OrderID:  auth.orderID,
			Amount:   auth.amount,
			TxRefNum: auth.txRefNum,
		})
		if err != nil {
			return fmt.Errorf("section C %s: %w", auth.mop, err)
		}
		fmt.Fprintf(c.out, "%d MOP: %s, Amt: %s, AuthCode: %s, OrderID: %s, TxRefNum: %s\n",
			line+1, auth.mop, record["Amount"], record["AuthCode"], record["OrderID"], record["TxRefNum"])
	}
	return nil
}

// sectionReversal reverses captured authorizations online where the brand
// supports it and voids the rest.
func (c *certification) sectionReversal(ctx context.Context) error {
	fmt.Fprintln(c.out, "SECTION D: Reversal and Void Testing")
	for line, auth := range c.authed {
		req := orbital.ReversalRequest{
			TxRefNum: auth.txRefNum,
			TxRefIdx: "1",
			OrderID:  auth.orderID,
		}
		var (
			record orbital.ResponseRecord
			err    error
			kind   string
		)
		card, isCard := auth.method.(orbital.CardPayment)
		if isCard && orbital.SupportsOnlineReversal(orbital.Classify(card.Number)) {
			kind = "reversal"
			record, err = c.client.Reversal(ctx, req)
		} else {
			kind = "void"
			record, err = c.client.Void(ctx, req)
		}
		if err != nil {
			return fmt.Errorf("section D %s: %w", auth.mop, err)
		}
		fmt.Fprintf(c.out, "%d MOP: %s %s ProcStatus: %s TxRefNum: %s\n",
			line+1, auth.mop, kind, record["ProcStatus"], record["TxRefNum"])
	}
	return nil
}

// sectionProfiles runs a create/read/update/delete cycle per deck entry.
func (c *certification) sectionProfiles(ctx context.Context) error {
	fmt.Fprintln(c.out, "SECTION E: Customer Profile Testing")
	for line, tc := range testDeck {
		profile := orbital.ProfileRequest{
			Name:    tc.name,
			Address: tc.address,
			Method:  tc.method,
		}
		created, err := c.client.CreateProfile(ctx, profile)
		if err != nil {
			return fmt.Errorf("section E create %s: %w", tc.name, err)
		}
		refNum := created["CustomerRefNum"]
		if refNum == "" {
			fmt.Fprintf(c.out, "%d MOP: %s create declined, ProcStatus: %s\n",
				line+1, mop(tc), created["ProcStatus"])
			continue
		}

		if _, err := c.client.ReadProfile(ctx, refNum); err != nil {
			return fmt.Errorf("section E read %s: %w", tc.name, err)
		}

		profile.CustomerRefNum = refNum
		profile.Address.Line1 = "200 Updated Way"
		if _, err := c.client.UpdateProfile(ctx, profile); err != nil {
			return fmt.Errorf("section E update %s: %w", tc.name, err)
		}

		deleted, err := c.client.DeleteProfile(ctx, refNum)
		if err != nil {
			return fmt.Errorf("section E delete %s: %w", tc.name, err)
		}
		fmt.Fprintf(c.out, "%d MOP: %s CustomerRefNum: %s delete ProcStatus: %s\n",
			line+1, mop(tc), refNum, deleted["ProcStatus"])

		c.logger.Info("profile cycle complete",
			slog.String("name", tc.name), slog.String("ref", refNum))
	}
	return nil
}
