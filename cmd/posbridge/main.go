// Command posbridge builds the raw request payload a gateway family would
// receive for a given operation and prints it as JSON. Useful when debugging
// integration issues with a bank: the payload on stdout is exactly what the
// mapping layer hands to the HTTP caller.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/finpays/posbridge/config"
	"github.com/finpays/posbridge/domain"
	"github.com/finpays/posbridge/gateway"
	"github.com/finpays/posbridge/gateway/estpos"
	"github.com/finpays/posbridge/gateway/payflex"
	"github.com/finpays/posbridge/gateway/posnet"
)

func main() {
	var (
		gatewayName = flag.String("gateway", "estpos", "gateway family: estpos, payflex or posnet")
		op          = flag.String("op", "pay", "operation: pay, cancel, refund or status")
		orderID     = flag.String("order", "", "order id")
		amount      = flag.Float64("amount", 0, "order amount in major units")
		currency    = flag.String("currency", "TRY", "ISO 4217 alpha currency code")
		installment = flag.Int("installment", 0, "installment count")
		clientID    = flag.String("client-id", "", "merchant/client id")
		username    = flag.String("username", "", "API username")
		password    = flag.String("password", "", "API password")
		terminalID  = flag.String("terminal-id", "", "terminal id")
		cardNumber  = flag.String("card-number", "", "card number (pay only)")
		cardExpiry  = flag.String("card-expiry", "", "card expiry as MM/YYYY (pay only)")
		cardCVV     = flag.String("card-cvv", "", "card verification value (pay only)")
		cardHolder  = flag.String("card-holder", "", "card holder name (pay only)")
	)
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	mapper, err := requestMapper(*gatewayName)
	if err != nil {
		logger.Error("unknown gateway", "gateway", *gatewayName, "error", err)
		os.Exit(1)
	}

	endpoints := cfg.EstPos
	switch *gatewayName {
	case "payflex":
		endpoints = cfg.PayFlex
	case "posnet":
		endpoints = cfg.PosNet
	}
	logger.Debug("building payload", "gateway", *gatewayName, "op", *op, "payment_api_url", endpoints.PaymentAPIURL)

	account := &domain.Account{
		Bank:       *gatewayName,
		ClientID:   *clientID,
		Username:   *username,
		Password:   *password,
		TerminalID: *terminalID,
		Model:      domain.ModelNonSecure,
	}

	bag := domain.Order{
		"id":          *orderID,
		"currency":    *currency,
		"installment": *installment,
	}
	if *amount > 0 {
		bag["amount"] = *amount
	}

	data, err := buildPayload(mapper, account, bag, *op, card(*cardNumber, *cardExpiry, *cardCVV, *cardHolder))
	if err != nil {
		logger.Error("failed to build payload", "gateway", *gatewayName, "op", *op, "error", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		logger.Error("failed to encode payload", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func requestMapper(name string) (gateway.RequestMapper, error) {
	switch name {
	case "estpos":
		return estpos.NewRequestDataMapper(nil), nil
	case "payflex":
		return payflex.NewRequestDataMapper(), nil
	case "posnet":
		return posnet.NewRequestDataMapper(nil), nil
	}
	return nil, fmt.Errorf("unsupported gateway %q", name)
}

func buildPayload(mapper gateway.RequestMapper, account *domain.Account, bag domain.Order, op string, card *domain.Card) (gateway.RequestData, error) {
	switch op {
	case "pay":
		order, err := domain.PreparePaymentOrder(bag)
		if err != nil {
			return nil, err
		}
		return mapper.NonSecurePaymentRequest(account, order, domain.TxPay, card)
	case "cancel":
		order, err := domain.PrepareCancelOrder(bag)
		if err != nil {
			return nil, err
		}
		return mapper.CancelRequest(account, order)
	case "refund":
		order, err := domain.PrepareRefundOrder(bag)
		if err != nil {
			return nil, err
		}
		return mapper.RefundRequest(account, order)
	case "status":
		order, err := domain.PrepareStatusOrder(bag)
		if err != nil {
			return nil, err
		}
		return mapper.StatusRequest(account, order)
	}
	return nil, fmt.Errorf("unsupported operation %q", op)
}

func card(number, expiry, cvv, holder string) *domain.Card {
	if number == "" {
		return nil
	}
	var month, year int
	fmt.Sscanf(expiry, "%d/%d", &month, &year)
	return &domain.Card{
		Number:      number,
		ExpireMonth: month,
		ExpireYear:  year,
		CVV:         cvv,
		HolderName:  holder,
	}
}
