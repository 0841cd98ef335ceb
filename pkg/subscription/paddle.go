package subscription

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
	"github.com/PaddleHQ/paddle-go-sdk/v4/pkg/paddleerr"

	"github.com/dmitrymomot/subhub/pkg/catalog"
)

// PaddlePriceKey is the service metadata key holding the Paddle price id to bill.
const PaddlePriceKey = "paddle_price_id"

// PaddleConfig holds configuration for the Paddle payment gateway.
type PaddleConfig struct {
	APIKey      string `env:"PADDLE_API_KEY"`
	Environment string `env:"PADDLE_ENVIRONMENT" envDefault:"sandbox"`
}

// TransactionCreator is the part of the Paddle SDK the gateway uses.
// Satisfied by (*paddle.SDK).TransactionsClient.
type TransactionCreator interface {
	CreateTransaction(ctx context.Context, req *paddle.CreateTransactionRequest) (*paddle.Transaction, error)
}

// PaddleGateway charges by creating a Paddle transaction for the service's catalog price.
type PaddleGateway struct {
	transactions TransactionCreator
}

// NewPaddleGateway creates a gateway against the production or sandbox API.
func NewPaddleGateway(cfg PaddleConfig) (*PaddleGateway, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	var (
		client *paddle.SDK
		err    error
	)
	switch strings.ToLower(cfg.Environment) {
	case "sandbox", "":
		client, err = paddle.NewSandbox(cfg.APIKey)
	case "production":
		client, err = paddle.New(cfg.APIKey)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidPaddleEnv, cfg.Environment)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create paddle client: %w", err)
	}

	return NewPaddleGatewayWithClient(client.TransactionsClient), nil
}

// NewPaddleGatewayWithClient builds a gateway over an existing transactions client.
func NewPaddleGatewayWithClient(transactions TransactionCreator) *PaddleGateway {
	if transactions == nil {
		panic("subscription: paddle TransactionCreator is required")
	}
	return &PaddleGateway{transactions: transactions}
}

// Charge creates a Paddle transaction for the service's catalog price.
// A created transaction counts as a successful charge unless Paddle reports it
// canceled or past due. No money is collected until Paddle bills it.
// Services without a Paddle price and request errors from the API are declined.
// Transport faults and Paddle server errors are returned as errors.
func (g *PaddleGateway) Charge(ctx context.Context, userID string, svc catalog.Service) (ChargeResult, error) {
	priceID, _ := svc.Metadata[PaddlePriceKey].(string)
	if priceID == "" {
		return ChargeResult{Success: false, Message: ErrMissingPaddlePrice.Error()}, nil
	}

	item := paddle.NewCreateTransactionItemsTransactionItemFromCatalog(&paddle.TransactionItemFromCatalog{
		PriceID:  priceID,
		Quantity: 1,
	})

	req := &paddle.CreateTransactionRequest{
		Items: []paddle.CreateTransactionItems{*item},
		CustomData: paddle.CustomData{
			"user_id":    userID,
			"service_id": svc.ID,
		},
	}

	txn, err := g.transactions.CreateTransaction(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ChargeResult{}, ctxErr
		}
		if apiErr, ok := paddleRefusal(err); ok {
			return ChargeResult{Success: false, Message: fmt.Sprintf("paddle rejected the transaction: %v", apiErr)}, nil
		}
		return ChargeResult{}, fmt.Errorf("paddle create transaction: %w", err)
	}

	switch txn.Status {
	case paddle.TransactionStatusCanceled, paddle.TransactionStatusPastDue:
		return ChargeResult{
			Success:   false,
			Message:   fmt.Sprintf("paddle transaction %s", txn.Status),
			Reference: txn.ID,
		}, nil
	}

	msg := "paddle transaction created"
	if txn.Status != "" {
		msg = fmt.Sprintf("%s (%s)", msg, txn.Status)
	}
	return ChargeResult{Success: true, Message: msg, Reference: txn.ID}, nil
}

// paddleRefusal reports whether err is Paddle refusing the request, as opposed to
// failing to serve it. The SDK decodes both into paddleerr.Error, so the type tells them apart.
func paddleRefusal(err error) (*paddleerr.Error, bool) {
	var apiErr *paddleerr.Error
	if !errors.As(err, &apiErr) {
		return nil, false
	}
	switch {
	case apiErr.Type == paddleerr.ErrorTypeAPIError,
		apiErr.Code == "bad_gateway",
		apiErr.Status >= http.StatusInternalServerError:
		return apiErr, false
	}
	return apiErr, true
}
