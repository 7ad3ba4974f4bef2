// Package payment implements eSewa payment initiation.  The gateway expects
// an HMAC-SHA256 signature over a fixed-format field string; everything else
// happens on the gateway side.
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
)

// ESewaClient signs payment initiation requests.  The secret is injected at
// construction; there is no package-level key.
type ESewaClient struct {
	ProductCode string
	secret      []byte
}

func NewESewaClient(productCode, secret string) *ESewaClient {
	return &ESewaClient{ProductCode: productCode, secret: []byte(secret)}
}

// Sign computes the base64 HMAC-SHA256 over the exact field string eSewa
// verifies: total_amount, transaction_uuid and product_code, in that order.
func (c *ESewaClient) Sign(totalAmount, transactionUUID string) string {
	msg := fmt.Sprintf("total_amount=%s,transaction_uuid=%s,product_code=%s",
		totalAmount, transactionUUID, c.ProductCode)
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(msg))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// InitiationFields is the signed field set the client posts to the gateway
// form endpoint.
type InitiationFields struct {
	Amount          string `json:"amount"`
	TotalAmount     string `json:"total_amount"`
	TransactionUUID string `json:"transaction_uuid"`
	ProductCode     string `json:"product_code"`
	SignedFieldName string `json:"signed_field_names"`
	Signature       string `json:"signature"`
}

// Initiate generates a fresh transaction UUID and returns the signed field
// set for the given amount (already formatted per gateway rules).
func (c *ESewaClient) Initiate(totalAmount string) InitiationFields {
	txn := uuid.NewString()
	return InitiationFields{
		Amount:          totalAmount,
		TotalAmount:     totalAmount,
		TransactionUUID: txn,
		ProductCode:     c.ProductCode,
		SignedFieldName: "total_amount,transaction_uuid,product_code",
		Signature:       c.Sign(totalAmount, txn),
	}
}
