package controllers

import (
	"testing"
	"time"

	"carniceria-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPaymentConfirmationAdvancesPendingOrder(t *testing.T) {
	order := models.Order{Order_id: "o1", Status: models.StatusPendiente}
	now := time.Now()

	changed := applyPaymentConfirmation(&order, models.PaymentOnline, now)

	assert.True(t, changed)
	assert.True(t, order.Paid)
	assert.Equal(t, models.StatusEnPreparacion, order.Status)
	require.NotNil(t, order.Payment_method)
	assert.Equal(t, models.PaymentOnline, *order.Payment_method)
	require.NotNil(t, order.Payment_date)
	assert.Equal(t, now, *order.Payment_date)
}

func TestApplyPaymentConfirmationKeepsLaterStatus(t *testing.T) {
	// Paying at the counter for an order that is already being prepared must
	// not move it backwards.
	order := models.Order{Order_id: "o1", Status: models.StatusListoParaRetiro}

	changed := applyPaymentConfirmation(&order, models.PaymentLocal, time.Now())

	assert.True(t, changed)
	assert.Equal(t, models.StatusListoParaRetiro, order.Status)
}

func TestApplyReceiptSubmission(t *testing.T) {
	order := models.Order{Order_id: "o1", Status: models.StatusPendiente}

	receipt, err := applyReceiptSubmission(&order, "https://files.example.com/r1.jpg")
	require.NoError(t, err)
	assert.Equal(t, models.ReceiptPending, receipt.Status)
	assert.Equal(t, "https://files.example.com/r1.jpg", *receipt.Receipt_url)
	assert.Nil(t, receipt.Validated_at)
}

func TestApplyReceiptSubmissionReplacesRejected(t *testing.T) {
	rejected := models.ReceiptValidation{Status: models.ReceiptRejected, Receipt_url: sptr("https://files.example.com/blurry.jpg")}
	order := models.Order{Order_id: "o1", Receipt_validation: &rejected}

	receipt, err := applyReceiptSubmission(&order, "https://files.example.com/legible.jpg")
	require.NoError(t, err)
	assert.Equal(t, models.ReceiptPending, receipt.Status)
	assert.Equal(t, "https://files.example.com/legible.jpg", *receipt.Receipt_url)
}

func TestApplyReceiptSubmissionRejectsApprovedOrder(t *testing.T) {
	// An approved validation is final; a resubmission must not reset a paid
	// order's receipt back to pending.
	now := time.Now()
	approved := models.ReceiptValidation{
		Status:       models.ReceiptApproved,
		Receipt_url:  sptr("https://files.example.com/r1.jpg"),
		Validated_at: &now,
	}
	order := models.Order{Order_id: "o1", Paid: true, Receipt_validation: &approved}

	_, err := applyReceiptSubmission(&order, "https://files.example.com/r2.jpg")
	assert.Error(t, err)
	assert.Equal(t, models.ReceiptApproved, order.Receipt_validation.Status)
	assert.NotNil(t, order.Receipt_validation.Validated_at)
}

func TestApplyPaymentConfirmationIsIdempotent(t *testing.T) {
	order := models.Order{Order_id: "o1", Status: models.StatusPendiente}
	first := time.Now()
	require.True(t, applyPaymentConfirmation(&order, models.PaymentTransfer, first))

	changed := applyPaymentConfirmation(&order, models.PaymentOnline, first.Add(time.Hour))

	assert.False(t, changed)
	assert.Equal(t, models.PaymentTransfer, *order.Payment_method)
	assert.Equal(t, first, *order.Payment_date)
}
