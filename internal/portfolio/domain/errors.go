package domain

import "errors"

var (
	ErrClientNotFound         = errors.New("client not found")
	ErrAdvisorNotFound        = errors.New("advisor not found")
	ErrInvoiceNotFound        = errors.New("invoice not found")
	ErrPromiseNotFound        = errors.New("promise not found")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrInvalidCreditStatus    = errors.New("invalid credit status")
	ErrInvalidPromiseStatus   = errors.New("invalid promise status")
	ErrPromiseAlreadyResolved = errors.New("promise already resolved")
	ErrPaymentExceedsBalance  = errors.New("payment exceeds outstanding balance")
	ErrDuplicateInvoiceNumber = errors.New("duplicate invoice number")
)
