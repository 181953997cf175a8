package models

import "time"

// MessageType is one of the SME common EDI message types.
type MessageType string

const (
	MessageQuotation                       MessageType = "quotation"
	MessageQuotationResponse               MessageType = "quotation_response"
	MessageOrder                           MessageType = "order"
	MessageOrderResponse                   MessageType = "order_response"
	MessageDespatchAdvice                  MessageType = "despatch_advice"
	MessageReceivingAdvice                 MessageType = "receiving_advice"
	MessageInvoice                         MessageType = "invoice"
	MessageConsolidatedInvoice             MessageType = "consolidated_invoice"
	MessageSelfInvoice                     MessageType = "self_invoice"
	MessageConsolidatedSelfInvoice         MessageType = "consolidated_self_invoice"
	MessageSelfInvoiceResponse             MessageType = "self_invoice_response"
	MessageConsolidatedSelfInvoiceResponse MessageType = "consolidated_self_invoice_response"
	MessageRemittanceAdvice                MessageType = "remittance_advice"
	MessageDemandForecast                  MessageType = "demand_forecast"
	MessageSupplyInstruction               MessageType = "supply_instruction"
)

var messageTypes = map[MessageType]bool{
	MessageQuotation: true, MessageQuotationResponse: true,
	MessageOrder: true, MessageOrderResponse: true,
	MessageDespatchAdvice: true, MessageReceivingAdvice: true,
	MessageInvoice: true, MessageConsolidatedInvoice: true,
	MessageSelfInvoice: true, MessageConsolidatedSelfInvoice: true,
	MessageSelfInvoiceResponse: true, MessageConsolidatedSelfInvoiceResponse: true,
	MessageRemittanceAdvice: true, MessageDemandForecast: true,
	MessageSupplyInstruction: true,
}

// Valid reports whether t is a known message type.
func (t MessageType) Valid() bool {
	return messageTypes[t]
}

// MessageStatus is the delivery state of a message.
type MessageStatus string

const (
	StatusPending   MessageStatus = "pending"
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusError     MessageStatus = "error"
	StatusProcessed MessageStatus = "processed"
)

// Message is an EDI business message exchanged between applications.
type Message struct {
	ID           string         `json:"id"`
	MessageType  MessageType    `json:"messageType"`
	SenderID     string         `json:"senderId"`
	ReceiverID   string         `json:"receiverId,omitempty"`
	Status       MessageStatus  `json:"status"`
	Data         map[string]any `json:"data"`
	XMLData      string         `json:"xmlData,omitempty"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeliveredAt  *time.Time     `json:"deliveredAt,omitempty"`
}

// Application is a registered business application allowed to exchange messages.
type Application struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	APIKeyHash string    `json:"-"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}
